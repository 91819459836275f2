package googlegenai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/RichardKnop/petrag"
)

var textSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"text": {Type: genai.TypeString},
	},
	Required: []string{"text"},
}

type textResponse struct {
	Text string `json:"text"`
}

func (a *Adapter) Answer(ctx context.Context, question string, evidence []petrag.EvidenceItem, feedback string) (string, error) {
	prompt, err := render(a.templates.answer, struct {
		Question string
		Evidence []petrag.EvidenceItem
		Feedback string
	}{question, evidence, feedback})
	if err != nil {
		return "", err
	}

	a.logger.Sugar().With("evidence", len(evidence), "rewrite", feedback != "").Debug("generating answer")

	return a.generateText(ctx, prompt)
}

func (a *Adapter) Converse(ctx context.Context, question string) (string, error) {
	prompt, err := render(a.templates.converse, struct{ Question string }{question})
	if err != nil {
		return "", err
	}

	return a.generateText(ctx, prompt)
}

func (a *Adapter) generateText(ctx context.Context, prompt string) (string, error) {
	text, err := a.generateJSON(ctx, prompt, textSchema, nil)
	if err != nil {
		return "", err
	}
	return parseTextResponse(text)
}

func (a *Adapter) jsonConfig(schema *genai.Schema, temperature *float32) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
		Temperature:      temperature,
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: a.thinkingBudget,
		},
	}
}

func (a *Adapter) generateJSON(ctx context.Context, prompt string, schema *genai.Schema, temperature *float32) (string, error) {
	resp, err := a.client.Models.GenerateContent(
		ctx,
		a.generativeModel,
		genai.Text(prompt),
		a.jsonConfig(schema, temperature),
	)
	if err != nil {
		return "", fmt.Errorf("calling generative model: %w", err)
	}
	if len(resp.Candidates) != 1 {
		return "", fmt.Errorf("got %v candidates, expected 1", len(resp.Candidates))
	}

	return resp.Text(), nil
}

func parseTextResponse(text string) (string, error) {
	var structured textResponse
	if err := json.Unmarshal([]byte(text), &structured); err != nil {
		return "", fmt.Errorf("unmarshalling response: %w", err)
	}
	return strings.TrimSpace(structured.Text), nil
}
