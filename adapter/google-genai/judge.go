package googlegenai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"google.golang.org/genai"
)

var judgeSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"score":  {Type: genai.TypeNumber},
		"reason": {Type: genai.TypeString},
	},
	Required: []string{"score", "reason"},
}

type judgeResponse struct {
	Score  *float64 `json:"score"`
	Reason string   `json:"reason"`
}

// Score asks the model how relevant document is to question.
func (a *Adapter) Score(ctx context.Context, question, document string) (float64, string, error) {
	prompt, err := render(a.templates.judge, struct {
		Question string
		Document string
	}{question, document})
	if err != nil {
		return 0, "", err
	}

	text, err := a.generateJSON(ctx, prompt, judgeSchema, genai.Ptr[float32](0))
	if err != nil {
		return 0, "", err
	}

	return parseJudgeResponse(text)
}

func parseJudgeResponse(text string) (float64, string, error) {
	var structured judgeResponse
	if err := json.Unmarshal([]byte(text), &structured); err != nil {
		return 0, "", fmt.Errorf("unmarshalling judge response: %w", err)
	}
	if structured.Score == nil {
		return 0, "", fmt.Errorf("judge response without score")
	}
	score := *structured.Score
	if math.IsNaN(score) || score < 0 || score > 1 {
		return 0, "", fmt.Errorf("judge score %v out of range", score)
	}
	return score, strings.TrimSpace(structured.Reason), nil
}
