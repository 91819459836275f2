package googlegenai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/RichardKnop/petrag"
)

var intentSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"intent": {
			Type: genai.TypeString,
			Enum: []string{
				string(petrag.IntentMedical),
				string(petrag.IntentFacilitySearch),
				string(petrag.IntentGeneral),
			},
		},
		"confidence": {Type: genai.TypeNumber},
		"reason":     {Type: genai.TypeString},
	},
	Required: []string{"intent", "confidence", "reason"},
}

type intentResponse struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

func (a *Adapter) ClassifyIntent(ctx context.Context, question string) (petrag.IntentResult, error) {
	prompt, err := render(a.templates.intent, struct{ Question string }{question})
	if err != nil {
		return petrag.IntentResult{}, err
	}

	text, err := a.generateJSON(ctx, prompt, intentSchema, genai.Ptr[float32](0))
	if err != nil {
		return petrag.IntentResult{}, err
	}

	return parseIntentResponse(text)
}

func parseIntentResponse(text string) (petrag.IntentResult, error) {
	var structured intentResponse
	if err := json.Unmarshal([]byte(text), &structured); err != nil {
		return petrag.IntentResult{}, fmt.Errorf("unmarshalling intent response: %w", err)
	}

	intent := petrag.Intent(strings.ToUpper(strings.TrimSpace(structured.Intent)))
	if !intent.Valid() {
		return petrag.IntentResult{}, fmt.Errorf("unknown intent %q", structured.Intent)
	}

	reason := strings.TrimSpace(structured.Reason)
	if reason == "" {
		return petrag.IntentResult{}, fmt.Errorf("intent %s without a reason", intent)
	}

	return petrag.IntentResult{
		Intent:     intent,
		Confidence: structured.Confidence,
		Reason:     reason,
	}, nil
}
