package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"

	"sattva/internal/coherence"
	"sattva/internal/quest"
)

const questSystemPrompt = `You are a gentle wellness companion. Suggest one small, concrete practice.
Respond with JSON only: {"toolId": "...", "description": "..."}.
toolId must be one of: meditation, prayer, journaling, spending_map, dosha_quiz, breathwork, gratitude.`

// SuggestQuest asks the model for a quest targeting the most dissonant
// dimension. The model's JSON is repaired before parsing because generative
// output is routinely malformed around quoting and trailing commas.
func SuggestQuest(ctx context.Context, client Client, v coherence.Vector, now time.Time) (quest.Quest, error) {
	dim := coherence.MostDissonant(v)
	state := v.Dimensions[dim]
	prompt := fmt.Sprintf(
		"The user's %s dimension shows dissonance %.0f and coherence %.0f. Suggest one practice to ease it.",
		dim, state.Dissonance, state.Coherence,
	)

	text, err := client.GenerateText(ctx, Request{System: questSystemPrompt, Prompt: prompt, Temperature: 0.7})
	if err != nil {
		return quest.Quest{}, err
	}

	var parsed struct {
		ToolID      string `json:"toolId"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal([]byte(extractJSON(text)), &parsed); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(extractJSON(text))
		if repairErr != nil {
			return quest.Quest{}, fmt.Errorf("unparseable quest suggestion: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
			return quest.Quest{}, fmt.Errorf("unparseable quest suggestion after repair: %w", err)
		}
	}
	if parsed.ToolID == "" || parsed.Description == "" {
		return quest.Quest{}, fmt.Errorf("incomplete quest suggestion: %q", text)
	}
	return quest.New(parsed.ToolID, dim, parsed.Description, now), nil
}

// extractJSON strips markdown fences and surrounding prose so the payload
// starts at the first brace and ends at the last.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return text
	}
	return text[start : end+1]
}
