package genai

import (
	"context"
	"fmt"
	"strings"

	"sattva/internal/activity"
)

const handoffSystemPrompt = `You are the voice navigator of a wellness companion.
The user just finished an activity. In one or two warm sentences, acknowledge
what they did and ask what they'd like next. Speak directly to the user.`

// HandoffInput carries whatever material is available about the session the
// user just left. Exactly one of the fields is typically set.
type HandoffInput struct {
	ToolID     string
	ToolResult string
	Transcript []activity.Message
}

// ContinuationPrompt asks the model for the short natural-language re-entry
// line spoken when the voice navigator opens after a session ends.
func ContinuationPrompt(ctx context.Context, client Client, in HandoffInput) (string, error) {
	var prompt string
	switch {
	case in.ToolResult != "":
		prompt = fmt.Sprintf("The user completed the %s tool. Result summary: %s", in.ToolID, in.ToolResult)
	case len(in.Transcript) > 0:
		prompt = "The user just ended this mentor conversation:\n" + renderTranscript(in.Transcript)
	default:
		prompt = "The user just closed an activity. Offer a gentle, open-ended next step."
	}
	return client.GenerateText(ctx, Request{System: handoffSystemPrompt, Prompt: prompt, Temperature: 0.8, MaxTokens: 120})
}

func renderTranscript(messages []activity.Message) string {
	const maxTurns = 12
	if len(messages) > maxTurns {
		messages = messages[len(messages)-maxTurns:]
	}
	var b strings.Builder
	for _, m := range messages {
		b.WriteString(string(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Text)
		b.WriteString("\n")
	}
	return b.String()
}
