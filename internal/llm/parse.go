package llm

import (
	"encoding/json"
	"strings"
)

// ParseCardResponse extracts a question/answer pair from a model response.
// The expected shape is a JSON object {"question": ..., "answer": ...},
// optionally wrapped in a markdown code fence. Any other shape yields an
// empty card rather than an error so the user can fill the fields by hand.
func ParseCardResponse(response string) Card {
	cleaned := stripCodeFence(strings.TrimSpace(response))

	card := Card{Raw: response}
	if err := json.Unmarshal([]byte(cleaned), &card); err != nil {
		return Card{Raw: response}
	}
	return card
}

// stripCodeFence removes a surrounding markdown code fence, with or without
// a language tag.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line ("json" etc.).
		first := strings.TrimSpace(s[:idx])
		if first == "" || !strings.HasPrefix(first, "{") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
