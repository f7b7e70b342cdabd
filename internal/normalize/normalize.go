package normalize

import (
	"encoding/json"
	"strings"
)

// Kind tags the outcome of normalization.
type Kind int

const (
	// KindText means the content did not parse as a JSON object; Text holds
	// the fence-stripped input unchanged.
	KindText Kind = iota
	// KindJSON means the content parsed; Object holds the envelope-unwrapped
	// object and Text its serialized form.
	KindJSON
)

// Result is the normalized interpretation of gateway output.
type Result struct {
	Kind   Kind
	Text   string
	Object map[string]any
}

// Envelope keys models commonly wrap their answer in. Unwrapped one level.
var envelopeKeys = []string{"lessonPlan", "storyLessonPlan"}

// Normalize makes gateway output robust to common LLM formatting noise:
// trim whitespace, strip a wrapping triple-backtick fence (optionally tagged
// with a language name), attempt a JSON parse and unwrap one known envelope
// level. On parse failure the fence-stripped text is returned unchanged.
// Idempotent: Normalize(Normalize(x).Text) equals Normalize(x).
func Normalize(content string) Result {
	cleaned := StripFence(strings.TrimSpace(content))

	var parsed map[string]any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return Result{Kind: KindText, Text: cleaned}
	}

	for _, key := range envelopeKeys {
		if inner, ok := parsed[key].(map[string]any); ok {
			parsed = inner
			break
		}
	}

	return Result{Kind: KindJSON, Text: cleaned, Object: parsed}
}

// StripFence removes wrapping ``` fences to a fixed point: stripping one
// fence can expose another, and re-normalizing must not change the result.
// The opening fence may carry a language tag (```json). Content without a
// fence passes through untouched.
func StripFence(s string) string {
	trimmed := strings.TrimSpace(s)
	for strings.HasPrefix(trimmed, "```") {
		rest := trimmed[3:]
		// Drop the language tag up to the first newline.
		if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
			rest = rest[idx+1:]
		} else {
			rest = strings.TrimLeft(rest, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
		}
		rest = strings.TrimSuffix(strings.TrimSpace(rest), "```")
		trimmed = strings.TrimSpace(rest)
	}
	return trimmed
}
