package generation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The completion backend is asked to return bare JSON but routinely wraps it
// in prose or markdown fences. These helpers locate and decode the first
// well-formed payload instead of trusting the reply verbatim.

// ExtractJSON returns the first balanced JSON object or array found in text,
// honoring string literals and escapes so braces inside strings don't
// terminate the scan early.
func ExtractJSON(text string, open, close byte) (string, error) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", fmt.Errorf("no %q found in text", string(open))
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unbalanced %q in text", string(open))
}

// UnmarshalObject decodes the first JSON object embedded in text into v.
func UnmarshalObject(text string, v any) error {
	payload, err := ExtractJSON(text, '{', '}')
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("decode embedded object: %w", err)
	}
	return nil
}

// UnmarshalArray decodes the first JSON array embedded in text into v.
func UnmarshalArray(text string, v any) error {
	payload, err := ExtractJSON(text, '[', ']')
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("decode embedded array: %w", err)
	}
	return nil
}
