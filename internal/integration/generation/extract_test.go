package generation

import "testing"

func TestExtractJSONObjectFromProse(t *testing.T) {
	text := "Sure! Here is the analysis you asked for:\n```json\n{\"score\": 85, \"feedback\": \"Good {nested} answer\"}\n```\nLet me know if you need more."

	var payload struct {
		Score    float64 `json:"score"`
		Feedback string  `json:"feedback"`
	}
	if err := UnmarshalObject(text, &payload); err != nil {
		t.Fatalf("unmarshal object: %v", err)
	}

	if payload.Score != 85 {
		t.Fatalf("expected score 85, got %v", payload.Score)
	}
	if payload.Feedback != "Good {nested} answer" {
		t.Fatalf("unexpected feedback: %q", payload.Feedback)
	}
}

func TestExtractJSONHonorsBracesInsideStrings(t *testing.T) {
	text := `{"note": "closing brace in string } should not end the scan", "ok": true}`

	payload, err := ExtractJSON(text, '{', '}')
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if payload != text {
		t.Fatalf("expected whole object, got %q", payload)
	}
}

func TestExtractJSONHonorsEscapedQuotes(t *testing.T) {
	text := `prefix {"quote": "he said \"hello\""} suffix`

	payload, err := ExtractJSON(text, '{', '}')
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if payload != `{"quote": "he said \"hello\""}` {
		t.Fatalf("unexpected payload: %q", payload)
	}
}

func TestUnmarshalArrayFromProse(t *testing.T) {
	text := `The five questions are: ["What is a heap?", "Explain O(log n)."] — good luck!`

	var questions []string
	if err := UnmarshalArray(text, &questions); err != nil {
		t.Fatalf("unmarshal array: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if questions[0] != "What is a heap?" {
		t.Fatalf("unexpected first question: %q", questions[0])
	}
}

func TestExtractJSONMissingPayload(t *testing.T) {
	if _, err := ExtractJSON("no json here", '{', '}'); err == nil {
		t.Fatal("expected error for text without JSON")
	}

	if _, err := ExtractJSON(`{"unbalanced": true`, '{', '}'); err == nil {
		t.Fatal("expected error for unbalanced JSON")
	}
}
