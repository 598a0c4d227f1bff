package evaluator

import (
	"testing"

	"go.uber.org/zap"
)

func TestPIIMatchPatterns(t *testing.T) {
	e := NewPIIEvaluator(nil, "dslim/bert-base-NER", zap.NewNop())

	tests := []struct {
		name     string
		text     string
		wantType string
	}{
		{"email", "reach me at jane.doe@example.com please", "EMAIL"},
		{"phone", "call 555-867-5309 after lunch", "PHONE"},
		{"ip address", "the server lives at 192.168.1.10", "IP_ADDRESS"},
		{"visa card", "charged to 4111111111111111 yesterday", "CREDIT_CARD"},
		{"ssn", "SSN on file: 123-45-6789", "SSN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detected := e.matchPatterns(tt.text)
			if len(detected[tt.wantType]) == 0 {
				t.Errorf("expected %s match in %q, detected: %v", tt.wantType, tt.text, detected)
			}
		})
	}
}

func TestPIIMatchPatterns_CleanText(t *testing.T) {
	e := NewPIIEvaluator(nil, "dslim/bert-base-NER", zap.NewNop())

	detected := e.matchPatterns("the weather is pleasant today")
	if len(detected) != 0 {
		t.Errorf("clean text should have no matches, detected: %v", detected)
	}
}

func TestPIIMatchPatterns_Offsets(t *testing.T) {
	e := NewPIIEvaluator(nil, "dslim/bert-base-NER", zap.NewNop())

	text := "email: a@b.io"
	detected := e.matchPatterns(text)

	matches := detected["EMAIL"]
	if len(matches) != 1 {
		t.Fatalf("expected 1 email match, got %d", len(matches))
	}
	m := matches[0]
	if text[m.Start:m.End] != m.Text {
		t.Errorf("offsets do not cover match text: %q vs [%d:%d]", m.Text, m.Start, m.End)
	}
	if m.Text != "a@b.io" {
		t.Errorf("match text: got %q, want %q", m.Text, "a@b.io")
	}
}
