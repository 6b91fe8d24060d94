package extract

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse_Clarification(t *testing.T) {
	text := `Sure, let me ask a few things first.
{"type": "clarification", "questions": {"Budget": {"question": "What is your budget?", "options": ["<1000", "1000-1500"]}}}`

	result, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !result.NeedsClarification() {
		t.Fatal("expected clarification result")
	}

	want := map[string]Question{
		"Budget": {Question: "What is your budget?", Options: []string{"<1000", "1000-1500"}},
	}
	if diff := cmp.Diff(want, result.Questions); diff != "" {
		t.Errorf("questions mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Recommendations(t *testing.T) {
	text := `Here is what I found: {"overview": "Two solid picks.", "recommendations": [{"name": "X1 Carbon", "description": "Light business laptop", "price": "$1399", "pros": ["keyboard"]}, {"name": "MacBook Air", "description": "Fanless"}]} Hope that helps!`

	result, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if result.NeedsClarification() {
		t.Fatal("did not expect clarification")
	}
	if result.Overview != "Two solid picks." {
		t.Errorf("overview = %q", result.Overview)
	}

	want := []Recommendation{
		{Name: "X1 Carbon", Description: "Light business laptop", Price: "$1399", Pros: []string{"keyboard"}},
		{Name: "MacBook Air", Description: "Fanless"},
	}
	if diff := cmp.Diff(want, result.Recommendations); diff != "" {
		t.Errorf("recommendations mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_AbsentFieldsDefaultEmpty(t *testing.T) {
	result, err := Parse(`{}`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if result.NeedsClarification() {
		t.Error("empty object should not be a clarification")
	}
	if len(result.Recommendations) != 0 || result.Overview != "" {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestParse_ClarificationTypeWithoutQuestions(t *testing.T) {
	// A clarification discriminator with an empty question set is not a
	// usable clarification; it falls through to the recommendation shape.
	result, err := Parse(`{"type": "clarification", "questions": {}}`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if result.NeedsClarification() {
		t.Error("clarification without questions should not need clarification")
	}
}

func TestParse_MalformedInput(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"no delimiters", "plain conversational text, no object"},
		{"only open brace", "something { unterminated"},
		{"inverted braces", "} backwards {"},
		{"invalid json in span", `preamble {"type": } trailer`},
		{"empty input", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.text)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
		})
	}
}

func TestClarification_FailsOpen(t *testing.T) {
	// Malformed payloads must probe as "no clarification needed" so the
	// caller proceeds down the recommendation path instead of erroring.
	if q := Clarification("not json at all"); q != nil {
		t.Errorf("malformed payload probed as clarification: %v", q)
	}
	if q := Clarification(`{"recommendations": []}`); q != nil {
		t.Errorf("recommendation payload probed as clarification: %v", q)
	}
	if q := Clarification(`{"type": "clarification", "questions": {"Size": {"question": "Which size?", "options": ["S", "M"]}}}`); q == nil {
		t.Error("well-formed clarification payload probed as nil")
	}
}

func TestSpan_PicksOutermostBraces(t *testing.T) {
	span, err := Span(`before {"a": {"b": 1}} after`)
	if err != nil {
		t.Fatalf("Span returned error: %v", err)
	}
	if span != `{"a": {"b": 1}}` {
		t.Errorf("span = %q", span)
	}
}
