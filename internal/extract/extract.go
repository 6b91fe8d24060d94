// Package extract pulls structured payloads out of the loosely-delimited text
// the recommendation service returns. Responses are conversational text with
// exactly one JSON object embedded somewhere inside; the object is located by
// the first '{' and the last '}' and everything outside that span is ignored.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError reports a malformed service payload: missing or inverted JSON
// delimiters, or a span that does not decode as a JSON object.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("extract: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// clarificationType is the discriminator value the service uses when it needs
// more information before it can recommend anything.
const clarificationType = "clarification"

// Question is a single clarifying question with its preset answer options.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Recommendation is one recommended product as the service describes it.
// Price, features and pros are optional; the enrichment data (buy links,
// reviews) arrives separately through the product-details endpoint.
type Recommendation struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price,omitempty"`
	Features    []string `json:"features,omitempty"`
	Pros        []string `json:"pros,omitempty"`
}

// Result is the parsed form of a chat response: either a set of clarifying
// questions, or recommendations with an overview.
type Result struct {
	// Questions is non-nil when the service asked for clarification.
	Questions map[string]Question

	// Recommendations and Overview are populated otherwise. Both may be
	// empty when the payload omits them.
	Recommendations []Recommendation
	Overview        string
}

// NeedsClarification reports whether the result carries clarifying questions.
func (r *Result) NeedsClarification() bool { return len(r.Questions) > 0 }

// responsePayload mirrors the embedded JSON object. The service emits either
// {type: "clarification", questions: {...}} or {recommendations: [...], overview: "..."}.
type responsePayload struct {
	Type            string              `json:"type"`
	Questions       map[string]Question `json:"questions"`
	Recommendations []Recommendation    `json:"recommendations"`
	Overview        string              `json:"overview"`
}

// Span returns the JSON object span of a raw response text.
// Returns a ParseError when no object can be located.
func Span(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return "", &ParseError{Reason: "no JSON object delimiters in response"}
	}
	return text[start : end+1], nil
}

// Parse extracts the structured object from a raw chat response.
//
// A payload whose discriminator equals "clarification" and that carries at
// least one question yields a clarification Result; anything else yields a
// recommendation Result with whatever fields are present. Malformed input
// fails with a ParseError; the caller decides whether that is fatal.
func Parse(text string) (*Result, error) {
	span, err := Span(text)
	if err != nil {
		return nil, err
	}

	var payload responsePayload
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		return nil, &ParseError{Reason: "response span is not valid JSON", Err: err}
	}

	if payload.Type == clarificationType && len(payload.Questions) > 0 {
		return &Result{Questions: payload.Questions}, nil
	}

	return &Result{
		Recommendations: payload.Recommendations,
		Overview:        payload.Overview,
	}, nil
}

// Clarification is the fail-open probe used before committing to the
// recommendation path: it returns the question set when the payload is a
// well-formed clarification request, and nil for everything else including
// malformed payloads. Errors are deliberately swallowed here so that a
// garbled response degrades to "show recommendations" rather than a failure.
func Clarification(text string) map[string]Question {
	result, err := Parse(text)
	if err != nil {
		return nil
	}
	if result.NeedsClarification() {
		return result.Questions
	}
	return nil
}
