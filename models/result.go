package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ResultPayload is the success body of the summarization service. Every
// field may be absent.
type ResultPayload struct {
	Transcript    Optional[string]                     `json:"transcript"`
	PatternResult Optional[PatternResult]              `json:"pattern_result"`
	Metadata      Optional[map[string]json.RawMessage] `json:"metadata"`
	Comments      Optional[[]Comment]                  `json:"comments"`
}

// PatternResult is either plain text or an arbitrary structured JSON value.
type PatternResult struct {
	text       string
	structured json.RawMessage
}

func TextResult(text string) PatternResult {
	return PatternResult{text: text}
}

func StructuredResult(raw json.RawMessage) PatternResult {
	return PatternResult{structured: append(json.RawMessage(nil), raw...)}
}

func (p PatternResult) IsText() bool { return p.structured == nil }

// Empty reports whether there is nothing to show: an empty string counts as
// no result.
func (p PatternResult) Empty() bool {
	return p.structured == nil && p.text == ""
}

// Display returns text unchanged and structured values pretty-printed with
// two-space indentation.
func (p PatternResult) Display() string {
	if p.IsText() {
		return p.text
	}
	var out bytes.Buffer
	if err := json.Indent(&out, p.structured, "", "  "); err != nil {
		return string(p.structured)
	}
	return out.String()
}

func (p *PatternResult) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*p = TextResult(s)
		return nil
	}
	if !json.Valid(trimmed) {
		return fmt.Errorf("pattern_result: invalid JSON value")
	}
	*p = StructuredResult(trimmed)
	return nil
}

func (p PatternResult) MarshalJSON() ([]byte, error) {
	if p.IsText() {
		return json.Marshal(p.text)
	}
	return p.structured, nil
}

// Comment is one entry of the comments list. Non-string entries are kept as
// compact JSON text.
type Comment string

func (c *Comment) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*c = ""
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*c = Comment(s)
	default:
		var out bytes.Buffer
		if err := json.Compact(&out, trimmed); err != nil {
			return err
		}
		*c = Comment(out.String())
	}
	return nil
}
