package models

import "strings"

// Language is sent with every summary request.
const Language = "en"

// FormInput is everything the user can edit in the transcript widget.
type FormInput struct {
	VideoURL     string
	Pattern      string
	WithMetadata bool
	WithComments bool
}

// HasPattern reports whether an analysis pattern is selected.
func (f FormInput) HasPattern() bool {
	return strings.TrimSpace(f.Pattern) != ""
}

// SummaryRequest is the JSON body of POST /api/youtube.
type SummaryRequest struct {
	URL          string `json:"url"`
	Pattern      string `json:"pattern,omitempty"`
	Language     string `json:"language"`
	WithMetadata bool   `json:"with_metadata"`
	WithComments bool   `json:"with_comments"`
}

// Request builds the wire request for the current input. The pattern is
// omitted when none is selected.
func (f FormInput) Request() SummaryRequest {
	req := SummaryRequest{
		URL:          strings.TrimSpace(f.VideoURL),
		Language:     Language,
		WithMetadata: f.WithMetadata,
		WithComments: f.WithComments,
	}
	if f.HasPattern() {
		req.Pattern = strings.TrimSpace(f.Pattern)
	}
	return req
}
