package validation

import (
	"net/url"
	"strings"

	"github.com/nijaru/yt-summary/errors"
)

// EmptyURLMessage is shown when the video URL field is blank.
const EmptyURLMessage = "Please enter a YouTube video URL"

type Validator struct {
	strict bool
}

// NewValidator returns a validator. With strict set, URLs must also be
// http(s) links to a YouTube host; otherwise the remote service decides.
func NewValidator(strict bool) *Validator {
	return &Validator{strict: strict}
}

// ValidateURL returns the trimmed URL or a validation error.
func (v *Validator) ValidateURL(rawURL string) (string, error) {
	const op = "Validator.ValidateURL"

	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", errors.Validation(op, nil, EmptyURLMessage)
	}
	if !v.strict {
		return trimmed, nil
	}

	parsedURL, err := url.ParseRequestURI(trimmed)
	if err != nil {
		return "", errors.Validation(op, err, "Invalid URL format")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", errors.Validation(op, nil, "URL must start with http or https")
	}
	if !isYouTubeDomain(parsedURL.Hostname()) {
		return "", errors.Validation(op, nil, "Only YouTube URLs are supported")
	}
	if parsedURL.Hostname() != "youtu.be" && strings.TrimPrefix(parsedURL.Path, "/") == "watch" {
		if parsedURL.Query().Get("v") == "" {
			return "", errors.Validation(op, nil, "YouTube URL must contain a valid video ID")
		}
	}

	return trimmed, nil
}

func isYouTubeDomain(host string) bool {
	host = strings.ToLower(host)
	return host == "youtu.be" || host == "youtube.com" || strings.HasSuffix(host, ".youtube.com")
}
