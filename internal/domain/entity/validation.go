package entity

import (
	"fmt"
	"net/url"
)

// maxURLLength defines the maximum allowed length for configured endpoint URLs.
const maxURLLength = 2048

// ValidateURL validates the format of an endpoint URL such as the news API base URL.
// It checks that the URL is well-formed, uses HTTP/HTTPS scheme, and has a valid host.
// Returns a ValidationError if the URL is invalid or empty.
func ValidateURL(field, rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: field, Message: "URL is required"}
	}

	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("url must not exceed %d characters", maxURLLength),
		}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: field, Message: fmt.Sprintf("parse URL: %v", err)}
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: field, Message: "URL must use http or https scheme"}
	}

	if parsedURL.Host == "" {
		return &ValidationError{Field: field, Message: "URL must have a valid host"}
	}

	return nil
}

// ValidateCode checks that value is a two-letter lowercase code such as an
// ISO 3166 country ("us") or ISO 639-1 language ("en"). Empty is allowed and
// means the filter is not set.
func ValidateCode(field, value string) error {
	if value == "" {
		return nil
	}
	if len(value) != 2 {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be a 2-letter code, got %q", value)}
	}
	for i := 0; i < len(value); i++ {
		if value[i] < 'a' || value[i] > 'z' {
			return &ValidationError{Field: field, Message: fmt.Sprintf("must be lowercase letters, got %q", value)}
		}
	}
	return nil
}
