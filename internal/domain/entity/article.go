// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Query and ArticleRecord, along with
// their validation rules and domain-specific errors.
package entity

// ArticleRecord is one article returned by the news source for a query.
// Fields are copied verbatim from the source; an empty string means the
// source omitted the field or sent null. The core never mutates a record.
type ArticleRecord struct {
	Title       string
	Description string
	URL         string
	ImageURL    string
	SourceName  string

	// PublishedAt is the raw timestamp string as sent by the source.
	// It is normalized to UTC only when the article is rendered.
	PublishedAt string
}

// HasDescription reports whether the source supplied a description.
func (a ArticleRecord) HasDescription() bool {
	return a.Description != ""
}

// HasImage reports whether the source supplied an image URL.
func (a ArticleRecord) HasImage() bool {
	return a.ImageURL != ""
}
