// Package fixtures provides reusable test data generators for package tests.
// It keeps article records consistent across the layout, dispatch and
// notifier test suites.
package fixtures

import (
	"fmt"
	"time"

	"newsie/internal/domain/entity"
)

// BasePublishedAt is the timestamp used for generated articles.
const BasePublishedAt = "2021-03-01T01:01:01Z"

// ArticleOptions configures the generated article records.
type ArticleOptions struct {
	// Count is the number of records to generate.
	Count int

	// WithoutDescription leaves Description empty, as when the source sends null.
	WithoutDescription bool

	// WithoutImage leaves ImageURL empty.
	WithoutImage bool

	// Spacing is added to BasePublishedAt for each successive record.
	// Zero keeps every record at BasePublishedAt.
	Spacing time.Duration
}

// GenerateArticles returns Count articles with distinct titles and URLs.
//
// Example:
//
//	articles := fixtures.GenerateArticles(fixtures.ArticleOptions{Count: 16})
func GenerateArticles(opts ArticleOptions) []entity.ArticleRecord {
	base, _ := time.Parse(time.RFC3339, BasePublishedAt)

	articles := make([]entity.ArticleRecord, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		a := entity.ArticleRecord{
			Title:       fmt.Sprintf("headline number %d", i+1),
			Description: fmt.Sprintf("Summary of story %d", i+1),
			URL:         fmt.Sprintf("https://news.example.com/articles/%d", i+1),
			ImageURL:    fmt.Sprintf("https://img.example.com/%d.jpg", i+1),
			SourceName:  "Example Wire",
			PublishedAt: base.Add(time.Duration(i) * opts.Spacing).UTC().Format("2006-01-02T15:04:05Z"),
		}
		if opts.WithoutDescription {
			a.Description = ""
		}
		if opts.WithoutImage {
			a.ImageURL = ""
		}
		articles = append(articles, a)
	}
	return articles
}

// Article returns a single well-formed article.
func Article() entity.ArticleRecord {
	return GenerateArticles(ArticleOptions{Count: 1})[0]
}

// ArticleWithTimestamp returns a well-formed article whose PublishedAt is raw.
func ArticleWithTimestamp(raw string) entity.ArticleRecord {
	a := Article()
	a.PublishedAt = raw
	return a
}
