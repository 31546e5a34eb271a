package layout

import (
	"errors"
	"fmt"

	"newsie/internal/domain/entity"
)

const (
	// DefaultGroupSize is the number of articles per payload.
	DefaultGroupSize = 8

	// IntroText is the greeting shown after the header of the first payload.
	IntroText = "Hey there! I found a few articles you may be interested in. " +
		"I've listed them below. If you want to read the full article, click on the button.\n\n" +
		"*I hope you read something interesting!*\n"

	// ContinuedText opens every payload after the first.
	ContinuedText = "Articles continued..."

	// unitsPerArticle is the Divider, Content, Action triple.
	unitsPerArticle = 3
	// leadingUnits is the most units placed before the first article (Header + intro).
	leadingUnits = 2
)

// ErrInvalidGroupSize is returned when the chunker is configured with a non-positive group size.
var ErrInvalidGroupSize = errors.New("group size must be positive")

// MaxUnits returns the largest payload the chunker can produce for groupSize.
// Callers compare it with the destination's block ceiling.
func MaxUnits(groupSize int) int {
	return leadingUnits + unitsPerArticle*groupSize
}

// SkippedArticle records an article that could not be rendered.
// Index is the position in the input slice.
type SkippedArticle struct {
	Index int
	Title string
	Err   error
}

// ChunkResult is the outcome of chunking one query's articles.
type ChunkResult struct {
	Payloads []Payload
	Skipped  []SkippedArticle
}

// Chunker partitions rendered articles into payloads.
//
// GroupSize is not clamped; the caller must pick a value whose MaxUnits fits
// the destination ceiling.
type Chunker struct {
	Formatter Formatter
	GroupSize int
}

// NewChunker creates a Chunker. A groupSize of zero selects DefaultGroupSize.
func NewChunker(f Formatter, groupSize int) *Chunker {
	if groupSize == 0 {
		groupSize = DefaultGroupSize
	}
	return &Chunker{Formatter: f, GroupSize: groupSize}
}

type renderedArticle struct {
	content Content
	action  Action
}

// Chunk renders articles and partitions them, in order, into payloads of at
// most GroupSize articles.
//
// Articles whose timestamps cannot be parsed are left out and reported in
// ChunkResult.Skipped; the rest are still chunked. No articles (or none that
// render) yields no payloads.
//
// The first payload starts with a Header holding the capitalized query name
// and the intro Content. Later payloads start with the ContinuedText Content.
// Each article contributes a Divider, Content, Action triple.
func (c *Chunker) Chunk(queryName string, articles []entity.ArticleRecord) (ChunkResult, error) {
	if c.GroupSize <= 0 {
		return ChunkResult{}, fmt.Errorf("chunk %q: %w (got %d)", queryName, ErrInvalidGroupSize, c.GroupSize)
	}

	var result ChunkResult
	rendered := make([]renderedArticle, 0, len(articles))
	for i, article := range articles {
		content, action, err := c.Formatter.Render(article)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedArticle{Index: i, Title: article.Title, Err: err})
			continue
		}
		rendered = append(rendered, renderedArticle{content: content, action: action})
	}

	if len(rendered) == 0 {
		return result, nil
	}

	total := (len(rendered) + c.GroupSize - 1) / c.GroupSize
	result.Payloads = make([]Payload, 0, total)

	for index := 0; index < total; index++ {
		start := index * c.GroupSize
		end := min(start+c.GroupSize, len(rendered))
		group := rendered[start:end]

		units := make([]Unit, 0, leadingUnits+unitsPerArticle*len(group))
		if index == 0 {
			units = append(units,
				Header{Text: Capitalize(queryName)},
				Content{Text: IntroText},
			)
		} else {
			units = append(units, Content{Text: ContinuedText})
		}

		for _, r := range group {
			units = append(units, Divider{}, r.content, r.action)
		}

		result.Payloads = append(result.Payloads, Payload{
			QueryName: queryName,
			Index:     index,
			Total:     total,
			Units:     units,
		})
	}

	return result, nil
}
