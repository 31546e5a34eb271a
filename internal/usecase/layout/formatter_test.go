package layout

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsie/internal/domain/entity"
	"newsie/internal/testutil/fixtures"
)

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func TestFormatter_Render(t *testing.T) {
	// Arrange
	f := NewFormatter(newYork(t))
	article := entity.ArticleRecord{
		Title:       "markets rally on earnings",
		Description: "Stocks climbed for a third day.",
		URL:         "https://news.example.com/markets",
		ImageURL:    "https://img.example.com/markets.jpg",
		SourceName:  "Reuters",
		PublishedAt: "2021-03-01T01:01:01Z",
	}

	// Act
	content, action, err := f.Render(article)

	// Assert
	require.NoError(t, err)

	wantContent := Content{
		Text:     "*Markets rally on earnings*\nReuters | 2021-02-28 20:01:01\nStocks climbed for a third day..",
		ImageURL: "https://img.example.com/markets.jpg",
		AltText:  "alt text for image",
	}
	if diff := cmp.Diff(wantContent, content); diff != "" {
		t.Errorf("content mismatch (-want +got):\n%s", diff)
	}

	wantAction := Action{
		Label: "Read the Full Article",
		Value: "article_link",
		URL:   "https://news.example.com/markets",
	}
	if diff := cmp.Diff(wantAction, action); diff != "" {
		t.Errorf("action mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatter_Render_MissingDescription(t *testing.T) {
	f := NewFormatter(time.UTC)
	article := fixtures.GenerateArticles(fixtures.ArticleOptions{Count: 1, WithoutDescription: true})[0]

	content, _, err := f.Render(article)

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(content.Text, "\n."), "got %q", content.Text)
	assert.NotContains(t, content.Text, "None")
}

func TestFormatter_Render_MissingImage(t *testing.T) {
	f := NewFormatter(time.UTC)
	article := fixtures.GenerateArticles(fixtures.ArticleOptions{Count: 1, WithoutImage: true})[0]

	content, _, err := f.Render(article)

	require.NoError(t, err)
	assert.False(t, content.HasImage())
	assert.Empty(t, content.AltText)
}

func TestFormatter_Render_MalformedTimestamp(t *testing.T) {
	f := NewFormatter(time.UTC)

	_, _, err := f.Render(fixtures.ArticleWithTimestamp("definitely not a date"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrMalformedTimestamp))
}

func TestFormatter_Render_Idempotent(t *testing.T) {
	f := NewFormatter(newYork(t))
	article := fixtures.Article()

	c1, a1, err1 := f.Render(article)
	c2, a2, err2 := f.Render(article)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, c1, c2)
	assert.Equal(t, a1, a2)
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "finance news", want: "Finance news"},
		{in: "Already Capital", want: "Already Capital"},
		{in: "iPhone sales SOAR", want: "IPhone sales SOAR"},
		{in: "élan vital", want: "Élan vital"},
		{in: "42 reasons", want: "42 reasons"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Capitalize(tt.in))
		})
	}
}
