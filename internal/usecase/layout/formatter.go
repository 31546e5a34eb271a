package layout

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"newsie/internal/domain/entity"
)

const (
	// ButtonLabel is the text of the per-article link button.
	ButtonLabel = "Read the Full Article"
	// ButtonValue is the opaque value attached to the link button.
	ButtonValue = "article_link"
	// ImageAltText is the alt text for accessory images.
	ImageAltText = "alt text for image"
)

// Formatter renders a single article into a Content and an Action unit.
// Location is the display timezone; nil means UTC.
type Formatter struct {
	Location *time.Location
}

// NewFormatter creates a Formatter for the given display timezone.
func NewFormatter(loc *time.Location) Formatter {
	return Formatter{Location: loc}
}

// Render converts article into its Content and Action units.
//
// The content text is:
//
//	*<Headline>*\n<source> | <published in display zone>\n<description>.
//
// The trailing period is always appended. A missing description renders as
// an empty string and a missing image yields no accessory.
//
// Returns an error wrapping entity.ErrMalformedTimestamp when the published
// timestamp cannot be parsed.
func (f Formatter) Render(article entity.ArticleRecord) (Content, Action, error) {
	published, err := NormalizeTimestamp(article.PublishedAt)
	if err != nil {
		return Content{}, Action{}, err
	}

	var b strings.Builder
	b.WriteString("*")
	b.WriteString(Capitalize(article.Title))
	b.WriteString("*\n")
	b.WriteString(article.SourceName)
	b.WriteString(" | ")
	b.WriteString(FormatInZone(published, f.Location))
	b.WriteString("\n")
	b.WriteString(article.Description)
	b.WriteString(".")

	content := Content{Text: b.String()}
	if article.HasImage() {
		content.ImageURL = article.ImageURL
		content.AltText = ImageAltText
	}

	action := Action{
		Label: ButtonLabel,
		Value: ButtonValue,
		URL:   article.URL,
	}

	return content, action, nil
}

// Capitalize upper-cases the first rune of s and leaves the rest unchanged.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	upper := unicode.ToUpper(r)
	if upper == r {
		return s
	}
	return string(upper) + s[size:]
}
