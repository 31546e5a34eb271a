package entity

import (
	"fmt"
	"strings"
)

// Category is one of the fixed topic categories understood by the news source.
type Category string

const (
	CategoryBusiness      Category = "business"
	CategoryEntertainment Category = "entertainment"
	CategoryGeneral       Category = "general"
	CategoryHealth        Category = "health"
	CategoryScience       Category = "science"
	CategorySports        Category = "sports"
	CategoryTechnology    Category = "technology"
)

var validCategories = map[Category]struct{}{
	CategoryBusiness:      {},
	CategoryEntertainment: {},
	CategoryGeneral:       {},
	CategoryHealth:        {},
	CategoryScience:       {},
	CategorySports:        {},
	CategoryTechnology:    {},
}

// Valid reports whether c is a known category. The empty category is not valid;
// callers treat it as "unset".
func (c Category) Valid() bool {
	_, ok := validCategories[c]
	return ok
}

// ParseCategory converts a case-insensitive string to a Category.
// An empty string yields the empty Category without error.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	c := Category(s)
	if !c.Valid() {
		return "", &ValidationError{
			Field:   "category",
			Message: fmt.Sprintf("unknown category %q", s),
		}
	}
	return c, nil
}

// errExclusiveFilters is the reason reported when sources are combined with
// country or category.
const errExclusiveFilters = "Sources can not be set if country or category is set."

// QueryOptions carries the raw fields used to build a Query.
type QueryOptions struct {
	Name     string
	Query    string
	Category string
	Country  string
	Sources  []string
	Language string
	Channel  string
}

// Query is a named search definition. Instances are only obtainable through
// NewQuery, so a Query never combines Sources with Country or Category.
type Query struct {
	name     string
	query    string
	category Category
	country  string
	sources  []string
	language string
	channel  string
}

// NewQuery validates opts and returns a Query.
//
// Returns a *ConfigurationError (errors.Is(err, ErrConfiguration)) when:
//   - Name is empty
//   - Sources is set together with Country or Category; any non-nil slice
//     counts as set, including an empty one or one holding only blanks
//   - Category is not in the fixed enum
//   - Country or Language is not a 2-letter lowercase code
//
// Example:
//
//	q, err := entity.NewQuery(entity.QueryOptions{
//	    Name:     "Science News",
//	    Category: "science",
//	    Channel:  "#science",
//	})
func NewQuery(opts QueryOptions) (*Query, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return nil, &ConfigurationError{
			Reason: "query name is required",
			Err:    &ValidationError{Field: "name", Message: "name is required"},
		}
	}

	sources := make([]string, 0, len(opts.Sources))
	for _, s := range opts.Sources {
		if s = strings.TrimSpace(s); s != "" {
			sources = append(sources, s)
		}
	}

	if opts.Sources != nil && (opts.Country != "" || opts.Category != "") {
		return nil, &ConfigurationError{Query: name, Reason: errExclusiveFilters}
	}

	category, err := ParseCategory(opts.Category)
	if err != nil {
		return nil, &ConfigurationError{Query: name, Reason: err.Error(), Err: err}
	}
	if err := ValidateCode("country", opts.Country); err != nil {
		return nil, &ConfigurationError{Query: name, Reason: err.Error(), Err: err}
	}
	if err := ValidateCode("language", opts.Language); err != nil {
		return nil, &ConfigurationError{Query: name, Reason: err.Error(), Err: err}
	}

	return &Query{
		name:     name,
		query:    opts.Query,
		category: category,
		country:  opts.Country,
		sources:  sources,
		language: opts.Language,
		channel:  strings.TrimSpace(opts.Channel),
	}, nil
}

// Name returns the display name used as the header of the first payload.
func (q *Query) Name() string { return q.name }

// Text returns the free-text search term.
func (q *Query) Text() string { return q.query }

func (q *Query) Category() Category { return q.category }

func (q *Query) Country() string { return q.country }

func (q *Query) Language() string { return q.language }

// Sources returns a copy of the source identifiers.
func (q *Query) Sources() []string {
	if len(q.sources) == 0 {
		return nil
	}
	out := make([]string, len(q.sources))
	copy(out, q.sources)
	return out
}

// Channel returns the destination channel, or "" when the default applies.
func (q *Query) Channel() string { return q.channel }

// ChannelOr returns the query's channel, falling back to def when unset.
func (q *Query) ChannelOr(def string) string {
	if q.channel == "" {
		return def
	}
	return q.channel
}

// String implements fmt.Stringer for logging.
func (q *Query) String() string {
	return fmt.Sprintf("Query{name=%q, q=%q, category=%q, country=%q, sources=%v, language=%q, channel=%q}",
		q.name, q.query, q.category, q.country, q.sources, q.language, q.channel)
}
