package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"newsie/internal/domain/entity"
	pkgconfig "newsie/internal/pkg/config"
)

// ErrNoQueries is returned for a query file without entries.
var ErrNoQueries = errors.New("no queries defined")

// QueryFile is the YAML document layout:
//
//	queries:
//	  - name: Science News
//	    category: science
//	    language: en
//	    channel: "#science"
type QueryFile struct {
	Queries []QueryEntry `yaml:"queries"`
}

// QueryEntry is one raw query as written in the file.
type QueryEntry struct {
	Name     string   `yaml:"name"`
	Query    string   `yaml:"query,omitempty"`
	Category string   `yaml:"category,omitempty"`
	Country  string   `yaml:"country,omitempty"`
	Sources  []string `yaml:"sources,omitempty"`
	Language string   `yaml:"language,omitempty"`
	Channel  string   `yaml:"channel,omitempty"`
}

// DefaultQueries returns the built-in query list used when no query file exists.
func DefaultQueries() []*entity.Query {
	finance, _ := entity.NewQuery(entity.QueryOptions{
		Name:     "Finance News",
		Query:    "stock market",
		Language: "en",
	})
	science, _ := entity.NewQuery(entity.QueryOptions{
		Name:     "Science News",
		Category: string(entity.CategoryScience),
		Language: "en",
		Channel:  "#science",
	})
	return []*entity.Query{finance, science}
}

// LoadQueries reads and parses the query file at path. A missing file
// returns an error satisfying errors.Is(err, os.ErrNotExist).
func LoadQueries(path string) ([]*entity.Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read query file: %w", err)
	}
	queries, err := ParseQueries(data)
	if err != nil {
		return nil, fmt.Errorf("query file %s: %w", path, err)
	}
	return queries, nil
}

// ParseQueries builds every entry through entity.NewQuery. Unknown keys are
// rejected. All invalid entries are reported together; a single invalid
// entry fails the whole list, so an invalid query never becomes active.
func ParseQueries(data []byte) ([]*entity.Query, error) {
	var file QueryFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(file.Queries) == 0 {
		return nil, ErrNoQueries
	}

	queries := make([]*entity.Query, 0, len(file.Queries))
	var errs []error
	for i, e := range file.Queries {
		if e.Channel != "" {
			if err := pkgconfig.ValidateChannel(e.Channel); err != nil {
				errs = append(errs, fmt.Errorf("query %d (%q): %w", i, e.Name, &entity.ConfigurationError{
					Query:  e.Name,
					Reason: err.Error(),
					Err:    &entity.ValidationError{Field: "channel", Message: err.Error()},
				}))
				continue
			}
		}

		q, err := entity.NewQuery(e.options())
		if err != nil {
			errs = append(errs, fmt.Errorf("query %d (%q): %w", i, e.Name, err))
			continue
		}
		queries = append(queries, q)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return queries, nil
}

// MarshalQueries renders queries in the query file layout.
func MarshalQueries(queries []*entity.Query) ([]byte, error) {
	file := QueryFile{Queries: make([]QueryEntry, 0, len(queries))}
	for _, q := range queries {
		file.Queries = append(file.Queries, QueryEntry{
			Name:     q.Name(),
			Query:    q.Text(),
			Category: string(q.Category()),
			Country:  q.Country(),
			Sources:  q.Sources(),
			Language: q.Language(),
			Channel:  q.Channel(),
		})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e QueryEntry) options() entity.QueryOptions {
	return entity.QueryOptions{
		Name:     e.Name,
		Query:    e.Query,
		Category: e.Category,
		Country:  e.Country,
		Sources:  e.Sources,
		Language: e.Language,
		Channel:  e.Channel,
	}
}
