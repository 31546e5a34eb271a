package entity

// DefaultPageSize is the number of articles requested per query.
const DefaultPageSize = 100

// HeadlinesRequest holds the filters sent to the article source.
// Empty fields are not sent.
type HeadlinesRequest struct {
	Query    string
	Language string
	Country  string
	Category Category
	Sources  []string
	PageSize int
}

// Headlines is the article source's answer to a HeadlinesRequest.
type Headlines struct {
	TotalResults int
	Articles     []ArticleRecord
}

// HeadlinesRequest converts the query's filters into a request with the
// fixed page size.
func (q *Query) HeadlinesRequest() HeadlinesRequest {
	return HeadlinesRequest{
		Query:    q.query,
		Language: q.language,
		Country:  q.country,
		Category: q.category,
		Sources:  q.Sources(),
		PageSize: DefaultPageSize,
	}
}
