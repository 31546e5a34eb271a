// Package resilience provides fault tolerance patterns for calls to external services.
//
// The package supports:
//   - Circuit breakers for the news source API
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.NewsAPIConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return callExternalService()
//	})
package resilience
