package domain

import (
	"net/http"
	"time"
)

// RawResponse is an unparsed validator response as stored in the response cache.
type RawResponse struct {
	StatusCode int               `json:"status_code"`
	Header     map[string]string `json:"header,omitempty"`
	Body       []byte            `json:"body"`
	FetchedAt  time.Time         `json:"fetched_at,omitzero"`
}

// HeaderValue returns the value of a header, matching the name case-insensitively.
func (r *RawResponse) HeaderValue(name string) string {
	canonical := http.CanonicalHeaderKey(name)
	for k, v := range r.Header {
		if http.CanonicalHeaderKey(k) == canonical {
			return v
		}
	}
	return ""
}

// CacheStats counts response cache lookups since the cache was opened.
type CacheStats struct {
	Hits   int64
	Misses int64
}
