package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// JSON writes a JSON response to the client
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// If encoding fails, try to write a simple error message
			w.Write([]byte(`{"error":"Failed to encode response"}`))
		}
	}
}

// Page is the paginated envelope of every list response
type Page struct {
	Count    int         `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
	// ResultID names the saved bug summary for a later export
	ResultID string `json:"result_id,omitempty"`
}

// NewPage builds the envelope of one page out of count items
func NewPage(r *http.Request, count, limit, offset int, results interface{}) *Page {
	p := &Page{Count: count, Results: results}
	if offset+limit < count {
		p.Next = pageURL(r, limit, offset+limit)
	}
	if offset > 0 {
		p.Previous = pageURL(r, limit, max(offset-limit, 0))
	}
	return p
}

// Paginate slices an in-memory list and wraps it in the envelope
func Paginate[T any](r *http.Request, items []T, limit, offset int) *Page {
	start := min(offset, len(items))
	end := min(start+limit, len(items))
	page := items[start:end]
	if page == nil {
		page = []T{}
	}
	return NewPage(r, len(items), limit, offset, page)
}

func pageURL(r *http.Request, limit, offset int) *string {
	u := *r.URL
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	u.RawQuery = q.Encode()

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	link := fmt.Sprintf("%s://%s%s", scheme, r.Host, u.RequestURI())
	return &link
}
