package dto

import (
	"net/url"
	"strconv"
)

// Page is a page-number paginated list. Next and Previous are absolute links or null.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPage builds a page for the request at requestURL. page is 1-based.
func NewPage[T any](results []T, total int64, page, limit int, requestURL *url.URL) Page[T] {
	if results == nil {
		results = []T{}
	}
	p := Page[T]{Count: total, Results: results}

	if int64(page)*int64(limit) < total {
		next := pageLink(requestURL, page+1)
		p.Next = &next
	}
	if page > 1 {
		prev := pageLink(requestURL, page-1)
		p.Previous = &prev
	}
	return p
}

// pageLink rewrites the page parameter of u. The first page carries no page parameter.
func pageLink(u *url.URL, page int) string {
	link := *u
	q := link.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	link.RawQuery = q.Encode()
	return link.String()
}
