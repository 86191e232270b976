// Package capture defines the data model for observed HTTP exchanges and the
// ordered store the query engine reads them from. The store is populated by a
// session collaborator (a CDP recorder in this repo); the engine only reads.
package capture

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
)

// Header is one observed header field, case preserved as seen on the wire.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Headers is an ordered list of header fields. Duplicate names are collapsed
// last-write-wins by Set; Get is case-insensitive.
type Headers []Header

// Get returns the first value for the given header name (case-insensitive).
// Returns an empty string if the header is not present.
func (h Headers) Get(name string) string {
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			return f.Value
		}
	}
	return ""
}

// Set replaces the value of an existing field (case-insensitive) or appends
// a new one.
func (h Headers) Set(name, value string) Headers {
	for i, f := range h {
		if strings.EqualFold(f.Name, name) {
			h[i].Value = value
			return h
		}
	}
	return append(h, Header{Name: name, Value: value})
}

// Lines renders the headers as "Name: value" lines, one per field, in
// observed order. This is the text that header-field search runs over.
func (h Headers) Lines() string {
	var b strings.Builder
	for i, f := range h {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value)
	}
	return b.String()
}

// BodyFunc lazily reads a response body. It may be called more than once;
// implementations should re-fetch or cache. An error means the body is
// unavailable, not that the exchange is broken.
type BodyFunc func(ctx context.Context) (string, error)

// Response is the completed half of an exchange.
type Response struct {
	Status     int     `json:"status"`
	StatusText string  `json:"statusText"`
	Headers    Headers `json:"headers"`

	body BodyFunc
}

// NewResponse constructs a response with a lazy body accessor. A nil body
// function means the body is permanently unavailable.
func NewResponse(status int, statusText string, headers Headers, body BodyFunc) *Response {
	return &Response{Status: status, StatusText: statusText, Headers: headers, body: body}
}

// Text reads the response body. Callers must treat an error as "body
// unavailable" and degrade rather than abort.
func (r *Response) Text(ctx context.Context) (string, error) {
	if r.body == nil {
		return "", fmt.Errorf("response body unavailable")
	}
	return r.body(ctx)
}

// ContentType returns the response content-type header, or "" if absent.
func (r *Response) ContentType() string {
	return r.Headers.Get("content-type")
}

// Exchange is one observed HTTP transaction. ResourceType is best-effort:
// the browser does not expose it for every request kind, and "" means
// unknown. All exported fields are fixed at append time; the response is the
// only part that arrives later and is published through SetResponse.
type Exchange struct {
	Seq            int64   `json:"seq"`
	Method         string  `json:"method"`
	URL            string  `json:"url"`
	RequestHeaders Headers `json:"requestHeaders"`
	PostData       string  `json:"postData,omitempty"`
	ResourceType   string  `json:"resourceType,omitempty"`

	response atomic.Pointer[Response]
}

// Response returns the completed response, or nil while the exchange is
// still in flight. The recorder completes exchanges on its own goroutine
// while queries scan the store, so the pointer is published atomically.
func (e *Exchange) Response() *Response {
	return e.response.Load()
}

// SetResponse publishes the completed response. Called once per exchange by
// the session collaborator.
func (e *Exchange) SetResponse(r *Response) {
	e.response.Store(r)
}
