package http

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ContentType is the Content-Type header split into its base type and
// character set. Charset is empty when the header carried none.
type ContentType struct {
	MimeType string
	Charset  string
}

// Response is the immutable view of one received response. BodyIsJSON
// marks that the raw body parsed as JSON; BodyJSON is then the parsed
// value, which is nil for the JSON literal null. BodyRaw stays
// authoritative either way.
type Response struct {
	StatusCode  int
	Headers     map[string][]string
	BodyRaw     string
	BodyJSON    any
	BodyIsJSON  bool
	ContentType *ContentType
	Duration    time.Duration
}

// BuildResponse constructs the response view from received wire data.
// JSON parsing is opportunistic and parse failure is silent.
func BuildResponse(status int, headers map[string][]string, body string, duration time.Duration) *Response {
	resp := &Response{
		StatusCode: status,
		Headers:    headers,
		BodyRaw:    body,
		Duration:   duration,
	}

	if ct := firstHeader(headers, "Content-Type"); ct != "" {
		resp.ContentType = ParseContentType(ct)
	}

	if gjson.Valid(body) {
		var parsed any
		if err := json.Unmarshal([]byte(body), &parsed); err == nil {
			resp.BodyJSON = parsed
			resp.BodyIsJSON = true
		}
	}

	return resp
}

// ParseContentType splits a Content-Type header value into mime type
// and charset. It never fails; missing parts stay empty.
func ParseContentType(value string) *ContentType {
	parts := strings.Split(value, ";")
	ct := &ContentType{MimeType: strings.TrimSpace(parts[0])}

	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if len(part) >= 8 && strings.EqualFold(part[:8], "charset=") {
			ct.Charset = strings.TrimSpace(part[8:])
		}
	}

	return ct
}

// Header returns the first value for name, case-insensitive.
func (r *Response) Header(name string) string {
	return firstHeader(r.Headers, name)
}

// HeaderValues returns all values for name in order, case-insensitive.
// A missing header yields nil.
func (r *Response) HeaderValues(name string) []string {
	for k, vals := range r.Headers {
		if strings.EqualFold(k, name) {
			return vals
		}
	}
	return nil
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}

func firstHeader(headers map[string][]string, name string) string {
	for k, vals := range headers {
		if strings.EqualFold(k, name) && len(vals) > 0 {
			return vals[0]
		}
	}
	return ""
}
