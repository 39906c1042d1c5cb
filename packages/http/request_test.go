package http

import (
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/httprun/packages/core/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasScheme(t *testing.T) {
	assert.True(t, hasScheme("http://example.com"))
	assert.True(t, hasScheme("https://example.com"))
	assert.True(t, hasScheme("ftp://example.com"))
	assert.True(t, hasScheme("custom+v1.2-scheme://example.com"))

	assert.False(t, hasScheme("://example.com"))
	assert.False(t, hasScheme("1http://example.com"))
	assert.False(t, hasScheme("http:/example.com"))
	assert.False(t, hasScheme("example.com/path"))
	assert.False(t, hasScheme("example.com://path"))
}

func TestEnsureScheme(t *testing.T) {
	assert.Equal(t, "https://example.com", EnsureScheme("https://example.com"))
	assert.Equal(t, "ftp://example.com", EnsureScheme("ftp://example.com"))
	assert.Equal(t, "https://example.com/path", EnsureScheme("example.com/path"))
	assert.Equal(t, "https://example.com", EnsureScheme("  example.com  "))
}

func TestBuildRequest(t *testing.T) {
	parsed := &parser.Request{
		Name:   "create",
		Method: "POST",
		URL:    "{{host}}/items",
		Headers: []*parser.Header{
			{Name: "Authorization", Value: "Bearer {{token}}"},
			{Name: "Accept", Value: "application/json"},
		},
		Body: `{"owner": "{{user}}"}`,
		Line: 4,
	}

	substitute := func(s string) string {
		s = strings.ReplaceAll(s, "{{host}}", "api.example.com")
		s = strings.ReplaceAll(s, "{{token}}", "t0k3n")
		s = strings.ReplaceAll(s, "{{user}}", "ada")
		return s
	}

	req := BuildRequest(parsed, substitute)
	assert.Equal(t, "https://api.example.com/items", req.URL)
	require.Len(t, req.Headers, 2)
	assert.Equal(t, "Bearer t0k3n", req.Headers[0].Value)
	assert.Equal(t, `{"owner": "ada"}`, req.Body)
	assert.Equal(t, 4, req.Line)

	// The parsed record is untouched.
	assert.Equal(t, "{{host}}/items", parsed.URL)
	assert.Equal(t, "Bearer {{token}}", parsed.Headers[0].Value)
}
