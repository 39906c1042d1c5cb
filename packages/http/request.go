package http

import (
	"strings"

	"github.com/abdul-hamid-achik/httprun/packages/core/parser"
)

// Request is a fully resolved request ready for dispatch: variables
// substituted, scheme ensured. Headers keep file order and duplicates.
type Request struct {
	Name    string
	Method  string
	URL     string
	Headers []Header
	Body    string
	Line    int
}

type Header struct {
	Name  string
	Value string
}

// SubstituteFunc resolves {{placeholders}} in a template string.
type SubstituteFunc func(string) string

// BuildRequest resolves a parsed request into a dispatchable one by
// running substitute over the URL, every header value, and the body.
// The parsed record itself is never mutated.
func BuildRequest(req *parser.Request, substitute SubstituteFunc) *Request {
	out := &Request{
		Name:   req.Name,
		Method: req.Method,
		URL:    EnsureScheme(substitute(req.URL)),
		Line:   req.Line,
	}

	for _, h := range req.Headers {
		out.Headers = append(out.Headers, Header{Name: h.Name, Value: substitute(h.Value)})
	}

	if req.Body != "" {
		out.Body = substitute(req.Body)
	}

	return out
}

// EnsureScheme prepends https:// to URLs that look like bare hosts.
func EnsureScheme(url string) string {
	trimmed := strings.TrimSpace(url)
	if hasScheme(trimmed) {
		return trimmed
	}
	return "https://" + trimmed
}

// hasScheme reports whether url starts with a plausible scheme. Dotted,
// domain-like prefixes without + or - are treated as missing schemes so
// that "example.com://path" style hostnames are not misread.
func hasScheme(url string) bool {
	idx := strings.Index(url, "://")
	if idx <= 0 {
		return false
	}

	scheme := url[:idx]
	first := scheme[0]
	if !(first >= 'a' && first <= 'z' || first >= 'A' && first <= 'Z') {
		return false
	}

	hasPlusOrDash := false
	hasDot := false
	for i := 1; i < len(scheme); i++ {
		c := scheme[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '+' || c == '-':
			hasPlusOrDash = true
		case c == '.':
			hasDot = true
		default:
			return false
		}
	}

	return !(hasDot && !hasPlusOrDash)
}
