package parser

type File struct {
	Path      string
	Variables []*Variable
	Requests  []*Request
}

// Variable is an in-place declaration (@name = value). Order of
// appearance is preserved; later declarations of the same name win when
// loaded into the store.
type Variable struct {
	Name  string
	Value string
	Line  int
}

// Request is one parsed request block. URL, header values and the body
// may still contain {{placeholders}}; substitution happens on a copy at
// run time. An empty Body means no body, an empty Handler means no
// response handler.
type Request struct {
	Name    string
	Method  string
	URL     string
	Headers []*Header
	Body    string
	Handler string
	Line    int
}

type Header struct {
	Name  string
	Value string
	Line  int
}

// Methods is the fixed set of request-line keywords.
var Methods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}

func IsMethod(s string) bool {
	for _, m := range Methods {
		if s == m {
			return true
		}
	}
	return false
}
