package parser

import (
	"os"
	"regexp"
	"strings"
)

var (
	requestLineRe  = regexp.MustCompile(`^(GET|POST|PUT|PATCH|DELETE|HEAD|OPTIONS)\s+(\S+)(?:\s+HTTP/[\d.]+)?$`)
	headerLineRe   = regexp.MustCompile(`^([A-Za-z0-9\-]+)\s*:\s*(.+)$`)
	handlerOpenRe  = regexp.MustCompile(`^>\s*\{%\s*$`)
	handlerCloseRe = regexp.MustCompile(`^%\}$`)
	historyRe      = regexp.MustCompile(`^<>\s+`)
	inPlaceVarRe   = regexp.MustCompile(`^@(\S+)\s*=\s*(.+)$`)
)

type state int

const (
	awaitingRequest state = iota
	readingHeaders
	readingBody
	readingHandler
)

func ParseFile(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(content), path)
}

// Parse scans input line by line. It never fails: malformed lines are
// skipped and incomplete blocks are dropped. The error return exists for
// interface symmetry with ParseFile and is always nil.
func Parse(input, filename string) (*File, error) {
	s := &scanner{file: &File{Path: filename}}

	lines := strings.Split(strings.ReplaceAll(input, "\r\n", "\n"), "\n")
	for i, line := range lines {
		s.scanLine(i+1, line)
	}
	s.finalize()

	return s.file, nil
}

type scanner struct {
	file  *File
	state state

	// Accumulation for the request currently being read.
	name         string
	method       string
	url          string
	headers      []*Header
	bodyLines    []string
	handlerLines []string
	startLine    int
}

func (s *scanner) scanLine(num int, raw string) {
	trimmed := strings.TrimSpace(raw)

	switch s.state {
	case awaitingRequest:
		s.awaiting(num, trimmed)
	case readingHeaders:
		s.header(num, trimmed)
	case readingBody:
		s.body(raw, trimmed)
	case readingHandler:
		s.handler(raw, trimmed)
	}
}

func (s *scanner) awaiting(num int, trimmed string) {
	if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") {
		// A ### separator may carry the name of the next request.
		if strings.HasPrefix(trimmed, "###") {
			s.captureName(trimmed)
		}
		return
	}

	if m := inPlaceVarRe.FindStringSubmatch(trimmed); m != nil {
		s.file.Variables = append(s.file.Variables, &Variable{
			Name:  m[1],
			Value: strings.TrimSpace(m[2]),
			Line:  num,
		})
		return
	}

	if historyRe.MatchString(trimmed) {
		return
	}

	if m := requestLineRe.FindStringSubmatch(trimmed); m != nil {
		s.method = m[1]
		s.url = m[2]
		s.startLine = num
		s.state = readingHeaders
	}
}

func (s *scanner) header(num int, trimmed string) {
	if trimmed == "" {
		s.state = readingBody
		return
	}

	if handlerOpenRe.MatchString(trimmed) {
		s.state = readingHandler
		return
	}

	if strings.HasPrefix(trimmed, "###") {
		s.finalize()
		s.captureName(trimmed)
		s.state = awaitingRequest
		return
	}

	if historyRe.MatchString(trimmed) {
		s.finalize()
		s.state = awaitingRequest
		return
	}

	if m := headerLineRe.FindStringSubmatch(trimmed); m != nil {
		s.headers = append(s.headers, &Header{
			Name:  m[1],
			Value: strings.TrimSpace(m[2]),
			Line:  num,
		})
	}
	// Anything else (including a stray @name = value) is ignored.
}

func (s *scanner) body(raw, trimmed string) {
	if handlerOpenRe.MatchString(trimmed) {
		s.state = readingHandler
		return
	}

	if strings.HasPrefix(trimmed, "###") {
		s.finalize()
		s.captureName(trimmed)
		s.state = awaitingRequest
		return
	}

	if historyRe.MatchString(trimmed) {
		s.finalize()
		s.state = awaitingRequest
		return
	}

	s.bodyLines = append(s.bodyLines, raw)
}

func (s *scanner) handler(raw, trimmed string) {
	if handlerCloseRe.MatchString(trimmed) {
		s.finalize()
		s.state = awaitingRequest
		return
	}

	s.handlerLines = append(s.handlerLines, raw)
}

// captureName remembers the text after ### as the name of the *next*
// finalized request.
func (s *scanner) captureName(trimmed string) {
	after := strings.TrimSpace(trimmed[3:])
	if after != "" {
		s.name = after
	}
}

// finalize emits the accumulated request if a method+URL line was seen,
// then resets all accumulation buffers either way.
func (s *scanner) finalize() {
	if s.method != "" && s.url != "" {
		body := strings.Join(s.bodyLines, "\n")
		if strings.TrimSpace(body) == "" {
			body = ""
		} else {
			body = strings.TrimRight(body, " \t\n")
		}

		handler := strings.Join(s.handlerLines, "\n")
		if strings.TrimSpace(handler) == "" {
			handler = ""
		}

		s.file.Requests = append(s.file.Requests, &Request{
			Name:    s.name,
			Method:  s.method,
			URL:     s.url,
			Headers: s.headers,
			Body:    body,
			Handler: handler,
			Line:    s.startLine,
		})
		s.name = ""
	}

	s.method = ""
	s.url = ""
	s.headers = nil
	s.bodyLines = nil
	s.handlerLines = nil
}
