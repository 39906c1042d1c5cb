package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/httprun/packages/core/runner"
)

// JSONOutput is the complete machine-readable run report
type JSONOutput struct {
	Summary  JSONSummary   `json:"summary"`
	Requests []JSONRequest `json:"requests"`
	Duration float64       `json:"duration"`
	Time     string        `json:"time"`
}

type JSONSummary struct {
	Requests    int `json:"requests"`
	TestsPassed int `json:"testsPassed"`
	TestsFailed int `json:"testsFailed"`
	Errors      int `json:"errors"`
}

// JSONRequest is one executed request with its outcomes
type JSONRequest struct {
	Name     string        `json:"name,omitempty"`
	File     string        `json:"file"`
	Method   string        `json:"method"`
	URL      string        `json:"url"`
	DryRun   bool          `json:"dryRun,omitempty"`
	Status   int           `json:"status,omitempty"`
	Duration float64       `json:"duration"`
	Error    string        `json:"error,omitempty"`
	Tests    []JSONTest    `json:"tests,omitempty"`
	Logs     []string      `json:"logs,omitempty"`
	Response *JSONResponse `json:"response,omitempty"`
}

type JSONTest struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Failure string `json:"failure,omitempty"`
}

type JSONResponse struct {
	StatusCode  int    `json:"statusCode"`
	ContentType string `json:"contentType,omitempty"`
	Body        string `json:"body,omitempty"`
}

// JSONFormatter accumulates results and emits a single JSON document on
// Flush.
type JSONFormatter struct {
	writer   io.Writer
	verbose  bool
	requests []JSONRequest
	summary  JSONSummary
	duration time.Duration
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:   os.Stdout,
		requests: make([]JSONRequest, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func JSONWithVerbose(v bool) JSONOption {
	return func(f *JSONFormatter) {
		f.verbose = v
	}
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header for JSON output
}

func (f *JSONFormatter) FormatResult(result *runner.RunResult) {
	f.duration += result.Duration
	f.summary.Requests += len(result.Results)
	f.summary.TestsPassed += result.TestsPassed
	f.summary.TestsFailed += result.TestsFailed
	f.summary.Errors += result.Errors

	for _, r := range result.Results {
		req := JSONRequest{
			Name:     r.Name,
			File:     result.File,
			DryRun:   r.DryRun,
			Duration: float64(r.Duration.Milliseconds()),
			Logs:     r.Logs,
		}

		if r.Request != nil {
			req.Method = r.Request.Method
			req.URL = r.Request.URL
		}
		if r.Error != nil {
			req.Error = r.Error.Error()
		}
		if r.Response != nil {
			req.Status = r.Response.StatusCode
			if f.verbose {
				resp := &JSONResponse{
					StatusCode: r.Response.StatusCode,
					Body:       r.Response.BodyRaw,
				}
				if r.Response.ContentType != nil {
					resp.ContentType = r.Response.ContentType.MimeType
				}
				req.Response = resp
			}
		}

		for _, tr := range r.Tests {
			req.Tests = append(req.Tests, JSONTest{
				Name:    tr.Name,
				Passed:  tr.Passed,
				Failure: tr.FailureMessage,
			})
		}

		f.requests = append(f.requests, req)
	}
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors surface in the flushed document via per-request records
}

// Flush writes the accumulated JSON report
func (f *JSONFormatter) Flush() error {
	output := JSONOutput{
		Summary:  f.summary,
		Requests: f.requests,
		Duration: float64(f.duration.Milliseconds()),
		Time:     time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
