package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/httprun/packages/core/env"
	"github.com/abdul-hamid-achik/httprun/packages/core/parser"
	"github.com/abdul-hamid-achik/httprun/packages/core/vars"
	httpx "github.com/abdul-hamid-achik/httprun/packages/http"
	"github.com/abdul-hamid-achik/httprun/packages/script"
)

type Runner struct {
	client *httpx.Client
	config *Config
}

type Config struct {
	Environment     string
	EnvFile         string        // environment JSON file; default http-client.env.json next to the request file
	DotEnvFile      string        // optional .env file merged into the environment tier
	Timeout         time.Duration
	FollowRedirects bool
	MaxRedirects    int
	ValidateSSL     bool
	Proxy           string
	DefaultHeaders  map[string]string
	Bail            bool
	DryRun          bool
	NameFilter      string // case-insensitive substring match against request names
	Index           *int   // 1-based; nil means all requests
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{FollowRedirects: true, ValidateSSL: true}
	}

	clientOpts := []httpx.ClientOption{
		httpx.WithFollowRedirects(cfg.FollowRedirects),
		httpx.WithValidateSSL(cfg.ValidateSSL),
	}
	if cfg.Timeout > 0 {
		clientOpts = append(clientOpts, httpx.WithTimeout(cfg.Timeout))
	}
	if cfg.MaxRedirects > 0 {
		clientOpts = append(clientOpts, httpx.WithMaxRedirects(cfg.MaxRedirects))
	}
	if cfg.Proxy != "" {
		clientOpts = append(clientOpts, httpx.WithProxy(cfg.Proxy))
	}
	if len(cfg.DefaultHeaders) > 0 {
		clientOpts = append(clientOpts, httpx.WithDefaultHeaders(cfg.DefaultHeaders))
	}

	return &Runner{
		client: httpx.NewClient(clientOpts...),
		config: cfg,
	}
}

type RunResult struct {
	File        string
	Results     []*RequestResult
	Duration    time.Duration
	TestsPassed int
	TestsFailed int
	Errors      int
}

type RequestResult struct {
	Name     string
	Request  *httpx.Request
	Response *httpx.Response
	Tests    []*script.TestResult
	Logs     []string
	Duration time.Duration
	DryRun   bool
	Error    error
}

// Passed reports whether the request completed without a transport or
// script error and every recorded test outcome passed.
func (r *RequestResult) Passed() bool {
	if r.Error != nil {
		return false
	}
	for _, tr := range r.Tests {
		if !tr.Passed {
			return false
		}
	}
	return true
}

// RunFile parses and executes a request file. Per-request failures are
// recorded in the result; only file-level problems (unreadable file,
// bad environment, out-of-range index) return an error.
func (r *Runner) RunFile(ctx context.Context, path string) (*RunResult, error) {
	file, err := parser.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}

	environment, err := r.loadEnvironment(path)
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	store := vars.NewStore(environment)
	for _, v := range file.Variables {
		store.SetInPlace(v.Name, v.Value)
	}

	selected, err := r.selectRequests(file.Requests)
	if err != nil {
		return nil, err
	}

	return r.runRequests(ctx, file.Path, selected, store), nil
}

func (r *Runner) loadEnvironment(requestFile string) (map[string]string, error) {
	envFile := r.config.EnvFile
	if envFile == "" {
		envFile = filepath.Join(filepath.Dir(requestFile), env.DefaultEnvFile)
	}

	environment, err := env.LoadEnvironment(envFile, r.config.Environment)
	if err != nil {
		return nil, err
	}

	if r.config.DotEnvFile != "" {
		dotenv, err := env.LoadDotEnv(r.config.DotEnvFile)
		if err != nil {
			return nil, err
		}
		for k, v := range dotenv {
			if _, exists := environment[k]; !exists {
				environment[k] = v
			}
		}
	}

	return environment, nil
}

// selectRequests applies the name filter and index selection. The index
// is 1-based and validated up front so a typo fails the run before any
// request goes out on the wire.
func (r *Runner) selectRequests(requests []*parser.Request) ([]*parser.Request, error) {
	if r.config.Index != nil {
		idx := *r.config.Index
		if idx < 1 || idx > len(requests) {
			return nil, fmt.Errorf("request index %d out of range: file has %d request(s)", idx, len(requests))
		}
		return requests[idx-1 : idx], nil
	}

	if r.config.NameFilter == "" {
		return requests, nil
	}

	filter := strings.ToLower(r.config.NameFilter)
	var selected []*parser.Request
	for _, req := range requests {
		if strings.Contains(strings.ToLower(req.Name), filter) {
			selected = append(selected, req)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no request matches name filter %q", r.config.NameFilter)
	}
	return selected, nil
}

func (r *Runner) runRequests(ctx context.Context, path string, requests []*parser.Request, store *vars.Store) *RunResult {
	start := time.Now()
	result := &RunResult{File: path}

	for _, req := range requests {
		reqResult := r.runRequest(ctx, req, store)
		result.Results = append(result.Results, reqResult)

		if reqResult.Error != nil {
			result.Errors++
		}
		for _, tr := range reqResult.Tests {
			if tr.Passed {
				result.TestsPassed++
			} else {
				result.TestsFailed++
			}
		}

		if r.config.Bail && !reqResult.Passed() {
			break
		}
	}

	result.Duration = time.Since(start)
	return result
}

// runRequest executes one request end to end: substitution, the HTTP
// exchange, then the response handler if one is present. Globals the
// handler sets are merged back into the store so later requests in the
// same run can reference them.
func (r *Runner) runRequest(ctx context.Context, req *parser.Request, store *vars.Store) *RequestResult {
	result := &RequestResult{Name: req.Name}

	httpReq := httpx.BuildRequest(req, store.Substitute)
	result.Request = httpReq

	if r.config.DryRun {
		result.DryRun = true
		return result
	}

	start := time.Now()
	resp, err := r.client.Do(ctx, httpReq)
	result.Duration = time.Since(start)

	if err != nil {
		result.Error = err
		return result
	}
	result.Response = resp

	if req.Handler == "" {
		return result
	}

	scriptResult, err := script.Run(req.Handler, resp, store.Globals())
	if scriptResult != nil {
		result.Tests = scriptResult.Tests
		result.Logs = scriptResult.Logs
		store.MergeGlobals(scriptResult.Globals)
	}
	if err != nil {
		result.Error = err
	}

	return result
}
