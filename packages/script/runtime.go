package script

import (
	"fmt"

	"github.com/dop251/goja"

	httpx "github.com/abdul-hamid-achik/httprun/packages/http"
)

// TestResult is one named pass/fail outcome recorded by client.test or
// client.assert.
type TestResult struct {
	Name           string
	Passed         bool
	FailureMessage string
}

// Result carries everything a handler run produced: the global-variable
// working set after the run, recorded outcomes, and captured log lines.
type Result struct {
	Globals map[string]string
	Tests   []*TestResult
	Logs    []string
}

// hostState is the per-run mutable state shared between the host and
// the capability callbacks.
type hostState struct {
	globals map[string]string
	tests   []*TestResult
	logs    []string
}

// Run executes a handler script against the response view. The only
// error condition is a script-level failure (syntax error or uncaught
// exception outside a test callback); outcomes recorded before the
// failure are preserved in the returned Result either way.
func Run(handlerScript string, resp *httpx.Response, existingGlobals map[string]string) (*Result, error) {
	vm := goja.New()

	state := &hostState{
		globals: make(map[string]string, len(existingGlobals)),
	}
	for k, v := range existingGlobals {
		state.globals[k] = v
	}

	respObj, err := buildResponseObject(vm, resp)
	if err != nil {
		return nil, fmt.Errorf("building response object: %w", err)
	}
	if err := vm.Set("response", respObj); err != nil {
		return nil, err
	}

	if err := vm.Set("client", buildClientObject(vm, state)); err != nil {
		return nil, err
	}

	result := &Result{
		Globals: state.globals,
		Tests:   state.tests,
		Logs:    state.logs,
	}

	if _, err := vm.RunString(handlerScript); err != nil {
		result.Tests = state.tests
		result.Logs = state.logs
		return result, fmt.Errorf("handler script: %s", exceptionMessage(err))
	}

	result.Tests = state.tests
	result.Logs = state.logs
	return result, nil
}

// exceptionMessage extracts the thrown value's description when err is
// a JS exception, otherwise the plain error text.
func exceptionMessage(err error) string {
	if ex, ok := err.(*goja.Exception); ok {
		if v := ex.Value(); v != nil {
			return v.String()
		}
	}
	return err.Error()
}
