package script

import (
	"math"
	"strconv"
	"strings"

	"github.com/dop251/goja"
)

const defaultAssertMessage = "Assertion failed"

// buildClientObject constructs the `client` capability object. Every
// callback closes over the run's hostState; the script never holds a
// direct reference to host data.
func buildClientObject(vm *goja.Runtime, state *hostState) *goja.Object {
	client := vm.NewObject()

	_ = client.Set("global", buildGlobalObject(vm, state))

	_ = client.Set("test", func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()

		cb, ok := goja.AssertFunction(call.Argument(1))
		if !ok {
			return goja.Undefined()
		}

		pre := len(state.tests)
		if _, err := cb(goja.Undefined()); err != nil {
			state.tests = append(state.tests, &TestResult{
				Name:           name,
				Passed:         false,
				FailureMessage: "Exception: " + exceptionMessage(err),
			})
			return goja.Undefined()
		}

		// Nested assert failures stand as the recorded outcomes; only a
		// clean callback earns a passed outcome for the test name.
		for _, tr := range state.tests[pre:] {
			if !tr.Passed {
				return goja.Undefined()
			}
		}
		state.tests = append(state.tests, &TestResult{Name: name, Passed: true})
		return goja.Undefined()
	})

	_ = client.Set("assert", func(call goja.FunctionCall) goja.Value {
		condition := call.Argument(0).ToBoolean()

		message := defaultAssertMessage
		if arg := call.Argument(1); !goja.IsUndefined(arg) {
			message = arg.String()
		}

		if !condition {
			state.tests = append(state.tests, &TestResult{
				Name:           message,
				Passed:         false,
				FailureMessage: message,
			})
		}
		return goja.Undefined()
	})

	_ = client.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		state.logs = append(state.logs, strings.Join(parts, " "))
		return goja.Undefined()
	})

	return client
}

func buildGlobalObject(vm *goja.Runtime, state *hostState) *goja.Object {
	global := vm.NewObject()

	_ = global.Set("set", func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		state.globals[name] = stringifyValue(call.Argument(1))
		return goja.Undefined()
	})

	_ = global.Set("get", func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()

		v, ok := state.globals[name]
		if !ok {
			return goja.Undefined()
		}
		return restoreValue(vm, v)
	})

	return global
}

// stringifyValue persists a script value as text. Numbers use canonical
// decimal form: integral values carry no decimal point.
func stringifyValue(v goja.Value) string {
	switch n := v.Export().(type) {
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) && math.Abs(n) < math.MaxInt64 {
			return strconv.FormatInt(int64(n), 10)
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return v.String()
}

// restoreValue reverses stringifyValue heuristically: numeric text comes
// back as a number, true/false as booleans, anything else as the string.
// The heuristic is deliberately lossy; the string "true" and the boolean
// true are indistinguishable once stored.
func restoreValue(vm *goja.Runtime, v string) goja.Value {
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return vm.ToValue(n)
	}
	if v == "true" {
		return vm.ToValue(true)
	}
	if v == "false" {
		return vm.ToValue(false)
	}
	return vm.ToValue(v)
}
