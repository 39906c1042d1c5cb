package script

import (
	"strings"

	"github.com/dop251/goja"

	httpx "github.com/abdul-hamid-achik/httprun/packages/http"
)

// buildResponseObject constructs the read-only `response` view: status,
// body (native JS value when the body parsed as JSON, raw string
// otherwise), header accessors, and contentType.
func buildResponseObject(vm *goja.Runtime, resp *httpx.Response) (*goja.Object, error) {
	obj := vm.NewObject()

	if err := obj.Set("status", resp.StatusCode); err != nil {
		return nil, err
	}

	if err := obj.Set("body", buildBodyValue(vm, resp)); err != nil {
		return nil, err
	}

	if err := obj.Set("headers", buildHeadersObject(vm, resp.Headers)); err != nil {
		return nil, err
	}

	var contentType goja.Value = goja.Null()
	if resp.ContentType != nil {
		ct := vm.NewObject()
		if err := ct.Set("mimeType", resp.ContentType.MimeType); err != nil {
			return nil, err
		}
		var charset goja.Value = goja.Null()
		if resp.ContentType.Charset != "" {
			charset = vm.ToValue(resp.ContentType.Charset)
		}
		if err := ct.Set("charset", charset); err != nil {
			return nil, err
		}
		contentType = ct
	}
	if err := obj.Set("contentType", contentType); err != nil {
		return nil, err
	}

	return obj, nil
}

// buildBodyValue translates a JSON body into native script objects by
// routing it through the runtime's own JSON.parse, so handlers see real
// arrays and objects rather than wrapped Go values. Non-JSON bodies stay
// raw strings.
func buildBodyValue(vm *goja.Runtime, resp *httpx.Response) goja.Value {
	if !resp.BodyIsJSON {
		return vm.ToValue(resp.BodyRaw)
	}

	jsonObj := vm.Get("JSON").ToObject(vm)
	parse, ok := goja.AssertFunction(jsonObj.Get("parse"))
	if !ok {
		return vm.ToValue(resp.BodyRaw)
	}

	parsed, err := parse(goja.Undefined(), vm.ToValue(resp.BodyRaw))
	if err != nil {
		// Should not happen once BodyJSON is set; fall back to raw.
		return vm.ToValue(resp.BodyRaw)
	}
	return parsed
}

func buildHeadersObject(vm *goja.Runtime, headers map[string][]string) *goja.Object {
	// Lowercased copy so lookups are case-insensitive.
	lowered := make(map[string][]string, len(headers))
	for k, vals := range headers {
		lowered[strings.ToLower(k)] = vals
	}

	obj := vm.NewObject()

	_ = obj.Set("valueOf", func(call goja.FunctionCall) goja.Value {
		name := strings.ToLower(call.Argument(0).String())
		if vals, ok := lowered[name]; ok && len(vals) > 0 {
			return vm.ToValue(vals[0])
		}
		return goja.Null()
	})

	_ = obj.Set("valuesOf", func(call goja.FunctionCall) goja.Value {
		name := strings.ToLower(call.Argument(0).String())
		vals := lowered[name]
		arr := make([]any, len(vals))
		for i, v := range vals {
			arr[i] = v
		}
		return vm.NewArray(arr...)
	})

	return obj
}
