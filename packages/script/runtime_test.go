package script

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpx "github.com/abdul-hamid-achik/httprun/packages/http"
)

func jsonResponse(t *testing.T) *httpx.Response {
	t.Helper()
	return httpx.BuildResponse(200, map[string][]string{
		"Content-Type": {"application/json; charset=utf-8"},
		"X-Request-Id": {"abc", "def"},
	}, `{"totalElements": 12, "items": ["a", "b"]}`, 3*time.Millisecond)
}

func requireAllPassed(t *testing.T, result *Result) {
	t.Helper()
	for _, tr := range result.Tests {
		assert.True(t, tr.Passed, "test %q failed: %s", tr.Name, tr.FailureMessage)
	}
}

func TestRun_GlobalsPersistAcrossRuns(t *testing.T) {
	resp := jsonResponse(t)

	first, err := Run(`client.global.set("totalElements", response.body.totalElements);`, resp, nil)
	require.NoError(t, err)
	assert.Equal(t, "12", first.Globals["totalElements"])

	second, err := Run(`
		client.test("Global persists", function() {
			var expected = client.global.get("totalElements");
			client.assert(expected === 12, "expected 12 but got " + expected);
		});
	`, resp, first.Globals)
	require.NoError(t, err)
	require.NotEmpty(t, second.Tests)
	requireAllPassed(t, second)
}

func TestRun_GlobalGetMissingIsUndefined(t *testing.T) {
	result, err := Run(`
		client.test("Missing global is undefined", function() {
			client.assert(client.global.get("nonexistent") === undefined, "expected undefined");
		});
	`, jsonResponse(t), nil)
	require.NoError(t, err)
	require.Len(t, result.Tests, 1)
	requireAllPassed(t, result)
}

func TestRun_GlobalTypeRoundTrip(t *testing.T) {
	result, err := Run(`
		client.global.set("num", 42);
		client.global.set("float", 3.14);
		client.global.set("str", "hello");
		client.global.set("t", true);
		client.global.set("f", false);

		client.test("Number preserved", function() {
			var v = client.global.get("num");
			client.assert(v === 42, "expected 42, got " + typeof v + " " + v);
		});
		client.test("Float preserved", function() {
			var v = client.global.get("float");
			client.assert(v === 3.14, "expected 3.14, got " + typeof v + " " + v);
		});
		client.test("String preserved", function() {
			var v = client.global.get("str");
			client.assert(v === "hello", "expected hello, got " + typeof v + " " + v);
		});
		client.test("Boolean true preserved", function() {
			client.assert(client.global.get("t") === true, "expected true");
		});
		client.test("Boolean false preserved", function() {
			client.assert(client.global.get("f") === false, "expected false");
		});
	`, jsonResponse(t), nil)
	require.NoError(t, err)
	require.Len(t, result.Tests, 5)
	requireAllPassed(t, result)

	// Host-side storage is canonical decimal text.
	assert.Equal(t, "42", result.Globals["num"])
	assert.Equal(t, "3.14", result.Globals["float"])
	assert.Equal(t, "hello", result.Globals["str"])
	assert.Equal(t, "true", result.Globals["t"])
}

func TestRun_TestWithFailingAssertRecordsOneOutcome(t *testing.T) {
	result, err := Run(`
		client.test("n", function() {
			client.assert(response.status === 500, "status should be 500");
		});
	`, jsonResponse(t), nil)
	require.NoError(t, err)

	// Exactly one failed outcome: the nested assert failure stands, no
	// extra pass/fail is recorded for the test name itself.
	require.Len(t, result.Tests, 1)
	assert.False(t, result.Tests[0].Passed)
	assert.Equal(t, "status should be 500", result.Tests[0].Name)
	assert.Equal(t, "status should be 500", result.Tests[0].FailureMessage)
}

func TestRun_TestCallbackExceptionRecordsFailure(t *testing.T) {
	result, err := Run(`
		client.test("boom", function() {
			throw new Error("kaput");
		});
	`, jsonResponse(t), nil)
	require.NoError(t, err)
	require.Len(t, result.Tests, 1)
	assert.False(t, result.Tests[0].Passed)
	assert.Equal(t, "boom", result.Tests[0].Name)
	assert.Contains(t, result.Tests[0].FailureMessage, "kaput")
}

func TestRun_AssertOutsideTest(t *testing.T) {
	result, err := Run(`
		client.assert(false);
		client.assert(true, "never recorded");
	`, jsonResponse(t), nil)
	require.NoError(t, err)
	require.Len(t, result.Tests, 1)
	assert.False(t, result.Tests[0].Passed)
	assert.Equal(t, "Assertion failed", result.Tests[0].Name)
}

func TestRun_LogCapturesJoinedLines(t *testing.T) {
	result, err := Run(`
		client.log("status", response.status, true);
		client.log("next");
	`, jsonResponse(t), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"status 200 true", "next"}, result.Logs)
}

func TestRun_ResponseHeadersAccessors(t *testing.T) {
	result, err := Run(`
		client.test("headers", function() {
			client.assert(response.headers.valueOf("x-request-id") === "abc", "first value");
			var all = response.headers.valuesOf("X-REQUEST-ID");
			client.assert(all.length === 2, "two values");
			client.assert(all[1] === "def", "second value");
			client.assert(response.headers.valueOf("missing") === null, "missing is null");
			client.assert(response.headers.valuesOf("missing").length === 0, "missing is empty array");
		});
	`, jsonResponse(t), nil)
	require.NoError(t, err)
	require.Len(t, result.Tests, 1)
	requireAllPassed(t, result)
}

func TestRun_ResponseBodyIsNativeJSON(t *testing.T) {
	result, err := Run(`
		client.test("body", function() {
			client.assert(response.body.totalElements === 12, "number field");
			client.assert(Array.isArray(response.body.items), "array field");
			client.assert(response.body.items[0] === "a", "array element");
		});
	`, jsonResponse(t), nil)
	require.NoError(t, err)
	requireAllPassed(t, result)
}

func TestRun_NonJSONBodyIsRawString(t *testing.T) {
	resp := httpx.BuildResponse(200, nil, "plain text", 0)
	result, err := Run(`
		client.test("raw body", function() {
			client.assert(response.body === "plain text", "raw string");
			client.assert(response.contentType === null, "no content type");
		});
	`, resp, nil)
	require.NoError(t, err)
	requireAllPassed(t, result)
}

func TestRun_NullJSONBodyIsNull(t *testing.T) {
	resp := httpx.BuildResponse(200, map[string][]string{
		"Content-Type": {"application/json"},
	}, "null", 0)

	result, err := Run(`
		client.test("null body", function() {
			client.assert(response.body === null, "expected null, got " + typeof response.body);
		});
	`, resp, nil)
	require.NoError(t, err)
	require.Len(t, result.Tests, 1)
	requireAllPassed(t, result)
}

func TestRun_ContentTypeFields(t *testing.T) {
	result, err := Run(`
		client.test("content type", function() {
			client.assert(response.contentType.mimeType === "application/json", "mime type");
			client.assert(response.contentType.charset === "utf-8", "charset");
		});
	`, jsonResponse(t), nil)
	require.NoError(t, err)
	requireAllPassed(t, result)
}

func TestRun_ScriptErrorPreservesEarlierOutcomes(t *testing.T) {
	result, err := Run(`
		client.test("first", function() {
			client.assert(response.status === 200);
		});
		undefinedFunction();
	`, jsonResponse(t), nil)
	require.Error(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Tests, 1)
	assert.True(t, result.Tests[0].Passed)
}

func TestRun_SyntaxError(t *testing.T) {
	_, err := Run(`this is not javascript`, jsonResponse(t), nil)
	require.Error(t, err)
}

func TestRun_FreshInterpreterPerRun(t *testing.T) {
	resp := jsonResponse(t)

	_, err := Run(`var leaked = "yes";`, resp, nil)
	require.NoError(t, err)

	result, err := Run(`
		client.test("no leakage", function() {
			client.assert(typeof leaked === "undefined", "interpreter state leaked");
		});
	`, resp, nil)
	require.NoError(t, err)
	requireAllPassed(t, result)
}

func TestRun_ExistingGlobalsInputNotMutated(t *testing.T) {
	existing := map[string]string{"token": "original"}

	result, err := Run(`client.global.set("token", "changed");`, jsonResponse(t), existing)
	require.NoError(t, err)
	assert.Equal(t, "changed", result.Globals["token"])
	assert.Equal(t, "original", existing["token"])
}
