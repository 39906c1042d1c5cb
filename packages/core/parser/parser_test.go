package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_RequestWithBodyAndHandler(t *testing.T) {
	input := `
@token = abc123

### create item
POST https://example.com/items
Content-Type: application/json
X-Trace: 123

{
  "name": "widget"
}

> {%
  client.test("status is 200", function() {
    client.assert(response.status === 200);
  });
%}
`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)

	require.Len(t, file.Variables, 1)
	assert.Equal(t, "token", file.Variables[0].Name)
	assert.Equal(t, "abc123", file.Variables[0].Value)

	require.Len(t, file.Requests, 1)
	req := file.Requests[0]
	assert.Equal(t, "create item", req.Name)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "https://example.com/items", req.URL)
	require.Len(t, req.Headers, 2)
	assert.Equal(t, "Content-Type", req.Headers[0].Name)
	assert.Equal(t, "application/json", req.Headers[0].Value)
	assert.Equal(t, "X-Trace", req.Headers[1].Name)
	assert.Equal(t, "123", req.Headers[1].Value)
	assert.Equal(t, "{\n  \"name\": \"widget\"\n}", req.Body)
	assert.Contains(t, req.Handler, `client.test("status is 200"`)
	assert.Contains(t, req.Handler, "client.assert(response.status === 200);")
}

func TestParser_SingleRequestCompact(t *testing.T) {
	input := "### create item\nPOST https://x/y\nH: v\n\n{\"a\":1}\n\n> {%\nclient.assert(response.status===200);\n%}\n"

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	require.Len(t, file.Requests, 1)

	req := file.Requests[0]
	assert.Equal(t, "create item", req.Name)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "https://x/y", req.URL)
	require.Len(t, req.Headers, 1)
	assert.Equal(t, "H", req.Headers[0].Name)
	assert.Equal(t, "v", req.Headers[0].Value)
	assert.Equal(t, `{"a":1}`, req.Body)
	assert.Equal(t, "client.assert(response.status===200);", req.Handler)
}

func TestParser_MultipleRequests(t *testing.T) {
	input := `### first
GET https://example.com/a

### second
DELETE https://example.com/b HTTP/1.1
`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	require.Len(t, file.Requests, 2)
	assert.Equal(t, "first", file.Requests[0].Name)
	assert.Equal(t, "GET", file.Requests[0].Method)
	assert.Equal(t, 2, file.Requests[0].Line)
	assert.Equal(t, "second", file.Requests[1].Name)
	assert.Equal(t, "DELETE", file.Requests[1].Method)
	assert.Equal(t, "https://example.com/b", file.Requests[1].URL)
}

func TestParser_SeparatorNameAppliesToNextRequest(t *testing.T) {
	input := `GET https://example.com/a
### named
GET https://example.com/b
`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	require.Len(t, file.Requests, 2)
	assert.Empty(t, file.Requests[0].Name)
	assert.Equal(t, "named", file.Requests[1].Name)
}

func TestParser_UnterminatedHandler(t *testing.T) {
	input := `GET https://example.com/a

> {%
client.log("still");
client.log("running");`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	require.Len(t, file.Requests, 1)
	assert.Equal(t, "client.log(\"still\");\nclient.log(\"running\");", file.Requests[0].Handler)
}

func TestParser_IgnoresHistoryAndComments(t *testing.T) {
	input := `// a comment
# another comment
<> 2024-01-01T101010.200.json

GET https://example.com/a
Accept: text/plain

<> 2024-01-02T101010.200.json

POST https://example.com/b
`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	require.Len(t, file.Requests, 2)
	assert.Equal(t, "GET", file.Requests[0].Method)
	require.Len(t, file.Requests[0].Headers, 1)
	assert.Equal(t, "POST", file.Requests[1].Method)
	assert.Empty(t, file.Requests[1].Headers)
}

func TestParser_InPlaceVariableMidRequestIgnored(t *testing.T) {
	// A declaration after the request line fails header matching and is
	// dropped; it must not show up as a variable or a header.
	input := `@base = https://example.com

GET {{base}}/items
@late = nope
Accept: application/json
`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	require.Len(t, file.Variables, 1)
	assert.Equal(t, "base", file.Variables[0].Name)

	require.Len(t, file.Requests, 1)
	require.Len(t, file.Requests[0].Headers, 1)
	assert.Equal(t, "Accept", file.Requests[0].Headers[0].Name)
}

func TestParser_BlockWithoutRequestLineDropped(t *testing.T) {
	input := `### orphan name only

some stray text
FETCH https://not-a-method.example
`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	assert.Empty(t, file.Requests)
}

func TestParser_DuplicateHeadersPreserved(t *testing.T) {
	input := `GET https://example.com/a
Accept: text/plain
Accept: application/json
`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	require.Len(t, file.Requests, 1)
	require.Len(t, file.Requests[0].Headers, 2)
	assert.Equal(t, "text/plain", file.Requests[0].Headers[0].Value)
	assert.Equal(t, "application/json", file.Requests[0].Headers[1].Value)
}

func TestParser_BodyKeepsInternalBlankLines(t *testing.T) {
	input := "POST https://example.com/a\n\nline one\n\nline three\n\n\n"

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	require.Len(t, file.Requests, 1)
	assert.Equal(t, "line one\n\nline three", file.Requests[0].Body)
}

func TestParser_LaterDeclarationIsDistinctEntry(t *testing.T) {
	input := `@env = dev
@env = prod

GET https://example.com/a
`

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	require.Len(t, file.Variables, 2)
	assert.Equal(t, "dev", file.Variables[0].Value)
	assert.Equal(t, "prod", file.Variables[1].Value)
}

func TestIsMethod(t *testing.T) {
	for _, m := range Methods {
		assert.True(t, IsMethod(m))
	}
	assert.False(t, IsMethod("FETCH"))
	assert.False(t, IsMethod("get"))
}

func TestParser_CRLFInput(t *testing.T) {
	input := "### win\r\nGET https://example.com/a\r\nAccept: text/plain\r\n"

	file, err := Parse(input, "test.http")
	require.NoError(t, err)
	require.Len(t, file.Requests, 1)
	assert.Equal(t, "win", file.Requests[0].Name)
	assert.Equal(t, "text/plain", file.Requests[0].Headers[0].Value)
}
