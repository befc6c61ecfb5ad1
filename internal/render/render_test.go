package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userlookup/internal/usersapi"
)

func TestSuccess(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "object keeps key order",
			body: `{"userId":"42","name":"Ann"}`,
			want: "{\n  \"userId\": \"42\",\n  \"name\": \"Ann\"\n}",
		},
		{
			name: "keys are not sorted",
			body: `{"z":1,"a":{"b":[1,2]}}`,
			want: "{\n  \"z\": 1,\n  \"a\": {\n    \"b\": [\n      1,\n      2\n    ]\n  }\n}",
		},
		{
			name: "empty object",
			body: `{}`,
			want: "{}",
		},
		{
			name: "surrounding whitespace",
			body: "  [true]\n",
			want: "[\n  true\n]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Success([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, Preformatted, got.Kind)
			assert.Equal(t, tt.want, got.Text)
		})
	}
}

func TestSuccess_InvalidJSON(t *testing.T) {
	_, err := Success([]byte(`{"a":`))
	assert.Error(t, err)
}

func TestFailure(t *testing.T) {
	assert.Equal(t, Fragment{Kind: Paragraph, Text: "User not found"},
		Failure([]byte(`{"message":"User not found"}`)))

	// The message field is missing: the paragraph is empty.
	assert.Equal(t, Fragment{Kind: Paragraph, Text: ""},
		Failure([]byte(`{"error":"nope"}`)))

	assert.Equal(t, "404", Failure([]byte(`{"message":404}`)).Text)
}

func TestFor(t *testing.T) {
	ok, err := For(&usersapi.Response{Status: 204, Body: []byte(`{"userId":"1"}`)})
	require.NoError(t, err)
	assert.Equal(t, Preformatted, ok.Kind)

	notFound, err := For(&usersapi.Response{Status: 404, Body: []byte(`{"message":"User not found"}`)})
	require.NoError(t, err)
	assert.Equal(t, Fragment{Kind: Paragraph, Text: "User not found"}, notFound)
}

func TestFragment_HTML(t *testing.T) {
	pre := Fragment{Kind: Preformatted, Text: "{\n  \"name\": \"<b>Ann</b>\"\n}"}
	assert.Equal(t, "<pre>{\n  &#34;name&#34;: &#34;&lt;b&gt;Ann&lt;/b&gt;&#34;\n}</pre>", pre.HTML())

	p := Fragment{Kind: Paragraph, Text: "User not found"}
	assert.Equal(t, "<p>User not found</p>", p.HTML())

	assert.Equal(t, "<p></p>", Fragment{Kind: Paragraph}.HTML())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "preformatted", Preformatted.String())
	assert.Equal(t, "paragraph", Paragraph.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}
