package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `["a"]`, `["a"]`},
		{"json fence", "```json\n[\"a\"]\n```", `["a"]`},
		{"bare fence", "```\n[\"a\"]\n```", `["a"]`},
		{"padded", "  \n```json [\"a\"] ```  \n", `["a"]`},
		{"no closing fence", "```json\n[\"a\"]", `["a"]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripFences(tc.in))
		})
	}
}

func TestDecodeQuestions(t *testing.T) {
	qs, err := DecodeQuestions("```json\n[\"What is a graph?\", \"Define a tree.\"]\n```")
	require.NoError(t, err)
	assert.Equal(t, []string{"What is a graph?", "Define a tree."}, qs)

	qs, err = DecodeQuestions("[]")
	require.NoError(t, err)
	assert.Empty(t, qs)
}

func TestDecodeQuestions_Rejects(t *testing.T) {
	for name, raw := range map[string]string{
		"prose":        "Here are your questions: what is a graph?",
		"object":       `{"questions": ["a"]}`,
		"mixed items":  `["a", 2]`,
		"empty":        "",
		"broken array": `["a", "b"`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeQuestions(raw)
			assert.Error(t, err)
		})
	}
}

func TestExtractScore(t *testing.T) {
	cases := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"7", 7, true},
		{"Score: 8/10", 8, true},
		{" 10 ", 10, true},
		{"0", 0, true},
		{"42", 10, true},
		{"99999999999999999999999", 10, true},
		{"no idea", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ExtractScore(tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
		assert.Equal(t, tc.wantOK, ok, "input %q", tc.in)
	}
}
