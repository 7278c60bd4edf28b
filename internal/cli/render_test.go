package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitranim/ckq"
)

const selectTree = `{
	"base": {
		"base": {"base": {"initial": "select"}, "args": [{"identifier": "id"}, {"func": "count", "args": []}]},
		"keyword": "from"
	},
	"args": [{"identifier": "events"}]
}`

func TestRenderStatement(t *testing.T) {
	out, err := execute(t, NewRenderCommand(&RootOptions{}), selectTree)
	require.NoError(t, err)
	assert.Equal(t, "select `id`, count() from `events`\n", out)
}

func TestRenderExpression(t *testing.T) {
	out, err := execute(t, NewRenderCommand(&RootOptions{}), "--expression", selectTree)
	require.NoError(t, err)
	assert.Equal(t, "(select `id`, count() from `events`)\n", out)
}

func TestRenderLeaves(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want string
	}{
		{"value", `{"value": [1, "two"]}`, "select array(1, 'two')"},
		{"null value", `{"value": null}`, "select null"},
		{"identifier", `{"identifier": "my col"}`, "select `my col`"},
		{"quoted call", `{"call": "f", "args": [{"value": 1}, {"identifier": "x"}]}`, "select `f`(1, `x`)"},
		{"initial", `{"initial": "insert_into"}`, "insert into"},
		{"nested clause", `{"base": {"initial": "select"}, "args": [{"base": {"initial": "select"}, "args": [{"value": 1}]}]}`, "select (select 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runRender(&RenderOptions{}, tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want string
	}{
		{"not json", `{`, "invalid JSON tree"},
		{"unknown field", `{"column": "x"}`, "invalid JSON tree"},
		{"no form", `{}`, "$: expected exactly one of"},
		{"two forms", `{"identifier": "x", "initial": "select"}`, "$: expected exactly one of"},
		{"keyword and args", `{"base": {"initial": "select"}, "keyword": "distinct", "args": []}`, "$: a clause has either keyword or args"},
		{"value with args", `{"value": 1, "args": []}`, "$: args are only allowed with func, call or base"},
		{"identifier with args", `{"identifier": "x", "args": [{"value": 1}]}`, "$: args are only allowed with func, call or base"},
		{"initial with args", `{"initial": "select", "args": []}`, "$: args are only allowed with func, call or base"},
		{"value with keyword", `{"value": 1, "keyword": "desc"}`, "$: keyword is only allowed with base"},
		{"initial with keyword", `{"initial": "select", "keyword": "distinct"}`, "$: keyword is only allowed with base"},
		{"call with keyword", `{"call": "f", "keyword": "desc"}`, "$: keyword is only allowed with base"},
		{"nested leaf with args", `{"base": {"identifier": "x", "args": []}, "keyword": "desc"}`, "$.base: args are only allowed with func, call or base"},
		{"nested path", `{"base": {"initial": "select"}, "args": [{"value": 1}, {}]}`, "$.args[1]: expected exactly one of"},
		{"bad value", `{"base": {"initial": "select"}, "args": [{"value": [1,]}]}`, "invalid JSON tree"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runRender(&RenderOptions{}, tt.arg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRenderMalformedKeyword(t *testing.T) {
	_, err := runRender(&RenderOptions{}, `{"initial": "select; drop"}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ckq.ErrMalformedKeyword)
}
