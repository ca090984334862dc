package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONPlain(t *testing.T) {
	out, err := ExtractJSON(`{"decision":"yes","confidence":0.9}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"decision":"yes","confidence":0.9}`, out)
}

func TestExtractJSONFencedWithProse(t *testing.T) {
	raw := "Here is the result:\n```json\n{\"decision\": \"no\"}\n```\nLet me know if you need anything else."
	out, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"decision":"no"}`, out)
}

func TestExtractJSONArray(t *testing.T) {
	out, err := ExtractJSON(`prefix [1,2,3] suffix`)
	require.NoError(t, err)
	assert.Equal(t, "[1,2,3]", out)
}

func TestExtractJSONNestedBraces(t *testing.T) {
	raw := `{"a": {"b": "}"}, "c": 1}`
	out, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.True(t, Get(out, "c").Exists())
	assert.Equal(t, "}", Get(out, "a.b").String())
}

func TestExtractJSONNoJSON(t *testing.T) {
	_, err := ExtractJSON("I cannot produce JSON for this request.")
	require.Error(t, err)
}
