package parser

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/mcncl/pastejson/internal/errors"
	"github.com/mcncl/pastejson/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripControlCharacters(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean text is unchanged", `{"a": "b"}`, `{"a": "b"}`},
		{"newlines and tabs", "{\n\t\"a\": 1\r\n}", `{"a": 1}`},
		{"nul and escape bytes", "{\"a\":\x00 \x1b1}", `{"a": 1}`},
		{"byte order mark", "\ufeff{}", `{}`},
		{"unicode letters kept", `{"名前": "é"}`, `{"名前": "é"}`},
		{"invalid utf-8 kept", "a\xffb\x01", "a\xffb"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripControlCharacters(tt.input))
		})
	}
}

func TestNormalize_ObjectIsIdentity(t *testing.T) {
	ir, err := ParseString(`{"id": 1, "name": "a", "nested": {"x": null}}`)
	require.NoError(t, err)

	schema, err := Normalize(ir)
	require.NoError(t, err)
	assert.Equal(t, ir.Root, schema)
}

func TestNormalize_ArrayUnionsKeys(t *testing.T) {
	schema, err := ParseSchema(`[{"a":1},{"b":"x"}]`)
	require.NoError(t, err)

	assert.Equal(t, models.JSONObject{"a": json.Number("1"), "b": "x"}, schema)
}

func TestNormalize_LastElementWins(t *testing.T) {
	schema, err := ParseSchema(`[{"a": 1, "b": true}, "skip me", {"a": "text"}, 42]`)
	require.NoError(t, err)

	assert.Equal(t, models.JSONObject{"a": "text", "b": true}, schema)
}

func TestNormalize_ArrayWithoutObjects(t *testing.T) {
	for _, input := range []string{`[]`, `[1, 2, 3]`, `[[{"a": 1}]]`} {
		schema, err := ParseSchema(input)
		require.NoError(t, err, input)
		assert.NotNil(t, schema, input)
		assert.Empty(t, schema, input)
	}
}

func TestNormalize_InvalidRoot(t *testing.T) {
	for _, input := range []string{`null`, `"text"`, `12`, `false`} {
		_, err := ParseSchema(input)
		require.Error(t, err, input)
		assert.True(t, stderrors.Is(err, errors.ErrInvalidRoot), input)

		var appErr *errors.AppError
		require.True(t, stderrors.As(err, &appErr))
		assert.Equal(t, errors.ErrorTypeRoot, appErr.Type)
	}
}

func TestParseSchema_StripsControlCharacters(t *testing.T) {
	schema, err := ParseSchema("\ufeff{\n\t\"id\": 1\x00\n}")
	require.NoError(t, err)
	assert.Equal(t, models.JSONObject{"id": json.Number("1")}, schema)
}

func TestParseSchema_NotJSON(t *testing.T) {
	_, err := ParseSchema("not json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), errors.ParseFailureMarker)
}
