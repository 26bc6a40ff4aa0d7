package generator

import (
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsonTags parses rendered code and returns the json tag of every field of
// typeName, keyed by field name.
func jsonTags(t *testing.T, src, typeName string) map[string]string {
	t.Helper()
	file, err := parser.ParseFile(token.NewFileSet(), "", "package p\n\n"+src, 0)
	require.NoError(t, err, src)

	tags := make(map[string]string)
	ast.Inspect(file, func(n ast.Node) bool {
		spec, ok := n.(*ast.TypeSpec)
		if !ok || spec.Name.Name != typeName {
			return true
		}
		for _, field := range spec.Type.(*ast.StructType).Fields.List {
			require.NotNil(t, field.Tag)
			tag, err := strconv.Unquote(field.Tag.Value)
			require.NoError(t, err)
			tags[field.Names[0].Name] = reflect.StructTag(tag).Get("json")
		}
		return false
	})
	return tags
}

func TestRender_UnusualKeysKeepTheirJSONNames(t *testing.T) {
	input := "{\"user_id\": 1, \"userId\": \"x\", \"$x\": 1, \"-\": true, \"a\\\"b\": 1, \"a`b\": 2, \"${ref:0}\": 3, \"${ref:42}\": 4}"

	result := generate(t, nil, input, "")
	backend := NewBackend()
	require.NoError(t, backend.FixReferences(result.Files))
	require.Len(t, result.Files, 1)

	text, err := backend.Render(result.Files[0])
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"X":       "$x",
		"Ref0":    "${ref:0}",
		"Ref42":   "${ref:42}",
		"Field":   "-,",
		"Ab":      `a"b`,
		"Ab1":     "a`b",
		"UserId":  "userId",
		"UserId1": "user_id",
	}, jsonTags(t, text, "RootClass"))
}
