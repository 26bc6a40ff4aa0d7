package generator

import (
	"strings"
	"testing"

	"github.com/mcncl/pastejson/internal/config"
	"github.com/mcncl/pastejson/internal/errors"
	"github.com/mcncl/pastejson/internal/models"
	"github.com/mcncl/pastejson/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, cfg *config.Config, jsonInput, rootName string) models.GenerationResult {
	t.Helper()
	schema, err := parser.ParseSchema(jsonInput)
	require.NoError(t, err)

	result, err := NewBackend().Generate(models.GenerationRequest{
		Schema:          schema,
		DesiredRootName: rootName,
		Language:        cfg,
	})
	require.NoError(t, err)
	return result
}

func TestGenerate_SimpleObject(t *testing.T) {
	result := generate(t, nil, `{"id": 1, "name": "a"}`, "User")

	require.Len(t, result.Files, 1)
	assert.Equal(t, "User", result.ResolvedRootName)

	file := result.Files[0]
	assert.Equal(t, "User", file.Name)
	assert.True(t, file.IsRoot)
	assert.Equal(t, "type ${ref:0} struct {", file.Body[0])
	assert.Equal(t, []string{"encoding/json"}, file.Imports)
	assert.Empty(t, file.References)
	assert.Equal(t, []string{"//", "// ${ref:0}.go", "// Generated by pastejson"}, file.Header)
}

func TestGenerate_NestedStructsUseReferenceTokens(t *testing.T) {
	result := generate(t, nil, `{"profile": {"city": "x"}}`, "user")

	require.Len(t, result.Files, 2)
	assert.Equal(t, "User", result.ResolvedRootName)
	assert.Equal(t, "UserProfile", result.Files[1].Name)
	assert.Equal(t, []int{1}, result.Files[0].References)
	assert.Contains(t, result.Files[0].Body, "\tProfile *${ref:1} `json:\"profile,omitempty\"`")
	assert.Empty(t, result.Files[1].Imports, "utilities are only generated for the root")
}

func TestGenerate_RootNameResolution(t *testing.T) {
	reserved := config.NewConfig()
	reserved.Naming.ReservedNames = []string{"User", "UserType"}

	tests := []struct {
		name    string
		cfg     *config.Config
		desired string
		want    string
	}{
		{"empty falls back to default", nil, "", "RootClass"},
		{"kebab case", nil, "my-type", "MyType"},
		{"not an identifier", nil, "123", "RootClass"},
		{"reserved name gets suffix", reserved, "User", "UserTypeType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := generate(t, tt.cfg, `{"a": 1}`, tt.desired)
			assert.Equal(t, tt.want, result.ResolvedRootName)
			assert.Equal(t, tt.want, result.Files[0].Name)
		})
	}
}

func TestGenerate_RenamesReservedNestedTypes(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Naming.ReservedNames = []string{"UserProfile"}

	result := generate(t, cfg, `{"profile": {"city": "x"}}`, "User")
	require.Len(t, result.Files, 2)
	assert.Equal(t, "UserProfileType", result.Files[1].Name)

	backend := NewBackend()
	require.NoError(t, backend.FixReferences(result.Files))
	assert.Contains(t, result.Files[0].Body, "\tProfile *UserProfileType `json:\"profile,omitempty\"`")
	assert.Equal(t, "type UserProfileType struct {", result.Files[1].Body[0])
	assert.Equal(t, "// UserProfileType.go", result.Files[1].Header[1])
}

func TestFixReferences_HoistsImportsAndIsIdempotent(t *testing.T) {
	result := generate(t, nil, `{"event": {"at": "2023-05-20T14:56:23Z"}}`, "Log")
	require.Len(t, result.Files, 2)
	assert.Equal(t, []string{"encoding/json"}, result.Files[0].Imports)
	assert.Equal(t, []string{"time"}, result.Files[1].Imports)

	backend := NewBackend()
	require.NoError(t, backend.FixReferences(result.Files))

	assert.Empty(t, result.Files[0].Imports)
	assert.Equal(t, []string{"encoding/json", "time"}, result.Files[1].Imports)
	for _, f := range result.Files {
		for _, line := range append(append([]string{}, f.Header...), f.Body...) {
			assert.NotContains(t, line, "${ref:")
		}
	}

	snapshot := make([]models.GeneratedFile, len(result.Files))
	for i, f := range result.Files {
		snapshot[i] = *f
	}
	require.NoError(t, backend.FixReferences(result.Files))
	for i, f := range result.Files {
		assert.Equal(t, snapshot[i], *f)
	}
}

func TestFixReferences_UnknownTarget(t *testing.T) {
	files := models.FileSet{{ID: 0, Name: "A", Body: []string{"type A struct {", "\tB *${ref:9}", "}"}}}

	err := NewBackend().FixReferences(files)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnresolvedReference)
}

func TestFixReferences_Empty(t *testing.T) {
	assert.NoError(t, NewBackend().FixReferences(nil))
}

func TestRender_RejectsUnresolvedReferences(t *testing.T) {
	result := generate(t, nil, `{"a": 1}`, "User")

	_, err := NewBackend().Render(result.Files[0])
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnresolvedReference)
}

func TestRender_SimpleObject(t *testing.T) {
	result := generate(t, nil, `{"id": 1, "name": "a"}`, "User")
	backend := NewBackend()
	require.NoError(t, backend.FixReferences(result.Files))

	text, err := backend.Render(result.Files[0])
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "//\n// User.go\n// Generated by pastejson\nimport \"encoding/json\"\n\ntype User struct {\n"), text)
	assert.Contains(t, text, "\tId   int64  `json:\"id\"`\n")
	assert.Contains(t, text, "\tName string `json:\"name\"`\n")
	assert.Contains(t, text, "func NewUser(id int64, name string) *User {\n")
	assert.Contains(t, text, "func UnmarshalUser(data []byte) (User, error) {\n")
	assert.Contains(t, text, "func (r *User) Marshal() ([]byte, error) {\n")
	assert.True(t, strings.HasSuffix(text, "}\n"))
	assert.NotContains(t, text, "String()")
}

func TestRender_StringMethodsOnly(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Output.GenerateConstructors = false
	cfg.Output.GenerateUtilities = false
	cfg.Output.GenerateStringMethods = true
	cfg.Output.FileHeader = ""

	result := generate(t, cfg, `{"name": "a"}`, "User")
	backend := NewBackend()
	require.NoError(t, backend.FixReferences(result.Files))

	text, err := backend.Render(result.Files[0])
	require.NoError(t, err)

	expected := "import \"fmt\"\n" +
		"\n" +
		"type User struct {\n" +
		"\tName string `json:\"name\"`\n" +
		"}\n" +
		"\n" +
		"func (u *User) String() string {\n" +
		"\treturn fmt.Sprintf(\"%+v\", *u)\n" +
		"}\n"
	assert.Equal(t, expected, text)
}

func TestRender_WithoutFormatting(t *testing.T) {
	file := &models.GeneratedFile{
		Name:    "A",
		Imports: []string{"time"},
		Body:    []string{"type A struct {", "\tAt   time.Time", "}"},
	}

	text, err := NewBackend().Render(file)
	require.NoError(t, err)
	assert.Equal(t, "import \"time\"\n\ntype A struct {\n\tAt   time.Time\n}\n", text)
}

func TestGenerate_SkipsMethodsThatCollideWithFields(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Output.GenerateStringMethods = true

	result := generate(t, cfg, `{"marshal": 1, "string": "s"}`, "Odd")
	body := strings.Join(result.Files[0].Body, "\n")

	assert.NotContains(t, body, "Marshal()")
	assert.NotContains(t, body, "String()")
	assert.Contains(t, body, "func New${ref:0}(marshal int64, stringValue string) *${ref:0} {")
	assert.Empty(t, result.Files[0].Imports)
}

func TestParamName(t *testing.T) {
	seen := make(map[string]bool)
	assert.Equal(t, "typeValue", paramName("Type", seen))
	assert.Equal(t, "stringValue", paramName("String", seen))
	assert.Equal(t, "id", paramName("Id", seen))
	assert.Equal(t, "id2", paramName("ID", seen))
	assert.Equal(t, "field", paramName("", seen))
}

func TestFixReferences_MissingReferencedFile(t *testing.T) {
	files := models.FileSet{{ID: 0, Name: "A", Body: []string{"type A struct{}"}, References: []int{3}}}

	err := NewBackend().FixReferences(files)
	assert.ErrorIs(t, err, errors.ErrUnresolvedReference)
}

func TestFixReferences_LeavesFilesUntouchedOnError(t *testing.T) {
	files := models.FileSet{
		{ID: 0, Name: "A", Imports: []string{"time"}, Body: []string{"type ${ref:0} struct {", "\tB *${ref:1}", "}"}, References: []int{1}},
		{ID: 1, Name: "B", Body: []string{"type ${ref:1} struct {", "\tC *${ref:7}", "}"}},
	}

	err := NewBackend().FixReferences(files)
	require.ErrorIs(t, err, errors.ErrUnresolvedReference)

	assert.Equal(t, []string{"type ${ref:0} struct {", "\tB *${ref:1}", "}"}, files[0].Body)
	assert.Equal(t, []string{"time"}, files[0].Imports)
	assert.Nil(t, files[1].Imports)
}
