package generator

import (
	"fmt"
	"go/token"
	"go/types"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/pastejson/internal/analyzer"
	"github.com/mcncl/pastejson/internal/config"
	"github.com/mcncl/pastejson/internal/errors"
	"github.com/mcncl/pastejson/internal/formatter"
	"github.com/mcncl/pastejson/internal/models"
)

// refPattern matches a reference token. Tokens name another file by ID and
// are replaced by that file's final name once every name is settled.
var refPattern = regexp.MustCompile(`\$\{ref:(\d+)\}`)

func ref(id int) string {
	return config.ReferencePrefix + strconv.Itoa(id) + "}"
}

// Backend generates Go type declarations and their boilerplate.
type Backend struct {
	formatter *formatter.Formatter
}

// NewBackend creates a new Backend instance
func NewBackend() *Backend {
	return &Backend{formatter: formatter.NewFormatter()}
}

// Generate infers the struct types for req.Schema and renders one file per
// struct, root first. Bodies still carry reference tokens afterwards; call
// FixReferences before rendering.
func (b *Backend) Generate(req models.GenerationRequest) (models.GenerationResult, error) {
	cfg := req.Language
	if cfg == nil {
		cfg = config.NewConfig()
	}

	rootName := resolveRootName(req.DesiredRootName, cfg)
	analysis, err := analyzer.NewAnalyzerWithConfig(cfg).Analyze(req.Schema, rootName)
	if err != nil {
		return models.GenerationResult{}, err
	}

	files := make(models.FileSet, 0, len(analysis.Structs))
	for _, def := range analysis.Structs {
		files = append(files, b.generateFile(def, cfg))
	}
	renameReserved(files, cfg)

	return models.GenerationResult{Files: files, ResolvedRootName: files[0].Name}, nil
}

// FixReferences replaces every reference token with the final name of the
// file it points at and moves all imports into the last file, which is the
// one written first into the destination. Running it twice is harmless. On
// error no file is changed.
func (b *Backend) FixReferences(files models.FileSet) error {
	if len(files) == 0 {
		return nil
	}

	names := make(map[int]string, len(files))
	for _, f := range files {
		names[f.ID] = f.Name
	}

	headers := make([][]string, len(files))
	bodies := make([][]string, len(files))
	for i, f := range files {
		for _, id := range f.References {
			if _, ok := names[id]; !ok {
				return fmt.Errorf("file %s: %w: %s", f.Name, errors.ErrUnresolvedReference, ref(id))
			}
		}
		var err error
		if headers[i], err = replaceRefs(f.Header, names); err != nil {
			return fmt.Errorf("file %s: %w", f.Name, err)
		}
		if bodies[i], err = replaceRefs(f.Body, names); err != nil {
			return fmt.Errorf("file %s: %w", f.Name, err)
		}
	}

	imports := make(map[string]struct{})
	for i, f := range files {
		f.Header, f.Body = headers[i], bodies[i]
		for _, imp := range f.Imports {
			imports[imp] = struct{}{}
		}
		f.Imports = nil
	}

	files[len(files)-1].Imports = sortedKeys(imports)
	return nil
}

// Render writes the file as destination text: header comments, one import
// line per import, then the body.
func (b *Backend) Render(file *models.GeneratedFile) (string, error) {
	for _, line := range append(append([]string{}, file.Header...), file.Body...) {
		if refPattern.MatchString(line) {
			return "", fmt.Errorf("file %s: %w: %s", file.Name, errors.ErrUnresolvedReference, refPattern.FindString(line))
		}
	}

	body := file.Body
	if file.Format {
		formatted, err := b.formatter.FormatLines(file.Body)
		if err != nil {
			return "", fmt.Errorf("failed to format %s: %w", file.Name, err)
		}
		body = formatted
	}

	var sb strings.Builder
	for _, line := range file.Header {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	for _, imp := range file.Imports {
		fmt.Fprintf(&sb, "import %q\n", imp)
	}
	if len(file.Imports) > 0 {
		sb.WriteString("\n")
	}
	for _, line := range body {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func replaceRefs(lines []string, names map[int]string) ([]string, error) {
	var missing error
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = refPattern.ReplaceAllStringFunc(line, func(token string) string {
			id, _ := strconv.Atoi(refPattern.FindStringSubmatch(token)[1])
			name, ok := names[id]
			if !ok {
				missing = fmt.Errorf("%w: %s", errors.ErrUnresolvedReference, token)
				return token
			}
			return name
		})
	}
	if missing != nil {
		return nil, missing
	}
	return out, nil
}

// resolveRootName turns the desired name into an exported Go identifier
// that does not clash with reserved or predeclared names.
func resolveRootName(desired string, cfg *config.Config) string {
	name := strcase.ToCamel(strings.TrimSpace(desired))
	if name == "" || !token.IsIdentifier(name) {
		name = strcase.ToCamel(cfg.RootName)
	}
	if name == "" || !token.IsIdentifier(name) {
		name = config.DefaultRootName
	}
	for isTaken(name, cfg) {
		name += "Type"
	}
	return name
}

func isTaken(name string, cfg *config.Config) bool {
	return cfg.IsReservedName(name) || types.Universe.Lookup(name) != nil
}

// renameReserved renames nested types whose names collide with reserved
// names. Other files only know them through reference tokens, so nothing
// else needs to change.
func renameReserved(files models.FileSet, cfg *config.Config) {
	used := make(map[string]bool, len(files))
	for _, f := range files {
		used[f.Name] = true
	}
	for _, f := range files {
		if !isTaken(f.Name, cfg) {
			continue
		}
		name := f.Name
		for isTaken(name, cfg) || used[name] {
			name += "Type"
		}
		used[name] = true
		f.Name = name
	}
}

func (b *Backend) generateFile(def models.StructDef, cfg *config.Config) *models.GeneratedFile {
	self := ref(def.ID)
	imports := make(map[string]struct{})
	refs := make(map[int]struct{})

	var header []string
	for _, line := range cfg.HeaderLines(self) {
		if line == "" {
			header = append(header, cfg.Lines.CommentPrefix)
		} else {
			header = append(header, cfg.Lines.CommentPrefix+" "+line)
		}
	}

	body := []string{"type " + self + " struct {"}
	for _, field := range def.Fields {
		typeStr := typeString(field.GoType, refs)
		line := fmt.Sprintf("\t%s %s %s", field.GoName, typeStr, field.JSONTag)
		if field.Comment != "" {
			line += " // " + field.Comment
		}
		body = append(body, line)

		if usesTime(field.GoType) {
			imports["time"] = struct{}{}
		}
		if mapping, ok := cfg.FindTypeMapping(field.JSONKey); ok && mapping.Import != "" {
			imports[mapping.Import] = struct{}{}
		}
	}
	body = append(body, "}")

	if cfg.Output.GenerateConstructors {
		body = append(body, "")
		body = append(body, constructor(self, def.Fields, refs)...)
	}
	if def.IsRoot && cfg.Output.GenerateUtilities && !hasField(def, "Marshal") {
		imports["encoding/json"] = struct{}{}
		body = append(body, "")
		body = append(body, utilities(self)...)
	}
	if cfg.Output.GenerateStringMethods && !hasField(def, "String") {
		imports["fmt"] = struct{}{}
		body = append(body, "")
		body = append(body, stringMethod(self, receiverName(def.Name))...)
	}

	delete(refs, def.ID)
	references := make([]int, 0, len(refs))
	for id := range refs {
		references = append(references, id)
	}
	sort.Ints(references)

	return &models.GeneratedFile{
		ID:         def.ID,
		Name:       def.Name,
		Header:     header,
		Imports:    sortedKeys(imports),
		Body:       body,
		References: references,
		IsRoot:     def.IsRoot,
		Format:     cfg.Formatting.Enabled,
	}
}

func constructor(self string, fields []models.FieldInfo, refs map[int]struct{}) []string {
	params := make([]string, 0, len(fields))
	assigns := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, field := range fields {
		param := paramName(field.GoName, seen)
		params = append(params, param+" "+typeString(field.GoType, refs))
		assigns = append(assigns, fmt.Sprintf("\t\t%s: %s,", field.GoName, param))
	}

	lines := []string{
		fmt.Sprintf("// New%s creates a new %s.", self, self),
		fmt.Sprintf("func New%s(%s) *%s {", self, strings.Join(params, ", "), self),
	}
	if len(assigns) == 0 {
		return append(lines, "\treturn &"+self+"{}", "}")
	}
	lines = append(lines, "\treturn &"+self+"{")
	lines = append(lines, assigns...)
	return append(lines, "\t}", "}")
}

func utilities(self string) []string {
	return []string{
		fmt.Sprintf("// Unmarshal%s decodes JSON data into a %s.", self, self),
		fmt.Sprintf("func Unmarshal%s(data []byte) (%s, error) {", self, self),
		"\tvar r " + self,
		"\terr := json.Unmarshal(data, &r)",
		"\treturn r, err",
		"}",
		"",
		"// Marshal encodes r as JSON.",
		fmt.Sprintf("func (r *%s) Marshal() ([]byte, error) {", self),
		"\treturn json.Marshal(r)",
		"}",
	}
}

func stringMethod(self, recv string) []string {
	return []string{
		fmt.Sprintf("func (%s *%s) String() string {", recv, self),
		fmt.Sprintf("\treturn fmt.Sprintf(\"%%+v\", *%s)", recv),
		"}",
	}
}

// paramName derives a constructor parameter from a field name, steering
// clear of keywords, predeclared identifiers and earlier parameters.
func paramName(goName string, seen map[string]bool) string {
	name := strcase.ToLowerCamel(goName)
	if name == "" {
		name = "field"
	}
	if token.IsKeyword(name) || types.Universe.Lookup(name) != nil {
		name += "Value"
	}
	base := name
	for i := 2; seen[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	seen[name] = true
	return name
}

func receiverName(typeName string) string {
	if typeName == "" {
		return "v"
	}
	return strings.ToLower(typeName[:1])
}

// typeString converts a TypeInfo to Go source, recording referenced structs.
func typeString(t models.TypeInfo, refs map[int]struct{}) string {
	var s string
	switch t.Kind {
	case models.Struct:
		refs[t.StructID] = struct{}{}
		s = ref(t.StructID)
	case models.Slice:
		if t.SliceElementType != nil {
			s = "[]" + typeString(*t.SliceElementType, refs)
		} else {
			s = "[]interface{}"
		}
	default:
		s = t.Name
	}
	if t.IsPointer {
		return "*" + s
	}
	return s
}

func usesTime(t models.TypeInfo) bool {
	if t.Kind == models.Time {
		return true
	}
	return t.SliceElementType != nil && usesTime(*t.SliceElementType)
}

func hasField(def models.StructDef, goName string) bool {
	for _, f := range def.Fields {
		if f.GoName == goName {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
