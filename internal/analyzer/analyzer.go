package analyzer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mcncl/pastejson/internal/config"
	"github.com/mcncl/pastejson/internal/models"
)

// rfc3339Regex matches the timestamps encoding/json can decode into time.Time.
var rfc3339Regex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`)

// Analyzer infers struct definitions from a canonical schema. It is not
// safe for concurrent use; create one per analysis.
type Analyzer struct {
	config *config.Config
	// structNames tracks generated struct names to avoid collisions
	structNames map[string]int
	structs     []*slot
	imports     map[string]struct{}
}

// slot is a struct reserved in discovery order. Slots whose struct turns
// out to duplicate an earlier one are dropped at the end.
type slot struct {
	def       models.StructDef
	discarded bool
	done      bool
}

// NewAnalyzer creates a new Analyzer instance with default configuration.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(config.NewConfig())
}

// NewAnalyzerWithConfig creates a new Analyzer instance with custom configuration.
func NewAnalyzerWithConfig(cfg *config.Config) *Analyzer {
	return &Analyzer{
		config:      cfg,
		structNames: make(map[string]int),
		imports:     make(map[string]struct{}),
	}
}

// Analyze returns the struct definitions for schema with the root struct
// first and nested structs after it in discovery order. rootName is used
// verbatim.
func (a *Analyzer) Analyze(schema models.JSONObject, rootName string) (models.AnalysisResult, error) {
	if rootName == "" {
		return models.AnalysisResult{}, fmt.Errorf("root struct name must not be empty")
	}
	if schema == nil {
		schema = models.JSONObject{}
	}

	if _, err := a.analyzeObjects([]models.JSONObject{schema}, rootName, true); err != nil {
		return models.AnalysisResult{}, fmt.Errorf("failed to analyze root object: %w", err)
	}

	result := models.AnalysisResult{
		Structs: make([]models.StructDef, 0, len(a.structs)),
		Imports: a.imports,
	}
	for _, s := range a.structs {
		if !s.discarded {
			result.Structs = append(result.Structs, s.def)
		}
	}
	return result, nil
}

// analyzeObjects builds one struct out of every sample object. A key that
// is missing from some samples, or null in some, is optional.
func (a *Analyzer) analyzeObjects(objects []models.JSONObject, suggestedName string, isRoot bool) (models.TypeInfo, error) {
	s := &slot{def: models.StructDef{ID: len(a.structs), IsRoot: isRoot}}
	a.structs = append(a.structs, s)
	if isRoot {
		// Claimed up front so no nested struct can take the root's name.
		a.structNames[suggestedName]++
		s.def.Name = suggestedName
	}

	samples := make(map[string][]models.JSONValue)
	for _, obj := range objects {
		for key, val := range obj {
			samples[key] = append(samples[key], val)
		}
	}

	// To ensure deterministic field ordering, extract keys, sort them, and then iterate.
	keys := make([]string, 0, len(samples))
	for k := range samples {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]models.FieldInfo, 0, len(keys))
	usedNames := make(map[string]bool, len(keys))
	for _, key := range keys {
		if a.config.ShouldSkipField(key) {
			continue
		}
		values := samples[key]
		optional := len(values) < len(objects) || containsNull(values)
		goName := uniqueFieldName(a.config.GetFieldName(key), usedNames)
		field, err := a.analyzeField(key, goName, values, suggestedName, optional)
		if err != nil {
			return models.TypeInfo{}, fmt.Errorf("failed to analyze field '%s' in object '%s': %w", key, suggestedName, err)
		}
		fields = append(fields, field)
	}
	s.def.Fields = fields

	if !isRoot {
		if existing, ok := a.findEquivalent(s); ok {
			s.discarded = true
			return structType(existing.def.ID), nil
		}
		s.def.Name = a.generateUniqueStructName(suggestedName)
	}
	s.done = true
	return structType(s.def.ID), nil
}

func (a *Analyzer) analyzeField(key, goFieldName string, values []models.JSONValue, parentName string, optional bool) (models.FieldInfo, error) {
	field := models.FieldInfo{JSONKey: key, GoName: goFieldName}

	if mapping, found := a.config.FindTypeMapping(key); found {
		if mapping.Import != "" {
			a.imports[mapping.Import] = struct{}{}
		}
		field.GoType = models.TypeInfo{Kind: models.String, Name: mapping.Type, IsPointer: optional && a.config.Types.OptionalAsPointers}
		field.Comment = mapping.Comment
	} else {
		typeInfo, err := a.analyzeValues(values, parentName+goFieldName)
		if err != nil {
			return models.FieldInfo{}, err
		}
		switch typeInfo.Kind {
		case models.Struct:
			typeInfo.IsPointer = true
		case models.Slice, models.Interface:
			typeInfo.IsPointer = false
		default:
			typeInfo.IsPointer = optional && a.config.Types.OptionalAsPointers
		}
		field.GoType = typeInfo
	}

	field.JSONTag = a.buildTag(key, field.GoType)
	return field, nil
}

// analyzeValues unifies every sample seen for one position into a single type.
func (a *Analyzer) analyzeValues(values []models.JSONValue, suggestedName string) (models.TypeInfo, error) {
	var (
		objects []models.JSONObject
		arrays  []models.JSONArray
		infos   []models.TypeInfo
	)
	for _, v := range values {
		switch val := v.(type) {
		case nil:
		case models.JSONObject:
			objects = append(objects, val)
		case models.JSONArray:
			arrays = append(arrays, val)
		default:
			info, err := a.analyzePrimitive(val)
			if err != nil {
				return models.TypeInfo{}, err
			}
			infos = append(infos, info)
		}
	}

	kinds := 0
	for _, n := range []int{len(objects), len(arrays), len(infos)} {
		if n > 0 {
			kinds++
		}
	}
	switch {
	case kinds != 1:
		return interfaceType(), nil
	case len(objects) > 0:
		if !a.config.Arrays.MergeDifferentObjects && !allSameKeys(objects) {
			return interfaceType(), nil
		}
		return a.analyzeObjects(objects, suggestedName, false)
	case len(arrays) > 0:
		var elements models.JSONArray
		for _, arr := range arrays {
			elements = append(elements, arr...)
		}
		return a.analyzeArray(elements, suggestedName)
	default:
		return unifyPrimitives(infos), nil
	}
}

func (a *Analyzer) analyzeArray(elements models.JSONArray, suggestedName string) (models.TypeInfo, error) {
	elementName := suggestedName
	if a.config.Arrays.SingularizeNames {
		elementName = singularize(suggestedName)
	}

	elementType, err := a.analyzeValues(elements, elementName)
	if err != nil {
		return models.TypeInfo{}, fmt.Errorf("failed to analyze elements of array '%s': %w", suggestedName, err)
	}
	switch {
	case elementType.Kind == models.Struct:
		// For structs, prefer pointer elements in slices (common Go practice)
		elementType.IsPointer = true
	case elementType.Kind != models.Interface && elementType.Kind != models.Slice && containsNull(elements):
		elementType.IsPointer = true
	}

	return models.TypeInfo{Kind: models.Slice, SliceElementType: &elementType}, nil
}

func (a *Analyzer) analyzePrimitive(v models.JSONValue) (models.TypeInfo, error) {
	switch val := v.(type) {
	case bool:
		return models.TypeInfo{Kind: models.Bool, Name: "bool"}, nil
	case string:
		return a.analyzeString(val), nil
	case json.Number:
		return analyzeNumber(val), nil
	default:
		return models.TypeInfo{}, fmt.Errorf("unexpected json value type: %T", v)
	}
}

func (a *Analyzer) analyzeString(s string) models.TypeInfo {
	if a.config.Types.DetectTime && rfc3339Regex.MatchString(s) {
		return models.TypeInfo{Kind: models.Time, Name: "time.Time"}
	}
	return models.TypeInfo{Kind: models.String, Name: "string"}
}

func analyzeNumber(num json.Number) models.TypeInfo {
	// Use int64 for all integers - simpler and more consistent for JSON APIs
	if _, err := num.Int64(); err == nil {
		return models.TypeInfo{Kind: models.Int, Name: "int64"}
	}
	return models.TypeInfo{Kind: models.Float, Name: "float64"}
}

// unifyPrimitives widens int to float and time to string; anything else
// that disagrees becomes interface{}.
func unifyPrimitives(infos []models.TypeInfo) models.TypeInfo {
	result := infos[0]
	for _, info := range infos[1:] {
		switch {
		case info.Kind == result.Kind:
		case isNumeric(info.Kind) && isNumeric(result.Kind):
			result = models.TypeInfo{Kind: models.Float, Name: "float64"}
		case isTextual(info.Kind) && isTextual(result.Kind):
			result = models.TypeInfo{Kind: models.String, Name: "string"}
		default:
			return interfaceType()
		}
	}
	return result
}

func usesTime(t models.TypeInfo) bool {
	if t.Kind == models.Time {
		return true
	}
	return t.SliceElementType != nil && usesTime(*t.SliceElementType)
}

func (a *Analyzer) buildTag(key string, t models.TypeInfo) string {
	if usesTime(t) {
		a.imports["time"] = struct{}{}
	}

	options := ""
	switch {
	case t.IsPointer && a.config.JSONTags.OmitemptyForPointers:
		options = ",omitempty"
	case t.Kind == models.Slice && a.config.JSONTags.OmitemptyForSlices:
		options = ",omitempty"
	case t.Kind == models.Interface:
		options = ",omitempty"
	}
	if option, found := a.config.FindTagOption(key); found {
		options = ""
		if option.Options != "" {
			options = "," + option.Options
		}
	}

	if key == "-" && options == "" {
		// A bare "-" would tell encoding/json to skip the field.
		options = ","
	}

	tag := "json:" + strconv.Quote(key+options)
	if rule, found := a.config.FindValidationRule(key); found {
		tag += " " + rule.Tag
	}
	return tagLiteral(tag)
}

// tagLiteral quotes a struct tag as a raw string when it can. Tags holding
// a backtick, or text that reads as a type reference, become interpreted
// strings with every '$' escaped.
func tagLiteral(tag string) string {
	if !strings.Contains(tag, "`") && !strings.Contains(tag, "${") {
		return "`" + tag + "`"
	}
	return strings.ReplaceAll(strconv.Quote(tag), "$", `\x24`)
}

// uniqueFieldName numbers name the way struct names are numbered when an
// earlier field of the same struct already uses it.
func uniqueFieldName(name string, used map[string]bool) string {
	candidate := name
	for i := 1; used[candidate]; i++ {
		candidate = fmt.Sprintf("%s%d", name, i)
	}
	used[candidate] = true
	return candidate
}

// findEquivalent looks for an earlier, finished struct with the same shape.
func (a *Analyzer) findEquivalent(candidate *slot) (*slot, bool) {
	for _, existing := range a.structs {
		if existing == candidate || existing.discarded || !existing.done {
			continue
		}
		if areStructDefsEquivalent(&candidate.def, &existing.def) {
			return existing, true
		}
	}
	return nil, false
}

// generateUniqueStructName ensures that the struct name is unique by appending a number if needed.
func (a *Analyzer) generateUniqueStructName(baseName string) string {
	name := baseName
	count := a.structNames[baseName]
	if count > 0 {
		name = fmt.Sprintf("%s%d", baseName, count)
	}
	a.structNames[baseName] = count + 1
	return name
}

func structType(id int) models.TypeInfo {
	return models.TypeInfo{Kind: models.Struct, StructID: id}
}

func interfaceType() models.TypeInfo {
	return models.TypeInfo{Kind: models.Interface, Name: "interface{}"}
}

func isNumeric(k models.Kind) bool { return k == models.Int || k == models.Float }

func isTextual(k models.Kind) bool { return k == models.String || k == models.Time }

func containsNull(values []models.JSONValue) bool {
	for _, v := range values {
		if v == nil {
			return true
		}
	}
	return false
}

func allSameKeys(objects []models.JSONObject) bool {
	for _, obj := range objects[1:] {
		if len(obj) != len(objects[0]) {
			return false
		}
		for k := range obj {
			if _, ok := objects[0][k]; !ok {
				return false
			}
		}
	}
	return true
}

// singularize attempts to convert a plural name to a singular one.
var knownSingulars = map[string]string{
	"series":    "series",
	"status":    "status",
	"analysis":  "analysis",
	"species":   "species",
	"news":      "news",
	"children":  "child",
	"people":    "person",
	"men":       "man",
	"women":     "woman",
	"data":      "data",
	"media":     "media",
	"addresses": "address",
}

func singularize(plural string) string {
	// Only the last word of a PascalCase name is inflected.
	cut := 0
	for i, r := range plural {
		if r >= 'A' && r <= 'Z' {
			cut = i
		}
	}
	prefix, word := plural[:cut], plural[cut:]

	if singular, ok := knownSingulars[strings.ToLower(word)]; ok {
		if word != "" && strings.ToUpper(word[:1]) == word[:1] {
			singular = strings.ToUpper(singular[:1]) + singular[1:]
		}
		return prefix + singular
	}

	lower := strings.ToLower(word)
	switch {
	case strings.HasSuffix(lower, "ies") && len(lower) > 3:
		return prefix + word[:len(word)-3] + "y"
	case strings.HasSuffix(lower, "ss"), strings.HasSuffix(lower, "us"), strings.HasSuffix(lower, "is"):
		return plural
	case strings.HasSuffix(lower, "s") && len(lower) > 1:
		return prefix + word[:len(word)-1]
	}
	return plural
}

// areTypeInfosEqual checks if two TypeInfo objects represent the same type.
func areTypeInfosEqual(t1, t2 *models.TypeInfo) bool {
	if t1 == nil || t2 == nil {
		return t1 == t2
	}
	if t1.Kind != t2.Kind || t1.Name != t2.Name || t1.IsPointer != t2.IsPointer || t1.StructID != t2.StructID {
		return false
	}
	if t1.Kind == models.Slice {
		return areTypeInfosEqual(t1.SliceElementType, t2.SliceElementType)
	}
	return true
}

// areStructDefsEquivalent compares two StructDefs for structural equality.
// Field names, their Go types, and JSON tags must match.
func areStructDefsEquivalent(s1, s2 *models.StructDef) bool {
	if len(s1.Fields) != len(s2.Fields) {
		return false
	}
	for i := range s1.Fields {
		f1, f2 := s1.Fields[i], s2.Fields[i]
		if f1.JSONKey != f2.JSONKey || f1.GoName != f2.GoName || f1.JSONTag != f2.JSONTag || !areTypeInfosEqual(&f1.GoType, &f2.GoType) {
			return false
		}
	}
	return true
}
