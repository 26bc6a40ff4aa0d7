package models

import "github.com/mcncl/pastejson/internal/config"

// JSONValue is a generic type to represent any JSON value.
// This can be a string, json.Number, bool, nil, JSONObject or JSONArray.
type JSONValue interface{}

// JSONObject represents a JSON object, which is a map of strings to JSONValues.
type JSONObject map[string]JSONValue

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// IntermediateRepresentation holds the parsed JSON data before it is
// normalized into a canonical schema.
type IntermediateRepresentation struct {
	Root        JSONValue
	RootIsArray bool // True if the root of the JSON is an array vs an object
}

// Kind is the inferred shape of a JSON value.
type Kind int

const (
	Interface Kind = iota
	Bool
	Int
	Float
	String
	Time
	Struct
	Slice
)

// TypeInfo describes the Go type chosen for a JSON value.
type TypeInfo struct {
	Kind             Kind
	Name             string
	IsPointer        bool
	SliceElementType *TypeInfo
	// StructID identifies the referenced struct when Kind is Struct.
	StructID int
}

// FieldInfo is one struct field.
type FieldInfo struct {
	JSONKey string
	GoName  string
	GoType  TypeInfo
	JSONTag string
	Comment string
}

// StructDef is one inferred struct type. ID is the discovery index and is
// stable for the lifetime of one analysis; Name may still change.
type StructDef struct {
	ID     int
	Name   string
	Fields []FieldInfo
	IsRoot bool
}

// AnalysisResult holds discovered structs, root first, and the imports they need.
type AnalysisResult struct {
	Structs []StructDef
	Imports map[string]struct{}
}

// GeneratedFile is one named unit of generated text.
type GeneratedFile struct {
	// ID is the identity other files use to reference this one.
	ID   int
	Name string
	// Header holds leading comment lines.
	Header  []string
	Imports []string
	// Body holds the declarations. Until references are fixed it may
	// contain reference tokens pointing at other files by ID.
	Body       []string
	References []int
	IsRoot     bool
	// Format asks the renderer to gofmt Body.
	Format bool
}

// FileSet is the ordered output of one generation: root first, nested
// types after, in discovery order.
type FileSet []*GeneratedFile

// Find returns the file with the given ID.
func (fs FileSet) Find(id int) (*GeneratedFile, bool) {
	for _, f := range fs {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}

// GenerationRequest is everything a backend needs for one generation.
type GenerationRequest struct {
	Schema          JSONObject
	DesiredRootName string
	Language        *config.Config
}

// GenerationResult is what a backend produced, including the root name it
// settled on after collision avoidance.
type GenerationResult struct {
	Files            FileSet
	ResolvedRootName string
}
