package config

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"
)

// Config is the language description handed to the generation backend and
// the trim policy. It is loaded once per invocation.
type Config struct {
	RootName   string           `yaml:"root_name"`
	Formatting FormattingConfig `yaml:"formatting"`
	Types      TypesConfig      `yaml:"types"`
	Naming     NamingConfig     `yaml:"naming"`
	JSONTags   JSONTagsConfig   `yaml:"json_tags"`
	Validation ValidationConfig `yaml:"validation"`
	Output     OutputConfig     `yaml:"output"`
	Arrays     ArraysConfig     `yaml:"arrays"`
	Lines      LinesConfig      `yaml:"lines"`
}

// FormattingConfig controls code formatting options
type FormattingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// TypesConfig controls type inference and mapping
type TypesConfig struct {
	OptionalAsPointers bool          `yaml:"optional_as_pointers"`
	DetectTime         bool          `yaml:"detect_time"`
	Mappings           []TypeMapping `yaml:"mappings"`
}

// TypeMapping defines a pattern-based type mapping
type TypeMapping struct {
	Pattern string `yaml:"pattern"`
	Type    string `yaml:"type"`
	Import  string `yaml:"import,omitempty"`
	Comment string `yaml:"comment,omitempty"`

	regex *regexp.Regexp
}

// NamingConfig controls field and type naming
type NamingConfig struct {
	PascalCaseFields bool              `yaml:"pascal_case_fields"`
	FieldMappings    map[string]string `yaml:"field_mappings"`
	// ReservedNames are type names generated code must not declare, for
	// example names the destination file already uses.
	ReservedNames []string `yaml:"reserved_names"`
}

// JSONTagsConfig controls JSON tag generation
type JSONTagsConfig struct {
	OmitemptyForPointers bool        `yaml:"omitempty_for_pointers"`
	OmitemptyForSlices   bool        `yaml:"omitempty_for_slices"`
	CustomOptions        []TagOption `yaml:"custom_options"`
	SkipFields           []string    `yaml:"skip_fields"`
}

// TagOption defines custom tag options for specific fields
type TagOption struct {
	Pattern string `yaml:"pattern"`
	Options string `yaml:"options"` // e.g., "omitempty", "string", "omitempty,string"
	Comment string `yaml:"comment,omitempty"`

	regex *regexp.Regexp
}

// ValidationConfig controls validation tag generation
type ValidationConfig struct {
	Enabled bool             `yaml:"enabled"`
	Rules   []ValidationRule `yaml:"rules"`
}

// ValidationRule defines a pattern-based validation rule
type ValidationRule struct {
	Pattern string `yaml:"pattern"`
	Tag     string `yaml:"tag"`

	regex *regexp.Regexp
}

// OutputConfig controls which boilerplate is generated next to the types
type OutputConfig struct {
	// FileHeader is written as a comment block above every generated
	// type. "{{name}}" is replaced with the type name.
	FileHeader            string `yaml:"file_header"`
	GenerateConstructors  bool   `yaml:"generate_constructors"`
	GenerateUtilities     bool   `yaml:"generate_utilities"`
	GenerateStringMethods bool   `yaml:"generate_string_methods"`
}

// ArraysConfig controls array handling
type ArraysConfig struct {
	MergeDifferentObjects bool `yaml:"merge_different_objects"`
	SingularizeNames      bool `yaml:"singularize_names"`
}

// LinesConfig describes how destination lines are classified when
// generated text is merged into an existing buffer.
type LinesConfig struct {
	CommentPrefix  string   `yaml:"comment_prefix"`
	ImportPrefixes []string `yaml:"import_prefixes"`
}

// DefaultRootName is used when neither the config nor the caller names the root type.
const DefaultRootName = "RootClass"

// ReferencePrefix starts the placeholder the generator writes wherever a
// type name is not settled yet. Configured text must not contain it.
const ReferencePrefix = "${ref:"

// DefaultFileHeader mirrors the banner of a generated source file.
const DefaultFileHeader = "\n{{name}}.go\nGenerated by pastejson\n"

// DefaultImportPrefixes covers import directives of Go, Swift, Java,
// Kotlin, C, C++, Objective-C and C#.
var DefaultImportPrefixes = []string{"import ", "#include ", "#import ", "@import ", "using "}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		RootName: DefaultRootName,
		Formatting: FormattingConfig{
			Enabled: true,
		},
		Types: TypesConfig{
			OptionalAsPointers: true,
			DetectTime:         true,
			Mappings:           []TypeMapping{},
		},
		Naming: NamingConfig{
			PascalCaseFields: true,
			FieldMappings:    make(map[string]string),
			ReservedNames:    []string{},
		},
		JSONTags: JSONTagsConfig{
			OmitemptyForPointers: true,
			OmitemptyForSlices:   true,
		},
		Validation: ValidationConfig{
			Enabled: false,
			Rules:   []ValidationRule{},
		},
		Output: OutputConfig{
			FileHeader:           DefaultFileHeader,
			GenerateConstructors: true,
			GenerateUtilities:    true,
		},
		Arrays: ArraysConfig{
			MergeDifferentObjects: true,
			SingularizeNames:      true,
		},
		Lines: LinesConfig{
			CommentPrefix:  "//",
			ImportPrefixes: append([]string(nil), DefaultImportPrefixes...),
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.compilePatterns(); err != nil {
		return nil, fmt.Errorf("failed to compile patterns: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the pipeline cannot work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Lines.CommentPrefix) == "" {
		return fmt.Errorf("lines.comment_prefix must not be empty")
	}
	for _, p := range c.Lines.ImportPrefixes {
		if p == "" {
			return fmt.Errorf("lines.import_prefixes must not contain empty prefixes")
		}
	}
	if strings.Contains(c.Output.FileHeader, ReferencePrefix) {
		return fmt.Errorf("output.file_header must not contain %q", ReferencePrefix)
	}
	for _, m := range c.Types.Mappings {
		if strings.Contains(m.Type, ReferencePrefix) || strings.Contains(m.Comment, ReferencePrefix) {
			return fmt.Errorf("types.mappings[%s] must not contain %q", m.Pattern, ReferencePrefix)
		}
		if strings.ContainsAny(m.Comment, "\r\n") {
			return fmt.Errorf("types.mappings[%s]: comment must be a single line", m.Pattern)
		}
	}
	return nil
}

// Clone returns a deep copy so callers can adjust a config for one
// invocation without touching shared state.
func (c *Config) Clone() *Config {
	out := *c
	out.Types.Mappings = append([]TypeMapping(nil), c.Types.Mappings...)
	out.JSONTags.CustomOptions = append([]TagOption(nil), c.JSONTags.CustomOptions...)
	out.JSONTags.SkipFields = append([]string(nil), c.JSONTags.SkipFields...)
	out.Validation.Rules = append([]ValidationRule(nil), c.Validation.Rules...)
	out.Naming.ReservedNames = append([]string(nil), c.Naming.ReservedNames...)
	out.Lines.ImportPrefixes = append([]string(nil), c.Lines.ImportPrefixes...)
	out.Naming.FieldMappings = make(map[string]string, len(c.Naming.FieldMappings))
	for k, v := range c.Naming.FieldMappings {
		out.Naming.FieldMappings[k] = v
	}
	return &out
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findConfigFrom(currentDir)
}

func findConfigFrom(dir string) string {
	configNames := []string{".pastejson.yml", ".pastejson.yaml", "pastejson.yml", "pastejson.yaml"}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			break
		}
		dir = parentDir
	}

	return ""
}

// compilePatterns compiles all regex patterns in the config
func (c *Config) compilePatterns() error {
	for i := range c.Types.Mappings {
		mapping := &c.Types.Mappings[i]
		regex, err := regexp.Compile(mapping.Pattern)
		if err != nil {
			return fmt.Errorf("invalid type mapping pattern '%s': %w", mapping.Pattern, err)
		}
		mapping.regex = regex
	}

	for i := range c.Validation.Rules {
		rule := &c.Validation.Rules[i]
		regex, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return fmt.Errorf("invalid validation rule pattern '%s': %w", rule.Pattern, err)
		}
		rule.regex = regex
	}

	for i := range c.JSONTags.CustomOptions {
		option := &c.JSONTags.CustomOptions[i]
		regex, err := regexp.Compile(option.Pattern)
		if err != nil {
			return fmt.Errorf("invalid tag option pattern '%s': %w", option.Pattern, err)
		}
		option.regex = regex
	}

	return nil
}

func matchPattern(re **regexp.Regexp, pattern, value string) bool {
	if *re == nil {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return false
		}
		*re = compiled
	}
	return (*re).MatchString(value)
}

// MatchesField checks if this type mapping matches the given field name
func (tm *TypeMapping) MatchesField(fieldName string) bool {
	return matchPattern(&tm.regex, tm.Pattern, fieldName)
}

// MatchesField checks if this validation rule matches the given field name
func (vr *ValidationRule) MatchesField(fieldName string) bool {
	return matchPattern(&vr.regex, vr.Pattern, fieldName)
}

// MatchesField checks if this tag option matches the given field name
func (to *TagOption) MatchesField(fieldName string) bool {
	return matchPattern(&to.regex, to.Pattern, fieldName)
}

// GetFieldName returns the Go field name for a JSON key, applying naming rules.
// The result is always an exported identifier.
func (c *Config) GetFieldName(jsonKey string) string {
	name := jsonKey
	if mapped, exists := c.Naming.FieldMappings[jsonKey]; exists {
		name = mapped
	} else if c.Naming.PascalCaseFields {
		name = strcase.ToCamel(jsonKey)
	}
	return exportedIdentifier(name)
}

// exportedIdentifier upper-cases the first letter of name, or prefixes it
// with Field when that is not enough to export it.
func exportedIdentifier(name string) string {
	if !token.IsIdentifier(name) {
		name = strcase.ToCamel(name)
	}
	r, size := utf8.DecodeRuneInString(name)
	switch {
	case name == "":
		return "Field"
	case unicode.IsUpper(r):
		return name
	case unicode.IsLower(r) && unicode.IsUpper(unicode.ToUpper(r)):
		return string(unicode.ToUpper(r)) + name[size:]
	}
	return "Field" + name
}

// FindTypeMapping finds the first type mapping that matches the field name
func (c *Config) FindTypeMapping(fieldName string) (TypeMapping, bool) {
	for i := range c.Types.Mappings {
		if c.Types.Mappings[i].MatchesField(fieldName) {
			return c.Types.Mappings[i], true
		}
	}
	return TypeMapping{}, false
}

// FindValidationRule finds the first validation rule that matches the field name
func (c *Config) FindValidationRule(fieldName string) (ValidationRule, bool) {
	if !c.Validation.Enabled {
		return ValidationRule{}, false
	}

	for i := range c.Validation.Rules {
		if c.Validation.Rules[i].MatchesField(fieldName) {
			return c.Validation.Rules[i], true
		}
	}
	return ValidationRule{}, false
}

// FindTagOption finds the first tag option that matches the field name
func (c *Config) FindTagOption(fieldName string) (TagOption, bool) {
	for i := range c.JSONTags.CustomOptions {
		if c.JSONTags.CustomOptions[i].MatchesField(fieldName) {
			return c.JSONTags.CustomOptions[i], true
		}
	}
	return TagOption{}, false
}

// ShouldSkipField checks if a field should be left out of generated types
func (c *Config) ShouldSkipField(fieldName string) bool {
	for _, skip := range c.JSONTags.SkipFields {
		if skip == fieldName {
			return true
		}
	}
	return false
}

// IsReservedName reports whether name must not be declared by generated code.
func (c *Config) IsReservedName(name string) bool {
	for _, r := range c.Naming.ReservedNames {
		if r == name {
			return true
		}
	}
	return false
}

// HeaderLines expands the file header template for one type.
func (c *Config) HeaderLines(typeName string) []string {
	if c.Output.FileHeader == "" {
		return nil
	}
	text := strings.ReplaceAll(c.Output.FileHeader, "{{name}}", typeName)
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
