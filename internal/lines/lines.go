// Package lines classifies destination lines and trims generated output
// depending on where it is inserted.
package lines

import (
	"strings"

	"github.com/mcncl/pastejson/internal/config"
)

// LineReader is the read side of a line buffer.
type LineReader interface {
	Line(i int) string
	LineCount() int
}

// Classifier recognizes blank, comment and import lines. Prefixes are
// matched against the raw line, so indented comments are not comments.
type Classifier struct {
	CommentPrefix  string
	ImportPrefixes []string
}

// NewClassifier builds a Classifier from the language configuration.
func NewClassifier(cfg config.LinesConfig) Classifier {
	return Classifier{CommentPrefix: cfg.CommentPrefix, ImportPrefixes: cfg.ImportPrefixes}
}

// IsBlank reports whether line is empty after trimming whitespace.
func (c Classifier) IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// IsComment reports whether line starts with the comment prefix.
func (c Classifier) IsComment(line string) bool {
	return c.CommentPrefix != "" && strings.HasPrefix(line, c.CommentPrefix)
}

// IsImport reports whether line starts with one of the import prefixes.
func (c Classifier) IsImport(line string) bool {
	for _, prefix := range c.ImportPrefixes {
		if prefix != "" && strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// TrimStart drops leading comment, blank and import lines.
func (c Classifier) TrimStart(generated []string) []string {
	i := 0
	for i < len(generated) && (c.IsComment(generated[i]) || c.IsBlank(generated[i]) || c.IsImport(generated[i])) {
		i++
	}
	return generated[i:]
}

// TrimEnd drops trailing blank and comment lines. Imports are kept.
func (c Classifier) TrimEnd(generated []string) []string {
	i := len(generated)
	for i > 0 && (c.IsBlank(generated[i-1]) || c.IsComment(generated[i-1])) {
		i--
	}
	return generated[:i]
}

// InsertingAfterCode reports whether any line above startLine is real code.
func (c Classifier) InsertingAfterCode(buf LineReader, startLine int) bool {
	end := startLine
	if n := buf.LineCount(); end > n {
		end = n
	}
	for i := 0; i < end; i++ {
		line := buf.Line(i)
		if c.IsBlank(line) || c.IsComment(line) {
			continue
		}
		return true
	}
	return false
}

// Apply trims generated for insertion at startLine. Below existing code the
// leading imports and comments are dropped as well.
func (c Classifier) Apply(buf LineReader, startLine int, generated []string) []string {
	if c.InsertingAfterCode(buf, startLine) {
		return c.TrimEnd(c.TrimStart(generated))
	}
	return c.TrimEnd(generated)
}
