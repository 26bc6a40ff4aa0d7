package formatter

import (
	"fmt"
	"go/format"
	"strings"
)

// Formatter is responsible for formatting Go code according to standard conventions
type Formatter struct{}

// NewFormatter creates a new Formatter instance
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format formats a Go source fragment. The fragment may be a whole file
// or just a list of declarations without a package clause, which is what
// the generator produces for pasting into an existing file.
func (f *Formatter) Format(code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", nil
	}

	formatted, err := format.Source([]byte(code))
	if err != nil {
		return "", fmt.Errorf("failed to parse Go code: %w", err)
	}

	return string(formatted), nil
}

// FormatLines formats lines and splits the result back into lines,
// without a trailing empty line.
func (f *Formatter) FormatLines(lines []string) ([]string, error) {
	formatted, err := f.Format(strings.Join(lines, "\n"))
	if err != nil {
		return nil, err
	}
	if formatted == "" {
		return nil, nil
	}
	return strings.Split(strings.TrimRight(formatted, "\n"), "\n"), nil
}
