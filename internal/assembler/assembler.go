// Package assembler turns a generated file set into the lines written into
// the destination buffer.
package assembler

import (
	"fmt"
	"strings"

	"github.com/mcncl/pastejson/internal/models"
)

// RenderFunc renders one file to text.
type RenderFunc func(file *models.GeneratedFile) (string, error)

// Assemble renders files in reverse order, so nested types come before the
// types that use them and the root lands last, and splits the result into
// lines. The files slice is not modified.
func Assemble(files models.FileSet, render RenderFunc) ([]string, error) {
	var lines []string
	for i := len(files) - 1; i >= 0; i-- {
		text, err := render(files[i])
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", files[i].Name, err)
		}
		lines = append(lines, SplitLines(text)...)
	}
	return lines, nil
}

// SplitLines splits text on "\n", also accepting "\r\n" line endings.
func SplitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
