// Package clipboard provides the text sources JSON is read from.
package clipboard

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/mcncl/pastejson/internal/errors"
)

// Source supplies the raw JSON text for one invocation.
type Source interface {
	ReadText() (string, error)
}

// System reads the operating system clipboard.
type System struct{}

// ReadText implements Source.
func (System) ReadText() (string, error) {
	if clipboard.Unsupported {
		return "", errors.NewInputError("clipboard is not supported on this system", errors.ErrClipboardEmpty)
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", errors.NewInputError("failed to read clipboard", err)
	}
	return nonEmpty(text, "clipboard")
}

// Static always returns the same text. Useful for tests and hosts that
// already hold the pasteboard contents.
type Static string

// ReadText implements Source.
func (s Static) ReadText() (string, error) {
	return nonEmpty(string(s), "static text")
}

// File reads the text from a file on disk.
type File string

// ReadText implements Source.
func (f File) ReadText() (string, error) {
	data, err := os.ReadFile(string(f))
	if os.IsNotExist(err) {
		return "", errors.NewInputError(fmt.Sprintf("file '%s' does not exist", string(f)), errors.ErrFileNotFound)
	}
	if err != nil {
		return "", errors.NewInputError(fmt.Sprintf("failed to read file '%s'", string(f)), err)
	}
	return nonEmpty(string(data), string(f))
}

// Reader reads everything from R, typically stdin.
type Reader struct {
	R io.Reader
}

// ReadText implements Source.
func (r Reader) ReadText() (string, error) {
	data, err := io.ReadAll(r.R)
	if err != nil {
		return "", errors.NewInputError("failed to read input", err)
	}
	return nonEmpty(string(data), "input stream")
}

func nonEmpty(text, origin string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.NewInputError(origin+" does not contain any text", errors.ErrClipboardEmpty)
	}
	return text, nil
}
