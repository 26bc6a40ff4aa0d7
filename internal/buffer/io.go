package buffer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Read loads a buffer from r. The line ending style ("\n" or "\r\n") and
// whether the text ended with a newline are kept for WriteTo.
func Read(r io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read buffer: %w", err)
	}

	b := &Buffer{eol: "\n"}
	if bytes.Contains(data, []byte("\r\n")) {
		b.eol = "\r\n"
	}
	if len(data) == 0 {
		return b, nil
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if strings.HasSuffix(text, "\n") {
		b.trailingNewline = true
		text = strings.TrimSuffix(text, "\n")
	}
	b.lines = strings.Split(text, "\n")
	return b, nil
}

// Load reads the file at path. A missing file yields an empty buffer that
// Save will create.
func Load(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		b := New(nil)
		b.trailingNewline = true
		return b, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}

// WriteTo writes the buffer as text.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	b.mu.Lock()
	text := strings.Join(b.lines, b.eol)
	if b.trailingNewline && len(b.lines) > 0 {
		text += b.eol
	}
	b.mu.Unlock()

	n, err := io.WriteString(w, text)
	return int64(n), err
}

// Save writes the buffer to path through a temporary file in the same
// directory, so readers never see a half-written file.
func (b *Buffer) Save(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := b.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if info, err := os.Stat(path); err == nil {
		_ = os.Chmod(tmp.Name(), info.Mode().Perm())
	} else {
		_ = os.Chmod(tmp.Name(), 0o644)
	}
	return os.Rename(tmp.Name(), path)
}
