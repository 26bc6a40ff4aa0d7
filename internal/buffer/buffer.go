// Package buffer holds the destination text as lines plus a selection, and
// applies generated code to it.
package buffer

import "sync"

// Position is a zero-based line and column.
type Position struct {
	Line   int
	Column int
}

// Range is a selection. Start and End are equal for a caret.
type Range struct {
	Start Position
	End   Position
}

// Caret returns an empty selection at p.
func Caret(line, column int) Range {
	p := Position{Line: line, Column: column}
	return Range{Start: p, End: p}
}

// IsEmpty reports whether the selection is a caret.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Buffer is a line buffer with selections. All methods are safe for
// concurrent use, but mutations are expected to come from one Owner.
type Buffer struct {
	mu              sync.Mutex
	lines           []string
	selections      []Range
	eol             string
	trailingNewline bool
}

// New creates a buffer holding a copy of lines with no selection.
func New(lines []string) *Buffer {
	return &Buffer{lines: append([]string(nil), lines...), eol: "\n"}
}

// Line returns line i, or "" when i is out of range.
func (b *Buffer) Line(i int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return b.lines[i]
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines)
}

// Lines returns a copy of all lines.
func (b *Buffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.lines...)
}

// Selections returns a copy of the current selections.
func (b *Buffer) Selections() []Range {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Range(nil), b.selections...)
}

// SetSelections replaces the current selections.
func (b *Buffer) SetSelections(selections ...Range) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selections = append([]Range(nil), selections...)
}

// FirstSelection returns the first selection, or a caret at the top of the
// buffer when there is none.
func (b *Buffer) FirstSelection() Range {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.selections) == 0 {
		return Range{}
	}
	return b.selections[0]
}

// Patch replaces the lines covered by sel with generated and leaves a caret
// at the start of the inserted block. A selection ending on LineCount
// treats its end as one past the last line. Indices are clamped to the
// buffer. The whole patch happens under one lock.
func (b *Buffer) Patch(generated []string, sel Range) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := clamp(sel.Start.Line, 0, len(b.lines))
	if !sel.IsEmpty() {
		last := sel.End.Line
		if last == len(b.lines) {
			last--
		}
		last = clamp(last, -1, len(b.lines)-1)
		if start <= last {
			b.lines = append(b.lines[:start], b.lines[last+1:]...)
		}
	}

	patched := make([]string, 0, len(b.lines)+len(generated))
	patched = append(patched, b.lines[:start]...)
	patched = append(patched, generated...)
	patched = append(patched, b.lines[start:]...)
	b.lines = patched

	b.selections = []Range{Caret(start, 0)}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
