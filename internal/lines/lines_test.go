package lines

import (
	"testing"

	"github.com/mcncl/pastejson/internal/config"
	"github.com/stretchr/testify/assert"
)

type sliceReader []string

func (s sliceReader) Line(i int) string { return s[i] }
func (s sliceReader) LineCount() int    { return len(s) }

func goClassifier() Classifier {
	return NewClassifier(config.NewConfig().Lines)
}

func TestClassifier_Predicates(t *testing.T) {
	c := goClassifier()

	tests := []struct {
		line                       string
		blank, comment, importLine bool
	}{
		{"", true, false, false},
		{" \t\r\n", true, false, false},
		{"// comment", false, true, false},
		{"//", false, true, false},
		{"\t// indented", false, false, false},
		{`import "fmt"`, false, false, true},
		{"#include <stdio.h>", false, false, true},
		{"#import <Foundation/Foundation.h>", false, false, true},
		{"@import UIKit;", false, false, true},
		{"using System;", false, false, true},
		{"important := 1", false, false, false},
		{"type A struct {", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.blank, c.IsBlank(tt.line), "IsBlank")
			assert.Equal(t, tt.comment, c.IsComment(tt.line), "IsComment")
			assert.Equal(t, tt.importLine, c.IsImport(tt.line), "IsImport")
		})
	}
}

func TestClassifier_CustomPrefixes(t *testing.T) {
	c := Classifier{CommentPrefix: "#", ImportPrefixes: []string{"from ", "import "}}

	assert.True(t, c.IsComment("# note"))
	assert.False(t, c.IsComment("// note"))
	assert.True(t, c.IsImport("from x import y"))
	assert.False(t, c.IsImport("#include <x>"))
}

func TestTrimStart(t *testing.T) {
	c := goClassifier()

	onlyNoise := []string{"//", "// A.go", `import "time"`, "", "  "}
	assert.Empty(t, c.TrimStart(onlyNoise))

	code := []string{"type A struct {", "}", ""}
	assert.Equal(t, code, c.TrimStart(code))

	mixed := []string{"// A.go", `import "time"`, "", "type A struct {", "// inner", "}"}
	assert.Equal(t, []string{"type A struct {", "// inner", "}"}, c.TrimStart(mixed))
}

func TestTrimEnd(t *testing.T) {
	c := goClassifier()

	assert.Equal(t, []string{"type A struct {", "}"}, c.TrimEnd([]string{"type A struct {", "}", "", "// trailing", ""}))
	assert.Equal(t, []string{`import "time"`}, c.TrimEnd([]string{`import "time"`, ""}), "imports survive at the end")
	assert.Empty(t, c.TrimEnd([]string{"", "//"}))

	code := []string{"a", "b"}
	assert.Equal(t, code, c.TrimEnd(code))
}

func TestInsertingAfterCode(t *testing.T) {
	c := goClassifier()

	tests := []struct {
		name      string
		buf       sliceReader
		startLine int
		want      bool
	}{
		{"empty buffer", nil, 0, false},
		{"top of file", sliceReader{"package main"}, 0, false},
		{"only comments above", sliceReader{"// header", "", "// more", "package main"}, 3, false},
		{"code above", sliceReader{"package main", "", "var x = 1"}, 2, true},
		{"start past the end", sliceReader{"", "x := 1"}, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.InsertingAfterCode(tt.buf, tt.startLine))
		})
	}
}

func TestApply(t *testing.T) {
	c := goClassifier()
	generated := []string{"//", "// A.go", `import "time"`, "", "type A struct {", "}", ""}

	top := c.Apply(sliceReader{}, 0, generated)
	assert.Equal(t, []string{"//", "// A.go", `import "time"`, "", "type A struct {", "}"}, top)

	afterCode := c.Apply(sliceReader{"package main", "var x = 1", ""}, 2, generated)
	assert.Equal(t, []string{"type A struct {", "}"}, afterCode)
}
