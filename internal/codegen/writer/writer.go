// Package writer builds indented C# source text.
package writer

import (
	"fmt"
	"strings"
)

// Writer accumulates source text with brace-aware indentation.
type Writer struct {
	sb          strings.Builder
	indent      string
	level       int
	prefix      string
	needsIndent bool
}

// NewWriter creates a writer that indents with indent per level.
func NewWriter(indent string) *Writer {
	return &Writer{indent: indent, needsIndent: true}
}

// Indent increases the indentation level.
func (w *Writer) Indent() {
	w.level++
	w.prefix = strings.Repeat(w.indent, w.level)
}

// Dedent decreases the indentation level, never below zero.
func (w *Writer) Dedent() {
	if w.level == 0 {
		return
	}
	w.level--
	w.prefix = strings.Repeat(w.indent, w.level)
}

// IndentLevel returns the current indentation level.
func (w *Writer) IndentLevel() int {
	return w.level
}

// Write writes s, indenting first if it starts a line.
func (w *Writer) Write(s string) {
	if w.needsIndent && s != "" {
		w.sb.WriteString(w.prefix)
		w.needsIndent = false
	}
	w.sb.WriteString(s)
}

// Writef is Write with formatting.
func (w *Writer) Writef(format string, args ...any) {
	w.Write(fmt.Sprintf(format, args...))
}

// WriteLine writes s and ends the line.
func (w *Writer) WriteLine(s string) {
	w.Write(s)
	w.Newline()
}

// WriteLinef is WriteLine with formatting.
func (w *Writer) WriteLinef(format string, args ...any) {
	w.Writef(format, args...)
	w.Newline()
}

// Newline ends the current line.
func (w *Writer) Newline() {
	w.sb.WriteByte('\n')
	w.needsIndent = true
}

// BlankLine writes an empty line unless the text is empty, already ends
// with one, or just opened a block.
func (w *Writer) BlankLine() {
	s := w.sb.String()
	if s == "" || strings.HasSuffix(s, "\n\n") || strings.HasSuffix(s, "{\n") {
		return
	}
	w.Newline()
}

// WriteBlock writes header, then content between braces on their own lines.
func (w *Writer) WriteBlock(header string, content func()) {
	closeBlock := w.OpenBlock(header)
	content()
	closeBlock()
}

// OpenBlock writes header and an opening brace and returns the function that
// closes it. Blocks opened in a loop are closed in reverse order. An empty
// header writes only the brace.
func (w *Writer) OpenBlock(header string) func() {
	if header != "" {
		w.WriteLine(header)
	}
	w.WriteLine("{")
	w.Indent()
	return func() {
		w.Dedent()
		w.WriteLine("}")
	}
}

// WriteComment writes a line comment.
func (w *Writer) WriteComment(comment string) {
	w.WriteLinef("// %s", comment)
}

// WriteDocComment writes doc as an XML summary. Empty doc writes nothing.
func (w *Writer) WriteDocComment(doc string) {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return
	}
	w.WriteLine("/// <summary>")
	for _, line := range strings.Split(doc, "\n") {
		w.WriteLinef("/// %s", strings.TrimSpace(line))
	}
	w.WriteLine("/// </summary>")
}

// String returns the text written so far.
func (w *Writer) String() string {
	return w.sb.String()
}

// Bytes returns the text written so far.
func (w *Writer) Bytes() []byte {
	return []byte(w.sb.String())
}
