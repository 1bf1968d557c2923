// Package writer implements the Writer: a three-mode serializer (verbose,
// inline, compressed) that walks a Stylesheet and asks each unit to write
// itself, the unit deciding its own formatting by querying the current
// mode rather than the traversal branching on unit type.
package writer

import (
	"github.com/cssdoc/cssdoc/internal/cssast"
	"github.com/cssdoc/cssdoc/internal/helpers"
)

// Mode selects one of the three output styles spec'd for the writer.
type Mode uint8

const (
	// Verbose: one declaration per line, indented inside blocks, braces on
	// adjacent lines with newlines.
	Verbose Mode = iota
	// Inline: one rule per line, selectors then '{', declarations separated
	// by "; ", closing '}' on the same line.
	Inline
	// Compressed: no optional whitespace, no trailing ';' before '}', no
	// space after ':', no space around combinators, lowercase hex where
	// safe, last declaration loses its trailing semicolon.
	Compressed
)

// Writer walks a Stylesheet and renders it in one Mode. It is not
// goroutine-safe and not meant to be reused across unrelated documents: a
// fresh Writer is cheap (one Joiner buffer) and matches the teacher's
// own printer-per-print-call shape. The buffer is a Joiner rather than a
// strings.Builder so the many small literal fragments each write call emits
// (braces, combinators, indentation) are concatenated in one final
// allocation instead of repeatedly growing a single buffer.
type Writer struct {
	mode   Mode
	buf    helpers.Joiner
	indent int
}

// New creates a Writer for the given Mode.
func New(mode Mode) *Writer {
	return &Writer{mode: mode}
}

func (w *Writer) verbose() bool    { return w.mode == Verbose }
func (w *Writer) inline() bool     { return w.mode == Inline }
func (w *Writer) compressed() bool { return w.mode == Compressed }

func (w *Writer) print(s string) { w.buf.AddString(s) }

func (w *Writer) printIndent() {
	if !w.verbose() {
		return
	}
	for i := 0; i < w.indent; i++ {
		w.buf.AddString("  ")
	}
}

func (w *Writer) newline() {
	if w.verbose() {
		w.buf.AddString("\n")
	}
}

// WriteStylesheet renders ss in the given mode and returns the result. Each
// call builds its own fresh Writer, so no buffer carries over between
// documents.
func WriteStylesheet(ss *cssast.Stylesheet, mode Mode) string {
	w := New(mode)
	w.writeStatements(ss.Statements.Items())
	return string(w.buf.Done())
}

func (w *Writer) writeStatements(stmts []cssast.Statement) {
	first := true
	for _, st := range stmts {
		if !st.IsWritable() {
			continue
		}
		if !first {
			w.statementSeparator()
		}
		first = false
		w.writeStatement(st)
	}
}

// statementSeparator emits whatever sits between two consecutive written
// top-level (or nested) statements: a newline in verbose and inline modes,
// nothing in compressed mode.
func (w *Writer) statementSeparator() {
	if w.compressed() {
		return
	}
	w.buf.AddString("\n")
}

func (w *Writer) writeStatement(st cssast.Statement) {
	switch v := st.(type) {
	case *cssast.Rule:
		w.writeRule(v)
	case *cssast.AtRule:
		w.writeAtRule(v)
	}
}

func (w *Writer) writeRule(r *cssast.Rule) {
	w.printIndent()
	w.writeSelectorGroup(r.Selectors.Items())
	w.print("{")
	w.writeDeclarationBlockBody(r.Declarations.Items())
	w.printIndent()
	w.print("}")
}

// writeSelectorGroup already leaves the cursor right after the trailing
// selector separator space (verbose/inline) or with none (compressed), so
// writeRule prints '{' directly rather than going through openBrace.

func (w *Writer) writeSelectorGroup(sels []*cssast.Selector) {
	first := true
	for _, s := range sels {
		if !s.IsWritable() {
			continue
		}
		if !first {
			if w.compressed() {
				w.print(",")
			} else {
				w.print(", ")
			}
		}
		first = false
		w.writeSelector(s)
	}
	if !w.compressed() {
		w.print(" ")
	}
}

func (w *Writer) writeSelector(s *cssast.Selector) {
	if !s.IsRefined() {
		w.print(s.RawContent)
		return
	}
	parts := s.Parts.Items()
	for i, p := range parts {
		if !p.IsWritable() {
			continue
		}
		if p.PartKind == cssast.PartCombinator {
			w.writeCombinator(p, i == 0)
			continue
		}
		w.writeSelectorPart(p)
	}
}

func (w *Writer) writeCombinator(p *cssast.SelectorPart, isFirst bool) {
	if p.Name == " " {
		// The descendant combinator is whitespace itself: dropping it would
		// merge two compound selectors into one, so it prints even in
		// compressed mode, unlike an explicit '>'/'+'/'~'.
		w.print(" ")
		return
	}
	if w.compressed() {
		w.print(p.Name)
	} else {
		w.print(" " + p.Name + " ")
	}
}

func (w *Writer) writeSelectorPart(p *cssast.SelectorPart) {
	switch p.PartKind {
	case cssast.PartType:
		w.print(p.Name)
	case cssast.PartUniversal:
		w.print("*")
	case cssast.PartID:
		w.print("#" + p.Name)
	case cssast.PartClass:
		w.print("." + p.Name)
	case cssast.PartAttribute:
		w.writeAttributePart(p)
	case cssast.PartPseudoClass:
		w.print(":" + p.Name)
		w.writePseudoArgs(p)
	case cssast.PartPseudoElement:
		w.print("::" + p.Name)
		w.writePseudoArgs(p)
	}
}

func (w *Writer) writePseudoArgs(p *cssast.SelectorPart) {
	if p.Args == "" {
		return
	}
	w.print("(" + p.Args + ")")
}

func (w *Writer) writeAttributePart(p *cssast.SelectorPart) {
	w.print("[" + p.Name)
	if p.AttrMatcher != "" {
		w.print(p.AttrMatcher)
		if p.AttrQuoted {
			w.print("\"" + p.AttrValue + "\"")
		} else {
			w.print(p.AttrValue)
		}
	}
	w.print("]")
}

// writeDeclarationBlockBody renders a block's declarations (after the
// opening '{' has already been printed) but not the closing '}', which the
// caller prints after restoring the outer indent level.
func (w *Writer) writeDeclarationBlockBody(decls []*cssast.Declaration) {
	writable := make([]*cssast.Declaration, 0, len(decls))
	for _, d := range decls {
		if d.IsWritable() {
			writable = append(writable, d)
		}
	}
	if len(writable) == 0 {
		return
	}
	if w.inline() {
		w.print(" ")
	}
	w.indent++
	w.newline()
	for i, d := range writable {
		w.printIndent()
		w.writeDeclaration(d)
		last := i == len(writable)-1
		if !last {
			w.writeDeclarationSeparator()
		} else if w.verbose() {
			w.print(";")
		}
		w.newline()
	}
	w.indent--
	if w.inline() {
		w.print(" ")
	}
}

// writeDeclarationSeparator emits the punctuation between two declarations
// that are not the block's last: ";\n" in verbose (the newline comes from
// the caller's w.newline() right after), "; " in inline, ";" in compressed.
func (w *Writer) writeDeclarationSeparator() {
	switch w.mode {
	case Verbose:
		w.print(";")
	case Inline:
		w.print("; ")
	case Compressed:
		w.print(";")
	}
}
