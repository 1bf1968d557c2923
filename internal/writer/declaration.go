package writer

import (
	"strings"

	"github.com/cssdoc/cssdoc/internal/cssast"
)

func (w *Writer) writeDeclaration(d *cssast.Declaration) {
	w.writePropertyName(d)
	if w.compressed() {
		w.print(":")
	} else {
		w.print(": ")
	}
	w.writePropertyValue(d)
}

func (w *Writer) writePropertyName(d *cssast.Declaration) {
	if !d.IsRefined() {
		w.print(d.RawName)
		return
	}
	w.print(d.RefinedName.Raw)
}

func (w *Writer) writePropertyValue(d *cssast.Declaration) {
	if !d.IsRefined() {
		w.print(d.RawValue)
		return
	}
	v := d.RefinedValue
	if v.Kind == cssast.ValueUnquotedIEFilter {
		w.print(v.RawContent)
	} else {
		w.writeValueMembers(v.Members)
	}
	if v.Important {
		if w.compressed() {
			w.print("!important")
		} else {
			w.print(" !important")
		}
	}
}

func (w *Writer) writeValueMembers(members []cssast.ValueMember) {
	for _, m := range members {
		if m.IsOperator {
			w.writeOperator(m.Operator)
			continue
		}
		w.writeTerm(m.Term)
	}
}

func (w *Writer) writeOperator(op cssast.OperatorKind) {
	switch op {
	case cssast.OpComma:
		if w.compressed() {
			w.print(",")
		} else {
			w.print(", ")
		}
	case cssast.OpSlash:
		if w.compressed() {
			w.print("/")
		} else {
			w.print(" / ")
		}
	default: // OpSpace
		w.print(" ")
	}
}

func (w *Writer) writeTerm(t cssast.Term) {
	switch t.Kind {
	case cssast.TermKeyword:
		w.print(t.Keyword)
	case cssast.TermNumeric:
		w.print(t.NumericRaw + t.Unit)
	case cssast.TermString:
		w.writeStringTerm(t)
	case cssast.TermHexColor:
		w.writeHexColorTerm(t)
	case cssast.TermFunction:
		w.print(t.FuncName + "(" + t.RawArgs + ")")
	case cssast.TermURL:
		w.writeURLTerm(t)
	}
}

func (w *Writer) writeStringTerm(t cssast.Term) {
	q := string(t.Quote)
	if q == "" {
		q = "\""
	}
	w.print(q + t.Content + q)
}

// writeHexColorTerm lowercases hex digits only in compressed mode — other
// modes preserve the author's original casing, since case carries no
// meaning in source but rewriting it unasked in verbose/inline output would
// be a needless diff against hand-authored CSS.
func (w *Writer) writeHexColorTerm(t cssast.Term) {
	digits := t.HexDigits
	if w.compressed() {
		digits = strings.ToLower(digits)
	}
	w.print("#" + digits)
}

func (w *Writer) writeURLTerm(t cssast.Term) {
	w.print("url(")
	if t.URLQuote != 0 {
		q := string(t.URLQuote)
		w.print(q + t.URLValue + q)
	} else {
		w.print(t.URLValue)
	}
	w.print(")")
}
