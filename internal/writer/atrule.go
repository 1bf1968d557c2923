package writer

import "github.com/cssdoc/cssdoc/internal/cssast"

func (w *Writer) writeAtRule(a *cssast.AtRule) {
	w.printIndent()
	if a.ShouldWriteName {
		w.print("@" + a.Name)
	}
	w.writeAtRuleExpr(a)
	switch {
	case a.RefinedBlock != nil:
		w.writeRefinedBlock(a.RefinedBlock)
	case a.RawBlock != nil:
		w.writeRawBlock(a.RawBlock)
	default:
		w.print(";")
	}
}

func (w *Writer) writeAtRuleExpr(a *cssast.AtRule) {
	switch {
	case a.RefinedExpr != nil:
		if a.ShouldWriteName && len(a.RefinedExpr.Clauses) > 0 {
			w.print(" ")
		}
		for i, c := range a.RefinedExpr.Clauses {
			if i > 0 {
				if w.compressed() {
					w.print(",")
				} else {
					w.print(", ")
				}
			}
			w.print(c)
		}
	case a.RawExpr != nil:
		if a.ShouldWriteName {
			w.print(" ")
		}
		w.print(a.RawExpr.Content)
	}
}

// openBrace prints the '{' that opens a block, preceded by a space in
// verbose/inline mode; '{' needs no separator from the preceding token, so
// compressed mode drops the space.
func (w *Writer) openBrace() {
	if !w.compressed() {
		w.print(" ")
	}
	w.print("{")
}

func (w *Writer) writeRawBlock(b *cssast.RawFragment) {
	w.openBrace()
	w.print(b.Content)
	w.print("}")
}

func (w *Writer) writeRefinedBlock(b *cssast.AtRuleBlock) {
	switch b.Kind {
	case cssast.BlockKindDeclarations:
		w.openBrace()
		w.writeDeclarationBlockBody(b.Declarations.Items())
		w.printIndent()
		w.print("}")
	case cssast.BlockKindNestedRules:
		w.openBrace()
		w.indent++
		w.newline()
		w.writeStatements(b.Nested.Items())
		w.indent--
		w.newline()
		w.printIndent()
		w.print("}")
	case cssast.BlockKindKeyframes:
		w.openBrace()
		w.writeKeyframeBlocks(b.Keyframes.Items())
		w.printIndent()
		w.print("}")
	default:
		w.openBrace()
		w.print("}")
	}
}

func (w *Writer) writeKeyframeBlocks(blocks []*cssast.KeyframeBlock) {
	writable := make([]*cssast.KeyframeBlock, 0, len(blocks))
	for _, k := range blocks {
		if k.IsWritable() {
			writable = append(writable, k)
		}
	}
	if len(writable) == 0 {
		return
	}
	w.indent++
	w.newline()
	for _, k := range writable {
		w.printIndent()
		w.writeKeyframeBlock(k)
		w.newline()
	}
	w.indent--
}

func (w *Writer) writeKeyframeBlock(k *cssast.KeyframeBlock) {
	for i, sel := range k.Selectors {
		if i > 0 {
			if w.compressed() {
				w.print(",")
			} else {
				w.print(", ")
			}
		}
		w.print(sel)
	}
	w.openBrace()
	w.writeDeclarationBlockBody(k.Declarations.Items())
	w.printIndent()
	w.print("}")
}
