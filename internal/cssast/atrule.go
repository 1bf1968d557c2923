package cssast

import (
	"github.com/cssdoc/cssdoc/internal/bus"
	"github.com/cssdoc/cssdoc/internal/logger"
)

// RawFragment is an uninterpreted CSS substring with position, the common
// currency the raw parsers hand to the bus before anything downstream has
// validated it against a grammar.
type RawFragment struct {
	Content string
	loc     logger.Loc
}

func NewRawFragment(content string, loc logger.Loc) RawFragment {
	return RawFragment{Content: content, loc: loc}
}

func (f RawFragment) Loc() logger.Loc { return f.loc }

// AtRuleBlockKind distinguishes the shapes a refined at-rule block can take.
// Which kind applies is a property of the at-rule name, decided by whichever
// refiner strategy claims it (see internal/refine); an at-rule with no
// claiming strategy keeps BlockKindNone and writes its RawBlock verbatim.
type AtRuleBlockKind uint8

const (
	BlockKindNone AtRuleBlockKind = iota
	BlockKindDeclarations         // e.g. @font-face { ... }
	BlockKindNestedRules          // e.g. @media / @supports { ... }
	BlockKindKeyframes            // @keyframes name { ... }
)

// AtRuleExpr is the refined form of an at-rule's expression segment (the
// text between the name and the `{` or `;`). Because spec Open Question (b)
// leaves `@media` without a complete query grammar, this stays a thin,
// practical refinement: the raw text plus a best-effort split on top-level
// commas, which is enough to drive prefixing and pretty-printing decisions
// without claiming full CSS conformance.
type AtRuleExpr struct {
	Raw     string
	Clauses []string // raw text split on top-level commas; len==1 if no comma
}

// AtRuleBlock is the refined form of an at-rule's brace-delimited block.
type AtRuleBlock struct {
	Kind         AtRuleBlockKind
	Declarations Siblings[*Declaration]  // BlockKindDeclarations
	Nested       Siblings[Statement]     // BlockKindNestedRules
	Keyframes    Siblings[*KeyframeBlock] // BlockKindKeyframes
}

// KeyframeBlock is one `<selector-list> { <declarations> }` entry inside a
// @keyframes rule, e.g. "0%, 50%" or "from"/"to".
type KeyframeBlock struct {
	base
	Selectors    []string
	Declarations Siblings[*Declaration]
}

func NewKeyframeBlock(loc logger.Loc, selectors []string) *KeyframeBlock {
	return &KeyframeBlock{base: newBase(loc), Selectors: selectors}
}

func (k *KeyframeBlock) Kind() string { return "keyframe-block" }

func (k *KeyframeBlock) Children() []bus.Unit {
	return unitChildren(k.Declarations.All())
}

func (k *KeyframeBlock) IsWritable() bool {
	return k.writableSelf()
}

func (k *KeyframeBlock) AddDeclaration(d *Declaration) {
	k.Declarations.Append(d)
}

func (k *KeyframeBlock) Copy() *KeyframeBlock {
	out := NewKeyframeBlock(k.loc, append([]string(nil), k.Selectors...))
	out.comments = append([]string(nil), k.comments...)
	for _, d := range k.Declarations.Items() {
		out.AddDeclaration(d.Copy())
	}
	return out
}

// AtRule is an `@name ...` statement: an optional raw expression, an
// optional raw block, and (once refine() is called) optional typed forms of
// each. ShouldWriteName controls whether the writer emits the leading
// `@name` token at all — false only for a handful of synthesized at-rules
// that a plugin assembles by copying an existing block wholesale.
type AtRule struct {
	base
	Name            string
	ShouldWriteName bool
	RawExpr         *RawFragment
	RawBlock        *RawFragment
	RefinedExpr     *AtRuleExpr
	RefinedBlock    *AtRuleBlock
	parent          *Stylesheet
}

func NewAtRule(loc logger.Loc, name string) *AtRule {
	return &AtRule{base: newBase(loc), Name: name, ShouldWriteName: true}
}

// SetRefinedBlock installs a refined block built by the refinement registry,
// wiring any of its sibling collections to b so late-appended children (e.g.
// a plugin adding a declaration to an already-broadcast @font-face) reach
// subscribers the same way a raw parser's own siblings do.
func (a *AtRule) SetRefinedBlock(block *AtRuleBlock, b *bus.Bus) {
	switch block.Kind {
	case BlockKindDeclarations:
		block.Declarations.OnLateAppend = func(d *Declaration) { b.Broadcast(d) }
	case BlockKindNestedRules:
		block.Nested.OnLateAppend = func(st Statement) { b.Broadcast(st) }
	case BlockKindKeyframes:
		block.Keyframes.OnLateAppend = func(k *KeyframeBlock) { b.Broadcast(k) }
	}
	a.RefinedBlock = block
}

func (a *AtRule) statementNode() {}

func (a *AtRule) Kind() string { return "at-rule" }

func (a *AtRule) Children() []bus.Unit {
	if a.RefinedBlock == nil {
		return nil
	}
	switch a.RefinedBlock.Kind {
	case BlockKindDeclarations:
		return unitChildren(a.RefinedBlock.Declarations.All())
	case BlockKindNestedRules:
		return unitChildren(a.RefinedBlock.Nested.All())
	case BlockKindKeyframes:
		return unitChildren(a.RefinedBlock.Keyframes.All())
	default:
		return nil
	}
}

func (a *AtRule) Parent() *Stylesheet { return a.parent }

func (a *AtRule) Detach() { a.markDetached() }

// IsRefined reports whether refine() has already run for this at-rule,
// which happens independently for its expression and its block (an at-rule
// with only a `;`-terminated expression never gets a RefinedBlock).
func (a *AtRule) IsRefined() bool {
	return a.RefinedExpr != nil || a.RefinedBlock != nil
}

func (a *AtRule) IsWritable() bool {
	return a.writableSelf()
}

func (a *AtRule) Copy() *AtRule {
	out := NewAtRule(a.loc, a.Name)
	out.comments = append([]string(nil), a.comments...)
	out.ShouldWriteName = a.ShouldWriteName
	if a.RawExpr != nil {
		raw := *a.RawExpr
		out.RawExpr = &raw
	}
	if a.RawBlock != nil {
		raw := *a.RawBlock
		out.RawBlock = &raw
	}
	if a.RefinedExpr != nil {
		expr := *a.RefinedExpr
		expr.Clauses = append([]string(nil), a.RefinedExpr.Clauses...)
		out.RefinedExpr = &expr
	}
	if a.RefinedBlock != nil {
		blk := &AtRuleBlock{Kind: a.RefinedBlock.Kind}
		switch blk.Kind {
		case BlockKindDeclarations:
			for _, d := range a.RefinedBlock.Declarations.Items() {
				blk.Declarations.Append(d.Copy())
			}
		case BlockKindNestedRules:
			for _, st := range a.RefinedBlock.Nested.Items() {
				switch v := st.(type) {
				case *Rule:
					blk.Nested.Append(v.Copy())
				case *AtRule:
					blk.Nested.Append(v.Copy())
				}
			}
		case BlockKindKeyframes:
			for _, kf := range a.RefinedBlock.Keyframes.Items() {
				blk.Keyframes.Append(kf.Copy())
			}
		}
		out.RefinedBlock = blk
	}
	return out
}
