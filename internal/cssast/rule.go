package cssast

import (
	"github.com/cssdoc/cssdoc/internal/bus"
	"github.com/cssdoc/cssdoc/internal/logger"
)

// Rule is a selector group plus a declaration block. The raw parser
// produces it carrying two Raw Fragments (selector group text, declaration
// block text); refine() on each Selector/Declaration populates the typed
// sub-trees lazily.
type Rule struct {
	base
	Selectors        Siblings[*Selector]
	Declarations     Siblings[*Declaration]
	OrphanedComments []OrphanedComment
	parent           *Stylesheet
	b                *bus.Bus
}

// AddOrphanedComment records a comment left dangling at the close of this
// rule's declaration block.
func (r *Rule) AddOrphanedComment(text string) {
	r.OrphanedComments = append(r.OrphanedComments, OrphanedComment{Content: text, Location: "rule"})
}

func NewRule(loc logger.Loc, b *bus.Bus) *Rule {
	r := &Rule{base: newBase(loc)}
	r.Selectors.OnLateAppend = func(s *Selector) { b.Broadcast(s) }
	r.Declarations.OnLateAppend = func(d *Declaration) { b.Broadcast(d) }
	return r
}

func (r *Rule) statementNode() {}

func (r *Rule) Kind() string { return "rule" }

// Children reports selectors before declarations: a rule's container goes
// out before its contents, and selectors logically precede the block.
func (r *Rule) Children() []bus.Unit {
	out := unitChildren(r.Selectors.All())
	return append(out, unitChildren(r.Declarations.All())...)
}

func (r *Rule) MarkBroadcast() bool {
	first := r.base.MarkBroadcast()
	if first {
		r.Selectors.MarkBroadcast()
		r.Declarations.MarkBroadcast()
	}
	return first
}

// Parent returns the stylesheet this rule is attached to, or nil if it was
// never attached or has since been detached.
func (r *Rule) Parent() *Stylesheet { return r.parent }

func (r *Rule) Detach() {
	r.markDetached()
}

// AddSelector appends a Selector to the comma-separated group.
func (r *Rule) AddSelector(sel *Selector) {
	sel.parent = r
	r.Selectors.Append(sel)
}

// AddDeclaration appends a Declaration to the block.
func (r *Rule) AddDeclaration(d *Declaration) {
	d.parent = r
	r.Declarations.Append(d)
}

// IsWritable requires the rule be attached, not NEVER_EMIT, and have at
// least one writable selector (a rule with no writable selector has no
// subject and would serialize to a bare, meaningless `{...}`).
func (r *Rule) IsWritable() bool {
	if !r.writableSelf() {
		return false
	}
	for _, s := range r.Selectors.Items() {
		if s.IsWritable() {
			return true
		}
	}
	return false
}

func (r *Rule) Copy() *Rule {
	out := NewRule(r.loc, bus.New())
	out.comments = append([]string(nil), r.comments...)
	out.OrphanedComments = append([]OrphanedComment(nil), r.OrphanedComments...)
	for _, s := range r.Selectors.Items() {
		out.AddSelector(s.Copy())
	}
	for _, d := range r.Declarations.Items() {
		out.AddDeclaration(d.Copy())
	}
	return out
}
