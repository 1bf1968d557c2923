package cssast

import (
	"github.com/cssdoc/cssdoc/internal/bus"
	"github.com/cssdoc/cssdoc/internal/logger"
)

// SelectorPartKind enumerates the SelectorPart variant per the data model.
type SelectorPartKind uint8

const (
	PartType SelectorPartKind = iota
	PartUniversal
	PartID
	PartClass
	PartAttribute
	PartPseudoClass
	PartPseudoElement
	PartCombinator
)

func (k SelectorPartKind) String() string {
	switch k {
	case PartType:
		return "type"
	case PartUniversal:
		return "universal"
	case PartID:
		return "id"
	case PartClass:
		return "class"
	case PartAttribute:
		return "attribute"
	case PartPseudoClass:
		return "pseudo-class"
	case PartPseudoElement:
		return "pseudo-element"
	case PartCombinator:
		return "combinator"
	default:
		return "unknown"
	}
}

// SelectorPart is one token of a refined selector: a type/universal/id/class
// selector, an attribute matcher, a pseudo-class or pseudo-element (with its
// optional, verbatim-captured `(...)` argument), or a combinator
// (descendant, `>`, `+`, `~`).
type SelectorPart struct {
	base
	PartKind SelectorPartKind
	Name     string // type name, id, class, attribute name, pseudo name, or combinator symbol
	Args     string // pseudo-class/element argument text, verbatim including balanced parens' contents; empty otherwise

	// Attribute-specific fields; zero value for non-attribute parts.
	AttrMatcher string // "", "=", "~=", "|=", "^=", "$=", "*="
	AttrValue   string
	AttrQuoted  bool

	parent *Selector
}

func NewSelectorPart(loc logger.Loc, kind SelectorPartKind, name string) *SelectorPart {
	return &SelectorPart{base: newBase(loc), PartKind: kind, Name: name}
}

func (p *SelectorPart) Kind() string { return "selector-part" }

func (p *SelectorPart) Children() []bus.Unit { return nil }

func (p *SelectorPart) Parent() *Selector { return p.parent }

func (p *SelectorPart) Detach() { p.markDetached() }

func (p *SelectorPart) IsWritable() bool { return p.writableSelf() }

func (p *SelectorPart) Copy() *SelectorPart {
	out := NewSelectorPart(p.loc, p.PartKind, p.Name)
	out.comments = append([]string(nil), p.comments...)
	out.Args = p.Args
	out.AttrMatcher = p.AttrMatcher
	out.AttrValue = p.AttrValue
	out.AttrQuoted = p.AttrQuoted
	return out
}

// Selector is one comma-separated element of a selector group: a raw string
// until refine() populates Parts from it.
type Selector struct {
	base
	RawContent       string
	Parts            Siblings[*SelectorPart]
	OrphanedComments []OrphanedComment
	refined          bool
	parent           *Rule
}

// AddOrphanedComment records a comment left dangling inside this selector's
// raw text (e.g. between combinators) with nothing to attach to.
func (s *Selector) AddOrphanedComment(text string) {
	s.OrphanedComments = append(s.OrphanedComments, OrphanedComment{Content: text, Location: "selector"})
}

func NewSelector(loc logger.Loc, raw string, b *bus.Bus) *Selector {
	s := &Selector{base: newBase(loc), RawContent: raw}
	s.Parts.OnLateAppend = func(p *SelectorPart) { b.Broadcast(p) }
	return s
}

func (s *Selector) Kind() string { return "selector" }

// Children reports Parts: selectors refine child-first per the bus ordering
// guarantee ("selectors do child-first; rules do container-first"), so a
// caller broadcasting a Selector after refine() should broadcast its Parts
// before the Selector itself reaches general subscribers a second time —
// in practice the refiner does this directly via the bus, and Children()
// here exists only so PropagateBroadcast can still reach stray unbroadcast
// parts (e.g. ones a plugin appended without broadcasting them itself).
func (s *Selector) Children() []bus.Unit {
	return unitChildren(s.Parts.All())
}

func (s *Selector) MarkBroadcast() bool {
	first := s.base.MarkBroadcast()
	if first {
		s.Parts.MarkBroadcast()
	}
	return first
}

func (s *Selector) Parent() *Rule { return s.parent }

func (s *Selector) Detach() { s.markDetached() }

// IsRefined reports whether refine() has already populated Parts.
func (s *Selector) IsRefined() bool { return s.refined }

// MarkRefined is called by the refinement registry once Parts has been
// populated, making subsequent refine() calls a no-op per the idempotency
// invariant.
func (s *Selector) MarkRefined() { s.refined = true }

// AddPart appends a refined SelectorPart, wiring its parent.
func (s *Selector) AddPart(p *SelectorPart) {
	p.parent = s
	s.Parts.Append(p)
}

// IsWritable requires attachment, not NEVER_EMIT, and — when refined — at
// least one writable part (an empty refined selector has nothing to print).
func (s *Selector) IsWritable() bool {
	if !s.writableSelf() {
		return false
	}
	if !s.refined {
		return s.RawContent != ""
	}
	for _, p := range s.Parts.Items() {
		if p.IsWritable() {
			return true
		}
	}
	return false
}

func (s *Selector) Copy() *Selector {
	out := NewSelector(s.loc, s.RawContent, bus.New())
	out.comments = append([]string(nil), s.comments...)
	out.OrphanedComments = append([]OrphanedComment(nil), s.OrphanedComments...)
	if s.refined {
		for _, p := range s.Parts.Items() {
			out.AddPart(p.Copy())
		}
		out.MarkRefined()
	}
	return out
}
