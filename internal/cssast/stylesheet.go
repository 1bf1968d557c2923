package cssast

import "github.com/cssdoc/cssdoc/internal/bus"

// Statement is either a Rule or an AtRule, per the Data Model's Statement
// variant.
type Statement interface {
	bus.Unit
	detachable
	statementNode()
}

// Stylesheet is the root: an ordered sequence of statements. It owns its
// statements' lifetime; a Rule or AtRule detached from a Stylesheet is
// unreachable from it but remains a valid object for as long as some other
// reference keeps it alive (e.g. a plugin still holding a pointer).
type Stylesheet struct {
	base
	Statements         Siblings[Statement]
	OrphanedComments   []OrphanedComment
}

// NewStylesheet creates an empty root bound to the bus used for late-append
// notification (see Siblings.OnLateAppend).
func NewStylesheet(b *bus.Bus) *Stylesheet {
	s := &Stylesheet{base: newBase(syntheticLoc())}
	s.Statements.OnLateAppend = func(st Statement) { b.Broadcast(st) }
	return s
}

func (s *Stylesheet) Kind() string { return "stylesheet" }

func (s *Stylesheet) Children() []bus.Unit {
	return unitChildren(s.Statements.All())
}

// AddStatement appends a Rule or AtRule, wiring its parent back-reference.
func (s *Stylesheet) AddStatement(st Statement) {
	switch v := st.(type) {
	case *Rule:
		v.parent = s
	case *AtRule:
		v.parent = s
	}
	s.Statements.Append(st)
}

// InsertStatementBefore inserts st immediately before the statement at
// index i, wiring its parent back-reference the same way AddStatement
// does. Used by plugins that splice a sibling statement into the tree
// mid-document, e.g. a vendor-prefix mirror rule.
func (s *Stylesheet) InsertStatementBefore(i int, st Statement) {
	switch v := st.(type) {
	case *Rule:
		v.parent = s
	case *AtRule:
		v.parent = s
	}
	s.Statements.PrependBefore(i, st)
}

// IndexOfStatement returns the index of target within Statements (including
// detached statements), or -1 if it is not present.
func (s *Stylesheet) IndexOfStatement(target Statement) int {
	for i, st := range s.Statements.All() {
		if st == target {
			return i
		}
	}
	return -1
}

// IsWritable is always true for the root itself; the writer decides
// per-statement writability while walking Statements.Items().
func (s *Stylesheet) IsWritable() bool { return true }

// AddOrphanedComment records a comment left in the cursor's buffer when an
// enclosing scope (here, the whole document) closed with nothing to attach
// the comment to.
func (s *Stylesheet) AddOrphanedComment(text string) {
	s.OrphanedComments = append(s.OrphanedComments, OrphanedComment{Content: text, Location: "stylesheet"})
}

// Copy returns a structurally identical stylesheet with fresh identity.
// The copy is bound to a fresh, unused bus: a copy is inert until it is
// re-processed or written, never live on the bus that produced the
// original.
func (s *Stylesheet) Copy() *Stylesheet {
	out := NewStylesheet(bus.New())
	out.loc = s.loc
	out.comments = append([]string(nil), s.comments...)
	out.OrphanedComments = append([]OrphanedComment(nil), s.OrphanedComments...)
	for _, st := range s.Statements.Items() {
		switch v := st.(type) {
		case *Rule:
			out.AddStatement(v.Copy())
		case *AtRule:
			out.AddStatement(v.Copy())
		}
	}
	return out
}
