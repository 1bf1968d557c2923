package cssast

import (
	"github.com/cssdoc/cssdoc/internal/bus"
	"github.com/cssdoc/cssdoc/internal/logger"
	uuid "github.com/satori/go.uuid"
)

// base is embedded in every concrete AST unit. It carries position,
// preceding comments, lifecycle status, attachment, and a debug-only
// identity. None of this is exported directly; each concrete type exposes
// the parts of it that make sense for that type (e.g. a Stylesheet has no
// parent, so it does not expose Parent()).
type base struct {
	loc      logger.Loc
	comments []string
	status   Status
	detached bool
	debugID  uuid.UUID
}

func newBase(loc logger.Loc) base {
	id, err := uuid.NewV4()
	if err != nil {
		// The only failure mode is a broken system random source; fall back
		// to the nil UUID rather than failing AST construction over a
		// diagnostics-only identity.
		id = uuid.Nil
	}
	return base{loc: loc, debugID: id}
}

// syntheticLoc marks a unit created by a plugin or by the writer's own
// bookkeeping rather than parsed from source text.
func syntheticLoc() logger.Loc { return logger.SyntheticLoc }

// Loc returns the unit's (line, column) anchor, or logger.SyntheticLoc for a
// synthesized unit (one created by a plugin rather than parsed from text).
func (b *base) Loc() logger.Loc { return b.loc }

// Comments returns the preceding-comment text attached to this unit, in
// source order. The slice is owned by the caller; mutate AddComment().
func (b *base) Comments() []string {
	out := make([]string, len(b.comments))
	copy(out, b.comments)
	return out
}

func (b *base) AddComment(text string) {
	b.comments = append(b.comments, text)
}

func (b *base) Status() Status { return b.status }

// MarkBroadcast implements bus.Unit: it performs the UNBROADCASTED ->
// BROADCASTED transition exactly once and reports whether this call did it.
func (b *base) MarkBroadcast() bool {
	if b.status == Unbroadcasted {
		b.status = Broadcasted
		return true
	}
	return false
}

// MarkProcessed advances BROADCASTED -> PROCESSED. It is a no-op from any
// other state, since transitions besides NEVER_EMIT are monotonic.
func (b *base) MarkProcessed() {
	if b.status == Broadcasted {
		b.status = Processed
	}
}

// MarkNeverEmit enters the terminal NEVER_EMIT state from any state.
func (b *base) MarkNeverEmit() {
	b.status = NeverEmit
}

func (b *base) isDetached() bool { return b.detached }
func (b *base) markDetached()    { b.detached = true }

// writableSelf reports the two attachment/status conditions common to every
// unit type; concrete IsWritable() implementations AND this in with their
// own required-sub-component checks.
func (b *base) writableSelf() bool {
	return !b.detached && b.status != NeverEmit
}

// DebugID is a stable per-instance identity for diagnostics only. It plays
// no part in equality, hashing, or serialization.
func (b *base) DebugID() string { return b.debugID.String() }

// detachable is satisfied by base and used by Siblings[T] to filter
// iteration without needing to know the concrete node type.
type detachable interface {
	isDetached() bool
	markDetached()
}

// unitChildren is a small helper for building bus.Unit slices from typed
// slices in Children() implementations without repeating the loop.
func unitChildren[T bus.Unit](items []T) []bus.Unit {
	if len(items) == 0 {
		return nil
	}
	out := make([]bus.Unit, len(items))
	for i, v := range items {
		out[i] = v
	}
	return out
}
