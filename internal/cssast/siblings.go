package cssast

// Siblings is an ordered, owning collection of child units. It preserves
// insertion order, supports O(1) append, and treats detach as a soft delete
// so that "detached children do not appear in their former parent's
// iteration" without invalidating indices held elsewhere.
//
// A Siblings does not itself talk to the bus: the owning composite sets
// OnLateAppend to rebroadcast a child appended after the collection's
// container was already broadcast ("late-added members are delivered").
type Siblings[T detachable] struct {
	items        []T
	broadcast    bool
	OnLateAppend func(T)
}

// Append adds v as the new last child. If the collection has already been
// marked broadcast (its container went out over the bus), OnLateAppend
// fires immediately so the late addition still reaches subscribers.
func (s *Siblings[T]) Append(v T) {
	s.items = append(s.items, v)
	if s.broadcast && s.OnLateAppend != nil {
		s.OnLateAppend(v)
	}
}

// PrependBefore inserts v immediately before the child at index i.
func (s *Siblings[T]) PrependBefore(i int, v T) {
	if i < 0 || i > len(s.items) {
		panic("cssast: sibling index out of range")
	}
	s.items = append(s.items, v)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = v
	if s.broadcast && s.OnLateAppend != nil {
		s.OnLateAppend(v)
	}
}

// InsertAfter inserts v immediately after the child at index i.
func (s *Siblings[T]) InsertAfter(i int, v T) {
	s.PrependBefore(i+1, v)
}

// MarkBroadcast records that the container has gone out over the bus, so
// subsequent Append calls rebroadcast eagerly.
func (s *Siblings[T]) MarkBroadcast() {
	s.broadcast = true
}

// Items returns the attached children, in insertion order. Detached
// children are excluded, per "detached children do not appear in their
// former parent's iteration".
func (s *Siblings[T]) Items() []T {
	out := make([]T, 0, len(s.items))
	for _, v := range s.items {
		if !v.isDetached() {
			out = append(out, v)
		}
	}
	return out
}

// All returns every child including detached ones, for internal bookkeeping
// (e.g. building bus.Unit Children() lists, which should still reach
// detached-but-not-yet-broadcast sub-units).
func (s *Siblings[T]) All() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Len reports the number of attached children.
func (s *Siblings[T]) Len() int {
	n := 0
	for _, v := range s.items {
		if !v.isDetached() {
			n++
		}
	}
	return n
}

// Contains reports whether v is currently an attached child of s, used to
// validate the "u.parent().children().contains(u)" invariant in tests.
func (s *Siblings[T]) Contains(v T) bool {
	for _, it := range s.items {
		if any(it) == any(v) && !it.isDetached() {
			return true
		}
	}
	return false
}

// Detach soft-removes v from the collection.
func (s *Siblings[T]) Detach(v T) {
	v.markDetached()
}
