// Package bus implements the broadcast bus: ordered delivery of AST units
// to a chain of subscribers, decoupled from the AST package itself. The bus
// only needs to know that a unit can report its once-only broadcast
// transition, a dispatch tag, and its directly contained sub-units; it has
// no notion of rules, selectors, or declarations.
package bus

// Unit is the minimal surface the bus needs from an AST node. AST types
// satisfy this structurally; this package does not import the AST package.
type Unit interface {
	// MarkBroadcast performs the UNBROADCASTED -> BROADCASTED transition and
	// reports whether this call was the one that performed it. A unit whose
	// status is already BROADCASTED, PROCESSED, or NEVER_EMIT returns false,
	// making repeated Broadcast calls on the same instance a no-op.
	MarkBroadcast() bool

	// Kind is the dispatch tag used by a queryable bus's Query method and by
	// plugin subscription routing.
	Kind() string

	// Children returns this unit's directly contained sub-units, in the
	// order they should be broadcast, or nil for a leaf unit. Used by
	// PropagateBroadcast to reach synthesized sub-trees.
	Children() []Unit
}

// Subscriber receives broadcast units in registration order.
type Subscriber interface {
	Receive(u Unit)
}

// SubscriberFunc adapts a plain function to Subscriber.
type SubscriberFunc func(Unit)

func (f SubscriberFunc) Receive(u Unit) { f(u) }

// Bus is a linear chain of subscribers, optionally queueing deliveries until
// Flush and optionally indexing delivered units by Kind for later retrieval.
// A Bus is scoped to one document's Process() call; it is not safe for
// concurrent use.
type Bus struct {
	subscribers []Subscriber
	queueing    bool
	queue       []Unit
	queryable   bool
	index       map[string][]Unit
}

// New creates a plain bus: immediate, in-order delivery, no query index.
func New() *Bus {
	return &Bus{}
}

// NewQueueable creates a bus that buffers broadcasts until Flush is called.
func NewQueueable() *Bus {
	return &Bus{queueing: true}
}

// NewQueryable creates a bus that additionally indexes delivered units by
// Kind, retrievable later with Query.
func NewQueryable() *Bus {
	return &Bus{queryable: true, index: make(map[string][]Unit)}
}

// Chain appends a subscriber. Delivery order equals registration order.
func (b *Bus) Chain(s Subscriber) {
	b.subscribers = append(b.subscribers, s)
}

// ChainFunc is a convenience wrapper around Chain for a plain function.
func (b *Bus) ChainFunc(f func(Unit)) {
	b.Chain(SubscriberFunc(f))
}

// Broadcast delivers u to every subscriber in chain order, transitioning u
// from UNBROADCASTED to BROADCASTED on first delivery. A second call with
// the same unit instance is idempotent: subscribers are not notified twice.
// On a queueable bus, delivery is deferred until Flush.
func (b *Bus) Broadcast(u Unit) {
	if !u.MarkBroadcast() {
		return
	}
	if b.queryable {
		tag := u.Kind()
		b.index[tag] = append(b.index[tag], u)
	}
	if b.queueing {
		b.queue = append(b.queue, u)
		return
	}
	b.deliver(u)
}

func (b *Bus) deliver(u Unit) {
	for _, s := range b.subscribers {
		s.Receive(u)
	}
}

// Flush delivers every queued broadcast, in emission order, and clears the
// queue. It is a no-op on a non-queueing bus.
func (b *Bus) Flush() {
	if !b.queueing || len(b.queue) == 0 {
		return
	}
	pending := b.queue
	b.queue = nil
	for _, u := range pending {
		b.deliver(u)
	}
}

// Query returns the ordered sequence of units of the given kind seen so far.
// It panics if the bus was not created with NewQueryable, since returning a
// silently empty slice would be indistinguishable from "no units yet".
func (b *Bus) Query(kind string) []Unit {
	if !b.queryable {
		panic("bus: Query called on a non-queryable bus")
	}
	out := make([]Unit, len(b.index[kind]))
	copy(out, b.index[kind])
	return out
}

// PropagateBroadcast walks u and broadcasts u itself plus every contained
// sub-unit whose status is still UNBROADCASTED, container before contents.
// Calling it more than once on the same tree is safe: already-broadcast
// units are skipped by Broadcast's idempotency check.
func (b *Bus) PropagateBroadcast(u Unit) {
	b.Broadcast(u)
	for _, child := range u.Children() {
		b.PropagateBroadcast(child)
	}
}
