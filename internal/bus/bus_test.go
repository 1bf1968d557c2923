package bus_test

import (
	"testing"

	"github.com/cssdoc/cssdoc/internal/bus"
	"github.com/stretchr/testify/assert"
)

type fakeUnit struct {
	kind     string
	children []bus.Unit
	status   int // 0 = unbroadcasted, 1 = broadcasted
}

func (u *fakeUnit) MarkBroadcast() bool {
	if u.status == 0 {
		u.status = 1
		return true
	}
	return false
}

func (u *fakeUnit) Kind() string       { return u.kind }
func (u *fakeUnit) Children() []bus.Unit { return u.children }

func TestBroadcastIsIdempotent(t *testing.T) {
	b := bus.New()
	var received int
	b.ChainFunc(func(bus.Unit) { received++ })

	u := &fakeUnit{kind: "rule"}
	b.Broadcast(u)
	b.Broadcast(u)
	b.Broadcast(u)

	assert.Equal(t, 1, received)
}

func TestChainDeliversInRegistrationOrder(t *testing.T) {
	b := bus.New()
	var order []string
	b.ChainFunc(func(bus.Unit) { order = append(order, "first") })
	b.ChainFunc(func(bus.Unit) { order = append(order, "second") })

	b.Broadcast(&fakeUnit{kind: "rule"})

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestQueueableBusDefersUntilFlush(t *testing.T) {
	b := bus.NewQueueable()
	var received int
	b.ChainFunc(func(bus.Unit) { received++ })

	b.Broadcast(&fakeUnit{kind: "rule"})
	b.Broadcast(&fakeUnit{kind: "rule"})
	assert.Equal(t, 0, received)

	b.Flush()
	assert.Equal(t, 2, received)
}

func TestQueryableBusIndexesByKind(t *testing.T) {
	b := bus.NewQueryable()
	rule := &fakeUnit{kind: "rule"}
	decl := &fakeUnit{kind: "declaration"}

	b.Broadcast(rule)
	b.Broadcast(decl)

	rules := b.Query("rule")
	assert.Len(t, rules, 1)
	assert.Same(t, bus.Unit(rule), rules[0])
	assert.Empty(t, b.Query("selector"))
}

func TestPropagateBroadcastWalksContainerBeforeChildren(t *testing.T) {
	b := bus.New()
	var order []string
	b.ChainFunc(func(u bus.Unit) { order = append(order, u.Kind()) })

	child := &fakeUnit{kind: "declaration"}
	parent := &fakeUnit{kind: "rule", children: []bus.Unit{child}}

	b.PropagateBroadcast(parent)

	assert.Equal(t, []string{"rule", "declaration"}, order)
}

func TestPropagateBroadcastSkipsAlreadyBroadcastChildren(t *testing.T) {
	b := bus.New()
	var count int
	b.ChainFunc(func(bus.Unit) { count++ })

	child := &fakeUnit{kind: "declaration"}
	b.Broadcast(child) // pre-broadcast the child directly

	parent := &fakeUnit{kind: "rule", children: []bus.Unit{child}}
	b.PropagateBroadcast(parent)

	// parent + the original child broadcast = 2, not 3
	assert.Equal(t, 2, count)
}
