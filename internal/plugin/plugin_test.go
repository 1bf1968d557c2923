package plugin

import (
	"testing"

	"github.com/cssdoc/cssdoc/internal/bus"
	"github.com/cssdoc/cssdoc/internal/cssast"
	"github.com/cssdoc/cssdoc/internal/logger"
	"github.com/cssdoc/cssdoc/internal/rawparser"
	"github.com/cssdoc/cssdoc/internal/refine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlugin struct {
	kind string
	deps []Dependency
	subs []Subscription
}

func (f *fakePlugin) Kind() string                                 { return f.kind }
func (f *fakePlugin) Dependencies() []Dependency                   { return f.deps }
func (f *fakePlugin) Register(reg *refine.Registry) []Subscription { return f.subs }

func recordingSubscription(variant string, phase Phase, tag string, log *[]string) Subscription {
	return Subscription{
		Variant: variant,
		Phase:   phase,
		Handler: func(ctx *Context, u bus.Unit) (bus.Unit, error) {
			*log = append(*log, tag)
			return nil, nil
		},
	}
}

func newLoc() logger.Loc { return logger.Loc{Line: 1, Column: 1} }

func TestSchedulerDeliversInRegistrationThenDeclarationOrder(t *testing.T) {
	var order []string
	sched := NewScheduler(bus.New(), logger.NewLog(logger.PolicyCollect), refine.NewRegistry())

	a := &fakePlugin{kind: "a", subs: []Subscription{recordingSubscription("declaration", Validate, "a", &order)}}
	b := &fakePlugin{kind: "b", subs: []Subscription{recordingSubscription("declaration", Validate, "b", &order)}}
	require.NoError(t, sched.Register(a))
	require.NoError(t, sched.Register(b))

	decl := cssast.NewDeclaration(newLoc(), "color", "red")
	sched.Receive(decl)

	assert.Equal(t, []string{"a", "b"}, order)
}

func TestSchedulerWithinOnePluginDeliversInDeclarationOrder(t *testing.T) {
	var order []string
	sched := NewScheduler(bus.New(), logger.NewLog(logger.PolicyCollect), refine.NewRegistry())

	a := &fakePlugin{kind: "a", subs: []Subscription{
		recordingSubscription("declaration", Validate, "first", &order),
		recordingSubscription("declaration", Validate, "second", &order),
	}}
	require.NoError(t, sched.Register(a))

	decl := cssast.NewDeclaration(newLoc(), "color", "red")
	sched.Receive(decl)

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestSchedulerPhaseOrderIsPreProcessThenReworkThenValidate(t *testing.T) {
	var order []string
	sched := NewScheduler(bus.New(), logger.NewLog(logger.PolicyCollect), refine.NewRegistry())

	a := &fakePlugin{kind: "a", subs: []Subscription{
		recordingSubscription("declaration", Validate, "validate", &order),
		recordingSubscription("declaration", PreProcess, "pre-process", &order),
		recordingSubscription("declaration", Rework, "rework", &order),
	}}
	require.NoError(t, sched.Register(a))

	decl := cssast.NewDeclaration(newLoc(), "color", "red")
	sched.Receive(decl)

	assert.Equal(t, []string{"pre-process", "rework", "validate"}, order)
}

func TestSchedulerVariantMismatchIsSkipped(t *testing.T) {
	var order []string
	sched := NewScheduler(bus.New(), logger.NewLog(logger.PolicyCollect), refine.NewRegistry())

	a := &fakePlugin{kind: "a", subs: []Subscription{recordingSubscription("selector", Validate, "a", &order)}}
	require.NoError(t, sched.Register(a))

	decl := cssast.NewDeclaration(newLoc(), "color", "red")
	sched.Receive(decl)

	assert.Empty(t, order)
}

func TestSchedulerReworkReplacementIsRebroadcastImmediately(t *testing.T) {
	// "Re-broadcast of a replaced unit follows the replacing plugin's
	// subscribers immediately" (spec ordering rule): the replacement's own
	// full phase sequence runs, nested, before the original unit's
	// remaining phases resume. So the replacement's Validate fires before
	// the original's Validate, even though the original unit was broadcast
	// first.
	var seen []string
	b := bus.New()
	sched := NewScheduler(b, logger.NewLog(logger.PolicyCollect), refine.NewRegistry())
	b.Chain(sched)

	a := &fakePlugin{kind: "a", subs: []Subscription{
		{
			Variant: "declaration",
			Phase:   Rework,
			Handler: func(ctx *Context, u bus.Unit) (bus.Unit, error) {
				decl := u.(*cssast.Declaration)
				if decl.RawName != "legacy" {
					return nil, nil
				}
				return cssast.NewDeclaration(newLoc(), "modernized", decl.RawValue), nil
			},
		},
		{
			Variant: "declaration",
			Phase:   Validate,
			Handler: func(ctx *Context, u bus.Unit) (bus.Unit, error) {
				seen = append(seen, u.(*cssast.Declaration).RawName)
				return nil, nil
			},
		},
	}}
	require.NoError(t, sched.Register(a))

	original := cssast.NewDeclaration(newLoc(), "legacy", "1")
	b.Broadcast(original)

	assert.Equal(t, []string{"modernized", "legacy"}, seen)
}

func TestSchedulerRequirementRefinedSelectorRefinesBeforeDelivery(t *testing.T) {
	log := logger.NewLog(logger.PolicyCollect)
	b := bus.New()
	ss, err := rawparser.New("div.card { color: red; }", log, b).ParseStylesheet()
	require.NoError(t, err)
	sel := ss.Statements.Items()[0].(*cssast.Rule).Selectors.Items()[0]
	require.False(t, sel.IsRefined())

	var sawRefined bool
	sched := NewScheduler(b, log, refine.NewRegistry())
	a := &fakePlugin{kind: "a", subs: []Subscription{
		{
			Variant:     "selector",
			Phase:       Validate,
			Requirement: RefinedSelector,
			Handler: func(ctx *Context, u bus.Unit) (bus.Unit, error) {
				sawRefined = u.(*cssast.Selector).IsRefined()
				return nil, nil
			},
		},
	}}
	require.NoError(t, sched.Register(a))

	sched.Receive(sel)

	assert.True(t, sawRefined)
}

func TestSchedulerDependencyIsRegisteredBeforeRequester(t *testing.T) {
	sched := NewScheduler(bus.New(), logger.NewLog(logger.PolicyCollect), refine.NewRegistry())

	dep := &fakePlugin{kind: "dep"}
	requester := &fakePlugin{kind: "requester", deps: []Dependency{{Kind: "dep", New: func() Plugin { return dep }}}}

	require.NoError(t, sched.Register(requester))

	require.Len(t, sched.order, 2)
	assert.Equal(t, "dep", sched.order[0].Kind())
	assert.Equal(t, "requester", sched.order[1].Kind())
}

func TestSchedulerRegisterDedupesByKind(t *testing.T) {
	sched := NewScheduler(bus.New(), logger.NewLog(logger.PolicyCollect), refine.NewRegistry())

	dep := &fakePlugin{kind: "dep"}
	requester := &fakePlugin{kind: "requester", deps: []Dependency{{Kind: "dep", New: func() Plugin { return dep }}}}
	require.NoError(t, sched.Register(requester))
	require.NoError(t, sched.Register(dep)) // already present via dependency resolution

	assert.Len(t, sched.order, 2)
}

type hookPlugin struct {
	fakePlugin
	before, after *bool
}

func (h *hookPlugin) BeforePreProcess() { *h.before = true }
func (h *hookPlugin) AfterPreProcess()  { *h.after = true }

func TestBeforeAndAfterPreProcessHooksInvokedOnlyOnImplementingPlugins(t *testing.T) {
	sched := NewScheduler(bus.New(), logger.NewLog(logger.PolicyCollect), refine.NewRegistry())

	var before, after bool
	hooked := &hookPlugin{fakePlugin: fakePlugin{kind: "hooked"}, before: &before, after: &after}
	plain := &fakePlugin{kind: "plain"}

	require.NoError(t, sched.Register(hooked))
	require.NoError(t, sched.Register(plain))

	sched.RunBeforePreProcess()
	assert.True(t, before)
	assert.False(t, after)

	sched.RunAfterPreProcess()
	assert.True(t, after)
}
