package plugin

import (
	"github.com/cssdoc/cssdoc/internal/bus"
	"github.com/cssdoc/cssdoc/internal/cssast"
	"github.com/cssdoc/cssdoc/internal/logger"
	"github.com/cssdoc/cssdoc/internal/refine"
)

// Scheduler is a bus.Subscriber that dispatches each broadcast unit to
// every registered plugin's matching subscriptions, phase by phase, in
// plugin-registration order and then declaration order within a plugin.
//
// A Scheduler should be the first subscriber chained onto a document's
// bus, ahead of any plain collector — PreProcess's "before standard
// delivery" guarantee depends on that ordering, since bus.Chain delivers
// to subscribers in the order they were added.
type Scheduler struct {
	bus      *bus.Bus
	log      *logger.Log
	registry *refine.Registry
	ctx      *Context

	order         []Plugin
	byKind        map[string]Plugin
	subscriptions []registeredSub

	// err holds the first error that aborted processing: a refinement
	// diagnostic under logger.PolicyThrow (see ensureRefined) or an error
	// returned by a subscription's Handler (see deliverPhase).
	// bus.Subscriber.Receive has no error return, so this is how either
	// abort makes its way back out to the caller driving Process().
	err error
}

type registeredSub struct {
	plugin Plugin
	sub    Subscription
}

// NewScheduler creates a Scheduler bound to one document's bus, log, and
// refinement registry.
func NewScheduler(b *bus.Bus, log *logger.Log, reg *refine.Registry) *Scheduler {
	s := &Scheduler{bus: b, log: log, registry: reg, byKind: make(map[string]Plugin)}
	s.ctx = &Context{Bus: b, Log: log, Registry: reg}
	return s
}

// Register adds p, first registering any of its declared Dependencies that
// are not already present (deduplicated by Kind), then calling p.Register
// to collect its subscriptions. Registering a plugin whose Kind is already
// present is a no-op, matching the "deduplicates by kind" dependency
// contract for a plugin reachable both directly and as someone else's
// dependency.
func (s *Scheduler) Register(p Plugin) error {
	if _, ok := s.byKind[p.Kind()]; ok {
		return nil
	}
	for _, dep := range p.Dependencies() {
		if _, ok := s.byKind[dep.Kind]; ok {
			continue
		}
		if err := s.Register(dep.New()); err != nil {
			return err
		}
	}

	subs := p.Register(s.registry)
	s.order = append(s.order, p)
	s.byKind[p.Kind()] = p
	for _, sub := range subs {
		s.subscriptions = append(s.subscriptions, registeredSub{plugin: p, sub: sub})
	}
	return nil
}

// RunBeforePreProcess invokes BeforePreProcess on every registered plugin
// that implements BeforePreProcessHook, in registration order.
func (s *Scheduler) RunBeforePreProcess() {
	for _, p := range s.order {
		if hook, ok := p.(BeforePreProcessHook); ok {
			hook.BeforePreProcess()
		}
	}
}

// RunAfterPreProcess invokes AfterPreProcess on every registered plugin
// that implements AfterPreProcessHook, in registration order.
func (s *Scheduler) RunAfterPreProcess() {
	for _, p := range s.order {
		if hook, ok := p.(AfterPreProcessHook); ok {
			hook.AfterPreProcess()
		}
	}
}

// Receive implements bus.Subscriber. It runs u through PreProcess, then
// Rework, then Validate, delivering to matching subscriptions (by Variant
// == u.Kind()) in registration order. A Rework handler's non-nil
// replacement is re-broadcast immediately and runs through every phase
// before delivery of u resumes; the remaining subscriptions and phases of
// this Receive call still receive u itself.
//
// A Handler error cannot be returned (bus.Subscriber.Receive has no error
// return), so the first one is captured on s.err, the same as a refinement
// diagnostic raised under PolicyThrow while satisfying a subscription's
// Requirement (ensureRefined). Either way Receive stops delivering, and no
// further unit of this document is delivered to any subscription; Err()
// reports the error to the caller once this Receive call returns.
func (s *Scheduler) Receive(u bus.Unit) {
	for _, phase := range []Phase{PreProcess, Rework, Validate} {
		s.deliverPhase(phase, u)
		if s.err != nil {
			return
		}
	}
	if p, ok := u.(processedMarker); ok {
		p.MarkProcessed()
	}
}

// processedMarker is satisfied by every concrete cssast unit (via the
// embedded base) once it has cleared every scheduler phase with no fatal
// error, completing the BROADCASTED -> PROCESSED lifecycle transition.
type processedMarker interface {
	MarkProcessed()
}

// Err reports the first error that aborted processing (a refinement
// diagnostic under logger.PolicyThrow, or a Handler error), or nil if none
// did.
func (s *Scheduler) Err() error {
	return s.err
}

func (s *Scheduler) deliverPhase(phase Phase, u bus.Unit) {
	kind := u.Kind()
	for _, rs := range s.subscriptions {
		if rs.sub.Phase != phase || rs.sub.Variant != kind {
			continue
		}
		s.ensureRefined(rs.sub.Requirement, u)
		if s.err != nil {
			return
		}
		replacement, err := rs.sub.Handler(s.ctx, u)
		if err != nil {
			s.err = err
			return
		}
		if phase == Rework && replacement != nil {
			s.bus.Broadcast(replacement)
		}
	}
}

// ensureRefined triggers the refinement registry when a subscription
// requires a refined form the unit does not yet have. A requirement that
// does not match u's concrete type (e.g. RefinedSelector against a
// Declaration) is silently ignored — the unit simply never matches that
// subscription's intent, the same way a Variant mismatch would skip it. The
// first refinement error encountered (only possible under PolicyThrow; see
// logger.Log.Add) is captured on s.err and takes priority over any later
// one for the lifetime of this Scheduler.
func (s *Scheduler) ensureRefined(req Requirement, u bus.Unit) {
	if s.err != nil {
		return
	}
	rc := &refine.Context{Bus: s.bus, Log: s.log}
	var err error
	switch req {
	case RefinedSelector:
		if sel, ok := u.(*cssast.Selector); ok {
			err = s.registry.RefineSelector(sel, rc)
		}
	case RefinedDeclaration:
		if decl, ok := u.(*cssast.Declaration); ok {
			err = s.registry.RefineDeclaration(decl, rc)
		}
	case RefinedAtRule:
		if rule, ok := u.(*cssast.AtRule); ok {
			err = s.registry.RefineAtRule(rule, rc)
		}
	}
	if err != nil {
		s.err = err
	}
}
