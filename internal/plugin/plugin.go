// Package plugin implements the Plugin Protocol & Scheduler: pluggable
// subscribers that observe or transform broadcast units in three ordered
// phases, with refinement requirements that lazily trigger internal/refine
// before a subscriber sees a unit, and a dependency graph that lets one
// plugin require another be registered ahead of it.
package plugin

import (
	"github.com/cssdoc/cssdoc/internal/bus"
	"github.com/cssdoc/cssdoc/internal/logger"
	"github.com/cssdoc/cssdoc/internal/refine"
)

// Phase is when, relative to standard bus delivery, a subscription fires.
type Phase uint8

const (
	// PreProcess fires before any other subscriber sees the unit — in
	// practice, before standard delivery, because the Scheduler should be
	// the first link chained onto the bus (see Scheduler's doc comment).
	PreProcess Phase = iota
	// Rework may transform a unit. A handler that wants to replace the unit
	// returns the replacement; the Scheduler re-broadcasts it immediately,
	// so the replacement runs through every phase before the original's
	// remaining Rework and Validate subscriptions, which still receive the
	// original.
	Rework
	// Validate is a read-only check: its return value is ignored, but it
	// may record diagnostics against the Context's Log.
	Validate
)

func (p Phase) String() string {
	switch p {
	case PreProcess:
		return "pre-process"
	case Rework:
		return "rework"
	case Validate:
		return "validate"
	default:
		return "unknown"
	}
}

// Requirement controls whether a subscription fires on the raw unit or only
// once a specific refined form exists, triggering internal/refine on demand
// the first time a matching unit is delivered.
type Requirement uint8

const (
	// Automatic fires on the unit as broadcast, raw or refined.
	Automatic Requirement = iota
	// RefinedDeclaration refines the unit (if it is a *cssast.Declaration)
	// before delivery.
	RefinedDeclaration
	// RefinedSelector refines the unit (if it is a *cssast.Selector) before
	// delivery.
	RefinedSelector
	// RefinedAtRule refines the unit (if it is a *cssast.AtRule) before
	// delivery.
	RefinedAtRule
)

// Handler observes (and, in the Rework phase, may transform) u. A non-nil
// returned unit in the Rework phase is the replacement; it is ignored in
// every other phase. A non-nil error aborts document processing (spec
// §5's "a plugin raising a fatal error aborts document processing").
type Handler func(ctx *Context, u bus.Unit) (bus.Unit, error)

// Context is threaded to every Handler call.
type Context struct {
	Bus      *bus.Bus
	Log      *logger.Log
	Registry *refine.Registry
}

// Subscription is one variant/phase/requirement/handler entry a Plugin
// declares during Register. Variant is matched against a broadcast unit's
// bus.Unit.Kind() (e.g. "declaration", "selector", "selector-part") —
// reusing the same dispatch tag the bus's own Query uses, rather than a
// parallel enum.
type Subscription struct {
	Variant     string
	Phase       Phase
	Requirement Requirement
	Handler     Handler
}

// Dependency names a plugin kind a Plugin requires be registered ahead of
// it, with a constructor the Scheduler uses if that kind is not already
// present.
type Dependency struct {
	Kind string
	New  func() Plugin
}

// Plugin is any object that declares subscriptions on AST variants and
// lifecycle hooks. Kind identifies the plugin for dependency
// deduplication; Register receives the refinement registry (so a plugin
// may install its own refiner strategies, e.g. the prefixer contributing
// nothing here but a future vendor-at-rule plugin might) and returns the
// subscriptions it wants delivered.
type Plugin interface {
	Kind() string
	Dependencies() []Dependency
	Register(reg *refine.Registry) []Subscription
}

// BeforePreProcessHook is implemented by a plugin that wants a callback
// once per document before any unit is delivered.
type BeforePreProcessHook interface {
	BeforePreProcess()
}

// AfterPreProcessHook is implemented by a plugin that wants a callback once
// per document after the PreProcess phase has run for every unit the
// document will ever broadcast (i.e. at the end of Process()).
type AfterPreProcessHook interface {
	AfterPreProcess()
}
