// Package refine implements the Refinement Registry: on-demand, idempotent
// promotion of a raw cssast unit (a Selector's raw content, a Declaration's
// raw name/value, an AtRule's raw expression/block) into its typed form.
//
// Refinement is pluggable per kind. A Registry holds an ordered list of
// strategies per refinable kind; the first strategy to claim a unit wins,
// and a unit no strategy claims falls back to the standard refiner built
// into this package. Both paths mark the unit refined, so a second call to
// Refine* is a no-op.
package refine

import (
	"github.com/cssdoc/cssdoc/internal/bus"
	"github.com/cssdoc/cssdoc/internal/cssast"
	"github.com/cssdoc/cssdoc/internal/logger"
)

// SelectorStrategy attempts to refine sel, reporting whether it claimed it.
// A strategy that returns false must not have mutated sel. The returned
// error is non-nil only when the strategy claimed the unit and raised a
// non-advisory diagnostic under ctx.Log's Throw policy; the strategy must
// still leave sel in a refined (if partial) state before returning it.
type SelectorStrategy func(sel *cssast.Selector, ctx *Context) (bool, error)

// DeclarationStrategy attempts to refine decl, reporting whether it claimed
// it. See SelectorStrategy for the error-return contract.
type DeclarationStrategy func(decl *cssast.Declaration, ctx *Context) (bool, error)

// AtRuleStrategy attempts to refine rule's expression and/or block,
// reporting whether it claimed it. A strategy may claim an at-rule and
// populate only RefinedExpr, only RefinedBlock, or both. See
// SelectorStrategy for the error-return contract.
type AtRuleStrategy func(rule *cssast.AtRule, ctx *Context) (bool, error)

// Context is threaded through every strategy call: the bus that newly
// created sub-units must be broadcast on (to honor the "selectors refine
// child-first" ordering guarantee), and the log that parse-time diagnostics
// (an unbalanced pseudo-class paren, a malformed hex color) are recorded
// against.
type Context struct {
	Bus *bus.Bus
	Log *logger.Log
}

// Registry holds the ordered, per-kind strategy lists a Scheduler (see
// internal/plugin) registers plugin-provided refiners into.
type Registry struct {
	selectorStrategies    []SelectorStrategy
	declarationStrategies []DeclarationStrategy
	atRuleStrategies      []AtRuleStrategy
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) RegisterSelector(s SelectorStrategy) {
	r.selectorStrategies = append(r.selectorStrategies, s)
}

func (r *Registry) RegisterDeclaration(s DeclarationStrategy) {
	r.declarationStrategies = append(r.declarationStrategies, s)
}

func (r *Registry) RegisterAtRule(s AtRuleStrategy) {
	r.atRuleStrategies = append(r.atRuleStrategies, s)
}

// RefineSelector is idempotent: a selector that is already refined is
// returned unchanged. Otherwise each registered strategy is tried in
// registration order; the first to claim the selector wins, and if none
// do, the standard selector refiner runs. The returned error is whatever
// diagnostic, if any, ctx.Log.Add raised while refining sel under a Throw
// policy; callers that need Throw semantics to actually abort processing
// must check it rather than discard it.
func (r *Registry) RefineSelector(sel *cssast.Selector, ctx *Context) error {
	if sel.IsRefined() {
		return nil
	}
	for _, strat := range r.selectorStrategies {
		if claimed, err := strat(sel, ctx); claimed {
			return err
		}
	}
	return standardRefineSelector(sel, ctx)
}

// RefineDeclaration is idempotent the same way RefineSelector is.
func (r *Registry) RefineDeclaration(decl *cssast.Declaration, ctx *Context) error {
	if decl.IsRefined() {
		return nil
	}
	for _, strat := range r.declarationStrategies {
		if claimed, err := strat(decl, ctx); claimed {
			return err
		}
	}
	return standardRefineDeclaration(decl, ctx)
}

// RefineAtRule is idempotent: an at-rule that already has a refined
// expression or a refined block (either one is enough, see
// AtRule.IsRefined) is returned unchanged.
func (r *Registry) RefineAtRule(rule *cssast.AtRule, ctx *Context) error {
	if rule.IsRefined() {
		return nil
	}
	for _, strat := range r.atRuleStrategies {
		if claimed, err := strat(rule, ctx); claimed {
			return err
		}
	}
	return standardRefineAtRule(rule, ctx)
}

// NewStandardRegistry returns a Registry with the keyframes, font-face, and
// nested-rule-block (@media/@supports/@document) at-rule strategies already
// registered, plus the unquoted-legacy-IE-filter declaration strategy. This
// is the registry pkg/cssdoc wires up by default; a caller that wants a
// bare registry with none of these (e.g. a test isolating the standard
// fallback behavior) should use NewRegistry instead.
func NewStandardRegistry() *Registry {
	r := NewRegistry()
	r.RegisterDeclaration(UnquotedIEFilterStrategy)
	r.RegisterAtRule(KeyframesStrategy)
	r.RegisterAtRule(FontFaceStrategy)
	r.RegisterAtRule(NestedRuleBlockStrategy)
	return r
}
