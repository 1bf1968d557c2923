// Package prefixer implements the vendor-prefix plugin: the external
// collaborator spec.md §6 calls "prefix data" wired up as a working
// plugin.Plugin, grounded on spec.md §8 scenarios 2 and 3. Given a pseudo-
// element selector that some targeted engine still needs prefixed, it
// prepends a prefixed mirror rule ahead of the canonical one; given a
// selector that is already prefixed but no longer needed by the target
// engines, pruning removes it from output.
//
// The plugin only acts on the single literal shape the spec's scenarios
// describe: a rule whose selector group is exactly one selector, itself
// exactly one pseudo-element part. Compound selectors ("div::selection")
// and multi-selector groups are left untouched, since nothing in the data
// model says how mirroring should compose with the rest of a compound
// selector.
package prefixer

import (
	"strings"

	"github.com/cssdoc/cssdoc/internal/bus"
	"github.com/cssdoc/cssdoc/internal/compat"
	"github.com/cssdoc/cssdoc/internal/cssast"
	"github.com/cssdoc/cssdoc/internal/plugin"
	"github.com/cssdoc/cssdoc/internal/refine"
)

// Options configures the plugin. Constraints is the user's support matrix:
// a nil or empty map means "no browsers", so RequiredPrefixes always
// answers NoPrefix and the plugin only ever prunes, never mirrors. Prune
// enables removal of an already-prefixed selector once its engine no
// longer requires it.
type Options struct {
	Constraints map[compat.Engine][]int
	Prune       bool
}

// Plugin is the plugin.Plugin implementation.
type Plugin struct {
	opts Options
}

// New creates a vendor-prefix Plugin with the given Options.
func New(opts Options) *Plugin {
	return &Plugin{opts: opts}
}

func (p *Plugin) Kind() string { return "vendor-prefixer" }

func (p *Plugin) Dependencies() []plugin.Dependency { return nil }

func (p *Plugin) Register(reg *refine.Registry) []plugin.Subscription {
	return []plugin.Subscription{
		{
			Variant:     "selector",
			Phase:       plugin.Rework,
			Requirement: plugin.RefinedSelector,
			Handler:     p.reworkSelector,
		},
	}
}

var prefixOrder = []struct {
	bit   compat.CSSPrefix
	token string
}{
	{compat.WebkitPrefix, "webkit"},
	{compat.MozPrefix, "moz"},
	{compat.MsPrefix, "ms"},
	{compat.OPrefix, "o"},
}

func prefixBitForToken(token string) compat.CSSPrefix {
	for _, po := range prefixOrder {
		if po.token == token {
			return po.bit
		}
	}
	return compat.NoPrefix
}

// splitVendorPrefix strips a leading "-token-" for a known vendor token off
// name, returning the token and the remaining canonical name, or ("", name)
// if name carries no recognized vendor prefix.
func splitVendorPrefix(name string) (token, canonical string) {
	for _, po := range prefixOrder {
		p := "-" + po.token + "-"
		if strings.HasPrefix(name, p) {
			return po.token, name[len(p):]
		}
	}
	return "", name
}

func (p *Plugin) reworkSelector(ctx *plugin.Context, u bus.Unit) (bus.Unit, error) {
	sel, ok := u.(*cssast.Selector)
	if !ok {
		return nil, nil
	}
	parts := sel.Parts.Items()
	if len(parts) != 1 || parts[0].PartKind != cssast.PartPseudoElement {
		return nil, nil
	}
	rule := sel.Parent()
	if rule == nil || len(rule.Selectors.Items()) != 1 {
		return nil, nil
	}
	sheet := rule.Parent()
	if sheet == nil {
		return nil, nil
	}

	token, canonical := splitVendorPrefix(parts[0].Name)
	required := compat.RequiredPrefixes(compat.KindSelector, canonical, p.opts.Constraints)

	if token == "" {
		p.mirrorMissingPrefixes(ctx, sheet, rule, canonical, required)
		return nil, nil
	}

	if p.opts.Prune && required&prefixBitForToken(token) == 0 {
		rule.MarkNeverEmit()
	}
	return nil, nil
}

// mirrorMissingPrefixes prepends, immediately before rule, one copy of rule
// per prefix still required that canonical doesn't already have a sibling
// rule for, in a fixed webkit/moz/ms/o order.
func (p *Plugin) mirrorMissingPrefixes(ctx *plugin.Context, sheet *cssast.Stylesheet, rule *cssast.Rule, canonical string, required compat.CSSPrefix) {
	for _, po := range prefixOrder {
		if required&po.bit == 0 {
			continue
		}
		mirroredName := "-" + po.token + "-" + canonical
		if siblingHasSelectorNamed(sheet, mirroredName) {
			continue
		}
		idx := sheet.IndexOfStatement(rule)
		if idx < 0 {
			continue
		}
		mirror := rule.Copy()
		mirror.Selectors.Items()[0].Parts.Items()[0].Name = mirroredName
		sheet.InsertStatementBefore(idx, mirror)
		ctx.Bus.PropagateBroadcast(mirror)
	}
}

func siblingHasSelectorNamed(sheet *cssast.Stylesheet, name string) bool {
	for _, st := range sheet.Statements.Items() {
		r, ok := st.(*cssast.Rule)
		if !ok || len(r.Selectors.Items()) != 1 {
			continue
		}
		rparts := r.Selectors.Items()[0].Parts.Items()
		if len(rparts) == 1 && rparts[0].Name == name {
			return true
		}
	}
	return false
}

