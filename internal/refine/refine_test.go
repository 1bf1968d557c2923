package refine

import (
	"testing"

	"github.com/cssdoc/cssdoc/internal/bus"
	"github.com/cssdoc/cssdoc/internal/cssast"
	"github.com/cssdoc/cssdoc/internal/logger"
	"github.com/cssdoc/cssdoc/internal/rawparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() *Context {
	return &Context{Bus: bus.New(), Log: logger.NewLog(logger.PolicyCollect)}
}

func parseOneRule(t *testing.T, contents string) *cssast.Rule {
	t.Helper()
	log := logger.NewLog(logger.PolicyCollect)
	ss, err := rawparser.New(contents, log, bus.New()).ParseStylesheet()
	require.NoError(t, err)
	require.Empty(t, log.Msgs())
	require.Equal(t, 1, ss.Statements.Len())
	rule, ok := ss.Statements.Items()[0].(*cssast.Rule)
	require.True(t, ok)
	return rule
}

func partNames(parts []*cssast.SelectorPart) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = p.Name
	}
	return out
}

func partKinds(parts []*cssast.SelectorPart) []cssast.SelectorPartKind {
	out := make([]cssast.SelectorPartKind, len(parts))
	for i, p := range parts {
		out[i] = p.PartKind
	}
	return out
}

func TestStandardSelectorRefinerCompoundSelector(t *testing.T) {
	rule := parseOneRule(t, "div.card#main { color: red; }")
	sel := rule.Selectors.Items()[0]
	ctx := newContext()

	NewRegistry().RefineSelector(sel, ctx)

	require.True(t, sel.IsRefined())
	parts := sel.Parts.Items()
	assert.Equal(t, []string{"div", "card", "main"}, partNames(parts))
	assert.Equal(t, []cssast.SelectorPartKind{cssast.PartType, cssast.PartClass, cssast.PartID}, partKinds(parts))
}

func TestStandardSelectorRefinerDescendantAndExplicitCombinators(t *testing.T) {
	rule := parseOneRule(t, "ul > li + span ~ a { color: red; }")
	sel := rule.Selectors.Items()[0]
	ctx := newContext()

	NewRegistry().RefineSelector(sel, ctx)

	parts := sel.Parts.Items()
	var combinators []string
	for _, p := range parts {
		if p.PartKind == cssast.PartCombinator {
			combinators = append(combinators, p.Name)
		}
	}
	assert.Equal(t, []string{">", "+", "~"}, combinators)
}

func TestStandardSelectorRefinerUniversal(t *testing.T) {
	rule := parseOneRule(t, "* { margin: 0; }")
	sel := rule.Selectors.Items()[0]
	ctx := newContext()

	NewRegistry().RefineSelector(sel, ctx)

	require.Len(t, sel.Parts.Items(), 1)
	assert.Equal(t, cssast.PartUniversal, sel.Parts.Items()[0].PartKind)
}

func TestStandardSelectorRefinerAttributeWithQuotedValue(t *testing.T) {
	rule := parseOneRule(t, `a[href^="https://"] { color: red; }`)
	sel := rule.Selectors.Items()[0]
	ctx := newContext()

	NewRegistry().RefineSelector(sel, ctx)

	parts := sel.Parts.Items()
	require.Len(t, parts, 2)
	attr := parts[1]
	assert.Equal(t, cssast.PartAttribute, attr.PartKind)
	assert.Equal(t, "href", attr.Name)
	assert.Equal(t, "^=", attr.AttrMatcher)
	assert.Equal(t, "https://", attr.AttrValue)
	assert.True(t, attr.AttrQuoted)
}

func TestStandardSelectorRefinerAttributePresenceOnly(t *testing.T) {
	rule := parseOneRule(t, "input[disabled] { color: gray; }")
	sel := rule.Selectors.Items()[0]
	ctx := newContext()

	NewRegistry().RefineSelector(sel, ctx)

	attr := sel.Parts.Items()[1]
	assert.Equal(t, "disabled", attr.Name)
	assert.Equal(t, "", attr.AttrMatcher)
}

func TestStandardSelectorRefinerPseudoClassWithArgs(t *testing.T) {
	rule := parseOneRule(t, "li:nth-child(2n+1) { color: red; }")
	sel := rule.Selectors.Items()[0]
	ctx := newContext()

	NewRegistry().RefineSelector(sel, ctx)

	pseudo := sel.Parts.Items()[1]
	assert.Equal(t, cssast.PartPseudoClass, pseudo.PartKind)
	assert.Equal(t, "nth-child", pseudo.Name)
	assert.Equal(t, "2n+1", pseudo.Args)
}

func TestStandardSelectorRefinerDoubleColonPseudoElement(t *testing.T) {
	rule := parseOneRule(t, "p::first-line { color: red; }")
	sel := rule.Selectors.Items()[0]
	ctx := newContext()

	NewRegistry().RefineSelector(sel, ctx)

	pseudo := sel.Parts.Items()[1]
	assert.Equal(t, cssast.PartPseudoElement, pseudo.PartKind)
	assert.Equal(t, "first-line", pseudo.Name)
}

func TestStandardSelectorRefinerLegacySingleColonPseudoElementSentinel(t *testing.T) {
	for _, name := range []string{"first-line", "first-letter", "before", "after"} {
		rule := parseOneRule(t, "p:"+name+" { color: red; }")
		sel := rule.Selectors.Items()[0]
		ctx := newContext()

		NewRegistry().RefineSelector(sel, ctx)

		pseudo := sel.Parts.Items()[1]
		assert.Equal(t, cssast.PartPseudoElement, pseudo.PartKind, "single-colon :%s must refine as a pseudo-element", name)
	}
}

func TestStandardSelectorRefinerOrdinaryPseudoClassIsNotSentinel(t *testing.T) {
	rule := parseOneRule(t, "a:hover { color: red; }")
	sel := rule.Selectors.Items()[0]
	ctx := newContext()

	NewRegistry().RefineSelector(sel, ctx)

	pseudo := sel.Parts.Items()[1]
	assert.Equal(t, cssast.PartPseudoClass, pseudo.PartKind)
}

func TestStandardSelectorRefinerIsIdempotent(t *testing.T) {
	rule := parseOneRule(t, "div.card { color: red; }")
	sel := rule.Selectors.Items()[0]
	reg := NewRegistry()
	ctx := newContext()

	reg.RefineSelector(sel, ctx)
	firstPartsLen := sel.Parts.Len()
	reg.RefineSelector(sel, ctx)

	assert.Equal(t, firstPartsLen, sel.Parts.Len(), "refining an already-refined selector must be a no-op")
}

func TestStandardSelectorRefinerBroadcastsPartsChildFirst(t *testing.T) {
	rule := parseOneRule(t, "div.card { color: red; }")
	sel := rule.Selectors.Items()[0]

	var order []string
	b := bus.New()
	b.ChainFunc(func(u bus.Unit) { order = append(order, u.Kind()) })
	ctx := &Context{Bus: b, Log: logger.NewLog(logger.PolicyCollect)}

	NewRegistry().RefineSelector(sel, ctx)
	b.Broadcast(sel)

	require.Len(t, order, 3)
	assert.Equal(t, "selector-part", order[0])
	assert.Equal(t, "selector-part", order[1])
	assert.Equal(t, "selector", order[2], "the selector itself must broadcast after its parts, not before")
}

func TestStandardDeclarationRefinerVendorPrefix(t *testing.T) {
	rule := parseOneRule(t, "div { -webkit-transform: none; }")
	decl := rule.Declarations.Items()[0]
	ctx := newContext()

	NewRegistry().RefineDeclaration(decl, ctx)

	require.True(t, decl.IsRefined())
	assert.Equal(t, "webkit", decl.RefinedName.Prefix)
	assert.Equal(t, "transform", decl.RefinedName.Name)
}

func TestStandardDeclarationRefinerNumericTermWithUnit(t *testing.T) {
	rule := parseOneRule(t, "div { margin: 1.5px; }")
	decl := rule.Declarations.Items()[0]
	ctx := newContext()

	NewRegistry().RefineDeclaration(decl, ctx)

	require.Len(t, decl.RefinedValue.Members, 1)
	term := decl.RefinedValue.Members[0].Term
	assert.Equal(t, cssast.TermNumeric, term.Kind)
	assert.Equal(t, 1.5, term.NumericValue)
	assert.Equal(t, "px", term.Unit)
}

func TestStandardDeclarationRefinerHexColor(t *testing.T) {
	rule := parseOneRule(t, "div { color: #ff0000; }")
	decl := rule.Declarations.Items()[0]
	ctx := newContext()

	NewRegistry().RefineDeclaration(decl, ctx)

	term := decl.RefinedValue.Members[0].Term
	assert.Equal(t, cssast.TermHexColor, term.Kind)
	assert.Equal(t, "ff0000", term.HexDigits)
}

func TestStandardSelectorRefinerMissingPseudoNameIsReported(t *testing.T) {
	rule := parseOneRule(t, "div: { color: red; }")
	sel := rule.Selectors.Items()[0]
	ctx := newContext()

	NewRegistry().RefineSelector(sel, ctx)

	require.Len(t, ctx.Log.Msgs(), 1)
	assert.Equal(t, logger.MissingPseudoName, ctx.Log.Msgs()[0].Kind)
}

func TestStandardSelectorRefinerMissingPseudoNameThrows(t *testing.T) {
	rule := parseOneRule(t, "div: { color: red; }")
	sel := rule.Selectors.Items()[0]
	ctx := &Context{Bus: bus.New(), Log: logger.NewLog(logger.PolicyThrow)}

	err := NewRegistry().RefineSelector(sel, ctx)

	require.Error(t, err)
	require.True(t, sel.IsRefined(), "refinement must still mark the unit refined even when it throws")
}

func TestStandardSelectorRefinerUnclosedParenIsReported(t *testing.T) {
	rule := parseOneRule(t, ":nth-child(2n+1 { color: red; }")
	sel := rule.Selectors.Items()[0]
	ctx := newContext()

	NewRegistry().RefineSelector(sel, ctx)

	require.Len(t, ctx.Log.Msgs(), 1)
	assert.Equal(t, logger.UnclosedParen, ctx.Log.Msgs()[0].Kind)
	pseudo := sel.Parts.Items()[0]
	assert.Contains(t, pseudo.Args, "2n+1")
}

func TestStandardSelectorRefinerUnclosedParenThrows(t *testing.T) {
	rule := parseOneRule(t, ":nth-child(2n+1 { color: red; }")
	sel := rule.Selectors.Items()[0]
	ctx := &Context{Bus: bus.New(), Log: logger.NewLog(logger.PolicyThrow)}

	err := NewRegistry().RefineSelector(sel, ctx)

	require.Error(t, err)
}

func TestStandardDeclarationRefinerInvalidHexColorLengthIsReported(t *testing.T) {
	rule := parseOneRule(t, "div { color: #ff; }")
	decl := rule.Declarations.Items()[0]
	ctx := newContext()

	NewRegistry().RefineDeclaration(decl, ctx)

	require.Len(t, ctx.Log.Msgs(), 1)
	assert.Equal(t, logger.InvalidHexColor, ctx.Log.Msgs()[0].Kind)
}

func TestStandardDeclarationRefinerFunctionTerm(t *testing.T) {
	rule := parseOneRule(t, "div { color: rgba(0, 0, 0, .5); }")
	decl := rule.Declarations.Items()[0]
	ctx := newContext()

	NewRegistry().RefineDeclaration(decl, ctx)

	term := decl.RefinedValue.Members[0].Term
	assert.Equal(t, cssast.TermFunction, term.Kind)
	assert.Equal(t, "rgba", term.FuncName)
	assert.Equal(t, "0, 0, 0, .5", term.RawArgs)
}

func TestStandardDeclarationRefinerURLTermQuoted(t *testing.T) {
	rule := parseOneRule(t, `div { background: url("a.png"); }`)
	decl := rule.Declarations.Items()[0]
	ctx := newContext()

	NewRegistry().RefineDeclaration(decl, ctx)

	term := decl.RefinedValue.Members[0].Term
	assert.Equal(t, cssast.TermURL, term.Kind)
	assert.Equal(t, "a.png", term.URLValue)
	assert.Equal(t, byte('"'), term.URLQuote)
}

func TestStandardDeclarationRefinerURLTermUnquoted(t *testing.T) {
	rule := parseOneRule(t, "div { background: url(a.png); }")
	decl := rule.Declarations.Items()[0]
	ctx := newContext()

	NewRegistry().RefineDeclaration(decl, ctx)

	term := decl.RefinedValue.Members[0].Term
	assert.Equal(t, cssast.TermURL, term.Kind)
	assert.Equal(t, "a.png", term.URLValue)
	assert.Equal(t, byte(0), term.URLQuote)
}

func TestStandardDeclarationRefinerCommaAndSpaceSeparatedTerms(t *testing.T) {
	rule := parseOneRule(t, "div { font-family: Helvetica, Arial, sans-serif; }")
	decl := rule.Declarations.Items()[0]
	ctx := newContext()

	NewRegistry().RefineDeclaration(decl, ctx)

	members := decl.RefinedValue.Members
	require.Len(t, members, 5) // 3 keywords + 2 comma operators
	assert.Equal(t, cssast.OpComma, members[1].Operator)
	assert.Equal(t, cssast.OpComma, members[3].Operator)
	assert.Equal(t, "Helvetica, Arial, sans-serif", decl.RefinedValue.Text())
}

func TestStandardDeclarationRefinerSlashOperator(t *testing.T) {
	rule := parseOneRule(t, "div { font: 12px/1.5 sans-serif; }")
	decl := rule.Declarations.Items()[0]
	ctx := newContext()

	NewRegistry().RefineDeclaration(decl, ctx)

	members := decl.RefinedValue.Members
	require.Len(t, members, 5) // 12px, /, 1.5, <implicit space>, sans-serif
	assert.Equal(t, cssast.OpSlash, members[1].Operator)
	assert.Equal(t, cssast.OpSpace, members[3].Operator)
}

func TestStandardDeclarationRefinerTrailingImportant(t *testing.T) {
	rule := parseOneRule(t, "div { color: red !important; }")
	decl := rule.Declarations.Items()[0]
	ctx := newContext()

	NewRegistry().RefineDeclaration(decl, ctx)

	assert.True(t, decl.RefinedValue.Important)
	assert.Equal(t, "red", decl.RefinedValue.Text())
}

func TestStandardDeclarationRefinerImportantIsCaseInsensitiveAndWhitespaceTolerant(t *testing.T) {
	rule := parseOneRule(t, "div { color: red ! IMPORTANT; }")
	decl := rule.Declarations.Items()[0]
	ctx := newContext()

	NewRegistry().RefineDeclaration(decl, ctx)

	assert.True(t, decl.RefinedValue.Important)
}

func TestUnquotedIEFilterStrategyClaimsProgidValue(t *testing.T) {
	rule := parseOneRule(t, `div { filter: progid:DXImageTransform.Microsoft.Alpha(Opacity=50); }`)
	decl := rule.Declarations.Items()[0]
	ctx := newContext()

	claimed, err := UnquotedIEFilterStrategy(decl, ctx)

	require.NoError(t, err)
	require.True(t, claimed)
	require.True(t, decl.IsRefined())
	assert.Equal(t, cssast.ValueUnquotedIEFilter, decl.RefinedValue.Kind)
	assert.Contains(t, decl.RefinedValue.RawContent, "DXImageTransform")
}

func TestStandardDeclarationRefinerRecognizesIEFilterWithoutExplicitStrategy(t *testing.T) {
	rule := parseOneRule(t, `div { filter: progid:DXImageTransform.Microsoft.Alpha(Opacity=50); }`)
	decl := rule.Declarations.Items()[0]
	ctx := newContext()

	NewRegistry().RefineDeclaration(decl, ctx)

	assert.Equal(t, cssast.ValueUnquotedIEFilter, decl.RefinedValue.Kind)
}

func parseOneAtRule(t *testing.T, contents string) *cssast.AtRule {
	t.Helper()
	log := logger.NewLog(logger.PolicyCollect)
	ss, err := rawparser.New(contents, log, bus.New()).ParseStylesheet()
	require.NoError(t, err)
	require.Empty(t, log.Msgs())
	require.Equal(t, 1, ss.Statements.Len())
	rule, ok := ss.Statements.Items()[0].(*cssast.AtRule)
	require.True(t, ok)
	return rule
}

func TestFontFaceStrategyRefinesBlockAsDeclarations(t *testing.T) {
	rule := parseOneAtRule(t, `@font-face { font-family: "Foo"; src: url(foo.woff); }`)
	ctx := newContext()

	claimed, err := FontFaceStrategy(rule, ctx)

	require.NoError(t, err)
	require.True(t, claimed)
	require.NotNil(t, rule.RefinedBlock)
	assert.Equal(t, cssast.BlockKindDeclarations, rule.RefinedBlock.Kind)
	require.Equal(t, 2, rule.RefinedBlock.Declarations.Len())
	assert.Equal(t, "font-family", rule.RefinedBlock.Declarations.Items()[0].RawName)
}

func TestNestedRuleBlockStrategyClaimsMediaAndParsesNestedRules(t *testing.T) {
	rule := parseOneAtRule(t, "@media (min-width: 768px) { div { color: red; } span { color: blue; } }")
	ctx := newContext()

	claimed, err := NestedRuleBlockStrategy(rule, ctx)

	require.NoError(t, err)
	require.True(t, claimed)
	require.NotNil(t, rule.RefinedExpr)
	assert.Equal(t, []string{"(min-width: 768px)"}, rule.RefinedExpr.Clauses)
	require.NotNil(t, rule.RefinedBlock)
	assert.Equal(t, cssast.BlockKindNestedRules, rule.RefinedBlock.Kind)
	assert.Equal(t, 2, rule.RefinedBlock.Nested.Len())
}

func TestNestedRuleBlockStrategyDoesNotClaimUnrelatedAtRule(t *testing.T) {
	rule := parseOneAtRule(t, `@import "foo.css";`)
	ctx := newContext()

	claimed, err := NestedRuleBlockStrategy(rule, ctx)
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestKeyframesStrategyParsesSteps(t *testing.T) {
	rule := parseOneAtRule(t, "@keyframes spin { from { opacity: 0; } 50%, 75% { opacity: .5; } to { opacity: 1; } }")
	ctx := newContext()

	claimed, err := KeyframesStrategy(rule, ctx)

	require.NoError(t, err)
	require.True(t, claimed)
	require.NotNil(t, rule.RefinedBlock)
	require.Equal(t, cssast.BlockKindKeyframes, rule.RefinedBlock.Kind)
	steps := rule.RefinedBlock.Keyframes.Items()
	require.Len(t, steps, 3)
	assert.Equal(t, []string{"from"}, steps[0].Selectors)
	assert.Equal(t, []string{"50%", "75%"}, steps[1].Selectors)
	assert.Equal(t, []string{"to"}, steps[2].Selectors)
	require.Equal(t, 1, steps[1].Declarations.Len())
	assert.Equal(t, "opacity", steps[1].Declarations.Items()[0].RawName)
}

func TestRegistryCustomStrategyTakesPriorityOverStandardRefiner(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterSelector(func(sel *cssast.Selector, ctx *Context) (bool, error) {
		part := cssast.NewSelectorPart(sel.Loc(), cssast.PartType, "custom")
		sel.AddPart(part)
		ctx.Bus.Broadcast(part)
		sel.MarkRefined()
		return true, nil
	})

	rule := parseOneRule(t, "div { color: red; }")
	sel := rule.Selectors.Items()[0]
	ctx := newContext()

	reg.RefineSelector(sel, ctx)

	require.Len(t, sel.Parts.Items(), 1)
	assert.Equal(t, "custom", sel.Parts.Items()[0].Name)
}

func TestNewStandardRegistryWiresDefaultStrategies(t *testing.T) {
	reg := NewStandardRegistry()
	ctx := newContext()

	fontFace := parseOneAtRule(t, "@font-face { font-family: Foo; }")
	reg.RefineAtRule(fontFace, ctx)
	assert.Equal(t, cssast.BlockKindDeclarations, fontFace.RefinedBlock.Kind)

	media := parseOneAtRule(t, "@media print { div { color: red; } }")
	reg.RefineAtRule(media, ctx)
	assert.Equal(t, cssast.BlockKindNestedRules, media.RefinedBlock.Kind)

	keyframes := parseOneAtRule(t, "@keyframes spin { from { opacity: 0; } to { opacity: 1; } }")
	reg.RefineAtRule(keyframes, ctx)
	assert.Equal(t, cssast.BlockKindKeyframes, keyframes.RefinedBlock.Kind)
}
