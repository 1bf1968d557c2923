package refine

import (
	"strings"

	"github.com/cssdoc/cssdoc/internal/bus"
	"github.com/cssdoc/cssdoc/internal/cssast"
	"github.com/cssdoc/cssdoc/internal/cursor"
	"github.com/cssdoc/cssdoc/internal/logger"
	"github.com/cssdoc/cssdoc/internal/rawparser"
)

// standardRefineAtRule refines only the expression side, splitting it into
// top-level-comma clauses. The block, if any, is left as RawBlock: without
// a name-specific strategy claiming it, there is no sound generic grammar
// for "the body of an arbitrary at-rule", so it stays raw and is written
// verbatim (spec §4.5's "otherwise the at-rule remains unrefined but
// parsed" fallback).
func standardRefineAtRule(rule *cssast.AtRule, ctx *Context) error {
	refineAtRuleExpr(rule)
	return nil
}

func refineAtRuleExpr(rule *cssast.AtRule) {
	if rule.RefinedExpr != nil || rule.RawExpr == nil {
		return
	}
	rule.RefinedExpr = &cssast.AtRuleExpr{
		Raw:     rule.RawExpr.Content,
		Clauses: splitTopLevelCommas(rule.RawExpr.Content),
	}
}

// FontFaceStrategy claims "@font-face" and refines its block as a bare
// declaration list (spec §4.5, BlockKindDeclarations).
func FontFaceStrategy(rule *cssast.AtRule, ctx *Context) (bool, error) {
	if !strings.EqualFold(rule.Name, "font-face") {
		return false, nil
	}
	if rule.RawBlock == nil {
		return true, nil
	}
	block := &cssast.AtRuleBlock{Kind: cssast.BlockKindDeclarations}
	rule.SetRefinedBlock(block, ctx.Bus)
	decls, err := rawparser.ParseDeclarationList(rule.RawBlock.Content, ctx.Log, bus.New())
	if err != nil {
		return true, err
	}
	for _, d := range decls {
		block.Declarations.Append(d)
		ctx.Bus.Broadcast(d)
	}
	return true, nil
}

// NestedRuleBlockStrategy claims "@media", "@supports", and "@document",
// refining both the expression (a best-effort comma-split, per
// AtRuleExpr's doc comment on the @media query grammar Open Question) and
// the block as a fully reparsed nested stylesheet (BlockKindNestedRules).
func NestedRuleBlockStrategy(rule *cssast.AtRule, ctx *Context) (bool, error) {
	name := strings.ToLower(rule.Name)
	if name != "media" && name != "supports" && name != "document" {
		return false, nil
	}
	refineAtRuleExpr(rule)
	if rule.RawBlock == nil {
		return true, nil
	}
	ss, err := rawparser.New(rule.RawBlock.Content, ctx.Log, bus.New()).ParseStylesheet()
	if err != nil {
		return true, err
	}
	block := &cssast.AtRuleBlock{Kind: cssast.BlockKindNestedRules}
	rule.SetRefinedBlock(block, ctx.Bus)
	for _, st := range ss.Statements.Items() {
		block.Nested.Append(st)
		ctx.Bus.PropagateBroadcast(st)
	}
	return true, nil
}

// keyframesNames covers the unprefixed rule plus the vendor-prefixed forms
// that predate unprefixed @keyframes support.
var keyframesNames = map[string]bool{
	"keyframes":         true,
	"-webkit-keyframes": true,
	"-moz-keyframes":    true,
	"-o-keyframes":      true,
}

// KeyframesStrategy claims "@keyframes" (and its vendor-prefixed forms),
// refining its block as a sequence of KeyframeBlocks (BlockKindKeyframes).
func KeyframesStrategy(rule *cssast.AtRule, ctx *Context) (bool, error) {
	if !keyframesNames[strings.ToLower(rule.Name)] {
		return false, nil
	}
	refineAtRuleExpr(rule)
	if rule.RawBlock == nil {
		return true, nil
	}
	kfs, err := parseKeyframeBlocks(rule.RawBlock.Content, ctx.Log)
	if err != nil {
		return true, err
	}
	block := &cssast.AtRuleBlock{Kind: cssast.BlockKindKeyframes}
	rule.SetRefinedBlock(block, ctx.Bus)
	for _, kf := range kfs {
		block.Keyframes.Append(kf)
		ctx.Bus.PropagateBroadcast(kf)
	}
	return true, nil
}

// parseKeyframeBlocks reads a sequence of "<selector-list> { <declarations>
// }" steps out of a @keyframes body (each step's selector list is
// percentages or the from/to keywords, never a real CSS selector), tolerant
// of quoted strings the same way the raw parsers are.
func parseKeyframeBlocks(contents string, log *logger.Log) ([]*cssast.KeyframeBlock, error) {
	cur := cursor.New(contents)
	var blocks []*cssast.KeyframeBlock

	for {
		cur.SkipWhitespace()
		if cur.Eof() {
			return blocks, nil
		}

		selLoc := cur.Current()
		selStart := cur.Snapshot()
		for cur.Peek() != '{' && !cur.Eof() {
			if cur.Peek() == '"' || cur.Peek() == '\'' {
				if err := advanceOverQuoted(cur, log); err != nil {
					return nil, err
				}
				continue
			}
			cur.Advance()
		}
		if cur.Eof() {
			return nil, structuralFailure(log, cur.Current(), "unexpected end of input in a @keyframes step's selector")
		}
		selectorText := strings.TrimSpace(cur.SliceFrom(selStart))
		cur.Advance() // '{'

		bodyStart := cur.Snapshot()
		depth := 1
		for depth > 0 {
			switch cur.Peek() {
			case cursor.EOF:
				return nil, structuralFailure(log, cur.Current(), "unexpected end of input in a @keyframes step's body")
			case '"', '\'':
				if err := advanceOverQuoted(cur, log); err != nil {
					return nil, err
				}
			case '{':
				depth++
				cur.Advance()
			case '}':
				depth--
				cur.Advance()
			default:
				cur.Advance()
			}
		}
		bodyText := cur.SliceFrom(bodyStart)
		bodyText = bodyText[:len(bodyText)-1] // drop the '}' SliceFrom captured

		kf := cssast.NewKeyframeBlock(selLoc, splitTopLevelCommas(selectorText))
		decls, err := rawparser.ParseDeclarationList(bodyText, log, bus.New())
		if err != nil {
			return nil, err
		}
		for _, d := range decls {
			kf.AddDeclaration(d)
		}
		blocks = append(blocks, kf)
	}
}

func advanceOverQuoted(cur *cursor.Cursor, log *logger.Log) error {
	loc := cur.Current()
	quote := cur.Peek()
	cur.Advance()
	for {
		switch cur.Peek() {
		case cursor.EOF, '\n', '\r', '\f':
			return log.Add(logger.UnclosedString, loc, "unterminated string", "")
		case '\\':
			cur.Advance()
			if !cur.Eof() {
				cur.Advance()
			}
		case quote:
			cur.Advance()
			return nil
		default:
			cur.Advance()
		}
	}
}

func structuralFailure(log *logger.Log, loc logger.Loc, text string) error {
	return log.Add(logger.UnclosedBlock, loc, text, "")
}

// splitTopLevelCommas splits text on commas that are not inside a function
// call's parens or a quoted string, the same paren/quote-depth approach
// the raw parsers use for colons, applied here to comma-separated clauses
// (an at-rule expression's comma list, a @keyframes step's selector list).
func splitTopLevelCommas(text string) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case '"', '\'':
			quote := text[i]
			i++
			for i < len(text) {
				if text[i] == '\\' {
					i++
				} else if text[i] == quote {
					break
				}
				i++
			}
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(text[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, strings.TrimSpace(text[start:]))
	return out
}
