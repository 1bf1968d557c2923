package rawparser

import (
	"strings"

	"github.com/cssdoc/cssdoc/internal/cssast"
	"github.com/cssdoc/cssdoc/internal/cursor"
	"github.com/cssdoc/cssdoc/internal/logger"
)

// parseAtRule reads "@name", then either a raw expression terminated by
// ';' with no block, a raw expression followed by a brace block, or a
// brace block with no expression at all (e.g. a bare "@else { ... }"-style
// construct some dialects allow, tolerated here rather than rejected).
func (p *Parser) parseAtRule() (*cssast.AtRule, error) {
	start := p.cur.Current()
	p.cur.Advance() // consume '@'

	name, ok := p.cur.ReadIdentifier()
	if !ok {
		return nil, p.fail(logger.MissingValue, start, "expected an identifier after '@'")
	}

	atRule := cssast.NewAtRule(start, strings.ToLower(name))
	p.cur.SkipWhitespace()

	exprStart := p.cur.Snapshot()
	exprLoc := p.cur.Current()
	depth := 0

scan:
	for {
		switch p.cur.Peek() {
		case cursor.EOF:
			return nil, p.fail(logger.UnclosedBlock, p.cur.Current(), "unexpected end of input while scanning an at-rule")
		case '"', '\'':
			if err := p.advanceOverString(p.cur.Peek()); err != nil {
				return nil, err
			}
		case '/':
			if p.cur.PeekAt(1) == '*' {
				if _, ok := p.cur.SkipComment(); !ok {
					p.cur.Advance()
				}
			} else {
				p.cur.Advance()
			}
		case '(':
			depth++
			p.cur.Advance()
		case ')':
			if depth > 0 {
				depth--
			}
			p.cur.Advance()
		case ';':
			if depth == 0 {
				expr := strings.TrimSpace(p.cur.SliceFrom(exprStart))
				p.cur.Advance()
				if expr != "" {
					frag := cssast.NewRawFragment(expr, exprLoc)
					atRule.RawExpr = &frag
				}
				return atRule, nil
			}
			p.cur.Advance()
		case '{':
			if depth == 0 {
				break scan
			}
			p.cur.Advance()
		default:
			p.cur.Advance()
		}
	}

	expr := strings.TrimSpace(p.cur.SliceFrom(exprStart))
	if expr != "" {
		frag := cssast.NewRawFragment(expr, exprLoc)
		atRule.RawExpr = &frag
	}

	blockLoc := p.cur.Current()
	p.cur.Advance() // consume '{'
	blockStart := p.cur.Snapshot()
	blockDepth := 1

	for {
		switch p.cur.Peek() {
		case cursor.EOF:
			return nil, p.fail(logger.UnclosedBlock, p.cur.Current(), "unexpected end of input inside an at-rule block")
		case '"', '\'':
			if err := p.advanceOverString(p.cur.Peek()); err != nil {
				return nil, err
			}
		case '/':
			if p.cur.PeekAt(1) == '*' {
				if _, ok := p.cur.SkipComment(); !ok {
					p.cur.Advance()
				}
			} else {
				p.cur.Advance()
			}
		case '{':
			blockDepth++
			p.cur.Advance()
		case '}':
			blockDepth--
			if blockDepth == 0 {
				frag := cssast.NewRawFragment(p.cur.SliceFrom(blockStart), blockLoc)
				atRule.RawBlock = &frag
				p.cur.Advance()
				return atRule, nil
			}
			p.cur.Advance()
		default:
			p.cur.Advance()
		}
	}
}
