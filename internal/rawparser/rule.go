package rawparser

import (
	"strings"

	"github.com/cssdoc/cssdoc/internal/bus"
	"github.com/cssdoc/cssdoc/internal/cssast"
	"github.com/cssdoc/cssdoc/internal/cursor"
	"github.com/cssdoc/cssdoc/internal/logger"
)

// segment is one piece of a comma- or semicolon-split raw fragment, with
// the position of its first character for diagnostics and unit placement.
type segment struct {
	loc  logger.Loc
	text string
}

// parseRule consumes a raw selector group up to the rule's opening brace,
// then its raw declaration block up to the matching closing brace,
// tracking nested brace depth and tolerating braces, colons, and
// semicolons that appear inside quoted strings or comments.
func (p *Parser) parseRule() (*cssast.Rule, error) {
	start := p.cur.Current()
	rule := cssast.NewRule(start, p.b)

	selectorSegs, err := p.scanSelectorGroup()
	if err != nil {
		return nil, err
	}
	for _, seg := range selectorSegs {
		comments, rest := extractLeadingComments(seg.text)
		rest = strings.TrimSpace(rest)
		if rest == "" {
			for _, c := range comments {
				rule.AddOrphanedComment(c)
			}
			continue
		}
		sel := cssast.NewSelector(seg.loc, rest, p.b)
		for _, c := range comments {
			sel.AddComment(c)
		}
		rule.AddSelector(sel)
	}

	declSegs, err := p.scanDeclarationBlock()
	if err != nil {
		return nil, err
	}
	for _, seg := range declSegs {
		comments, rest := extractLeadingComments(seg.text)
		rest = strings.TrimSpace(rest)
		if rest == "" {
			for _, c := range comments {
				rule.AddOrphanedComment(c)
			}
			continue
		}
		name, value, ok := splitFirstTopLevelColon(rest)
		if !ok {
			if err := p.log.Add(logger.MissingColon, seg.loc, "expected ':' in declaration", ""); err != nil {
				return nil, err
			}
			continue
		}
		decl := cssast.NewDeclaration(seg.loc, strings.TrimSpace(name), strings.TrimSpace(value))
		for _, c := range comments {
			decl.AddComment(c)
		}
		rule.AddDeclaration(decl)
	}

	return rule, nil
}

// ParseDeclarationList parses a bare `name: value; name: value` list with
// no enclosing selector, for a refiner strategy that owns a declaration
// block without a Rule around it (a @font-face body, one @keyframes step).
// It reuses the rule parser's declaration-block scanner by supplying a
// synthetic trailing '}' so the scanner's matching-brace termination
// applies uniformly.
func ParseDeclarationList(contents string, log *logger.Log, b *bus.Bus) ([]*cssast.Declaration, error) {
	p := New(contents+"}", log, b)
	segs, err := p.scanDeclarationBlock()
	if err != nil {
		return nil, err
	}
	var decls []*cssast.Declaration
	for _, seg := range segs {
		comments, rest := extractLeadingComments(seg.text)
		rest = strings.TrimSpace(rest)
		if rest == "" {
			continue
		}
		name, value, ok := splitFirstTopLevelColon(rest)
		if !ok {
			if err := log.Add(logger.MissingColon, seg.loc, "expected ':' in declaration", ""); err != nil {
				return nil, err
			}
			continue
		}
		decl := cssast.NewDeclaration(seg.loc, strings.TrimSpace(name), strings.TrimSpace(value))
		for _, c := range comments {
			decl.AddComment(c)
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

// scanSelectorGroup reads from the cursor's current position, splitting on
// top-level commas, until it reaches and consumes the rule's opening '{'.
// Selector groups never legitimately contain a top-level brace, so no
// brace-depth tracking is needed here, only quote and comment tolerance.
func (p *Parser) scanSelectorGroup() ([]segment, error) {
	var segs []segment
	segStart := p.cur.Snapshot()
	segLoc := p.cur.Current()

	for {
		switch p.cur.Peek() {
		case cursor.EOF:
			return nil, p.fail(logger.UnclosedBlock, p.cur.Current(), "unexpected end of input while looking for '{'")
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
		case ',':
			segs = append(segs, segment{loc: segLoc, text: p.cur.SliceFrom(segStart)})
			p.cur.Advance()
			segStart = p.cur.Snapshot()
			segLoc = p.cur.Current()
		case '{':
			segs = append(segs, segment{loc: segLoc, text: p.cur.SliceFrom(segStart)})
			p.cur.Advance()
			return segs, nil
		default:
			p.cur.Advance()
		}
	}
}

// scanDeclarationBlock reads the rule's declaration block body, splitting
// on top-level semicolons, until it reaches and consumes the matching
// closing '}'. Brace depth is tracked so a stray nested '{' (not expected
// in standard CSS, but tolerated rather than mis-scanned) does not
// terminate the block early.
func (p *Parser) scanDeclarationBlock() ([]segment, error) {
	var segs []segment
	segStart := p.cur.Snapshot()
	segLoc := p.cur.Current()
	depth := 0

	for {
		switch p.cur.Peek() {
		case cursor.EOF:
			return nil, p.fail(logger.UnclosedBlock, p.cur.Current(), "unexpected end of input inside a declaration block")
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
			depth++
			p.cur.Advance()
		case '}':
			if depth > 0 {
				depth--
				p.cur.Advance()
				continue
			}
			segs = append(segs, segment{loc: segLoc, text: p.cur.SliceFrom(segStart)})
			p.cur.Advance()
			return segs, nil
		case ';':
			if depth == 0 {
				segs = append(segs, segment{loc: segLoc, text: p.cur.SliceFrom(segStart)})
				p.cur.Advance()
				segStart = p.cur.Snapshot()
				segLoc = p.cur.Current()
			} else {
				p.cur.Advance()
			}
		default:
			p.cur.Advance()
		}
	}
}

// splitFirstTopLevelColon splits a declaration's raw text on the first ':'
// that is not nested inside a function call's parens or a quoted string,
// so "background: url(http://x)" does not split on the URL's scheme colon.
func splitFirstTopLevelColon(text string) (name, value string, ok bool) {
	depth := 0
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
		case ':':
			if depth == 0 {
				return text[:i], text[i+1:], true
			}
		}
	}
	return "", "", false
}
