package refine

import (
	"strings"

	"github.com/cssdoc/cssdoc/internal/cssast"
	"github.com/cssdoc/cssdoc/internal/cursor"
	"github.com/cssdoc/cssdoc/internal/logger"
)

// standardRefineSelector tokenizes sel.RawContent into SelectorParts: type,
// universal, id, class, and attribute selectors; pseudo-classes and
// pseudo-elements with their `(...)` argument captured verbatim; and
// combinators (explicit '>' '+' '~', or an implicit descendant combinator
// wherever whitespace separates two compound selectors).
//
// Per the two legacy sentinel rules, a single-colon ":first-line",
// ":first-letter", ":before", or ":after" refines as a pseudo-*element*
// even though it was written with one colon, matching how browsers treat
// the CSS2 pseudo-elements for backward compatibility.
//
// Each part is broadcast as soon as it is added, ahead of the selector
// itself going out a second time to any subscriber watching for refined
// children — the "selectors refine child-first" exception to the bus's
// usual container-before-children ordering.
func standardRefineSelector(sel *cssast.Selector, ctx *Context) error {
	cur := cursor.New(sel.RawContent)
	first := true
	var reportedErr error

	for {
		space := cur.ConsumeWhile(isSelectorSpace)
		if cur.Eof() {
			break
		}

		if r := cur.Peek(); r == '>' || r == '+' || r == '~' {
			cur.Advance()
			addSimplePart(sel, ctx, cssast.PartCombinator, string(r))
			cur.ConsumeWhile(isSelectorSpace)
			first = false
			continue
		}

		if space != "" && !first {
			addSimplePart(sel, ctx, cssast.PartCombinator, " ")
		}
		first = false

		n, err := parseCompoundSelector(cur, sel, ctx)
		if err != nil && reportedErr == nil {
			reportedErr = err
		}
		if n == 0 {
			if addErr := ctx.Log.Add(logger.UnparsableSelector, sel.Loc(), "could not parse selector: "+sel.RawContent, ""); addErr != nil && reportedErr == nil {
				reportedErr = addErr
			}
			break
		}
	}

	sel.MarkRefined()
	return reportedErr
}

func isSelectorSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	default:
		return false
	}
}

// parseCompoundSelector consumes a run of simple selectors with no
// separating whitespace (e.g. "div.card#main::before") and returns how
// many parts it added, so the caller can detect an unparsable remainder.
func parseCompoundSelector(cur *cursor.Cursor, sel *cssast.Selector, ctx *Context) (int, error) {
	count := 0
	for {
		switch cur.Peek() {
		case '*':
			cur.Advance()
			addSimplePart(sel, ctx, cssast.PartUniversal, "*")
			count++
		case '#':
			cur.Advance()
			name, ok := cur.ReadIdentifier()
			if !ok {
				return count, nil
			}
			addSimplePart(sel, ctx, cssast.PartID, name)
			count++
		case '.':
			cur.Advance()
			name, ok := cur.ReadIdentifier()
			if !ok {
				return count, nil
			}
			addSimplePart(sel, ctx, cssast.PartClass, name)
			count++
		case '[':
			cur.Advance()
			if err := parseAttributeSelector(cur, sel, ctx); err != nil {
				return count + 1, err
			}
			count++
		case ':':
			claimed, err := parsePseudoSelector(cur, sel, ctx)
			if !claimed {
				return count, err
			}
			count++
			if err != nil {
				return count, err
			}
		default:
			name, ok := cur.ReadIdentifier()
			if !ok {
				return count, nil
			}
			addSimplePart(sel, ctx, cssast.PartType, name)
			count++
		}
	}
}

// parseAttributeSelector consumes "[name]", "[name=value]", or
// "[name<op>=value]" for op in {~ | ^ $ *}, with value either a quoted
// string or a bare identifier. The cursor is positioned just past the
// opening '[' on entry and just past the closing ']' on return (or at
// wherever scanning gave up, with a diagnostic recorded, if ']' never
// appears).
func parseAttributeSelector(cur *cursor.Cursor, sel *cssast.Selector, ctx *Context) error {
	cur.ConsumeWhile(isSelectorSpace)
	name, _ := cur.ReadIdentifier()
	cur.ConsumeWhile(isSelectorSpace)

	var matcher, value string
	var quoted bool

	switch r := cur.Peek(); r {
	case '=':
		cur.Advance()
		matcher = "="
	case '~', '|', '^', '$', '*':
		if cur.PeekAt(1) == '=' {
			cur.Advance()
			cur.Advance()
			matcher = string(r) + "="
		}
	}

	if matcher != "" {
		cur.ConsumeWhile(isSelectorSpace)
		if q := cur.Peek(); q == '"' || q == '\'' {
			if s, err := cur.ReadString(q); err == nil {
				value = s
				quoted = true
			}
		} else {
			value, _ = cur.ReadIdentifier()
		}
	}

	cur.ConsumeWhile(isSelectorSpace)
	var err error
	if cur.Peek() == ']' {
		cur.Advance()
	} else {
		err = ctx.Log.Add(logger.UnparsableSelector, sel.Loc(), "expected ']' to close an attribute selector", "")
	}

	part := cssast.NewSelectorPart(sel.Loc(), cssast.PartAttribute, name)
	part.AttrMatcher = matcher
	part.AttrValue = value
	part.AttrQuoted = quoted
	sel.AddPart(part)
	ctx.Bus.Broadcast(part)
	return err
}

// parsePseudoSelector consumes ":name", "::name", or either form followed
// by a balanced-paren argument, reporting whether it found a pseudo name to
// claim. The legacy single-colon sentinel names refine as pseudo-elements
// regardless of colon count.
func parsePseudoSelector(cur *cursor.Cursor, sel *cssast.Selector, ctx *Context) (bool, error) {
	cur.Advance() // first ':'
	isElementColon := false
	if cur.Peek() == ':' {
		cur.Advance()
		isElementColon = true
	}

	name, ok := cur.ReadIdentifier()
	if !ok {
		return false, ctx.Log.Add(logger.MissingPseudoName, sel.Loc(), "expected a name after ':'", "")
	}

	var args string
	var err error
	if cur.Peek() == '(' {
		args, err = scanBalancedParens(cur, ctx, sel.Loc())
	}

	kind := cssast.PartPseudoClass
	if isElementColon || isLegacyPseudoElement(name) {
		kind = cssast.PartPseudoElement
	}

	part := cssast.NewSelectorPart(sel.Loc(), kind, name)
	part.Args = args
	sel.AddPart(part)
	ctx.Bus.Broadcast(part)
	return true, err
}

func isLegacyPseudoElement(name string) bool {
	switch strings.ToLower(name) {
	case "first-line", "first-letter", "before", "after":
		return true
	default:
		return false
	}
}

// scanBalancedParens consumes a `(...)` argument starting at the cursor's
// current position (the opening paren), tracking nested parens so a
// pseudo-class like :not(.a, .b) captures its full argument verbatim, and
// returns the text between the outermost parens. The closing paren is
// consumed; an unclosed argument is reported against loc and the raw
// remainder scanned so far is returned alongside the error.
func scanBalancedParens(cur *cursor.Cursor, ctx *Context, loc logger.Loc) (string, error) {
	cur.Advance() // '('
	depth := 1
	start := cur.Snapshot()
	for depth > 0 {
		r := cur.Peek()
		if r == cursor.EOF {
			text := cur.SliceFrom(start)
			return text, ctx.Log.Add(logger.UnclosedParen, loc, "unexpected end of input while looking for ')'", "")
		}
		if r == '(' {
			depth++
		}
		if r == ')' {
			depth--
			if depth == 0 {
				text := cur.SliceFrom(start)
				cur.Advance()
				return text, nil
			}
		}
		cur.Advance()
	}
	return cur.SliceFrom(start), nil
}

func addSimplePart(sel *cssast.Selector, ctx *Context, kind cssast.SelectorPartKind, name string) {
	part := cssast.NewSelectorPart(sel.Loc(), kind, name)
	sel.AddPart(part)
	ctx.Bus.Broadcast(part)
}
