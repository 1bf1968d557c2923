package refine

import (
	"strings"

	"github.com/cssdoc/cssdoc/internal/cssast"
	"github.com/cssdoc/cssdoc/internal/cursor"
	"github.com/cssdoc/cssdoc/internal/logger"
	"github.com/spf13/cast"
)

var vendorPrefixes = []string{"webkit", "moz", "ms", "o"}

// standardRefineDeclaration splits decl.RawName into a PropertyName
// (resolving a leading vendor prefix) and parses decl.RawValue into a
// PropertyValue term sequence.
func standardRefineDeclaration(decl *cssast.Declaration, ctx *Context) error {
	name := parsePropertyName(decl.RawName)
	decl.RefinedName = &name
	value, err := parsePropertyValue(decl.RawValue, ctx, decl.Loc())
	decl.RefinedValue = value
	return err
}

func parsePropertyName(raw string) cssast.PropertyName {
	lower := strings.ToLower(strings.TrimSpace(raw))
	for _, prefix := range vendorPrefixes {
		marker := "-" + prefix + "-"
		if strings.HasPrefix(lower, marker) && len(lower) > len(marker) {
			return cssast.PropertyName{Raw: raw, Prefix: prefix, Name: lower[len(marker):]}
		}
	}
	return cssast.PropertyName{Raw: raw, Name: lower}
}

// parsePropertyValue parses the standard term-sequence grammar: numeric,
// hex-color, string, url(...), function(...), and keyword terms separated
// by whitespace, a top-level comma, or a top-level slash, with an optional
// trailing "!important" (case-insensitive, whitespace-tolerant after '!').
func parsePropertyValue(raw string, ctx *Context, loc logger.Loc) (*cssast.PropertyValue, error) {
	text, important := splitTrailingImportant(raw)

	if looksLikeUnquotedIEFilter(text) {
		return &cssast.PropertyValue{Kind: cssast.ValueUnquotedIEFilter, RawContent: text, Important: important}, nil
	}

	cur := cursor.New(text)
	var members []cssast.ValueMember
	var reportedErr error

	for {
		cur.ConsumeWhile(isSelectorSpace)
		if cur.Eof() {
			break
		}

		switch cur.Peek() {
		case ',':
			cur.Advance()
			members = append(members, cssast.OperatorMember(cssast.OpComma))
			continue
		case '/':
			cur.Advance()
			members = append(members, cssast.OperatorMember(cssast.OpSlash))
			continue
		}

		term, ok, err := parseTerm(cur, ctx, loc)
		if err != nil && reportedErr == nil {
			reportedErr = err
		}
		if !ok {
			break
		}
		if n := len(members); n > 0 && !members[n-1].IsOperator {
			members = append(members, cssast.OperatorMember(cssast.OpSpace))
		}
		members = append(members, cssast.TermMember(term))
		if err != nil {
			break
		}
	}

	return &cssast.PropertyValue{Kind: cssast.ValueStandard, Members: members, Important: important}, reportedErr
}

// splitTrailingImportant strips a trailing "! important"-shaped suffix
// (case-insensitive, whitespace allowed after the '!' and around it) and
// reports whether one was found.
func splitTrailingImportant(raw string) (rest string, important bool) {
	trimmed := strings.TrimRight(raw, " \t\n\r\f")
	lower := strings.ToLower(trimmed)
	idx := strings.LastIndexByte(lower, '!')
	if idx < 0 {
		return trimmed, false
	}
	if strings.TrimSpace(lower[idx+1:]) != "important" {
		return trimmed, false
	}
	return strings.TrimRight(trimmed[:idx], " \t\n\r\f"), true
}

func looksLikeUnquotedIEFilter(text string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(text)), "progid:")
}

func parseTerm(cur *cursor.Cursor, ctx *Context, loc logger.Loc) (cssast.Term, bool, error) {
	switch r := cur.Peek(); {
	case r == '#':
		cur.Advance()
		hex := cur.ConsumeWhile(isHexDigit)
		var err error
		if l := len(hex); l != 3 && l != 4 && l != 6 && l != 8 {
			err = ctx.Log.Add(logger.InvalidHexColor, loc, "hex color must have 3, 4, 6, or 8 digits, got \"#"+hex+"\"", "")
		}
		return cssast.Term{Kind: cssast.TermHexColor, HexDigits: hex}, true, err

	case r == '"' || r == '\'':
		s, err := cur.ReadString(r)
		if err != nil {
			return cssast.Term{}, false, ctx.Log.Add(logger.UnclosedString, loc, "unterminated string in property value", "")
		}
		return cssast.Term{Kind: cssast.TermString, Quote: byte(r), Content: s}, true, nil

	case isDigit(r) || ((r == '+' || r == '-' || r == '.') && isDigit(cur.PeekAt(1))):
		numRaw, ok := cur.ReadNumber()
		if !ok {
			return cssast.Term{}, false, nil
		}
		var unit string
		if cur.Peek() == '%' {
			cur.Advance()
			unit = "%"
		} else if u, ok := cur.ReadIdentifier(); ok {
			unit = u
		}
		val, castErr := cast.ToFloat64E(numRaw)
		var err error
		if castErr != nil {
			err = ctx.Log.Add(logger.InvalidNumber, loc, "could not parse numeric term \""+numRaw+"\"", "")
		}
		return cssast.Term{Kind: cssast.TermNumeric, NumericValue: val, NumericRaw: numRaw, Unit: unit}, true, err

	default:
		name, ok := cur.ReadIdentifier()
		if !ok {
			return cssast.Term{}, false, nil
		}
		if cur.Peek() != '(' {
			return cssast.Term{Kind: cssast.TermKeyword, Keyword: name}, true, nil
		}
		if strings.EqualFold(name, "url") {
			term, ok := parseURLTerm(cur)
			return term, ok, nil
		}
		args, err := scanBalancedParens(cur, ctx, loc)
		return cssast.Term{Kind: cssast.TermFunction, FuncName: name, RawArgs: args}, true, err
	}
}

func parseURLTerm(cur *cursor.Cursor) (cssast.Term, bool) {
	cur.Advance() // '('
	cur.ConsumeWhile(isSelectorSpace)

	if q := cur.Peek(); q == '"' || q == '\'' {
		s, err := cur.ReadString(q)
		if err != nil {
			return cssast.Term{}, false
		}
		cur.ConsumeWhile(isSelectorSpace)
		if cur.Peek() == ')' {
			cur.Advance()
		}
		return cssast.Term{Kind: cssast.TermURL, FuncName: "url", URLValue: s, URLQuote: byte(q)}, true
	}

	start := cur.Snapshot()
	for cur.Peek() != ')' && !cur.Eof() {
		cur.Advance()
	}
	val := strings.TrimSpace(cur.SliceFrom(start))
	if cur.Peek() == ')' {
		cur.Advance()
	}
	return cssast.Term{Kind: cssast.TermURL, FuncName: "url", URLValue: val}, true
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// UnquotedIEFilterStrategy is the spec §8 scenario 6 declaration strategy:
// it claims any declaration whose raw value is the legacy, unquoted
// `progid:DXImageTransform...` filter syntax and refines it as a single
// ValueUnquotedIEFilter term rather than attempting the standard value
// grammar, which would otherwise mis-tokenize the filter's unquoted,
// comma-and-paren-heavy argument list.
//
// It is registered by default (see NewStandardRegistry). The standard
// declaration refiner also recognizes this shape directly and produces the
// same refined value, so a registry without this strategy refines such a
// declaration the same way; registering it only lets it claim the
// declaration ahead of strategies registered after it.
func UnquotedIEFilterStrategy(decl *cssast.Declaration, ctx *Context) (bool, error) {
	if !looksLikeUnquotedIEFilter(decl.RawValue) {
		return false, nil
	}
	name := parsePropertyName(decl.RawName)
	decl.RefinedName = &name
	text, important := splitTrailingImportant(decl.RawValue)
	decl.RefinedValue = &cssast.PropertyValue{Kind: cssast.ValueUnquotedIEFilter, RawContent: text, Important: important}
	return true, nil
}
