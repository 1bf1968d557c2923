package cssast

import (
	"strings"

	"github.com/cssdoc/cssdoc/internal/bus"
	"github.com/cssdoc/cssdoc/internal/logger"
)

// PropertyName is a canonical property identifier plus an optional vendor
// prefix, e.g. "-webkit-transform" refines to {Prefix: "webkit", Name:
// "transform"}.
type PropertyName struct {
	Raw    string
	Prefix string // "", "webkit", "moz", "ms", "o"
	Name   string // canonical, lowercased, without the prefix
}

// HasPrefix reports whether the original property carried a vendor prefix.
func (p PropertyName) HasPrefix() bool { return p.Prefix != "" }

// WithPrefix returns a copy of p carrying the given vendor prefix, used by
// the prefixer plugin to synthesize a mirrored declaration.
func (p PropertyName) WithPrefix(prefix string) PropertyName {
	p.Prefix = prefix
	if prefix == "" {
		p.Raw = p.Name
	} else {
		p.Raw = "-" + prefix + "-" + p.Name
	}
	return p
}

// TermKind enumerates the Term variant.
type TermKind uint8

const (
	TermKeyword TermKind = iota
	TermNumeric
	TermString
	TermHexColor
	TermFunction
	TermURL
)

func (k TermKind) String() string {
	switch k {
	case TermKeyword:
		return "keyword"
	case TermNumeric:
		return "numeric"
	case TermString:
		return "string"
	case TermHexColor:
		return "hex-color"
	case TermFunction:
		return "function"
	case TermURL:
		return "url"
	default:
		return "unknown"
	}
}

// Term is one value token inside a refined PropertyValue.
type Term struct {
	Kind TermKind

	Keyword string // TermKeyword

	NumericValue float64 // TermNumeric
	NumericRaw   string  // exact source text of the number, e.g. "1.50"
	Unit         string  // TermNumeric, e.g. "px", "%", "" for unitless

	Quote   byte   // TermString, '"' or '\''
	Content string // TermString (decoded is out of scope; raw-between-quotes is kept)

	HexDigits string // TermHexColor, without the leading '#', 3/4/6/8 hex chars

	FuncName string // TermFunction / TermURL
	RawArgs  string // TermFunction: raw text between the parens, unparsed
	URLValue string // TermURL: the url(...) argument, quote stripped if quoted
	URLQuote byte   // 0 if unquoted
}

// OperatorKind enumerates the top-level separators between Terms.
type OperatorKind uint8

const (
	OpSpace OperatorKind = iota
	OpComma
	OpSlash
)

func (k OperatorKind) String() string {
	switch k {
	case OpComma:
		return ","
	case OpSlash:
		return "/"
	default:
		return " "
	}
}

// ValueMember is either a Term or an Operator, in source order.
type ValueMember struct {
	IsOperator bool
	Term       Term
	Operator   OperatorKind
}

func TermMember(t Term) ValueMember               { return ValueMember{Term: t} }
func OperatorMember(o OperatorKind) ValueMember { return ValueMember{IsOperator: true, Operator: o} }

// PropertyValueKind distinguishes the standard term-sequence value shape
// from the handful of refiner strategies that claim a declaration and
// populate a special-purpose value instead of invoking the standard value
// grammar (spec §8 scenario 6: unquoted legacy IE filter syntax).
type PropertyValueKind uint8

const (
	ValueStandard PropertyValueKind = iota
	ValueUnquotedIEFilter
)

// PropertyValue is the refined value side of a Declaration.
type PropertyValue struct {
	Kind       PropertyValueKind
	Members    []ValueMember // ValueStandard
	RawContent string        // ValueUnquotedIEFilter: the exact argument string, unparsed
	Important  bool
}

// Text reconstructs the members into their natural text form, ignoring
// !important; used by the writer's non-compressed modes as the baseline
// before mode-specific whitespace rules are applied by internal/writer.
func (v PropertyValue) Text() string {
	if v.Kind == ValueUnquotedIEFilter {
		return v.RawContent
	}
	var b strings.Builder
	for _, m := range v.Members {
		if m.IsOperator {
			switch m.Operator {
			case OpComma:
				b.WriteString(", ")
			case OpSlash:
				b.WriteString(" / ")
			default:
				b.WriteString(" ")
			}
			continue
		}
		b.WriteString(termText(m.Term))
	}
	return strings.TrimSpace(b.String())
}

func termText(t Term) string {
	switch t.Kind {
	case TermKeyword:
		return t.Keyword
	case TermNumeric:
		return t.NumericRaw + t.Unit
	case TermString:
		q := string(t.Quote)
		return q + t.Content + q
	case TermHexColor:
		return "#" + t.HexDigits
	case TermFunction:
		return t.FuncName + "(" + t.RawArgs + ")"
	case TermURL:
		if t.URLQuote != 0 {
			q := string(t.URLQuote)
			return "url(" + q + t.URLValue + q + ")"
		}
		return "url(" + t.URLValue + ")"
	default:
		return ""
	}
}

// Declaration is a property-name/property-value pair, raw until refine()
// populates RefinedName/RefinedValue.
type Declaration struct {
	base
	RawName      string
	RawValue     string
	RefinedName  *PropertyName
	RefinedValue *PropertyValue
	// parent is non-nil only for declarations attached directly to a Rule's
	// block; declarations inside a @keyframes stop or a @font-face block are
	// reached through their KeyframeBlock/AtRule container instead, since
	// those containers are not Rules.
	parent *Rule
}

func NewDeclaration(loc logger.Loc, rawName, rawValue string) *Declaration {
	return &Declaration{base: newBase(loc), RawName: rawName, RawValue: rawValue}
}

func (d *Declaration) Kind() string { return "declaration" }

func (d *Declaration) Children() []bus.Unit { return nil }

func (d *Declaration) Parent() *Rule { return d.parent }

func (d *Declaration) Detach() { d.markDetached() }

func (d *Declaration) IsRefined() bool { return d.RefinedName != nil && d.RefinedValue != nil }

func (d *Declaration) IsWritable() bool {
	if !d.writableSelf() {
		return false
	}
	if d.IsRefined() {
		return d.RefinedName.Name != ""
	}
	return d.RawName != ""
}

func (d *Declaration) Copy() *Declaration {
	out := NewDeclaration(d.loc, d.RawName, d.RawValue)
	out.comments = append([]string(nil), d.comments...)
	if d.RefinedName != nil {
		name := *d.RefinedName
		out.RefinedName = &name
	}
	if d.RefinedValue != nil {
		val := *d.RefinedValue
		val.Members = append([]ValueMember(nil), d.RefinedValue.Members...)
		out.RefinedValue = &val
	}
	return out
}
