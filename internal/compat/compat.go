// Package compat holds the external collaborator promised for vendor-prefix
// decisions: read-only version tables keyed by (kind, canonical name,
// browser engine), and the two lookups built on top of them that
// internal/prefixer drives from a user-supplied support matrix.
package compat

// Version is a three-part browser version, compared the same permissive
// way a user-supplied support-matrix entry is: an omitted minor/patch
// component compares as 0, so a caller asking about "Chrome 90" doesn't
// need to spell out ".0.0".
type Version struct {
	Major, Minor, Patch uint16
}

// compareTo returns <0 if ver < other, 0 if equal, >0 if ver > other,
// reading other as [major], [major, minor], or [major, minor, patch].
func (ver Version) compareTo(other []int) int {
	diff := int(ver.Major)
	if len(other) > 0 {
		diff -= other[0]
	}
	if diff == 0 {
		diff = int(ver.Minor)
		if len(other) > 1 {
			diff -= other[1]
		}
	}
	if diff == 0 {
		diff = int(ver.Patch)
		if len(other) > 2 {
			diff -= other[2]
		}
	}
	return diff
}

func (ver Version) isZero() bool { return ver == Version{} }

// Kind selects which parallel prefix table a lookup consults, per spec's
// "plus parallel maps for functions, at-rules, selectors".
type Kind uint8

const (
	KindProperty Kind = iota
	KindFunction
	KindAtRule
	KindSelector
)

// CSSPrefix is a bitset of the vendor prefixes a property/function/at-rule/
// selector may need, since a single name can require different prefixes in
// different engines simultaneously (e.g. "appearance" needs both -webkit-
// and -moz- to cover Chrome and Firefox).
type CSSPrefix uint8

const (
	WebkitPrefix CSSPrefix = 1 << iota
	MozPrefix
	MsPrefix
	OPrefix

	NoPrefix CSSPrefix = 0
)

// String returns the prefix's vendor token, e.g. "webkit", or "" for
// NoPrefix — matching the bare vendor name cssast.PropertyName.Prefix
// already uses (no leading/trailing '-').
func (p CSSPrefix) String() string {
	switch p {
	case WebkitPrefix:
		return "webkit"
	case MozPrefix:
		return "moz"
	case MsPrefix:
		return "ms"
	case OPrefix:
		return "o"
	default:
		return ""
	}
}

// prefixData is one engine's entry in a name's prefix table: which prefix
// that engine ever needed, and the first version that stopped needing it
// (the zero Version means "still needs it in every version we know of").
type prefixData struct {
	prefix        CSSPrefix
	withoutPrefix Version
}

// RequiredPrefixes reports, for each engine named in constraints, whether
// name (of the given Kind) still needs a vendor prefix at that engine's
// target version, and returns the union of prefixes required across all of
// them. constraints maps an Engine to the lowest version of it the output
// must support, in the same permissive-length form as Version.compareTo.
func RequiredPrefixes(kind Kind, name string, constraints map[Engine][]int) CSSPrefix {
	table := tableFor(kind)
	engines, ok := table[name]
	if !ok {
		return NoPrefix
	}
	var prefixes CSSPrefix
	for engine, target := range constraints {
		data, ok := engines[engine]
		if !ok {
			continue
		}
		if data.withoutPrefix.isZero() || data.withoutPrefix.compareTo(target) > 0 {
			prefixes |= data.prefix
		}
	}
	return prefixes
}

// LastVersionRequiringPrefix returns the prefix cutoff for name (of the
// given Kind) in browser — the first version of browser that no longer
// needs the prefix; every earlier version needs it — and true, or the zero
// Version and false if browser never required a prefix for it. A zero Version
// returned with ok true means the prefix has never stopped being required
// (the spec's "or 'never required'" is the ok==false case; this is its
// mirror, "always required").
func LastVersionRequiringPrefix(kind Kind, name string, browser Engine) (Version, bool) {
	table := tableFor(kind)
	engines, ok := table[name]
	if !ok {
		return Version{}, false
	}
	data, ok := engines[browser]
	if !ok {
		return Version{}, false
	}
	return data.withoutPrefix, true
}

func tableFor(kind Kind) map[string]map[Engine]prefixData {
	switch kind {
	case KindFunction:
		return functionPrefixTable
	case KindAtRule:
		return atRulePrefixTable
	case KindSelector:
		return selectorPrefixTable
	default:
		return propertyPrefixTable
	}
}
