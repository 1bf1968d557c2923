package compat

// cssMaskPrefixTable is shared by every mask-* longhand, since they all
// became unprefixed in the same engine releases (adapted from the
// teacher's identically-shaped cssMaskPrefixTable, re-keyed by nothing —
// it was already engine-keyed, only its use site below changed from an
// ast enum constant to a canonical property-name string).
var cssMaskPrefixTable = map[Engine]prefixData{
	Chrome: {prefix: WebkitPrefix},
	Edge:   {prefix: WebkitPrefix},
	IOS:    {prefix: WebkitPrefix, withoutPrefix: Version{15, 4, 0}},
	Opera:  {prefix: WebkitPrefix},
	Safari: {prefix: WebkitPrefix, withoutPrefix: Version{15, 4, 0}},
}

// propertyPrefixTable is keyed by canonical (unprefixed, lowercase)
// property name, adapted from the teacher's cssPrefixTable: the same
// per-engine prefix/withoutPrefix data, re-keyed from css_ast.D* enum
// constants to plain strings, since this module's PropertyName carries its
// canonical name as a string (spec.md §3's PropertyName has no enum of
// known property identifiers).
var propertyPrefixTable = map[string]map[Engine]prefixData{
	// https://caniuse.com/css-appearance
	"appearance": {
		Chrome:  {prefix: WebkitPrefix, withoutPrefix: Version{84, 0, 0}},
		Edge:    {prefix: WebkitPrefix, withoutPrefix: Version{84, 0, 0}},
		Firefox: {prefix: MozPrefix, withoutPrefix: Version{80, 4, 0}},
		IOS:     {prefix: WebkitPrefix, withoutPrefix: Version{15, 4, 0}},
		Opera:   {prefix: WebkitPrefix, withoutPrefix: Version{73, 4, 0}},
		Safari:  {prefix: WebkitPrefix, withoutPrefix: Version{15, 4, 0}},
	},

	// https://caniuse.com/css-backdrop-filter
	"backdrop-filter": {
		IOS:    {prefix: WebkitPrefix},
		Safari: {prefix: WebkitPrefix},
	},

	// https://caniuse.com/background-clip-text (only for "background-clip: text")
	"background-clip": {
		Chrome: {prefix: WebkitPrefix},
		Edge:   {prefix: WebkitPrefix},
		IOS:    {prefix: WebkitPrefix, withoutPrefix: Version{14, 0, 0}},
		Opera:  {prefix: WebkitPrefix},
		Safari: {prefix: WebkitPrefix, withoutPrefix: Version{14, 0, 0}},
	},

	// https://caniuse.com/css-clip-path
	"clip-path": {
		Chrome: {prefix: WebkitPrefix, withoutPrefix: Version{55, 0, 0}},
		IOS:    {prefix: WebkitPrefix, withoutPrefix: Version{13, 0, 0}},
		Opera:  {prefix: WebkitPrefix, withoutPrefix: Version{42, 0, 0}},
		Safari: {prefix: WebkitPrefix, withoutPrefix: Version{13, 1, 0}},
	},

	// https://caniuse.com/font-kerning
	"font-kerning": {
		Chrome: {prefix: WebkitPrefix, withoutPrefix: Version{33, 0, 0}},
		IOS:    {prefix: WebkitPrefix, withoutPrefix: Version{12, 0, 0}},
		Opera:  {prefix: WebkitPrefix, withoutPrefix: Version{20, 0, 0}},
		Safari: {prefix: WebkitPrefix, withoutPrefix: Version{9, 1, 0}},
	},

	// https://caniuse.com/css-hyphens
	"hyphens": {
		Edge:    {prefix: MsPrefix, withoutPrefix: Version{79, 0, 0}},
		Firefox: {prefix: MozPrefix, withoutPrefix: Version{43, 0, 0}},
		IE:      {prefix: MsPrefix},
		IOS:     {prefix: WebkitPrefix},
		Safari:  {prefix: WebkitPrefix},
	},

	// https://caniuse.com/css-initial-letter
	"initial-letter": {
		IOS:    {prefix: WebkitPrefix},
		Safari: {prefix: WebkitPrefix},
	},

	// https://caniuse.com/mdn-css_properties_mask-image etc.
	"mask-image":    cssMaskPrefixTable,
	"mask-origin":   cssMaskPrefixTable,
	"mask-position": cssMaskPrefixTable,
	"mask-repeat":   cssMaskPrefixTable,
	"mask-size":     cssMaskPrefixTable,

	// https://caniuse.com/css-sticky
	"position": {
		IOS:    {prefix: WebkitPrefix, withoutPrefix: Version{13, 0, 0}},
		Safari: {prefix: WebkitPrefix, withoutPrefix: Version{13, 0, 0}},
	},

	// https://caniuse.com/css-color-adjust
	"print-color-adjust": {
		Chrome: {prefix: WebkitPrefix},
		Edge:   {prefix: WebkitPrefix},
		Opera:  {prefix: WebkitPrefix},
		IOS:    {prefix: WebkitPrefix, withoutPrefix: Version{15, 4, 0}},
		Safari: {prefix: WebkitPrefix, withoutPrefix: Version{15, 4, 0}},
	},

	// https://caniuse.com/css3-tabsize
	"tab-size": {
		Firefox: {prefix: MozPrefix, withoutPrefix: Version{91, 0, 0}},
		Opera:   {prefix: OPrefix, withoutPrefix: Version{15, 0, 0}},
	},

	// https://caniuse.com/css-text-orientation
	"text-orientation": {
		Safari: {prefix: WebkitPrefix, withoutPrefix: Version{14, 0, 0}},
	},

	// https://caniuse.com/text-size-adjust
	"text-size-adjust": {
		Edge: {prefix: MsPrefix, withoutPrefix: Version{79, 0, 0}},
		IOS:  {prefix: WebkitPrefix},
	},

	// https://caniuse.com/mdn-css_properties_user-select
	"user-select": {
		Chrome:  {prefix: WebkitPrefix, withoutPrefix: Version{54, 0, 0}},
		Edge:    {prefix: MsPrefix, withoutPrefix: Version{79, 0, 0}},
		Firefox: {prefix: MozPrefix, withoutPrefix: Version{69, 0, 0}},
		IOS:     {prefix: WebkitPrefix},
		Opera:   {prefix: WebkitPrefix, withoutPrefix: Version{41, 0, 0}},
		Safari:  {prefix: WebkitPrefix},
		IE:      {prefix: MsPrefix},
	},
}

// functionPrefixTable is the parallel table for Function Terms (spec.md
// §6's "parallel maps for functions"): new code, since the teacher's own
// table only covered properties, grounded on the same caniuse-sourced
// shape as propertyPrefixTable.
var functionPrefixTable = map[string]map[Engine]prefixData{
	// https://caniuse.com/css-gradients
	"linear-gradient": {
		Firefox: {prefix: MozPrefix, withoutPrefix: Version{16, 0, 0}},
		Chrome:  {prefix: WebkitPrefix, withoutPrefix: Version{26, 0, 0}},
		Safari:  {prefix: WebkitPrefix, withoutPrefix: Version{7, 0, 0}},
		Opera:   {prefix: OPrefix, withoutPrefix: Version{12, 1, 0}},
	},
	"radial-gradient": {
		Firefox: {prefix: MozPrefix, withoutPrefix: Version{16, 0, 0}},
		Chrome:  {prefix: WebkitPrefix, withoutPrefix: Version{26, 0, 0}},
		Safari:  {prefix: WebkitPrefix, withoutPrefix: Version{7, 0, 0}},
		Opera:   {prefix: OPrefix, withoutPrefix: Version{12, 1, 0}},
	},

	// https://caniuse.com/calc
	"calc": {
		Firefox: {prefix: MozPrefix, withoutPrefix: Version{16, 0, 0}},
	},
}

// atRulePrefixTable is the parallel table for at-rule names (spec.md §6's
// "parallel maps for ... at-rules").
var atRulePrefixTable = map[string]map[Engine]prefixData{
	// https://caniuse.com/css-animation
	"keyframes": {
		Firefox: {prefix: MozPrefix, withoutPrefix: Version{16, 0, 0}},
		Chrome:  {prefix: WebkitPrefix, withoutPrefix: Version{43, 0, 0}},
		Safari:  {prefix: WebkitPrefix, withoutPrefix: Version{9, 0, 0}},
		Opera:   {prefix: OPrefix, withoutPrefix: Version{30, 0, 0}},
	},

	// https://caniuse.com/css-viewport-units (the @viewport rule itself, not the units)
	"viewport": {
		Edge: {prefix: MsPrefix, withoutPrefix: Version{79, 0, 0}},
		IE:   {prefix: MsPrefix},
	},
}

// selectorPrefixTable is the parallel table for pseudo-class/element names
// (spec.md §6's "parallel maps for ... selectors"), grounded on spec.md §8
// scenarios 2 and 3's own worked example, "::selection".
var selectorPrefixTable = map[string]map[Engine]prefixData{
	// https://caniuse.com/css-selection
	"selection": {
		Firefox: {prefix: MozPrefix, withoutPrefix: Version{62, 0, 0}},
		Edge:    {prefix: MsPrefix, withoutPrefix: Version{79, 0, 0}},
		IE:      {prefix: MsPrefix},
	},

	// https://caniuse.com/fullscreen
	"fullscreen": {
		Firefox: {prefix: MozPrefix, withoutPrefix: Version{64, 0, 0}},
		Chrome:  {prefix: WebkitPrefix, withoutPrefix: Version{71, 0, 0}},
		Safari:  {prefix: WebkitPrefix},
		Edge:    {prefix: MsPrefix, withoutPrefix: Version{79, 0, 0}},
		IE:      {prefix: MsPrefix},
	},

	// https://caniuse.com/css-placeholder
	"placeholder": {
		Firefox: {prefix: MozPrefix, withoutPrefix: Version{51, 0, 0}},
		Edge:    {prefix: MsPrefix, withoutPrefix: Version{79, 0, 0}},
		IE:      {prefix: MsPrefix},
	},
}
