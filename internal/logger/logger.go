// Package logger carries positional diagnostics out of the parser and
// plugin pipeline in the manner of clang: every message names the exact
// (line, column) it concerns and, where available, the source line text.
package logger

import (
	"fmt"
	"os"
	"strings"
)

// Kind enumerates the abstract error kinds from the error handling design.
// Values are not meant to be stable across versions; match on the Kind
// itself, never on String().
type Kind uint8

const (
	MissingPseudoName Kind = iota
	UnparsableSelector
	MissingColon
	MissingValue
	UnclosedBlock
	UnclosedString
	UnclosedParen
	InvalidHexColor
	InvalidNumber
	UnknownAtRule // advisory: never aborts a run, even under PolicyThrow
	MalformedDeclaration
)

func (k Kind) String() string {
	switch k {
	case MissingPseudoName:
		return "missing-pseudo-name"
	case UnparsableSelector:
		return "unparsable-selector"
	case MissingColon:
		return "missing-colon"
	case MissingValue:
		return "missing-value"
	case UnclosedBlock:
		return "unclosed-block"
	case UnclosedString:
		return "unclosed-string"
	case UnclosedParen:
		return "unclosed-paren"
	case InvalidHexColor:
		return "invalid-hex-color"
	case InvalidNumber:
		return "invalid-number"
	case UnknownAtRule:
		return "unknown-at-rule"
	case MalformedDeclaration:
		return "malformed-declaration"
	default:
		return "unknown"
	}
}

// Advisory reports whether this kind of message is informational rather
// than a parse failure. Unclaimed at-rules are not errors (spec §7).
func (k Kind) Advisory() bool {
	return k == UnknownAtRule
}

// Loc is a 1-based (line, column) anchor, or {-1, -1} for synthesized units
// that never existed in source text.
type Loc struct {
	Line   int
	Column int
}

func (l Loc) IsSynthetic() bool {
	return l.Line < 1 || l.Column < 1
}

func (l Loc) String() string {
	if l.IsSynthetic() {
		return "(synthetic)"
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

var SyntheticLoc = Loc{Line: -1, Column: -1}

type Msg struct {
	Kind     Kind
	Loc      Loc
	Text     string
	LineText string
}

func (m Msg) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: %s", m.Loc, m.Kind, m.Text)
	if m.LineText != "" {
		fmt.Fprintf(&b, "\n    %s", m.LineText)
	}
	return b.String()
}

// Policy controls how a Log reacts to a non-advisory message.
type Policy uint8

const (
	// PolicyThrow aborts processing at the first non-advisory message: the
	// caller that owns the Log should stop as soon as Add returns an error.
	PolicyThrow Policy = iota
	// PolicyCollect accumulates every message and lets processing continue
	// to the end, returning the stylesheet plus the ordered message list.
	PolicyCollect
)

// Log is the "configurable error manager" from the error handling design.
// It is not safe for concurrent use; each Process() call owns one Log.
type Log struct {
	policy Policy
	msgs   []Msg
}

func NewLog(policy Policy) *Log {
	return &Log{policy: policy}
}

// Add records a message. For PolicyThrow, a non-advisory message is
// returned as an error so the caller can unwind immediately; the message is
// still recorded in Msgs() either way.
func (l *Log) Add(kind Kind, loc Loc, text string, lineText string) error {
	msg := Msg{Kind: kind, Loc: loc, Text: text, LineText: lineText}
	l.msgs = append(l.msgs, msg)
	if l.policy == PolicyThrow && !kind.Advisory() {
		return msg
	}
	return nil
}

func (l *Log) Msgs() []Msg {
	return l.msgs
}

func (l *Log) HasErrors() bool {
	for _, m := range l.msgs {
		if !m.Kind.Advisory() {
			return true
		}
	}
	return false
}

// TerminalInfo reports what a file descriptor supports, used by the CLI to
// decide whether to colorize diagnostic output. Populated per-OS by
// GetTerminalInfo in logger_darwin.go / logger_windows.go / logger_other.go.
type TerminalInfo struct {
	IsTTY           bool
	UseColorEscapes bool
	Width           int
	Height          int
}

func hasNoColorEnvironmentVariable() bool {
	for _, key := range os.Environ() {
		if strings.HasPrefix(key, "NO_COLOR=") {
			return true
		}
	}
	return false
}

// Colors holds the ANSI escape sequences used to format CLI diagnostics.
// All fields are empty strings when color output is disabled.
type Colors struct {
	Reset, Bold, Dim, Red, Yellow, Underline string
}

func (t TerminalInfo) Colors() Colors {
	if !t.UseColorEscapes {
		return Colors{}
	}
	return Colors{
		Reset:     "\033[0m",
		Bold:      "\033[1m",
		Dim:       "\033[37m",
		Red:       "\033[31m",
		Yellow:    "\033[33m",
		Underline: "\033[4m",
	}
}

// PrintMsg writes a formatted message to file, colorized if file supports it.
func PrintMsg(file *os.File, m Msg) {
	info := GetTerminalInfo(file)
	writeStringWithColor(file, Format(m, info.Colors())+"\n")
}

// Format renders a message the way a terminal diagnostic is usually shown:
// "line:col: kind: text", dimmed source line beneath when available.
func Format(m Msg, colors Colors) string {
	var b strings.Builder
	color := colors.Red
	if m.Kind.Advisory() {
		color = colors.Yellow
	}
	fmt.Fprintf(&b, "%s%s%s: %s%s%s: %s", colors.Bold, m.Loc, colors.Reset, color, m.Kind, colors.Reset, m.Text)
	if m.LineText != "" {
		fmt.Fprintf(&b, "\n%s    %s%s", colors.Dim, m.LineText, colors.Reset)
	}
	return b.String()
}
