// Package cursor implements the character-level source cursor the raw
// parsers and refiner strategies read from: peek/advance/consume-while
// primitives over the document text, with (line, column) tracked
// incrementally rather than recovered from a byte-offset table after the
// fact, since the raw parsers need a live position at every step rather
// than only at token boundaries.
package cursor

import (
	"strings"
	"unicode/utf8"

	"github.com/cssdoc/cssdoc/internal/logger"
)

const eof = -1

// EOF is the rune Peek, PeekAt, and Advance all return once the document is
// exhausted, exported so callers outside the package can compare against it
// without hand-rolling eof detection of their own.
const EOF rune = eof

// Cursor walks a document's contents one code point at a time. It is not
// safe for concurrent use; one Cursor is scoped to one Process() call.
type Cursor struct {
	contents string
	offset   int // byte offset of the next unread code point
	line     int // 1-based
	column   int // 1-based
}

// New creates a cursor positioned at the start of contents.
func New(contents string) *Cursor {
	return &Cursor{contents: contents, line: 1, column: 1}
}

// Snapshot is an opaque saved position, restorable with Restore.
type Snapshot struct {
	offset int
	line   int
	column int
}

// Snapshot captures the cursor's current position.
func (c *Cursor) Snapshot() Snapshot {
	return Snapshot{offset: c.offset, line: c.line, column: c.column}
}

// Restore returns the cursor to a previously captured position exactly,
// including line and column.
func (c *Cursor) Restore(s Snapshot) {
	c.offset = s.offset
	c.line = s.line
	c.column = s.column
}

// Current reports the cursor's (line, column) anchor for the next unread
// code point, suitable for attaching to a unit or a diagnostic.
func (c *Cursor) Current() logger.Loc {
	return logger.Loc{Line: c.line, Column: c.column}
}

// SliceFrom returns the raw source text between a previously captured
// snapshot and the cursor's current position, for a caller that needs a
// verbatim fragment (a raw selector group, a raw declaration block) rather
// than a value built up one ConsumeWhile call at a time.
func (c *Cursor) SliceFrom(s Snapshot) string {
	return c.contents[s.offset:c.offset]
}

// Eof reports whether the cursor has consumed the entire document.
func (c *Cursor) Eof() bool {
	return c.offset >= len(c.contents)
}

// Peek returns the next unread code point without advancing, or eof at the
// end of the document.
func (c *Cursor) Peek() rune {
	return c.PeekAt(0)
}

// PeekAt returns the code point n positions ahead of the cursor without
// advancing. PeekAt(0) is equivalent to Peek.
func (c *Cursor) PeekAt(n int) rune {
	off := c.offset
	for ; n > 0; n-- {
		if off >= len(c.contents) {
			return eof
		}
		_, width := utf8.DecodeRuneInString(c.contents[off:])
		off += width
	}
	if off >= len(c.contents) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(c.contents[off:])
	return r
}

// Advance consumes and returns the next code point, updating line and
// column. Advancing past eof repeatedly is a no-op that keeps returning
// eof.
func (c *Cursor) Advance() rune {
	if c.offset >= len(c.contents) {
		return eof
	}
	r, width := utf8.DecodeRuneInString(c.contents[c.offset:])
	c.offset += width
	if r == '\n' {
		c.line++
		c.column = 1
	} else {
		c.column++
	}
	return r
}

// MatchLiteral advances past s and returns true if the cursor is
// immediately looking at s; otherwise it does not move.
func (c *Cursor) MatchLiteral(s string) bool {
	if !strings.HasPrefix(c.contents[c.offset:], s) {
		return false
	}
	for range s {
		c.Advance()
	}
	return true
}

// OptionallyPresent advances past tok and returns true on a match. On a
// mismatch the cursor does not move, so callers can try several
// alternatives in sequence without backtracking machinery of their own.
func (c *Cursor) OptionallyPresent(tok string) bool {
	return c.MatchLiteral(tok)
}

// ConsumeWhile advances over every code point for which pred returns true,
// stopping at the first code point that fails the predicate or at eof, and
// returns the consumed text.
func (c *Cursor) ConsumeWhile(pred func(rune) bool) string {
	start := c.offset
	for {
		r := c.Peek()
		if r == eof || !pred(r) {
			break
		}
		c.Advance()
	}
	return c.contents[start:c.offset]
}

// SkipWhitespace consumes run of space, tab, newline, CR, and form feed.
// Callers opt into this explicitly: whitespace between selector parts is
// the descendant combinator, so a parser must not skip it implicitly.
func (c *Cursor) SkipWhitespace() {
	c.ConsumeWhile(isWhitespace)
}

// SkipComment consumes one `/* ... */` comment if the cursor is positioned
// at its opening delimiter, and returns its inner text (without the
// delimiters) and true. It returns false, without moving, if the cursor is
// not at a comment.
func (c *Cursor) SkipComment() (string, bool) {
	if c.Peek() != '/' || c.PeekAt(1) != '*' {
		return "", false
	}
	snap := c.Snapshot()
	c.Advance()
	c.Advance()
	start := c.offset
	for {
		if c.Eof() {
			c.Restore(snap)
			return "", false
		}
		if c.Peek() == '*' && c.PeekAt(1) == '/' {
			text := c.contents[start:c.offset]
			c.Advance()
			c.Advance()
			return text, true
		}
		c.Advance()
	}
}

// ReadIdentifier reads a CSS identifier: a leading character from
// {a-z, A-Z, '_', '-', '\\'} followed by any run of letters, digits, '_',
// '-', or an escape. It returns ("", false) without advancing if the
// cursor is not at a valid identifier start.
func (c *Cursor) ReadIdentifier() (string, bool) {
	first := c.Peek()
	if !isNameStart(first) && first != '-' && first != '\\' {
		return "", false
	}
	start := c.offset
	c.Advance()
	if first == '-' {
		// A single '-' is a valid delimiter, not an identifier, unless
		// followed by a name-start character, another '-', or an escape.
		next := c.Peek()
		if !isNameStart(next) && next != '-' && next != '\\' {
			c.offset = start
			return "", false
		}
	}
	for {
		r := c.Peek()
		if r == '\\' {
			c.Advance()
			if !c.Eof() {
				c.Advance()
			}
			continue
		}
		if isNameContinue(r) {
			c.Advance()
			continue
		}
		break
	}
	return c.contents[start:c.offset], true
}

// ReadString reads a quoted string starting at the given quote character,
// which must be the code point currently under the cursor. Escapes are
// opaque to this layer: a backslash simply protects the following
// character from terminating the string. It returns an UnclosedString
// error at eof or an embedded unescaped newline.
func (c *Cursor) ReadString(quote rune) (string, error) {
	startLoc := c.Current()
	if c.Peek() != quote {
		return "", &Error{Loc: startLoc, Kind: logger.UnclosedString, Message: "expected a quote to begin a string"}
	}
	c.Advance()
	start := c.offset
	for {
		r := c.Peek()
		switch {
		case r == eof:
			return "", &Error{Loc: c.Current(), Kind: logger.UnclosedString, Message: "unterminated string"}
		case r == '\n' || r == '\r' || r == '\f':
			return "", &Error{Loc: c.Current(), Kind: logger.UnclosedString, Message: "unterminated string"}
		case r == '\\':
			c.Advance()
			if !c.Eof() {
				c.Advance()
			}
		case r == quote:
			text := c.contents[start:c.offset]
			c.Advance()
			return text, nil
		default:
			c.Advance()
		}
	}
}

// ReadNumber reads a CSS number: an optional sign, digits, an optional
// fractional part, and an optional exponent, returning the exact source
// text consumed. It returns ("", false) without advancing if the cursor is
// not at a valid number start.
func (c *Cursor) ReadNumber() (string, bool) {
	start := c.offset
	snap := c.Snapshot()

	if r := c.Peek(); r == '+' || r == '-' {
		c.Advance()
	}

	sawDigits := false
	for isDigit(c.Peek()) {
		c.Advance()
		sawDigits = true
	}

	if c.Peek() == '.' && isDigit(c.PeekAt(1)) {
		c.Advance()
		for isDigit(c.Peek()) {
			c.Advance()
			sawDigits = true
		}
	}

	if !sawDigits {
		c.Restore(snap)
		return "", false
	}

	if r := c.Peek(); r == 'e' || r == 'E' {
		lookahead := 1
		if n := c.PeekAt(1); n == '+' || n == '-' {
			lookahead = 2
		}
		if isDigit(c.PeekAt(lookahead)) {
			c.Advance()
			if n := c.Peek(); n == '+' || n == '-' {
				c.Advance()
			}
			for isDigit(c.Peek()) {
				c.Advance()
			}
		}
	}

	return c.contents[start:c.offset], true
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isNameStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r >= 0x80
}

func isNameContinue(r rune) bool {
	return isNameStart(r) || isDigit(r) || r == '-'
}

// Error is a positional failure raised by a cursor-level read, carrying the
// (line, column, message kind) the error handling design requires.
type Error struct {
	Loc     logger.Loc
	Kind    logger.Kind
	Message string
}

func (e *Error) Error() string {
	return e.Loc.String() + ": " + e.Message
}
