// Package rawparser implements the raw parsers: the stylesheet, rule,
// selector-group, declaration-block, and at-rule parsers that turn source
// text into an uninterpreted cssast tree of Raw Fragments, deferring
// grammar validation to internal/refine's refine() on demand.
package rawparser

import (
	"errors"
	"strings"

	"github.com/cssdoc/cssdoc/internal/bus"
	"github.com/cssdoc/cssdoc/internal/cssast"
	"github.com/cssdoc/cssdoc/internal/cursor"
	"github.com/cssdoc/cssdoc/internal/logger"
)

// errStopParsing signals a structural failure (an unclosed block or an
// unbalanced quote) that makes the remainder of the document unreliable to
// keep scanning. Under PolicyThrow this surfaces to the caller as a Go
// error; under PolicyCollect the message is recorded in the log and
// parsing stops early, returning whatever was already built, since there
// is no sound way to resynchronize a brace- or quote-depth scanner after
// losing track of where it is.
var errStopParsing = errors.New("rawparser: unrecoverable structural error")

// Parser holds the state of one stylesheet parse.
type Parser struct {
	cur *cursor.Cursor
	log *logger.Log
	b   *bus.Bus
}

// New creates a parser over contents. b is the bus the resulting
// Stylesheet and its descendants are wired to for late-append
// notification; the caller is responsible for broadcasting the returned
// tree (directly or via bus.PropagateBroadcast) once parsing succeeds.
func New(contents string, log *logger.Log, b *bus.Bus) *Parser {
	return &Parser{cur: cursor.New(contents), log: log, b: b}
}

// ParseStylesheet repeatedly skips whitespace and comments, then dispatches
// to the at-rule parser (on '@') or the rule parser (otherwise), until the
// document is exhausted. The returned error is non-nil only when the log's
// policy is PolicyThrow and a non-advisory diagnostic (a structural
// failure, or e.g. a declaration missing its colon) was raised; under
// PolicyCollect, a structural failure still stops parsing but is reported
// only through the log's messages, with whatever was parsed so far
// returned alongside it.
func (p *Parser) ParseStylesheet() (*cssast.Stylesheet, error) {
	ss := cssast.NewStylesheet(p.b)

	for {
		comments := p.skipWhitespaceAndComments()
		if p.cur.Eof() {
			for _, c := range comments {
				ss.AddOrphanedComment(c)
			}
			return ss, nil
		}

		var stmt cssast.Statement
		var err error
		if p.cur.Peek() == '@' {
			stmt, err = p.parseAtRule()
		} else {
			stmt, err = p.parseRule()
		}
		if err != nil {
			if errors.Is(err, errStopParsing) {
				return ss, nil
			}
			return ss, err
		}

		for _, c := range comments {
			stmt.(commentable).AddComment(c)
		}
		ss.AddStatement(stmt)
	}
}

// commentable is satisfied by every cssast unit through the embedded base's
// promoted AddComment, used here to attach leading comments to a Statement
// without the Statement interface itself needing to expose it.
type commentable interface {
	AddComment(string)
}

// fail records a diagnostic and returns the sentinel or propagated error
// appropriate to the log's policy, for the handful of failures (unclosed
// block, unclosed string) that leave the cursor's position meaningless for
// further scanning.
func (p *Parser) fail(kind logger.Kind, loc logger.Loc, text string) error {
	if err := p.log.Add(kind, loc, text, ""); err != nil {
		return err
	}
	return errStopParsing
}

// skipWhitespaceAndComments advances past any run of whitespace and
// comments, returning the comments encountered in source order so the
// caller can attach them to whatever unit follows (or orphan them if
// nothing does).
func (p *Parser) skipWhitespaceAndComments() []string {
	var comments []string
	for {
		p.cur.SkipWhitespace()
		text, ok := p.cur.SkipComment()
		if !ok {
			return comments
		}
		comments = append(comments, text)
	}
}

// advanceOverString consumes a quoted string starting at the cursor's
// current position (which must be the opening quote), tolerating backslash
// escapes, and fails with UnclosedString on an embedded raw newline or eof.
// Unlike cursor.ReadString, the quotes are left in the consumed range
// rather than stripped, since raw-layer scanners only need to skip past
// the string without misreading a quoted brace or colon as structural.
func (p *Parser) advanceOverString(quote rune) error {
	loc := p.cur.Current()
	p.cur.Advance()
	for {
		switch p.cur.Peek() {
		case cursor.EOF:
			return p.fail(logger.UnclosedString, loc, "unterminated string")
		case '\n', '\r', '\f':
			return p.fail(logger.UnclosedString, loc, "unterminated string")
		case '\\':
			p.cur.Advance()
			if !p.cur.Eof() {
				p.cur.Advance()
			}
		case quote:
			p.cur.Advance()
			return nil
		default:
			p.cur.Advance()
		}
	}
}

// extractLeadingComments strips any run of leading whitespace/`/* ... */`
// comments from raw, returning them in source order along with the
// remaining text. An unterminated trailing comment (no closing "*/") is
// itself returned as the final comment, with rest empty.
func extractLeadingComments(raw string) (comments []string, rest string) {
	for {
		trimmed := strings.TrimLeft(raw, " \t\n\r\f")
		if !strings.HasPrefix(trimmed, "/*") {
			return comments, trimmed
		}
		body := trimmed[2:]
		idx := strings.Index(body, "*/")
		if idx < 0 {
			comments = append(comments, body)
			return comments, ""
		}
		comments = append(comments, body[:idx])
		raw = body[idx+2:]
	}
}
