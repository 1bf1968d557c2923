package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeekDoesNotAdvance(t *testing.T) {
	c := New("abc")
	assert.Equal(t, 'a', c.Peek())
	assert.Equal(t, 'a', c.Peek(), "peek must not consume")
	assert.Equal(t, 'b', c.PeekAt(1))
	assert.Equal(t, rune(eof), c.PeekAt(10))
}

func TestAdvanceTracksLineAndColumn(t *testing.T) {
	c := New("ab\ncd")
	assert.Equal(t, 1, c.Current().Line)
	assert.Equal(t, 1, c.Current().Column)

	c.Advance() // 'a'
	assert.Equal(t, 1, c.Current().Line)
	assert.Equal(t, 2, c.Current().Column)

	c.Advance() // 'b'
	c.Advance() // '\n'
	assert.Equal(t, 2, c.Current().Line, "line increments on each newline")
	assert.Equal(t, 1, c.Current().Column, "column resets to 1 on a new line")

	c.Advance() // 'c'
	assert.Equal(t, 2, c.Column())
}

func (c *Cursor) Column() int { return c.column }

func TestEofIsStickyAtEnd(t *testing.T) {
	c := New("a")
	c.Advance()
	assert.True(t, c.Eof())
	assert.Equal(t, rune(eof), c.Peek())
	assert.Equal(t, rune(eof), c.Advance(), "advancing past eof keeps returning eof")
}

func TestMatchLiteralOnlyMovesOnMatch(t *testing.T) {
	c := New("keyframes")
	assert.False(t, c.MatchLiteral("media"), "mismatched literal must not advance")
	assert.Equal(t, 1, c.Current().Column)

	assert.True(t, c.MatchLiteral("key"))
	assert.Equal(t, 4, c.Current().Column)
}

func TestOptionallyPresentDoesNotMoveOnMismatch(t *testing.T) {
	c := New("foo: bar")
	snap := c.Snapshot()
	assert.False(t, c.OptionallyPresent(";"))
	assert.Equal(t, snap, c.Snapshot())
}

func TestSnapshotRestoreExact(t *testing.T) {
	c := New("abc\ndef")
	c.Advance()
	c.Advance()
	snap := c.Snapshot()
	loc := c.Current()

	c.Advance()
	c.Advance()
	c.Advance()

	c.Restore(snap)
	assert.Equal(t, loc, c.Current())
}

func TestConsumeWhile(t *testing.T) {
	c := New("123abc")
	digits := c.ConsumeWhile(func(r rune) bool { return r >= '0' && r <= '9' })
	assert.Equal(t, "123", digits)
	assert.Equal(t, 'a', c.Peek())
}

func TestReadIdentifierAcceptsLeadingHyphenUnderscoreAndEscape(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"color", "color"},
		{"-webkit-transform", "-webkit-transform"},
		{"_private", "_private"},
		{"a1-2_3", "a1-2_3"},
	} {
		c := New(tc.in)
		got, ok := c.ReadIdentifier()
		require.True(t, ok, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestReadIdentifierRejectsBareHyphen(t *testing.T) {
	c := New("- foo")
	_, ok := c.ReadIdentifier()
	assert.False(t, ok, "a lone '-' not followed by a name character is not an identifier")
	assert.Equal(t, 1, c.Current().Column, "a failed read must not advance")
}

func TestReadIdentifierNoMatchDoesNotAdvance(t *testing.T) {
	c := New("123")
	_, ok := c.ReadIdentifier()
	assert.False(t, ok)
	assert.Equal(t, 1, c.Current().Column)
}

func TestReadStringHonorsBothQuoteStyles(t *testing.T) {
	c := New(`"hello"`)
	s, err := c.ReadString('"')
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	c2 := New(`'world'`)
	s2, err := c2.ReadString('\'')
	require.NoError(t, err)
	assert.Equal(t, "world", s2)
}

func TestReadStringEscapeIsOpaque(t *testing.T) {
	c := New(`"a\"b"`)
	s, err := c.ReadString('"')
	require.NoError(t, err)
	assert.Equal(t, `a\"b`, s, "an escaped quote does not terminate the string at the raw layer")
}

func TestReadStringUnterminatedIsUnclosedStringError(t *testing.T) {
	c := New(`"no closing quote`)
	_, err := c.ReadString('"')
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, "unclosed-string", cerr.Kind.String())
}

func TestReadNumberVariants(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"42", "42"},
		{"-3.14", "-3.14"},
		{"+1.5e10", "+1.5e10"},
		{"1.5e", "1.5"}, // trailing "e" with no digits is not an exponent
	} {
		c := New(tc.in)
		got, ok := c.ReadNumber()
		require.True(t, ok, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestReadNumberNoMatchDoesNotAdvance(t *testing.T) {
	c := New("abc")
	_, ok := c.ReadNumber()
	assert.False(t, ok)
	assert.Equal(t, 1, c.Current().Column)
}

func TestSkipCommentReturnsInnerTextAndFalseWhenNotAtComment(t *testing.T) {
	c := New("/* hi */rest")
	text, ok := c.SkipComment()
	require.True(t, ok)
	assert.Equal(t, " hi ", text)
	assert.True(t, c.MatchLiteral("rest"))

	c2 := New("not a comment")
	_, ok2 := c2.SkipComment()
	assert.False(t, ok2)
	assert.Equal(t, 1, c2.Current().Column)
}

func TestSkipWhitespaceConsumesRunOfWhitespace(t *testing.T) {
	c := New("   \t\nfoo")
	c.SkipWhitespace()
	assert.True(t, c.MatchLiteral("foo"))
}
