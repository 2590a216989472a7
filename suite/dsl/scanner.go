package dsl

import (
	"strings"
	"unicode"

	"github.com/BaSui01/suitekit/types"
)

type tokenKind int

const (
	tokEOF    tokenKind = iota
	tokWord             // keyword, identifier, number, bare value or path
	tokString           // quoted value, quotes stripped
)

type token struct {
	kind tokenKind
	text string
	pos  Pos
}

func (t token) is(keyword string) bool {
	return t.kind == tokWord && t.text == keyword
}

func (t token) describe() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return `"` + t.text + `"`
}

// scanner splits definition text into tokens. Whitespace, including
// newlines, separates tokens; `#` starts a comment running to end of line.
type scanner struct {
	src    []rune
	off    int
	line   int
	col    int
	peeked *token
}

func newScanner(src string) *scanner {
	return &scanner{src: []rune(src), line: 1, col: 1}
}

func (s *scanner) pos() Pos {
	return Pos{Line: s.line, Column: s.col}
}

func (s *scanner) advance() rune {
	r := s.src[s.off]
	s.off++
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return r
}

func (s *scanner) skipSpace() {
	for s.off < len(s.src) {
		r := s.src[s.off]
		switch {
		case unicode.IsSpace(r):
			s.advance()
		case r == '#':
			for s.off < len(s.src) && s.src[s.off] != '\n' {
				s.advance()
			}
		default:
			return
		}
	}
}

func (s *scanner) scan() (token, error) {
	s.skipSpace()
	pos := s.pos()
	if s.off >= len(s.src) {
		return token{kind: tokEOF, pos: pos}, nil
	}

	r := s.src[s.off]
	switch {
	case r == '"' || r == '\'':
		return s.readQuoted(pos)
	case isWordPart(r):
		start := s.off
		for s.off < len(s.src) && isWordPart(s.src[s.off]) {
			s.advance()
		}
		return token{kind: tokWord, text: string(s.src[start:s.off]), pos: pos}, nil
	}
	return token{}, types.NewParseError(pos.Line, pos.Column, "unexpected character %q", string(r))
}

// readQuoted reads a single- or double-quoted value on one line and
// collapses internal whitespace runs to single spaces.
func (s *scanner) readQuoted(pos Pos) (token, error) {
	quote := s.advance()
	start := s.off
	for s.off < len(s.src) {
		switch s.src[s.off] {
		case quote:
			raw := string(s.src[start:s.off])
			s.advance()
			return token{kind: tokString, text: strings.Join(strings.Fields(raw), " "), pos: pos}, nil
		case '\n':
			return token{}, types.NewParseError(pos.Line, pos.Column, "quoted string spans a line break")
		}
		s.advance()
	}
	return token{}, types.NewParseError(pos.Line, pos.Column, "unterminated quoted string")
}

func (s *scanner) next() (token, error) {
	if s.peeked != nil {
		t := *s.peeked
		s.peeked = nil
		return t, nil
	}
	return s.scan()
}

func (s *scanner) peek() (token, error) {
	if s.peeked == nil {
		t, err := s.scan()
		if err != nil {
			return token{}, err
		}
		s.peeked = &t
	}
	return *s.peeked, nil
}

// restOfLine returns the remainder of the current line with surrounding
// blanks and any trailing comment removed, plus the position of its first
// character. It must not be called with a peeked token pending.
func (s *scanner) restOfLine() (string, Pos) {
	for s.off < len(s.src) && (s.src[s.off] == ' ' || s.src[s.off] == '\t' || s.src[s.off] == '\r') {
		s.advance()
	}
	pos := s.pos()
	start := s.off
	for s.off < len(s.src) && s.src[s.off] != '\n' {
		s.advance()
	}
	text := string(s.src[start:s.off])
	if i := strings.IndexRune(text, '#'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimRight(text, " \t\r"), pos
}

func isWordPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("_.-/:", r)
}

// IsIdentifier reports whether s is a letter followed by letters, digits
// or underscores.
func IsIdentifier(s string) bool {
	for i, r := range s {
		if i == 0 && !unicode.IsLetter(r) {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return s != ""
}

// IsBareValue reports whether s can be written without quotes.
func IsBareValue(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune("_.-", r) {
			return false
		}
	}
	return s != ""
}

func isNodePath(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune("_./", r) {
			return false
		}
	}
	return s != ""
}

func isUnsigned(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
