package minifier

import "strings"

// Characters that never need whitespace around them.
const structural = "{},:;^|$~>()/[]"

const whitespace = " \t\n\r\f"

func isStructural(c byte) bool {
	return strings.IndexByte(structural, c) >= 0
}

func isSpace(c byte) bool {
	return strings.IndexByte(whitespace, c) >= 0
}

// MinifyCSS strips comments and redundant whitespace from CSS source.
//
// It never fails: an unterminated comment swallows the rest of the input and
// an unterminated double quote is dropped on its own.
func MinifyCSS(source string) string {
	m := &cssMinifier{src: source}
	m.out.Grow(len(source))
	m.run()
	return m.out.String()
}

type cssMinifier struct {
	src string
	pos int
	out strings.Builder

	// space is set when whitespace was skipped since the last emitted token.
	space bool

	// tight is set when the last emitted byte was structural.
	tight bool

	// keyword is set right after an emitted "and" combinator.
	keyword bool
}

func (m *cssMinifier) peek(n int) byte {
	if m.pos+n < len(m.src) {
		return m.src[m.pos+n]
	}
	return 0
}

func (m *cssMinifier) run() {
	for m.pos < len(m.src) {
		c := m.src[m.pos]
		switch {
		case c == '/' && m.peek(1) == '*':
			m.pos = m.skipComment(m.pos)
		case isSpace(c):
			m.pos++
			if m.out.Len() > 0 && !m.tight {
				m.space = true
			}
		case c == '"':
			m.quoted()
		case c == ';' && m.redundantSemicolon():
			m.pos++
		case c == '.' && m.peek(1) == '/' && m.peek(2) != '*' && (m.pos == 0 || m.src[m.pos-1] != '.'):
			m.pos += 2
		case c == 'a' && m.combinator():
			if m.out.Len() > 0 {
				m.out.WriteByte(' ')
			}
			m.out.WriteString("and")
			m.pos += 3
			m.space, m.tight, m.keyword = false, false, true
		default:
			m.emit(m.src[m.pos : m.pos+1])
			m.pos++
		}
	}
}

// emit appends s, first writing a single space if one is still owed.
func (m *cssMinifier) emit(s string) {
	if m.keyword || (m.space && !isStructural(s[0])) {
		m.out.WriteByte(' ')
	}
	m.out.WriteString(s)
	m.space, m.keyword = false, false
	m.tight = isStructural(s[len(s)-1])
}

// skipComment returns the index just past the comment starting at i, or the
// end of input if the comment is never closed.
func (m *cssMinifier) skipComment(i int) int {
	end := strings.Index(m.src[i+2:], "*/")
	if end < 0 {
		return len(m.src)
	}
	return i + 2 + end + 2
}

func (m *cssMinifier) quoted() {
	end := strings.IndexByte(m.src[m.pos+1:], '"')
	if end < 0 {
		m.pos++
		return
	}
	body := m.src[m.pos+1 : m.pos+1+end]
	switch {
	case strings.ContainsAny(body, whitespace):
		m.emit(m.src[m.pos : m.pos+end+2])
	case body != "":
		// unquoted content is subject to relative path shortening
		if short := shortenPaths(body); short != "" {
			m.emit(short)
		}
	}
	m.pos += end + 2
}

// shortenPaths drops every "./" in s that does not follow another dot.
func shortenPaths(s string) string {
	if !strings.Contains(s, "./") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '.' && i+1 < len(s) && s[i+1] == '/' && (i == 0 || s[i-1] != '.') {
			i++
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// redundantSemicolon reports whether the semicolon at the cursor is followed
// only by whitespace and comments before a closing brace or the end of input.
func (m *cssMinifier) redundantSemicolon() bool {
	i := m.pos + 1
	for i < len(m.src) {
		switch c := m.src[i]; {
		case isSpace(c):
			i++
		case c == '/' && i+1 < len(m.src) && m.src[i+1] == '*':
			i = m.skipComment(i)
		default:
			return c == '}'
		}
	}
	return true
}

// combinator reports whether the cursor sits on a media query "and" that
// starts the input or follows whitespace or ")", and is followed by
// whitespace or "(".
func (m *cssMinifier) combinator() bool {
	if !strings.HasPrefix(m.src[m.pos:], "and") {
		return false
	}
	if m.pos > 0 {
		if prev := m.src[m.pos-1]; !isSpace(prev) && prev != ')' {
			return false
		}
	}
	next := m.peek(3)
	return isSpace(next) || next == '('
}
