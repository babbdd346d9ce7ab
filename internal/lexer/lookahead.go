package lexer

import "bytes"

// lookaheadColon implements the label look-ahead helper: after emitting a
// LIT, peek past whitespace and comments — without advancing curr — to see
// whether the next non-trivia byte is ':'. While inside a template literal
// it short-circuits, since the next real content belongs to the resumed
// string rather than an expression.
func (s *Scanner) lookaheadColon() bool {
	if s.resumeTemplate {
		return false
	}

	p := s.curr

	for {
		for p < len(s.buf) && isSpace(s.buf[p]) {
			p++
		}

		if p >= len(s.buf) {
			return false
		}

		c := s.buf[p]
		if c != '/' {
			return c == ':'
		}

		switch s.byteAt(p + 1) {
		case '/':
			idx := bytes.IndexByte(s.buf[p+2:], '\n')
			if idx < 0 {
				return false
			}

			p += 2 + idx
		case '*':
			idx := bytes.Index(s.buf[p+2:], []byte("*/"))
			if idx < 0 {
				return false
			}

			p += 2 + idx + 2
		default:
			return false
		}
	}
}
