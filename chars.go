package xmlpush

import (
	"bytes"
	"unicode"
	"unicode/utf8"
)

func isBlankCh(c byte) bool {
	return c == 0x20 || c == 0x9 || c == 0xa || c == 0xd
}

func isChar(r rune) bool {
	switch {
	case r == 0x9 || r == 0xa || r == 0xd:
		return true
	case r >= 0x20 && r <= 0xd7ff:
		return true
	case r >= 0xe000 && r <= 0xfffd:
		return true
	case r >= 0x10000 && r <= 0x10ffff:
		return true
	}
	return false
}

func isNameStartChar(r rune) bool {
	return r == '_' || r == ':' || unicode.IsLetter(r)
}

func isNameChar(r rune) bool {
	return isNameStartChar(r) ||
		unicode.IsDigit(r) ||
		r == '.' || r == '-' ||
		r == 0xb7 ||
		unicode.Is(unicode.Mn, r) ||
		unicode.Is(unicode.Mc, r)
}

// scanName returns the XML name at the start of b and its length in
// bytes. The length is zero when b does not start with a name.
func scanName(b []byte) (string, int) {
	i := 0
	for i < len(b) {
		r, size := utf8.DecodeRune(b[i:])
		if i == 0 {
			if !isNameStartChar(r) {
				return "", 0
			}
		} else if !isNameChar(r) {
			break
		}
		i += size
	}
	return string(b[:i]), i
}

// skipBlanks drops leading white space and reports whether there was any.
func skipBlanks(b []byte) ([]byte, bool) {
	i := 0
	for i < len(b) && isBlankCh(b[i]) {
		i++
	}
	return b[i:], i > 0
}

func allBlanks(b []byte) bool {
	rest, _ := skipBlanks(b)
	return len(rest) == 0
}

// checkChars fails on the first character that may not appear in a
// document.
func checkChars(b []byte) error {
	for i := 0; i < len(b); {
		c := b[i]
		if c < utf8.RuneSelf {
			if c < 0x20 && !isBlankCh(c) {
				return ErrInvalidToken
			}
			i++
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		if !isChar(r) {
			return ErrInvalidToken
		}
		i += size
	}
	return nil
}

// normalizeNewlines turns CR LF and lone CR into LF. The input is
// returned as is when there is nothing to change.
func normalizeNewlines(b []byte) []byte {
	if bytes.IndexByte(b, '\r') < 0 {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] == '\r' {
			out = append(out, '\n')
			if i+1 < len(b) && b[i+1] == '\n' {
				i++
			}
			continue
		}
		out = append(out, b[i])
	}
	return out
}

// collapseBlanks trims and collapses runs of spaces, as required for
// attribute values whose declared type is not CDATA.
func collapseBlanks(s string) string {
	out := make([]byte, 0, len(s))
	space := false
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			space = len(out) > 0
			continue
		}
		if space {
			out = append(out, ' ')
			space = false
		}
		out = append(out, s[i])
	}
	return string(out)
}

// scanMarkupEnd returns the index of the '>' closing the markup at the
// start of b, skipping over quoted literals. It returns -1 when the
// markup is not complete yet, and -2 when a '<' appears outside a
// literal.
func scanMarkupEnd(b []byte) int {
	var quote byte
	for i := 1; i < len(b); i++ {
		c := b[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return i
		case c == '<':
			return -2
		}
	}
	return -1
}

// scanLiteral splits a quoted literal off the start of b.
func scanLiteral(b []byte) ([]byte, []byte, bool) {
	if len(b) == 0 || (b[0] != '"' && b[0] != '\'') {
		return nil, b, false
	}
	end := bytes.IndexByte(b[1:], b[0])
	if end < 0 {
		return nil, b, false
	}
	return b[1 : 1+end], b[2+end:], true
}

func hasPartialPrefix(b, pattern []byte) bool {
	return len(b) < len(pattern) && bytes.HasPrefix(pattern, b)
}

// parseCharRef decodes the part of a character reference after "&#".
func parseCharRef(ref []byte) (rune, error) {
	if len(ref) == 0 {
		return 0, ErrInvalidToken
	}
	base := 10
	if ref[0] == 'x' {
		base = 16
		ref = ref[1:]
		if len(ref) == 0 {
			return 0, ErrInvalidToken
		}
	}
	var v rune
	for _, c := range ref {
		var d rune
		switch {
		case c >= '0' && c <= '9':
			d = rune(c - '0')
		case base == 16 && c >= 'a' && c <= 'f':
			d = rune(c-'a') + 10
		case base == 16 && c >= 'A' && c <= 'F':
			d = rune(c-'A') + 10
		default:
			return 0, ErrInvalidToken
		}
		v = v*rune(base) + d
		if v > unicode.MaxRune {
			return 0, ErrBadCharRef
		}
	}
	if !isChar(v) {
		return 0, ErrBadCharRef
	}
	return v, nil
}
