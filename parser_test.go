package xmlpush

import (
	"testing"

	"github.com/lestrrat-go/xmlpush/sax"
	"github.com/stretchr/testify/require"
)

func TestDetectEncoding(t *testing.T) {
	data := map[string][][]byte{
		encUTF8:    {{0xEF, 0xBB, 0xBF, 0x3C}},
		encUTF16LE: {{0x3C, 0x00, 0x3F, 0x00}, {0xFF, 0xFE}},
		encUTF16BE: {{0x00, 0x3C, 0x00, 0x3F}, {0xFE, 0xFF}},
		encNone:    {{0x3C, 0x3F, 0x78, 0x6D}, {0xde, 0xad, 0xbe, 0xef}, {}},
	}

	for expected, inputs := range data {
		for _, input := range inputs {
			require.Equal(t, expected, detectEncoding(input), "detectEncoding(%#v)", input)
		}
	}
}

func TestParseXMLDecl(t *testing.T) {
	inputs := map[string]xmlDecl{
		` version="1.0"`:                                     {"1.0", "", sax.StandaloneUnspecified},
		` version="1.0" encoding="euc-jp"`:                   {"1.0", "euc-jp", sax.StandaloneUnspecified},
		` version="1.0" encoding="cp932" standalone='yes'`:   {"1.0", "cp932", sax.StandaloneYes},
		"\tversion = '1.1'\nstandalone=\"no\" ":              {"1.1", "", sax.StandaloneNo},
		` version="1.0" encoding="x-user-defined_2.0" `:      {"1.0", "x-user-defined_2.0", sax.StandaloneUnspecified},
	}

	p := NewParser()
	for input, expected := range inputs {
		decl, err := p.parseXMLDecl([]byte(input))
		require.NoError(t, err, "parseXMLDecl(%q) succeeds", input)
		require.Equal(t, expected, *decl, "parseXMLDecl(%q)", input)
	}

	bad := []string{
		``,
		` encoding="utf-8"`,
		` version="2.0"`,
		` version="1."`,
		` version="1.0"encoding="utf-8"`,
		` encoding="utf-8" version="1.0"`,
		` version="1.0" standalone="maybe"`,
		` version="1.0" standalone="yes" encoding="utf-8"`,
		` version="1.0" encoding="-utf8"`,
		` version="1.0" foo="bar"`,
		` version=1.0`,
	}
	for _, input := range bad {
		_, err := p.parseXMLDecl([]byte(input))
		require.ErrorIs(t, err, ErrXMLDecl, "parseXMLDecl(%q) fails", input)
	}
}

func TestParseTextDecl(t *testing.T) {
	p := NewParser()
	child, err := p.NewEntityParser(nil, "")
	require.NoError(t, err, "NewEntityParser succeeds")
	defer child.Free()

	decl, err := child.parseXMLDecl([]byte(` encoding="utf-8"`))
	require.NoError(t, err, "version is optional in a text declaration")
	require.Equal(t, "utf-8", decl.encoding)

	for _, input := range []string{` version="1.0"`, ` encoding="utf-8" standalone="yes"`} {
		_, err := child.parseXMLDecl([]byte(input))
		require.ErrorIs(t, err, ErrTextDecl, "parseXMLDecl(%q) fails", input)
	}
}

func TestScanName(t *testing.T) {
	inputs := map[string]struct {
		name string
		n    int
	}{
		"doc>":      {"doc", 3},
		"a:b c":     {"a:b", 3},
		"_x.y-z1/":  {"_x.y-z1", 7},
		"日本語 ":      {"日本語", 9},
		"1abc":      {"", 0},
		"-x":        {"", 0},
		"":          {"", 0},
	}
	for input, expected := range inputs {
		name, n := scanName([]byte(input))
		require.Equal(t, expected.name, name, "scanName(%q)", input)
		require.Equal(t, expected.n, n, "scanName(%q)", input)
	}
}

func TestParseCharRef(t *testing.T) {
	good := map[string]rune{
		"65":     'A',
		"x41":    'A',
		"x3042":  'あ',
		"10":     '\n',
		"x10FFFF": 0x10FFFF,
	}
	for input, expected := range good {
		r, err := parseCharRef([]byte(input))
		require.NoError(t, err, "parseCharRef(%q) succeeds", input)
		require.Equal(t, expected, r, "parseCharRef(%q)", input)
	}

	bad := map[string]ErrorCode{
		"":          ErrInvalidToken,
		"x":         ErrInvalidToken,
		"12a":       ErrInvalidToken,
		"X41":       ErrInvalidToken,
		"0":         ErrBadCharRef,
		"xD800":     ErrBadCharRef,
		"x110000":   ErrBadCharRef,
		"999999999": ErrBadCharRef,
	}
	for input, code := range bad {
		_, err := parseCharRef([]byte(input))
		require.ErrorIs(t, err, code, "parseCharRef(%q) fails", input)
	}
}

func TestNormalizeNewlines(t *testing.T) {
	inputs := map[string]string{
		"a\r\nb":   "a\nb",
		"a\rb":     "a\nb",
		"a\r\r\nb": "a\n\nb",
		"a\nb":     "a\nb",
		"\r":       "\n",
	}
	for input, expected := range inputs {
		require.Equal(t, expected, string(normalizeNewlines([]byte(input))), "normalizeNewlines(%q)", input)
	}
}

func TestCollapseBlanks(t *testing.T) {
	inputs := map[string]string{
		"  a   b  ": "a b",
		"a":         "a",
		"   ":       "",
		"a b":       "a b",
	}
	for input, expected := range inputs {
		require.Equal(t, expected, collapseBlanks(input), "collapseBlanks(%q)", input)
	}
}

func TestScanMarkupEnd(t *testing.T) {
	inputs := map[string]int{
		`<a>`:          2,
		`<a b=">">`:    8,
		`<a b='"'>x`:   8,
		`<a b="`:       -1,
		`<a <b>`:       -2,
		`<a b="<"/>`:   9,
	}
	for input, expected := range inputs {
		require.Equal(t, expected, scanMarkupEnd([]byte(input)), "scanMarkupEnd(%q)", input)
	}
}

func TestAdvancePos(t *testing.T) {
	p := NewParser()
	p.advancePos([]byte("ab\ncd\r\nあ\re"))
	require.Equal(t, 4, p.line)
	require.Equal(t, 1, p.col)
}
