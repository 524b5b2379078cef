package xmlpush_test

import (
	"testing"

	"github.com/lestrrat-go/xmlpush"
	"github.com/stretchr/testify/require"
)

func TestWellFormednessErrors(t *testing.T) {
	testcases := []struct {
		name    string
		input   string
		code    xmlpush.ErrorCode
		options []xmlpush.ParserOption
	}{
		{name: "mismatched tag", input: `<doc></x>`, code: xmlpush.ErrTagMismatch},
		{name: "duplicate attribute", input: `<doc a="1" a="2"/>`, code: xmlpush.ErrDuplicateAttribute},
		{name: "second root", input: `<doc/><x/>`, code: xmlpush.ErrJunkAfterDocElement},
		{name: "text after root", input: `<doc/>text`, code: xmlpush.ErrJunkAfterDocElement},
		{name: "reference after root", input: `<doc/>&amp;`, code: xmlpush.ErrJunkAfterDocElement},
		{name: "empty input", input: ``, code: xmlpush.ErrNoElements},
		{name: "blank input", input: "  \n", code: xmlpush.ErrNoElements},
		{name: "unclosed root", input: `<doc>`, code: xmlpush.ErrNoElements},
		{name: "undefined entity", input: `<doc>&foo;</doc>`, code: xmlpush.ErrUndefinedEntity},
		{name: "undefined entity in attribute", input: `<doc a="&foo;"/>`, code: xmlpush.ErrUndefinedEntity},
		{name: "char ref to NUL", input: `<doc>&#0;</doc>`, code: xmlpush.ErrBadCharRef},
		{name: "char ref to surrogate", input: `<doc>&#xD800;</doc>`, code: xmlpush.ErrBadCharRef},
		{name: "misplaced xml PI", input: `<doc><?xml version="1.0"?></doc>`, code: xmlpush.ErrMisplacedXMLPI},
		{name: "xml PI after root", input: `<doc/><?xml version="1.0"?>`, code: xmlpush.ErrMisplacedXMLPI},
		{name: "unclosed CDATA", input: `<doc><![CDATA[abc</doc>`, code: xmlpush.ErrUnclosedCDATASection},
		{name: "unclosed comment", input: `<doc><!-- abc</doc>`, code: xmlpush.ErrUnclosedToken},
		{name: "double dash in comment", input: `<doc><!-- a -- b --></doc>`, code: xmlpush.ErrInvalidToken},
		{name: "bad version", input: `<?xml version="2.0"?><doc/>`, code: xmlpush.ErrXMLDecl},
		{name: "unclosed XML declaration", input: `<?xml version="1.0"`, code: xmlpush.ErrXMLDecl},
		{name: "control character", input: "<doc>\x01</doc>", code: xmlpush.ErrInvalidToken},
		{name: "CDATA end in text", input: `<doc>]]></doc>`, code: xmlpush.ErrInvalidToken},
		{name: "less-than in attribute", input: `<doc a="<"/>`, code: xmlpush.ErrInvalidToken},
		{name: "unclosed internal subset", input: `<!DOCTYPE doc [<!ELEMENT doc ANY>`, code: xmlpush.ErrUnclosedToken},
		{
			name:  "recursive entity",
			input: `<!DOCTYPE doc [<!ENTITY a "&b;"><!ENTITY b "&a;">]><doc>&a;</doc>`,
			code:  xmlpush.ErrRecursiveEntityRef,
		},
		{
			name:  "recursive entity in attribute",
			input: `<!DOCTYPE doc [<!ENTITY a "&a;">]><doc x="&a;"/>`,
			code:  xmlpush.ErrRecursiveEntityRef,
		},
		{
			name:  "entity opens an element",
			input: `<!DOCTYPE doc [<!ENTITY e "<a>">]><doc>&e;</a></doc>`,
			code:  xmlpush.ErrAsyncEntity,
		},
		{
			name:  "entity closes an element",
			input: `<!DOCTYPE doc [<!ENTITY e "</doc>">]><doc>&e;`,
			code:  xmlpush.ErrAsyncEntity,
		},
		{
			name:  "unparsed entity",
			input: `<!DOCTYPE doc [<!NOTATION n SYSTEM "n"><!ENTITY e SYSTEM "e.bin" NDATA n>]><doc>&e;</doc>`,
			code:  xmlpush.ErrBinaryEntityRef,
		},
		{
			name:  "external entity in attribute",
			input: `<!DOCTYPE doc [<!ENTITY e SYSTEM "e.xml">]><doc a="&e;"/>`,
			code:  xmlpush.ErrAttributeExternalEntityRef,
		},
		{
			name:  "parameter entity in internal entity value",
			input: `<!DOCTYPE doc [<!ENTITY % p "x"><!ENTITY e "%p;">]><doc/>`,
			code:  xmlpush.ErrParamEntityRef,
		},
		{
			name:  "undefined parameter entity in standalone document",
			input: `<?xml version="1.0" standalone="yes"?><!DOCTYPE doc [%p;]><doc/>`,
			code:  xmlpush.ErrUndefinedEntity,
		},
		{
			name:  "attribute without a type",
			input: `<!DOCTYPE d [<!ATTLIST d a >]><d/>`,
			code:  xmlpush.ErrSyntax,
		},
		{
			name:  "attribute without a default",
			input: `<!DOCTYPE d [<!ATTLIST d a CDATA>]><d/>`,
			code:  xmlpush.ErrSyntax,
		},
		{
			name:  "conditional section",
			input: `<!DOCTYPE doc [<![INCLUDE[<!ELEMENT doc ANY>]]>]><doc/>`,
			code:  xmlpush.ErrSyntax,
		},
		{
			name:    "unbound prefix",
			input:   `<a:doc/>`,
			code:    xmlpush.ErrUnboundPrefix,
			options: []xmlpush.ParserOption{xmlpush.WithNamespaces(" ")},
		},
		{
			name:    "unbound attribute prefix",
			input:   `<doc a:x="1"/>`,
			code:    xmlpush.ErrUnboundPrefix,
			options: []xmlpush.ParserOption{xmlpush.WithNamespaces(" ")},
		},
		{
			name:    "unknown encoding",
			input:   `<?xml version="1.0" encoding="x-no-such-thing"?><doc/>`,
			code:    xmlpush.ErrUnknownEncoding,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			for _, bytewise := range []bool{false, true} {
				p := xmlpush.NewParser(tc.options...)
				var st xmlpush.Status
				var err error
				if bytewise {
					st, err = feedBytewise(p, []byte(tc.input))
				} else {
					st, err = p.Feed([]byte(tc.input), true)
				}
				require.Equal(t, xmlpush.StatusError, st, "parse fails (bytewise = %t)", bytewise)
				require.ErrorIs(t, err, tc.code, "error code matches (bytewise = %t)", bytewise)
				require.Equal(t, tc.code, p.ErrorCode())
				require.Equal(t, xmlpush.StateFinished, p.State())
				p.Free()
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	p := xmlpush.NewParser()
	defer p.Free()

	_, err := p.Feed([]byte("<doc>\n  <x></y></doc>"), true)
	require.ErrorIs(t, err, xmlpush.ErrTagMismatch)

	var perr *xmlpush.ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, xmlpush.ErrTagMismatch, perr.Code)
	require.Equal(t, 2, perr.Line)
	require.Equal(t, 5, perr.Column)
	require.Equal(t, "mismatched tag at line 2, column 5", perr.Error())
}

func TestErrorCodeMessages(t *testing.T) {
	require.Equal(t, "no error", xmlpush.ErrNone.Error())
	require.Equal(t, "mismatched tag", xmlpush.ErrTagMismatch.String())
	require.Equal(t, "unknown error code 9999", xmlpush.ErrorCode(9999).Error())
}
