package xmlpush

import (
	"bytes"
	"unicode/utf8"

	"github.com/lestrrat-go/xmlpush/sax"
)

var (
	patEntityDecl   = []byte("<!ENTITY")
	patAttlistDecl  = []byte("<!ATTLIST")
	patElementDecl  = []byte("<!ELEMENT")
	patNotationDecl = []byte("<!NOTATION")
)

// stepDecl consumes one token of a DTD: the internal subset of the
// document, or the declarations of an external subset or parameter
// entity.
func (p *Parser) stepDecl(in *input, b []byte, complete bool) error {
	switch c := b[0]; {
	case isBlankCh(c):
		rest, _ := skipBlanks(b)
		if len(rest) == 0 && !complete {
			return errNeedMore
		}
		p.consume(in, len(b)-len(rest))
		return p.defaultMarkup()
	case c == ']':
		if p.instate != psInternalSubset || in.entity != nil {
			return ErrSyntax
		}
		rest, _ := skipBlanks(b[1:])
		if len(rest) == 0 {
			return needMore(complete, ErrUnclosedToken)
		}
		if rest[0] != '>' {
			return ErrSyntax
		}
		p.consume(in, len(b)-len(rest)+1)
		if err := p.defaultMarkup(); err != nil {
			return err
		}
		return p.endDoctype()
	case c == '%':
		return p.parsePEReference(in, b, complete)
	case c != '<':
		return ErrSyntax
	}

	if len(b) < 2 {
		return needMore(complete, ErrUnclosedToken)
	}
	if b[1] == '?' {
		return p.parsePI(in, b, complete)
	}
	if bytes.HasPrefix(b, patCommentStart) {
		return p.parseComment(in, b, complete)
	}

	var parse func(*input, []byte) error
	switch {
	case hasKeyword(b, patEntityDecl):
		parse = p.parseEntityDecl
	case hasKeyword(b, patAttlistDecl):
		parse = p.parseAttlistDecl
	case hasKeyword(b, patElementDecl):
		parse = p.parseElementDecl
	case hasKeyword(b, patNotationDecl):
		parse = p.parseNotationDecl
	default:
		if !complete {
			for _, pat := range [][]byte{patCommentStart, patEntityDecl, patAttlistDecl, patElementDecl, patNotationDecl} {
				if len(b) <= len(pat) && bytes.HasPrefix(pat, b) {
					return errNeedMore
				}
			}
		}
		return ErrSyntax
	}

	end := scanMarkupEnd(b)
	switch end {
	case -1:
		return needMore(complete, ErrUnclosedToken)
	case -2:
		return ErrSyntax
	}
	return parse(in, b[:end+1])
}

// hasKeyword matches a declaration keyword that is followed by at least
// one more byte, so that "<!ELEMENT" is not mistaken for a prefix of a
// longer keyword.
func hasKeyword(b, kw []byte) bool {
	return len(b) > len(kw) && bytes.HasPrefix(b, kw) && isBlankCh(b[len(kw)])
}

// declBody strips the keyword and closing '>' off a declaration, and
// requires white space after the keyword.
func declBody(tok, kw []byte) ([]byte, error) {
	rest, space := skipBlanks(tok[len(kw) : len(tok)-1])
	if !space {
		return nil, ErrSyntax
	}
	return rest, nil
}

func (p *Parser) parseEntityDecl(in *input, tok []byte) error {
	rest, err := declBody(tok, patEntityDecl)
	if err != nil {
		return err
	}
	param := false
	if len(rest) > 0 && rest[0] == '%' {
		param = true
		var space bool
		if rest, space = skipBlanks(rest[1:]); !space {
			return ErrSyntax
		}
	}
	name, n := scanName(rest)
	if n == 0 {
		return ErrSyntax
	}
	rest, space := skipBlanks(rest[n:])
	if !space {
		return ErrSyntax
	}

	e := &entity{name: name, param: param}
	if lit, after, ok := scanLiteral(rest); ok {
		value, err := p.entityValue(lit)
		if err != nil {
			return err
		}
		e.internal = true
		e.value = value
		rest = after
	} else {
		e.base = p.base
		e.systemID, e.publicID, rest, err = parseExternalID(rest, false)
		if err != nil {
			return err
		}
		var space bool
		rest, space = skipBlanks(rest)
		if bytes.HasPrefix(rest, []byte("NDATA")) {
			if param || !space {
				return ErrSyntax
			}
			if rest, space = skipBlanks(rest[len("NDATA"):]); !space {
				return ErrSyntax
			}
			notation, n := scanName(rest)
			if n == 0 {
				return ErrSyntax
			}
			e.notation = notation
			rest = rest[n:]
		}
	}
	if rest, _ = skipBlanks(rest); len(rest) != 0 {
		return ErrSyntax
	}

	p.consume(in, len(tok))
	if !p.dtd.declareEntity(e) {
		return p.defaultMarkup()
	}
	return p.entityDecl(e)
}

// entityValue computes the replacement text of an internal entity.
// Character references are expanded, general entity references are kept
// for later, and parameter entity references are expanded outside the
// internal subset.
func (p *Parser) entityValue(lit []byte) ([]byte, error) {
	var out []byte
	for i := 0; i < len(lit); {
		switch c := lit[i]; c {
		case '%':
			if p.kind == docEntity {
				return nil, ErrParamEntityRef
			}
			end := bytes.IndexByte(lit[i:], ';')
			if end < 0 {
				return nil, ErrSyntax
			}
			name, n := scanName(lit[i+1 : i+end])
			if n == 0 || n != end-1 {
				return nil, ErrSyntax
			}
			i += end + 1
			p.dtd.hasParamEntityRefs = true
			e := p.dtd.lookupEntity(name, true)
			switch {
			case e == nil:
				return nil, ErrUndefinedEntity
			case !e.internal:
				return nil, ErrParamEntityRef
			}
			if _, open := p.open.Lookup(entityKey(name, true)); open {
				return nil, ErrRecursiveEntityRef
			}
			out = append(out, e.value...)
		case '&':
			end := bytes.IndexByte(lit[i:], ';')
			if end < 0 {
				return nil, ErrInvalidToken
			}
			ref := lit[i+1 : i+end]
			if len(ref) > 0 && ref[0] == '#' {
				r, err := parseCharRef(ref[1:])
				if err != nil {
					return nil, err
				}
				out = utf8.AppendRune(out, r)
			} else {
				if _, n := scanName(ref); n == 0 || n != len(ref) {
					return nil, ErrInvalidToken
				}
				out = append(out, lit[i:i+end+1]...)
			}
			i += end + 1
		case '\r':
			out = append(out, '\n')
			i++
			if i < len(lit) && lit[i] == '\n' {
				i++
			}
		default:
			r, size := utf8.DecodeRune(lit[i:])
			if !isChar(r) {
				return nil, ErrInvalidToken
			}
			out = append(out, lit[i:i+size]...)
			i += size
		}
	}
	return out, nil
}

var attributeTypes = map[string]struct{}{
	"CDATA":    {},
	"ID":       {},
	"IDREF":    {},
	"IDREFS":   {},
	"ENTITY":   {},
	"ENTITIES": {},
	"NMTOKEN":  {},
	"NMTOKENS": {},
}

func (p *Parser) parseAttlistDecl(in *input, tok []byte) error {
	rest, err := declBody(tok, patAttlistDecl)
	if err != nil {
		return err
	}
	elem, n := scanName(rest)
	if n == 0 {
		return ErrSyntax
	}
	rest = rest[n:]

	var decls []sax.AttlistDecl
	for {
		var space bool
		rest, space = skipBlanks(rest)
		if len(rest) == 0 {
			break
		}
		if !space {
			return ErrSyntax
		}
		decl := sax.AttlistDecl{ElementName: elem}
		name, n := scanName(rest)
		if n == 0 {
			return ErrSyntax
		}
		decl.AttrName = name
		if rest, space = skipBlanks(rest[n:]); !space {
			return ErrSyntax
		}
		if decl.AttrType, rest, err = parseAttributeType(rest); err != nil {
			return err
		}
		if rest, space = skipBlanks(rest); !space {
			return ErrSyntax
		}

		switch {
		case bytes.HasPrefix(rest, []byte("#REQUIRED")):
			decl.IsRequired = true
			rest = rest[len("#REQUIRED"):]
		case bytes.HasPrefix(rest, []byte("#IMPLIED")):
			rest = rest[len("#IMPLIED"):]
		default:
			if bytes.HasPrefix(rest, []byte("#FIXED")) {
				decl.IsRequired = true
				if rest, space = skipBlanks(rest[len("#FIXED"):]); !space {
					return ErrSyntax
				}
			}
			lit, after, ok := scanLiteral(rest)
			if !ok {
				return ErrSyntax
			}
			value, err := p.normalizeAttrValue(lit, decl.AttrType != "CDATA")
			if err != nil {
				return err
			}
			decl.DefaultValue = &value
			rest = after
		}
		decls = append(decls, decl)
	}

	p.consume(in, len(tok))
	if len(decls) == 0 {
		return p.defaultMarkup()
	}
	for _, decl := range decls {
		p.dtd.declareAttribute(decl)
		if err := p.attlistDecl(decl); err != nil {
			return err
		}
	}
	return nil
}

// parseAttributeType reads a type keyword or an enumeration. Enumerations
// are reported without white space, e.g. "(a|b)" or "NOTATION(x|y)".
func parseAttributeType(b []byte) (string, []byte, error) {
	if len(b) == 0 {
		return "", nil, ErrSyntax
	}
	prefix := ""
	if b[0] != '(' {
		name, n := scanName(b)
		if n == 0 {
			return "", nil, ErrSyntax
		}
		if _, ok := attributeTypes[name]; ok {
			return name, b[n:], nil
		}
		if name != "NOTATION" {
			return "", nil, ErrSyntax
		}
		var space bool
		if b, space = skipBlanks(b[n:]); !space || len(b) == 0 || b[0] != '(' {
			return "", nil, ErrSyntax
		}
		prefix = name
	}

	end := bytes.IndexByte(b, ')')
	if end < 0 {
		return "", nil, ErrSyntax
	}
	out := append([]byte(prefix), '(')
	parts := bytes.Split(b[1:end], []byte("|"))
	for i, part := range parts {
		part = bytes.TrimFunc(part, func(r rune) bool { return r < utf8.RuneSelf && isBlankCh(byte(r)) })
		if len(part) == 0 {
			return "", nil, ErrSyntax
		}
		if i > 0 {
			out = append(out, '|')
		}
		out = append(out, part...)
	}
	out = append(out, ')')
	return string(out), b[end+1:], nil
}

func (p *Parser) parseElementDecl(in *input, tok []byte) error {
	rest, err := declBody(tok, patElementDecl)
	if err != nil {
		return err
	}
	name, n := scanName(rest)
	if n == 0 {
		return ErrSyntax
	}
	rest, space := skipBlanks(rest[n:])
	model := bytes.TrimRight(rest, " \t\r\n")
	if !space || len(model) == 0 {
		return ErrSyntax
	}
	p.consume(in, len(tok))
	return p.elementDecl(name, string(model))
}

func (p *Parser) parseNotationDecl(in *input, tok []byte) error {
	rest, err := declBody(tok, patNotationDecl)
	if err != nil {
		return err
	}
	name, n := scanName(rest)
	if n == 0 {
		return ErrSyntax
	}
	rest, space := skipBlanks(rest[n:])
	if !space {
		return ErrSyntax
	}
	systemID, publicID, rest, err := parseExternalID(rest, true)
	if err != nil {
		return err
	}
	if rest, _ = skipBlanks(rest); len(rest) != 0 {
		return ErrSyntax
	}
	p.consume(in, len(tok))
	return p.notationDecl(name, systemID, publicID)
}

// parsePEReference handles a parameter entity reference between
// declarations.
func (p *Parser) parsePEReference(in *input, b []byte, complete bool) error {
	end := bytes.IndexByte(b, ';')
	if end < 0 {
		return needMore(complete, ErrSyntax)
	}
	name, n := scanName(b[1:end])
	if n == 0 || n != end-1 {
		return ErrSyntax
	}
	p.consume(in, end+1)
	p.dtd.hasParamEntityRefs = true

	e := p.dtd.lookupEntity(name, true)
	switch {
	case e == nil:
		if p.standalone == sax.StandaloneYes {
			return ErrUndefinedEntity
		}
		if err := p.skippedEntity(name, true); err != nil {
			return err
		}
	case e.internal:
		if err := p.pushInput(e); err != nil {
			return err
		}
	case p.readExternalDecls():
		req := EntityRequest{Base: e.base, SystemID: e.systemID, PublicID: e.publicID}
		if err := p.resolveExternal(entityKey(name, true), req); err != nil {
			return err
		}
	default:
		if err := p.defaultMarkup(); err != nil {
			return err
		}
	}
	if p.instate == psInternalSubset {
		return p.checkNotStandalone()
	}
	return nil
}
