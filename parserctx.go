package xmlpush

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/lestrrat-go/xmlpush/sax"
)

var predefinedEntities = map[string]string{
	"lt":   "<",
	"gt":   ">",
	"amp":  "&",
	"apos": "'",
	"quot": `"`,
}

// needMore asks for more input, unless the current frame is complete,
// in which case the token is broken.
func needMore(complete bool, code ErrorCode) error {
	if complete {
		return code
	}
	return errNeedMore
}

// step consumes and reports exactly one token from in.
func (p *Parser) step(in *input) error {
	b := in.buf[in.pos:]
	complete := in.entity != nil || p.final
	switch p.instate {
	case psInternalSubset, psDeclarations:
		return p.stepDecl(in, b, complete)
	}

	switch b[0] {
	case '<':
		return p.parseMarkup(in, b, complete)
	case '&':
		if !p.inContent() {
			return p.misplaced()
		}
		return p.parseReference(in, b, complete)
	}
	return p.parseCharData(in, b, complete)
}

func (p *Parser) inContent() bool {
	return p.instate == psContent || p.instate == psEntityContent
}

func (p *Parser) misplaced() error {
	if p.instate == psEpilogue {
		return ErrJunkAfterDocElement
	}
	return ErrSyntax
}

// consume advances in past n bytes, which become the markup of the
// event about to be reported.
func (p *Parser) consume(in *input, n int) []byte {
	tok := in.buf[in.pos : in.pos+n]
	in.pos += n
	if in == p.inputs[0] {
		p.advancePos(tok)
	}
	p.cur = tok
	return tok
}

func (p *Parser) advancePos(tok []byte) {
	for i := 0; i < len(tok); {
		switch tok[i] {
		case '\n':
			p.line++
			p.col = 0
			i++
		case '\r':
			p.line++
			p.col = 0
			i++
			if i < len(tok) && tok[i] == '\n' {
				i++
			}
		default:
			_, size := utf8.DecodeRune(tok[i:])
			p.col++
			i += size
		}
	}
}

func (p *Parser) parseMarkup(in *input, b []byte, complete bool) error {
	if len(b) < 2 {
		return needMore(complete, ErrUnclosedToken)
	}
	switch b[1] {
	case '/':
		return p.parseEndTag(in, b, complete)
	case '?':
		return p.parsePI(in, b, complete)
	case '!':
		switch {
		case bytes.HasPrefix(b, patCommentStart):
			return p.parseComment(in, b, complete)
		case bytes.HasPrefix(b, patCDATAStart):
			if !p.inContent() {
				return p.misplaced()
			}
			return p.parseCDSect(in, b, complete)
		case bytes.HasPrefix(b, patDoctypeStart):
			if p.instate != psProlog || p.kind != docEntity || p.doctype != nil {
				return p.misplaced()
			}
			return p.parseDocTypeDecl(in, b, complete)
		}
		if !complete && (hasPartialPrefix(b, patCommentStart) ||
			hasPartialPrefix(b, patCDATAStart) ||
			hasPartialPrefix(b, patDoctypeStart)) {
			return errNeedMore
		}
		return ErrInvalidToken
	}
	return p.parseStartTag(in, b, complete)
}

func (p *Parser) parseStartTag(in *input, b []byte, complete bool) error {
	if p.instate == psEpilogue {
		return ErrJunkAfterDocElement
	}
	end := scanMarkupEnd(b)
	switch end {
	case -1:
		return needMore(complete, ErrUnclosedToken)
	case -2:
		return ErrInvalidToken
	}

	body := b[1:end]
	empty := false
	if len(body) > 0 && body[len(body)-1] == '/' {
		empty = true
		body = body[:len(body)-1]
	}
	qname, n := scanName(body)
	if n == 0 {
		return ErrInvalidToken
	}
	attrs, err := p.parseAttributes(qname, body[n:])
	if err != nil {
		return err
	}

	name := qname
	bindings := 0
	if p.nsEnabled {
		name, attrs, bindings, err = p.expandNames(qname, attrs)
		if err != nil {
			return err
		}
	}

	p.consume(in, end+1)
	if p.instate == psProlog {
		p.instate = psContent
	}
	if err := p.startElement(name, attrs); err != nil {
		return err
	}
	if !empty {
		p.tags.Push(tagEntry{qname: qname, name: name, bindings: bindings})
		return nil
	}
	p.popBindings(bindings)
	if err := p.endElement(name); err != nil {
		return err
	}
	p.closedElement()
	return nil
}

func (p *Parser) closedElement() {
	if p.tags.Len() == 0 && p.instate == psContent {
		p.instate = psEpilogue
	}
}

func (p *Parser) parseEndTag(in *input, b []byte, complete bool) error {
	if !p.inContent() {
		return p.misplaced()
	}
	end := bytes.IndexByte(b, '>')
	if end < 0 {
		return needMore(complete, ErrUnclosedToken)
	}
	qname, n := scanName(b[2:end])
	if n == 0 {
		return ErrInvalidToken
	}
	if rest, _ := skipBlanks(b[2+n : end]); len(rest) != 0 {
		return ErrInvalidToken
	}

	top, ok := p.tags.Peek()
	switch {
	case !ok:
		return ErrTagMismatch
	case p.tags.Len() <= in.depth:
		return ErrAsyncEntity
	case top.qname != qname:
		return ErrTagMismatch
	}

	p.consume(in, end+1)
	p.tags.Pop()
	p.popBindings(top.bindings)
	if err := p.endElement(top.name); err != nil {
		return err
	}
	p.closedElement()
	return nil
}

// parseAttributes reads the attribute specifications of a start tag and
// adds the defaults declared for elem.
func (p *Parser) parseAttributes(elem string, b []byte) ([]sax.Attribute, error) {
	var attrs []sax.Attribute
	for {
		rest, space := skipBlanks(b)
		if len(rest) == 0 {
			break
		}
		if !space {
			return nil, ErrInvalidToken
		}
		name, n := scanName(rest)
		if n == 0 {
			return nil, ErrInvalidToken
		}
		rest, _ = skipBlanks(rest[n:])
		if len(rest) == 0 || rest[0] != '=' {
			return nil, ErrInvalidToken
		}
		rest, _ = skipBlanks(rest[1:])
		raw, after, ok := scanLiteral(rest)
		if !ok {
			return nil, ErrInvalidToken
		}
		b = after

		if hasAttribute(attrs, name) {
			return nil, ErrDuplicateAttribute
		}
		typ := p.dtd.attributeType(elem, name)
		value, err := p.normalizeAttrValue(raw, typ != "" && typ != "CDATA")
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, sax.Attribute{Name: name, Value: value, Specified: true})
	}
	return p.dtd.applyDefaults(elem, attrs), nil
}

func (p *Parser) normalizeAttrValue(raw []byte, tokenized bool) (string, error) {
	var buf bytes.Buffer
	if err := p.appendAttrValue(&buf, raw); err != nil {
		return "", err
	}
	if tokenized {
		return collapseBlanks(buf.String()), nil
	}
	return buf.String(), nil
}

func (p *Parser) appendAttrValue(buf *bytes.Buffer, raw []byte) error {
	for i := 0; i < len(raw); {
		switch c := raw[i]; c {
		case '<':
			return ErrInvalidToken
		case '\r':
			buf.WriteByte(' ')
			i++
			if i < len(raw) && raw[i] == '\n' {
				i++
			}
		case '\n', '\t':
			buf.WriteByte(' ')
			i++
		case '&':
			end := bytes.IndexByte(raw[i:], ';')
			if end < 0 {
				return ErrInvalidToken
			}
			ref := raw[i+1 : i+end]
			i += end + 1
			if len(ref) > 0 && ref[0] == '#' {
				r, err := parseCharRef(ref[1:])
				if err != nil {
					return err
				}
				buf.WriteRune(r)
				continue
			}
			if err := p.appendEntityValue(buf, ref); err != nil {
				return err
			}
		default:
			r, size := utf8.DecodeRune(raw[i:])
			if !isChar(r) {
				return ErrInvalidToken
			}
			buf.Write(raw[i : i+size])
			i += size
		}
	}
	return nil
}

// appendEntityValue expands a general entity reference inside an
// attribute value.
func (p *Parser) appendEntityValue(buf *bytes.Buffer, ref []byte) error {
	name, n := scanName(ref)
	if n == 0 || n != len(ref) {
		return ErrInvalidToken
	}
	if v, ok := predefinedEntities[name]; ok {
		buf.WriteString(v)
		return nil
	}
	e := p.dtd.lookupEntity(name, false)
	switch {
	case e == nil:
		if p.undefinedIsError() {
			return ErrUndefinedEntity
		}
		return nil
	case e.unparsed():
		return ErrBinaryEntityRef
	case !e.internal:
		return ErrAttributeExternalEntityRef
	}
	if err := p.open.Push(openEntity{key: entityKey(name, false)}); err != nil {
		return ErrRecursiveEntityRef
	}
	defer p.open.Pop()
	return p.appendAttrValue(buf, e.value)
}

// undefinedIsError reports whether a reference to an undeclared entity
// is fatal. It is not when declarations may be hiding in an external
// subset or parameter entity the parser did not read.
func (p *Parser) undefinedIsError() bool {
	return !p.dtd.hasParamEntityRefs || p.standalone == sax.StandaloneYes
}

func (p *Parser) parseComment(in *input, b []byte, complete bool) error {
	start := len(patCommentStart)
	end := bytes.Index(b[start:], []byte("--"))
	if end < 0 {
		return needMore(complete, ErrUnclosedToken)
	}
	end += start
	if end+2 >= len(b) {
		return needMore(complete, ErrUnclosedToken)
	}
	if b[end+2] != '>' {
		return ErrInvalidToken
	}
	data := b[start:end]
	if err := checkChars(data); err != nil {
		return err
	}
	p.consume(in, end+3)
	return p.comment(normalizeNewlines(data))
}

func (p *Parser) parsePI(in *input, b []byte, complete bool) error {
	end := bytes.Index(b[2:], []byte("?>"))
	if end < 0 {
		return needMore(complete, ErrUnclosedToken)
	}
	end += 2
	body := b[2:end]
	target, n := scanName(body)
	if n == 0 {
		return ErrInvalidToken
	}
	rest := body[n:]
	if target == "xml" && p.atStart && in == p.inputs[0] {
		return p.parseDeclToken(in, b[:end+2], rest)
	}
	if strings.EqualFold(target, "xml") {
		return ErrMisplacedXMLPI
	}
	if len(rest) > 0 {
		var space bool
		if rest, space = skipBlanks(rest); !space {
			return ErrInvalidToken
		}
	}
	if err := checkChars(rest); err != nil {
		return err
	}
	p.consume(in, end+2)
	return p.processingInstruction(target, string(normalizeNewlines(rest)))
}

func (p *Parser) parseCDSect(in *input, b []byte, complete bool) error {
	start := len(patCDATAStart)
	end := bytes.Index(b[start:], []byte("]]>"))
	if end < 0 {
		return needMore(complete, ErrUnclosedCDATASection)
	}
	data := b[start : start+end]
	if err := checkChars(data); err != nil {
		return err
	}
	p.consume(in, start+end+3)
	return p.cdataSection(normalizeNewlines(data))
}

// parseCharData reports the text up to the next markup. Outside of
// element content only white space is allowed, and it goes to the
// default handler.
func (p *Parser) parseCharData(in *input, b []byte, complete bool) error {
	end := bytes.IndexAny(b, "<&")
	if end < 0 {
		if !complete {
			return errNeedMore
		}
		end = len(b)
	}
	text := b[:end]
	if err := checkChars(text); err != nil {
		return err
	}

	if !p.inContent() {
		if !allBlanks(text) {
			return p.misplaced()
		}
		p.consume(in, end)
		return p.defaultMarkup()
	}
	if bytes.Contains(text, []byte("]]>")) {
		return ErrInvalidToken
	}
	p.consume(in, end)
	return p.characters(normalizeNewlines(text))
}

func (p *Parser) parseReference(in *input, b []byte, complete bool) error {
	end := bytes.IndexByte(b, ';')
	if end < 0 {
		return needMore(complete, ErrInvalidToken)
	}
	ref := b[1:end]
	if len(ref) > 0 && ref[0] == '#' {
		r, err := parseCharRef(ref[1:])
		if err != nil {
			return err
		}
		p.consume(in, end+1)
		return p.characters(utf8.AppendRune(nil, r))
	}

	name, n := scanName(ref)
	if n == 0 || n != len(ref) {
		return ErrInvalidToken
	}
	if v, ok := predefinedEntities[name]; ok {
		p.consume(in, end+1)
		return p.characters([]byte(v))
	}
	return p.referenceEntity(in, name, end+1)
}

func (p *Parser) parseDocTypeDecl(in *input, b []byte, complete bool) error {
	start := len(patDoctypeStart)
	end := -1
	var quote byte
	for i := start; i < len(b) && end < 0; i++ {
		c := b[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[' || c == '>':
			end = i
		}
	}
	if end < 0 {
		return needMore(complete, ErrUnclosedToken)
	}

	rest, space := skipBlanks(b[start:end])
	if !space {
		return ErrSyntax
	}
	name, n := scanName(rest)
	if n == 0 {
		return ErrSyntax
	}
	dt := &doctype{name: name}
	if rest, space = skipBlanks(rest[n:]); len(rest) > 0 {
		if !space {
			return ErrSyntax
		}
		var err error
		dt.systemID, dt.publicID, rest, err = parseExternalID(rest, false)
		if err != nil {
			return err
		}
		if rest, _ = skipBlanks(rest); len(rest) != 0 {
			return ErrSyntax
		}
	}

	p.consume(in, end+1)
	p.doctype = dt
	subset := b[end] == '['
	if err := p.startDoctype(dt, subset); err != nil {
		return err
	}
	if subset {
		p.instate = psInternalSubset
		return nil
	}
	return p.endDoctype()
}

// endDoctype finishes the document type declaration, reading the
// external subset when one is named and parameter entity parsing allows
// it.
func (p *Parser) endDoctype() error {
	dt := p.doctype
	p.instate = psProlog
	if dt.systemID != "" {
		p.dtd.hasParamEntityRefs = true
		if p.readExternalDecls() {
			p.dtd.paramEntityRead = false
			req := EntityRequest{Base: p.base, SystemID: dt.systemID, PublicID: dt.publicID}
			if err := p.resolveExternal(externalSubsetKey, req); err != nil {
				return err
			}
			if p.dtd.paramEntityRead {
				if err := p.checkNotStandalone(); err != nil {
					return err
				}
			}
		}
	}
	return p.endDoctypeEvent()
}

func (p *Parser) readExternalDecls() bool {
	if p.entityRef == nil {
		return false
	}
	switch p.peParsing {
	case ParamEntityParsingAlways:
		return true
	case ParamEntityParsingUnlessStandalone:
		return p.standalone != sax.StandaloneYes
	}
	return false
}

// parseExternalID reads a SYSTEM or PUBLIC identifier. With
// publicOnly, a PUBLIC identifier may omit the system literal, as in
// notation declarations.
func parseExternalID(b []byte, publicOnly bool) (string, string, []byte, error) {
	var systemID, publicID string
	switch {
	case bytes.HasPrefix(b, []byte("SYSTEM")):
		rest, space := skipBlanks(b[len("SYSTEM"):])
		lit, after, ok := scanLiteral(rest)
		if !space || !ok {
			return "", "", nil, ErrSyntax
		}
		return string(lit), "", after, nil
	case bytes.HasPrefix(b, []byte("PUBLIC")):
		rest, space := skipBlanks(b[len("PUBLIC"):])
		lit, after, ok := scanLiteral(rest)
		if !space || !ok || !validPublicID(lit) {
			return "", "", nil, ErrSyntax
		}
		publicID = string(lit)
		rest, space = skipBlanks(after)
		lit, after, ok = scanLiteral(rest)
		if !ok {
			if publicOnly {
				return "", publicID, rest, nil
			}
			return "", "", nil, ErrSyntax
		}
		if !space {
			return "", "", nil, ErrSyntax
		}
		systemID = string(lit)
		return systemID, publicID, after, nil
	}
	return "", "", nil, ErrSyntax
}

func validPublicID(b []byte) bool {
	for _, c := range b {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case strings.IndexByte(" \r\n-'()+,./:=?;!*#@$_%", c) >= 0:
		default:
			return false
		}
	}
	return true
}
