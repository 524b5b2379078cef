package xmlpush

import (
	"bytes"
	"strings"

	"github.com/lestrrat-go/xmlpush/encoding"
	"github.com/lestrrat-go/xmlpush/sax"
	"golang.org/x/text/transform"
)

const (
	encNone    = ""
	encUTF8    = "utf-8"
	encUTF16LE = "utf-16le"
	encUTF16BE = "utf-16be"
)

var (
	patUTF8         = []byte{0xEF, 0xBB, 0xBF}
	patUTF16LE2B    = []byte{0xFF, 0xFE}
	patUTF16BE2B    = []byte{0xFE, 0xFF}
	patUTF16LE4B    = []byte{0x3C, 0x00, 0x3F, 0x00}
	patUTF16BE4B    = []byte{0x00, 0x3C, 0x00, 0x3F}
	patXMLDecl      = []byte("<?xml")
	decodedBOM      = []byte("\uFEFF")
	patCommentStart = []byte("<!--")
	patCDATAStart   = []byte("<![CDATA[")
	patDoctypeStart = []byte("<!DOCTYPE")
)

// detectEncoding looks for a byte order mark, or the UTF-16 encoding of
// "<?", at the start of the input.
func detectEncoding(b []byte) string {
	switch {
	case bytes.HasPrefix(b, patUTF8):
		return encUTF8
	case bytes.HasPrefix(b, patUTF16LE2B), bytes.HasPrefix(b, patUTF16LE4B):
		return encUTF16LE
	case bytes.HasPrefix(b, patUTF16BE2B), bytes.HasPrefix(b, patUTF16BE4B):
		return encUTF16BE
	}
	return encNone
}

func isUTF8Name(name string) bool {
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		return true
	}
	return false
}

type xmlDecl struct {
	version    string
	encoding   string
	standalone int
}

// startDocument settles the encoding of the input. For input that is
// not UTF-16 the XML (or text) declaration is read from the raw bytes,
// since it must be ASCII. It returns false when more input is needed.
func (p *Parser) startDocument() (bool, error) {
	if len(p.raw) < 4 && !p.final {
		return false, nil
	}

	detected := detectEncoding(p.raw)
	name := p.encoding
	if name == encNone {
		name = detected
	}

	p.atStart = true
	if !encoding.IsUTF16(name) {
		skip := 0
		if detected == encUTF8 {
			skip = len(patUTF8)
		}
		decl, ok, err := p.readRawDecl(skip)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		p.atStart = false
		if decl != nil && p.encoding == encNone {
			switch {
			case encoding.IsUTF16(decl.encoding):
				return false, ErrIncorrectEncoding
			case detected == encUTF8 && decl.encoding != "" && !isUTF8Name(decl.encoding):
				return false, ErrIncorrectEncoding
			}
			if name == encNone {
				name = decl.encoding
			}
		}
	}
	if name == encNone {
		name = encUTF8
	}

	dec, err := p.selectDecoder(name)
	if err != nil {
		return false, err
	}
	p.decoder = dec

	switch p.kind {
	case docEntity:
		p.instate = psProlog
	case generalEntity:
		p.instate = psEntityContent
	case declEntity:
		p.instate = psDeclarations
		p.dtd.paramEntityRead = true
	}
	return true, nil
}

// readRawDecl consumes an XML or text declaration at the start of the
// raw input, after skip bytes of byte order mark, and reports it. ok is
// false when the declaration is not complete yet.
func (p *Parser) readRawDecl(skip int) (*xmlDecl, bool, error) {
	raw := p.raw[skip:]
	if len(raw) < len(patXMLDecl)+1 {
		if !p.final && bytes.HasPrefix(patXMLDecl, raw) {
			return nil, false, nil
		}
		p.raw = raw
		return nil, true, nil
	}
	if !bytes.HasPrefix(raw, patXMLDecl) || !isBlankCh(raw[len(patXMLDecl)]) {
		p.raw = raw
		return nil, true, nil
	}
	end := bytes.Index(raw, []byte("?>"))
	if end < 0 {
		if !p.final {
			return nil, false, nil
		}
		return nil, false, p.declError()
	}
	decl, err := p.parseXMLDecl(raw[len(patXMLDecl):end])
	if err != nil {
		return nil, false, err
	}

	tok := raw[:end+2]
	p.raw = raw[end+2:]
	p.evLine, p.evCol = p.line, p.col
	p.advancePos(tok)
	p.cur = tok
	p.defaulted = false
	if err := p.xmlDeclEvent(decl); err != nil {
		return nil, false, err
	}
	return decl, true, nil
}

// parseDeclToken handles an XML declaration found in decoded input,
// which only happens for UTF-16 documents.
func (p *Parser) parseDeclToken(in *input, tok, body []byte) error {
	decl, err := p.parseXMLDecl(body)
	if err != nil {
		return err
	}
	if p.encoding == encNone && decl.encoding != "" && !encoding.IsUTF16(decl.encoding) {
		return ErrIncorrectEncoding
	}
	p.consume(in, len(tok))
	return p.xmlDeclEvent(decl)
}

func (p *Parser) xmlDeclEvent(decl *xmlDecl) error {
	if p.kind == docEntity {
		p.standalone = decl.standalone
	}
	if !p.live() {
		return nil
	}
	return p.deliver(p.sax.XMLDecl(p.userData, decl.version, decl.encoding, decl.standalone))
}

func (p *Parser) declError() error {
	if p.kind == docEntity {
		return ErrXMLDecl
	}
	return ErrTextDecl
}

// parseXMLDecl reads the pseudo-attributes of an XML declaration. A text
// declaration, used by external entities, must name an encoding and may
// not carry standalone.
func (p *Parser) parseXMLDecl(b []byte) (*xmlDecl, error) {
	decl := &xmlDecl{standalone: sax.StandaloneUnspecified}
	isText := p.kind != docEntity
	stage := 0
	rest := b
	for {
		var space bool
		rest, space = skipBlanks(rest)
		if len(rest) == 0 {
			break
		}
		if !space {
			return nil, p.declError()
		}
		name, n := scanName(rest)
		if n == 0 {
			return nil, p.declError()
		}
		rest, _ = skipBlanks(rest[n:])
		if len(rest) == 0 || rest[0] != '=' {
			return nil, p.declError()
		}
		rest, _ = skipBlanks(rest[1:])
		value, after, ok := scanLiteral(rest)
		if !ok {
			return nil, p.declError()
		}
		rest = after

		switch {
		case name == "version" && stage < 1:
			if !validVersion(value) {
				return nil, p.declError()
			}
			decl.version = string(value)
			stage = 1
		case name == "encoding" && stage < 2:
			if !validEncodingName(value) {
				return nil, p.declError()
			}
			decl.encoding = string(value)
			stage = 2
		case name == "standalone" && stage < 3 && !isText:
			switch string(value) {
			case "yes":
				decl.standalone = sax.StandaloneYes
			case "no":
				decl.standalone = sax.StandaloneNo
			default:
				return nil, p.declError()
			}
			stage = 3
		default:
			return nil, p.declError()
		}
	}

	if isText {
		if decl.encoding == "" {
			return nil, ErrTextDecl
		}
	} else if decl.version == "" {
		return nil, ErrXMLDecl
	}
	return decl, nil
}

func validVersion(v []byte) bool {
	if len(v) < 3 || v[0] != '1' || v[1] != '.' {
		return false
	}
	for _, c := range v[2:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func validEncodingName(v []byte) bool {
	if len(v) == 0 {
		return false
	}
	for i, c := range v {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '.' || c == '_' || c == '-'):
		default:
			return false
		}
	}
	return true
}

// selectDecoder returns the decoder for name. Names the parser does not
// know are negotiated through the unknown encoding handler.
func (p *Parser) selectDecoder(name string) (transform.Transformer, error) {
	if dec, ok := encoding.Native(name); ok {
		return dec, nil
	}
	if p.negotiator == nil {
		return nil, ErrUnknownEncoding
	}

	var t encoding.Table
	err := p.negotiator(p.userData, name, &t)
	if err == nil {
		err = t.Validate()
	}
	if err != nil {
		if t.Release != nil {
			t.Release(t.Data)
		}
		p.traceLog().Debug("encoding rejected", "encoding", name, "error", err.Error())
		return nil, p.errorAt(ErrUnknownEncoding, err)
	}
	p.table = &t
	p.traceLog().Debug("encoding negotiated", "encoding", name)
	return encoding.NewTableDecoder(&t), nil
}
