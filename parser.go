package xmlpush

import (
	"log/slog"

	"github.com/lestrrat-go/xmlpush/encoding"
	"github.com/lestrrat-go/xmlpush/internal/stack/nsstack"
	"github.com/lestrrat-go/xmlpush/sax"
)

// Version is the version of this library.
const Version = "v0.1.0"

// NewParser creates a parser in the running state, ready to be fed.
func NewParser(options ...ParserOption) *Parser {
	p := &Parser{
		sax:        sax.New(),
		standalone: sax.StandaloneUnspecified,
		dtd:        newDTD(),
		ns:         nsstack.New(),
	}
	p.reset(docEntity)

	for _, option := range options {
		switch option.Ident() {
		case identEncoding{}:
			p.encoding = option.Value().(string)
		case identUserData{}:
			p.userData = option.Value()
		case identHandler{}:
			p.SetHandler(option.Value().(*sax.SAX2))
		case identEntityRef{}:
			p.entityRef = option.Value().(ExternalEntityRefFunc)
		case identUnknownEncoding{}:
			p.negotiator = option.Value().(encoding.Negotiator)
		case identBase{}:
			p.base = option.Value().(string)
		case identParamEntityParsing{}:
			p.peParsing = option.Value().(ParamEntityParsing)
		case identNamespaces{}:
			p.nsEnabled = true
			p.nsSep = option.Value().(string)
		case identTraceLogger{}:
			p.tlog = option.Value().(*slog.Logger)
		}
	}
	return p
}

func (p *Parser) reset(kind entityKind) {
	p.kind = kind
	p.state = StateRunning
	p.instate = psStart
	p.atStart = true
	p.line = 1
	p.evLine = 1
	p.inputs = []*input{{}}
}

// SetHandler replaces the callbacks. A nil handler removes all of them.
func (p *Parser) SetHandler(h *sax.SAX2) {
	if h == nil {
		h = sax.New()
	}
	p.sax = h
}

// Handler returns the callbacks currently in use. Changes to the
// returned value take effect on the next event.
func (p *Parser) Handler() *sax.SAX2 {
	return p.sax
}

// SetUserData replaces the value passed to callbacks.
func (p *Parser) SetUserData(v sax.Context) {
	p.userData = v
}

// UserData returns the value passed to callbacks.
func (p *Parser) UserData() sax.Context {
	return p.userData
}

// SetExternalEntityRefHandler specifies the function that resolves
// external entities. A nil function leaves external entities unexpanded.
func (p *Parser) SetExternalEntityRefHandler(fn ExternalEntityRefFunc) {
	p.entityRef = fn
}

// SetUnknownEncodingHandler specifies the negotiator consulted for
// encoding names the parser does not recognize.
func (p *Parser) SetUnknownEncodingHandler(n encoding.Negotiator) {
	p.negotiator = n
}

// SetEncoding overrides the encoding of the input. It fails once bytes
// have been fed.
func (p *Parser) SetEncoding(name string) error {
	if p.started || p.freed {
		p.code = ErrCantChangeFeatureOnceParsing
		return p.code
	}
	p.encoding = name
	return nil
}

// SetParamEntityParsing controls whether the external DTD subset and
// external parameter entities are requested. It fails once bytes have
// been fed.
func (p *Parser) SetParamEntityParsing(v ParamEntityParsing) error {
	if p.started || p.freed {
		p.code = ErrCantChangeFeatureOnceParsing
		return p.code
	}
	p.peParsing = v
	return nil
}

// SetBase sets the base URI reported with external entity requests.
func (p *Parser) SetBase(base string) {
	p.base = base
}

// Base returns the base URI set with SetBase or WithBase.
func (p *Parser) Base() string {
	return p.base
}

// CurrentLine returns the 1-based line of the event being reported.
func (p *Parser) CurrentLine() int {
	return p.evLine
}

// CurrentColumn returns the 0-based column, in characters, of the
// event being reported.
func (p *Parser) CurrentColumn() int {
	return p.evCol
}

// DefaultCurrent passes the markup of the event being reported to the
// default handler. It is meant to be called from within a callback.
func (p *Parser) DefaultCurrent() error {
	if p.cur == nil {
		return nil
	}
	if err := p.sax.Default(p.userData, p.cur); err != nil && err != sax.ErrHandlerUnspecified {
		return err
	}
	return nil
}

// Free releases the resources held by the parser. The release function
// of a negotiated encoding table is invoked here. Free may be called
// more than once; a freed parser is finished.
func (p *Parser) Free() {
	if p.freed {
		return
	}
	p.freed = true
	p.state = StateFinished
	p.releaseTable()
	p.raw = nil
	p.inputs = nil
	p.cur = nil
	p.decoder = nil
	p.sax = sax.New()
	p.userData = nil
	p.entityRef = nil
	p.negotiator = nil
}

func (p *Parser) releaseTable() {
	if t := p.table; t != nil {
		p.table = nil
		if t.Release != nil {
			t.Release(t.Data)
		}
	}
}
