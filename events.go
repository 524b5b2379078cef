package xmlpush

import (
	"github.com/lestrrat-go/xmlpush/sax"
)

func (p *Parser) live() bool {
	return p.state != StateFinished
}

// deliver interprets the value returned by a callback. Events without a
// registered callback are passed to the default handler, at most once
// per token.
func (p *Parser) deliver(err error) error {
	if err == nil {
		return nil
	}
	if err != sax.ErrHandlerUnspecified {
		return err
	}
	return p.defaultMarkup()
}

func (p *Parser) defaultMarkup() error {
	if p.defaulted || p.cur == nil || !p.live() {
		return nil
	}
	p.defaulted = true
	if err := p.sax.Default(p.userData, p.cur); err != nil && err != sax.ErrHandlerUnspecified {
		return err
	}
	return nil
}

func (p *Parser) characters(data []byte) error {
	if len(data) == 0 || !p.live() {
		return nil
	}
	return p.deliver(p.sax.CharacterData(p.userData, data))
}

func (p *Parser) startElement(name string, attrs []sax.Attribute) error {
	if !p.live() {
		return nil
	}
	return p.deliver(p.sax.StartElement(p.userData, name, attrs))
}

func (p *Parser) endElement(name string) error {
	if !p.live() {
		return nil
	}
	return p.deliver(p.sax.EndElement(p.userData, name))
}

func (p *Parser) comment(data []byte) error {
	if !p.live() {
		return nil
	}
	return p.deliver(p.sax.Comment(p.userData, data))
}

func (p *Parser) processingInstruction(target, data string) error {
	if !p.live() {
		return nil
	}
	return p.deliver(p.sax.ProcessingInstruction(p.userData, target, data))
}

func (p *Parser) cdataSection(data []byte) error {
	if !p.live() {
		return nil
	}
	if err := p.deliver(p.sax.StartCDATA(p.userData)); err != nil {
		return err
	}
	if err := p.characters(data); err != nil {
		return err
	}
	if !p.live() {
		return nil
	}
	return p.deliver(p.sax.EndCDATA(p.userData))
}

func (p *Parser) skippedEntity(name string, param bool) error {
	if !p.live() {
		return nil
	}
	return p.deliver(p.sax.SkippedEntity(p.userData, name, param))
}

func (p *Parser) startDoctype(dt *doctype, hasInternalSubset bool) error {
	if !p.live() {
		return nil
	}
	return p.deliver(p.sax.StartDoctypeDecl(p.userData, dt.name, dt.systemID, dt.publicID, hasInternalSubset))
}

func (p *Parser) endDoctypeEvent() error {
	if !p.live() {
		return nil
	}
	return p.deliver(p.sax.EndDoctypeDecl(p.userData))
}

func (p *Parser) entityDecl(e *entity) error {
	if !p.live() {
		return nil
	}
	return p.deliver(p.sax.EntityDecl(p.userData, e.decl()))
}

func (p *Parser) attlistDecl(decl sax.AttlistDecl) error {
	if !p.live() {
		return nil
	}
	return p.deliver(p.sax.AttlistDecl(p.userData, decl))
}

func (p *Parser) elementDecl(name, model string) error {
	if !p.live() {
		return nil
	}
	return p.deliver(p.sax.ElementDecl(p.userData, name, model))
}

func (p *Parser) notationDecl(name, systemID, publicID string) error {
	if !p.live() {
		return nil
	}
	return p.deliver(p.sax.NotationDecl(p.userData, name, p.base, systemID, publicID))
}

// checkNotStandalone asks the application whether a document that is
// not declared standalone may depend on declarations it cannot see.
func (p *Parser) checkNotStandalone() error {
	if p.standalone == sax.StandaloneYes || !p.live() {
		return nil
	}
	err := p.sax.NotStandalone(p.userData)
	if err == nil || err == sax.ErrHandlerUnspecified {
		return nil
	}
	return p.errorAt(ErrNotStandalone, err)
}
