package xmlpush

import (
	"log/slog"

	"github.com/lestrrat-go/xmlpush/internal/stack/nsstack"
)

// externalSubsetKey marks the external DTD subset on the open entity
// stack while it is being resolved.
const externalSubsetKey = "#dtd"

// referenceEntity expands a general entity reference found in content.
// n is the length of the reference in the current frame.
func (p *Parser) referenceEntity(in *input, name string, n int) error {
	e := p.dtd.lookupEntity(name, false)
	if e == nil {
		if p.undefinedIsError() {
			return ErrUndefinedEntity
		}
		p.consume(in, n)
		return p.skippedEntity(name, false)
	}
	if e.unparsed() {
		return ErrBinaryEntityRef
	}
	key := entityKey(name, false)
	if _, open := p.open.Lookup(key); open {
		return ErrRecursiveEntityRef
	}

	p.consume(in, n)
	if e.internal {
		return p.pushInput(e)
	}
	if p.entityRef == nil {
		return p.defaultMarkup()
	}
	req := EntityRequest{
		Context: &EntityContext{
			entity:   e,
			bindings: p.ns.Bindings(),
		},
		Base:     e.base,
		SystemID: e.systemID,
		PublicID: e.publicID,
	}
	return p.resolveExternal(key, req)
}

// pushInput starts tokenizing the replacement text of an internal
// entity. The entity stays open until its frame is exhausted.
func (p *Parser) pushInput(e *entity) error {
	if err := p.open.Push(openEntity{key: entityKey(e.name, e.param)}); err != nil {
		return ErrRecursiveEntityRef
	}
	p.inputs = append(p.inputs, &input{
		buf:    e.value,
		entity: e,
		depth:  p.tags.Len(),
	})
	return nil
}

// popInput drops an exhausted entity frame. The elements opened by the
// replacement text must all have been closed by it.
func (p *Parser) popInput() error {
	in := p.inputs[len(p.inputs)-1]
	if p.tags.Len() != in.depth {
		return ErrAsyncEntity
	}
	p.inputs = p.inputs[:len(p.inputs)-1]
	p.open.Pop()
	return nil
}

// resolveExternal hands an external entity to the application. key is
// held open for the duration of the call so that a child parser can
// detect a reference cycle.
func (p *Parser) resolveExternal(key string, req EntityRequest) error {
	if err := p.open.Push(openEntity{key: key}); err != nil {
		return ErrRecursiveEntityRef
	}
	defer p.open.Pop()

	p.traceEntity("resolving external entity", req)
	if err := p.entityRef(p, req); err != nil {
		p.traceEntity("external entity rejected", req, slog.String("error", err.Error()))
		return p.errorAt(ErrExternalEntityHandling, err)
	}
	return nil
}

// NewEntityParser creates a parser for the content of an external
// entity, typically from within an ExternalEntityRefFunc. ctx is the
// Context of the request; nil creates a parser for the external DTD
// subset or an external parameter entity. enc, when not empty,
// overrides the encoding of the entity.
//
// The child shares declarations with p and starts out with copies of
// its callbacks and settings. It must be freed by the caller.
func (p *Parser) NewEntityParser(ctx *EntityContext, enc string) (*Parser, error) {
	if p.freed {
		return nil, ErrAlreadyFinished
	}
	kind := generalEntity
	if ctx == nil {
		kind = declEntity
	}
	child := &Parser{
		encoding:   enc,
		negotiator: p.negotiator,
		sax:        p.sax.Clone(),
		userData:   p.userData,
		entityRef:  p.entityRef,
		base:       p.base,
		peParsing:  p.peParsing,
		nsEnabled:  p.nsEnabled,
		nsSep:      p.nsSep,
		ns:         nsstack.New(),
		open:       p.open.Clone(),
		dtd:        p.dtd,
		standalone: p.standalone,
		tlog:       p.tlog,
	}
	child.reset(kind)
	if ctx != nil {
		child.ns.Restore(ctx.bindings)
		if e := ctx.entity; e != nil && e.base != "" {
			child.base = e.base
		}
	}
	p.traceLog().Debug("entity parser created",
		slog.String("entity", ctx.Name()),
		slog.Bool("declarations", ctx == nil),
	)
	return child, nil
}

// endOfInput checks that the input ended at a point where the document
// (or entity) is complete.
func (p *Parser) endOfInput() error {
	switch p.instate {
	case psStart, psProlog, psContent:
		if p.kind == docEntity {
			return ErrNoElements
		}
	case psInternalSubset:
		return ErrUnclosedToken
	case psEntityContent:
		if p.tags.Len() > 0 {
			return ErrAsyncEntity
		}
	}
	return nil
}
