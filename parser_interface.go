package xmlpush

import (
	"log/slog"

	"github.com/lestrrat-go/xmlpush/encoding"
	"github.com/lestrrat-go/xmlpush/internal/stack"
	"github.com/lestrrat-go/xmlpush/internal/stack/nsstack"
	"github.com/lestrrat-go/xmlpush/sax"
	"golang.org/x/text/transform"
)

// State is the lifecycle state of a Parser.
type State int

const (
	StateRunning State = iota
	StateSuspended
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateSuspended:
		return "suspended"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}

// Status is the outcome of Feed and Resume.
type Status int

const (
	StatusError Status = iota
	StatusOK
	StatusSuspended
)

func (s Status) String() string {
	switch s {
	case StatusError:
		return "error"
	case StatusOK:
		return "ok"
	case StatusSuspended:
		return "suspended"
	}
	return "unknown"
}

// ParamEntityParsing controls whether the external DTD subset and
// external parameter entities are requested from the external entity
// handler.
type ParamEntityParsing int

const (
	ParamEntityParsingNever ParamEntityParsing = iota
	ParamEntityParsingUnlessStandalone
	ParamEntityParsingAlways
)

// ExternalEntityRefFunc is called when the parser needs the content of
// an external entity. Returning nil accepts the reference; returning an
// error rejects it and fails the parse at the reference.
type ExternalEntityRefFunc func(p *Parser, req EntityRequest) error

// EntityRequest describes an external entity that needs resolving.
// Context is nil when the request is for the external DTD subset or an
// external parameter entity.
type EntityRequest struct {
	Context  *EntityContext
	Base     string
	SystemID string
	PublicID string
}

// EntityContext is the binding environment handed from a parser to the
// child it creates for an external general entity.
type EntityContext struct {
	entity   *entity
	bindings []nsstack.Item
}

// Name returns the name of the entity being resolved.
func (c *EntityContext) Name() string {
	if c == nil || c.entity == nil {
		return ""
	}
	return c.entity.name
}

type parserState int

const (
	psStart parserState = iota
	psProlog
	psInternalSubset
	psContent
	psEpilogue
	psDeclarations
	psEntityContent
)

func (s parserState) String() string {
	switch s {
	case psStart:
		return "start"
	case psProlog:
		return "prolog"
	case psInternalSubset:
		return "internal subset"
	case psContent:
		return "content"
	case psEpilogue:
		return "epilogue"
	case psDeclarations:
		return "declarations"
	case psEntityContent:
		return "entity content"
	}
	return "unknown"
}

type entityKind int

const (
	docEntity entityKind = iota
	generalEntity
	declEntity
)

// input is one frame of text being tokenized. The bottom frame is the
// decoded document; internal entity replacement text is pushed on top.
type input struct {
	buf    []byte
	pos    int
	entity *entity
	depth  int
}

type doctype struct {
	name     string
	systemID string
	publicID string
}

// Parser is an incremental, suspendable XML parser. A Parser is driven
// by a single goroutine; callbacks run synchronously inside Feed and
// Resume and may call Stop.
type Parser struct {
	state   State
	code    ErrorCode
	err     error
	instate parserState
	kind    entityKind
	started bool
	final   bool
	freed   bool

	encoding   string
	decoder    transform.Transformer
	table      *encoding.Table
	negotiator encoding.Negotiator

	raw    []byte
	inputs []*input

	sax       *sax.SAX2
	userData  sax.Context
	entityRef ExternalEntityRefFunc
	base      string
	peParsing ParamEntityParsing

	nsEnabled bool
	nsSep     string
	ns        nsstack.Stack
	tags      tagStack
	open      stack.UniqueStack
	dtd       *dtd
	doctype   *doctype

	standalone int
	atStart    bool

	line, col     int
	evLine, evCol int
	cur           []byte
	defaulted     bool

	tlog *slog.Logger
}
