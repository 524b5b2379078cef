package sax

import "errors"

// ErrHandlerUnspecified is returned when there is no Handler
// registered for that particular event callback. This is not
// a fatal error per se: the parser reports the markup of the
// event to the default handler instead.
var ErrHandlerUnspecified = errors.New("handler unspecified")

// Context is the opaque user data registered with the parser. It is
// always passed as the first argument to the callbacks.
type Context interface{}

// Attribute is an attribute as reported in a start element event.
type Attribute struct {
	Name  string
	Value string
	// Specified is false for attributes filled in from an
	// attribute-list declaration default.
	Specified bool
}

// EntityDecl describes an entity declaration. Value is nil for external
// entities; its length is authoritative and it may contain NUL bytes.
// Declarations without a Value and without a NotationName are
// external parsed entities.
type EntityDecl struct {
	Name              string
	IsParameterEntity bool
	Value             []byte
	Base              string
	SystemID          string
	PublicID          string
	NotationName      string
}

// AttlistDecl describes a single attribute definition in an
// attribute-list declaration. DefaultValue is nil for #IMPLIED and
// #REQUIRED attributes. IsRequired is true for #REQUIRED attributes, and
// for #FIXED attributes which also carry their value in DefaultValue.
type AttlistDecl struct {
	ElementName  string
	AttrName     string
	AttrType     string
	DefaultValue *string
	IsRequired   bool
}

// Standalone values reported by the XML declaration
const (
	StandaloneUnspecified = -1
	StandaloneNo          = 0
	StandaloneYes         = 1
)

// Handler is an interface for anything that can satisfy
// the callback API expected by the parser
type Handler interface {
	AttlistDecl(ctx Context, decl AttlistDecl) error
	CharacterData(ctx Context, data []byte) error
	Comment(ctx Context, data []byte) error
	Default(ctx Context, data []byte) error
	ElementDecl(ctx Context, name string, model string) error
	EndCDATA(ctx Context) error
	EndDoctypeDecl(ctx Context) error
	EndElement(ctx Context, name string) error
	EntityDecl(ctx Context, decl EntityDecl) error
	NotStandalone(ctx Context) error
	NotationDecl(ctx Context, name string, base string, systemID string, publicID string) error
	ProcessingInstruction(ctx Context, target string, data string) error
	SkippedEntity(ctx Context, name string, isParameterEntity bool) error
	StartCDATA(ctx Context) error
	StartDoctypeDecl(ctx Context, name string, systemID string, publicID string, hasInternalSubset bool) error
	StartElement(ctx Context, name string, attrs []Attribute) error
	XMLDecl(ctx Context, version string, encoding string, standalone int) error
}
