package sax

// AttlistDeclFunc defines the function type for SAX2.AttlistDeclHandler
type AttlistDeclFunc func(ctx Context, decl AttlistDecl) error

// CharacterDataFunc defines the function type for SAX2.CharacterDataHandler
type CharacterDataFunc func(ctx Context, data []byte) error

// CommentFunc defines the function type for SAX2.CommentHandler
type CommentFunc func(ctx Context, data []byte) error

// DefaultFunc defines the function type for SAX2.DefaultHandler
type DefaultFunc func(ctx Context, data []byte) error

// ElementDeclFunc defines the function type for SAX2.ElementDeclHandler
type ElementDeclFunc func(ctx Context, name string, model string) error

// EndCDATAFunc defines the function type for SAX2.EndCDATAHandler
type EndCDATAFunc func(ctx Context) error

// EndDoctypeDeclFunc defines the function type for SAX2.EndDoctypeDeclHandler
type EndDoctypeDeclFunc func(ctx Context) error

// EndElementFunc defines the function type for SAX2.EndElementHandler
type EndElementFunc func(ctx Context, name string) error

// EntityDeclFunc defines the function type for SAX2.EntityDeclHandler
type EntityDeclFunc func(ctx Context, decl EntityDecl) error

// NotStandaloneFunc defines the function type for SAX2.NotStandaloneHandler.
// Returning an error rejects the document.
type NotStandaloneFunc func(ctx Context) error

// NotationDeclFunc defines the function type for SAX2.NotationDeclHandler
type NotationDeclFunc func(ctx Context, name string, base string, systemID string, publicID string) error

// ProcessingInstructionFunc defines the function type for SAX2.ProcessingInstructionHandler
type ProcessingInstructionFunc func(ctx Context, target string, data string) error

// SkippedEntityFunc defines the function type for SAX2.SkippedEntityHandler
type SkippedEntityFunc func(ctx Context, name string, isParameterEntity bool) error

// StartCDATAFunc defines the function type for SAX2.StartCDATAHandler
type StartCDATAFunc func(ctx Context) error

// StartDoctypeDeclFunc defines the function type for SAX2.StartDoctypeDeclHandler
type StartDoctypeDeclFunc func(ctx Context, name string, systemID string, publicID string, hasInternalSubset bool) error

// StartElementFunc defines the function type for SAX2.StartElementHandler
type StartElementFunc func(ctx Context, name string, attrs []Attribute) error

// XMLDeclFunc defines the function type for SAX2.XMLDeclHandler
type XMLDeclFunc func(ctx Context, version string, encoding string, standalone int) error

// SAX2 is the callback based handler. Fields may be changed at any
// time, including from within a callback; the parser reads them at the
// moment each event is dispatched.
type SAX2 struct {
	AttlistDeclHandler           AttlistDeclFunc
	CharacterDataHandler         CharacterDataFunc
	CommentHandler               CommentFunc
	DefaultHandler               DefaultFunc
	ElementDeclHandler           ElementDeclFunc
	EndCDATAHandler              EndCDATAFunc
	EndDoctypeDeclHandler        EndDoctypeDeclFunc
	EndElementHandler            EndElementFunc
	EntityDeclHandler            EntityDeclFunc
	NotStandaloneHandler         NotStandaloneFunc
	NotationDeclHandler          NotationDeclFunc
	ProcessingInstructionHandler ProcessingInstructionFunc
	SkippedEntityHandler         SkippedEntityFunc
	StartCDATAHandler            StartCDATAFunc
	StartDoctypeDeclHandler      StartDoctypeDeclFunc
	StartElementHandler          StartElementFunc
	XMLDeclHandler               XMLDeclFunc
}

// New creates a new instance of SAX2. All callbacks are
// uninitialized.
func New() *SAX2 {
	return &SAX2{}
}

// Clone returns a shallow copy of the callback set.
func (s *SAX2) Clone() *SAX2 {
	c := *s
	return &c
}

// AttlistDecl satisfies the Handler interface
func (s *SAX2) AttlistDecl(ctx Context, decl AttlistDecl) error {
	if h := s.AttlistDeclHandler; h != nil {
		return h(ctx, decl)
	}
	return ErrHandlerUnspecified
}

// CharacterData satisfies the Handler interface
func (s *SAX2) CharacterData(ctx Context, data []byte) error {
	if h := s.CharacterDataHandler; h != nil {
		return h(ctx, data)
	}
	return ErrHandlerUnspecified
}

// Comment satisfies the Handler interface
func (s *SAX2) Comment(ctx Context, data []byte) error {
	if h := s.CommentHandler; h != nil {
		return h(ctx, data)
	}
	return ErrHandlerUnspecified
}

// Default satisfies the Handler interface
func (s *SAX2) Default(ctx Context, data []byte) error {
	if h := s.DefaultHandler; h != nil {
		return h(ctx, data)
	}
	return ErrHandlerUnspecified
}

// ElementDecl satisfies the Handler interface
func (s *SAX2) ElementDecl(ctx Context, name string, model string) error {
	if h := s.ElementDeclHandler; h != nil {
		return h(ctx, name, model)
	}
	return ErrHandlerUnspecified
}

// EndCDATA satisfies the Handler interface
func (s *SAX2) EndCDATA(ctx Context) error {
	if h := s.EndCDATAHandler; h != nil {
		return h(ctx)
	}
	return ErrHandlerUnspecified
}

// EndDoctypeDecl satisfies the Handler interface
func (s *SAX2) EndDoctypeDecl(ctx Context) error {
	if h := s.EndDoctypeDeclHandler; h != nil {
		return h(ctx)
	}
	return ErrHandlerUnspecified
}

// EndElement satisfies the Handler interface
func (s *SAX2) EndElement(ctx Context, name string) error {
	if h := s.EndElementHandler; h != nil {
		return h(ctx, name)
	}
	return ErrHandlerUnspecified
}

// EntityDecl satisfies the Handler interface
func (s *SAX2) EntityDecl(ctx Context, decl EntityDecl) error {
	if h := s.EntityDeclHandler; h != nil {
		return h(ctx, decl)
	}
	return ErrHandlerUnspecified
}

// NotStandalone satisfies the Handler interface
func (s *SAX2) NotStandalone(ctx Context) error {
	if h := s.NotStandaloneHandler; h != nil {
		return h(ctx)
	}
	return ErrHandlerUnspecified
}

// NotationDecl satisfies the Handler interface
func (s *SAX2) NotationDecl(ctx Context, name string, base string, systemID string, publicID string) error {
	if h := s.NotationDeclHandler; h != nil {
		return h(ctx, name, base, systemID, publicID)
	}
	return ErrHandlerUnspecified
}

// ProcessingInstruction satisfies the Handler interface
func (s *SAX2) ProcessingInstruction(ctx Context, target string, data string) error {
	if h := s.ProcessingInstructionHandler; h != nil {
		return h(ctx, target, data)
	}
	return ErrHandlerUnspecified
}

// SkippedEntity satisfies the Handler interface
func (s *SAX2) SkippedEntity(ctx Context, name string, isParameterEntity bool) error {
	if h := s.SkippedEntityHandler; h != nil {
		return h(ctx, name, isParameterEntity)
	}
	return ErrHandlerUnspecified
}

// StartCDATA satisfies the Handler interface
func (s *SAX2) StartCDATA(ctx Context) error {
	if h := s.StartCDATAHandler; h != nil {
		return h(ctx)
	}
	return ErrHandlerUnspecified
}

// StartDoctypeDecl satisfies the Handler interface
func (s *SAX2) StartDoctypeDecl(ctx Context, name string, systemID string, publicID string, hasInternalSubset bool) error {
	if h := s.StartDoctypeDeclHandler; h != nil {
		return h(ctx, name, systemID, publicID, hasInternalSubset)
	}
	return ErrHandlerUnspecified
}

// StartElement satisfies the Handler interface
func (s *SAX2) StartElement(ctx Context, name string, attrs []Attribute) error {
	if h := s.StartElementHandler; h != nil {
		return h(ctx, name, attrs)
	}
	return ErrHandlerUnspecified
}

// XMLDecl satisfies the Handler interface
func (s *SAX2) XMLDecl(ctx Context, version string, encoding string, standalone int) error {
	if h := s.XMLDeclHandler; h != nil {
		return h(ctx, version, encoding, standalone)
	}
	return ErrHandlerUnspecified
}
