package xmlpush

import (
	"log/slog"

	"github.com/lestrrat-go/option"
	"github.com/lestrrat-go/xmlpush/encoding"
	"github.com/lestrrat-go/xmlpush/sax"
)

type Option = option.Interface

type identBase struct{}
type identEncoding struct{}
type identEntityRef struct{}
type identHandler struct{}
type identNamespaces struct{}
type identParamEntityParsing struct{}
type identTraceLogger struct{}
type identUnknownEncoding struct{}
type identUserData struct{}

// ParserOption configures a Parser created by NewParser.
type ParserOption interface {
	Option
	parserOption()
}

type parserOption struct{ Option }

func (*parserOption) parserOption() {}

// WithEncoding overrides the encoding of the input, regardless of any
// byte order mark or XML declaration.
func WithEncoding(v string) ParserOption {
	return &parserOption{option.New(identEncoding{}, v)}
}

// WithUserData specifies the value passed as the first argument to
// every callback.
func WithUserData(v sax.Context) ParserOption {
	return &parserOption{option.New(identUserData{}, v)}
}

// WithHandler specifies the callbacks
func WithHandler(v *sax.SAX2) ParserOption {
	return &parserOption{option.New(identHandler{}, v)}
}

// WithExternalEntityRef specifies the function that resolves external
// entities.
func WithExternalEntityRef(v ExternalEntityRefFunc) ParserOption {
	return &parserOption{option.New(identEntityRef{}, v)}
}

// WithUnknownEncodingHandler specifies the negotiator consulted for
// encoding names the parser does not recognize.
func WithUnknownEncodingHandler(v encoding.Negotiator) ParserOption {
	return &parserOption{option.New(identUnknownEncoding{}, v)}
}

// WithBase specifies the base URI recorded for entity declarations.
func WithBase(v string) ParserOption {
	return &parserOption{option.New(identBase{}, v)}
}

// WithParamEntityParsing controls whether the external DTD subset and
// external parameter entities are requested.
func WithParamEntityParsing(v ParamEntityParsing) ParserOption {
	return &parserOption{option.New(identParamEntityParsing{}, v)}
}

// WithNamespaces enables namespace processing. Qualified names are
// reported as the namespace URI and the local name joined by sep.
func WithNamespaces(sep string) ParserOption {
	return &parserOption{option.New(identNamespaces{}, sep)}
}

// WithTraceLogger specifies the logger that receives lifecycle and
// entity resolution traces.
func WithTraceLogger(v *slog.Logger) ParserOption {
	return &parserOption{option.New(identTraceLogger{}, v)}
}
