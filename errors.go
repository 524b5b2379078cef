package xmlpush

import (
	"errors"
	"fmt"
)

// ErrorCode identifies why a parser operation failed. The last code is
// kept on the parser and is available through Parser.ErrorCode.
type ErrorCode int

const (
	ErrNone ErrorCode = iota
	ErrSyntax
	ErrNoElements
	ErrInvalidToken
	ErrUnclosedToken
	ErrPartialChar
	ErrTagMismatch
	ErrDuplicateAttribute
	ErrJunkAfterDocElement
	ErrParamEntityRef
	ErrUndefinedEntity
	ErrRecursiveEntityRef
	ErrAsyncEntity
	ErrBadCharRef
	ErrBinaryEntityRef
	ErrAttributeExternalEntityRef
	ErrMisplacedXMLPI
	ErrUnknownEncoding
	ErrIncorrectEncoding
	ErrUnclosedCDATASection
	ErrExternalEntityHandling
	ErrNotStandalone
	ErrUnboundPrefix
	ErrXMLDecl
	ErrTextDecl
	ErrCantChangeFeatureOnceParsing
	ErrAlreadySuspended
	ErrNotSuspended
	ErrAborted
	ErrAlreadyFinished
)

var errorMessages = map[ErrorCode]string{
	ErrNone:                         "no error",
	ErrSyntax:                       "syntax error",
	ErrNoElements:                   "no element found",
	ErrInvalidToken:                 "not well-formed (invalid token)",
	ErrUnclosedToken:                "unclosed token",
	ErrPartialChar:                  "partial character",
	ErrTagMismatch:                  "mismatched tag",
	ErrDuplicateAttribute:           "duplicate attribute",
	ErrJunkAfterDocElement:          "junk after document element",
	ErrParamEntityRef:               "illegal parameter entity reference",
	ErrUndefinedEntity:              "undefined entity",
	ErrRecursiveEntityRef:           "recursive entity reference",
	ErrAsyncEntity:                  "asynchronous entity",
	ErrBadCharRef:                   "reference to invalid character number",
	ErrBinaryEntityRef:              "reference to binary entity",
	ErrAttributeExternalEntityRef:   "reference to external entity in attribute",
	ErrMisplacedXMLPI:               "XML or text declaration not at start of entity",
	ErrUnknownEncoding:              "unknown encoding",
	ErrIncorrectEncoding:            "encoding specified in XML declaration is incorrect",
	ErrUnclosedCDATASection:         "unclosed CDATA section",
	ErrExternalEntityHandling:       "error in processing external entity reference",
	ErrNotStandalone:                "document is not standalone",
	ErrUnboundPrefix:                "unbound prefix",
	ErrXMLDecl:                      "XML declaration not well-formed",
	ErrTextDecl:                     "text declaration not well-formed",
	ErrCantChangeFeatureOnceParsing: "cannot change setting once parsing has begun",
	ErrAlreadySuspended:             "parser suspended",
	ErrNotSuspended:                 "parser not suspended",
	ErrAborted:                      "parsing aborted",
	ErrAlreadyFinished:              "parsing finished",
}

func (c ErrorCode) Error() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return fmt.Sprintf("unknown error code %d", int(c))
}

func (c ErrorCode) String() string {
	return c.Error()
}

// ParseError is returned when byte consumption fails. Line and Column
// point at the start of the event that failed. Err, when set, is the
// underlying cause: the error returned by a callback, or the rejection
// returned while resolving an external entity.
type ParseError struct {
	Code   ErrorCode
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at line %d, column %d: %s", e.Code, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%s at line %d, column %d", e.Code, e.Line, e.Column)
}

// Unwrap exposes both the code and the cause, so that errors.Is can
// match either.
func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Code, e.Err}
	}
	return []error{e.Code}
}

var errNeedMore = errors.New("need more input")

// codeOf extracts the error code carried by err. Errors that carry no
// code, such as those returned by callbacks, abort the parse.
func codeOf(err error) ErrorCode {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Code
	}
	var code ErrorCode
	if errors.As(err, &code) {
		return code
	}
	return ErrAborted
}
