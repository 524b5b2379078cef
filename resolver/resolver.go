// Package resolver contains the policies used to answer external
// entity requests. A Policy is one of a fixed set of variants; its
// Resolve method has the signature of xmlpush.ExternalEntityRefFunc.
//
//	p := xmlpush.NewParser(
//	  xmlpush.WithExternalEntityRef(resolver.Load("<e/>", "").Resolve),
//	)
//
// Policies that parse the entity create exactly one child parser per
// request and free it before Resolve returns.
package resolver

import (
	"fmt"

	"github.com/lestrrat-go/pdebug"
	"github.com/lestrrat-go/xmlpush"
	"github.com/pkg/errors"
)

type Kind int

const (
	// KindSelector picks the replacement text by system identifier.
	KindSelector Kind = iota
	// KindLoader always supplies the same replacement text.
	KindLoader
	// KindFaulter supplies malformed text and expects a specific error.
	KindFaulter
	// KindSuppressor accepts every request without parsing anything.
	KindSuppressor
)

func (k Kind) String() string {
	switch k {
	case KindSelector:
		return "selector"
	case KindLoader:
		return "loader"
	case KindFaulter:
		return "faulter"
	case KindSuppressor:
		return "suppressor"
	}
	return "unknown"
}

// Candidate is one possible answer for the selector policy. Encoding,
// when set, overrides the encoding of the child parser.
type Candidate struct {
	SystemID string
	Text     string
	Encoding string
}

type Policy struct {
	kind       Kind
	candidates []Candidate
	text       string
	encoding   string
	code       xmlpush.ErrorCode
	failText   string
}

// Select creates a policy that parses the text of the first candidate
// whose SystemID equals the requested one. A request no candidate
// matches is a Fault.
func Select(candidates ...Candidate) *Policy {
	return &Policy{
		kind:       KindSelector,
		candidates: candidates,
	}
}

// Load creates a policy that parses text for every request, with the
// given encoding override unless it is empty. Errors from the child
// parser are returned as is.
func Load(text, encoding string) *Policy {
	return &Policy{
		kind:     KindLoader,
		text:     text,
		encoding: encoding,
	}
}

// Inject creates a policy for testing error paths: text must fail to
// parse with code. When it does the child's error is returned, which
// rejects the reference. Any other outcome is a Fault described by
// failText.
func Inject(text, encoding string, code xmlpush.ErrorCode, failText string) *Policy {
	return &Policy{
		kind:     KindFaulter,
		text:     text,
		encoding: encoding,
		code:     code,
		failText: failText,
	}
}

// Suppress creates a policy that accepts every request without reading
// the entity, so that its content is skipped.
func Suppress() *Policy {
	return &Policy{kind: KindSuppressor}
}

// Kind reports which variant p is.
func (p *Policy) Kind() Kind {
	return p.kind
}

// Resolve answers req on behalf of parser.
func (p *Policy) Resolve(parser *xmlpush.Parser, req xmlpush.EntityRequest) error {
	if pdebug.Enabled {
		g := pdebug.Marker("Policy.Resolve %s", p.kind)
		defer g.End()
		pdebug.Printf("resolving %q", req.SystemID)
	}

	switch p.kind {
	case KindSelector:
		for _, c := range p.candidates {
			if c.SystemID == req.SystemID {
				return p.parseChild(parser, req, c.Text, c.Encoding)
			}
		}
		return &Fault{
			Kind:     p.kind,
			SystemID: req.SystemID,
			Msg:      "no candidate matches the system identifier",
		}
	case KindLoader:
		return p.parseChild(parser, req, p.text, p.encoding)
	case KindFaulter:
		err := p.parseChild(parser, req, p.text, p.encoding)
		var fault *Fault
		switch {
		case errors.As(err, &fault):
			return err
		case err == nil:
			return &Fault{
				Kind:     p.kind,
				SystemID: req.SystemID,
				Msg:      p.failText,
			}
		case !errors.Is(err, p.code):
			return &Fault{
				Kind:     p.kind,
				SystemID: req.SystemID,
				Msg:      fmt.Sprintf("expected %q", p.code),
				Err:      err,
			}
		}
		return err
	case KindSuppressor:
		return nil
	}
	return errors.Errorf("unknown policy kind %d", int(p.kind))
}

// parseChild feeds text to a new child of parent in a single call.
func (p *Policy) parseChild(parent *xmlpush.Parser, req xmlpush.EntityRequest, text, encoding string) error {
	child, err := parent.NewEntityParser(req.Context, "")
	if err != nil {
		return errors.Wrap(err, `failed to create entity parser`)
	}
	defer child.Free()

	if encoding != "" {
		if err := child.SetEncoding(encoding); err != nil {
			return &Fault{
				Kind:     p.kind,
				SystemID: req.SystemID,
				Msg:      fmt.Sprintf("encoding %q was not accepted", encoding),
				Err:      err,
			}
		}
	}

	st, err := child.Feed([]byte(text), true)
	switch {
	case err != nil:
		// The override outranks any declaration, so an unknown encoding
		// can only be the configured one.
		if encoding != "" && errors.Is(err, xmlpush.ErrUnknownEncoding) {
			return &Fault{
				Kind:     p.kind,
				SystemID: req.SystemID,
				Msg:      fmt.Sprintf("encoding %q was not accepted", encoding),
				Err:      err,
			}
		}
		return err
	case st == xmlpush.StatusSuspended:
		// The child is freed before this returns, so it can never be
		// resumed.
		return &Fault{
			Kind:     p.kind,
			SystemID: req.SystemID,
			Msg:      "entity parser was suspended",
		}
	}
	return nil
}

// Fault reports a policy that could not do what it was configured to
// do. It is a problem with the configuration, not with the document.
type Fault struct {
	Kind     Kind
	SystemID string
	Msg      string
	Err      error
}

func (f *Fault) Error() string {
	msg := fmt.Sprintf("%s policy fault for %q: %s", f.Kind, f.SystemID, f.Msg)
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

func (f *Fault) Unwrap() error {
	return f.Err
}
