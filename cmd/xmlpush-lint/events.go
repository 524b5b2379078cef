package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/lestrrat-go/xmlpush/sax"
)

// newEventPrinter returns callbacks that write one line per event.
func newEventPrinter(w io.Writer) *sax.SAX2 {
	s := sax.New()
	s.XMLDeclHandler = func(_ sax.Context, version, encoding string, standalone int) error {
		_, err := fmt.Fprintf(w, "XMLDecl(%q, %q, %d)\n", version, encoding, standalone)
		return err
	}
	s.StartDoctypeDeclHandler = func(_ sax.Context, name, systemID, publicID string, hasInternalSubset bool) error {
		_, err := fmt.Fprintf(w, "StartDoctypeDecl(%s, %q, %q, %t)\n", name, systemID, publicID, hasInternalSubset)
		return err
	}
	s.EndDoctypeDeclHandler = func(_ sax.Context) error {
		_, err := fmt.Fprintln(w, "EndDoctypeDecl()")
		return err
	}
	s.EntityDeclHandler = func(_ sax.Context, decl sax.EntityDecl) error {
		_, err := fmt.Fprintf(w, "EntityDecl(%s, %t, %q, %q)\n", decl.Name, decl.IsParameterEntity, decl.Value, decl.SystemID)
		return err
	}
	s.AttlistDeclHandler = func(_ sax.Context, decl sax.AttlistDecl) error {
		def := "<none>"
		if decl.DefaultValue != nil {
			def = fmt.Sprintf("%q", *decl.DefaultValue)
		}
		_, err := fmt.Fprintf(w, "AttlistDecl(%s, %s, %s, %s, %t)\n", decl.ElementName, decl.AttrName, decl.AttrType, def, decl.IsRequired)
		return err
	}
	s.ElementDeclHandler = func(_ sax.Context, name, model string) error {
		_, err := fmt.Fprintf(w, "ElementDecl(%s, %s)\n", name, model)
		return err
	}
	s.NotationDeclHandler = func(_ sax.Context, name, _, systemID, publicID string) error {
		_, err := fmt.Fprintf(w, "NotationDecl(%s, %q, %q)\n", name, systemID, publicID)
		return err
	}
	s.StartElementHandler = func(_ sax.Context, name string, attrs []sax.Attribute) error {
		parts := make([]string, 0, len(attrs))
		for _, a := range attrs {
			parts = append(parts, fmt.Sprintf("%s=%q", a.Name, a.Value))
		}
		_, err := fmt.Fprintf(w, "StartElement(%s, [%s])\n", name, strings.Join(parts, " "))
		return err
	}
	s.EndElementHandler = func(_ sax.Context, name string) error {
		_, err := fmt.Fprintf(w, "EndElement(%s)\n", name)
		return err
	}
	s.CharacterDataHandler = func(_ sax.Context, data []byte) error {
		_, err := fmt.Fprintf(w, "CharacterData(%q)\n", data)
		return err
	}
	s.StartCDATAHandler = func(_ sax.Context) error {
		_, err := fmt.Fprintln(w, "StartCDATA()")
		return err
	}
	s.EndCDATAHandler = func(_ sax.Context) error {
		_, err := fmt.Fprintln(w, "EndCDATA()")
		return err
	}
	s.CommentHandler = func(_ sax.Context, data []byte) error {
		_, err := fmt.Fprintf(w, "Comment(%q)\n", data)
		return err
	}
	s.ProcessingInstructionHandler = func(_ sax.Context, target, data string) error {
		_, err := fmt.Fprintf(w, "ProcessingInstruction(%s, %q)\n", target, data)
		return err
	}
	s.SkippedEntityHandler = func(_ sax.Context, name string, isParameterEntity bool) error {
		_, err := fmt.Fprintf(w, "SkippedEntity(%s, %t)\n", name, isParameterEntity)
		return err
	}
	return s
}
