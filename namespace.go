package xmlpush

import (
	"strings"

	"github.com/lestrrat-go/xmlpush/sax"
)

const (
	xmlNamespace   = "http://www.w3.org/XML/1998/namespace"
	xmlnsNamespace = "http://www.w3.org/2000/xmlns/"
)

// expandNames binds the namespace declarations of a start tag and
// rewrites the element and attribute names as URI, separator, local
// name. Declarations are removed from the attribute list. It returns the
// number of bindings pushed.
func (p *Parser) expandNames(qname string, attrs []sax.Attribute) (string, []sax.Attribute, int, error) {
	pushed := 0
	kept := make([]sax.Attribute, 0, len(attrs))
	for _, a := range attrs {
		switch {
		case a.Name == "xmlns":
			if a.Value == xmlNamespace || a.Value == xmlnsNamespace {
				return "", nil, pushed, ErrUnboundPrefix
			}
			p.ns.Push("", a.Value)
			pushed++
		case strings.HasPrefix(a.Name, "xmlns:"):
			prefix := a.Name[len("xmlns:"):]
			if a.Value == "" || prefix == "xmlns" || (prefix == "xml") != (a.Value == xmlNamespace) {
				return "", nil, pushed, ErrUnboundPrefix
			}
			p.ns.Push(prefix, a.Value)
			pushed++
		default:
			kept = append(kept, a)
		}
	}

	name, err := p.expandName(qname, true)
	if err != nil {
		return "", nil, pushed, err
	}
	for i := range kept {
		if kept[i].Name, err = p.expandName(kept[i].Name, false); err != nil {
			return "", nil, pushed, err
		}
	}
	for i := range kept {
		for j := i + 1; j < len(kept); j++ {
			if kept[i].Name == kept[j].Name {
				return "", nil, pushed, ErrDuplicateAttribute
			}
		}
	}
	return name, kept, pushed, nil
}

// expandName resolves one qualified name. Unprefixed attribute names are
// not in any namespace, so useDefault is false for them.
func (p *Parser) expandName(qname string, useDefault bool) (string, error) {
	prefix, local, found := strings.Cut(qname, ":")
	if !found {
		if !useDefault {
			return qname, nil
		}
		uri, _ := p.ns.Lookup("")
		if uri == "" {
			return qname, nil
		}
		return uri + p.nsSep + qname, nil
	}
	if prefix == "" || local == "" {
		return "", ErrInvalidToken
	}
	if prefix == "xml" {
		return xmlNamespace + p.nsSep + local, nil
	}
	uri, ok := p.ns.Lookup(prefix)
	if !ok {
		return "", ErrUnboundPrefix
	}
	return uri + p.nsSep + local, nil
}

func (p *Parser) popBindings(n int) {
	if n > 0 {
		p.ns.Pop(n)
	}
}
