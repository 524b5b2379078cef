package encoding

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// Identity returns a negotiator that accepts the given names with a
// table mapping every byte to itself, and rejects everything else.
func Identity(names ...string) Negotiator {
	return func(_ any, name string, t *Table) error {
		for _, n := range names {
			if strings.EqualFold(n, name) {
				t.Identity()
				return nil
			}
		}
		return ErrUnsupported
	}
}

// Charmap returns a negotiator that looks the name up in the IANA
// registry and accepts it when golang.org/x/text provides a single-byte
// charmap for it.
func Charmap() Negotiator {
	return func(_ any, name string, t *Table) error {
		e, err := ianaindex.IANA.Encoding(name)
		if err != nil || e == nil {
			return ErrUnsupported
		}
		cm, ok := e.(*charmap.Charmap)
		if !ok {
			return ErrUnsupported
		}
		for i := range t.Map {
			r := cm.DecodeByte(byte(i))
			if r == utf8.RuneError {
				t.Map[i] = Invalid
				continue
			}
			t.Map[i] = int(r)
		}
		return nil
	}
}

// Chain tries each negotiator in order and uses the first table that is
// accepted. A rejecting negotiator's Release is called before moving on.
func Chain(list ...Negotiator) Negotiator {
	return func(data any, name string, t *Table) error {
		for _, n := range list {
			var candidate Table
			if err := n(data, name, &candidate); err != nil {
				if candidate.Release != nil {
					candidate.Release(candidate.Data)
				}
				continue
			}
			*t = candidate
			return nil
		}
		return ErrUnsupported
	}
}
