// Package nsstack tracks namespace prefix bindings. Inner scopes may
// rebind a prefix; the most recent binding wins.
package nsstack

import "github.com/lestrrat-go/xmlpush/internal/stack"

type Item struct {
	prefix string
	href   string
}

func (i Item) Prefix() string {
	return i.prefix
}

func (i Item) URI() string {
	return i.href
}

type Stack struct {
	stack.Simple[Item]
}

func New() Stack {
	return Stack{}
}

func (s *Stack) Push(prefix, uri string) {
	s.Simple.Push(Item{prefix: prefix, href: uri})
}

// Lookup returns the URI bound to prefix. An empty URI means the prefix
// was explicitly unbound (only possible for the default namespace).
func (s *Stack) Lookup(prefix string) (string, bool) {
	for i := s.Len() - 1; i >= 0; i-- {
		if s.Simple[i].prefix == prefix {
			return s.Simple[i].href, true
		}
	}
	return "", false
}

// Bindings returns a snapshot of the bindings currently in scope,
// outermost first.
func (s *Stack) Bindings() []Item {
	return append([]Item(nil), s.Simple...)
}

// Restore replaces the stack contents with a snapshot taken by Bindings.
func (s *Stack) Restore(items []Item) {
	s.Simple = append(stack.Simple[Item](nil), items...)
}
