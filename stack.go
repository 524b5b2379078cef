package xmlpush

import "github.com/lestrrat-go/xmlpush/internal/stack"

type tagEntry struct {
	// qname as written in the start tag; the end tag must match it
	qname string
	// name as reported to callbacks
	name     string
	bindings int
}

type tagStack struct {
	stack.Simple[tagEntry]
}

func (s *tagStack) Peek() (tagEntry, bool) {
	return s.Simple.Top()
}

// openEntity is pushed while an entity's replacement text is being
// processed, so that a reference back to it can be detected.
type openEntity struct {
	key string
}

func (e openEntity) Key() string {
	return e.key
}

func entityKey(name string, param bool) string {
	if param {
		return "%" + name
	}
	return "&" + name
}
