package xmlpush

import (
	"github.com/lestrrat-go/xmlpush/internal/orderedmap"
	"github.com/lestrrat-go/xmlpush/sax"
)

// entity is a declared general or parameter entity. Internal entities
// carry their replacement text; external ones carry identifiers.
type entity struct {
	name     string
	param    bool
	internal bool
	value    []byte
	base     string
	systemID string
	publicID string
	notation string
}

func (e *entity) decl() sax.EntityDecl {
	ev := sax.EntityDecl{
		Name:              e.name,
		IsParameterEntity: e.param,
		NotationName:      e.notation,
	}
	if e.internal {
		ev.Value = e.value
		if ev.Value == nil {
			ev.Value = []byte{}
		}
		return ev
	}
	ev.Base = e.base
	ev.SystemID = e.systemID
	ev.PublicID = e.publicID
	return ev
}

func (e *entity) unparsed() bool {
	return e.notation != ""
}

// dtd holds the declarations collected from the internal and external
// subsets. It is shared between a parser and the children it creates,
// so declarations read by a child are visible to its parent.
type dtd struct {
	general  map[string]*entity
	param    map[string]*entity
	attlists map[string]*orderedmap.Map[string, sax.AttlistDecl]
	// set once a parameter entity reference or an external subset has
	// been seen
	hasParamEntityRefs bool
	// set when a child parser starts reading declarations
	paramEntityRead bool
}

func newDTD() *dtd {
	return &dtd{
		general:  make(map[string]*entity),
		param:    make(map[string]*entity),
		attlists: make(map[string]*orderedmap.Map[string, sax.AttlistDecl]),
	}
}

// declareEntity records e. The first declaration of a name wins; false
// is returned for later ones.
func (d *dtd) declareEntity(e *entity) bool {
	table := d.general
	if e.param {
		table = d.param
	}
	if _, exists := table[e.name]; exists {
		return false
	}
	table[e.name] = e
	return true
}

func (d *dtd) lookupEntity(name string, param bool) *entity {
	if param {
		return d.param[name]
	}
	return d.general[name]
}

// declareAttribute records an attribute definition. As with entities,
// the first definition of an attribute is binding.
func (d *dtd) declareAttribute(decl sax.AttlistDecl) {
	m, ok := d.attlists[decl.ElementName]
	if !ok {
		m = orderedmap.New[string, sax.AttlistDecl]()
		d.attlists[decl.ElementName] = m
	}
	_ = m.Set(decl.AttrName, decl)
}

func (d *dtd) attributeType(elem, attr string) string {
	if m, ok := d.attlists[elem]; ok {
		if decl, ok := m.Get(attr); ok {
			return decl.AttrType
		}
	}
	return ""
}

// applyDefaults appends the declared defaults of elem that are missing
// from attrs.
func (d *dtd) applyDefaults(elem string, attrs []sax.Attribute) []sax.Attribute {
	m, ok := d.attlists[elem]
	if !ok {
		return attrs
	}
	for name, decl := range m.Range() {
		if decl.DefaultValue == nil || hasAttribute(attrs, name) {
			continue
		}
		attrs = append(attrs, sax.Attribute{
			Name:  name,
			Value: *decl.DefaultValue,
		})
	}
	return attrs
}

func hasAttribute(attrs []sax.Attribute, name string) bool {
	for _, a := range attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}
