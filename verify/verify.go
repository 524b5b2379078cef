// Package verify checks declarations reported by the parser against
// expected values. It is meant for tests and conformance harnesses.
package verify

import (
	"bytes"
	"fmt"

	"github.com/lestrrat-go/xmlpush/sax"
)

type Verdict int

const (
	NotFound Verdict = iota
	Success
	Fail
)

func (v Verdict) String() string {
	switch v {
	case NotFound:
		return "not found"
	case Success:
		return "success"
	case Fail:
		return "fail"
	}
	return "unknown"
}

// Session holds one expectation and the verdict reached so far. Each
// check owns its session, so checks never see each other's state.
type Session struct {
	name     string
	value    []byte
	expected bool
	verdict  Verdict
}

// InitMatch records the parameter entity to look for and resets the
// verdict to NotFound.
func (s *Session) InitMatch(name string, value []byte) {
	s.name = name
	s.value = append([]byte(nil), value...)
	s.expected = true
	s.verdict = NotFound
}

// ObserveEntityDecl compares a declaration against the expectation. Only
// parameter entities with the expected name are looked at; anything
// else leaves the verdict as it was.
func (s *Session) ObserveEntityDecl(ev sax.EntityDecl) {
	if !s.expected || !ev.IsParameterEntity || ev.Name != s.name {
		return
	}
	if len(ev.Value) == len(s.value) && bytes.Equal(ev.Value, s.value) {
		s.verdict = Success
		return
	}
	s.verdict = Fail
}

func (s *Session) Verdict() Verdict {
	return s.verdict
}

// EntityDeclHandler returns a callback that feeds every entity
// declaration to the session.
func (s *Session) EntityDeclHandler() sax.EntityDeclFunc {
	return func(_ sax.Context, ev sax.EntityDecl) error {
		s.ObserveEntityDecl(ev)
		return nil
	}
}

// Mismatch describes an attribute declaration that differs from the
// expected one.
type Mismatch struct {
	Field string
	Got   string
	Want  string
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("attribute declaration mismatch in %s: got %s, want %s", m.Field, m.Got, m.Want)
}

// CheckAttlistDecl compares every field of got against want. Default
// values are equal when both are absent or both are present with the
// same text.
func CheckAttlistDecl(got, want sax.AttlistDecl) error {
	switch {
	case got.ElementName != want.ElementName:
		return &Mismatch{Field: "element name", Got: got.ElementName, Want: want.ElementName}
	case got.AttrName != want.AttrName:
		return &Mismatch{Field: "attribute name", Got: got.AttrName, Want: want.AttrName}
	case got.AttrType != want.AttrType:
		return &Mismatch{Field: "attribute type", Got: got.AttrType, Want: want.AttrType}
	case !sameDefault(got.DefaultValue, want.DefaultValue):
		return &Mismatch{Field: "default value", Got: describeDefault(got.DefaultValue), Want: describeDefault(want.DefaultValue)}
	case got.IsRequired != want.IsRequired:
		return &Mismatch{Field: "required flag", Got: fmt.Sprint(got.IsRequired), Want: fmt.Sprint(want.IsRequired)}
	}
	return nil
}

func sameDefault(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func describeDefault(v *string) string {
	if v == nil {
		return "no default"
	}
	return fmt.Sprintf("%q", *v)
}

// AttlistDeclHandler returns a callback that checks each attribute
// declaration against want. Mismatches are passed to report; a non-nil
// error from report aborts the parse.
func AttlistDeclHandler(want sax.AttlistDecl, report func(error) error) sax.AttlistDeclFunc {
	return func(_ sax.Context, got sax.AttlistDecl) error {
		if err := CheckAttlistDecl(got, want); err != nil {
			return report(err)
		}
		return nil
	}
}
