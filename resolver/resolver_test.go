package resolver_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/lestrrat-go/xmlpush"
	"github.com/lestrrat-go/xmlpush/resolver"
	"github.com/lestrrat-go/xmlpush/sax"
	"github.com/stretchr/testify/require"
)

const document = `<!DOCTYPE doc [<!ENTITY e SYSTEM "%s">]><doc>&e;</doc>`

// recorder collects element names and text reported by the parser and
// every child it creates.
func recorder(out *bytes.Buffer) *sax.SAX2 {
	h := sax.New()
	h.StartElementHandler = func(_ sax.Context, name string, _ []sax.Attribute) error {
		fmt.Fprintf(out, "<%s>", name)
		return nil
	}
	h.EndElementHandler = func(_ sax.Context, name string) error {
		fmt.Fprintf(out, "</%s>", name)
		return nil
	}
	h.CharacterDataHandler = func(_ sax.Context, data []byte) error {
		out.Write(data)
		return nil
	}
	return h
}

func parse(t *testing.T, policy *resolver.Policy, systemID string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	p := xmlpush.NewParser(
		xmlpush.WithHandler(recorder(&out)),
		xmlpush.WithExternalEntityRef(policy.Resolve),
	)
	defer p.Free()
	_, err := p.Feed([]byte(fmt.Sprintf(document, systemID)), true)
	return out.String(), err
}

func TestKind(t *testing.T) {
	require.Equal(t, resolver.KindSelector, resolver.Select().Kind())
	require.Equal(t, resolver.KindLoader, resolver.Load("", "").Kind())
	require.Equal(t, resolver.KindFaulter, resolver.Inject("", "", xmlpush.ErrSyntax, "").Kind())
	require.Equal(t, resolver.KindSuppressor, resolver.Suppress().Kind())
	require.Equal(t, "selector", resolver.KindSelector.String())
	require.Equal(t, "suppressor", resolver.KindSuppressor.String())
}

func TestSelect(t *testing.T) {
	policy := resolver.Select(
		resolver.Candidate{SystemID: "A", Text: "<a/>"},
		resolver.Candidate{SystemID: "B", Text: "<b/>"},
	)

	t.Run("matching candidate", func(t *testing.T) {
		out, err := parse(t, policy, "B")
		require.NoError(t, err, "the request is accepted")
		require.Equal(t, "<doc><b></b></doc>", out, "the text of the matching candidate is parsed")
	})
	t.Run("no candidate", func(t *testing.T) {
		_, err := parse(t, policy, "C")
		require.ErrorIs(t, err, xmlpush.ErrExternalEntityHandling)

		var fault *resolver.Fault
		require.ErrorAs(t, err, &fault)
		require.Equal(t, resolver.KindSelector, fault.Kind)
		require.Equal(t, "C", fault.SystemID)
	})
	t.Run("encoding override", func(t *testing.T) {
		latin1 := resolver.Select(resolver.Candidate{SystemID: "L", Text: "<l>\xe9</l>", Encoding: "iso-8859-1"})
		out, err := parse(t, latin1, "L")
		require.NoError(t, err, "the request is accepted")
		require.Equal(t, "<doc><l>é</l></doc>", out)
	})
	t.Run("unknown encoding", func(t *testing.T) {
		bogus := resolver.Select(resolver.Candidate{SystemID: "X", Text: "<x/>", Encoding: "x-bogus"})
		_, err := parse(t, bogus, "X")
		require.ErrorIs(t, err, xmlpush.ErrExternalEntityHandling)
		require.ErrorIs(t, err, xmlpush.ErrUnknownEncoding, "the child could not decode its input")

		var fault *resolver.Fault
		require.ErrorAs(t, err, &fault, "a rejected override is a configuration fault")
		require.Equal(t, resolver.KindSelector, fault.Kind)
		require.Equal(t, "X", fault.SystemID)
		require.Contains(t, fault.Msg, `"x-bogus"`)
	})
}

func TestLoad(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		out, err := parse(t, resolver.Load("<x>text</x>", ""), "any")
		require.NoError(t, err, "the request is accepted")
		require.Equal(t, "<doc><x>text</x></doc>", out)
	})
	t.Run("child failure", func(t *testing.T) {
		_, err := parse(t, resolver.Load("<x></y>", ""), "any")
		require.ErrorIs(t, err, xmlpush.ErrExternalEntityHandling)
		require.ErrorIs(t, err, xmlpush.ErrTagMismatch, "the child's error is returned verbatim")

		var fault *resolver.Fault
		require.False(t, errors.As(err, &fault), "a failing document is not a policy fault")
	})
}

func TestInject(t *testing.T) {
	t.Run("expected failure", func(t *testing.T) {
		_, err := parse(t, resolver.Inject("<x></y>", "", xmlpush.ErrTagMismatch, "should have failed"), "any")
		require.ErrorIs(t, err, xmlpush.ErrExternalEntityHandling)
		require.ErrorIs(t, err, xmlpush.ErrTagMismatch)

		var fault *resolver.Fault
		require.False(t, errors.As(err, &fault), "the injected failure is the expected outcome")
	})
	t.Run("unexpected success", func(t *testing.T) {
		_, err := parse(t, resolver.Inject("<x/>", "", xmlpush.ErrTagMismatch, "should have failed"), "any")
		require.ErrorIs(t, err, xmlpush.ErrExternalEntityHandling)

		var fault *resolver.Fault
		require.ErrorAs(t, err, &fault)
		require.Equal(t, resolver.KindFaulter, fault.Kind)
		require.Equal(t, "should have failed", fault.Msg)
		require.NoError(t, fault.Err)
	})
	t.Run("wrong error", func(t *testing.T) {
		_, err := parse(t, resolver.Inject("<x>&#0;</x>", "", xmlpush.ErrTagMismatch, "should have failed"), "any")

		var fault *resolver.Fault
		require.ErrorAs(t, err, &fault)
		require.ErrorIs(t, fault, xmlpush.ErrBadCharRef, "the unexpected error is kept")
		require.Contains(t, fault.Error(), "faulter policy fault")
	})
}

func TestSuppress(t *testing.T) {
	out, err := parse(t, resolver.Suppress(), "any")
	require.NoError(t, err, "every request is accepted")
	require.Equal(t, "<doc></doc>", out, "nothing is parsed")
}

func TestResolveExternalSubset(t *testing.T) {
	var out bytes.Buffer
	p := xmlpush.NewParser(
		xmlpush.WithHandler(recorder(&out)),
		xmlpush.WithParamEntityParsing(xmlpush.ParamEntityParsingAlways),
		xmlpush.WithExternalEntityRef(resolver.Select(resolver.Candidate{
			SystemID: "doc.dtd",
			Text:     `<?xml encoding="us-ascii"?><!ENTITY e "dtd">`,
		}).Resolve),
	)
	defer p.Free()

	_, err := p.Feed([]byte(`<!DOCTYPE doc SYSTEM "doc.dtd"><doc>&e;</doc>`), true)
	require.NoError(t, err, "parsing succeeds")
	require.Equal(t, "<doc>dtd</doc>", out.String())
}

func TestSuspendedChild(t *testing.T) {
	policy := resolver.Select(resolver.Candidate{SystemID: "outer", Text: "<x>&inner;</x>"})
	entityRef := func(p *xmlpush.Parser, req xmlpush.EntityRequest) error {
		if req.SystemID == "inner" {
			return p.Stop(true)
		}
		return policy.Resolve(p, req)
	}

	p := xmlpush.NewParser(xmlpush.WithExternalEntityRef(entityRef))
	defer p.Free()

	const input = `<!DOCTYPE doc [<!ENTITY outer SYSTEM "outer"><!ENTITY inner SYSTEM "inner">]><doc>&outer;</doc>`
	st, err := p.Feed([]byte(input), true)
	require.Equal(t, xmlpush.StatusError, st)
	require.ErrorIs(t, err, xmlpush.ErrExternalEntityHandling)

	var fault *resolver.Fault
	require.ErrorAs(t, err, &fault, "a child that cannot finish is not accepted")
	require.Equal(t, "outer", fault.SystemID)
	require.Equal(t, "entity parser was suspended", fault.Msg)
}

func TestMalformedExternalSubset(t *testing.T) {
	p := xmlpush.NewParser(
		xmlpush.WithParamEntityParsing(xmlpush.ParamEntityParsingAlways),
		xmlpush.WithExternalEntityRef(resolver.Load(`<!ATTLIST d a >`, "").Resolve),
	)
	defer p.Free()

	_, err := p.Feed([]byte(`<!DOCTYPE d SYSTEM "d.dtd"><d/>`), true)
	require.ErrorIs(t, err, xmlpush.ErrExternalEntityHandling)
	require.ErrorIs(t, err, xmlpush.ErrSyntax, "the child reports the broken declaration")
}
