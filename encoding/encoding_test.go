package encoding

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

func TestNative(t *testing.T) {
	for _, name := range []string{"UTF-8", "utf-16", "UTF-16LE", "utf-16be", "ISO-8859-1", "US-ASCII"} {
		_, ok := Native(name)
		require.True(t, ok, "%s should be native", name)
	}
	for _, name := range []string{"unsupported-encoding", "iso-8859-2", "shift_jis"} {
		_, ok := Native(name)
		require.False(t, ok, "%s should not be native", name)
	}
}

func TestIdentityRoundTrip(t *testing.T) {
	var tbl Table
	require.NoError(t, Identity("unsupported-encoding")(nil, "Unsupported-Encoding", &tbl))
	require.Nil(t, tbl.Data)
	require.Nil(t, tbl.Convert)
	require.Nil(t, tbl.Release)
	require.NoError(t, tbl.Validate())

	dec := NewTableDecoder(&tbl)
	for i := 0; i < 256; i++ {
		out, _, err := transform.Bytes(dec, []byte{byte(i)})
		require.NoError(t, err, "byte %#02x", i)
		r, _ := utf8.DecodeRune(out)
		require.Equal(t, rune(i), r, "byte %#02x should decode to itself", i)
	}
}

func TestIdentityReject(t *testing.T) {
	var tbl Table
	require.ErrorIs(t, Identity("unsupported-encoding")(nil, "other", &tbl), ErrUnsupported)
}

func TestCharmap(t *testing.T) {
	var tbl Table
	require.NoError(t, Charmap()(nil, "ISO-8859-2", &tbl))
	require.NoError(t, tbl.Validate())
	require.Equal(t, 0x104, tbl.Map[0xA1], "0xA1 is LATIN CAPITAL LETTER A WITH OGONEK")
	require.Equal(t, int('<'), tbl.Map['<'])

	out, _, err := transform.String(NewTableDecoder(&tbl), "\xa1b")
	require.NoError(t, err)
	require.Equal(t, "Ąb", out)

	require.Error(t, Charmap()(nil, "no-such-charset", &Table{}))
	require.Error(t, Charmap()(nil, "UTF-8", &Table{}), "multi-byte encodings are not charmaps")
}

func TestChainReleasesRejected(t *testing.T) {
	released := 0
	rejecting := func(_ any, _ string, t *Table) error {
		t.Release = func(any) { released++ }
		return ErrUnsupported
	}
	var tbl Table
	require.NoError(t, Chain(rejecting, Identity("x-user"))(nil, "x-user", &tbl))
	require.Equal(t, 1, released)
	require.Nil(t, tbl.Release)
}

func TestValidate(t *testing.T) {
	t.Run("markup byte remapped", func(t *testing.T) {
		var tbl Table
		tbl.Identity()
		tbl.Map['<'] = 'x'
		require.ErrorIs(t, tbl.Validate(), ErrInvalidTable)
	})
	t.Run("multibyte without converter", func(t *testing.T) {
		var tbl Table
		tbl.Identity()
		tbl.Map[0x81] = MultiByte2
		require.ErrorIs(t, tbl.Validate(), ErrInvalidTable)
	})
	t.Run("bad marker", func(t *testing.T) {
		var tbl Table
		tbl.Identity()
		tbl.Map[0x81] = -7
		require.ErrorIs(t, tbl.Validate(), ErrInvalidTable)
	})
}

func TestTableMultiByte(t *testing.T) {
	var tbl Table
	tbl.Identity()
	tbl.Map[0x81] = MultiByte2
	tbl.Convert = func(_ any, seq []byte) rune {
		return 0x3000 + rune(seq[1])
	}
	require.NoError(t, tbl.Validate())

	dec := NewTableDecoder(&tbl)
	out, _, err := transform.String(dec, "a\x81\x41b")
	require.NoError(t, err)
	require.Equal(t, "aぁb", out)

	dst := make([]byte, 16)
	_, nSrc, err := dec.Transform(dst, []byte("a\x81"), false)
	require.ErrorIs(t, err, transform.ErrShortSrc)
	require.Equal(t, 1, nSrc)
}

func TestASCII(t *testing.T) {
	dec := NewTableDecoder(ASCII())
	_, _, err := transform.String(dec, "abc\x80")
	require.ErrorIs(t, err, ErrInvalidByte)
}

func TestUTF8Validator(t *testing.T) {
	v, ok := Native("utf-8")
	require.True(t, ok)

	out, _, err := transform.String(v, "héllo")
	require.NoError(t, err)
	require.Equal(t, "héllo", out)

	_, _, err = transform.String(v, "bad\x80")
	require.ErrorIs(t, err, xencoding.ErrInvalidUTF8)

	dst := make([]byte, 16)
	n, nSrc, err := v.Transform(dst, []byte("a\xc3"), false)
	require.ErrorIs(t, err, transform.ErrShortSrc, "a cut off sequence waits for more input")
	require.Equal(t, 1, n)
	require.Equal(t, 1, nSrc)
}

func TestUTF16Decoder(t *testing.T) {
	le := func() transform.Transformer {
		dec, ok := Native("utf-16le")
		require.True(t, ok)
		return dec
	}

	out, _, err := transform.Bytes(le(), []byte{'a', 0, 0x3D, 0xD8, 0x00, 0xDE})
	require.NoError(t, err)
	require.Equal(t, "a\U0001F600", string(out), "surrogate pairs are decoded")

	_, _, err = transform.Bytes(le(), []byte{'a', 0, 0x00, 0xD8, 'b', 0})
	require.ErrorIs(t, err, ErrInvalidByte, "a high surrogate must be followed by a low one")

	_, _, err = transform.Bytes(le(), []byte{'a', 0, 0x00, 0xDC})
	require.ErrorIs(t, err, ErrInvalidByte, "a low surrogate may not stand alone")

	dst := make([]byte, 16)
	dec := le()
	n, nSrc, err := dec.Transform(dst, []byte{'a', 0, 0x3D, 0xD8}, false)
	require.ErrorIs(t, err, transform.ErrShortSrc, "half of a pair waits for more input")
	require.Equal(t, 1, n)
	require.Equal(t, 2, nSrc)

	dec = le()
	n, nSrc, err = dec.Transform(dst, []byte{'a', 0, 'b'}, true)
	require.ErrorIs(t, err, ErrTruncated, "an odd byte at the end is a partial character")
	require.Equal(t, 1, n)
	require.Equal(t, 2, nSrc)

	withBOM, ok := Native("utf-16")
	require.True(t, ok)
	out, _, err = transform.Bytes(withBOM, []byte{0xFF, 0xFE, 'a', 0, 0x3D, 0xD8, 0x00, 0xDE})
	require.NoError(t, err)
	require.Equal(t, "a\U0001F600", string(out), "the byte order mark decides the endianness")
}
