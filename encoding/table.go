package encoding

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// Values stored in Table.Map that are not code points.
const (
	// Invalid marks a byte that may never appear in the input.
	Invalid = -1
	// MultiByte2 through MultiByte4 mark the lead byte of a sequence of
	// that many bytes, which must be decoded by Table.Convert.
	MultiByte2 = -2
	MultiByte3 = -3
	MultiByte4 = -4
)

var (
	ErrInvalidByte  = errors.New("invalid byte for encoding")
	ErrInvalidTable = errors.New("invalid encoding table")
)

// Table maps each byte value to a Unicode scalar value. It is filled in
// by a Negotiator when the parser meets an encoding name it does not
// recognize natively.
type Table struct {
	Map [256]int
	// Data is opaque conversion state handed back to Convert and Release.
	Data any
	// Convert decodes a multi-byte sequence whose lead byte is marked
	// with one of the MultiByteN values. It returns a negative value for
	// an invalid sequence.
	Convert func(data any, seq []byte) rune
	// Release, if set, is invoked exactly once by the parser when the
	// table is no longer needed. This includes the case where the
	// negotiation was rejected.
	Release func(data any)
}

// Negotiator fills t for the encoding called name, or returns an error
// to reject it. data is the user data registered with the parser.
// Negotiators must not keep state between calls.
type Negotiator func(data any, name string, t *Table) error

// Validate checks that the table can be used to decode XML: all
// markup-significant ASCII bytes must map to themselves, multi-byte
// markers need a Convert function, and every other value must be a
// valid scalar value.
func (t *Table) Validate() error {
	for i, v := range t.Map {
		switch {
		case v == Invalid:
			if isMarkupASCII(i) {
				return fmt.Errorf("%w: byte %#02x must map to itself", ErrInvalidTable, i)
			}
		case v <= MultiByte2 && v >= MultiByte4:
			if t.Convert == nil {
				return fmt.Errorf("%w: byte %#02x needs a converter", ErrInvalidTable, i)
			}
			if i < 0x80 {
				return fmt.Errorf("%w: ASCII byte %#02x cannot start a sequence", ErrInvalidTable, i)
			}
		case v < MultiByte4:
			return fmt.Errorf("%w: byte %#02x has bad value %d", ErrInvalidTable, i, v)
		default:
			if isMarkupASCII(i) && v != i {
				return fmt.Errorf("%w: byte %#02x must map to itself", ErrInvalidTable, i)
			}
			if !utf8.ValidRune(rune(v)) {
				return fmt.Errorf("%w: byte %#02x maps to invalid code point %#x", ErrInvalidTable, i, v)
			}
		}
	}
	return nil
}

func isMarkupASCII(b int) bool {
	return b == 0x09 || b == 0x0A || b == 0x0D || (b >= 0x20 && b < 0x7F)
}

// Identity fills in a table where every byte decodes to itself.
func (t *Table) Identity() {
	for i := range t.Map {
		t.Map[i] = i
	}
}

// ASCII returns the table used for US-ASCII input.
func ASCII() *Table {
	var t Table
	for i := range t.Map {
		if i < 0x80 {
			t.Map[i] = i
		} else {
			t.Map[i] = Invalid
		}
	}
	return &t
}

type tableDecoder struct {
	table *Table
}

// NewTableDecoder creates a transformer that decodes bytes into UTF-8
// using t.
func NewTableDecoder(t *Table) transform.Transformer {
	return &tableDecoder{table: t}
}

func (d *tableDecoder) Reset() {}

func (d *tableDecoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	t := d.table
	for nSrc < len(src) {
		v := t.Map[src[nSrc]]
		n := 1
		var r rune
		switch {
		case v >= 0:
			r = rune(v)
		case v <= MultiByte2 && v >= MultiByte4:
			n = -v
			if nSrc+n > len(src) {
				if atEOF {
					return nDst, nSrc, ErrInvalidByte
				}
				return nDst, nSrc, transform.ErrShortSrc
			}
			if t.Convert == nil {
				return nDst, nSrc, ErrInvalidByte
			}
			r = t.Convert(t.Data, src[nSrc:nSrc+n])
		default:
			return nDst, nSrc, ErrInvalidByte
		}
		if r < 0 || !utf8.ValidRune(r) {
			return nDst, nSrc, ErrInvalidByte
		}
		if nDst+utf8.RuneLen(r) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc += n
	}
	return nDst, nSrc, nil
}
