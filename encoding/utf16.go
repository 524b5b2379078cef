package encoding

import (
	"unicode/utf16"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// utf16Decoder checks the code units of its input before handing them
// to the x/text decoder, which would replace unpaired surrogates and a
// dangling odd byte with U+FFFD.
type utf16Decoder struct {
	dec     transform.Transformer
	endian  unicode.Endianness
	bom     unicode.BOMPolicy
	big     bool
	started bool
}

func newUTF16Decoder(endian unicode.Endianness, bom unicode.BOMPolicy) *utf16Decoder {
	d := &utf16Decoder{
		dec:    unicode.UTF16(endian, bom).NewDecoder(),
		endian: endian,
		bom:    bom,
	}
	d.Reset()
	return d
}

func (d *utf16Decoder) Reset() {
	d.dec.Reset()
	d.big = d.endian == unicode.BigEndian
	d.started = false
}

func (d *utf16Decoder) unit(b []byte) rune {
	if d.big {
		return rune(b[0])<<8 | rune(b[1])
	}
	return rune(b[1])<<8 | rune(b[0])
}

// wellFormed returns the length of the longest prefix of src made of
// complete, correctly paired code units, and the error that stops the
// scan there.
func (d *utf16Decoder) wellFormed(src []byte, atEOF bool) (int, error) {
	i := 0
	for i < len(src) {
		if len(src)-i < 2 {
			break
		}
		u := d.unit(src[i:])
		if !utf16.IsSurrogate(u) {
			i += 2
			continue
		}
		if u >= 0xDC00 {
			return i, ErrInvalidByte
		}
		if len(src)-i < 4 {
			break
		}
		if next := d.unit(src[i+2:]); next < 0xDC00 || next > 0xDFFF {
			return i, ErrInvalidByte
		}
		i += 4
	}
	if i == len(src) {
		return i, nil
	}
	if atEOF {
		return i, ErrTruncated
	}
	return i, transform.ErrShortSrc
}

func (d *utf16Decoder) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	if !d.started {
		if len(src) < 2 && !atEOF {
			return 0, 0, transform.ErrShortSrc
		}
		if d.bom == unicode.UseBOM && len(src) >= 2 {
			switch {
			case src[0] == 0xFF && src[1] == 0xFE:
				d.big = false
			case src[0] == 0xFE && src[1] == 0xFF:
				d.big = true
			}
		}
		d.started = true
	}

	n, verr := d.wellFormed(src, atEOF)
	if n == 0 {
		return 0, 0, verr
	}
	nDst, nSrc, err := d.dec.Transform(dst, src[:n], atEOF && verr == nil)
	if err != nil {
		return nDst, nSrc, err
	}
	return nDst, nSrc, verr
}
