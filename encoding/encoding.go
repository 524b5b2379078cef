// Package encoding wraps around the various encoding stuff in
// golang.org/x/text/encoding, and defines the byte-to-codepoint tables
// that are negotiated for encodings the parser does not know about.
// Part of the reason this exists is that the package names such as
// "unicode" clash with the stdlib, and it's rather easier if we just
// hide it from xmlpush
package encoding

import (
	"errors"
	"strings"

	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrUnsupported is returned by negotiators that do not know the
	// requested encoding name.
	ErrUnsupported = errors.New("encoding not supported")
	// ErrTruncated is returned by decoders whose input ends in the
	// middle of a character.
	ErrTruncated = errors.New("input ends in the middle of a character")
)

// Native returns a decoder for the encodings that the parser recognizes
// on its own. Names that are not recognized here are handed to a
// Negotiator.
func Native(name string) (transform.Transformer, bool) {
	switch strings.ToLower(name) {
	case "utf8", "utf-8":
		return xencoding.UTF8Validator, true
	case "utf-16", "utf16":
		return newUTF16Decoder(unicode.BigEndian, unicode.UseBOM), true
	case "utf-16le", "utf16le":
		return newUTF16Decoder(unicode.LittleEndian, unicode.IgnoreBOM), true
	case "utf-16be", "utf16be":
		return newUTF16Decoder(unicode.BigEndian, unicode.IgnoreBOM), true
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder(), true
	case "us-ascii", "ascii":
		return NewTableDecoder(ASCII()), true
	}
	return nil, false
}

// IsUTF16 reports whether name is one of the UTF-16 variants.
func IsUTF16(name string) bool {
	switch strings.ToLower(name) {
	case "utf-16", "utf16", "utf-16le", "utf16le", "utf-16be", "utf16be":
		return true
	}
	return false
}
