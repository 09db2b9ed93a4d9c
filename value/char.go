package value

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Char is a character string of 16-bit code units.
type Char []uint16

func (c Char) Class() Class { return ClassChar }
func (c Char) Len() int     { return len(c) }

// NewChar converts a Go string to UTF-16 code units. Invalid UTF-8
// sequences become U+FFFD.
func NewChar(s string) Char {
	b, err := utf16le.NewEncoder().Bytes([]byte(strings.ToValidUTF8(s, "\uFFFD")))
	if err != nil {
		return nil
	}
	return CharFromBytes(b)
}

// CharFromBytes reads little-endian code units, two bytes each. An odd
// trailing byte becomes a final unit with a zero high byte.
func CharFromBytes(b []byte) Char {
	c := make(Char, (len(b)+1)/2)
	for i := range c {
		lo := uint16(b[2*i])
		if 2*i+1 < len(b) {
			lo |= uint16(b[2*i+1]) << 8
		}
		c[i] = lo
	}
	return c
}

// Bytes returns the little-endian payload, two bytes per unit.
func (c Char) Bytes() []byte {
	b := make([]byte, 2*len(c))
	for i, u := range c {
		b[2*i] = byte(u)
		b[2*i+1] = byte(u >> 8)
	}
	return b
}

// String decodes the code units. Unpaired surrogates become U+FFFD.
func (c Char) String() string {
	s, err := utf16le.NewDecoder().Bytes(c.Bytes())
	if err != nil {
		return ""
	}
	return string(s)
}
