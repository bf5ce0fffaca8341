// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package punycode

const (
	maxRune      = 0x10FFFF
	surrogateMin = 0xD800
	surrogateMax = 0xDFFF

	tx    = 0x80 // 10xx xxxx
	t2    = 0xC0 // 110x xxxx
	t3    = 0xE0 // 1110 xxxx
	t4    = 0xF0 // 1111 0xxx
	maskx = 0x3F
)

// validRune reports whether r is a Unicode scalar value.
func validRune(r rune) bool {
	return 0 <= r && r < surrogateMin || surrogateMax < r && r <= maxRune
}

// decodeRune decodes the UTF-8 sequence at the start of s,
// returning the code point and its length in bytes.
// Overlong forms, surrogates, values above U+10FFFF and
// truncated sequences fail with ErrInvalidUTF8.
func decodeRune(s string) (r rune, size int, err error) {
	if len(s) == 0 {
		return 0, 0, ErrInvalidUTF8
	}
	// lo and hi bound the second byte; later bytes are always 80-BF.
	lo, hi := byte(0x80), byte(0xBF)
	c := s[0]
	switch {
	case c < 0x80:
		return rune(c), 1, nil
	case c < 0xC2:
		// continuation byte, or overlong two-byte form
		return 0, 0, ErrInvalidUTF8
	case c < 0xE0:
		r, size = rune(c&0x1F), 2
	case c < 0xF0:
		r, size = rune(c&0x0F), 3
		switch c {
		case 0xE0:
			lo = 0xA0
		case 0xED:
			hi = 0x9F
		}
	case c < 0xF5:
		r, size = rune(c&0x07), 4
		switch c {
		case 0xF0:
			lo = 0x90
		case 0xF4:
			hi = 0x8F
		}
	default:
		return 0, 0, ErrInvalidUTF8
	}
	if len(s) < size {
		return 0, 0, ErrInvalidUTF8
	}
	for i := 1; i < size; i++ {
		c := s[i]
		if c < lo || hi < c {
			return 0, 0, ErrInvalidUTF8
		}
		lo, hi = 0x80, 0xBF
		r = r<<6 | rune(c&maskx)
	}
	return r, size, nil
}

// decodeRunes returns the code points of s.
func decodeRunes(s string) ([]rune, error) {
	runes := make([]rune, 0, len(s))
	for len(s) > 0 {
		r, size, err := decodeRune(s)
		if err != nil {
			return nil, err
		}
		runes = append(runes, r)
		s = s[size:]
	}
	return runes, nil
}

// appendRune appends the minimal UTF-8 encoding of r to b.
// The caller must ensure validRune(r).
func appendRune(b []byte, r rune) []byte {
	switch {
	case r < 0x80:
		return append(b, byte(r))
	case r < 0x800:
		return append(b, t2|byte(r>>6), tx|byte(r)&maskx)
	case r < 0x10000:
		return append(b, t3|byte(r>>12), tx|byte(r>>6)&maskx, tx|byte(r)&maskx)
	default:
		return append(b, t4|byte(r>>18), tx|byte(r>>12)&maskx, tx|byte(r>>6)&maskx, tx|byte(r)&maskx)
	}
}

// appendRunes appends the UTF-8 encoding of each rune in runes to b.
func appendRunes(b []byte, runes []rune) []byte {
	for _, r := range runes {
		b = appendRune(b, r)
	}
	return b
}
