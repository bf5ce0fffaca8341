// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package punycode implements the Punycode transfer encoding defined in RFC 3492,
with the parameters used by Internationalized Domain Names in Applications (IDNA).

[Encode] converts a single Unicode label to its ASCII form;
[Append] is like [Encode] but appends to an existing buffer.

[Decode] converts an ASCII label back to Unicode.
[EncodeRunes] and [DecodeRunes] are the same operations on code point slices.

[ToASCII] and [ToUnicode] apply the label operations to every
dot-separated label of a host name.

The encoding has a few important properties:

  - Identity on ASCII: a label made only of basic code points (those below 0x80)
    encodes as itself, with no prefix. Encode("golang") == "golang".

  - Prefixed: a label containing at least one extended code point (0x80 or above)
    encodes as "xn--" followed by the basic code points in their original order,
    a "-" delimiter if there were any basic code points,
    and a sequence of digits describing where to insert the extended code points.
    Encode("bücher") == "xn--bcher-kva".

  - Reversible: Decode(Encode(L)) == L for every valid label L whose
    basic code points are all lower case letters, digits or "-",
    which is what a label looks like after case folding.
    Encode copies other basic code points as they are, so
    Encode("Bücher") is "xn--Bcher-kva", which Decode passes through.
    Callers should fold case first, as [ToASCII] and [ToUnicode] do;
    [DecodeRaw] and [EncodeRaw] round trip any label.
    An all-ASCII label that already starts with "xn--" is its own
    encoding and decodes as Punycode.

  - Pass-through: Decode returns a label unchanged if it does not start
    with "xn--" or if it contains a byte outside a-z, 0-9 and "-".
    Such a label is not Punycode, so there is nothing to decode.

  - Stateless: every call is independent and safe for concurrent use.

Labels are treated as raw code point sequences. This package does not
split domain names (except in [ToASCII] and [ToUnicode]), does not
check DNS length limits, and does not apply IDNA mapping rules.

# Digits

The variable-length integers in an encoded label are written with the
36 digits "abcdefghijklmnopqrstuvwxyz0123456789", so 'a' is 0, 'z' is 25,
'0' is 26, and '9' is 35. Each integer is little-endian with a varying
radix: the digit at position j (counting from 1) has threshold
t = clamp(36*j - bias, 1, 26), and a digit smaller than its threshold
ends the integer. The bias is adapted after every integer, so that the
deltas typical of the label so far take about one digit each.

All arithmetic is done in 32 bits. An input whose deltas do not fit
fails with [ErrOverflow] instead of wrapping.

# Raw Encoding

[EncodeRaw] and [DecodeRaw] implement the bare RFC 3492 transform,
without the "xn--" prefix and without the ASCII shortcuts.
EncodeRaw("abc") is "abc-", and DecodeRaw accepts upper case digits
and any ASCII in the basic segment, as the RFC requires of a decoder.
They exist mainly for interoperating with other users of RFC 3492
and for checking the sample strings in section 7.1 of the RFC.

# Errors

Decode never reports an error for a label that is not Punycode.
Once a label has passed the prefix and character set checks, though,
any inconsistency is an error: a digit sequence that ends in the middle
of an integer ([ErrTruncated]), an integer that does not fit in
32 bits ([ErrOverflow]), or a decoded value that is not a Unicode
scalar value ([ErrInvalidCodePoint]). No partial output is returned.
*/
package punycode

import (
	"errors"
	"math"
	"strings"
)

// Parameter values for IDNA, from RFC 3492 section 5.
const (
	base        int32 = 36
	tMin        int32 = 1
	tMax        int32 = 26
	skew        int32 = 38
	damp        int32 = 700
	initialBias int32 = 72
	initialN    int32 = 128

	maxInt32 int32 = math.MaxInt32

	acePrefix = "xn--"
	delimiter = '-'
	digits    = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// digitValue maps a byte to its digit value, or -1.
// Upper case letters are accepted only by [DecodeRaw];
// [Decode] rejects them earlier in its character set check.
var digitValue = func() (t [256]int8) {
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(digits); i++ {
		t[digits[i]] = int8(i)
	}
	for c := 'A'; c <= 'Z'; c++ {
		t[c] = int8(c - 'A')
	}
	return t
}()

// Errors reported by the codec. See the package documentation for when each occurs.
var (
	ErrInvalidDigit     = errors.New("punycode: invalid digit")
	ErrInvalidUTF8      = errors.New("punycode: invalid UTF-8")
	ErrInvalidCodePoint = errors.New("punycode: invalid code point")
	ErrNotBasic         = errors.New("punycode: non-basic code point before delimiter")
	ErrOverflow         = errors.New("punycode: input too large")
	ErrTruncated        = errors.New("punycode: truncated digit sequence")
)

// Encode returns the ASCII form of label.
// If label contains only basic code points, Encode returns it unchanged.
// Otherwise the result starts with "xn--".
func Encode(label string) (string, error) {
	if ascii(label) {
		return label, nil
	}
	enc, err := Append(nil, label)
	if err != nil {
		return "", err
	}
	return string(enc), nil
}

// Append returns the result of appending the ASCII form of label to enc.
// On error, Append returns enc unchanged along with the error.
func Append(enc []byte, label string) ([]byte, error) {
	runes, err := decodeRunes(label)
	if err != nil {
		return enc, err
	}
	return appendLabel(enc, runes, true)
}

// EncodeRunes is like [Encode] but takes the label as a slice of code points.
// A value in label that is not a Unicode scalar value makes it fail
// with [ErrInvalidCodePoint].
func EncodeRunes(label []rune) (string, error) {
	for _, r := range label {
		if !validRune(r) {
			return "", ErrInvalidCodePoint
		}
	}
	enc, err := appendLabel(nil, label, true)
	if err != nil {
		return "", err
	}
	return string(enc), nil
}

// EncodeRaw returns the RFC 3492 encoding of s, with no prefix.
// Unlike [Encode], it always encodes: EncodeRaw("abc") is "abc-".
func EncodeRaw(s string) (string, error) {
	runes, err := decodeRunes(s)
	if err != nil {
		return "", err
	}
	enc, err := appendLabel(nil, runes, false)
	if err != nil {
		return "", err
	}
	return string(enc), nil
}

// appendLabel appends the encoding of label to enc.
// With ace set, an all-basic label is appended as is,
// and any other label is preceded by the ACE prefix.
// The runes in label must be valid.
func appendLabel(enc []byte, label []rune, ace bool) ([]byte, error) {
	if int64(len(label)) >= int64(maxInt32) {
		return enc, ErrOverflow
	}
	start := len(enc)
	b := 0
	for _, r := range label {
		if r < 0x80 {
			b++
		}
	}
	if ace && b == len(label) {
		for _, r := range label {
			enc = append(enc, byte(r))
		}
		return enc, nil
	}
	if ace {
		enc = append(enc, acePrefix...)
	}
	for _, r := range label {
		if r < 0x80 {
			enc = append(enc, byte(r))
		}
	}
	if b > 0 {
		enc = append(enc, delimiter)
	}

	n, bias, delta := initialN, initialBias, int32(0)
	for h := b; h < len(label); {
		// Smallest code point not yet handled.
		m := maxInt32
		for _, r := range label {
			if r >= n && r < m {
				m = r
			}
		}
		if m-n > (maxInt32-delta)/int32(h+1) {
			return enc[:start], ErrOverflow
		}
		delta += (m - n) * int32(h+1)
		n = m
		for _, r := range label {
			if r < n {
				if delta == maxInt32 {
					return enc[:start], ErrOverflow
				}
				delta++
				continue
			}
			if r > n {
				continue
			}
			enc = appendDelta(enc, delta, bias)
			bias = adapt(delta, int32(h+1), h == b)
			delta = 0
			h++
		}
		if delta == maxInt32 {
			return enc[:start], ErrOverflow
		}
		delta++
		n++
	}
	return enc, nil
}

// appendDelta appends q as a generalized variable-length integer.
func appendDelta(enc []byte, q, bias int32) []byte {
	for k := base; ; k += base {
		t := threshold(k, bias)
		if q < t {
			break
		}
		enc = append(enc, digits[t+(q-t)%(base-t)])
		q = (q - t) / (base - t)
	}
	return append(enc, digits[q])
}

// threshold returns the digit threshold at position k for the given bias.
func threshold(k, bias int32) int32 {
	switch t := k - bias; {
	case t < tMin:
		return tMin
	case t > tMax:
		return tMax
	default:
		return t
	}
}

// adapt returns the bias to use after encoding or decoding delta,
// where numPoints is the number of code points handled so far, including this one.
// See RFC 3492 section 6.1.
func adapt(delta, numPoints int32, firstTime bool) int32 {
	if firstTime {
		delta /= damp
	} else {
		delta /= 2
	}
	delta += delta / numPoints
	k := int32(0)
	for delta > (base-tMin)*tMax/2 {
		delta /= base - tMin
		k += base
	}
	return k + (base-tMin+1)*delta/(delta+skew)
}

// Decode returns the Unicode form of label.
// If label does not start with "xn--", or contains a byte other than
// a-z, 0-9 and "-", Decode returns it unchanged.
func Decode(label string) (string, error) {
	if !encoded(label) {
		return label, nil
	}
	runes, err := decodeLabel(label[len(acePrefix):])
	if err != nil {
		return "", err
	}
	return string(appendRunes(nil, runes)), nil
}

// DecodeRunes is like [Decode] but returns the label as a slice of code points.
// A label that is passed through is returned as its runes,
// or fails with [ErrInvalidUTF8] if it is not valid UTF-8.
func DecodeRunes(label string) ([]rune, error) {
	if !encoded(label) {
		return decodeRunes(label)
	}
	return decodeLabel(label[len(acePrefix):])
}

// DecodeRaw returns the decoding of the RFC 3492 encoding s, which has no prefix.
// The basic code points before the last delimiter may be any ASCII,
// and the digits after it may be upper or lower case.
func DecodeRaw(s string) (string, error) {
	runes, err := decodeLabel(s)
	if err != nil {
		return "", err
	}
	return string(appendRunes(nil, runes)), nil
}

// encoded reports whether label carries the ACE prefix
// and consists only of the bytes allowed in an encoded label.
func encoded(label string) bool {
	if !strings.HasPrefix(label, acePrefix) {
		return false
	}
	for i := 0; i < len(label); i++ {
		switch c := label[i]; {
		case 'a' <= c && c <= 'z', '0' <= c && c <= '9', c == delimiter:
		default:
			return false
		}
	}
	return true
}

// decodeLabel decodes the RFC 3492 encoding s.
// Everything before the last delimiter is copied as basic code points.
func decodeLabel(s string) ([]rune, error) {
	out := make([]rune, 0, len(s))
	pos := 0
	if d := strings.LastIndexByte(s, delimiter); d >= 0 {
		for i := 0; i < d; i++ {
			if s[i] >= 0x80 {
				return nil, ErrNotBasic
			}
			out = append(out, rune(s[i]))
		}
		pos = d + 1
	}

	n, bias, i := initialN, initialBias, int32(0)
	for pos < len(s) {
		oldi, w := i, int32(1)
		for k := base; ; k += base {
			if pos == len(s) {
				return nil, ErrTruncated
			}
			digit := int32(digitValue[s[pos]])
			pos++
			if digit < 0 {
				return nil, ErrInvalidDigit
			}
			if digit > (maxInt32-i)/w {
				return nil, ErrOverflow
			}
			i += digit * w
			t := threshold(k, bias)
			if digit < t {
				break
			}
			if w > maxInt32/(base-t) {
				return nil, ErrOverflow
			}
			w *= base - t
		}

		x := int32(len(out) + 1)
		bias = adapt(i-oldi, x, oldi == 0)
		if i/x > maxInt32-n {
			return nil, ErrOverflow
		}
		n += i / x
		i %= x
		if !validRune(rune(n)) {
			return nil, ErrInvalidCodePoint
		}
		out = append(out, 0)
		copy(out[i+1:], out[i:])
		out[i] = rune(n)
		i++
	}
	return out, nil
}

// ascii reports whether s contains only basic code points.
func ascii(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
