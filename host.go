// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package punycode

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// A LabelError records a failure to convert one label of a host name.
type LabelError struct {
	Index int    // position of the label in the host, counting from 0
	Label string // the label as it was passed to the codec
	Err   error
}

func (e *LabelError) Error() string {
	return fmt.Sprintf("label %d %q: %v", e.Index, e.Label, e.Err)
}

func (e *LabelError) Unwrap() error {
	return e.Err
}

// ToASCII converts a host name to its ASCII form.
// It trims surrounding white space, maps the host to lower case and
// Unicode normalization form C, and encodes each dot-separated label
// with [Encode]. For example, ToASCII("Bücher.Example") is "xn--bcher-kva.example".
//
// Empty labels are kept, so a trailing root dot survives.
// A failure in one label is reported as a [*LabelError].
func ToASCII(host string) (string, error) {
	host = norm.NFC.String(lower(strings.TrimSpace(host)))
	return mapLabels(host, Encode)
}

// ToUnicode converts a host name to its Unicode form.
// It trims surrounding white space, maps the host to lower case, and
// decodes each dot-separated label with [Decode].
// For example, ToUnicode("XN--BCHER-KVA.example") is "bücher.example".
//
// A failure in one label is reported as a [*LabelError].
func ToUnicode(host string) (string, error) {
	return mapLabels(lower(strings.TrimSpace(host)), Decode)
}

// lower maps s to lower case.
// A Caser holds state, so each call gets its own.
func lower(s string) string {
	if ascii(s) {
		return strings.ToLower(s)
	}
	return cases.Lower(language.Und).String(s)
}

func mapLabels(host string, convert func(string) (string, error)) (string, error) {
	labels := strings.Split(host, ".")
	for i, label := range labels {
		out, err := convert(label)
		if err != nil {
			return "", &LabelError{Index: i, Label: label, Err: err}
		}
		labels[i] = out
	}
	return strings.Join(labels, "."), nil
}
