// Copyright 2024 The entidl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package entidl

import "golang.org/x/text/encoding/unicode"

// wideEncoding is the UTF-16LE codec wchar/wstring constants spill
// with, the same package the teacher uses in helper.go to decode
// UTF-16 resource strings.
var wideEncoding = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// encodeWideString converts s to UTF-16LE bytes, the representation a
// wstring constant's spilled value carries.
func encodeWideString(s string) ([]byte, error) {
	b, err := wideEncoding.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, &EvalError{Kind: EvalBadConstantType}
	}
	return b, nil
}

// wideCodeUnit returns r's UTF-16LE code unit as a little-endian
// uint32 for the inline wchar constant slot. esidl's wchar is a single
// 16-bit code unit, so characters outside the Basic Multilingual Plane
// are rejected.
func wideCodeUnit(r rune) (uint32, error) {
	b, err := encodeWideString(string(r))
	if err != nil {
		return 0, err
	}
	if len(b) != 2 {
		return 0, &EvalError{Kind: EvalBadConstantType}
	}
	return uint32(b[0]) | uint32(b[1])<<8, nil
}
