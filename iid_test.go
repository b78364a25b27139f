// Copyright 2024 The entidl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package entidl

import "testing"

func TestIIDIsNil(t *testing.T) {
	var zero IID
	if !zero.IsNil() {
		t.Error("zero-value IID.IsNil() = false, want true")
	}

	nonzero := IID{Data1: 1}
	if nonzero.IsNil() {
		t.Error("non-zero IID.IsNil() = true, want false")
	}
}

func TestIIDPutBytes(t *testing.T) {
	id := IID{
		Data1: 0x01020304,
		Data2: 0x0506,
		Data3: 0x0708,
		Data4: [8]byte{0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10},
	}
	buf := make([]byte, 16)
	id.PutBytes(buf)

	want := []byte{0x04, 0x03, 0x02, 0x01, 0x06, 0x05, 0x08, 0x07, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("PutBytes()[%d] = %#x, want %#x (full: %x)", i, buf[i], want[i], buf)
		}
	}
}

func TestIIDString(t *testing.T) {
	id := IID{Data1: 0x01020304, Data2: 0x0506, Data3: 0x0708,
		Data4: [8]byte{0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10}}
	want := "{01020304-0506-0708-090A-0B0C0D0E0F10}"
	if got := id.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
