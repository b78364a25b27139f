// Copyright 2024 The entidl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package entidl

import (
	"encoding/binary"
	"fmt"
)

// IID is a 128-bit interface identifier, stored the same way the
// teacher's PE debug info represents a GUID: one 32-bit group, two
// 16-bit groups, and an 8-byte tail.
type IID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// IsNil reports whether iid is the all-zero value used for "no parent
// interface" in the emitted Interface record.
func (iid IID) IsNil() bool {
	return iid == IID{}
}

// String returns the canonical hyphenated hex representation.
func (iid IID) String() string {
	return fmt.Sprintf("{%08X-%04X-%04X-%X-%X}",
		iid.Data1, iid.Data2, iid.Data3, iid.Data4[0:2], iid.Data4[2:])
}

// PutBytes writes the 16-byte little-endian field layout used in the
// Interface record into b, which must have at least 16 bytes.
func (iid IID) PutBytes(b []byte) {
	binary.LittleEndian.PutUint32(b[0:4], iid.Data1)
	binary.LittleEndian.PutUint16(b[4:6], iid.Data2)
	binary.LittleEndian.PutUint16(b[6:8], iid.Data3)
	copy(b[8:16], iid.Data4[:])
}
