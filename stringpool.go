// Copyright 2024 The entidl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package entidl

// stringPool assigns each distinct identifier reachable from the tree
// a unique offset inside the image's string region. Go map iteration
// order is randomized, so the pool is backed by an insertion-ordered
// slice plus an index map — this is what lets repeated runs over the
// same tree produce byte-identical output (spec.md section 4.4,
// SPEC_FULL.md section C.5).
type stringPool struct {
	order []string
	index map[string]int // name -> position in order
	base  uint32         // offset of order[0]
}

func newStringPool(base uint32) *stringPool {
	return &stringPool{index: make(map[string]int), base: base}
}

// intern records name if not already present and returns its assigned
// offset either way.
func (p *stringPool) intern(name string) uint32 {
	if i, ok := p.index[name]; ok {
		return p.offsetAt(i)
	}
	p.index[name] = len(p.order)
	p.order = append(p.order, name)
	return p.offsetAt(len(p.order) - 1)
}

func (p *stringPool) offsetAt(i int) uint32 {
	off := p.base
	for j := 0; j < i; j++ {
		off += uint32(len(p.order[j])) + 1 // +1 for the zero terminator
	}
	return off
}

// Offset returns the offset already assigned to name, or 0 if it was
// never interned.
func (p *stringPool) Offset(name string) uint32 {
	i, ok := p.index[name]
	if !ok {
		return 0
	}
	return p.offsetAt(i)
}

// End returns the offset one past the last interned string, i.e. the
// start of whatever region follows the string pool.
func (p *stringPool) End() uint32 {
	return p.offsetAt(len(p.order))
}

// Write serializes the pool as zero-terminated UTF-8 strings into buf
// starting at p.base.
func (p *stringPool) Write(buf []byte) {
	off := p.base
	for _, s := range p.order {
		copy(buf[off:], s)
		buf[off+uint32(len(s))] = 0
		off += uint32(len(s)) + 1
	}
}
