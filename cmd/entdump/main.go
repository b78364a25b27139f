// Copyright 2024 The entidl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command entdump memory-maps a compiled Ent image and walks it by
// offset — Module to Interface to Method/Attribute/Operation to
// Constant, the record shapes records.go/spec.go define — for
// round-trip inspection of entc's output.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"

	mmap "github.com/edsrzf/mmap-go"

	entidl "github.com/nascent-os/entidl"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <image.ent>\n", os.Args[0])
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := dump(flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func dump(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return err
	}
	defer m.Unmap()

	if len(m) < entidl.SizeHeader {
		return fmt.Errorf("%s: too short to hold a header (%d bytes)", path, len(m))
	}

	magic := binary.LittleEndian.Uint32(m[0:4])
	size := binary.LittleEndian.Uint32(m[4:8])

	fmt.Printf("magic:     %q (0x%08x)\n", magicString(magic), magic)
	fmt.Printf("file size: %d (header claims %d)\n", len(m), size)
	if uint32(len(m)) != size {
		fmt.Println("warning: mapped size does not match the header's size field")
	}

	w, err := walkImage(m)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	fmt.Println("\nentities:")
	for _, e := range w.entities {
		fmt.Printf("  %s\n", e)
	}

	if len(w.typeRefs) > 0 {
		fmt.Println("\ntype references (sequence/array/struct/exception/enum/imported interface,")
		fmt.Println("shape not decoded — see walker doc comment):")
		for _, off := range w.typeRefs {
			fmt.Printf("  @0x%08x\n", off)
		}
	}
	return nil
}

func magicString(v uint32) string {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return string(b)
}

// walker recovers the entity tree packed into a compiled Ent image by
// following the Module -> Interface -> Method offsets spec.md section
// 6.1 lays out — the same traversal a generated language binding would
// do to resolve a symbol — rather than scanning raw bytes for
// printable runs.
//
// A Method's return, parameter and raise Specs may be non-primitive,
// pointing into the type-descriptor region at a sequence, array,
// structure, exception or imported interface/enum record. None of
// those carries a kind tag of its own: spec.md section 6.1 defines
// each shape but the image never records which one lives at a given
// offset. A real caller learns that from the statically generated stub
// it was compiled against — out of scope for this dump tool, per
// spec.md's C++-stub-generation non-goal — so walker reports those
// references by offset only rather than guessing a shape it cannot
// confirm.
type walker struct {
	buf      []byte
	entities []string
	typeRefs []uint32
	seen     map[uint32]bool
}

// walkImage decodes the image's single root Module — every fixture
// and real input this compiler accepts namespaces its declarations
// under exactly one top-level module — and everything reachable from
// it.
func walkImage(buf []byte) (*walker, error) {
	w := &walker{buf: buf, seen: make(map[uint32]bool)}
	if err := w.walkModule(entidl.SizeHeader); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *walker) u32(off uint32) (uint32, error) {
	if uint64(off)+4 > uint64(len(w.buf)) {
		return 0, fmt.Errorf("offset %#x out of range (image is %d bytes)", off, len(w.buf))
	}
	return binary.LittleEndian.Uint32(w.buf[off : off+4]), nil
}

func (w *walker) cstring(off uint32) (string, error) {
	end := off
	for {
		if uint64(end) >= uint64(len(w.buf)) {
			return "", fmt.Errorf("unterminated string at offset %#x", off)
		}
		if w.buf[end] == 0 {
			break
		}
		end++
	}
	return string(w.buf[off:end]), nil
}

// walkModule decodes the Module record at off — { name-offset,
// parent-offset, module-count, interface-count, const-count } followed
// by module-count child offsets and interface-count interface offsets
// — and recurses into each child and the trailing constants.
func (w *walker) walkModule(off uint32) error {
	if off == 0 || w.seen[off] {
		return nil
	}
	w.seen[off] = true

	nameOff, err := w.u32(off)
	if err != nil {
		return err
	}
	name, err := w.cstring(nameOff)
	if err != nil {
		return err
	}
	moduleCount, err := w.u32(off + 8)
	if err != nil {
		return err
	}
	interfaceCount, err := w.u32(off + 12)
	if err != nil {
		return err
	}
	constCount, err := w.u32(off + 16)
	if err != nil {
		return err
	}
	w.entities = append(w.entities, "module:"+name)

	base := off + entidl.SizeModuleFixed
	for i := uint32(0); i < moduleCount; i++ {
		childOff, err := w.u32(base + 4*i)
		if err != nil {
			return err
		}
		if err := w.walkModule(childOff); err != nil {
			return err
		}
	}
	base += 4 * moduleCount
	for i := uint32(0); i < interfaceCount; i++ {
		ifaceOff, err := w.u32(base + 4*i)
		if err != nil {
			return err
		}
		if err := w.walkInterface(ifaceOff); err != nil {
			return err
		}
	}
	base += 4 * interfaceCount
	return w.walkConstants(base, constCount)
}

// walkInterface decodes the Interface record at off and recurses into
// its methods (each either a synthetic attribute accessor or a plain
// operation) and its trailing constants. The fixed field offsets
// (method-count at +40, const-count at +44) mirror writeInterface in
// records.go.
func (w *walker) walkInterface(off uint32) error {
	if off == 0 || w.seen[off] {
		return nil
	}
	w.seen[off] = true

	nameOff, err := w.u32(off)
	if err != nil {
		return err
	}
	name, err := w.cstring(nameOff)
	if err != nil {
		return err
	}
	methodCount, err := w.u32(off + 40)
	if err != nil {
		return err
	}
	constCount, err := w.u32(off + 44)
	if err != nil {
		return err
	}
	w.entities = append(w.entities, "interface:"+name)

	base := off + entidl.SizeInterfaceFixed
	attrsSeen := make(map[string]bool)
	for i := uint32(0); i < methodCount; i++ {
		methodOff, err := w.u32(base + 4*i)
		if err != nil {
			return err
		}
		if err := w.walkMethod(methodOff, attrsSeen); err != nil {
			return err
		}
	}
	base += 4 * methodCount
	return w.walkConstants(base, constCount)
}

// walkMethod decodes the Method record at off. attr-bits distinguishes
// a synthetic attribute getter/setter (AttrGetter/AttrSetter, both
// sharing the attribute's own name) from a plain operation, matching
// writeAttributeMethods/writeOpDclMethod in emit.go.
func (w *walker) walkMethod(off uint32, attrsSeen map[string]bool) error {
	retSpec, err := w.u32(off)
	if err != nil {
		return err
	}
	nameOff, err := w.u32(off + 4)
	if err != nil {
		return err
	}
	name, err := w.cstring(nameOff)
	if err != nil {
		return err
	}
	attrBits, err := w.u32(off + 8)
	if err != nil {
		return err
	}
	paramCount, err := w.u32(off + 12)
	if err != nil {
		return err
	}
	raiseCount, err := w.u32(off + 16)
	if err != nil {
		return err
	}

	if attrBits&(entidl.AttrGetter|entidl.AttrSetter) != 0 {
		if !attrsSeen[name] {
			attrsSeen[name] = true
			w.entities = append(w.entities, "attribute:"+name)
		}
	} else {
		w.entities = append(w.entities, "operation:"+name)
	}

	w.walkSpec(entidl.Spec(retSpec))

	paramBase := off + entidl.SizeMethodFixed
	for i := uint32(0); i < paramCount; i++ {
		spec, err := w.u32(paramBase + entidl.SizeParam*i)
		if err != nil {
			return err
		}
		w.walkSpec(entidl.Spec(spec))
	}
	raiseBase := paramBase + entidl.SizeParam*paramCount
	for i := uint32(0); i < raiseCount; i++ {
		spec, err := w.u32(raiseBase + entidl.SizeRaise*i)
		if err != nil {
			return err
		}
		w.walkSpec(entidl.Spec(spec))
	}
	return nil
}

// walkSpec records a non-primitive Spec's target offset. See the
// walker doc comment for why it stops there instead of guessing which
// of the five descriptor shapes lives at that offset.
func (w *walker) walkSpec(spec entidl.Spec) {
	if spec.IsPrimitive() {
		return
	}
	off := spec.Offset()
	if off == 0 || w.seen[off] {
		return
	}
	w.seen[off] = true
	w.typeRefs = append(w.typeRefs, off)
}

// walkConstants decodes count Constant records starting at base —
// { spec, name-offset, value-or-value-offset }, spec.md section 6.1.
func (w *walker) walkConstants(base, count uint32) error {
	for i := uint32(0); i < count; i++ {
		off := base + entidl.SizeConstant*i
		nameOff, err := w.u32(off + 4)
		if err != nil {
			return err
		}
		name, err := w.cstring(nameOff)
		if err != nil {
			return err
		}
		w.entities = append(w.entities, "const:"+name)
	}
	return nil
}
