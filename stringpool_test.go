// Copyright 2024 The entidl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package entidl

import "testing"

func TestStringPoolInternIsStable(t *testing.T) {
	p := newStringPool(100)

	first := p.intern("alpha")
	second := p.intern("beta")
	again := p.intern("alpha")

	if first != again {
		t.Errorf("intern(alpha) returned %d then %d, want a stable offset", first, again)
	}
	if second <= first {
		t.Errorf("intern(beta) = %d, want something after alpha's offset %d", second, first)
	}
	if p.Offset("alpha") != first {
		t.Errorf("Offset(alpha) = %d, want %d", p.Offset("alpha"), first)
	}
	if p.Offset("missing") != 0 {
		t.Errorf("Offset(missing) = %d, want 0", p.Offset("missing"))
	}
}

func TestStringPoolLayout(t *testing.T) {
	p := newStringPool(16)
	p.intern("ab")
	p.intern("cde")

	if got := p.Offset("ab"); got != 16 {
		t.Errorf("Offset(ab) = %d, want 16", got)
	}
	if got := p.Offset("cde"); got != 19 {
		t.Errorf("Offset(cde) = %d, want 19 (16 + len(\"ab\") + 1)", got)
	}
	if got := p.End(); got != 23 {
		t.Errorf("End() = %d, want 23", got)
	}

	buf := make([]byte, p.End())
	p.Write(buf)
	want := "ab\x00cde\x00"
	if got := string(buf[16:]); got != want {
		t.Errorf("Write produced %q, want %q", got, want)
	}
}
