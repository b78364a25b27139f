// Copyright 2024 The entidl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package entidl

import "testing"

// TestPlanLayoutRejectsUnresolvedForwardDecl builds a module that only
// ever forward-declares an interface (`interface Fwd;` with no matching
// full definition) and then uses it as an attribute's type — a
// structural error Pass C must catch since no record will ever exist
// at the offset the reference would need.
func TestPlanLayoutRejectsUnresolvedForwardDecl(t *testing.T) {
	root := &Node{Kind: KindSpecification}
	mod := &Node{Kind: KindModule, Name: "M", InterfaceCount: 2}
	root.Children = []*Node{mod}

	fwd := &Node{Kind: KindInterface, Name: "Fwd", Parent: mod, ForwardDecl: true}

	user := &Node{Kind: KindInterface, Name: "User", Parent: mod, MethodCount: 1}
	attr := &Node{
		Kind: KindAttribute, Name: "thing", Parent: user, ReadOnly: true,
		TypeSpec: &Node{Kind: KindScopedName, ScopedPath: []string{"Fwd"}},
	}
	user.Children = []*Node{attr}

	mod.Children = []*Node{fwd, user}

	if _, err := PlanLayout(root, nil); err == nil {
		t.Fatal("expected PlanLayout to reject a reference to an unresolved forward declaration")
	} else if le, ok := err.(*LayoutError); !ok || le.Kind != LayoutUnexpectedForwardDecl {
		t.Errorf("PlanLayout error = %v, want a LayoutError{Kind: LayoutUnexpectedForwardDecl}", err)
	}
}
