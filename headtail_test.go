package catalog

import "testing"

func TestExtractTailReproducesSubtreeFootprint(t *testing.T) {
	// abc?: a bare ITE over three distinct leaves. The Q tail is just the
	// leaf "a", the T tail "b" and the F tail "c".
	tr, err := ParseSafe("abc?", defaultSkin, false)
	if err != nil {
		t.Fatalf("ParseSafe: %v", err)
	}
	q, tt, f := rootOperands(tr)

	for _, tc := range []struct {
		name string
		ref  Ref
		want Footprint
	}{
		{"Q", q, baseFootprints[0]},
		{"T", tt, baseFootprints[1]},
		{"F", f, baseFootprints[2]},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sub, err := ExtractTail(tr, tc.ref)
			if err != nil {
				t.Fatalf("ExtractTail: %v", err)
			}
			if got := EvalIdentity(sub); got != tc.want {
				t.Fatalf("tail %s footprint mismatch", tc.name)
			}
		})
	}
}

func TestExtractTailOnInternalSubtree(t *testing.T) {
	// Add an internal AND node over a and b to the abc? tree, make it the
	// root, and extract it as a tail.
	tr, err := ParseSafe("abc?", defaultSkin, false)
	if err != nil {
		t.Fatalf("ParseSafe: %v", err)
	}
	inner, err := tr.AddNode(Ref(1), Ref(2), Ref(0))
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	tr.SetRoot(inner)

	sub, err := ExtractTail(tr, tr.Root())
	if err != nil {
		t.Fatalf("ExtractTail: %v", err)
	}
	want := baseFootprints[0].And(baseFootprints[1])
	if got := EvalIdentity(sub); got != want {
		t.Fatal("extracted internal subtree did not reproduce its footprint")
	}
}

func TestBuildHeadAbstractsOneOperand(t *testing.T) {
	tr, err := ParseSafe("abc?", defaultSkin, false)
	if err != nil {
		t.Fatalf("ParseSafe: %v", err)
	}

	head, err := buildHead(tr, tailQ, 1)
	if err != nil {
		t.Fatalf("buildHead: %v", err)
	}
	q, _, _ := rootOperands(head)
	if q.Index() != 1 {
		t.Fatalf("buildHead(tailQ) should replace Q with the hole slot, got operand index %d", q.Index())
	}
}

func TestBuildHeadPreservesUntouchedOperands(t *testing.T) {
	tr, err := ParseSafe("abc?", defaultSkin, false)
	if err != nil {
		t.Fatalf("ParseSafe: %v", err)
	}
	// Slot 4 (leaf d) is fresh: abc? does not use it.
	head, err := buildHead(tr, tailF, 4)
	if err != nil {
		t.Fatalf("buildHead: %v", err)
	}
	q, tt, f := rootOperands(head)
	if q.Index() != 1 || tt.Index() != 2 {
		t.Fatalf("buildHead(tailF) should keep Q and T, got operand indices %d, %d", q.Index(), tt.Index())
	}
	if f.Index() != 4 {
		t.Fatalf("buildHead(tailF) should replace F with the hole slot, got operand index %d", f.Index())
	}
}
