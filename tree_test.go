package catalog

import "testing"

func TestAddNodeCollapsesSelfAndZero(t *testing.T) {
	tr := NewTree(false)

	a := Ref(1)
	// Q&1 == Q (SELF)
	r, err := tr.AddNode(a, makeRef(0, true), Ref(0))
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if r != a {
		t.Fatalf("Q&1 should collapse to Q, got %v want %v", r, a)
	}

	// Q&0 == 0 (ZERO)
	r, err = tr.AddNode(a, Ref(0), Ref(0))
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if r != Ref(0) {
		t.Fatalf("Q&0 should collapse to 0, got %v", r)
	}

	// Q&~Q == 0
	r, err = tr.AddNode(a, a.Inv(), Ref(0))
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if r != Ref(0) {
		t.Fatalf("Q&~Q should collapse to 0, got %v", r)
	}

	// Q&Q == Q
	r, err = tr.AddNode(a, a, Ref(0))
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if r != a {
		t.Fatalf("Q&Q should collapse to Q, got %v want %v", r, a)
	}
}

func TestAddNodeDedupesIdenticalTriples(t *testing.T) {
	tr := NewTree(false)
	a, b, c := Ref(1), Ref(2), Ref(3)

	r1, err := tr.AddNode(a, b, c)
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	before := tr.Count()

	r2, err := tr.AddNode(a, b, c)
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if r1 != r2 {
		t.Fatalf("identical (Q,T,F) should return the same ref: %v != %v", r1, r2)
	}
	if tr.Count() != before {
		t.Fatalf("duplicate AddNode should not grow the tree: %d != %d", tr.Count(), before)
	}
}

func TestAddNodeSymmetricReorder(t *testing.T) {
	tr := NewTree(false)
	a, b := Ref(1), Ref(2) // a has the smaller index

	// OR(b,a) and OR(a,b) must normalise to the same node.
	rBA, err := tr.AddNode(b, makeRef(0, true), a)
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	rAB, err := tr.AddNode(a, makeRef(0, true), b)
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if rBA != rAB {
		t.Fatalf("OR should be order-independent after normalisation: %v != %v", rBA, rAB)
	}
}

func TestAddNodeEnforcesOrderingInvariant(t *testing.T) {
	tr := NewTree(false)
	a, b, c := Ref(1), Ref(2), Ref(3)
	r, err := tr.AddNode(a, b, c)
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if r.Index() < c.Index() {
		t.Fatalf("new internal node id %d should exceed every operand id (max %d)", r.Index(), c.Index())
	}
}

func TestAddNodeOversizeTreeReturnsError(t *testing.T) {
	tr := NewTree(false)
	var last Ref = Ref(1)
	var err error
	for i := 0; i < maxInternalNodes+5; i++ {
		// Force fresh, never-collapsing, never-deduped nodes by chaining
		// through distinct leaves in a way that keeps growing the tree.
		next := Ref(uint32(2 + i%7))
		last, err = tr.AddNode(last, next, Ref(0))
		if err != nil {
			return // oversize error observed before the loop ends; success
		}
	}
	if tr.Count() > maxTreeNodes {
		t.Fatalf("tree grew past its fixed capacity without an error: count=%d max=%d", tr.Count(), maxTreeNodes)
	}
}
