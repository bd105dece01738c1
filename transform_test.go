package catalog

import "testing"

func TestTransformTableIdentityIsFirst(t *testing.T) {
	tbl := Transforms()
	if tbl.Count() != transformCount {
		t.Fatalf("Count() = %d, want %d", tbl.Count(), transformCount)
	}
	if got := tbl.Name(0); got != transformAlphabet {
		t.Fatalf("tid 0 should be the identity permutation, got %q", got)
	}
}

func TestTransformReverseOfUndoesForward(t *testing.T) {
	tbl := Transforms()
	for _, tid := range []uint32{0, 1, 17, 5000, transformCount - 1} {
		rev := tbl.ReverseOf(tid)
		composed, ok := tbl.Compose(tid, rev)
		if !ok {
			t.Fatalf("Compose(%d, reverseOf(%d)=%d) not found", tid, tid, rev)
		}
		if composed != 0 {
			t.Fatalf("tid %d composed with its reverse should be the identity (0), got %d", tid, composed)
		}
	}
}

func TestTransformComposeWithIdentityIsNoOp(t *testing.T) {
	tbl := Transforms()
	for _, tid := range []uint32{0, 42, 123456} {
		composed, ok := tbl.Compose(tid, 0)
		if !ok || composed != tid {
			t.Fatalf("Compose(%d, identity) = (%d, %v), want (%d, true)", tid, composed, ok, tid)
		}
		composed, ok = tbl.Compose(0, tid)
		if !ok || composed != tid {
			t.Fatalf("Compose(identity, %d) = (%d, %v), want (%d, true)", tid, composed, ok, tid)
		}
	}
}

func TestTransformLookupAgreesWithName(t *testing.T) {
	tbl := Transforms()
	for _, tid := range []uint32{0, 9, 362879} {
		name := tbl.Name(tid)
		got, ok := tbl.Lookup(name)
		if !ok || got != tid {
			t.Fatalf("Lookup(Name(%d)=%q) = (%d, %v), want (%d, true)", tid, name, got, ok, tid)
		}
	}
}

func TestTransformSlotFootprintMatchesBaseUnderIdentity(t *testing.T) {
	tbl := Transforms()
	for k := 0; k < maxSlots; k++ {
		if tbl.SlotFootprint(0, k) != baseFootprints[k] {
			t.Fatalf("SlotFootprint(identity, %d) should equal baseFootprints[%d]", k, k)
		}
	}
}
