package catalog

import "testing"

func TestImprintFindsSignatureUnderAnyTransform(t *testing.T) {
	it := newImprintTable(DefaultInterleave, 16)

	tr, err := ParseSafe("ab&", defaultSkin, false)
	if err != nil {
		t.Fatalf("ParseSafe: %v", err)
	}
	it.AddSignature(tr, 1)

	// A relabelling of the same shape (b replaced by c) must still resolve
	// to signature 1, under some transform, even though it was never
	// directly stored: ac& and ab& are distinct trees (different leaf
	// refs) related by the transform that swaps slots b and c.
	relabelled, err := ParseSafe("ac&", defaultSkin, false)
	if err != nil {
		t.Fatalf("ParseSafe: %v", err)
	}
	sid, tid, found := it.FindTransform(relabelled)
	if !found {
		t.Fatal("FindTransform should locate the relabelled shape")
	}
	if sid != 1 {
		t.Fatalf("sid = %d, want 1", sid)
	}

	// The returned transform must actually carry the stored signature onto
	// relabelled's shape: evaluating tr under tid should reproduce
	// relabelled's identity footprint.
	if Eval(tr, tid) != EvalIdentity(relabelled) {
		t.Fatalf("transform %d does not carry the stored signature onto the candidate", tid)
	}
}

func TestImprintMissReportsNotFound(t *testing.T) {
	it := newImprintTable(DefaultInterleave, 16)
	tr, err := ParseSafe("ab&", defaultSkin, false)
	if err != nil {
		t.Fatalf("ParseSafe: %v", err)
	}
	if _, _, found := it.FindTransform(tr); found {
		t.Fatal("FindTransform on an empty index should report not found")
	}
}

func TestImprintGrowsUnderLoad(t *testing.T) {
	it := newImprintTable(Interleave{NumStored: 720, Step: 504}, 2)
	notations := []string{"ab&", "ab+", "ab^", "ab>", "ab<", "abc?", "abc!"}
	for i, n := range notations {
		tr, err := ParseSafe(n, defaultSkin, false)
		if err != nil {
			t.Fatalf("ParseSafe(%q): %v", n, err)
		}
		it.AddSignature(tr, uint32(i+1))
	}
	if it.Len() == 0 {
		t.Fatal("expected a nonempty imprint table after several AddSignature calls")
	}
	if len(it.slots) <= 16 {
		t.Fatalf("imprint table did not grow past its initial 16 slots: %d slots for %d footprints", len(it.slots), it.Len())
	}
}
