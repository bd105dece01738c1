package catalog

import "testing"

func TestFootprintBooleanIdentities(t *testing.T) {
	a, b := baseFootprints[0], baseFootprints[1]

	if a.And(a.Not()) != (Footprint{}) {
		t.Fatal("a AND NOT a should be all-zero")
	}
	allOnes := a.Or(a.Not())
	for _, lane := range allOnes {
		if lane != ^uint64(0) {
			t.Fatal("a OR NOT a should be all-ones in every lane")
		}
	}
	if a.Xor(a) != (Footprint{}) {
		t.Fatal("a XOR a should be all-zero")
	}
	if a.And(b) != b.And(a) {
		t.Fatal("AND should be commutative")
	}
}

func TestFootprintBytesRoundTrip(t *testing.T) {
	fp := baseFootprints[3]
	buf := fp.Bytes()
	if len(buf) != footprintLanes*8 {
		t.Fatalf("Bytes() length = %d, want %d", len(buf), footprintLanes*8)
	}
	var back Footprint
	for i := range back {
		var v uint64
		for b := 0; b < 8; b++ {
			v |= uint64(buf[i*8+b]) << (8 * b)
		}
		back[i] = v
	}
	if back != fp {
		t.Fatal("decoding Bytes() did not reproduce the original footprint")
	}
}

func TestEvalMatchesDirectFootprintForAnd(t *testing.T) {
	tr, err := ParseSafe("ab&", defaultSkin, false)
	if err != nil {
		t.Fatalf("ParseSafe: %v", err)
	}
	got := EvalIdentity(tr)
	want := baseFootprints[0].And(baseFootprints[1])
	if got != want {
		t.Fatal("Eval(ab&) should equal baseFootprints[a] AND baseFootprints[b]")
	}
}

func TestEvalMatchesDirectFootprintForXor(t *testing.T) {
	tr, err := ParseSafe("ab^", defaultSkin, false)
	if err != nil {
		t.Fatalf("ParseSafe: %v", err)
	}
	got := EvalIdentity(tr)
	want := baseFootprints[0].Xor(baseFootprints[1])
	if got != want {
		t.Fatal("Eval(ab^) should equal baseFootprints[a] XOR baseFootprints[b]")
	}
}
