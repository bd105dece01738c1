package catalog

import "testing"

func TestPairTableInternDedupes(t *testing.T) {
	pt := newPairTable()
	id1 := pt.Intern(5, 17)
	id2 := pt.Intern(5, 17)
	if id1 != id2 {
		t.Fatalf("interning the same (member,transform) twice returned different ids: %d != %d", id1, id2)
	}
	id3 := pt.Intern(5, 18)
	if id3 == id1 {
		t.Fatal("a different transform id should get a distinct pair id")
	}
}

func TestPairTableReservesZero(t *testing.T) {
	pt := newPairTable()
	if pt.Len() != 1 {
		t.Fatalf("a fresh pairTable should reserve exactly slot 0, got Len()=%d", pt.Len())
	}
	if pt.Get(0) != (Pair{}) {
		t.Fatal("slot 0 should be the zero-value sentinel pair")
	}
}

func TestPairTableGetReturnsInternedValue(t *testing.T) {
	pt := newPairTable()
	id := pt.Intern(42, 9)
	got := pt.Get(id)
	want := Pair{MemberID: 42, TransformID: 9}
	if got != want {
		t.Fatalf("Get(%d) = %+v, want %+v", id, got, want)
	}
}
