package catalog

// Eval evaluates t under transform tid, returning the 512-bit footprint of
// the root. Walking nodes NSTART..count once computes
// R = (Q & T') ^ (~Q & F) lane-wise, where T' is T or ~T depending on the
// inverter bit. Input-slot footprints come from the
// shared transform table so evaluating under any of the 9! permutations is
// just a different base pointer, never a separate tree walk.
func Eval(t *Tree, tid uint32) Footprint {
	var fps [maxTreeNodes]Footprint

	tbl := Transforms()
	for k := 0; k < maxSlots; k++ {
		fps[1+k] = tbl.SlotFootprint(tid, k)
	}

	for id := uint32(NSTART); id < t.count; id++ {
		q, tt, f := t.Node(id)
		qv := fps[q.Index()]
		var tv Footprint
		if tt.Inverted() {
			tv = fps[tt.Index()].Not()
		} else {
			tv = fps[tt.Index()]
		}
		fv := fps[f.Index()]
		fps[id] = qv.And(tv).Xor(qv.Not().And(fv))
	}

	r := fps[t.root.Index()]
	if t.root.Inverted() {
		r = r.Not()
	}
	return r
}

// EvalIdentity evaluates t without any variable permutation (transform 0,
// the identity).
func EvalIdentity(t *Tree) Footprint {
	return Eval(t, 0)
}
