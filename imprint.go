package catalog

import (
	"github.com/zeebo/xxh3"
)

// imprintEntry is the payload stored under a footprint key: which signature
// the footprint belongs to, and under which transform it was recorded.
type imprintEntry struct {
	sid uint32
	tid uint32
}

type imprintSlot struct {
	used bool
	fp   Footprint
	imprintEntry
}

// imprintTable is the associative index from a footprint to the
// (signature, transform) pair that produces it. Rather than storing a
// footprint for every one of the 9! transforms of every signature, it
// stores only a strided sample: one footprint per block of `step`
// consecutive transform ids. A lookup for an unknown tree therefore tries
// up to `step` candidate pre-transforms before it can land on a stored
// sample, trading index size for probe count — the interleave setting
// picks that trade-off.
type imprintTable struct {
	interleave Interleave
	slots      []imprintSlot
	mask       uint64
}

func newImprintTable(interleave Interleave, capacityHint int) *imprintTable {
	size := uint64(1)
	for size < uint64(capacityHint)*2 {
		size <<= 1
	}
	if size < 16 {
		size = 16
	}
	return &imprintTable{interleave: interleave, slots: make([]imprintSlot, size), mask: size - 1}
}

// footprintHash hashes a 512-bit footprint with xxh3's 128-bit digest,
// folded to 64 bits. Footprints are wide and structured (runs of identical
// lanes are common for low-arity sub-expressions), so the collision
// resistance of a wide digest earns its keep over a plain 64-bit hash.
func footprintHash(fp Footprint) uint64 {
	sum := xxh3.Hash128(fp.Bytes())
	return sum.Hi ^ sum.Lo
}

func (it *imprintTable) insert(fp Footprint, sid, tid uint32) {
	if it.grownOccupancy() {
		it.grow()
	}
	h := footprintHash(fp) & it.mask
	for it.slots[h].used {
		if it.slots[h].fp == fp {
			return // identical footprint already recorded for some earlier (sid,tid)
		}
		h = (h + 1) & it.mask
	}
	it.slots[h] = imprintSlot{used: true, fp: fp, imprintEntry: imprintEntry{sid: sid, tid: tid}}
}

func (it *imprintTable) lookup(fp Footprint) (sid, tid uint32, ok bool) {
	h := footprintHash(fp) & it.mask
	for it.slots[h].used {
		if it.slots[h].fp == fp {
			e := it.slots[h].imprintEntry
			return e.sid, e.tid, true
		}
		h = (h + 1) & it.mask
	}
	return 0, 0, false
}

func (it *imprintTable) grownOccupancy() bool {
	occupied := 0
	for _, s := range it.slots {
		if s.used {
			occupied++
		}
	}
	return occupied*10 >= len(it.slots)*7
}

func (it *imprintTable) grow() {
	old := it.slots
	it.slots = make([]imprintSlot, len(old)*2)
	it.mask = uint64(len(it.slots)) - 1
	for _, s := range old {
		if s.used {
			it.insert(s.fp, s.sid, s.tid)
		}
	}
}

// AddSignature records tree's footprint under every strided sample
// transform (0, step, 2*step, ... (NumStored-1)*step: NumStored samples)
// against sid.
func (it *imprintTable) AddSignature(tree *Tree, sid uint32) {
	step := it.interleave.Step
	for i := uint32(0); i < it.interleave.NumStored; i++ {
		tid := i * step
		it.insert(Eval(tree, tid), sid, tid)
	}
}

// FindTransform searches for a transform under which tree matches some
// already-indexed signature. It tries each of the `step` candidate
// pre-transforms in turn; a hit at pre-transform delta against a stored
// sample (sid, i*step) means tree, relabelled by delta, equals the
// signature's representative relabelled by i*step — so the returned tid,
// the inverse of delta composed with i*step, relabels the signature's
// canonical form into tree: Eval(signature, tid) == EvalIdentity(tree).
func (it *imprintTable) FindTransform(tree *Tree) (sid uint32, tid uint32, found bool) {
	tbl := Transforms()
	step := it.interleave.Step
	for delta := uint32(0); delta < step; delta++ {
		fp := Eval(tree, delta)
		s, storedTid, ok := it.lookup(fp)
		if !ok {
			continue
		}
		composed, ok := tbl.Compose(tbl.ReverseOf(delta), storedTid)
		if !ok {
			continue
		}
		return s, composed, true
	}
	return 0, 0, false
}

// Len reports the number of distinct footprints currently stored.
func (it *imprintTable) Len() int {
	n := 0
	for _, s := range it.slots {
		if s.used {
			n++
		}
	}
	return n
}
