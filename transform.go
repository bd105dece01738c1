package catalog

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// transformCount is 9!, the number of permutations of the 9-variable
// alphabet.
const transformCount = 362880

// transformAlphabet is the identity skin used to render a permutation as an
// 8-... actually 9-character name.
const transformAlphabet = "abcdefghi"

// transform is one entry of the immutable permutation table: a name and its
// packed numeric encoding (one nibble per slot, slot k holds the index the
// identity's k-th variable is relabelled to).
type transform struct {
	name     string
	encoding uint64 // 9 nibbles, low nibble = slot 0
}

// transformTable is the fixed, shared set of all 9! permutations together
// with two independently hashed name indices and a direct forward->reverse
// id map. Every database opened by this package shares the single
// process-wide instance.
type transformTable struct {
	entries    []transform // length transformCount, indexed by forward tid
	reverseOf  []uint32    // reverseOf[tid] = id of the inverse permutation
	forwardIdx *nameIndex  // name -> forward tid, hashed with xxhash
	composeIdx *nameIndex  // name -> forward tid, hashed with murmur3
}

var (
	globalTransforms     *transformTable
	globalTransformsOnce sync.Once
)

// Transforms returns the shared, lazily-built transform table.
func Transforms() *transformTable {
	globalTransformsOnce.Do(func() {
		globalTransforms = buildTransformTable()
	})
	return globalTransforms
}

func buildTransformTable() *transformTable {
	entries := make([]transform, transformCount)
	perm := [maxSlots]int{0, 1, 2, 3, 4, 5, 6, 7, 8}
	for tid := 0; tid < transformCount; tid++ {
		entries[tid] = transform{
			name:     permName(perm),
			encoding: packNibbles(perm),
		}
		nextPermutation(&perm)
	}

	fwd := newNameIndex(transformCount, hashXXH64)
	// composeIdx carries the same name->tid contents as fwd but is hashed
	// with an independent family (murmur3), so Compose's hot lookup never
	// collides the same way Lookup's would for the same input.
	cmp := newNameIndex(transformCount, hashMurmur3)
	for tid, e := range entries {
		fwd.insert(e.name, uint32(tid))
		cmp.insert(e.name, uint32(tid))
	}

	reverseOf := make([]uint32, transformCount)
	for tid, e := range entries {
		p := unpackNibbles(e.encoding)
		inv := invertPermutation(p)
		invTid, ok := fwd.lookup(permName(inv))
		if !ok {
			panic("catalog: transform table: inverse permutation not found")
		}
		reverseOf[tid] = invTid
	}

	return &transformTable{
		entries:    entries,
		reverseOf:  reverseOf,
		forwardIdx: fwd,
		composeIdx: cmp,
	}
}

// Count returns 9!.
func (t *transformTable) Count() int { return transformCount }

// Name returns the 9-character name of the forward transform tid.
func (t *transformTable) Name(tid uint32) string { return t.entries[tid].name }

// Encoding returns the packed nibble encoding of the forward transform tid.
func (t *transformTable) Encoding(tid uint32) uint64 { return t.entries[tid].encoding }

// ReverseOf returns the id of the transform that undoes tid.
func (t *transformTable) ReverseOf(tid uint32) uint32 { return t.reverseOf[tid] }

// Lookup resolves a transform name to its forward id.
func (t *transformTable) Lookup(name string) (uint32, bool) {
	return t.forwardIdx.lookup(name)
}

// Compose returns the id of the transform obtained by applying a then b,
// resolved by constructing the composed permutation's name and looking it up
// in composeIdx, the murmur3-hashed name index kept separate from the one
// Lookup uses.
func (t *transformTable) Compose(a, b uint32) (uint32, bool) {
	pa := unpackNibbles(t.entries[a].encoding)
	pb := unpackNibbles(t.entries[b].encoding)
	var pc [maxSlots]int
	for k := 0; k < maxSlots; k++ {
		pc[k] = pa[pb[k]]
	}
	return t.composeIdx.lookup(permName(pc))
}

// SlotFootprint returns the footprint that input slot k evaluates to under
// forward transform tid: the base footprint of whichever original slot tid
// maps position k onto. No per-transform footprint vectors are stored;
// they are derived on demand from the packed nibble encoding.
func (t *transformTable) SlotFootprint(tid uint32, k int) Footprint {
	enc := t.entries[tid].encoding
	src := int((enc >> (4 * k)) & 0xF)
	return baseFootprints[src]
}

func permName(p [maxSlots]int) string {
	buf := make([]byte, maxSlots)
	for i, idx := range p {
		buf[i] = transformAlphabet[idx]
	}
	return string(buf)
}

func packNibbles(p [maxSlots]int) uint64 {
	var enc uint64
	for i, idx := range p {
		enc |= uint64(idx) << (4 * i)
	}
	return enc
}

func unpackNibbles(enc uint64) [maxSlots]int {
	var p [maxSlots]int
	for i := range p {
		p[i] = int((enc >> (4 * i)) & 0xF)
	}
	return p
}

func invertPermutation(p [maxSlots]int) [maxSlots]int {
	var inv [maxSlots]int
	for i, v := range p {
		inv[v] = i
	}
	return inv
}

// nextPermutation advances p to its lexicographic successor in place
// (standard next_permutation algorithm); behaviour is undefined once p is
// already the final permutation, which buildTransformTable never requests
// (it stops after generating exactly transformCount entries).
func nextPermutation(p *[maxSlots]int) {
	n := len(p)
	i := n - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return
	}
	j := n - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	for l, r := i+1, n-1; l < r; l, r = l+1, r-1 {
		p[l], p[r] = p[r], p[l]
	}
}

// nameIndex is a minimal open-addressing hash set mapping transform names to
// ids. Linear probing, power-of-two backed by a slice sized generously so
// lookups during construction never see a full table. The hash family is
// injected so two indices over the same names can draw from independent
// families.
type nameIndex struct {
	slots []nameSlot
	mask  uint64
	hash  func(string) uint64
}

type nameSlot struct {
	used bool
	name string
	id   uint32
}

func hashXXH64(name string) uint64 { return xxhash.Sum64String(name) }

func hashMurmur3(name string) uint64 { return murmur3.Sum64([]byte(name)) }

func newNameIndex(n int, hash func(string) uint64) *nameIndex {
	size := uint64(1)
	for size < uint64(n)*2 {
		size <<= 1
	}
	return &nameIndex{slots: make([]nameSlot, size), mask: size - 1, hash: hash}
}

func (idx *nameIndex) insert(name string, id uint32) {
	h := idx.hash(name) & idx.mask
	for idx.slots[h].used {
		h = (h + 1) & idx.mask
	}
	idx.slots[h] = nameSlot{used: true, name: name, id: id}
}

func (idx *nameIndex) lookup(name string) (uint32, bool) {
	h := idx.hash(name) & idx.mask
	for idx.slots[h].used {
		if idx.slots[h].name == name {
			return idx.slots[h].id, true
		}
		h = (h + 1) & idx.mask
	}
	return 0, false
}
