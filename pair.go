package catalog

// pairTable hash-interns (member-id, transform-id) tuples.
// Entry 0 is the reserved sentinel.
type pairTable struct {
	pairs []Pair
	index map[Pair]uint32
}

func newPairTable() *pairTable {
	return &pairTable{
		pairs: []Pair{{}}, // reserve id 0
		index: make(map[Pair]uint32),
	}
}

// Intern returns the id of (memberID, transformID), creating it if absent.
func (pt *pairTable) Intern(memberID, transformID uint32) uint32 {
	key := Pair{MemberID: memberID, TransformID: transformID}
	if id, ok := pt.index[key]; ok {
		return id
	}
	id := uint32(len(pt.pairs))
	pt.pairs = append(pt.pairs, key)
	pt.index[key] = id
	return id
}

func (pt *pairTable) Get(id uint32) Pair { return pt.pairs[id] }

func (pt *pairTable) Len() int { return len(pt.pairs) }

// loadPairs replaces the table's contents wholesale with pairs already read
// back from a database (pairs[0] is expected to be the zero sentinel), so
// ids already referenced by seeded members keep resolving to the same
// tuple rather than being re-interned under a new id.
func (pt *pairTable) loadPairs(pairs []Pair) {
	pt.pairs = pairs
	pt.index = make(map[Pair]uint32, len(pairs))
	for id, p := range pairs {
		if id == 0 {
			continue
		}
		pt.index[p] = uint32(id)
	}
}
