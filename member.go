package catalog

import (
	"fmt"

	catalogerrors "github.com/xyzzy/untangle/errors"
)

// Collector holds the in-memory build state accumulated while scanning
// candidate trees: the growing signature and member tables, the interned
// pair table, and the imprint index used to classify every offered tree
// against what is already known. Collector is not safe for concurrent use;
// BuildPartitions runs one Collector per partition, each writing its own
// output database; nothing merges the partitions afterwards.
type Collector struct {
	pure       bool
	interleave Interleave

	maxSignature uint32
	maxMember    uint32
	maxPair      uint32

	signatures []Signature       // index 0 reserved
	sigByName  map[string]uint32 // signature name -> sid
	members    []Member          // index 0 reserved
	memberByName map[string]uint32 // member name -> mid, checked before anything else
	pairs      *pairTable
	imprints   *imprintTable

	numSafe uint32

	skipDuplicate uint32
	skipSize      uint32
	skipUnsafe    uint32
}

// NewCollector returns an empty Collector sized for the given capacity
// guards and interleave setting.
func NewCollector(pure bool, interleave Interleave, maxSignature, maxMember, maxPair uint32) *Collector {
	return &Collector{
		pure:         pure,
		interleave:   interleave,
		maxSignature: maxSignature,
		maxMember:    maxMember,
		maxPair:      maxPair,
		signatures:   []Signature{{}},
		sigByName:    make(map[string]uint32),
		members:      []Member{{}},
		memberByName: make(map[string]uint32),
		pairs:        newPairTable(),
		imprints:     newImprintTable(interleave, int(maxSignature)),
	}
}

// SeedFromInput loads input's signatures, members, pairs and imprint index
// into the collector, preserving every id exactly as input assigned it, so
// a build against an existing database extends it instead of starting
// from an empty catalogue: candidates that are transforms of, or built
// from, an already-catalogued component resolve against it from the very
// first Offer call.
func (c *Collector) SeedFromInput(input *DB) error {
	numSig := input.NumSignatures()
	numMem := input.NumMembers()
	numPairs := input.NumPairs()

	signatures := make([]Signature, numSig+1)
	for sid := uint32(1); sid <= numSig; sid++ {
		signatures[sid] = input.Signature(sid)
	}
	c.signatures = signatures
	c.sigByName = make(map[string]uint32, numSig)
	for sid := uint32(1); sid <= numSig; sid++ {
		c.sigByName[c.signatures[sid].Name] = sid
	}

	members := make([]Member, numMem+1)
	for mid := uint32(1); mid <= numMem; mid++ {
		members[mid] = input.Member(mid)
	}
	c.members = members
	c.memberByName = make(map[string]uint32, numMem)
	for mid := uint32(1); mid <= numMem; mid++ {
		c.memberByName[c.members[mid].Name] = mid
	}

	pairs := make([]Pair, numPairs+1)
	for pid := uint32(1); pid <= numPairs; pid++ {
		pairs[pid] = input.Pair(pid)
	}
	c.pairs.loadPairs(pairs)

	for sid := uint32(1); sid <= numSig; sid++ {
		tree, err := ParseSafe(c.signatures[sid].Name, defaultSkin, c.pure)
		if err != nil {
			return fmt.Errorf("seed signature %d (%q): %w", sid, c.signatures[sid].Name, err)
		}
		c.imprints.AddSignature(tree, sid)
	}
	return nil
}

func (c *Collector) Signatures() []Signature { return c.signatures }
func (c *Collector) MembersSlice() []Member  { return c.members }
func (c *Collector) Pairs() *pairTable       { return c.pairs }

// decision is the outcome of comparing a freshly offered member against
// whatever the matching signature already holds.
type decision byte

const (
	decideAdd     decision = '+' // first member of a signature, or one that ranks behind the current head
	decideEqual   decision = '=' // exact duplicate, nothing to do
	decidePromote decision = '>' // offered member outranks the signature's current head
	decideInferior decision = '<' // offered member ranks level with the current head, keep as non-head member
	decideReject  decision = '-' // signature group is SAFE but the candidate isn't, never worth keeping
)

// rank orders members within a signature: components before
// non-components, then SAFE over non-SAFE, then non-deprecated over
// deprecated, then ascending size, then lexicographic name as a last,
// deterministic tie-break. Safety dominates size: a larger SAFE member
// always outranks a smaller unsafe one, since a group's head is what
// later builds trust as its SAFE witness.
func rank(a, b *Member) int {
	aComp, bComp := a.Flags&MemComponent != 0, b.Flags&MemComponent != 0
	if aComp != bComp {
		if aComp {
			return -1
		}
		return 1
	}
	aSafe, bSafe := a.Flags&MemSafe != 0, b.Flags&MemSafe != 0
	if aSafe != bSafe {
		if aSafe {
			return -1
		}
		return 1
	}
	aDepr, bDepr := a.Flags&MemDepr != 0, b.Flags&MemDepr != 0
	if aDepr != bDepr {
		if aDepr {
			return 1
		}
		return -1
	}
	if a.Size != b.Size {
		if a.Size < b.Size {
			return -1
		}
		return 1
	}
	if a.Name != b.Name {
		if a.Name < b.Name {
			return -1
		}
		return 1
	}
	return 0
}

// Offer classifies tree against the collector's current state and, when it
// contributes something new, admits it as a member. It reports whether the
// tree was admitted (as opposed to being a rejected duplicate or inferior
// form).
func (c *Collector) Offer(tree *Tree, name string, numPlaceholder, numEndpoint, numBackRef uint8) (bool, error) {
	// Step 1: de-duplicate by name before anything else runs.
	if _, exists := c.memberByName[name]; exists {
		c.skipDuplicate++
		return false, nil
	}

	// Step 2: overflow guards.
	if uint32(len(c.signatures)) >= c.maxSignature && c.lookupExistingSID(tree) == 0 {
		return false, catalogerrors.ErrIndexOverflow
	}
	if uint32(len(c.members)) >= c.maxMember {
		return false, catalogerrors.ErrIndexOverflow
	}

	size := uint16(tree.Size())

	// Step 3: imprint classification.
	sid, tid, found := c.imprints.FindTransform(tree)
	isNewSignature := !found

	var sig *Signature
	if isNewSignature {
		sid = uint32(len(c.signatures))
		c.signatures = append(c.signatures, Signature{
			Name:           name,
			Size:           size,
			NumPlaceholder: numPlaceholder,
			NumEndpoint:    numEndpoint,
			NumBackRef:     numBackRef,
		})
		c.sigByName[name] = sid
		c.imprints.AddSignature(tree, sid)
		tid = 0
		sig = &c.signatures[sid]
	} else {
		sig = &c.signatures[sid]
		// Step 4: early-size-reject. A SAFE group only tolerates a member
		// at most as large as its current best; an unsafe group tolerates
		// one extra node in case a same-size safe replacement never turns
		// up. Size is invariant under relabelling, so this applies
		// regardless of which transform matched.
		limit := sig.Size
		if sig.Safe() {
			if head := c.headOf(sid); head != nil {
				limit = head.Size
			}
		} else {
			limit = sig.Size + 1
		}
		if size > limit {
			c.skipSize++
			return false, nil
		}
	}

	// Step 5: head/tail analysis, interning tails and heads as pairs. A
	// tail whose own signature isn't catalogued yet can't be safely
	// referenced at all, so the candidate is rejected; an unsafe tail, or
	// a missing or unsafe head, only costs the candidate its SAFE flag.
	qPair, tPair, fPair, heads, safe, tailsResolved, err := c.analyzeHeadsTails(tree)
	if err != nil {
		return false, err
	}
	if !tailsResolved {
		return false, nil
	}

	var flags uint16
	if safe {
		flags |= MemSafe
	}

	candidate := Member{
		Name:           name,
		SID:            sid,
		TID:            tid,
		Size:           size,
		Flags:          flags,
		NumPlaceholder: numPlaceholder,
		NumEndpoint:    numEndpoint,
		NumBackRef:     numBackRef,
		QPair:          qPair,
		TPair:          tPair,
		FPair:          fPair,
		Heads:          heads,
	}

	// Step 6: decision table against the signature's current chain.
	d := c.decide(sig, &candidate, safe)
	switch d {
	case decideEqual:
		return false, nil
	case decideReject:
		c.skipUnsafe++
		return false, nil
	}

	if uint32(len(c.members)) >= c.maxMember {
		return false, catalogerrors.ErrIndexOverflow
	}
	mid := uint32(len(c.members))
	c.members = append(c.members, candidate)
	c.memberByName[name] = mid

	// Step 7/9: chain the new member in, promoting it to the head when it
	// outranks the current one.
	c.linkMember(sig, mid, d == decidePromote)

	// Step 8/10: safe-score bookkeeping.
	if candidate.Flags&MemSafe != 0 {
		sig.Flags |= SigSafe
	}
	if sig.Safe() {
		c.numSafe++
	}

	return true, nil
}

func (c *Collector) lookupExistingSID(tree *Tree) uint32 {
	sid, _, found := c.imprints.FindTransform(tree)
	if !found {
		return 0
	}
	return sid
}

func (c *Collector) headOf(sid uint32) *Member {
	head := c.signatures[sid].FirstMember
	if head == 0 {
		return nil
	}
	return &c.members[head]
}

func (c *Collector) decide(sig *Signature, candidate *Member, candidateSafe bool) decision {
	if sig.FirstMember == 0 {
		return decideAdd
	}
	current := &c.members[sig.FirstMember]
	if current.Name == candidate.Name {
		return decideEqual
	}
	if sig.Safe() && !candidateSafe {
		return decideReject
	}
	switch r := rank(candidate, current); {
	case r < 0:
		return decidePromote
	case r == 0:
		return decideInferior
	default:
		return decideAdd
	}
}

// linkMember splices mid into sig's intrusive member chain, at the head
// when promote is set, otherwise just after the current head.
func (c *Collector) linkMember(sig *Signature, mid uint32, promote bool) {
	m := &c.members[mid]
	if sig.FirstMember == 0 {
		sig.FirstMember = mid
		m.NextMember = 0
		return
	}
	if promote {
		m.NextMember = sig.FirstMember
		sig.FirstMember = mid
		return
	}
	head := sig.FirstMember
	m.NextMember = c.members[head].NextMember
	c.members[head].NextMember = mid
}

// analyzeHeadsTails decomposes tree's root into its three tail components
// (interned as pairs of the head member of whichever signature those
// sub-trees already resolve to and the matching transform, or 0 for a bare
// input leaf) and up to three head shapes (the root with one non-leaf tail
// abstracted into a fresh placeholder slot), interned the same way. safe reports whether every tail and head
// resolved to a SAFE member; resolved reports whether every tail (not
// head) could be resolved at all — an internal subtree whose own
// signature isn't catalogued yet can never be referenced, so the caller
// rejects the candidate outright rather than just marking it unsafe.
func (c *Collector) analyzeHeadsTails(tree *Tree) (qPair, tPair, fPair uint32, heads [6]uint32, safe, resolved bool, err error) {
	q, t, f := rootOperands(tree)
	safe, resolved = true, true

	var qOK, tOK, fOK bool
	qPair, qOK, err = c.internTail(tree, q)
	if err != nil {
		return
	}
	tPair, tOK, err = c.internTail(tree, t)
	if err != nil {
		return
	}
	fPair, fOK, err = c.internTail(tree, f)
	if err != nil {
		return
	}
	if !qOK || !tOK || !fOK {
		resolved = false
		return
	}
	if !c.pairIsSafe(qPair) || !c.pairIsSafe(tPair) || !c.pairIsSafe(fPair) {
		safe = false
	}

	// The hole takes the first leaf slot no node of the tree uses, so that
	// buildHead's re-normalisation cannot merge it with an existing input.
	var used [maxTreeNodes]bool
	for id := uint32(NSTART); id < tree.Count(); id++ {
		nq, nt, nf := tree.Node(id)
		used[nq.Index()], used[nt.Index()], used[nf.Index()] = true, true, true
	}
	holeSlot := uint32(1)
	for holeSlot < NSTART && used[holeSlot] {
		holeSlot++
	}

	n := 0
	for _, pos := range [3]tailPosition{tailQ, tailT, tailF} {
		operand := map[tailPosition]Ref{tailQ: q, tailT: t, tailF: f}[pos]
		if operand.Index() < NSTART {
			continue // nothing to abstract, the tail is already a bare leaf
		}
		if holeSlot == NSTART {
			safe = false // every leaf slot is in use, no head can be built
			continue
		}
		headTree, herr := buildHead(tree, pos, holeSlot)
		if herr != nil {
			err = herr
			return
		}
		sid, tid, found := c.imprints.FindTransform(headTree)
		if !found {
			safe = false
			continue
		}
		pid := c.internPair(sid, tid)
		if !c.pairIsSafe(pid) {
			safe = false
		}
		if n < len(heads) && !containsPair(heads[:n], pid) {
			heads[n] = pid
			n++
		}
	}
	return
}

// internTail interns ref's tail component as a pair. ok is false only when
// ref is an internal subtree whose own signature the index doesn't know
// about yet — never for a bare leaf, which trivially resolves to the
// sentinel pair 0.
func (c *Collector) internTail(tree *Tree, ref Ref) (pid uint32, ok bool, err error) {
	if ref.Index() < NSTART {
		return 0, true, nil // bare input leaf, no component to reference
	}
	sub, err := ExtractTail(tree, ref)
	if err != nil {
		return 0, false, err
	}
	sid, tid, found := c.imprints.FindTransform(sub)
	if !found {
		return 0, false, nil
	}
	return c.internPair(sid, tid), true, nil
}

// pairIsSafe reports whether pid names a member that is itself SAFE, or is
// the sentinel pair 0 (a bare leaf, trivially safe).
func (c *Collector) pairIsSafe(pid uint32) bool {
	if pid == 0 {
		return true
	}
	p := c.pairs.Get(pid)
	if p.MemberID == 0 || p.MemberID >= uint32(len(c.members)) {
		return false
	}
	return c.members[p.MemberID].Safe()
}

func (c *Collector) internPair(sid, tid uint32) uint32 {
	sig := &c.signatures[sid]
	memberID := sig.FirstMember
	return c.pairs.Intern(memberID, tid)
}

func containsPair(haystack []uint32, v uint32) bool {
	for _, h := range haystack {
		if h == v {
			return true
		}
	}
	return false
}
