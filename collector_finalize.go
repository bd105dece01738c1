package catalog

import (
	"sort"
)

// FinalizeStats summarises what Finalize changed.
type FinalizeStats struct {
	NumSignatures uint32
	NumMembers    uint32
	NumPairs      uint32
	NumSafe       uint32
	NumUnsafe     uint32 // signature groups with no SAFE member
	NumEmpty      uint32 // signatures with no members at all
	NumComponent  uint32
	GroupsFixed   uint32 // signature SAFE flags reconciled against their recomputed members

	SkipDuplicate uint32 // candidates rejected as an exact name re-offer
	SkipSize      uint32 // candidates rejected for exceeding their group's size tolerance
	SkipUnsafe    uint32 // candidates rejected because their group is SAFE and they are not

	Truncated   bool   // the build stopped early on a resource bound with --truncate set
	TruncatedAt string // name of the last candidate seen before truncation, when Truncated
}

// Finalize runs the closing pass over every accumulated signature: sorting
// each signature's member chain into final order, truncating trailing
// empty signatures, re-deriving heads/tails and pairs now that every
// signature's final shape is known, reconciling each signature's SAFE flag
// against the members it actually ended up with, and flagging members
// that some other member's head or tail references (a COMPONENT can never
// be pruned independently of whatever still points at it).
func (c *Collector) Finalize() (*FinalizeStats, error) {
	c.sortMemberChains()
	c.truncateEmptySignatures()

	if err := c.rederiveHeadsAndTails(); err != nil {
		return nil, err
	}

	groupsFixed := c.enforceSafeConsistency()
	c.flagComponents()

	stats := &FinalizeStats{
		NumSignatures: uint32(len(c.signatures) - 1),
		NumMembers:    uint32(len(c.members) - 1),
		NumPairs:      uint32(c.pairs.Len() - 1),
		GroupsFixed:   groupsFixed,
		SkipDuplicate: c.skipDuplicate,
		SkipSize:      c.skipSize,
		SkipUnsafe:    c.skipUnsafe,
	}
	for i := 1; i < len(c.signatures); i++ {
		if c.signatures[i].Safe() {
			stats.NumSafe++
		} else {
			stats.NumUnsafe++
		}
		if c.signatures[i].FirstMember == 0 {
			stats.NumEmpty++
		}
	}
	for i := 1; i < len(c.members); i++ {
		if c.members[i].Flags&MemComponent != 0 {
			stats.NumComponent++
		}
	}
	return stats, nil
}

// sortMemberChains re-walks every signature's intrusive member chain and
// relinks it in rank order (smallest/SAFEst/least-deprecated first, ties
// broken by name), so the chain head is always the single best
// representative for that signature.
func (c *Collector) sortMemberChains() {
	bySig := make(map[uint32][]uint32)
	for mid := 1; mid < len(c.members); mid++ {
		sid := c.members[mid].SID
		bySig[sid] = append(bySig[sid], uint32(mid))
	}
	for sid, ids := range bySig {
		sort.Slice(ids, func(i, j int) bool {
			return rank(&c.members[ids[i]], &c.members[ids[j]]) < 0
		})
		for i, mid := range ids {
			if i+1 < len(ids) {
				c.members[mid].NextMember = ids[i+1]
			} else {
				c.members[mid].NextMember = 0
			}
		}
		c.signatures[sid].FirstMember = ids[0]
	}
}

// truncateEmptySignatures drops every signature record trailing the last
// one that still has a non-empty member chain, since the array is append-
// only during the build and late-game rejects can leave a dangling tail.
func (c *Collector) truncateEmptySignatures() {
	last := 0
	for i := 1; i < len(c.signatures); i++ {
		if c.signatures[i].FirstMember != 0 {
			last = i
		}
	}
	c.signatures = c.signatures[:last+1]
}

// rederiveHeadsAndTails recomputes every member's tails, heads and pairs
// against the now-final set of signatures. This matters because a member
// admitted early in the scan may have referenced a signature that was
// later superseded by a smaller representative; only after every
// signature's final head is fixed can a pair durably name "the"
// representative of that signature.
func (c *Collector) rederiveHeadsAndTails() error {
	for mid := 1; mid < len(c.members); mid++ {
		m := &c.members[mid]
		tree, err := rebuildMemberTree(c, m)
		if err != nil {
			return err
		}
		qPair, tPair, fPair, heads, safe, _, err := c.analyzeHeadsTails(tree)
		if err != nil {
			return err
		}
		m.QPair, m.TPair, m.FPair, m.Heads = qPair, tPair, fPair, heads
		if safe {
			m.Flags |= MemSafe
		} else {
			m.Flags &^= MemSafe
		}
	}
	return nil
}

// rebuildMemberTree reconstructs m's own tree by reading the signature's
// canonical shape back out and applying m's own transform. Members never
// store their own parse tree once admitted, only the (signature,
// transform) pair that reproduces it, so every pass that needs the
// concrete structure rebuilds it on demand.
func rebuildMemberTree(c *Collector, m *Member) (*Tree, error) {
	sig := &c.signatures[m.SID]
	notation, skin := sig.Name, defaultSkin
	base, err := ParseSafe(notation, skin, c.pure)
	if err != nil {
		return nil, err
	}
	if m.TID == 0 {
		return base, nil
	}
	tbl := Transforms()
	transformedSkin := applyTransformToSkin(skin, tbl.Name(m.TID))
	return ParseSafe(notation, transformedSkin, c.pure)
}

// applyTransformToSkin permutes the 9-letter identity skin according to
// name, producing the skin that reproduces the same tree shape relabelled
// by that transform.
func applyTransformToSkin(skin, name string) string {
	buf := make([]byte, len(skin))
	for i, c := range name {
		buf[i] = skin[c-'a']
	}
	return string(buf)
}

// enforceSafeConsistency reconciles every signature's SAFE flag against
// what rederiveHeadsAndTails just determined its members actually are: a
// signature is SAFE iff at least one member in its chain genuinely is. A
// member's own SAFE flag is never touched here — a member is only as safe
// as its own Q/T/F/heads really are, per Testable Property #6 — so any
// mismatch between the group flag and its chain is fixed by adjusting the
// group flag, never by fabricating a member's safety. On rank-sorted
// chains the mismatch only arises when the chain's SAFE witness moved or
// vanished during re-derivation; either direction is counted and warrants
// a warning from the caller.
func (c *Collector) enforceSafeConsistency() uint32 {
	var fixed uint32
	for sid := 1; sid < len(c.signatures); sid++ {
		sig := &c.signatures[sid]
		hasSafe := false
		for mid := sig.FirstMember; mid != 0; mid = c.members[mid].NextMember {
			if c.members[mid].Safe() {
				hasSafe = true
				break
			}
		}
		if hasSafe == sig.Safe() {
			continue
		}
		fixed++
		if hasSafe {
			sig.Flags |= SigSafe
		} else {
			sig.Flags &^= SigSafe
		}
	}
	return fixed
}

// flagComponents marks every member that some other member's tail or head
// pairs reference, so a later pruning pass never drops a member something
// else still depends on.
func (c *Collector) flagComponents() {
	referenced := make(map[uint32]bool)
	mark := func(pid uint32) {
		if pid == 0 {
			return
		}
		p := c.pairs.Get(pid)
		if p.MemberID != 0 {
			referenced[p.MemberID] = true
		}
	}
	for mid := 1; mid < len(c.members); mid++ {
		m := &c.members[mid]
		mark(m.QPair)
		mark(m.TPair)
		mark(m.FPair)
		for _, h := range m.Heads {
			mark(h)
		}
	}
	for mid := range referenced {
		c.members[mid].Flags |= MemComponent
	}
}
