package catalog

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/xyzzy/untangle/internal/bits"
	"github.com/xyzzy/untangle/internal/encoding"
)

// populateSections executes plans against w, pulling data from c for every
// rebuilt section and from input's mapped bytes for every inherited or
// copied one.
func populateSections(w *dbWriter, plans []sectionPlan, c *Collector, input *DB) error {
	for _, p := range plans {
		switch p.place {
		case placeInherit, placeCopy:
			if input == nil {
				return fmt.Errorf("populateSections: %s planned as inherited/copied with no input database", sectionNames[p.id])
			}
			w.copyFrom(p.id, input.section(p.id))
		case placeRebuild:
			if err := rebuildSection(w, p, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func rebuildSection(w *dbWriter, p sectionPlan, c *Collector) error {
	switch p.id {
	case secTransforms:
		return rebuildTransforms(w)
	case secSignatures:
		return rebuildSignatures(w, c)
	case secMembers:
		return rebuildMembers(w, c)
	case secPairs:
		return rebuildPairs(w, c)
	case secSignatureIndex:
		return rebuildNameIndex(w, secSignatureIndex, signatureNames(c))
	case secMemberIndex:
		return rebuildNameIndex(w, secMemberIndex, memberNames(c))
	case secHints, secHintIndex, secImprints, secImprintIndex, secPairIndex:
		// Nothing writes these sections: they stay zero-filled, with or
		// without --saveindex.
		return nil
	}
	return nil
}

func rebuildTransforms(w *dbWriter) error {
	buf := w.sectionBytes(secTransforms)
	tbl := Transforms()
	for tid := 0; tid < tbl.Count(); tid++ {
		off := tid * transformRecordSize
		encodeTransform(buf[off:off+transformRecordSize], tbl.Name(uint32(tid)), tbl.Encoding(uint32(tid)))
	}
	return nil
}

func rebuildSignatures(w *dbWriter, c *Collector) error {
	buf := w.sectionBytes(secSignatures)
	for sid := 1; sid < len(c.signatures); sid++ {
		off := sid * signatureRecordSize
		encodeSignature(buf[off:off+signatureRecordSize], c.signatures[sid])
	}
	return nil
}

func rebuildMembers(w *dbWriter, c *Collector) error {
	buf := w.sectionBytes(secMembers)
	for mid := 1; mid < len(c.members); mid++ {
		off := mid * memberRecordSize
		encodeMember(buf[off:off+memberRecordSize], c.members[mid])
	}
	return nil
}

func rebuildPairs(w *dbWriter, c *Collector) error {
	buf := w.sectionBytes(secPairs)
	n := c.pairs.Len()
	for pid := 1; pid < n; pid++ {
		off := pid * pairRecordSize
		encodePair(buf[off:off+pairRecordSize], c.pairs.Get(uint32(pid)))
	}
	return nil
}

func signatureNames(c *Collector) []string {
	names := make([]string, len(c.signatures))
	for i, s := range c.signatures {
		names[i] = s.Name
	}
	return names
}

func memberNames(c *Collector) []string {
	names := make([]string, len(c.members))
	for i, m := range c.members {
		names[i] = m.Name
	}
	return names
}

// rebuildNameIndex builds an open-addressing hash index over names (index 0
// reserved, names[0] is always the sentinel and never indexed).
func rebuildNameIndex(w *dbWriter, s sectionID, names []string) error {
	buf := w.sectionBytes(s)
	slots := len(buf) / indexSlotSize
	if slots == 0 {
		return nil
	}
	mask := uint64(slots) - 1
	isPow2 := slots&(slots-1) == 0
	for id := 1; id < len(names); id++ {
		h := xxhash.Sum64String(names[id])
		var slot uint64
		if isPow2 {
			slot = h & mask
		} else {
			slot = bits.FastRange64(h, uint64(slots))
		}
		for {
			off := int(slot) * indexSlotSize
			if encoding.Uint32At(buf, off) == 0 {
				encoding.PutUint32At(buf, off, uint32(id))
				break
			}
			slot = (slot + 1) % uint64(slots)
		}
	}
	return nil
}
