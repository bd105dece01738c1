package catalog

import (
	"github.com/xyzzy/untangle/internal/encoding"
)

// sectionID identifies one of the database's typed sections, in on-disk
// order.
type sectionID int

const (
	secTransforms sectionID = iota
	secSignatures
	secSignatureIndex
	secHints
	secHintIndex
	secImprints
	secImprintIndex
	secMembers
	secMemberIndex
	secPairs
	secPairIndex
	sectionCount
)

var sectionNames = [sectionCount]string{
	secTransforms:      "transforms",
	secSignatures:      "signatures",
	secSignatureIndex:  "signatureIndex",
	secHints:           "hints",
	secHintIndex:       "hintIndex",
	secImprints:        "imprints",
	secImprintIndex:    "imprintIndex",
	secMembers:         "members",
	secMemberIndex:     "memberIndex",
	secPairs:           "pairs",
	secPairIndex:       "pairIndex",
}

// Fixed record sizes for every data section. Index sections always store
// one uint32 slot per entry (0 = empty, else a 1-based record id).
const (
	transformRecordSize = 24
	signatureRecordSize = 48
	memberRecordSize    = 88
	pairRecordSize       = 8
	hintRecordSize       = 32
	imprintRecordSize    = 72
	indexSlotSize        = 4
)

func recordSize(s sectionID) int {
	switch s {
	case secTransforms:
		return transformRecordSize
	case secSignatures:
		return signatureRecordSize
	case secMembers:
		return memberRecordSize
	case secPairs:
		return pairRecordSize
	case secHints:
		return hintRecordSize
	case secImprints:
		return imprintRecordSize
	case secSignatureIndex, secHintIndex, secImprintIndex, secMemberIndex, secPairIndex:
		return indexSlotSize
	}
	panic("catalog: recordSize: unknown section")
}

// magicNumber is the bit-exact file magic identifying a catalogue database.
const magicNumber = uint32(0xd5f6f3d0)

// formatVersion is the current on-disk format version.
const formatVersion = uint32(1)

// Creation flags stored at header offset 8.
const (
	flagPure      uint32 = 1 << 0
	flagParanoid  uint32 = 1 << 1
	flagUnsafe    uint32 = 1 << 2
	flagSaveIndex uint32 = 1 << 3
)

// headerSize is the fixed size of the serialized header: three 4-byte
// fields, one 4-byte interleave pair (NumStored in the low 16 bits, Step
// in the high 16 bits), an 8-byte file size at offset 16, a
// (num,max,indexSize) uint32 triple per section, and an 8-byte offset per
// section, padded to a round, page-friendly size.
const headerSize = 256

// header is the in-memory decoded form of the 256-byte file header.
type header struct {
	Magic          uint32
	Version        uint32
	Flags          uint32
	Interleave     uint32
	InterleaveStep uint32
	FileSize       uint64

	Num       [sectionCount]uint32
	Max       [sectionCount]uint32
	IndexSize [sectionCount]uint32
	Offset    [sectionCount]uint64
}

func (h *header) encode(buf []byte) {
	encoding.PutUint32At(buf, 0, h.Magic)
	encoding.PutUint32At(buf, 4, h.Version)
	encoding.PutUint32At(buf, 8, h.Flags)
	encoding.PutUint32At(buf, 12, h.Interleave&0xFFFF|h.InterleaveStep<<16)
	encoding.PutUint64At(buf, 16, h.FileSize)

	off := 24
	for s := sectionID(0); s < sectionCount; s++ {
		encoding.PutUint32At(buf, off, h.Num[s])
		encoding.PutUint32At(buf, off+4, h.Max[s])
		encoding.PutUint32At(buf, off+8, h.IndexSize[s])
		off += 12
	}
	for s := sectionID(0); s < sectionCount; s++ {
		encoding.PutUint64At(buf, off, h.Offset[s])
		off += 8
	}
}

func decodeHeader(buf []byte) *header {
	h := &header{}
	h.Magic = encoding.Uint32At(buf, 0)
	h.Version = encoding.Uint32At(buf, 4)
	h.Flags = encoding.Uint32At(buf, 8)
	iv := encoding.Uint32At(buf, 12)
	h.Interleave, h.InterleaveStep = iv&0xFFFF, iv>>16
	h.FileSize = encoding.Uint64At(buf, 16)

	off := 24
	for s := sectionID(0); s < sectionCount; s++ {
		h.Num[s] = encoding.Uint32At(buf, off)
		h.Max[s] = encoding.Uint32At(buf, off+4)
		h.IndexSize[s] = encoding.Uint32At(buf, off+8)
		off += 12
	}
	for s := sectionID(0); s < sectionCount; s++ {
		h.Offset[s] = encoding.Uint64At(buf, off)
		off += 8
	}
	return h
}

// sectionByteSize returns the byte length of section s given its max/
// indexSize (data sections use max, index sections use indexSize).
func (h *header) sectionByteSize(s sectionID) int64 {
	switch s {
	case secSignatureIndex, secHintIndex, secImprintIndex, secMemberIndex, secPairIndex:
		return int64(h.IndexSize[s]) * int64(recordSize(s))
	default:
		return int64(h.Max[s]) * int64(recordSize(s))
	}
}

// placement is the three-way choice the planner makes for each section
// relative to the input DB.
type placement int

const (
	placeRebuild placement = iota
	placeInherit
	placeCopy
)

// sectionPlan is the planner's decision for one section of the output DB.
type sectionPlan struct {
	id        sectionID
	num       uint32 // occupancy written to the header: the collector's count, or the input's when inherited
	max       uint32
	indexSize uint32
	place     placement
}
