package catalog

import "github.com/xyzzy/untangle/internal/encoding"

// This file holds the fixed-width record layouts of the mmap'd sections:
// an encode/decode pair for signatures and members, used by both the
// populator (writing) and DB (reading), and encoders only for pairs and
// transforms. DB.Pair reads the 8-byte pair record itself; nothing decodes
// transform records.

func encodeSignature(buf []byte, s Signature) {
	copy(buf[0:32], padName(s.Name, 32))
	encoding.PutUint32At(buf, 32, uint32(s.Size)|uint32(s.Flags)<<16)
	buf[36] = s.NumPlaceholder
	buf[37] = s.NumEndpoint
	buf[38] = s.NumBackRef
	encoding.PutUint32At(buf, 40, s.HintID)
	encoding.PutUint32At(buf, 44, s.FirstMember)
}

func decodeSignature(buf []byte) Signature {
	packed := encoding.Uint32At(buf, 32)
	return Signature{
		Name:           unpadName(buf[0:32]),
		Size:           uint16(packed),
		Flags:          uint16(packed >> 16),
		NumPlaceholder: buf[36],
		NumEndpoint:    buf[37],
		NumBackRef:     buf[38],
		HintID:         encoding.Uint32At(buf, 40),
		FirstMember:    encoding.Uint32At(buf, 44),
	}
}

func encodeMember(buf []byte, m Member) {
	copy(buf[0:32], padName(m.Name, 32))
	encoding.PutUint32At(buf, 32, m.SID)
	encoding.PutUint32At(buf, 36, m.TID)
	encoding.PutUint32At(buf, 40, uint32(m.Size)|uint32(m.Flags)<<16)
	buf[44] = m.NumPlaceholder
	buf[45] = m.NumEndpoint
	buf[46] = m.NumBackRef
	encoding.PutUint32At(buf, 48, m.QPair)
	encoding.PutUint32At(buf, 52, m.TPair)
	encoding.PutUint32At(buf, 56, m.FPair)
	encoding.PutRefArray(buf, 60, m.Heads[:], 6)
	encoding.PutUint32At(buf, 84, m.NextMember)
}

func decodeMember(buf []byte) Member {
	packed := encoding.Uint32At(buf, 40)
	m := Member{
		Name:           unpadName(buf[0:32]),
		SID:            encoding.Uint32At(buf, 32),
		TID:            encoding.Uint32At(buf, 36),
		Size:           uint16(packed),
		Flags:          uint16(packed >> 16),
		NumPlaceholder: buf[44],
		NumEndpoint:    buf[45],
		NumBackRef:     buf[46],
		QPair:          encoding.Uint32At(buf, 48),
		TPair:          encoding.Uint32At(buf, 52),
		FPair:          encoding.Uint32At(buf, 56),
		NextMember:     encoding.Uint32At(buf, 84),
	}
	heads := encoding.RefArray(buf, 60, 6)
	copy(m.Heads[:], heads)
	return m
}

func encodePair(buf []byte, p Pair) {
	encoding.PutUint32At(buf, 0, p.MemberID)
	encoding.PutUint32At(buf, 4, p.TransformID)
}

func encodeTransform(buf []byte, name string, enc uint64) {
	copy(buf[0:16], padName(name, 16))
	encoding.PutUint64At(buf, 16, enc)
}

// padName returns name truncated or zero-padded to exactly n bytes, the
// fixed-width string representation every section uses.
func padName(name string, n int) []byte {
	buf := make([]byte, n)
	copy(buf, name)
	return buf
}

// unpadName trims the trailing zero padding padName adds.
func unpadName(buf []byte) string {
	i := 0
	for i < len(buf) && buf[i] != 0 {
		i++
	}
	return string(buf[:i])
}
