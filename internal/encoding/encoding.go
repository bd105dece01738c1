// Package encoding provides little-endian packing primitives for the
// database's fixed-width record arrays. Every section — transforms,
// signatures, members, pairs and their indices — is a flat array of
// fixed-size records inside a memory-mapped file, so every field access
// goes through one of these helpers rather than an ad-hoc byte slice
// expression.
package encoding

import "encoding/binary"

// PutUint32At writes v as 4 little-endian bytes at byte offset off.
func PutUint32At(buf []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:off+4], v)
}

// Uint32At reads 4 little-endian bytes at byte offset off.
func Uint32At(buf []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(buf[off : off+4])
}

// PutUint64At writes v as 8 little-endian bytes at byte offset off.
func PutUint64At(buf []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(buf[off:off+8], v)
}

// Uint64At reads 8 little-endian bytes at byte offset off.
func Uint64At(buf []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(buf[off : off+8])
}

// PutRefArray packs a fixed-length array of 32-bit references (e.g. a
// member's up-to-6 head references) into buf starting at byte offset off,
// 4 bytes each, zero-padding unused trailing slots.
func PutRefArray(buf []byte, off int, refs []uint32, capacity int) {
	for i := 0; i < capacity; i++ {
		var v uint32
		if i < len(refs) {
			v = refs[i]
		}
		PutUint32At(buf, off+i*4, v)
	}
}

// RefArray unpacks a fixed-length array of capacity 32-bit references from
// buf at byte offset off, dropping trailing zero entries.
func RefArray(buf []byte, off int, capacity int) []uint32 {
	refs := make([]uint32, 0, capacity)
	for i := 0; i < capacity; i++ {
		v := Uint32At(buf, off+i*4)
		if v == 0 {
			break
		}
		refs = append(refs, v)
	}
	return refs
}
