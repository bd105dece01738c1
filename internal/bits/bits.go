// Package bits provides low-level bit manipulation primitives used by the
// database's hash indices to map a 64-bit digest onto a bucket or slot
// range without modulo bias.
package bits

import "math/bits"

// FastRange32 maps a 64-bit hash uniformly to [0, n) returning uint32.
// Uses the "fastrange" technique: multiply and take high bits. No index in
// this module calls it; the transform name indices use a power-of-two mask.
func FastRange32(hash uint64, n uint32) uint32 {
	if n == 0 {
		return 0
	}
	hi, _ := bits.Mul64(hash, uint64(n))
	return uint32(hi)
}

// FastRange64 is FastRange32's 64-bit sibling, used by the on-disk
// signature and member name indices when their slot count is not a power
// of two. The imprint index masks with a power-of-two size instead.
func FastRange64(hash uint64, n uint64) uint64 {
	if n == 0 {
		return 0
	}
	hi, _ := bits.Mul64(hash, n)
	return hi
}
