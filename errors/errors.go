// Package errors defines all exported error sentinels for the catalog
// library. This is the single source of truth for error values: both the
// root catalog package and its internal subpackages import from here so
// that errors.Is checks work across package boundaries.
package errors

import "errors"

// Parse errors.
var (
	ErrSyntax            = errors.New("catalog: parse: unrecognised notation character")
	ErrInvalidPlaceholder = errors.New("catalog: parse: invalid placeholder or skin mapping")
	ErrStackUnderflow    = errors.New("catalog: parse: stack underflow")
	ErrStackOverflow     = errors.New("catalog: parse: stack overflow")
	ErrTreeOversize      = errors.New("catalog: parse: tree exceeds fixed node capacity")
)

// Planner / allocation errors.
var (
	ErrPlannerShrink    = errors.New("catalog: planner: output capacity smaller than input occupancy")
	ErrInvalidInterleave = errors.New("catalog: planner: interleave is not a valid divisor pair of 9!")
	ErrIndexOverflow    = errors.New("catalog: planner: hash index has no empty slot for insertion")
	ErrMmapFailed       = errors.New("catalog: planner: memory-map of database file failed")
)

// Truncation.
var (
	ErrTruncated = errors.New("catalog: build truncated: resource bound reached")
)

// Database container / on-disk format errors.
var (
	ErrInvalidMagic   = errors.New("catalog: invalid database magic number")
	ErrInvalidVersion = errors.New("catalog: unsupported database format version")
	ErrTruncatedFile  = errors.New("catalog: database file is truncated")
	ErrCorrupted      = errors.New("catalog: database section is corrupted")
	ErrSectionClosed  = errors.New("catalog: database is closed")
	ErrWriteThroughBorrowed = errors.New("catalog: attempted write through a borrowed (inherited) section")
)

// Invariant errors.
var (
	ErrOrderingViolation = errors.New("catalog: invariant: child reference is not strictly less than parent id")
	ErrSafetyViolation   = errors.New("catalog: invariant: SAFE member references an unsafe component")
)

// I/O errors.
var (
	ErrShortRead  = errors.New("catalog: short read from database file")
	ErrShortWrite = errors.New("catalog: short write to database file")
)
