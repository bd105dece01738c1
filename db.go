package catalog

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/xyzzy/untangle/internal/encoding"

	catalogerrors "github.com/xyzzy/untangle/errors"
)

// DB is a read-only, memory-mapped catalogue database.
//
// Query methods are safe for concurrent use; Close is not safe to call
// concurrently with queries and must only run once every query has
// returned.
type DB struct {
	mm   mmap.MMap
	data []byte
	hdr  *header
}

// Stats summarises an open database's section occupancy.
type Stats struct {
	Num       [sectionCount]uint32
	Max       [sectionCount]uint32
	IndexSize [sectionCount]uint32
	FileSize  uint64
	Interleave Interleave
}

// Open memory-maps the database file at path.
func Open(path string) (*DB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database file: %w", err)
	}
	defer f.Close()
	return OpenFile(f)
}

// OpenFile memory-maps an already-open file. The caller may close f as
// soon as OpenFile returns.
func OpenFile(f *os.File) (*DB, error) {
	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat database file: %w", err)
	}
	if st.Size() < int64(headerSize) {
		return nil, catalogerrors.ErrTruncatedFile
	}
	fadviseSequential(int(f.Fd()), 0, st.Size())
	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap database file: %w", err)
	}
	db := &DB{mm: mm, data: []byte(mm)}
	if err := db.init(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenBytes builds a database view directly over an in-memory byte slice,
// with no file or mapping involved; Close is then a no-op. The caller must
// not mutate data while the DB is in use.
func OpenBytes(data []byte) (*DB, error) {
	if len(data) < headerSize {
		return nil, catalogerrors.ErrTruncatedFile
	}
	db := &DB{data: data}
	if err := db.init(); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *DB) init() error {
	hdr := decodeHeader(db.data[:headerSize])
	if hdr.Magic != magicNumber {
		return catalogerrors.ErrInvalidMagic
	}
	if hdr.Version != formatVersion {
		return catalogerrors.ErrInvalidVersion
	}
	if uint64(len(db.data)) < hdr.FileSize {
		return catalogerrors.ErrTruncatedFile
	}
	db.hdr = hdr
	return nil
}

// Close releases the memory mapping. Safe to call on a DB opened with
// OpenBytes (no-op).
func (db *DB) Close() error {
	if db.mm == nil {
		return nil
	}
	err := db.mm.Unmap()
	db.mm = nil
	return err
}

// Interleave returns the interleave setting the database was built with.
func (db *DB) Interleave() Interleave {
	return Interleave{NumStored: db.hdr.Interleave, Step: db.hdr.InterleaveStep}
}

// Stats returns the database's section occupancy and sizing.
func (db *DB) Stats() Stats {
	return Stats{
		Num:        db.hdr.Num,
		Max:        db.hdr.Max,
		IndexSize:  db.hdr.IndexSize,
		FileSize:   db.hdr.FileSize,
		Interleave: db.Interleave(),
	}
}

// Verify re-validates every section's bounds against the header and
// confirms the file has not been truncated since open.
func (db *DB) Verify() error {
	if uint64(len(db.data)) < db.hdr.FileSize {
		return catalogerrors.ErrTruncatedFile
	}
	for s := sectionID(0); s < sectionCount; s++ {
		end := db.hdr.Offset[s] + uint64(db.hdr.sectionByteSize(s))
		if end > uint64(len(db.data)) {
			return catalogerrors.ErrCorrupted
		}
	}
	return nil
}

func (db *DB) section(s sectionID) []byte {
	start := db.hdr.Offset[s]
	return db.data[start : start+uint64(db.hdr.sectionByteSize(s))]
}

// Signature decodes the signature record with the given 1-based id.
func (db *DB) Signature(sid uint32) Signature {
	buf := db.section(secSignatures)
	off := int(sid) * signatureRecordSize
	return decodeSignature(buf[off : off+signatureRecordSize])
}

// Member decodes the member record with the given 1-based id.
func (db *DB) Member(mid uint32) Member {
	buf := db.section(secMembers)
	off := int(mid) * memberRecordSize
	return decodeMember(buf[off : off+memberRecordSize])
}

// Pair decodes the pair record with the given 1-based id.
func (db *DB) Pair(pid uint32) Pair {
	buf := db.section(secPairs)
	off := int(pid) * pairRecordSize
	return Pair{
		MemberID:    encoding.Uint32At(buf, off),
		TransformID: encoding.Uint32At(buf, off+4),
	}
}

// NumSignatures, NumMembers and NumPairs report current occupancy.
func (db *DB) NumSignatures() uint32 { return db.hdr.Num[secSignatures] }
func (db *DB) NumMembers() uint32    { return db.hdr.Num[secMembers] }
func (db *DB) NumPairs() uint32      { return db.hdr.Num[secPairs] }
