package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"

	catalogerrors "github.com/xyzzy/untangle/errors"
)

// dbWriter assembles an on-disk database using a single mmap'd region, the
// same zero-copy-write strategy the underlying mmap library was already
// wired for: pre-allocate the whole file up front, write every section
// directly into the mapped bytes, then flush, unmap and truncate to the
// final size.
type dbWriter struct {
	file *os.File
	mm   mmap.MMap
	data []byte

	hdr header
}

// createDBWriter pre-allocates and maps a file large enough for plans,
// computing each section's byte offset from its planned size.
func createDBWriter(path string, plans []sectionPlan, flags uint32, interleave Interleave) (*dbWriter, error) {
	hdr := header{
		Magic:          magicNumber,
		Version:        formatVersion,
		Flags:          flags,
		Interleave:     interleave.NumStored,
		InterleaveStep: interleave.Step,
	}

	off := uint64(headerSize)
	for _, p := range plans {
		hdr.Num[p.id] = p.num
		hdr.Max[p.id] = p.max
		hdr.IndexSize[p.id] = p.indexSize
		hdr.Offset[p.id] = off
		off += uint64(hdr.sectionByteSize(p.id))
	}
	hdr.FileSize = off

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create database file: %w", err)
	}
	if err := fallocateFile(f, int64(hdr.FileSize)); err != nil {
		f.Close()
		return nil, fmt.Errorf("allocate database file: %w", err)
	}
	mm, err := mmap.MapRegion(f, int(hdr.FileSize), mmap.RDWR, 0, 0)
	if err != nil {
		f.Close()
		return nil, errors.Join(catalogerrors.ErrMmapFailed, err)
	}
	prefaultRegion([]byte(mm))

	return &dbWriter{file: f, mm: mm, data: []byte(mm), hdr: hdr}, nil
}

// sectionBytes returns the writable slice for section s.
func (w *dbWriter) sectionBytes(s sectionID) []byte {
	start := w.hdr.Offset[s]
	return w.data[start : start+uint64(w.hdr.sectionByteSize(s))]
}

// copyFrom copies a section's bytes from another mapped database (used for
// the inherit/copy placements), truncating or zero-extending to this
// writer's own planned size.
func (w *dbWriter) copyFrom(s sectionID, src []byte) {
	dst := w.sectionBytes(s)
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	copy(dst[:n], src[:n])
}

// finalize writes the header and flushes the mapped region to disk.
func (w *dbWriter) finalize() error {
	buf := make([]byte, headerSize)
	w.hdr.encode(buf)
	copy(w.data[:headerSize], buf)

	if err := w.mm.Flush(); err != nil {
		return errors.Join(fmt.Errorf("flush database file: %w", err), w.close())
	}
	unmapErr := w.mm.Unmap()
	w.mm = nil
	if unmapErr != nil {
		return errors.Join(fmt.Errorf("unmap database file: %w", unmapErr), w.close())
	}
	if err := w.file.Truncate(int64(w.hdr.FileSize)); err != nil {
		return errors.Join(fmt.Errorf("truncate database file: %w", err), w.close())
	}
	closeErr := w.file.Close()
	w.file = nil
	return closeErr
}

// close releases the writer's resources without finalizing; idempotent.
func (w *dbWriter) close() error {
	var unmapErr error
	if w.mm != nil {
		unmapErr = w.mm.Unmap()
		w.mm = nil
	}
	var closeErr error
	if w.file != nil {
		closeErr = w.file.Close()
		w.file = nil
	}
	return errors.Join(unmapErr, closeErr)
}
