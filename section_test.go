package catalog

import "testing"

func TestHeaderRoundTrip(t *testing.T) {
	h := &header{
		Magic:          magicNumber,
		Version:        formatVersion,
		Flags:          flagPure | flagSaveIndex,
		Interleave:     DefaultInterleave.NumStored,
		InterleaveStep: DefaultInterleave.Step,
		FileSize:       123456,
	}
	for s := sectionID(0); s < sectionCount; s++ {
		h.Num[s] = uint32(s) + 1
		h.Max[s] = uint32(s)*2 + 10
		h.IndexSize[s] = uint32(s) * 3
		h.Offset[s] = uint64(s) * 4096
	}

	buf := make([]byte, headerSize)
	h.encode(buf)
	got := decodeHeader(buf)

	if *got != *h {
		t.Fatalf("header round trip mismatch:\ngot  %+v\nwant %+v", *got, *h)
	}
}

func TestRecordSizeCoversEverySection(t *testing.T) {
	for s := sectionID(0); s < sectionCount; s++ {
		if recordSize(s) <= 0 {
			t.Fatalf("recordSize(%v) = %d, want > 0", s, recordSize(s))
		}
	}
}

func TestSectionByteSizeUsesIndexSizeForIndexSections(t *testing.T) {
	h := &header{}
	h.IndexSize[secSignatureIndex] = 10
	h.Max[secSignatureIndex] = 999 // must be ignored for an index section
	got := h.sectionByteSize(secSignatureIndex)
	want := int64(10) * int64(recordSize(secSignatureIndex))
	if got != want {
		t.Fatalf("sectionByteSize(index) = %d, want %d", got, want)
	}
}

func TestSectionByteSizeUsesMaxForDataSections(t *testing.T) {
	h := &header{}
	h.Max[secSignatures] = 50
	got := h.sectionByteSize(secSignatures)
	want := int64(50) * int64(signatureRecordSize)
	if got != want {
		t.Fatalf("sectionByteSize(data) = %d, want %d", got, want)
	}
}
