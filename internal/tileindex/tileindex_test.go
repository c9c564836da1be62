package tileindex

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mapforge/wdf-map-tool/internal/chunk"
)

func TestPayloadRoundtrip(t *testing.T) {
	t.Parallel()

	ix := &Index{}
	ix.Entries[0] = Entry{Offset: 100, Size: 32, Reserved0: 7, Reserved1: 9}
	ix.Entries[SubIndex(3, 5)] = Entry{Offset: 4000, Size: 128}
	ix.Entries[Count-1] = Entry{Offset: 9000, Size: 1}

	got, err := FromPayload(ix.Payload())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(ix, got); diff != "" {
		t.Fatalf("roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestFromPayloadBadSize(t *testing.T) {
	t.Parallel()

	if _, err := FromPayload(make([]byte, PayloadSize-1)); err == nil {
		t.Fatalf("expected error for short payload")
	}
}

// terrainPayload builds an ACNK payload naming its slot.
func terrainPayload(slot int, bodyLen int) []byte {
	p := make([]byte, 4+bodyLen)
	chunk.WriteU32(p, uint32(slot))
	return p
}

func TestScanRebuildsSlots(t *testing.T) {
	t.Parallel()

	w := chunk.NewWriter()
	w.Put(chunk.TagAHDR, make([]byte, 16))

	stale := &Index{}
	stale.Entries[0] = Entry{Offset: 1, Size: 1, Reserved0: 11, Reserved1: 22}
	stale.Entries[SubIndex(1, 1)] = Entry{Reserved0: 33, Reserved1: 44}
	w.Put(chunk.TagAIDX, stale.Payload())

	off0 := w.Put(chunk.TagACNK, terrainPayload(0, 20))
	off1 := w.Put(chunk.TagACNK, terrainPayload(SubIndex(1, 1), 36))

	ix, err := Scan(w.Bytes())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	want := Entry{Offset: uint32(off0), Size: 24, Reserved0: 11, Reserved1: 22}
	if ix.Entries[0] != want {
		t.Fatalf("entry 0 = %+v, want %+v", ix.Entries[0], want)
	}

	want = Entry{Offset: uint32(off1), Size: 40, Reserved0: 33, Reserved1: 44}
	if ix.Entries[SubIndex(1, 1)] != want {
		t.Fatalf("entry 17 = %+v, want %+v", ix.Entries[SubIndex(1, 1)], want)
	}

	// Absent sub-tiles stay zero.
	if ix.Entries[2].Offset != 0 || ix.Entries[2].Size != 0 {
		t.Fatalf("entry 2 should be empty: %+v", ix.Entries[2])
	}
}

func TestScanRejectsOutOfOrderSlots(t *testing.T) {
	t.Parallel()

	w := chunk.NewWriter()
	w.Put(chunk.TagACNK, terrainPayload(3, 8))
	w.Put(chunk.TagACNK, terrainPayload(1, 8))

	if _, err := Scan(w.Bytes()); err == nil {
		t.Fatalf("expected error for descending slots")
	}
}

func TestScanRejectsBadSlot(t *testing.T) {
	t.Parallel()

	buf := chunk.Append(nil, chunk.TagACNK, terrainPayload(Count, 8))
	if _, err := Scan(buf); err == nil {
		t.Fatalf("expected error for slot beyond table")
	}
}

func TestPatchInto(t *testing.T) {
	t.Parallel()

	w := chunk.NewWriter()
	w.Put(chunk.TagAIDX, make([]byte, PayloadSize))
	w.Put(chunk.TagACNK, make([]byte, 8))
	buf := w.Bytes()

	ix, err := Scan(buf)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if err := ix.PatchInto(buf); err != nil {
		t.Fatalf("patch: %v", err)
	}

	got, err := Scan(buf)
	if err != nil {
		t.Fatalf("rescan: %v", err)
	}
	if diff := cmp.Diff(ix, got); diff != "" {
		t.Fatalf("patched table differs (-want +got):\n%s", diff)
	}
}

func TestPatchIntoMissingIndex(t *testing.T) {
	t.Parallel()

	buf := chunk.Append(nil, chunk.TagACNK, make([]byte, 8))
	ix := &Index{}
	if err := ix.PatchInto(buf); !errors.Is(err, ErrNoIndex) {
		t.Fatalf("err = %v, want ErrNoIndex", err)
	}
}
