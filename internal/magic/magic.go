// Package magic sniffs map file headers without decoding the files.
package magic

import (
	"fmt"
	"io"
	"os"

	"github.com/mapforge/wdf-map-tool/internal/chunk"
)

// Kind classifies a file by its leading chunks.
type Kind string

const (
	KindWorld   Kind = "world"
	KindArea    Kind = "area"
	KindUnknown Kind = "unknown"
)

// Detect reads just enough of the file to classify it and report its
// generation. Legacy files are recognized by their version chunk; a
// headerless file opening directly with AHDR is a legacy embedded tile
// that was split out by hand.
func Detect(path string) (kind Kind, gen chunk.Generation, err error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, chunk.GenUnknown, err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	var hdr [chunk.HeaderSize]byte
	if _, err := io.ReadFull(f, hdr[:]); err != nil {
		return KindUnknown, chunk.GenUnknown, err
	}

	tag := chunk.Tag{hdr[0], hdr[1], hdr[2], hdr[3]}
	switch tag {
	case chunk.TagAHDR:
		return KindArea, chunk.GenLegacy, nil
	case chunk.TagWHDR:
		return KindWorld, chunk.GenLegacy, nil
	case chunk.TagFVER:
		// fall through to the version payload
	default:
		return KindUnknown, chunk.GenUnknown, nil
	}

	size := chunk.ReadU32(hdr[4:])
	if size < 4 {
		return KindUnknown, chunk.GenUnknown, fmt.Errorf("version chunk payload is %d bytes", size)
	}

	var ver [4]byte
	if _, err := io.ReadFull(f, ver[:]); err != nil {
		return KindUnknown, chunk.GenUnknown, err
	}
	if size > 4 {
		if _, err := f.Seek(int64(size-4), io.SeekCurrent); err != nil {
			return KindUnknown, chunk.GenUnknown, err
		}
	}
	gen = chunk.GenerationOfVersion(chunk.ReadU32(ver[:]))
	if gen == chunk.GenUnknown {
		return KindUnknown, gen, nil
	}

	var next [chunk.HeaderSize]byte
	if _, err := io.ReadFull(f, next[:]); err != nil {
		return KindUnknown, gen, err
	}

	switch (chunk.Tag{next[0], next[1], next[2], next[3]}) {
	case chunk.TagWHDR:
		return KindWorld, gen, nil
	case chunk.TagAHDR:
		return KindArea, gen, nil
	default:
		return KindUnknown, gen, nil
	}
}
