package magic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mapforge/wdf-map-tool/internal/chunk"
)

func versioned(version uint32, next chunk.Tag) []byte {
	ver := make([]byte, 4)
	chunk.WriteU32(ver, version)
	buf := chunk.Append(nil, chunk.TagFVER, ver)
	return chunk.Append(buf, next, make([]byte, 16))
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		kind Kind
		gen  chunk.Generation
	}{
		{
			name: "legacy world",
			data: versioned(chunk.VersionLegacy, chunk.TagWHDR),
			kind: KindWorld,
			gen:  chunk.GenLegacy,
		},
		{
			name: "current world",
			data: versioned(chunk.VersionCurrent, chunk.TagWHDR),
			kind: KindWorld,
			gen:  chunk.GenCurrent,
		},
		{
			name: "mid area",
			data: versioned(chunk.VersionMid, chunk.TagAHDR),
			kind: KindArea,
			gen:  chunk.GenMid,
		},
		{
			name: "headerless embedded tile",
			data: chunk.Append(nil, chunk.TagAHDR, make([]byte, 16)),
			kind: KindArea,
			gen:  chunk.GenLegacy,
		},
		{
			name: "unknown version",
			data: versioned(999, chunk.TagAHDR),
			kind: KindUnknown,
			gen:  chunk.GenUnknown,
		},
		{
			name: "not a map file",
			data: []byte("GIF89a??"),
			kind: KindUnknown,
			gen:  chunk.GenUnknown,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			localPath := filepath.Join(t.TempDir(), "test.bin")
			if err := os.WriteFile(localPath, tt.data, 0o600); err != nil {
				t.Fatalf("write: %v", err)
			}

			kind, gen, err := Detect(localPath)
			if err != nil {
				t.Fatalf("Detect error: %v", err)
			}
			if kind != tt.kind {
				t.Fatalf("kind=%q want %q", kind, tt.kind)
			}
			if gen != tt.gen {
				t.Fatalf("gen=%v want %v", gen, tt.gen)
			}
		})
	}
}
