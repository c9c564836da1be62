package chunk

// Chunk tags used by world definition and area data files.
var (
	TagFVER = MakeTag("FVER") // format version, both files
	TagWHDR = MakeTag("WHDR") // world header flags
	TagWTAB = MakeTag("WTAB") // 64x64 tile table (offsets or flags)
	TagDNAM = MakeTag("DNAM") // doodad model name list
	TagONAM = MakeTag("ONAM") // object model name list
	TagAHDR = MakeTag("AHDR") // area header: origin + flags
	TagAIDX = MakeTag("AIDX") // terrain sub-tile index, 256 entries
	TagATEX = MakeTag("ATEX") // texture layers (current generation)
	TagADDF = MakeTag("ADDF") // doodad placement records
	TagAOBF = MakeTag("AOBF") // object placement records
	TagACNK = MakeTag("ACNK") // one terrain sub-tile mesh
)

// Format version payload values carried by FVER.
const (
	VersionLegacy  = 14
	VersionMid     = 17
	VersionCurrent = 18
)

// Generation is one of the three on-disk layouts of the format.
type Generation int

// Known generations, oldest first.
const (
	GenUnknown Generation = iota
	GenLegacy
	GenMid
	GenCurrent
)

// String returns the generation name used in CLI output and configs.
func (g Generation) String() string {
	switch g {
	case GenLegacy:
		return "legacy"
	case GenMid:
		return "mid"
	case GenCurrent:
		return "current"
	default:
		return "unknown"
	}
}

// Version returns the FVER payload value for the generation.
func (g Generation) Version() uint32 {
	switch g {
	case GenLegacy:
		return VersionLegacy
	case GenMid:
		return VersionMid
	case GenCurrent:
		return VersionCurrent
	default:
		return 0
	}
}

// GenerationOfVersion maps an FVER payload value to its generation.
func GenerationOfVersion(v uint32) Generation {
	switch v {
	case VersionLegacy:
		return GenLegacy
	case VersionMid:
		return GenMid
	case VersionCurrent:
		return GenCurrent
	default:
		return GenUnknown
	}
}

// ParseGeneration maps a generation name back to its value.
func ParseGeneration(s string) Generation {
	switch s {
	case "legacy":
		return GenLegacy
	case "mid":
		return GenMid
	case "current":
		return GenCurrent
	default:
		return GenUnknown
	}
}

