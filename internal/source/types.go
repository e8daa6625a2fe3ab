package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the file was added from memory (overlay, test, stdin).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	// FileInline marks a logical document embedded in another file.
	FileInline
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	URL     string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// Position is a zero-based line/column coordinate inside a file.
type Position struct {
	Line   uint32
	Column uint32
}

// Range locates a text region of a file. Start <= End lexicographically.
type Range struct {
	File  string
	Start Position
	End   Position
}

// LocationOffset describes where an inline document starts inside its
// containing file. Scanners measure inline text on its own and shift the
// resulting ranges with CorrectRange before handing them out.
type LocationOffset struct {
	Line     uint32
	Col      uint32
	Filename string
}
