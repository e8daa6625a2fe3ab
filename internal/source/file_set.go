package source

import (
	"crypto/sha256"
	"fmt"
	"sync"

	"fortio.org/safecast"
)

// FileSet keeps the text of every loaded file so positions can be converted
// to and from byte offsets, and code snippets can be rendered for warnings.
// Safe for concurrent use.
type FileSet struct {
	mu    sync.RWMutex
	files []File
	index map[string]FileID // url -> latest id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores normalized content, computes LineIdx and Hash, and returns a new FileID.
// It always creates a new FileID even if a file with the same url already exists.
func (fileSet *FileSet) Add(url string, content []byte, flags FileFlags) FileID {
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}

	fileSet.mu.Lock()
	defer fileSet.mu.Unlock()

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	file := newFile(url, content, flags)
	file.ID = id
	fileSet.files = append(fileSet.files, *file)
	// всегда указываем на последнюю версию файла
	fileSet.index[url] = id
	return id
}

// NewFile builds a standalone file outside of any FileSet. Scanners use it
// to measure positions inside text they were handed, such as inline scripts.
// Content is taken as is: offsets must match the bytes the caller holds.
func NewFile(url string, content []byte) *File {
	return newFile(url, content, FileVirtual)
}

func newFile(url string, content []byte, flags FileFlags) *File {
	return &File{
		URL:     url,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
}

// AddVirtual adds an in-memory file with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(url string, content []byte) FileID {
	return fileSet.Add(url, content, FileVirtual)
}

// Get returns the file metadata for the given ID, or nil.
func (fileSet *FileSet) Get(id FileID) *File {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// Lookup returns the latest version of the file stored under url.
func (fileSet *FileSet) Lookup(url string) (*File, bool) {
	if fileSet == nil {
		return nil, false
	}
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	id, ok := fileSet.index[url]
	if !ok {
		return nil, false
	}
	return &fileSet.files[id], true
}

// Len reports the number of stored file versions.
func (fileSet *FileSet) Len() int {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	return len(fileSet.files)
}

// Position converts a byte offset into a zero-based line/column position.
func (f *File) Position(offset int) Position {
	off, err := safecast.Conv[uint32](offset)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return offsetToPosition(f.LineIdx, off)
}

// Range converts a pair of byte offsets into a Range of this file.
func (f *File) Range(start, end int) Range {
	return NewRange(f.URL, f.Position(start), f.Position(end))
}

// Offset converts a position back to a byte offset, clamping to the content.
func (f *File) Offset(pos Position) int {
	start := lineStart(f, pos.Line)
	off := int(start) + int(pos.Column)
	if off > len(f.Content) {
		return len(f.Content)
	}
	return off
}

// Line returns the text of the given zero-based line without the newline.
// Out of range lines yield an empty string.
func (f *File) Line(line uint32) string {
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	if int(line) > len(f.LineIdx) {
		return ""
	}
	start := lineStart(f, line)
	end := lenContent
	if int(line) < len(f.LineIdx) {
		end = f.LineIdx[line]
	}
	if start > lenContent || start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// LineCount reports the number of lines in the file.
func (f *File) LineCount() int {
	return len(f.LineIdx) + 1
}

func lineStart(f *File, line uint32) uint32 {
	if line == 0 {
		return 0
	}
	if int(line-1) < len(f.LineIdx) {
		return f.LineIdx[line-1] + 1
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	return lenContent
}
