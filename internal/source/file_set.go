package source

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet owns the files of one run. Re-adding a path creates a new version
// with a new FileID; older versions stay addressable. Not safe for concurrent
// writes: the driver loads everything before fanning out.
type FileSet struct {
	files   []File
	latest  map[string]FileID // normalized path -> newest version
	baseDir string            // "" — текущая директория
}

func NewFileSet() *FileSet {
	return &FileSet{latest: make(map[string]FileID)}
}

// NewFileSetWithBase создаёт FileSet, относительные пути считаются от baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// BaseDir returns the base for relative paths, falling back to the working directory.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir != "" {
		return fs.baseDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

func (fs *FileSet) Len() int { return len(fs.files) }

// Add stores already decoded content and returns its new FileID. The line
// index and content hash are computed here; FileHasCRLF is set automatically.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	if bytes.Contains(content, []byte("\r\n")) {
		flags |= FileHasCRLF
	}
	id := FileID(n)
	p := normalizePath(path)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    p,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.latest[p] = id
	return id
}

// AddVirtual adds in-memory content (stdin, tests) flagged FileVirtual.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Load reads a UTF-8 file; see LoadWithEncoding.
func (fs *FileSet) Load(path string) (FileID, error) {
	return fs.LoadWithEncoding(path, EncodingUTF8)
}

// LoadWithEncoding reads path, transcodes it from enc to UTF-8 and strips a
// UTF-8 BOM. Line endings are kept byte for byte.
func (fs *FileSet) LoadWithEncoding(path string, enc Encoding) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, decoded, err := Decode(raw, enc)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}

	var flags FileFlags
	if decoded {
		flags |= FileDecoded
	}
	if rest, ok := removeBOM(content); ok {
		content = rest
		flags |= FileHadBOM
	}
	return fs.Add(path, content, flags), nil
}

// Get returns the file for id, or nil if the ID is unknown.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// GetLatest returns the newest FileID added under path.
func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fs.latest[normalizePath(path)]
	return id, ok
}

// Resolve converts both ends of span to 1-based line/column. Unknown files
// resolve to the zero LineCol.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return f.lineCol(span.Start), f.lineCol(span.End)
}
