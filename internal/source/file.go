package source

import (
	"bytes"
	"os"
	"path/filepath"
)

// lineCol — позиция смещения off; колонки считают руны, как курсор лексера.
func (f *File) lineCol(off uint32) LineCol {
	return toLineCol(f.Content, f.LineIdx, off)
}

// lineBounds returns the byte range of 1-based line n without its '\n'.
func (f *File) lineBounds(n uint32) (start, end int, ok bool) {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return 0, 0, false
	}
	if n > 1 {
		start = int(f.LineIdx[n-2]) + 1
	}
	end = len(f.Content)
	if int(n) <= len(f.LineIdx) {
		end = int(f.LineIdx[n-1])
	}
	if start > end || (start == len(f.Content) && n > 1) {
		return 0, 0, false
	}
	return start, end, true
}

// GetLine returns 1-based line n without the line break (and without a
// trailing '\r'). Lines past the end yield "".
func (f *File) GetLine(n uint32) string {
	start, end, ok := f.lineBounds(n)
	if !ok {
		return ""
	}
	return string(bytes.TrimSuffix(f.Content[start:end], []byte{'\r'}))
}

// FormatPath renders f.Path for display. mode is one of "absolute",
// "relative" (to baseDir, or the working directory when empty), "basename" or
// "auto" (short or relative paths as-is, long absolute ones by basename).
// Anything else returns the stored path.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case "basename":
		return BaseName(f.Path)
	case "auto":
		if len(f.Path) >= 40 && filepath.IsAbs(f.Path) {
			return BaseName(f.Path)
		}
	}
	return f.Path
}
