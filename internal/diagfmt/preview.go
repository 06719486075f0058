package diagfmt

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"attrlex/internal/diag"
	"attrlex/internal/source"
)

// fixEditPreview holds the affected lines before and after one edit.
type fixEditPreview struct {
	before []string
	after  []string
}

func buildFixEditPreview(fs *source.FileSet, edit diag.FixEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, fmt.Errorf("nil FileSet")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fixEditPreview{}, fmt.Errorf("file content overflow: %w", err)
	}
	if edit.Span.Start > edit.Span.End || edit.Span.End > size {
		return fixEditPreview{}, fmt.Errorf("edit span %s out of range", edit.Span)
	}

	from := lineStart(file.Content, edit.Span.Start)
	to := lineEnd(file.Content, edit.Span.End)
	block := string(file.Content[from:to])

	rel0 := int(edit.Span.Start - from)
	rel1 := int(edit.Span.End - from)
	patched := block[:rel0] + edit.NewText + block[rel1:]

	return fixEditPreview{
		before: previewLines(block),
		after:  previewLines(patched),
	}, nil
}

// previewLines режет блок на строки без завершающего перевода строки.
func previewLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{""}
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// lineStart returns the offset of the first byte of the line containing off.
func lineStart(content []byte, off uint32) uint32 {
	for off > 0 && content[off-1] != '\n' {
		off--
	}
	return off
}

// lineEnd returns the offset just past the line break of the line containing off,
// or len(content) for the last line.
func lineEnd(content []byte, off uint32) uint32 {
	n := uint32(len(content)) //nolint:gosec // ограничено вызывающим
	for off < n && content[off] != '\n' {
		off++
	}
	if off < n {
		off++
	}
	return off
}
