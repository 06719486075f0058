package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"attrlex/internal/diag"
	"attrlex/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSetWithBase("/home/user/project")
	content := []byte("<?php\n#[Route('/x'\n")
	fileID := fs.AddVirtual("/home/user/project/src/Test.php", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.LexUnterminatedAttribute,
		source.Span{File: fileID, Start: 6, End: 8},
		"attribute is never closed",
	))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/Test.php:2:1"},
		{"Relative path", PathModeRelative, "src/Test.php:2:1"},
		{"Basename only", PathModeBasename, "Test.php:2:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR LEX1010") {
				t.Errorf("Expected severity and code in output, got:\n%s", output)
			}
			if !strings.Contains(output, "attribute is never closed") {
				t.Error("Expected error message in output")
			}
		})
	}
}

// TestPathModeAuto проверяет авто-режим выбора пути
func TestPathModeAuto(t *testing.T) {
	fs := source.NewFileSet()

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"Short path - as is", "app/User.php", "app/User.php:1:7"},
		{"Long absolute path - basename", "/very/long/absolute/path/to/some/nested/directory/User.php", "\nUser.php:1:7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileID := fs.AddVirtual(tt.path, []byte("<?php ]\n"))

			bag := diag.NewBag(10)
			bag.Add(diag.New(diag.SevWarning, diag.LexUnbalancedDelimiter,
				source.Span{File: fileID, Start: 6, End: 7}, "stray ']'"))

			var buf bytes.Buffer
			buf.WriteByte('\n')
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAuto})

			if output := buf.String(); !strings.Contains(output, tt.expected) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.expected, output)
			}
		})
	}
}

func TestPrettySnippet(t *testing.T) {
	tests := []struct {
		name    string
		content string
		start   uint32
		end     uint32
		opts    PrettyOpts
		want    string
	}{
		{
			name:    "caret under opener",
			content: "<?php\n#[A\n",
			start:   6, end: 8,
			want: "test.php:2:1: ERROR LEX1010: msg\n" +
				"   2 | #[A\n" +
				"     | ^^\n",
		},
		{
			name:    "context line",
			content: "<?php\n#[A\n",
			start:   6, end: 8,
			opts: PrettyOpts{Context: 3},
			want: "test.php:2:1: ERROR LEX1010: msg\n" +
				"   1 | <?php\n" +
				"   2 | #[A\n" +
				"     | ^^\n",
		},
		{
			name:    "wide characters shift the caret",
			content: "<?php\n$名 = #[A\n",
			start:   13, end: 15,
			want: "test.php:2:6: ERROR LEX1010: msg\n" +
				"   2 | $名 = #[A\n" +
				"     |       ^^\n",
		},
		{
			name:    "tabs are expanded",
			content: "<?php\n\t#[A\n",
			start:   7, end: 9,
			want: "test.php:2:2: ERROR LEX1010: msg\n" +
				"   2 |     #[A\n" +
				"     |     ^^\n",
		},
		{
			name:    "empty span gets one caret",
			content: "<?php\n#[A",
			start:   9, end: 9,
			want: "test.php:2:4: ERROR LEX1010: msg\n" +
				"   2 | #[A\n" +
				"     |    ^\n",
		},
		{
			name:    "multiline span underlines the first line",
			content: "<?php\n#[A(\n1)\n",
			start:   6, end: 13,
			want: "test.php:2:1: ERROR LEX1010: msg\n" +
				"   2 | #[A(\n" +
				"     | ^^^^\n",
		},
		{
			name:    "width truncates the line",
			content: "<?php\n#[Route('/a/very/long/path')]\n",
			start:   6, end: 8,
			opts: PrettyOpts{Width: 10},
			want: "test.php:2:1: ERROR LEX1010: msg\n" +
				"   2 | #[Route('…\n" +
				"     | ^^\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := source.NewFileSet()
			id := fs.AddVirtual("test.php", []byte(tt.content))
			bag := diag.NewBag(1)
			bag.Add(diag.New(diag.SevError, diag.LexUnterminatedAttribute,
				source.Span{File: id, Start: tt.start, End: tt.end}, "msg"))

			var buf bytes.Buffer
			Pretty(&buf, bag, fs, tt.opts)
			if got := buf.String(); got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("<?php\n#[A")
	fileID := fs.AddVirtual("test.php", content)

	eof := source.Span{File: fileID, Start: 9, End: 9}
	d := diag.New(diag.SevError, diag.LexUnterminatedAttribute,
		source.Span{File: fileID, Start: 6, End: 8}, "attribute is never closed").
		WithNote(eof, "end of file reached inside the attribute").
		WithFix("insert ']'", diag.FixEdit{Span: eof, NewText: "]"})

	bag := diag.NewBag(4)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{
		PathMode:    PathModeBasename,
		ShowNotes:   true,
		ShowFixes:   true,
		ShowPreview: true,
	})
	output := buf.String()

	for _, want := range []string{
		"note: test.php:2:4: end of file reached inside the attribute",
		"fix #1: insert ']'",
		`edit test.php:2:4 apply="]"`,
		"preview:",
		"- #[A\n",
		"+ #[A]\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestPrettyHidesNotesByDefault(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.php", []byte("<?php\n#[A"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, diag.LexUnterminatedAttribute, source.Span{File: id, Start: 6, End: 8}, "x").
		WithNote(source.Span{File: id, Start: 9, End: 9}, "eof"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	if strings.Contains(buf.String(), "note:") {
		t.Errorf("notes must be hidden, got:\n%s", buf.String())
	}
}

func TestPrettyUnknownFile(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, diag.IOLoadFileError, source.Span{File: 7}, "failed to load file"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	want := "<unknown>: ERROR IO4001: failed to load file\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.php", []byte("<?php ]"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevWarning, diag.LexUnbalancedDelimiter, source.Span{File: id, Start: 6, End: 7}, "stray"))

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})

	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("plain output must not contain escapes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("colored output must contain escapes: %q", colored.String())
	}
}
