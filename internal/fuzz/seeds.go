package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
)

// attributeSeeds covers the recovery paths that fixtures rarely hit.
var attributeSeeds = []string{
	"",
	"<?php #[A]",
	"<?php #[A, B(1), \\C\\D(x: [1, 2])]",
	"<?php #[A(#[B])] fn() => 1;",
	"<?php #[A(",
	"<?php #[A(] ) ]",
	"<?php #[A('x)', \"]\", <<<EOT\n]\nEOT)]",
	"<?php # c #[\n#[A] // tail",
	"<?php #[A] /** doc */ function f(#[P] int $p) {}",
	"<?php #[A]\r\n#[B]\r\n",
	"<html>#[x]<?= #[A] ?>#[y]",
	"<?php ?>#[A]<?php #[B",
	"#[\xff\xfe]",
}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, s := range attributeSeeds {
		f.Add([]byte(s))
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.php файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".php") {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
