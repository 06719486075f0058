package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"attrlex/internal/diag"
	"attrlex/internal/driver"
	"attrlex/internal/source"
	"attrlex/internal/token"
)

// fileRun — результат по одному файлу, одинаковый для файла, директории и stdin.
type fileRun struct {
	File         *source.File
	Tokens       []token.Token
	Unterminated []int
	Bag          *diag.Bag
	Cached       bool
	LoadFailed   bool
}

type runResult struct {
	fs    *source.FileSet
	files []fileRun
}

// collect tokenizes target (a file, a directory or "-" for stdin). A strict policy
// violation is returned as policyErr next to a complete result; any other error
// means there is no result.
func collect(ctx context.Context, env *runEnv, target string, stdin io.Reader, useUI bool) (res *runResult, policyErr error, err error) {
	phase := env.timer.Begin("tokenize")
	defer env.timer.End(phase, target)

	if target == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		if data, _, err = source.Decode(data, env.opts.Encoding); err != nil {
			return nil, nil, fmt.Errorf("stdin: %w", err)
		}
		one, perr := driver.TokenizeSource("<stdin>", data, env.opts)
		return singleRun(one), perr, nil
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, nil, err
	}

	if !info.IsDir() {
		one, perr := driver.Tokenize(ctx, target, env.opts)
		if one == nil {
			return nil, nil, perr
		}
		return singleRun(one), perr, nil
	}

	var (
		fs      *source.FileSet
		results []driver.TokenizeDirResult
	)
	if useUI {
		fs, results, err = runTokenizeDirWithUI(ctx, target, env.opts)
	} else {
		fs, results, err = driver.TokenizeDir(ctx, target, env.opts)
	}
	if err != nil && !errors.Is(err, driver.ErrUnterminatedAttribute) {
		return nil, nil, err
	}
	policyErr = err

	out := &runResult{fs: fs, files: make([]fileRun, 0, len(results))}
	for _, r := range results {
		out.files = append(out.files, fileRun{
			File:         fs.Get(r.FileID),
			Tokens:       r.Tokens,
			Unterminated: r.Unterminated,
			Bag:          r.Bag,
			Cached:       r.Cached,
			LoadFailed:   r.LoadFailed,
		})
	}
	return out, policyErr, nil
}

func singleRun(r *driver.TokenizeResult) *runResult {
	return &runResult{
		fs: r.FileSet,
		files: []fileRun{{
			File:         r.File,
			Tokens:       r.Tokens,
			Unterminated: r.Unterminated,
			Bag:          r.Bag,
			Cached:       r.Cached,
		}},
	}
}

// mergedBag собирает диагностики всех файлов; при quiet остаются только ошибки.
func (r *runResult) mergedBag(quiet bool) *diag.Bag {
	bag := diag.NewBag(0)
	for _, f := range r.files {
		if f.Bag == nil {
			continue
		}
		for _, d := range f.Bag.Items() {
			if quiet && d.Severity < diag.SevError && d.Code != diag.ObsTimings {
				continue
			}
			bag.Add(d)
		}
	}
	return bag
}

// dropped — сколько диагностик отбросил лимит --max-diagnostics по всем файлам.
func (r *runResult) dropped() int {
	n := 0
	for _, f := range r.files {
		if f.Bag != nil {
			n += f.Bag.Dropped()
		}
	}
	return n
}
