package main

import (
	"fmt"
	"io"

	"attrlex/internal/diag"
	"attrlex/internal/diagfmt"
)

// printDiagnostics пишет диагностики всех файлов в w: pretty или JSON.
func printDiagnostics(w io.Writer, env *runEnv, run *runResult, format string) error {
	bag := run.mergedBag(env.quiet)
	if format == "short" {
		if out := diag.FormatShortDiagnostics(bag.Items(), run.fs, false); out != "" {
			_, err := fmt.Fprintln(w, out)
			return err
		}
		return nil
	}
	if format == "json" {
		if bag.Len() == 0 {
			return nil
		}
		return diagfmt.JSON(w, bag, run.fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         env.pathMode,
			IncludeNotes:     true,
			IncludeFixes:     true,
		})
	}
	diagfmt.Pretty(w, bag, run.fs, diagfmt.PrettyOpts{
		Color:     env.useColor(w),
		Context:   1,
		PathMode:  env.pathMode,
		ShowNotes: true,
		ShowFixes: true,
	})
	if n := run.dropped(); n > 0 {
		fmt.Fprintf(w, "%d more diagnostic(s) not shown, raise --max-diagnostics to see them\n", n)
	}
	return nil
}

func (e *runEnv) displayPath(run *runResult, f fileRun) string {
	return diagfmt.DisplayPath(f.File, run.fs, e.pathMode)
}

func readFormat(value string) (string, error) {
	switch value {
	case "pretty", "json":
		return value, nil
	default:
		return "", fmt.Errorf("unknown format: %s (expected pretty|json)", value)
	}
}

// readCheckFormat дополнительно принимает "short": одна строка на диагностику.
func readCheckFormat(value string) (string, error) {
	if value == "short" {
		return value, nil
	}
	f, err := readFormat(value)
	if err != nil {
		return "", fmt.Errorf("unknown format: %s (expected pretty|json|short)", value)
	}
	return f, nil
}
