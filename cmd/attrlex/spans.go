package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"attrlex/internal/attr"
	"attrlex/internal/diagfmt"
)

func newSpansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spans [flags] <file|dir|->",
		Short: "List attribute spans and their declarations",
		Args:  cobra.ExactArgs(1),
		RunE:  runSpans,
	}
	addRunFlags(cmd)
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runSpans(cmd *cobra.Command, args []string) error {
	target := args[0]

	format, _ := cmd.Flags().GetString("format")
	format, err := readFormat(format)
	if err != nil {
		return err
	}

	env, err := prepare(cmd, target)
	if err != nil {
		return err
	}
	defer env.cleanup()

	run, policyErr, err := collect(cmd.Context(), env, target, cmd.InOrStdin(), false)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	phase := env.timer.Begin("render")
	if err := printDiagnostics(cmd.ErrOrStderr(), env, run, format); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var files []diagfmt.FileSpansOutput
	for _, f := range run.files {
		if f.LoadFailed {
			continue
		}
		spans := attr.Spans(f.Tokens)
		path := env.displayPath(run, f)
		if format == "json" {
			files = append(files, diagfmt.BuildFileSpans(path, f.Tokens, spans))
			continue
		}
		// файлы без атрибутов в pretty не печатаем
		if len(spans) == 0 {
			continue
		}
		if err := diagfmt.FormatSpansPretty(out, path, f.Tokens, spans, diagfmt.TokenOpts{Color: env.useColor(out)}); err != nil {
			return err
		}
	}
	if format == "json" {
		if files == nil {
			files = []diagfmt.FileSpansOutput{}
		}
		if err := diagfmt.FormatSpansJSON(out, files); err != nil {
			return err
		}
	}
	env.timer.End(phase, "")

	if env.timings {
		printTimings(cmd.ErrOrStderr(), env.timer)
	}
	return policyErr
}
