package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"attrlex/internal/diagfmt"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] <file|dir|->",
		Short: "Tokenize PHP sources and pair attribute delimiters",
		Long: `Tokenize breaks PHP sources into tokens. Every #[ opener is paired with the ]
that closes it; unterminated attributes are reported as diagnostics.`,
		Args: cobra.ExactArgs(1),
		RunE: runTokenize,
	}
	addRunFlags(cmd)
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Bool("skip-trivia", false, "omit whitespace and comment tokens from the dump")
	cmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	target := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format, err = readFormat(format); err != nil {
		return err
	}
	skipTrivia, _ := cmd.Flags().GetBool("skip-trivia")
	uiValue, _ := cmd.Flags().GetString("ui")
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	env, err := prepare(cmd, target)
	if err != nil {
		return err
	}
	defer env.cleanup()

	useUI := !env.quiet && format == "pretty" && shouldUseTUI(mode)
	run, policyErr, err := collect(cmd.Context(), env, target, cmd.InOrStdin(), useUI)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	phase := env.timer.Begin("render")
	out := cmd.OutOrStdout()
	if err := printDiagnostics(cmd.ErrOrStderr(), env, run, format); err != nil {
		return err
	}

	switch format {
	case "json":
		if len(run.files) == 1 {
			err = diagfmt.FormatTokensJSON(out, run.files[0].Tokens)
			break
		}
		files := make([]diagfmt.FileTokensOutput, 0, len(run.files))
		for _, f := range run.files {
			if f.LoadFailed {
				continue
			}
			files = append(files, diagfmt.FileTokensOutput{
				File:   env.displayPath(run, f),
				Tokens: diagfmt.BuildTokenOutputs(f.Tokens),
			})
		}
		err = diagfmt.FormatFileTokensJSON(out, files)
	default:
		opts := diagfmt.TokenOpts{Color: env.useColor(out), SkipTrivia: skipTrivia}
		for i, f := range run.files {
			if f.LoadFailed {
				continue
			}
			if len(run.files) > 1 {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "==> %s <==\n", env.displayPath(run, f))
			}
			if err = diagfmt.FormatTokensPretty(out, f.Tokens, opts); err != nil {
				break
			}
		}
	}
	env.timer.End(phase, "")
	if err != nil {
		return err
	}

	if env.timings {
		printTimings(cmd.ErrOrStderr(), env.timer)
	}
	return policyErr
}
