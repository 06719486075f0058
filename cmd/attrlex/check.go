package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"attrlex/internal/attr"
	"attrlex/internal/diag"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] <file|dir|->",
		Short: "Verify token stream invariants",
		Long: `Check tokenizes the sources and verifies that the token stream reconstructs
the file byte for byte and that attribute openers and closers pair up and nest.
It exits non-zero on any violation, on load failures and, under the strict
policy, on unterminated attributes.`,
		Args: cobra.ExactArgs(1),
		RunE: runCheck,
	}
	addRunFlags(cmd)
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|json|short)")
	return cmd
}

type checkSummary struct {
	files        int
	violations   int
	unterminated int
	loadFailed   int
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := args[0]

	format, _ := cmd.Flags().GetString("format")
	format, err := readCheckFormat(format)
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

	phase := env.timer.Begin("check")
	sum := checkFiles(run)
	env.timer.End(phase, "")

	if err := printDiagnostics(cmd.ErrOrStderr(), env, run, format); err != nil {
		return err
	}
	if !env.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "checked %d file(s): %d violation(s), %d unterminated attribute(s)\n",
			sum.files, sum.violations, sum.unterminated)
	}
	if env.timings {
		printTimings(cmd.ErrOrStderr(), env.timer)
	}

	switch {
	case sum.violations > 0:
		return fmt.Errorf("check failed: %d invariant violation(s)", sum.violations)
	case sum.loadFailed > 0:
		return fmt.Errorf("check failed: %d file(s) could not be loaded", sum.loadFailed)
	}
	return policyErr
}

// checkFiles прогоняет attr.Verify и складывает нарушения в bag файла.
func checkFiles(run *runResult) checkSummary {
	var sum checkSummary
	for _, f := range run.files {
		sum.files++
		if f.LoadFailed {
			sum.loadFailed++
			continue
		}
		sum.unterminated += len(f.Unterminated)
		vs := attr.Verify(f.Tokens, f.File.Content)
		sum.violations += len(vs)
		if len(vs) > 0 {
			attr.Report(diag.BagReporter{Bag: f.Bag}, f.File, f.Tokens, vs)
		}
	}
	return sum
}
