package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"attrlex/internal/version"
)

// newRootCmd собирает дерево команд; тесты создают свежее дерево на каждый прогон.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "attrlex",
		Short:         "Attribute-aware PHP tokenizer",
		Long:          `attrlex tokenizes PHP sources and pairs every #[ attribute opener with its closing ]`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newTokenizeCmd())
	rootCmd.AddCommand(newSpansCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newCacheCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics per file")
	pf.String("config", "", "path to attrlex.toml (default: discovered upward from the target)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")

	return rootCmd
}

// main executes the root command and exits with status 1 on any error.
func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("error:", err)
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
