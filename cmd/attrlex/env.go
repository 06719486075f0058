package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"attrlex/internal/diagfmt"
	"attrlex/internal/driver"
	"attrlex/internal/observ"
	"attrlex/internal/project"
	"attrlex/internal/source"
)

type colorMode string

const (
	colorAuto colorMode = "auto"
	colorOn   colorMode = "on"
	colorOff  colorMode = "off"
)

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorAuto, nil
	case "on", "always":
		return colorOn, nil
	case "off", "never":
		return colorOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

// runEnv is everything a tokenizing command needs after flags and attrlex.toml
// have been merged.
type runEnv struct {
	cfg      project.Config
	opts     driver.Options
	color    colorMode
	quiet    bool
	timings  bool
	pathMode diagfmt.PathMode
	timer    *observ.Timer
	cleanup  func()
}

// addRunFlags регистрирует флаги, общие для tokenize, spans и check.
func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("jobs", 0, "max parallel workers for directories (0=auto)")
	f.String("policy", "", "unterminated attribute policy (best-effort|strict)")
	f.Bool("inline-html", true, "start files in HTML mode, as PHP does")
	f.String("encoding", "", "source encoding (utf-8|latin1|windows-1252|utf-16)")
	f.Bool("cache", false, "use the on-disk token cache")
	f.String("cache-dir", "", "token cache directory")
	f.String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
}

// prepare загружает конфиг, накладывает поверх него флаги, открывает кэш и трейсер.
// Флаги, заданные явно, всегда побеждают attrlex.toml.
func prepare(cmd *cobra.Command, target string) (*runEnv, error) {
	env := &runEnv{timer: observ.NewTimer(), cleanup: func() {}}
	phase := env.timer.Begin("config")

	root := cmd.Root().PersistentFlags()
	colorStr, _ := root.GetString("color")
	mode, err := readColorMode(colorStr)
	if err != nil {
		return nil, err
	}
	env.color = mode
	env.quiet, _ = root.GetBool("quiet")
	env.timings, _ = root.GetBool("timings")

	cfg, err := loadConfig(cmd, target)
	if err != nil {
		return nil, err
	}
	env.cfg = cfg
	env.opts = cfg.DriverOptions()
	env.opts.Timings = env.timings

	if root.Changed("max-diagnostics") {
		env.opts.MaxDiagnostics, _ = root.GetInt("max-diagnostics")
	}
	if err := env.applyRunFlags(cmd); err != nil {
		return nil, err
	}

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return nil, err
	}
	env.cleanup = cleanup
	env.timer.End(phase, "")
	return env, nil
}

func loadConfig(cmd *cobra.Command, target string) (project.Config, error) {
	explicit, _ := cmd.Root().PersistentFlags().GetString("config")
	if explicit != "" {
		return project.LoadFile(explicit)
	}
	if target == "" || target == "-" {
		target = "."
	}
	cfg, _, err := project.Load(target)
	return cfg, err
}

func (e *runEnv) applyRunFlags(cmd *cobra.Command) error {
	f := cmd.Flags()
	if f.Lookup("jobs") == nil {
		return nil
	}

	if f.Changed("jobs") {
		jobs, _ := f.GetInt("jobs")
		if jobs < 0 {
			return fmt.Errorf("--jobs must be >= 0")
		}
		e.opts.Jobs = jobs
	}
	if f.Changed("policy") {
		s, _ := f.GetString("policy")
		p, err := driver.ParsePolicy(s)
		if err != nil {
			return err
		}
		e.opts.Policy = p
	}
	if f.Changed("inline-html") {
		e.opts.InlineHTML, _ = f.GetBool("inline-html")
	}
	if f.Changed("encoding") {
		s, _ := f.GetString("encoding")
		enc, err := source.ParseEncoding(s)
		if err != nil {
			return err
		}
		e.opts.Encoding = enc
	}

	pm, _ := f.GetString("path-mode")
	mode, ok := diagfmt.ParsePathMode(pm)
	if !ok {
		return fmt.Errorf("invalid --path-mode value %q", pm)
	}
	e.pathMode = mode

	useCache := e.cfg.Cache.Enabled
	if f.Changed("cache") {
		useCache, _ = f.GetBool("cache")
	}
	if useCache {
		dir := e.cfg.Cache.Dir
		if f.Changed("cache-dir") {
			dir, _ = f.GetString("cache-dir")
		}
		c, err := driver.OpenTokenCache(dir)
		if err != nil {
			return fmt.Errorf("failed to open token cache: %w", err)
		}
		e.opts.Cache = c
	}
	return nil
}

// useColor решает, красить ли вывод в w.
func (e *runEnv) useColor(w io.Writer) bool {
	return colorEnabled(e.color, w)
}

func colorEnabled(mode colorMode, w io.Writer) bool {
	switch mode {
	case colorOn:
		return true
	case colorOff:
		return false
	}
	f, ok := w.(*os.File)
	return ok && !color.NoColor && isTerminal(f)
}
