package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"attrlex/internal/driver"
	"attrlex/internal/source"
)

// ErrInvalidConfig is wrapped by every validation error of attrlex.toml.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the validated content of attrlex.toml.
type Config struct {
	// Path is the file the config was read from; empty for defaults.
	Path string
	// Root is the directory of Path; relative cache dirs are resolved against it.
	Root string

	Tokenize TokenizeConfig
	Cache    CacheConfig
}

type TokenizeConfig struct {
	Extensions     []string
	InlineHTML     bool
	Encoding       source.Encoding
	Jobs           int
	MaxDiagnostics int
	Policy         driver.Policy
}

type CacheConfig struct {
	Enabled bool
	Dir     string // пусто: $XDG_CACHE_HOME/attrlex
}

// сырое представление файла, до валидации
type fileConfig struct {
	Tokenize struct {
		Extensions     []string `toml:"extensions"`
		InlineHTML     bool     `toml:"inline_html"`
		Encoding       string   `toml:"encoding"`
		Jobs           int      `toml:"jobs"`
		MaxDiagnostics int      `toml:"max_diagnostics"`
		Policy         string   `toml:"policy"`
	} `toml:"tokenize"`
	Cache struct {
		Enabled bool   `toml:"enabled"`
		Dir     string `toml:"dir"`
	} `toml:"cache"`
}

// Default returns the configuration used when no attrlex.toml is found.
func Default() Config {
	return Config{
		Tokenize: TokenizeConfig{
			Extensions:     append([]string(nil), driver.DefaultExtensions...),
			InlineHTML:     true,
			Encoding:       source.EncodingUTF8,
			MaxDiagnostics: 100,
			Policy:         driver.PolicyBestEffort,
		},
	}
}

// Load discovers attrlex.toml upward from start and reads it.
// Without a config file it returns Default and found == false.
func Load(start string) (cfg Config, found bool, err error) {
	path, ok, err := FindConfig(start)
	if err != nil {
		return Config{}, false, err
	}
	if !ok {
		return Default(), false, nil
	}
	cfg, err = LoadFile(path)
	return cfg, true, err
}

// LoadFile reads and validates the config at path. Keys missing from the file keep
// their Default values; unknown keys are rejected.
func LoadFile(path string) (Config, error) {
	def := Default()

	var raw fileConfig
	raw.Tokenize.Extensions = def.Tokenize.Extensions
	raw.Tokenize.InlineHTML = def.Tokenize.InlineHTML
	raw.Tokenize.Encoding = string(def.Tokenize.Encoding)
	raw.Tokenize.MaxDiagnostics = def.Tokenize.MaxDiagnostics
	raw.Tokenize.Policy = def.Tokenize.Policy.String()

	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: %w: unknown keys %s", path, ErrInvalidConfig, strings.Join(keys, ", "))
	}

	cfg, err := raw.validate()
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w: %w", path, ErrInvalidConfig, err)
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(cfg.Root, cfg.Cache.Dir)
	}
	return cfg, nil
}

func (raw *fileConfig) validate() (Config, error) {
	var cfg Config
	t := raw.Tokenize

	if len(t.Extensions) == 0 {
		return cfg, errors.New("tokenize.extensions must not be empty")
	}
	exts := make([]string, 0, len(t.Extensions))
	for _, ext := range t.Extensions {
		ext = strings.TrimSpace(ext)
		if len(ext) < 2 || !strings.HasPrefix(ext, ".") || strings.ContainsAny(ext, `/\`) {
			return cfg, fmt.Errorf("tokenize.extensions: invalid extension %q", ext)
		}
		exts = append(exts, ext)
	}

	enc, err := source.ParseEncoding(t.Encoding)
	if err != nil {
		return cfg, fmt.Errorf("tokenize.encoding: %w", err)
	}
	policy, err := driver.ParsePolicy(t.Policy)
	if err != nil {
		return cfg, fmt.Errorf("tokenize.policy: %w", err)
	}
	if t.Jobs < 0 {
		return cfg, fmt.Errorf("tokenize.jobs must be >= 0, got %d", t.Jobs)
	}
	if t.MaxDiagnostics < 0 {
		return cfg, fmt.Errorf("tokenize.max_diagnostics must be >= 0, got %d", t.MaxDiagnostics)
	}

	cfg.Tokenize = TokenizeConfig{
		Extensions:     exts,
		InlineHTML:     t.InlineHTML,
		Encoding:       enc,
		Jobs:           t.Jobs,
		MaxDiagnostics: t.MaxDiagnostics,
		Policy:         policy,
	}
	cfg.Cache = CacheConfig{Enabled: raw.Cache.Enabled, Dir: strings.TrimSpace(raw.Cache.Dir)}
	return cfg, nil
}

// DriverOptions maps the config onto driver options. Cache and Progress are left to
// the caller.
func (c Config) DriverOptions() driver.Options {
	return driver.Options{
		MaxDiagnostics: c.Tokenize.MaxDiagnostics,
		Jobs:           c.Tokenize.Jobs,
		InlineHTML:     c.Tokenize.InlineHTML,
		Encoding:       c.Tokenize.Encoding,
		Policy:         c.Tokenize.Policy,
		Extensions:     append([]string(nil), c.Tokenize.Extensions...),
	}
}
