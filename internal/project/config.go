package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
)

// DefaultInclude matches C and C++ sources and headers.
var DefaultInclude = []string{"**/*.{c,h,cc,cpp,cxx,hpp,hh,hxx}"}

// DefaultMaxDepth mirrors scope.DefaultMaxDepth; project does not import the
// analysis packages.
const DefaultMaxDepth = 256

// Formats accepted in [output].format and APISCAN_FORMAT.
var Formats = []string{"pretty", "short", "map", "json", "yaml", "msgpack"}

var (
	// ErrInvalidConfig wraps every validation failure of apiscan.toml.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrInvalidGlob indicates a malformed include or exclude pattern.
	ErrInvalidGlob = errors.New("invalid glob pattern")
)

// ScanConfig is the [scan] section.
type ScanConfig struct {
	Include  []string `toml:"include"`
	Exclude  []string `toml:"exclude"`
	Jobs     int      `toml:"jobs"`
	MaxDepth int      `toml:"max_depth"`
	Macros   bool     `toml:"macros"`
}

// OutputConfig is the [output] section.
type OutputConfig struct {
	Format string `toml:"format"`
}

// CacheConfig is the [cache] section.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Config is the effective configuration of a scan.
type Config struct {
	Path   string // loaded file, empty when defaults are used
	Root   string // directory of Path, or the scan start directory
	Scan   ScanConfig
	Output OutputConfig
	Cache  CacheConfig
}

type fileConfig struct {
	Scan   ScanConfig   `toml:"scan"`
	Output OutputConfig `toml:"output"`
	Cache  CacheConfig  `toml:"cache"`
}

// Default returns the configuration used when no apiscan.toml exists.
func Default() Config {
	return Config{
		Scan: ScanConfig{
			Include:  append([]string(nil), DefaultInclude...),
			MaxDepth: DefaultMaxDepth,
		},
		Output: OutputConfig{Format: "pretty"},
	}
}

// LoadConfig decodes path over the defaults. Keys missing from the file keep
// their default values.
func LoadConfig(path string) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: %w: unknown key %q", path, ErrInvalidConfig, undecoded[0].String())
	}

	cfg := Default()
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	if meta.IsDefined("scan", "include") {
		cfg.Scan.Include = raw.Scan.Include
	}
	if meta.IsDefined("scan", "exclude") {
		cfg.Scan.Exclude = raw.Scan.Exclude
	}
	if meta.IsDefined("scan", "jobs") {
		cfg.Scan.Jobs = raw.Scan.Jobs
	}
	if meta.IsDefined("scan", "max_depth") {
		cfg.Scan.MaxDepth = raw.Scan.MaxDepth
	}
	if meta.IsDefined("scan", "macros") {
		cfg.Scan.Macros = raw.Scan.Macros
	}
	if meta.IsDefined("output", "format") {
		cfg.Output.Format = strings.TrimSpace(raw.Output.Format)
	}
	if meta.IsDefined("cache", "enabled") {
		cfg.Cache.Enabled = raw.Cache.Enabled
	}
	if meta.IsDefined("cache", "dir") {
		cfg.Cache.Dir = strings.TrimSpace(raw.Cache.Dir)
		if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
			cfg.Cache.Dir = filepath.Join(cfg.Root, cfg.Cache.Dir)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Load resolves the configuration for a scan of start. An explicit path wins
// over discovery. The .env file next to the config (or in start) is loaded
// before APISCAN_* variables are applied.
func Load(start, explicit string) (Config, error) {
	var (
		cfg Config
		err error
	)
	switch {
	case explicit != "":
		cfg, err = LoadConfig(explicit)
	default:
		var (
			path string
			ok   bool
		)
		path, ok, err = FindConfig(start)
		if err != nil {
			return Config{}, err
		}
		if ok {
			cfg, err = LoadConfig(path)
		} else {
			cfg = Default()
			cfg.Root, err = startDir(start)
		}
	}
	if err != nil {
		return Config{}, err
	}

	if err := LoadEnv(cfg.Root); err != nil {
		return Config{}, err
	}
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func startDir(start string) (string, error) {
	if start == "" {
		start = "."
	}
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", start, err)
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		return filepath.Dir(abs), nil
	}
	return abs, nil
}

// LoadEnv loads dir/.env into the process environment. Variables already set
// are not overwritten; a missing file is not an error.
func LoadEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg from APISCAN_JOBS, APISCAN_FORMAT, APISCAN_CACHE_DIR
// and APISCAN_MAX_DEPTH.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("APISCAN_JOBS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: APISCAN_JOBS=%q", ErrInvalidConfig, v)
		}
		cfg.Scan.Jobs = n
	}
	if v, ok := lookup("APISCAN_MAX_DEPTH"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: APISCAN_MAX_DEPTH=%q", ErrInvalidConfig, v)
		}
		cfg.Scan.MaxDepth = n
	}
	if v, ok := lookup("APISCAN_FORMAT"); ok && v != "" {
		cfg.Output.Format = v
	}
	if v, ok := lookup("APISCAN_CACHE_DIR"); ok && v != "" {
		cfg.Cache.Dir = v
		cfg.Cache.Enabled = true
	}
	return cfg.Validate()
}

// Validate checks value ranges and glob syntax.
func (c Config) Validate() error {
	if c.Scan.Jobs < 0 {
		return fmt.Errorf("%w: [scan].jobs must be >= 0", ErrInvalidConfig)
	}
	if c.Scan.MaxDepth <= 0 {
		return fmt.Errorf("%w: [scan].max_depth must be > 0", ErrInvalidConfig)
	}
	if !slices.Contains(Formats, c.Output.Format) {
		return fmt.Errorf("%w: unknown output format %q (expected: %s)",
			ErrInvalidConfig, c.Output.Format, strings.Join(Formats, "|"))
	}
	for _, p := range append(append([]string(nil), c.Scan.Include...), c.Scan.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: %w: %q", ErrInvalidConfig, ErrInvalidGlob, p)
		}
	}
	return nil
}
