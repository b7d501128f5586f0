package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"apiscan/internal/driver"
	"apiscan/internal/project"
	"apiscan/internal/symbols"
)

// scanSettings is the effective configuration of a scan after merging
// flags, APISCAN_* environment, apiscan.toml and defaults.
type scanSettings struct {
	target   string
	cfg      project.Config
	filter   project.Filter
	opts     driver.Options
	useCache bool
	cacheDir string
}

// addScanFlags registers the flags shared by scan, diag and watch.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().StringSlice("include", nil, "doublestar patterns of files to scan (overrides [scan].include)")
	cmd.Flags().StringSlice("exclude", nil, "doublestar patterns of files to skip (overrides [scan].exclude)")
	cmd.Flags().Bool("macros", false, "record object-like and function-like macros")
	cmd.Flags().Int("max-depth", 0, "maximum scope nesting depth (0=config or default)")
	cmd.Flags().Bool("cache", false, "use the persistent manifest cache")
	cmd.Flags().String("cache-dir", "", "cache directory (default: $XDG_CACHE_HOME/apiscan)")
}

// resolveSettings loads the configuration for target and applies the flags
// that were set explicitly on cmd.
func resolveSettings(cmd *cobra.Command, target string) (*scanSettings, error) {
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}

	cfg, err := project.Load(target, configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("jobs") {
		if cfg.Scan.Jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if flags.Changed("include") {
		if cfg.Scan.Include, err = flags.GetStringSlice("include"); err != nil {
			return nil, fmt.Errorf("failed to get include flag: %w", err)
		}
	}
	if flags.Changed("exclude") {
		if cfg.Scan.Exclude, err = flags.GetStringSlice("exclude"); err != nil {
			return nil, fmt.Errorf("failed to get exclude flag: %w", err)
		}
	}
	if flags.Changed("macros") {
		if cfg.Scan.Macros, err = flags.GetBool("macros"); err != nil {
			return nil, fmt.Errorf("failed to get macros flag: %w", err)
		}
	}
	if flags.Changed("max-depth") {
		if cfg.Scan.MaxDepth, err = flags.GetInt("max-depth"); err != nil {
			return nil, fmt.Errorf("failed to get max-depth flag: %w", err)
		}
	}
	if flags.Changed("cache") {
		if cfg.Cache.Enabled, err = flags.GetBool("cache"); err != nil {
			return nil, fmt.Errorf("failed to get cache flag: %w", err)
		}
	}
	if flags.Changed("cache-dir") {
		if cfg.Cache.Dir, err = flags.GetString("cache-dir"); err != nil {
			return nil, fmt.Errorf("failed to get cache-dir flag: %w", err)
		}
		cfg.Cache.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &scanSettings{
		target: target,
		cfg:    cfg,
		filter: project.FilterOf(cfg),
		opts: driver.Options{
			Jobs:           cfg.Scan.Jobs,
			MaxDiagnostics: maxDiagnostics,
			MaxDepth:       cfg.Scan.MaxDepth,
			Macros:         cfg.Scan.Macros,
			Timings:        showTimings,
		},
		useCache: cfg.Cache.Enabled,
		cacheDir: cfg.Cache.Dir,
	}, nil
}

// openCache attaches the persistent cache to s.opts when it is enabled.
// The returned function closes it.
func (s *scanSettings) openCache() (func(), error) {
	if !s.useCache {
		return func() {}, nil
	}
	cache, err := driver.OpenCache(s.cacheDir)
	if err != nil {
		return nil, err
	}
	s.opts.Cache = cache
	return func() { _ = cache.Close() }, nil
}

// parseOnly converts --only values to visibilities.
func parseOnly(values []string) ([]symbols.Visibility, error) {
	var out []symbols.Visibility
	for _, raw := range values {
		for _, v := range strings.Split(raw, ",") {
			if strings.TrimSpace(v) == "" {
				continue
			}
			vis, ok := symbols.ParseVisibility(v)
			if !ok {
				return nil, fmt.Errorf("invalid --only value %q (expected public|internal|inaccessible)", v)
			}
			out = append(out, vis)
		}
	}
	return out, nil
}
