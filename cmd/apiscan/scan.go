package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"apiscan/internal/diag"
	"apiscan/internal/diagfmt"
	"apiscan/internal/driver"
	"apiscan/internal/manifest"
	"apiscan/internal/project"
	"apiscan/internal/source"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] <file|directory>",
	Short: "Print the symbol manifest of C/C++ sources",
	Long: `Scan tokenizes C and C++ files, tracks their scopes and prints one manifest
per file: every declared symbol with its visibility, linkage, signature and
attached documentation. Diagnostics go to stderr, the manifest to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	addScanFlags(scanCmd)
	scanCmd.Flags().String("format", "", "output format (pretty|short|map|json|yaml|msgpack; default from config)")
	scanCmd.Flags().String("ui", "auto", "progress display (auto|tui|bar|off)")
	scanCmd.Flags().StringSlice("only", nil, "only print records of these visibilities (public|internal|inaccessible)")
	scanCmd.Flags().String("path-mode", "auto", "how file paths are printed (auto|absolute|relative|basename)")
	scanCmd.Flags().Bool("no-docs", false, "omit documentation comments")
	scanCmd.Flags().Int("width", 0, "pretty: maximum line width (0=terminal width or unlimited)")
	scanCmd.Flags().String("detail", "auto", "map: detail level (auto|full|compact|minimal|outline|truncated)")
	scanCmd.Flags().Int("budget", diagfmt.MaxTruncatedBytes, "map: maximum bytes per file when --detail=auto")
}

// runScan executes the "scan" command. It exits with status 1 when a file
// could not be read; data findings are warnings and never change the status.
func runScan(cmd *cobra.Command, args []string) error {
	target := args[0]

	settings, err := resolveSettings(cmd, target)
	if err != nil {
		return err
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format == "" {
		format = settings.cfg.Output.Format
	}
	uiStr, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiStr)
	if err != nil {
		return err
	}
	onlyStr, err := cmd.Flags().GetStringSlice("only")
	if err != nil {
		return fmt.Errorf("failed to get only flag: %w", err)
	}
	only, err := parseOnly(onlyStr)
	if err != nil {
		return err
	}
	pathModeStr, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, err := diagfmt.ParsePathMode(pathModeStr)
	if err != nil {
		return err
	}
	noDocs, err := cmd.Flags().GetBool("no-docs")
	if err != nil {
		return fmt.Errorf("failed to get no-docs flag: %w", err)
	}
	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return fmt.Errorf("failed to get width flag: %w", err)
	}
	detailStr, err := cmd.Flags().GetString("detail")
	if err != nil {
		return fmt.Errorf("failed to get detail flag: %w", err)
	}
	detail, err := diagfmt.ParseDetail(detailStr)
	if err != nil {
		return err
	}
	budget, err := cmd.Flags().GetInt("budget")
	if err != nil {
		return fmt.Errorf("failed to get budget flag: %w", err)
	}
	if budget <= 0 {
		return fmt.Errorf("invalid budget %d: must be positive", budget)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	writer, err := manifestWriter(format)
	if err != nil {
		return err
	}
	colorOut, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	colorErr, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}
	if width == 0 && isTerminal(os.Stdout) {
		width = terminalWidth(os.Stdout)
	}

	files, err := project.Discover(target, settings.filter)
	if err != nil {
		return fmt.Errorf("failed to discover files: %w", err)
	}
	closeCache, err := settings.openCache()
	if err != nil {
		return err
	}
	defer closeCache()

	mode = resolveUIMode(mode, quiet, len(files))
	fs, results, err := analyzeWithProgress(cmd.Context(), mode, colorErr,
		"scanning "+target, baseDir(target), files, settings.opts)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if !quiet {
		printResultDiagnostics(os.Stderr, fs, results, colorErr)
	}

	ms := make([]manifest.Manifest, len(results))
	for i, r := range results {
		ms[i] = r.Manifest
	}
	opts := diagfmt.ManifestOpts{
		PathMode: pathMode,
		Only:     only,
		Color:    colorOut,
		Width:    width,
		NoDocs:   noDocs,
		Detail:   detail,
		Budget:   budget,
	}
	if err := writer(os.Stdout, ms, fs, opts); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	if settings.opts.Timings {
		printTimings(os.Stderr, results)
	}
	if anyErrors(results) {
		return exitError{code: 1}
	}
	return nil
}

type manifestWriterFunc func(io.Writer, []manifest.Manifest, *source.FileSet, diagfmt.ManifestOpts) error

func manifestWriter(format string) (manifestWriterFunc, error) {
	switch format {
	case "pretty":
		return diagfmt.ManifestPretty, nil
	case "short":
		return diagfmt.ManifestShort, nil
	case "map":
		return diagfmt.ManifestMap, nil
	case "json":
		return diagfmt.ManifestJSON, nil
	case "yaml":
		return diagfmt.ManifestYAML, nil
	case "msgpack":
		return diagfmt.ManifestMsgpack, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// baseDir is the directory relative paths are reported against.
func baseDir(target string) string {
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		return filepath.Dir(target)
	}
	return target
}

// mergedBag collects the diagnostics of all results into one sorted bag.
func mergedBag(results []driver.Result) *diag.Bag {
	bag := diag.NewBag(0)
	for _, r := range results {
		bag.Merge(r.Bag)
	}
	bag.Sort()
	return bag
}

func printResultDiagnostics(w io.Writer, fs *source.FileSet, results []driver.Result, color bool) {
	bag := mergedBag(results)
	if bag.Len() == 0 && bag.Dropped() == 0 {
		return
	}
	diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
		Color:   color,
		Context: 1,
	})
}

func anyErrors(results []driver.Result) bool {
	for _, r := range results {
		if r.Bag.HasErrors() {
			return true
		}
	}
	return false
}
