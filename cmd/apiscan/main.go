package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"apiscan/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "apiscan",
	Short: "C/C++ public API scanner",
	Long: `apiscan scans C and C++ sources without a compiler and reports which
declared symbols are part of the public API, internal to their translation
unit, or inaccessible from outside their class`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		stopProfiling, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		stopTracing, err := setupTracing(cmd)
		if err != nil {
			stopProfiling()
			return err
		}
		cleanup = func() {
			stopTracing()
			stopProfiling()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		runCleanup()
	},
}

// cleanup is set by PersistentPreRunE and run once after the command.
var cleanup func()

func runCleanup() {
	if cleanup != nil {
		cleanup()
		cleanup = nil
	}
}

// exitError carries a process exit status without printing a message.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// addGlobalFlags registers the persistent flags shared by every command.
func addGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	cmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	cmd.PersistentFlags().Bool("timings", false, "show timing information")
	cmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics per file")
	cmd.PersistentFlags().String("config", "", "path to apiscan.toml (default: search upwards from the target)")
	cmd.PersistentFlags().String("trace", "", "write trace events to file (- for stderr)")
	cmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	cmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	cmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	cmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	cmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")
}

// main initializes the CLI, registers subcommands and persistent flags, and
// executes the root command. Failures exit with status 1 unless the command
// asked for a specific status.
func main() {
	// версия для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(diagCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)

	addGlobalFlags(rootCmd)

	err := rootCmd.Execute()
	runCleanup()
	if err == nil {
		return
	}
	var ee exitError
	if errors.As(err, &ee) {
		os.Exit(ee.code)
	}
	fmt.Fprintf(os.Stderr, "apiscan: %v\n", err)
	os.Exit(1)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color for output written to f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
}
