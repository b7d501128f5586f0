package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"apiscan/internal/diag"
	"apiscan/internal/diagfmt"
	"apiscan/internal/project"
	"apiscan/internal/version"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <file|directory>",
	Short: "Report diagnostics for C/C++ sources",
	Long: `Diag scans C and C++ files and prints only the diagnostics: unterminated
literals and comments, unbalanced or too deeply nested scopes, and files that
could not be read`,
	Args: cobra.ExactArgs(1),
	RunE: runDiagnose,
}

func init() {
	addScanFlags(diagCmd)
	diagCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

// runDiagnose executes the "diag" command. Diagnostics are printed to stdout
// in the chosen format; the command exits with status 1 when any of them is
// an error.
func runDiagnose(cmd *cobra.Command, args []string) error {
	target := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "short", "json", "sarif":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}

	settings, err := resolveSettings(cmd, target)
	if err != nil {
		return err
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

	fs, results, err := analyzeWithProgress(cmd.Context(), uiModeOff, false, "", baseDir(target), files, settings.opts)
	if err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}
	bag := mergedBag(results)

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	color, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}

	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, bag, fs, diagfmt.PrettyOpts{
			Color:     color,
			Context:   2,
			PathMode:  pathMode,
			ShowNotes: withNotes,
		})
	case "short":
		if output := diag.FormatShortDiagnostics(bag.Items(), fs, withNotes); output != "" {
			fmt.Fprintln(os.Stdout, output)
		}
	case "json":
		err = diagfmt.JSON(os.Stdout, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
		})
	case "sarif":
		err = diagfmt.Sarif(os.Stdout, bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "apiscan",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		})
	}
	if err != nil {
		return fmt.Errorf("failed to format diagnostics: %w", err)
	}

	if settings.opts.Timings {
		printTimings(os.Stderr, results)
	}
	if bag.HasErrors() {
		return exitError{code: 1}
	}
	return nil
}
