package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"apiscan/internal/diagfmt"
	"apiscan/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file",
	Short: "Tokenize a C/C++ source file",
	Long:  `Tokenize prints the token stream the scanner sees, comments and directives included`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Bool("skip-trivia", false, "omit whitespace and newline tokens")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	skipTrivia, err := cmd.Flags().GetBool("skip-trivia")
	if err != nil {
		return fmt.Errorf("failed to get skip-trivia flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Tokenize(filePath, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// диагностика в stderr, если есть
	if result.Bag.Len() > 0 {
		color, err := useColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		result.Bag.Sort()
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:   color,
			Context: 2,
		})
	}

	opts := diagfmt.TokenOpts{SkipTrivia: skipTrivia}
	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet, opts)
	case "json":
		return diagfmt.FormatTokensJSON(os.Stdout, result.Tokens, result.FileSet, opts)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
