package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"apiscan/internal/driver"
	"apiscan/internal/source"
	"apiscan/internal/ui"
)

type scanOutcome struct {
	fileSet *source.FileSet
	results []driver.Result
	err     error
}

// analyzeWithProgress runs driver.AnalyzePaths with the progress display
// selected by mode.
func analyzeWithProgress(ctx context.Context, mode uiMode, color bool, title, base string, files []string, opts driver.Options) (*source.FileSet, []driver.Result, error) {
	switch mode {
	case uiModeTUI:
		return analyzeWithTUI(ctx, title, base, files, opts)
	case uiModeBar:
		bar := ui.NewBar(os.Stderr, len(files), color)
		opts.Progress = bar.Sink()
		fs, results, err := driver.AnalyzePaths(ctx, base, files, opts)
		bar.Finish()
		return fs, results, err
	default:
		return driver.AnalyzePaths(ctx, base, files, opts)
	}
}

func analyzeWithTUI(ctx context.Context, title, base string, files []string, opts driver.Options) (*source.FileSet, []driver.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan scanOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		fs, results, err := driver.AnalyzePaths(ctx, base, files, opts)
		outcomeCh <- scanOutcome{fileSet: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	final, uiErr := program.Run()
	if uiErr != nil || ui.Aborted(final) {
		cancel()
	}
	// модель могла выйти раньше (ctrl+c): дочитываем события, чтобы не блокировать воркеры
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}
