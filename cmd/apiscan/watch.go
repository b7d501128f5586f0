package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"apiscan/internal/diagfmt"
	"apiscan/internal/driver"
	"apiscan/internal/manifest"
	"apiscan/internal/project"
	"apiscan/internal/source"
)

const watchQuietPeriod = 150 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <directory>",
	Short: "Rescan C/C++ files as they change",
	Long: `Watch scans a directory once and then prints the manifest of every source
file that is created or modified, until interrupted`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	addScanFlags(watchCmd)
	watchCmd.Flags().String("format", "short", "output format (pretty|short|map|json|yaml|msgpack)")
	watchCmd.Flags().Bool("initial", true, "print the manifests of the initial scan")
}

// watchSession keeps the state shared between rescans.
type watchSession struct {
	root     string
	filter   project.Filter
	opts     driver.Options
	write    manifestWriterFunc
	manOpts  diagfmt.ManifestOpts
	out      io.Writer
	errOut   io.Writer
	errColor bool
}

func runWatch(cmd *cobra.Command, args []string) error {
	root := args[0]
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch needs a directory, got %s", root)
	}

	settings, err := resolveSettings(cmd, root)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	initial, err := cmd.Flags().GetBool("initial")
	if err != nil {
		return fmt.Errorf("failed to get initial flag: %w", err)
	}
	write, err := manifestWriter(format)
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
	closeCache, err := settings.openCache()
	if err != nil {
		return err
	}
	defer closeCache()

	settings.opts.Memo = driver.NewMemo(128)
	s := &watchSession{
		root:     root,
		filter:   settings.filter,
		opts:     settings.opts,
		write:    write,
		manOpts:  diagfmt.ManifestOpts{Color: colorOut},
		out:      os.Stdout,
		errOut:   os.Stderr,
		errColor: colorErr,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()
	if err := s.addDirs(w, root); err != nil {
		return err
	}

	files, err := project.Discover(root, s.filter)
	if err != nil {
		return fmt.Errorf("failed to discover files: %w", err)
	}
	if err := s.rescan(ctx, files, initial, false); err != nil {
		return err
	}
	fmt.Fprintf(s.errOut, "watching %s (%d files)\n", root, len(files))

	return s.loop(ctx, w)
}

// addDirs watches dir and every non-hidden subdirectory not excluded by the filter.
func (s *watchSession) addDirs(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// каталог мог исчезнуть между событием и обходом
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != s.root && s.skipDir(path) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (s *watchSession) skipDir(path string) bool {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return false
	}
	return s.filter.SkipDir(filepath.ToSlash(rel))
}

// classify reports whether ev concerns a scanned file and whether that file
// is gone.
func (s *watchSession) classify(ev fsnotify.Event) (path string, removed, ok bool) {
	if !project.IsSourceFile(ev.Name) {
		return "", false, false
	}
	rel, err := filepath.Rel(s.root, ev.Name)
	if err != nil || !s.filter.Match(filepath.ToSlash(rel)) {
		return "", false, false
	}
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return ev.Name, true, true
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create):
		return ev.Name, false, true
	}
	return "", false, false
}

func (s *watchSession) loop(ctx context.Context, w *fsnotify.Watcher) error {
	pending := make(map[string]bool) // path -> removed
	timer := time.NewTimer(watchQuietPeriod)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !s.skipDir(ev.Name) {
					if err := s.addDirs(w, ev.Name); err != nil {
						fmt.Fprintf(s.errOut, "watch: %v\n", err)
					}
					continue
				}
			}
			path, removed, ok := s.classify(ev)
			if !ok {
				continue
			}
			pending[path] = removed
			timer.Reset(watchQuietPeriod)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(s.errOut, "watch: %v\n", err)

		case <-timer.C:
			changed := s.flush(pending)
			clear(pending)
			if err := s.rescan(ctx, changed, true, true); err != nil {
				return err
			}
		}
	}
}

// flush forgets removed files and returns the sorted list of files to rescan.
func (s *watchSession) flush(pending map[string]bool) []string {
	changed := make([]string, 0, len(pending))
	for path, removed := range pending {
		// rename приходит и для перезаписи через временный файл
		if _, err := os.Stat(path); err == nil {
			changed = append(changed, path)
			continue
		}
		if removed {
			s.opts.Memo.Forget(filepath.ToSlash(filepath.Clean(path)))
			fmt.Fprintf(s.errOut, "removed %s\n", path)
		}
	}
	slices.Sort(changed)
	return changed
}

// rescan analyses files. With onlyChanged set, results restored from the
// memo or the cache are not printed.
func (s *watchSession) rescan(ctx context.Context, files []string, show, onlyChanged bool) error {
	if len(files) == 0 {
		return nil
	}
	fileSet, results, err := driver.AnalyzePaths(ctx, s.root, files, s.opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("scan failed: %w", err)
	}
	if !show {
		return nil
	}
	if onlyChanged {
		results = slices.DeleteFunc(results, func(r driver.Result) bool { return r.Cached })
	}
	return s.print(fileSet, results)
}

func (s *watchSession) print(fileSet *source.FileSet, results []driver.Result) error {
	if len(results) == 0 {
		return nil
	}
	printResultDiagnostics(s.errOut, fileSet, results, s.errColor)
	ms := make([]manifest.Manifest, len(results))
	for i, r := range results {
		ms[i] = r.Manifest
	}
	return s.write(s.out, ms, fileSet, s.manOpts)
}
