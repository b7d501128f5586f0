package driver

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"apiscan/internal/diag"
	"apiscan/internal/manifest"
	"apiscan/internal/observ"
	"apiscan/internal/project"
	"apiscan/internal/scan"
	"apiscan/internal/scope"
	"apiscan/internal/source"
	"apiscan/internal/trace"
)

// Options configures a driver run.
type Options struct {
	Jobs           int // <= 0 means GOMAXPROCS
	MaxDiagnostics int // per file; <= 0 means no practical limit
	MaxDepth       int // 0 means scope.DefaultMaxDepth
	Macros         bool
	Timings        bool
	Cache          *Cache
	Memo           *Memo
	Progress       ProgressSink
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return scope.DefaultMaxDepth
	}
	return o.MaxDepth
}

func (o Options) jobs(n int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, n))
}

// Input is one in-memory source file.
type Input struct {
	Path    string
	Content []byte
}

// Result содержит результат анализа одного файла.
type Result struct {
	Path     string
	FileID   source.FileID
	Manifest manifest.Manifest
	Bag      *diag.Bag
	Cached   bool           // restored from Cache or Memo
	Timing   *observ.Report // set when Options.Timings
}

// slot is a file scheduled for analysis; loadErr is set when reading failed.
type slot struct {
	path    string
	id      source.FileID
	loadErr error
}

// AnalyzeFile analyses one file of fs sequentially.
func AnalyzeFile(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) Result {
	return analyzeFile(ctx, fs.Get(id), opts)
}

// AnalyzeInputs analyses in-memory inputs. Results follow the input order.
func AnalyzeInputs(ctx context.Context, inputs []Input, opts Options) (*source.FileSet, []Result, error) {
	fileSet := source.NewFileSet()
	slots := make([]slot, len(inputs))
	for i, in := range inputs {
		slots[i] = slot{path: in.Path, id: fileSet.AddVirtual(in.Path, in.Content)}
	}
	results, err := run(ctx, fileSet, slots, opts)
	return fileSet, results, err
}

// AnalyzeDir discovers files under root (a directory or a single file) and
// analyses them. Files that cannot be read produce a result with an IO4001
// diagnostic and an empty manifest.
func AnalyzeDir(ctx context.Context, root string, filter project.Filter, opts Options) (*source.FileSet, []Result, error) {
	files, err := project.Discover(root, filter)
	if err != nil {
		return nil, nil, err
	}
	base := root
	if info, statErr := os.Stat(root); statErr == nil && !info.IsDir() {
		base = filepath.Dir(root)
	}
	return AnalyzePaths(ctx, base, files, opts)
}

// AnalyzePaths loads the given files into a new FileSet and analyses them.
func AnalyzePaths(ctx context.Context, base string, files []string, opts Options) (*source.FileSet, []Result, error) {
	fileSet := source.NewFileSetWithBase(base)
	results, err := run(ctx, fileSet, load(fileSet, files, opts.Progress), opts)
	return fileSet, results, err
}

// load reads files sequentially; FileSet is not safe for concurrent writers.
func load(fileSet *source.FileSet, files []string, sink ProgressSink) []slot {
	slots := make([]slot, len(files))
	for i, path := range files {
		notify(sink, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		id, err := fileSet.Load(path)
		if err != nil {
			id = fileSet.AddVirtual(path, nil)
		}
		slots[i] = slot{path: path, id: id, loadErr: err}
	}
	return slots
}

func run(ctx context.Context, fileSet *source.FileSet, slots []slot, opts Options) ([]Result, error) {
	if len(slots) == 0 {
		return nil, nil
	}
	ctx, span := trace.BeginCtx(ctx, trace.ScopeDriver, "analyze")
	start := time.Now()
	notify(opts.Progress, Event{Stage: StageScan, Status: StatusWorking})

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]Result, len(slots))
	done := make([]bool, len(slots))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(slots)))
	for i, sl := range slots {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			file := fileSet.Get(sl.id)
			if sl.loadErr != nil {
				results[i] = loadFailure(file, sl.loadErr, opts)
			} else {
				results[i] = analyzeFile(gctx, file, opts)
			}
			done[i] = true
			return nil
		})
	}
	err := g.Wait()

	out := make([]Result, 0, len(results))
	for i := range results {
		if done[i] {
			out = append(out, results[i])
		}
	}

	status := StatusDone
	if err != nil {
		status = StatusError
	}
	notify(opts.Progress, Event{Stage: StageScan, Status: status, Err: err, Elapsed: time.Since(start)})
	span.WithExtra("files", strconv.Itoa(len(out))).End(string(status))
	return out, err
}

func loadFailure(file *source.File, err error, opts Options) Result {
	bag := diag.NewBag(opts.MaxDiagnostics)
	bag.Add(diag.NewError(diag.IOLoadFileError, file.Span(0, 0), "failed to load file: "+err.Error()))
	notify(opts.Progress, Event{File: file.Path, Stage: StageLoad, Status: StatusError, Err: err})
	return Result{
		Path:     file.Path,
		FileID:   file.ID,
		Manifest: manifest.Manifest{Path: file.Path},
		Bag:      bag,
	}
}

func analyzeFile(ctx context.Context, file *source.File, opts Options) Result {
	ctx, span := trace.BeginCtx(trace.WithFile(ctx, file.Path), trace.ScopeFile, "file:"+file.Path)
	start := time.Now()
	notify(opts.Progress, Event{File: file.Path, Stage: StageScan, Status: StatusWorking})

	var timer *observ.Timer
	if opts.Timings {
		timer = observ.NewTimer()
	}
	res := Result{
		Path:   file.Path,
		FileID: file.ID,
		Bag:    diag.NewBag(opts.MaxDiagnostics),
	}

	key := cacheKey(file, opts)
	e, hit := lookup(ctx, file, key, opts, timer, res.Bag)
	if hit {
		res.Cached = true
	} else {
		e = scanFile(ctx, file, opts, timer)
		store(ctx, file, key, e, opts, timer, res.Bag)
	}
	res.Manifest = e.manifest(file)
	// scan diagnostics go after cache warnings, capped by the result bag
	for _, d := range e.diagnostics(file) {
		res.Bag.Add(d)
	}
	if timer != nil {
		report := timer.Report()
		res.Timing = &report
	}

	status := StatusDone
	if res.Cached {
		status = StatusCached
	}
	notify(opts.Progress, Event{
		File:    file.Path,
		Stage:   StageScan,
		Status:  status,
		Records: len(res.Manifest.Records),
		Elapsed: time.Since(start),
	})
	span.WithExtra("records", strconv.Itoa(len(res.Manifest.Records))).
		WithExtra("diagnostics", strconv.Itoa(res.Bag.Len())).
		End(string(status))
	return res
}

func scanFile(ctx context.Context, file *source.File, opts Options, timer *observ.Timer) *entry {
	sp := trace.BeginPass(ctx, "lex+scan")
	idx := begin(timer, "scan")

	// полный список без лимита: он же уходит в кэш
	bag := diag.NewBag(0)
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	m := scan.Analyze(file, scan.Options{
		MaxDepth: opts.maxDepth(),
		Macros:   opts.Macros,
		Reporter: reporter,
	})
	bag.Sort()

	end(timer, idx, strconv.Itoa(len(m.Records))+" records")
	if n := reporter.Suppressed(); n > 0 {
		sp.WithExtra("duplicates", strconv.Itoa(n))
	}
	sp.End("")
	return newEntry(m, bag.Items())
}

func lookup(ctx context.Context, file *source.File, key project.Digest, opts Options, timer *observ.Timer, bag *diag.Bag) (*entry, bool) {
	if e, ok := opts.Memo.get(file.Path, key); ok {
		return e, true
	}
	if opts.Cache == nil {
		return nil, false
	}
	sp := trace.BeginPass(ctx, "cache:get")
	idx := begin(timer, "cache")
	e, ok, err := opts.Cache.get(key)
	end(timer, idx, "")
	if err != nil {
		bag.Add(diag.NewWarning(diag.IOCacheError, file.Span(0, 0), "cache read failed: "+err.Error()))
		sp.End("error")
		return nil, false
	}
	if ok {
		opts.Memo.put(file.Path, key, e)
		sp.End("hit")
		return e, true
	}
	sp.End("miss")
	return nil, false
}

func store(ctx context.Context, file *source.File, key project.Digest, e *entry, opts Options, timer *observ.Timer, bag *diag.Bag) {
	opts.Memo.put(file.Path, key, e)
	if opts.Cache == nil {
		return
	}
	sp := trace.BeginPass(ctx, "cache:put")
	idx := begin(timer, "cache")
	if err := opts.Cache.put(key, e); err != nil {
		bag.Add(diag.NewWarning(diag.IOCacheError, file.Span(0, 0), "cache write failed: "+err.Error()))
	}
	end(timer, idx, "")
	sp.End("")
}

func begin(t *observ.Timer, name string) int {
	if t == nil {
		return -1
	}
	return t.Begin(name)
}

func end(t *observ.Timer, idx int, note string) {
	if t != nil {
		t.End(idx, note)
	}
}
