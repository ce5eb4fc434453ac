package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/yaklabco/xwikiparse/pkg/fsutil"
	"github.com/yaklabco/xwikiparse/pkg/listener"
	"github.com/yaklabco/xwikiparse/pkg/parser"
)

// Runner parses files with a fixed set of parser options.
type Runner struct {
	// ParserOptions are passed to every parser the runner creates.
	ParserOptions []parser.Option

	// KeepEvents stores each file's events in its outcome.
	KeepEvents bool
}

// New creates a runner using opts for every file.
func New(opts ...parser.Option) *Runner {
	return &Runner{ParserOptions: opts}
}

// Run is New(ParserOptions(opts.Config)...).Run(ctx, opts).
func Run(ctx context.Context, opts Options) (*Result, error) {
	return New(ParserOptions(opts.Config)...).Run(ctx, opts)
}

// Run discovers the files selected by opts and parses them with a pool
// of workers. Per-file failures are recorded in the outcomes and do not
// stop the run. Outcomes are ordered by path.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	worker := *r
	worker.KeepEvents = r.KeepEvents || opts.KeepEvents

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range workCh {
				outcome := worker.ParseFile(ctx, path)
				select {
				case <-ctx.Done():
					return
				case outCh <- outcome:
				}
			}
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers finish out of order.
	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}
	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}
	result.Stats.Duration = time.Since(start)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

// ParseFile reads and parses one file.
func (r *Runner) ParseFile(ctx context.Context, path string) FileOutcome {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return FileOutcome{Path: path, Error: fmt.Errorf("read file: %w", err)}
	}
	return r.ParseSource(ctx, path, string(content))
}

// ParseSource parses src, reporting it under path.
func (r *Runner) ParseSource(ctx context.Context, path, src string) FileOutcome {
	start := time.Now()
	outcome := FileOutcome{Path: path, Size: len(src)}

	var rec *listener.Recorder
	var counter listener.Listener = listener.Func(func(listener.Event) {
		outcome.EventCount++
	})
	if r.KeepEvents {
		rec = listener.NewRecorder()
		counter = listener.Tee(counter, rec)
	}
	v := listener.NewValidator(counter)

	if err := parser.New(v, r.ParserOptions...).ParseContext(ctx, src); err != nil {
		outcome.Error = err
	}
	if rec != nil {
		outcome.Events = rec.Events()
	}
	if outcome.Error == nil {
		outcome.Nesting = v.Err()
	}
	outcome.Duration = time.Since(start)
	return outcome
}
