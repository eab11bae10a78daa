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
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/splice/merge"
	"github.com/dhamidi/splice/watch"
)

type batchStatus int

const (
	statusUnchanged batchStatus = iota
	statusMerged
	statusAdded
	statusFailed
)

var statusNames = map[batchStatus]string{
	statusUnchanged: "unchanged",
	statusMerged:    "merged",
	statusAdded:     "added",
	statusFailed:    "failed",
}

func (s batchStatus) String() string {
	return statusNames[s]
}

func (s batchStatus) color() *color.Color {
	switch s {
	case statusMerged:
		return color.New(color.FgGreen)
	case statusAdded:
		return color.New(color.FgCyan)
	case statusFailed:
		return color.New(color.FgRed)
	}
	return color.New(color.FgYellow)
}

var errBatchFailed = errors.New("batch merge failed")

type batchOptions struct {
	baseDir      string
	candidateDir string
	outDir       string
	pattern      string
	jobs         int
	interval     time.Duration
	policy       merge.Policy
}

type batchFile struct {
	rel    string
	status batchStatus
	before int
	after  int
	err    error
}

type batchReport struct {
	files []batchFile
}

func (r *batchReport) count(status batchStatus) int {
	n := 0
	for _, f := range r.files {
		if f.status == status {
			n++
		}
	}
	return n
}

func (r *batchReport) bytes() (before, after uint64) {
	for _, f := range r.files {
		before += uint64(f.before)
		after += uint64(f.after)
	}
	return before, after
}

func (r *batchReport) write(w io.Writer) {
	for _, f := range r.files {
		f.status.color().Fprintf(w, "%-9s", f.status)
		fmt.Fprintf(w, " %s", f.rel)
		if f.err != nil {
			fmt.Fprintf(w, ": %s", f.err)
		}
		fmt.Fprintln(w)
	}
	before, after := r.bytes()
	fmt.Fprintf(w, "%d files: %d merged, %d added, %d unchanged, %d failed; %s -> %s\n",
		len(r.files),
		r.count(statusMerged),
		r.count(statusAdded),
		r.count(statusUnchanged),
		r.count(statusFailed),
		humanize.Bytes(before),
		humanize.Bytes(after),
	)
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		outDir   string
		jobs     int
		watching bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "batch <base-dir> <candidate-dir>",
		Short: "Merge every candidate .java file into the base file at the same path",
		Long: `Walk candidate-dir and merge each .java file into the file with the same
relative path under base-dir. Candidates with no base file are copied
as they are.

Results are written under --out, or over the base files when no output
directory is configured. Files are merged in parallel (--jobs).

With --watch, splice keeps polling candidate-dir after the first pass and
merges every candidate file that appears or changes, until interrupted.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := batchOptions{
				baseDir:      args[0],
				candidateDir: args[1],
				outDir:       a.cfg.Batch.Out,
				pattern:      a.cfg.Batch.Pattern,
				jobs:         a.cfg.Batch.Jobs,
				interval:     interval,
				policy:       a.cfg.Merge,
			}
			if cmd.Flags().Changed("out") {
				opts.outDir = outDir
			}
			if cmd.Flags().Changed("jobs") {
				opts.jobs = jobs
			}

			out := cmd.OutOrStdout()
			report, w, err := runBatch(cmd.Context(), opts)
			if err != nil {
				return err
			}
			report.write(out)

			if watching {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()
				err := w.Run(ctx, func(changed []string) {
					report, err := mergeAll(ctx, opts, changed)
					if err != nil {
						log.Errorf("batch: %s", err)
						return
					}
					report.write(out)
				})
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}

			if n := report.count(statusFailed); n > 0 {
				return fmt.Errorf("%w: %d of %d files", errBatchFailed, n, len(report.files))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "write results under this directory instead of over the base files")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of files merged in parallel")
	cmd.Flags().BoolVar(&watching, "watch", false, "keep merging candidate files as they change")
	cmd.Flags().DurationVar(&interval, "interval", watch.DefaultInterval, "polling interval for --watch")

	return cmd
}

// runBatch merges every candidate file once and returns the report and
// the watcher that listed them, for callers that keep watching.
func runBatch(ctx context.Context, opts batchOptions) (*batchReport, *watch.Watcher, error) {
	if opts.jobs <= 0 {
		return nil, nil, fmt.Errorf("jobs must be positive, got %d", opts.jobs)
	}
	w := watch.New(opts.candidateDir, opts.pattern, opts.interval)
	rels, err := w.Scan()
	if err != nil {
		return nil, nil, fmt.Errorf("scan %s: %w", opts.candidateDir, err)
	}
	report, err := mergeAll(ctx, opts, rels)
	if err != nil {
		return nil, nil, err
	}
	return report, w, nil
}

func mergeAll(ctx context.Context, opts batchOptions, rels []string) (*batchReport, error) {
	report := &batchReport{files: make([]batchFile, len(rels))}
	if len(rels) == 0 {
		return report, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.jobs, len(rels)))
	for i, rel := range rels {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report.files[i] = mergeFile(gctx, opts, rel)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func mergeFile(ctx context.Context, opts batchOptions, rel string) batchFile {
	f := batchFile{rel: rel}
	fail := func(err error) batchFile {
		f.status = statusFailed
		f.err = err
		return f
	}

	candidatePath := filepath.Join(opts.candidateDir, rel)
	basePath := filepath.Join(opts.baseDir, rel)
	outPath := basePath
	if opts.outDir != "" {
		outPath = filepath.Join(opts.outDir, rel)
	}

	candidate, err := os.ReadFile(candidatePath)
	if err != nil {
		return fail(err)
	}

	base, err := os.ReadFile(basePath)
	var text []byte
	switch {
	case errors.Is(err, fs.ErrNotExist):
		f.status = statusAdded
		text = candidate
	case err != nil:
		return fail(err)
	default:
		f.before = len(base)
		result, err := merge.Merge(ctx, base, candidate,
			merge.WithPolicy(opts.policy),
			merge.WithNames(basePath, candidatePath),
		)
		if err != nil {
			return fail(err)
		}
		text = result.Text
		f.status = statusUnchanged
		if result.Changed() {
			f.status = statusMerged
		}
	}
	f.after = len(text)

	if f.status == statusUnchanged && outPath == basePath {
		return f
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fail(err)
	}
	if err := writeFile(outPath, text); err != nil {
		return fail(err)
	}
	return f
}
