package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"stylesmith/internal/config"
	"stylesmith/internal/inspect"
	"stylesmith/internal/minifier"
	"stylesmith/internal/ui"
)

// FileResult is the outcome of minifying one stylesheet
type FileResult struct {
	Source string // path relative to the project
	Output string // path relative to the project
	Stats  minifier.Stats
	// Warning is set when verification found the structure changed
	Warning string
	Err     error

	minified string
}

// Report summarizes a build
type Report struct {
	Files    []FileResult
	Total    minifier.Stats
	Combined string // path of the combined file, if any
	Archive  string // path of the zip archive, if any
	Elapsed  time.Duration
}

// Failed returns the number of files that could not be minified
func (r *Report) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// Builder minifies the stylesheets of a project
type Builder struct {
	SourceDir string
	Config    *config.ProjectConfig
	Log       *zap.Logger
	Quiet     bool
}

// New creates a Builder for the project in sourceDir
func New(sourceDir string, cfg *config.ProjectConfig, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		SourceDir: sourceDir,
		Config:    cfg,
		Log:       log.Named("builder"),
	}
}

func (b *Builder) info(format string, args ...interface{}) {
	if !b.Quiet {
		ui.PrintInfo(format, args...)
	}
}

// OutputDir returns the absolute output directory
func (b *Builder) OutputDir() string {
	return filepath.Join(b.SourceDir, b.Config.Output)
}

// Build minifies every included stylesheet into the output directory.
//
// Files that fail do not stop the others; their errors are combined into the
// returned error and also recorded in the report.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{}

	b.info("Cleaning output directory...")
	if err := b.cleanOutputDir(); err != nil {
		return nil, err
	}

	files, err := ExpandStylesheets(b.SourceDir, b.Config.Include, b.Config.Exclude, b.Config.Suffix)
	if err != nil {
		return nil, fmt.Errorf("failed to expand include patterns: %w", err)
	}
	b.Log.Debug("Expanded includes", zap.Strings("include", b.Config.Include), zap.Int("files", len(files)))

	if len(files) == 0 {
		ui.PrintWarning("No stylesheets matched %s", strings.Join(b.Config.Include, ", "))
		report.Elapsed = time.Since(start)
		return report, nil
	}

	b.info("Minifying %d stylesheets...", len(files))
	report.Files = b.minifyAll(ctx, files)

	var errs error
	for i := range report.Files {
		f := &report.Files[i]
		if f.Err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", f.Source, f.Err))
			continue
		}
		report.Total.Add(f.Stats)
	}
	if err := ctx.Err(); err != nil {
		return report, multierr.Append(err, errs)
	}

	if b.Config.Combine != "" {
		if err := b.combine(report); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if b.Config.Archive != "" && errs == nil {
		b.info("Creating %s...", b.Config.Archive)
		zipPath := filepath.Join(b.SourceDir, b.Config.Archive)
		if err := CreateZip(b.OutputDir(), zipPath, SanitizeName(b.Config.Name)); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to create archive: %w", err))
		} else {
			report.Archive = b.Config.Archive
		}
	}

	report.Elapsed = time.Since(start)
	b.Log.Debug("Build finished",
		zap.Int("files", len(report.Files)),
		zap.Int("failed", report.Failed()),
		zap.Int("original", report.Total.Original),
		zap.Int("minified", report.Total.Minified),
		zap.Duration("elapsed", report.Elapsed))

	return report, errs
}

func (b *Builder) cleanOutputDir() error {
	out := b.OutputDir()
	if err := os.RemoveAll(out); err != nil {
		return fmt.Errorf("failed to clean output directory: %w", err)
	}
	if err := os.MkdirAll(out, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

func (b *Builder) workers(jobs int) int {
	n := b.Config.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > jobs {
		n = jobs
	}
	return n
}

// minifyAll runs a bounded worker pool over files and returns results in file order
func (b *Builder) minifyAll(ctx context.Context, files []string) []FileResult {
	results := make([]FileResult, len(files))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < b.workers(len(files)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = b.minifyOne(files[i])
			}
		}()
	}

feed:
	for i := range files {
		select {
		case <-ctx.Done():
			for j := i; j < len(files); j++ {
				results[j] = FileResult{Source: files[j], Err: ctx.Err()}
			}
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

func (b *Builder) minifyOne(rel string) FileResult {
	out := OutputPath(rel, b.Config.Suffix)
	result := FileResult{
		Source: rel,
		Output: filepath.ToSlash(filepath.Join(b.Config.Output, out)),
	}

	src := filepath.Join(b.SourceDir, filepath.FromSlash(rel))
	dst := filepath.Join(b.OutputDir(), filepath.FromSlash(out))

	source, minified, err := MinifyFile(src, dst)
	if err != nil {
		result.Err = err
		b.Log.Error("Unable to minify", zap.String("file", rel), zap.Error(err))
		return result
	}
	result.Stats = minifier.Measure(source, minified)
	result.minified = minified

	b.Log.Debug("Minified",
		zap.String("file", rel),
		zap.String("output", result.Output),
		zap.Int("original", result.Stats.Original),
		zap.Int("minified", result.Stats.Minified))

	if b.Config.Verify {
		result.Warning = verify(source, minified)
		if result.Warning != "" {
			b.Log.Warn("Structure changed", zap.String("file", rel), zap.String("detail", result.Warning))
		}
	}
	return result
}

// verify compares the structure of source and minified and describes any difference
func verify(source, minified string) string {
	before, err := inspect.Summarize(source)
	if err != nil {
		return err.Error()
	}
	after, err := inspect.Summarize(minified)
	if err != nil {
		return err.Error()
	}
	if !before.Same(after) {
		return fmt.Sprintf("%s became %s", before, after)
	}
	return ""
}

// combine writes all minified files, in source order, into one stylesheet
func (b *Builder) combine(report *Report) error {
	var sb strings.Builder
	for _, f := range report.Files {
		sb.WriteString(f.minified)
	}

	dst := filepath.Join(b.OutputDir(), filepath.FromSlash(b.Config.Combine))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to write combined stylesheet: %w", err)
	}
	if err := os.WriteFile(dst, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write combined stylesheet: %w", err)
	}

	report.Combined = filepath.ToSlash(filepath.Join(b.Config.Output, b.Config.Combine))
	b.Log.Debug("Combined", zap.String("output", report.Combined), zap.Int("bytes", sb.Len()))
	return nil
}
