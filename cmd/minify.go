package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"stylesmith/internal/inspect"
	"stylesmith/internal/minifier"
	"stylesmith/internal/ui"
)

var (
	minifyOutput string
	minifyStats  bool
)

var minifyCmd = &cobra.Command{
	Use:   "minify [files...]",
	Short: "Minify CSS files to stdout",
	Long: `Minify one or more CSS files. With no files, or "-", the stylesheet is read
from stdin. Results are written to stdout, or concatenated into --output.`,
	Run: func(cmd *cobra.Command, args []string) {
		// stdout carries CSS, keep status lines off it
		ui.Out = os.Stderr
		if err := runMinify(args); err != nil {
			os.Exit(1)
		}
	},
}

// runMinify minifies args to stdout or --output. Errors are printed before
// being returned.
func runMinify(args []string) error {
	log := newLogger("normal")
	defer log.Sync()

	var (
		results []minifyResult
		err     error
	)
	if minifyOutput != "" {
		results, err = minifyToFile(args, os.Stdin, minifyOutput, log)
	} else {
		results, err = minifyInputs(args, os.Stdin, os.Stdout, log)
	}

	if minifyStats {
		for _, r := range results {
			printMinifyStats(r)
		}
	}
	for _, e := range multierr.Errors(err) {
		ui.PrintError("%v", e)
	}
	return err
}

func init() {
	minifyCmd.Flags().StringVarP(&minifyOutput, "output", "o", "", "Write minified CSS to this file instead of stdout")
	minifyCmd.Flags().BoolVar(&minifyStats, "stats", false, "Print size and structure statistics to stderr")
	rootCmd.AddCommand(minifyCmd)
}

type minifyResult struct {
	Name    string
	Stats   minifier.Stats
	Before  inspect.Summary
	After   inspect.Summary
	Inspect error
}

// minifyInputs minifies every named file, or stdin when names is empty, into out.
// A file that cannot be read is reported and skipped.
func minifyInputs(names []string, stdin io.Reader, out io.Writer, log *zap.Logger) ([]minifyResult, error) {
	if len(names) == 0 {
		names = []string{"-"}
	}

	var (
		results []minifyResult
		errs    error
	)
	for _, name := range names {
		var (
			data []byte
			err  error
		)
		if name == "-" {
			data, err = io.ReadAll(stdin)
			name = "<stdin>"
		} else {
			data, err = os.ReadFile(name)
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to read %s: %w", name, err))
			continue
		}

		source := string(data)
		minified := minifier.MinifyCSS(source)
		if _, err := io.WriteString(out, minified); err != nil {
			return results, multierr.Append(errs, fmt.Errorf("failed to write output: %w", err))
		}

		r := minifyResult{Name: name, Stats: minifier.Measure(source, minified)}
		if r.Before, r.Inspect = inspect.Summarize(source); r.Inspect == nil {
			r.After, r.Inspect = inspect.Summarize(minified)
		}
		log.Debug("Minified", zap.String("file", name), zap.Int("original", r.Stats.Original), zap.Int("minified", r.Stats.Minified))
		results = append(results, r)
	}
	return results, errs
}

// minifyToFile minifies names into a new file at path. A failed close is
// reported along with any read errors.
func minifyToFile(names []string, stdin io.Reader, path string, log *zap.Logger) (results []minifyResult, err error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close %s: %w", path, cerr))
		}
	}()
	return minifyInputs(names, stdin, f, log)
}

func printMinifyStats(r minifyResult) {
	ui.PrintKeyValue(r.Name, r.Stats.String())
	switch {
	case r.Inspect != nil:
		ui.PrintWarning("%s: %v", r.Name, r.Inspect)
	case !r.Before.Same(r.After):
		ui.PrintWarning("%s: structure changed, %s became %s", r.Name, r.Before, r.After)
	default:
		ui.PrintKeyValue("Structure", r.After.String())
	}
}
