package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"stylesmith/internal/builder"
	"stylesmith/internal/config"
	"stylesmith/internal/ui"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Minify the stylesheets of the current project",
	Long:  "Minify every stylesheet selected by stylesmith.properties (or stylesmith.yaml) in the current directory",
	Run: func(cmd *cobra.Command, args []string) {
		if !quiet {
			ui.PrintHeader(Version)
		}

		dir, err := os.Getwd()
		if err != nil {
			ui.PrintError("Failed to get current directory: %v", err)
			os.Exit(1)
		}

		if !config.Exists(dir) {
			ui.PrintError("No %s found in current directory", config.PropertiesFile)
			ui.PrintInfo("Run 'stylesmith init' to create one")
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := runBuild(ctx, dir, quiet); err != nil {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

// runBuild loads the project in dir, builds it and prints the report.
// Errors are printed before being returned.
func runBuild(ctx context.Context, dir string, quiet bool) error {
	cfg, err := config.LoadProject(dir)
	if err != nil {
		ui.PrintError("Failed to load %s: %v", config.Path(dir), err)
		return err
	}

	log := newLogger(cfg.Log)
	defer log.Sync()
	log.Debug("Loaded configuration", zap.String("file", config.Path(dir)), zap.String("name", cfg.Name))

	b := builder.New(dir, cfg, log)
	b.Quiet = quiet

	if !quiet {
		fmt.Fprintln(ui.Out)
		ui.PrintKeyValue("Name", "   "+cfg.Name)
		ui.PrintKeyValue("Output", " "+cfg.Output)
		fmt.Fprintln(ui.Out)
	}

	report, err := b.Build(ctx)
	if report != nil {
		printReport(report, quiet)
	}
	if err != nil {
		for _, e := range multierr.Errors(err) {
			ui.PrintError("%v", e)
		}
		ui.PrintError("Build failed")
		return err
	}

	ui.PrintSuccess("Build complete: %s", report.Total)
	return nil
}

func printReport(report *builder.Report, quiet bool) {
	for _, f := range report.Files {
		if f.Err != nil {
			continue
		}
		if f.Warning != "" {
			ui.PrintWarning("%s: %s", f.Source, f.Warning)
		}
		if !quiet {
			ui.PrintKeyValue(f.Output, f.Stats.String())
		}
	}
	if quiet {
		return
	}
	if report.Combined != "" {
		ui.PrintKeyValue("Combined", report.Combined)
	}
	if report.Archive != "" {
		ui.PrintKeyValue("Archive", report.Archive)
	}
	fmt.Fprintln(ui.Out)
}
