package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"stylesmith/internal/builder"
	"stylesmith/internal/config"
	"stylesmith/internal/ui"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild whenever a stylesheet changes",
	Run: func(cmd *cobra.Command, args []string) {
		ui.PrintHeader(Version)

		dir, err := os.Getwd()
		if err != nil {
			ui.PrintError("Failed to get current directory: %v", err)
			os.Exit(1)
		}

		if !config.Exists(dir) {
			ui.PrintError("No %s found in current directory", config.PropertiesFile)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		runBuild(ctx, dir, true)
		ui.PrintInfo("Watching for changes...")
		ui.PrintInfo("Press Ctrl+C to stop")

		watch(ctx, dir, watchInterval, func() {
			ui.PrintInfo("Changes detected, rebuilding...")
			runBuild(ctx, dir, true)
			ui.PrintInfo("Watching for changes...")
		})
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 500*time.Millisecond, "Polling interval")
	rootCmd.AddCommand(watchCmd)
}

// watch polls dir every interval and calls rebuild after a change has settled,
// until ctx is done
func watch(ctx context.Context, dir string, interval time.Duration, rebuild func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastMod := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		changed, newMod := hasChanges(dir, lastMod)
		if !changed {
			continue
		}
		// wait for editors to finish writing
		if time.Since(newMod) < interval {
			continue
		}

		lastMod = time.Now()
		rebuild()
	}
}

// hasChanges reports whether the project configuration or any included
// stylesheet was modified after since, along with the latest modification time
func hasChanges(dir string, since time.Time) (bool, time.Time) {
	var latestMod time.Time
	changed := false

	checkFile := func(path string) {
		info, err := os.Stat(path)
		if err != nil {
			return
		}
		if info.ModTime().After(since) {
			changed = true
		}
		if info.ModTime().After(latestMod) {
			latestMod = info.ModTime()
		}
	}

	checkFile(config.Path(dir))

	// a broken configuration is reported by the next build
	cfg, err := config.LoadProject(dir)
	if err != nil {
		return changed, latestMod
	}

	files, err := builder.ExpandStylesheets(dir, cfg.Include, cfg.Exclude, cfg.Suffix)
	if err != nil {
		return changed, latestMod
	}
	for _, f := range files {
		checkFile(filepath.Join(dir, filepath.FromSlash(f)))
	}

	return changed, latestMod
}
