package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stylesmith/internal/logger"
	"stylesmith/internal/ui"
)

// Version is set by ldflags during build
var Version = "dev"

var (
	logLevel string
	quiet    bool
)

var rootCmd = &cobra.Command{
	Use:   "stylesmith",
	Short: "CSS minifier and stylesheet build tool",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the command line
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Long = ui.Divider() + "\n" + ui.Banner() + "\n" + ui.VersionLine(Version) + "\n\n" + ui.Divider() + "\n\n  Minify CSS files and build stylesheet bundles"
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: none, normal or debug (default from project config, else normal)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print warnings, errors and the summary")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stylesmith %s\n", Version)
	},
}

// newLogger builds the command line logger, preferring --log-level over fallback
func newLogger(fallback string) *zap.Logger {
	level := logLevel
	if level == "" {
		level = fallback
	}
	log, err := logger.Stderr(level)
	if err != nil {
		ui.PrintError("%v", err)
		os.Exit(1)
	}
	return log
}
