package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"stylesmith/internal/config"
	"stylesmith/internal/ui"
)

var (
	initName    string
	initOutput  string
	initInclude string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a stylesmith.properties in the current directory",
	Run: func(cmd *cobra.Command, args []string) {
		ui.PrintHeader(Version)

		dir, err := os.Getwd()
		if err != nil {
			ui.PrintError("Failed to get current directory: %v", err)
			os.Exit(1)
		}

		if config.Exists(dir) {
			ui.PrintWarning("%s already exists", filepath.Base(config.Path(dir)))
			os.Exit(1)
		}

		name := initName
		if name == "" {
			name = formatName(filepath.Base(dir))
		}

		path := filepath.Join(dir, config.PropertiesFile)
		if err := os.WriteFile(path, []byte(defaultProperties(name, initInclude, initOutput)), 0644); err != nil {
			ui.PrintError("Failed to write %s: %v", config.PropertiesFile, err)
			os.Exit(1)
		}

		ui.PrintSuccess("Created %s", config.PropertiesFile)
		ui.PrintInfo("Run 'stylesmith build' to minify your stylesheets")
	},
}

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "Project name (default from directory name)")
	initCmd.Flags().StringVar(&initOutput, "output", config.DefaultOutput, "Output directory")
	initCmd.Flags().StringVar(&initInclude, "include", "**/*.css", "Comma-separated stylesheet patterns")
	rootCmd.AddCommand(initCmd)
}

func defaultProperties(name, include, output string) string {
	var props []string
	props = append(props, "# Stylesheet build configuration")
	props = append(props, "")
	props = append(props, fmt.Sprintf("name=%s", name))
	props = append(props, fmt.Sprintf("include=%s", include))
	props = append(props, fmt.Sprintf("output=%s", output))
	props = append(props, fmt.Sprintf("suffix=%s", config.DefaultSuffix))
	props = append(props, "")
	props = append(props, "# Optional: concatenate every minified file into one, inside output")
	props = append(props, "# combine=all.min.css")
	props = append(props, "")
	props = append(props, "# Optional: zip the output directory")
	props = append(props, "# archive=styles.zip")
	props = append(props, "")
	props = append(props, "# Check that minified files keep the rules and declarations of their sources")
	props = append(props, "verify=false")
	props = append(props, "")
	props = append(props, "# none, normal or debug")
	props = append(props, "log=normal")
	return strings.Join(props, "\n") + "\n"
}

func formatName(s string) string {
	// Convert kebab-case or snake_case to Title Case
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
