package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

const (
	PropertiesFile = "stylesmith.properties"
	YAMLFile       = "stylesmith.yaml"

	DefaultOutput = "build"
	DefaultSuffix = ".min.css"
)

// ProjectConfig describes which stylesheets a build minifies and where the results go
type ProjectConfig struct {
	Name string `yaml:"name"`

	// Files to minify (supports wildcards: *.css, **/*.css)
	Include []string `yaml:"include"`

	// Files/directories to skip (supports wildcards)
	Exclude []string `yaml:"exclude"`

	// Output directory, relative to the project
	Output string `yaml:"output"`

	// Suffix replacing ".css" on every minified file
	Suffix string `yaml:"suffix"`

	// Optional file, relative to Output, receiving all minified files concatenated
	Combine string `yaml:"combine"`

	// Optional zip archive, relative to the project, of the whole Output directory
	Archive string `yaml:"archive"`

	// Check that minified files keep the rules and declarations of their sources
	Verify bool `yaml:"verify"`

	// Concurrent minification workers, 0 means one per CPU
	Workers int `yaml:"workers"`

	// Log level: none, normal or debug
	Log string `yaml:"log"`
}

// Exists reports whether dir holds a project configuration
func Exists(dir string) bool {
	return PropertiesFileExists(dir, YAMLFile) || PropertiesFileExists(dir, PropertiesFile)
}

// Path returns the configuration file LoadProject would read in dir
func Path(dir string) string {
	if PropertiesFileExists(dir, YAMLFile) {
		return filepath.Join(dir, YAMLFile)
	}
	return filepath.Join(dir, PropertiesFile)
}

// LoadProject loads stylesmith.yaml, or stylesmith.properties when there is no YAML file
func LoadProject(dir string) (*ProjectConfig, error) {
	var (
		cfg *ProjectConfig
		err error
	)

	if PropertiesFileExists(dir, YAMLFile) {
		cfg, err = loadYAML(filepath.Join(dir, YAMLFile))
	} else {
		cfg, err = loadProperties(filepath.Join(dir, PropertiesFile))
	}
	if err != nil {
		return nil, err
	}

	if cfg.Name == "" {
		cfg.Name = filepath.Base(dir)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadProperties(path string) (*ProjectConfig, error) {
	props, err := ParseProperties(path)
	if err != nil {
		return nil, err
	}

	return &ProjectConfig{
		Name:    props.Get("name"),
		Include: props.GetList("include"),
		Exclude: props.GetList("exclude"),
		Output:  props.Get("output"),
		Suffix:  props.Get("suffix"),
		Combine: props.Get("combine"),
		Archive: props.Get("archive"),
		Verify:  props.GetBool("verify"),
		Workers: props.GetInt("workers", 0),
		Log:     props.Get("log"),
	}, nil
}

func loadYAML(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	// Unknown keys are most likely typos, refuse them
	cfg := &ProjectConfig{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return cfg, nil
}

func (c *ProjectConfig) applyDefaults() {
	if len(c.Include) == 0 {
		c.Include = []string{"**/*.css"}
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Suffix == "" {
		c.Suffix = DefaultSuffix
	}
	if c.Log == "" {
		c.Log = "normal"
	}

	// never read our own output back in
	out := filepath.ToSlash(filepath.Clean(c.Output))
	for _, e := range c.Exclude {
		if filepath.ToSlash(filepath.Clean(e)) == out {
			return
		}
	}
	c.Exclude = append(c.Exclude, out)
}

// Validate checks field values that cannot be defaulted
func (c *ProjectConfig) Validate() error {
	out := filepath.ToSlash(filepath.Clean(c.Output))
	if filepath.IsAbs(c.Output) || strings.HasPrefix(out, "..") {
		return fmt.Errorf("invalid field output: %q must stay inside the project", c.Output)
	}
	if out == "." {
		return fmt.Errorf("invalid field output: %q would overwrite sources", c.Output)
	}
	if !strings.HasSuffix(c.Suffix, ".css") {
		return fmt.Errorf("invalid field suffix: %q must end with .css", c.Suffix)
	}
	if c.Suffix == ".css" {
		return fmt.Errorf("invalid field suffix: %q would overwrite sources", c.Suffix)
	}
	if c.Combine != "" && !strings.HasSuffix(c.Combine, ".css") {
		return fmt.Errorf("invalid field combine: %q must end with .css", c.Combine)
	}
	if c.Archive != "" {
		if !strings.HasSuffix(c.Archive, ".zip") {
			return fmt.Errorf("invalid field archive: %q must end with .zip", c.Archive)
		}
		if strings.HasPrefix(filepath.ToSlash(filepath.Clean(c.Archive)), out+"/") {
			return fmt.Errorf("invalid field archive: %q must not be inside output %q", c.Archive, c.Output)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid field workers: %d", c.Workers)
	}
	switch c.Log {
	case "none", "normal", "debug":
	default:
		return fmt.Errorf("invalid field log: %q (use none, normal or debug)", c.Log)
	}
	return nil
}
