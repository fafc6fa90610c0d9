package builder

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"go.uber.org/zap"

	"stylesmith/internal/config"
)

func testConfig() *config.ProjectConfig {
	return &config.ProjectConfig{
		Name:    "Test Styles",
		Include: []string{"**/*.css"},
		Exclude: []string{"build"},
		Output:  "build",
		Suffix:  ".min.css",
		Workers: 2,
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(data)
}

func TestBuild(t *testing.T) {
	tmpDir := t.TempDir()
	createFiles(t, tmpDir, map[string]string{
		"site.css":       "body { color: red; }",
		"css/print.css":  "@media print and (color) { a { color: black; } }",
		"css/fonts.css":  `p { font-family: "Comic Sans", "Arial"; }`,
		"build/stale.js": "x",
	})

	b := New(tmpDir, testConfig(), zap.NewNop())
	b.Quiet = true

	report, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(report.Files) != 3 {
		t.Fatalf("Build() = %d files, want 3", len(report.Files))
	}
	if report.Failed() != 0 {
		t.Errorf("Failed() = %d, want 0", report.Failed())
	}

	expected := map[string]string{
		"build/site.min.css":      "body{color:red}",
		"build/css/print.min.css": "@media print and (color){a{color:black}}",
		"build/css/fonts.min.css": `p{font-family:"Comic Sans",Arial}`,
	}
	for path, want := range expected {
		if got := readFile(t, filepath.Join(tmpDir, path)); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}

	// the output directory is cleaned first
	if _, err := os.Stat(filepath.Join(tmpDir, "build", "stale.js")); !os.IsNotExist(err) {
		t.Error("stale output should have been removed")
	}

	// results keep source order
	for i, want := range []string{"css/fonts.css", "css/print.css", "site.css"} {
		if report.Files[i].Source != want {
			t.Errorf("Files[%d].Source = %q, want %q", i, report.Files[i].Source, want)
		}
	}

	if report.Total.Minified >= report.Total.Original {
		t.Errorf("Total = %+v, expected savings", report.Total)
	}
}

func TestBuildCombineAndArchive(t *testing.T) {
	tmpDir := t.TempDir()
	createFiles(t, tmpDir, map[string]string{
		"a.css": "a { b: c; }",
		"b.css": "d { e: f; }",
	})

	cfg := testConfig()
	cfg.Combine = "all.min.css"
	cfg.Archive = "styles.zip"

	b := New(tmpDir, cfg, nil)
	b.Quiet = true

	report, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if report.Combined != "build/all.min.css" {
		t.Errorf("Combined = %q, want %q", report.Combined, "build/all.min.css")
	}
	if got := readFile(t, filepath.Join(tmpDir, "build", "all.min.css")); got != "a{b:c}d{e:f}" {
		t.Errorf("combined = %q, want %q", got, "a{b:c}d{e:f}")
	}

	r, err := zip.OpenReader(filepath.Join(tmpDir, "styles.zip"))
	if err != nil {
		t.Fatalf("OpenReader error = %v", err)
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		if !f.FileInfo().IsDir() {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)

	want := []string{"test-styles/a.min.css", "test-styles/all.min.css", "test-styles/b.min.css"}
	if len(names) != len(want) {
		t.Fatalf("archive = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("archive[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestBuildVerify(t *testing.T) {
	tmpDir := t.TempDir()
	createFiles(t, tmpDir, map[string]string{
		"ok.css": "a { b: c; } @media screen and (min-width: 1px) { d { e: f } }",
	})

	cfg := testConfig()
	cfg.Verify = true

	b := New(tmpDir, cfg, zap.NewNop())
	b.Quiet = true

	report, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if w := report.Files[0].Warning; w != "" {
		t.Errorf("Warning = %q, want none", w)
	}
}

func TestBuildNoFiles(t *testing.T) {
	b := New(t.TempDir(), testConfig(), zap.NewNop())
	b.Quiet = true

	report, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(report.Files) != 0 {
		t.Errorf("Files = %v, want none", report.Files)
	}
}

func TestBuildCanceled(t *testing.T) {
	tmpDir := t.TempDir()
	createFiles(t, tmpDir, map[string]string{
		"a.css": "a{}",
		"b.css": "b{}",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := New(tmpDir, testConfig(), zap.NewNop())
	b.Quiet = true

	_, err := b.Build(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
}

func TestMinifyFileMissing(t *testing.T) {
	tmpDir := t.TempDir()
	_, _, err := MinifyFile(filepath.Join(tmpDir, "missing.css"), filepath.Join(tmpDir, "out.css"))
	if err == nil {
		t.Error("MinifyFile should fail for a missing source")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		rel      string
		suffix   string
		expected string
	}{
		{"site.css", ".min.css", "site.min.css"},
		{"css/theme.css", ".min.css", "css/theme.min.css"},
		{"a.b.css", ".m.css", "a.b.m.css"},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			if got := OutputPath(tt.rel, tt.suffix); got != tt.expected {
				t.Errorf("OutputPath(%q, %q) = %q, want %q", tt.rel, tt.suffix, got, tt.expected)
			}
		})
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"Test Styles", "test-styles"},
		{"My_Site (v2)", "mysite-v2"},
		{"already-slug", "already-slug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.name); got != tt.expected {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.name, got, tt.expected)
			}
		})
	}
}
