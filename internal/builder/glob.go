package builder

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// ExpandGlob expands a glob pattern relative to baseDir, supporting ** for recursive matching.
// It returns slash-separated file paths relative to baseDir; directories are walked, not returned.
func ExpandGlob(baseDir, pattern string) ([]string, error) {
	var results []string
	pattern = filepath.ToSlash(pattern)

	walkFiles := func(root string, keep func(rel string, name string) bool) error {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // unreadable entries are skipped
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(baseDir, path)
			if err != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)
			if keep(rel, d.Name()) {
				results = append(results, rel)
			}
			return nil
		})
	}

	if strings.Contains(pattern, "**") {
		parts := strings.SplitN(pattern, "**", 2)
		prefix := strings.TrimSuffix(parts[0], "/")
		suffix := strings.TrimPrefix(parts[1], "/")

		startDir := baseDir
		if prefix != "" {
			startDir = filepath.Join(baseDir, filepath.FromSlash(prefix))
		}

		err := walkFiles(startDir, func(rel, name string) bool {
			if suffix == "" {
				return true
			}
			// Match the filename or the path below the ** point
			if matched, _ := filepath.Match(suffix, name); matched {
				return true
			}
			fromStart := strings.TrimPrefix(strings.TrimPrefix(rel, prefix), "/")
			matched, _ := filepath.Match(suffix, fromStart)
			return matched
		})
		return results, err
	}

	matches, err := filepath.Glob(filepath.Join(baseDir, filepath.FromSlash(pattern)))
	if err != nil {
		return nil, err
	}

	// A plain path that does not exist yields no matches and no error
	for _, match := range matches {
		if err := walkFiles(match, func(string, string) bool { return true }); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// containsGlobChars checks if a pattern contains glob special characters
func containsGlobChars(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// IsExcluded checks if a path matches any of the exclude patterns
func IsExcluded(path string, excludes []string) bool {
	for _, pattern := range excludes {
		if matchPattern(path, pattern) {
			return true
		}
	}
	return false
}

// matchPattern checks if a path matches a pattern (supports * and **).
// A pattern without glob characters matches any path segment, so a directory
// name excludes everything below it.
func matchPattern(path, pattern string) bool {
	path = filepath.ToSlash(path)
	pattern = strings.TrimSuffix(filepath.ToSlash(pattern), "/")

	if !containsGlobChars(pattern) {
		return strings.Contains("/"+path+"/", "/"+pattern+"/")
	}

	if strings.Contains(pattern, "**") {
		parts := strings.SplitN(pattern, "**", 2)
		prefix := strings.TrimSuffix(parts[0], "/")
		suffix := strings.TrimPrefix(parts[1], "/")

		if prefix != "" && !strings.HasPrefix(path, prefix+"/") {
			if matched, _ := filepath.Match(prefix+"*", path); !matched {
				return false
			}
		}
		if suffix == "" {
			return true
		}
		if matched, _ := filepath.Match(suffix, filepath.Base(path)); matched {
			return true
		}
		return strings.HasSuffix(path, "/"+suffix)
	}

	if matched, _ := filepath.Match(pattern, path); matched {
		return true
	}
	matched, _ := filepath.Match(pattern, filepath.Base(path))
	return matched
}

// ExpandStylesheets expands all include patterns and returns the unique, sorted
// .css sources that are neither excluded nor already minified (ending in suffix)
func ExpandStylesheets(baseDir string, includes, excludes []string, suffix string) ([]string, error) {
	seen := make(map[string]bool)
	var results []string

	for _, pattern := range includes {
		expanded, err := ExpandGlob(baseDir, pattern)
		if err != nil {
			return nil, err
		}

		for _, path := range expanded {
			if !strings.HasSuffix(path, ".css") || strings.HasSuffix(path, suffix) {
				continue
			}
			if IsExcluded(path, excludes) || seen[path] {
				continue
			}
			seen[path] = true
			results = append(results, path)
		}
	}

	sort.Strings(results)
	return results, nil
}
