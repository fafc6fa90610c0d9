package builder

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"stylesmith/internal/minifier"
)

var unsafeName = regexp.MustCompile(`[^a-z0-9-]`)

// SanitizeName converts a name to a slug
func SanitizeName(name string) string {
	result := strings.ToLower(name)
	result = strings.ReplaceAll(result, " ", "-")
	return unsafeName.ReplaceAllString(result, "")
}

// OutputPath maps a source path ending in .css to its minified name
func OutputPath(rel, suffix string) string {
	return strings.TrimSuffix(rel, ".css") + suffix
}

// MinifyFile minifies the stylesheet at src into dst and returns both texts
func MinifyFile(src, dst string) (source, minified string, err error) {
	content, err := os.ReadFile(src)
	if err != nil {
		return "", "", err
	}

	source = string(content)
	minified = minifier.MinifyCSS(source)

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(dst, []byte(minified), 0644); err != nil {
		return "", "", err
	}
	return source, minified, nil
}

// CreateZip creates a zip archive of sourceDir with every entry under baseName
func CreateZip(sourceDir, zipPath, baseName string) error {
	zipFile, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	archive := zip.NewWriter(zipFile)

	err = filepath.WalkDir(sourceDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(sourceDir, p)
		if err != nil {
			return err
		}
		archivePath := path.Join(baseName, filepath.ToSlash(relPath))

		if d.IsDir() {
			if relPath != "." {
				_, err = archive.Create(archivePath + "/")
			}
			return err
		}

		writer, err := archive.Create(archivePath)
		if err != nil {
			return err
		}

		file, err := os.Open(p)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = io.Copy(writer, file)
		return err
	})
	if err != nil {
		archive.Close()
		return err
	}
	return archive.Close()
}
