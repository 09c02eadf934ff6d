// Package fsutil provides file system helpers for locating benchmark documents.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DocumentExtensions are the file extensions picked up when a directory is
// given instead of a file.
var DocumentExtensions = []string{".js", ".mjs", ".cjs", ".ts", ".mts", ".cts"}

// generatedInfix marks scripts written by jsbm next to their source document.
const generatedInfix = ".jsbm."

// CollectDocuments resolves paths into a list of documents. Files are returned
// as given, whatever their extension. Directories are walked recursively for
// files with one of DocumentExtensions, skipping generated scripts. A path
// that cannot be inspected is returned as is; reading it reports the failure
// for that document alone.
func CollectDocuments(paths []string) ([]string, error) {
	var docs []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			docs = append(docs, path)
			continue
		}

		found, err := FindFilesByExtension(path, DocumentExtensions...)
		if err != nil {
			return nil, fmt.Errorf("error scanning directory %s: %w", path, err)
		}
		docs = append(docs, found...)
	}
	return docs, nil
}

// FindFilesByExtension recursively searches rootPath for files ending with one
// of the given extensions. Generated scripts are never returned.
func FindFilesByExtension(rootPath string, extensions ...string) ([]string, error) {
	if len(extensions) == 0 {
		panic("at least one extension is required")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || IsGenerated(d.Name()) {
			return nil
		}
		for _, ext := range extensions {
			if strings.HasSuffix(d.Name(), ext) {
				files = append(files, path)
				break
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// IsGenerated reports whether name looks like a script written by jsbm.
func IsGenerated(name string) bool {
	return strings.Contains(filepath.Base(name), generatedInfix)
}
