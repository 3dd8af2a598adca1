package index

import (
	"os"
	"path/filepath"
	"strings"
)

// discoverFiles walks rootPath in lexical order and returns every file whose
// name ends with extension. Hidden files and directories and the excluded
// folders are skipped. Any walk error aborts the discovery.
func discoverFiles(rootPath string, extension string, excludeFolders []string) ([]string, error) {
	var files []string
	excludeSet := make(map[string]struct{}, len(excludeFolders))
	for _, folder := range excludeFolders {
		excludeSet[filepath.Clean(folder)] = struct{}{}
	}

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip directories that start with '.' but not the root directory
		if info.IsDir() && strings.HasPrefix(info.Name(), ".") && path != rootPath {
			return filepath.SkipDir
		}

		if info.IsDir() && isInExcludedPath(path, excludeSet) {
			return filepath.SkipDir
		}

		if info.IsDir() || strings.HasPrefix(info.Name(), ".") {
			return nil
		}

		if hasExtension(path, extension) {
			files = append(files, path)
		}

		return nil
	})

	return files, err
}

func hasExtension(path string, extension string) bool {
	return strings.HasSuffix(strings.ToLower(path), strings.ToLower(extension))
}

// Assumes current path and excluded paths are clean
func isInExcludedPath(currentPath string, excludeSet map[string]struct{}) bool {

	if len(excludeSet) == 0 {
		return false
	}

	if _, ok := excludeSet[currentPath]; !ok {
		return false
	}

	return true
}
