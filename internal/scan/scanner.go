package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// extensionsForFormat maps a user-facing image format to the file
// extensions it covers. "jpeg" matches both .jpg and .jpeg.
func extensionsForFormat(format string) []string {
	switch strings.ToLower(format) {
	case "jpeg":
		return []string{"jpg", "jpeg"}
	default:
		return []string{strings.ToLower(format)}
	}
}

func matchesFormat(path string, extensions []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ListFiles returns the sorted full paths of files in directory whose
// extension matches the given format.
func ListFiles(directory, format string) ([]string, error) {
	info, err := os.Stat(directory)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", directory)
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	extensions := extensionsForFormat(format)
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(directory, entry.Name())
		if matchesFormat(path, extensions) {
			paths = append(paths, path)
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// CountFiles returns how many files in directory match the given format.
func CountFiles(directory, format string) (int, error) {
	paths, err := ListFiles(directory, format)
	if err != nil {
		return 0, err
	}
	return len(paths), nil
}
