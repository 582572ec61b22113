package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Discover returns the files with extension ext found in directories exactly
// depth levels below root. Only directories are descended; files at any other
// level are ignored. Extension matching is case-insensitive and hidden files
// are skipped. Entries are visited in lexical order, so the result is
// deterministic.
func Discover(root string, depth int, ext string) ([]string, error) {
	if depth < 1 {
		return nil, fmt.Errorf("discovery depth must be at least 1, got %d", depth)
	}

	dirs := []string{root}
	for level := 0; level < depth; level++ {
		var next []string
		for _, dir := range dirs {
			entries, err := os.ReadDir(dir)
			if err != nil {
				return nil, fmt.Errorf("read directory: %w", err)
			}
			for _, e := range entries {
				path := filepath.Join(dir, e.Name())
				if isDir(path, e) {
					next = append(next, path)
				}
			}
		}
		dirs = next
	}

	var files []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read directory: %w", err)
		}
		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			if matchesExt(e.Name(), ext) && isRegular(path, e) {
				files = append(files, path)
			}
		}
	}
	return files, nil
}

func matchesExt(name, ext string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ext)
}

// isDir follows symlinks, matching how a shell lists directories.
func isDir(path string, e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.IsDir()
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isRegular(path string, e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.Type().IsRegular()
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
