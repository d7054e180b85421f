package scanner

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// IgnoreFile lists extra patterns to skip, one per line, relative to the
// scanned directory.
const IgnoreFile = ".providerignore"

// FileFilter decides which Go files under a directory are worth parsing
type FileFilter struct {
	patterns []string
}

var defaultIgnores = []string{
	"vendor/**",
	"testdata/**",
	"**/*_test.go",
	"**/*_gen.go",
	"**/wire.go",
}

// NewFileFilter creates a filter with the default patterns plus the ones
// in ignoreFile, when it exists
func NewFileFilter(ignoreFile string) (*FileFilter, error) {
	f := &FileFilter{patterns: append([]string(nil), defaultIgnores...)}
	if ignoreFile == "" {
		return f, nil
	}

	file, err := os.Open(ignoreFile)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	lines := bufio.NewScanner(file)
	for lines.Scan() {
		line := strings.TrimSpace(lines.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		f.patterns = append(f.patterns, line)
	}
	return f, lines.Err()
}

// FindCandidateFiles recursively finds all Go files that are not ignored.
// Directories the go tool skips (leading "_" or ".") are skipped too.
func (f *FileFilter) FindCandidateFiles(rootDir string) ([]string, error) {
	var candidates []string
	err := filepath.WalkDir(rootDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(rootDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && (strings.HasPrefix(d.Name(), "_") || strings.HasPrefix(d.Name(), ".") || f.Ignored(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(p, ".go") && !f.Ignored(rel) {
			candidates = append(candidates, p)
		}
		return nil
	})
	return candidates, err
}

// Ignored reports whether rel (slash separated; directories end in "/")
// matches any pattern.
func (f *FileFilter) Ignored(rel string) bool {
	for _, pattern := range f.patterns {
		if matchPattern(pattern, rel) {
			return true
		}
	}
	return false
}

// matchPattern supports path.Match globs plus "**" for any number of
// directories. "dir/**" matches the directory itself.
func matchPattern(pattern, rel string) bool {
	rel = strings.TrimSuffix(rel, "/")
	return matchSegments(strings.Split(pattern, "/"), strings.Split(rel, "/"))
}

func matchSegments(pattern, parts []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(parts); i++ {
				if matchSegments(rest, parts[i:]) {
					return true
				}
			}
			return len(rest) == 0
		}
		if len(parts) == 0 {
			return false
		}
		if ok, err := path.Match(pattern[0], parts[0]); err != nil || !ok {
			return false
		}
		pattern, parts = pattern[1:], parts[1:]
	}
	return len(parts) == 0
}
