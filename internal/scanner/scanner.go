// Package scanner finds @Provider functions in a module's source tree.
package scanner

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Scanner walks directories of one module and parses candidate files in parallel
type Scanner struct {
	root       string
	module     string
	astScanner *ASTScanner
	fileFilter *FileFilter
	workers    int
}

// NewScanner creates a scanner for the module rooted at root
func NewScanner(root string) (*Scanner, error) {
	module, err := ReadModulePath(filepath.Join(root, "go.mod"))
	if err != nil {
		return nil, err
	}
	filter, err := NewFileFilter(filepath.Join(root, IgnoreFile))
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", IgnoreFile, err)
	}
	return &Scanner{
		root:       root,
		module:     module,
		astScanner: NewASTScanner(),
		fileFilter: filter,
		workers:    10,
	}, nil
}

// Module is the module path read from go.mod
func (s *Scanner) Module() string {
	return s.module
}

// Scan scans dirs (relative to the module root) for providers. Results are
// sorted by import path, then function name.
func (s *Scanner) Scan(dirs ...string) (*ScanResult, error) {
	var files []string
	for _, dir := range dirs {
		found, err := s.fileFilter.FindCandidateFiles(filepath.Join(s.root, dir))
		if err != nil {
			return nil, fmt.Errorf("error scanning directory %s: %w", dir, err)
		}
		files = append(files, found...)
	}

	result, err := s.scanFilesParallel(files)
	if err != nil {
		return nil, err
	}
	for i := range result.Providers {
		result.Providers[i].ImportPath = s.importPath(result.Providers[i].FilePath)
	}
	sort.Slice(result.Providers, func(i, j int) bool {
		a, b := result.Providers[i], result.Providers[j]
		if a.ImportPath != b.ImportPath {
			return a.ImportPath < b.ImportPath
		}
		return a.FunctionName < b.FunctionName
	})
	sort.Slice(result.Errors, func(i, j int) bool {
		return result.Errors[i].FilePath < result.Errors[j].FilePath
	})
	return result, nil
}

// scanFilesParallel parses files on a bounded worker pool
func (s *Scanner) scanFilesParallel(files []string) (*ScanResult, error) {
	result := &ScanResult{}
	if len(files) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(min(s.workers, len(files)))
	if err != nil {
		return nil, fmt.Errorf("error starting scan workers: %w", err)
	}
	defer pool.Release()

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, file := range files {
		filePath := file
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			fileResult, err := s.astScanner.ScanFile(filePath)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, ScanError{FilePath: filePath, Message: err.Error(), Type: "parse_error"})
				return
			}
			result.Providers = append(result.Providers, fileResult.Providers...)
			result.Errors = append(result.Errors, fileResult.Errors...)
		})
		if err != nil {
			wg.Done()
			return nil, fmt.Errorf("error scheduling %s: %w", filePath, err)
		}
	}
	wg.Wait()
	return result, nil
}

// importPath derives the package import path from the file location
func (s *Scanner) importPath(filePath string) string {
	rel, err := filepath.Rel(s.root, filepath.Dir(filePath))
	if err != nil || rel == "." {
		return s.module
	}
	return s.module + "/" + filepath.ToSlash(rel)
}

// ReadModulePath returns the module path declared in a go.mod file
func ReadModulePath(goMod string) (string, error) {
	file, err := os.Open(goMod)
	if err != nil {
		return "", fmt.Errorf("error opening go.mod: %w", err)
	}
	defer file.Close()

	lines := bufio.NewScanner(file)
	for lines.Scan() {
		line := strings.TrimSpace(lines.Text())
		if rest, ok := strings.CutPrefix(line, "module"); ok && rest != "" && (rest[0] == ' ' || rest[0] == '\t') {
			return strings.Trim(strings.TrimSpace(rest), `"`), nil
		}
	}
	if err := lines.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%s has no module directive", goMod)
}

// ScanStatistics provides information about scanning results
type ScanStatistics struct {
	ProvidersFound  int
	ErrorsFound     int
	PackagesScanned int
}

// GetStatistics returns scanning statistics for reporting
func GetStatistics(result *ScanResult) ScanStatistics {
	packages := make(map[string]bool)
	for _, p := range result.Providers {
		packages[p.ImportPath] = true
	}
	return ScanStatistics{
		ProvidersFound:  len(result.Providers),
		ErrorsFound:     len(result.Errors),
		PackagesScanned: len(packages),
	}
}
