// Package generator renders the wire provider set from scanned providers.
package generator

import (
	"bytes"
	"embed"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"text/template"

	"github.com/nkaewam/catalogctl/internal/scanner"
)

//go:embed templates/providers.tmpl
var templateFS embed.FS

const wireImport = "github.com/google/wire"

// ProviderSetGenerator writes GeneratedProviderSet into one package
type ProviderSetGenerator struct {
	packageName string
	importPath  string
}

// NewProviderSetGenerator creates a generator for the package at importPath
func NewProviderSetGenerator(packageName, importPath string) *ProviderSetGenerator {
	return &ProviderSetGenerator{packageName: packageName, importPath: importPath}
}

type group struct {
	Package    string
	ImportPath string
	Refs       []string
}

// Render produces the formatted file. providers must be sorted by import
// path, as the scanner returns them.
func (g *ProviderSetGenerator) Render(providers []scanner.ProviderFunction) ([]byte, error) {
	imports := []string{wireImport}
	var groups []group
	for _, p := range providers {
		ref := p.Package + "." + p.FunctionName
		if p.ImportPath == g.importPath {
			ref = p.FunctionName
		}
		if n := len(groups); n > 0 && groups[n-1].ImportPath == p.ImportPath {
			groups[n-1].Refs = append(groups[n-1].Refs, ref)
			continue
		}
		if p.ImportPath != g.importPath {
			imports = append(imports, p.ImportPath)
		}
		groups = append(groups, group{Package: p.Package, ImportPath: p.ImportPath, Refs: []string{ref}})
	}

	tmplContent, err := templateFS.ReadFile("templates/providers.tmpl")
	if err != nil {
		return nil, fmt.Errorf("error reading provider template: %w", err)
	}
	tmpl, err := template.New("providers").Parse(string(tmplContent))
	if err != nil {
		return nil, fmt.Errorf("error parsing provider template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct {
		Package string
		Imports []string
		Groups  []group
	}{g.packageName, imports, groups})
	if err != nil {
		return nil, fmt.Errorf("error executing provider template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("error formatting generated code: %w", err)
	}
	return formatted, nil
}

// Generate renders the provider set and writes it to outputPath
func (g *ProviderSetGenerator) Generate(outputPath string, providers []scanner.ProviderFunction) error {
	content, err := g.Render(providers)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, content, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", outputPath, err)
	}
	return nil
}
