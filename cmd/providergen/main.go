package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nkaewam/catalogctl/internal/cli/ui"
	"github.com/nkaewam/catalogctl/internal/generator"
	"github.com/nkaewam/catalogctl/internal/scanner"
	"github.com/spf13/cobra"
)

const outputFile = "providers_gen.go"

var (
	rootDir   string
	outputDir string
	scanDirs  []string
)

var rootCmd = &cobra.Command{
	Use:   "providergen",
	Short: "Generate the wire provider set from @Provider functions",
	Long: `providergen scans the module for functions annotated with // @Provider and
writes GeneratedProviderSet into the output package, ready for wire.Build.

Paths are relative to the module root.`,
	Run: func(cmd *cobra.Command, args []string) {
		handleGenerate()
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Show what will be generated",
	Run: func(cmd *cobra.Command, args []string) {
		handleScan()
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the generated provider set",
	Run: func(cmd *cobra.Command, args []string) {
		handleClean()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", ".", "Module root containing go.mod")
	rootCmd.PersistentFlags().StringVar(&outputDir, "out", "internal/cli", "Package directory to write "+outputFile+" into")
	rootCmd.PersistentFlags().StringSliceVar(&scanDirs, "scan", []string{"internal"}, "Directories to scan")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(cleanCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func scan(out ui.Service) (*scanner.Scanner, *scanner.ScanResult, *scanner.ValidationResult) {
	s, err := scanner.NewScanner(rootDir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	stop := out.ShowSpinner("Scanning for providers...")
	result, err := s.Scan(scanDirs...)
	if err != nil {
		stop("Scan failed")
		fmt.Printf("Error scanning: %v\n", err)
		os.Exit(1)
	}
	stop("Codebase scanned successfully")

	for _, e := range result.Errors {
		out.Fail("%s:%d: %s", e.FilePath, e.Line, e.Message)
	}
	return s, result, scanner.NewValidator().Validate(result.Providers)
}

func handleScan() {
	out := ui.NewService(os.Stdin, os.Stdout)
	_, result, validation := scan(out)

	stats := scanner.GetStatistics(result)
	fmt.Printf("\nScan Results:\n")
	fmt.Printf("  • Providers found: %d\n", stats.ProvidersFound)
	fmt.Printf("  • Packages: %d\n", stats.PackagesScanned)
	if stats.ErrorsFound > 0 {
		fmt.Printf("  • Errors: %d\n", stats.ErrorsFound)
	}

	rows := make([][]string, 0, len(result.Providers))
	for _, p := range result.Providers {
		rows = append(rows, []string{p.Package + "." + p.FunctionName, p.ReturnType})
	}
	fmt.Println()
	out.Table([]string{"PROVIDER", "PROVIDES"}, rows)

	for _, e := range validation.Errors {
		out.Fail("%s: %s", e.Type, e.Message)
	}
	for _, w := range validation.Warnings {
		out.Info("%s: %s", w.Type, w.Message)
	}
}

func handleGenerate() {
	out := ui.NewService(os.Stdin, os.Stdout)
	s, result, validation := scan(out)
	if len(result.Errors) > 0 || validation.HasErrors() {
		for _, e := range validation.Errors {
			out.Fail("%s: %s", e.Type, e.Message)
		}
		os.Exit(1)
	}

	rel := filepath.ToSlash(filepath.Clean(outputDir))
	importPath := s.Module()
	if rel != "." {
		importPath += "/" + rel
	}
	gen := generator.NewProviderSetGenerator(filepath.Base(filepath.Join(rootDir, outputDir)), importPath)

	path := filepath.Join(rootDir, outputDir, outputFile)
	if err := gen.Generate(path, result.Providers); err != nil {
		fmt.Printf("Error generating providers: %v\n", err)
		os.Exit(1)
	}
	out.Success("Generated %s (%d providers)", path, len(result.Providers))
}

func handleClean() {
	out := ui.NewService(os.Stdin, os.Stdout)
	path := filepath.Join(rootDir, outputDir, outputFile)
	err := os.Remove(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		out.Info("Nothing to clean")
	case err != nil:
		fmt.Printf("Error deleting %s: %v\n", path, err)
		os.Exit(1)
	default:
		out.Success("Deleted %s", path)
	}
}
