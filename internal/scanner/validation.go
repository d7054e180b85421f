package scanner

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationResult contains validation errors and warnings
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// HasErrors reports whether generation should stop
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// ValidationError represents a problem that would make wire reject the set
type ValidationError struct {
	Type      string // "duplicate_provider", "duplicate_function"
	Message   string
	Providers []ProviderFunction
}

// ValidationWarning represents something wire accepts but that is worth a look
type ValidationWarning struct {
	Type     string // "injector_input"
	Message  string
	Provider ProviderFunction
}

// Validator validates scanned providers for common issues
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks that every type has one provider and reports parameters
// no provider produces; wire expects those as injector arguments.
func (v *Validator) Validate(providers []ProviderFunction) *ValidationResult {
	result := &ValidationResult{}

	byType := make(map[string][]ProviderFunction)
	byName := make(map[string][]ProviderFunction)
	for _, p := range providers {
		byType[p.ReturnType] = append(byType[p.ReturnType], p)
		byName[p.ImportPath+"."+p.FunctionName] = append(byName[p.ImportPath+"."+p.FunctionName], p)
	}

	for _, typ := range sortedKeys(byType) {
		if dups := byType[typ]; len(dups) > 1 {
			result.Errors = append(result.Errors, ValidationError{
				Type:      "duplicate_provider",
				Message:   fmt.Sprintf("%s is provided by %s", typ, functionNames(dups)),
				Providers: dups,
			})
		}
	}
	for _, name := range sortedKeys(byName) {
		if dups := byName[name]; len(dups) > 1 {
			result.Errors = append(result.Errors, ValidationError{
				Type:      "duplicate_function",
				Message:   fmt.Sprintf("%s is declared %d times", name, len(dups)),
				Providers: dups,
			})
		}
	}

	for _, p := range providers {
		for _, param := range p.Parameters {
			if _, ok := byType[param]; !ok {
				result.Warnings = append(result.Warnings, ValidationWarning{
					Type:     "injector_input",
					Message:  fmt.Sprintf("%s needs %s, which no provider returns; pass it to the injector", p.FunctionName, param),
					Provider: p,
				})
			}
		}
	}
	return result
}

func functionNames(providers []ProviderFunction) string {
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Package+"."+p.FunctionName)
	}
	return strings.Join(names, ", ")
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
