package scanner

// ProviderFunction is a constructor annotated with @Provider
type ProviderFunction struct {
	FunctionName string   // e.g., "ProvideAuthService"
	Package      string   // e.g., "auth"
	ImportPath   string   // e.g., "github.com/nkaewam/catalogctl/internal/cli/auth"
	ReturnType   string   // e.g., "auth.Service" (local types are package-qualified)
	Parameters   []string // Parameter types, package-qualified like ReturnType
	HasCleanup   bool     // second result is func()
	ReturnsError bool     // last result is error
	FilePath     string   // Path to the file containing this provider
}

// ScanResult aggregates all scanning results
type ScanResult struct {
	Providers []ProviderFunction
	Errors    []ScanError
}

// ScanError represents an error encountered during scanning
type ScanError struct {
	FilePath string
	Line     int
	Message  string
	Type     string // "parse_error", "provider"
}
