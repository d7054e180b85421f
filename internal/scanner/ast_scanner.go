package scanner

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
)

// Annotation marks a function for the generated provider set.
const Annotation = "@Provider"

// ASTScanner uses Go's AST parser for accurate code analysis
type ASTScanner struct {
	fset *token.FileSet
}

// NewASTScanner creates a new AST-based scanner
func NewASTScanner() *ASTScanner {
	return &ASTScanner{
		fset: token.NewFileSet(),
	}
}

// ScanFile parses a Go file and extracts annotated providers
func (s *ASTScanner) ScanFile(filePath string) (*ScanResult, error) {
	node, err := parser.ParseFile(s.fset, filePath, nil, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", filePath, err)
	}

	result := &ScanResult{}
	pkg := node.Name.Name
	for _, decl := range node.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || !hasAnnotation(fn.Doc) {
			continue
		}
		provider, err := s.extractProvider(fn, pkg, filePath)
		if err != nil {
			result.Errors = append(result.Errors, ScanError{
				FilePath: filePath,
				Line:     s.fset.Position(fn.Pos()).Line,
				Message:  err.Error(),
				Type:     "provider",
			})
			continue
		}
		result.Providers = append(result.Providers, *provider)
	}
	return result, nil
}

func hasAnnotation(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
		if text == Annotation || strings.HasPrefix(text, Annotation+" ") {
			return true
		}
	}
	return false
}

// extractProvider checks the shape wire accepts: a package-level function
// returning T, (T, error), (T, func()) or (T, func(), error).
func (s *ASTScanner) extractProvider(fn *ast.FuncDecl, pkg, filePath string) (*ProviderFunction, error) {
	name := fn.Name.Name
	switch {
	case fn.Recv != nil:
		return nil, fmt.Errorf("%s: methods cannot be providers", name)
	case !strings.HasPrefix(name, "Provide"):
		return nil, fmt.Errorf("%s: provider names must start with Provide", name)
	case !ast.IsExported(name):
		return nil, fmt.Errorf("%s: providers must be exported", name)
	case fn.Type.TypeParams != nil:
		return nil, fmt.Errorf("%s: generic functions cannot be providers", name)
	}

	results := flatten(fn.Type.Results)
	if len(results) == 0 || len(results) > 3 {
		return nil, fmt.Errorf("%s: a provider returns one value, optionally with a cleanup func and an error", name)
	}

	provider := &ProviderFunction{
		FunctionName: name,
		Package:      pkg,
		ReturnType:   s.typeString(results[0], pkg),
		FilePath:     filePath,
	}
	for _, r := range results[1:] {
		switch s.typeString(r, pkg) {
		case "func()":
			if provider.HasCleanup || provider.ReturnsError {
				return nil, fmt.Errorf("%s: cleanup must come right after the provided value", name)
			}
			provider.HasCleanup = true
		case "error":
			if provider.ReturnsError {
				return nil, fmt.Errorf("%s: more than one error result", name)
			}
			provider.ReturnsError = true
		default:
			return nil, fmt.Errorf("%s: unexpected result %s", name, s.typeString(r, pkg))
		}
	}
	if len(results) == 3 && !(provider.HasCleanup && provider.ReturnsError) {
		return nil, fmt.Errorf("%s: three results must be (T, func(), error)", name)
	}

	for _, p := range flatten(fn.Type.Params) {
		provider.Parameters = append(provider.Parameters, s.typeString(p, pkg))
	}
	return provider, nil
}

// flatten expands "a, b int" into one entry per value.
func flatten(fields *ast.FieldList) []ast.Expr {
	if fields == nil {
		return nil
	}
	var out []ast.Expr
	for _, f := range fields.List {
		n := len(f.Names)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			out = append(out, f.Type)
		}
	}
	return out
}

// typeString renders a type expression, qualifying identifiers declared in
// pkg so types from different packages can be compared.
func (s *ASTScanner) typeString(expr ast.Expr, pkg string) string {
	switch t := expr.(type) {
	case *ast.Ident:
		if isPredeclared(t.Name) {
			return t.Name
		}
		return pkg + "." + t.Name
	case *ast.StarExpr:
		return "*" + s.typeString(t.X, pkg)
	case *ast.SelectorExpr:
		if x, ok := t.X.(*ast.Ident); ok {
			return x.Name + "." + t.Sel.Name
		}
		return t.Sel.Name
	case *ast.ArrayType:
		return "[]" + s.typeString(t.Elt, pkg)
	case *ast.MapType:
		return fmt.Sprintf("map[%s]%s", s.typeString(t.Key, pkg), s.typeString(t.Value, pkg))
	case *ast.FuncType:
		if (t.Params == nil || len(t.Params.List) == 0) && (t.Results == nil || len(t.Results.List) == 0) {
			return "func()"
		}
		return "func(...)"
	case *ast.InterfaceType:
		return "interface{}"
	case *ast.Ellipsis:
		return "..." + s.typeString(t.Elt, pkg)
	case *ast.IndexExpr:
		return s.typeString(t.X, pkg) + "[" + s.typeString(t.Index, pkg) + "]"
	default:
		return fmt.Sprintf("%T", expr)
	}
}

func isPredeclared(name string) bool {
	switch name {
	case "bool", "byte", "complex64", "complex128", "error", "float32", "float64",
		"int", "int8", "int16", "int32", "int64", "rune", "string",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr", "any":
		return true
	}
	return false
}
