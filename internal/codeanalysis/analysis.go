// Package codeanalysis extracts the pieces of a source document that go into
// a completion prompt: the code surrounding the cursor and the file's imports.
package codeanalysis

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"
)

// DefaultWindow is how many lines Context returns, ending at the cursor
// line, when no enclosing declaration is found.
const DefaultWindow = 20

type Document struct {
	Path string
	Text string
}

// Position is a zero-based line and column.
type Position struct {
	Line   int
	Column int
}

type Analyzer struct {
	Window int
}

func New() *Analyzer {
	return &Analyzer{Window: DefaultWindow}
}

// Context returns the source of the innermost declaration enclosing pos for
// Go files, or the lines leading up to pos otherwise.
func (a *Analyzer) Context(doc Document, pos Position) string {
	if isGo(doc.Path) {
		if text, ok := enclosingGoDecl(doc.Text, pos); ok {
			return text
		}
	}
	return a.window(doc.Text, pos)
}

// Imports returns the import statements of doc, one per line.
func (a *Analyzer) Imports(doc Document) string {
	var imports []string
	inBlock := false
	for _, line := range strings.Split(doc.Text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case inBlock && trimmed == ")":
			inBlock = false
		case inBlock:
			if trimmed != "" && !strings.HasPrefix(trimmed, "//") {
				imports = append(imports, trimmed)
			}
		case trimmed == "import (":
			inBlock = true
		case strings.HasPrefix(trimmed, "import "), strings.HasPrefix(trimmed, "from "):
			imports = append(imports, trimmed)
		}
	}
	return strings.Join(imports, "\n")
}

func (a *Analyzer) window(text string, pos Position) string {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 {
		return ""
	}
	end := pos.Line
	if end < 0 {
		end = 0
	}
	if end >= len(lines) {
		end = len(lines) - 1
	}
	size := a.Window
	if size <= 0 {
		size = DefaultWindow
	}
	start := end - size + 1
	if start < 0 {
		start = 0
	}
	return strings.Join(lines[start:end+1], "\n")
}

func isGo(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".go")
}

func enclosingGoDecl(src string, pos Position) (string, bool) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", src, parser.SkipObjectResolution)
	if err != nil {
		return "", false
	}
	tf := fset.File(file.Pos())
	if tf == nil || pos.Line < 0 || pos.Line >= tf.LineCount() {
		return "", false
	}
	lineStart := tf.LineStart(pos.Line + 1)
	offset := tf.Offset(lineStart) + max(pos.Column, 0)
	if offset > tf.Size() {
		offset = tf.Size()
	}
	target := tf.Pos(offset)

	var found ast.Node
	ast.Inspect(file, func(n ast.Node) bool {
		if n == nil || target < n.Pos() || target > n.End() {
			return false
		}
		switch n.(type) {
		case *ast.FuncDecl, *ast.FuncLit, *ast.GenDecl:
			found = n
		}
		return true
	})
	if found == nil {
		return "", false
	}
	start := tf.Offset(found.Pos())
	end := tf.Offset(found.End())
	if decl, ok := found.(*ast.FuncDecl); ok && decl.Doc != nil {
		start = tf.Offset(decl.Doc.Pos())
	}
	return src[start:end], true
}
