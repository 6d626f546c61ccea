package codeanalysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const goSource = `package demo

import (
	"fmt"
	// formatting
	"strings"
)

// Greet says hello.
func Greet(name string) string {
	clean := strings.TrimSpace(name)
	return fmt.Sprintf("hello %s", clean)
}

func Loop(items []string) {
	each := func(s string) {
		fmt.Println(s)
	}
	for _, it := range items {
		each(it)
	}
}
`

func TestContext_GoEnclosingFunc(t *testing.T) {
	a := New()
	doc := Document{Path: "demo.go", Text: goSource}

	got := a.Context(doc, Position{Line: 11, Column: 1})
	assert.True(t, strings.HasPrefix(got, "// Greet says hello.\nfunc Greet(name string) string {"), got)
	assert.True(t, strings.HasSuffix(got, "}"), got)
	assert.NotContains(t, got, "func Loop")
}

func TestContext_GoInnermostFuncLit(t *testing.T) {
	a := New()
	doc := Document{Path: "demo.go", Text: goSource}

	got := a.Context(doc, Position{Line: 16, Column: 2})
	assert.Equal(t, "func(s string) {\n\t\tfmt.Println(s)\n\t}", got)
}

func TestContext_GoOutsideDeclFallsBackToWindow(t *testing.T) {
	a := &Analyzer{Window: 2}
	doc := Document{Path: "demo.go", Text: goSource}

	got := a.Context(doc, Position{Line: 7, Column: 0})
	assert.Equal(t, ")\n", got)
}

func TestContext_InvalidGoFallsBackToWindow(t *testing.T) {
	a := &Analyzer{Window: 2}
	doc := Document{Path: "broken.go", Text: "package x\nfunc (\nfoo"}

	assert.Equal(t, "func (\nfoo", a.Context(doc, Position{Line: 2}))
}

func TestContext_WindowClampsPosition(t *testing.T) {
	a := &Analyzer{Window: 3}
	doc := Document{Path: "main.py", Text: "a\nb\nc\nd\ne"}

	assert.Equal(t, "b\nc\nd", a.Context(doc, Position{Line: 3}))
	assert.Equal(t, "c\nd\ne", a.Context(doc, Position{Line: 99}))
	assert.Equal(t, "a", a.Context(doc, Position{Line: -4}))
}

func TestImports(t *testing.T) {
	a := New()

	py := Document{Path: "app.py", Text: "import os\n  from typing import List\nx = 1\n"}
	assert.Equal(t, "import os\nfrom typing import List", a.Imports(py))

	ts := Document{Path: "a.ts", Text: "import * as vscode from 'vscode';\nconst x = 1;\n"}
	assert.Equal(t, "import * as vscode from 'vscode';", a.Imports(ts))

	goDoc := Document{Path: "demo.go", Text: goSource}
	assert.Equal(t, "\"fmt\"\n\"strings\"", a.Imports(goDoc))

	assert.Empty(t, a.Imports(Document{Text: "no imports here"}))
}
