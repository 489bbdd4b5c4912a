// Package parser reads TypeScript and JavaScript classes into plain
// structural data using tree-sitter. It extracts class declarations,
// method signatures, constructor dependencies, and a per-method body
// survey that downstream analyzers consume without touching the tree.
package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Parser parses source files using tree-sitter
type Parser struct {
	tsParser *sitter.Parser
	jsParser *sitter.Parser
}

// NewParser creates a parser with TypeScript and JavaScript support
func NewParser() *Parser {
	tsParser := sitter.NewParser()
	tsParser.SetLanguage(typescript.GetLanguage())

	jsParser := sitter.NewParser()
	jsParser.SetLanguage(javascript.GetLanguage())

	return &Parser{
		tsParser: tsParser,
		jsParser: jsParser,
	}
}

// ParseFile parses a single file from disk
func (p *Parser) ParseFile(ctx context.Context, filePath string) (*ParsedFile, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(content) > MaxSourceBytes {
		return nil, fmt.Errorf("file %s exceeds %d byte limit", filePath, MaxSourceBytes)
	}

	lang := DetectLanguage(filePath)
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("unsupported language for file: %s", filePath)
	}

	return p.ParseSource(ctx, filePath, string(content), lang)
}

// ParseSource parses source code content
func (p *Parser) ParseSource(ctx context.Context, filePath, content string, lang Language) (*ParsedFile, error) {
	var parser *sitter.Parser
	switch lang {
	case LanguageTypeScript:
		parser = p.tsParser
	case LanguageJavaScript:
		parser = p.jsParser
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}

	tree, err := parser.ParseCtx(ctx, nil, []byte(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	defer tree.Close()

	parsed := &ParsedFile{
		Path:     filePath,
		Language: lang,
		Classes:  make([]Class, 0),
	}
	p.extractClasses(tree.RootNode(), []byte(content), parsed)

	return parsed, nil
}

// extractClasses finds class declarations anywhere in the file
func (p *Parser) extractClasses(node *sitter.Node, source []byte, parsed *ParsedFile) {
	cursor := sitter.NewTreeCursor(node)
	defer cursor.Close()

	walkTree(cursor, func(n *sitter.Node) {
		switch n.Type() {
		case "class_declaration", "class":
			cls := p.parseClass(n, source)
			if cls != nil && cls.Name != "" {
				parsed.Classes = append(parsed.Classes, *cls)
			}
		}
	})
}

func (p *Parser) parseClass(node *sitter.Node, source []byte) *Class {
	cls := &Class{
		StartLine:    int(node.StartPoint().Row) + 1,
		EndLine:      int(node.EndPoint().Row) + 1,
		Methods:      make([]Method, 0),
		Dependencies: make([]ConstructorDep, 0),
	}

	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		cls.Name = nameNode.Content(source)
	}

	// extends clause lives under class_heritage
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "class_heritage" {
			cls.Extends = parseHeritage(child, source)
		}
	}

	bodyNode := node.ChildByFieldName("body")
	if bodyNode == nil {
		return cls
	}

	for i := 0; i < int(bodyNode.ChildCount()); i++ {
		child := bodyNode.Child(i)
		if child.Type() != "method_definition" {
			continue
		}
		m := p.parseMethod(child, source)
		if m == nil {
			continue
		}
		if m.Name == "constructor" {
			cls.Dependencies = p.parseConstructorDeps(child, m, source)
			continue
		}
		cls.Methods = append(cls.Methods, *m)
	}

	return cls
}

func parseHeritage(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "extends_clause" {
			for j := 0; j < int(child.ChildCount()); j++ {
				sub := child.Child(j)
				if sub.Type() == "identifier" {
					return sub.Content(source)
				}
			}
		}
		if child.Type() == "identifier" {
			return child.Content(source)
		}
	}
	return ""
}

func (p *Parser) parseMethod(node *sitter.Node, source []byte) *Method {
	m := &Method{
		StartLine:  int(node.StartPoint().Row) + 1,
		EndLine:    int(node.EndPoint().Row) + 1,
		Visibility: "public",
		Params:     make([]Param, 0),
	}

	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		m.Name = nameNode.Content(source)
	}
	if m.Name == "" {
		return nil
	}
	if strings.HasPrefix(m.Name, "#") {
		m.Visibility = "private"
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "async":
			m.Async = true
		case "static":
			m.Static = true
		case "accessibility_modifier":
			m.Visibility = child.Content(source)
		}
	}

	if paramsNode := node.ChildByFieldName("parameters"); paramsNode != nil {
		m.Params = p.parseParams(paramsNode, source)
	}
	if retNode := node.ChildByFieldName("return_type"); retNode != nil {
		m.ReturnType = strings.TrimPrefix(retNode.Content(source), ":")
		m.ReturnType = strings.TrimSpace(m.ReturnType)
	}
	if bodyNode := node.ChildByFieldName("body"); bodyNode != nil {
		m.Body = surveyBody(bodyNode, source)
	}

	return m
}

func (p *Parser) parseParams(node *sitter.Node, source []byte) []Param {
	params := make([]Param, 0)

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "identifier":
			params = append(params, Param{Name: child.Content(source)})
		case "assignment_pattern":
			var param Param
			if left := child.ChildByFieldName("left"); left != nil {
				param.Name = left.Content(source)
			}
			if right := child.ChildByFieldName("right"); right != nil {
				param.Default = right.Content(source)
			}
			if param.Name != "" {
				params = append(params, param)
			}
		case "required_parameter", "optional_parameter":
			var param Param
			param.Optional = child.Type() == "optional_parameter"
			if patternNode := child.ChildByFieldName("pattern"); patternNode != nil {
				param.Name = patternNode.Content(source)
			}
			if typeNode := child.ChildByFieldName("type"); typeNode != nil {
				param.Type = strings.TrimSpace(strings.TrimPrefix(typeNode.Content(source), ":"))
			}
			if valueNode := child.ChildByFieldName("value"); valueNode != nil {
				param.Default = valueNode.Content(source)
			}
			if param.Name != "" {
				params = append(params, param)
			}
		}
	}

	return params
}

// parseConstructorDeps turns constructor parameters into the class
// dependency list. When the constructor body assigns a parameter to a
// property, the property name wins over the parameter name.
func (p *Parser) parseConstructorDeps(node *sitter.Node, ctor *Method, source []byte) []ConstructorDep {
	deps := make([]ConstructorDep, 0, len(ctor.Params))
	propNames := constructorAssignments(node, source)

	for _, param := range ctor.Params {
		name := param.Name
		if prop, ok := propNames[param.Name]; ok {
			name = prop
		}
		deps = append(deps, ConstructorDep{Name: name, Type: param.Type})
	}

	return deps
}

// constructorAssignments maps parameter names to the properties they
// are assigned to, from statements like this.userRepo = userRepository.
func constructorAssignments(node *sitter.Node, source []byte) map[string]string {
	assignments := make(map[string]string)
	bodyNode := node.ChildByFieldName("body")
	if bodyNode == nil {
		return assignments
	}

	cursor := sitter.NewTreeCursor(bodyNode)
	defer cursor.Close()

	walkTree(cursor, func(n *sitter.Node) {
		if n.Type() != "assignment_expression" {
			return
		}
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		if left == nil || right == nil {
			return
		}
		if left.Type() != "member_expression" || right.Type() != "identifier" {
			return
		}
		obj := left.ChildByFieldName("object")
		prop := left.ChildByFieldName("property")
		if obj == nil || prop == nil || obj.Type() != "this" {
			return
		}
		assignments[right.Content(source)] = prop.Content(source)
	})

	return assignments
}

// walkTree walks the tree and calls fn for each node
func walkTree(cursor *sitter.TreeCursor, fn func(*sitter.Node)) {
	for {
		fn(cursor.CurrentNode())

		if cursor.GoToFirstChild() {
			continue
		}

		for {
			if cursor.GoToNextSibling() {
				break
			}
			if !cursor.GoToParent() {
				return
			}
		}
	}
}

// DetectLanguage detects language from file extension
func DetectLanguage(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".ts", ".tsx":
		return LanguageTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}
