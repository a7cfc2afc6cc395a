package tsxsource

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dejo1307/a11ysnap/internal/source/fixture"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// TSXLoader reads React Native style screen markup from .tsx and .jsx files.
type TSXLoader struct{}

// New creates a new TSXLoader.
func New() *TSXLoader {
	return &TSXLoader{}
}

func (l *TSXLoader) Name() string {
	return "tsx"
}

// Detect returns true for .tsx and .jsx files.
func (l *TSXLoader) Detect(path string) (bool, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx", ".jsx":
		return true, nil
	}
	return false, nil
}

// Load parses the file and converts its first JSX element tree.
func (l *TSXLoader) Load(ctx context.Context, path string) (*fixture.Spec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	spec, err := Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	count := 0
	spec.Walk(func(*fixture.Spec) { count++ })
	log.Printf("[tsx-loader] loaded %d nodes from %s", count, path)
	return spec, nil
}

// Parse converts the first JSX element tree in src. Nodes without a frame
// are placed by a vertical flow layout on a 390pt wide screen.
func Parse(src []byte) (*fixture.Spec, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(sitter.NewLanguage(typescript.LanguageTSX()))

	tree := parser.Parse(src, nil)
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		if bad := findError(root); bad != nil {
			return nil, fmt.Errorf("syntax error at line %d", bad.StartPosition().Row+1)
		}
		return nil, errors.New("syntax error")
	}

	markup := findMarkup(root)
	if markup == nil {
		return nil, errors.New("no JSX element found")
	}

	c := &converter{src: src}
	n := c.element(markup)
	n.layoutRoot()
	spec := n.spec()
	return &spec, nil
}

type converter struct {
	src []byte
}

// element converts one jsx_element or jsx_self_closing_element.
func (c *converter) element(n *sitter.Node) *jsxNode {
	opening := n
	var body []*sitter.Node
	if n.Kind() == "jsx_element" {
		opening = nil
		for i := range n.ChildCount() {
			child := n.Child(i)
			switch child.Kind() {
			case "jsx_opening_element":
				opening = child
			case "jsx_closing_element":
			default:
				body = append(body, child)
			}
		}
	}

	tag := ""
	if opening != nil {
		if name := opening.ChildByFieldName("name"); name != nil {
			tag = nodeText(name, c.src)
		}
	}
	comp := lookupComponent(tag)
	out := &jsxNode{comp: comp}
	out.s.Kind = comp.kind
	out.s.Traits = comp.traits
	if comp.accessible {
		accessible := true
		out.s.Accessible = &accessible
	}

	if opening != nil {
		c.apply(out, c.attributes(opening))
	}

	if comp.leaf {
		if out.s.Label == "" {
			out.s.Label = c.text(body)
		}
		return out
	}
	for _, child := range body {
		switch child.Kind() {
		case "jsx_element", "jsx_self_closing_element":
			out.children = append(out.children, c.element(child))
		case "jsx_expression":
			// Conditional markup such as {cond && <View/>} contributes its elements.
			for _, m := range findAllMarkup(child) {
				out.children = append(out.children, c.element(m))
			}
		}
	}
	return out
}

// text gathers the visible text below body, the way a touchable's label is
// derived from its contents.
func (c *converter) text(body []*sitter.Node) string {
	var parts []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Kind() {
		case "jsx_text":
			if t := strings.Join(strings.Fields(nodeText(n, c.src)), " "); t != "" {
				parts = append(parts, t)
			}
			return
		case "string", "template_string":
			if v, err := c.value(n); err == nil {
				if s, ok := v.(string); ok && s != "" {
					parts = append(parts, s)
				}
			}
			return
		case "jsx_opening_element", "jsx_self_closing_element", "jsx_closing_element":
			return
		}
		for i := range n.ChildCount() {
			walk(n.Child(i))
		}
	}
	for _, n := range body {
		walk(n)
	}
	return strings.Join(parts, " ")
}

func findMarkup(n *sitter.Node) *sitter.Node {
	switch n.Kind() {
	case "jsx_element", "jsx_self_closing_element":
		return n
	}
	for i := range n.ChildCount() {
		if found := findMarkup(n.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

func findAllMarkup(n *sitter.Node) []*sitter.Node {
	switch n.Kind() {
	case "jsx_element", "jsx_self_closing_element":
		return []*sitter.Node{n}
	}
	var out []*sitter.Node
	for i := range n.ChildCount() {
		out = append(out, findAllMarkup(n.Child(i))...)
	}
	return out
}

func findError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := range n.ChildCount() {
		if found := findError(n.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

func findChildByKind(node *sitter.Node, kind string) *sitter.Node {
	for i := range node.ChildCount() {
		child := node.Child(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

func nodeText(node *sitter.Node, src []byte) string {
	return string(src[node.StartByte():node.EndByte()])
}
