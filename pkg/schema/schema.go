package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/beevik/etree"

	"github.com/arthur-debert/sprout/pkg/errors"
	"github.com/arthur-debert/sprout/pkg/types"
)

// wrapperTags may enclose the structural root together with <hooks> and
// <variables> blocks.
var wrapperTags = map[string]bool{
	"schema":    true,
	"structure": true,
	"template":  true,
}

// ParseResult is a parsed tree plus any non-fatal findings.
type ParseResult struct {
	Tree     *types.SchemaTree
	Warnings []string
}

// Fragment is a schema document taken apart without collapsing it to a
// single root: the ordered top-level structural nodes, hook commands,
// variable defaults, and the parent template named by an extends
// attribute. The inheritance resolver folds fragments into one tree.
type Fragment struct {
	Nodes     []*types.SchemaNode
	Hooks     []string
	Variables map[string]string
	Extends   string
	Warnings  []string
}

// Parse reads an XML schema document into a SchemaTree. Unknown elements
// are skipped with a warning; structural mistakes (missing names, missing
// conditions, malformed XML) are errors.
func Parse(xmlContent string) (*ParseResult, error) {
	frag, err := ParseFragment(xmlContent)
	if err != nil {
		return nil, err
	}
	if len(frag.Nodes) == 0 {
		return nil, errors.New(errors.ErrSchemaParse, "schema contains no folder or file nodes")
	}

	warnings := frag.Warnings
	if len(frag.Nodes) > 1 {
		warnings = append(warnings, fmt.Sprintf(
			"multiple top-level nodes: keeping <%s> %q, ignoring %d more",
			frag.Nodes[0].Kind, frag.Nodes[0].Name, len(frag.Nodes)-1))
	}
	if frag.Extends != "" {
		warnings = append(warnings, fmt.Sprintf(
			"schema extends template %q; resolve inheritance before materializing", frag.Extends))
	}

	tree := &types.SchemaTree{
		Root:      frag.Nodes[0],
		Hooks:     frag.Hooks,
		Variables: frag.Variables,
		Stats:     ComputeStats(frag.Nodes[0]),
	}
	return &ParseResult{Tree: tree, Warnings: warnings}, nil
}

// ParseFragment reads a schema document into its raw parts.
func ParseFragment(xmlContent string) (*Fragment, error) {
	doc := etree.NewDocument()
	// CDATA must survive as CDATA or file content loses its exact bytes.
	doc.ReadSettings.PreserveCData = true
	if err := doc.ReadFromString(xmlContent); err != nil {
		return nil, errors.Wrap(err, errors.ErrSchemaParse, "invalid schema XML")
	}

	root := doc.Root()
	if root == nil {
		return nil, errors.New(errors.ErrSchemaParse, "schema has no root element")
	}

	p := &parser{}
	frag := &Fragment{}

	if wrapperTags[root.Tag] {
		frag.Extends = strings.TrimSpace(root.SelectAttrValue("extends", ""))
		for _, el := range root.ChildElements() {
			switch el.Tag {
			case "hooks":
				frag.Hooks = append(frag.Hooks, p.hooks(el)...)
			case "variables":
				vars := p.variables(el)
				if len(vars) > 0 {
					if frag.Variables == nil {
						frag.Variables = make(map[string]string)
					}
					for k, v := range vars {
						frag.Variables[k] = v
					}
				}
			default:
				node, err := p.element(el)
				if err != nil {
					return nil, err
				}
				if node != nil {
					frag.Nodes = append(frag.Nodes, node)
				}
			}
		}
	} else {
		node, err := p.element(root)
		if err != nil {
			return nil, err
		}
		if node != nil {
			frag.Nodes = append(frag.Nodes, node)
		}
	}

	frag.Warnings = p.warnings
	return frag, nil
}

type parser struct {
	warnings []string
}

func (p *parser) warnf(format string, args ...interface{}) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

// element parses one schema element and its subtree. A nil node with a
// nil error means the element was unknown and skipped.
func (p *parser) element(el *etree.Element) (*types.SchemaNode, error) {
	var node *types.SchemaNode

	switch el.Tag {
	case "folder":
		name := el.SelectAttrValue("name", "")
		if name == "" {
			return nil, errors.New(errors.ErrSchemaParse, "<folder> element is missing its name attribute")
		}
		node = &types.SchemaNode{Kind: types.NodeFolder, Name: name}

	case "file":
		return p.fileElement(el)

	case "if":
		cond := el.SelectAttrValue("condition", el.SelectAttrValue("var", ""))
		cond = strings.TrimSpace(strings.Trim(cond, "%"))
		if cond == "" {
			return nil, errors.New(errors.ErrSchemaParse, "<if> element is missing its condition attribute")
		}
		node = &types.SchemaNode{Kind: types.NodeIf, ConditionVar: cond}

	case "else":
		node = &types.SchemaNode{Kind: types.NodeElse}

	case "repeat":
		node = &types.SchemaNode{
			Kind:        types.NodeRepeat,
			RepeatCount: el.SelectAttrValue("count", ""),
			RepeatAs:    el.SelectAttrValue("as", ""),
		}

	default:
		p.warnf("unknown element <%s> ignored", el.Tag)
		return nil, nil
	}

	for _, child := range el.ChildElements() {
		childNode, err := p.element(child)
		if err != nil {
			return nil, err
		}
		if childNode != nil {
			node.Children = append(node.Children, childNode)
		}
	}
	return node, nil
}

func (p *parser) fileElement(el *etree.Element) (*types.SchemaNode, error) {
	name := el.SelectAttrValue("name", "")
	if name == "" {
		return nil, errors.New(errors.ErrSchemaParse, "<file> element is missing its name attribute")
	}

	node := &types.SchemaNode{
		Kind:     types.NodeFile,
		Name:     name,
		URL:      el.SelectAttrValue("url", ""),
		Generate: el.SelectAttrValue("generate", ""),
		Template: strings.EqualFold(el.SelectAttrValue("template", ""), "true"),
		Content:  elementContent(el),
	}

	// Child elements configure a generator; without one they are noise.
	if node.Generate != "" {
		cfg, err := generatorConfig(el)
		if err != nil {
			return nil, err
		}
		node.GenerateConfig = cfg
	} else {
		for _, child := range el.ChildElements() {
			p.warnf("unknown element <%s> inside <file> %q ignored", child.Tag, name)
		}
	}
	return node, nil
}

func (p *parser) hooks(el *etree.Element) []string {
	var cmds []string
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "hook", "command":
			if cmd := strings.TrimSpace(child.Text()); cmd != "" {
				cmds = append(cmds, cmd)
			}
		default:
			p.warnf("unknown element <%s> inside <hooks> ignored", child.Tag)
		}
	}
	return cmds
}

func (p *parser) variables(el *etree.Element) map[string]string {
	vars := make(map[string]string)
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "variable", "var":
			name := strings.TrimSpace(strings.Trim(child.SelectAttrValue("name", ""), "%"))
			if name == "" {
				p.warnf("<variable> element without a name ignored")
				continue
			}
			vars[name] = child.SelectAttrValue("default", child.SelectAttrValue("value", ""))
		default:
			p.warnf("unknown element <%s> inside <variables> ignored", child.Tag)
		}
	}
	return vars
}

// elementContent collects a file's inline content. CDATA sections are kept
// byte for byte; plain text is whitespace-trimmed so indentation in the
// schema document does not leak into created files.
func elementContent(el *etree.Element) string {
	var text, cdata strings.Builder
	hasCData := false

	for _, tok := range el.Child {
		cd, ok := tok.(*etree.CharData)
		if !ok {
			continue
		}
		if cd.IsCData() {
			hasCData = true
			cdata.WriteString(cd.Data)
		} else {
			text.WriteString(cd.Data)
		}
	}

	if hasCData {
		return cdata.String()
	}
	return strings.TrimSpace(text.String())
}

// generatorConfig serializes a generated file's child elements back to XML
// so the generator can interpret them.
func generatorConfig(el *etree.Element) (string, error) {
	children := el.ChildElements()
	if len(children) == 0 {
		return "", nil
	}

	doc := etree.NewDocument()
	for _, child := range children {
		doc.AddChild(child.Copy())
	}
	doc.Indent(2)

	cfg, err := doc.WriteToString()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrSchemaParse, "cannot serialize generator config")
	}
	return strings.TrimSpace(cfg), nil
}

// ComputeStats walks a tree counting folders, files, and downloads.
func ComputeStats(root *types.SchemaNode) types.SchemaStats {
	var stats types.SchemaStats
	countNodes(root, &stats)
	return stats
}

func countNodes(node *types.SchemaNode, stats *types.SchemaStats) {
	switch node.Kind {
	case types.NodeFolder:
		stats.Folders++
	case types.NodeFile:
		stats.Files++
		if node.URL != "" {
			stats.Downloads++
		}
	}
	for _, child := range node.Children {
		countNodes(child, stats)
	}
}

// Serialize renders a tree back to indented XML. Plain trees come out as
// a bare root element; hooks or variable defaults force a <schema> wrapper.
func Serialize(tree *types.SchemaTree) string {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	if len(tree.Hooks) > 0 || len(tree.Variables) > 0 {
		root := doc.CreateElement("schema")
		appendNode(root, tree.Root)
		if len(tree.Variables) > 0 {
			varsEl := root.CreateElement("variables")
			names := make([]string, 0, len(tree.Variables))
			for name := range tree.Variables {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				varEl := varsEl.CreateElement("variable")
				varEl.CreateAttr("name", name)
				varEl.CreateAttr("default", tree.Variables[name])
			}
		}
		if len(tree.Hooks) > 0 {
			hooksEl := root.CreateElement("hooks")
			for _, cmd := range tree.Hooks {
				hooksEl.CreateElement("hook").CreateText(cmd)
			}
		}
	} else {
		appendNode(&doc.Element, tree.Root)
	}

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return out
}

func appendNode(parent *etree.Element, node *types.SchemaNode) {
	if node == nil {
		return
	}

	el := parent.CreateElement(string(node.Kind))
	switch node.Kind {
	case types.NodeFolder:
		el.CreateAttr("name", node.Name)

	case types.NodeFile:
		el.CreateAttr("name", node.Name)
		if node.URL != "" {
			el.CreateAttr("url", node.URL)
		}
		if node.Generate != "" {
			el.CreateAttr("generate", node.Generate)
		}
		if node.Template {
			el.CreateAttr("template", "true")
		}
		if node.GenerateConfig != "" {
			attachConfig(el, node.GenerateConfig)
		}
		if node.Content != "" {
			el.CreateCData(node.Content)
		}

	case types.NodeIf:
		el.CreateAttr("condition", node.ConditionVar)

	case types.NodeRepeat:
		if node.RepeatCount != "" {
			el.CreateAttr("count", node.RepeatCount)
		}
		if node.RepeatAs != "" {
			el.CreateAttr("as", node.RepeatAs)
		}
	}

	for _, child := range node.Children {
		appendNode(el, child)
	}
}

// attachConfig re-parses a serialized generator config so round-trips keep
// it as real elements rather than escaped text.
func attachConfig(el *etree.Element, config string) {
	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true
	if err := doc.ReadFromString("<config>" + config + "</config>"); err != nil {
		return
	}
	for _, child := range doc.Root().ChildElements() {
		el.AddChild(child.Copy())
	}
}
