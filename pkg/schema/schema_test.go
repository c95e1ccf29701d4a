package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/sprout/pkg/errors"
	"github.com/arthur-debert/sprout/pkg/types"
)

func TestParse_SimpleSchema(t *testing.T) {
	xml := `
		<folder name="test">
			<folder name="src" />
			<file name="readme.txt" />
		</folder>
	`

	result, err := Parse(xml)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	tree := result.Tree
	assert.Equal(t, "test", tree.Root.Name)
	assert.Equal(t, types.NodeFolder, tree.Root.Kind)
	assert.Equal(t, 2, tree.Stats.Folders)
	assert.Equal(t, 1, tree.Stats.Files)
	assert.Equal(t, 0, tree.Stats.Downloads)

	require.Len(t, tree.Root.Children, 2)
	assert.Equal(t, "src", tree.Root.Children[0].Name)
	assert.Equal(t, "readme.txt", tree.Root.Children[1].Name)
	assert.Equal(t, types.NodeFile, tree.Root.Children[1].Kind)
}

func TestParse_SchemaWrapper(t *testing.T) {
	xml := `<schema>
		<folder name="proj">
			<file name="a.txt" />
		</folder>
		<variables>
			<variable name="AUTHOR" default="anon" />
		</variables>
		<hooks>
			<hook>git init</hook>
			<hook>npm install</hook>
		</hooks>
	</schema>`

	result, err := Parse(xml)
	require.NoError(t, err)

	tree := result.Tree
	assert.Equal(t, "proj", tree.Root.Name)
	assert.Equal(t, []string{"git init", "npm install"}, tree.Hooks)
	assert.Equal(t, map[string]string{"AUTHOR": "anon"}, tree.Variables)
}

func TestParse_FileContent(t *testing.T) {
	xml := `
		<folder name="root">
			<file name="notes.txt">
				line one
			</file>
		</folder>
	`

	result, err := Parse(xml)
	require.NoError(t, err)
	assert.Equal(t, "line one", result.Tree.Root.Children[0].Content)
}

func TestParse_CDataContentKeptRaw(t *testing.T) {
	xml := `<folder name="root"><file name="script.sh"><![CDATA[
#!/bin/sh
echo "  spaced  "
]]></file></folder>`

	result, err := Parse(xml)
	require.NoError(t, err)
	assert.Equal(t, "\n#!/bin/sh\necho \"  spaced  \"\n", result.Tree.Root.Children[0].Content)
}

func TestParse_FileAttributes(t *testing.T) {
	xml := `
		<folder name="root">
			<file name="logo.png" url="https://example.com/logo.png" />
			<file name="readme.md" template="true">Hello %NAME%</file>
		</folder>
	`

	result, err := Parse(xml)
	require.NoError(t, err)

	download := result.Tree.Root.Children[0]
	assert.Equal(t, "https://example.com/logo.png", download.URL)
	assert.Equal(t, 1, result.Tree.Stats.Downloads)

	templated := result.Tree.Root.Children[1]
	assert.True(t, templated.Template)
	assert.Equal(t, "Hello %NAME%", templated.Content)
}

func TestParse_ControlNodes(t *testing.T) {
	xml := `
		<folder name="root">
			<if condition="USE_DOCS">
				<folder name="docs" />
			</if>
			<else>
				<file name="no-docs.txt" />
			</else>
			<repeat count="3" as="n">
				<file name="part-%n%.txt" />
			</repeat>
		</folder>
	`

	result, err := Parse(xml)
	require.NoError(t, err)

	children := result.Tree.Root.Children
	require.Len(t, children, 3)

	assert.Equal(t, types.NodeIf, children[0].Kind)
	assert.Equal(t, "USE_DOCS", children[0].ConditionVar)
	require.Len(t, children[0].Children, 1)

	assert.Equal(t, types.NodeElse, children[1].Kind)

	assert.Equal(t, types.NodeRepeat, children[2].Kind)
	assert.Equal(t, "3", children[2].RepeatCount)
	assert.Equal(t, "n", children[2].RepeatAs)
}

func TestParse_ConditionVariantSpellings(t *testing.T) {
	xml := `<folder name="root"><if var="%FLAG%"><file name="f.txt" /></if></folder>`

	result, err := Parse(xml)
	require.NoError(t, err)
	assert.Equal(t, "FLAG", result.Tree.Root.Children[0].ConditionVar)
}

func TestParse_GeneratorConfig(t *testing.T) {
	xml := `
		<folder name="root">
			<file name="app.db" generate="sqlite">
				<table name="users">
					<column name="id" type="INTEGER" primary-key="true" />
				</table>
			</file>
		</folder>
	`

	result, err := Parse(xml)
	require.NoError(t, err)

	file := result.Tree.Root.Children[0]
	assert.Equal(t, "sqlite", file.Generate)
	assert.Contains(t, file.GenerateConfig, `<table name="users">`)
	assert.Contains(t, file.GenerateConfig, `<column name="id"`)
}

func TestParse_MissingFolderName(t *testing.T) {
	_, err := Parse(`<folder><file name="x.txt" /></folder>`)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSchemaParse))
	assert.Contains(t, err.Error(), "missing its name")
}

func TestParse_MissingIfCondition(t *testing.T) {
	_, err := Parse(`<folder name="root"><if><file name="x.txt" /></if></folder>`)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSchemaParse))
	assert.Contains(t, err.Error(), "condition")
}

func TestParse_UnknownElementWarns(t *testing.T) {
	xml := `<folder name="root"><widget name="x" /><file name="ok.txt" /></folder>`

	result, err := Parse(xml)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "<widget>")
	require.Len(t, result.Tree.Root.Children, 1)
	assert.Equal(t, "ok.txt", result.Tree.Root.Children[0].Name)
}

func TestParse_InvalidXML(t *testing.T) {
	_, err := Parse(`<folder name="broken">`)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSchemaParse))
}

func TestParse_EmptyWrapper(t *testing.T) {
	_, err := Parse(`<schema></schema>`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no folder or file nodes")
}

func TestParse_MultipleTopLevelNodesWarns(t *testing.T) {
	xml := `<schema><folder name="first" /><folder name="second" /></schema>`

	result, err := Parse(xml)
	require.NoError(t, err)
	assert.Equal(t, "first", result.Tree.Root.Name)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "multiple top-level nodes")
}

func TestSerialize_RoundTrip(t *testing.T) {
	tree := &types.SchemaTree{
		Root: &types.SchemaNode{
			Kind: types.NodeFolder,
			Name: "proj",
			Children: []*types.SchemaNode{
				{Kind: types.NodeFolder, Name: "src"},
				{Kind: types.NodeFile, Name: "readme.md", Content: "# Title\n\nBody\n"},
				{Kind: types.NodeFile, Name: "logo.png", URL: "https://example.com/logo.png"},
				{
					Kind:         types.NodeIf,
					ConditionVar: "USE_CI",
					Children: []*types.SchemaNode{
						{Kind: types.NodeFile, Name: "ci.yml"},
					},
				},
				{
					Kind:        types.NodeRepeat,
					RepeatCount: "2",
					RepeatAs:    "n",
					Children: []*types.SchemaNode{
						{Kind: types.NodeFile, Name: "part-%n%.txt"},
					},
				},
			},
		},
		Hooks:     []string{"git init"},
		Variables: map[string]string{"AUTHOR": "anon"},
	}

	xml := Serialize(tree)
	assert.Contains(t, xml, `<?xml version="1.0" encoding="UTF-8"?>`)

	result, err := Parse(xml)
	require.NoError(t, err)

	got := result.Tree
	assert.Equal(t, tree.Root.Name, got.Root.Name)
	require.Len(t, got.Root.Children, 5)
	assert.Equal(t, "# Title\n\nBody\n", got.Root.Children[1].Content)
	assert.Equal(t, "https://example.com/logo.png", got.Root.Children[2].URL)
	assert.Equal(t, "USE_CI", got.Root.Children[3].ConditionVar)
	assert.Equal(t, "2", got.Root.Children[4].RepeatCount)
	assert.Equal(t, tree.Hooks, got.Hooks)
	assert.Equal(t, tree.Variables, got.Variables)
}

func TestSerialize_BareRootWithoutExtras(t *testing.T) {
	tree := &types.SchemaTree{
		Root: &types.SchemaNode{Kind: types.NodeFolder, Name: "plain"},
	}

	xml := Serialize(tree)
	assert.Contains(t, xml, `<folder name="plain"/>`)
	assert.NotContains(t, xml, "<schema>")
}

func TestSerialize_EscapesAttributeValues(t *testing.T) {
	tree := &types.SchemaTree{
		Root: &types.SchemaNode{Kind: types.NodeFolder, Name: `a "quoted" <name>`},
	}

	xml := Serialize(tree)
	result, err := Parse(xml)
	require.NoError(t, err)
	assert.Equal(t, `a "quoted" <name>`, result.Tree.Root.Name)
}
