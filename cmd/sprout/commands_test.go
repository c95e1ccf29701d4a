package sprout

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/sprout/pkg/types"
	"github.com/arthur-debert/sprout/pkg/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appSchema = `<schema>
  <folder name="app">
    <file name="README.md">Hello %AUTHOR%</file>
    <folder name="src">
      <file name="main.go">package main</file>
    </folder>
  </folder>
</schema>`

// setupEnv points every sprout directory at a scratch area so commands
// never touch the real user layout.
func setupEnv(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("SPROUT_DATA_DIR", filepath.Join(tmpDir, "data"))
	t.Setenv("SPROUT_CONFIG_DIR", filepath.Join(tmpDir, "config"))
	t.Setenv("SPROUT_CACHE_DIR", filepath.Join(tmpDir, "cache"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmpDir, "state"))
	return tmpDir
}

// runCommand executes the CLI once and returns everything it printed.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd := NewRootCmd()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeSchemaFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *ExitCodeError
	require.ErrorAs(t, err, &exitErr)
	return exitErr.Code
}

func TestCreateCommandMaterializesSchema(t *testing.T) {
	tmpDir := setupEnv(t)
	schemaPath := writeSchemaFile(t, tmpDir, "app.xml", appSchema)
	outDir := filepath.Join(tmpDir, "out")

	_, err := runCommand(t, "create", "--schema", schemaPath, "--output", outDir, "--var", "AUTHOR=amy")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(outDir, "app", "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "Hello amy", string(content))
	assert.FileExists(t, filepath.Join(outDir, "app", "src", "main.go"))
}

func TestCreateCommandDryRunWritesNothing(t *testing.T) {
	tmpDir := setupEnv(t)
	schemaPath := writeSchemaFile(t, tmpDir, "app.xml", appSchema)
	outDir := filepath.Join(tmpDir, "out")

	out, err := runCommand(t, "create", "--schema", schemaPath, "--output", outDir,
		"--var", "AUTHOR=amy", "--dry-run", "--json")
	require.NoError(t, err)

	var result types.CreateResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2, result.Summary.FoldersCreated)
	assert.Equal(t, 2, result.Summary.FilesCreated)
	assert.Equal(t, 0, result.Summary.Errors)

	assert.NoDirExists(t, filepath.Join(outDir, "app"))
	assert.NoFileExists(t, filepath.Join(tmpDir, "state", "sprout", "last-create.json"))
}

func TestCreateReadsSchemaFromStdin(t *testing.T) {
	tmpDir := setupEnv(t)
	outDir := filepath.Join(tmpDir, "out")

	rootCmd := NewRootCmd()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(appSchema))
	rootCmd.SetArgs([]string{"create", "--schema", "-", "--output", outDir, "--var", "AUTHOR=amy"})
	require.NoError(t, rootCmd.Execute())

	assert.FileExists(t, filepath.Join(outDir, "app", "README.md"))
}

func TestCreateRequiresExactlyOneSource(t *testing.T) {
	tmpDir := setupEnv(t)
	schemaPath := writeSchemaFile(t, tmpDir, "app.xml", appSchema)

	out, err := runCommand(t, "create", "--schema", schemaPath, "--template", "x", "--json")
	assert.Equal(t, 2, exitCode(t, err))
	assert.Contains(t, out, "not both")

	_, err = runCommand(t, "create", "--json")
	assert.Equal(t, 2, exitCode(t, err))
}

func TestCreateSkipsExistingFilesWithoutOverwrite(t *testing.T) {
	tmpDir := setupEnv(t)
	schemaPath := writeSchemaFile(t, tmpDir, "app.xml", appSchema)
	outDir := filepath.Join(tmpDir, "out")

	require.NoError(t, os.MkdirAll(filepath.Join(outDir, "app"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "app", "README.md"), []byte("mine"), 0o644))

	out, err := runCommand(t, "create", "--schema", schemaPath, "--output", outDir,
		"--var", "AUTHOR=amy", "--json")
	require.NoError(t, err)

	var result types.CreateResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1, result.Summary.Skipped)

	content, err := os.ReadFile(filepath.Join(outDir, "app", "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "mine", string(content))

	_, err = runCommand(t, "create", "--schema", schemaPath, "--output", outDir,
		"--var", "AUTHOR=amy", "--overwrite")
	require.NoError(t, err)

	content, err = os.ReadFile(filepath.Join(outDir, "app", "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "Hello amy", string(content))
}

func TestCreateWithVarsFile(t *testing.T) {
	tmpDir := setupEnv(t)
	schemaPath := writeSchemaFile(t, tmpDir, "app.xml", appSchema)
	varsPath := filepath.Join(tmpDir, "vars.yaml")
	require.NoError(t, os.WriteFile(varsPath, []byte("AUTHOR: rio\n"), 0o644))
	outDir := filepath.Join(tmpDir, "out")

	_, err := runCommand(t, "create", "--schema", schemaPath, "--output", outDir, "--vars-file", varsPath)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(outDir, "app", "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "Hello rio", string(content))
}

func TestVarFlagOverridesVarsFile(t *testing.T) {
	tmpDir := setupEnv(t)
	schemaPath := writeSchemaFile(t, tmpDir, "app.xml", appSchema)
	varsPath := filepath.Join(tmpDir, "vars.yaml")
	require.NoError(t, os.WriteFile(varsPath, []byte("AUTHOR: rio\n"), 0o644))
	outDir := filepath.Join(tmpDir, "out")

	_, err := runCommand(t, "create", "--schema", schemaPath, "--output", outDir,
		"--vars-file", varsPath, "--var", "AUTHOR=cli")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(outDir, "app", "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "Hello cli", string(content))
}

func TestCreateNoHooksSkipsHooks(t *testing.T) {
	tmpDir := setupEnv(t)
	doc := `<schema>
  <folder name="app">
    <file name="a.txt">x</file>
  </folder>
  <hooks>
    <hook>touch hooked.txt</hook>
  </hooks>
</schema>`
	schemaPath := writeSchemaFile(t, tmpDir, "app.xml", doc)

	out, err := runCommand(t, "create", "--schema", schemaPath,
		"--output", filepath.Join(tmpDir, "out"), "--no-hooks", "--json")
	require.NoError(t, err)

	var result types.CreateResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Empty(t, result.HookResults)
	assert.NoFileExists(t, filepath.Join(tmpDir, "out", "app", "hooked.txt"))

	_, err = runCommand(t, "create", "--schema", schemaPath,
		"--output", filepath.Join(tmpDir, "out2"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(tmpDir, "out2", "app", "hooked.txt"))
}

func TestCreateThenUndoRemovesEverything(t *testing.T) {
	tmpDir := setupEnv(t)
	schemaPath := writeSchemaFile(t, tmpDir, "app.xml", appSchema)
	outDir := filepath.Join(tmpDir, "out")

	_, err := runCommand(t, "create", "--schema", schemaPath, "--output", outDir, "--var", "AUTHOR=amy")
	require.NoError(t, err)

	manifestPath := filepath.Join(tmpDir, "state", "sprout", "last-create.json")
	require.FileExists(t, manifestPath)

	out, err := runCommand(t, "undo", "--json")
	require.NoError(t, err)

	var result types.UndoResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2, result.Summary.FilesDeleted)
	assert.Equal(t, 2, result.Summary.FoldersDeleted)
	assert.NoDirExists(t, filepath.Join(outDir, "app"))

	// The spent manifest is gone, so a second undo has nothing to read.
	assert.NoFileExists(t, manifestPath)
	_, err = runCommand(t, "undo", "--json")
	assert.Equal(t, 2, exitCode(t, err))
}

func TestUndoDryRunLeavesFilesAlone(t *testing.T) {
	tmpDir := setupEnv(t)
	schemaPath := writeSchemaFile(t, tmpDir, "app.xml", appSchema)
	outDir := filepath.Join(tmpDir, "out")

	_, err := runCommand(t, "create", "--schema", schemaPath, "--output", outDir, "--var", "AUTHOR=amy")
	require.NoError(t, err)

	_, err = runCommand(t, "undo", "--dry-run")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(outDir, "app", "README.md"))
	assert.FileExists(t, filepath.Join(tmpDir, "state", "sprout", "last-create.json"))
}

func TestUndoWithExplicitManifest(t *testing.T) {
	tmpDir := setupEnv(t)
	schemaPath := writeSchemaFile(t, tmpDir, "app.xml", appSchema)
	outDir := filepath.Join(tmpDir, "out")
	undoPath := filepath.Join(tmpDir, "run.json")

	_, err := runCommand(t, "create", "--schema", schemaPath, "--output", outDir,
		"--var", "AUTHOR=amy", "--undo-file", undoPath)
	require.NoError(t, err)
	require.FileExists(t, undoPath)

	_, err = runCommand(t, "undo", "--manifest", undoPath)
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(outDir, "app"))

	// Explicitly named manifests are the user's files and stay put.
	assert.FileExists(t, undoPath)
}

func TestCreateFromSavedTemplate(t *testing.T) {
	tmpDir := setupEnv(t)
	schemaPath := writeSchemaFile(t, tmpDir, "app.xml", appSchema)
	outDir := filepath.Join(tmpDir, "out")

	_, err := runCommand(t, "templates", "save", "starter", "--schema", schemaPath,
		"--var", "AUTHOR=default-author")
	require.NoError(t, err)

	_, err = runCommand(t, "create", "--template", "starter", "--output", outDir)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(outDir, "app", "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "Hello default-author", string(content))

	// Creating from the store bumps the template's use counter.
	out, err := runCommand(t, "templates", "show", "starter", "--json")
	require.NoError(t, err)
	var saved types.Template
	require.NoError(t, json.Unmarshal([]byte(out), &saved))
	assert.Equal(t, 1, saved.UseCount)
}

func TestCreateResolvesTemplateInheritance(t *testing.T) {
	tmpDir := setupEnv(t)
	parentDoc := `<schema>
  <folder name="base">
    <file name="base.txt">from parent</file>
  </folder>
</schema>`
	childDoc := `<schema extends="base-template">
  <file name="extra.txt">from child</file>
</schema>`
	parentPath := writeSchemaFile(t, tmpDir, "parent.xml", parentDoc)
	childPath := writeSchemaFile(t, tmpDir, "child.xml", childDoc)
	outDir := filepath.Join(tmpDir, "out")

	_, err := runCommand(t, "templates", "save", "base-template", "--schema", parentPath)
	require.NoError(t, err)

	_, err = runCommand(t, "create", "--schema", childPath, "--output", outDir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(outDir, "base", "base.txt"))
	assert.FileExists(t, filepath.Join(outDir, "base", "extra.txt"))
}

func TestDiffCommandPreviewsWithoutWriting(t *testing.T) {
	tmpDir := setupEnv(t)
	schemaPath := writeSchemaFile(t, tmpDir, "app.xml", appSchema)
	outDir := filepath.Join(tmpDir, "out")

	out, err := runCommand(t, "diff", "--schema", schemaPath, "--output", outDir,
		"--var", "AUTHOR=amy", "--json")
	require.NoError(t, err)

	var result types.DiffResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 4, result.Summary.Creates)
	assert.Equal(t, types.DiffCreate, result.Root.Action)
	assert.NoDirExists(t, filepath.Join(outDir, "app"))
}

func TestDiffCommandShowsOverwriteHunks(t *testing.T) {
	tmpDir := setupEnv(t)
	schemaPath := writeSchemaFile(t, tmpDir, "app.xml", appSchema)
	outDir := filepath.Join(tmpDir, "out")

	require.NoError(t, os.MkdirAll(filepath.Join(outDir, "app"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "app", "README.md"), []byte("old text\n"), 0o644))

	out, err := runCommand(t, "diff", "--schema", schemaPath, "--output", outDir,
		"--var", "AUTHOR=amy", "--overwrite", "--json")
	require.NoError(t, err)

	var result types.DiffResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1, result.Summary.Overwrites)

	var readme *types.DiffNode
	for _, child := range result.Root.Children {
		if child.Name == "README.md" {
			readme = child
		}
	}
	require.NotNil(t, readme)
	assert.Equal(t, types.DiffOverwrite, readme.Action)
	assert.NotEmpty(t, readme.DiffHunks)
}

func TestValidateCommandWarnsOnUndefinedVariables(t *testing.T) {
	tmpDir := setupEnv(t)
	schemaPath := writeSchemaFile(t, tmpDir, "app.xml", appSchema)

	out, err := runCommand(t, "validate", "--schema", schemaPath, "--json")
	require.NoError(t, err)

	var result validate.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, validate.IssueUndefinedVariable, result.Warnings[0].Type)

	// Supplying the variable clears the warning.
	out, err = runCommand(t, "validate", "--schema", schemaPath, "--var", "AUTHOR=amy", "--json")
	require.NoError(t, err)
	result = validate.Result{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Empty(t, result.Warnings)
}

func TestValidateCommandRejectsMalformedXML(t *testing.T) {
	tmpDir := setupEnv(t)
	schemaPath := writeSchemaFile(t, tmpDir, "broken.xml", "<schema><folder name='x'></schema>")

	out, err := runCommand(t, "validate", "--schema", schemaPath, "--json")
	assert.Equal(t, 1, exitCode(t, err))

	var result validate.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Errors)
}

func TestParseCommandPrintsTree(t *testing.T) {
	tmpDir := setupEnv(t)
	schemaPath := writeSchemaFile(t, tmpDir, "app.xml", appSchema)

	out, err := runCommand(t, "parse", "--schema", schemaPath, "--json")
	require.NoError(t, err)

	var tree types.SchemaTree
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	assert.Equal(t, "app", tree.Root.Name)
	assert.Equal(t, 2, tree.Stats.Folders)
	assert.Equal(t, 2, tree.Stats.Files)
}

func TestParseCommandReportsVariables(t *testing.T) {
	tmpDir := setupEnv(t)
	doc := `<schema>
  <folder name="services">
    <repeat count="2" as="svc">
      <folder name="service-%svc%"/>
    </repeat>
    <file name="NOTES.md">%AUTHOR% wrote this on %DATE%</file>
  </folder>
</schema>`
	schemaPath := writeSchemaFile(t, tmpDir, "app.xml", doc)

	out, err := runCommand(t, "parse", "--schema", schemaPath, "--vars", "--json")
	require.NoError(t, err)

	var report types.VariableReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, []string{"AUTHOR"}, report.Variables)
	assert.ElementsMatch(t, []string{"svc", "DATE"}, report.Provided)
}

func TestScanCommandEmitsSchema(t *testing.T) {
	tmpDir := setupEnv(t)
	project := filepath.Join(tmpDir, "legacy")
	require.NoError(t, os.MkdirAll(filepath.Join(project, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(project, "README.md"), []byte("hello"), 0o644))

	out, err := runCommand(t, "scan", project)
	require.NoError(t, err)
	assert.Contains(t, out, `<folder name="legacy">`)
	assert.Contains(t, out, `<folder name="docs"`)
	assert.Contains(t, out, `<file name="README.md">`)
	assert.Contains(t, out, "hello")

	// Writing to a file instead of stdout.
	outPath := filepath.Join(tmpDir, "legacy.xml")
	_, err = runCommand(t, "scan", project, "--output", outPath)
	require.NoError(t, err)
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<folder name="legacy">`)
}

func TestScanCreateRoundTrip(t *testing.T) {
	tmpDir := setupEnv(t)
	project := filepath.Join(tmpDir, "original")
	require.NoError(t, os.MkdirAll(filepath.Join(project, "cfg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(project, "cfg", "settings.ini"), []byte("key=value"), 0o644))

	schemaOut := filepath.Join(tmpDir, "original.xml")
	_, err := runCommand(t, "scan", project, "--output", schemaOut)
	require.NoError(t, err)

	replayDir := filepath.Join(tmpDir, "replay")
	_, err = runCommand(t, "create", "--schema", schemaOut, "--output", replayDir)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(replayDir, "original", "cfg", "settings.ini"))
	require.NoError(t, err)
	assert.Equal(t, "key=value", string(content))
}

func TestTemplatesLifecycle(t *testing.T) {
	tmpDir := setupEnv(t)
	schemaPath := writeSchemaFile(t, tmpDir, "app.xml", appSchema)

	out, err := runCommand(t, "templates", "save", "web-app", "--schema", schemaPath,
		"--description", "Starter layout", "--tag", "web", "--json")
	require.NoError(t, err)
	var saved types.Template
	require.NoError(t, json.Unmarshal([]byte(out), &saved))
	assert.Equal(t, "web-app", saved.Name)
	assert.Equal(t, "Starter layout", saved.Description)
	assert.Equal(t, []string{"web"}, saved.Tags)

	out, err = runCommand(t, "templates", "list", "--json")
	require.NoError(t, err)
	var listed []*types.Template
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)

	// A second save under the same name is rejected.
	_, err = runCommand(t, "templates", "save", "web-app", "--schema", schemaPath)
	assert.Equal(t, 1, exitCode(t, err))

	out, err = runCommand(t, "templates", "favorite", "web-app", "--json")
	require.NoError(t, err)
	var fav types.Template
	require.NoError(t, json.Unmarshal([]byte(out), &fav))
	assert.True(t, fav.IsFavorite)

	exportPath := filepath.Join(tmpDir, "web-app.json")
	_, err = runCommand(t, "templates", "export", "web-app", "--output", exportPath)
	require.NoError(t, err)
	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	var exported types.TemplateExportFile
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.Equal(t, types.ExportTemplate, exported.FileType)
	require.NotNil(t, exported.Template)
	assert.Equal(t, "web-app", exported.Template.Name)

	_, err = runCommand(t, "templates", "delete", "web-app")
	require.NoError(t, err)
	out, err = runCommand(t, "templates", "list", "--json")
	require.NoError(t, err)
	listed = nil
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	assert.Empty(t, listed)

	out, err = runCommand(t, "templates", "import", exportPath, "--json")
	require.NoError(t, err)
	var imported types.ImportResult
	require.NoError(t, json.Unmarshal([]byte(out), &imported))
	assert.Equal(t, []string{"web-app"}, imported.Imported)
}

func TestTemplatesImportDuplicateStrategies(t *testing.T) {
	tmpDir := setupEnv(t)
	schemaPath := writeSchemaFile(t, tmpDir, "app.xml", appSchema)

	_, err := runCommand(t, "templates", "save", "web-app", "--schema", schemaPath)
	require.NoError(t, err)

	exportPath := filepath.Join(tmpDir, "web-app.json")
	_, err = runCommand(t, "templates", "export", "web-app", "--output", exportPath)
	require.NoError(t, err)

	// Default strategy skips the collision.
	out, err := runCommand(t, "templates", "import", exportPath, "--json")
	require.NoError(t, err)
	var skipped types.ImportResult
	require.NoError(t, json.Unmarshal([]byte(out), &skipped))
	assert.Empty(t, skipped.Imported)
	assert.Equal(t, []string{"web-app"}, skipped.Skipped)

	// Renaming imports under a fresh name.
	out, err = runCommand(t, "templates", "import", exportPath, "--on-duplicate", "rename", "--json")
	require.NoError(t, err)
	var renamed types.ImportResult
	require.NoError(t, json.Unmarshal([]byte(out), &renamed))
	assert.Equal(t, []string{"web-app (2)"}, renamed.Imported)

	// Unknown strategies are rejected up front.
	_, err = runCommand(t, "templates", "import", exportPath, "--on-duplicate", "merge")
	assert.Equal(t, 1, exitCode(t, err))
}

func TestTemplatesExportRequiresSelection(t *testing.T) {
	setupEnv(t)

	_, err := runCommand(t, "templates", "export")
	assert.Equal(t, 1, exitCode(t, err))
}

func TestTemplatesShowUnknownName(t *testing.T) {
	setupEnv(t)

	out, err := runCommand(t, "templates", "show", "missing", "--json")
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, out, "missing")
}

func TestConfigCommandShowsAndWrites(t *testing.T) {
	tmpDir := setupEnv(t)

	out, err := runCommand(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "[repeat]")
	assert.Contains(t, out, "max_count")

	_, err = runCommand(t, "config", "--write")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(tmpDir, "config", "sprout.toml"))

	// Refuses to clobber an existing file.
	_, err = runCommand(t, "config", "--write")
	assert.Equal(t, 1, exitCode(t, err))
}

func TestConfigEnvironmentOverride(t *testing.T) {
	setupEnv(t)
	t.Setenv("SPROUT_REPEAT_MAX_COUNT", "5")

	out, err := runCommand(t, "config", "--json")
	require.NoError(t, err)

	var cfg struct {
		Repeat struct {
			MaxCount int `json:"max_count"`
		} `json:"repeat"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, 5, cfg.Repeat.MaxCount)
}

func TestRootCommandWithoutSubcommandFails(t *testing.T) {
	setupEnv(t)

	_, err := runCommand(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestCommandsAreRegistered(t *testing.T) {
	rootCmd := NewRootCmd()
	for _, name := range []string{"create", "diff", "undo", "validate", "parse", "scan", "templates", "config", "topics", "completion"} {
		c, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}
}

func TestVersionFlag(t *testing.T) {
	setupEnv(t)

	out, err := runCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev")
}
