package interp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/sprout/pkg/config"
	"github.com/arthur-debert/sprout/pkg/directives"
	"github.com/arthur-debert/sprout/pkg/download"
	"github.com/arthur-debert/sprout/pkg/errors"
	"github.com/arthur-debert/sprout/pkg/generators"
	"github.com/arthur-debert/sprout/pkg/hooks"
	"github.com/arthur-debert/sprout/pkg/logging"
	"github.com/arthur-debert/sprout/pkg/substitute"
	"github.com/arthur-debert/sprout/pkg/types"
)

// Options select how a materialization run behaves.
type Options struct {
	// DryRun simulates the run: logs and counters reflect what would
	// happen, nothing is written and hooks are not executed.
	DryRun bool

	// Overwrite lets file nodes replace existing files. Folders are
	// never affected; an existing folder is simply descended into.
	Overwrite bool

	// SkipHooks leaves the tree's post-create commands unrun and unlogged.
	// A dry run without SkipHooks still logs what each hook would do.
	SkipHooks bool

	// ProjectName, when non-empty, is injected as %PROJECT_NAME%.
	ProjectName string
}

// Interpreter materializes schema trees onto a filesystem. It is safe for
// sequential reuse; each Materialize call walks with fresh run state.
type Interpreter struct {
	cfg        *config.Config
	fs         types.FS
	downloader *download.Client
	generators *generators.Registry
	directives *directives.Processor
	hooks      *hooks.Runner
	logger     zerolog.Logger
}

// New builds an Interpreter with its collaborators wired from cfg. fsys is
// the effect sink for real runs; dry runs wrap it so mutations become
// no-ops.
func New(cfg *config.Config, fsys types.FS) *Interpreter {
	return &Interpreter{
		cfg:        cfg,
		fs:         fsys,
		downloader: download.New(cfg.Download),
		generators: generators.NewRegistry(cfg),
		directives: directives.NewWithMaxDepth(cfg.Directives.MaxDepth),
		hooks:      hooks.NewRunner(cfg.Hooks),
		logger:     logging.GetLogger("interp"),
	}
}

// Materialize walks tree and creates its folders and files under
// outputRoot, then runs any post-create hooks. vars is keyed by the
// delimited form ("%NAME%"); built-in date variables and the project name
// are injected underneath it, so callers can override any built-in.
//
// The returned CreateResult is complete even when individual nodes failed;
// only folder creation failures abort the run with an error.
func (in *Interpreter) Materialize(ctx context.Context, tree *types.SchemaTree, outputRoot string, vars map[string]string, opts Options) (*types.CreateResult, error) {
	if tree == nil || tree.Root == nil {
		return nil, errors.New(errors.ErrSchemaInvalid, "schema tree has no root node")
	}

	env := substitute.BuildEnv(vars, opts.ProjectName)

	sink := in.fs
	if opts.DryRun {
		sink = dryFS{in.fs}
	}
	m := &materializer{
		ctx:        ctx,
		fs:         sink,
		dryRun:     opts.DryRun,
		overwrite:  opts.Overwrite,
		downloader: in.downloader,
		generators: in.generators,
		directives: in.directives,
	}

	in.logger.Debug().
		Str("outputRoot", outputRoot).
		Bool("dryRun", opts.DryRun).
		Bool("overwrite", opts.Overwrite).
		Msg("materializing schema tree")

	walker := NewWalker(in.cfg.Repeat.MaxCount, m)
	if err := walker.Walk(tree.Root, outputRoot, env); err != nil {
		return nil, err
	}

	if !opts.SkipHooks {
		in.runHooks(ctx, m, tree, outputRoot, env)
	}

	in.logger.Debug().
		Int("foldersCreated", m.summary.FoldersCreated).
		Int("filesCreated", m.summary.FilesCreated).
		Int("errors", m.summary.Errors).
		Msg("materialization finished")

	return &types.CreateResult{
		Logs:         m.logs,
		Summary:      m.summary,
		HookResults:  m.hookResults,
		CreatedItems: m.created,
	}, nil
}

// runHooks executes the tree's post-create commands. The working directory
// is the materialized root folder when it exists, the output root otherwise.
// A failing hook is recorded and never stops the ones after it.
func (in *Interpreter) runHooks(ctx context.Context, m *materializer, tree *types.SchemaTree, outputRoot string, env map[string]string) {
	if len(tree.Hooks) == 0 {
		return
	}

	rootName := substitute.Substitute(tree.Root.Name, env)
	workdir := filepath.Join(outputRoot, rootName)
	if _, err := m.fs.Stat(workdir); err != nil {
		workdir = outputRoot
	}

	for _, cmd := range tree.Hooks {
		resolved := substitute.Substitute(cmd, env)

		if m.dryRun {
			m.log(types.LogInfo, "Would run hook: "+resolved, "Working directory: "+workdir)
			continue
		}

		m.log(types.LogInfo, "Running hook: "+resolved, "Working directory: "+workdir)
		result := in.hooks.Run(ctx, resolved, workdir)
		if result.Success {
			m.summary.HooksExecuted++
			m.log(types.LogSuccess, "Hook completed: "+resolved, result.Stdout)
		} else {
			m.summary.HooksFailed++
			details := result.Stderr
			if details == "" {
				details = "Exit code: unknown"
				if result.ExitCode != nil {
					details = fmt.Sprintf("Exit code: %d", *result.ExitCode)
				}
			}
			m.log(types.LogError, "Hook failed: "+resolved, details)
		}
		m.hookResults = append(m.hookResults, result)
	}
}

// materializer is the Visitor that performs (or, in dry-run mode,
// simulates) filesystem effects. Control flow never branches on dryRun;
// the flag only selects log wording and skips irreversible work such as
// network fetches. The effect sink is what makes a dry run safe.
type materializer struct {
	ctx        context.Context
	fs         types.FS
	dryRun     bool
	overwrite  bool
	downloader *download.Client
	generators *generators.Registry
	directives *directives.Processor

	logs        []types.LogEntry
	summary     types.ResultSummary
	hookResults []types.HookResult
	created     []types.CreatedItem
}

func (m *materializer) log(t types.LogType, message, details string) {
	m.logs = append(m.logs, types.LogEntry{LogType: t, Message: message, Details: details})
}

// EnterFolder creates the folder unless it already exists. Creation
// failures are fatal: everything below the folder would fail anyway.
func (m *materializer) EnterFolder(node *types.SchemaNode, name, path string) (bool, error) {
	if _, err := m.fs.Stat(path); err == nil {
		m.log(types.LogInfo, "Folder exists: "+name, path)
		return true, nil
	}

	if m.dryRun {
		m.summary.FoldersCreated++
		m.log(types.LogInfo, "Would create folder: "+name, path)
		return true, nil
	}

	if err := m.fs.MkdirAll(path, 0o755); err != nil {
		m.summary.Errors++
		m.log(types.LogError, "Failed to create folder: "+name, fmt.Sprintf("Error: %v", err))
		return false, errors.Wrapf(err, errors.ErrFolderCreate, "Failed to create folder %s", path)
	}
	m.summary.FoldersCreated++
	m.created = append(m.created, types.CreatedItem{Path: path, ItemType: types.ItemFolder})
	m.log(types.LogSuccess, "Created folder: "+name, path)
	return true, nil
}

func (m *materializer) LeaveFolder(*types.SchemaNode, string, string) {}

func (m *materializer) EnterIf(*types.SchemaNode) {}

func (m *materializer) LeaveIf(*types.SchemaNode) {}

func (m *materializer) EnterRepeat(_ *types.SchemaNode, count int, asVar string) {
	verb := "Repeating"
	if m.dryRun {
		verb = "Would repeat"
	}
	m.log(types.LogInfo, fmt.Sprintf("%s %d times (as %%%s%%)", verb, count, asVar), "")
}

func (m *materializer) LeaveRepeat(*types.SchemaNode) {}

func (m *materializer) Issue(level types.LogType, message, details string) {
	if level == types.LogError {
		m.summary.Errors++
	}
	m.log(level, message, details)
}

// File dispatches a file node: url wins over generate, generate wins over
// inline content. Failures here are recoverable; only a missing parent
// directory that cannot be created aborts the run.
func (m *materializer) File(node *types.SchemaNode, name, path string, vars map[string]string) error {
	exists := false
	if _, err := m.fs.Stat(path); err == nil {
		exists = true
	}
	if exists && !m.overwrite {
		m.summary.Skipped++
		m.log(types.LogWarning, "Skipped (exists): "+name, path)
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if _, err := m.fs.Stat(dir); err != nil {
			if err := m.fs.MkdirAll(dir, 0o755); err != nil {
				return errors.Wrap(err, errors.ErrFolderCreate, "Failed to create parent dir")
			}
		}
	}

	switch {
	case node.URL != "":
		m.fileFromURL(node, name, path, vars, exists)
	case node.Generate != "":
		m.fileFromGenerator(node, name, path, vars, exists)
	default:
		m.fileFromContent(node, name, path, vars, exists)
	}
	return nil
}

// fileFromURL downloads the node's URL and writes the processed bytes. The
// URL is validated in both modes so a dry run surfaces the same failures a
// real one would; the fetch itself only happens for real.
func (m *materializer) fileFromURL(node *types.SchemaNode, name, path string, vars map[string]string, preExisted bool) {
	if err := download.ValidateURL(node.URL); err != nil {
		m.summary.Errors++
		m.log(types.LogError, "Download failed: "+name, errors.UserMessage(err))
		return
	}

	if m.dryRun {
		m.summary.FilesDownloaded++
		m.log(types.LogInfo, "Would download: "+name, node.URL)
		return
	}

	data, err := m.downloader.Fetch(m.ctx, node.URL)
	if err != nil {
		m.summary.Errors++
		m.log(types.LogError, "Download failed: "+name, errors.UserMessage(err))
		return
	}

	family := download.Classify(name)
	processed, err := download.Process(name, data, vars)
	if err != nil {
		if family == download.FamilyJupyter {
			m.log(types.LogWarning, "Notebook processing failed, using text replacement: "+name, errors.UserMessage(err))
			processed = []byte(substitute.Substitute(string(data), vars))
		} else {
			m.summary.Errors++
			m.log(types.LogError, fmt.Sprintf("Failed to process %s file: %s", family.Label(), name), errors.UserMessage(err))
			return
		}
	}

	if err := m.fs.WriteFile(path, processed, 0o644); err != nil {
		m.summary.Errors++
		m.log(types.LogError, "Failed to save file: "+name, fmt.Sprintf("Error writing to disk: %v", err))
		return
	}
	m.summary.FilesDownloaded++
	m.created = append(m.created, types.CreatedItem{Path: path, ItemType: types.ItemFile, PreExisted: preExisted})

	switch {
	case family == download.FamilyJupyter:
		m.log(types.LogSuccess, "Downloaded & processed: "+name,
			fmt.Sprintf("From: %s (Jupyter notebook, variables replaced)", node.URL))
	case family.Binary():
		m.log(types.LogSuccess, "Downloaded: "+name,
			fmt.Sprintf("From: %s (%s file)", node.URL, family.Label()))
	case family == download.FamilySVG:
		m.log(types.LogSuccess, "Downloaded: "+name,
			fmt.Sprintf("From: %s (SVG, variables replaced)", node.URL))
	default:
		m.log(types.LogSuccess, "Downloaded: "+name, "From: "+node.URL)
	}
}

// fileFromGenerator runs the named generator. Unknown names are a warning,
// not an error: the file is skipped and the run carries on.
func (m *materializer) fileFromGenerator(node *types.SchemaNode, name, path string, vars map[string]string, preExisted bool) {
	gen, ok := m.generators.Lookup(node.Generate)
	if !ok {
		m.log(types.LogWarning, "Unknown generator type: "+node.Generate,
			fmt.Sprintf("File '%s' was skipped. Supported generators: %s",
				name, strings.Join(m.generators.Names(), ", ")))
		return
	}

	if m.dryRun {
		m.summary.FilesGenerated++
		m.log(types.LogInfo, fmt.Sprintf("Would generate %s: %s", gen.Noun(), name), path)
		return
	}

	if err := gen.Generate(node, path, vars); err != nil {
		m.summary.Errors++
		m.log(types.LogError, fmt.Sprintf("Failed to generate %s: %s", gen.Noun(), name), errors.UserMessage(err))
		return
	}
	m.summary.FilesGenerated++
	m.created = append(m.created, types.CreatedItem{Path: path, ItemType: types.ItemFile, PreExisted: preExisted})
	m.log(types.LogSuccess, fmt.Sprintf("Generated %s: %s", gen.Noun(), name), path)
}

// fileFromContent renders inline content: directives first when the node
// opts in, then variable substitution. A directive error falls back to
// plain substitution of the raw content so the file still materializes.
func (m *materializer) fileFromContent(node *types.SchemaNode, name, path string, vars map[string]string, preExisted bool) {
	content := node.Content
	if node.Template {
		processed, err := m.directives.Process(content, vars)
		if err != nil {
			m.log(types.LogWarning, "Template error in "+name, errors.UserMessage(err))
		} else {
			content = processed
		}
	}
	data := []byte(substitute.Substitute(content, vars))

	details := path
	if node.Content != "" {
		details = fmt.Sprintf("%s (%d bytes)", path, len(data))
	}

	if m.dryRun {
		m.summary.FilesCreated++
		m.log(types.LogInfo, "Would create file: "+name, details)
		return
	}

	if err := m.fs.WriteFile(path, data, 0o644); err != nil {
		m.summary.Errors++
		m.log(types.LogError, "Failed to create file: "+name, fmt.Sprintf("Error: %v", err))
		return
	}
	m.summary.FilesCreated++
	m.created = append(m.created, types.CreatedItem{Path: path, ItemType: types.ItemFile, PreExisted: preExisted})
	m.log(types.LogSuccess, "Created file: "+name, details)
}
