package sprout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/sprout/pkg/config"
	"github.com/arthur-debert/sprout/pkg/errors"
	"github.com/arthur-debert/sprout/pkg/inherit"
	"github.com/arthur-debert/sprout/pkg/store"
	"github.com/arthur-debert/sprout/pkg/types"
	gotoml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// loadConfig resolves paths and loads the effective configuration
func loadConfig() (*config.Config, error) {
	p, err := initPaths()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(p.ConfigFilePath())
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}
	return cfg, nil
}

// openStore opens the template library at its standard location
func openStore() (*store.Store, error) {
	p, err := initPaths()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(p.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf(MsgErrOpenStore, err)
	}
	return st, nil
}

// openStoreFor opens the template library for a schema-consuming command.
// The store is required when --template names one; otherwise it is
// best-effort, so plain --schema runs work without a database (extends
// chains then fail with a clear resolver error).
func openStoreFor(templateName string) (*store.Store, error) {
	st, err := openStore()
	if err != nil {
		if templateName != "" {
			return nil, err
		}
		return nil, nil
	}
	return st, nil
}

// schemaInput is a schema ready to resolve, plus the stored template it
// came from when --template selected one.
type schemaInput struct {
	XML      string
	Template *types.Template
}

// resolveSchemaInput reads the schema selected by --schema or --template.
// Exactly one source must be given; "-" reads stdin.
func resolveSchemaInput(cmd *cobra.Command, st *store.Store, schemaPath, templateName string) (schemaInput, error) {
	switch {
	case schemaPath != "" && templateName != "":
		return schemaInput{}, errors.New(errors.ErrInvalidInput, MsgErrSchemaInput)
	case schemaPath == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return schemaInput{}, fmt.Errorf(MsgErrReadStdin, err)
		}
		return schemaInput{XML: string(data)}, nil
	case schemaPath != "":
		data, err := os.ReadFile(schemaPath)
		if err != nil {
			return schemaInput{}, fmt.Errorf(MsgErrReadSchema, schemaPath, err)
		}
		return schemaInput{XML: string(data)}, nil
	case templateName != "":
		t, err := st.GetByName(templateName)
		if err != nil {
			return schemaInput{}, err
		}
		return schemaInput{XML: t.SchemaXML, Template: t}, nil
	default:
		return schemaInput{}, errors.New(errors.ErrInvalidInput, MsgErrSchemaInput)
	}
}

// storeLoader adapts the template library into the inheritance
// resolver's lookup callback. A nil store resolves nothing.
func storeLoader(st *store.Store) inherit.LoaderFunc {
	if st == nil {
		return nil
	}
	return func(name string) (*types.TemplateData, bool) {
		t, err := st.GetByName(name)
		if err != nil {
			return nil, false
		}
		return &types.TemplateData{SchemaXML: t.SchemaXML, Variables: t.Variables}, true
	}
}

// delimit normalizes a variable name to its %NAME% form
func delimit(name string) string {
	return "%" + strings.Trim(name, "%") + "%"
}

// parseVarFlag splits one --var NAME=value argument
func parseVarFlag(arg string) (string, string, error) {
	name, value, ok := strings.Cut(arg, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", errors.Newf(errors.ErrInvalidInput, "invalid --var %q, want NAME=value", arg)
	}
	return name, value, nil
}

// readVarsFile loads variables from a YAML, TOML, or JSON file. Keys may
// be bare or delimited; values must be scalars. Returned keys are
// delimited.
func readVarsFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read variables file %s", path)
	}

	raw := map[string]interface{}{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = gotoml.Unmarshal(data, &raw)
	case ".json":
		err = json.Unmarshal(data, &raw)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput,
			"unsupported variables file %s, want .yaml, .toml, or .json", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "cannot parse variables file %s", path)
	}

	vars := make(map[string]string, len(raw))
	for name, value := range raw {
		switch value.(type) {
		case nil:
			vars[delimit(name)] = ""
		case map[string]interface{}, []interface{}:
			return nil, errors.Newf(errors.ErrInvalidInput, "variable %q in %s is not a scalar", name, path)
		default:
			vars[delimit(name)] = fmt.Sprint(value)
		}
	}
	return vars, nil
}

// runInput is everything a schema-consuming command resolves before
// touching the filesystem.
type runInput struct {
	Config   *config.Config
	Store    *store.Store
	Schema   schemaInput
	Resolved *inherit.Result
	Vars     map[string]string
}

// Close releases the store, if one was opened.
func (ri *runInput) Close() {
	if ri != nil && ri.Store != nil {
		_ = ri.Store.Close()
	}
}

// prepareRun resolves config, store, schema input, inheritance, and
// variables for the create and diff commands, which share their flag set.
// The caller owns closing the result.
func prepareRun(cmd *cobra.Command) (ri *runInput, err error) {
	schemaPath, _ := cmd.Flags().GetString("schema")
	templateName, _ := cmd.Flags().GetString("template")
	varFlags, _ := cmd.Flags().GetStringArray("var")
	varsFile, _ := cmd.Flags().GetString("vars-file")

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	st, err := openStoreFor(templateName)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil && st != nil {
			_ = st.Close()
		}
	}()

	input, err := resolveSchemaInput(cmd, st, schemaPath, templateName)
	if err != nil {
		return nil, err
	}

	resolved, err := inherit.ResolveWithMaxDepth(input.XML, storeLoader(st), cfg.Inherit.MaxDepth)
	if err != nil {
		return nil, err
	}

	vars, err := collectVars(input, resolved.Variables, varsFile, varFlags)
	if err != nil {
		return nil, err
	}

	return &runInput{Config: cfg, Store: st, Schema: input, Resolved: resolved, Vars: vars}, nil
}

// collectVars layers variable sources lowest to highest: defaults merged
// out of the inheritance chain, the stored template's defaults, the
// --vars-file, then --var flags. All keys come out delimited.
func collectVars(input schemaInput, resolved map[string]string, varsFile string, varFlags []string) (map[string]string, error) {
	vars := map[string]string{}
	for name, value := range resolved {
		vars[delimit(name)] = value
	}
	if input.Template != nil {
		for name, value := range input.Template.Variables {
			vars[delimit(name)] = value
		}
	}
	if varsFile != "" {
		fileVars, err := readVarsFile(varsFile)
		if err != nil {
			return nil, err
		}
		for name, value := range fileVars {
			vars[name] = value
		}
	}
	for _, arg := range varFlags {
		name, value, err := parseVarFlag(arg)
		if err != nil {
			return nil, err
		}
		vars[delimit(name)] = value
	}
	return vars, nil
}
