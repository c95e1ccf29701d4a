package sprout

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/arthur-debert/sprout/pkg/download"
	"github.com/arthur-debert/sprout/pkg/errors"
	"github.com/arthur-debert/sprout/pkg/schema"
	"github.com/arthur-debert/sprout/pkg/store"
	"github.com/arthur-debert/sprout/pkg/types"
	"github.com/spf13/cobra"
)

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Short:   MsgTemplatesShort,
		Long:    MsgTemplatesLong,
		Example: MsgTemplatesExample,
		GroupID: "core",
	}

	cmd.AddCommand(newTemplatesListCmd())
	cmd.AddCommand(newTemplatesShowCmd())
	cmd.AddCommand(newTemplatesSaveCmd())
	cmd.AddCommand(newTemplatesDeleteCmd())
	cmd.AddCommand(newTemplatesExportCmd())
	cmd.AddCommand(newTemplatesImportCmd())
	cmd.AddCommand(newTemplatesFavoriteCmd())

	return cmd
}

func newTemplatesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: MsgTemplatesListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRenderer(cmd)
			if err != nil {
				return err
			}

			st, err := openStore()
			if err != nil {
				return fail(r, err, 1)
			}
			defer func() { _ = st.Close() }()

			templates, err := st.List()
			if err != nil {
				return fail(r, err, 1)
			}
			return r.RenderResult(templates)
		},
	}
}

func newTemplatesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "show <name>",
		Short:             MsgTemplatesShowShort,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: templateNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRenderer(cmd)
			if err != nil {
				return err
			}

			st, err := openStore()
			if err != nil {
				return fail(r, err, 1)
			}
			defer func() { _ = st.Close() }()

			t, err := st.GetByName(args[0])
			if err != nil {
				return fail(r, err, 1)
			}
			return r.RenderResult(t)
		},
	}
}

func newTemplatesSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: MsgTemplatesSaveShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRenderer(cmd)
			if err != nil {
				return err
			}

			schemaPath, _ := cmd.Flags().GetString("schema")
			description, _ := cmd.Flags().GetString("description")
			tags, _ := cmd.Flags().GetStringArray("tag")
			favorite, _ := cmd.Flags().GetBool("favorite")
			varFlags, _ := cmd.Flags().GetStringArray("var")

			name, err := store.ValidateTemplateName(args[0])
			if err != nil {
				return fail(r, err, 1)
			}
			if schemaPath == "" {
				return fail(r, errors.New(errors.ErrInvalidInput, MsgErrSaveSchema), 1)
			}

			input, err := resolveSchemaInput(cmd, nil, schemaPath, "")
			if err != nil {
				return fail(r, err, 1)
			}

			// Reject unparseable schemas and pick up any <variables>
			// defaults the document declares.
			frag, err := schema.ParseFragment(input.XML)
			if err != nil {
				return fail(r, err, 1)
			}

			vars := make(map[string]string, len(frag.Variables))
			for varName, value := range frag.Variables {
				vars[delimit(varName)] = value
			}
			for _, arg := range varFlags {
				varName, value, err := parseVarFlag(arg)
				if err != nil {
					return fail(r, err, 1)
				}
				vars[delimit(varName)] = value
			}

			st, err := openStore()
			if err != nil {
				return fail(r, err, 1)
			}
			defer func() { _ = st.Close() }()

			t, err := st.Create(types.CreateTemplateInput{
				Name:        name,
				Description: description,
				SchemaXML:   input.XML,
				Variables:   vars,
				IsFavorite:  favorite,
				Tags:        tags,
			})
			if err != nil {
				return fail(r, err, 1)
			}
			return renderOutcome(cmd, r, t, fmt.Sprintf(MsgTemplateSaved, t.Name))
		},
	}

	cmd.Flags().StringP("schema", "s", "", MsgFlagSchema)
	cmd.Flags().String("description", "", MsgFlagDescription)
	cmd.Flags().StringArray("tag", nil, MsgFlagTag)
	cmd.Flags().Bool("favorite", false, MsgFlagFavorite)
	cmd.Flags().StringArray("var", nil, MsgFlagVar)

	return cmd
}

func newTemplatesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <name>",
		Short:             MsgTemplatesDeleteShort,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: templateNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRenderer(cmd)
			if err != nil {
				return err
			}

			st, err := openStore()
			if err != nil {
				return fail(r, err, 1)
			}
			defer func() { _ = st.Close() }()

			t, err := st.DeleteByName(args[0])
			if err != nil {
				return fail(r, err, 1)
			}
			return renderOutcome(cmd, r, t, fmt.Sprintf(MsgTemplateDeleted, t.Name))
		},
	}
}

func newTemplatesExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "export [names...]",
		Short:             MsgTemplatesExportShort,
		ValidArgsFunction: templateNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRenderer(cmd)
			if err != nil {
				return err
			}

			outPath, _ := cmd.Flags().GetString("output")
			includeVars, _ := cmd.Flags().GetBool("include-variables")
			all, _ := cmd.Flags().GetBool("all")

			if all == (len(args) > 0) {
				return fail(r, errors.New(errors.ErrInvalidInput, MsgErrExportArgs), 1)
			}

			st, err := openStore()
			if err != nil {
				return fail(r, err, 1)
			}
			defer func() { _ = st.Close() }()

			export, err := buildExport(st, args, all, includeVars)
			if err != nil {
				return fail(r, err, 1)
			}

			data, err := json.MarshalIndent(export, "", "  ")
			if err != nil {
				return fail(r, errors.Wrap(err, errors.ErrInternal, "cannot encode export"), 1)
			}

			if outPath != "" {
				if err := os.WriteFile(outPath, data, 0o644); err != nil {
					return fail(r, errors.Wrapf(err, errors.ErrFileAccess, "cannot write %s", outPath), 1)
				}
				return renderOutcome(cmd, r, export,
					fmt.Sprintf(MsgTemplatesExported, exportCount(export), outPath))
			}

			jsonOut, _ := cmd.Root().PersistentFlags().GetBool("json")
			if jsonOut {
				return r.RenderResult(export)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	cmd.Flags().StringP("output", "o", "", MsgFlagExportOutput)
	cmd.Flags().Bool("include-variables", true, MsgFlagIncludeVariables)
	cmd.Flags().Bool("all", false, MsgFlagAll)

	return cmd
}

// buildExport picks single or bundle form from what was asked for.
func buildExport(st *store.Store, names []string, all, includeVars bool) (*types.TemplateExportFile, error) {
	if all {
		// An empty id list bundles every template.
		return st.ExportBundle(nil, includeVars)
	}

	ids := make([]string, 0, len(names))
	for _, name := range names {
		t, err := st.GetByName(name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, t.ID)
	}
	if len(ids) == 1 {
		return st.Export(ids[0], includeVars)
	}
	return st.ExportBundle(ids, includeVars)
}

func exportCount(export *types.TemplateExportFile) int {
	if export.Template != nil {
		return 1
	}
	return len(export.Templates)
}

func newTemplatesImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file-or-url>",
		Short: MsgTemplatesImportShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRenderer(cmd)
			if err != nil {
				return err
			}

			onDuplicate, _ := cmd.Flags().GetString("on-duplicate")
			includeVars, _ := cmd.Flags().GetBool("include-variables")

			strategy := types.DuplicateStrategy(onDuplicate)
			switch strategy {
			case types.DuplicateSkip, types.DuplicateReplace, types.DuplicateRename:
			default:
				return fail(r, errors.Newf(errors.ErrInvalidInput, MsgErrOnDuplicate, onDuplicate), 1)
			}

			st, err := openStore()
			if err != nil {
				return fail(r, err, 1)
			}
			defer func() { _ = st.Close() }()

			src := args[0]
			var result *types.ImportResult
			if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
				cfg, err := loadConfig()
				if err != nil {
					return fail(r, err, 1)
				}
				result, err = st.ImportFromURL(cmd.Context(), download.New(cfg.Download), src, strategy, includeVars)
				if err != nil {
					return fail(r, err, 1)
				}
			} else {
				data, err := os.ReadFile(src)
				if err != nil {
					return fail(r, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", src), 1)
				}
				result, err = st.Import(data, strategy, includeVars)
				if err != nil {
					return fail(r, err, 1)
				}
			}

			if err := r.RenderResult(result); err != nil {
				return err
			}
			if len(result.Errors) > 0 {
				return &ExitCodeError{Code: 1}
			}
			return nil
		},
	}

	cmd.Flags().String("on-duplicate", string(types.DuplicateSkip), MsgFlagOnDuplicate)
	cmd.Flags().Bool("include-variables", true, MsgFlagIncludeVariables)

	return cmd
}

func newTemplatesFavoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "favorite <name>",
		Short:             MsgTemplatesFavoriteShort,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: templateNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRenderer(cmd)
			if err != nil {
				return err
			}

			st, err := openStore()
			if err != nil {
				return fail(r, err, 1)
			}
			defer func() { _ = st.Close() }()

			t, err := st.GetByName(args[0])
			if err != nil {
				return fail(r, err, 1)
			}
			updated, err := st.ToggleFavorite(t.ID)
			if err != nil {
				return fail(r, err, 1)
			}

			msg := MsgTemplateUnfavorited
			if updated.IsFavorite {
				msg = MsgTemplateFavorited
			}
			return renderOutcome(cmd, r, updated, fmt.Sprintf(msg, updated.Name))
		},
	}
}
