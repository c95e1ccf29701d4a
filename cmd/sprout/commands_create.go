package sprout

import (
	"github.com/arthur-debert/sprout/pkg/filesystem"
	"github.com/arthur-debert/sprout/pkg/interp"
	"github.com/arthur-debert/sprout/pkg/types"
	"github.com/arthur-debert/sprout/pkg/undo"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "create",
		Short:   MsgCreateShort,
		Long:    MsgCreateLong,
		Example: MsgCreateExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRenderer(cmd)
			if err != nil {
				return err
			}

			outputRoot, _ := cmd.Flags().GetString("output")
			project, _ := cmd.Flags().GetString("project")
			overwrite, _ := cmd.Flags().GetBool("overwrite")
			noHooks, _ := cmd.Flags().GetBool("no-hooks")
			undoFile, _ := cmd.Flags().GetString("undo-file")
			dryRun, _ := cmd.Root().PersistentFlags().GetBool("dry-run")

			ri, err := prepareRun(cmd)
			if err != nil {
				return fail(r, err, 2)
			}
			defer ri.Close()

			log.Info().
				Str("output", outputRoot).
				Bool("dry_run", dryRun).
				Msg("Materializing schema")

			engine := interp.New(ri.Config, filesystem.NewOS())
			result, err := engine.Materialize(cmd.Context(), ri.Resolved.Tree, outputRoot, ri.Vars, interp.Options{
				DryRun:      dryRun,
				Overwrite:   overwrite,
				SkipHooks:   noHooks,
				ProjectName: project,
			})
			if err != nil {
				return fail(r, err, 2)
			}

			if !dryRun {
				writeUndoManifest(result, outputRoot, project, undoFile)
				if ri.Schema.Template != nil {
					if err := ri.Store.IncrementUseCount(ri.Schema.Template.ID); err != nil {
						log.Warn().Err(err).Str("template", ri.Schema.Template.Name).
							Msg("could not update template use count")
					}
				}
			}

			if err := r.RenderResult(result); err != nil {
				return err
			}
			if result.Summary.Errors > 0 {
				return &ExitCodeError{Code: 1}
			}
			return nil
		},
	}

	cmd.Flags().StringP("schema", "s", "", MsgFlagSchema)
	cmd.Flags().StringP("template", "t", "", MsgFlagTemplate)
	cmd.Flags().StringP("output", "o", ".", MsgFlagOutput)
	cmd.Flags().StringArray("var", nil, MsgFlagVar)
	cmd.Flags().String("vars-file", "", MsgFlagVarsFile)
	cmd.Flags().StringP("project", "p", "", MsgFlagProject)
	cmd.Flags().Bool("overwrite", false, MsgFlagOverwrite)
	cmd.Flags().Bool("no-hooks", false, MsgFlagNoHooks)
	cmd.Flags().String("undo-file", "", MsgFlagUndoFile)
	_ = cmd.RegisterFlagCompletionFunc("template", templateNamesCompletion)

	return cmd
}

// writeUndoManifest records what the run created so undo can reverse it.
// A manifest that cannot be written is a warning, not a failed create.
func writeUndoManifest(result *types.CreateResult, outputRoot, project, undoFile string) {
	path := undoFile
	if path == "" {
		p, err := initPaths()
		if err != nil {
			log.Warn().Err(err).Msg("undo manifest not written")
			return
		}
		path = p.ManifestPath()
	}

	m := undo.NewManifest(outputRoot, project, result.CreatedItems)
	if err := undo.WriteManifest(path, m); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("undo manifest not written")
		return
	}
	log.Debug().Str("path", path).Int("items", len(m.Items)).Msg("undo manifest written")
}
