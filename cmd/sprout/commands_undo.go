package sprout

import (
	"os"

	"github.com/arthur-debert/sprout/pkg/filesystem"
	"github.com/arthur-debert/sprout/pkg/undo"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newUndoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "undo",
		Short:   MsgUndoShort,
		Long:    MsgUndoLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRenderer(cmd)
			if err != nil {
				return err
			}

			manifestPath, _ := cmd.Flags().GetString("manifest")
			dryRun, _ := cmd.Root().PersistentFlags().GetBool("dry-run")

			usedDefault := manifestPath == ""
			if usedDefault {
				p, err := initPaths()
				if err != nil {
					return fail(r, err, 2)
				}
				manifestPath = p.ManifestPath()
			}

			m, err := undo.ReadManifest(manifestPath)
			if err != nil {
				return fail(r, err, 2)
			}

			log.Info().
				Str("manifest", manifestPath).
				Int("items", len(m.Items)).
				Bool("dry_run", dryRun).
				Msg("Reversing create")

			result := undo.Run(filesystem.NewOS(), m.Items, dryRun)
			if err := r.RenderResult(result); err != nil {
				return err
			}

			// A cleanly undone default manifest is spent; remove it so a
			// second undo cannot re-run against stale items. Explicitly
			// named manifests are the user's files and are left alone.
			if usedDefault && !dryRun && result.Summary.Errors == 0 {
				if err := os.Remove(manifestPath); err != nil {
					log.Warn().Err(err).Str("path", manifestPath).Msg("could not remove spent manifest")
				}
			}

			if result.Summary.Errors > 0 {
				return &ExitCodeError{Code: 1}
			}
			return nil
		},
	}

	cmd.Flags().String("manifest", "", MsgFlagManifest)

	return cmd
}
