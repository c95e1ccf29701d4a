package sprout

import (
	"fmt"
	"os"

	"github.com/arthur-debert/sprout/pkg/errors"
	"github.com/arthur-debert/sprout/pkg/schema"
	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "scan <directory>",
		Short:   MsgScanShort,
		Long:    MsgScanLong,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRenderer(cmd)
			if err != nil {
				return err
			}

			outPath, _ := cmd.Flags().GetString("output")
			jsonOut, _ := cmd.Root().PersistentFlags().GetBool("json")

			tree, err := schema.ScanFolder(args[0])
			if err != nil {
				return fail(r, err, 1)
			}
			xml := schema.Serialize(tree)

			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(xml), 0o644); err != nil {
					return fail(r, errors.Wrapf(err, errors.ErrFileAccess, "cannot write %s", outPath), 1)
				}
				return renderOutcome(cmd, r,
					map[string]string{"path": outPath},
					fmt.Sprintf(MsgSchemaWritten, outPath))
			}

			if jsonOut {
				return r.RenderResult(map[string]string{"schema_xml": xml})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), xml)
			return err
		},
	}

	cmd.Flags().StringP("output", "o", "", MsgFlagScanOutput)

	return cmd
}
