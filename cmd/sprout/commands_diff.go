package sprout

import (
	"github.com/arthur-debert/sprout/pkg/filesystem"
	"github.com/arthur-debert/sprout/pkg/preview"
	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "diff",
		Short:   MsgDiffShort,
		Long:    MsgDiffLong,
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

			ri, err := prepareRun(cmd)
			if err != nil {
				return fail(r, err, 1)
			}
			defer ri.Close()

			pv := preview.New(ri.Config, filesystem.NewOS())
			result, err := pv.Preview(ri.Resolved.Tree, outputRoot, ri.Vars, preview.Options{
				Overwrite:   overwrite,
				ProjectName: project,
			})
			if err != nil {
				return fail(r, err, 1)
			}

			return r.RenderResult(result)
		},
	}

	cmd.Flags().StringP("schema", "s", "", MsgFlagSchema)
	cmd.Flags().StringP("template", "t", "", MsgFlagTemplate)
	cmd.Flags().StringP("output", "o", ".", MsgFlagOutput)
	cmd.Flags().StringArray("var", nil, MsgFlagVar)
	cmd.Flags().String("vars-file", "", MsgFlagVarsFile)
	cmd.Flags().StringP("project", "p", "", MsgFlagProject)
	cmd.Flags().Bool("overwrite", false, MsgFlagOverwrite)
	_ = cmd.RegisterFlagCompletionFunc("template", templateNamesCompletion)

	return cmd
}
