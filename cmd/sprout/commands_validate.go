package sprout

import (
	"github.com/arthur-debert/sprout/pkg/validate"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "validate",
		Short:   MsgValidateShort,
		Long:    MsgValidateLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRenderer(cmd)
			if err != nil {
				return err
			}

			schemaPath, _ := cmd.Flags().GetString("schema")
			templateName, _ := cmd.Flags().GetString("template")
			varFlags, _ := cmd.Flags().GetStringArray("var")
			varsFile, _ := cmd.Flags().GetString("vars-file")

			st, err := openStoreFor(templateName)
			if err != nil {
				return fail(r, err, 2)
			}
			if st != nil {
				defer func() { _ = st.Close() }()
			}

			input, err := resolveSchemaInput(cmd, st, schemaPath, templateName)
			if err != nil {
				return fail(r, err, 2)
			}

			vars, err := collectVars(input, nil, varsFile, varFlags)
			if err != nil {
				return fail(r, err, 2)
			}

			result := validate.Validate(input.XML, vars, storeLoader(st))
			if err := r.RenderResult(result); err != nil {
				return err
			}
			if !result.Valid {
				return &ExitCodeError{Code: 1}
			}
			return nil
		},
	}

	cmd.Flags().StringP("schema", "s", "", MsgFlagSchema)
	cmd.Flags().StringP("template", "t", "", MsgFlagTemplate)
	cmd.Flags().StringArray("var", nil, MsgFlagVar)
	cmd.Flags().String("vars-file", "", MsgFlagVarsFile)
	_ = cmd.RegisterFlagCompletionFunc("template", templateNamesCompletion)

	return cmd
}
