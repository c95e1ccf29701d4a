package sprout

import (
	"github.com/arthur-debert/sprout/pkg/inherit"
	"github.com/arthur-debert/sprout/pkg/schema"
	"github.com/arthur-debert/sprout/pkg/substitute"
	"github.com/arthur-debert/sprout/pkg/types"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "parse",
		Short:   MsgParseShort,
		Long:    MsgParseLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRenderer(cmd)
			if err != nil {
				return err
			}

			schemaPath, _ := cmd.Flags().GetString("schema")
			templateName, _ := cmd.Flags().GetString("template")
			showVars, _ := cmd.Flags().GetBool("vars")

			cfg, err := loadConfig()
			if err != nil {
				return fail(r, err, 1)
			}

			st, err := openStoreFor(templateName)
			if err != nil {
				return fail(r, err, 1)
			}
			if st != nil {
				defer func() { _ = st.Close() }()
			}

			input, err := resolveSchemaInput(cmd, st, schemaPath, templateName)
			if err != nil {
				return fail(r, err, 1)
			}

			// Fold the extends chain first so the printed tree is the one
			// a create would materialize.
			resolved, err := inherit.ResolveWithMaxDepth(input.XML, storeLoader(st), cfg.Inherit.MaxDepth)
			if err != nil {
				return fail(r, err, 1)
			}

			if showVars {
				report := buildVariableReport(schema.Serialize(resolved.Tree), resolved.Tree)
				return r.RenderResult(report)
			}
			return r.RenderResult(resolved.Tree)
		},
	}

	cmd.Flags().StringP("schema", "s", "", MsgFlagSchema)
	cmd.Flags().StringP("template", "t", "", MsgFlagTemplate)
	cmd.Flags().Bool("vars", false, MsgFlagVars)
	_ = cmd.RegisterFlagCompletionFunc("template", templateNamesCompletion)

	return cmd
}

// buildVariableReport splits a schema's variable references into the
// names the caller must supply and the ones the engine fills in itself.
func buildVariableReport(content string, tree *types.SchemaTree) *types.VariableReport {
	provided := make(map[string]bool, len(substitute.BuiltinNames))
	for _, name := range substitute.BuiltinNames {
		provided[name] = true
	}
	collectLoopNames(tree.Root, provided)

	report := &types.VariableReport{}
	for _, name := range substitute.ExtractVariables(content) {
		if provided[name] {
			report.Provided = append(report.Provided, name)
		} else {
			report.Variables = append(report.Variables, name)
		}
	}
	return report
}

// collectLoopNames adds each repeat node's iteration variable, in both
// its zero-based and one-based forms.
func collectLoopNames(node *types.SchemaNode, names map[string]bool) {
	if node == nil {
		return
	}
	if node.Kind == types.NodeRepeat {
		as := node.RepeatAs
		if as == "" {
			as = "i"
		}
		names[as] = true
		names[as+"_1"] = true
	}
	for _, child := range node.Children {
		collectLoopNames(child, names)
	}
}
