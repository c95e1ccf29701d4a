package sprout

import (
	"fmt"

	"github.com/arthur-debert/sprout/pkg/config"
	"github.com/arthur-debert/sprout/pkg/errors"
	gotoml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRenderer(cmd)
			if err != nil {
				return err
			}

			write, _ := cmd.Flags().GetBool("write")
			jsonOut, _ := cmd.Root().PersistentFlags().GetBool("json")

			if write {
				p, err := initPaths()
				if err != nil {
					return fail(r, err, 1)
				}
				if err := config.WriteDefault(p.ConfigFilePath()); err != nil {
					return fail(r, err, 1)
				}
				return renderOutcome(cmd, r,
					map[string]string{"path": p.ConfigFilePath()},
					fmt.Sprintf(MsgConfigWritten, p.ConfigFilePath()))
			}

			cfg, err := loadConfig()
			if err != nil {
				return fail(r, err, 1)
			}

			if jsonOut {
				return r.RenderResult(cfg)
			}
			data, err := gotoml.Marshal(cfg)
			if err != nil {
				return fail(r, errors.Wrap(err, errors.ErrInternal, "cannot encode configuration"), 1)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	cmd.Flags().Bool("write", false, MsgFlagWrite)

	return cmd
}
