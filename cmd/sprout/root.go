package sprout

import (
	"fmt"
	"os"

	"github.com/arthur-debert/sprout/docs"
	"github.com/arthur-debert/sprout/internal/version"
	"github.com/arthur-debert/sprout/pkg/cobrax/topics"
	"github.com/arthur-debert/sprout/pkg/logging"
	"github.com/arthur-debert/sprout/pkg/paths"
	"github.com/arthur-debert/sprout/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// ExitCodeError carries the exit status of a command whose outcome has
// already been rendered. main exits with the code without printing the
// error again.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	var (
		verbosity int
		dryRun    bool
		jsonOut   bool
	)

	rootCmd := &cobra.Command{
		Use:     "sprout",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// If we get here, no subcommand was provided
			// Show help but return an error to indicate incorrect usage
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, MsgFlagJSON)

	// Disable automatic help command (we'll use our custom one from topics)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	// Set custom help template
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	// Add all commands
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newDiffCmd())
	rootCmd.AddCommand(newUndoCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newTemplatesCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Initialize topic-based help system from the embedded documents
	if err := topics.InitializeWithOptions(rootCmd, docs.Topics, "topics", topics.Options{
		Extensions: []string{".md"},
		Renderer:   topics.NewGlamourRenderer(),
	}); err != nil {
		log.Warn().Err(err).Msg("help topics unavailable")
	}

	return rootCmd
}

// initPaths resolves the directory layout every command depends on
func initPaths() (paths.Paths, error) {
	p, err := paths.New()
	if err != nil {
		return nil, fmt.Errorf(MsgErrInitPaths, err)
	}
	return p, nil
}

// newRenderer builds the renderer a command writes its outcome through,
// honoring the persistent --json flag
func newRenderer(cmd *cobra.Command) (ui.Renderer, error) {
	jsonOut, _ := cmd.Root().PersistentFlags().GetBool("json")
	format := ui.FormatAuto
	if jsonOut {
		format = ui.FormatJSON
	}
	r, err := ui.NewRenderer(format, cmd.OutOrStdout())
	if err != nil {
		return nil, fmt.Errorf(MsgErrInvalidFormat, err)
	}
	return r, nil
}

// fail renders err and converts it into a bare exit status so main does
// not print it a second time
func fail(r ui.Renderer, err error, code int) error {
	_ = r.RenderError(err)
	return &ExitCodeError{Code: code}
}

// renderOutcome emits the full result when --json is set, or the short
// human message otherwise
func renderOutcome(cmd *cobra.Command, r ui.Renderer, result interface{}, message string) error {
	jsonOut, _ := cmd.Root().PersistentFlags().GetBool("json")
	if jsonOut {
		return r.RenderResult(result)
	}
	return r.RenderMessage(message)
}

// templateNamesCompletion provides shell completion for saved template names
func templateNamesCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	st, err := openStore()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer func() { _ = st.Close() }()

	templates, err := st.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var names []string
	for _, t := range templates {
		names = append(names, t.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Find the help command and execute it with "topics" argument
			if helpCmd, _, err := cmd.Root().Find([]string{"help"}); err == nil {
				if helpCmd.RunE != nil {
					return helpCmd.RunE(helpCmd, []string{"topics"})
				} else if helpCmd.Run != nil {
					helpCmd.Run(helpCmd, []string{"topics"})
					return nil
				}
			}
			return fmt.Errorf("help command not found")
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}
