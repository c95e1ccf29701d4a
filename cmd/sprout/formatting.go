package sprout

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// isTerminal checks if we're outputting to a terminal
func isTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// formatBold returns text in bold if outputting to a terminal
func formatBold(text string) string {
	if isTerminal() {
		return pterm.Bold.Sprint(text)
	}
	return text
}

// formatUpper returns text in uppercase
func formatUpper(text string) string {
	return strings.ToUpper(text)
}

// formatBoldUpper returns text in bold uppercase if outputting to a terminal
func formatBoldUpper(text string) string {
	return formatBold(formatUpper(text))
}

// initTemplateFormatting registers the formatting functions with cobra templates.
// Must be called before any help text is rendered.
func initTemplateFormatting() {
	cobra.AddTemplateFuncs(map[string]interface{}{
		"bold":      formatBold,
		"upper":     formatUpper,
		"boldUpper": formatBoldUpper,
	})
}
