package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Base styles
var (
	// Headers and titles
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	// Text styles
	NormalStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// Status styles
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// Box and container styles
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)

	// List styles
	ListItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	// Code and path styles
	CodeStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Background(SurfaceColor).
			Padding(0, 1)

	PathStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Italic(true)
)

// Node kind styles
var (
	FolderStyle = lipgloss.NewStyle().
			Foreground(FolderColor).
			Bold(true)

	FileStyle = lipgloss.NewStyle().
			Foreground(FileColor).
			Bold(true)

	DownloadStyle = lipgloss.NewStyle().
			Foreground(DownloadColor).
			Bold(true)

	GeneratorStyle = lipgloss.NewStyle().
			Foreground(GeneratorColor).
			Bold(true)
)

// Diff line styles. Additions and removals stay unbolded so hunk bodies
// read as content rather than status.
var (
	DiffAddStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	DiffRemoveStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	DiffContextStyle = lipgloss.NewStyle().
				Foreground(MutedColor)

	DiffHeaderStyle = lipgloss.NewStyle().
			Foreground(InfoColor)
)

// Operation indicator styles
var (
	SuccessIndicator  = SuccessStyle.Render("✓")
	ErrorIndicator    = ErrorStyle.Render("✗")
	WarningIndicator  = WarningStyle.Render("!")
	InfoIndicator     = InfoStyle.Render("•")
	PendingIndicator  = MutedStyle.Render("○")
	ProgressIndicator = InfoStyle.Render("⟳")
)

// Helper functions
func Indent(s string, level int) string {
	return lipgloss.NewStyle().PaddingLeft(level * 2).Render(s)
}

func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Render(s)
}

func Italic(s string) string {
	return lipgloss.NewStyle().Italic(true).Render(s)
}

func Underline(s string) string {
	return lipgloss.NewStyle().Underline(true).Render(s)
}
