package styles

import "github.com/charmbracelet/lipgloss"

// Nord-ish palette for CLI output
const (
	Red    = "#BF616A" // Errors
	Orange = "#D08770" // Warnings
	Yellow = "#EBCB8B" // Highlights
	Green  = "#A3BE8C" // Success
	Blue   = "#81A1C1" // Links, URLs
	Purple = "#B48EAD" // Titles

	Dim = "#4C566A" // Help text, metadata
)

// Common styles
var (
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	DimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Dim))
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Purple))
	URLStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Blue)).Underline(true)
	TagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Yellow))
)
