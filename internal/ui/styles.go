package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#D97706") // Amber
	ColorSecondary = lipgloss.Color("#0EA5E9") // Sky
	ColorSuccess   = lipgloss.Color("#10B981") // Green
	ColorWarning   = lipgloss.Color("#F59E0B") // Yellow
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorText      = lipgloss.Color("#F9FAFB") // Off white
)

// Text styles
var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorSecondary)
	SuccessStyle  = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	ErrorStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	MutedStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
	BoldStyle     = lipgloss.NewStyle().Bold(true)

	CodeStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Background(lipgloss.Color("#1F2937")).
			Padding(0, 1)

	CommandStyle = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
)

// Device listing styles
var (
	DeviceIDStyle           = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
	DeviceNameStyle         = lipgloss.NewStyle().Foreground(ColorText)
	DeviceManufacturerStyle = lipgloss.NewStyle().Foreground(ColorMuted)
)

// Mapping listing and monitor styles
var (
	ProfileStyle       = lipgloss.NewStyle().Bold(true).Foreground(ColorText)
	ActiveProfileStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	RawEventStyle      = lipgloss.NewStyle().Foreground(ColorMuted)
	SemanticStyle      = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	TableHeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Padding(0, 1)
	TableCellStyle     = lipgloss.NewStyle().Padding(0, 1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)
)

// Title renders a styled title
func Title(text string) string {
	return TitleStyle.Render(text)
}

// Success renders success text with a checkmark
func Success(text string) string {
	return SuccessStyle.Render("✓ " + text)
}

// Warning renders warning text
func Warning(text string) string {
	return WarningStyle.Render("⚠ " + text)
}

// Error renders error text
func Error(text string) string {
	return ErrorStyle.Render("✗ " + text)
}

// Muted renders dimmed text
func Muted(text string) string {
	return MutedStyle.Render(text)
}

// Code renders inline code
func Code(text string) string {
	return CodeStyle.Render(text)
}

// Bold renders bold text
func Bold(text string) string {
	return BoldStyle.Render(text)
}
