package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorBlue    lipgloss.Color = "#60a5fa"
	colorGreen   lipgloss.Color = "#a6e3a1"
	colorRed     lipgloss.Color = "#f38ba8"
	colorText    lipgloss.Color = "#cdd6f4"
	colorSubtext lipgloss.Color = "#a6adc8"
	colorSurface lipgloss.Color = "#45475a"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorBlue).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Foreground(colorSubtext)
	inputStyle   = lipgloss.NewStyle().Foreground(colorText).Border(lipgloss.RoundedBorder()).BorderForeground(colorSurface).Padding(0, 1)
	focusedStyle = inputStyle.BorderForeground(colorBlue)
	buttonStyle  = lipgloss.NewStyle().Foreground(colorText).Background(colorSurface).Padding(0, 2)
	activeButton = buttonStyle.Background(colorBlue).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(colorGreen)
	errorStyle   = lipgloss.NewStyle().Foreground(colorRed)
	helpStyle    = lipgloss.NewStyle().Foreground(colorSubtext).MarginTop(1)
)
