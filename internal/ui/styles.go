package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorGold    = lipgloss.Color("#FFD700")
	ColorRed     = lipgloss.Color("#FF0000")
	ColorGreen   = lipgloss.Color("#00FF00")
	ColorYellow  = lipgloss.Color("#FFFF00")
	ColorCyan    = lipgloss.Color("#00FFFF")
	ColorGray    = lipgloss.Color("#666666")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#FFFFFF")
)

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	// Segment visual treatments. Deletion overrides selection overrides gap.
	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorGold).
			Bold(true)

	GapStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DeletedStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Strikethrough(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)

	// Waveform lane.
	WaveStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	WaveSelectedStyle = lipgloss.NewStyle().
				Foreground(ColorGold)

	WaveGapStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	WaveDeletedStyle = lipgloss.NewStyle().
				Foreground(ColorRed)

	BoundaryStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	// Save status.
	SavingStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	SavedStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	UnsavedBadgeStyle = lipgloss.NewStyle().
				Foreground(ColorYellow).
				Bold(true)

	// Table chrome.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorWhite)

	EditingCellStyle = lipgloss.NewStyle().
				Foreground(ColorYellow).
				Bold(true)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)
)
