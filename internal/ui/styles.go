package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
)

// SelectedItem style for the currently highlighted item.
var SelectedItem = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary)

// NormalItem style for unselected, unread items.
var NormalItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255"))

// ReadItem style for items already marked read.
var ReadItem = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ChannelName style for the channel column.
var ChannelName = lipgloss.NewStyle().
	Foreground(colorPrimary)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in the status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in the status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true)

// PromptStyle for the filter and search prompts.
var PromptStyle = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// InfoTitle style for the detail view heading.
var InfoTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// InfoLabel style for field names in the detail view.
var InfoLabel = lipgloss.NewStyle().
	Foreground(colorMuted)
