package ui

import (
	"github.com/charmbracelet/lipgloss"

	"parlor/internal/models"
)

// Theme defines the color palette for the chat screen. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Presence dot colors.
	StatusOnline  lipgloss.Color
	StatusOffline lipgloss.Color
	StatusBusy    lipgloss.Color
	StatusAway    lipgloss.Color

	// Message attribution.
	OwnName     lipgloss.Color
	ContactName lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Typing indicator line.
	TypingText lipgloss.Color

	// Reaction pills: base, and the accent when the local user is
	// among the reactors.
	ReactionPill lipgloss.Color
	ReactionOwn  lipgloss.Color
}

// StatusColor returns the presence-dot color for a status. Unknown values
// return FaintText.
func (theme Theme) StatusColor(status models.Status) lipgloss.Color {
	switch status {
	case models.StatusOnline:
		return theme.StatusOnline
	case models.StatusOffline:
		return theme.StatusOffline
	case models.StatusBusy:
		return theme.StatusBusy
	case models.StatusAway:
		return theme.StatusAway
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	StatusOnline:  lipgloss.Color("114"), // green
	StatusOffline: lipgloss.Color("240"), // dim gray
	StatusBusy:    lipgloss.Color("196"), // red
	StatusAway:    lipgloss.Color("220"), // amber

	OwnName:     lipgloss.Color("75"),  // blue
	ContactName: lipgloss.Color("114"), // green

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	TypingText: lipgloss.Color("245"),

	ReactionPill: lipgloss.Color("245"),
	ReactionOwn:  lipgloss.Color("220"),
}
