// Package render turns run results into aligned, colored terminal output.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal palette.
var (
	colorGood   = lipgloss.Color("#b8bb26")
	colorWarn   = lipgloss.Color("#fabd2f")
	colorBad    = lipgloss.Color("#fb4934")
	colorDim    = lipgloss.Color("#928374")
	colorHeader = lipgloss.Color("#d65d0e")
)

var (
	styleGood   = lipgloss.NewStyle().Foreground(colorGood)
	styleWarn   = lipgloss.NewStyle().Foreground(colorWarn)
	styleBad    = lipgloss.NewStyle().Foreground(colorBad)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleHeader = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
)

// Header renders an uppercased section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", styleHeader.Render(upper), styleDim.Render(line))
}

// Dim renders muted text.
func Dim(text string) string {
	return styleDim.Render(text)
}

// Good renders text in the success color.
func Good(text string) string {
	return styleGood.Render(text)
}

// Bad renders text in the failure color.
func Bad(text string) string {
	return styleBad.Render(text)
}

// Warn renders text in the warning color.
func Warn(text string) string {
	return styleWarn.Render(text)
}
