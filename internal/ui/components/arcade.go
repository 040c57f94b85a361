package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/geoquiz/internal/session"
	"github.com/abhisek/geoquiz/internal/ui/theme"
)

// ContentWidth returns the inner width shared by the cards of a cabinet
// screen, leaving room for the cabinet border and padding.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 60)
}

// CabinetFrame centers content inside a double border.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card is a rounded box with an optional title above the content and a
// legend line below it. A nil Accent draws the border in theme.Border.
type Card struct {
	Title  string
	Legend string
	Accent color.Color
}

// Render draws the card at content width cw.
func (c Card) Render(content string, cw int) string {
	border := c.Accent
	if border == nil {
		border = theme.Border
	}

	var b strings.Builder
	if c.Title != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(border).Bold(true).Render(c.Title))
		b.WriteString("\n")
	}
	b.WriteString(content)
	if c.Legend != "" {
		b.WriteString("\n")
		b.WriteString(c.Legend)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(b.String())
}

// AnswerAccent is the card border for a question in the given state.
func AnswerAccent(status session.AnswerStatus) color.Color {
	switch status {
	case session.AnswerCorrect:
		return theme.RegionCorrect
	case session.AnswerWrong:
		return theme.RegionWrong
	default:
		return nil
	}
}

var legendOrder = []struct {
	h     session.Highlight
	label string
	color color.Color
}{
	{session.HighlightTarget, "target", theme.RegionTarget},
	{session.HighlightCorrect, "correct", theme.RegionCorrect},
	{session.HighlightWrong, "wrong", theme.RegionWrong},
}

// HighlightLegend counts the highlighted regions per state, skipping states
// no region is in. It returns "" when nothing is highlighted.
func HighlightLegend(states map[string]session.Highlight) string {
	counts := make(map[session.Highlight]int, len(legendOrder))
	for _, h := range states {
		counts[h]++
	}

	parts := make([]string, 0, len(legendOrder))
	for _, l := range legendOrder {
		n := counts[l.h]
		if n == 0 {
			continue
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(l.color).Render(fmt.Sprintf("● %d %s", n, l.label)))
	}
	return strings.Join(parts, "  ")
}

// ArcadeButton renders a menu-style button.
func ArcadeButton(label string, selected bool, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if selected {
		return style.
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			BorderForeground(theme.ArcadeYellow).
			Render("▸ " + label)
	}
	return style.
		Foreground(theme.Text).
		BorderForeground(theme.Border).
		Render(label)
}
