package layout

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/geoquiz/internal/ui/theme"
)

const (
	// MinWidth and MinHeight leave room for the question column next to
	// the mini-map.
	MinWidth  = 80
	MinHeight = 24

	HeaderHeight = 3
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Tone colors a footer notice.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneInfo
	ToneGood
	ToneBad
)

func (t Tone) color() color.Color {
	switch t {
	case ToneInfo:
		return theme.RegionTarget
	case ToneGood:
		return theme.RegionCorrect
	case ToneBad:
		return theme.RegionWrong
	default:
		return theme.TextDim
	}
}

// Notice is a short message shown at the right of the footer, such as the
// verdict of the current answer or the filter match count.
type Notice struct {
	Text string
	Tone Tone
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// IsCompact reports whether a screen body of this size should drop
// decorative art.
func IsCompact(width, bodyHeight int) bool {
	return width < 100 || bodyHeight < 22
}

func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"The map needs more room.\n\nResize to at least %d x %d\n(now %d x %d)",
			MinWidth, MinHeight, width, height,
		))
}

// RenderHeader renders the application header bar. status is shown on the
// right and may be empty.
func RenderHeader(title, status string, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("  GeoQuiz")

	center := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(title)

	right := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Render(status)

	inner := max(width-4, 0)
	leftGap := max((inner-lipgloss.Width(center))/2-lipgloss.Width(left), 1)
	rightGap := max(inner-lipgloss.Width(left)-leftGap-lipgloss.Width(center)-lipgloss.Width(right), 1)

	return bar(left+strings.Repeat(" ", leftGap)+center+strings.Repeat(" ", rightGap)+right, width)
}

// RenderFooter renders the key hints with the notice right-aligned.
func RenderFooter(hints []KeyHint, notice Notice, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, key.Render(h.Key)+" "+desc.Render(h.Description))
	}
	left := "  " + strings.Join(parts, "   ")

	if notice.Text == "" {
		return bar(left, width)
	}
	right := lipgloss.NewStyle().Foreground(notice.Tone.color()).Bold(true).Render(notice.Text)
	gap := width - 4 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		// no room for the notice
		return bar(left, width)
	}
	return bar(left+strings.Repeat(" ", gap)+right, width)
}

func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderFrame stacks header, body and footer. body receives the space left
// between header and footer.
func RenderFrame(header, footer string, width, height int, body func(width, height int) string) string {
	bodyHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := lipgloss.NewStyle().
		Width(width).
		Height(bodyHeight).
		Render(body(width, bodyHeight))

	return header + "\n" + content + "\n" + footer
}
