package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/geoquiz/internal/ui/components"
	"github.com/abhisek/geoquiz/internal/ui/theme"
)

const arcadeTitleFull = `  ██████╗ ███████╗ ██████╗  ██████╗ ██╗   ██╗██╗███████╗
 ██╔════╝ ██╔════╝██╔═══██╗██╔═══██╗██║   ██║██║╚══███╔╝
 ██║  ███╗█████╗  ██║   ██║██║   ██║██║   ██║██║  ███╔╝
 ██║   ██║██╔══╝  ██║   ██║██║▄▄ ██║██║   ██║██║ ███╔╝
 ╚██████╔╝███████╗╚██████╔╝╚██████╔╝╚██████╔╝██║███████╗
  ╚═════╝ ╚══════╝ ╚═════╝  ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝`

const arcadeTitleCompact = "G · E · O · Q · U · I · Z"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	title := arcadeTitleFull
	if compact {
		title = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderStatsBar renders the library totals in a double-bordered box.
func renderStatsBar(quizzes, datasets, plays, cw int, compact bool) string {
	quizStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	datasetStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	playStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			quizStyle.Render(fmt.Sprintf("?%d", quizzes)),
			datasetStyle.Render(fmt.Sprintf("◇%d", datasets)),
			playStyle.Render(fmt.Sprintf("▶%d", plays)),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			quizStyle.Render(fmt.Sprintf("? %d QUIZZES", quizzes)),
			datasetStyle.Render(fmt.Sprintf("◇ %d MAPS", datasets)),
			playStyle.Render(fmt.Sprintf("▶ %d PLAYED", plays)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderQuizMenu renders the quiz list inside a card, or a hint when the
// library is empty.
func renderQuizMenu(menu components.Menu, cw int) string {
	if len(menu.Items) == 0 {
		return components.Card{Title: "EMPTY LIBRARY"}.Render(theme.Hint.Render(
			"No quizzes yet.\nImport a dataset and create a quiz:\n\n"+
				"geoquiz dataset import <file.geojson>\ngeoquiz quiz create"), cw)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(0, 1).
		Render(strings.TrimRight(menu.View(), "\n"))
}
