package components

import (
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/geoquiz/internal/geo"
	"github.com/abhisek/geoquiz/internal/session"
	"github.com/abhisek/geoquiz/internal/ui/theme"
)

// MiniMap plots region centers on a character grid using an
// equirectangular projection of the dataset's extent. Highlighted regions
// and the focused region are drawn on top of plain ones.
type MiniMap struct {
	Centers map[string]geo.Point
	States  map[string]session.Highlight
	Focus   string
}

type mapCell struct {
	glyph string
	style lipgloss.Style
	rank  int
}

// View renders the map into a width x height grid. Regions without a center
// are not drawn. An empty map renders nothing.
func (m MiniMap) View(width, height int) string {
	if len(m.Centers) == 0 || width < 2 || height < 2 {
		return ""
	}

	var extent geo.Box
	first := true
	for _, p := range m.Centers {
		b := geo.Box{Min: p, Max: p}
		if first {
			extent, first = b, false
		} else {
			extent = extent.Extend(b)
		}
	}

	grid := make([][]mapCell, height)
	for y := range grid {
		grid[y] = make([]mapCell, width)
	}

	for id, p := range m.Centers {
		x := scale(p.Lon, extent.Min.Lon, extent.Max.Lon, width)
		y := height - 1 - scale(p.Lat, extent.Min.Lat, extent.Max.Lat, height)
		cell := m.cell(id)
		if cell.rank >= grid[y][x].rank {
			grid[y][x] = cell
		}
	}

	var b strings.Builder
	for y, row := range grid {
		for _, c := range row {
			if c.glyph == "" {
				b.WriteString(" ")
				continue
			}
			b.WriteString(c.style.Render(c.glyph))
		}
		if y < len(grid)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m MiniMap) cell(id string) mapCell {
	switch m.States[id] {
	case session.HighlightTarget:
		return mapCell{glyph: "●", style: lipgloss.NewStyle().Foreground(theme.RegionTarget).Bold(true), rank: 4}
	case session.HighlightWrong:
		return mapCell{glyph: "●", style: lipgloss.NewStyle().Foreground(theme.RegionWrong).Bold(true), rank: 3}
	case session.HighlightCorrect:
		return mapCell{glyph: "●", style: lipgloss.NewStyle().Foreground(theme.RegionCorrect).Bold(true), rank: 3}
	}
	if id == m.Focus {
		return mapCell{glyph: "◆", style: theme.Selected, rank: 2}
	}
	return mapCell{glyph: "·", style: lipgloss.NewStyle().Foreground(theme.TextDim), rank: 1}
}

// scale maps v from [lo, hi] onto a cell index in [0, n).
func scale(v, lo, hi float64, n int) int {
	if hi-lo < 1e-9 {
		return n / 2
	}
	i := int(math.Round((v - lo) / (hi - lo) * float64(n-1)))
	return min(max(i, 0), n-1)
}
