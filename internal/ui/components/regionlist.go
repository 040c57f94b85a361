package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"golang.org/x/text/cases"

	"github.com/abhisek/geoquiz/internal/geo"
	"github.com/abhisek/geoquiz/internal/session"
	"github.com/abhisek/geoquiz/internal/ui/theme"
)

// RegionList is the terminal stand-in for a map: every region of the
// dataset in label order, colored by its highlight. Typing filters the
// list; the arrow keys move the cursor. Picking a region is left to the
// caller through Selected.
type RegionList struct {
	Regions  []geo.Region
	States   map[string]session.Highlight
	Disabled bool
	Cursor   int
	Filter   TextInput

	fold    cases.Caser
	visible []int
}

// NewRegionList creates a list over regions, which should already be sorted.
func NewRegionList(regions []geo.Region) RegionList {
	l := RegionList{
		Regions: regions,
		Filter:  NewTextInput("type to filter", 40),
		fold:    cases.Fold(),
	}
	l.refilter()
	return l
}

// Update moves the cursor on up/down and feeds every other key to the filter.
func (l RegionList) Update(msg tea.Msg) (RegionList, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up":
			if l.Cursor > 0 {
				l.Cursor--
			}
			return l, nil
		case "down":
			if l.Cursor < len(l.visible)-1 {
				l.Cursor++
			}
			return l, nil
		case "enter", "esc":
			return l, nil
		}
	}

	before := l.Filter.Value()
	var cmd tea.Cmd
	l.Filter, cmd = l.Filter.Update(msg)
	if l.Filter.Value() != before {
		l.refilter()
	}
	return l, cmd
}

// SetFilter replaces the filter text.
func (l *RegionList) SetFilter(s string) {
	l.Filter.SetValue(s)
	l.refilter()
}

// ClearFilter empties the filter and shows every region again.
func (l *RegionList) ClearFilter() {
	l.Filter.Clear()
	l.refilter()
}

// Visible returns the regions that match the filter, in list order.
func (l RegionList) Visible() []geo.Region {
	out := make([]geo.Region, 0, len(l.visible))
	for _, i := range l.visible {
		out = append(out, l.Regions[i])
	}
	return out
}

// Selected returns the ID of the region under the cursor.
func (l RegionList) Selected() (string, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.visible) {
		return "", false
	}
	return l.Regions[l.visible[l.Cursor]].ID, true
}

func (l *RegionList) refilter() {
	needle := l.fold.String(strings.TrimSpace(l.Filter.Value()))
	visible := make([]int, 0, len(l.Regions))
	for i, r := range l.Regions {
		if needle == "" || strings.Contains(l.fold.String(r.Label), needle) {
			visible = append(visible, i)
		}
	}
	l.visible = visible
	if l.Cursor >= len(l.visible) {
		l.Cursor = len(l.visible) - 1
	}
	if l.Cursor < 0 {
		l.Cursor = 0
	}
}

// View renders the filter box and as many rows as fit in height, keeping
// the cursor in view.
func (l RegionList) View(width, height int) string {
	var b strings.Builder
	b.WriteString(l.Filter.View())
	b.WriteString("\n\n")

	rows := max(height-2, 1)
	start := 0
	if l.Cursor >= rows {
		start = l.Cursor - rows + 1
	}
	end := min(start+rows, len(l.visible))

	if len(l.visible) == 0 {
		b.WriteString(theme.Hint.Render("  no matching regions"))
		return b.String()
	}

	for pos := start; pos < end; pos++ {
		r := l.Regions[l.visible[pos]]
		prefix := "  "
		if pos == l.Cursor && !l.Disabled {
			prefix = "▸ "
		}
		line := lipgloss.NewStyle().MaxWidth(width).Render(prefix + r.Label)
		b.WriteString(RegionStyle(l.States[r.ID], pos == l.Cursor, l.Disabled).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// RegionStyle returns the style for a region row with the given highlight.
func RegionStyle(h session.Highlight, cursor, disabled bool) lipgloss.Style {
	switch h {
	case session.HighlightTarget:
		return theme.RegionTargetStyle
	case session.HighlightCorrect:
		return theme.RegionCorrectStyle
	case session.HighlightWrong:
		return theme.RegionWrongStyle
	}
	switch {
	case disabled:
		return theme.Disabled
	case cursor:
		return theme.Selected
	default:
		return theme.Unselected
	}
}
