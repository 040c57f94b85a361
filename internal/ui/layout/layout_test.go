package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestRenderHeader(t *testing.T) {
	out := RenderHeader("Europe", "★ 3   Q 4/10", 100)
	for _, want := range []string{"GeoQuiz", "Europe", "★ 3   Q 4/10"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q", want)
		}
	}
	if h := lipgloss.Height(out); h != HeaderHeight {
		t.Errorf("header height = %d, want %d", h, HeaderHeight)
	}
}

func TestRenderFooter(t *testing.T) {
	hints := []KeyHint{{Key: "Enter", Description: "Next"}, {Key: "Esc", Description: "Back"}}

	out := RenderFooter(hints, Notice{}, 100)
	if !strings.Contains(out, "Enter") || !strings.Contains(out, "Back") {
		t.Errorf("footer = %q", out)
	}

	out = RenderFooter(hints, Notice{Text: "Correct", Tone: ToneGood}, 100)
	if !strings.Contains(out, "Correct") {
		t.Errorf("footer missing notice: %q", out)
	}
	if h := lipgloss.Height(out); h != 3 {
		t.Errorf("footer height = %d, want 3", h)
	}
}

func TestRenderFooter_DropsNoticeWhenCrowded(t *testing.T) {
	hints := []KeyHint{
		{Key: "1-4", Description: "Choose answer"},
		{Key: "Enter", Description: "Confirm"},
		{Key: "Esc", Description: "Back"},
	}
	out := RenderFooter(hints, Notice{Text: "Click the highlighted region", Tone: ToneInfo}, 60)
	if strings.Contains(out, "highlighted") {
		t.Errorf("notice should be dropped at width 60: %q", out)
	}
	if !strings.Contains(out, "Confirm") {
		t.Errorf("hints should survive: %q", out)
	}
}

func TestSizeThresholds(t *testing.T) {
	tests := []struct {
		w, h     int
		tooSmall bool
	}{
		{80, 24, false},
		{79, 24, true},
		{80, 23, true},
		{200, 60, false},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.tooSmall {
			t.Errorf("IsTooSmall(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.tooSmall)
		}
	}

	if !IsCompact(99, 40) || !IsCompact(120, 21) || IsCompact(100, 22) {
		t.Error("compact below 100 columns or 22 body rows")
	}
}

func TestRenderFrame(t *testing.T) {
	var gotW, gotH int
	frame := RenderFrame("H", "F", 20, 10, func(w, h int) string {
		gotW, gotH = w, h
		return "body"
	})
	if h := lipgloss.Height(frame); h != 10 {
		t.Errorf("frame height = %d, want 10", h)
	}
	if gotW != 20 || gotH != 8 {
		t.Errorf("body size = %dx%d, want 20x8", gotW, gotH)
	}
	if !strings.Contains(frame, "body") {
		t.Errorf("frame = %q", frame)
	}
}
