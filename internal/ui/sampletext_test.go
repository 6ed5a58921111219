package ui

import (
	"math"
	"strings"
	"testing"

	"cardstudio/internal/domain"
	"cardstudio/internal/editor"
	"cardstudio/internal/textlayout"
)

func newTextPreviewSession(t *testing.T, el domain.LayoutElement) *editor.Session {
	t.Helper()
	s := domain.LayoutSettings{
		SelectedPresetID: "p",
		SizePresets:      []domain.ImageSizePreset{{ID: "sq", Name: "square", Width: 1000, Height: 1000}},
		Presets: []domain.LayoutPreset{
			{ID: "p", Name: "preview", ImageSizePresetID: "sq", Elements: []domain.LayoutElement{el}},
		},
	}
	sess, err := editor.NewSession(&s, 500)
	if err != nil {
		t.Fatal(err)
	}
	return sess
}

// The canvas preview must break lines where the compositor will: wrapping
// runs at actual-pixel width with the element's line clamp, and overflow
// past the clamp ends in an ellipsis. With the bitmap face every rune
// advances 7px, so a 36px-wide box holds 5 runes per line.
func TestSampleTextLinesWrapAndClamp(t *testing.T) {
	el := domain.LayoutElement{
		ID: "title", Name: "제목", Enabled: true, Type: domain.TypeText,
		X: 10, Y: 10, Width: 3.6, Height: 10,
		SampleText: "가나다라마바사아자차카타파하",
		TextStyle:  &domain.TextStyle{FontSize: 40, Color: "#EF4444"},
	}
	sess := newTextPreviewSession(t, el)
	got := sampleTextLines(sess, sess.Preset().Element("title"), textlayout.BasicProvider{}, "")

	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2 (title clamps at 2)", len(got))
	}
	if got[0].Text != "가나다라마" {
		t.Fatalf("first line = %q", got[0].Text)
	}
	if !strings.HasSuffix(got[1].Text, textlayout.Ellipsis) {
		t.Fatalf("clamped line %q must end with the ellipsis", got[1].Text)
	}
	if got[1].Text != "바사아자"+textlayout.Ellipsis {
		t.Fatalf("second line = %q", got[1].Text)
	}

	rect := sess.ElementRect(sess.Preset().Element("title"))
	if got[0].X != rect.X || got[0].Y != rect.Y {
		t.Fatalf("first line at (%v,%v), want element origin (%v,%v)", got[0].X, got[0].Y, rect.X, rect.Y)
	}
	// Face7x13 line height is 13 actual px; at scale 2 that is 6.5 canvas px.
	if math.Abs(got[0].LineH-6.5) > 1e-9 {
		t.Fatalf("line height = %v, want 6.5", got[0].LineH)
	}
	if math.Abs(got[1].Y-(rect.Y+6.5)) > 1e-9 {
		t.Fatalf("second line y = %v, want %v", got[1].Y, rect.Y+6.5)
	}
	// 40px actual font renders at 20 canvas px.
	if math.Abs(got[0].SizePx-20) > 1e-9 {
		t.Fatalf("canvas font size = %v, want 20", got[0].SizePx)
	}
}

func TestSampleTextLinesSkipsNonText(t *testing.T) {
	el := domain.LayoutElement{
		ID: "background", Name: "배경", Enabled: true, Type: domain.TypeBackground,
		X: 0, Y: 0, Width: 100, Height: 100,
		BackgroundStyle: &domain.BackgroundStyle{Color: "#FFFFFF", Opacity: 1},
	}
	sess := newTextPreviewSession(t, el)
	if got := sampleTextLines(sess, sess.Preset().Element("background"), textlayout.BasicProvider{}, ""); got != nil {
		t.Fatalf("background yielded %d preview lines", len(got))
	}
}

func TestSampleTextLinesEmptySample(t *testing.T) {
	el := domain.LayoutElement{
		ID: "subtitle", Name: "부제", Enabled: true, Type: domain.TypeText,
		X: 5, Y: 5, Width: 50, Height: 8,
		TextStyle: &domain.TextStyle{FontSize: 48, Color: "#EC4899"},
	}
	sess := newTextPreviewSession(t, el)
	if got := sampleTextLines(sess, sess.Preset().Element("subtitle"), textlayout.BasicProvider{}, ""); got != nil {
		t.Fatalf("empty sample yielded %d preview lines", len(got))
	}
}

func TestDashSegmentsCoverPerimeter(t *testing.T) {
	r := editor.Rect{X: 10, Y: 20, W: 100, H: 50}
	segs := dashSegments(r, 6, 4)
	// 10 dashes per 100px edge, 5 per 50px edge.
	if len(segs) != 30 {
		t.Fatalf("got %d segments, want 30", len(segs))
	}
	first := segs[0]
	if first.X1 != 10 || first.Y1 != 20 || first.X2 != 16 || first.Y2 != 20 {
		t.Fatalf("first dash = %+v, want (10,20)-(16,20)", first)
	}
	for i, sg := range segs {
		l := math.Hypot(sg.X2-sg.X1, sg.Y2-sg.Y1)
		if l <= 0 || l > 6+1e-9 {
			t.Fatalf("segment %d has length %v", i, l)
		}
		for _, pt := range [][2]float64{{sg.X1, sg.Y1}, {sg.X2, sg.Y2}} {
			onX := pt[0] >= r.X-1e-9 && pt[0] <= r.X+r.W+1e-9
			onY := pt[1] >= r.Y-1e-9 && pt[1] <= r.Y+r.H+1e-9
			if !onX || !onY {
				t.Fatalf("segment %d endpoint %v leaves the rectangle", i, pt)
			}
		}
	}
}
