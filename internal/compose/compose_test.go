package compose

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"cardstudio/internal/domain"
)

func uniform(w, h int, col color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = col.R
		img.Pix[i+1] = col.G
		img.Pix[i+2] = col.B
		img.Pix[i+3] = col.A
	}
	return img
}

var red = color.RGBA{0xFF, 0x00, 0x00, 0xFF}

func backgroundElement(color string, opacity float64) domain.LayoutElement {
	return domain.LayoutElement{
		ID: "background", Name: "bg", Enabled: true, Type: domain.TypeBackground,
		X: 0, Y: 0, Width: 100, Height: 100,
		BackgroundStyle: &domain.BackgroundStyle{Color: color, Opacity: opacity},
	}
}

func TestCompositeBackgroundAlphaSurvivesExactly(t *testing.T) {
	preset := &domain.LayoutPreset{
		ID: "p", Name: "p", ImageSizePresetID: "s",
		Elements: []domain.LayoutElement{
			backgroundElement("#FEF3C7", 0.89),
			{
				ID: "hero_image", Name: "img", Enabled: true, Type: domain.TypeImage,
				X: 50, Y: 50, Width: 50, Height: 50,
			},
		},
	}
	size := domain.ImageSizePreset{ID: "s", Width: 100, Height: 100}
	out, err := Composite(preset, size, uniform(10, 10, red), domain.ContentRecord{}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := color.RGBA{0xFE, 0xF3, 0xC7, 0xE3}
	if got := out.RGBAAt(10, 10); got != want {
		t.Fatalf("background pixel = %v, want %v", got, want)
	}
	if got := out.RGBAAt(75, 75); got != red {
		t.Fatalf("photo pixel = %v, want %v", got, red)
	}
}

func TestCompositeFullCanvasFallback(t *testing.T) {
	// No enabled image element: the photo covers the whole canvas above the
	// background.
	preset := &domain.LayoutPreset{
		ID: "p", Name: "p", ImageSizePresetID: "s",
		Elements: []domain.LayoutElement{backgroundElement("#FFFFFF", 1)},
	}
	size := domain.ImageSizePreset{ID: "s", Width: 80, Height: 40}
	out, err := Composite(preset, size, uniform(8, 4, red), domain.ContentRecord{}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, pt := range []image.Point{{0, 0}, {79, 0}, {40, 20}, {79, 39}} {
		if got := out.RGBAAt(pt.X, pt.Y); got != red {
			t.Fatalf("pixel %v = %v, want full-canvas photo %v", pt, got, red)
		}
	}
}

func TestCompositeDisabledImageTriggersFallback(t *testing.T) {
	preset := &domain.LayoutPreset{
		ID: "p", Name: "p", ImageSizePresetID: "s",
		Elements: []domain.LayoutElement{
			backgroundElement("#FFFFFF", 1),
			{
				ID: "hero_image", Name: "img", Enabled: false, Type: domain.TypeImage,
				X: 10, Y: 10, Width: 20, Height: 20,
			},
		},
	}
	size := domain.ImageSizePreset{ID: "s", Width: 40, Height: 40}
	out, err := Composite(preset, size, uniform(4, 4, red), domain.ContentRecord{}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := out.RGBAAt(0, 0); got != red {
		t.Fatalf("disabled image element should fall back to full canvas, corner = %v", got)
	}
}

func TestCompositeOrderIndependentOfStorageOrder(t *testing.T) {
	shape := domain.LayoutElement{
		ID: "panel", Name: "panel", Enabled: true, Type: domain.TypeShape,
		X: 10, Y: 10, Width: 80, Height: 30,
		ShapeStyle: &domain.ShapeStyle{BackgroundColor: "#3B82F6", BackgroundOpacity: 0.5, CornerRadius: 8},
	}
	img := domain.LayoutElement{
		ID: "hero_image", Name: "img", Enabled: true, Type: domain.TypeImage,
		X: 40, Y: 40, Width: 50, Height: 50,
	}
	bg := backgroundElement("#FEF3C7", 1)

	forward := &domain.LayoutPreset{
		ID: "p", ImageSizePresetID: "s",
		Elements: []domain.LayoutElement{bg, shape, img},
	}
	reversed := &domain.LayoutPreset{
		ID: "p", ImageSizePresetID: "s",
		Elements: []domain.LayoutElement{img, shape, bg},
	}
	size := domain.ImageSizePreset{ID: "s", Width: 100, Height: 100}
	photo := uniform(10, 10, red)
	a, err := Composite(forward, size, photo, domain.ContentRecord{}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Composite(reversed, size, photo, domain.ContentRecord{}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatal("composite output depends on element storage order")
	}
}

func TestCompositeScaleSetsOutputSize(t *testing.T) {
	preset := &domain.LayoutPreset{
		ID: "p", ImageSizePresetID: "s",
		Elements: []domain.LayoutElement{backgroundElement("#000000", 1)},
	}
	size := domain.ImageSizePreset{ID: "s", Width: 200, Height: 100}
	out, err := Composite(preset, size, uniform(4, 4, red), domain.ContentRecord{}, Options{Scale: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if b := out.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("bounds = %v, want 100x50", b)
	}
}

func TestCompositeRejectsMissingStyle(t *testing.T) {
	preset := &domain.LayoutPreset{
		ID: "p", ImageSizePresetID: "s",
		Elements: []domain.LayoutElement{{
			ID: "background", Enabled: true, Type: domain.TypeBackground,
			Width: 100, Height: 100,
		}},
	}
	size := domain.ImageSizePreset{ID: "s", Width: 10, Height: 10}
	_, err := Composite(preset, size, uniform(2, 2, red), domain.ContentRecord{}, Options{})
	if !errors.Is(err, domain.ErrInvalidElementData) {
		t.Fatalf("expected ErrInvalidElementData, got %v", err)
	}
}

func TestCompositeNilPhoto(t *testing.T) {
	preset := &domain.LayoutPreset{
		ID: "p", ImageSizePresetID: "s",
		Elements: []domain.LayoutElement{backgroundElement("#FFFFFF", 1)},
	}
	size := domain.ImageSizePreset{ID: "s", Width: 10, Height: 10}
	_, err := Composite(preset, size, nil, domain.ContentRecord{}, Options{})
	var ile *ImageLoadError
	if !errors.As(err, &ile) {
		t.Fatalf("expected ImageLoadError, got %v", err)
	}
}

func TestLoadPhotoMissingFile(t *testing.T) {
	_, err := LoadPhoto("/nonexistent/photo.png")
	var ile *ImageLoadError
	if !errors.As(err, &ile) {
		t.Fatalf("expected ImageLoadError, got %v", err)
	}
}

func TestResolveText(t *testing.T) {
	rec := domain.ContentRecord{
		CharacterName: "뭉이",
		JournalNumber: 7,
		Title:         "발효의 과학",
		Content:       "김치는 유산균이 만든다",
	}
	if got := ResolveText("title", rec); got != "뭉이의 연구일지 #007" {
		t.Errorf("title = %q", got)
	}
	if got := ResolveText("subtitle", rec); got != rec.Title {
		t.Errorf("subtitle = %q", got)
	}
	if got := ResolveText("short_knowledge", rec); got != rec.Content {
		t.Errorf("short_knowledge = %q", got)
	}
	if got := ResolveText("caption", rec); got != "" {
		t.Errorf("unknown id should resolve empty, got %q", got)
	}
}
