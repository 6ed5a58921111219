package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestSettingsJSONRoundTrip(t *testing.T) {
	s := DefaultSettings()
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got LayoutSettings
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.SelectedPresetID != s.SelectedPresetID {
		t.Fatalf("selected preset mismatch: got %q want %q", got.SelectedPresetID, s.SelectedPresetID)
	}
	p := got.Preset("default")
	if p == nil {
		t.Fatalf("default preset missing after round trip")
	}
	if el := p.Element("short_knowledge"); el == nil || el.TextStyle == nil || !el.TextStyle.HighlightEnabled {
		t.Fatalf("short_knowledge text style lost: %+v", el)
	}
}

func TestZIndexOrder(t *testing.T) {
	if !(TypeBackground.ZIndex() < TypeShape.ZIndex() &&
		TypeShape.ZIndex() < TypeImage.ZIndex() &&
		TypeImage.ZIndex() < TypeText.ZIndex()) {
		t.Fatalf("z-order broken: bg=%d shape=%d image=%d text=%d",
			TypeBackground.ZIndex(), TypeShape.ZIndex(), TypeImage.ZIndex(), TypeText.ZIndex())
	}
}

func TestValidateStyle(t *testing.T) {
	el := LayoutElement{ID: "t", Enabled: true, Type: TypeText}
	if err := el.ValidateStyle(); !errors.Is(err, ErrInvalidElementData) {
		t.Fatalf("expected ErrInvalidElementData, got %v", err)
	}
	el.Enabled = false
	if err := el.ValidateStyle(); err != nil {
		t.Fatalf("disabled element must not be validated: %v", err)
	}
	img := LayoutElement{ID: "hero_image", Enabled: true, Type: TypeImage}
	if err := img.ValidateStyle(); err != nil {
		t.Fatalf("image slot needs no style payload: %v", err)
	}
}

func TestResolveSizePresetDangling(t *testing.T) {
	s := DefaultSettings()
	p := s.Preset("default")
	p.ImageSizePresetID = "gone"
	if _, err := s.ResolveSizePreset(p); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := DefaultSettings()
	p := s.Preset("default")
	cp := p.Clone()
	cp.Element("title").TextStyle.Color = "#000000"
	if p.Element("title").TextStyle.Color == "#000000" {
		t.Fatalf("clone shares TextStyle with original")
	}
}

func TestMaxLinesConvention(t *testing.T) {
	cases := map[string]int{"title": 2, "subtitle": 2, "short_knowledge": 3, "other": 2}
	for id, want := range cases {
		if got := MaxLines(id); got != want {
			t.Fatalf("MaxLines(%q) = %d, want %d", id, got, want)
		}
	}
}
