/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package compose flattens a layout preset, a content record and a source
// photo into one raster image. Layers draw in fixed type order (background,
// shapes, photo, text) regardless of storage order, and every numeric rule
// (alpha encoding, rounding, scaling) is shared between preview and export
// renders so the two paths stay pixel-consistent.
package compose

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"sort"

	"golang.org/x/image/font"

	"cardstudio/internal/domain"
	"cardstudio/internal/textlayout"
)

// ImageLoadError reports an unreachable or undecodable source photo. The
// composite fails outright; no partial output is produced.
type ImageLoadError struct {
	Ref string
	Err error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("load source image %q: %v", e.Ref, e.Err)
}

func (e *ImageLoadError) Unwrap() error { return e.Err }

// Options controls one composite call.
type Options struct {
	// Scale is the render-target resolution factor: 1.0 for export,
	// e.g. 0.5 for a half-resolution live preview. Font sizes, margins,
	// corner radii and blur amounts scale with it so relative geometry is
	// identical at every scale.
	Scale float64
	// Fonts supplies TTF faces for text; nil falls back to the bitmap
	// test face.
	Fonts *textlayout.FontLibrary
	// FontFamily selects a family from Fonts for elements that do not
	// name one.
	FontFamily string
}

func (o Options) scale() float64 {
	if o.Scale <= 0 {
		return 1
	}
	return o.Scale
}

func (o Options) provider() textlayout.Provider {
	if o.Fonts == nil {
		return textlayout.BasicProvider{}
	}
	return textlayout.OTProvider{Lib: o.Fonts}
}

// LoadPhoto reads and decodes the source photo from a local path.
func LoadPhoto(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ImageLoadError{Ref: path, Err: err}
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &ImageLoadError{Ref: path, Err: err}
	}
	return img, nil
}

// Composite renders the preset at size.Width x size.Height (times
// opts.Scale) and returns the flattened image. The preset is snapshotted on
// entry, so edits made on the UI thread while the render runs are not
// observed. When the preset has no enabled image element the photo falls
// back to covering the whole canvas at the image layer's stacking position.
func Composite(preset *domain.LayoutPreset, size domain.ImageSizePreset, photo image.Image, content domain.ContentRecord, opts Options) (*image.RGBA, error) {
	if preset == nil {
		return nil, errors.New("nil preset")
	}
	snap := preset.Clone()
	scale := opts.scale()
	outW := int(math.Round(float64(size.Width) * scale))
	outH := int(math.Round(float64(size.Height) * scale))
	if outW <= 0 || outH <= 0 {
		return nil, fmt.Errorf("degenerate output size %dx%d", outW, outH)
	}

	// Export cannot silently invent styling: validate before drawing.
	for i := range snap.Elements {
		if err := snap.Elements[i].ValidateStyle(); err != nil {
			return nil, err
		}
	}
	if photo == nil {
		return nil, &ImageLoadError{Ref: "(nil)", Err: errors.New("no image supplied")}
	}

	c := newCanvas(outW, outH)
	px := func(percent float64, actual int) int {
		return int(math.Round(percent / 100 * float64(actual) * scale))
	}
	rectOf := func(el *domain.LayoutElement) image.Rectangle {
		x := px(el.X, size.Width)
		y := px(el.Y, size.Height)
		w := px(el.X+el.Width, size.Width) - x
		h := px(el.Y+el.Height, size.Height) - y
		return image.Rect(x, y, x+w, y+h)
	}

	ordered := make([]*domain.LayoutElement, 0, len(snap.Elements))
	for i := range snap.Elements {
		if snap.Elements[i].Enabled {
			ordered = append(ordered, &snap.Elements[i])
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Type.ZIndex() < ordered[j].Type.ZIndex()
	})

	imagePresent := false
	for _, el := range ordered {
		if el.Type == domain.TypeImage {
			imagePresent = true
			break
		}
	}

	// With no enabled image element the photo still ships: it covers the
	// whole canvas at the image layer's slot in the stack, above background
	// and shapes, below text.
	full := image.Rect(0, 0, outW, outH)
	fallbackDrawn := false
	for _, el := range ordered {
		if !imagePresent && !fallbackDrawn && el.Type.ZIndex() > domain.TypeImage.ZIndex() {
			c.drawCover(full, photo)
			fallbackDrawn = true
		}
		switch el.Type {
		case domain.TypeBackground:
			col, err := ColorWithOpacity(el.BackgroundStyle.Color, el.BackgroundStyle.Opacity)
			if err != nil {
				return nil, fmt.Errorf("element %q: %w", el.ID, err)
			}
			c.setRect(rectOf(el), col)

		case domain.TypeShape:
			if err := drawShape(c, el, rectOf(el), scale); err != nil {
				return nil, err
			}

		case domain.TypeImage:
			c.drawCover(rectOf(el), photo)

		case domain.TypeText:
			if err := drawText(c, el, rectOf(el), content, scale, opts); err != nil {
				return nil, err
			}
		}
	}
	if !imagePresent && !fallbackDrawn {
		c.drawCover(full, photo)
	}

	return c.img, nil
}

func drawShape(c *canvas, el *domain.LayoutElement, rect image.Rectangle, scale float64) error {
	st := el.ShapeStyle
	radius := int(math.Round(st.CornerRadius * scale))
	if st.BlurEnabled && st.BlurAmount > 0 {
		c.boxBlurRegion(rect, int(math.Round(st.BlurAmount*scale)))
	}
	fill, err := ColorWithOpacity(st.BackgroundColor, st.BackgroundOpacity)
	if err != nil {
		return fmt.Errorf("element %q: %w", el.ID, err)
	}
	c.fillRoundedRect(rect.Min.X, rect.Min.Y, rect.Dx(), rect.Dy(), radius, fill)
	if st.BorderColor != "" && st.BorderOpacity > 0 {
		stroke, err := ColorWithOpacity(st.BorderColor, st.BorderOpacity)
		if err != nil {
			return fmt.Errorf("element %q: %w", el.ID, err)
		}
		width := int(math.Round(2 * scale))
		if width < 1 {
			width = 1
		}
		c.strokeRoundedRect(rect.Min.X, rect.Min.Y, rect.Dx(), rect.Dy(), radius, width, stroke)
	}
	return nil
}

// ResolveText maps a text element id to its content string: title becomes
// "{characterName}의 연구일지 #NNN", subtitle the content title, and
// short_knowledge the content body. Unknown ids render nothing at export.
func ResolveText(elementID string, content domain.ContentRecord) string {
	switch elementID {
	case "title":
		return fmt.Sprintf("%s의 연구일지 #%03d", content.CharacterName, content.JournalNumber)
	case "subtitle":
		return content.Title
	case "short_knowledge":
		return content.Content
	default:
		return ""
	}
}

func drawText(c *canvas, el *domain.LayoutElement, rect image.Rectangle, content domain.ContentRecord, scale float64, opts Options) error {
	st := el.TextStyle
	text := ResolveText(el.ID, content)
	if text == "" {
		return nil
	}
	col, err := ParseHex(st.Color)
	if err != nil {
		return fmt.Errorf("element %q: %w", el.ID, err)
	}

	family := st.FontFamily
	if family == "" {
		family = opts.FontFamily
	}
	spec := textlayout.FontSpec{Family: family, SizePx: st.FontSize * scale}
	provider := opts.provider()
	wrapped := textlayout.Wrap(provider, spec, text, float64(rect.Dx()), domain.MaxLines(el.ID))

	if st.HighlightEnabled {
		hl, err := ColorWithOpacity(st.HighlightColor, st.HighlightOpacity)
		if err != nil {
			return fmt.Errorf("element %q: %w", el.ID, err)
		}
		margin := int(math.Round(st.HighlightMargin * scale))
		box := image.Rect(
			rect.Min.X-margin,
			rect.Min.Y-margin,
			rect.Min.X+int(math.Ceil(wrapped.Width))+margin,
			rect.Min.Y+int(math.Ceil(wrapped.Height))+margin,
		)
		c.fillRectBlend(box, hl)
	}

	face, met := provider.Resolve(spec)
	drawer := &font.Drawer{
		Dst: c.img,
		Src: &image.Uniform{C: color.RGBA{R: col.R, G: col.G, B: col.B, A: col.A}},
	}
	drawer.Face = face
	y := float64(rect.Min.Y) + met.Ascent
	for _, line := range wrapped.Lines {
		drawer.Dot = fixedPoint(float64(rect.Min.X), y)
		drawer.DrawString(line)
		y += met.LineHeight()
	}
	return nil
}
