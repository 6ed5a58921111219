/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package compose

// Raster primitives over a straight-alpha RGBA canvas. Pixels are written
// through direct Pix access; color.RGBA values carry straight (not
// premultiplied) alpha throughout this package.

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"
)

// fixedPoint converts pixel coordinates to the 26.6 fixed-point form the
// font drawer positions glyphs with.
func fixedPoint(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{
		X: fixed.Int26_6(math.Round(x * 64)),
		Y: fixed.Int26_6(math.Round(y * 64)),
	}
}

type canvas struct {
	img *image.RGBA
}

func newCanvas(w, h int) *canvas {
	return &canvas{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// setRect overwrites a region with the exact RGBA value, alpha included.
// Used for the bottom background layer so its encoded alpha survives into
// the output unchanged.
func (c *canvas) setRect(rect image.Rectangle, col color.RGBA) {
	rect = rect.Intersect(c.img.Bounds())
	if rect.Empty() {
		return
	}
	draw.Draw(c.img, rect, &image.Uniform{C: col}, image.Point{}, draw.Src)
}

// blendPixel composites a straight-alpha color over the pixel.
func (c *canvas) blendPixel(x, y int, col color.RGBA) {
	b := c.img.Bounds()
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y || col.A == 0 {
		return
	}
	off := (y-b.Min.Y)*c.img.Stride + (x-b.Min.X)*4
	pix := c.img.Pix
	if col.A == 255 {
		pix[off], pix[off+1], pix[off+2], pix[off+3] = col.R, col.G, col.B, 255
		return
	}
	a := uint32(col.A)
	ia := 255 - a
	pix[off] = uint8((uint32(col.R)*a + uint32(pix[off])*ia) / 255)
	pix[off+1] = uint8((uint32(col.G)*a + uint32(pix[off+1])*ia) / 255)
	pix[off+2] = uint8((uint32(col.B)*a + uint32(pix[off+2])*ia) / 255)
	pix[off+3] = uint8(uint32(pix[off+3]) + (255-uint32(pix[off+3]))*a/255)
}

// fillRectBlend composites a straight-alpha color over a rectangle.
func (c *canvas) fillRectBlend(rect image.Rectangle, col color.RGBA) {
	rect = rect.Intersect(c.img.Bounds())
	if rect.Empty() || col.A == 0 {
		return
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c.blendPixel(x, y, col)
		}
	}
}

// fillRoundedRect fills an axis-aligned rounded rectangle: fast strips for
// the body, per-pixel circle tests only in the corner squares.
func (c *canvas) fillRoundedRect(x, y, w, h, radius int, col color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	if radius <= 0 {
		c.fillRectBlend(image.Rect(x, y, x+w, y+h), col)
		return
	}
	if radius > w/2 {
		radius = w / 2
	}
	if radius > h/2 {
		radius = h / 2
	}
	r2 := float64(radius * radius)

	c.fillRectBlend(image.Rect(x+radius, y, x+w-radius, y+h), col)
	c.fillRectBlend(image.Rect(x, y+radius, x+radius, y+h-radius), col)
	c.fillRectBlend(image.Rect(x+w-radius, y+radius, x+w, y+h-radius), col)

	centers := [4][2]int{
		{x + radius, y + radius},
		{x + w - radius, y + radius},
		{x + radius, y + h - radius},
		{x + w - radius, y + h - radius},
	}
	cornerRects := [4]image.Rectangle{
		image.Rect(x, y, x+radius, y+radius),
		image.Rect(x+w-radius, y, x+w, y+radius),
		image.Rect(x, y+h-radius, x+radius, y+h),
		image.Rect(x+w-radius, y+h-radius, x+w, y+h),
	}
	for i := 0; i < 4; i++ {
		ccx, ccy := centers[i][0], centers[i][1]
		cr := cornerRects[i]
		for py := cr.Min.Y; py < cr.Max.Y; py++ {
			dy := float64(py - ccy)
			for px := cr.Min.X; px < cr.Max.X; px++ {
				dx := float64(px - ccx)
				if dx*dx+dy*dy <= r2 {
					c.blendPixel(px, py, col)
				}
			}
		}
	}
}

// strokeRoundedRect draws the outline as the difference between the outer
// rounded rect and the same rect inset by the stroke width.
func (c *canvas) strokeRoundedRect(x, y, w, h, radius, width int, col color.RGBA) {
	if width <= 0 || w <= 0 || h <= 0 {
		return
	}
	inner := radius - width
	if inner < 0 {
		inner = 0
	}
	mask := newCanvas(w, h)
	mask.fillRoundedRect(0, 0, w, h, radius, color.RGBA{A: 255})
	hole := newCanvas(w, h)
	hole.fillRoundedRect(width, width, w-2*width, h-2*width, inner, color.RGBA{A: 255})
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			m := mask.img.RGBAAt(px, py).A
			if m == 0 || hole.img.RGBAAt(px, py).A != 0 {
				continue
			}
			c.blendPixel(x+px, y+py, col)
		}
	}
}

// boxBlurRegion blurs the pixels inside rect in place with a separable box
// blur of the given radius, sampling clamped at the region edges. Backdrop
// blur for shapes samples whatever has been drawn so far, so earlier layers
// (background, photo, sibling shapes) must already be on the canvas.
func (c *canvas) boxBlurRegion(rect image.Rectangle, radius int) {
	rect = rect.Intersect(c.img.Bounds())
	if rect.Empty() || radius <= 0 {
		return
	}
	w, h := rect.Dx(), rect.Dy()
	src := make([]color.RGBA, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src[y*w+x] = c.img.RGBAAt(rect.Min.X+x, rect.Min.Y+y)
		}
	}
	tmp := make([]color.RGBA, w*h)

	clamp := func(v, lo, hi int) int {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
	// Horizontal pass.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b, a, n uint32
			for k := -radius; k <= radius; k++ {
				p := src[y*w+clamp(x+k, 0, w-1)]
				r += uint32(p.R)
				g += uint32(p.G)
				b += uint32(p.B)
				a += uint32(p.A)
				n++
			}
			tmp[y*w+x] = color.RGBA{uint8(r / n), uint8(g / n), uint8(b / n), uint8(a / n)}
		}
	}
	// Vertical pass.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b, a, n uint32
			for k := -radius; k <= radius; k++ {
				p := tmp[clamp(y+k, 0, h-1)*w+x]
				r += uint32(p.R)
				g += uint32(p.G)
				b += uint32(p.B)
				a += uint32(p.A)
				n++
			}
			c.img.SetRGBA(rect.Min.X+x, rect.Min.Y+y,
				color.RGBA{uint8(r / n), uint8(g / n), uint8(b / n), uint8(a / n)})
		}
	}
}

// drawCover scales src into dst rect with cover semantics: aspect ratio
// preserved, overflow cropped symmetrically, no letterboxing.
func (c *canvas) drawCover(rect image.Rectangle, src image.Image) {
	rect = rect.Intersect(c.img.Bounds())
	if rect.Empty() {
		return
	}
	sb := src.Bounds()
	sw, sh := sb.Dx(), sb.Dy()
	dw, dh := rect.Dx(), rect.Dy()
	if sw == 0 || sh == 0 || dw == 0 || dh == 0 {
		return
	}
	// Pick the source crop whose aspect matches the destination.
	srcAspect := float64(sw) / float64(sh)
	dstAspect := float64(dw) / float64(dh)
	crop := sb
	if srcAspect > dstAspect {
		cw := int(float64(sh) * dstAspect)
		off := (sw - cw) / 2
		crop = image.Rect(sb.Min.X+off, sb.Min.Y, sb.Min.X+off+cw, sb.Max.Y)
	} else if srcAspect < dstAspect {
		ch := int(float64(sw) / dstAspect)
		off := (sh - ch) / 2
		crop = image.Rect(sb.Min.X, sb.Min.Y+off, sb.Max.X, sb.Min.Y+off+ch)
	}
	xdraw.ApproxBiLinear.Scale(c.img, rect, src, crop, xdraw.Src, nil)
}
