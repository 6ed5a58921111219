/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Deterministic text measurement and line breaking shared by the editor
// canvas (approximate feedback) and the compositor (authoritative export).
// Wrapping is character-by-character rather than word-by-word so languages
// without reliable word-boundary spacing (Korean, Japanese, Chinese) break
// correctly.

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Ellipsis is appended to the last line when the clamp cuts text off.
const Ellipsis = "…"

// FontSpec describes a requested font.
type FontSpec struct {
	Family string
	SizePx float64
}

// Metrics provides resolved face metrics in pixels.
type Metrics struct {
	Ascent, Descent, LineGap float64
}

// LineHeight is the vertical advance between consecutive baselines.
func (m Metrics) LineHeight() float64 { return m.Ascent + m.Descent + m.LineGap }

// Wrapped is the result of laying text into a box width.
type Wrapped struct {
	Lines   []string
	Width   float64 // widest line
	Height  float64 // lines * line height
	Metrics Metrics
	Clamped bool // true when the max line count cut text off
}

// Provider maps FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// BasicProvider uses x/image basicfont Face7x13 for deterministic tests.
type BasicProvider struct{}

func (BasicProvider) Resolve(FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	m := f.Metrics()
	return f, Metrics{
		Ascent:  float64(m.Ascent.Round()),
		Descent: float64(m.Descent.Round()),
		LineGap: float64(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
	}
}

// runeAdvance measures one rune. Glyphs the face cannot render fall back to
// the advance of '?' so measurement stays total and deterministic (Face7x13
// has no CJK coverage but tests still need CJK strings to occupy width).
func runeAdvance(face font.Face, r rune) float64 {
	if a, ok := face.GlyphAdvance(r); ok {
		return float64(a) / 64
	}
	if a, ok := face.GlyphAdvance('?'); ok {
		return float64(a) / 64
	}
	return 0
}

// MeasureString returns the advance width of s in pixels, summing per-rune
// advances without kerning so partial measurements compose exactly.
func MeasureString(face font.Face, s string) float64 {
	var w float64
	for _, r := range s {
		w += runeAdvance(face, r)
	}
	return w
}

// Wrap breaks text into lines no wider than maxWidth, clamped to maxLines
// with an ellipsis replacing the overflow on the final line. Explicit
// newlines force breaks. maxLines <= 0 means unlimited; maxWidth <= 0 keeps
// everything on one line per paragraph.
func Wrap(p Provider, spec FontSpec, text string, maxWidth float64, maxLines int) Wrapped {
	if p == nil {
		p = BasicProvider{}
	}
	face, met := p.Resolve(spec)

	var lines []string
	clamped := false
	cur := make([]rune, 0, 32)
	var curW float64

	flush := func() {
		lines = append(lines, string(cur))
		cur = cur[:0]
		curW = 0
	}

	for _, r := range text {
		if maxLines > 0 && len(lines) == maxLines {
			clamped = true
			break
		}
		if r == '\n' {
			flush()
			continue
		}
		adv := runeAdvance(face, r)
		if maxWidth > 0 && curW > 0 && curW+adv > maxWidth {
			flush()
			if maxLines > 0 && len(lines) == maxLines {
				clamped = true
			}
		}
		if maxLines > 0 && len(lines) == maxLines {
			clamped = true
			break
		}
		cur = append(cur, r)
		curW += adv
	}
	if len(cur) > 0 || len(lines) == 0 {
		if maxLines > 0 && len(lines) == maxLines {
			clamped = true
		} else {
			flush()
		}
	}

	if clamped && len(lines) > 0 {
		lines[len(lines)-1] = truncateWithEllipsis(face, lines[len(lines)-1], maxWidth)
	}

	out := Wrapped{Lines: lines, Metrics: met, Clamped: clamped}
	for _, ln := range lines {
		if w := MeasureString(face, ln); w > out.Width {
			out.Width = w
		}
	}
	out.Height = float64(len(lines)) * met.LineHeight()
	return out
}

// truncateWithEllipsis shortens line until line+ellipsis fits maxWidth.
func truncateWithEllipsis(face font.Face, line string, maxWidth float64) string {
	ell := MeasureString(face, Ellipsis)
	runes := []rune(line)
	if maxWidth <= 0 {
		return string(runes) + Ellipsis
	}
	for len(runes) > 0 && MeasureString(face, string(runes))+ell > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + Ellipsis
}
