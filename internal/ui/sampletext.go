/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the
 *  specific language governing permissions and limitations under the License.
 */

package ui

// Toolkit-independent geometry for the canvas text preview and the dashed
// selection outline. Kept free of Fyne imports so the line-break agreement
// with the compositor is testable in any build.

import (
	"math"

	"cardstudio/internal/domain"
	"cardstudio/internal/editor"
	"cardstudio/internal/textlayout"
)

// SampleLine is one row of preview text positioned in canvas pixels.
type SampleLine struct {
	Text   string
	X, Y   float64 // top-left corner of the line's box
	W      float64 // element width, for clipping
	SizePx float64 // canvas-space font size
	LineH  float64 // canvas-space baseline advance
}

// sampleTextLines lays out a text element's sample string for the canvas.
// Wrapping runs in actual-image space with the same provider, font spec and
// line clamp the compositor uses, so the preview breaks lines and applies
// the ellipsis exactly where the export will; only the resulting positions
// are scaled down to canvas pixels. Non-text elements and empty samples
// yield nothing.
func sampleTextLines(s *editor.Session, el *domain.LayoutElement, p textlayout.Provider, family string) []SampleLine {
	if el.Type != domain.TypeText || el.TextStyle == nil || el.SampleText == "" {
		return nil
	}
	st := el.TextStyle
	if st.FontFamily != "" {
		family = st.FontFamily
	}
	scale := s.Space().ScaleX()
	if scale == 0 {
		return nil
	}
	rect := s.ElementRect(el)
	spec := textlayout.FontSpec{Family: family, SizePx: st.FontSize}
	wrapped := textlayout.Wrap(p, spec, el.SampleText, rect.W*scale, domain.MaxLines(el.ID))
	lineH := wrapped.Metrics.LineHeight() / scale
	out := make([]SampleLine, 0, len(wrapped.Lines))
	for i, ln := range wrapped.Lines {
		out = append(out, SampleLine{
			Text:   ln,
			X:      rect.X,
			Y:      rect.Y + float64(i)*lineH,
			W:      rect.W,
			SizePx: st.FontSize / scale,
			LineH:  lineH,
		})
	}
	return out
}

// segment is one dash of the selection outline in canvas pixels.
type segment struct {
	X1, Y1, X2, Y2 float64
}

// dashSegments traces the rectangle perimeter clockwise from the top-left
// corner and cuts it into dash-length strokes separated by gaps. The final
// dash of each edge is clipped to the corner rather than overshooting.
func dashSegments(r editor.Rect, dash, gap float64) []segment {
	if dash <= 0 {
		dash = 6
	}
	if gap <= 0 {
		gap = 4
	}
	var segs []segment
	edge := func(x1, y1, x2, y2 float64) {
		length := math.Hypot(x2-x1, y2-y1)
		if length == 0 {
			return
		}
		ux, uy := (x2-x1)/length, (y2-y1)/length
		for pos := 0.0; pos < length; pos += dash + gap {
			end := pos + dash
			if end > length {
				end = length
			}
			segs = append(segs, segment{
				X1: x1 + ux*pos, Y1: y1 + uy*pos,
				X2: x1 + ux*end, Y2: y1 + uy*end,
			})
		}
	}
	edge(r.X, r.Y, r.X+r.W, r.Y)
	edge(r.X+r.W, r.Y, r.X+r.W, r.Y+r.H)
	edge(r.X+r.W, r.Y+r.H, r.X, r.Y+r.H)
	edge(r.X, r.Y+r.H, r.X, r.Y)
	return segs
}
