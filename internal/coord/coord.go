/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package coord converts between the three coordinate spaces of a layout:
// percentage space (the persisted truth), actual-image space (pixels at the
// configured output size) and canvas-display space (pixels at the editor's
// current zoom). All functions are pure and axis-order independent so edit
// commits reproduce bit-identically in tests.
package coord

import "math"

// GridUnit is the actual-pixel quantum all committed positions and sizes are
// rounded to.
const GridUnit = 5.0

// Space binds an image size preset's actual pixel size to the on-screen
// canvas width. Canvas height follows from the preset's aspect ratio; only
// the width is a free parameter.
type Space struct {
	ActualWidth  float64
	ActualHeight float64
	CanvasWidth  float64
}

// CanvasHeight returns the display height preserving the actual aspect ratio.
func (s Space) CanvasHeight() float64 {
	if s.ActualWidth == 0 {
		return 0
	}
	return s.CanvasWidth * s.ActualHeight / s.ActualWidth
}

// ScaleX is actual pixels per canvas pixel on the horizontal axis.
func (s Space) ScaleX() float64 {
	if s.CanvasWidth == 0 {
		return 0
	}
	return s.ActualWidth / s.CanvasWidth
}

// ScaleY equals ScaleX by construction; kept separate so call sites read
// naturally when converting each axis.
func (s Space) ScaleY() float64 {
	ch := s.CanvasHeight()
	if ch == 0 {
		return 0
	}
	return s.ActualHeight / ch
}

// PercentToPx converts a percentage of an actual dimension to whole pixels.
func PercentToPx(percent, actualSize float64) int {
	return int(math.Round(percent / 100 * actualSize))
}

// PxToPercent converts actual pixels back to a percentage of the dimension.
func PxToPercent(px, actualSize float64) float64 {
	if actualSize == 0 {
		return 0
	}
	return px / actualSize * 100
}

// PercentToCanvas converts a percentage directly into canvas-display pixels.
func (s Space) PercentToCanvas(percent, actualSize, scale float64) float64 {
	if scale == 0 {
		return 0
	}
	return percent / 100 * actualSize / scale
}

// SnapToGrid commits a canvas-space coordinate: convert to actual space,
// quantize to the nearest GridUnit multiple, and express the result as a
// percentage of actualSize. Drag commits use it for x/y, resize commits for
// all four values, so every committed coordinate is a grid multiple in
// actual pixels even though the stored percentage is floating point.
func SnapToGrid(canvasPx, scale, actualSize float64) float64 {
	actualPx := canvasPx * scale
	snapped := math.Round(actualPx/GridUnit) * GridUnit
	return PxToPercent(snapped, actualSize)
}

// SnapSize commits a canvas-space extent like SnapToGrid but enforces the
// one-grid-unit floor. Shrinking an element below the floor is a normal
// interactive edge case, so the value clamps instead of erroring.
func SnapSize(canvasPx, scale, actualSize float64) float64 {
	actualPx := canvasPx * scale
	snapped := math.Round(actualPx/GridUnit) * GridUnit
	if snapped < GridUnit {
		snapped = GridUnit
	}
	return PxToPercent(snapped, actualSize)
}

// MinSizePercent is the resize floor (one grid unit) as a percentage.
func MinSizePercent(actualSize float64) float64 {
	return PxToPercent(GridUnit, actualSize)
}
