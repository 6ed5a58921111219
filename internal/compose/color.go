/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package compose

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// AlphaHex encodes an opacity in [0,1] as the two-digit lowercase hex alpha
// appended to RRGGBB colors. Preview and export share this exact rounding
// rule; diverging here shows up as visible banding between the two paths.
func AlphaHex(opacity float64) string {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return fmt.Sprintf("%02x", int(math.Round(opacity*255)))
}

// ParseHex parses #RGB, #RRGGBB or #RRGGBBAA into a straight-alpha color.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]}) + "ff"
	case 6:
		h += "ff"
	case 8:
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 64)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// ColorWithOpacity combines an RRGGBB color and an opacity into the straight
// RRGGBBAA color both render paths composite with.
func ColorWithOpacity(hex string, opacity float64) (color.RGBA, error) {
	base := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(base) == 8 {
		base = base[:6]
	}
	return ParseHex("#" + base + AlphaHex(opacity))
}
