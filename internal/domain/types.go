/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for card layouts. Element positions
// and sizes are stored as percentages of the referenced image size preset so
// that one layout renders correctly at any output resolution.

import (
	"errors"
	"fmt"
)

// ErrInvalidElementData marks an enabled element whose type-specific style
// payload is missing. The canvas degrades to a placeholder; the compositor
// fails the render.
var ErrInvalidElementData = errors.New("invalid element data")

// ErrNotFound marks a missing preset or size preset reference.
var ErrNotFound = errors.New("not found")

// ImageSizePreset is an output target in absolute pixels. Margins are
// advisory safe-zone hints for the editor and are not enforced anywhere.
type ImageSizePreset struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	MarginHorizontal int    `json:"marginHorizontal,omitempty"`
	MarginVertical   int    `json:"marginVertical,omitempty"`
}

// ElementType distinguishes the four layer kinds of a layout.
type ElementType string

const (
	TypeText       ElementType = "text"
	TypeImage      ElementType = "image"
	TypeBackground ElementType = "background"
	TypeShape      ElementType = "shape"
)

// ZIndex returns the fixed stacking order for an element type. Storage order
// within a preset never affects compositing order.
func (t ElementType) ZIndex() int {
	switch t {
	case TypeBackground:
		return 0
	case TypeShape:
		return 1
	case TypeImage:
		return 2
	case TypeText:
		return 3
	default:
		return 4
	}
}

// Valid reports whether t is one of the four known element types.
func (t ElementType) Valid() bool {
	switch t {
	case TypeText, TypeImage, TypeBackground, TypeShape:
		return true
	}
	return false
}

// TextStyle configures a text element. FontSize and HighlightMargin are in
// actual-image pixels; render targets scale them by their resolution factor.
type TextStyle struct {
	FontFamily       string  `json:"fontFamily,omitempty"`
	FontSize         float64 `json:"fontSize"`
	Color            string  `json:"color"`
	HighlightEnabled bool    `json:"highlightEnabled,omitempty"`
	HighlightColor   string  `json:"highlightColor,omitempty"`
	HighlightOpacity float64 `json:"highlightOpacity,omitempty"`
	HighlightMargin  float64 `json:"highlightMargin,omitempty"`
}

// BackgroundStyle configures the full-canvas background fill.
type BackgroundStyle struct {
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// ShapeStyle configures a decorative rectangle. CornerRadius and BlurAmount
// are in actual-image pixels.
type ShapeStyle struct {
	BackgroundColor   string  `json:"backgroundColor"`
	BackgroundOpacity float64 `json:"backgroundOpacity"`
	BorderColor       string  `json:"borderColor,omitempty"`
	BorderOpacity     float64 `json:"borderOpacity,omitempty"`
	CornerRadius      float64 `json:"cornerRadius,omitempty"`
	BlurEnabled       bool    `json:"blurEnabled,omitempty"`
	BlurAmount        float64 `json:"blurAmount,omitempty"`
}

// LayoutElement is one visual layer of a preset. X, Y, Width and Height are
// percentages of the active image size preset; the engine deliberately does
// not clamp them to [0,100] so decorative elements may bleed off-canvas.
type LayoutElement struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Enabled bool        `json:"enabled"`
	Type    ElementType `json:"type"`
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	Width   float64     `json:"width"`
	Height  float64     `json:"height"`
	// SampleText is shown in the editor preview only, never exported.
	SampleText string `json:"sampleText,omitempty"`

	TextStyle       *TextStyle       `json:"textStyle,omitempty"`
	BackgroundStyle *BackgroundStyle `json:"backgroundStyle,omitempty"`
	ShapeStyle      *ShapeStyle      `json:"shapeStyle,omitempty"`
}

// ValidateStyle checks that the element carries the style payload its type
// requires. Disabled elements are never validated since both render paths
// skip them entirely.
func (e *LayoutElement) ValidateStyle() error {
	if !e.Enabled {
		return nil
	}
	switch e.Type {
	case TypeText:
		if e.TextStyle == nil {
			return fmt.Errorf("element %q: missing textStyle: %w", e.ID, ErrInvalidElementData)
		}
	case TypeBackground:
		if e.BackgroundStyle == nil {
			return fmt.Errorf("element %q: missing backgroundStyle: %w", e.ID, ErrInvalidElementData)
		}
	case TypeShape:
		if e.ShapeStyle == nil {
			return fmt.Errorf("element %q: missing shapeStyle: %w", e.ID, ErrInvalidElementData)
		}
	case TypeImage:
		// The photo slot has no style payload of its own.
	default:
		return fmt.Errorf("element %q: unknown type %q: %w", e.ID, e.Type, ErrInvalidElementData)
	}
	return nil
}

// LayoutPreset is a named, ordered set of elements interpreted against one
// image size preset. Re-pointing ImageSizePresetID re-interprets every
// percentage against the new absolute pixels without touching stored values.
type LayoutPreset struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	ImageSizePresetID string          `json:"imageSizePresetId"`
	Elements          []LayoutElement `json:"elements"`
}

// Element returns the element with the given id, or nil.
func (p *LayoutPreset) Element(id string) *LayoutElement {
	for i := range p.Elements {
		if p.Elements[i].ID == id {
			return &p.Elements[i]
		}
	}
	return nil
}

// Clone returns a deep copy. The compositor snapshots its input with this so
// concurrent edits on the UI thread cannot be observed mid-render.
func (p *LayoutPreset) Clone() LayoutPreset {
	out := *p
	out.Elements = make([]LayoutElement, len(p.Elements))
	for i, el := range p.Elements {
		cp := el
		if el.TextStyle != nil {
			ts := *el.TextStyle
			cp.TextStyle = &ts
		}
		if el.BackgroundStyle != nil {
			bs := *el.BackgroundStyle
			cp.BackgroundStyle = &bs
		}
		if el.ShapeStyle != nil {
			ss := *el.ShapeStyle
			cp.ShapeStyle = &ss
		}
		out.Elements[i] = cp
	}
	return out
}

// LayoutSettings is the full set of layout presets plus the id of the preset
// currently open for editing. The compositor is always invoked with one
// explicit preset and ignores the selection.
type LayoutSettings struct {
	SelectedPresetID string            `json:"selectedPresetId"`
	Presets          []LayoutPreset    `json:"presets"`
	SizePresets      []ImageSizePreset `json:"imageSizePresets"`
}

// Preset returns the preset with the given id, or nil.
func (s *LayoutSettings) Preset(id string) *LayoutPreset {
	for i := range s.Presets {
		if s.Presets[i].ID == id {
			return &s.Presets[i]
		}
	}
	return nil
}

// SelectedPreset returns the currently selected preset, or nil.
func (s *LayoutSettings) SelectedPreset() *LayoutPreset {
	return s.Preset(s.SelectedPresetID)
}

// ResolveSizePreset maps a preset to its image size preset. A dangling
// reference is an error rather than undefined behavior.
func (s *LayoutSettings) ResolveSizePreset(p *LayoutPreset) (ImageSizePreset, error) {
	for _, sp := range s.SizePresets {
		if sp.ID == p.ImageSizePresetID {
			return sp, nil
		}
	}
	return ImageSizePreset{}, fmt.Errorf("size preset %q referenced by preset %q: %w", p.ImageSizePresetID, p.ID, ErrNotFound)
}

// ContentRecord carries the generated strings interpolated into the text
// elements during compositing. It is produced by external collaborators and
// consumed read-only here.
type ContentRecord struct {
	CharacterName string `json:"characterName"`
	JournalNumber int    `json:"journalNumber"`
	Title         string `json:"title"`
	Content       string `json:"content"`
}

// MaxLines returns the line clamp for a text element by id convention:
// two lines for title and subtitle, three for short_knowledge.
func MaxLines(elementID string) int {
	if elementID == "short_knowledge" {
		return 3
	}
	return 2
}
