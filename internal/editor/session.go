/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor holds the interaction state of one layout editing session:
// selection, drag and resize gestures, grid snapping and undo history. It is
// deliberately free of any UI toolkit types; the canvas widget feeds it
// pointer positions in canvas-display pixels and reads back rectangles to
// draw.
package editor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"cardstudio/internal/coord"
	"cardstudio/internal/domain"
	applog "cardstudio/internal/log"
	"cardstudio/internal/undo"
)

// DragMode represents the current interaction kind.
// DragNone: idle; DragMove: moving selection; DragResize*: corner resizing.
type DragMode int

const (
	DragNone DragMode = iota
	DragMove
	DragResizeNW
	DragResizeNE
	DragResizeSW
	DragResizeSE
)

// HandleSize is the side length of a corner resize handle in canvas pixels.
const HandleSize = 12.0

// Rect is an axis-aligned rectangle in canvas-display pixels.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// GridLine is one guide line of the canvas overlay, positioned in canvas
// pixels. Major lines sit on 500 actual-pixel multiples, minor ones on 100.
type GridLine struct {
	Pos   float64
	Major bool
}

// Session is the model behind one open layout editor. Not safe for
// concurrent use; the UI toolkit delivers events on a single thread.
type Session struct {
	settings *domain.LayoutSettings
	preset   *domain.LayoutPreset
	size     domain.ImageSizePreset
	space    coord.Space

	readOnly   bool
	selectedID string

	mode   DragMode
	startX float64
	startY float64
	orig   domain.LayoutElement

	hist *undo.Manager
	// redoStack holds post-gesture states; the manager keeps pre-gesture
	// snapshots. A new gesture invalidates redo.
	redoStack [][]byte
	log       *slog.Logger
}

// NewSession opens the settings' selected preset for editing at the given
// canvas width.
func NewSession(s *domain.LayoutSettings, canvasWidth float64) (*Session, error) {
	preset := s.SelectedPreset()
	if preset == nil {
		return nil, fmt.Errorf("selected preset %q: %w", s.SelectedPresetID, domain.ErrNotFound)
	}
	size, err := s.ResolveSizePreset(preset)
	if err != nil {
		return nil, err
	}
	if canvasWidth <= 0 {
		return nil, fmt.Errorf("canvas width must be positive, got %v", canvasWidth)
	}
	return &Session{
		settings: s,
		preset:   preset,
		size:     size,
		space: coord.Space{
			ActualWidth:  float64(size.Width),
			ActualHeight: float64(size.Height),
			CanvasWidth:  canvasWidth,
		},
		// Each gesture pushes exactly one snapshot at press time, so the
		// manager's coalescing window is collapsed to nothing.
		hist: undo.NewManager(undo.Config{MaxPerPreset: 200, MinInterval: time.Nanosecond}),
		log:  applog.WithComponent("editor"),
	}, nil
}

// Space exposes the coordinate mapping of this session.
func (s *Session) Space() coord.Space { return s.space }

// Preset returns the preset under edit.
func (s *Session) Preset() *domain.LayoutPreset { return s.preset }

// SizePreset returns the active output size.
func (s *Session) SizePreset() domain.ImageSizePreset { return s.size }

// SetReadOnly switches the session into view-only mode; gestures select but
// never modify.
func (s *Session) SetReadOnly(ro bool) { s.readOnly = ro }

func (s *Session) ReadOnly() bool { return s.readOnly }

// VisibleElements returns the enabled elements in compositing order, bottom
// first. Storage order never leaks into stacking.
func (s *Session) VisibleElements() []*domain.LayoutElement {
	out := make([]*domain.LayoutElement, 0, len(s.preset.Elements))
	for i := range s.preset.Elements {
		if s.preset.Elements[i].Enabled {
			out = append(out, &s.preset.Elements[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Type.ZIndex() < out[j].Type.ZIndex()
	})
	return out
}

// ElementRect maps an element's percentage geometry into canvas pixels.
func (s *Session) ElementRect(el *domain.LayoutElement) Rect {
	cw := s.space.CanvasWidth
	ch := s.space.CanvasHeight()
	return Rect{
		X: el.X / 100 * cw,
		Y: el.Y / 100 * ch,
		W: el.Width / 100 * cw,
		H: el.Height / 100 * ch,
	}
}

// HitTest returns the topmost enabled element under the point, or nil. The
// background is never hit: it always spans the canvas and would absorb every
// click meant for the photo or a text box.
func (s *Session) HitTest(x, y float64) *domain.LayoutElement {
	vis := s.VisibleElements()
	for i := len(vis) - 1; i >= 0; i-- {
		el := vis[i]
		if el.Type == domain.TypeBackground {
			continue
		}
		if s.ElementRect(el).Contains(x, y) {
			return el
		}
	}
	return nil
}

// Select sets the selection to the element with the given id; an empty id
// clears it.
func (s *Session) Select(id string) error {
	if id == "" {
		s.selectedID = ""
		return nil
	}
	if s.preset.Element(id) == nil {
		return fmt.Errorf("element %q: %w", id, domain.ErrNotFound)
	}
	s.selectedID = id
	return nil
}

// Selected returns the selected element, or nil.
func (s *Session) Selected() *domain.LayoutElement {
	if s.selectedID == "" {
		return nil
	}
	return s.preset.Element(s.selectedID)
}

// HandleRects returns the selection bounding box and its four corner resize
// handles in canvas pixels. ok is false when nothing is selected.
func (s *Session) HandleRects() (bbox Rect, corners [4]Rect, ok bool) {
	el := s.Selected()
	if el == nil {
		return Rect{}, corners, false
	}
	bbox = s.ElementRect(el)
	hs := HandleSize
	mk := func(cx, cy float64) Rect { return Rect{X: cx - hs/2, Y: cy - hs/2, W: hs, H: hs} }
	corners[0] = mk(bbox.X, bbox.Y)               // NW
	corners[1] = mk(bbox.X+bbox.W, bbox.Y)        // NE
	corners[2] = mk(bbox.X, bbox.Y+bbox.H)        // SW
	corners[3] = mk(bbox.X+bbox.W, bbox.Y+bbox.H) // SE
	return bbox, corners, true
}

// Mode reports the active gesture.
func (s *Session) Mode() DragMode { return s.mode }

// BeginDrag starts a gesture at the given canvas position. A press on a
// corner handle of the current selection begins a resize; a press on an
// element body selects it and begins a move; anything else clears the
// selection.
func (s *Session) BeginDrag(x, y float64) {
	s.mode = DragNone
	if _, corners, ok := s.HandleRects(); ok && !s.readOnly {
		modes := [4]DragMode{DragResizeNW, DragResizeNE, DragResizeSW, DragResizeSE}
		for i, c := range corners {
			if c.Contains(x, y) {
				s.mode = modes[i]
				break
			}
		}
	}
	if s.mode == DragNone {
		el := s.HitTest(x, y)
		if el == nil {
			s.selectedID = ""
			return
		}
		s.selectedID = el.ID
		if s.readOnly {
			return
		}
		s.mode = DragMove
	}

	el := s.Selected()
	if el == nil {
		s.mode = DragNone
		return
	}
	s.startX, s.startY = x, y
	s.orig = *el
	s.pushSnapshot()
	s.redoStack = nil
}

// Drag updates the gesture with the current pointer position. Geometry is
// committed through the grid snap on every update, so intermediate states
// are already valid persisted states.
func (s *Session) Drag(x, y float64) {
	if s.mode == DragNone || s.readOnly {
		return
	}
	el := s.Selected()
	if el == nil {
		s.mode = DragNone
		return
	}
	dx := x - s.startX
	dy := y - s.startY

	cw := s.space.CanvasWidth
	ch := s.space.CanvasHeight()
	sx := s.space.ScaleX()
	sy := s.space.ScaleY()
	aw := s.space.ActualWidth
	ah := s.space.ActualHeight

	// Gesture-start geometry in canvas pixels.
	ox := s.orig.X / 100 * cw
	oy := s.orig.Y / 100 * ch
	ow := s.orig.Width / 100 * cw
	oh := s.orig.Height / 100 * ch

	switch s.mode {
	case DragMove:
		el.X = coord.SnapToGrid(ox+dx, sx, aw)
		el.Y = coord.SnapToGrid(oy+dy, sy, ah)

	case DragResizeSE:
		el.Width = coord.SnapSize(ow+dx, sx, aw)
		el.Height = coord.SnapSize(oh+dy, sy, ah)

	case DragResizeNE:
		el.Width = coord.SnapSize(ow+dx, sx, aw)
		el.Y = coord.SnapToGrid(oy+dy, sy, ah)
		el.Height = coord.SnapSize(oh-dy, sy, ah)

	case DragResizeSW:
		el.X = coord.SnapToGrid(ox+dx, sx, aw)
		el.Width = coord.SnapSize(ow-dx, sx, aw)
		el.Height = coord.SnapSize(oh+dy, sy, ah)

	case DragResizeNW:
		el.X = coord.SnapToGrid(ox+dx, sx, aw)
		el.Y = coord.SnapToGrid(oy+dy, sy, ah)
		el.Width = coord.SnapSize(ow-dx, sx, aw)
		el.Height = coord.SnapSize(oh-dy, sy, ah)
	}
}

// EndDrag finishes the gesture.
func (s *Session) EndDrag() {
	if s.mode != DragNone {
		el := s.Selected()
		if el != nil {
			s.log.Debug("gesture committed",
				slog.String("element", el.ID),
				slog.Float64("x", el.X), slog.Float64("y", el.Y),
				slog.Float64("w", el.Width), slog.Float64("h", el.Height))
		}
	}
	s.mode = DragNone
}

// GridLines returns the vertical and horizontal guide lines for the overlay.
// Lines sit on 100 actual-pixel steps, with every 500th pixel marked major.
func (s *Session) GridLines() (vert, horz []GridLine) {
	const minor = 100.0
	const major = 500.0
	sx := s.space.ScaleX()
	sy := s.space.ScaleY()
	if sx == 0 || sy == 0 {
		return nil, nil
	}
	for px := minor; px < s.space.ActualWidth; px += minor {
		vert = append(vert, GridLine{Pos: px / sx, Major: int(px)%int(major) == 0})
	}
	for px := minor; px < s.space.ActualHeight; px += minor {
		horz = append(horz, GridLine{Pos: px / sy, Major: int(px)%int(major) == 0})
	}
	return vert, horz
}

// pushSnapshot records the preset's element geometry for undo. One snapshot
// per gesture, taken at press time, so a drag costs one undo step no matter
// how many pointer updates it produced.
func (s *Session) pushSnapshot() {
	blob, err := json.Marshal(s.preset.Elements)
	if err != nil {
		s.log.Error("snapshot marshal failed", slog.Any("err", err))
		return
	}
	s.hist.PushSnapshot(undo.Snapshot{PresetID: s.preset.ID, Blob: blob, TS: time.Now()})
}

func (s *Session) restoreSnapshot(blob []byte) bool {
	var elements []domain.LayoutElement
	if err := json.Unmarshal(blob, &elements); err != nil {
		s.log.Error("snapshot restore failed", slog.Any("err", err))
		return false
	}
	s.preset.Elements = elements
	return true
}

// Undo reverts the preset to the state before the last gesture.
func (s *Session) Undo() bool {
	snap, ok := s.hist.Undo(s.preset.ID)
	if !ok {
		return false
	}
	if cur, err := json.Marshal(s.preset.Elements); err == nil {
		s.redoStack = append(s.redoStack, cur)
	}
	return s.restoreSnapshot(snap.Blob)
}

// Redo re-applies an undone gesture.
func (s *Session) Redo() bool {
	n := len(s.redoStack)
	if n == 0 {
		return false
	}
	post := s.redoStack[n-1]
	s.redoStack = s.redoStack[:n-1]
	// The current (reverted) state goes back onto the undo stack so the
	// redone gesture can be undone again.
	s.pushSnapshot()
	return s.restoreSnapshot(post)
}
