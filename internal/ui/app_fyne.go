//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"cardstudio/internal/compose"
	"cardstudio/internal/config"
	"cardstudio/internal/crash"
	"cardstudio/internal/domain"
	"cardstudio/internal/editor"
	"cardstudio/internal/export"
	applog "cardstudio/internal/log"
	"cardstudio/internal/settings"
	"cardstudio/internal/textlayout"
	"cardstudio/internal/version"
)

// Run starts the Fyne-based layout editor. settingsPath may be empty; the
// built-in defaults are used and saves go next to the executable.
func Run(settingsPath string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("version", version.String()))

	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}
	if settingsPath == "" {
		settingsPath = cfg.General.SettingsFile
	}

	var layout domain.LayoutSettings
	if settingsPath != "" {
		data, err := os.ReadFile(settingsPath)
		if err != nil {
			return fmt.Errorf("read layout settings: %w", err)
		}
		layout, err = settings.Load(data)
		if err != nil {
			return fmt.Errorf("load layout settings: %w", err)
		}
	} else {
		layout = settings.Default()
	}
	defer func() { crash.Recover(&layout, cfg.Export.OutDir) }()

	fonts := textlayout.NewFontLibrary()
	if cfg.Editor.FontPath != "" {
		if err := fonts.LoadTTF(cfg.Editor.FontFamily, cfg.Editor.FontPath); err != nil {
			l.Warn("font load failed, falling back to bitmap face", slog.Any("err", err))
		}
	}

	session, err := editor.NewSession(&layout, float64(cfg.Editor.CanvasWidth))
	if err != nil {
		return err
	}

	fyneApp := app.NewWithID("cardstudio")
	w := fyneApp.NewWindow("Card Studio")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1100)
	winH := prefs.IntWithFallback("window.height", 760)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	content := domain.ContentRecord{
		CharacterName: "뭉이",
		JournalNumber: 1,
		Title:         "제목을 입력하세요",
		Content:       "내용을 입력하세요",
	}

	var photo image.Image
	preview := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	preview.FillMode = canvas.ImageFillContain

	composeOpts := func(scale float64) compose.Options {
		return compose.Options{Scale: scale, Fonts: fonts, FontFamily: cfg.Editor.FontFamily}
	}
	refreshPreview := func() {
		if photo == nil {
			return
		}
		img, err := compose.Composite(session.Preset(), session.SizePreset(), photo, content, composeOpts(cfg.Editor.PreviewScale))
		if err != nil {
			status.SetText(fmt.Sprintf("Preview failed: %v", err))
			return
		}
		preview.Image = img
		preview.Refresh()
	}

	canvasWidget := NewLayoutCanvas(session, cfg.Editor.ShowGrid, textlayout.OTProvider{Lib: fonts}, cfg.Editor.FontFamily)
	canvasWidget.OnChanged = func() {
		if sel := session.Selected(); sel != nil {
			status.SetText(fmt.Sprintf("%s  x=%.2f%% y=%.2f%% w=%.2f%% h=%.2f%%", sel.ID, sel.X, sel.Y, sel.Width, sel.Height))
		} else {
			status.SetText("Ready")
		}
		refreshPreview()
	}

	openPhoto := widget.NewButton("Open Photo…", func() {
		dialog.ShowFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil || rc == nil {
				return
			}
			path := rc.URI().Path()
			_ = rc.Close()
			img, err := compose.LoadPhoto(path)
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			photo = img
			status.SetText(filepath.Base(path))
			refreshPreview()
		}, w)
	})

	exportCard := widget.NewButton("Export", func() {
		if photo == nil {
			dialog.ShowError(fmt.Errorf("open a photo first"), w)
			return
		}
		name := fmt.Sprintf("card-%03d.%s", content.JournalNumber, cfg.Export.Format)
		out := filepath.Join(cfg.Export.OutDir, name)
		err := export.Card(session.Preset(), session.SizePreset(), photo, content, out, export.Options{
			Quality: cfg.Export.JPEGQuality,
			Compose: composeOpts(1),
		})
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Exported " + out)
	})

	saveSettings := widget.NewButton("Save Layout", func() {
		data, err := settings.Save(&layout)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		path := settingsPath
		if path == "" {
			path = "layout-settings.json"
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Saved " + path)
	})

	readOnly := widget.NewCheck("Read only", func(on bool) {
		session.SetReadOnly(on)
	})
	showGrid := widget.NewCheck("Grid", func(on bool) {
		canvasWidget.SetShowGrid(on)
	})
	showGrid.SetChecked(cfg.Editor.ShowGrid)

	undoBtn := widget.NewButton("Undo", func() {
		if session.Undo() {
			canvasWidget.Refresh()
			refreshPreview()
		}
	})
	redoBtn := widget.NewButton("Redo", func() {
		if session.Redo() {
			canvasWidget.Refresh()
			refreshPreview()
		}
	})

	toolbar := container.NewHBox(openPhoto, exportCard, saveSettings, undoBtn, redoBtn, readOnly, showGrid)
	split := container.NewHSplit(canvasWidget, preview)
	split.SetOffset(0.55)
	w.SetContent(container.NewBorder(toolbar, status, nil, nil, split))

	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
	})

	w.ShowAndRun()
	return nil
}

// LayoutCanvas renders the editing surface: the element rectangles of the
// active preset in stacking order, sample text wrapped the same way the
// compositor wraps it, the snap grid overlay and the dashed selection
// outline with its corner handles. All geometry questions go through the
// editor session; the widget only maps Fyne events to session gestures.
type LayoutCanvas struct {
	widget.BaseWidget

	session    *editor.Session
	fonts      textlayout.Provider
	fontFamily string
	showGrid   bool
	dragging   bool

	// OnChanged fires after a gesture updates geometry or selection.
	OnChanged func()
}

func NewLayoutCanvas(s *editor.Session, showGrid bool, fonts textlayout.Provider, fontFamily string) *LayoutCanvas {
	lc := &LayoutCanvas{session: s, fonts: fonts, fontFamily: fontFamily, showGrid: showGrid}
	lc.ExtendBaseWidget(lc)
	return lc
}

func (lc *LayoutCanvas) SetShowGrid(on bool) {
	lc.showGrid = on
	lc.Refresh()
}

func (lc *LayoutCanvas) notify() {
	if lc.OnChanged != nil {
		lc.OnChanged()
	}
}

// Tapped selects the element under the pointer.
func (lc *LayoutCanvas) Tapped(e *fyne.PointEvent) {
	if el := lc.session.HitTest(float64(e.Position.X), float64(e.Position.Y)); el != nil {
		_ = lc.session.Select(el.ID)
	} else {
		_ = lc.session.Select("")
	}
	lc.Refresh()
	lc.notify()
}

// Dragged begins the gesture on the first event and feeds pointer updates
// to the session, which commits snapped geometry continuously.
func (lc *LayoutCanvas) Dragged(e *fyne.DragEvent) {
	if !lc.dragging {
		startX := float64(e.Position.X - e.Dragged.DX)
		startY := float64(e.Position.Y - e.Dragged.DY)
		lc.session.BeginDrag(startX, startY)
		lc.dragging = true
	}
	lc.session.Drag(float64(e.Position.X), float64(e.Position.Y))
	lc.Refresh()
	lc.notify()
}

func (lc *LayoutCanvas) DragEnd() {
	lc.session.EndDrag()
	lc.dragging = false
	lc.Refresh()
	lc.notify()
}

func (lc *LayoutCanvas) MinSize() fyne.Size {
	sp := lc.session.Space()
	return fyne.NewSize(float32(sp.CanvasWidth), float32(sp.CanvasHeight()))
}

func (lc *LayoutCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 30, G: 30, B: 34, A: 255})

	page := canvas.NewRectangle(color.White)
	page.StrokeColor = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	page.StrokeWidth = 1

	// The outline itself is drawn as dashed line segments; the rectangle
	// only carries a faint wash so the selection reads on busy layouts.
	bbox := canvas.NewRectangle(color.RGBA{R: 0, G: 120, B: 255, A: 18})

	handles := make([]*canvas.Rectangle, 4)
	for i := range handles {
		h := canvas.NewRectangle(color.White)
		h.StrokeColor = color.RGBA{R: 0, G: 120, B: 255, A: 255}
		h.StrokeWidth = 1
		handles[i] = h
	}

	r := &layoutCanvasRenderer{
		lc:      lc,
		bg:      bg,
		page:    page,
		bbox:    bbox,
		handles: handles,
	}
	r.objects = []fyne.CanvasObject{bg, page, bbox}
	for _, h := range handles {
		r.objects = append(r.objects, h)
	}
	return r
}

type layoutCanvasRenderer struct {
	lc      *LayoutCanvas
	objects []fyne.CanvasObject

	bg, page *canvas.Rectangle
	rects    []*canvas.Rectangle
	texts    []*canvas.Text
	lines    []*canvas.Line
	bbox     *canvas.Rectangle
	dashes   []*canvas.Line
	handles  []*canvas.Rectangle
}

func (r *layoutCanvasRenderer) Destroy()                     {}
func (r *layoutCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *layoutCanvasRenderer) MinSize() fyne.Size           { return r.lc.MinSize() }
func (r *layoutCanvasRenderer) Refresh()                     { r.Layout(r.lc.Size()); canvas.Refresh(r.lc) }

// insertBefore grows r.objects by placing add in front of anchor, keeping the
// stacking order stable as pools grow. A missing anchor appends at the top.
func (r *layoutCanvasRenderer) insertBefore(anchor fyne.CanvasObject, add []fyne.CanvasObject) {
	ins := -1
	for i, obj := range r.objects {
		if obj == anchor {
			ins = i
			break
		}
	}
	if ins < 0 {
		ins = len(r.objects)
	}
	objs := make([]fyne.CanvasObject, 0, len(r.objects)+len(add))
	objs = append(objs, r.objects[:ins]...)
	objs = append(objs, add...)
	objs = append(objs, r.objects[ins:]...)
	r.objects = objs
}

// elementColors returns fill and stroke for an element rectangle. Elements
// whose style payload is missing render as a magenta placeholder instead of
// disappearing, so a broken settings file stays editable.
func elementColors(el *domain.LayoutElement) (fill, stroke color.RGBA) {
	if err := el.ValidateStyle(); err != nil {
		return color.RGBA{R: 255, G: 0, B: 255, A: 40}, color.RGBA{R: 255, G: 0, B: 255, A: 255}
	}
	switch el.Type {
	case domain.TypeBackground:
		c, err := compose.ColorWithOpacity(el.BackgroundStyle.Color, el.BackgroundStyle.Opacity)
		if err != nil {
			break
		}
		return c, color.RGBA{}
	case domain.TypeShape:
		c, err := compose.ColorWithOpacity(el.ShapeStyle.BackgroundColor, el.ShapeStyle.BackgroundOpacity)
		if err != nil {
			break
		}
		return c, color.RGBA{R: 90, G: 90, B: 90, A: 180}
	case domain.TypeImage:
		return color.RGBA{R: 120, G: 140, B: 160, A: 120}, color.RGBA{R: 120, G: 140, B: 160, A: 255}
	case domain.TypeText:
		c, err := compose.ParseHex(el.TextStyle.Color)
		if err != nil {
			break
		}
		return color.RGBA{R: c.R, G: c.G, B: c.B, A: 50}, c
	}
	return color.RGBA{R: 200, G: 200, B: 200, A: 80}, color.RGBA{R: 200, G: 200, B: 200, A: 255}
}

func (r *layoutCanvasRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	sp := r.lc.session.Space()
	pw := float32(sp.CanvasWidth)
	ph := float32(sp.CanvasHeight())
	r.page.Resize(fyne.NewSize(pw, ph))
	r.page.Move(fyne.NewPos(0, 0))

	vis := r.lc.session.VisibleElements()

	// Ensure we have enough rectangle visuals for the current preset
	if need := len(vis); need > len(r.rects) {
		add := need - len(r.rects)
		objs := make([]fyne.CanvasObject, 0, add)
		for j := 0; j < add; j++ {
			rr := canvas.NewRectangle(color.RGBA{})
			rr.StrokeWidth = 1
			r.rects = append(r.rects, rr)
			objs = append(objs, rr)
		}
		r.insertBefore(r.bbox, objs)
	}
	for i, el := range vis {
		rect := r.lc.session.ElementRect(el)
		rc := r.rects[i]
		fill, stroke := elementColors(el)
		rc.FillColor = fill
		rc.StrokeColor = stroke
		rc.Show()
		rc.Resize(fyne.NewSize(float32(rect.W), float32(rect.H)))
		rc.Move(fyne.NewPos(float32(rect.X), float32(rect.Y)))
		rc.Refresh()
	}
	for j := len(vis); j < len(r.rects); j++ {
		r.rects[j].Hide()
	}

	r.layoutSampleText(vis)
	r.layoutGrid(pw, ph)

	// Selection overlay
	if bbox, corners, ok := r.lc.session.HandleRects(); ok {
		r.bbox.Show()
		r.bbox.Resize(fyne.NewSize(float32(bbox.W), float32(bbox.H)))
		r.bbox.Move(fyne.NewPos(float32(bbox.X), float32(bbox.Y)))
		r.layoutDashes(bbox)
		for i, h := range r.handles {
			h.Show()
			h.Resize(fyne.NewSize(float32(corners[i].W), float32(corners[i].H)))
			h.Move(fyne.NewPos(float32(corners[i].X), float32(corners[i].Y)))
		}
	} else {
		r.bbox.Hide()
		for _, d := range r.dashes {
			d.Hide()
		}
		for _, h := range r.handles {
			h.Hide()
		}
	}
}

// layoutSampleText places the wrapped sample strings of every visible text
// element on top of the element rectangles. Line breaks come from
// sampleTextLines, which wraps in actual space, so the preview and the
// export cut lines at the same rune.
func (r *layoutCanvasRenderer) layoutSampleText(vis []*domain.LayoutElement) {
	var lines []SampleLine
	var colors []color.RGBA
	for _, el := range vis {
		ls := sampleTextLines(r.lc.session, el, r.lc.fonts, r.lc.fontFamily)
		if len(ls) == 0 {
			continue
		}
		col := color.RGBA{R: 20, G: 20, B: 20, A: 255}
		if c, err := compose.ParseHex(el.TextStyle.Color); err == nil {
			col = color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
		}
		for _, l := range ls {
			lines = append(lines, l)
			colors = append(colors, col)
		}
	}

	if need := len(lines); need > len(r.texts) {
		add := need - len(r.texts)
		objs := make([]fyne.CanvasObject, 0, add)
		for j := 0; j < add; j++ {
			txt := canvas.NewText("", color.Black)
			r.texts = append(r.texts, txt)
			objs = append(objs, txt)
		}
		r.insertBefore(r.bbox, objs)
	}
	for i, l := range lines {
		txt := r.texts[i]
		txt.Text = l.Text
		txt.Color = colors[i]
		txt.TextSize = float32(l.SizePx)
		txt.Resize(fyne.NewSize(float32(l.W), float32(l.LineH)))
		txt.Move(fyne.NewPos(float32(l.X), float32(l.Y)))
		txt.Show()
		txt.Refresh()
	}
	for j := len(lines); j < len(r.texts); j++ {
		r.texts[j].Hide()
	}
}

// layoutDashes draws the selection outline as short strokes around the
// bounding box. Fyne rectangles only stroke solid, so the dashing is done
// with a pool of line segments.
func (r *layoutCanvasRenderer) layoutDashes(bbox editor.Rect) {
	segs := dashSegments(bbox, 6, 4)
	if need := len(segs); need > len(r.dashes) {
		add := need - len(r.dashes)
		objs := make([]fyne.CanvasObject, 0, add)
		for j := 0; j < add; j++ {
			ln := canvas.NewLine(color.RGBA{R: 0, G: 120, B: 255, A: 220})
			ln.StrokeWidth = 1.5
			r.dashes = append(r.dashes, ln)
			objs = append(objs, ln)
		}
		r.insertBefore(r.handles[0], objs)
	}
	for i, sg := range segs {
		ln := r.dashes[i]
		ln.Position1 = fyne.NewPos(float32(sg.X1), float32(sg.Y1))
		ln.Position2 = fyne.NewPos(float32(sg.X2), float32(sg.Y2))
		ln.Show()
		ln.Refresh()
	}
	for j := len(segs); j < len(r.dashes); j++ {
		r.dashes[j].Hide()
	}
}

func (r *layoutCanvasRenderer) layoutGrid(pw, ph float32) {
	if !r.lc.showGrid {
		for _, ln := range r.lines {
			ln.Hide()
		}
		return
	}
	vert, horz := r.lc.session.GridLines()
	if need := len(vert) + len(horz); need > len(r.lines) {
		add := need - len(r.lines)
		objs := make([]fyne.CanvasObject, 0, add)
		for j := 0; j < add; j++ {
			ln := canvas.NewLine(color.RGBA{})
			r.lines = append(r.lines, ln)
			objs = append(objs, ln)
		}
		r.insertBefore(r.bbox, objs)
	}
	style := func(ln *canvas.Line, major bool) {
		if major {
			ln.StrokeColor = color.RGBA{R: 255, G: 120, B: 0, A: 140}
			ln.StrokeWidth = 1
		} else {
			ln.StrokeColor = color.RGBA{R: 128, G: 128, B: 128, A: 70}
			ln.StrokeWidth = 0.5
		}
	}
	i := 0
	for _, g := range vert {
		ln := r.lines[i]
		style(ln, g.Major)
		ln.Position1 = fyne.NewPos(float32(g.Pos), 0)
		ln.Position2 = fyne.NewPos(float32(g.Pos), ph)
		ln.Show()
		ln.Refresh()
		i++
	}
	for _, g := range horz {
		ln := r.lines[i]
		style(ln, g.Major)
		ln.Position1 = fyne.NewPos(0, float32(g.Pos))
		ln.Position2 = fyne.NewPos(pw, float32(g.Pos))
		ln.Show()
		ln.Refresh()
		i++
	}
	for ; i < len(r.lines); i++ {
		r.lines[i].Hide()
	}
}
