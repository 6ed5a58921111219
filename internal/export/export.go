/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export writes composited cards to disk. The compositor produces
// the pixels; this package only encodes them, so every output format shows
// the identical raster.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"cardstudio/internal/compose"
	"cardstudio/internal/domain"
)

// Options controls card export behavior.
type Options struct {
	// Quality is the JPEG quality in [1,100]; 0 means 90.
	Quality int
	// Compose is forwarded to the compositor. Scale defaults to 1 so
	// exports render at the size preset's full resolution.
	Compose compose.Options
}

func (o Options) quality() int {
	if o.Quality <= 0 {
		return 90
	}
	return o.Quality
}

// Card composites the preset and writes the result to outPath, picking the
// encoder from the file extension (.png, .jpg, .jpeg, .pdf).
func Card(preset *domain.LayoutPreset, size domain.ImageSizePreset, photo image.Image, content domain.ContentRecord, outPath string, opt Options) error {
	img, err := compose.Composite(preset, size, photo, content, opt.Compose)
	if err != nil {
		return fmt.Errorf("composite card: %w", err)
	}
	switch strings.ToLower(filepath.Ext(outPath)) {
	case ".png":
		return PNG(img, outPath)
	case ".jpg", ".jpeg":
		return JPEG(img, outPath, opt.quality())
	case ".pdf":
		return PDF(img, outPath)
	default:
		return fmt.Errorf("unsupported export format %q", filepath.Ext(outPath))
	}
}

// PNG writes img to path, creating parent directories as needed.
func PNG(img image.Image, path string) error {
	return writeFile(path, func(f *os.File) error {
		if err := png.Encode(f, img); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
		return nil
	})
}

// JPEG writes img to path with the given quality. JPEG has no alpha channel;
// transparent pixels composite against the encoder's implicit black.
func JPEG(img image.Image, path string, quality int) error {
	return writeFile(path, func(f *os.File) error {
		if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("encode jpeg: %w", err)
		}
		return nil
	})
}

// PDF embeds img as a single full-bleed page. The page is sized in points to
// the pixel dimensions, a 1:1 mapping at 72 DPI.
func PDF(img image.Image, path string) error {
	b := img.Bounds()
	w := float64(b.Dx())
	h := float64(b.Dy())
	if w <= 0 || h <= 0 {
		return fmt.Errorf("empty image")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode embedded png: %w", err)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: w, Ht: h})
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("card", opts, &buf)
	pdf.ImageOptions("card", 0, 0, w, h, false, opts, 0, "")

	return writeFile(path, func(f *os.File) error {
		if err := pdf.Output(f); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		return nil
	})
}

func writeFile(path string, encode func(*os.File) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure out dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := encode(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
