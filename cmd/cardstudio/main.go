/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cardstudio/internal/compose"
	"cardstudio/internal/config"
	"cardstudio/internal/crash"
	"cardstudio/internal/domain"
	"cardstudio/internal/export"
	applog "cardstudio/internal/log"
	"cardstudio/internal/settings"
	"cardstudio/internal/textlayout"
	"cardstudio/internal/ui"
	"cardstudio/internal/version"
)

func usage() {
	fmt.Println("Card Studio — layout editor and card compositor")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  cardstudio version|-v|--version        Show version")
	fmt.Println("  cardstudio init <file>                  Write the built-in layout settings to <file>")
	fmt.Println("  cardstudio validate <file>              Validate a layout settings file")
	fmt.Println("  cardstudio compose [flags]              Composite one card to an image file")
	fmt.Println("  cardstudio ui [<file>]                  Launch desktop UI (build with -tags fyne for full UI)")
	fmt.Println()
	fmt.Println("Run 'cardstudio compose -h' for compose flags.")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var layout *domain.LayoutSettings
	defer func() { crash.Recover(layout, "") }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Card Studio — layout editor and card compositor")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 3 {
				fmt.Println("init requires <file>")
				usage()
				os.Exit(2)
			}
			path := args[2]
			abs, _ := filepath.Abs(path)
			s := settings.Default()
			layout = &s
			data, err := settings.Save(&s)
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			if err := os.WriteFile(abs, data, 0o644); err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Wrote default layout settings to", abs)
			return
		case "validate":
			if len(args) < 3 {
				fmt.Println("validate requires <file>")
				usage()
				os.Exit(2)
			}
			path := args[2]
			data, err := os.ReadFile(path)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			s, err := settings.Load(data)
			if err != nil {
				l.Error("validation failed", slog.String("file", path), slog.Any("err", err))
				fmt.Println("Invalid:", err)
				os.Exit(1)
			}
			layout = &s
			fmt.Printf("Valid: %d presets, %d size presets\n", len(s.Presets), len(s.SizePresets))
			return
		case "compose":
			if err := runCompose(args[2:], &layout); err != nil {
				l.Error("compose failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "ui":
			var file string
			if len(args) >= 3 {
				file = args[2]
			}
			if err := ui.Run(file); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

func runCompose(argv []string, layout **domain.LayoutSettings) error {
	fs := flag.NewFlagSet("compose", flag.ExitOnError)
	settingsFile := fs.String("settings", "", "layout settings file (defaults to built-in settings)")
	presetID := fs.String("preset", "", "layout preset id (defaults to the selected preset)")
	photoPath := fs.String("photo", "", "source photo file (required)")
	out := fs.String("out", "card.png", "output file (.png, .jpg or .pdf)")
	character := fs.String("character", "", "character name for the title line")
	number := fs.Int("number", 1, "journal number for the title line")
	title := fs.String("title", "", "card title text")
	body := fs.String("content", "", "card body text")
	fontPath := fs.String("font", "", "TTF font file (defaults to the configured editor font)")
	fontFamily := fs.String("font-family", "", "font family name for the loaded font")
	quality := fs.Int("quality", 0, "JPEG quality (1-100)")
	if err := fs.Parse(argv); err != nil {
		return err
	}
	if *photoPath == "" {
		return fmt.Errorf("compose requires -photo")
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = config.Defaults()
	}

	var s domain.LayoutSettings
	if *settingsFile != "" {
		data, err := os.ReadFile(*settingsFile)
		if err != nil {
			return fmt.Errorf("read settings: %w", err)
		}
		s, err = settings.Load(data)
		if err != nil {
			return err
		}
	} else {
		s = settings.Default()
	}
	*layout = &s

	preset := s.SelectedPreset()
	if *presetID != "" {
		preset = s.Preset(*presetID)
	}
	if preset == nil {
		return fmt.Errorf("preset %q: %w", *presetID, domain.ErrNotFound)
	}
	size, err := s.ResolveSizePreset(preset)
	if err != nil {
		return err
	}

	photo, err := compose.LoadPhoto(*photoPath)
	if err != nil {
		return err
	}

	fonts := textlayout.NewFontLibrary()
	family := *fontFamily
	if family == "" {
		family = cfg.Editor.FontFamily
	}
	path := *fontPath
	if path == "" {
		path = cfg.Editor.FontPath
	}
	if path != "" {
		if err := fonts.LoadTTF(family, path); err != nil {
			return err
		}
	}

	content := domain.ContentRecord{
		CharacterName: *character,
		JournalNumber: *number,
		Title:         *title,
		Content:       *body,
	}
	opt := export.Options{
		Quality: *quality,
		Compose: compose.Options{Scale: 1, Fonts: fonts, FontFamily: family},
	}
	if err := export.Card(preset, size, photo, content, *out, opt); err != nil {
		return err
	}
	fmt.Println("Wrote", *out)
	return nil
}
