/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type GeneralConfig struct {
	Theme        string `yaml:"theme"` // "system" | "light" | "dark" (informational for now)
	SettingsFile string `yaml:"settings_file"`
}

type EditorConfig struct {
	// CanvasWidth is the on-screen canvas width in display pixels; height
	// follows the active size preset's aspect ratio.
	CanvasWidth int `yaml:"canvas_width"`
	// ShowGrid toggles the 100px/500px guide overlay.
	ShowGrid bool `yaml:"show_grid"`
	// FontFamily and FontPath select the TTF used for text rendering.
	FontFamily string `yaml:"font_family"`
	FontPath   string `yaml:"font_path"`
	// PreviewScale is the live preview resolution factor in (0,1].
	PreviewScale float64 `yaml:"preview_scale"`
}

type ExportConfig struct {
	OutDir      string `yaml:"out_dir"`
	Format      string `yaml:"format"` // "png" | "jpeg" | "pdf"
	JPEGQuality int    `yaml:"jpeg_quality"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Editor        EditorConfig  `yaml:"editor"`
	Export        ExportConfig  `yaml:"export"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{Theme: "system", SettingsFile: ""},
		Editor:        EditorConfig{CanvasWidth: 540, ShowGrid: true, PreviewScale: 0.5},
		Export:        ExportConfig{OutDir: "exports", Format: "png", JPEGQuality: 90},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvSettingsFile = "CS_SETTINGS_FILE"
	EnvCanvasWidth  = "CS_CANVAS_WIDTH"
	EnvFontPath     = "CS_FONT_PATH"
	EnvExportDir    = "CS_EXPORT_DIR"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "CS_LOG_LEVEL"
	EnvLogFormat = "CS_LOG_FORMAT"
	EnvLogSource = "CS_LOG_SOURCE"
	EnvLogFile   = "CS_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "CardStudio")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "CardStudio")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "cardstudio")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	if strings.TrimSpace(src.General.SettingsFile) != "" {
		dst.General.SettingsFile = strings.TrimSpace(src.General.SettingsFile)
	}
	if src.Editor.CanvasWidth > 0 {
		dst.Editor.CanvasWidth = src.Editor.CanvasWidth
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Editor.ShowGrid = src.Editor.ShowGrid
	if src.Editor.FontFamily != "" {
		dst.Editor.FontFamily = src.Editor.FontFamily
	}
	if src.Editor.FontPath != "" {
		dst.Editor.FontPath = src.Editor.FontPath
	}
	if src.Editor.PreviewScale > 0 && src.Editor.PreviewScale <= 1 {
		dst.Editor.PreviewScale = src.Editor.PreviewScale
	}
	if src.Export.OutDir != "" {
		dst.Export.OutDir = src.Export.OutDir
	}
	if src.Export.Format != "" {
		dst.Export.Format = strings.ToLower(src.Export.Format)
	}
	if src.Export.JPEGQuality > 0 {
		dst.Export.JPEGQuality = src.Export.JPEGQuality
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvSettingsFile)); v != "" {
		cfg.General.SettingsFile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCanvasWidth)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Editor.CanvasWidth = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvFontPath)); v != "" {
		cfg.Editor.FontPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportDir)); v != "" {
		cfg.Export.OutDir = v
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	switch key {
	case "general.settings_file":
		if os.Getenv(EnvSettingsFile) != "" {
			return EnvSettingsFile, true
		}
	case "editor.canvas_width":
		if os.Getenv(EnvCanvasWidth) != "" {
			return EnvCanvasWidth, true
		}
	case "editor.font_path":
		if os.Getenv(EnvFontPath) != "" {
			return EnvFontPath, true
		}
	case "export.out_dir":
		if os.Getenv(EnvExportDir) != "" {
			return EnvExportDir, true
		}
	case "logging.level":
		if os.Getenv(EnvLogLevel) != "" {
			return EnvLogLevel, true
		}
	case "logging.format":
		if os.Getenv(EnvLogFormat) != "" {
			return EnvLogFormat, true
		}
	case "logging.source":
		if os.Getenv(EnvLogSource) != "" {
			return EnvLogSource, true
		}
	case "logging.file":
		if os.Getenv(EnvLogFile) != "" {
			return EnvLogFile, true
		}
	}
	return "", false
}
