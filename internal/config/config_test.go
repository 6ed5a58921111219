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
	"os"
	"testing"
)

func TestEnvOverridesCanvasWidth(t *testing.T) {
	old := os.Getenv(EnvCanvasWidth)
	_ = os.Setenv(EnvCanvasWidth, "720")
	t.Cleanup(func() { _ = os.Setenv(EnvCanvasWidth, old) })
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.Editor.CanvasWidth, 720; got != want {
		t.Fatalf("Editor.CanvasWidth = %d, want %d", got, want)
	}
}

func TestEnvOverridesIgnoreBadCanvasWidth(t *testing.T) {
	old := os.Getenv(EnvCanvasWidth)
	_ = os.Setenv(EnvCanvasWidth, "not-a-number")
	t.Cleanup(func() { _ = os.Setenv(EnvCanvasWidth, old) })
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Editor.CanvasWidth != Defaults().Editor.CanvasWidth {
		t.Fatalf("bad env value should keep default, got %d", cfg.Editor.CanvasWidth)
	}
}

func TestMergeIncludesEditor(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Editor.CanvasWidth = 300
	src.Editor.FontFamily = "NanumGothic"
	src.Editor.FontPath = "/usr/share/fonts/nanum.ttf"
	src.Editor.PreviewScale = 0.25
	mergeInto(&dst, &src)
	if dst.Editor.CanvasWidth != 300 || dst.Editor.FontFamily != "NanumGothic" ||
		dst.Editor.FontPath != "/usr/share/fonts/nanum.ttf" || dst.Editor.PreviewScale != 0.25 {
		t.Fatalf("editor fields not merged correctly: %#v", dst.Editor)
	}
}

func TestMergeIgnoresOutOfRangePreviewScale(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Editor.PreviewScale = 3
	mergeInto(&dst, &src)
	if dst.Editor.PreviewScale != Defaults().Editor.PreviewScale {
		t.Fatalf("out-of-range preview scale merged: %v", dst.Editor.PreviewScale)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/cs.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/cs.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	oldLevel := os.Getenv(EnvLogLevel)
	oldFmt := os.Getenv(EnvLogFormat)
	oldSrc := os.Getenv(EnvLogSource)
	oldFile := os.Getenv(EnvLogFile)
	_ = os.Setenv(EnvLogLevel, "error")
	_ = os.Setenv(EnvLogFormat, "json")
	_ = os.Setenv(EnvLogSource, "1")
	_ = os.Setenv(EnvLogFile, "/tmp/cs-override.log")
	t.Cleanup(func() {
		_ = os.Setenv(EnvLogLevel, oldLevel)
		_ = os.Setenv(EnvLogFormat, oldFmt)
		_ = os.Setenv(EnvLogSource, oldSrc)
		_ = os.Setenv(EnvLogFile, oldFile)
	})
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "/tmp/cs-override.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestEnvOverrideFor(t *testing.T) {
	old := os.Getenv(EnvExportDir)
	_ = os.Setenv(EnvExportDir, "/tmp/cards")
	t.Cleanup(func() { _ = os.Setenv(EnvExportDir, old) })
	name, ok := EnvOverrideFor("export.out_dir")
	if !ok || name != EnvExportDir {
		t.Fatalf("EnvOverrideFor = %q, %v", name, ok)
	}
	if _, ok := EnvOverrideFor("general.theme"); ok {
		t.Fatal("theme has no env override")
	}
}
