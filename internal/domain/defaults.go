/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// Built-in defaults: one Instagram-post size preset and a card layout with
// the conventional five elements. New installations start from these.

// DefaultSizePresets returns the built-in output targets.
func DefaultSizePresets() []ImageSizePreset {
	return []ImageSizePreset{
		{ID: "instagram", Name: "인스타그램 게시물", Width: 1080, Height: 1350},
		{ID: "instagram_story", Name: "인스타그램 스토리", Width: 1080, Height: 1920},
	}
}

// DefaultSettings returns the initial layout settings used when no saved
// settings document is supplied.
func DefaultSettings() LayoutSettings {
	return LayoutSettings{
		SelectedPresetID: "default",
		SizePresets:      DefaultSizePresets(),
		Presets: []LayoutPreset{
			{
				ID:                "default",
				Name:              "기본 레이아웃",
				ImageSizePresetID: "instagram",
				Elements: []LayoutElement{
					{
						ID: "background", Name: "배경", Enabled: true, Type: TypeBackground,
						X: 0, Y: 0, Width: 100, Height: 100,
						BackgroundStyle: &BackgroundStyle{Color: "#FEF3C7", Opacity: 1.0},
					},
					{
						ID: "title_panel", Name: "제목 패널", Enabled: true, Type: TypeShape,
						X: 3, Y: 3, Width: 55, Height: 18,
						ShapeStyle: &ShapeStyle{
							BackgroundColor:   "#FFFFFF",
							BackgroundOpacity: 0.6,
							BorderColor:       "#111827",
							BorderOpacity:     0.9,
							CornerRadius:      24,
							BlurEnabled:       true,
							BlurAmount:        12,
						},
					},
					{
						ID: "hero_image", Name: "히어로 이미지", Enabled: true, Type: TypeImage,
						X: 50, Y: 25, Width: 45, Height: 50,
					},
					{
						ID: "title", Name: "제목", Enabled: true, Type: TypeText,
						X: 5, Y: 5, Width: 50, Height: 10,
						SampleText: "뭉이의 연구일지 #001",
						TextStyle:  &TextStyle{FontSize: 64, Color: "#EF4444"},
					},
					{
						ID: "subtitle", Name: "부제", Enabled: true, Type: TypeText,
						X: 5, Y: 17, Width: 50, Height: 8,
						SampleText: "오늘의 주제",
						TextStyle:  &TextStyle{FontSize: 48, Color: "#EC4899"},
					},
					{
						ID: "short_knowledge", Name: "짧은지식", Enabled: true, Type: TypeText,
						X: 5, Y: 75, Width: 45, Height: 20,
						SampleText: "짧은 지식 본문이 여기에 들어갑니다.",
						TextStyle: &TextStyle{
							FontSize:         36,
							Color:            "#3B82F6",
							HighlightEnabled: true,
							HighlightColor:   "#FFFFFF",
							HighlightOpacity: 0.8,
							HighlightMargin:  16,
						},
					},
				},
			},
		},
	}
}
