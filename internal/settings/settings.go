/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package settings is the in-process input boundary for layout settings.
// A collaborator hands over one JSON document per edit session; it is
// validated against an embedded JSON Schema before the engine touches it.
// Where the document lives on disk and how it migrates is not this
// package's concern.
package settings

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"cardstudio/internal/domain"
)

//go:embed layout.schema.json
var schemaBytes []byte

// Load parses and validates a LayoutSettings document. Schema violations are
// reported together so a malformed document yields one actionable error.
func Load(data []byte) (domain.LayoutSettings, error) {
	var zero domain.LayoutSettings

	schemaLoader := gojsonschema.NewBytesLoader(schemaBytes)
	docLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return zero, fmt.Errorf("validate layout settings: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return zero, fmt.Errorf("layout settings do not conform to schema: %s", strings.Join(msgs, "; "))
	}

	var s domain.LayoutSettings
	if err := json.Unmarshal(data, &s); err != nil {
		return zero, fmt.Errorf("parse layout settings: %w", err)
	}
	if err := check(&s); err != nil {
		return zero, err
	}
	return s, nil
}

// Save serializes settings in the human-readable form collaborators persist.
func Save(s *domain.LayoutSettings) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal layout settings: %w", err)
	}
	return append(data, '\n'), nil
}

// Default returns the built-in settings for first runs.
func Default() domain.LayoutSettings { return domain.DefaultSettings() }

// check enforces referential rules the schema cannot express.
func check(s *domain.LayoutSettings) error {
	sizeIDs := make(map[string]bool, len(s.SizePresets))
	for _, sp := range s.SizePresets {
		if sizeIDs[sp.ID] {
			return fmt.Errorf("duplicate size preset id %q", sp.ID)
		}
		sizeIDs[sp.ID] = true
	}
	presetIDs := make(map[string]bool, len(s.Presets))
	for i := range s.Presets {
		p := &s.Presets[i]
		if presetIDs[p.ID] {
			return fmt.Errorf("duplicate preset id %q", p.ID)
		}
		presetIDs[p.ID] = true
		if !sizeIDs[p.ImageSizePresetID] {
			return fmt.Errorf("preset %q: size preset %q: %w", p.ID, p.ImageSizePresetID, domain.ErrNotFound)
		}
		elIDs := make(map[string]bool, len(p.Elements))
		for j := range p.Elements {
			el := &p.Elements[j]
			if elIDs[el.ID] {
				return fmt.Errorf("preset %q: duplicate element id %q", p.ID, el.ID)
			}
			elIDs[el.ID] = true
			if err := el.ValidateStyle(); err != nil {
				return fmt.Errorf("preset %q: %w", p.ID, err)
			}
		}
	}
	if s.SelectedPresetID != "" && !presetIDs[s.SelectedPresetID] {
		return fmt.Errorf("selected preset %q: %w", s.SelectedPresetID, domain.ErrNotFound)
	}
	return nil
}
