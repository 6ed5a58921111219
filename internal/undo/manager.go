/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package undo

import (
	"sync"
	"time"
)

// Snapshot is a reversible state blob for one layout preset.
// Blob content is opaque to the manager; size is estimated as len(Blob).
// TS is when the snapshot was captured.
type Snapshot struct {
	PresetID string
	Blob     []byte
	TS       time.Time
}

// Config controls memory and depth caps and coalescing behavior.
type Config struct {
	// MaxBytes is a soft cap; older entries are pruned when exceeded.
	MaxBytes int
	// MaxPerPreset limits snapshots kept per preset (0 means unlimited).
	MaxPerPreset int
	// MinInterval coalesces snapshots captured within the interval for the
	// same preset, replacing the previous one instead of pushing a new
	// entry. Drag gestures emit position updates continuously; without
	// coalescing each mouse-move would be its own undo step.
	MinInterval time.Duration
}

// Manager provides an in-memory undo/redo stack per preset with performance
// safeguards. It is safe for concurrent use.
type Manager struct {
	cfg Config
	mu  sync.Mutex
	// per-preset stacks
	undo map[string][]Snapshot
	redo map[string][]Snapshot
	// accounting
	totalBytes int
}

func NewManager(cfg Config) *Manager {
	// Set conservative defaults if not provided
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 16 * 1024 * 1024 // 16 MiB
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Manager{cfg: cfg, undo: make(map[string][]Snapshot), redo: make(map[string][]Snapshot)}
}

// PushSnapshot records a snapshot for a preset. If within MinInterval from
// the last snapshot on the same preset, it replaces the last one. Clears the
// redo stack for that preset.
func (m *Manager) PushSnapshot(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[s.PresetID]
	if n := len(stack); n > 0 {
		last := stack[n-1]
		if s.TS.Sub(last.TS) < m.cfg.MinInterval {
			// Coalesce: adjust accounting and replace
			m.totalBytes -= len(last.Blob)
			m.totalBytes += len(s.Blob)
			stack[n-1] = s
			m.undo[s.PresetID] = stack
			m.redo[s.PresetID] = nil
			m.enforceCapsLocked(s.PresetID)
			return
		}
	}
	// Push new
	stack = append(stack, s)
	m.undo[s.PresetID] = stack
	m.totalBytes += len(s.Blob)
	// Any new change invalidates redo for the preset
	m.redo[s.PresetID] = nil
	m.enforceCapsLocked(s.PresetID)
}

// Undo pops from the preset undo stack and pushes to redo, returning the
// snapshot.
func (m *Manager) Undo(presetID string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[presetID]
	if len(stack) == 0 {
		return Snapshot{}, false
	}
	s := stack[len(stack)-1]
	m.undo[presetID] = stack[:len(stack)-1]
	m.totalBytes -= len(s.Blob)
	m.redo[presetID] = append(m.redo[presetID], s)
	return s, true
}

// Redo pops from redo and pushes back to undo.
func (m *Manager) Redo(presetID string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.redo[presetID]
	if len(r) == 0 {
		return Snapshot{}, false
	}
	s := r[len(r)-1]
	m.redo[presetID] = r[:len(r)-1]
	m.undo[presetID] = append(m.undo[presetID], s)
	m.totalBytes += len(s.Blob)
	m.enforceCapsLocked(presetID)
	return s, true
}

// ClearPreset clears undo/redo stacks for a preset to free memory.
func (m *Manager) ClearPreset(presetID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.undo[presetID] {
		m.totalBytes -= len(s.Blob)
	}
	delete(m.undo, presetID)
	delete(m.redo, presetID)
	if m.totalBytes < 0 {
		m.totalBytes = 0
	}
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (totalBytes int, presets int, totalSnapshots int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	presets = len(m.undo)
	for _, v := range m.undo {
		totalSnapshots += len(v)
	}
	return m.totalBytes, presets, totalSnapshots
}

func (m *Manager) enforceCapsLocked(presetID string) {
	// Per-preset depth cap
	if m.cfg.MaxPerPreset > 0 {
		stack := m.undo[presetID]
		if len(stack) > m.cfg.MaxPerPreset {
			// drop the oldest extras
			toDrop := len(stack) - m.cfg.MaxPerPreset
			for i := 0; i < toDrop; i++ {
				m.totalBytes -= len(stack[i].Blob)
			}
			m.undo[presetID] = append([]Snapshot{}, stack[toDrop:]...)
		}
	}
	// Global memory cap: prune oldest across all presets
	for m.cfg.MaxBytes > 0 && m.totalBytes > m.cfg.MaxBytes {
		oldestPreset := ""
		oldestIdx := -1
		var oldestTS time.Time
		for id, stack := range m.undo {
			if len(stack) == 0 {
				continue
			}
			if oldestIdx == -1 || stack[0].TS.Before(oldestTS) {
				oldestPreset = id
				oldestIdx = 0
				oldestTS = stack[0].TS
			}
		}
		if oldestIdx == -1 {
			break
		}
		stack := m.undo[oldestPreset]
		m.totalBytes -= len(stack[0].Blob)
		m.undo[oldestPreset] = stack[1:]
		if len(m.undo[oldestPreset]) == 0 {
			delete(m.undo, oldestPreset)
		}
	}
}
