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
	"testing"
	"time"
)

func TestClearPresetAndStats(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024, MaxPerPreset: 10, MinInterval: time.Millisecond})
	id := "compact"
	m.PushSnapshot(Snapshot{PresetID: id, Blob: []byte("abcdef"), TS: time.Now()})
	tb, presets, total := m.Stats()
	if tb == 0 || presets != 1 || total != 1 {
		t.Fatalf("unexpected stats before clear: tb=%d presets=%d total=%d", tb, presets, total)
	}
	m.ClearPreset(id)
	tb2, presets2, total2 := m.Stats()
	if tb2 != 0 || presets2 != 0 || total2 != 0 {
		t.Fatalf("expected cleared stats to be zero, got tb=%d presets=%d total=%d", tb2, presets2, total2)
	}
}

func TestGlobalPruneAcrossPresets(t *testing.T) {
	// Very small MaxBytes so pruning triggers across presets
	m := NewManager(Config{MaxBytes: 8, MaxPerPreset: 0, MinInterval: time.Millisecond})
	t0 := time.Now()
	// Older snapshot on one preset
	m.PushSnapshot(Snapshot{PresetID: "a", Blob: []byte("xxxx"), TS: t0})
	// Newer snapshot on another
	m.PushSnapshot(Snapshot{PresetID: "b", Blob: []byte("yyyy"), TS: t0.Add(time.Second)})

	// Add another snapshot to exceed cap and force prune of the oldest
	m.PushSnapshot(Snapshot{PresetID: "b", Blob: []byte("zzzz"), TS: t0.Add(2 * time.Second)})

	// After pruning, oldest (preset "a") should be removed
	_, presets, total := m.Stats()
	if presets == 0 || total == 0 {
		t.Fatalf("expected some snapshots to remain")
	}
	if _, ok := m.Undo("a"); ok {
		t.Fatalf("expected preset a to have been pruned")
	}
	if _, ok := m.Undo("b"); !ok {
		t.Fatalf("expected preset b to have snapshots")
	}
}
