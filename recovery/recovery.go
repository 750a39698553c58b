// Copyright © 2025 The guestfix authors

// Package recovery persists per-stage checkpoints so an interrupted run
// can resume at disk granularity.
package recovery

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// Checkpoint is one saved pipeline stage.
type Checkpoint struct {
	Stage     string                 `json:"stage"`
	Timestamp string                 `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
	Completed bool                   `json:"completed"`
}

// Manager owns a checkpoint directory for one pipeline run.
type Manager struct {
	workdir     string
	checkpoints []Checkpoint
}

func NewManager(workdir string) (*Manager, error) {
	if err := os.MkdirAll(workdir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create checkpoint directory %s", workdir)
	}
	return &Manager{workdir: workdir}, nil
}

func (m *Manager) checkpointFile(cp Checkpoint) string {
	return filepath.Join(m.workdir, "checkpoint_"+cp.Stage+"_"+cp.Timestamp+".json")
}

// SaveCheckpoint records a stage as reached (not yet completed).
func (m *Manager) SaveCheckpoint(stage string, data map[string]interface{}) error {
	cp := Checkpoint{
		Stage:     stage,
		Timestamp: time.Now().Format("20060102-150405"),
		Data:      data,
	}
	m.checkpoints = append(m.checkpoints, cp)
	payload, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode checkpoint")
	}
	if err := os.WriteFile(m.checkpointFile(cp), payload, 0o644); err != nil {
		return errors.Wrapf(err, "failed to save checkpoint %s", stage)
	}
	return nil
}

// MarkComplete flips the first unfinished checkpoint for stage to
// completed, in memory and on disk.
func (m *Manager) MarkComplete(stage string) error {
	for i := range m.checkpoints {
		cp := &m.checkpoints[i]
		if cp.Stage != stage || cp.Completed {
			continue
		}
		cp.Completed = true
		payload, err := json.MarshalIndent(*cp, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode checkpoint")
		}
		if err := os.WriteFile(m.checkpointFile(*cp), payload, 0o644); err != nil {
			return errors.Wrapf(err, "failed to update checkpoint %s", stage)
		}
		return nil
	}
	return nil
}

// Recover returns the data of the most recent completed checkpoint for a
// stage other than the one being retried, or false when there is nothing
// to resume from.
func (m *Manager) Recover(retryStage string) (map[string]interface{}, bool) {
	files, err := filepath.Glob(filepath.Join(m.workdir, "checkpoint_*.json"))
	if err != nil || len(files) == 0 {
		return nil, false
	}
	sort.Strings(files)
	for i := len(files) - 1; i >= 0; i-- {
		raw, err := os.ReadFile(files[i])
		if err != nil {
			continue
		}
		var cp Checkpoint
		if err := json.Unmarshal(raw, &cp); err != nil {
			continue
		}
		if cp.Completed && cp.Stage != retryStage {
			log.Printf("Recovering from checkpoint: %s", cp.Stage)
			return cp.Data, true
		}
	}
	return nil, false
}

// Cleanup drops all but the newest keepLast checkpoint files.
func (m *Manager) Cleanup(keepLast int) error {
	files, err := filepath.Glob(filepath.Join(m.workdir, "checkpoint_*.json"))
	if err != nil {
		return errors.Wrap(err, "failed to list checkpoint files")
	}
	if len(files) <= keepLast {
		return nil
	}
	sort.Strings(files)
	for _, f := range files[:len(files)-keepLast] {
		if err := os.Remove(f); err != nil {
			log.Printf("Failed to remove old checkpoint %s: %v", f, err)
		}
	}
	return nil
}
