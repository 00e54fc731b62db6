// Package snapshot persists analysis results as JSON files so a completed
// analysis can be re-served without re-reading the source spreadsheets. One
// snapshot per (training, schedule, category) is current at a time; saving a
// new one supersedes the previous without deleting it.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"assesscli/internal/analysis"
)

// Snapshot is one stored analysis result with its addressing metadata
type Snapshot struct {
	ID        string            `json:"id"`
	Training  string            `json:"training"`
	Schedule  string            `json:"schedule"`
	Category  analysis.Category `json:"category"`
	CreatedAt time.Time         `json:"created_at"`
	Result    *analysis.Result  `json:"result"`
}

// Store reads and writes snapshots under a single directory. Safe for
// concurrent use by multiple analyses.
type Store struct {
	dir    string
	logger *slog.Logger

	mu sync.Mutex
}

// NewStore creates a snapshot store rooted at dir, creating it if needed
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Save assigns the snapshot an ID and timestamp and writes it to disk. The
// write goes through a temp file so a crash never leaves a torn snapshot.
func (s *Store) Save(snap *Snapshot) error {
	if snap.Result == nil {
		return fmt.Errorf("snapshot has no result")
	}
	snap.ID = uuid.New().String()
	snap.CreatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	final := filepath.Join(s.dir, snap.ID+".json")
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("committing snapshot: %w", err)
	}

	s.logger.Info("snapshot saved",
		slog.String("id", snap.ID),
		slog.String("training", snap.Training),
		slog.String("schedule", snap.Schedule),
		slog.String("category", string(snap.Category)),
	)
	return nil
}

// ErrNotFound is returned when a lookup matches no stored snapshot
var ErrNotFound = errors.New("snapshot not found")

// Get loads one snapshot by ID
func (s *Store) Get(id string) (*Snapshot, error) {
	if strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("invalid snapshot id: %q", id)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", id, err)
	}
	return &snap, nil
}

// Latest returns the most recently created snapshot for the key, or an error
// when none exists.
func (s *Store) Latest(training, schedule string, category analysis.Category) (*Snapshot, error) {
	snaps, err := s.List()
	if err != nil {
		return nil, err
	}

	var latest *Snapshot
	for _, snap := range snaps {
		if snap.Training != training || snap.Schedule != schedule || snap.Category != category {
			continue
		}
		if latest == nil || snap.CreatedAt.After(latest.CreatedAt) {
			latest = snap
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("snapshot for %s/%s/%s: %w", training, schedule, category, ErrNotFound)
	}
	return latest, nil
}

// List loads every snapshot in the store, newest first. Unreadable files are
// logged and skipped; one corrupt snapshot never hides the rest.
func (s *Store) List() ([]*Snapshot, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot directory: %w", err)
	}

	var snaps []*Snapshot
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		snap, err := s.Get(strings.TrimSuffix(name, ".json"))
		if err != nil {
			s.logger.Warn("skipping unreadable snapshot",
				slog.String("file", name),
				slog.String("error", err.Error()))
			continue
		}
		snaps = append(snaps, snap)
	}

	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].CreatedAt.After(snaps[j].CreatedAt)
	})
	return snaps, nil
}
