// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// Snapshot is the on-disk representation of a ranked digest. A saved
// snapshot can be rendered again without querying arXiv.
type Snapshot struct {
	Date    string               `yaml:"date"`
	Summary SnapshotSummary      `yaml:"summary"`
	Papers  []types.ScoredRecord `yaml:"papers"`
}

// SnapshotSummary stores the pipeline counters and a timestamp.
type SnapshotSummary struct {
	Fetched     int       `yaml:"fetched"`
	Dropped     int       `yaml:"dropped"`
	Duplicates  int       `yaml:"duplicates"`
	OutOfWindow int       `yaml:"out_of_window"`
	Total       int       `yaml:"total"`
	Timestamp   time.Time `yaml:"timestamp"`
}

// WriteSnapshot saves res to a YAML file.
func WriteSnapshot(path string, res Result, now time.Time) error {
	s := Snapshot{
		Date: res.DateLabel(),
		Summary: SnapshotSummary{
			Fetched:     res.Fetched,
			Dropped:     res.Dropped,
			Duplicates:  res.Duplicates,
			OutOfWindow: res.OutOfWindow,
			Total:       res.Total,
			Timestamp:   now.UTC(),
		},
		Papers: res.Ranked,
	}

	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSnapshot loads a snapshot file from disk.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return &s, nil
}

// Result converts the snapshot back into a pipeline Result.
func (s *Snapshot) Result() (Result, error) {
	date, err := time.Parse(DateLayout, s.Date)
	if err != nil {
		return Result{}, fmt.Errorf("invalid snapshot date %q: %w", s.Date, err)
	}
	return Result{
		TargetDate:  date,
		Fetched:     s.Summary.Fetched,
		Dropped:     s.Summary.Dropped,
		Duplicates:  s.Summary.Duplicates,
		OutOfWindow: s.Summary.OutOfWindow,
		Total:       s.Summary.Total,
		Ranked:      s.Papers,
	}, nil
}
