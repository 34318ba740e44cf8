// Package snapshot persists the result of a live-status run as a single
// JSON document, overwriting whatever the previous run wrote.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/onnwee/streamwatch/live"
)

// Snapshot is the persisted output of one run. Live is never null in the
// serialized form; a run with nobody live writes an empty array.
type Snapshot struct {
	Timestamp string        `json:"timestamp"`
	Live      []live.Record `json:"live"`
}

// Write builds a Snapshot from records stamped with the current UTC time and
// overwrites the file at path with its indented JSON form. Records are kept
// as given: no reordering, no deduplication. Marshaling happens before the
// file is touched, so a failure leaves the previous snapshot intact.
func Write(path string, records []live.Record) (Snapshot, error) {
	if records == nil {
		records = []live.Record{}
	}
	snap := Snapshot{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Live:      records,
	}
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return Snapshot{}, fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return Snapshot{}, fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return snap, nil
}
