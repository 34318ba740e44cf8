package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/onnwee/streamwatch/live"
)

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.json")
	records := []live.Record{
		{Username: "alice", Title: "Chess", Game: "Chess.com", StartedAt: "2024-10-15T14:30:00Z"},
		{Username: "bob", Title: "", Game: "", StartedAt: "2024-10-15T15:00:00Z"},
	}

	snap, err := Write(path, records)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if len(snap.Live) != 2 {
		t.Errorf("returned snapshot has %d records, want 2", len(snap.Live))
	}
	if _, err := time.Parse(time.RFC3339, snap.Timestamp); err != nil {
		t.Errorf("Timestamp %q is not RFC3339: %v", snap.Timestamp, err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	var got struct {
		Timestamp string `json:"timestamp"`
		Live      []struct {
			Username  string `json:"username"`
			Title     string `json:"title"`
			Game      string `json:"game"`
			StartedAt string `json:"started_at"`
		} `json:"live"`
	}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if got.Timestamp != snap.Timestamp {
		t.Errorf("file timestamp %q != returned %q", got.Timestamp, snap.Timestamp)
	}
	if len(got.Live) != 2 || got.Live[0].Username != "alice" || got.Live[0].Game != "Chess.com" {
		t.Errorf("unexpected live entries: %+v", got.Live)
	}
	if got.Live[1].Username != "bob" {
		t.Errorf("record order not preserved: %+v", got.Live)
	}
}

func TestWrite_IdempotentModuloTimestamp(t *testing.T) {
	dir := t.TempDir()
	records := []live.Record{{Username: "alice", StartedAt: "2024-10-15T14:30:00Z"}}

	s1, err := Write(filepath.Join(dir, "a.json"), records)
	if err != nil {
		t.Fatalf("first Write() error = %v", err)
	}
	s2, err := Write(filepath.Join(dir, "b.json"), records)
	if err != nil {
		t.Fatalf("second Write() error = %v", err)
	}
	if len(s1.Live) != len(s2.Live) || s1.Live[0] != s2.Live[0] {
		t.Errorf("snapshots differ beyond timestamp: %+v vs %+v", s1.Live, s2.Live)
	}
}

func TestWrite_EmptyRecordsSerializeAsEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.json")
	if _, err := Write(path, nil); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	var got map[string]json.RawMessage
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if string(got["live"]) == "null" {
		t.Error(`"live" must be an empty array, not null`)
	}
}

func TestWrite_OverwritesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.json")
	if _, err := Write(path, []live.Record{{Username: "old"}}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := Write(path, []live.Record{{Username: "new"}}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	b, _ := os.ReadFile(path)
	var got Snapshot
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if len(got.Live) != 1 || got.Live[0].Username != "new" {
		t.Errorf("snapshot not overwritten: %+v", got.Live)
	}
}

func TestWrite_UnwritablePathFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such-dir", "live.json")
	if _, err := Write(path, nil); err == nil {
		t.Error("Write() into a missing directory should return an error")
	}
}
