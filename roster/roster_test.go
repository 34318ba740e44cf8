package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeRoster builds a spreadsheet with a header row followed by the given
// (login, flag) rows, mirroring the production sheet's A/E column layout.
func writeRoster(t *testing.T, rows [][2]string) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []interface{}{"Channel", "Added By", "Notes", "Region", "Include"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("set header: %v", err)
	}
	for i, r := range rows {
		cellA, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		row := []interface{}{r[0], "", "", "", r[1]}
		if err := f.SetSheetRow(sheet, cellA, &row); err != nil {
			t.Fatalf("set row %d: %v", i, err)
		}
	}
	path := filepath.Join(t.TempDir(), "roster.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save roster: %v", err)
	}
	return path
}

func TestLoad_InclusionFilter(t *testing.T) {
	tests := []struct {
		name string
		rows [][2]string
		want []string
	}{
		{
			name: "flag NO any case excluded",
			rows: [][2]string{{"alice", "NO"}, {"bob", "No"}, {"carol", "no"}},
			want: nil,
		},
		{
			name: "flag false excluded",
			rows: [][2]string{{"alice", "false"}, {"bob", "FALSE"}},
			want: nil,
		},
		{
			name: "any other non-empty flag included",
			rows: [][2]string{{"alice", "yes"}, {"bob", "1"}, {"carol", "true"}, {"dave", "maybe"}},
			want: []string{"alice", "bob", "carol", "dave"},
		},
		{
			name: "empty flag excluded even with login present",
			rows: [][2]string{{"alice", ""}, {"bob", "yes"}},
			want: []string{"bob"},
		},
		{
			name: "empty login excluded even with flag set",
			rows: [][2]string{{"", "yes"}, {"bob", "yes"}},
			want: []string{"bob"},
		},
		{
			name: "whitespace is trimmed before the checks",
			rows: [][2]string{{"  alice  ", " yes "}, {"   ", "yes"}},
			want: []string{"alice"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRoster(t, tt.rows)
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Load() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Load()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLoad_PreservesRowOrderAndDuplicates(t *testing.T) {
	path := writeRoster(t, [][2]string{
		{"zeta", "yes"}, {"alpha", "yes"}, {"zeta", "yes"}, {"mid", "yes"},
	})
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []string{"zeta", "alpha", "zeta", "mid"}
	if len(got) != len(want) {
		t.Fatalf("Load() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Load()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoad_HeaderRowSkipped(t *testing.T) {
	// The header's column A is non-empty with a non-empty column E, so it
	// would pass the filter if it were not skipped.
	path := writeRoster(t, [][2]string{{"alice", "yes"}})
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 1 || got[0] != "alice" {
		t.Errorf("Load() = %v, want [alice]", got)
	}
}

func TestLoad_OutputNeverExceedsDataRows(t *testing.T) {
	rows := [][2]string{{"a", "yes"}, {"b", "no"}, {"c", ""}, {"d", "1"}}
	path := writeRoster(t, rows)
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) > len(rows) {
		t.Errorf("Load() returned %d logins from %d data rows", len(got), len(rows))
	}
	for _, l := range got {
		if l == "" {
			t.Error("Load() returned an empty login")
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
		t.Error("Load() on a missing file should return an error")
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.xlsx")
	if err := os.WriteFile(path, []byte("this is not a spreadsheet"), 0o644); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() on a malformed file should return an error")
	}
}
