package table

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/ByLCY/certify/failure"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", axis, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "data.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestLoadWorkbookPairsRowsWithHeaders(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Name", "Score"},
		{"Alice", 90},
		{"Bob", 75.5},
	})
	records, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	want := []Record{
		{"Name": "Alice", "Score": 90.0},
		{"Name": "Bob", "Score": 75.5},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
	if text, _ := records[0].Lookup("Score"); text != "90" {
		t.Fatalf("expected numeric score formatted as 90, got %q", text)
	}
}

func TestLoadWorkbookShortAndLongRows(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"A", "B", "C"},
		{"a1"},
		{"a2", "b2", "c2", "extra"},
	})
	records, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	want := []Record{
		{"A": "a1", "B": nil, "C": nil},
		{"A": "a2", "B": "b2", "C": "c2"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWorkbookDuplicateHeadersLaterWins(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Name", "Name"},
		{"first", "second"},
	})
	records, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got := records[0]["Name"]; got != "second" {
		t.Fatalf("expected later duplicate to win, got %v", got)
	}
}

func TestHeadersKeepOrder(t *testing.T) {
	path := writeWorkbook(t, [][]any{{"Zeta", "Alpha", "Mid"}})
	headers, err := Headers(path)
	if err != nil {
		t.Fatalf("Headers error: %v", err)
	}
	if diff := cmp.Diff([]string{"Zeta", "Alpha", "Mid"}, headers); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	content := "Name,Score\nAlice,90\nBob\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	records, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	want := []Record{
		{"Name": "Alice", "Score": "90"},
		{"Name": "Bob", "Score": nil},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.xlsx")
	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	var typed *failure.Error
	if !errors.As(err, &typed) || typed.Kind != failure.KindDataLoad {
		t.Fatalf("expected data load error, got %v", err)
	}
	if typed.Path != path {
		t.Fatalf("expected path %s in error, got %s", path, typed.Path)
	}
}

func TestLoadCorruptWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	if err := os.WriteFile(path, []byte("not a zip"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := Load(path); failure.KindOf(err) != failure.KindDataLoad {
		t.Fatalf("expected data load error, got %v", err)
	}
}

func TestRecordLookup(t *testing.T) {
	rec := Record{"Name": "Alice", "Empty": nil}
	if text, ok := rec.Lookup("Name"); !ok || text != "Alice" {
		t.Fatalf("unexpected lookup: %q %v", text, ok)
	}
	if text, ok := rec.Lookup("Empty"); !ok || text != "" {
		t.Fatalf("nil value should render empty: %q %v", text, ok)
	}
	if _, ok := rec.Lookup("Missing"); ok {
		t.Fatalf("missing column must report ok=false")
	}
}
