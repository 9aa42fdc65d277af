package history

import (
	"path/filepath"
	"testing"

	"github.com/nickleo9/scraper/internal/models"
)

func TestReadWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")

	records := []models.TenderRecord{
		{Agency: "高雄市政府", TenderID: "114BB0013", TenderTitle: "整體營造工程"},
	}
	if err := WriteRecords(path, records); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 || got[0].TenderID != "114BB0013" {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestReadRecordsAllowMissing(t *testing.T) {
	got, err := ReadRecordsAllowMissing(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing file must read as empty: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty history, got %d records", len(got))
	}
}

func TestWriteRecordsNil(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	if err := WriteRecords(path, nil); err != nil {
		t.Fatalf("write nil: %v", err)
	}
	got, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty array, got %+v", got)
	}
}
