package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nickleo9/scraper/internal/models"
)

func sampleRecords() []models.TenderRecord {
	budget := int64(5_000_000)
	return []models.TenderRecord{
		{
			Sequence:     "1",
			Agency:       "高雄市桃源區公所",
			TenderID:     "114BB0013",
			TenderTitle:  "桃源區梅山地區環境整體營造工程",
			AnnounceDate: "114/08/29",
			BudgetRaw:    "5,000,000",
			BudgetAmount: &budget,
			DetailURL:    "https://web.pcc.gov.tw/tps/QueryTender/query/searchTenderDetail?pkPmsMain=52958501",
		},
		{
			Agency:      "臺北市環境保護局",
			TenderTitle: "環境監測站維護案",
			BudgetRaw:   "未定",
		},
	}
}

func TestWriteRecordsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, sampleRecords(), FormatCSV, WriteOptions{}); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][2] != "114BB0013" {
		t.Fatalf("unexpected tender_id cell: %q", rows[1][2])
	}
	if rows[1][10] != "5000000" {
		t.Fatalf("unexpected budget_amount cell: %q", rows[1][10])
	}
	if rows[2][10] != "" {
		t.Fatalf("absent budget must serialize empty, got %q", rows[2][10])
	}
}

func TestWriteRecordsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, sampleRecords(), FormatJSON, WriteOptions{}); err != nil {
		t.Fatalf("write json: %v", err)
	}

	var decoded []models.TenderRecord
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("read back json: %v", err)
	}
	if len(decoded) != 2 || decoded[0].TenderID != "114BB0013" {
		t.Fatalf("unexpected decoded records: %+v", decoded)
	}
}

func TestWriteRecordsTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, sampleRecords(), FormatTable, WriteOptions{}); err != nil {
		t.Fatalf("write table: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "case_no") {
		t.Fatalf("missing header: %s", out)
	}
	if !strings.Contains(out, "114BB0013") || !strings.Contains(out, "環境監測站維護案") {
		t.Fatalf("missing rows: %s", out)
	}
}

func TestWriteRecordsMarkdownEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, nil, FormatMarkdown, WriteOptions{}); err != nil {
		t.Fatalf("write md: %v", err)
	}
	if !strings.Contains(buf.String(), "No results.") {
		t.Fatalf("unexpected empty output: %q", buf.String())
	}
}
