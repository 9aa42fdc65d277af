package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nickleo9/scraper/internal/models"
)

// ReadRecords reads a JSON array of records from path.
func ReadRecords(path string) ([]models.TenderRecord, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []models.TenderRecord{}, nil
	}

	var records []models.TenderRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		return []models.TenderRecord{}, nil
	}
	return records, nil
}

// ReadRecordsAllowMissing reads records and treats missing files as empty history.
func ReadRecordsAllowMissing(path string) ([]models.TenderRecord, error) {
	records, err := ReadRecords(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.TenderRecord{}, nil
		}
		return nil, err
	}
	return records, nil
}

// WriteRecords writes records as pretty JSON.
func WriteRecords(path string, records []models.TenderRecord) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is required")
	}
	if records == nil {
		records = []models.TenderRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
