package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ratewatch/ratings-data/internal/model"
)

// LoadSeedFile reads the static seed snapshot used to populate the store at
// process start. The file is a JSON array of full records.
func LoadSeedFile(path string) ([]model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var records []model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return records, nil
}
