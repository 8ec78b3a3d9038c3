package table

import (
	"encoding/csv"
	"os"
)

func readCSV(path string) (*Sheet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	rows := make([][]any, len(records))
	for r, fields := range records {
		row := make([]any, len(fields))
		for c, field := range fields {
			if field == "" {
				continue
			}
			row[c] = field
		}
		rows[r] = row
	}
	return split(rows), nil
}
