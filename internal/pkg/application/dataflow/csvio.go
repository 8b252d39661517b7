package dataflow

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
)

// ReadCSVRows loads a CSV file into row maps keyed by the header. A
// leading byte order mark is tolerated, exports from spreadsheet tools
// tend to carry one.
func ReadCSVRows(path string) ([]string, []map[string]string, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	contents = bytes.TrimPrefix(contents, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(contents))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) == 0 {
		return nil, nil, fmt.Errorf("file %s has no header row", path)
	}

	columns := records[0]
	rows := make([]map[string]string, 0, len(records)-1)

	for _, record := range records[1:] {
		row := map[string]string{}
		for i, column := range columns {
			if i < len(record) {
				row[column] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return columns, rows, nil
}

func WriteCSVRows(path string, columns []string, rows []map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	err = writer.Write(columns)
	if err != nil {
		return err
	}

	record := make([]string, len(columns))

	for _, row := range rows {
		for i, column := range columns {
			record[i] = row[column]
		}

		err = writer.Write(record)
		if err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
