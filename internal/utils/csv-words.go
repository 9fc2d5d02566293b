package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/sketchparty/internal"
)

// ReadCsvFile loads word,category,difficulty rows. Category and difficulty may
// be blank. Rows that cannot be used are skipped and logged.
func ReadCsvFile(filePath string) ([]WordEntry, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("unable to read input file %s: %w", filePath, err)
	}
	defer f.Close()

	return ParseWordsCsv(f)
}

func ParseWordsCsv(r io.Reader) ([]WordEntry, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	var words []WordEntry
	line := 0
	for {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to parse words csv: %w", err)
		}
		line++

		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			log.Debug().Int("line", line).Msg("[ReadCsvFile] skipping empty record")
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "word") {
			continue
		}

		entry := WordEntry{Word: strings.TrimSpace(record[0])}
		if len(record) > 1 {
			entry.Category = internal.WordCategory(strings.ToLower(strings.TrimSpace(record[1])))
		}
		if len(record) > 2 {
			entry.Difficulty = internal.WordDifficulty(strings.ToLower(strings.TrimSpace(record[2])))
		}
		if !entry.Category.Valid() && !entry.Difficulty.Valid() {
			log.Warn().Int("line", line).Strs("record", record).Msg("[ReadCsvFile] skipping record with unknown category and difficulty")
			continue
		}

		words = append(words, entry)
	}

	return words, nil
}
