package logfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"url-monitor/internal/failure"
	"url-monitor/internal/models"
)

var ErrMissingHeader = errors.New("missing header row")

// ReadRecords parses every data row of a log file. Datetimes are read in
// loc, local time when nil.
func ReadRecords(path string, loc *time.Location) ([]models.LogRecord, error) {
	if loc == nil {
		loc = time.Local
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, failure.New(failure.LogIO, "open", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(Header)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, failure.New(failure.LogIO, "read", path, ErrMissingHeader)
	}
	if err != nil {
		return nil, failure.New(failure.LogIO, "read", path, err)
	}
	if !slices.Equal(header, Header) {
		return nil, failure.New(failure.LogIO, "read", path, ErrMissingHeader)
	}

	var records []models.LogRecord
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, failure.New(failure.LogIO, "read", path, err)
		}

		record, err := models.ParseLogRecord(fields, loc)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, failure.New(failure.LogIO, "parse", path, fmt.Errorf("line %d: %w", line, err))
		}
		records = append(records, record)
	}

	return records, nil
}
