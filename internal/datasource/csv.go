package datasource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/sales-forecast/internal/models"
)

// timeLayouts are tried in order when parsing the timestamp column.
var timeLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ReadCSV parses two-column (timestamp, value) records. A first row whose
// value column is not numeric is treated as a header. Blank lines are skipped.
func ReadCSV(r io.Reader) (models.Series, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var series models.Series
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrInvalidSeries, err)
		}
		if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("%w: line %d has %d fields, want 2", models.ErrInvalidSeries, line, len(record))
		}

		value, valueErr := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if valueErr != nil && line == 1 {
			continue
		}
		if valueErr != nil {
			return nil, fmt.Errorf("%w: line %d: value %q", models.ErrInvalidSeries, line, record[1])
		}
		ts, err := parseTime(record[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", models.ErrInvalidSeries, line, err)
		}
		series = append(series, models.Observation{Time: ts, Value: value})
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}

// WriteCSV writes series as headerless (timestamp, value) records.
func WriteCSV(w io.Writer, series models.Series) error {
	writer := csv.NewWriter(w)
	for _, obs := range series {
		record := []string{
			obs.Time.Format("2006-01-02"),
			strconv.FormatFloat(obs.Value, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadCSVFile reads a series from path.
func ReadCSVFile(path string) (models.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	series, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return series, nil
}

// WriteCSVFile writes a series to path, creating or truncating it.
func WriteCSVFile(path string, series models.Series) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, series); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", raw)
}
