package exporter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"umroh-scraper/internal/types"
)

// Column names, in file order
const (
	ColumnName         = "Name"
	ColumnWebsiteURL   = "Website URL"
	ColumnAddress      = "Address"
	ColumnPhoneNumbers = "Phone Numbers"
	ColumnEmails       = "Emails"
	ColumnCreatedAt    = "Created At"
)

// ListSeparator joins multi-valued fields within one cell
const ListSeparator = "; "

var header = []string{ColumnName, ColumnWebsiteURL, ColumnAddress, ColumnPhoneNumbers, ColumnEmails, ColumnCreatedAt}

// Timestamp layouts accepted on import. Naive layouts are read as local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ErrMissingColumn is returned when an imported file lacks a required column
var ErrMissingColumn = errors.New("missing required column")

// Exporter writes organizers to CSV files and reads them back
type Exporter struct {
	config *types.Config
	logger types.Logger
}

// NewExporter creates a new CSV exporter
func NewExporter(config *types.Config, logger types.Logger) *Exporter {
	return &Exporter{
		config: config,
		logger: logger,
	}
}

// ToCSV writes orgs to a file in the export directory and returns its path.
// An empty filename produces "<base>_YYYYMMDD_HHMMSS.csv"; absolute filenames are used as given.
func (e *Exporter) ToCSV(orgs []*types.Organizer, filename string) (string, error) {
	if filename == "" {
		filename = TimestampedFilename(e.config.CSVFilename, time.Now())
	}

	path := filename
	if !filepath.IsAbs(filename) {
		path = filepath.Join(e.config.ExportDirectory, filename)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	if err := WriteCSV(file, orgs); err != nil {
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close CSV file: %w", err)
	}

	e.logger.Infof("Successfully exported %d organizers to %s", len(orgs), path)
	return path, nil
}

// LoadFromCSV reads organizers from a file written by ToCSV
func (e *Exporter) LoadFromCSV(path string) ([]*types.Organizer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	orgs, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	e.logger.Infof("Successfully loaded %d organizers from %s", len(orgs), path)
	return orgs, nil
}

// TimestampedFilename inserts a _YYYYMMDD_HHMMSS stamp before the extension of base
func TimestampedFilename(base string, now time.Time) string {
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s_%s%s", name, now.Format("20060102_150405"), ext)
}

// WriteCSV writes the header and one row per organizer
func WriteCSV(w io.Writer, orgs []*types.Organizer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, org := range orgs {
		if org == nil {
			continue
		}

		createdAt := ""
		if !org.CreatedAt.IsZero() {
			createdAt = org.CreatedAt.Format(time.RFC3339Nano)
		}

		row := []string{
			org.Name,
			org.WebsiteURL,
			org.Address,
			strings.Join(org.PhoneNumbers.Values(), ListSeparator),
			strings.Join(org.Emails.Values(), ListSeparator),
			createdAt,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", org.WebsiteURL, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// ReadCSV parses organizers from CSV data, locating columns by header name
func ReadCSV(r io.Reader) ([]*types.Organizer, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	head, err := reader.Read()
	if err == io.EOF {
		return []*types.Organizer{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(head))
	for i, name := range head {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, required := range []string{ColumnName, ColumnWebsiteURL} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	orgs := []*types.Organizer{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", line, err)
		}

		field := func(name string) string {
			if i, ok := columns[name]; ok && i < len(record) {
				return record[i]
			}
			return ""
		}

		createdAt, err := parseTimestamp(field(ColumnCreatedAt))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		orgs = append(orgs, &types.Organizer{
			Name:         field(ColumnName),
			WebsiteURL:   field(ColumnWebsiteURL),
			Address:      field(ColumnAddress),
			PhoneNumbers: types.NewOrderedSet(splitList(field(ColumnPhoneNumbers))...),
			Emails:       types.NewOrderedSet(splitList(field(ColumnEmails))...),
			CreatedAt:    createdAt,
		})
	}

	return orgs, nil
}

func splitList(cell string) []string {
	if cell == "" {
		return nil
	}
	return strings.Split(cell, ListSeparator)
}

// parseTimestamp returns the zero time for an empty cell
func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}

	for i, layout := range timestampLayouts {
		var t time.Time
		var err error
		if i == 0 {
			t, err = time.Parse(layout, value)
		} else {
			t, err = time.ParseInLocation(layout, value, time.Local)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
}
