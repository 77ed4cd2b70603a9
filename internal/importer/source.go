package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrEmptyFile is returned by a source whose input has no header row.
	ErrEmptyFile = errors.New("file is empty")
	// ErrInvalidHeader is returned when the header row cannot be read.
	ErrInvalidHeader = errors.New("invalid header row")
	// ErrUnreadableFile is returned when an upload is not a valid workbook.
	ErrUnreadableFile = errors.New("file could not be read")
	// ErrUnsupportedFormat is returned by SourceFor for unknown extensions.
	ErrUnsupportedFormat = errors.New("unsupported file format, only .csv and .xlsx are accepted")
)

// Row is one data row keyed by lowercased header name.
type Row struct {
	Number int // 1-based, header excluded
	Fields map[string]string
	Err    error // set when the record itself could not be parsed
}

// Get returns the trimmed value of column.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.Fields[column])
}

// RowSource yields rows one at a time and returns io.EOF after the last one.
// A source is consumed once; it cannot be rewound.
type RowSource interface {
	Next() (Row, error)
}

// CheckFormat reports ErrUnsupportedFormat for extensions SourceFor rejects.
func CheckFormat(filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt", "", ".xlsx":
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
}

// SourceFor picks a RowSource from the file extension.
func SourceFor(filename string, r io.Reader) (RowSource, error) {
	if err := CheckFormat(filename); err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return NewXLSXSource(r)
	}
	return NewCSVSource(r), nil
}

// CSVSource streams records from a CSV reader.
type CSVSource struct {
	reader  *csv.Reader
	headers []string
	count   int
}

// NewCSVSource creates a CSVSource. The header row is read on the first Next.
func NewCSVSource(r io.Reader) *CSVSource {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return &CSVSource{reader: reader}
}

func (s *CSVSource) Next() (Row, error) {
	if s.headers == nil {
		record, err := s.reader.Read()
		if errors.Is(err, io.EOF) {
			return Row{}, ErrEmptyFile
		}
		if err != nil {
			return Row{}, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
		}
		s.headers = normalizeHeaders(record)
	}

	record, err := s.reader.Read()
	if errors.Is(err, io.EOF) {
		return Row{}, io.EOF
	}
	s.count++
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return Row{Number: s.count, Err: err}, nil
	}
	if err != nil {
		return Row{}, fmt.Errorf("failed to read row %d: %w", s.count, err)
	}
	return Row{Number: s.count, Fields: zipRow(s.headers, record)}, nil
}

// XLSXSource streams rows from the first sheet of a workbook, or from the
// sheet named "Products" when there is one.
type XLSXSource struct {
	file    *excelize.File
	rows    *excelize.Rows
	headers []string
	count   int
}

// NewXLSXSource opens the workbook read from r.
func NewXLSXSource(r io.Reader) (*XLSXSource, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidHeader)
	}
	sheet := sheets[0]
	for _, name := range sheets {
		if strings.EqualFold(name, "Products") {
			sheet = name
			break
		}
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return &XLSXSource{file: f, rows: rows}, nil
}

func (s *XLSXSource) Next() (Row, error) {
	for s.rows.Next() {
		columns, err := s.rows.Columns()
		if s.headers == nil {
			if err != nil {
				return Row{}, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
			}
			if blank(columns) {
				continue
			}
			s.headers = normalizeHeaders(columns)
			continue
		}
		if err == nil && blank(columns) {
			continue
		}
		s.count++
		if err != nil {
			return Row{Number: s.count, Err: err}, nil
		}
		return Row{Number: s.count, Fields: zipRow(s.headers, columns)}, nil
	}
	if err := s.rows.Error(); err != nil {
		return Row{}, fmt.Errorf("failed to read sheet: %w", err)
	}
	if s.headers == nil {
		return Row{}, ErrEmptyFile
	}
	return Row{}, io.EOF
}

// Close releases the workbook.
func (s *XLSXSource) Close() error {
	var errs []error
	if err := s.rows.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.file.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func normalizeHeaders(record []string) []string {
	headers := make([]string, len(record))
	for i, h := range record {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.ToLower(strings.TrimSpace(h))
		headers[i] = strings.TrimSpace(strings.TrimSuffix(h, "*"))
	}
	return headers
}

func zipRow(headers, record []string) map[string]string {
	fields := make(map[string]string, len(headers))
	for i, value := range record {
		if i >= len(headers) || headers[i] == "" {
			continue
		}
		if _, seen := fields[headers[i]]; seen {
			continue
		}
		fields[headers[i]] = value
	}
	return fields
}

func blank(columns []string) bool {
	for _, c := range columns {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
