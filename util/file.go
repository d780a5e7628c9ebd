package util

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"variance_checker/data"
)

var ErrUnsupportedFileType = errors.New("unsupported file type")

// ReadTableAsync loads a table on its own goroutine so both sources can be
// read at the same time.
func ReadTableAsync(filePath, csvEncoding string) (<-chan data.Table, <-chan error) {
	resultCh := make(chan data.Table, 1)
	errCh := make(chan error, 1)

	go func() {
		res, err := ReadTable(filePath, csvEncoding)
		if err != nil {
			errCh <- err
			return
		}
		resultCh <- res
	}()

	return resultCh, errCh
}

// ReadTable reads a .csv or .xlsx file. The first row is the header.
// Only the first sheet of a workbook is read.
func ReadTable(filePath, csvEncoding string) (data.Table, error) {
	var records [][]string
	var err error

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		var rows []*[]string
		rows, err = ParseCSVRecords(filePath, csvEncoding, func(record []string) (*[]string, error) {
			return &record, nil
		})
		for _, r := range rows {
			records = append(records, *r)
		}
	case ".xlsx", ".xlsm":
		records, err = readWorkbookRows(filePath)
	default:
		return data.Table{}, fmt.Errorf("%w: %s (expected .csv or .xlsx)", ErrUnsupportedFileType, filePath)
	}
	if err != nil {
		return data.Table{}, err
	}

	if len(records) == 0 {
		return data.Table{}, fmt.Errorf("file %s has no header row", filePath)
	}
	return data.Table{Header: records[0], Rows: records[1:]}, nil
}

// ParseCSVRecords reads a CSV line-by-line and applies a parser function
// that returns a pointer to T and an error. It collects and returns all parsed results.
// Rows may have differing field counts.
func ParseCSVRecords[T any](filePath, encoding string, parseFn func(record []string) (*T, error)) ([]*T, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("could not open file %s: %w", filePath, err)
	}

	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			log.Printf("failed to close file %s: %v", filePath, err)
		}
	}(file)

	src, err := decodeReader(file, encoding)
	if err != nil {
		return nil, fmt.Errorf("could not read file %s: %w", filePath, err)
	}

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	var result []*T
	rowIndex := 0

	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("error reading CSV at row %d: %w", rowIndex, err)
		}
		if rowIndex == 0 && len(record) > 0 {
			record[0] = strings.TrimPrefix(record[0], "\ufeff")
		}

		item, err := parseFn(record)
		if err != nil {
			return nil, fmt.Errorf("error parsing row %d: %w", rowIndex, err)
		}

		result = append(result, item)
		rowIndex++
	}

	return result, nil
}

func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "latin-1", "latin1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(r), nil
	default:
		return nil, fmt.Errorf("unknown csv encoding %q", encoding)
	}
}

func readWorkbookRows(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("could not open workbook %s: %w", filePath, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("failed to close workbook %s: %v", filePath, err)
		}
	}()

	// Raw values: a formatted amount such as "1,234.50" would not parse.
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("could not read sheet %q of %s: %w", sheet, filePath, err)
	}
	return rows, nil
}
