package util

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestReadTableCSV(t *testing.T) {
	path := writeFile(t, "fastdb.csv", []byte("\ufeffid, amount ,note\n1,10.5,\"a, b\"\n2,x\n"))

	table, err := ReadTable(path, "utf-8")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", " amount ", "note"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"1", "10.5", "a, b"}, table.Rows[0])
	assert.Equal(t, []string{"2", "x"}, table.Rows[1])
	assert.Equal(t, "", table.Cell(1, 2))
}

func TestReadTableLatin1(t *testing.T) {
	// 0xE9 is é in ISO-8859-1 and invalid on its own in UTF-8.
	path := writeFile(t, "im.CSV", []byte("name\nCaf\xe9\n"))

	table, err := ReadTable(path, "latin-1")
	require.NoError(t, err)
	assert.Equal(t, "Café", table.Rows[0][0])
}

func TestReadTableXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "im.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"campaign", "amount"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"C1", 12.5}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"C2", 1234.5}))

	// #,##0.00 displays 1234.5 as "1,234.50".
	thousands, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "B3", "B3", thousands))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := ReadTable(path, "latin-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"campaign", "amount"}, table.Header)
	assert.Equal(t, [][]string{{"C1", "12.5"}, {"C2", "1234.5"}}, table.Rows)
}

func TestReadTableErrors(t *testing.T) {
	_, err := ReadTable(writeFile(t, "ledger.xls", []byte("x")), "utf-8")
	assert.True(t, errors.Is(err, ErrUnsupportedFileType))

	_, err = ReadTable(writeFile(t, "empty.csv", nil), "utf-8")
	assert.ErrorContains(t, err, "has no header row")

	_, err = ReadTable(writeFile(t, "a.csv", []byte("a\n")), "ebcdic")
	assert.ErrorContains(t, err, `unknown csv encoding "ebcdic"`)

	_, err = ReadTable(filepath.Join(t.TempDir(), "missing.csv"), "utf-8")
	assert.ErrorContains(t, err, "could not open file")
}

func TestReadTableAsync(t *testing.T) {
	path := writeFile(t, "a.csv", []byte("h\n1\n"))

	resultCh, errCh := ReadTableAsync(path, "utf-8")
	select {
	case table := <-resultCh:
		assert.Equal(t, []string{"h"}, table.Header)
	case err := <-errCh:
		t.Fatalf("unexpected error: %v", err)
	}

	_, errCh = ReadTableAsync("nope.txt", "utf-8")
	assert.ErrorIs(t, <-errCh, ErrUnsupportedFileType)
}

func TestParseCSVRecords(t *testing.T) {
	path := writeFile(t, "n.csv", []byte("1\n2\nthree\n"))

	_, err := ParseCSVRecords(path, "utf-8", func(record []string) (*int, error) {
		if record[0] == "three" {
			return nil, errors.New("not a number")
		}
		n := len(record[0])
		return &n, nil
	})
	assert.EqualError(t, err, "error parsing row 2: not a number")
}
