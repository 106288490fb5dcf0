// Package ingest turns an uploaded recipient spreadsheet into validated, de-duplicated records.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFile = errors.New("unsupported file type, expected .csv or .xlsx")
	ErrMissingColumns  = errors.New("file must contain company_name and email columns")
	ErrEmptyFile       = errors.New("file has no header row")
)

const (
	columnCompanyName = "company_name"
	columnEmail       = "email"
	columnName        = "name"
	columnRole        = "role"
	columnDesignation = "designation"
)

// headerAliases maps normalized header text to a canonical column.
var headerAliases = map[string]string{
	"company_name":    columnCompanyName,
	"company":         columnCompanyName,
	"company name":    columnCompanyName,
	"organization":    columnCompanyName,
	"email":           columnEmail,
	"email id":        columnEmail,
	"recipient email": columnEmail,
	"hr email":        columnEmail,
	"contact email":   columnEmail,
	"name":            columnName,
	"recipient name":  columnName,
	"contact name":    columnName,
	"role":            columnRole,
	"position":        columnRole,
	"designation":     columnDesignation,
	"title":           columnDesignation,
}

var validate = validator.New()

// Record is one recipient row
type Record struct {
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Designation string `json:"designation"`
}

// Report counts what happened to the data rows of a file
type Report struct {
	RowsRead      int `json:"rows_read"`
	Kept          int `json:"kept"`
	MissingFields int `json:"missing_fields"`
	Duplicates    int `json:"duplicates"`
	InvalidEmails int `json:"invalid_emails"`
}

// Parse reads a .csv or .xlsx file (first sheet) and returns its valid recipients in file order
func Parse(filename string, r io.Reader) ([]Record, Report, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		rows, err = readCSV(r)
	case ".xlsx":
		rows, err = readXLSX(r)
	default:
		return nil, Report{}, ErrUnsupportedFile
	}
	if err != nil {
		return nil, Report{}, err
	}
	return ParseRows(rows)
}

// ParseRows maps a header row plus data rows to records. Rows missing a company name or
// email are dropped, later duplicates of an email (case-insensitive) are dropped and
// invalid emails are dropped.
func ParseRows(rows [][]string) ([]Record, Report, error) {
	if len(rows) == 0 {
		return nil, Report{}, ErrEmptyFile
	}

	index := make(map[string]int)
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if canonical, ok := headerAliases[key]; ok {
			if _, seen := index[canonical]; !seen {
				index[canonical] = i
			}
		}
	}
	if _, ok := index[columnCompanyName]; !ok {
		return nil, Report{}, ErrMissingColumns
	}
	if _, ok := index[columnEmail]; !ok {
		return nil, Report{}, ErrMissingColumns
	}

	cell := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		records = append(records, Record{
			CompanyName: cell(row, columnCompanyName),
			Email:       cell(row, columnEmail),
			Name:        cell(row, columnName),
			Role:        cell(row, columnRole),
			Designation: cell(row, columnDesignation),
		})
	}

	kept, report := Clean(records)
	return kept, report, nil
}

// Clean applies the row rules of ParseRows to records that did not come from a file:
// values are trimmed, records missing a company name or email are dropped, later
// duplicates of an email (case-insensitive) are dropped and invalid emails are dropped.
func Clean(records []Record) ([]Record, Report) {
	report := Report{RowsRead: len(records)}
	kept := make([]Record, 0, len(records))
	seen := make(map[string]struct{})

	for _, rec := range records {
		rec = Record{
			CompanyName: strings.TrimSpace(rec.CompanyName),
			Email:       strings.TrimSpace(rec.Email),
			Name:        strings.TrimSpace(rec.Name),
			Role:        strings.TrimSpace(rec.Role),
			Designation: strings.TrimSpace(rec.Designation),
		}
		if rec.CompanyName == "" || rec.Email == "" {
			report.MissingFields++
			continue
		}

		key := strings.ToLower(rec.Email)
		if _, dup := seen[key]; dup {
			report.Duplicates++
			continue
		}
		seen[key] = struct{}{}

		if err := validate.Var(rec.Email, "email"); err != nil {
			report.InvalidEmails++
			continue
		}

		kept = append(kept, rec)
	}

	report.Kept = len(kept)
	return kept, report
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
