// Package export serializes the lead list into downloadable attachments.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/leadgen/lead-extractor-service/internal/apperror"
	"github.com/leadgen/lead-extractor-service/internal/models"
)

const (
	csvFilename   = "linkedin_leads.csv"
	excelFilename = "linkedin_leads.xlsx"
	sheetName     = "LinkedIn Leads"

	csvContentType   = "text/csv"
	excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Headers are the column titles of both formats, in column order.
var Headers = []string{"Name", "Job Title", "Company", "Location", "LinkedIn URL"}

// Attachment is a serialized export ready to be sent to a client.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

func row(l models.Lead) []string {
	return []string{l.Name, l.JobTitle, l.Company, l.Location, l.LinkedinURL}
}

// CSV renders leads as comma separated text. Every field is quoted.
func CSV(leads []models.Lead) (Attachment, error) {
	if len(leads) == 0 {
		return Attachment{}, apperror.ErrEmptyState
	}

	var b strings.Builder
	b.WriteString(strings.Join(Headers, ","))
	for _, l := range leads {
		b.WriteByte('\n')
		for i, field := range row(l) {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quote(field))
		}
	}

	return Attachment{
		Filename:    csvFilename,
		ContentType: csvContentType,
		Data:        []byte(b.String()),
	}, nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Excel renders leads as a single-sheet xlsx workbook with a header row.
func Excel(leads []models.Lead) (Attachment, error) {
	if len(leads) == 0 {
		return Attachment{}, apperror.ErrEmptyState
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return Attachment{}, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &Headers); err != nil {
		return Attachment{}, fmt.Errorf("failed to write header row: %w", err)
	}
	for i, l := range leads {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return Attachment{}, fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		values := row(l)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return Attachment{}, fmt.Errorf("failed to write lead %d: %w", l.ID, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return Attachment{}, fmt.Errorf("failed to write workbook: %w", err)
	}

	return Attachment{
		Filename:    excelFilename,
		ContentType: excelContentType,
		Data:        buf.Bytes(),
	}, nil
}
