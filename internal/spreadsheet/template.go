package spreadsheet

import (
	"fmt"
	"io"

	"github.com/cloo-solutions/geomed/internal/intake"
	"github.com/xuri/excelize/v2"
)

const (
	TemplateSheet    = "HCP Import"
	TemplateFilename = "geomed_hcp_template.xlsx"
)

var templateExample = []string{"Jane", "Doe", "jane.doe@example-hospital.org", "Example General Hospital", "Immunotherapy outcomes in melanoma"}

// WriteTemplate writes an import template with the header row and one example row.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TemplateSheet); err != nil {
		return fmt.Errorf("failed to name template sheet: %w", err)
	}

	header := make([]interface{}, len(intake.TemplateColumns))
	for i, c := range intake.TemplateColumns {
		header[i] = c.Header
	}
	example := make([]interface{}, len(templateExample))
	for i, v := range templateExample {
		example[i] = v
	}

	if err := f.SetSheetRow(TemplateSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write template header: %w", err)
	}
	if err := f.SetSheetRow(TemplateSheet, "A2", &example); err != nil {
		return fmt.Errorf("failed to write template example: %w", err)
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(TemplateSheet, "A", last, 28); err != nil {
		return fmt.Errorf("failed to size template columns: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	return nil
}
