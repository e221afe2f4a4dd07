package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/cloo-solutions/geomed/internal/domain"
	"github.com/cloo-solutions/geomed/internal/intake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

var header = []interface{}{"Firstname", "Lastname", "Email ID", "Hospital Affiliation", "PubMed Article Title"}

func TestParse_TemplateWorkbook(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		header,
		{"Jane", "Doe", "jane@x.edu", "X Hospital", "Oncology"},
		{"", "", "", "", ""},
		{"Ken", "Sato", "ken@u-tokyo.ac.jp", "Tokyo Hospital", "Cardiology"},
	})

	sheet, err := Parse("batch.xlsx", data)
	require.NoError(t, err)

	require.Len(t, sheet.Rows, 2, "blank rows are skipped")
	assert.Equal(t, 2, sheet.Rows[0].Number)
	assert.Equal(t, "Jane", sheet.Rows[0].Value("Firstname"))
	assert.Equal(t, 4, sheet.Rows[1].Number, "row numbers keep their spreadsheet position")
	assert.Equal(t, "Cardiology", sheet.Rows[1].Value("PubMed Article Title"))
}

func TestParse_ShortRowsFillEmptyCells(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		header,
		{"Jane", "Doe", "jane@x.edu"},
	})

	sheet, err := Parse("batch.XLSX", data)
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "", sheet.Rows[0].Value("Hospital Affiliation"))
}

func TestParse_KeepsColumnOrder(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Firstname", "Lastname", "Email", "Email ID", "Hospital Affiliation", "PubMed Article Title"},
		{"Jane", "Doe", "a@x.edu", "b@y.edu", "X Hospital", "Oncology"},
	})

	sheet, err := Parse("batch.xlsx", data)
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)

	row := sheet.Rows[0]
	require.Len(t, row.Cells, 6)
	assert.Equal(t, intake.Cell{Header: "Email", Value: "a@x.edu"}, row.Cells[2])
	assert.Equal(t, intake.Cell{Header: "Email ID", Value: "b@y.edu"}, row.Cells[3])

	in, err := intake.NormalizeRow(row.Cells)
	require.NoError(t, err)
	assert.Equal(t, "a@x.edu", in.Email)
}

func TestParse_UnsupportedExtension(t *testing.T) {
	_, err := Parse("batch.csv", []byte("a,b"))
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeFileFormat))
	assert.Contains(t, err.Error(), ".xlsx")
}

func TestParse_NotAWorkbook(t *testing.T) {
	_, err := Parse("batch.xlsx", []byte("this is plain text"))
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeFileFormat))
}

func TestParse_CorruptZip(t *testing.T) {
	_, err := Parse("batch.xlsx", append([]byte("PK\x03\x04"), bytes.Repeat([]byte{0}, 64)...))
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeFileFormat))
}

func TestParse_MissingColumns(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Firstname", "Lastname", "Hospital Affiliation"},
		{"Jane", "Doe", "X Hospital"},
	})

	_, err := Parse("batch.xlsx", data)
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeFileFormat))
	assert.Contains(t, err.Error(), "Email ID")
	assert.Contains(t, err.Error(), "PubMed Article Title")
}

func TestParse_EmptyWorkbook(t *testing.T) {
	data := buildWorkbook(t, nil)

	_, err := Parse("batch.xlsx", data)
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeFileFormat))
}

func TestWriteTemplate_RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf))

	sheet, err := Parse(TemplateFilename, buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"Firstname", "Lastname", "Email ID", "Hospital Affiliation", "PubMed Article Title"}, sheet.Headers)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "Jane", sheet.Rows[0].Value("Firstname"))
}
