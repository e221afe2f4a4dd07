package intake

import (
	"testing"

	"github.com/cloo-solutions/geomed/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func templateRow() []Cell {
	return []Cell{
		{"Firstname", "  Jane "},
		{"Lastname", "Doe"},
		{"Email ID", " jane@x.edu "},
		{"Hospital Affiliation", "X Hospital"},
		{"PubMed Article Title", "Oncology"},
	}
}

func withValue(cells []Cell, header, value string) []Cell {
	out := make([]Cell, 0, len(cells))
	for _, c := range cells {
		if c.Header == header {
			c.Value = value
		}
		out = append(out, c)
	}
	return out
}

func without(cells []Cell, header string) []Cell {
	out := make([]Cell, 0, len(cells))
	for _, c := range cells {
		if c.Header != header {
			out = append(out, c)
		}
	}
	return out
}

func TestNormalizeRow_TemplateHeaders(t *testing.T) {
	in, err := NormalizeRow(templateRow())
	require.NoError(t, err)

	assert.Equal(t, domain.ProfessionalInput{
		Name:        "Jane Doe",
		Email:       "jane@x.edu",
		Hospital:    "X Hospital",
		PubMedTopic: "Oncology",
	}, in)
}

func TestNormalizeRow_HeaderVariantsAndExtras(t *testing.T) {
	row := []Cell{
		{"first_name", "Ken"},
		{"LAST NAME", "Sato"},
		{"email address", "ken@u-tokyo.ac.jp"},
		{" affiliation ", "University of Tokyo Hospital"},
		{"PubMed  Topic", "Cardiology"},
		{"Notes", "ignored"},
	}

	in, err := NormalizeRow(row)
	require.NoError(t, err)
	assert.Equal(t, "Ken Sato", in.Name)
	assert.Equal(t, "University of Tokyo Hospital", in.Hospital)
	assert.Equal(t, "Cardiology", in.PubMedTopic)
}

func TestNormalizeRow_AliasColumnsLeftmostWins(t *testing.T) {
	row := append(templateRow()[:2:2],
		Cell{"Email", "a@x.edu"},
		Cell{"Email ID", "b@y.edu"},
		Cell{"Hospital Affiliation", "X Hospital"},
		Cell{"PubMed Article Title", "Oncology"},
	)

	for i := 0; i < 200; i++ {
		in, err := NormalizeRow(row)
		require.NoError(t, err)
		require.Equal(t, "a@x.edu", in.Email)
	}
}

func TestNormalizeRow_AliasColumnsSkipBlankLeftmost(t *testing.T) {
	row := append([]Cell{{"E-mail", "  "}}, templateRow()...)

	in, err := NormalizeRow(row)
	require.NoError(t, err)
	assert.Equal(t, "jane@x.edu", in.Email)
}

func TestNormalizeRow_MissingField(t *testing.T) {
	_, err := NormalizeRow(withValue(templateRow(), "Email ID", "   "))
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeValidation))
	assert.Contains(t, err.Error(), "email")
}

func TestNormalizeRow_AbsentColumn(t *testing.T) {
	_, err := NormalizeRow(without(templateRow(), "Hospital Affiliation"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hospital")
}

func TestNormalizeRow_InvalidEmail(t *testing.T) {
	_, err := NormalizeRow(withValue(templateRow(), "Email ID", "jane.x.edu"))
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeValidation))
	assert.Contains(t, err.Error(), "email")
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"jane@x.edu", false},
		{"a@b", false},
		{"", true},
		{"@x.edu", true},
		{"jane@", true},
		{"jane@@x.edu", true},
		{"j@ne@x.edu", true},
		{"plain", true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMissingColumns(t *testing.T) {
	assert.Empty(t, MissingColumns([]string{"Firstname", "Lastname", "Email ID", "Hospital Affiliation", "PubMed Article Title"}))
	assert.Empty(t, MissingColumns([]string{"firstname", "LASTNAME", "email", "hospital", "topic", "extra"}))
	assert.Equal(t, []string{"Email ID", "PubMed Article Title"}, MissingColumns([]string{"Firstname", "Lastname", "Hospital Affiliation"}))
}

func TestCombineName(t *testing.T) {
	assert.Equal(t, "Jane Doe", CombineName(" Jane ", " Doe "))
	assert.Equal(t, "Jane", CombineName("Jane", ""))
	assert.Equal(t, "", CombineName("", ""))
}

func TestValidateSearch(t *testing.T) {
	in, err := ValidateSearch(domain.ProfessionalInput{
		Name:        " Dr. Sarah Johnson ",
		Email:       "sarah.johnson@stanford.edu",
		Hospital:    "Stanford Medical Center",
		PubMedTopic: "Cardiology",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Sarah Johnson", in.Name)

	_, err = ValidateSearch(domain.ProfessionalInput{Name: "x", Email: "x@y", Hospital: "h"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pubmed_topic")
}

func TestEmailDomain(t *testing.T) {
	assert.Equal(t, "x.edu", EmailDomain("jane@x.edu"))
	assert.Equal(t, "", EmailDomain("plain"))
}
