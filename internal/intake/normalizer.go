// Package intake maps uploaded rows and single-search requests onto the canonical
// professional input, trimming and validating every required field.
package intake

import (
	"strings"

	"github.com/cloo-solutions/geomed/internal/domain"
)

// Field is a canonical batch column.
type Field string

const (
	FieldFirstName   Field = "first_name"
	FieldLastName    Field = "last_name"
	FieldEmail       Field = "email"
	FieldHospital    Field = "hospital"
	FieldPubMedTopic Field = "pubmed_topic"
)

// Column pairs a canonical field with its import template header.
type Column struct {
	Field  Field
	Header string
}

// TemplateColumns is the documented upload contract, in template order.
var TemplateColumns = []Column{
	{FieldFirstName, "Firstname"},
	{FieldLastName, "Lastname"},
	{FieldEmail, "Email ID"},
	{FieldHospital, "Hospital Affiliation"},
	{FieldPubMedTopic, "PubMed Article Title"},
}

var headerAliases = map[string]Field{
	"firstname":            FieldFirstName,
	"first name":           FieldFirstName,
	"first":                FieldFirstName,
	"given name":           FieldFirstName,
	"lastname":             FieldLastName,
	"last name":            FieldLastName,
	"last":                 FieldLastName,
	"surname":              FieldLastName,
	"family name":          FieldLastName,
	"email":                FieldEmail,
	"email id":             FieldEmail,
	"email address":        FieldEmail,
	"e-mail":               FieldEmail,
	"hospital":             FieldHospital,
	"hospital affiliation": FieldHospital,
	"affiliation":          FieldHospital,
	"pubmed article title": FieldPubMedTopic,
	"pubmed topic":         FieldPubMedTopic,
	"pubmed":               FieldPubMedTopic,
	"topic":                FieldPubMedTopic,
	"article title":        FieldPubMedTopic,
}

// CanonicalField resolves a raw header to its canonical field.
// Matching ignores case, surrounding space, underscores and repeated spaces.
func CanonicalField(header string) (Field, bool) {
	key := strings.ToLower(strings.ReplaceAll(header, "_", " "))
	key = strings.Join(strings.Fields(key), " ")
	f, ok := headerAliases[key]
	return f, ok
}

// MissingColumns returns the template headers with no matching column in headers.
func MissingColumns(headers []string) []string {
	seen := make(map[Field]bool, len(headers))
	for _, h := range headers {
		if f, ok := CanonicalField(h); ok {
			seen[f] = true
		}
	}

	var missing []string
	for _, c := range TemplateColumns {
		if !seen[c.Field] {
			missing = append(missing, c.Header)
		}
	}
	return missing
}

// Cell is one header and value of a raw row.
type Cell struct {
	Header string
	Value  string
}

// NormalizeRow maps one raw row, in column order, onto a validated input.
// Unrecognized columns are ignored. When two headers map to the same field the
// leftmost non-empty value wins.
func NormalizeRow(cells []Cell) (domain.ProfessionalInput, error) {
	values := make(map[Field]string, len(TemplateColumns))
	for _, c := range cells {
		f, ok := CanonicalField(c.Header)
		if !ok {
			continue
		}
		if v := strings.TrimSpace(c.Value); values[f] == "" {
			values[f] = v
		}
	}

	for _, c := range TemplateColumns {
		if values[c.Field] == "" {
			return domain.ProfessionalInput{}, domain.ValidationError("missing required field: %s", c.Field)
		}
	}

	in := domain.ProfessionalInput{
		Name:        CombineName(values[FieldFirstName], values[FieldLastName]),
		Email:       values[FieldEmail],
		Hospital:    values[FieldHospital],
		PubMedTopic: values[FieldPubMedTopic],
	}
	if err := ValidateEmail(in.Email); err != nil {
		return domain.ProfessionalInput{}, err
	}
	return in, nil
}

// CombineName joins batch name parts with a single space.
func CombineName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

// ValidateSearch trims and validates a single-search request.
func ValidateSearch(in domain.ProfessionalInput) (domain.ProfessionalInput, error) {
	out := domain.ProfessionalInput{
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		Hospital:    strings.TrimSpace(in.Hospital),
		PubMedTopic: strings.TrimSpace(in.PubMedTopic),
	}

	required := []struct {
		name  string
		value string
	}{
		{"name", out.Name},
		{"email", out.Email},
		{"hospital", out.Hospital},
		{"pubmed_topic", out.PubMedTopic},
	}
	for _, r := range required {
		if r.value == "" {
			return domain.ProfessionalInput{}, domain.ValidationError("missing required field: %s", r.name)
		}
	}

	if err := ValidateEmail(out.Email); err != nil {
		return domain.ProfessionalInput{}, err
	}
	return out, nil
}

// ValidateEmail requires exactly one "@" with non-empty local and domain parts.
func ValidateEmail(email string) error {
	if strings.Count(email, "@") != 1 {
		return domain.ValidationError("invalid email %q: must contain exactly one @", email)
	}
	local, host, _ := strings.Cut(email, "@")
	if local == "" || host == "" {
		return domain.ValidationError("invalid email %q: local and domain parts are required", email)
	}
	return nil
}

// EmailDomain returns the part after "@", or "" if the address has none.
func EmailDomain(email string) string {
	_, host, ok := strings.Cut(email, "@")
	if !ok {
		return ""
	}
	return host
}
