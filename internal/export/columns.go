// Package export renders the search history as CSV text or an XLSX workbook.
// Both codecs read the same column table so their layouts cannot drift apart.
package export

import (
	"strconv"
	"time"

	"github.com/cloo-solutions/geomed/internal/domain"
)

const (
	NotSpecified = "Not specified"
	NotAvailable = "Not available"

	DateLayout = "1/2/2006"
)

// Column is one exported field: its header and how a record renders into it.
type Column struct {
	Header string
	Value  func(r *domain.SearchRecord) string
}

// Columns is the fixed export layout, in output order.
var Columns = []Column{
	{"Name", func(r *domain.SearchRecord) string { return r.Name }},
	{"Email", func(r *domain.SearchRecord) string { return r.Email }},
	{"Hospital", func(r *domain.SearchRecord) string { return r.Hospital }},
	{"PubMed Topic", func(r *domain.SearchRecord) string { return r.PubMedTopic }},
	{"Country", func(r *domain.SearchRecord) string { return r.PredictedCountry }},
	{"Confidence", func(r *domain.SearchRecord) string { return FormatConfidence(r.ConfidenceScore) }},
	{"Is Doctor", func(r *domain.SearchRecord) string { return FormatBool(r.IsDoctor) }},
	{"Specialty", func(r *domain.SearchRecord) string { return orDefault(r.Specialty, NotSpecified) }},
	{"Public Profile", func(r *domain.SearchRecord) string { return orDefault(r.PublicProfileURL, NotAvailable) }},
	{"Date", func(r *domain.SearchRecord) string { return FormatDate(r.Timestamp) }},
}

// Headers returns the header row.
func Headers() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = c.Header
	}
	return out
}

// Row renders one record in column order.
func Row(r *domain.SearchRecord) []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = c.Value(r)
	}
	return out
}

// FormatConfidence renders 87.5 as "87.5%".
func FormatConfidence(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

func FormatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// FormatDate renders the calendar date only, in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

func orDefault(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
