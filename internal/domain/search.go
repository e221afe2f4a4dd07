package domain

import (
	"time"
)

// ProfessionalInput is the canonical set of biographical signals for one professional.
type ProfessionalInput struct {
	Name        string
	Email       string
	Hospital    string
	PubMedTopic string
}

// Prediction is what the Oracle returns for one professional.
// PredictedCountry empty or ConfidenceScore nil means the Oracle broke its contract.
type Prediction struct {
	PredictedCountry string
	ConfidenceScore  *float64
	City             *string
	Reasoning        *string
	IsDoctor         bool
	Specialty        *string
	PublicProfileURL *string
	Sources          []string
}

// SearchRecord is one completed, persisted inference.
type SearchRecord struct {
	ID               string
	Name             string
	Email            string
	Hospital         string
	PubMedTopic      string
	PredictedCountry string
	ConfidenceScore  float64
	City             *string
	Reasoning        *string
	IsDoctor         bool
	Specialty        *string
	PublicProfileURL *string
	Sources          []string
	Timestamp        time.Time
}

const (
	MinConfidence = 0.0
	MaxConfidence = 100.0
)

// NewSearchRecord builds a record from a validated input and a checked prediction.
func NewSearchRecord(id string, in ProfessionalInput, p *Prediction, ts time.Time) *SearchRecord {
	sources := make([]string, len(p.Sources))
	copy(sources, p.Sources)

	return &SearchRecord{
		ID:               id,
		Name:             in.Name,
		Email:            in.Email,
		Hospital:         in.Hospital,
		PubMedTopic:      in.PubMedTopic,
		PredictedCountry: p.PredictedCountry,
		ConfidenceScore:  *p.ConfidenceScore,
		City:             nonEmpty(p.City),
		Reasoning:        nonEmpty(p.Reasoning),
		IsDoctor:         p.IsDoctor,
		Specialty:        nonEmpty(p.Specialty),
		PublicProfileURL: nonEmpty(p.PublicProfileURL),
		Sources:          sources,
		Timestamp:        ts,
	}
}

// ValidateSearchRecord validates a SearchRecord instance
func ValidateSearchRecord(r *SearchRecord) error {
	if r == nil {
		return ValidationError("search record cannot be nil")
	}
	if r.ID == "" {
		return ValidationError("search record ID is required")
	}
	if r.PredictedCountry == "" {
		return ValidationError("search record PredictedCountry is required")
	}
	if r.ConfidenceScore < MinConfidence || r.ConfidenceScore > MaxConfidence {
		return ValidationError("search record ConfidenceScore %v out of range", r.ConfidenceScore)
	}
	if r.Timestamp.IsZero() {
		return ValidationError("search record Timestamp is required")
	}
	return nil
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
