package oracle

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cloo-solutions/geomed/internal/domain"
	"github.com/cloo-solutions/geomed/internal/intake"
	"github.com/cloo-solutions/geomed/internal/pubmed"
)

const SystemPrompt = "You are a medical professional analyzer and geographic expert. " +
	"When analyzing UK-based professionals, always name the constituent country " +
	"(England, Scotland, Wales or Northern Ireland) rather than the United Kingdom. " +
	"Predict where a healthcare professional practises, whether they are a medical doctor, " +
	"their specialty and a likely public profile URL."

const promptTemplate = `Analyze the following healthcare professional.

Name: %s
Email: %s
Hospital Affiliation: %s
PubMed Research Topic: %s

PubMed Data:
- Found publications: %t
- Number of publications: %d
- Affiliation countries: %s

Provide:
1. Country: most likely country. For the UK give England, Scotland, Wales or Northern Ireland.
2. City: city if identifiable from the hospital or email, otherwise "Not specified".
3. Confidence: a number from 0 to 100.
4. Reasoning: at most two sentences.
5. Is Doctor: yes or no, judged from name prefixes, affiliation and publications.
6. Specialty: medical specialty, "General Practice" if unclear.
7. Profile URL: a likely public profile URL, otherwise "Not found".

Answer EXACTLY in this format:
COUNTRY: [country]
CITY: [city or "Not specified"]
CONFIDENCE: [number]
REASONING: [reasoning]
IS_DOCTOR: [yes/no]
SPECIALTY: [specialty]
PROFILE_URL: [URL or "Not found"]
`

// BuildPrompt renders the user message for one professional.
func BuildPrompt(in domain.ProfessionalInput, pm *pubmed.Result) string {
	if pm == nil {
		pm = &pubmed.Result{}
	}
	countries := "None"
	if len(pm.Countries) > 0 {
		countries = strings.Join(pm.Countries, ", ")
	}
	return fmt.Sprintf(promptTemplate, in.Name, in.Email, in.Hospital, in.PubMedTopic, pm.Found, pm.Count, countries)
}

var sentinels = map[string]struct{}{
	"":              {},
	"not specified": {},
	"unknown":       {},
	"n/a":           {},
	"none":          {},
	"not found":     {},
}

func optional(v string) *string {
	if _, ok := sentinels[strings.ToLower(v)]; ok {
		return nil
	}
	return &v
}

// ParseResponse reads the KEY: value lines of a model answer.
// Missing or sentinel values stay absent; an unparseable confidence is absent too.
func ParseResponse(text string) *domain.Prediction {
	p := &domain.Prediction{IsDoctor: true}

	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "*- ")
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(strings.Trim(strings.TrimSpace(value), `*"`))

		switch strings.ToUpper(strings.Trim(strings.TrimSpace(key), "*")) {
		case "COUNTRY":
			if v := optional(value); v != nil {
				p.PredictedCountry = *v
			}
		case "CITY":
			p.City = optional(value)
		case "CONFIDENCE":
			p.ConfidenceScore = parseConfidence(value)
		case "REASONING":
			p.Reasoning = optional(value)
		case "IS_DOCTOR":
			switch strings.ToLower(value) {
			case "yes", "true", "y":
				p.IsDoctor = true
			default:
				p.IsDoctor = false
			}
		case "SPECIALTY":
			p.Specialty = optional(value)
		case "PROFILE_URL":
			p.PublicProfileURL = optional(value)
		}
	}
	return p
}

func parseConfidence(v string) *float64 {
	v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "%"))
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

// Sources lists the signals used for a prediction, in display order.
func Sources(email string, publicationsFound bool) []string {
	sources := []string{"AI Analysis"}
	if publicationsFound {
		sources = append(sources, "PubMed Publications")
	}
	if d := intake.EmailDomain(email); d != "" {
		sources = append(sources, fmt.Sprintf("Email Domain (%s)", d))
	}
	return append(sources, "Hospital Name Analysis")
}
