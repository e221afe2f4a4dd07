package client

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// SearchRecord is a stored search as returned by the API.
type SearchRecord struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Hospital         string    `json:"hospital"`
	PubMedTopic      string    `json:"pubmed_topic"`
	PredictedCountry string    `json:"predicted_country"`
	ConfidenceScore  float64   `json:"confidence_score"`
	City             *string   `json:"city"`
	Reasoning        *string   `json:"reasoning"`
	IsDoctor         bool      `json:"is_doctor"`
	Specialty        *string   `json:"specialty"`
	PublicProfileURL *string   `json:"public_profile_url"`
	Sources          []string  `json:"sources"`
	Timestamp        time.Time `json:"timestamp"`
}

type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type BatchReport struct {
	TotalProcessed int        `json:"total_processed"`
	Successful     int        `json:"successful"`
	Failed         int        `json:"failed"`
	Errors         []RowError `json:"errors"`
}

func wantsJSON(cmd *cobra.Command) bool {
	v, err := cmd.Flags().GetBool("json")
	return err == nil && v
}

// printResult writes v as indented JSON under --json, otherwise calls text.
func printResult(cmd *cobra.Command, v interface{}, text func()) error {
	if !wantsJSON(cmd) {
		text()
		return nil
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func printRecord(cmd *cobra.Command, r *SearchRecord) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", r.ID)
	fmt.Fprintf(w, "Name:\t%s\n", r.Name)
	fmt.Fprintf(w, "Email:\t%s\n", r.Email)
	fmt.Fprintf(w, "Hospital:\t%s\n", r.Hospital)
	fmt.Fprintf(w, "PubMed topic:\t%s\n", r.PubMedTopic)
	fmt.Fprintf(w, "Country:\t%s\n", r.PredictedCountry)
	fmt.Fprintf(w, "City:\t%s\n", orDash(r.City))
	fmt.Fprintf(w, "Confidence:\t%.1f%%\n", r.ConfidenceScore)
	fmt.Fprintf(w, "Doctor:\t%t\n", r.IsDoctor)
	fmt.Fprintf(w, "Specialty:\t%s\n", orDash(r.Specialty))
	fmt.Fprintf(w, "Profile:\t%s\n", orDash(r.PublicProfileURL))
	fmt.Fprintf(w, "Sources:\t%s\n", strings.Join(r.Sources, ", "))
	fmt.Fprintf(w, "Searched:\t%s\n", r.Timestamp.Format(time.RFC3339))
	_ = w.Flush()

	if r.Reasoning != nil && *r.Reasoning != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", *r.Reasoning)
	}
}
