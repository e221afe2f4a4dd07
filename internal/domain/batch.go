package domain

// RowError is one failed row of a batch upload.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// BatchReport is the outcome of one upload. It is never persisted.
type BatchReport struct {
	TotalProcessed int        `json:"total_processed"`
	Successful     int        `json:"successful"`
	Failed         int        `json:"failed"`
	Errors         []RowError `json:"errors"`
}

// NewBatchReport returns an empty report with a non-nil errors slice.
func NewBatchReport() *BatchReport {
	return &BatchReport{Errors: []RowError{}}
}

// RecordSuccess counts a persisted row.
func (b *BatchReport) RecordSuccess() {
	b.Successful++
	b.TotalProcessed++
}

// RecordFailure counts a failed row and keeps its reason.
func (b *BatchReport) RecordFailure(row int, reason string) {
	b.Failed++
	b.TotalProcessed++
	b.Errors = append(b.Errors, RowError{Row: row, Error: reason})
}
