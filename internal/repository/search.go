package repository

import (
	"context"
	"errors"

	"github.com/cloo-solutions/geomed/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const searchColumns = `id, name, email, hospital, pubmed_topic, predicted_country, confidence_score,
	city, reasoning, is_doctor, specialty, public_profile_url, sources, created_at`

// SearchRepository persists search records in Postgres.
type SearchRepository struct {
	db dbtx
}

func NewSearchRepository(pool *pgxpool.Pool) *SearchRepository {
	return &SearchRepository{db: pool}
}

// Append inserts a new record. An existing id is never overwritten.
func (r *SearchRepository) Append(ctx context.Context, s *domain.SearchRecord) error {
	if err := domain.ValidateSearchRecord(s); err != nil {
		return err
	}
	sources := s.Sources
	if sources == nil {
		sources = []string{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO searches (`+searchColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		s.ID, s.Name, s.Email, s.Hospital, s.PubMedTopic, s.PredictedCountry, s.ConfidenceScore,
		nullableString(s.City), nullableString(s.Reasoning), s.IsDoctor,
		nullableString(s.Specialty), nullableString(s.PublicProfileURL), sources, s.Timestamp,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrSearchAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID looks a record up by primary key. An id that is not a UUID cannot
// exist in the table and is reported as not found without a query.
func (r *SearchRepository) GetByID(ctx context.Context, id string) (*domain.SearchRecord, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrSearchNotFound
	}
	s, err := scanSearch(r.db.QueryRow(ctx,
		`SELECT `+searchColumns+` FROM searches WHERE id = $1`,
		key.String(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSearchNotFound
		}
		return nil, err
	}
	return s, nil
}

// ListAll returns every record, most recent first.
func (r *SearchRepository) ListAll(ctx context.Context) ([]*domain.SearchRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+searchColumns+` FROM searches ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	searches := []*domain.SearchRecord{}
	for rows.Next() {
		s, err := scanSearch(rows)
		if err != nil {
			return nil, err
		}
		searches = append(searches, s)
	}
	return searches, rows.Err()
}

func scanSearch(row pgx.Row) (*domain.SearchRecord, error) {
	var s domain.SearchRecord
	err := row.Scan(
		&s.ID, &s.Name, &s.Email, &s.Hospital, &s.PubMedTopic, &s.PredictedCountry, &s.ConfidenceScore,
		&s.City, &s.Reasoning, &s.IsDoctor, &s.Specialty, &s.PublicProfileURL, &s.Sources, &s.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	s.Timestamp = s.Timestamp.UTC()
	return &s, nil
}
