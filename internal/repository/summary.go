package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/speakinsights/speakinsights/internal/domain"
)

type SummaryRepository struct {
	db dbtx
}

func NewSummaryRepository(pool *pgxpool.Pool) *SummaryRepository {
	return &SummaryRepository{db: pool}
}

func NewSummaryRepositoryWithTx(tx pgx.Tx) *SummaryRepository {
	return &SummaryRepository{db: tx}
}

func (r *SummaryRepository) Create(ctx context.Context, s *domain.Summary) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO summaries (id, meeting_id, type, content, structured_data, model_used, generated_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.MeetingID, s.Type, s.Content, s.StructuredData, nullableString(s.ModelUsed), s.GeneratedAt, s.CreatedAt,
	)
	return err
}

func (r *SummaryRepository) ListByMeeting(ctx context.Context, meetingID string) ([]*domain.Summary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, meeting_id, type, content, structured_data, model_used, generated_at, created_at
		 FROM summaries WHERE meeting_id = $1 ORDER BY generated_at DESC, type`,
		meetingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*domain.Summary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *SummaryRepository) GetLatestByType(ctx context.Context, meetingID string, summaryType domain.SummaryType) (*domain.Summary, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, meeting_id, type, content, structured_data, model_used, generated_at, created_at
		 FROM summaries WHERE meeting_id = $1 AND type = $2
		 ORDER BY generated_at DESC LIMIT 1`,
		meetingID, summaryType,
	)
	s, err := scanSummary(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSummaryNotFound
		}
		return nil, err
	}
	return s, nil
}

func scanSummary(row pgx.Row) (*domain.Summary, error) {
	var s domain.Summary
	var modelUsed *string
	err := row.Scan(&s.ID, &s.MeetingID, &s.Type, &s.Content, &s.StructuredData, &modelUsed, &s.GeneratedAt, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if modelUsed != nil {
		s.ModelUsed = *modelUsed
	}
	return &s, nil
}
