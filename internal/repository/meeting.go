package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/speakinsights/speakinsights/internal/domain"
)

type MeetingRepository struct {
	db dbtx
}

func NewMeetingRepository(pool *pgxpool.Pool) *MeetingRepository {
	return &MeetingRepository{db: pool}
}

func NewMeetingRepositoryWithTx(tx pgx.Tx) *MeetingRepository {
	return &MeetingRepository{db: tx}
}

func (r *MeetingRepository) Create(ctx context.Context, m *domain.Meeting) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO meetings (id, title, description, code, language, status, host_name, max_participants, started_at, ended_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.ID, m.Title, nullableString(m.Description), m.Code, m.Language, m.Status, m.HostName, m.MaxParticipants, m.StartedAt, m.EndedAt, m.CreatedAt, m.UpdatedAt,
	)
	return err
}

func (r *MeetingRepository) GetByID(ctx context.Context, id string) (*domain.Meeting, error) {
	var m domain.Meeting
	var description *string
	err := r.db.QueryRow(ctx,
		`SELECT id, title, description, code, language, status, host_name, max_participants, started_at, ended_at, created_at, updated_at
		 FROM meetings WHERE id = $1`,
		id,
	).Scan(&m.ID, &m.Title, &description, &m.Code, &m.Language, &m.Status, &m.HostName, &m.MaxParticipants, &m.StartedAt, &m.EndedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMeetingNotFound
		}
		return nil, err
	}
	if description != nil {
		m.Description = *description
	}
	return &m, nil
}

func (r *MeetingRepository) UpdateStatus(ctx context.Context, id string, status domain.MeetingStatus) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE meetings SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrMeetingNotFound
	}
	return nil
}

// MarkCompleted sets the terminal status and stamps the end time in one
// statement.
func (r *MeetingRepository) MarkCompleted(ctx context.Context, id string, endedAt time.Time) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE meetings SET status = $1, ended_at = $2, updated_at = $3 WHERE id = $4`,
		domain.MeetingStatusCompleted, endedAt, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrMeetingNotFound
	}
	return nil
}
