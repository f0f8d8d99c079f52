package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/speakinsights/speakinsights/internal/domain"
)

type ParticipantRepository struct {
	db dbtx
}

func NewParticipantRepository(pool *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{db: pool}
}

func NewParticipantRepositoryWithTx(tx pgx.Tx) *ParticipantRepository {
	return &ParticipantRepository{db: tx}
}

func (r *ParticipantRepository) Create(ctx context.Context, p *domain.Participant) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO participants (id, meeting_id, display_name, is_host, is_active, joined_at, left_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.MeetingID, p.DisplayName, p.IsHost, p.IsActive, p.JoinedAt, p.LeftAt, p.CreatedAt,
	)
	return err
}

func (r *ParticipantRepository) ListByMeeting(ctx context.Context, meetingID string) ([]*domain.Participant, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, meeting_id, display_name, is_host, is_active, joined_at, left_at, created_at
		 FROM participants WHERE meeting_id = $1 ORDER BY created_at`,
		meetingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []*domain.Participant
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.ID, &p.MeetingID, &p.DisplayName, &p.IsHost, &p.IsActive, &p.JoinedAt, &p.LeftAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		participants = append(participants, &p)
	}
	return participants, rows.Err()
}
