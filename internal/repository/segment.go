package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/speakinsights/speakinsights/internal/domain"
	"github.com/speakinsights/speakinsights/internal/pagination"
)

type SegmentRepository struct {
	db dbtx
}

func NewSegmentRepository(pool *pgxpool.Pool) *SegmentRepository {
	return &SegmentRepository{db: pool}
}

func NewSegmentRepositoryWithTx(tx pgx.Tx) *SegmentRepository {
	return &SegmentRepository{db: tx}
}

const segmentColumns = `id, meeting_id, participant_id, speaker_name, text, language, start_time, end_time, confidence, sentiment_score, sentiment_label, word_count, source, created_at`

func (r *SegmentRepository) Create(ctx context.Context, s *domain.TranscriptSegment) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO transcript_segments (`+segmentColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		s.ID, s.MeetingID, nullableString(s.ParticipantID), s.SpeakerName, s.Text, nullableString(s.Language),
		s.StartTime, s.EndTime, s.Confidence, s.SentimentScore, nullableString(s.SentimentLabel),
		s.WordCount, s.Source, s.CreatedAt,
	)
	return err
}

// CreateBatch inserts all segments. Call inside a transaction when the
// batch must be atomic.
func (r *SegmentRepository) CreateBatch(ctx context.Context, segments []*domain.TranscriptSegment) error {
	for _, s := range segments {
		if err := r.Create(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *SegmentRepository) ListByMeeting(ctx context.Context, meetingID string) ([]*domain.TranscriptSegment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+segmentColumns+` FROM transcript_segments
		 WHERE meeting_id = $1 ORDER BY start_time, created_at`,
		meetingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSegmentRows(rows)
}

// ListByMeetingPage returns one keyset page ordered by timeline position.
// A nil cursor starts from the beginning.
func (r *SegmentRepository) ListByMeetingPage(ctx context.Context, meetingID string, after *pagination.Cursor, limit int) ([]*domain.TranscriptSegment, error) {
	if limit <= 0 {
		limit = 100
	}

	var (
		rows pgx.Rows
		err  error
	)
	if after == nil {
		rows, err = r.db.Query(ctx,
			`SELECT `+segmentColumns+` FROM transcript_segments
			 WHERE meeting_id = $1 ORDER BY start_time, id LIMIT $2`,
			meetingID, limit,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT `+segmentColumns+` FROM transcript_segments
			 WHERE meeting_id = $1 AND (start_time, id) > ($2, $3)
			 ORDER BY start_time, id LIMIT $4`,
			meetingID, after.Position, after.LastID, limit,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSegmentRows(rows)
}

func (r *SegmentRepository) ListByMeetingAndSource(ctx context.Context, meetingID string, source domain.SegmentSource) ([]*domain.TranscriptSegment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+segmentColumns+` FROM transcript_segments
		 WHERE meeting_id = $1 AND source = $2 ORDER BY start_time, created_at`,
		meetingID, source,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSegmentRows(rows)
}

func scanSegmentRows(rows pgx.Rows) ([]*domain.TranscriptSegment, error) {
	var segments []*domain.TranscriptSegment
	for rows.Next() {
		var s domain.TranscriptSegment
		var participantID, language, sentimentLabel *string
		if err := rows.Scan(&s.ID, &s.MeetingID, &participantID, &s.SpeakerName, &s.Text, &language,
			&s.StartTime, &s.EndTime, &s.Confidence, &s.SentimentScore, &sentimentLabel,
			&s.WordCount, &s.Source, &s.CreatedAt); err != nil {
			return nil, err
		}
		if participantID != nil {
			s.ParticipantID = *participantID
		}
		if language != nil {
			s.Language = *language
		}
		if sentimentLabel != nil {
			s.SentimentLabel = *sentimentLabel
		}
		segments = append(segments, &s)
	}
	return segments, rows.Err()
}
