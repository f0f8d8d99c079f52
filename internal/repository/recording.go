package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/speakinsights/speakinsights/internal/domain"
)

type RecordingRepository struct {
	db dbtx
}

func NewRecordingRepository(pool *pgxpool.Pool) *RecordingRepository {
	return &RecordingRepository{db: pool}
}

func NewRecordingRepositoryWithTx(tx pgx.Tx) *RecordingRepository {
	return &RecordingRepository{db: tx}
}

const recordingColumns = `id, meeting_id, participant_id, speaker_name, file_path, storage_key, format, file_size, duration, transcription_status, created_at`

func (r *RecordingRepository) Create(ctx context.Context, rec *domain.IndividualRecording) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO individual_recordings (`+recordingColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.MeetingID, nullableString(rec.ParticipantID), rec.SpeakerName, nullableString(rec.FilePath),
		nullableString(rec.StorageKey), rec.Format, rec.FileSize, rec.Duration, rec.TranscriptionStatus, rec.CreatedAt,
	)
	return err
}

func (r *RecordingRepository) GetByID(ctx context.Context, id string) (*domain.IndividualRecording, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+recordingColumns+` FROM individual_recordings WHERE id = $1`,
		id,
	)
	rec, err := scanRecording(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordingNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *RecordingRepository) ListByMeeting(ctx context.Context, meetingID string) ([]*domain.IndividualRecording, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+recordingColumns+` FROM individual_recordings
		 WHERE meeting_id = $1 ORDER BY created_at`,
		meetingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recordings []*domain.IndividualRecording
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, err
		}
		recordings = append(recordings, rec)
	}
	return recordings, rows.Err()
}

func (r *RecordingRepository) UpdateTranscriptionStatus(ctx context.Context, id string, status domain.TranscriptionStatus) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE individual_recordings SET transcription_status = $1 WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrRecordingNotFound
	}
	return nil
}

func scanRecording(row pgx.Row) (*domain.IndividualRecording, error) {
	var rec domain.IndividualRecording
	var participantID, filePath, storageKey *string
	err := row.Scan(&rec.ID, &rec.MeetingID, &participantID, &rec.SpeakerName, &filePath, &storageKey,
		&rec.Format, &rec.FileSize, &rec.Duration, &rec.TranscriptionStatus, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	if participantID != nil {
		rec.ParticipantID = *participantID
	}
	if filePath != nil {
		rec.FilePath = *filePath
	}
	if storageKey != nil {
		rec.StorageKey = *storageKey
	}
	return &rec, nil
}
