package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/speakinsights/speakinsights/internal/domain"
)

type CalendarExportRepository struct {
	db dbtx
}

func NewCalendarExportRepository(pool *pgxpool.Pool) *CalendarExportRepository {
	return &CalendarExportRepository{db: pool}
}

func NewCalendarExportRepositoryWithTx(tx pgx.Tx) *CalendarExportRepository {
	return &CalendarExportRepository{db: tx}
}

func (r *CalendarExportRepository) Create(ctx context.Context, e *domain.CalendarExport) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO calendar_exports (id, meeting_id, file_path, file_url, export_type, tasks_included, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.MeetingID, e.FilePath, nullableString(e.FileURL), e.ExportType, e.TasksIncluded, e.CreatedAt,
	)
	return err
}

func (r *CalendarExportRepository) ListByMeeting(ctx context.Context, meetingID string) ([]*domain.CalendarExport, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, meeting_id, file_path, file_url, export_type, tasks_included, created_at
		 FROM calendar_exports WHERE meeting_id = $1 ORDER BY created_at DESC`,
		meetingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exports []*domain.CalendarExport
	for rows.Next() {
		var e domain.CalendarExport
		var fileURL *string
		if err := rows.Scan(&e.ID, &e.MeetingID, &e.FilePath, &fileURL, &e.ExportType, &e.TasksIncluded, &e.CreatedAt); err != nil {
			return nil, err
		}
		if fileURL != nil {
			e.FileURL = *fileURL
		}
		exports = append(exports, &e)
	}
	return exports, rows.Err()
}
