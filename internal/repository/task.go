package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/speakinsights/speakinsights/internal/domain"
)

type TaskRepository struct {
	db dbtx
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: pool}
}

func NewTaskRepositoryWithTx(tx pgx.Tx) *TaskRepository {
	return &TaskRepository{db: tx}
}

const taskColumns = `id, meeting_id, title, description, assignee, due_date, priority, status, created_at, updated_at`

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO tasks (`+taskColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.MeetingID, t.Title, nullableString(t.Description), nullableString(t.Assignee),
		t.DueDate, t.Priority, t.Status, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`,
		id,
	)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *TaskRepository) ListByMeeting(ctx context.Context, meetingID string) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE meeting_id = $1 ORDER BY due_date NULLS LAST, created_at`,
		meetingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE tasks SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	var description, assignee *string
	err := row.Scan(&t.ID, &t.MeetingID, &t.Title, &description, &assignee,
		&t.DueDate, &t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if description != nil {
		t.Description = *description
	}
	if assignee != nil {
		t.Assignee = *assignee
	}
	return &t, nil
}
