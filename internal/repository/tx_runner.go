package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/speakinsights/speakinsights/internal/service"
)

// TxRunner provides transactional repositories using a pgx pool. Each
// pipeline stage persists through one WithTx call, so a stage's records
// commit together or not at all.
type TxRunner struct {
	pool *pgxpool.Pool
}

func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) WithTx(ctx context.Context, fn func(repos service.TxRepositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}

	repos := &txRepos{tx: tx}
	if err := fn(repos); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

type txRepos struct {
	tx pgx.Tx
}

func (r *txRepos) Meetings() service.MeetingRepositoryInterface {
	return NewMeetingRepositoryWithTx(r.tx)
}

func (r *txRepos) Recordings() service.RecordingRepositoryInterface {
	return NewRecordingRepositoryWithTx(r.tx)
}

func (r *txRepos) Segments() service.SegmentRepositoryInterface {
	return NewSegmentRepositoryWithTx(r.tx)
}

func (r *txRepos) Chunks() service.ChunkRepositoryInterface {
	return NewChunkRepositoryWithTx(r.tx)
}

func (r *txRepos) Summaries() service.SummaryRepositoryInterface {
	return NewSummaryRepositoryWithTx(r.tx)
}

func (r *txRepos) Tasks() service.TaskRepositoryInterface {
	return NewTaskRepositoryWithTx(r.tx)
}

func (r *txRepos) CalendarExports() service.CalendarExportRepositoryInterface {
	return NewCalendarExportRepositoryWithTx(r.tx)
}
