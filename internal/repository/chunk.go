package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/speakinsights/speakinsights/internal/domain"
	"github.com/speakinsights/speakinsights/internal/service"
)

type ChunkRepository struct {
	db dbtx
}

func NewChunkRepository(pool *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{db: pool}
}

func NewChunkRepositoryWithTx(tx pgx.Tx) *ChunkRepository {
	return &ChunkRepository{db: tx}
}

// ReplaceForMeeting supersedes any chunks from a prior pipeline run:
// the delete and the inserts share the repository's transaction, so a
// re-run never leaves a mix of old and new chunks behind.
func (r *ChunkRepository) ReplaceForMeeting(ctx context.Context, meetingID string, chunks []*domain.TranscriptChunk) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM transcript_chunks WHERE meeting_id = $1`,
		meetingID,
	)
	if err != nil {
		return err
	}

	for _, c := range chunks {
		_, err := r.db.Exec(ctx,
			`INSERT INTO transcript_chunks (id, meeting_id, chunk_text, chunk_index, speaker_name, start_time, end_time, embedding, model_used, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			c.ID, c.MeetingID, c.ChunkText, c.ChunkIndex, c.SpeakerName, c.StartTime, c.EndTime,
			pgvector.NewVector(c.Embedding), c.ModelUsed, c.CreatedAt,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *ChunkRepository) ListByMeeting(ctx context.Context, meetingID string) ([]*domain.TranscriptChunk, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, meeting_id, chunk_text, chunk_index, speaker_name, start_time, end_time, model_used, created_at
		 FROM transcript_chunks WHERE meeting_id = $1 ORDER BY chunk_index`,
		meetingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []*domain.TranscriptChunk
	for rows.Next() {
		var c domain.TranscriptChunk
		if err := rows.Scan(&c.ID, &c.MeetingID, &c.ChunkText, &c.ChunkIndex, &c.SpeakerName,
			&c.StartTime, &c.EndTime, &c.ModelUsed, &c.CreatedAt); err != nil {
			return nil, err
		}
		chunks = append(chunks, &c)
	}
	return chunks, rows.Err()
}

// SearchByEmbedding returns the meeting's chunks nearest to the query
// vector by cosine distance.
func (r *ChunkRepository) SearchByEmbedding(ctx context.Context, meetingID string, embedding []float32, limit int) ([]*service.ChunkSearchResult, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := r.db.Query(ctx,
		`SELECT chunk_text, speaker_name, start_time, end_time,
		        1.0 / (1.0 + (embedding <=> $1)) AS score
		 FROM transcript_chunks
		 WHERE meeting_id = $2 AND embedding IS NOT NULL
		 ORDER BY score DESC
		 LIMIT $3`,
		pgvector.NewVector(embedding), meetingID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]*service.ChunkSearchResult, 0)
	for rows.Next() {
		var result service.ChunkSearchResult
		if err := rows.Scan(&result.ChunkText, &result.SpeakerName, &result.StartTime, &result.EndTime, &result.Score); err != nil {
			return nil, err
		}
		results = append(results, &result)
	}
	return results, rows.Err()
}
