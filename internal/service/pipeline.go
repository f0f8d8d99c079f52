package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/speakinsights/speakinsights/internal/calendar"
	"github.com/speakinsights/speakinsights/internal/domain"
	"github.com/speakinsights/speakinsights/internal/llm"
	"github.com/speakinsights/speakinsights/internal/sentiment"
	"github.com/speakinsights/speakinsights/internal/telemetry"
	"github.com/speakinsights/speakinsights/internal/transcript"
	"github.com/speakinsights/speakinsights/internal/whisperx"
)

// SpeechGateway defines the transcription operations the pipeline needs.
type SpeechGateway interface {
	TranscribeFile(ctx context.Context, path string, language string) ([]whisperx.Segment, error)
}

// LanguageModel defines the model operations the pipeline needs.
type LanguageModel interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Summarize(ctx context.Context, transcriptText, meetingTitle string) (llm.MeetingSummary, error)
	ExtractTasks(ctx context.Context, transcriptText string) (llm.TaskExtraction, error)
	AnalyzeSentiment(ctx context.Context, transcriptText string, speakerNames []string) (llm.SentimentAnalysis, error)
	EmbeddingModel() string
}

// SentimentScorer scores individual utterances.
type SentimentScorer interface {
	Score(text string) sentiment.Result
}

// AudioStore fetches audio tracks from object storage into local files.
type AudioStore interface {
	FetchToFile(ctx context.Context, key string, destPath string) error
}

// CalendarGenerator produces the .ics export artifact.
type CalendarGenerator interface {
	GenerateICS(req calendar.Request) (filePath string, content string, err error)
}

// PipelineConfig tunes the pipeline's chunking and fan-out behavior.
type PipelineConfig struct {
	StoragePath     string
	ChunkConfig     transcript.ChunkConfig
	TrackWorkers    int
	DefaultLanguage string
}

// Pipeline runs the post-meeting processing sequence: transcribe every
// track, score sentiment, merge, chunk and embed, summarize, extract
// tasks, analyze sentiment, export the calendar, finalize, clean up.
// Every stage is failure-isolated: an error is logged and the pipeline
// moves on with whatever the stage produced.
type Pipeline struct {
	meetings     MeetingRepositoryInterface
	recordings   RecordingRepositoryInterface
	participants ParticipantRepositoryInterface
	tx           TxRunner
	speech       SpeechGateway
	model        LanguageModel
	scorer       SentimentScorer
	audio        AudioStore
	calendar     CalendarGenerator
	cfg          PipelineConfig
}

// NewPipeline creates a Pipeline. The audio store may be nil when all
// tracks live on the local filesystem.
func NewPipeline(
	meetings MeetingRepositoryInterface,
	recordings RecordingRepositoryInterface,
	participants ParticipantRepositoryInterface,
	tx TxRunner,
	speech SpeechGateway,
	model LanguageModel,
	scorer SentimentScorer,
	audio AudioStore,
	calendarGen CalendarGenerator,
	cfg PipelineConfig,
) *Pipeline {
	if cfg.ChunkConfig.ChunkSize <= 0 {
		cfg.ChunkConfig = transcript.DefaultChunkConfig()
	}
	if cfg.TrackWorkers <= 0 {
		cfg.TrackWorkers = 4
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "auto"
	}
	return &Pipeline{
		meetings:     meetings,
		recordings:   recordings,
		participants: participants,
		tx:           tx,
		speech:       speech,
		model:        model,
		scorer:       scorer,
		audio:        audio,
		calendar:     calendarGen,
		cfg:          cfg,
	}
}

// ProcessMeeting runs the full pipeline for one meeting. It returns an
// error only for fatal conditions (unknown meeting, persistence
// unreachable); stage failures are swallowed after logging.
func (p *Pipeline) ProcessMeeting(ctx context.Context, meetingID string) error {
	ctx, span := telemetry.StartSpan(ctx, "Pipeline.ProcessMeeting", telemetry.SpanAttributes{
		MeetingID: meetingID,
		Operation: "process_meeting",
	})
	defer span.End()

	meeting, err := p.meetings.GetByID(ctx, meetingID)
	if err != nil {
		return fmt.Errorf("failed to load meeting %s: %w", meetingID, err)
	}

	if err := p.meetings.UpdateStatus(ctx, meetingID, domain.MeetingStatusProcessing); err != nil {
		return fmt.Errorf("failed to mark meeting %s processing: %w", meetingID, err)
	}
	log.Printf("pipeline: meeting %s processing started", meetingID)

	var segments []transcript.RawSegment
	p.runStage(ctx, meetingID, "transcribe", func(ctx context.Context) error {
		var err error
		segments, err = p.transcribeTracks(ctx, meeting)
		return err
	})

	mergedText, speakers := transcript.Merge(segments)

	p.runStage(ctx, meetingID, "chunk_embed", func(ctx context.Context) error {
		return p.chunkAndEmbed(ctx, meetingID, segments)
	})

	p.runStage(ctx, meetingID, "summarize", func(ctx context.Context) error {
		return p.summarize(ctx, meeting, mergedText)
	})

	var tasks []*domain.Task
	p.runStage(ctx, meetingID, "extract_tasks", func(ctx context.Context) error {
		var err error
		tasks, err = p.extractTasks(ctx, meetingID, mergedText)
		return err
	})

	p.runStage(ctx, meetingID, "deep_sentiment", func(ctx context.Context) error {
		return p.deepSentiment(ctx, meetingID, mergedText, speakers)
	})

	p.runStage(ctx, meetingID, "calendar_export", func(ctx context.Context) error {
		return p.exportCalendar(ctx, meeting, tasks, speakers, segments)
	})

	// Exactly one terminal status update per run. If it fails the
	// meeting stays visibly stuck in processing, which is the intended
	// operator signal.
	if err := p.meetings.MarkCompleted(ctx, meetingID, time.Now().UTC()); err != nil {
		log.Printf("pipeline: FATAL meeting %s could not be finalized: %v", meetingID, err)
		telemetry.CaptureError(ctx, fmt.Errorf("pipeline finalize %s: %w", meetingID, err))
		return fmt.Errorf("failed to finalize meeting %s: %w", meetingID, err)
	}

	p.cleanup(meetingID)
	log.Printf("pipeline: meeting %s completed", meetingID)
	return nil
}

func (p *Pipeline) runStage(ctx context.Context, meetingID, name string, fn func(context.Context) error) {
	ctx, span := telemetry.StartSpan(ctx, "Pipeline."+name, telemetry.SpanAttributes{
		MeetingID: meetingID,
		Stage:     name,
	})
	defer span.End()

	if err := fn(ctx); err != nil {
		log.Printf("pipeline: meeting %s stage %s failed: %v", meetingID, name, err)
		span.SetError(fmt.Errorf("pipeline stage %s (%s): %w", name, meetingID, err))
	}
}

// transcribeTracks runs stage 1: a bounded fan-out over the meeting's
// tracks. One bad track never blocks the others; its recording is
// marked failed and the pipeline keeps the segments it did get.
func (p *Pipeline) transcribeTracks(ctx context.Context, meeting *domain.Meeting) ([]transcript.RawSegment, error) {
	recordings, err := p.recordings.ListByMeeting(ctx, meeting.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recordings: %w", err)
	}
	if len(recordings) == 0 {
		log.Printf("pipeline: meeting %s has no recordings", meeting.ID)
		return nil, nil
	}

	var (
		mu       sync.Mutex
		segments []transcript.RawSegment
		wg       sync.WaitGroup
	)
	sem := make(chan struct{}, p.cfg.TrackWorkers)

	for _, rec := range recordings {
		wg.Add(1)
		sem <- struct{}{}
		go func(rec *domain.IndividualRecording) {
			defer wg.Done()
			defer func() { <-sem }()

			trackSegments, err := p.transcribeTrack(ctx, meeting, rec)
			if err != nil {
				log.Printf("pipeline: meeting %s track %s failed: %v", meeting.ID, rec.ID, err)
				if statusErr := p.recordings.UpdateTranscriptionStatus(ctx, rec.ID, domain.TranscriptionStatusFailed); statusErr != nil {
					log.Printf("pipeline: could not mark track %s failed: %v", rec.ID, statusErr)
				}
				return
			}

			mu.Lock()
			segments = append(segments, trackSegments...)
			mu.Unlock()
		}(rec)
	}
	wg.Wait()

	return segments, nil
}

func (p *Pipeline) transcribeTrack(ctx context.Context, meeting *domain.Meeting, rec *domain.IndividualRecording) ([]transcript.RawSegment, error) {
	ctx, span := telemetry.StartSpan(ctx, "Pipeline.transcribeTrack", telemetry.SpanAttributes{
		MeetingID:   meeting.ID,
		RecordingID: rec.ID,
		Stage:       "transcribe",
	})
	defer span.End()

	if !rec.HasAudio() {
		return nil, domain.ErrRecordingWithoutAudio
	}

	if err := p.recordings.UpdateTranscriptionStatus(ctx, rec.ID, domain.TranscriptionStatusProcessing); err != nil {
		return nil, err
	}

	audioPath, err := p.resolveAudio(ctx, meeting.ID, rec)
	if err != nil {
		return nil, err
	}

	language := meeting.Language
	if language == "" {
		language = p.cfg.DefaultLanguage
	}

	transcribed, err := p.speech.TranscribeFile(ctx, audioPath, language)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rows := make([]*domain.TranscriptSegment, 0, len(transcribed))
	raw := make([]transcript.RawSegment, 0, len(transcribed))
	for _, seg := range transcribed {
		if seg.Text == "" {
			continue
		}
		score := p.scorer.Score(seg.Text)
		rows = append(rows, &domain.TranscriptSegment{
			ID:             uuid.New().String(),
			MeetingID:      meeting.ID,
			ParticipantID:  rec.ParticipantID,
			SpeakerName:    rec.SpeakerName,
			Text:           seg.Text,
			Language:       seg.Language,
			StartTime:      seg.Start,
			EndTime:        seg.End,
			Confidence:     seg.Confidence,
			SentimentScore: score.Compound,
			SentimentLabel: score.Label,
			WordCount:      len(strings.Fields(seg.Text)),
			Source:         domain.SegmentSourcePostProcessing,
			CreatedAt:      now,
		})
		raw = append(raw, transcript.RawSegment{
			Speaker: rec.SpeakerName,
			Text:    seg.Text,
			Start:   seg.Start,
			End:     seg.End,
		})
	}

	// The track's segments and its completed status commit together.
	err = p.tx.WithTx(ctx, func(repos TxRepositories) error {
		if err := repos.Segments().CreateBatch(ctx, rows); err != nil {
			return err
		}
		return repos.Recordings().UpdateTranscriptionStatus(ctx, rec.ID, domain.TranscriptionStatusCompleted)
	})
	if err != nil {
		return nil, err
	}

	return raw, nil
}

// resolveAudio returns a local path for the track's audio, fetching it
// from object storage into the meeting's working directory if needed.
func (p *Pipeline) resolveAudio(ctx context.Context, meetingID string, rec *domain.IndividualRecording) (string, error) {
	if rec.FilePath != "" {
		if _, err := os.Stat(rec.FilePath); err == nil {
			return rec.FilePath, nil
		}
	}
	if rec.StorageKey == "" || p.audio == nil {
		return "", fmt.Errorf("no audio available for track %s", rec.ID)
	}

	workDir := p.workDir(meetingID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", err
	}
	destPath := filepath.Join(workDir, fmt.Sprintf("%s.%s", rec.ID, rec.Format))
	if err := p.audio.FetchToFile(ctx, rec.StorageKey, destPath); err != nil {
		return "", fmt.Errorf("failed to fetch track audio: %w", err)
	}
	return destPath, nil
}

// chunkAndEmbed runs stage 3. Skipped without error when there are no
// segments. Embeddings are generated before the transaction opens so no
// lock is held across the model calls.
func (p *Pipeline) chunkAndEmbed(ctx context.Context, meetingID string, segments []transcript.RawSegment) error {
	chunks := transcript.ChunkSegments(segments, p.cfg.ChunkConfig)
	if len(chunks) == 0 {
		log.Printf("pipeline: meeting %s has no segments to chunk", meetingID)
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	embeddings, err := p.model.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}

	now := time.Now().UTC()
	rows := make([]*domain.TranscriptChunk, len(chunks))
	for i, c := range chunks {
		rows[i] = &domain.TranscriptChunk{
			ID:          uuid.New().String(),
			MeetingID:   meetingID,
			ChunkText:   c.Text,
			ChunkIndex:  i,
			SpeakerName: c.Speaker,
			StartTime:   c.Start,
			EndTime:     c.End,
			Embedding:   embeddings[i],
			ModelUsed:   p.model.EmbeddingModel(),
			CreatedAt:   now,
		}
	}

	return p.tx.WithTx(ctx, func(repos TxRepositories) error {
		return repos.Chunks().ReplaceForMeeting(ctx, meetingID, rows)
	})
}

// summarize runs stage 4: one model call, three summary rows.
func (p *Pipeline) summarize(ctx context.Context, meeting *domain.Meeting, mergedText string) error {
	if mergedText == "" {
		log.Printf("pipeline: meeting %s has no transcript to summarize", meeting.ID)
		return nil
	}

	summary, err := p.model.Summarize(ctx, mergedText, meeting.Title)
	if err != nil {
		return err
	}
	if summary.Fallback {
		log.Printf("pipeline: meeting %s summary used fallback shape", meeting.ID)
		telemetry.CaptureMessage(ctx, "summary fallback for meeting "+meeting.ID)
	}

	now := time.Now().UTC()
	rows := []*domain.Summary{
		newSummaryRow(meeting.ID, domain.SummaryTypeExecutive, summary.ExecutiveSummary,
			map[string]any{"follow_ups": summary.FollowUps}, summary.Model, now),
		newSummaryRow(meeting.ID, domain.SummaryTypeKeyPoints, strings.Join(summary.KeyPoints, "\n"),
			map[string]any{"key_points": summary.KeyPoints}, summary.Model, now),
		newSummaryRow(meeting.ID, domain.SummaryTypeDecisions, strings.Join(summary.DecisionsMade, "\n"),
			map[string]any{"decisions_made": summary.DecisionsMade}, summary.Model, now),
	}

	return p.tx.WithTx(ctx, func(repos TxRepositories) error {
		for _, row := range rows {
			if err := repos.Summaries().Create(ctx, row); err != nil {
				return err
			}
		}
		return nil
	})
}

// extractTasks runs stage 5, coercing out-of-set priorities to medium
// and unparseable due dates to null.
func (p *Pipeline) extractTasks(ctx context.Context, meetingID string, mergedText string) ([]*domain.Task, error) {
	if mergedText == "" {
		return nil, nil
	}

	extraction, err := p.model.ExtractTasks(ctx, mergedText)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tasks := make([]*domain.Task, 0, len(extraction.Tasks))
	for _, item := range extraction.Tasks {
		if item.Title == "" {
			continue
		}
		tasks = append(tasks, &domain.Task{
			ID:          uuid.New().String(),
			MeetingID:   meetingID,
			Title:       item.Title,
			Description: item.Context,
			Assignee:    item.Assignee,
			DueDate:     domain.ParseDueDate(item.DueDate),
			Priority:    domain.CoerceTaskPriority(item.Priority),
			Status:      domain.TaskStatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	if len(tasks) == 0 {
		return nil, nil
	}

	err = p.tx.WithTx(ctx, func(repos TxRepositories) error {
		for _, t := range tasks {
			if err := repos.Tasks().Create(ctx, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("pipeline: meeting %s extracted %d tasks", meetingID, len(tasks))
	return tasks, nil
}

// deepSentiment runs stage 6: one summary row of type sentiment.
func (p *Pipeline) deepSentiment(ctx context.Context, meetingID string, mergedText string, speakers []string) error {
	if mergedText == "" {
		return nil
	}

	analysis, err := p.model.AnalyzeSentiment(ctx, mergedText, speakers)
	if err != nil {
		return err
	}

	structured := map[string]any{
		"overall_sentiment": analysis.OverallSentiment,
		"per_speaker":       analysis.PerSpeaker,
		"sentiment_arc":     analysis.SentimentArc,
	}
	row := newSummaryRow(meetingID, domain.SummaryTypeSentiment, analysis.OverallSentiment, structured, analysis.Model, time.Now().UTC())

	return p.tx.WithTx(ctx, func(repos TxRepositories) error {
		return repos.Summaries().Create(ctx, row)
	})
}

// exportCalendar runs stage 7. Only meetings with at least one dated
// task produce an export.
func (p *Pipeline) exportCalendar(ctx context.Context, meeting *domain.Meeting, tasks []*domain.Task, speakers []string, segments []transcript.RawSegment) error {
	hasDated := false
	for _, t := range tasks {
		if t.DueDate != nil {
			hasDated = true
			break
		}
	}
	if !hasDated {
		return nil
	}

	attendees := speakers
	if participants, err := p.participants.ListByMeeting(ctx, meeting.ID); err == nil && len(participants) > 0 {
		attendees = make([]string, 0, len(participants))
		for _, participant := range participants {
			attendees = append(attendees, participant.DisplayName)
		}
	}

	calendarTasks := make([]calendar.Task, len(tasks))
	titles := make([]string, len(tasks))
	for i, t := range tasks {
		calendarTasks[i] = calendar.Task{
			Title:    t.Title,
			Assignee: t.Assignee,
			Context:  t.Description,
			Priority: string(t.Priority),
			DueDate:  t.DueDate,
		}
		titles[i] = t.Title
	}

	startTime := meeting.CreatedAt
	if meeting.StartedAt != nil {
		startTime = *meeting.StartedAt
	}

	filePath, _, err := p.calendar.GenerateICS(calendar.Request{
		MeetingID:       meeting.ID,
		Title:           meeting.Title,
		Description:     meeting.Description,
		StartTime:       startTime,
		DurationMinutes: meetingDurationMinutes(segments),
		Attendees:       attendees,
		Tasks:           calendarTasks,
	})
	if err != nil {
		return err
	}

	export := &domain.CalendarExport{
		ID:            uuid.New().String(),
		MeetingID:     meeting.ID,
		FilePath:      filePath,
		ExportType:    "ics",
		TasksIncluded: titles,
		CreatedAt:     time.Now().UTC(),
	}
	return p.tx.WithTx(ctx, func(repos TxRepositories) error {
		return repos.CalendarExports().Create(ctx, export)
	})
}

// cleanup runs stage 9: best-effort, never logged as an error.
func (p *Pipeline) cleanup(meetingID string) {
	_ = os.RemoveAll(p.workDir(meetingID))
}

func (p *Pipeline) workDir(meetingID string) string {
	return filepath.Join(p.cfg.StoragePath, "tmp", meetingID)
}

func newSummaryRow(meetingID string, summaryType domain.SummaryType, content string, structured map[string]any, model string, now time.Time) *domain.Summary {
	data, err := json.Marshal(structured)
	if err != nil {
		data = []byte("{}")
	}
	return &domain.Summary{
		ID:             uuid.New().String(),
		MeetingID:      meetingID,
		Type:           summaryType,
		Content:        content,
		StructuredData: data,
		ModelUsed:      model,
		GeneratedAt:    now,
		CreatedAt:      now,
	}
}

// meetingDurationMinutes derives a duration from the transcript span,
// defaulting to 30 minutes for empty meetings.
func meetingDurationMinutes(segments []transcript.RawSegment) int {
	var maxEnd float64
	for _, s := range segments {
		if s.End > maxEnd {
			maxEnd = s.End
		}
	}
	if maxEnd <= 0 {
		return 30
	}
	minutes := int(maxEnd/60) + 1
	return minutes
}
