// Package jobs runs the post-meeting pipeline as a background job,
// decoupling the fire-and-forget API trigger from the processing work.
package jobs

import (
	"context"
	"log"
	"sync"

	"github.com/speakinsights/speakinsights/internal/telemetry"
)

// MeetingProcessor defines the interface for running the pipeline.
type MeetingProcessor interface {
	ProcessMeeting(ctx context.Context, meetingID string) error
}

// PipelineWorker consumes meeting ids from an in-process queue and runs
// the pipeline for each. Triggers for a meeting that is already queued
// or running coalesce onto the in-flight job instead of enqueueing a
// duplicate run.
type PipelineWorker struct {
	processor MeetingProcessor
	queue     chan string

	mu       sync.Mutex
	inflight map[string]chan struct{}

	stopChan chan struct{}
	doneChan chan struct{}
}

// NewPipelineWorker creates a new PipelineWorker instance.
func NewPipelineWorker(processor MeetingProcessor, queueSize int) *PipelineWorker {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &PipelineWorker{
		processor: processor,
		queue:     make(chan string, queueSize),
		inflight:  make(map[string]chan struct{}),
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}
}

// Trigger submits a meeting for processing and returns a channel that
// closes when its run finishes. No caller is required to wait on it;
// it exists so shutdown paths and tests can synchronize on completion.
func (w *PipelineWorker) Trigger(meetingID string) <-chan struct{} {
	w.mu.Lock()
	if done, ok := w.inflight[meetingID]; ok {
		w.mu.Unlock()
		log.Printf("jobs: meeting %s already in flight, coalescing trigger", meetingID)
		return done
	}
	done := make(chan struct{})
	w.inflight[meetingID] = done
	w.mu.Unlock()

	w.queue <- meetingID
	return done
}

// Start begins consuming the queue. It blocks until the context is
// cancelled or Stop is called.
func (w *PipelineWorker) Start(ctx context.Context) {
	defer close(w.doneChan)

	log.Printf("jobs: pipeline worker started")

	for {
		select {
		case <-ctx.Done():
			log.Println("jobs: pipeline worker stopped: context cancelled")
			return
		case <-w.stopChan:
			log.Println("jobs: pipeline worker stopped: stop signal received")
			return
		case meetingID := <-w.queue:
			w.process(ctx, meetingID)
		}
	}
}

// Stop gracefully stops the worker. The job being processed, if any,
// runs to completion first. Meetings still queued are dropped and
// their completion channels closed, so no Trigger caller blocks past
// shutdown.
func (w *PipelineWorker) Stop() {
	close(w.stopChan)
	<-w.doneChan
	w.drainQueue()
	log.Println("jobs: pipeline worker shutdown complete")
}

func (w *PipelineWorker) drainQueue() {
	for {
		select {
		case meetingID := <-w.queue:
			w.mu.Lock()
			done := w.inflight[meetingID]
			delete(w.inflight, meetingID)
			w.mu.Unlock()
			if done != nil {
				log.Printf("jobs: meeting %s dropped from queue at shutdown", meetingID)
				close(done)
			}
		default:
			return
		}
	}
}

func (w *PipelineWorker) process(ctx context.Context, meetingID string) {
	defer func() {
		w.mu.Lock()
		done := w.inflight[meetingID]
		delete(w.inflight, meetingID)
		w.mu.Unlock()
		if done != nil {
			close(done)
		}
	}()

	telemetry.AddBreadcrumb(ctx, "jobs", "pipeline run started for meeting "+meetingID)
	if err := w.processor.ProcessMeeting(ctx, meetingID); err != nil {
		log.Printf("jobs: pipeline for meeting %s failed: %v", meetingID, err)
	}
}
