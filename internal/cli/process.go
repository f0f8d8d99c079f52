package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/speakinsights/speakinsights/internal/config"
	"github.com/speakinsights/speakinsights/internal/telemetry"
)

// ProcessCmd returns the process command, which runs the post-meeting
// pipeline once for a single meeting and exits. Useful for reprocessing
// and for operating without the HTTP server.
func ProcessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process <meeting-id>",
		Short: "Run the post-meeting pipeline for one meeting",
		Args:  cobra.ExactArgs(1),
		RunE:  runProcess,
	}
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	meetingID := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.SentryDSN != "" {
		// One-shot runs are rare enough to always sample.
		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			TracesSampleRate: 1.0,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	app, cleanup, err := buildApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, span := telemetry.StartTransaction(ctx, "process "+meetingID, "cli.process")
	defer span.End()

	log.Printf("processing meeting %s", meetingID)
	if err := app.pipeline.ProcessMeeting(ctx, meetingID); err != nil {
		span.SetError(err)
		return fmt.Errorf("pipeline failed for meeting %s: %w", meetingID, err)
	}

	log.Printf("meeting %s processed", meetingID)
	return nil
}
