package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// SyncRoundsJobPath is the internal route a scheduled sync calls back into.
const SyncRoundsJobPath = "/v1/internal/jobs/sync-rounds"

const maxSyncScheduleDelay = 7 * 24 * time.Hour

// JobPublisher delivers a POST to one of this service's internal job routes, optionally delayed.
type JobPublisher interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type ScheduleSyncInput struct {
	SyncRoundsInput
	Delay time.Duration
}

type ScheduledSync struct {
	Path            string    `json:"path"`
	Rounds          []string  `json:"rounds"`
	DryRun          bool      `json:"dry_run"`
	RunAt           time.Time `json:"run_at"`
	DeduplicationID string    `json:"deduplication_id"`
}

// syncJobPayload mirrors the body the sync-rounds job route accepts.
type syncJobPayload struct {
	Rounds     []string `json:"rounds,omitempty"`
	MaxWorkers int      `json:"maxWorkers,omitempty"`
	DryRun     bool     `json:"dryRun,omitempty"`
}

type RoundSyncScheduler struct {
	publisher JobPublisher
	sync      *RoundSyncService
	clock     clockwork.Clock
	logger    *logging.Logger
}

func NewRoundSyncScheduler(publisher JobPublisher, sync *RoundSyncService, clock clockwork.Clock, logger *logging.Logger) *RoundSyncScheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &RoundSyncScheduler{
		publisher: publisher,
		sync:      sync,
		clock:     clock,
		logger:    logger,
	}
}

// Schedule queues a sync-rounds job. Requests for the same rounds within the same minute share a
// deduplication id, so repeated clicks queue one job.
func (s *RoundSyncScheduler) Schedule(ctx context.Context, input ScheduleSyncInput) (ScheduledSync, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundSyncScheduler.Schedule",
		attribute.Int64("sync.delay_seconds", int64(input.Delay/time.Second)),
	)
	defer span.End()

	if s.publisher == nil {
		return ScheduledSync{}, fmt.Errorf("%w: job queue is disabled (QSTASH_ENABLED=false)", ErrDependencyUnavailable)
	}
	if s.sync == nil || !s.sync.cfg.Enabled {
		return ScheduledSync{}, fmt.Errorf("%w: round sync is disabled (SOFASCORE_ENABLED=false)", ErrDependencyUnavailable)
	}
	if input.Delay < 0 || input.Delay > maxSyncScheduleDelay {
		return ScheduledSync{}, fmt.Errorf("%w: delay must be between 0 and %s", ErrInvalidInput, maxSyncScheduleDelay)
	}

	targets, err := s.sync.resolveTargets(input.Labels)
	if err != nil {
		return ScheduledSync{}, err
	}
	labels := make([]string, 0, len(targets))
	for _, item := range targets {
		labels = append(labels, item.Label)
	}

	runAt := s.clock.Now().UTC().Add(input.Delay)
	dedupID := syncDeduplicationID(labels, input.DryRun, runAt)
	payload := syncJobPayload{
		Rounds:     labels,
		MaxWorkers: input.MaxWorkers,
		DryRun:     input.DryRun,
	}
	if err := s.publisher.Enqueue(ctx, SyncRoundsJobPath, payload, input.Delay, dedupID); err != nil {
		return ScheduledSync{}, fmt.Errorf("enqueue sync rounds job: %w", err)
	}

	s.logger.InfoContext(ctx, "sync rounds job scheduled", "rounds", labels, "run_at", runAt, "deduplication_id", dedupID)
	return ScheduledSync{
		Path:            SyncRoundsJobPath,
		Rounds:          labels,
		DryRun:          input.DryRun,
		RunAt:           runAt,
		DeduplicationID: dedupID,
	}, nil
}

func syncDeduplicationID(labels []string, dryRun bool, runAt time.Time) string {
	keys := make([]string, 0, len(labels))
	for _, label := range labels {
		keys = append(keys, strings.ReplaceAll(strings.ToLower(label), " ", "-"))
	}
	mode := "run"
	if dryRun {
		mode = "dry"
	}
	return fmt.Sprintf("sync-rounds:%s:%s:%d", mode, strings.Join(keys, "+"), runAt.Truncate(time.Minute).Unix())
}
