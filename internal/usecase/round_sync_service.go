package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	sonic "github.com/bytedance/sonic"
	"github.com/jonboulle/clockwork"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/quiniela/internal/domain/round"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// RoundFeedProvider fetches the raw {"events": [...]} document of one provider round.
type RoundFeedProvider interface {
	FetchRoundEvents(ctx context.Context, roundNumber int) ([]byte, error)
}

// RoundFeedSource maps a stored round label onto the provider's round number.
type RoundFeedSource struct {
	Label  string
	Number int
}

type RoundSyncConfig struct {
	Enabled    bool
	Rounds     []RoundFeedSource
	MaxWorkers int
}

type SyncRoundsInput struct {
	// Labels narrows the sync to these rounds; empty means every configured round.
	Labels     []string
	MaxWorkers int
	// DryRun fetches and checks the feed without storing it.
	DryRun bool
}

type SyncRoundsResult struct {
	RoundCount   int               `json:"round_count"`
	SuccessCount int               `json:"success_count"`
	FailedCount  int               `json:"failed_count"`
	SkippedCount int               `json:"skipped_count"`
	WorkerCount  int               `json:"worker_count"`
	DryRun       bool              `json:"dry_run"`
	Rounds       []RoundSyncResult `json:"rounds"`
}

type RoundSyncResult struct {
	Label      string `json:"label"`
	Number     int    `json:"number"`
	Status     string `json:"status"`
	Events     int    `json:"events"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

const (
	roundSyncStatusSuccess = "success"
	roundSyncStatusFailed  = "failed"
	roundSyncStatusSkipped = "skipped"
)

type RoundSyncService struct {
	provider  RoundFeedProvider
	roundRepo round.Repository
	cfg       RoundSyncConfig
	clock     clockwork.Clock
	logger    *logging.Logger
}

func NewRoundSyncService(
	provider RoundFeedProvider,
	roundRepo round.Repository,
	cfg RoundSyncConfig,
	clock clockwork.Clock,
	logger *logging.Logger,
) *RoundSyncService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &RoundSyncService{
		provider:  provider,
		roundRepo: roundRepo,
		cfg:       cfg,
		clock:     clock,
		logger:    logger,
	}
}

// Sync pulls the configured rounds from the provider and stores them. A round that fails does
// not stop the others; its failure is reported in the result.
func (s *RoundSyncService) Sync(ctx context.Context, input SyncRoundsInput) (SyncRoundsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundSyncService.Sync", attribute.Bool("sync.dry_run", input.DryRun))
	defer span.End()

	if !s.cfg.Enabled {
		return SyncRoundsResult{}, fmt.Errorf("%w: round sync is disabled (SOFASCORE_ENABLED=false)", ErrDependencyUnavailable)
	}
	if s.provider == nil || s.roundRepo == nil {
		return SyncRoundsResult{}, fmt.Errorf("%w: round sync is not fully configured", ErrDependencyUnavailable)
	}

	targets, err := s.resolveTargets(input.Labels)
	if err != nil {
		return SyncRoundsResult{}, err
	}

	maxWorkers := input.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = s.cfg.MaxWorkers
	}
	workerCount := normalizeSyncWorkerCount(maxWorkers, len(targets))
	result := SyncRoundsResult{
		RoundCount:  len(targets),
		WorkerCount: workerCount,
		DryRun:      input.DryRun,
		Rounds:      make([]RoundSyncResult, 0, len(targets)),
	}
	if len(targets) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return SyncRoundsResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	rows := make(chan RoundSyncResult, len(targets))
	var successCount, failedCount, skippedCount atomic.Int32
	var workers sync.WaitGroup
	for _, target := range targets {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := s.clock.Now()
			row := s.syncRound(ctx, target, input.DryRun)
			row.DurationMs = s.clock.Since(start).Milliseconds()

			switch row.Status {
			case roundSyncStatusSuccess:
				successCount.Add(1)
			case roundSyncStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}
			rows <- row
		}); err != nil {
			workers.Done()
			return SyncRoundsResult{}, fmt.Errorf("submit round to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)
	for row := range rows {
		result.Rounds = append(result.Rounds, row)
	}
	sort.SliceStable(result.Rounds, func(i, j int) bool {
		return result.Rounds[i].Number < result.Rounds[j].Number
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.SkippedCount = int(skippedCount.Load())
	span.SetAttributes(
		attribute.Int("sync.success", result.SuccessCount),
		attribute.Int("sync.failed", result.FailedCount),
	)
	return result, nil
}

func (s *RoundSyncService) syncRound(ctx context.Context, target RoundFeedSource, dryRun bool) RoundSyncResult {
	row := RoundSyncResult{Label: target.Label, Number: target.Number}

	raw, err := s.provider.FetchRoundEvents(ctx, target.Number)
	if err != nil {
		s.logger.WarnContext(ctx, "fetch round failed", "round", target.Label, "error", err)
		row.Status = roundSyncStatusFailed
		row.Message = err.Error()
		return row
	}

	events, err := countRoundEvents(raw)
	if err != nil {
		row.Status = roundSyncStatusFailed
		row.Message = err.Error()
		return row
	}
	row.Events = events
	if events == 0 {
		row.Status = roundSyncStatusSkipped
		row.Message = "provider returned no events; stored round kept"
		return row
	}

	if dryRun {
		row.Status = roundSyncStatusSuccess
		row.Message = "dry run: round not stored"
		return row
	}

	err = s.roundRepo.Upsert(ctx, round.Round{
		Label:     target.Label,
		Number:    target.Number,
		Data:      raw,
		UpdatedAt: s.clock.Now().UTC(),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "store round failed", "round", target.Label, "error", err)
		row.Status = roundSyncStatusFailed
		row.Message = fmt.Sprintf("store round: %v", err)
		return row
	}

	row.Status = roundSyncStatusSuccess
	return row
}

func (s *RoundSyncService) resolveTargets(labels []string) ([]RoundFeedSource, error) {
	if len(labels) == 0 {
		return append([]RoundFeedSource(nil), s.cfg.Rounds...), nil
	}

	byLabel := make(map[string]RoundFeedSource, len(s.cfg.Rounds))
	for _, item := range s.cfg.Rounds {
		byLabel[item.Label] = item
	}

	out := make([]RoundFeedSource, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if _, dup := seen[label]; dup || label == "" {
			continue
		}
		item, ok := byLabel[label]
		if !ok {
			return nil, fmt.Errorf("%w: round %q is not configured", ErrInvalidInput, label)
		}
		seen[label] = struct{}{}
		out = append(out, item)
	}
	return out, nil
}

// countRoundEvents checks that raw is a round object and counts its events.
func countRoundEvents(raw []byte) (int, error) {
	var doc struct {
		Events []any `json:"events"`
	}
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return 0, fmt.Errorf("decode round feed: %w", err)
	}
	return len(doc.Events), nil
}

func normalizeSyncWorkerCount(value int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 1
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}
