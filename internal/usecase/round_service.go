package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/quiniela/internal/domain/fixture"
	"github.com/riskibarqy/quiniela/internal/domain/round"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type RoundService struct {
	roundRepo round.Repository
	logger    *logging.Logger
}

func NewRoundService(roundRepo round.Repository, logger *logging.Logger) *RoundService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RoundService{
		roundRepo: roundRepo,
		logger:    logger,
	}
}

// ListRaw returns the stored feed keyed by round label, the document the public form renders.
func (s *RoundService) ListRaw(ctx context.Context) (fixture.RoundsPayload, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.ListRaw")
	defer span.End()

	payload, _, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("rounds.count", len(payload)))
	return payload, nil
}

// ListResults returns every known fixture outcome ordered by kickoff.
func (s *RoundService) ListResults(ctx context.Context) ([]fixture.MatchOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.ListResults")
	defer span.End()

	outcomes, err := s.Outcomes(ctx)
	if err != nil {
		return nil, err
	}
	return fixture.Sorted(outcomes), nil
}

// Outcomes normalizes the stored feed in round order, so a fixture listed in two rounds takes
// the later round's record. Malformed records are logged and left out.
func (s *RoundService) Outcomes(ctx context.Context) (fixture.Outcomes, error) {
	payload, order, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	outcomes, skipped := fixture.NormalizeInOrder(payload, order)
	for _, skipErr := range skipped {
		s.logger.WarnContext(ctx, "skip malformed feed record", "error", skipErr)
	}
	return outcomes, nil
}

// load decodes the stored rounds and returns their labels in repository order.
func (s *RoundService) load(ctx context.Context) (fixture.RoundsPayload, []string, error) {
	items, err := s.roundRepo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list rounds: %w", err)
	}

	payload, skipped := round.Payload(items)
	for _, skipErr := range skipped {
		s.logger.WarnContext(ctx, "skip undecodable round", "error", skipErr)
	}

	order := make([]string, 0, len(items))
	for _, item := range items {
		order = append(order, item.Label)
	}
	return payload, order, nil
}
