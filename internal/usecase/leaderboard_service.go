package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/quiniela/internal/domain/fixture"
	"github.com/riskibarqy/quiniela/internal/domain/scoring"
	"github.com/riskibarqy/quiniela/internal/domain/ticket"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

type LeaderboardService struct {
	ticketRepo ticket.Repository
	rounds     *RoundService
}

func NewLeaderboardService(ticketRepo ticket.Repository, rounds *RoundService) *LeaderboardService {
	return &LeaderboardService{
		ticketRepo: ticketRepo,
		rounds:     rounds,
	}
}

// Build ranks every submitted ticket against the latest stored results.
func (s *LeaderboardService) Build(ctx context.Context) ([]scoring.RankedTicket, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Build")
	defer span.End()

	tickets, outcomes, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	ranked := scoring.Rank(tickets, outcomes)
	span.SetAttributes(
		attribute.Int("leaderboard.tickets", len(ranked)),
		attribute.Int("leaderboard.fixtures", len(outcomes)),
	)
	return ranked, nil
}

// ListTickets returns submitted tickets newest first.
func (s *LeaderboardService) ListTickets(ctx context.Context) ([]ticket.Ticket, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.ListTickets")
	defer span.End()

	items, err := s.ticketRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	if items == nil {
		items = []ticket.Ticket{}
	}
	return items, nil
}

// GetTicket scores a single ticket. Position is left at zero since it is not ranked against
// the other tickets.
func (s *LeaderboardService) GetTicket(ctx context.Context, ticketID string) (scoring.RankedTicket, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.GetTicket")
	defer span.End()

	ticketID = strings.TrimSpace(ticketID)
	if ticketID == "" {
		return scoring.RankedTicket{}, fmt.Errorf("%w: ticket id is required", ErrInvalidInput)
	}

	item, exists, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return scoring.RankedTicket{}, fmt.Errorf("get ticket: %w", err)
	}
	if !exists {
		return scoring.RankedTicket{}, fmt.Errorf("%w: ticket=%s", ErrNotFound, ticketID)
	}

	outcomes, err := s.rounds.Outcomes(ctx)
	if err != nil {
		return scoring.RankedTicket{}, err
	}
	return scoring.ScoreTicket(item, outcomes), nil
}

func (s *LeaderboardService) load(ctx context.Context) ([]ticket.Ticket, fixture.Outcomes, error) {
	var (
		tickets  []ticket.Ticket
		outcomes fixture.Outcomes
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		items, err := s.ticketRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list tickets: %w", err)
		}
		tickets = submissionOrder(items)
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.rounds.Outcomes(ctx)
		if err != nil {
			return err
		}
		outcomes = items
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, nil, err
	}

	return tickets, outcomes, nil
}

// submissionOrder reverses the repository's newest-first listing so tickets sharing a CreatedAt
// reach the ranking in the order they were stored.
func submissionOrder(items []ticket.Ticket) []ticket.Ticket {
	out := make([]ticket.Ticket, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return out
}
