package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/quiniela/internal/domain/fixture"
	"github.com/riskibarqy/quiniela/internal/domain/ticket"
	"github.com/riskibarqy/quiniela/internal/platform/id"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type SubmitPickInput struct {
	FixtureID int64
	Selection string
	HomeTeam  string
	AwayTeam  string
}

type SubmitTicketInput struct {
	ParticipantName string
	Email           string
	Phone           string
	PaymentProofRef string
	Picks           []SubmitPickInput
}

type SubmissionService struct {
	ticketRepo ticket.Repository
	rounds     *RoundService
	ids        id.Generator
	clock      clockwork.Clock
	logger     *logging.Logger
}

func NewSubmissionService(
	ticketRepo ticket.Repository,
	rounds *RoundService,
	ids id.Generator,
	clock clockwork.Clock,
	logger *logging.Logger,
) *SubmissionService {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &SubmissionService{
		ticketRepo: ticketRepo,
		rounds:     rounds,
		ids:        ids,
		clock:      clock,
		logger:     logger,
	}
}

// Submit validates a ticket against the current schedule and stores it. Every fixture that has
// not kicked off yet must be picked. Picks for unknown, started or finished fixtures are rejected.
func (s *SubmissionService) Submit(ctx context.Context, input SubmitTicketInput) (ticket.Ticket, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.Submit",
		attribute.Int("ticket.picks", len(input.Picks)),
	)
	defer span.End()

	outcomes, err := s.rounds.Outcomes(ctx)
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("load schedule: %w", err)
	}

	picks := make([]ticket.Pick, 0, len(input.Picks))
	for _, in := range input.Picks {
		selection, err := fixture.ParseOutcome(in.Selection)
		if err != nil {
			return ticket.Ticket{}, fmt.Errorf("%w: fixture=%d: %v", ErrInvalidInput, in.FixtureID, err)
		}

		fixtureID := fixture.ID(in.FixtureID)
		outcome, known := outcomes.Lookup(fixtureID)
		if !known {
			return ticket.Ticket{}, fmt.Errorf("%w: fixture %d is not part of any round", ErrInvalidInput, in.FixtureID)
		}

		picks = append(picks, ticket.Pick{
			FixtureID:     fixtureID,
			Selection:     selection,
			HomeTeamLabel: teamLabel(in.HomeTeam, outcome.HomeTeamCode, outcome.HomeTeamName),
			AwayTeamLabel: teamLabel(in.AwayTeam, outcome.AwayTeamCode, outcome.AwayTeamName),
		})
	}

	now := s.clock.Now().UTC()
	item := ticket.Ticket{
		ParticipantName: strings.TrimSpace(input.ParticipantName),
		Email:           strings.TrimSpace(input.Email),
		Phone:           strings.TrimSpace(input.Phone),
		PaymentProofRef: strings.TrimSpace(input.PaymentProofRef),
		Picks:           picks,
		CreatedAt:       now,
	}
	if err := ticket.Validate(item); err != nil {
		return ticket.Ticket{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	schedule := scheduleOf(outcomes)
	if err := ticket.RejectClosedPicks(item.Picks, schedule, now); err != nil {
		return ticket.Ticket{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := ticket.RequireOpenFixturesPicked(item.Picks, schedule, now); err != nil {
		return ticket.Ticket{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	item.ID, err = s.ids.NewID()
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("generate ticket id: %w", err)
	}

	if err := s.ticketRepo.Create(ctx, item); err != nil {
		return ticket.Ticket{}, fmt.Errorf("create ticket: %w", err)
	}

	s.logger.InfoContext(ctx, "ticket submitted", "ticket_id", item.ID, "picks", len(item.Picks))
	return item, nil
}

// scheduleOf lists the fixtures with a known kickoff plus every finished one. Fixtures with
// neither stay pickable and optional.
func scheduleOf(outcomes fixture.Outcomes) []ticket.ScheduledFixture {
	out := make([]ticket.ScheduledFixture, 0, len(outcomes))
	for _, item := range fixture.Sorted(outcomes) {
		if item.KickoffAt == nil && !item.IsFinished() {
			continue
		}
		entry := ticket.ScheduledFixture{
			FixtureID: item.FixtureID,
			Finished:  item.IsFinished(),
		}
		if item.KickoffAt != nil {
			entry.KickoffAt = *item.KickoffAt
		}
		out = append(out, entry)
	}
	return out
}

func teamLabel(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
