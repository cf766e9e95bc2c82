package ticket

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/fixture"
)

var (
	ErrMissingContact      = errors.New("participant contact is incomplete")
	ErrInvalidEmail        = errors.New("invalid participant email")
	ErrMissingPaymentProof = errors.New("payment proof is required")
	ErrEmptyTicket         = errors.New("ticket has no picks")
	ErrDuplicatePick       = errors.New("duplicate pick for fixture")
	ErrInvalidSelection    = errors.New("invalid pick selection")
	ErrIncompletePicks     = errors.New("every open fixture needs a pick")
	ErrMissingFixture      = errors.New("pick has no fixture")
	ErrFixtureClosed       = errors.New("fixture is closed for picks")
)

// Validate checks the ticket fields that do not depend on the schedule.
func Validate(item Ticket) error {
	if strings.TrimSpace(item.ParticipantName) == "" ||
		strings.TrimSpace(item.Phone) == "" ||
		strings.TrimSpace(item.Email) == "" {
		return fmt.Errorf("%w: name, phone and email are required", ErrMissingContact)
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(item.Email)); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEmail, item.Email)
	}
	if strings.TrimSpace(item.PaymentProofRef) == "" {
		return ErrMissingPaymentProof
	}
	if len(item.Picks) == 0 {
		return ErrEmptyTicket
	}

	seen := make(map[fixture.ID]struct{}, len(item.Picks))
	for _, pick := range item.Picks {
		if pick.FixtureID <= 0 {
			return fmt.Errorf("%w: fixture id is required for every pick", ErrMissingFixture)
		}
		if _, exists := seen[pick.FixtureID]; exists {
			return fmt.Errorf("%w: %d", ErrDuplicatePick, pick.FixtureID)
		}
		seen[pick.FixtureID] = struct{}{}

		if !pick.Selection.Valid() {
			return fmt.Errorf("%w: fixture=%d selection=%q", ErrInvalidSelection, pick.FixtureID, pick.Selection)
		}
	}

	return nil
}

// RejectClosedPicks fails when a pick targets a fixture that is finished or whose kickoff is at
// or before now.
func RejectClosedPicks(picks []Pick, schedule []ScheduledFixture, now time.Time) error {
	closed := make(map[fixture.ID]struct{}, len(schedule))
	for _, item := range schedule {
		if item.closed(now) {
			closed[item.FixtureID] = struct{}{}
		}
	}

	for _, pick := range picks {
		if _, ok := closed[pick.FixtureID]; ok {
			return fmt.Errorf("%w: fixture=%d", ErrFixtureClosed, pick.FixtureID)
		}
	}
	return nil
}

// RequireOpenFixturesPicked enforces the intake contract: every fixture that kicks off after
// now must have a pick. Closed fixtures are not required.
func RequireOpenFixturesPicked(picks []Pick, schedule []ScheduledFixture, now time.Time) error {
	picked := make(map[fixture.ID]struct{}, len(picks))
	for _, pick := range picks {
		picked[pick.FixtureID] = struct{}{}
	}

	missing := make([]string, 0)
	for _, item := range schedule {
		if item.closed(now) {
			continue
		}
		if _, ok := picked[item.FixtureID]; ok {
			continue
		}
		missing = append(missing, fmt.Sprintf("%d", item.FixtureID))
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing=%s", ErrIncompletePicks, strings.Join(missing, ","))
	}

	return nil
}
