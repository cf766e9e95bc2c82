package ticket

import (
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/fixture"
)

// Pick is one predicted outcome. Team labels are captured at submission time and only used
// when the results feed has no name for the fixture.
type Pick struct {
	FixtureID     fixture.ID
	Selection     fixture.Outcome
	HomeTeamLabel string
	AwayTeamLabel string
}

// Ticket is a participant's full submission. It is written once and never updated.
type Ticket struct {
	ID              string
	ParticipantName string
	Email           string
	Phone           string
	Picks           []Pick
	CreatedAt       time.Time
	PaymentProofRef string
}

// ScheduledFixture is the slice of the schedule the intake checks need.
type ScheduledFixture struct {
	FixtureID fixture.ID
	KickoffAt time.Time
	Finished  bool
}

func (f ScheduledFixture) closed(now time.Time) bool {
	return f.Finished || !f.KickoffAt.After(now)
}
