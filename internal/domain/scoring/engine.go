package scoring

import (
	"sort"
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/fixture"
	"github.com/riskibarqy/quiniela/internal/domain/ticket"
)

// ScoredPick is a pick joined with its outcome, ready for display.
type ScoredPick struct {
	Pick           ticket.Pick
	Outcome        *fixture.MatchOutcome
	Points         int
	HomeTeam       string
	AwayTeam       string
	Result         string
	SelectionLabel string
	WinnerLabel    string
	KickoffAt      *time.Time
}

type RankedTicket struct {
	Ticket      ticket.Ticket
	TotalPoints int
	Position    int
	ScoredPicks []ScoredPick
}

// ScoreTicket scores every pick of a ticket against the known outcomes. Scored picks come back
// ordered by kickoff, unknown kickoff last, keeping submission order on ties.
func ScoreTicket(item ticket.Ticket, outcomes fixture.Outcomes) RankedTicket {
	scored := make([]ScoredPick, 0, len(item.Picks))
	total := 0
	for _, pick := range item.Picks {
		outcome, _ := outcomes.Lookup(pick.FixtureID)
		entry := annotate(pick, outcome)
		entry.Points = Points(pick.Selection, outcome)
		total += entry.Points
		scored = append(scored, entry)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return fixture.CompareKickoff(scored[i].KickoffAt, scored[j].KickoffAt) < 0
	})

	return RankedTicket{
		Ticket:      item,
		TotalPoints: total,
		ScoredPicks: scored,
	}
}

// Rank scores all tickets and orders them by total points, earliest submission first on ties.
// Tickets with equal points and CreatedAt keep their input order.
func Rank(tickets []ticket.Ticket, outcomes fixture.Outcomes) []RankedTicket {
	out := make([]RankedTicket, 0, len(tickets))
	for _, item := range tickets {
		out = append(out, ScoreTicket(item, outcomes))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		return out[i].Ticket.CreatedAt.Before(out[j].Ticket.CreatedAt)
	})

	for i := range out {
		out[i].Position = i + 1
	}
	return out
}
