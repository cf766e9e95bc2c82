package scoring

import "github.com/riskibarqy/quiniela/internal/domain/fixture"

const (
	PointsHomeWin = 2
	PointsAwayWin = 2
	PointsDraw    = 3
)

// Points awards a single pick. Only a finished outcome with a winner scores; everything else,
// including an unknown fixture, is worth zero.
func Points(selection fixture.Outcome, outcome *fixture.MatchOutcome) int {
	if outcome == nil || !outcome.IsFinished() || outcome.Winner == nil {
		return 0
	}
	if selection != *outcome.Winner {
		return 0
	}

	switch selection {
	case fixture.OutcomeHome:
		return PointsHomeWin
	case fixture.OutcomeAway:
		return PointsAwayWin
	case fixture.OutcomeDraw:
		return PointsDraw
	default:
		return 0
	}
}
