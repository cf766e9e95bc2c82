package scoring

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/quiniela/internal/domain/fixture"
	"github.com/riskibarqy/quiniela/internal/domain/ticket"
)

const (
	ResultFinished = "Finalizado"
	ResultPending  = "Pendiente"
	ResultUnknown  = "Sin resultado"

	LabelDraw = "Empate"
	LabelHome = "Local"
	LabelAway = "Visitante"
)

func annotate(pick ticket.Pick, outcome *fixture.MatchOutcome) ScoredPick {
	entry := ScoredPick{
		Pick:     pick,
		Outcome:  outcome,
		HomeTeam: strings.TrimSpace(pick.HomeTeamLabel),
		AwayTeam: strings.TrimSpace(pick.AwayTeamLabel),
		Result:   resultText(outcome),
	}
	if outcome != nil {
		if name := strings.TrimSpace(outcome.HomeTeamName); name != "" {
			entry.HomeTeam = name
		}
		if name := strings.TrimSpace(outcome.AwayTeamName); name != "" {
			entry.AwayTeam = name
		}
		entry.KickoffAt = outcome.KickoffAt
		if outcome.IsFinished() && outcome.Winner != nil {
			entry.WinnerLabel = outcomeLabel(*outcome.Winner, entry.HomeTeam, entry.AwayTeam)
		}
	}
	entry.SelectionLabel = outcomeLabel(pick.Selection, entry.HomeTeam, entry.AwayTeam)
	return entry
}

func resultText(outcome *fixture.MatchOutcome) string {
	switch {
	case outcome == nil:
		return ResultUnknown
	case !outcome.IsFinished():
		return ResultPending
	case outcome.HomeScore != nil && outcome.AwayScore != nil:
		return fmt.Sprintf("%d-%d", *outcome.HomeScore, *outcome.AwayScore)
	default:
		return ResultFinished
	}
}

// outcomeLabel names the side of an outcome, falling back to a generic label when the team
// name is unknown.
func outcomeLabel(value fixture.Outcome, homeTeam, awayTeam string) string {
	switch value {
	case fixture.OutcomeHome:
		if homeTeam != "" {
			return homeTeam
		}
		return LabelHome
	case fixture.OutcomeAway:
		if awayTeam != "" {
			return awayTeam
		}
		return LabelAway
	case fixture.OutcomeDraw:
		return LabelDraw
	default:
		return ""
	}
}
