package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/round"
)

type feedEvent struct {
	id       int64
	home     string
	away     string
	kickoff  time.Time
	finished bool
	winner   int
	homeGoal int
	awayGoal int
}

func (e feedEvent) json() string {
	status := "notstarted"
	extra := ""
	if e.finished {
		status = "finished"
		extra = fmt.Sprintf(`,"winnerCode":%d,"homeScore":{"current":%d},"awayScore":{"current":%d}`, e.winner, e.homeGoal, e.awayGoal)
	}
	return fmt.Sprintf(
		`{"id":%d,"startTimestamp":%d,"status":{"type":%q},"homeTeam":{"name":%q,"nameCode":%q},"awayTeam":{"name":%q,"nameCode":%q}%s}`,
		e.id, e.kickoff.Unix(), status,
		e.home, strings.ToUpper(e.home[:3]), e.away, strings.ToUpper(e.away[:3]), extra,
	)
}

func feedRound(label string, events ...feedEvent) round.Round {
	parts := make([]string, 0, len(events))
	for _, e := range events {
		parts = append(parts, e.json())
	}
	return round.Round{
		Label: label,
		Data:  []byte(`{"events":[` + strings.Join(parts, ",") + `]}`),
	}
}
