package memory

import (
	"fmt"
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/round"
)

const SeedRoundLabel = "Ronda 1"

// SeedRounds returns a small demo round for local runs without a provider: one decided fixture
// and two that kick off after now.
func SeedRounds(now time.Time) []round.Round {
	finishedAt := now.Add(-48 * time.Hour).Unix()
	nextAt := now.Add(24 * time.Hour).Unix()
	laterAt := now.Add(26 * time.Hour).Unix()

	data := fmt.Sprintf(`{"events":[
{"id":9001,"startTimestamp":%d,"status":{"type":"finished"},"winnerCode":1,
 "homeTeam":{"name":"Club America","nameCode":"AME"},"awayTeam":{"name":"Chivas","nameCode":"GDL"},
 "homeScore":{"current":2},"awayScore":{"current":1}},
{"id":9002,"startTimestamp":%d,"status":{"type":"notstarted"},
 "homeTeam":{"name":"Tigres","nameCode":"TIG"},"awayTeam":{"name":"Monterrey","nameCode":"MTY"}},
{"id":9003,"startTimestamp":%d,"status":{"type":"notstarted"},
 "homeTeam":{"name":"Cruz Azul","nameCode":"CAZ"},"awayTeam":{"name":"Pumas","nameCode":"PUM"}}
]}`, finishedAt, nextAt, laterAt)

	return []round.Round{
		{Label: SeedRoundLabel, Number: 1, Data: []byte(data), UpdatedAt: now.UTC()},
	}
}
