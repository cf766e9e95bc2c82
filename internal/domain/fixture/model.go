package fixture

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ID identifies one match; it is stable for the lifetime of a round.
type ID int64

// Outcome is the three-way result of a fixture.
type Outcome string

const (
	OutcomeHome Outcome = "home"
	OutcomeAway Outcome = "away"
	OutcomeDraw Outcome = "draw"
)

func ParseOutcome(value string) (Outcome, error) {
	switch Outcome(strings.ToLower(strings.TrimSpace(value))) {
	case OutcomeHome:
		return OutcomeHome, nil
	case OutcomeAway:
		return OutcomeAway, nil
	case OutcomeDraw:
		return OutcomeDraw, nil
	default:
		return "", fmt.Errorf("unknown outcome %q", value)
	}
}

func (o Outcome) Valid() bool {
	switch o {
	case OutcomeHome, OutcomeAway, OutcomeDraw:
		return true
	default:
		return false
	}
}

func (o Outcome) String() string {
	return string(o)
}

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusFinished  Status = "FINISHED"
)

// NormalizeStatus maps a feed status onto Scheduled or Finished. Anything it does not
// recognise is treated as not yet decided.
func NormalizeStatus(value string) Status {
	if IsFinishedStatus(value) {
		return StatusFinished
	}
	return StatusScheduled
}

func IsFinishedStatus(value string) bool {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case string(StatusFinished), "FT", "AET", "PEN", "ENDED":
		return true
	default:
		return false
	}
}

// MatchOutcome is the normalized state of one fixture as reported by the results feed.
// Winner and scores are only set when Status is Finished.
type MatchOutcome struct {
	FixtureID    ID
	Status       Status
	Winner       *Outcome
	HomeScore    *int
	AwayScore    *int
	KickoffAt    *time.Time
	HomeTeamName string
	AwayTeamName string
	HomeTeamCode string
	AwayTeamCode string
}

func (m MatchOutcome) IsFinished() bool {
	return m.Status == StatusFinished
}

// Outcomes indexes normalized results by fixture. A fixture missing from the map has no known
// result, which is not the same as Scheduled.
type Outcomes map[ID]MatchOutcome

func (o Outcomes) Lookup(id ID) (*MatchOutcome, bool) {
	item, ok := o[id]
	if !ok {
		return nil, false
	}
	return &item, true
}

// Sorted returns the outcomes by kickoff ascending with unknown kickoff last, then by id.
func Sorted(outcomes Outcomes) []MatchOutcome {
	out := make([]MatchOutcome, 0, len(outcomes))
	for _, item := range outcomes {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := CompareKickoff(out[i].KickoffAt, out[j].KickoffAt); c != 0 {
			return c < 0
		}
		return out[i].FixtureID < out[j].FixtureID
	})
	return out
}

// CompareKickoff orders known kickoff times ascending and puts unknown ones after all known.
func CompareKickoff(left, right *time.Time) int {
	switch {
	case left == nil && right == nil:
		return 0
	case left == nil:
		return 1
	case right == nil:
		return -1
	case left.Before(*right):
		return -1
	case left.After(*right):
		return 1
	default:
		return 0
	}
}
