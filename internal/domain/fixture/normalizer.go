package fixture

import (
	"bytes"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

// ErrMalformedRecord marks a feed record that cannot be turned into a MatchOutcome.
var ErrMalformedRecord = crerr.New("malformed feed record")

// RoundsPayload is the raw results feed: round label -> object carrying an "events" list.
type RoundsPayload map[string]any

func DecodeRoundsPayload(raw []byte) (RoundsPayload, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return RoundsPayload{}, nil
	}

	var out map[string]any
	if err := sonic.Unmarshal(trimmed, &out); err != nil {
		return nil, crerr.Wrap(err, "decode rounds payload")
	}
	if out == nil {
		out = make(map[string]any)
	}
	return RoundsPayload(out), nil
}

// Normalize converts every event of every round into a MatchOutcome keyed by fixture id.
// Rounds are visited in round order (see NormalizeInOrder) and events in feed order; a later
// record for the same fixture replaces an earlier one. Records that cannot be normalized are
// skipped and reported in the returned error list, wrapping ErrMalformedRecord.
func Normalize(payload RoundsPayload) (Outcomes, []error) {
	return NormalizeInOrder(payload, nil)
}

// NormalizeInOrder is Normalize with an explicit round order. Labels missing from order follow
// the listed ones, sorted by label with trailing numbers compared numerically.
func NormalizeInOrder(payload RoundsPayload, order []string) (Outcomes, []error) {
	out := make(Outcomes)
	if len(payload) == 0 {
		return out, nil
	}

	labels := roundLabels(payload, order)

	var skipped []error
	for _, label := range labels {
		events := roundEvents(payload[label])
		for idx, raw := range events {
			item, ok := raw.(map[string]any)
			if !ok {
				skipped = append(skipped, crerr.Wrapf(ErrMalformedRecord, "round %q event %d is not an object", label, idx))
				continue
			}

			outcome, err := NormalizeEvent(item)
			if err != nil {
				skipped = append(skipped, crerr.Wrapf(err, "round %q event %d", label, idx))
				continue
			}
			out[outcome.FixtureID] = outcome
		}
	}

	return out, skipped
}

// NormalizeEvent maps one raw feed record. Only the identifier is mandatory.
func NormalizeEvent(item map[string]any) (MatchOutcome, error) {
	id, ok := firstInt64(item, "id", "eventId", "fixtureId")
	if !ok || id <= 0 {
		return MatchOutcome{}, crerr.Wrap(ErrMalformedRecord, "missing fixture identifier")
	}

	out := MatchOutcome{
		FixtureID:    ID(id),
		Status:       NormalizeStatus(eventStatus(item)),
		KickoffAt:    eventKickoff(item),
		HomeTeamName: firstNonEmpty(nestedString(item, "homeTeam", "name"), getString(item, "homeTeamName")),
		AwayTeamName: firstNonEmpty(nestedString(item, "awayTeam", "name"), getString(item, "awayTeamName")),
		HomeTeamCode: nestedString(item, "homeTeam", "nameCode"),
		AwayTeamCode: nestedString(item, "awayTeam", "nameCode"),
	}
	if !out.IsFinished() {
		return out, nil
	}

	out.Winner = eventWinner(item)
	out.HomeScore = scoreValue(item["homeScore"])
	out.AwayScore = scoreValue(item["awayScore"])
	if out.HomeScore == nil {
		out.HomeScore = scoreValue(item["homeGoals"])
	}
	if out.AwayScore == nil {
		out.AwayScore = scoreValue(item["awayGoals"])
	}

	return out, nil
}

func roundLabels(payload RoundsPayload, order []string) []string {
	labels := make([]string, 0, len(payload))
	listed := make(map[string]struct{}, len(order))
	for _, label := range order {
		if _, ok := payload[label]; !ok {
			continue
		}
		if _, dup := listed[label]; dup {
			continue
		}
		listed[label] = struct{}{}
		labels = append(labels, label)
	}

	rest := make([]string, 0, len(payload)-len(labels))
	for label := range payload {
		if _, ok := listed[label]; !ok {
			rest = append(rest, label)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		return roundLabelLess(rest[i], rest[j])
	})
	return append(labels, rest...)
}

// roundLabelLess orders "Ronda 2" before "Ronda 10".
func roundLabelLess(a, b string) bool {
	prefixA, numA, okA := splitRoundNumber(a)
	prefixB, numB, okB := splitRoundNumber(b)
	if okA && okB && prefixA == prefixB && numA != numB {
		return numA < numB
	}
	return a < b
}

func splitRoundNumber(label string) (string, int64, bool) {
	end := len(label)
	start := end
	for start > 0 && label[start-1] >= '0' && label[start-1] <= '9' {
		start--
	}
	if start == end {
		return label, 0, false
	}
	n, err := strconv.ParseInt(label[start:end], 10, 64)
	if err != nil {
		return label, 0, false
	}
	return label[:start], n, true
}

func roundEvents(raw any) []any {
	round, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	events, ok := round["events"].([]any)
	if !ok {
		return nil
	}
	return events
}

func eventStatus(item map[string]any) string {
	if status, ok := item["status"].(map[string]any); ok {
		return firstNonEmpty(getString(status, "type"), getString(status, "description"))
	}
	return getString(item, "status")
}

func eventWinner(item map[string]any) *Outcome {
	if code, ok := getInt64(item, "winnerCode"); ok {
		return winnerFromCode(code)
	}

	switch typed := item["winner"].(type) {
	case string:
		if code, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64); err == nil {
			return winnerFromCode(code)
		}
		outcome, err := ParseOutcome(typed)
		if err != nil {
			return nil
		}
		return &outcome
	case float64, int, int64:
		code, _ := getInt64(item, "winner")
		return winnerFromCode(code)
	default:
		return nil
	}
}

func winnerFromCode(code int64) *Outcome {
	var outcome Outcome
	switch code {
	case 1:
		outcome = OutcomeHome
	case 2:
		outcome = OutcomeAway
	case 3:
		outcome = OutcomeDraw
	default:
		return nil
	}
	return &outcome
}

func eventKickoff(item map[string]any) *time.Time {
	if seconds, ok := getInt64(item, "startTimestamp"); ok && seconds > 0 {
		v := time.Unix(seconds, 0).UTC()
		return &v
	}
	return parseFeedDateTime(firstNonEmpty(getString(item, "kickoffAt"), getString(item, "startTime")))
}

func parseFeedDateTime(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			v := parsed.UTC()
			return &v
		}
	}
	return nil
}

// scoreValue accepts {"current": n}, {"display": n} or a bare number.
func scoreValue(raw any) *int {
	if obj, ok := raw.(map[string]any); ok {
		for _, key := range []string{"current", "display", "normaltime"} {
			if v, ok := getInt64(obj, key); ok && v >= 0 {
				return ptrInt(int(v))
			}
		}
		return nil
	}

	v, ok := asInt64(raw)
	if !ok || v < 0 {
		return nil
	}
	return ptrInt(int(v))
}

func firstInt64(src map[string]any, keys ...string) (int64, bool) {
	for _, key := range keys {
		if v, ok := getInt64(src, key); ok {
			return v, true
		}
	}
	return 0, false
}

func getInt64(src map[string]any, key string) (int64, bool) {
	if src == nil {
		return 0, false
	}
	return asInt64(src[key])
}

func asInt64(raw any) (int64, bool) {
	switch typed := raw.(type) {
	case float64:
		if math.IsNaN(typed) || math.IsInf(typed, 0) || typed != math.Trunc(typed) {
			return 0, false
		}
		return int64(typed), true
	case float32:
		return asInt64(float64(typed))
	case int:
		return int64(typed), true
	case int64:
		return typed, true
	case string:
		v, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

func getString(src map[string]any, key string) string {
	if src == nil {
		return ""
	}
	value, ok := src[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

func nestedString(src map[string]any, parent, key string) string {
	obj, ok := src[parent].(map[string]any)
	if !ok {
		return ""
	}
	return getString(obj, key)
}

func firstNonEmpty(values ...string) string {
	for _, item := range values {
		if strings.TrimSpace(item) != "" {
			return strings.TrimSpace(item)
		}
	}
	return ""
}

func ptrInt(value int) *int {
	v := value
	return &v
}
