package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/fixture"
	"github.com/riskibarqy/quiniela/internal/domain/round"
	roundmock "github.com/riskibarqy/quiniela/internal/mocks/domain/round"
	"github.com/stretchr/testify/mock"
)

func TestRoundService_ListRaw_SkipsBrokenRounds(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	roundRepo := roundmock.NewRepository(t)
	service := NewRoundService(roundRepo, nil)

	kickoff := time.Date(2025, 7, 5, 19, 0, 0, 0, time.UTC)
	roundRepo.
		On("List", mock.MatchedBy(func(v context.Context) bool { return v == ctx })).
		Return([]round.Round{
			feedRound("Ronda 1", feedEvent{id: 11, home: "Caracas", away: "Monagas", kickoff: kickoff}),
			{Label: "Ronda 2", Data: []byte("{oops")},
		}, nil).
		Once()

	got, err := service.ListRaw(ctx)
	if err != nil {
		t.Fatalf("list raw rounds: %v", err)
	}
	if _, ok := got["Ronda 1"]; !ok {
		t.Fatalf("expected Ronda 1 in payload, got %v", got)
	}
	if _, ok := got["Ronda 2"]; ok {
		t.Fatalf("broken round should be skipped")
	}
}

func TestRoundService_ListResults_SortedByKickoff(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	roundRepo := roundmock.NewRepository(t)
	service := NewRoundService(roundRepo, nil)

	base := time.Date(2025, 7, 5, 19, 0, 0, 0, time.UTC)
	roundRepo.
		On("List", mock.Anything).
		Return([]round.Round{
			feedRound("Ronda 2", feedEvent{id: 21, home: "Zamora", away: "Portuguesa", kickoff: base.Add(48 * time.Hour)}),
			feedRound("Ronda 1",
				feedEvent{id: 12, home: "Caracas", away: "Monagas", kickoff: base.Add(time.Hour), finished: true, winner: 3, homeGoal: 1, awayGoal: 1},
				feedEvent{id: 11, home: "Carabobo", away: "Metropolitanos", kickoff: base},
			),
		}, nil).
		Once()

	got, err := service.ListResults(ctx)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}

	want := []fixture.ID{11, 12, 21}
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(got))
	}
	for i, item := range got {
		if item.FixtureID != want[i] {
			t.Fatalf("position %d: expected fixture %d, got %d", i, want[i], item.FixtureID)
		}
	}
	if !got[1].IsFinished() || got[1].Winner == nil || *got[1].Winner != fixture.OutcomeDraw {
		t.Fatalf("expected fixture 12 to be a finished draw, got %+v", got[1])
	}
}

func TestRoundService_ListRaw_RepositoryError(t *testing.T) {
	t.Parallel()

	roundRepo := roundmock.NewRepository(t)
	service := NewRoundService(roundRepo, nil)
	errDB := errors.New("db down")

	roundRepo.On("List", mock.Anything).Return(nil, errDB).Once()

	if _, err := service.ListRaw(context.Background()); !errors.Is(err, errDB) {
		t.Fatalf("expected db error, got %v", err)
	}
}

func TestRoundService_Outcomes_FollowRepositoryRoundOrder(t *testing.T) {
	t.Parallel()

	roundRepo := roundmock.NewRepository(t)
	service := NewRoundService(roundRepo, nil)

	kickoff := time.Date(2025, 7, 5, 19, 0, 0, 0, time.UTC)
	roundRepo.
		On("List", mock.Anything).
		Return([]round.Round{
			feedRound("Ronda 2", feedEvent{id: 50, home: "Caracas", away: "Monagas", kickoff: kickoff}),
			feedRound("Final", feedEvent{id: 50, home: "Caracas", away: "Monagas", kickoff: kickoff, finished: true, winner: 1, homeGoal: 1, awayGoal: 0}),
		}, nil).
		Once()

	outcomes, err := service.Outcomes(context.Background())
	if err != nil {
		t.Fatalf("outcomes: %v", err)
	}
	if got := outcomes[50]; !got.IsFinished() || got.Winner == nil || *got.Winner != fixture.OutcomeHome {
		t.Fatalf("expected the later stored round to win, got %+v", got)
	}
}
