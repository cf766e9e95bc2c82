package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/fixture"
	"github.com/riskibarqy/quiniela/internal/domain/round"
	"github.com/riskibarqy/quiniela/internal/domain/ticket"
)

func TestTicketRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	repo := NewTicketRepository(nil)

	for _, item := range []ticket.Ticket{
		{ID: "a", CreatedAt: base},
		{ID: "b", CreatedAt: base.Add(time.Hour)},
		{ID: "c", CreatedAt: base},
	} {
		if err := repo.Create(ctx, item); err != nil {
			t.Fatalf("create %s: %v", item.ID, err)
		}
	}

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list tickets: %v", err)
	}
	want := []string{"b", "c", "a"}
	for i, id := range want {
		if items[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, items[i].ID)
		}
	}
}

func TestTicketRepository_CreateRejectsDuplicateAndCopiesPicks(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository(nil)

	picks := []ticket.Pick{{FixtureID: 1, Selection: fixture.OutcomeHome}}
	if err := repo.Create(ctx, ticket.Ticket{ID: "t-1", Picks: picks}); err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	picks[0].Selection = fixture.OutcomeAway

	if err := repo.Create(ctx, ticket.Ticket{ID: "t-1"}); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if err := repo.Create(ctx, ticket.Ticket{ID: " "}); err == nil {
		t.Fatalf("expected blank id error")
	}

	item, exists, err := repo.GetByID(ctx, "t-1")
	if err != nil || !exists {
		t.Fatalf("get ticket: exists=%v err=%v", exists, err)
	}
	if item.Picks[0].Selection != fixture.OutcomeHome {
		t.Fatalf("stored pick changed through caller slice: %+v", item.Picks)
	}

	if _, exists, _ := repo.GetByID(ctx, "missing"); exists {
		t.Fatalf("expected missing ticket")
	}
}

func TestRoundRepository_UpsertReplacesByLabel(t *testing.T) {
	ctx := context.Background()
	repo := NewRoundRepository([]round.Round{
		{Label: "Ronda 2", Number: 2, Data: []byte(`{"events":[]}`)},
	})

	if err := repo.Upsert(ctx, round.Round{Label: "Ronda 1", Number: 1, Data: []byte(`{"events":[]}`)}); err != nil {
		t.Fatalf("upsert round: %v", err)
	}
	if err := repo.Upsert(ctx, round.Round{Label: " Ronda 2 ", Number: 2, Data: []byte(`{"events":[{"id":1}]}`)}); err != nil {
		t.Fatalf("upsert round: %v", err)
	}
	if err := repo.Upsert(ctx, round.Round{}); err == nil {
		t.Fatalf("expected error for blank label")
	}

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list rounds: %v", err)
	}
	if len(items) != 2 || items[0].Label != "Ronda 1" || items[1].Label != "Ronda 2" {
		t.Fatalf("unexpected rounds: %+v", items)
	}
	if string(items[1].Data) != `{"events":[{"id":1}]}` {
		t.Fatalf("round was not replaced: %s", items[1].Data)
	}
}

func TestSeedRounds_NormalizesToOneDecidedFixture(t *testing.T) {
	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	payload, skipped := round.Payload(SeedRounds(now))
	if len(skipped) != 0 {
		t.Fatalf("seed round did not decode: %v", skipped)
	}

	outcomes, malformed := fixture.Normalize(payload)
	if len(malformed) != 0 || len(outcomes) != 3 {
		t.Fatalf("unexpected seed outcomes: %d malformed=%v", len(outcomes), malformed)
	}

	decided := 0
	for _, item := range outcomes {
		if item.IsFinished() {
			decided++
		}
	}
	if decided != 1 {
		t.Fatalf("expected one decided fixture, got %d", decided)
	}
}
