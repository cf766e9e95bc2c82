package ticket

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/fixture"
)

func TestValidate(t *testing.T) {
	valid := Ticket{
		ParticipantName: "Carla",
		Email:           "carla@example.com",
		Phone:           "04141234567",
		PaymentProofRef: "https://assets.example.com/proof.jpg",
		Picks: []Pick{
			{FixtureID: 1, Selection: fixture.OutcomeHome},
			{FixtureID: 2, Selection: fixture.OutcomeDraw},
		},
	}

	tests := []struct {
		name    string
		mutate  func(Ticket) Ticket
		wantErr error
	}{
		{
			name:   "valid ticket",
			mutate: func(t Ticket) Ticket { return t },
		},
		{
			name: "missing phone",
			mutate: func(t Ticket) Ticket {
				t.Phone = "  "
				return t
			},
			wantErr: ErrMissingContact,
		},
		{
			name: "bad email",
			mutate: func(t Ticket) Ticket {
				t.Email = "not-an-email"
				return t
			},
			wantErr: ErrInvalidEmail,
		},
		{
			name: "missing payment proof",
			mutate: func(t Ticket) Ticket {
				t.PaymentProofRef = ""
				return t
			},
			wantErr: ErrMissingPaymentProof,
		},
		{
			name: "no picks",
			mutate: func(t Ticket) Ticket {
				t.Picks = nil
				return t
			},
			wantErr: ErrEmptyTicket,
		},
		{
			name: "duplicate fixture",
			mutate: func(t Ticket) Ticket {
				t.Picks = []Pick{
					{FixtureID: 1, Selection: fixture.OutcomeHome},
					{FixtureID: 1, Selection: fixture.OutcomeAway},
				}
				return t
			},
			wantErr: ErrDuplicatePick,
		},
		{
			name: "pick without fixture",
			mutate: func(t Ticket) Ticket {
				t.Picks = []Pick{{FixtureID: 0, Selection: fixture.OutcomeHome}}
				return t
			},
			wantErr: ErrMissingFixture,
		},
		{
			name: "unknown selection",
			mutate: func(t Ticket) Ticket {
				t.Picks = []Pick{{FixtureID: 1, Selection: fixture.Outcome("1x2")}}
				return t
			},
			wantErr: ErrInvalidSelection,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.mutate(valid))
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestRequireOpenFixturesPicked(t *testing.T) {
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)
	schedule := []ScheduledFixture{
		{FixtureID: 1, KickoffAt: now.Add(-2 * time.Hour)},
		{FixtureID: 2, KickoffAt: now},
		{FixtureID: 3, KickoffAt: now.Add(time.Hour)},
		{FixtureID: 4, KickoffAt: now.Add(24 * time.Hour)},
		{FixtureID: 5, Finished: true},
	}

	if err := RequireOpenFixturesPicked([]Pick{{FixtureID: 3}, {FixtureID: 4}}, schedule, now); err != nil {
		t.Fatalf("closed fixtures must not be required: %v", err)
	}

	err := RequireOpenFixturesPicked([]Pick{{FixtureID: 3}}, schedule, now)
	if !errors.Is(err, ErrIncompletePicks) {
		t.Fatalf("expected ErrIncompletePicks, got %v", err)
	}

	if err := RequireOpenFixturesPicked(nil, nil, now); err != nil {
		t.Fatalf("empty schedule should pass: %v", err)
	}
}

func TestRejectClosedPicks(t *testing.T) {
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)
	schedule := []ScheduledFixture{
		{FixtureID: 1, KickoffAt: now.Add(-2 * time.Hour), Finished: true},
		{FixtureID: 2, KickoffAt: now},
		{FixtureID: 3, KickoffAt: now.Add(time.Hour)},
		{FixtureID: 4, KickoffAt: now.Add(time.Hour), Finished: true},
		{FixtureID: 5, Finished: true},
	}

	tests := []struct {
		name    string
		picks   []Pick
		wantErr error
	}{
		{name: "open fixture", picks: []Pick{{FixtureID: 3}}},
		{name: "fixture outside the schedule", picks: []Pick{{FixtureID: 9}}},
		{name: "finished fixture", picks: []Pick{{FixtureID: 3}, {FixtureID: 1}}, wantErr: ErrFixtureClosed},
		{name: "kickoff equal to now", picks: []Pick{{FixtureID: 2}}, wantErr: ErrFixtureClosed},
		{name: "finished before its listed kickoff", picks: []Pick{{FixtureID: 4}}, wantErr: ErrFixtureClosed},
		{name: "finished without kickoff", picks: []Pick{{FixtureID: 5}}, wantErr: ErrFixtureClosed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := RejectClosedPicks(tc.picks, schedule, now)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
