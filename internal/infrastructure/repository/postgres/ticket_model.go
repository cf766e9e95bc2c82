package postgres

import (
	"time"
)

type ticketTableModel struct {
	ID              int64     `db:"id"`
	PublicID        string    `db:"public_id"`
	ParticipantName string    `db:"participant_name"`
	Email           string    `db:"email"`
	Phone           string    `db:"phone"`
	PaymentProofRef string    `db:"payment_proof_ref"`
	Picks           []byte    `db:"picks"`
	CreatedAt       time.Time `db:"created_at"`
}

type ticketInsertModel struct {
	PublicID        string    `db:"public_id"`
	ParticipantName string    `db:"participant_name"`
	Email           string    `db:"email"`
	Phone           string    `db:"phone"`
	PaymentProofRef string    `db:"payment_proof_ref"`
	Picks           string    `db:"picks"`
	CreatedAt       time.Time `db:"created_at"`
}

// pickRecord is the JSONB shape of one pick inside tickets.picks.
type pickRecord struct {
	FixtureID     int64  `json:"fixture_id"`
	Selection     string `json:"selection"`
	HomeTeamLabel string `json:"home_team,omitempty"`
	AwayTeamLabel string `json:"away_team,omitempty"`
}
