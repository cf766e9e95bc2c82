package postgres

import "time"

type roundTableModel struct {
	Label     string    `db:"label"`
	Number    int       `db:"round_number"`
	Data      []byte    `db:"data"`
	UpdatedAt time.Time `db:"updated_at"`
}

// roundUpsertModel carries data as text so lib/pq sends it untyped and postgres casts it to jsonb.
type roundUpsertModel struct {
	Label     string    `db:"label"`
	Number    int       `db:"round_number"`
	Data      string    `db:"data"`
	UpdatedAt time.Time `db:"updated_at"`
}
