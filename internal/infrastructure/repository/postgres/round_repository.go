package postgres

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/quiniela/internal/domain/round"
	qb "github.com/riskibarqy/quiniela/internal/platform/querybuilder"
)

type RoundRepository struct {
	db *sqlx.DB
}

func NewRoundRepository(db *sqlx.DB) *RoundRepository {
	return &RoundRepository{db: db}
}

func (r *RoundRepository) List(ctx context.Context) ([]round.Round, error) {
	query, args, err := qb.Select(qb.Columns(roundTableModel{})...).
		From("rounds").
		OrderBy("round_number", "label").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list rounds query: %w", err)
	}

	var rows []roundTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}

	out := make([]round.Round, 0, len(rows))
	for _, row := range rows {
		out = append(out, round.Round{
			Label:     row.Label,
			Number:    row.Number,
			Data:      row.Data,
			UpdatedAt: row.UpdatedAt.UTC(),
		})
	}
	return out, nil
}

func (r *RoundRepository) Upsert(ctx context.Context, item round.Round) error {
	query, args, err := roundUpsertQuery(item)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert round %q: %w", item.Label, err)
	}
	return nil
}

func roundUpsertQuery(item round.Round) (string, []any, error) {
	label := strings.TrimSpace(item.Label)
	if label == "" {
		return "", nil, fmt.Errorf("round label is required")
	}

	data := bytes.TrimSpace(item.Data)
	if len(data) == 0 {
		data = []byte("{}")
	}

	insert, err := qb.InsertModel("rounds", roundUpsertModel{
		Label:     label,
		Number:    item.Number,
		Data:      string(data),
		UpdatedAt: item.UpdatedAt.UTC(),
	})
	if err != nil {
		return "", nil, fmt.Errorf("build upsert round query: %w", err)
	}

	query, args, err := insert.OnConflictUpdate([]string{"label"}).ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build upsert round query: %w", err)
	}
	return query, args, nil
}
