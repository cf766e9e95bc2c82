package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/quiniela/internal/domain/fixture"
	"github.com/riskibarqy/quiniela/internal/domain/ticket"
	qb "github.com/riskibarqy/quiniela/internal/platform/querybuilder"
)

type TicketRepository struct {
	db *sqlx.DB
}

func NewTicketRepository(db *sqlx.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ctx context.Context, item ticket.Ticket) error {
	insertModel, err := ticketInsertModelFrom(item)
	if err != nil {
		return err
	}

	insert, err := qb.InsertModel("tickets", insertModel)
	if err != nil {
		return fmt.Errorf("build insert ticket query: %w", err)
	}
	query, args, err := insert.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert ticket query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("ticket %s already exists: %w", item.ID, err)
		}
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (r *TicketRepository) List(ctx context.Context) ([]ticket.Ticket, error) {
	query, args, err := ticketBaseSelectBuilder().
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tickets query: %w", err)
	}

	var rows []ticketTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	out := make([]ticket.Ticket, 0, len(rows))
	for _, row := range rows {
		item, err := ticketFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *TicketRepository) GetByID(ctx context.Context, ticketID string) (ticket.Ticket, bool, error) {
	query, args, err := ticketBaseSelectBuilder().
		Where(qb.Eq("public_id", ticketID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return ticket.Ticket{}, false, fmt.Errorf("build get ticket query: %w", err)
	}

	var row ticketTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return ticket.Ticket{}, false, nil
		}
		return ticket.Ticket{}, false, fmt.Errorf("get ticket: %w", err)
	}

	item, err := ticketFromRow(row)
	if err != nil {
		return ticket.Ticket{}, false, err
	}
	return item, true, nil
}

func ticketBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(qb.Columns(ticketTableModel{})...).From("tickets")
}

func ticketInsertModelFrom(item ticket.Ticket) (ticketInsertModel, error) {
	records := make([]pickRecord, 0, len(item.Picks))
	for _, pick := range item.Picks {
		records = append(records, pickRecord{
			FixtureID:     int64(pick.FixtureID),
			Selection:     pick.Selection.String(),
			HomeTeamLabel: pick.HomeTeamLabel,
			AwayTeamLabel: pick.AwayTeamLabel,
		})
	}

	picks, err := sonic.MarshalString(records)
	if err != nil {
		return ticketInsertModel{}, fmt.Errorf("encode ticket picks: %w", err)
	}

	return ticketInsertModel{
		PublicID:        item.ID,
		ParticipantName: item.ParticipantName,
		Email:           item.Email,
		Phone:           item.Phone,
		PaymentProofRef: item.PaymentProofRef,
		Picks:           picks,
		CreatedAt:       item.CreatedAt.UTC(),
	}, nil
}

func ticketFromRow(row ticketTableModel) (ticket.Ticket, error) {
	var records []pickRecord
	if len(row.Picks) > 0 {
		if err := sonic.Unmarshal(row.Picks, &records); err != nil {
			return ticket.Ticket{}, fmt.Errorf("decode picks of ticket %s: %w", row.PublicID, err)
		}
	}

	picks := make([]ticket.Pick, 0, len(records))
	for _, record := range records {
		selection, err := fixture.ParseOutcome(record.Selection)
		if err != nil {
			return ticket.Ticket{}, fmt.Errorf("decode picks of ticket %s: %w", row.PublicID, err)
		}
		picks = append(picks, ticket.Pick{
			FixtureID:     fixture.ID(record.FixtureID),
			Selection:     selection,
			HomeTeamLabel: record.HomeTeamLabel,
			AwayTeamLabel: record.AwayTeamLabel,
		})
	}

	return ticket.Ticket{
		ID:              row.PublicID,
		ParticipantName: row.ParticipantName,
		Email:           row.Email,
		Phone:           row.Phone,
		PaymentProofRef: row.PaymentProofRef,
		Picks:           picks,
		CreatedAt:       row.CreatedAt.UTC(),
	}, nil
}
