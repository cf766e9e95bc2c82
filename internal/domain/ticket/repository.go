package ticket

import "context"

// Repository stores submitted tickets. List returns newest first.
type Repository interface {
	Create(ctx context.Context, item Ticket) error
	List(ctx context.Context) ([]Ticket, error)
	GetByID(ctx context.Context, ticketID string) (Ticket, bool, error)
}
