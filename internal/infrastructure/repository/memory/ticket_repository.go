package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/quiniela/internal/domain/ticket"
)

type TicketRepository struct {
	mu      sync.RWMutex
	tickets []ticket.Ticket
	byID    map[string]int
}

func NewTicketRepository(seed []ticket.Ticket) *TicketRepository {
	repo := &TicketRepository{byID: make(map[string]int, len(seed))}
	for _, item := range seed {
		_ = repo.Create(context.Background(), item)
	}
	return repo
}

func (r *TicketRepository) Create(_ context.Context, item ticket.Ticket) error {
	ticketID := strings.TrimSpace(item.ID)
	if ticketID == "" {
		return fmt.Errorf("ticket id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[ticketID]; exists {
		return fmt.Errorf("ticket %s already exists", ticketID)
	}

	item.Picks = append([]ticket.Pick(nil), item.Picks...)
	r.byID[ticketID] = len(r.tickets)
	r.tickets = append(r.tickets, item)
	return nil
}

func (r *TicketRepository) List(_ context.Context) ([]ticket.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ticket.Ticket, 0, len(r.tickets))
	for i := len(r.tickets) - 1; i >= 0; i-- {
		out = append(out, cloneTicket(r.tickets[i]))
	}
	// Insertion order is reversed first so equal timestamps still list the latest write on top.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *TicketRepository) GetByID(_ context.Context, ticketID string) (ticket.Ticket, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byID[strings.TrimSpace(ticketID)]
	if !ok {
		return ticket.Ticket{}, false, nil
	}
	return cloneTicket(r.tickets[idx]), true, nil
}

func cloneTicket(item ticket.Ticket) ticket.Ticket {
	item.Picks = append([]ticket.Pick(nil), item.Picks...)
	return item
}
