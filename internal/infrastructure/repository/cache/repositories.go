package cache

import (
	"context"

	"github.com/riskibarqy/quiniela/internal/domain/round"
	"github.com/riskibarqy/quiniela/internal/domain/ticket"
	basecache "github.com/riskibarqy/quiniela/internal/platform/cache"
)

const (
	keyRoundList  = "round:list"
	keyTicketList = "ticket:list"
)

// RoundRepository serves round lists from the cache. Upsert drops the cached list so the next
// read sees the synced round.
type RoundRepository struct {
	next  round.Repository
	cache *basecache.Store
}

func NewRoundRepository(next round.Repository, cache *basecache.Store) *RoundRepository {
	return &RoundRepository{next: next, cache: cache}
}

func (r *RoundRepository) List(ctx context.Context) ([]round.Round, error) {
	v, err := r.cache.GetOrLoad(ctx, keyRoundList, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]round.Round(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]round.Round)
	return append([]round.Round(nil), items...), nil
}

func (r *RoundRepository) Upsert(ctx context.Context, item round.Round) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, keyRoundList)
	return nil
}

type TicketRepository struct {
	next  ticket.Repository
	cache *basecache.Store
}

func NewTicketRepository(next ticket.Repository, cache *basecache.Store) *TicketRepository {
	return &TicketRepository{next: next, cache: cache}
}

func (r *TicketRepository) Create(ctx context.Context, item ticket.Ticket) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, keyTicketList)
	r.cache.Delete(ctx, ticketKey(item.ID))
	return nil
}

func (r *TicketRepository) List(ctx context.Context) ([]ticket.Ticket, error) {
	v, err := r.cache.GetOrLoad(ctx, keyTicketList, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]ticket.Ticket(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]ticket.Ticket)
	return append([]ticket.Ticket(nil), items...), nil
}

func (r *TicketRepository) GetByID(ctx context.Context, ticketID string) (ticket.Ticket, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, ticketKey(ticketID), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		return cachedTicketByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return ticket.Ticket{}, false, err
	}

	cached, _ := v.(cachedTicketByID)
	return cached.value, cached.exists, nil
}

type cachedTicketByID struct {
	value  ticket.Ticket
	exists bool
}

func ticketKey(ticketID string) string {
	return "ticket:id:" + ticketID
}
