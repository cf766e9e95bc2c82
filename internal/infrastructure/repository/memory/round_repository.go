package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/quiniela/internal/domain/round"
)

type RoundRepository struct {
	mu      sync.RWMutex
	byLabel map[string]round.Round
}

func NewRoundRepository(seed []round.Round) *RoundRepository {
	byLabel := make(map[string]round.Round, len(seed))
	for _, item := range seed {
		byLabel[item.Label] = cloneRound(item)
	}
	return &RoundRepository{byLabel: byLabel}
}

// List returns rounds ordered by number, then label.
func (r *RoundRepository) List(_ context.Context) ([]round.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]round.Round, 0, len(r.byLabel))
	for _, item := range r.byLabel {
		out = append(out, cloneRound(item))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Number != out[j].Number {
			return out[i].Number < out[j].Number
		}
		return out[i].Label < out[j].Label
	})
	return out, nil
}

func (r *RoundRepository) Upsert(_ context.Context, item round.Round) error {
	label := strings.TrimSpace(item.Label)
	if label == "" {
		return fmt.Errorf("round label is required")
	}
	item.Label = label

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byLabel[label] = cloneRound(item)
	return nil
}

func cloneRound(item round.Round) round.Round {
	item.Data = append([]byte(nil), item.Data...)
	return item
}
