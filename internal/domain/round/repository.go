package round

import "context"

// Repository stores the raw feed document of every round.
type Repository interface {
	List(ctx context.Context) ([]Round, error)
	Upsert(ctx context.Context, item Round) error
}
