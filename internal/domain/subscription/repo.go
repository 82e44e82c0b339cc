package subscription

import "context"

// Repository is the persistence boundary for subscriptions.
type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	GetByUser(ctx context.Context, userID string) (*Subscription, error)
	Update(ctx context.Context, sub *Subscription) error
}
