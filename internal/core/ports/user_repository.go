package ports

import (
	"context"
	"time"

	"github.com/zetruc/pulse/internal/core/domain"
)

// UserFilter carries the admin listing parameters.
// Page and PageSize are already clamped by the service.
type UserFilter struct {
	Query    string // case-insensitive match on email or name
	Role     string // optional exact role
	Sort     string // "createdAt" or "email"
	Desc     bool
	Page     int // 1-based
	PageSize int
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create stores the user and fills in its ID. Duplicate emails return
	// domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]*domain.User, int64, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	// Count returns the number of users created at or after since.
	// A zero since counts everything.
	Count(ctx context.Context, since time.Time) (int64, error)
	Latest(ctx context.Context, limit int) ([]*domain.User, error)
}
