package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories groups the repositories bound to one transaction.
type Repositories struct {
	Users       UserRepository
	Invitations InvitationRepository
}

// Transactor runs multi-repository work atomically.
type Transactor interface {
	// WithTransaction executes fn within a database transaction. Returning an
	// error from fn rolls every write back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor creates a GORM-backed Transactor.
func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, Repositories{
			Users:       &userRepository{db: tx},
			Invitations: &invitationRepository{db: tx},
		})
	})
}
