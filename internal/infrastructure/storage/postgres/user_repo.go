package postgres

import (
	"context"

	"github.com/Masterminds/squirrel"

	"fatturo/internal/domain/auth"
)

// UserRepo persists users.
type UserRepo struct {
	*BaseRepo[*auth.User]
}

// Compile-time check.
var _ auth.Repository = (*UserRepo)(nil)

// NewUserRepo creates a new user repository.
func NewUserRepo(txManager *TxManager) *UserRepo {
	return &UserRepo{
		BaseRepo: NewBaseRepo(
			"users",
			ExtractDBColumns[auth.User](),
			func() *auth.User { return &auth.User{} },
			txManager,
		),
	}
}

// FindByEmail looks up a user by email (case-insensitive).
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	q := r.BaseSelect().
		Where(squirrel.Expr("LOWER(email) = LOWER(?)", email)).
		Limit(1)
	return r.FindOne(ctx, q)
}
