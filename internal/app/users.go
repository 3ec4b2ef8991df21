package app

import (
	"context"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/domain"
	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/store"
)

// Users provides point lookups against the users collection.
type Users struct {
	repo store.Repository
}

func NewUsers(repo store.Repository) *Users {
	return &Users{repo: repo}
}

// Find resolves a user by combined identifier (username or ObjectID hex).
func (s *Users) Find(ctx context.Context, identifier string) (*domain.User, error) {
	return s.repo.FindUser(ctx, domain.ParseUserIdentifier(identifier))
}

// List returns every user.
func (s *Users) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.ListUsers(ctx)
}
