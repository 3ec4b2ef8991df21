package app

import (
	"context"
	"log"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/domain"
	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/store"
)

// Transactions serves the read-only transaction history.
type Transactions struct {
	repo  store.Repository
	limit int64
}

// NewTransactions creates the service. limit bounds how many recent records
// a single query returns.
func NewTransactions(repo store.Repository, limit int64) *Transactions {
	return &Transactions{repo: repo, limit: limit}
}

// RecentForUser returns the user's most recent transactions, newest first.
// The user must exist; an unknown identifier is a not-found outcome rather
// than an empty list.
func (s *Transactions) RecentForUser(ctx context.Context, identifier string) ([]domain.Transaction, error) {
	parsed := domain.ParseUserIdentifier(identifier)

	exists, err := s.repo.UserExists(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrUserNotFound
	}

	transactions, err := s.repo.ListRecentTransactionsForUser(ctx, parsed, s.limit)
	if err != nil {
		return nil, err
	}
	log.Printf("level=info component=transactions msg=\"recent transactions fetched\" identifier=%s count=%d", identifier, len(transactions))
	return transactions, nil
}
