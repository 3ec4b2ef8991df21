/**
 * @description
 * This file implements the two balance/debt aggregation services. Both
 * delegate summing to the store's $group/$sum pipelines and combine at most
 * two independent queries; absent matches contribute 0 and results are
 * sum-or-zero, never partial.
 *
 * The asymmetry between the two is an intentional product decision:
 * TotalBalance always includes the user's internal accounts and only widens
 * to external accounts named in the allow-list, while TotalDebt includes
 * nothing at all without an explicit allow-list.
 */

package app

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/store"
)

// Aggregations sums balances and debts across the internal and external
// collections.
type Aggregations struct {
	repo store.Repository
}

func NewAggregations(repo store.Repository) *Aggregations {
	return &Aggregations{repo: repo}
}

// parseObjectIDs converts an allow-list of hex ids, rejecting malformed
// entries up front so the store never sees them.
func parseObjectIDs(raw []string) ([]bson.ObjectID, error) {
	ids := make([]bson.ObjectID, 0, len(raw))
	for _, s := range raw {
		id, err := bson.ObjectIDFromHex(s)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed identifier %q", ErrInvalidArgument, s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// TotalBalance returns the sum of the user's internal account balances plus,
// when connectedExternalAccounts is non-empty, the balances of the listed
// external accounts that the user owns. Foreign ids in the list contribute 0.
func (a *Aggregations) TotalBalance(ctx context.Context, userID string, connectedExternalAccounts []string) (float64, error) {
	userOID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed user id %q", ErrInvalidArgument, userID)
	}

	internal, err := a.repo.SumInternalAccountBalances(ctx, userOID)
	if err != nil {
		return 0, err
	}
	log.Printf("level=info component=aggregations msg=\"internal balance aggregated\" user_id=%s total=%f", userID, internal)

	var external float64
	if len(connectedExternalAccounts) > 0 {
		accountIDs, err := parseObjectIDs(connectedExternalAccounts)
		if err != nil {
			return 0, err
		}
		external, err = a.repo.SumExternalAccountBalances(ctx, userOID, accountIDs)
		if err != nil {
			return 0, err
		}
		log.Printf("level=info component=aggregations msg=\"external balance aggregated\" user_id=%s total=%f connected=%d", userID, external, len(accountIDs))
	}

	return internal + external, nil
}

// TotalDebt returns the summed ProductAmount of the listed Loan/Mortgage
// products the user owns. With no allow-list the debt is unconditionally 0
// and no query is issued.
func (a *Aggregations) TotalDebt(ctx context.Context, userID string, connectedExternalProducts []string) (float64, error) {
	userOID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed user id %q", ErrInvalidArgument, userID)
	}

	if len(connectedExternalProducts) == 0 {
		log.Printf("level=info component=aggregations msg=\"no connected products; zero debt\" user_id=%s", userID)
		return 0, nil
	}

	productIDs, err := parseObjectIDs(connectedExternalProducts)
	if err != nil {
		return 0, err
	}
	debt, err := a.repo.SumExternalProductDebt(ctx, userOID, productIDs)
	if err != nil {
		return 0, err
	}
	log.Printf("level=info component=aggregations msg=\"debt aggregated\" user_id=%s total=%f connected=%d", userID, debt, len(productIDs))
	return debt, nil
}
