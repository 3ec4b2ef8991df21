/**
 * @description
 * This file simulates the retrieval of accounts from external banks. Each
 * "retrieval" fabricates one plausible account document and persists it to
 * the external accounts collection. Per-bank schema variation is modelled by
 * populating exactly one narrative field keyed on the bank name.
 *
 * The fabricated values are demonstration data only; math/rand is
 * deliberate.
 */

package app

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/domain"
	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/store"
)

// ExternalAccounts fabricates and serves external bank accounts.
type ExternalAccounts struct {
	repo store.Repository
}

func NewExternalAccounts(repo store.Repository) *ExternalAccounts {
	return &ExternalAccounts{repo: repo}
}

// Retrieve simulates pulling an account for the user from an external bank
// and returns the stored document's id.
func (s *ExternalAccounts) Retrieve(ctx context.Context, accountBank, userName, userID string) (bson.ObjectID, error) {
	userOID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("%w: malformed user id %q", ErrInvalidArgument, userID)
	}

	accountType := randomAccountType()
	account := &domain.ExternalAccount{
		AccountNumber:             randomAccountNumber(),
		AccountBank:               accountBank,
		AccountStatus:             domain.AccountStatusActive,
		AccountIdentificationType: "AccountNumber",
		AccountDate:               domain.AccountDates{OpeningDate: randomOpeningDate(5 * 365)},
		AccountType:               accountType,
		AccountBalance:            randomAmount(2000, 10000),
		AccountCurrency:           "USD",
		AccountUser:               domain.AccountHolder{UserName: userName, UserID: userOID},
	}
	applyAccountNarrative(account, accountBank, accountType, userName)

	accountID, err := s.repo.InsertExternalAccount(ctx, account)
	if err != nil {
		return bson.ObjectID{}, err
	}
	log.Printf("level=info component=external_accounts msg=\"external account retrieved\" account_number=%s bank=%q user=%s", account.AccountNumber, accountBank, userName)
	return accountID, nil
}

// ListForUser returns the user's external accounts, optionally restricted to
// one institution.
func (s *ExternalAccounts) ListForUser(ctx context.Context, identifier, bank string) ([]domain.ExternalAccount, error) {
	return s.repo.ListExternalAccountsForUser(ctx, domain.ParseUserIdentifier(identifier), bank)
}

// applyAccountNarrative sets the single bank-specific narrative field.
func applyAccountNarrative(account *domain.ExternalAccount, bank, accountType, userName string) {
	switch bank {
	case domain.BankGreen:
		account.GreenAccountNarrative = fmt.Sprintf("%s account focusing on sustainable banking at %s", accountType, bank)
	case domain.BankMongoDB:
		account.MDBAccountNarrative = fmt.Sprintf("%s account powered by MongoDB at %s", accountType, bank)
	default:
		account.AccountDescription = fmt.Sprintf("%s account for %s at %s", accountType, userName, bank)
	}
}

// randomAccountNumber mirrors the 9-digit account numbers the frontend
// generates.
func randomAccountNumber() string {
	return fmt.Sprintf("%d", 100000000+rand.IntN(900000000))
}

// randomAmount returns a whole-unit amount in [min, max].
func randomAmount(min, max float64) float64 {
	return float64(int64(min + rand.Float64()*(max-min) + 0.5))
}

func randomAccountType() string {
	if rand.IntN(2) == 0 {
		return domain.AccountTypeChecking
	}
	return domain.AccountTypeSavings
}

// randomOpeningDate returns a past timestamp within the given number of days.
func randomOpeningDate(days int) time.Time {
	end := time.Now().UTC()
	span := time.Duration(days) * 24 * time.Hour
	return end.Add(-time.Duration(rand.Float64() * float64(span)))
}
