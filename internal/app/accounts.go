/**
 * @description
 * This file implements the internal (Leafy Bank) account service: lookups,
 * account opening and account closing. Creation validates the owning user,
 * the balance bounds and account-number uniqueness, then links the new
 * account into the user's LinkedAccounts set. Closing requires a zero
 * balance and stamps the closing date exactly once.
 *
 * Account lifecycle events are published fire-and-forget; a broker outage
 * never fails the operation.
 */

package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/domain"
	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/store"
)

// AccountEventsExchange is the topic exchange account lifecycle events are
// published to.
const AccountEventsExchange = "leafy_bank_events"

// EventPublisher is the subset of the RabbitMQ producer the service needs.
type EventPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body interface{}) error
}

// Accounts provides lookups and lifecycle operations for internal accounts.
type Accounts struct {
	repo         store.Repository
	events       EventPublisher
	balanceLimit float64
}

// NewAccounts creates the account service. events may be nil, in which case
// lifecycle events are skipped. balanceLimit caps the opening balance.
func NewAccounts(repo store.Repository, events EventPublisher, balanceLimit float64) *Accounts {
	return &Accounts{repo: repo, events: events, balanceLimit: balanceLimit}
}

// List returns all accounts, or only Active ones.
func (s *Accounts) List(ctx context.Context, activeOnly bool) ([]domain.Account, error) {
	return s.repo.ListAccounts(ctx, activeOnly)
}

// ListForUser returns the accounts owned by the identified user.
func (s *Accounts) ListForUser(ctx context.Context, identifier string, activeOnly bool) ([]domain.Account, error) {
	return s.repo.ListAccountsForUser(ctx, domain.ParseUserIdentifier(identifier), activeOnly)
}

// ByNumber finds one account by its natural key. Absence surfaces as
// store.ErrAccountNotFound, never a panic.
func (s *Accounts) ByNumber(ctx context.Context, accountNumber string, activeOnly bool) (*domain.Account, error) {
	return s.repo.FindAccountByNumber(ctx, accountNumber, activeOnly)
}

// Create opens a new internal account and returns its id.
func (s *Accounts) Create(ctx context.Context, req domain.CreateAccountRequest) (bson.ObjectID, error) {
	userID, err := bson.ObjectIDFromHex(req.UserID)
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("%w: malformed user id %q", ErrInvalidArgument, req.UserID)
	}

	// The owner reference must agree on both name and id.
	if _, err := s.repo.FindUserByNameAndID(ctx, req.UserName, userID); err != nil {
		return bson.ObjectID{}, err
	}

	if req.AccountBalance < 0 {
		return bson.ObjectID{}, fmt.Errorf("%w: account balance must be greater than or equal to 0", ErrInvalidArgument)
	}
	if req.AccountBalance > s.balanceLimit {
		return bson.ObjectID{}, fmt.Errorf("%w: account balance exceeds the limit of %.0f", ErrInvalidArgument, s.balanceLimit)
	}

	exists, err := s.repo.AccountNumberExists(ctx, req.AccountNumber)
	if err != nil {
		return bson.ObjectID{}, err
	}
	if exists {
		return bson.ObjectID{}, store.ErrDuplicateAccountNumber
	}

	account := &domain.Account{
		AccountNumber:             req.AccountNumber,
		AccountBank:               "LeafyBank",
		AccountStatus:             domain.AccountStatusActive,
		AccountIdentificationType: "AccountNumber",
		AccountDate:               domain.AccountDates{OpeningDate: time.Now().UTC()},
		AccountType:               req.AccountType,
		AccountBalance:            req.AccountBalance,
		AccountCurrency:           "USD",
		AccountDescription:        fmt.Sprintf("%s account for %s", req.AccountType, req.UserName),
		AccountUser:               domain.AccountHolder{UserName: req.UserName, UserID: userID},
	}

	accountID, err := s.repo.InsertAccount(ctx, account)
	if err != nil {
		return bson.ObjectID{}, err
	}
	if err := s.repo.LinkAccountToUser(ctx, userID, accountID); err != nil {
		log.Printf("level=warn component=accounts msg=\"linking account to user failed\" account_id=%s user_id=%s err=%v", accountID.Hex(), req.UserID, err)
	}

	s.publishEvent(ctx, domain.AccountOpenedRoutingKey, account, domain.AccountStatusActive)
	log.Printf("level=info component=accounts msg=\"account created\" account_id=%s account_number=%s user=%s", accountID.Hex(), req.AccountNumber, req.UserName)
	return accountID, nil
}

// Close transitions an account to Closed. An account with a remaining
// balance is rejected and its status left unchanged.
func (s *Accounts) Close(ctx context.Context, accountID string) error {
	oid, err := bson.ObjectIDFromHex(accountID)
	if err != nil {
		return fmt.Errorf("%w: malformed account id %q", ErrInvalidArgument, accountID)
	}

	account, err := s.repo.FindAccountByID(ctx, oid)
	if err != nil {
		return err
	}
	if account.AccountBalance != 0 {
		log.Printf("level=error component=accounts msg=\"close rejected; remaining balance\" account_id=%s balance=%f", accountID, account.AccountBalance)
		return store.ErrAccountBalanceRemaining
	}

	if err := s.repo.MarkAccountClosed(ctx, oid, time.Now().UTC()); err != nil {
		return err
	}

	s.publishEvent(ctx, domain.AccountClosedRoutingKey, account, domain.AccountStatusClosed)
	log.Printf("level=info component=accounts msg=\"account closed\" account_id=%s", accountID)
	return nil
}

func (s *Accounts) publishEvent(ctx context.Context, routingKey string, account *domain.Account, status string) {
	if s.events == nil {
		return
	}
	event := domain.AccountEvent{
		AccountID:     account.ID.Hex(),
		AccountNumber: account.AccountNumber,
		UserName:      account.AccountUser.UserName,
		UserID:        account.AccountUser.UserID.Hex(),
		Status:        status,
		Timestamp:     time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, AccountEventsExchange, routingKey, event); err != nil {
		log.Printf("level=warn component=accounts msg=\"account event publish failed\" routing_key=%s account_id=%s err=%v", routingKey, event.AccountID, err)
	}
}
