/**
 * @description
 * This file defines the `Repository` interface, the contract for all data
 * access the services need. Defining an interface decouples the business
 * logic from the MongoDB implementation and lets tests substitute stubs.
 *
 * @dependencies
 * - context, time: Standard Go libraries.
 * - go.mongodb.org/mongo-driver/v2/bson: For ObjectID identifiers.
 * - internal/domain: For the service's document models.
 */

package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/domain"
)

var (
	ErrCredentialNotFound      = errors.New("credential not found")
	ErrUserNotFound            = errors.New("user not found")
	ErrAccountNotFound         = errors.New("account not found")
	ErrDuplicateAccountNumber  = errors.New("account number already exists")
	ErrDuplicateUserName       = errors.New("user name already exists")
	ErrAccountBalanceRemaining = errors.New("account has a remaining balance")
)

// Repository defines the set of methods for interacting with the two
// databases (Leafy Bank and Open Finance).
type Repository interface {
	// Credential methods. The scheme selects the collection and field names.
	FindUserByCredential(ctx context.Context, scheme domain.CredentialScheme, secret string) (*domain.AuthUser, error)
	StampCredentialUse(ctx context.Context, scheme domain.CredentialScheme, secret string, at time.Time) error
	CredentialUserNameExists(ctx context.Context, scheme domain.CredentialScheme, userName string) (bool, error)
	InsertCredential(ctx context.Context, scheme domain.CredentialScheme, userName, secret string, createdAt time.Time) error

	// User methods.
	FindUser(ctx context.Context, identifier domain.UserIdentifier) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	LinkAccountToUser(ctx context.Context, userID, accountID bson.ObjectID) error
	UserExists(ctx context.Context, identifier domain.UserIdentifier) (bool, error)
	FindUserByNameAndID(ctx context.Context, userName string, userID bson.ObjectID) (*domain.User, error)

	// Internal account methods.
	ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error)
	ListAccountsForUser(ctx context.Context, identifier domain.UserIdentifier, activeOnly bool) ([]domain.Account, error)
	FindAccountByNumber(ctx context.Context, accountNumber string, activeOnly bool) (*domain.Account, error)
	FindAccountByID(ctx context.Context, accountID bson.ObjectID) (*domain.Account, error)
	AccountNumberExists(ctx context.Context, accountNumber string) (bool, error)
	InsertAccount(ctx context.Context, account *domain.Account) (bson.ObjectID, error)
	MarkAccountClosed(ctx context.Context, accountID bson.ObjectID, closedAt time.Time) error

	// Transaction methods.
	ListRecentTransactionsForUser(ctx context.Context, identifier domain.UserIdentifier, limit int64) ([]domain.Transaction, error)

	// External account methods.
	InsertExternalAccount(ctx context.Context, account *domain.ExternalAccount) (bson.ObjectID, error)
	ListExternalAccountsForUser(ctx context.Context, identifier domain.UserIdentifier, bank string) ([]domain.ExternalAccount, error)

	// External product methods.
	InsertExternalProduct(ctx context.Context, product *domain.ExternalProduct) (bson.ObjectID, error)
	ListExternalProductsForUser(ctx context.Context, identifier domain.UserIdentifier, bank string) ([]domain.ExternalProduct, error)

	// Aggregation methods. Absent-match groups yield 0, not an error.
	SumInternalAccountBalances(ctx context.Context, userID bson.ObjectID) (float64, error)
	SumExternalAccountBalances(ctx context.Context, userID bson.ObjectID, accountIDs []bson.ObjectID) (float64, error)
	SumExternalProductDebt(ctx context.Context, userID bson.ObjectID, productIDs []bson.ObjectID) (float64, error)
}
