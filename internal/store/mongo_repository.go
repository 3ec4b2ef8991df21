/**
 * @description
 * This file contains the MongoDB implementation of the `Repository` interface.
 * All operations are scoped to one of two databases: the Leafy Bank database
 * (users, accounts, transactions) and the Open Finance database (credentials,
 * external accounts, external products). Driver not-found results are
 * translated into the package sentinel errors so callers never depend on the
 * driver directly.
 *
 * @dependencies
 * - context, fmt, time: Standard Go libraries.
 * - go.mongodb.org/mongo-driver/v2: The official MongoDB driver.
 * - internal/domain: Document models.
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/domain"
)

// Collection names within the two databases.
const (
	keysCollection             = "keys"
	tokensCollection           = "tokens"
	externalAccountsCollection = "external_accounts"
	externalProductsCollection = "external_products"
	usersCollection            = "users"
	accountsCollection         = "accounts"
	transactionsCollection     = "transactions"
)

// credentialSchema maps a credential scheme onto its collection and
// scheme-specific field names. Both schemes share identical logic.
type credentialSchema struct {
	collection  string
	secretField string
	datesField  string
}

var credentialSchemas = map[domain.CredentialScheme]credentialSchema{
	domain.SchemeAPIKey: {
		collection:  keysCollection,
		secretField: "ApiKey",
		datesField:  "ApiKeyDates",
	},
	domain.SchemeBearerToken: {
		collection:  tokensCollection,
		secretField: "BearerToken",
		datesField:  "TokenDates",
	},
}

// MongoRepository implements Repository against MongoDB.
type MongoRepository struct {
	leafyBank   *mongo.Database
	openFinance *mongo.Database
}

// NewMongoRepository creates a repository scoped to the two named databases.
func NewMongoRepository(client *mongo.Client, leafyBankDB, openFinanceDB string) *MongoRepository {
	return &MongoRepository{
		leafyBank:   client.Database(leafyBankDB),
		openFinance: client.Database(openFinanceDB),
	}
}

func (r *MongoRepository) credentialCollection(scheme domain.CredentialScheme) (*mongo.Collection, credentialSchema, error) {
	schema, ok := credentialSchemas[scheme]
	if !ok {
		return nil, credentialSchema{}, fmt.Errorf("unknown credential scheme %q", scheme)
	}
	return r.openFinance.Collection(schema.collection), schema, nil
}

// apiKeyDocument and bearerTokenDocument decode the two credential families.
// The field names differ per scheme but the shape is identical.
type apiKeyDocument struct {
	ID       bson.ObjectID          `bson:"_id"`
	UserName string                 `bson:"UserName"`
	Dates    domain.CredentialDates `bson:"ApiKeyDates"`
}

type bearerTokenDocument struct {
	ID       bson.ObjectID          `bson:"_id"`
	UserName string                 `bson:"UserName"`
	Dates    domain.CredentialDates `bson:"TokenDates"`
}

// FindUserByCredential resolves the owning user of a presented secret.
func (r *MongoRepository) FindUserByCredential(ctx context.Context, scheme domain.CredentialScheme, secret string) (*domain.AuthUser, error) {
	coll, schema, err := r.credentialCollection(scheme)
	if err != nil {
		return nil, err
	}
	filter := bson.M{schema.secretField: secret}

	switch scheme {
	case domain.SchemeAPIKey:
		var doc apiKeyDocument
		if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, ErrCredentialNotFound
			}
			return nil, err
		}
		return &domain.AuthUser{ID: doc.ID, UserName: doc.UserName, Scheme: scheme, Dates: doc.Dates}, nil
	default:
		var doc bearerTokenDocument
		if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, ErrCredentialNotFound
			}
			return nil, err
		}
		return &domain.AuthUser{ID: doc.ID, UserName: doc.UserName, Scheme: scheme, Dates: doc.Dates}, nil
	}
}

// StampCredentialUse sets <Dates>.LastUseDate on the matching credential.
// The write is intentionally independent of the validating read.
func (r *MongoRepository) StampCredentialUse(ctx context.Context, scheme domain.CredentialScheme, secret string, at time.Time) error {
	coll, schema, err := r.credentialCollection(scheme)
	if err != nil {
		return err
	}
	_, err = coll.UpdateOne(ctx,
		bson.M{schema.secretField: secret},
		bson.M{"$set": bson.M{schema.datesField + ".LastUseDate": at}},
	)
	return err
}

// CredentialUserNameExists reports whether a generated user name is taken.
func (r *MongoRepository) CredentialUserNameExists(ctx context.Context, scheme domain.CredentialScheme, userName string) (bool, error) {
	coll, _, err := r.credentialCollection(scheme)
	if err != nil {
		return false, err
	}
	err = coll.FindOne(ctx, bson.M{"UserName": userName}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// InsertCredential stores a freshly minted credential document.
func (r *MongoRepository) InsertCredential(ctx context.Context, scheme domain.CredentialScheme, userName, secret string, createdAt time.Time) error {
	coll, schema, err := r.credentialCollection(scheme)
	if err != nil {
		return err
	}
	doc := bson.M{
		"UserName":         userName,
		schema.secretField: secret,
		schema.datesField: bson.M{
			"CreationDate": createdAt,
			"LastUseDate":  nil,
		},
	}
	_, err = coll.InsertOne(ctx, doc)
	return err
}

// usersFilter builds the users-collection filter for a caller identifier.
func usersFilter(identifier domain.UserIdentifier) bson.M {
	if identifier.IsID() {
		return bson.M{"_id": identifier.ID}
	}
	return bson.M{"UserName": identifier.UserName}
}

// ownerFilter builds a filter on an embedded owner subdocument
// (AccountUser or ProductCustomer).
func ownerFilter(field string, identifier domain.UserIdentifier) bson.M {
	if identifier.IsID() {
		return bson.M{field + ".UserId": identifier.ID}
	}
	return bson.M{field + ".UserName": identifier.UserName}
}

func (r *MongoRepository) FindUser(ctx context.Context, identifier domain.UserIdentifier) (*domain.User, error) {
	var user domain.User
	err := r.leafyBank.Collection(usersCollection).FindOne(ctx, usersFilter(identifier)).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *MongoRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	cursor, err := r.leafyBank.Collection(usersCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var users []domain.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoRepository) UserExists(ctx context.Context, identifier domain.UserIdentifier) (bool, error) {
	err := r.leafyBank.Collection(usersCollection).FindOne(ctx, usersFilter(identifier)).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *MongoRepository) FindUserByNameAndID(ctx context.Context, userName string, userID bson.ObjectID) (*domain.User, error) {
	var user domain.User
	err := r.leafyBank.Collection(usersCollection).
		FindOne(ctx, bson.M{"_id": userID, "UserName": userName}).
		Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// LinkAccountToUser adds the account id to the user's LinkedAccounts set.
func (r *MongoRepository) LinkAccountToUser(ctx context.Context, userID, accountID bson.ObjectID) error {
	_, err := r.leafyBank.Collection(usersCollection).UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"LinkedAccounts": accountID}},
	)
	return err
}

func (r *MongoRepository) ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error) {
	filter := bson.M{}
	if activeOnly {
		filter["AccountStatus"] = domain.AccountStatusActive
	}
	cursor, err := r.leafyBank.Collection(accountsCollection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var accounts []domain.Account
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *MongoRepository) ListAccountsForUser(ctx context.Context, identifier domain.UserIdentifier, activeOnly bool) ([]domain.Account, error) {
	filter := ownerFilter("AccountUser", identifier)
	if activeOnly {
		filter["AccountStatus"] = domain.AccountStatusActive
	}
	cursor, err := r.leafyBank.Collection(accountsCollection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var accounts []domain.Account
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *MongoRepository) FindAccountByNumber(ctx context.Context, accountNumber string, activeOnly bool) (*domain.Account, error) {
	filter := bson.M{"AccountNumber": accountNumber}
	if activeOnly {
		filter["AccountStatus"] = domain.AccountStatusActive
	}
	var account domain.Account
	err := r.leafyBank.Collection(accountsCollection).FindOne(ctx, filter).Decode(&account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *MongoRepository) FindAccountByID(ctx context.Context, accountID bson.ObjectID) (*domain.Account, error) {
	var account domain.Account
	err := r.leafyBank.Collection(accountsCollection).FindOne(ctx, bson.M{"_id": accountID}).Decode(&account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *MongoRepository) AccountNumberExists(ctx context.Context, accountNumber string) (bool, error) {
	err := r.leafyBank.Collection(accountsCollection).FindOne(ctx, bson.M{"AccountNumber": accountNumber}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *MongoRepository) InsertAccount(ctx context.Context, account *domain.Account) (bson.ObjectID, error) {
	if account.ID.IsZero() {
		account.ID = bson.NewObjectID()
	}
	if _, err := r.leafyBank.Collection(accountsCollection).InsertOne(ctx, account); err != nil {
		return bson.ObjectID{}, err
	}
	return account.ID, nil
}

// MarkAccountClosed flips the status to Closed and stamps the closing date.
// The zero-balance precondition is enforced by the service, not here.
func (r *MongoRepository) MarkAccountClosed(ctx context.Context, accountID bson.ObjectID, closedAt time.Time) error {
	result, err := r.leafyBank.Collection(accountsCollection).UpdateOne(ctx,
		bson.M{"_id": accountID},
		bson.M{"$set": bson.M{
			"AccountStatus":           domain.AccountStatusClosed,
			"AccountDate.ClosingDate": closedAt,
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *MongoRepository) ListRecentTransactionsForUser(ctx context.Context, identifier domain.UserIdentifier, limit int64) ([]domain.Transaction, error) {
	// A transaction belongs to a user when they are sender or receiver.
	var match bson.M
	if identifier.IsID() {
		match = bson.M{"$or": bson.A{
			bson.M{"Sender.UserId": identifier.ID},
			bson.M{"Receiver.UserId": identifier.ID},
		}}
	} else {
		match = bson.M{"$or": bson.A{
			bson.M{"Sender.UserName": identifier.UserName},
			bson.M{"Receiver.UserName": identifier.UserName},
		}}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "TransactionDate", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.leafyBank.Collection(transactionsCollection).Find(ctx, match, opts)
	if err != nil {
		return nil, err
	}
	var transactions []domain.Transaction
	if err := cursor.All(ctx, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *MongoRepository) InsertExternalAccount(ctx context.Context, account *domain.ExternalAccount) (bson.ObjectID, error) {
	if account.ID.IsZero() {
		account.ID = bson.NewObjectID()
	}
	if _, err := r.openFinance.Collection(externalAccountsCollection).InsertOne(ctx, account); err != nil {
		return bson.ObjectID{}, err
	}
	return account.ID, nil
}

func (r *MongoRepository) ListExternalAccountsForUser(ctx context.Context, identifier domain.UserIdentifier, bank string) ([]domain.ExternalAccount, error) {
	filter := ownerFilter("AccountUser", identifier)
	if bank != "" {
		filter["AccountBank"] = bank
	}
	cursor, err := r.openFinance.Collection(externalAccountsCollection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var accounts []domain.ExternalAccount
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *MongoRepository) InsertExternalProduct(ctx context.Context, product *domain.ExternalProduct) (bson.ObjectID, error) {
	if product.ID.IsZero() {
		product.ID = bson.NewObjectID()
	}
	if _, err := r.openFinance.Collection(externalProductsCollection).InsertOne(ctx, product); err != nil {
		return bson.ObjectID{}, err
	}
	return product.ID, nil
}

func (r *MongoRepository) ListExternalProductsForUser(ctx context.Context, identifier domain.UserIdentifier, bank string) ([]domain.ExternalProduct, error) {
	filter := ownerFilter("ProductCustomer", identifier)
	if bank != "" {
		filter["ProductBank"] = bank
	}
	cursor, err := r.openFinance.Collection(externalProductsCollection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var products []domain.ExternalProduct
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// groupedSum runs a $match/$group pipeline summing sumField and returns the
// single group's total, or 0 when nothing matched.
func groupedSum(ctx context.Context, coll *mongo.Collection, match bson.M, sumField string) (float64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "Total", Value: bson.D{{Key: "$sum", Value: "$" + sumField}}},
		}}},
	}
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var results []struct {
		Total float64 `bson:"Total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// SumInternalAccountBalances totals AccountBalance over every internal
// account owned by the user, with no allow-list.
func (r *MongoRepository) SumInternalAccountBalances(ctx context.Context, userID bson.ObjectID) (float64, error) {
	return groupedSum(ctx, r.leafyBank.Collection(accountsCollection),
		bson.M{"AccountUser.UserId": userID}, "AccountBalance")
}

// SumExternalAccountBalances totals AccountBalance over external accounts
// that are both owned by the user and listed in accountIDs. The allow-list
// narrows access; ids belonging to other users contribute nothing.
func (r *MongoRepository) SumExternalAccountBalances(ctx context.Context, userID bson.ObjectID, accountIDs []bson.ObjectID) (float64, error) {
	match := bson.M{"AccountUser.UserId": userID}
	if len(accountIDs) > 0 {
		match["_id"] = bson.M{"$in": accountIDs}
	}
	return groupedSum(ctx, r.openFinance.Collection(externalAccountsCollection), match, "AccountBalance")
}

// SumExternalProductDebt totals ProductAmount over listed Loan/Mortgage
// products owned by the user.
func (r *MongoRepository) SumExternalProductDebt(ctx context.Context, userID bson.ObjectID, productIDs []bson.ObjectID) (float64, error) {
	match := bson.M{
		"_id":                    bson.M{"$in": productIDs},
		"ProductCustomer.UserId": userID,
		"ProductType":            bson.M{"$in": bson.A{domain.ProductTypeLoan, domain.ProductTypeMortgage}},
	}
	return groupedSum(ctx, r.openFinance.Collection(externalProductsCollection), match, "ProductAmount")
}
