package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/domain"
	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/store"
)

type accountsRepoStub struct {
	store.Repository

	owner        *domain.User
	ownerErr     error
	numberExists bool

	insertedAccount *domain.Account
	insertedID      bson.ObjectID

	linkCalled bool
	linkErr    error

	account     *domain.Account
	closeCalled bool
}

func (s *accountsRepoStub) FindUserByNameAndID(ctx context.Context, userName string, userID bson.ObjectID) (*domain.User, error) {
	if s.ownerErr != nil {
		return nil, s.ownerErr
	}
	return s.owner, nil
}

func (s *accountsRepoStub) AccountNumberExists(ctx context.Context, accountNumber string) (bool, error) {
	return s.numberExists, nil
}

func (s *accountsRepoStub) InsertAccount(ctx context.Context, account *domain.Account) (bson.ObjectID, error) {
	s.insertedAccount = account
	s.insertedID = bson.NewObjectID()
	return s.insertedID, nil
}

func (s *accountsRepoStub) LinkAccountToUser(ctx context.Context, userID, accountID bson.ObjectID) error {
	s.linkCalled = true
	return s.linkErr
}

func (s *accountsRepoStub) FindAccountByID(ctx context.Context, accountID bson.ObjectID) (*domain.Account, error) {
	if s.account == nil {
		return nil, store.ErrAccountNotFound
	}
	return s.account, nil
}

func (s *accountsRepoStub) MarkAccountClosed(ctx context.Context, accountID bson.ObjectID, closedAt time.Time) error {
	s.closeCalled = true
	return nil
}

type eventPublisherStub struct {
	published   []string
	lastPayload interface{}
	err         error
}

func (p *eventPublisherStub) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	p.published = append(p.published, routingKey)
	p.lastPayload = body
	return p.err
}

func createRequestFixture(userID bson.ObjectID) domain.CreateAccountRequest {
	return domain.CreateAccountRequest{
		AccountNumber:  "123456789",
		AccountBalance: 500,
		AccountType:    domain.AccountTypeChecking,
		UserName:       "fridaklo",
		UserID:         userID.Hex(),
	}
}

func TestCreateAccount_Success(t *testing.T) {
	userID := bson.NewObjectID()
	repo := &accountsRepoStub{owner: &domain.User{ID: userID, UserName: "fridaklo"}}
	events := &eventPublisherStub{}
	svc := NewAccounts(repo, events, 1000000)

	accountID, err := svc.Create(context.Background(), createRequestFixture(userID))
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if accountID != repo.insertedID {
		t.Fatalf("expected the inserted id back, got %s", accountID.Hex())
	}

	inserted := repo.insertedAccount
	if inserted == nil {
		t.Fatal("expected an account to be inserted")
	}
	if inserted.AccountBank != "LeafyBank" {
		t.Fatalf("expected bank LeafyBank, got %q", inserted.AccountBank)
	}
	if inserted.AccountStatus != domain.AccountStatusActive {
		t.Fatalf("expected Active status, got %q", inserted.AccountStatus)
	}
	if inserted.AccountCurrency != "USD" {
		t.Fatalf("expected USD currency, got %q", inserted.AccountCurrency)
	}
	if inserted.AccountDate.OpeningDate.IsZero() {
		t.Fatal("expected an opening date")
	}
	if inserted.AccountDate.ClosingDate != nil {
		t.Fatal("expected no closing date on a new account")
	}
	if inserted.AccountUser.UserID != userID {
		t.Fatal("expected the owner id on the account")
	}
	if !repo.linkCalled {
		t.Fatal("expected the account to be linked to the user")
	}
	if len(events.published) != 1 || events.published[0] != domain.AccountOpenedRoutingKey {
		t.Fatalf("expected one account.opened event, got %v", events.published)
	}
}

func TestCreateAccount_UnknownOwner(t *testing.T) {
	repo := &accountsRepoStub{ownerErr: store.ErrUserNotFound}
	svc := NewAccounts(repo, nil, 1000000)

	_, err := svc.Create(context.Background(), createRequestFixture(bson.NewObjectID()))
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCreateAccount_MalformedUserID(t *testing.T) {
	svc := NewAccounts(&accountsRepoStub{}, nil, 1000000)

	req := createRequestFixture(bson.NewObjectID())
	req.UserID = "not-hex"
	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestCreateAccount_BalanceBounds(t *testing.T) {
	userID := bson.NewObjectID()
	repo := &accountsRepoStub{owner: &domain.User{ID: userID, UserName: "fridaklo"}}
	svc := NewAccounts(repo, nil, 1000000)

	tests := []struct {
		name    string
		balance float64
	}{
		{name: "negative balance", balance: -1},
		{name: "balance above limit", balance: 1000001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := createRequestFixture(userID)
			req.AccountBalance = tt.balance
			_, err := svc.Create(context.Background(), req)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestCreateAccount_DuplicateNumber(t *testing.T) {
	userID := bson.NewObjectID()
	repo := &accountsRepoStub{
		owner:        &domain.User{ID: userID, UserName: "fridaklo"},
		numberExists: true,
	}
	svc := NewAccounts(repo, nil, 1000000)

	_, err := svc.Create(context.Background(), createRequestFixture(userID))
	if !errors.Is(err, store.ErrDuplicateAccountNumber) {
		t.Fatalf("expected ErrDuplicateAccountNumber, got %v", err)
	}
	if repo.insertedAccount != nil {
		t.Fatal("expected no insert for a duplicate number")
	}
}

func TestCreateAccount_LinkFailureDoesNotFailCreate(t *testing.T) {
	userID := bson.NewObjectID()
	repo := &accountsRepoStub{
		owner:   &domain.User{ID: userID, UserName: "fridaklo"},
		linkErr: errors.New("write timeout"),
	}
	svc := NewAccounts(repo, nil, 1000000)

	if _, err := svc.Create(context.Background(), createRequestFixture(userID)); err != nil {
		t.Fatalf("expected success despite link failure, got %v", err)
	}
}

func TestCloseAccount_Success(t *testing.T) {
	accountID := bson.NewObjectID()
	repo := &accountsRepoStub{
		account: &domain.Account{ID: accountID, AccountBalance: 0, AccountStatus: domain.AccountStatusActive},
	}
	events := &eventPublisherStub{}
	svc := NewAccounts(repo, events, 1000000)

	if err := svc.Close(context.Background(), accountID.Hex()); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !repo.closeCalled {
		t.Fatal("expected the account to be marked closed")
	}
	if len(events.published) != 1 || events.published[0] != domain.AccountClosedRoutingKey {
		t.Fatalf("expected one account.closed event, got %v", events.published)
	}
}

func TestCloseAccount_RemainingBalance(t *testing.T) {
	accountID := bson.NewObjectID()
	repo := &accountsRepoStub{
		account: &domain.Account{ID: accountID, AccountBalance: 10.5},
	}
	svc := NewAccounts(repo, nil, 1000000)

	err := svc.Close(context.Background(), accountID.Hex())
	if !errors.Is(err, store.ErrAccountBalanceRemaining) {
		t.Fatalf("expected ErrAccountBalanceRemaining, got %v", err)
	}
	if repo.closeCalled {
		t.Fatal("expected the account to keep its status")
	}
}

func TestCloseAccount_NotFound(t *testing.T) {
	svc := NewAccounts(&accountsRepoStub{}, nil, 1000000)

	err := svc.Close(context.Background(), bson.NewObjectID().Hex())
	if !errors.Is(err, store.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestCloseAccount_MalformedID(t *testing.T) {
	svc := NewAccounts(&accountsRepoStub{}, nil, 1000000)

	err := svc.Close(context.Background(), "bogus")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestCreateAccount_PublishFailureDoesNotFailCreate(t *testing.T) {
	userID := bson.NewObjectID()
	repo := &accountsRepoStub{owner: &domain.User{ID: userID, UserName: "fridaklo"}}
	events := &eventPublisherStub{err: errors.New("broker gone")}
	svc := NewAccounts(repo, events, 1000000)

	if _, err := svc.Create(context.Background(), createRequestFixture(userID)); err != nil {
		t.Fatalf("expected success despite publish failure, got %v", err)
	}
}
