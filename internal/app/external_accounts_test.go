package app

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/domain"
	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/store"
)

type externalAccountsRepoStub struct {
	store.Repository

	inserted   *domain.ExternalAccount
	insertedID bson.ObjectID

	listIdentifier domain.UserIdentifier
	listBank       string
	listResult     []domain.ExternalAccount
}

func (s *externalAccountsRepoStub) InsertExternalAccount(ctx context.Context, account *domain.ExternalAccount) (bson.ObjectID, error) {
	s.inserted = account
	s.insertedID = bson.NewObjectID()
	return s.insertedID, nil
}

func (s *externalAccountsRepoStub) ListExternalAccountsForUser(ctx context.Context, identifier domain.UserIdentifier, bank string) ([]domain.ExternalAccount, error) {
	s.listIdentifier = identifier
	s.listBank = bank
	return s.listResult, nil
}

func countNarratives(account *domain.ExternalAccount) int {
	count := 0
	if account.GreenAccountNarrative != "" {
		count++
	}
	if account.MDBAccountNarrative != "" {
		count++
	}
	if account.AccountDescription != "" {
		count++
	}
	return count
}

func TestRetrieveExternalAccount_FabricatesPlausibleDocument(t *testing.T) {
	userID := bson.NewObjectID()
	repo := &externalAccountsRepoStub{}
	svc := NewExternalAccounts(repo)

	accountID, err := svc.Retrieve(context.Background(), domain.BankGreen, "fridaklo", userID.Hex())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if accountID != repo.insertedID {
		t.Fatalf("expected the inserted id back, got %s", accountID.Hex())
	}

	account := repo.inserted
	if account == nil {
		t.Fatal("expected an account to be inserted")
	}
	if account.AccountBank != domain.BankGreen {
		t.Fatalf("expected bank %q, got %q", domain.BankGreen, account.AccountBank)
	}
	if account.AccountStatus != domain.AccountStatusActive {
		t.Fatalf("expected Active status, got %q", account.AccountStatus)
	}
	if account.AccountUser.UserName != "fridaklo" || account.AccountUser.UserID != userID {
		t.Fatal("expected the owner reference on the account")
	}
	if len(account.AccountNumber) != 9 {
		t.Fatalf("expected a 9-digit account number, got %q", account.AccountNumber)
	}
	if _, err := strconv.Atoi(account.AccountNumber); err != nil {
		t.Fatalf("expected a numeric account number, got %q", account.AccountNumber)
	}
	if account.AccountBalance < 2000 || account.AccountBalance > 10000 {
		t.Fatalf("expected balance in [2000, 10000], got %f", account.AccountBalance)
	}
	if account.AccountType != domain.AccountTypeChecking && account.AccountType != domain.AccountTypeSavings {
		t.Fatalf("unexpected account type %q", account.AccountType)
	}
	if account.AccountDate.OpeningDate.After(time.Now().UTC()) {
		t.Fatal("expected an opening date in the past")
	}
}

func TestRetrieveExternalAccount_NarrativePerBank(t *testing.T) {
	userID := bson.NewObjectID()

	tests := []struct {
		name  string
		bank  string
		check func(t *testing.T, account *domain.ExternalAccount)
	}{
		{
			name: "green bank narrative",
			bank: domain.BankGreen,
			check: func(t *testing.T, account *domain.ExternalAccount) {
				if account.GreenAccountNarrative == "" {
					t.Fatal("expected GreenAccountNarrative to be set")
				}
			},
		},
		{
			name: "mongodb bank narrative",
			bank: domain.BankMongoDB,
			check: func(t *testing.T, account *domain.ExternalAccount) {
				if account.MDBAccountNarrative == "" {
					t.Fatal("expected MDBAccountNarrative to be set")
				}
			},
		},
		{
			name: "other bank falls back to description",
			bank: "Credit Union",
			check: func(t *testing.T, account *domain.ExternalAccount) {
				if account.AccountDescription == "" {
					t.Fatal("expected AccountDescription to be set")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &externalAccountsRepoStub{}
			svc := NewExternalAccounts(repo)

			if _, err := svc.Retrieve(context.Background(), tt.bank, "fridaklo", userID.Hex()); err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			tt.check(t, repo.inserted)
			if got := countNarratives(repo.inserted); got != 1 {
				t.Fatalf("expected exactly one narrative field, got %d", got)
			}
		})
	}
}

func TestRetrieveExternalAccount_MalformedUserID(t *testing.T) {
	svc := NewExternalAccounts(&externalAccountsRepoStub{})

	_, err := svc.Retrieve(context.Background(), domain.BankGreen, "fridaklo", "not-hex")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestListExternalAccountsForUser_ParsesIdentifier(t *testing.T) {
	userID := bson.NewObjectID()
	repo := &externalAccountsRepoStub{}
	svc := NewExternalAccounts(repo)

	if _, err := svc.ListForUser(context.Background(), userID.Hex(), domain.BankMongoDB); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !repo.listIdentifier.IsID() || repo.listIdentifier.ID != userID {
		t.Fatal("expected a hex identifier to be parsed as an ObjectID")
	}
	if repo.listBank != domain.BankMongoDB {
		t.Fatalf("expected bank filter %q, got %q", domain.BankMongoDB, repo.listBank)
	}

	if _, err := svc.ListForUser(context.Background(), "fridaklo", ""); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if repo.listIdentifier.IsID() || repo.listIdentifier.UserName != "fridaklo" {
		t.Fatal("expected a non-hex identifier to be treated as a user name")
	}
}
