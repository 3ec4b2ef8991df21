package app

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/store"
)

type aggregationsRepoStub struct {
	store.Repository

	internalTotal float64
	externalTotal float64
	debtTotal     float64

	internalCalled bool
	externalCalled bool
	debtCalled     bool

	externalIDs []bson.ObjectID
	debtIDs     []bson.ObjectID
}

func (s *aggregationsRepoStub) SumInternalAccountBalances(ctx context.Context, userID bson.ObjectID) (float64, error) {
	s.internalCalled = true
	return s.internalTotal, nil
}

func (s *aggregationsRepoStub) SumExternalAccountBalances(ctx context.Context, userID bson.ObjectID, accountIDs []bson.ObjectID) (float64, error) {
	s.externalCalled = true
	s.externalIDs = accountIDs
	return s.externalTotal, nil
}

func (s *aggregationsRepoStub) SumExternalProductDebt(ctx context.Context, userID bson.ObjectID, productIDs []bson.ObjectID) (float64, error) {
	s.debtCalled = true
	s.debtIDs = productIDs
	return s.debtTotal, nil
}

const aggregationsUserHex = "65a1b2c3d4e5f60718293a4b"

func TestTotalBalance_InternalOnlyWithoutAllowList(t *testing.T) {
	repo := &aggregationsRepoStub{internalTotal: 1500.50, externalTotal: 9999}
	svc := NewAggregations(repo)

	total, err := svc.TotalBalance(context.Background(), aggregationsUserHex, nil)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if total != 1500.50 {
		t.Fatalf("expected total 1500.50, got %f", total)
	}
	if !repo.internalCalled {
		t.Fatal("expected the internal balance query to run")
	}
	if repo.externalCalled {
		t.Fatal("expected no external query without an allow-list")
	}
}

func TestTotalBalance_AddsAllowListedExternalAccounts(t *testing.T) {
	repo := &aggregationsRepoStub{internalTotal: 1000, externalTotal: 250.25}
	svc := NewAggregations(repo)

	allowList := []string{"000000000000000000000001", "000000000000000000000002"}
	total, err := svc.TotalBalance(context.Background(), aggregationsUserHex, allowList)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if total != 1250.25 {
		t.Fatalf("expected total 1250.25, got %f", total)
	}
	if !repo.externalCalled {
		t.Fatal("expected the external balance query to run")
	}
	if len(repo.externalIDs) != 2 {
		t.Fatalf("expected 2 allow-listed ids, got %d", len(repo.externalIDs))
	}
}

func TestTotalBalance_MalformedUserID(t *testing.T) {
	svc := NewAggregations(&aggregationsRepoStub{})

	_, err := svc.TotalBalance(context.Background(), "not-hex", nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestTotalBalance_MalformedAllowListEntry(t *testing.T) {
	repo := &aggregationsRepoStub{internalTotal: 100}
	svc := NewAggregations(repo)

	_, err := svc.TotalBalance(context.Background(), aggregationsUserHex, []string{"000000000000000000000001", "bogus"})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if repo.externalCalled {
		t.Fatal("expected no external query for a malformed allow-list")
	}
}

func TestTotalDebt_ZeroWithoutAllowList(t *testing.T) {
	repo := &aggregationsRepoStub{debtTotal: 30000}
	svc := NewAggregations(repo)

	total, err := svc.TotalDebt(context.Background(), aggregationsUserHex, nil)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if total != 0 {
		t.Fatalf("expected zero debt without an allow-list, got %f", total)
	}
	if repo.debtCalled {
		t.Fatal("expected no debt query without an allow-list")
	}
}

func TestTotalDebt_SumsAllowListedProducts(t *testing.T) {
	repo := &aggregationsRepoStub{debtTotal: 42000}
	svc := NewAggregations(repo)

	total, err := svc.TotalDebt(context.Background(), aggregationsUserHex, []string{"000000000000000000000003"})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if total != 42000 {
		t.Fatalf("expected total 42000, got %f", total)
	}
	if !repo.debtCalled {
		t.Fatal("expected the debt query to run")
	}
	if len(repo.debtIDs) != 1 {
		t.Fatalf("expected 1 allow-listed id, got %d", len(repo.debtIDs))
	}
}

func TestTotalDebt_MalformedAllowListEntry(t *testing.T) {
	repo := &aggregationsRepoStub{}
	svc := NewAggregations(repo)

	_, err := svc.TotalDebt(context.Background(), aggregationsUserHex, []string{"bogus"})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if repo.debtCalled {
		t.Fatal("expected no debt query for a malformed allow-list")
	}
}
