package app

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/domain"
	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/store"
)

type externalProductsRepoStub struct {
	store.Repository

	inserted   *domain.ExternalProduct
	insertedID bson.ObjectID
}

func (s *externalProductsRepoStub) InsertExternalProduct(ctx context.Context, product *domain.ExternalProduct) (bson.ObjectID, error) {
	s.inserted = product
	s.insertedID = bson.NewObjectID()
	return s.insertedID, nil
}

func (s *externalProductsRepoStub) ListExternalProductsForUser(ctx context.Context, identifier domain.UserIdentifier, bank string) ([]domain.ExternalProduct, error) {
	return nil, nil
}

// retrieveUntilType fabricates products until one of the wanted type comes
// out. Both types have equal probability, so a bounded loop is plenty.
func retrieveUntilType(t *testing.T, wantType string) *domain.ExternalProduct {
	t.Helper()
	userID := bson.NewObjectID()
	for i := 0; i < 200; i++ {
		repo := &externalProductsRepoStub{}
		svc := NewExternalProducts(repo)
		if _, err := svc.Retrieve(context.Background(), domain.BankGreen, "fridaklo", userID.Hex()); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if repo.inserted.ProductType == wantType {
			return repo.inserted
		}
	}
	t.Fatalf("never fabricated a %s product", wantType)
	return nil
}

func TestRetrieveExternalProduct_FabricatesPlausibleDocument(t *testing.T) {
	userID := bson.NewObjectID()
	repo := &externalProductsRepoStub{}
	svc := NewExternalProducts(repo)

	productID, err := svc.Retrieve(context.Background(), domain.BankMongoDB, "fridaklo", userID.Hex())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if productID != repo.insertedID {
		t.Fatalf("expected the inserted id back, got %s", productID.Hex())
	}

	product := repo.inserted
	if product == nil {
		t.Fatal("expected a product to be inserted")
	}
	if product.ProductType != domain.ProductTypeLoan && product.ProductType != domain.ProductTypeMortgage {
		t.Fatalf("unexpected product type %q", product.ProductType)
	}
	if len(product.ProductID) != 4 {
		t.Fatalf("expected a 4-digit product id, got %q", product.ProductID)
	}
	if product.ProductAmount < 10000 || product.ProductAmount > 50000 {
		t.Fatalf("expected amount in [10000, 50000], got %f", product.ProductAmount)
	}
	if product.ProductInterestRate < 2.5 || product.ProductInterestRate > 5.0 {
		t.Fatalf("expected interest rate in [2.5, 5.0], got %f", product.ProductInterestRate)
	}
	if product.MDBProductNarrative == "" {
		t.Fatal("expected MDBProductNarrative for MongoDB Bank")
	}
	if product.ProductCustomer.UserName != "fridaklo" || product.ProductCustomer.UserID != userID {
		t.Fatal("expected the customer reference on the product")
	}
}

func TestRetrieveExternalProduct_LoanFields(t *testing.T) {
	loan := retrieveUntilType(t, domain.ProductTypeLoan)

	validPeriods := map[int]bool{12: true, 24: true, 36: true, 48: true, 60: true}
	if !validPeriods[loan.RepaymentPeriod] {
		t.Fatalf("unexpected repayment period %d", loan.RepaymentPeriod)
	}
	if loan.LoanCollateral != "None" {
		t.Fatalf("expected collateral None, got %q", loan.LoanCollateral)
	}
	if loan.AmortizationPeriod != 0 || loan.PropertyDetails != nil {
		t.Fatal("expected no mortgage fields on a loan")
	}
}

func TestRetrieveExternalProduct_MortgageFields(t *testing.T) {
	mortgage := retrieveUntilType(t, domain.ProductTypeMortgage)

	validPeriods := map[int]bool{15: true, 20: true, 25: true, 30: true}
	if !validPeriods[mortgage.AmortizationPeriod] {
		t.Fatalf("unexpected amortization period %d", mortgage.AmortizationPeriod)
	}
	if mortgage.PropertyDetails == nil {
		t.Fatal("expected property details on a mortgage")
	}
	if mortgage.PropertyDetails.Address == "" {
		t.Fatal("expected a property address")
	}
	if mortgage.PropertyDetails.PropertyValue < 50000 || mortgage.PropertyDetails.PropertyValue > 100000 {
		t.Fatalf("expected property value in [50000, 100000], got %f", mortgage.PropertyDetails.PropertyValue)
	}
	if mortgage.RepaymentPeriod != 0 || mortgage.LoanCollateral != "" {
		t.Fatal("expected no loan fields on a mortgage")
	}
}

func TestRetrieveExternalProduct_MalformedUserID(t *testing.T) {
	svc := NewExternalProducts(&externalProductsRepoStub{})

	_, err := svc.Retrieve(context.Background(), domain.BankGreen, "fridaklo", "bogus")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
