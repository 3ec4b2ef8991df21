/**
 * @description
 * This file simulates the retrieval of financial products (loans and
 * mortgages) from external institutions, mirroring the external account
 * generator. Products carry type-specific fields on top of the per-bank
 * narrative variant: loans get a repayment period and collateral note,
 * mortgages an amortization period and property details.
 */

package app

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand/v2"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/domain"
	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/store"
)

var (
	loanRepaymentPeriods        = []int{12, 24, 36, 48, 60}
	mortgageAmortizationPeriods = []int{15, 20, 25, 30}
)

// ExternalProducts fabricates and serves external financial products.
type ExternalProducts struct {
	repo store.Repository
}

func NewExternalProducts(repo store.Repository) *ExternalProducts {
	return &ExternalProducts{repo: repo}
}

// Retrieve simulates pulling a loan or mortgage for the user from an
// external institution and returns the stored document's id.
func (s *ExternalProducts) Retrieve(ctx context.Context, productBank, userName, userID string) (bson.ObjectID, error) {
	userOID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("%w: malformed user id %q", ErrInvalidArgument, userID)
	}

	productType := randomProductType()
	product := &domain.ExternalProduct{
		ProductID:           fmt.Sprintf("%d", 1000+rand.IntN(9000)),
		ProductBank:         productBank,
		ProductStatus:       domain.AccountStatusActive,
		ProductType:         productType,
		ProductAmount:       randomAmount(10000, 50000),
		ProductCurrency:     "USD",
		ProductInterestRate: randomInterestRate(),
		ProductDate:         domain.ProductDates{OpeningDate: randomOpeningDate(10 * 365)},
		ProductCustomer:     domain.AccountHolder{UserName: userName, UserID: userOID},
	}
	applyProductNarrative(product, productBank, productType, userName)
	applyProductTypeFields(product, productType)

	productID, err := s.repo.InsertExternalProduct(ctx, product)
	if err != nil {
		return bson.ObjectID{}, err
	}
	log.Printf("level=info component=external_products msg=\"external product retrieved\" product_type=%s bank=%q user=%s", productType, productBank, userName)
	return productID, nil
}

// ListForUser returns the user's external products, optionally restricted to
// one institution.
func (s *ExternalProducts) ListForUser(ctx context.Context, identifier, bank string) ([]domain.ExternalProduct, error) {
	return s.repo.ListExternalProductsForUser(ctx, domain.ParseUserIdentifier(identifier), bank)
}

func applyProductNarrative(product *domain.ExternalProduct, bank, productType, userName string) {
	switch bank {
	case domain.BankGreen:
		product.GreenProductNarrative = fmt.Sprintf("%s tailored for sustainability at %s", productType, bank)
	case domain.BankMongoDB:
		product.MDBProductNarrative = fmt.Sprintf("%s product offered by %s with MongoDB's excellence", productType, bank)
	default:
		product.ProductDescription = fmt.Sprintf("%s for %s at %s", productType, userName, bank)
	}
}

// applyProductTypeFields sets the type-specific fields that differentiate
// loans from mortgages.
func applyProductTypeFields(product *domain.ExternalProduct, productType string) {
	switch productType {
	case domain.ProductTypeLoan:
		product.RepaymentPeriod = loanRepaymentPeriods[rand.IntN(len(loanRepaymentPeriods))]
		product.LoanCollateral = "None"
	case domain.ProductTypeMortgage:
		product.AmortizationPeriod = mortgageAmortizationPeriods[rand.IntN(len(mortgageAmortizationPeriods))]
		product.PropertyDetails = &domain.PropertyDetails{
			Address:       "123 Main St",
			PropertyValue: randomAmount(50000, 100000),
		}
	}
}

func randomProductType() string {
	if rand.IntN(2) == 0 {
		return domain.ProductTypeLoan
	}
	return domain.ProductTypeMortgage
}

// randomInterestRate returns a rate in [2.5, 5.0] with two decimals.
func randomInterestRate() float64 {
	return math.Round((2.5+rand.Float64()*2.5)*100) / 100
}
