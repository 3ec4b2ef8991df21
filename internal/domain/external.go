/**
 * @description
 * This file defines the external (open finance) account and product documents
 * fabricated for third-party institutions. Both records share a base shape and
 * carry exactly one bank-specific narrative field, modelling per-bank schema
 * variation as a tagged variant rather than a truly dynamic document.
 *
 * Products additionally carry type-specific fields: loans have a repayment
 * period and collateral note, mortgages an amortization period and property
 * details.
 */

package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// External product type values. Only these participate in debt aggregation.
const (
	ProductTypeLoan     = "Loan"
	ProductTypeMortgage = "Mortgage"
)

// Institutions with a dedicated narrative field.
const (
	BankGreen   = "Green Bank"
	BankMongoDB = "MongoDB Bank"
)

// ExternalAccount is a fabricated account document from an external bank.
// Exactly one of the three narrative fields is populated, keyed by bank.
type ExternalAccount struct {
	ID                        bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	AccountNumber             string        `bson:"AccountNumber" json:"AccountNumber"`
	AccountBank               string        `bson:"AccountBank" json:"AccountBank"`
	AccountStatus             string        `bson:"AccountStatus" json:"AccountStatus"`
	AccountIdentificationType string        `bson:"AccountIdentificationType" json:"AccountIdentificationType"`
	AccountDate               AccountDates  `bson:"AccountDate" json:"AccountDate"`
	AccountType               string        `bson:"AccountType" json:"AccountType"`
	AccountBalance            float64       `bson:"AccountBalance" json:"AccountBalance"`
	AccountCurrency           string        `bson:"AccountCurrency" json:"AccountCurrency"`
	AccountUser               AccountHolder `bson:"AccountUser" json:"AccountUser"`

	GreenAccountNarrative string `bson:"GreenAccountNarrative,omitempty" json:"GreenAccountNarrative,omitempty"`
	MDBAccountNarrative   string `bson:"MDBAccountNarrative,omitempty" json:"MDBAccountNarrative,omitempty"`
	AccountDescription    string `bson:"AccountDescription,omitempty" json:"AccountDescription,omitempty"`
}

// ProductDates holds the lifecycle timestamps of an external product.
type ProductDates struct {
	OpeningDate time.Time `bson:"OpeningDate" json:"OpeningDate"`
}

// PropertyDetails describes the mortgaged property on Mortgage products.
type PropertyDetails struct {
	Address       string  `bson:"Address" json:"Address"`
	PropertyValue float64 `bson:"PropertyValue" json:"PropertyValue"`
}

// ExternalProduct is a fabricated financial product (loan or mortgage) from
// an external institution.
type ExternalProduct struct {
	ID                  bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	ProductID           string        `bson:"ProductId" json:"ProductId"`
	ProductBank         string        `bson:"ProductBank" json:"ProductBank"`
	ProductStatus       string        `bson:"ProductStatus" json:"ProductStatus"`
	ProductType         string        `bson:"ProductType" json:"ProductType"`
	ProductAmount       float64       `bson:"ProductAmount" json:"ProductAmount"`
	ProductCurrency     string        `bson:"ProductCurrency" json:"ProductCurrency"`
	ProductInterestRate float64       `bson:"ProductInterestRate" json:"ProductInterestRate"`
	ProductDate         ProductDates  `bson:"ProductDate" json:"ProductDate"`
	ProductCustomer     AccountHolder `bson:"ProductCustomer" json:"ProductCustomer"`

	GreenProductNarrative string `bson:"GreenProductNarrative,omitempty" json:"GreenProductNarrative,omitempty"`
	MDBProductNarrative   string `bson:"MDBProductNarrative,omitempty" json:"MDBProductNarrative,omitempty"`
	ProductDescription    string `bson:"ProductDescription,omitempty" json:"ProductDescription,omitempty"`

	// Loan-specific fields.
	RepaymentPeriod int    `bson:"RepaymentPeriod,omitempty" json:"RepaymentPeriod,omitempty"`
	LoanCollateral  string `bson:"LoanCollateral,omitempty" json:"LoanCollateral,omitempty"`

	// Mortgage-specific fields.
	AmortizationPeriod int              `bson:"AmortizationPeriod,omitempty" json:"AmortizationPeriod,omitempty"`
	PropertyDetails    *PropertyDetails `bson:"PropertyDetails,omitempty" json:"PropertyDetails,omitempty"`
}

// RetrieveExternalAccountRequest is the DTO for the external account
// retrieval simulation. Both user fields must match the authenticated caller.
type RetrieveExternalAccountRequest struct {
	AccountBank string `json:"account_bank"`
	UserName    string `json:"user_name"`
	UserID      string `json:"user_id"`
}

// RetrieveExternalProductRequest mirrors the account variant for products.
type RetrieveExternalProductRequest struct {
	ProductBank string `json:"product_bank"`
	UserName    string `json:"user_name"`
	UserID      string `json:"user_id"`
}

// TotalBalanceRequest is the DTO for the balance aggregation endpoint. The
// allow-list narrows which external accounts participate; it never widens
// access.
type TotalBalanceRequest struct {
	UserID                    string   `json:"user_id"`
	ConnectedExternalAccounts []string `json:"connected_external_accounts"`
}

// TotalDebtRequest is the DTO for the debt aggregation endpoint. An empty
// allow-list yields zero debt unconditionally.
type TotalDebtRequest struct {
	UserID                    string   `json:"user_id"`
	ConnectedExternalProducts []string `json:"connected_external_products"`
}
