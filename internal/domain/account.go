/**
 * @description
 * This file defines the internal (Leafy Bank) account document and the API
 * request shapes for the account endpoints. Field names follow the persisted
 * BSON schema so that documents round-trip unchanged through the API layer.
 */

package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Account status values.
const (
	AccountStatusActive = "Active"
	AccountStatusClosed = "Closed"
)

// Account type values for internal and external accounts.
const (
	AccountTypeChecking = "Checking"
	AccountTypeSavings  = "Savings"
)

// AccountDates holds the lifecycle timestamps of an account. ClosingDate is
// set exactly once, when the account transitions to Closed.
type AccountDates struct {
	OpeningDate time.Time  `bson:"OpeningDate" json:"OpeningDate"`
	ClosingDate *time.Time `bson:"ClosingDate,omitempty" json:"ClosingDate,omitempty"`
}

// AccountHolder is the owning user reference embedded in account documents.
// Both the name and the id must agree with the authenticated caller before
// any operation on the owner's behalf is permitted.
type AccountHolder struct {
	UserName string        `bson:"UserName" json:"UserName"`
	UserID   bson.ObjectID `bson:"UserId" json:"UserId"`
}

// Account is an internal Leafy Bank account document.
type Account struct {
	ID                        bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	AccountNumber             string        `bson:"AccountNumber" json:"AccountNumber"`
	AccountBank               string        `bson:"AccountBank" json:"AccountBank"`
	AccountStatus             string        `bson:"AccountStatus" json:"AccountStatus"`
	AccountIdentificationType string        `bson:"AccountIdentificationType" json:"AccountIdentificationType"`
	AccountDate               AccountDates  `bson:"AccountDate" json:"AccountDate"`
	AccountType               string        `bson:"AccountType" json:"AccountType"`
	AccountBalance            float64       `bson:"AccountBalance" json:"AccountBalance"`
	AccountCurrency           string        `bson:"AccountCurrency" json:"AccountCurrency"`
	AccountDescription        string        `bson:"AccountDescription,omitempty" json:"AccountDescription,omitempty"`
	AccountUser               AccountHolder `bson:"AccountUser" json:"AccountUser"`
}

// CreateAccountRequest is the DTO for opening an internal account.
type CreateAccountRequest struct {
	AccountNumber  string  `json:"account_number"`
	AccountBalance float64 `json:"account_balance"`
	AccountType    string  `json:"account_type"`
	UserName       string  `json:"user_name"`
	UserID         string  `json:"user_id"`
}

// CloseAccountRequest is the DTO for closing an internal account.
type CloseAccountRequest struct {
	AccountID string `json:"account_id"`
}

// FindAccountByNumberRequest is the DTO for the account-number lookups.
type FindAccountByNumberRequest struct {
	AccountNumber string `json:"account_number"`
}
