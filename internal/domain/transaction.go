package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// TransactionParty identifies one side of a transaction.
type TransactionParty struct {
	UserName      string        `bson:"UserName" json:"UserName"`
	UserID        bson.ObjectID `bson:"UserId" json:"UserId"`
	AccountNumber string        `bson:"AccountNumber,omitempty" json:"AccountNumber,omitempty"`
}

// Transaction is a read-only ledger record. Transactions are only ever
// queried by owning user; there is no mutation path in this service.
type Transaction struct {
	ID                     bson.ObjectID    `bson:"_id" json:"_id"`
	TransactionAmount      float64          `bson:"TransactionAmount" json:"TransactionAmount"`
	TransactionCurrency    string           `bson:"TransactionCurrency" json:"TransactionCurrency"`
	TransactionType        string           `bson:"TransactionType" json:"TransactionType"`
	TransactionDate        time.Time        `bson:"TransactionDate" json:"TransactionDate"`
	TransactionStatus      string           `bson:"TransactionStatus,omitempty" json:"TransactionStatus,omitempty"`
	TransactionReference   string           `bson:"TransactionReference,omitempty" json:"TransactionReference,omitempty"`
	TransactionDescription string           `bson:"TransactionDescription,omitempty" json:"TransactionDescription,omitempty"`
	Sender                 TransactionParty `bson:"Sender" json:"Sender"`
	Receiver               TransactionParty `bson:"Receiver" json:"Receiver"`
}

// UserIdentifierRequest is the DTO shared by endpoints that take one combined
// user identifier (username or ObjectID hex).
type UserIdentifierRequest struct {
	UserIdentifier string `json:"user_identifier"`
}
