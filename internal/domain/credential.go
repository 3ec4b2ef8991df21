/**
 * @description
 * This file defines the credential documents for the two parallel
 * authentication schemes. API keys and bearer tokens live in separate
 * collections with scheme-specific field names, but both map one opaque
 * secret to exactly one owning user.
 *
 * @dependencies
 * - time: Standard Go library.
 * - go.mongodb.org/mongo-driver/v2/bson: For ObjectID document identifiers.
 */

package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// CredentialScheme selects one of the two credential families.
type CredentialScheme string

const (
	// SchemeAPIKey is the X-Api-Key family stored in the "keys" collection.
	SchemeAPIKey CredentialScheme = "api_key"
	// SchemeBearerToken is the Authorization: Bearer family stored in the
	// "tokens" collection.
	SchemeBearerToken CredentialScheme = "bearer_token"
)

// CredentialDates tracks when a credential was minted and last validated.
// LastUseDate is nil until the first successful validation.
type CredentialDates struct {
	CreationDate time.Time  `bson:"CreationDate" json:"CreationDate"`
	LastUseDate  *time.Time `bson:"LastUseDate" json:"LastUseDate"`
}

// AuthUser is the owning identity resolved from a presented credential.
// The credential document's _id doubles as the user's identifier for all
// identity checks on secured endpoints.
type AuthUser struct {
	ID       bson.ObjectID `json:"_id"`
	UserName string        `json:"UserName"`
	Scheme   CredentialScheme
	Dates    CredentialDates `json:"Dates"`
}

// ProvisionedCredential is returned by the public create-user endpoints.
// The secret is only ever shown once, at creation time.
type ProvisionedCredential struct {
	UserName string
	Secret   string
}
