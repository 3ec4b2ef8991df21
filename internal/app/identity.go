/**
 * @description
 * This file implements the identity matcher that gates every secured
 * endpoint after credential validation. Three policies exist, one per
 * request shape:
 *
 *   - AuthorizeIdentifier: a single combined identifier may match either the
 *     user name or the id (OR policy).
 *   - AuthorizeOwner: separate user_name and user_id fields must both match
 *     (AND policy).
 *   - AuthorizeUserID: a lone user_id must equal the authenticated id.
 *
 * Identifiers that are well-formed 24-character hex strings are compared as
 * ObjectIDs against the stored id, never byte-for-byte.
 */

package app

import (
	"log"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/domain"
)

// matchesUserID reports whether raw, parsed as an ObjectID when well formed,
// equals the authenticated user's id.
func matchesUserID(user *domain.AuthUser, raw string) bool {
	id, err := bson.ObjectIDFromHex(raw)
	if err != nil {
		return false
	}
	return id == user.ID
}

// AuthorizeIdentifier applies the OR policy used by endpoints that take one
// combined user_identifier: the identifier may name the user by UserName or
// by id.
func AuthorizeIdentifier(user *domain.AuthUser, identifier string) error {
	if user.UserName == identifier || matchesUserID(user, identifier) {
		return nil
	}
	log.Printf("level=error component=identity policy=or msg=\"mismatched user identifier\" user=%s", user.UserName)
	return ErrIdentityMismatch
}

// AuthorizeOwner applies the AND policy used by endpoints that supply
// separate user_name and user_id fields: both must match the authenticated
// user.
func AuthorizeOwner(user *domain.AuthUser, userName, userID string) error {
	if user.UserName == userName && matchesUserID(user, userID) {
		return nil
	}
	log.Printf("level=error component=identity policy=and msg=\"mismatched user\" user=%s", user.UserName)
	return ErrIdentityMismatch
}

// AuthorizeUserID is used by the aggregation endpoints, whose requests carry
// only a user_id. A malformed id is an argument error, not a mismatch.
func AuthorizeUserID(user *domain.AuthUser, userID string) error {
	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return ErrInvalidArgument
	}
	if id != user.ID {
		log.Printf("level=error component=identity policy=id msg=\"user id does not match authenticated user\" user=%s", user.UserName)
		return ErrIdentityMismatch
	}
	return nil
}
