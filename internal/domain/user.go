package domain

import "go.mongodb.org/mongo-driver/v2/bson"

// User is a Leafy Bank customer document. LinkedAccounts grows as internal
// accounts are opened for the user.
type User struct {
	ID             bson.ObjectID   `bson:"_id" json:"_id"`
	UserName       string          `bson:"UserName" json:"UserName"`
	LinkedAccounts []bson.ObjectID `bson:"LinkedAccounts,omitempty" json:"LinkedAccounts,omitempty"`
}

// UserIdentifier carries a caller-supplied user reference. Well-formed
// 24-character hex strings are matched against the stored _id; anything else
// is matched against UserName.
type UserIdentifier struct {
	ID       bson.ObjectID
	UserName string
}

// ParseUserIdentifier converts the raw identifier into its structured form
// when it is a valid ObjectID hex string.
func ParseUserIdentifier(raw string) UserIdentifier {
	if id, err := bson.ObjectIDFromHex(raw); err == nil {
		return UserIdentifier{ID: id}
	}
	return UserIdentifier{UserName: raw}
}

// IsID reports whether the identifier resolved to a structured ObjectID.
func (u UserIdentifier) IsID() bool {
	return !u.ID.IsZero()
}
