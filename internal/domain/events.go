package domain

import "time"

// Account lifecycle event routing keys.
const (
	AccountOpenedRoutingKey = "account.opened"
	AccountClosedRoutingKey = "account.closed"
)

// AccountEvent is published when an internal account is opened or closed.
// Publishing is fire-and-forget; consumers must tolerate missed events.
type AccountEvent struct {
	AccountID     string    `json:"account_id"`
	AccountNumber string    `json:"account_number"`
	UserName      string    `json:"user_name"`
	UserID        string    `json:"user_id"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
}
