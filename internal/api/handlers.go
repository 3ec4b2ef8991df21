/**
 * @description
 * This file defines the handler set shared by every route group and the
 * translation of service failures into HTTP status codes. Handlers parse the
 * request, run the credential validation and identity check, call the
 * appropriate service, and write the response envelope.
 *
 * @dependencies
 * - encoding/json, errors, log, net/http: Standard Go libraries.
 * - internal/app, internal/domain, internal/store: Services, models, errors.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/app"
	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/domain"
	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/store"
)

// Handlers holds the application services the API layer dispatches to.
type Handlers struct {
	apiKeyAuth       *app.Authenticator
	bearerAuth       *app.Authenticator
	provisioner      *app.Provisioner
	users            *app.Users
	accounts         *app.Accounts
	transactions     *app.Transactions
	externalAccounts *app.ExternalAccounts
	externalProducts *app.ExternalProducts
	aggregations     *app.Aggregations
}

// NewHandlers wires the handler set.
func NewHandlers(
	apiKeyAuth *app.Authenticator,
	bearerAuth *app.Authenticator,
	provisioner *app.Provisioner,
	users *app.Users,
	accounts *app.Accounts,
	transactions *app.Transactions,
	externalAccounts *app.ExternalAccounts,
	externalProducts *app.ExternalProducts,
	aggregations *app.Aggregations,
) *Handlers {
	return &Handlers{
		apiKeyAuth:       apiKeyAuth,
		bearerAuth:       bearerAuth,
		provisioner:      provisioner,
		users:            users,
		accounts:         accounts,
		transactions:     transactions,
		externalAccounts: externalAccounts,
		externalProducts: externalProducts,
		aggregations:     aggregations,
	}
}

// errorResponse mirrors the {"detail": ...} envelope clients already expect.
type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("level=error component=api msg=\"response encode failed\" err=%v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeServiceError maps service failures onto HTTP status codes.
// Authorization-class failures (missing/invalid credential, identity
// mismatch) always surface; absence and argument errors keep their typed
// detail; anything else is a generic 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrMissingCredential):
		writeError(w, http.StatusBadRequest, "Credential is missing.")
	case errors.Is(err, app.ErrInvalidCredential):
		writeError(w, http.StatusForbidden, "Invalid credential.")
	case errors.Is(err, app.ErrIdentityMismatch):
		writeError(w, http.StatusForbidden, "Unauthorized: the credential does not belong to the provided user.")
	case errors.Is(err, app.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found.")
	case errors.Is(err, store.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "Account not found.")
	case errors.Is(err, store.ErrDuplicateAccountNumber):
		writeError(w, http.StatusBadRequest, "An account with this number already exists.")
	case errors.Is(err, store.ErrAccountBalanceRemaining):
		writeError(w, http.StatusConflict, "Account cannot be closed because it has a remaining balance.")
	default:
		log.Printf("level=error component=api msg=\"internal error\" err=%v", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// authenticate extracts the credential for the scheme and validates it.
func (h *Handlers) authenticate(r *http.Request, scheme domain.CredentialScheme) (*domain.AuthUser, error) {
	auth := h.bearerAuth
	if scheme == domain.SchemeAPIKey {
		auth = h.apiKeyAuth
	}
	return auth.Validate(r.Context(), credentialFromRequest(r, auth.Scheme()))
}

func decodeBody(w http.ResponseWriter, r *http.Request, into interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return false
	}
	return true
}
