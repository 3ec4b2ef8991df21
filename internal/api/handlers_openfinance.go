/**
 * @description
 * This file contains the secured Open Finance handlers: credential health
 * checks, external account/product retrieval and listing, and the balance
 * and debt aggregation endpoints. Each handler validates the credential for
 * its scheme, applies the identity policy matching the request shape, then
 * dispatches to the service.
 *
 * Identity policies per request shape:
 *   - single user_identifier  -> OR (name or id may match)
 *   - user_name + user_id     -> AND (both must match)
 *   - user_id only            -> ObjectID equality
 */

package api

import (
	"fmt"
	"net/http"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/app"
	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/domain"
)

type messageResponse struct {
	Message string `json:"message"`
}

type accountsResponse struct {
	Accounts []domain.ExternalAccount `json:"accounts"`
}

type productsResponse struct {
	Products []domain.ExternalProduct `json:"products"`
}

type retrieveRecordResponse struct {
	Message   string `json:"message"`
	AccountID string `json:"account_id,omitempty"`
	ProductID string `json:"product_id,omitempty"`
}

type totalBalanceResponse struct {
	TotalBalance float64 `json:"total_balance"`
}

type totalDebtResponse struct {
	TotalDebt float64 `json:"total_debt"`
}

// ValidateKeyHandler is a simple API-key health check.
func (h *Handlers) ValidateKeyHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.authenticate(r, domain.SchemeAPIKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("API Key is valid for user: %s", user.UserName)})
}

// HelloUserHandler is a protected greeting endpoint.
func (h *Handlers) HelloUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.authenticate(r, domain.SchemeAPIKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("Hello, %s", user.UserName)})
}

// ValidateTokenHandler is a simple bearer-token health check.
func (h *Handlers) ValidateTokenHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.authenticate(r, domain.SchemeBearerToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("Bearer Token is valid for user: %s", user.UserName)})
}

// retrieveExternalAccount handles the simulation endpoint for both schemes.
func (h *Handlers) retrieveExternalAccount(w http.ResponseWriter, r *http.Request, scheme domain.CredentialScheme) {
	user, err := h.authenticate(r, scheme)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req domain.RetrieveExternalAccountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	// Both user fields must match the authenticated caller.
	if err := app.AuthorizeOwner(user, req.UserName, req.UserID); err != nil {
		writeServiceError(w, err)
		return
	}

	accountID, err := h.externalAccounts.Retrieve(r.Context(), req.AccountBank, req.UserName, req.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, retrieveRecordResponse{
		Message:   fmt.Sprintf("External account retrieved for %s.", req.UserName),
		AccountID: accountID.Hex(),
	})
}

// RetrieveExternalAccountAPIKeyHandler serves the API-key family.
func (h *Handlers) RetrieveExternalAccountAPIKeyHandler(w http.ResponseWriter, r *http.Request) {
	h.retrieveExternalAccount(w, r, domain.SchemeAPIKey)
}

// RetrieveExternalAccountBearerHandler serves the bearer-token family.
func (h *Handlers) RetrieveExternalAccountBearerHandler(w http.ResponseWriter, r *http.Request) {
	h.retrieveExternalAccount(w, r, domain.SchemeBearerToken)
}

// RetrieveExternalProductHandler simulates retrieving a loan or mortgage.
func (h *Handlers) RetrieveExternalProductHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.authenticate(r, domain.SchemeBearerToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req domain.RetrieveExternalProductRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := app.AuthorizeOwner(user, req.UserName, req.UserID); err != nil {
		writeServiceError(w, err)
		return
	}

	productID, err := h.externalProducts.Retrieve(r.Context(), req.ProductBank, req.UserName, req.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, retrieveRecordResponse{
		Message:   fmt.Sprintf("External financial product retrieved for %s.", req.UserName),
		ProductID: productID.Hex(),
	})
}

// fetchExternalAccounts lists external accounts for a user, optionally
// filtered to one institution, for either scheme.
func (h *Handlers) fetchExternalAccounts(w http.ResponseWriter, r *http.Request, scheme domain.CredentialScheme, bankParam string) {
	user, err := h.authenticate(r, scheme)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	identifier := r.URL.Query().Get("user_identifier")
	if identifier == "" {
		writeError(w, http.StatusBadRequest, "User identifier is required")
		return
	}
	if err := app.AuthorizeIdentifier(user, identifier); err != nil {
		writeServiceError(w, err)
		return
	}

	bank := ""
	if bankParam != "" {
		bank = r.URL.Query().Get(bankParam)
	}
	accounts, err := h.externalAccounts.ListForUser(r.Context(), identifier, bank)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if accounts == nil {
		accounts = []domain.ExternalAccount{}
	}
	writeJSON(w, http.StatusOK, accountsResponse{Accounts: accounts})
}

// FetchExternalAccountsHandler serves the API-key family (bank_name filter).
func (h *Handlers) FetchExternalAccountsHandler(w http.ResponseWriter, r *http.Request) {
	h.fetchExternalAccounts(w, r, domain.SchemeAPIKey, "bank_name")
}

// FetchExternalAccountsForInstitutionHandler filters by institution_name.
func (h *Handlers) FetchExternalAccountsForInstitutionHandler(w http.ResponseWriter, r *http.Request) {
	h.fetchExternalAccounts(w, r, domain.SchemeBearerToken, "institution_name")
}

// FetchAllExternalAccountsHandler lists every external account for a user.
func (h *Handlers) FetchAllExternalAccountsHandler(w http.ResponseWriter, r *http.Request) {
	h.fetchExternalAccounts(w, r, domain.SchemeBearerToken, "")
}

// fetchExternalProducts mirrors fetchExternalAccounts for products.
func (h *Handlers) fetchExternalProducts(w http.ResponseWriter, r *http.Request, bankParam string) {
	user, err := h.authenticate(r, domain.SchemeBearerToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	identifier := r.URL.Query().Get("user_identifier")
	if identifier == "" {
		writeError(w, http.StatusBadRequest, "User identifier is required")
		return
	}
	if err := app.AuthorizeIdentifier(user, identifier); err != nil {
		writeServiceError(w, err)
		return
	}

	bank := ""
	if bankParam != "" {
		bank = r.URL.Query().Get(bankParam)
	}
	products, err := h.externalProducts.ListForUser(r.Context(), identifier, bank)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if products == nil {
		products = []domain.ExternalProduct{}
	}
	writeJSON(w, http.StatusOK, productsResponse{Products: products})
}

// FetchExternalProductsForInstitutionHandler filters by institution_name.
func (h *Handlers) FetchExternalProductsForInstitutionHandler(w http.ResponseWriter, r *http.Request) {
	h.fetchExternalProducts(w, r, "institution_name")
}

// FetchAllExternalProductsHandler lists every external product for a user.
func (h *Handlers) FetchAllExternalProductsHandler(w http.ResponseWriter, r *http.Request) {
	h.fetchExternalProducts(w, r, "")
}

// CalculateTotalBalanceHandler sums internal balances plus allow-listed
// external account balances for the authenticated user.
func (h *Handlers) CalculateTotalBalanceHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.authenticate(r, domain.SchemeBearerToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req domain.TotalBalanceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := app.AuthorizeUserID(user, req.UserID); err != nil {
		writeServiceError(w, err)
		return
	}

	total, err := h.aggregations.TotalBalance(r.Context(), req.UserID, req.ConnectedExternalAccounts)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totalBalanceResponse{TotalBalance: total})
}

// CalculateTotalDebtHandler sums allow-listed Loan/Mortgage amounts for the
// authenticated user. No allow-list means zero debt.
func (h *Handlers) CalculateTotalDebtHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.authenticate(r, domain.SchemeBearerToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req domain.TotalDebtRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := app.AuthorizeUserID(user, req.UserID); err != nil {
		writeServiceError(w, err)
		return
	}

	total, err := h.aggregations.TotalDebt(r.Context(), req.UserID, req.ConnectedExternalProducts)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totalDebtResponse{TotalDebt: total})
}
