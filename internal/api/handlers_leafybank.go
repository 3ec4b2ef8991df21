/**
 * @description
 * This file contains the bearer-secured Leafy Bank handlers: account
 * listings and lookups, account lifecycle (open/close), user lookup, and
 * recent transactions. Routes that take a user_identifier only serve records
 * belonging to the authenticated caller.
 */

package api

import (
	"net/http"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/app"
	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/domain"
)

type bankAccountsResponse struct {
	Accounts []domain.Account `json:"accounts"`
}

type bankAccountResponse struct {
	Account *domain.Account `json:"account"`
}

type bankUserResponse struct {
	User *domain.User `json:"user"`
}

type bankUsersResponse struct {
	Users []domain.User `json:"users"`
}

type transactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
}

type createAccountResponse struct {
	Message   string `json:"message"`
	AccountID string `json:"account_id"`
}

// fetchAccounts lists every account, optionally narrowed to active ones.
func (h *Handlers) fetchAccounts(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	if _, err := h.authenticate(r, domain.SchemeBearerToken); err != nil {
		writeServiceError(w, err)
		return
	}

	accounts, err := h.accounts.List(r.Context(), activeOnly)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	writeJSON(w, http.StatusOK, bankAccountsResponse{Accounts: accounts})
}

func (h *Handlers) FetchAccountsHandler(w http.ResponseWriter, r *http.Request) {
	h.fetchAccounts(w, r, false)
}

func (h *Handlers) FetchActiveAccountsHandler(w http.ResponseWriter, r *http.Request) {
	h.fetchAccounts(w, r, true)
}

// fetchAccountsForUser lists one user's accounts from a request body that
// carries a single user_identifier.
func (h *Handlers) fetchAccountsForUser(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	user, err := h.authenticate(r, domain.SchemeBearerToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req domain.UserIdentifierRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserIdentifier == "" {
		writeError(w, http.StatusBadRequest, "User identifier is required")
		return
	}
	if err := app.AuthorizeIdentifier(user, req.UserIdentifier); err != nil {
		writeServiceError(w, err)
		return
	}

	accounts, err := h.accounts.ListForUser(r.Context(), req.UserIdentifier, activeOnly)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	writeJSON(w, http.StatusOK, bankAccountsResponse{Accounts: accounts})
}

func (h *Handlers) FetchAccountsForUserHandler(w http.ResponseWriter, r *http.Request) {
	h.fetchAccountsForUser(w, r, false)
}

func (h *Handlers) FetchActiveAccountsForUserHandler(w http.ResponseWriter, r *http.Request) {
	h.fetchAccountsForUser(w, r, true)
}

// findAccountByNumber resolves one account from a request body carrying the
// account number.
func (h *Handlers) findAccountByNumber(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	if _, err := h.authenticate(r, domain.SchemeBearerToken); err != nil {
		writeServiceError(w, err)
		return
	}

	var req domain.FindAccountByNumberRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.AccountNumber == "" {
		writeError(w, http.StatusBadRequest, "Account number is required")
		return
	}

	account, err := h.accounts.ByNumber(r.Context(), req.AccountNumber, activeOnly)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bankAccountResponse{Account: account})
}

func (h *Handlers) FindAccountByNumberHandler(w http.ResponseWriter, r *http.Request) {
	h.findAccountByNumber(w, r, false)
}

func (h *Handlers) FindActiveAccountByNumberHandler(w http.ResponseWriter, r *http.Request) {
	h.findAccountByNumber(w, r, true)
}

// CreateAccountHandler opens a new checking or savings account.
func (h *Handlers) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := h.authenticate(r, domain.SchemeBearerToken); err != nil {
		writeServiceError(w, err)
		return
	}

	var req domain.CreateAccountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	accountID, err := h.accounts.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createAccountResponse{
		Message:   "Account created successfully.",
		AccountID: accountID.Hex(),
	})
}

// CloseAccountHandler closes an account whose balance has been drained.
func (h *Handlers) CloseAccountHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := h.authenticate(r, domain.SchemeBearerToken); err != nil {
		writeServiceError(w, err)
		return
	}

	var req domain.CloseAccountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.AccountID == "" {
		writeError(w, http.StatusBadRequest, "Account id is required")
		return
	}

	if err := h.accounts.Close(r.Context(), req.AccountID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Account closed successfully."})
}

// FindUserHandler resolves a user by name or hex id.
func (h *Handlers) FindUserHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := h.authenticate(r, domain.SchemeBearerToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req domain.UserIdentifierRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserIdentifier == "" {
		writeError(w, http.StatusBadRequest, "User identifier is required")
		return
	}
	if err := app.AuthorizeIdentifier(caller, req.UserIdentifier); err != nil {
		writeServiceError(w, err)
		return
	}

	user, err := h.users.Find(r.Context(), req.UserIdentifier)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bankUserResponse{User: user})
}

// FetchUsersHandler lists every user.
func (h *Handlers) FetchUsersHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := h.authenticate(r, domain.SchemeBearerToken); err != nil {
		writeServiceError(w, err)
		return
	}

	users, err := h.users.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	writeJSON(w, http.StatusOK, bankUsersResponse{Users: users})
}

// FetchRecentTransactionsForUserHandler lists a user's latest transactions,
// newest first.
func (h *Handlers) FetchRecentTransactionsForUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.authenticate(r, domain.SchemeBearerToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req domain.UserIdentifierRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserIdentifier == "" {
		writeError(w, http.StatusBadRequest, "User identifier is required")
		return
	}
	if err := app.AuthorizeIdentifier(user, req.UserIdentifier); err != nil {
		writeServiceError(w, err)
		return
	}

	transactions, err := h.transactions.RecentForUser(r.Context(), req.UserIdentifier)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if transactions == nil {
		transactions = []domain.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactionsResponse{Transactions: transactions})
}
