/**
 * @description
 * This file contains the public (unauthenticated) handlers: the create-user
 * endpoints that mint a credential per scheme. The generated secret is
 * returned once and never again.
 */

package api

import (
	"net/http"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/domain"
)

type createAPIKeyUserResponse struct {
	Message  string `json:"message"`
	UserName string `json:"UserName"`
	APIKey   string `json:"ApiKey"`
}

type createBearerTokenUserResponse struct {
	Message     string `json:"message"`
	UserName    string `json:"UserName"`
	BearerToken string `json:"BearerToken"`
}

// CreateAPIKeyUserHandler provisions a user in the API-key family.
func (h *Handlers) CreateAPIKeyUserHandler(w http.ResponseWriter, r *http.Request) {
	credential, err := h.provisioner.CreateUser(r.Context(), domain.SchemeAPIKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createAPIKeyUserResponse{
		Message:  "User created successfully.",
		UserName: credential.UserName,
		APIKey:   credential.Secret,
	})
}

// CreateBearerTokenUserHandler provisions a user in the bearer-token family.
func (h *Handlers) CreateBearerTokenUserHandler(w http.ResponseWriter, r *http.Request) {
	credential, err := h.provisioner.CreateUser(r.Context(), domain.SchemeBearerToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createBearerTokenUserResponse{
		Message:     "User created successfully.",
		UserName:    credential.UserName,
		BearerToken: credential.Secret,
	})
}
