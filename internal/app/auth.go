/**
 * @description
 * This file implements credential validation for the two authentication
 * schemes. The logic is identical for API keys and bearer tokens; only the
 * backing collection and field names differ, so one Authenticator is
 * instantiated per scheme rather than duplicating the validate path.
 *
 * On a successful lookup the credential's LastUseDate is stamped. The stamp
 * is fire-and-forget: a failed write is logged and never surfaced, and the
 * read/stamp pair is not transactional. A near-concurrent validate racing the
 * stamp is benign.
 *
 * @dependencies
 * - context, log, time: Standard Go libraries.
 * - internal/domain, internal/store: Models and data access.
 */

package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/domain"
	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/store"
)

// Authenticator validates presented credentials for one scheme.
type Authenticator struct {
	repo   store.Repository
	scheme domain.CredentialScheme
}

// NewAPIKeyAuthenticator validates against the "keys" collection.
func NewAPIKeyAuthenticator(repo store.Repository) *Authenticator {
	return &Authenticator{repo: repo, scheme: domain.SchemeAPIKey}
}

// NewBearerTokenAuthenticator validates against the "tokens" collection.
func NewBearerTokenAuthenticator(repo store.Repository) *Authenticator {
	return &Authenticator{repo: repo, scheme: domain.SchemeBearerToken}
}

// Scheme returns the credential family this authenticator serves.
func (a *Authenticator) Scheme() domain.CredentialScheme {
	return a.scheme
}

// Validate resolves the owning user of the presented secret. An empty secret
// fails with ErrMissingCredential, an unknown one with ErrInvalidCredential.
func (a *Authenticator) Validate(ctx context.Context, secret string) (*domain.AuthUser, error) {
	if secret == "" {
		log.Printf("level=error component=auth scheme=%s msg=\"credential is missing\"", a.scheme)
		return nil, ErrMissingCredential
	}

	user, err := a.repo.FindUserByCredential(ctx, a.scheme, secret)
	if err != nil {
		if errors.Is(err, store.ErrCredentialNotFound) {
			log.Printf("level=error component=auth scheme=%s msg=\"invalid credential\"", a.scheme)
			return nil, ErrInvalidCredential
		}
		return nil, err
	}

	if err := a.repo.StampCredentialUse(ctx, a.scheme, secret, time.Now().UTC()); err != nil {
		// Validation already succeeded; a missed timestamp has no
		// correctness impact.
		log.Printf("level=warn component=auth scheme=%s msg=\"last-use stamp failed\" user=%s err=%v", a.scheme, user.UserName, err)
	}

	log.Printf("level=info component=auth scheme=%s msg=\"credential validated\" user=%s", a.scheme, user.UserName)
	return user, nil
}
