package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/domain"
	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/store"
)

type authRepoStub struct {
	store.Repository

	user    *domain.AuthUser
	findErr error

	stampCalled bool
	stampScheme domain.CredentialScheme
	stampSecret string
	stampErr    error
}

func (s *authRepoStub) FindUserByCredential(ctx context.Context, scheme domain.CredentialScheme, secret string) (*domain.AuthUser, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.user, nil
}

func (s *authRepoStub) StampCredentialUse(ctx context.Context, scheme domain.CredentialScheme, secret string, at time.Time) error {
	s.stampCalled = true
	s.stampScheme = scheme
	s.stampSecret = secret
	return s.stampErr
}

func TestValidate_MissingCredential(t *testing.T) {
	auth := NewAPIKeyAuthenticator(&authRepoStub{})

	_, err := auth.Validate(context.Background(), "")
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestValidate_UnknownCredential(t *testing.T) {
	repo := &authRepoStub{findErr: store.ErrCredentialNotFound}
	auth := NewBearerTokenAuthenticator(repo)

	_, err := auth.Validate(context.Background(), "not-a-real-token")
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
	if repo.stampCalled {
		t.Fatal("expected no last-use stamp on a failed validation")
	}
}

func TestValidate_StoreFailurePassesThrough(t *testing.T) {
	storeErr := errors.New("connection reset")
	auth := NewAPIKeyAuthenticator(&authRepoStub{findErr: storeErr})

	_, err := auth.Validate(context.Background(), "some-key")
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error to pass through, got %v", err)
	}
	if errors.Is(err, ErrInvalidCredential) {
		t.Fatal("store failures must not be reported as invalid credentials")
	}
}

func TestValidate_SuccessStampsLastUse(t *testing.T) {
	userID := bson.NewObjectID()
	repo := &authRepoStub{
		user: &domain.AuthUser{ID: userID, UserName: "api_user_ab12", Scheme: domain.SchemeAPIKey},
	}
	auth := NewAPIKeyAuthenticator(repo)

	user, err := auth.Validate(context.Background(), "valid-key")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if user.UserName != "api_user_ab12" {
		t.Fatalf("expected user api_user_ab12, got %q", user.UserName)
	}
	if user.ID != userID {
		t.Fatalf("expected user id %s, got %s", userID.Hex(), user.ID.Hex())
	}
	if !repo.stampCalled {
		t.Fatal("expected last-use stamp after a successful validation")
	}
	if repo.stampScheme != domain.SchemeAPIKey {
		t.Fatalf("expected stamp against the api key scheme, got %q", repo.stampScheme)
	}
	if repo.stampSecret != "valid-key" {
		t.Fatalf("expected stamp for the presented secret, got %q", repo.stampSecret)
	}
}

func TestValidate_StampFailureDoesNotFailValidation(t *testing.T) {
	repo := &authRepoStub{
		user:     &domain.AuthUser{ID: bson.NewObjectID(), UserName: "api_user_cd34", Scheme: domain.SchemeBearerToken},
		stampErr: errors.New("write timeout"),
	}
	auth := NewBearerTokenAuthenticator(repo)

	user, err := auth.Validate(context.Background(), "valid-token")
	if err != nil {
		t.Fatalf("expected success despite stamp failure, got %v", err)
	}
	if user == nil {
		t.Fatal("expected a user despite stamp failure")
	}
}
