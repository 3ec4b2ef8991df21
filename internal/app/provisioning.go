/**
 * @description
 * This file implements credential provisioning for the public create-user
 * endpoints. A user name is generated with a short hex suffix; on collision
 * a bounded number of retries is attempted before giving up. The secret is
 * 64 hex characters and is returned exactly once, at creation time.
 */

package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/domain"
	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/store"
)

const provisioningMaxRetries = 5

// Provisioner mints credentials for both schemes.
type Provisioner struct {
	repo store.Repository
}

func NewProvisioner(repo store.Repository) *Provisioner {
	return &Provisioner{repo: repo}
}

// CreateUser generates a unique user name and a fresh secret for the given
// scheme. Exhausting all attempts fails with ErrUserNameExhausted.
func (p *Provisioner) CreateUser(ctx context.Context, scheme domain.CredentialScheme) (*domain.ProvisionedCredential, error) {
	for attempt := 0; attempt < provisioningMaxRetries; attempt++ {
		userName := fmt.Sprintf("api_user_%s", randomHex(4))

		exists, err := p.repo.CredentialUserNameExists(ctx, scheme, userName)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		secret := randomHex(32)
		if err := p.repo.InsertCredential(ctx, scheme, userName, secret, time.Now().UTC()); err != nil {
			return nil, err
		}
		log.Printf("level=info component=provisioning msg=\"user created\" scheme=%s user=%s", scheme, userName)
		return &domain.ProvisionedCredential{UserName: userName, Secret: secret}, nil
	}
	return nil, ErrUserNameExhausted
}

// randomHex returns n random bytes hex-encoded (2n characters).
func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms.
		panic(err)
	}
	return hex.EncodeToString(buf)
}
