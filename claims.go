package taskforge

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the claim set carried by an access token. The
// subject is the username; expiry is the only revocation mechanism.
type AccessClaims struct {
	jwt.RegisteredClaims
}

// Subject returns the subject claim
func (c *AccessClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Expires returns the expiration time
func (c *AccessClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issuance time
func (c *AccessClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
