package auth

import (
	"errors"

	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload is what the login flow knows when it mints a token.
// An empty JTI gets a random one.
type AccessTokenPayload struct {
	AdminID uuid.UUID
	Email   string
	Role    enums.AdminRole
	JTI     string
}

// AccessTokenClaims is the body of an admin access token. The jti doubles as
// the Redis key of the paired refresh session.
type AccessTokenClaims struct {
	AdminID uuid.UUID       `json:"admin_id"`
	Email   string          `json:"email,omitempty"`
	Role    enums.AdminRole `json:"role"`
	jwt.RegisteredClaims
}

// Validate runs after the registered-claim checks in ParseAccessToken.
func (c AccessTokenClaims) Validate() error {
	if c.AdminID == uuid.Nil {
		return errors.New("admin_id claim missing")
	}
	if c.Subject != c.AdminID.String() {
		return errors.New("subject does not match admin_id")
	}
	if !c.Role.IsValid() {
		return errors.New("unknown role claim")
	}
	return nil
}
