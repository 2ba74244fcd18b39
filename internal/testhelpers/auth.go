package testhelpers

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// JWTSecret signs every token the helpers create.
var JWTSecret = []byte("test-jwt-secret")

// CreateJWT creates an access token for userID valid for 15 minutes.
func (h *TestHelper) CreateJWT(userID uuid.UUID) string {
	return h.createJWT(userID.String(), time.Now().Add(15*time.Minute))
}

func (h *TestHelper) CreateExpiredJWT(userID uuid.UUID) string {
	return h.createJWT(userID.String(), time.Now().Add(-time.Minute))
}

func (h *TestHelper) createJWT(sub string, exp time.Time) string {
	now := time.Now().Unix()
	claims := jwt.MapClaims{
		"sub": sub,
		"iat": now,
		"exp": exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(JWTSecret)
	require.NoError(h.T, err, "Failed to sign test JWT")
	return signed
}
