package storage

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenParam = "token"

var ErrInvalidToken = errors.New("storage: invalid or expired token")

// PresignedURL is a time-limited URL for one object operation.
type PresignedURL struct {
	URL       string
	ExpiresAt time.Time
}

// Presigner issues URLs the object store accepts without further
// authentication.
type Presigner interface {
	PresignPut(objectKey, mimeType string, size int64) (PresignedURL, error)
	PresignGet(objectKey string) (PresignedURL, error)
}

// ObjectClaims bind a token to exactly one operation on one object.
type ObjectClaims struct {
	Method    string `json:"mth"`
	ObjectKey string `json:"obj"`
	MimeType  string `json:"mime,omitempty"`
	Size      int64  `json:"size,omitempty"`
	jwt.RegisteredClaims
}

// TokenPresigner signs HS256 tokens that the storage gateway checks
// with the same key.
type TokenPresigner struct {
	baseURL *url.URL
	key     []byte
	ttl     time.Duration
	now     func() time.Time
}

func NewTokenPresigner(baseURL string, key []byte, ttl time.Duration) (*TokenPresigner, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse storage base url: %w", err)
	}
	if len(key) == 0 {
		return nil, errors.New("storage signing key is empty")
	}
	return &TokenPresigner{baseURL: u, key: key, ttl: ttl, now: time.Now}, nil
}

func (p *TokenPresigner) PresignPut(objectKey, mimeType string, size int64) (PresignedURL, error) {
	return p.presign(ObjectClaims{Method: http.MethodPut, ObjectKey: objectKey, MimeType: mimeType, Size: size})
}

func (p *TokenPresigner) PresignGet(objectKey string) (PresignedURL, error) {
	return p.presign(ObjectClaims{Method: http.MethodGet, ObjectKey: objectKey})
}

func (p *TokenPresigner) presign(claims ObjectClaims) (PresignedURL, error) {
	now := p.now()
	expires := now.Add(p.ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.key)
	if err != nil {
		return PresignedURL{}, fmt.Errorf("sign object token: %w", err)
	}

	u := p.baseURL.JoinPath(strings.Split(claims.ObjectKey, "/")...)
	u.RawQuery = url.Values{tokenParam: []string{signed}}.Encode()
	return PresignedURL{URL: u.String(), ExpiresAt: expires}, nil
}

// Verify checks a presigned URL's token against the request it arrived
// with and returns its claims.
func (p *TokenPresigner) Verify(method, objectKey, token string) (*ObjectClaims, error) {
	claims := &ObjectClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return p.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Method != method || claims.ObjectKey != objectKey {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TokenFromURL extracts the token a presigned URL carries.
func TokenFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	return u.Query().Get(tokenParam), nil
}
