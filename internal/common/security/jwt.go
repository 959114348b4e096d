package security

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of a session token. There is no refresh.
const TokenTTL = time.Hour

var ErrInvalidToken = errors.New("invalid or expired token")

// SessionClaims is the identity carried by a verified session token.
type SessionClaims struct {
	UserID    int64
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies HS256 session tokens with a single shared secret.
type TokenIssuer struct {
	auth *jwtauth.JWTAuth
	ttl  time.Duration
	now  func() time.Time
}

func NewTokenIssuer(secret []byte) *TokenIssuer {
	return &TokenIssuer{
		auth: jwtauth.New("HS256", secret, nil),
		ttl:  TokenTTL,
		now:  time.Now,
	}
}

// Issue returns a signed token for the user and the moment it stops being valid.
func (i *TokenIssuer) Issue(userID int64, username string) (string, time.Time, error) {
	now := i.now().Truncate(time.Second)
	expiresAt := now.Add(i.ttl)

	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"iat":      now.Unix(),
		"exp":      expiresAt.Unix(),
	}
	_, tokenString, err := i.auth.Encode(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// Verify checks the signature and expiry of tokenString. Any failure yields
// ErrInvalidToken.
func (i *TokenIssuer) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwtauth.VerifyToken(i.auth, tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	rawID, ok := token.Get("user_id")
	if !ok {
		return nil, fmt.Errorf("%w: user_id claim is missing", ErrInvalidToken)
	}
	userID, err := claimInt64(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	rawName, _ := token.Get("username")
	username, ok := rawName.(string)
	if !ok || username == "" {
		return nil, fmt.Errorf("%w: username claim is missing or not a string", ErrInvalidToken)
	}

	if token.Expiration().IsZero() {
		return nil, fmt.Errorf("%w: exp claim is missing", ErrInvalidToken)
	}

	return &SessionClaims{
		UserID:    userID,
		Username:  username,
		IssuedAt:  token.IssuedAt(),
		ExpiresAt: token.Expiration(),
	}, nil
}

func claimInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case float64:
		if n != float64(int64(n)) {
			return 0, errors.New("user_id claim is not an integer")
		}
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case json.Number:
		return n.Int64()
	}
	return 0, fmt.Errorf("user_id claim has unexpected type %T", v)
}
