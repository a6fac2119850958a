package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/princinho/dealsbackend/apperror"
)

// DefaultTokenTTL is the lifetime of every issued session token.
const DefaultTokenTTL = 24 * time.Hour

type Claims struct {
	ID    uint     `json:"id"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates HS256 bearer tokens. Rotating the
// secret invalidates every outstanding token; there is no revocation list.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock returns a copy that reads time from now; used by tests.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	cp := *m
	cp.now = now
	return &cp
}

func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Issue signs a token for userID. roles may be nil, in which case the
// claim is omitted.
func (m *TokenManager) Issue(userID uint, roles []string) (string, error) {
	now := m.now()
	claims := Claims{
		ID:    userID,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *TokenManager) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &apperror.Error{Kind: apperror.KindUnauthenticated, Message: "token expired", Err: err}
		}
		return nil, &apperror.Error{Kind: apperror.KindUnauthenticated, Message: "invalid token", Err: err}
	}
	if !token.Valid || claims.ID == 0 {
		return nil, apperror.Unauthenticated("invalid token")
	}
	return claims, nil
}
