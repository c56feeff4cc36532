package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/carnage999-max/ultimate-app-manager/internal/domain"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 30 * 24 * time.Hour
)

// TokenManager issues and verifies the access/refresh token pair.
// Each kind is signed with its own key.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenManager builds a new manager. An empty refresh secret falls back to the access secret.
func NewTokenManager(accessSecret, refreshSecret string) *TokenManager {
	if refreshSecret == "" {
		refreshSecret = accessSecret
	}
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     AccessTokenTTL,
		refreshTTL:    RefreshTokenTTL,
		now:           time.Now,
	}
}

// Claims describes JWT payload.
type Claims struct {
	UserID string           `json:"userId"`
	Role   domain.Role      `json:"role"`
	Kind   domain.TokenKind `json:"typ"`
	jwt.RegisteredClaims
}

// Identity returns the caller encoded in the claims.
func (c *Claims) Identity() domain.Identity {
	return domain.Identity{UserID: c.UserID, Role: c.Role}
}

// IssueAccessToken signs a 15 minute access token.
func (tm *TokenManager) IssueAccessToken(id domain.Identity) (string, time.Time, error) {
	return tm.issue(id, domain.TokenKindAccess)
}

// IssueRefreshToken signs a 30 day refresh token.
func (tm *TokenManager) IssueRefreshToken(id domain.Identity) (string, time.Time, error) {
	return tm.issue(id, domain.TokenKindRefresh)
}

// Verify validates token against the key for kind. It never returns an error:
// a bad signature, malformed input, expiry or a kind mismatch all yield false.
func (tm *TokenManager) Verify(token string, kind domain.TokenKind) (*Claims, bool) {
	claims, err := tm.ParseToken(token, kind)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// ParseToken validates and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string, kind domain.TokenKind) (*Claims, error) {
	if tokenStr == "" {
		return nil, errors.New("empty token")
	}
	secret := tm.secretFor(kind)
	if secret == nil {
		return nil, errors.New("unknown token kind")
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithTimeFunc(tm.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Kind != kind {
		return nil, errors.New("token kind mismatch")
	}
	if claims.UserID == "" || !claims.Role.Valid() {
		return nil, errors.New("incomplete token claims")
	}
	return claims, nil
}

func (tm *TokenManager) issue(id domain.Identity, kind domain.TokenKind) (string, time.Time, error) {
	if id.UserID == "" {
		return "", time.Time{}, errors.New("missing user id")
	}
	ttl := tm.accessTTL
	if kind == domain.TokenKindRefresh {
		ttl = tm.refreshTTL
	}
	now := tm.now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		UserID: id.UserID,
		Role:   id.Role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secretFor(kind))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

func (tm *TokenManager) secretFor(kind domain.TokenKind) []byte {
	switch kind {
	case domain.TokenKindAccess:
		return tm.accessSecret
	case domain.TokenKindRefresh:
		return tm.refreshSecret
	default:
		return nil
	}
}
