package authn

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/usario/creators-services/models"
)

var ErrInvalidJWT = errors.New("invalid jwt token")
var ErrInvalidClaims = errors.New("invalid claims")

const (
	AccessToken  = "access"
	RefreshToken = "refresh"
)

type Claims struct {
	jwt.StandardClaims
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
}

// UserID returns the subject of the token as a UUID.
func (c Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidClaims
	}
	return id, nil
}

// IsAdmin reports whether the token belongs to an admin.
func (c Claims) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// TTL returns the time left before the token expires.
func (c Claims) TTL(now time.Time) time.Duration {
	return time.Unix(c.ExpiresAt, 0).Sub(now)
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenIssuer creates a TokenIssuer signing with secret.
func NewTokenIssuer(secret []byte, issuer string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     secret,
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Issue creates a new access/refresh token pair for the user.
func (t *TokenIssuer) Issue(user models.User) (*models.Session, error) {
	access, err := t.sign(user, AccessToken, t.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := t.sign(user, RefreshToken, t.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &models.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(t.accessTTL.Seconds()),
		TokenType:    "bearer",
	}, nil
}

func (t *TokenIssuer) sign(user models.User, tokenType string, ttl time.Duration) (string, error) {
	now := t.now().UTC()
	claims := Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Subject:   user.ID.String(),
			Issuer:    t.issuer,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		TokenType: tokenType,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// Parse verifies the token signature, expiry and issuer and returns its claims.
func (t *TokenIssuer) Parse(token string) (Claims, error) {
	claims := Claims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || parsed == nil || !parsed.Valid {
		return Claims{}, ErrInvalidJWT
	}

	if t.issuer != "" && claims.Issuer != t.issuer {
		return Claims{}, ErrInvalidClaims
	}
	if _, err := claims.UserID(); err != nil {
		return Claims{}, err
	}
	return claims, nil
}
