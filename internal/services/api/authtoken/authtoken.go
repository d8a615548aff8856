// Package authtoken issues and verifies the HS256 access tokens handed to
// signed-in users.
package authtoken

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/services/api/account"
)

const (
	// DefaultIssuer is the iss claim stamped on every token.
	DefaultIssuer = "xplorehub"
	// DefaultTTL is the access token lifetime.
	DefaultTTL = 24 * time.Hour
	// minSecretLength keeps HS256 keys at 256 bits.
	minSecretLength = 32
)

// ErrInvalid is returned for any token that fails verification.
var ErrInvalid = apperrors.New(apperrors.CodeAuthTokenInvalid, "access token is invalid")

// Config controls token signing.
type Config struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

// Claims are the verified identity carried by a token.
type Claims struct {
	UserID    string
	Email     string
	Name      string
	Role      account.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Manager signs and verifies tokens.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewManager validates cfg and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) < minSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes", minSecretLength)
	}
	issuer := strings.TrimSpace(cfg.Issuer)
	if issuer == "" {
		issuer = DefaultIssuer
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{secret: cfg.Secret, issuer: issuer, ttl: ttl, now: now}, nil
}

// Issue signs a token for user.
func (m *Manager) Issue(user account.User) (string, Claims, error) {
	issuedAt := m.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(m.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: user.Email,
		Name:  user.Name,
		Role:  string(user.Role),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, Claims{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify parses token and validates signature, issuer and expiry.
func (m *Manager) Verify(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, ErrInvalid
	}
	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return Claims{}, apperrors.New(apperrors.CodeAuthTokenInvalid, "access token sub is required")
	}
	role, err := account.ParseRole(parsed.Role)
	if err != nil {
		return Claims{}, apperrors.Wrap(apperrors.CodeAuthTokenInvalid, "access token role is invalid", err)
	}
	claims := Claims{
		UserID:    parsed.Subject,
		Email:     parsed.Email,
		Name:      parsed.Name,
		Role:      role,
		ExpiresAt: parsed.ExpiresAt.Time.UTC(),
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.Wrap(apperrors.CodeAuthTokenInvalid, "access token is expired", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return apperrors.Wrap(apperrors.CodeAuthTokenInvalid, "access token signature is invalid", err)
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return apperrors.Wrap(apperrors.CodeAuthTokenInvalid, "access token issuer mismatch", err)
	default:
		return apperrors.Wrap(apperrors.CodeAuthTokenInvalid, "access token is malformed", err)
	}
}
