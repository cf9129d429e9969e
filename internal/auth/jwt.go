package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	MinSecretLength = 32

	tokenTypeAccess = "access"
)

var (
	// ErrInvalidToken is the only error callers see from verification. The wrapped cause is for logs.
	ErrInvalidToken = errors.New("invalid or missing token")

	ErrWeakSecret     = fmt.Errorf("jwt secret must be at least %d characters", MinSecretLength)
	ErrInvalidOptions = errors.New("invalid token options")
)

type Claims struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// UserID parses the numeric subject.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("subject is not a user id")
	}
	return id, nil
}

type Options struct {
	Secret   string
	TTL      time.Duration
	Audience string
	Issuer   string
}

type Manager struct {
	secret   []byte
	ttl      time.Duration
	audience string
	issuer   string

	now func() time.Time
}

func NewManager(opts Options) (*Manager, error) {
	if len(opts.Secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}

	if opts.TTL <= 0 {
		return nil, fmt.Errorf("%w: ttl must be positive", ErrInvalidOptions)
	}

	if opts.Audience == "" || opts.Issuer == "" {
		return nil, fmt.Errorf("%w: audience and issuer are required", ErrInvalidOptions)
	}

	return &Manager{
		secret:   []byte(opts.Secret),
		ttl:      opts.TTL,
		audience: opts.Audience,
		issuer:   opts.Issuer,
		now:      time.Now,
	}, nil
}

func (m *Manager) GenerateAccessToken(userID int64, email, role string) (string, error) {
	now := m.now().UTC()

	claims := Claims{
		Email:     email,
		Role:      role,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			Audience:  jwt.ClaimStrings{m.audience},
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) ParseAndValidate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(m.audience),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// VerifyAccessToken validates signature, algorithm, audience, issuer and expiry.
// Every failure is reported as ErrInvalidToken.
func (m *Manager) VerifyAccessToken(tokenStr string) (*Claims, error) {
	claims, err := m.ParseAndValidate(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.TokenType != tokenTypeAccess {
		return nil, fmt.Errorf("%w: wrong token type", ErrInvalidToken)
	}

	if _, err := claims.UserID(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return claims, nil
}
