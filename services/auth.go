package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/database"
	"storefront/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const adminSubject = "admin"

type AdminClaims struct {
	jwt.RegisteredClaims
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AdminAuth checks the admin password against a bcrypt hash and issues
// signed session tokens that can be revoked before they expire.
type AdminAuth struct {
	store        database.Store
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	log          *zap.Logger
	now          func() time.Time
}

func NewAdminAuth(store database.Store, passwordHash, secret string, ttl time.Duration, log *zap.Logger) (*AdminAuth, error) {
	if secret == "" {
		return nil, errors.New("admin jwt secret is required")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if passwordHash == "" {
		log.Warn("no admin password hash configured, admin login is disabled")
	}
	return &AdminAuth{
		store:        store,
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
		ttl:          ttl,
		log:          log,
		now:          time.Now,
	}, nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (a *AdminAuth) Login(password string) (*Session, error) {
	if len(a.passwordHash) == 0 {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := a.now()
	expires := now.Add(a.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   adminSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	return &Session{Token: signed, ExpiresAt: expires}, nil
}

// Verify accepts a token that is well signed, unexpired and not revoked.
func (a *AdminAuth) Verify(ctx context.Context, tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject != adminSubject || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	_, err = a.store.Get(ctx, database.RevokedTokensCollection, claims.ID)
	switch {
	case err == nil:
		return nil, ErrTokenRevoked
	case !errors.Is(err, database.ErrNotFound):
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	return claims, nil
}

func (a *AdminAuth) Logout(ctx context.Context, claims *AdminClaims) error {
	revoked := models.RevokedToken{RevokedAt: a.now().UTC()}
	if claims.ExpiresAt != nil {
		revoked.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	if err := a.store.Set(ctx, database.RevokedTokensCollection, claims.ID, revoked, false); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
