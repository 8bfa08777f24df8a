// Package auth issues and verifies bearer tokens and manages registration
// and sign-in against locally stored accounts.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"smartgriev/backend/internal/apperr"
	"smartgriev/backend/internal/models"
	"smartgriev/backend/internal/storage"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const DefaultIssuer = "smartgriev-service"

var ErrInvalidCredentials = errors.New("invalid credentials")

// Identity is what a verified credential resolves to.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Provider is the identity collaborator: it creates identities, exchanges
// credentials for sessions and resolves bearer tokens.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*Identity, *Session, error)
	SignIn(ctx context.Context, email, password string) (*Identity, *Session, error)
	Verify(ctx context.Context, token string) (*Identity, error)
}

// AccountStore persists credentials for LocalProvider.
type AccountStore interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
}

// Claims are the JWT claims issued by LocalProvider. Subject is the
// identity ID.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// LocalProvider keeps bcrypt-hashed accounts and signs HS256 tokens.
type LocalProvider struct {
	Accounts AccountStore
	Secret   []byte
	TTL      time.Duration
	Issuer   string
	Cost     int
	Now      func() time.Time
}

func NewLocalProvider(accounts AccountStore, secret string, ttl time.Duration, issuer string) *LocalProvider {
	if issuer == "" {
		issuer = DefaultIssuer
	}
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &LocalProvider{
		Accounts: accounts,
		Secret:   []byte(secret),
		TTL:      ttl,
		Issuer:   issuer,
		Cost:     bcrypt.DefaultCost,
		Now:      time.Now,
	}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*Identity, *Session, error) {
	email = NormalizeEmail(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, nil, apperr.Validation("Password is too long")
	}
	if err != nil {
		return nil, nil, apperr.Internal("failed to hash password", err)
	}

	account := &models.Account{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := p.Accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, nil, apperr.Validation("User already registered")
		}
		return nil, nil, apperr.Persistence("failed to create account", err)
	}

	identity := &Identity{ID: account.ID, Email: account.Email}
	session, err := p.issue(identity)
	if err != nil {
		return nil, nil, err
	}
	return identity, session, nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Identity, *Session, error) {
	account, err := p.Accounts.GetAccountByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, &apperr.Error{Kind: apperr.KindAuth, Message: "Invalid credentials", Cause: ErrInvalidCredentials}
	}
	if err != nil {
		return nil, nil, apperr.Persistence("failed to load account", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, nil, &apperr.Error{Kind: apperr.KindAuth, Message: "Invalid credentials", Cause: ErrInvalidCredentials}
	}

	identity := &Identity{ID: account.ID, Email: account.Email}
	session, err := p.issue(identity)
	if err != nil {
		return nil, nil, err
	}
	return identity, session, nil
}

func (p *LocalProvider) Verify(_ context.Context, token string) (*Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) { return p.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.Now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, apperr.Auth("Invalid or expired token")
	}
	return &Identity{ID: claims.Subject, Email: claims.Email}, nil
}

func (p *LocalProvider) issue(identity *Identity) (*Session, error) {
	now := p.Now()
	expires := now.Add(p.TTL)

	claims := Claims{
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			Issuer:    p.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.Secret)
	if err != nil {
		return nil, apperr.Internal("failed to create token", err)
	}
	return &Session{AccessToken: signed, TokenType: "bearer", ExpiresAt: expires}, nil
}
