package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"expense-ledger/internal/domain"
	"expense-ledger/internal/repository"
)

// AuthService manages account registration and stateless token auth.
type AuthService interface {
	Signup(ctx context.Context, email, password string) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (string, error)
	Authenticate(authHeader string) (string, error)
}

type authService struct {
	accounts repository.AccountRepository
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(accounts repository.AccountRepository, secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		accounts: accounts,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

func (s *authService) Signup(ctx context.Context, email, password string) (*domain.Account, error) {
	email = strings.TrimSpace(email)

	if email == "" {
		return nil, fmt.Errorf("email is required: %w", domain.ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("password is required: %w", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	return sanitizeAccount(account), nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return "", fmt.Errorf("email and password are required: %w", domain.ErrValidation)
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("invalid credentials: %w", domain.ErrAuth)
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials: %w", domain.ErrAuth)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   account.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Authenticate validates a bearer token and returns the embedded account id.
// Pure computation, no store lookup: validity is signature plus expiry.
func (s *authService) Authenticate(authHeader string) (string, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(authHeader), "Bearer "))
	if raw == "" {
		return "", fmt.Errorf("missing bearer token: %w", domain.ErrAuth)
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%v: %w", err, domain.ErrInvalidToken)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject: %w", domain.ErrInvalidToken)
	}
	return claims.Subject, nil
}

func sanitizeAccount(account *domain.Account) *domain.Account {
	if account == nil {
		return nil
	}
	return &domain.Account{
		ID:        account.ID,
		Email:     account.Email,
		CreatedAt: account.CreatedAt,
	}
}
