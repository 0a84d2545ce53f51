package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/optima-platform/ledger/internal/auth"
	"github.com/optima-platform/ledger/internal/models"
	"github.com/optima-platform/ledger/internal/repository"
	"github.com/shopspring/decimal"
)

// RegisterRequest carries a new user's identity and password
type RegisterRequest struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// AuthService verifies credentials and issues session tokens
type AuthService struct {
	accounts repository.AccountRepository
	hasher   auth.Hasher
	issuer   *auth.TokenIssuer
	admins   map[string]string
	logger   *slog.Logger
}

// NewAuthService creates a new AuthService. admins maps lower-case email to
// an encoded password hash.
func NewAuthService(
	accounts repository.AccountRepository,
	hasher auth.Hasher,
	issuer *auth.TokenIssuer,
	admins map[string]string,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		accounts: accounts,
		hasher:   hasher,
		issuer:   issuer,
		admins:   admins,
		logger:   logger,
	}
}

var errInvalidCredentials = &ServiceError{
	Code:    ErrCodeInvalidCredentials,
	Message: "invalid email or password",
}

// Register creates an account with zero balance and signs the user in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	email := normaliseEmail(req.Email)
	for _, field := range [][2]string{{"first name", req.FirstName}, {"last name", req.LastName}, {"email", email}} {
		if err := requireText(field[0], field[1]); err != nil {
			return nil, err
		}
	}
	if !strings.Contains(email, "@") {
		return nil, validationError("invalid email")
	}
	if len(req.Password) < minPasswordLength {
		return nil, validationError("invalid password: at least %d characters", minPasswordLength)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, &ServiceError{Code: ErrCodeInternalError, Message: "failed to hash password", Err: err}
	}

	account := &models.Account{
		Email:          email,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		PasswordHash:   hash,
		Balance:        decimal.Zero,
		InitialBalance: decimal.Zero,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, models.ErrDuplicateAccount) {
			return nil, &ServiceError{Code: ErrCodeEmailTaken, Message: "email is already registered"}
		}
		return nil, storeUnavailable("failed to create account", err)
	}

	s.logger.Info("account registered", "account_id", account.ID)
	return s.userSession(account)
}

// Login exchanges user credentials for a session
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	account, err := s.accounts.FindByEmail(ctx, normaliseEmail(email))
	if errors.Is(err, models.ErrNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, storeUnavailable("failed to read account", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.logger.Info("login rejected", "account_id", account.ID)
		return nil, errInvalidCredentials
	}

	return s.userSession(account)
}

// AdminLogin exchanges configured operator credentials for an admin session
func (s *AuthService) AdminLogin(_ context.Context, email, password string) (*Session, error) {
	email = normaliseEmail(email)
	hash, ok := s.admins[email]
	if !ok || !s.hasher.Verify(password, hash) {
		s.logger.Warn("admin login rejected", "email", email)
		return nil, errInvalidCredentials
	}

	token, expires, err := s.issuer.Issue(auth.Identity{Subject: email, Email: email, Role: auth.RoleAdmin})
	if err != nil {
		return nil, &ServiceError{Code: ErrCodeInternalError, Message: "failed to issue token", Err: err}
	}
	return &Session{Token: token, ExpiresAt: expires, Role: auth.RoleAdmin}, nil
}

func (s *AuthService) userSession(account *models.Account) (*Session, error) {
	token, expires, err := s.issuer.Issue(auth.Identity{
		Subject:   account.ID.String(),
		Email:     account.Email,
		Role:      auth.RoleUser,
		AccountID: account.ID,
	})
	if err != nil {
		return nil, &ServiceError{Code: ErrCodeInternalError, Message: "failed to issue token", Err: err}
	}
	return &Session{Token: token, ExpiresAt: expires, Role: auth.RoleUser, Account: account}, nil
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
