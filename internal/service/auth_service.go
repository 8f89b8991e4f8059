package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/WooodHead/blog-be-next/internal/config"
	"github.com/WooodHead/blog-be-next/internal/ids"
	"github.com/WooodHead/blog-be-next/internal/models"
	"github.com/WooodHead/blog-be-next/internal/qrcode"
	"github.com/WooodHead/blog-be-next/internal/repository"
	"github.com/WooodHead/blog-be-next/internal/security"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password, so a caller cannot tell which field was off.
	ErrInvalidCredentials = errors.New("your email and password do not match")
	ErrAlreadyRegistered  = errors.New("email or username is already registered")
	ErrTwoFactorFailed    = errors.New("two factor authentication failed")
)

// UserStore is the credential-store contract the orchestrator depends
// on. *repository.UserRepository is the production implementation; the
// mutating operations must be atomic per user record.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	Count(ctx context.Context) (int64, error)
	SetTOTPSecret(ctx context.Context, id string, secret string) (models.User, error)
	EnableTOTP(ctx context.Context, id string) (models.User, error)
	SetRecoveryCodes(ctx context.Context, id string, codes []string) (models.User, error)
	ConsumeRecoveryCode(ctx context.Context, id string, code string) (models.User, error)
}

type AuthService struct {
	users UserStore
	cfg   *config.AppConfig
	log   zerolog.Logger
}

func NewAuthService(users UserStore, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users: users,
		cfg:   cfg,
		log:   log,
	}
}

// AuthResult is returned by every operation that authenticates or
// re-authenticates the user: a signed bearer token plus the sanitized
// user projection.
type AuthResult struct {
	Token string            `json:"authorization"`
	User  models.PublicUser `json:"user"`
}

func (s *AuthService) issueToken(user models.User) (AuthResult, error) {
	token, err := security.GenerateAccessToken(
		s.cfg.Security.JWTSecret,
		user.ID,
		user.Email,
		s.cfg.Security.JWTTTL,
	)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}

	return AuthResult{Token: token, User: user.Public()}, nil
}

type LoginInput struct {
	Email    string
	Password string
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	input.Email = normalizeEmail(input.Email)

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	if !security.VerifyPassword(input.Password, user.PasswordHash) {
		return AuthResult{}, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	input.Email = normalizeEmail(input.Email)
	input.Username = strings.TrimSpace(input.Username)

	if input.Email == "" || input.Username == "" || input.Password == "" {
		return AuthResult{}, fmt.Errorf("email, username and password required")
	}

	// Either collision blocks registration; checked independently so a
	// reused username is caught even under a fresh email.
	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return AuthResult{}, ErrAlreadyRegistered
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return AuthResult{}, err
	}
	if _, err := s.users.FindByUsername(ctx, input.Username); err == nil {
		return AuthResult{}, ErrAlreadyRegistered
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return AuthResult{}, err
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return AuthResult{}, err
	}

	// Bootstrap rule: the very first account ever created receives the
	// elevated role. Never re-evaluated once a user exists.
	role := models.UserRoleUser
	count, err := s.users.Count(ctx)
	if err != nil {
		return AuthResult{}, err
	}
	if count == 0 {
		role = models.UserRoleSuperuser
	}

	user := models.User{
		ID:           ids.New(),
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: passwordHash,
		Role:         role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return AuthResult{}, ErrAlreadyRegistered
		}
		return AuthResult{}, err
	}

	return s.issueToken(user)
}

// TOTPEnrollment is handed back from CreateTOTP: a scannable QR data
// URI plus the raw secret for manual entry.
type TOTPEnrollment struct {
	QRCode    string `json:"qrcode"`
	SecretKey string `json:"secretKey"`
}

// CreateTOTP provisions a fresh shared secret for the user. The secret
// overwrites any prior enrollment; the enabled flag stays untouched
// until a verification succeeds.
func (s *AuthService) CreateTOTP(ctx context.Context, userID string, email string) (TOTPEnrollment, error) {
	secret, err := security.GenerateTOTPSecret()
	if err != nil {
		return TOTPEnrollment{}, err
	}

	uri, err := security.ProvisioningURI(secret, email, s.cfg.Security.TOTPIssuer)
	if err != nil {
		return TOTPEnrollment{}, err
	}

	if _, err := s.users.SetTOTPSecret(ctx, userID, secret); err != nil {
		return TOTPEnrollment{}, err
	}

	qr, err := qrcode.DataURI(uri)
	if err != nil {
		return TOTPEnrollment{}, err
	}

	return TOTPEnrollment{QRCode: qr, SecretKey: secret}, nil
}

func (s *AuthService) ValidateTOTP(ctx context.Context, userID string, code string) (AuthResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return AuthResult{}, err
	}

	verified, err := security.VerifyTOTP(user.TOTPSecret, code)
	if err != nil || !verified {
		return AuthResult{}, ErrTwoFactorFailed
	}

	// First successful verification activates two-factor protection.
	if !user.TOTPEnabled {
		user, err = s.users.EnableTOTP(ctx, userID)
		if err != nil {
			return AuthResult{}, err
		}
	}

	return s.issueToken(user)
}

// CreateRecoveryCodes issues a fresh batch of single-use backup codes,
// replacing any existing set. It does not itself authenticate.
func (s *AuthService) CreateRecoveryCodes(ctx context.Context, userID string) (models.User, error) {
	codes, err := security.GenerateRecoveryCodes(security.RecoveryCodeBatchSize)
	if err != nil {
		return models.User{}, err
	}

	return s.users.SetRecoveryCodes(ctx, userID, codes)
}

// ValidateRecoveryCode redeems one backup code. Removal happens as a
// conditional update in the store, so a code that was already spent
// fails here no matter how the requests interleave.
func (s *AuthService) ValidateRecoveryCode(ctx context.Context, userID string, code string) (AuthResult, error) {
	user, err := s.users.ConsumeRecoveryCode(ctx, userID, code)
	if err != nil {
		if errors.Is(err, repository.ErrRecoveryCodeNotFound) {
			return AuthResult{}, ErrTwoFactorFailed
		}
		return AuthResult{}, err
	}

	return s.issueToken(user)
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
