package service_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WooodHead/blog-be-next/internal/config"
	"github.com/WooodHead/blog-be-next/internal/models"
	"github.com/WooodHead/blog-be-next/internal/repository"
	"github.com/WooodHead/blog-be-next/internal/security"
	"github.com/WooodHead/blog-be-next/internal/service"
)

// memoryUserStore mirrors the repository's contract, including the
// conditional remove-if-present semantics of ConsumeRecoveryCode.
type memoryUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[string]models.User)}
}

func (s *memoryUserStore) Create(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return repository.ErrDuplicateUser
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = user
	return nil
}

func (s *memoryUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s *memoryUserStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s *memoryUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (s *memoryUserStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s *memoryUserStore) SetTOTPSecret(_ context.Context, id string, secret string) (models.User, error) {
	return s.update(id, func(u *models.User) error {
		u.TOTPSecret = secret
		return nil
	})
}

func (s *memoryUserStore) EnableTOTP(_ context.Context, id string) (models.User, error) {
	return s.update(id, func(u *models.User) error {
		u.TOTPEnabled = true
		return nil
	})
}

func (s *memoryUserStore) SetRecoveryCodes(_ context.Context, id string, codes []string) (models.User, error) {
	return s.update(id, func(u *models.User) error {
		u.RecoveryCodes = append([]string(nil), codes...)
		return nil
	})
}

func (s *memoryUserStore) ConsumeRecoveryCode(_ context.Context, id string, code string) (models.User, error) {
	return s.update(id, func(u *models.User) error {
		for i, c := range u.RecoveryCodes {
			if c == code {
				u.RecoveryCodes = append(u.RecoveryCodes[:i], u.RecoveryCodes[i+1:]...)
				return nil
			}
		}
		return repository.ErrRecoveryCodeNotFound
	})
}

func (s *memoryUserStore) update(id string, fn func(*models.User) error) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	// The struct copy above shares its slice backing with the stored
	// record; detach it so fn never mutates codes a caller still holds.
	u.RecoveryCodes = append([]string(nil), u.RecoveryCodes...)
	if err := fn(&u); err != nil {
		return models.User{}, err
	}
	u.UpdatedAt = time.Now()
	s.users[id] = u
	return u, nil
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Security: config.SecurityConfig{
			JWTSecret:  "test-signing-secret-at-least-32-bytes",
			JWTTTL:     time.Hour,
			TOTPIssuer: "Yancey Inc.",
		},
	}
}

func newTestAuthService() (*service.AuthService, *memoryUserStore) {
	store := newMemoryUserStore()
	return service.NewAuthService(store, testConfig(), zerolog.Nop()), store
}

func register(t *testing.T, svc *service.AuthService, email, username, password string) service.AuthResult {
	t.Helper()
	result, err := svc.Register(context.Background(), service.RegisterInput{
		Email:    email,
		Username: username,
		Password: password,
	})
	require.NoError(t, err)
	return result
}

func TestRegisterBootstrapRole(t *testing.T) {
	t.Parallel()
	svc, _ := newTestAuthService()

	first := register(t, svc, "a@x.com", "alice", "password1")
	assert.Equal(t, models.UserRoleSuperuser, first.User.Role)
	assert.NotEmpty(t, first.Token)

	second := register(t, svc, "b@x.com", "bob", "password2")
	assert.Equal(t, models.UserRoleUser, second.User.Role)
}

func TestRegisterConflicts(t *testing.T) {
	t.Parallel()
	svc, _ := newTestAuthService()

	register(t, svc, "a@x.com", "alice", "password1")

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Email:    "a@x.com",
		Username: "someone-else",
		Password: "password2",
	})
	assert.ErrorIs(t, err, service.ErrAlreadyRegistered)

	_, err = svc.Register(context.Background(), service.RegisterInput{
		Email:    "fresh@x.com",
		Username: "alice",
		Password: "password2",
	})
	assert.ErrorIs(t, err, service.ErrAlreadyRegistered)

	// Only the first user ever gets the elevated role, even after
	// failed attempts in between.
	third := register(t, svc, "c@x.com", "carol", "password3")
	assert.Equal(t, models.UserRoleUser, third.User.Role)
}

func TestLogin(t *testing.T) {
	t.Parallel()
	svc, _ := newTestAuthService()

	registered := register(t, svc, "a@x.com", "alice", "password1")

	t.Run("success", func(t *testing.T) {
		result, err := svc.Login(context.Background(), service.LoginInput{
			Email:    "a@x.com",
			Password: "password1",
		})
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, result.User.ID)

		claims, err := security.ParseAccessToken(result.Token, testConfig().Security.JWTSecret)
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, claims.Subject)
		assert.Equal(t, "a@x.com", claims.Email)
	})

	t.Run("email is normalized", func(t *testing.T) {
		_, err := svc.Login(context.Background(), service.LoginInput{
			Email:    "  A@X.COM ",
			Password: "password1",
		})
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), service.LoginInput{
			Email:    "a@x.com",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email collapses to same error", func(t *testing.T) {
		_, err := svc.Login(context.Background(), service.LoginInput{
			Email:    "nobody@x.com",
			Password: "password1",
		})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestAuthResultIsSanitized(t *testing.T) {
	t.Parallel()
	svc, store := newTestAuthService()

	result := register(t, svc, "a@x.com", "alice", "password1")

	// Give the stored record every sensitive field, then re-authenticate
	// and inspect the serialized response.
	_, err := store.SetTOTPSecret(context.Background(), result.User.ID, "ABCDEFGHIJKLMNOP")
	require.NoError(t, err)
	_, err = store.SetRecoveryCodes(context.Background(), result.User.ID, []string{"AAAA1111BBBB2222"})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), service.LoginInput{Email: "a@x.com", Password: "password1"})
	require.NoError(t, err)

	payload, err := json.Marshal(login)
	require.NoError(t, err)

	body := string(payload)
	assert.NotContains(t, body, "passwordHash")
	assert.NotContains(t, body, "totpSecret")
	assert.NotContains(t, body, "recoveryCodes")
	assert.NotContains(t, body, "ABCDEFGHIJKLMNOP")
	assert.NotContains(t, body, "AAAA1111BBBB2222")
}

func TestCreateAndValidateTOTP(t *testing.T) {
	t.Parallel()
	svc, store := newTestAuthService()

	user := register(t, svc, "a@x.com", "alice", "password1").User

	enrollment, err := svc.CreateTOTP(context.Background(), user.ID, user.Email)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(enrollment.QRCode, "data:image/png;base64,"))
	assert.Regexp(t, "^[A-Z2-7]+$", enrollment.SecretKey)

	stored, err := store.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.SecretKey, stored.TOTPSecret)
	assert.False(t, stored.TOTPEnabled, "enrollment alone must not enable totp")

	t.Run("wrong code fails and leaves flag unchanged", func(t *testing.T) {
		code, err := security.GenerateTOTPCode(enrollment.SecretKey, time.Now())
		require.NoError(t, err)
		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}

		_, err = svc.ValidateTOTP(context.Background(), user.ID, wrong)
		assert.ErrorIs(t, err, service.ErrTwoFactorFailed)

		stored, err := store.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.False(t, stored.TOTPEnabled)
	})

	t.Run("correct code verifies and enables totp", func(t *testing.T) {
		code, err := security.GenerateTOTPCode(enrollment.SecretKey, time.Now())
		require.NoError(t, err)

		result, err := svc.ValidateTOTP(context.Background(), user.ID, code)
		require.NoError(t, err)
		assert.True(t, result.User.TOTPEnabled)
		assert.NotEmpty(t, result.Token)

		// Same code, same window: still verifies per the tolerance
		// window; the flag stays enabled.
		again, err := svc.ValidateTOTP(context.Background(), user.ID, code)
		require.NoError(t, err)
		assert.True(t, again.User.TOTPEnabled)
	})

	t.Run("re-enrollment overwrites the secret", func(t *testing.T) {
		second, err := svc.CreateTOTP(context.Background(), user.ID, user.Email)
		require.NoError(t, err)
		assert.NotEqual(t, enrollment.SecretKey, second.SecretKey)

		stored, err := store.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, second.SecretKey, stored.TOTPSecret)

		// Codes from the stale secret no longer verify.
		staleCode, err := security.GenerateTOTPCode(enrollment.SecretKey, time.Now())
		require.NoError(t, err)
		freshCode, err := security.GenerateTOTPCode(second.SecretKey, time.Now())
		require.NoError(t, err)
		if staleCode != freshCode {
			_, err = svc.ValidateTOTP(context.Background(), user.ID, staleCode)
			assert.ErrorIs(t, err, service.ErrTwoFactorFailed)
		}
	})
}

func TestRecoveryCodeLifecycle(t *testing.T) {
	t.Parallel()
	svc, store := newTestAuthService()

	user := register(t, svc, "a@x.com", "alice", "password1").User

	updated, err := svc.CreateRecoveryCodes(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, updated.RecoveryCodes, security.RecoveryCodeBatchSize)

	codes := updated.RecoveryCodes
	issued := append([]string(nil), codes...)

	t.Run("redeeming a code authenticates and consumes it", func(t *testing.T) {
		result, err := svc.ValidateRecoveryCode(context.Background(), user.ID, codes[2])
		require.NoError(t, err)
		assert.Equal(t, user.ID, result.User.ID)
		assert.NotEmpty(t, result.Token)

		stored, err := store.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Len(t, stored.RecoveryCodes, security.RecoveryCodeBatchSize-1)
		assert.NotContains(t, stored.RecoveryCodes, codes[2])
	})

	t.Run("consumption leaves the caller's copy of the batch intact", func(t *testing.T) {
		assert.Equal(t, issued, codes)
	})

	t.Run("a spent code cannot be replayed", func(t *testing.T) {
		_, err := svc.ValidateRecoveryCode(context.Background(), user.ID, codes[2])
		assert.ErrorIs(t, err, service.ErrTwoFactorFailed)
	})

	t.Run("all other codes remain valid", func(t *testing.T) {
		_, err := svc.ValidateRecoveryCode(context.Background(), user.ID, codes[0])
		assert.NoError(t, err)
		_, err = svc.ValidateRecoveryCode(context.Background(), user.ID, codes[9])
		assert.NoError(t, err)
	})

	t.Run("unknown code fails", func(t *testing.T) {
		_, err := svc.ValidateRecoveryCode(context.Background(), user.ID, "NOT-A-REAL-CODE0")
		assert.ErrorIs(t, err, service.ErrTwoFactorFailed)
	})

	t.Run("reissuing replaces the whole set", func(t *testing.T) {
		reissued, err := svc.CreateRecoveryCodes(context.Background(), user.ID)
		require.NoError(t, err)
		require.Len(t, reissued.RecoveryCodes, security.RecoveryCodeBatchSize)

		// A code from the old batch is gone after reissue.
		_, err = svc.ValidateRecoveryCode(context.Background(), user.ID, codes[5])
		assert.ErrorIs(t, err, service.ErrTwoFactorFailed)
	})
}

// Mirrors the end-to-end scenario: bootstrap, second registration,
// login both ways, enrollment, verification and recovery redemption.
func TestFullAuthenticationScenario(t *testing.T) {
	t.Parallel()
	svc, _ := newTestAuthService()
	ctx := context.Background()

	alice := register(t, svc, "a@x.com", "alice", "password1")
	require.Equal(t, models.UserRoleSuperuser, alice.User.Role)

	bob := register(t, svc, "b@x.com", "bob", "password2")
	require.Equal(t, models.UserRoleUser, bob.User.Role)

	login, err := svc.Login(ctx, service.LoginInput{Email: "a@x.com", Password: "password1"})
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)

	_, err = svc.Login(ctx, service.LoginInput{Email: "a@x.com", Password: "wrong"})
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	enrollment, err := svc.CreateTOTP(ctx, alice.User.ID, alice.User.Email)
	require.NoError(t, err)

	code, err := security.GenerateTOTPCode(enrollment.SecretKey, time.Now())
	require.NoError(t, err)

	verified, err := svc.ValidateTOTP(ctx, alice.User.ID, code)
	require.NoError(t, err)
	require.True(t, verified.User.TOTPEnabled)

	withCodes, err := svc.CreateRecoveryCodes(ctx, alice.User.ID)
	require.NoError(t, err)
	require.Len(t, withCodes.RecoveryCodes, 10)

	first := withCodes.RecoveryCodes[0]
	_, err = svc.ValidateRecoveryCode(ctx, alice.User.ID, first)
	require.NoError(t, err)

	_, err = svc.ValidateRecoveryCode(ctx, alice.User.ID, first)
	require.ErrorIs(t, err, service.ErrTwoFactorFailed)
}
