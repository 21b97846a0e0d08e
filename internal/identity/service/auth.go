package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/driftlock/identity/internal/identity/domain"
	"github.com/driftlock/identity/internal/identity/store"
	"github.com/driftlock/identity/internal/observability/metrics"
	"github.com/driftlock/identity/pkg/cryptox"
	"github.com/driftlock/identity/pkg/idx"
	"github.com/driftlock/identity/pkg/slogx"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ErrMissingFields = errors.New("all fields are required")
	ErrInvalidInput  = errors.New("invalid input")

	ErrUserExists = errors.New("user with this email already exists")

	// Login and logout keep distinct failure messages, mirroring the
	// behaviour this service replaces. The HTTP layer maps both onto the
	// same status code.
	ErrUserNotFound    = errors.New("user with this email does not exist")
	ErrInvalidPassword = errors.New("invalid password")
)

// AuthService implements the three user-facing authentication operations.
// It holds no per-request state and is safe for concurrent use; the store is
// the only shared resource and provides its own concurrency control.
type AuthService struct {
	Store store.Store
}

// Register creates a new user account.
// It performs the following steps:
// 1. Validates the input fields
// 2. Normalizes username and email
// 3. Checks for an existing user with the same email (fast path only)
// 4. Hashes the password
// 5. Inserts the record; the store's unique constraints are the authoritative
//    duplicate check, so a race past step 3 still yields exactly one account
func (s *AuthService) Register(
	ctx context.Context,
	username, email, password string,
) (domain.PublicUser, error) {
	log := slogx.FromContext(ctx)
	timer := prometheus.NewTimer(metrics.AuthOperationDurationSeconds.WithLabelValues("register"))
	defer timer.ObserveDuration()

	// 1. Validate input
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		log.Warn("registration missing required fields")
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return domain.PublicUser{}, ErrMissingFields
	}

	// 2. Normalize before any lookup or storage
	username = domain.Normalize(username)
	email = domain.Normalize(email)

	if err := validateRegistration(username, email, password); err != nil {
		log.Warn("registration validation failed",
			slog.String("username", username),
			slog.Any("error", err),
		)
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return domain.PublicUser{}, err
	}

	// 3. Best-effort existence check for a friendly conflict on the common
	// path. Uniqueness is ultimately enforced by the store at insert time.
	_, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		log.Warn("registration attempted with existing email",
			slog.String("username", username),
		)
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeConflict).Inc()
		return domain.PublicUser{}, ErrUserExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check for existing user", slog.Any("error", err))
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return domain.PublicUser{}, fmt.Errorf("check existing user: %w", err)
	}

	// 4. Hash the password. Hashing happens here, explicitly, and nowhere
	// else; the store only ever sees the hash.
	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return domain.PublicUser{}, fmt.Errorf("hash password: %w", err)
	}

	// 5. Insert. A unique-constraint violation here means another request
	// won the race since step 3 and is reported as the same conflict.
	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}

	created, err := s.Store.Users().CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("registration lost uniqueness race",
				slog.String("username", username),
			)
			metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeConflict).Inc()
			return domain.PublicUser{}, ErrUserExists
		}
		log.Error("failed to create user",
			slog.String("username", username),
			slog.Any("error", err),
		)
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return domain.PublicUser{}, fmt.Errorf("create user: %w", err)
	}

	log.Info("user registered",
		slog.String("user_id", created.ID),
		slog.String("username", created.Username),
	)
	metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()

	return created.Public(), nil
}

// Login authenticates a user by email and password. It has no durable side
// effect on the user record.
func (s *AuthService) Login(
	ctx context.Context,
	email, password string,
) (domain.PublicUser, error) {
	log := slogx.FromContext(ctx)
	timer := prometheus.NewTimer(metrics.AuthOperationDurationSeconds.WithLabelValues("login"))
	defer timer.ObserveDuration()

	// 1. Validate input
	if strings.TrimSpace(email) == "" || password == "" {
		log.Warn("login missing required fields")
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return domain.PublicUser{}, ErrMissingFields
	}

	// 2. Normalize and look up
	email = domain.Normalize(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("login attempted with unknown email")
			metrics.LoginsTotal.WithLabelValues(metrics.OutcomeDenied).Inc()
			return domain.PublicUser{}, ErrUserNotFound
		}
		log.Error("failed to fetch user for login", slog.Any("error", err))
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return domain.PublicUser{}, fmt.Errorf("fetch user: %w", err)
	}

	// 3. Verify the password against the stored hash
	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Warn("login failed: invalid password",
				slog.String("user_id", user.ID),
			)
			metrics.LoginsTotal.WithLabelValues(metrics.OutcomeDenied).Inc()
			return domain.PublicUser{}, ErrInvalidPassword
		}
		log.Error("failed to verify password",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return domain.PublicUser{}, fmt.Errorf("verify password: %w", err)
	}

	log.Info("login success",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	metrics.LoginsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()

	return user.Public(), nil
}

// Logout acknowledges a logout for a known user. There is no session state to
// invalidate; this is an existence check and nothing more.
func (s *AuthService) Logout(ctx context.Context, email string) error {
	log := slogx.FromContext(ctx)
	timer := prometheus.NewTimer(metrics.AuthOperationDurationSeconds.WithLabelValues("logout"))
	defer timer.ObserveDuration()

	if strings.TrimSpace(email) == "" {
		metrics.LogoutsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return ErrMissingFields
	}

	email = domain.Normalize(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("logout attempted for unknown email")
			metrics.LogoutsTotal.WithLabelValues(metrics.OutcomeDenied).Inc()
			return ErrUserNotFound
		}
		log.Error("failed to fetch user for logout", slog.Any("error", err))
		metrics.LogoutsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return fmt.Errorf("fetch user: %w", err)
	}

	log.Info("logout acknowledged", slog.String("user_id", user.ID))
	metrics.LogoutsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()

	return nil
}

// validateRegistration checks the field rules on already-normalized input.
func validateRegistration(username, email, password string) error {
	if len(username) < domain.UsernameMinLen || len(username) > domain.UsernameMaxLen {
		return fmt.Errorf("%w: username must be %d-%d characters",
			ErrInvalidInput, domain.UsernameMinLen, domain.UsernameMaxLen)
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: email is malformed", ErrInvalidInput)
	}
	if len(password) < domain.PasswordMinLen || len(password) > domain.PasswordMaxLen {
		return fmt.Errorf("%w: password must be %d-%d characters",
			ErrInvalidInput, domain.PasswordMinLen, domain.PasswordMaxLen)
	}
	return nil
}
