package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/accountkit/pkg/dualtoken"
	"github.com/dmitrymomot/accountkit/pkg/jwt"
	"github.com/dmitrymomot/accountkit/pkg/ledger"
	"github.com/dmitrymomot/accountkit/pkg/logger"
)

// RegisterInput is the payload of a registration request.
type RegisterInput struct {
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,max=72,strongpassword"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	Role            Role   `json:"role"`
}

// LoginInput is the payload of a login request.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// PasswordInput is the payload of a password change request.
type PasswordInput struct {
	Password        string `json:"password" validate:"required,max=72,strongpassword"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// Session is returned on login and refresh.
type Session struct {
	User   *User         `json:"user"`
	Tokens jwt.TokenPair `json:"tokens"`
}

// Service implements registration, activation, login and password reset.
type Service struct {
	users    UserStore
	tokens   *dualtoken.Manager
	sessions *jwt.Service
	notifier Notifier
	validate *validator.Validate
	cost     int
	logger   *slog.Logger
	now      func() time.Time

	dummyHash func() []byte
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBcryptCost sets the bcrypt cost of new password hashes.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
		}
	}
}

// WithClock replaces time.Now for last login timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a Service.
func NewService(users UserStore, tokens *dualtoken.Manager, sessions *jwt.Service, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		users:    users,
		tokens:   tokens,
		sessions: sessions,
		notifier: notifier,
		validate: newValidator(),
		cost:     bcrypt.DefaultCost,
		logger:   logger.Discard(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Unknown emails are compared against this hash so that login takes
	// the same time whether or not the account exists.
	s.dummyHash = sync.OnceValue(func() []byte {
		h, _ := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.cost)
		return h
	})
	return s
}

// Register creates an inactive user and mails an activation link.
// Only the user role can be chosen.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := validate(s.validate, in); err != nil {
		return nil, err
	}
	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	switch {
	case in.Role == "":
		in.Role = RoleUser
	case !in.Role.Valid():
		return nil, ErrInvalidRole
	case in.Role != RoleUser:
		return nil, ErrRoleNotAllowed
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		ID:           uuid.New(),
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered",
		logger.Component("auth"),
		logger.UserID(u.ID.String()),
		logger.Email(u.Email),
	)

	// The account exists at this point; a failed mail is recoverable through
	// ResendActivation.
	if err := s.sendActivation(ctx, u); err != nil {
		s.logger.ErrorContext(ctx, "failed to send activation link",
			logger.Component("auth"),
			logger.UserID(u.ID.String()),
			logger.Error(err),
		)
	}
	return u, nil
}

// Activate redeems an activation link and activates its user.
func (s *Service) Activate(ctx context.Context, tokenA, tokenB string) (*User, error) {
	claim, err := s.tokens.VerifyAndResolve(ctx, tokenA, tokenB)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.ConsumeToken(ctx, claim.Identity.ID, claim.Fingerprint, ledger.EventActivate); err != nil {
		return nil, err
	}
	if err := s.users.SetActive(ctx, claim.Identity.ID, true); err != nil {
		return nil, fmt.Errorf("failed to activate user: %w", err)
	}

	s.logger.InfoContext(ctx, "user activated",
		logger.Component("auth"),
		logger.UserID(claim.Identity.ID.String()),
	)
	return s.users.GetByID(ctx, claim.Identity.ID)
}

// ResendActivation invalidates the outstanding activation links of an
// inactive user and mails a new one.
func (s *Service) ResendActivation(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}
	if u.IsActive {
		return ErrUserAlreadyActive
	}

	if err := s.tokens.InvalidateOutstanding(ctx, u.ID, ledger.EventActivate); err != nil {
		return fmt.Errorf("failed to invalidate activation links: %w", err)
	}
	return s.sendActivation(ctx, u)
}

// Login checks credentials and starts a session. Inactive users are refused.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := validate(s.validate, in); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("failed to load user: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash(), []byte(in.Password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrAccountInactive
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, u.ID, now); err != nil {
		s.logger.WarnContext(ctx, "failed to record last login",
			logger.Component("auth"),
			logger.UserID(u.ID.String()),
			logger.Error(err),
		)
	} else {
		u.LastLogin = &now
	}

	return s.startSession(u)
}

// Refresh exchanges a refresh token for a new session. The user must still
// exist and be active.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := s.sessions.Parse(refreshToken, jwt.RefreshToken)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, jwt.ErrInvalidToken
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, jwt.ErrInvalidToken
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrAccountInactive
	}

	return s.startSession(u)
}

// RequestPasswordReset mails a reset link to an active user. Unknown and
// inactive addresses are ignored so callers cannot probe for accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	switch {
	case errors.Is(err, ErrUserNotFound):
		s.logger.DebugContext(ctx, "password reset for unknown email", logger.Component("auth"))
		return nil
	case err != nil:
		return fmt.Errorf("failed to load user: %w", err)
	case !u.IsActive:
		s.logger.DebugContext(ctx, "password reset for inactive user",
			logger.Component("auth"),
			logger.UserID(u.ID.String()),
		)
		return nil
	}

	if err := s.tokens.InvalidateOutstanding(ctx, u.ID, ledger.EventResetPassword); err != nil {
		return fmt.Errorf("failed to invalidate reset links: %w", err)
	}

	pair, err := s.tokens.IssueTokenPair(ctx, identityOf(u), ledger.EventResetPassword)
	if err != nil {
		return fmt.Errorf("failed to issue reset link: %w", err)
	}
	if err := s.notifier.SendPasswordReset(ctx, u, pair); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// CheckResetLink verifies a reset link and returns its token_B, which the
// client presents again with the new password.
func (s *Service) CheckResetLink(ctx context.Context, tokenA, tokenB string) (string, error) {
	if _, err := s.tokens.VerifyAndResolve(ctx, tokenA, tokenB); err != nil {
		return "", err
	}
	return tokenB, nil
}

// ResetPassword stores a new password for the user of tokenB and burns the
// reset link.
func (s *Service) ResetPassword(ctx context.Context, tokenB string, in PasswordInput) error {
	if err := validate(s.validate, in); err != nil {
		return err
	}
	if in.Password != in.ConfirmPassword {
		return ErrPasswordMismatch
	}

	claim, err := s.tokens.VerifyConfirmation(ctx, tokenB)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.tokens.ConsumeToken(ctx, claim.Identity.ID, claim.Fingerprint, ledger.EventResetPassword); err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, claim.Identity.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.InfoContext(ctx, "password reset",
		logger.Component("auth"),
		logger.UserID(claim.Identity.ID.String()),
	)
	return nil
}

// GetUser returns the user with id.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// ChangeRole sets the role of target. The actor must be an admin and
// cannot grant a role above their own.
func (s *Service) ChangeRole(ctx context.Context, actorID, targetID uuid.UUID, role Role) (*User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role.rank() < RoleAdmin.rank() || role.rank() > actor.Role.rank() {
		return nil, ErrForbidden
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Role.rank() > actor.Role.rank() {
		return nil, ErrForbidden
	}

	if err := s.users.UpdateRole(ctx, targetID, role); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "role changed",
		logger.Component("auth"),
		logger.UserID(targetID.String()),
		slog.String("actor_id", actorID.String()),
		slog.String("role", string(role)),
	)
	target.Role = role
	return target, nil
}

func (s *Service) sendActivation(ctx context.Context, u *User) error {
	pair, err := s.tokens.IssueTokenPair(ctx, identityOf(u), ledger.EventActivate)
	if err != nil {
		return fmt.Errorf("failed to issue activation link: %w", err)
	}
	if err := s.notifier.SendActivation(ctx, u, pair); err != nil {
		return fmt.Errorf("failed to send activation email: %w", err)
	}
	return nil
}

func (s *Service) startSession(u *User) (*Session, error) {
	pair, err := s.sessions.IssuePair(u.ID.String(), string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue session tokens: %w", err)
	}
	return &Session{User: u, Tokens: pair}, nil
}

func identityOf(u *User) dualtoken.Identity {
	return dualtoken.Identity{ID: u.ID, Active: u.IsActive}
}
