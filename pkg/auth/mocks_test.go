package auth_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/accountkit/pkg/auth"
	"github.com/dmitrymomot/accountkit/pkg/dualtoken"
	"github.com/dmitrymomot/accountkit/pkg/email"
)

// memoryUsers is an in-memory auth.UserStore and dualtoken.IdentityFinder.
type memoryUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]auth.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[uuid.UUID]auth.User)}
}

func (m *memoryUsers) Create(_ context.Context, u *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return auth.ErrEmailAlreadyExists
		}
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = *u
	return nil
}

func (m *memoryUsers) GetByID(_ context.Context, id uuid.UUID) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return &u, nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (m *memoryUsers) modify(id uuid.UUID, fn func(*auth.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return auth.ErrUserNotFound
	}
	fn(&u)
	m.users[id] = u
	return nil
}

func (m *memoryUsers) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	return m.modify(id, func(u *auth.User) { u.IsActive = active })
}

func (m *memoryUsers) UpdatePassword(_ context.Context, id uuid.UUID, hash []byte) error {
	return m.modify(id, func(u *auth.User) { u.PasswordHash = hash })
}

func (m *memoryUsers) UpdateRole(_ context.Context, id uuid.UUID, role auth.Role) error {
	return m.modify(id, func(u *auth.User) { u.Role = role })
}

func (m *memoryUsers) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	return m.modify(id, func(u *auth.User) { u.LastLogin = &at })
}

func (m *memoryUsers) FindIdentity(_ context.Context, id uuid.UUID) (dualtoken.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return dualtoken.Identity{}, dualtoken.ErrIdentityNotFound
	}
	return dualtoken.Identity{ID: u.ID, Active: u.IsActive}, nil
}

// MockNotifier is a mock implementation of auth.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendActivation(ctx context.Context, u *auth.User, pair dualtoken.Pair) error {
	args := m.Called(ctx, u, pair)
	return args.Error(0)
}

func (m *MockNotifier) SendPasswordReset(ctx context.Context, u *auth.User, pair dualtoken.Pair) error {
	args := m.Called(ctx, u, pair)
	return args.Error(0)
}

// MockEmailSender is a mock implementation of email.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}
