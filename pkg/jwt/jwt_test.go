package jwt_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/accountkit/pkg/jwt"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newService(t *testing.T, c *clock) *jwt.Service {
	t.Helper()
	svc, err := jwt.New(jwt.Config{
		SigningKey: "test-signing-key",
		Issuer:     "accountkit-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}, jwt.WithClock(c.now))
	require.NoError(t, err)
	return svc
}

func TestNew_MissingKey(t *testing.T) {
	t.Parallel()
	_, err := jwt.New(jwt.Config{})
	assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)
}

func TestIssueAndParse(t *testing.T) {
	t.Parallel()
	c := &clock{t: time.Now()}
	svc := newService(t, c)

	pair, err := svc.IssuePair("user-1", "admin")
	require.NoError(t, err)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	claims, err := svc.Parse(pair.Access, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, jwt.AccessToken, claims.Type)
	assert.NotEmpty(t, claims.ID)

	_, err = svc.Parse(pair.Refresh, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrWrongTokenType)

	_, err = svc.Parse(pair.Access, jwt.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrWrongTokenType)
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()
	c := &clock{t: time.Now()}
	svc := newService(t, c)
	pair, err := svc.IssuePair("user-1", "user")
	require.NoError(t, err)

	other, err := jwt.New(jwt.Config{SigningKey: "other-key", Issuer: "accountkit-test"})
	require.NoError(t, err)
	_, err = other.Parse(pair.Access, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	wrongIssuer, err := jwt.New(jwt.Config{SigningKey: "test-signing-key", Issuer: "someone-else"})
	require.NoError(t, err)
	_, err = wrongIssuer.Parse(pair.Access, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	_, err = svc.Parse("garbage", jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()
	c := &clock{t: time.Now()}
	svc := newService(t, c)
	pair, err := svc.IssuePair("user-1", "user")
	require.NoError(t, err)

	c.t = c.t.Add(16 * time.Minute)
	_, err = svc.Parse(pair.Access, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)

	_, err = svc.Parse(pair.Refresh, jwt.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh(t *testing.T) {
	t.Parallel()
	c := &clock{t: time.Now()}
	svc := newService(t, c)
	pair, err := svc.IssuePair("user-1", "superadmin")
	require.NoError(t, err)

	next, err := svc.Refresh(pair.Refresh)
	require.NoError(t, err)
	claims, err := svc.Parse(next.Access, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "superadmin", claims.Role)

	_, err = svc.Refresh(pair.Access)
	assert.ErrorIs(t, err, jwt.ErrWrongTokenType)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()
	c := &clock{t: time.Now()}
	svc := newService(t, c)
	pair, err := svc.IssuePair("user-1", "user")
	require.NoError(t, err)

	handler := jwt.Middleware(svc, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := jwt.GetClaims(r.Context())
		require.True(t, ok)
		raw, ok := jwt.GetToken(r.Context())
		require.True(t, ok)
		assert.Equal(t, pair.Access, raw)
		_, _ = w.Write([]byte(claims.Subject))
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + pair.Access, http.StatusOK},
		{"lowercase scheme", "bearer " + pair.Access, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + pair.Access, http.StatusUnauthorized},
		{"refresh token", "Bearer " + pair.Refresh, http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "user-1", rec.Body.String())
			}
		})
	}
}
