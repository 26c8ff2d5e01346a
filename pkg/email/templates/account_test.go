package templates_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/accountkit/pkg/email/templates"
)

func TestActivation(t *testing.T) {
	t.Parallel()

	body, err := templates.Render(context.Background(), templates.Activation(templates.LinkData{
		Email:     "user@example.com",
		Link:      "https://app.example.com/auth/activate/AAAA/BBBB",
		ExpiresIn: "24 hours",
		Support:   "help@example.com",
	}))
	require.NoError(t, err)

	assert.Contains(t, body, "Activate your account")
	assert.Contains(t, body, `href="https://app.example.com/auth/activate/AAAA/BBBB"`)
	assert.Contains(t, body, "24 hours")
	assert.Contains(t, body, "help@example.com")
}

func TestPasswordReset_Escapes(t *testing.T) {
	t.Parallel()

	body, err := templates.Render(context.Background(), templates.PasswordReset(templates.LinkData{
		Email:     "<script>x</script>@example.com",
		Link:      "javascript:alert(1)",
		ExpiresIn: "24 hours",
	}))
	require.NoError(t, err)

	assert.Contains(t, body, "Reset your password")
	assert.NotContains(t, body, "<script>")
	assert.NotContains(t, body, `href="javascript:`)
	assert.NotContains(t, body, "Questions?")
}
