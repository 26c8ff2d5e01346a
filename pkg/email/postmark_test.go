package email

import (
	"context"
	"errors"
	"testing"

	"github.com/mrz1836/postmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePostmark struct {
	sent []postmark.Email
	resp postmark.EmailResponse
	err  error
}

func (f *fakePostmark) SendEmail(_ context.Context, e postmark.Email) (postmark.EmailResponse, error) {
	f.sent = append(f.sent, e)
	return f.resp, f.err
}

func TestPostmarkSender_SendEmail(t *testing.T) {
	t.Parallel()

	params := SendEmailParams{SendTo: "u@example.com", Subject: "Reset", BodyHTML: "<p>x</p>", Tag: "password-reset"}

	t.Run("disables tracking", func(t *testing.T) {
		t.Parallel()
		api := &fakePostmark{}
		s := &PostmarkSender{api: api, from: "no-reply@example.com", replyTo: "help@example.com"}

		require.NoError(t, s.SendEmail(context.Background(), params))
		require.Len(t, api.sent, 1)
		assert.Equal(t, "no-reply@example.com", api.sent[0].From)
		assert.Equal(t, "help@example.com", api.sent[0].ReplyTo)
		assert.Equal(t, "None", api.sent[0].TrackLinks)
		assert.False(t, api.sent[0].TrackOpens)
	})

	t.Run("api error code", func(t *testing.T) {
		t.Parallel()
		api := &fakePostmark{resp: postmark.EmailResponse{ErrorCode: 300, Message: "Invalid email request"}}
		s := &PostmarkSender{api: api}

		err := s.SendEmail(context.Background(), params)
		assert.ErrorIs(t, err, ErrFailedToSendEmail)
		assert.Contains(t, err.Error(), "300")
	})

	t.Run("transport error", func(t *testing.T) {
		t.Parallel()
		s := &PostmarkSender{api: &fakePostmark{err: errors.New("timeout")}}
		assert.ErrorIs(t, s.SendEmail(context.Background(), params), ErrFailedToSendEmail)
	})

	t.Run("invalid params skip the api", func(t *testing.T) {
		t.Parallel()
		api := &fakePostmark{}
		s := &PostmarkSender{api: api}
		assert.ErrorIs(t, s.SendEmail(context.Background(), SendEmailParams{}), ErrInvalidParams)
		assert.Empty(t, api.sent)
	})
}
