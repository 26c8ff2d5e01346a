package auth

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/accountkit/pkg/dualtoken"
	"github.com/dmitrymomot/accountkit/pkg/email"
	"github.com/dmitrymomot/accountkit/pkg/email/templates"
)

// Notifier delivers token links to users.
type Notifier interface {
	SendActivation(ctx context.Context, u *User, pair dualtoken.Pair) error
	SendPasswordReset(ctx context.Context, u *User, pair dualtoken.Pair) error
}

// MailNotifier sends links by email.
type MailNotifier struct {
	sender  email.EmailSender
	baseURL string
	support string
	ttl     time.Duration
}

// NewMailNotifier builds links under baseURL. ttl is shown to the recipient
// as the link lifetime and support as the contact address.
func NewMailNotifier(sender email.EmailSender, baseURL, support string, ttl time.Duration) *MailNotifier {
	return &MailNotifier{sender: sender, baseURL: baseURL, support: support, ttl: ttl}
}

func (n *MailNotifier) SendActivation(ctx context.Context, u *User, pair dualtoken.Pair) error {
	link, err := ActivationLink(n.baseURL, pair)
	if err != nil {
		return err
	}
	return n.send(ctx, u.Email, "Activate your account", "activation", templates.Activation(n.data(u, link)))
}

func (n *MailNotifier) SendPasswordReset(ctx context.Context, u *User, pair dualtoken.Pair) error {
	link, err := ResetLink(n.baseURL, pair)
	if err != nil {
		return err
	}
	return n.send(ctx, u.Email, "Reset your password", "password-reset", templates.PasswordReset(n.data(u, link)))
}

func (n *MailNotifier) data(u *User, link string) templates.LinkData {
	return templates.LinkData{
		Email:     u.Email,
		Link:      link,
		ExpiresIn: humanDuration(n.ttl),
		Support:   n.support,
	}
}

func (n *MailNotifier) send(ctx context.Context, to, subject, tag string, body templ.Component) error {
	html, err := templates.Render(ctx, body)
	if err != nil {
		return fmt.Errorf("render %s email: %w", tag, err)
	}
	return n.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   to,
		Subject:  subject,
		BodyHTML: html,
		Tag:      tag,
	})
}

// ActivationLink is baseURL/auth/activate/{token_a}/{token_b}.
func ActivationLink(baseURL string, pair dualtoken.Pair) (string, error) {
	return url.JoinPath(baseURL, "auth", "activate", pair.A, pair.B)
}

// ResetLink is baseURL/auth/password/reset/{token_a}/{token_b}.
func ResetLink(baseURL string, pair dualtoken.Pair) (string, error) {
	return url.JoinPath(baseURL, "auth", "password", "reset", pair.A, pair.B)
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		if h := int(d / time.Hour); h != 1 {
			return fmt.Sprintf("%d hours", h)
		}
		return "1 hour"
	case d >= time.Minute:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	default:
		return d.String()
	}
}
