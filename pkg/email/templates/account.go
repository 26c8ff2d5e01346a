// Package templates holds the HTML bodies of account emails.
package templates

import (
	"context"
	"html/template"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// LinkData fills an email that carries a single action link.
type LinkData struct {
	Email     string
	Link      string
	ExpiresIn string
	Support   string
}

var layout = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
<h2>{{.Title}}</h2>
<p>Hi {{.Data.Email}},</p>
<p>{{.Intro}}</p>
<p><a href="{{.Data.Link}}" style="display:inline-block;padding:10px 16px;background:#2d6cdf;color:#fff;text-decoration:none;border-radius:4px;">{{.Action}}</a></p>
<p>Or paste this address into your browser:<br>{{.Data.Link}}</p>
<p>The link expires in {{.Data.ExpiresIn}} and can be used once.</p>
<p>{{.Outro}}{{if .Data.Support}} Questions? Write to {{.Data.Support}}.{{end}}</p>
</body>
</html>
`))

type page struct {
	Title  string
	Intro  string
	Action string
	Outro  string
	Data   LinkData
}

func component(p page) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return layout.Execute(w, p)
	})
}

// Activation is sent after registration and on resend requests.
func Activation(d LinkData) templ.Component {
	return component(page{
		Title:  "Activate your account",
		Intro:  "Thanks for signing up. Confirm your email address to activate your account.",
		Action: "Activate account",
		Outro:  "If you did not create an account, ignore this email.",
		Data:   d,
	})
}

// PasswordReset is sent on password reset requests.
func PasswordReset(d LinkData) templ.Component {
	return component(page{
		Title:  "Reset your password",
		Intro:  "We received a request to reset your password.",
		Action: "Choose a new password",
		Outro:  "If you did not request a reset, ignore this email. Your password stays unchanged.",
		Data:   d,
	})
}

// Render renders c to a string for use as an email body.
func Render(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
