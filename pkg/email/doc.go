// Package email delivers transactional mail through Postmark, or writes it
// to disk during development.
//
//	sender, err := email.New(cfg.Email)
//	if err != nil {
//	    return err
//	}
//	body, err := templates.Render(ctx, templates.Activation(templates.LinkData{...}))
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//	    SendTo:   user.Email,
//	    Subject:  "Activate your account",
//	    BodyHTML: body,
//	    Tag:      "activation",
//	})
package email
