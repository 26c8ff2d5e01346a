package email

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DevSender writes every message to an .html file in dir instead of
// sending it. The recipient, subject and tag are kept in a leading HTML
// comment, so the file still opens in a browser.
type DevSender struct {
	dir string
	now func() time.Time
}

// NewDevSender creates a DevSender. dir is created on first send.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir, now: time.Now}
}

func (d *DevSender) SendEmail(_ context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSendEmail, err)
	}

	now := d.now().UTC()
	label := params.Tag
	if label == "" {
		label = params.Subject
	}
	name := fmt.Sprintf("%s_%s_%s.html", now.Format("20060102T150405"), slugify(label), uuid.NewString()[:8])

	var b strings.Builder
	fmt.Fprintf(&b, "<!--\nDate: %s\nTo: %s\nSubject: %s\nTag: %s\n-->\n",
		now.Format(time.RFC3339),
		html.EscapeString(params.SendTo),
		html.EscapeString(params.Subject),
		html.EscapeString(params.Tag),
	)
	b.WriteString(params.BodyHTML)

	if err := os.WriteFile(filepath.Join(d.dir, name), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSendEmail, err)
	}
	return nil
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9_-]+`)

func slugify(s string) string {
	s = unsafeChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	s = strings.Trim(s, "-")
	if len(s) > 48 {
		s = s[:48]
	}
	if s == "" {
		return "email"
	}
	return s
}
