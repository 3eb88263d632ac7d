package notify

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime"
	"strings"

	"google.golang.org/api/gmail/v1"
)

// Mailer delivers a single email synchronously.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type GmailMailer struct {
	svc  *gmail.Service
	from string
}

func NewGmailMailer(svc *gmail.Service, from string) *GmailMailer {
	return &GmailMailer{svc: svc, from: from}
}

func (m *GmailMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := &gmail.Message{Raw: encodeMessage(m.from, to, subject, body)}
	_, err := m.svc.Users.Messages.Send("me", msg).Context(ctx).Do()
	return err
}

// encodeMessage builds an RFC 822 text message in the base64url form Gmail expects.
func encodeMessage(from, to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(body)
	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}

// LogMailer writes notices to the log instead of sending them.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.log.Info("email notice", slog.String("to", to), slog.String("subject", subject), slog.Int("body_len", len(body)))
	return nil
}
