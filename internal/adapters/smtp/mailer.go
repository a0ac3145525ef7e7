// Package smtp delivers the emails composed by the usecases.
//
// Two clients implement ports.Mailer: Client speaks SMTP to a real
// relay; LogClient logs a preview instead of delivering, which is what
// local development and tests run against.
package smtp

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/samirrijal/planner/internal/core/ports"
)

// Client sends mail through an SMTP relay.
type Client struct {
	addr string // host:port
	auth smtp.Auth
}

// New creates an SMTP client. username may be empty for relays that
// accept unauthenticated submission (e.g. a local test server).
func New(host string, port int, username, password string) *Client {
	c := &Client{addr: fmt.Sprintf("%s:%d", host, port)}
	if username != "" {
		c.auth = smtp.PlainAuth("", username, password, host)
	}
	return c
}

// Send delivers a single message. The context is honored only up to
// the blocking smtp dial; net/smtp has no context support of its own.
func (c *Client) Send(ctx context.Context, msg ports.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := encode(msg)
	if err := smtp.SendMail(c.addr, c.auth, msg.From.Email, []string{msg.To.Email}, data); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To.Email, err)
	}
	return nil
}

// encode renders the message as a minimal MIME document with an HTML body.
func encode(msg ports.Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", formatAddress(msg.From))
	fmt.Fprintf(&b, "To: %s\r\n", formatAddress(msg.To))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	b.WriteString("\r\n")
	return []byte(b.String())
}

func formatAddress(a ports.Address) string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// LogClient logs messages instead of delivering them.
type LogClient struct{}

// NewLog creates a preview-only mailer for non-production use.
func NewLog() *LogClient {
	return &LogClient{}
}

// Send logs the message headers and body size. Never fails.
func (c *LogClient) Send(ctx context.Context, msg ports.Message) error {
	slog.Info("mail preview",
		"from", formatAddress(msg.From),
		"to", formatAddress(msg.To),
		"subject", msg.Subject,
		"bytes", len(msg.HTML),
	)
	return nil
}
