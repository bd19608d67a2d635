package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"net/url"
	"strings"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
)

// SMTPMailer sends account emails over plain-auth SMTP. BaseURL is the
// public address of the web frontend the links should point at.
type SMTPMailer struct {
	Addr     string // host:port
	Username string
	Password string
	From     string
	BaseURL  string
}

func (m *SMTPMailer) SendActivationEmail(ctx context.Context, user domain.User, token string) error {
	link := m.link("/activate", user.Email, token)
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nWelcome! Please confirm your email address:\r\n\r\n%s\r\n",
		user.Name, link,
	)
	return m.send(user.Email, "Account activation", body)
}

func (m *SMTPMailer) SendPasswordResetEmail(ctx context.Context, user domain.User, token string) error {
	link := m.link("/password_reset", user.Email, token)
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nTo reset your password, follow the link below. "+
			"The link expires shortly after this email was sent.\r\n\r\n%s\r\n",
		user.Name, link,
	)
	return m.send(user.Email, "Password reset", body)
}

func (m *SMTPMailer) link(path, email, token string) string {
	return fmt.Sprintf("%s%s?email=%s&token=%s",
		strings.TrimSuffix(m.BaseURL, "/"), path,
		url.QueryEscape(email), url.QueryEscape(token))
}

func (m *SMTPMailer) send(to, subject, body string) error {
	host := m.Addr
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}

	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, host)
	}

	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	return smtp.SendMail(m.Addr, auth, m.From, []string{to}, []byte(msg))
}
