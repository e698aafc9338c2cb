// Package mailer delivers contact form submissions over SMTP behind a
// circuit breaker, so a dead mail server fails fast instead of stalling
// every submission.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("SMTP credentials not configured")

// Message is one contact form submission.
type Message struct {
	Name    string
	Email   string
	Message string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type Config struct {
	Host string
	Port string
	User string
	Pass string
	To   string
}

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPMailer struct {
	cfg     Config
	cb      *gobreaker.CircuitBreaker
	send    sendFunc
	log     *zap.SugaredLogger
	timeout time.Duration
}

func NewSMTP(cfg Config, logger *zap.Logger) *SMTPMailer {
	return newSMTP(cfg, logger, smtp.SendMail)
}

func newSMTP(cfg Config, logger *zap.Logger, send sendFunc) *SMTPMailer {
	log := logger.Sugar()
	m := &SMTPMailer{cfg: cfg, send: send, log: log, timeout: 30 * time.Second}
	m.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Interval:    10 * time.Minute,
		Timeout:     5 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("Circuit breaker '%s' state changed from %v to %v", name, from, to)
		},
	})
	return m
}

// Send composes and delivers msg. It returns gobreaker.ErrOpenState while the
// breaker is open.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if m.cfg.User == "" || m.cfg.Pass == "" {
		return ErrNotConfigured
	}

	_, err := m.cb.Execute(func() (interface{}, error) {
		return nil, m.deliver(ctx, msg)
	})
	if err != nil {
		m.log.Errorf("Error sending email: %v", err)
		return err
	}
	m.log.Infof("Email sent successfully from %s", msg.Name)
	return nil
}

// deliver runs smtp.SendMail, giving up once ctx is done. net/smtp takes no
// context, so a send that outlives ctx is abandoned rather than cancelled.
func (m *SMTPMailer) deliver(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	body := Compose(m.cfg.To, m.cfg.User, msg)

	done := make(chan error, 1)
	go func() {
		done <- m.send(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.User, []string{m.cfg.To}, body)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("sending mail: %w", ctx.Err())
	}
}

// Compose renders the RFC 822 message sent to the site owner.
func Compose(to, from string, msg Message) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", stripHeader(msg.Name))
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, msg.Name, msg.Email, msg.Message)

	return []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"Reply-To: " + stripHeader(msg.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// stripHeader keeps user input from injecting extra headers.
func stripHeader(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}
