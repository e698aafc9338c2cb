package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMail struct {
	addr string
	from string
	to   []string
	body string
}

func testConfig() Config {
	return Config{Host: "smtp.example.com", Port: "587", User: "site@example.com", Pass: "pw", To: "owner@example.com"}
}

func TestSendDelivers(t *testing.T) {
	var got []sentMail
	m := newSMTP(testConfig(), zap.NewNop(), func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		got = append(got, sentMail{addr: addr, from: from, to: to, body: string(msg)})
		return nil
	})

	err := m.Send(context.Background(), Message{Name: "Ada", Email: "ada@example.com", Message: "Hello"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "smtp.example.com:587", got[0].addr)
	assert.Equal(t, "site@example.com", got[0].from)
	assert.Equal(t, []string{"owner@example.com"}, got[0].to)
	assert.Contains(t, got[0].body, "Subject: Portfolio Contact: Ada\r\n")
	assert.Contains(t, got[0].body, "Reply-To: ada@example.com\r\n")
	assert.Contains(t, got[0].body, "Hello")
}

func TestSendWithoutCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.Pass = ""
	called := false
	m := newSMTP(cfg, zap.NewNop(), func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, m.Send(context.Background(), Message{Name: "Ada"}), ErrNotConfigured)
	assert.False(t, called)
}

func TestUnconfiguredSendsNeverTripBreaker(t *testing.T) {
	cfg := testConfig()
	cfg.User = ""
	m := newSMTP(cfg, zap.NewNop(), func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("unreachable")
	})

	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, m.Send(context.Background(), Message{Name: "Ada"}), ErrNotConfigured)
	}
	assert.Equal(t, gobreaker.StateClosed, m.cb.State())
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	calls := 0
	m := newSMTP(testConfig(), zap.NewNop(), func(string, smtp.Auth, string, []string, []byte) error {
		calls++
		return errors.New("connection refused")
	})

	for i := 0; i < 3; i++ {
		assert.Error(t, m.Send(context.Background(), Message{Name: "Ada"}))
	}
	err := m.Send(context.Background(), Message{Name: "Ada"})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, calls)
}

func TestSendHonoursContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	m := newSMTP(testConfig(), zap.NewNop(), func(string, smtp.Auth, string, []string, []byte) error {
		<-block
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := m.Send(ctx, Message{Name: "Ada"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComposeStripsHeaderInjection(t *testing.T) {
	body := string(Compose("owner@example.com", "site@example.com", Message{
		Name:  "Eve\r\nBcc: victim@example.com",
		Email: "eve@example.com\nCc: x@example.com",
	}))
	headers := strings.SplitN(body, "\r\n\r\n", 2)[0]
	assert.NotContains(t, headers, "\r\nBcc:")
	assert.NotContains(t, headers, "\nCc:")
}
