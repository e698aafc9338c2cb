package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mdnooraj14/portfolio/internal/config"
	"github.com/mdnooraj14/portfolio/internal/mailer"
	"github.com/mdnooraj14/portfolio/internal/profile"
	"github.com/mdnooraj14/portfolio/internal/scene"
	"github.com/mdnooraj14/portfolio/internal/storage"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func testConfig() config.Config {
	return config.Config{
		Server: config.Server{
			Port:          "8080",
			Mode:          gin.TestMode,
			TemplatesGlob: "templates/*",
			StaticDir:     "./static",
		},
		Storage:   config.Storage{DataDir: ":memory:", Retention: 24 * time.Hour},
		Assistant: config.Assistant{ReplyDelay: 150 * time.Millisecond, SessionIdle: time.Hour},
	}
}

func newTestServer(t *testing.T, mail mailer.Sender) (*server, http.Handler) {
	t.Helper()

	store, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	s, err := newServer(testConfig(), profile.Default(), store, mail, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(s.waitTracking)
	return s, s.routes()
}

func do(h http.Handler, method, target string, body string, header map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestIndexPage(t *testing.T) {
	_, h := newTestServer(t, &fakeMailer{})

	w := do(h, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	kb := profile.Default()
	assert.Contains(t, body, kb.Name)
	assert.Contains(t, body, `id="hero-static"`)
	assert.Contains(t, body, `id="assistant-log"`)
	for _, p := range kb.Projects {
		assert.Contains(t, body, p.Link)
	}
	assert.Contains(t, body, `data-question="Show projects"`)
}

func TestIndexPageTheme(t *testing.T) {
	_, h := newTestServer(t, &fakeMailer{})

	w := do(h, http.MethodGet, "/", "", map[string]string{"Cookie": "theme=dark"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `class="dark"`)

	w = do(h, http.MethodGet, "/", "", map[string]string{"Cookie": "theme=purple"})
	assert.NotContains(t, w.Body.String(), `class="dark"`)
}

func TestThemeToggle(t *testing.T) {
	_, h := newTestServer(t, &fakeMailer{})
	form := map[string]string{"Content-Type": "application/x-www-form-urlencoded"}

	w := do(h, http.MethodPost, "/theme", "theme=light", form)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"theme":"light"}`, w.Body.String())
	assert.Contains(t, w.Header().Get("Set-Cookie"), "theme=light")

	// no choice flips the current one
	w = do(h, http.MethodPost, "/theme", "", map[string]string{"Cookie": "theme=dark"})
	assert.JSONEq(t, `{"theme":"light"}`, w.Body.String())

	w = do(h, http.MethodPost, "/theme", "", nil)
	assert.JSONEq(t, `{"theme":"dark"}`, w.Body.String())
}

func TestPartials(t *testing.T) {
	_, h := newTestServer(t, &fakeMailer{})
	kb := profile.Default()

	w := do(h, http.MethodGet, "/contact-form", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="fullName"`)

	w = do(h, http.MethodGet, "/education-content", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), kb.Education[0])

	w = do(h, http.MethodGet, "/work-content", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestContactForm(t *testing.T) {
	form := url.Values{
		"fullName": {"  Jane Doe "},
		"email":    {"jane@example.com"},
		"message":  {"Hello there"},
	}.Encode()
	header := map[string]string{"Content-Type": "application/x-www-form-urlencoded"}

	t.Run("sent", func(t *testing.T) {
		mail := &fakeMailer{}
		s, h := newTestServer(t, mail)

		w := do(h, http.MethodPost, "/contact", form, header)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Thank you for your message!")
		require.Len(t, mail.sent, 1)
		assert.Equal(t, "Jane Doe", mail.sent[0].Name)
		assert.Equal(t, "jane@example.com", mail.sent[0].Email)
		assert.Equal(t, 1.0, counterValue(t, s.metrics.ContactMessages.WithLabelValues("sent")))
	})

	t.Run("invalid", func(t *testing.T) {
		mail := &fakeMailer{}
		_, h := newTestServer(t, mail)

		w := do(h, http.MethodPost, "/contact", "fullName=x&email=nope", header)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "valid email address")
		assert.Empty(t, mail.sent)
	})

	t.Run("mail failure", func(t *testing.T) {
		s, h := newTestServer(t, &fakeMailer{err: mailer.ErrNotConfigured})

		w := do(h, http.MethodPost, "/contact", form, header)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Sorry, there was an error")
		assert.Equal(t, 1.0, counterValue(t, s.metrics.ContactMessages.WithLabelValues("unconfigured")))
	})
}

func TestHeroScene(t *testing.T) {
	_, h := newTestServer(t, &fakeMailer{})

	w := do(h, http.MethodGet, "/api/hero/scene", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got scene.Scene
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got.Labels, len(profile.Default().HeroTags))
	assert.Equal(t, scene.OuterRadius, got.Outer.Radius)
	assert.Equal(t, scene.InnerRadius, got.Inner.Radius)
}

func TestHealthAndMetrics(t *testing.T) {
	_, h := newTestServer(t, &fakeMailer{})

	w := do(h, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)

	w = do(h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "portfolio_http_requests_total")
}

func TestStaticAssets(t *testing.T) {
	_, h := newTestServer(t, &fakeMailer{})

	for _, path := range []string{"/static/app.js", "/static/hero.js", "/static/site.css"} {
		w := do(h, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
