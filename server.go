package main

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mdnooraj14/portfolio/internal/assistant"
	"github.com/mdnooraj14/portfolio/internal/config"
	"github.com/mdnooraj14/portfolio/internal/logging"
	"github.com/mdnooraj14/portfolio/internal/mailer"
	"github.com/mdnooraj14/portfolio/internal/metrics"
	"github.com/mdnooraj14/portfolio/internal/profile"
	"github.com/mdnooraj14/portfolio/internal/scene"
	"github.com/mdnooraj14/portfolio/internal/storage"
)

type server struct {
	cfg       config.Config
	kb        profile.KnowledgeBase
	responder *assistant.Responder
	sessions  *assistant.Sessions
	scene     scene.Scene
	store     *storage.Store
	mail      mailer.Sender
	metrics   *metrics.Collector
	logger    *zap.Logger
	log       *zap.SugaredLogger

	adminToken  string
	hashingSalt string

	// background visitor writes, waited on before the store closes
	tracking sync.WaitGroup
	now      func() time.Time
}

func newServer(cfg config.Config, kb profile.KnowledgeBase, store *storage.Store, mail mailer.Sender, logger *zap.Logger) (*server, error) {
	s := &server{
		cfg:       cfg,
		kb:        kb.Clone(),
		responder: assistant.New(kb),
		sessions:  assistant.NewSessions(assistant.Greeting(kb), cfg.Assistant.SessionIdle, cfg.Assistant.MaxSessions),
		scene:     scene.Compose(kb.HeroTags),
		store:     store,
		mail:      mail,
		metrics:   metrics.NewCollector("portfolio"),
		logger:    logger,
		log:       logger.Sugar(),
		now:       time.Now,
	}
	if err := s.initAdminToken(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware(s.logger, s.hashIP), s.metrics.Middleware())
	r.SetFuncMap(template.FuncMap{
		"mul100": func(f float64) float64 { return f * 100 },
	})
	r.LoadHTMLGlob(s.cfg.Server.TemplatesGlob)

	r.Static("/static", s.cfg.Server.StaticDir)
	r.Use(s.visitorTrackingMiddleware())

	// Home page route
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"kb":           s.kb,
			"theme":        themeFromCookie(c),
			"year":         s.now().Year(),
			"heroTitle":    HeroTitle,
			"heroAccent":   HeroAccent,
			"staticNotice": StaticHeroNotice,
			"errorTitle":   HeroErrorTitle,
			"errorDetail":  HeroErrorDetail,
			"contactBlurb": ContactBlurb,
			"footer":       FooterCredit,
			"assistant": gin.H{
				"name":         s.kb.AssistantName,
				"greeting":     assistant.Greeting(s.kb),
				"quickReplies": assistant.QuickReplies,
				"privacyNote":  AssistantPrivacyNote,
			},
		})
	})

	// HTMX Contact form endpoint - returns just the form HTML
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title": "Contact Me",
		})
	})

	// Work experience content
	r.GET("/work-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "work-content.html", gin.H{
			"kb": s.kb,
		})
	})

	// Education content
	r.GET("/education-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "education-content.html", gin.H{
			"kb": s.kb,
		})
	})

	r.POST("/contact", s.handleContact)
	r.POST("/theme", handleTheme)

	// Scene description for the hero canvas
	r.GET("/api/hero/scene", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.scene)
	})

	r.GET("/health", func(c *gin.Context) {
		if err := s.store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": s.now().UTC().Format(time.RFC3339)})
	})

	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	s.setupAssistantRoutes(r)
	s.setupAdminRoutes(r)
	return r
}

type contactForm struct {
	FullName string `form:"fullName" binding:"required,max=200"`
	Email    string `form:"email" binding:"required,email"`
	Message  string `form:"message" binding:"required,max=5000"`
}

// Handle contact form submission with HTMX
func (s *server) handleContact(c *gin.Context) {
	var form contactForm
	if err := c.ShouldBind(&form); err != nil {
		s.metrics.ContactMessages.WithLabelValues("invalid").Inc()
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Please fill in your name, a valid email address and a message.",
		})
		return
	}

	err := s.mail.Send(c.Request.Context(), mailer.Message{
		Name:    strings.TrimSpace(form.FullName),
		Email:   form.Email,
		Message: form.Message,
	})
	if err != nil {
		result := "failed"
		if errors.Is(err, mailer.ErrNotConfigured) {
			result = "unconfigured"
		}
		s.metrics.ContactMessages.WithLabelValues(result).Inc()
		// Return error message HTML fragment
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": ContactFailure,
		})
		return
	}

	s.metrics.ContactMessages.WithLabelValues("sent").Inc()
	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": ContactSuccess,
	})
}

const themeCookie = "theme"

func themeFromCookie(c *gin.Context) string {
	v, err := c.Cookie(themeCookie)
	if err != nil || (v != "dark" && v != "light") {
		return ""
	}
	return v
}

// handleTheme stores the chosen theme, or flips the current one when the
// request names none.
func handleTheme(c *gin.Context) {
	theme := c.PostForm("theme")
	if theme != "dark" && theme != "light" {
		if themeFromCookie(c) == "dark" {
			theme = "light"
		} else {
			theme = "dark"
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(themeCookie, theme, 365*24*3600, "/", "", false, false)
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

// janitor drops idle assistant sessions and expired analytics until ctx ends.
func (s *server) janitor(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	s.cleanupOldVisitorData(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Sweep(); n > 0 {
				s.log.Infof("Dropped %d idle assistant sessions", n)
			}
			s.metrics.ActiveSessions.Set(float64(s.sessions.Len()))
			s.cleanupOldVisitorData(ctx)
		}
	}
}

// waitTracking blocks until in-flight visitor writes finish.
func (s *server) waitTracking() {
	s.tracking.Wait()
}
