package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    Server
	Storage   Storage
	Admin     Admin
	SMTP      SMTP
	Assistant Assistant
}

type Server struct {
	Port           string
	Mode           string // gin mode: debug, release, test
	TemplatesGlob  string
	StaticDir      string
	AllowedOrigins []string
}

type Storage struct {
	DataDir   string
	Retention time.Duration
}

type Admin struct {
	Username string
	Password string
}

type SMTP struct {
	Host string
	Port string
	User string
	Pass string
	To   string
}

type Assistant struct {
	KnowledgeFile string
	ReplyDelay    time.Duration
	SessionIdle   time.Duration
	MaxSessions   int
}

// Load reads configuration from the environment. A .env file, if present,
// has already been applied by godotenv/autoload in main.
func Load() (Config, error) {
	cfg := Config{
		Server: Server{
			Port:           getenv("PORT", "8080"),
			Mode:           getenv("GIN_MODE", "debug"),
			TemplatesGlob:  getenv("TEMPLATES_GLOB", "templates/*"),
			StaticDir:      getenv("STATIC_DIR", "./static"),
			AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		},
		Storage: Storage{
			DataDir: getenv("DATA_DIR", "./data"),
		},
		Admin: Admin{
			Username: os.Getenv("ADMIN_USERNAME"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		SMTP: SMTP{
			Host: getenv("SMTP_HOST", "smtp.gmail.com"),
			Port: getenv("SMTP_PORT", "587"),
			User: os.Getenv("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
			To:   getenv("TO_EMAIL", "mdnooraj14@gmail.com"),
		},
		Assistant: Assistant{
			KnowledgeFile: os.Getenv("KNOWLEDGE_FILE"),
		},
	}

	var err error
	if cfg.Storage.Retention, err = durationEnv("VISITOR_RETENTION", 365*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.Assistant.ReplyDelay, err = durationEnv("ASSISTANT_REPLY_DELAY", 150*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.Assistant.SessionIdle, err = durationEnv("ASSISTANT_SESSION_IDLE", 2*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.Assistant.MaxSessions, err = intEnv("ASSISTANT_MAX_SESSIONS", 10000); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid PORT %q", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid GIN_MODE %q", c.Server.Mode)
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("DATA_DIR must not be empty")
	}
	if c.Storage.Retention <= 0 {
		return fmt.Errorf("VISITOR_RETENTION must be positive")
	}
	if c.Assistant.ReplyDelay < 0 {
		return fmt.Errorf("ASSISTANT_REPLY_DELAY must not be negative")
	}
	if c.Assistant.MaxSessions < 0 {
		return fmt.Errorf("ASSISTANT_MAX_SESSIONS must not be negative")
	}
	if c.Mode() == "release" && (c.Admin.Username == "" || c.Admin.Password == "") {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD are required in release mode")
	}
	return nil
}

func (c Config) Mode() string { return c.Server.Mode }

// MailConfigured reports whether contact form mail can be sent.
func (c Config) MailConfigured() bool {
	return c.SMTP.User != "" && c.SMTP.Pass != ""
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
