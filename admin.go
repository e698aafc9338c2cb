// admin.go - privacy-conscious admin system
package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mdnooraj14/portfolio/internal/assistant"
	"github.com/mdnooraj14/portfolio/internal/storage"
)

const adminCookie = "admin_token"

// Initialize admin session token and the salt used for IP hashing. Both live
// only for the life of the process.
func (s *server) initAdminToken() error {
	var err error
	if s.adminToken, err = generateAdminToken(); err != nil {
		return err
	}
	if s.hashingSalt, err = generateAdminToken(); err != nil {
		return err
	}

	s.log.Infof("Admin access available at: /admin/login")
	if s.cfg.Mode() == gin.DebugMode {
		s.log.Debugf("Admin token (dev only): %s", s.adminToken)
	}
	s.log.Infof("Privacy: Visitor tracking enabled with hashed IP addresses")
	return nil
}

func generateAdminToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating admin token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// Hash IP address for privacy compliance (consistent per IP for this process)
func (s *server) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + s.hashingSalt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

// adminCredentials falls back to development defaults outside release mode.
// Config validation refuses to start a release build without real ones.
func (s *server) adminCredentials() (string, string) {
	username, password := s.cfg.Admin.Username, s.cfg.Admin.Password
	if username == "" && s.cfg.Mode() != gin.ReleaseMode {
		username = "admin"
		s.log.Warnf("WARNING: Using default admin username. Set ADMIN_USERNAME environment variable.")
	}
	if password == "" && s.cfg.Mode() != gin.ReleaseMode {
		password = "admin123"
		s.log.Warnf("WARNING: Using default admin password. Set ADMIN_PASSWORD environment variable.")
	}
	return username, password
}

// Middleware to check admin authentication
func (s *server) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

var untrackedPrefixes = []string{"/static/", "/admin/", "/api/", "/ws/", "/favicon", "/privacy", "/metrics", "/health"}

// Privacy-conscious visitor tracking middleware
func (s *server) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range untrackedPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		visit := storage.Visit{
			HashedIP:  s.hashIP(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Timestamp: s.now(),
		}
		s.tracking.Add(1)
		go func() {
			defer s.tracking.Done()
			if err := s.store.RecordVisit(context.Background(), visit); err != nil {
				s.log.Errorf("Error recording visitor: %v", err)
			}
		}()
		c.Next()
	}
}

// Cleanup old visitor data for privacy compliance
func (s *server) cleanupOldVisitorData(ctx context.Context) {
	cutoff := s.now().Add(-s.cfg.Storage.Retention)
	rows, err := s.store.PurgeBefore(ctx, cutoff)
	if err != nil {
		s.log.Errorf("Error cleaning up old visitor data: %v", err)
		return
	}
	if rows > 0 {
		s.log.Infof("Privacy cleanup: Removed %d analytics records older than %s", rows, s.cfg.Storage.Retention)
	}
}

// Get comprehensive admin statistics
func (s *server) getAdminStats(ctx context.Context) (*storage.AdminStats, error) {
	stats, err := s.store.Stats(ctx, s.now())
	if err != nil {
		return nil, err
	}
	if stats.TotalQuestions > 0 {
		for _, ic := range stats.TopIntents {
			if ic.Intent == string(assistant.IntentFallback) {
				stats.UnansweredRate = float64(ic.Count) / float64(stats.TotalQuestions)
			}
		}
	}
	return stats, nil
}

// Setup all admin routes
func (s *server) setupAdminRoutes(r *gin.Engine) {
	// Privacy policy route
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":     "Privacy Policy",
			"retention": s.cfg.Storage.Retention.String(),
		})
	})

	// Admin login page
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	// Admin login handler
	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")
		wantUser, wantPass := s.adminCredentials()

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(wantUser)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(wantPass)) == 1
		if userOK && passOK {
			// Secure cookie (24 hours)
			c.SetSameSite(http.SameSiteStrictMode)
			c.SetCookie(adminCookie, s.adminToken, 3600*24, "/admin", "", s.cfg.Mode() == gin.ReleaseMode, true)
			s.log.Infof("Admin login successful from %s", s.hashIP(c.ClientIP()))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}

		s.log.Warnf("Failed admin login attempt from %s", s.hashIP(c.ClientIP()))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"error": "Invalid credentials",
		})
	})

	// Admin logout
	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		s.log.Infof("Admin logout from %s", s.hashIP(c.ClientIP()))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	// Protected admin routes group
	adminGroup := r.Group("/admin")
	adminGroup.Use(s.adminAuthMiddleware())

	// Admin dashboard
	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.getAdminStats(c.Request.Context())
		if err != nil {
			s.log.Errorf("Error loading admin stats: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}

		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":    stats,
			"sessions": s.sessions.Len(),
		})
	})

	// Admin API endpoints for HTMX/AJAX
	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.getAdminStats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	// Assistant intents, most asked first
	adminGroup.GET("/intents", func(c *gin.Context) {
		counts, err := s.store.IntentCounts(c.Request.Context())
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load assistant intents",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-intents.html", gin.H{
			"intents": counts,
		})
	})

	// View visitors
	adminGroup.GET("/visitors", func(c *gin.Context) {
		visitors, err := s.store.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	// Delete a single visitor record
	adminGroup.DELETE("/visitors/:id", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid visitor id"})
			return
		}

		err = s.store.DeleteVisit(c.Request.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Visitor record not found"})
			return
		}
		if err != nil {
			s.log.Errorf("Error deleting visitor %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete visitor record"})
			return
		}

		s.log.Infof("Visitor %d deleted by admin from %s", id, s.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, gin.H{"message": "Visitor record deleted successfully"})
	})

	// Privacy compliance endpoint - run the retention cleanup now
	adminGroup.POST("/privacy/delete-visitor-data", func(c *gin.Context) {
		s.cleanupOldVisitorData(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup completed"})
	})

	// Admin statistics export (for backups or analysis)
	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.getAdminStats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		s.log.Infof("Admin stats exported by %s", s.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})
}
