package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mdnooraj14/portfolio/internal/assistant"
	"github.com/mdnooraj14/portfolio/internal/config"
	"github.com/mdnooraj14/portfolio/internal/logging"
	"github.com/mdnooraj14/portfolio/internal/mailer"
	"github.com/mdnooraj14/portfolio/internal/profile"
	"github.com/mdnooraj14/portfolio/internal/storage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serveCmd := newServeCmd()
	root := &cobra.Command{
		Use:          "portfolio",
		Short:        "Personal portfolio site with a built-in Q&A assistant",
		SilenceUsage: true,
		RunE:         serveCmd.RunE,
	}
	root.AddCommand(serveCmd, newAskCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func newAskCmd() *cobra.Command {
	var knowledgeFile string
	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask the portfolio assistant a question",
		Long: `Ask the portfolio assistant a question and print its reply.

Examples:
  portfolio ask "What are your skills?"
  portfolio ask show projects
  portfolio ask --knowledge ./kb.yaml where are you based`,
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				return fmt.Errorf("a question is required")
			}
			if knowledgeFile == "" {
				knowledgeFile = os.Getenv("KNOWLEDGE_FILE")
			}
			kb, err := profile.Load(knowledgeFile)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), assistant.Respond(question, kb))
			return nil
		},
	}
	cmd.Flags().StringVar(&knowledgeFile, "knowledge", "", "YAML knowledge base override (defaults to $KNOWLEDGE_FILE)")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	gin.SetMode(cfg.Mode())

	logger, err := logging.New(cfg.Mode())
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	kb, err := profile.Load(cfg.Assistant.KnowledgeFile)
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	mail := mailer.NewSMTP(mailer.Config{
		Host: cfg.SMTP.Host,
		Port: cfg.SMTP.Port,
		User: cfg.SMTP.User,
		Pass: cfg.SMTP.Pass,
		To:   cfg.SMTP.To,
	}, logger)
	if !cfg.MailConfigured() {
		log.Warnf("SMTP credentials not configured; contact form submissions will fail")
	}

	s, err := newServer(cfg, kb, store, mail, logger)
	if err != nil {
		return err
	}
	defer s.waitTracking()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Portfolio listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		s.janitor(ctx, time.Hour)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Infof("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
