package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"color-quiz-service/internal/config"
	"color-quiz-service/internal/domain"
	transport "color-quiz-service/internal/transport/http"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
	cmd.Flags().StringVar(port, "port", os.Getenv("PORT"), "port to listen on (overrides config)")
	return cmd
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	ctx, stopRelay := context.WithCancel(ctx)
	defer stopRelay()

	cfg, b, err := openConfigured(ctx, configPath)
	if err != nil {
		return err
	}
	defer b.Close()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	quiz, auth, relay := newServices(cfg, b)
	if relay != nil {
		go func() {
			if err := relay.Run(ctx, nil); err != nil {
				log.Printf("results relay stopped: %v", err)
			}
		}()
	}

	created, err := auth.EnsureDefaultAdmin(ctx)
	if err != nil {
		return err
	}
	if created {
		log.Printf("default admin %s created", domain.DefaultAdminEmail)
	}

	// an in-memory bank starts empty on every run
	if cfg.Storage.Driver == config.DriverMemory {
		questions, err := quiz.InitQuestions(ctx)
		switch {
		case err == nil:
			log.Printf("seeded %d questions from %s", len(questions), cfg.Quiz.QuestionsFile)
		case !errors.Is(err, domain.ErrQuestionsInitialized):
			log.Printf("question seed skipped: %v", err)
		}
	}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(quiz, auth),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	case err := <-serveErr:
		log.Printf("failed to start server: %v", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
