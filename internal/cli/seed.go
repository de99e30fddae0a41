package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"color-quiz-service/internal/config"
	"color-quiz-service/internal/domain"
	rediscache "color-quiz-service/internal/infra/redis"
	"github.com/spf13/cobra"
)

// NewSeedCmd ensures the default admin and imports questions into an empty bank.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default admin and import questions if the store is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

// NewResetUsersCmd deletes every admin and reinstates the default one.
func NewResetUsersCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-users",
		Short: "Delete all admins and recreate the default admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResetUsers(cmd.Context(), *configPath)
		},
	}
}

// NewResetDBCmd empties every table and seeds again.
func NewResetDBCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-db",
		Short: "Delete all questions, results and admins, then seed again",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResetDB(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, b, err := openPersistent(ctx, configPath)
	if err != nil {
		return err
	}
	defer b.Close()
	return seed(ctx, cfg, b)
}

func runResetUsers(ctx context.Context, configPath string) error {
	cfg, b, err := openPersistent(ctx, configPath)
	if err != nil {
		return err
	}
	defer b.Close()

	_, auth, _ := newServices(cfg, b)
	if err := auth.ResetAdmins(ctx); err != nil {
		return err
	}
	log.Printf("admins reset; log in as %s", domain.DefaultAdminEmail)
	return nil
}

func runResetDB(ctx context.Context, configPath string) error {
	cfg, b, err := openPersistent(ctx, configPath)
	if err != nil {
		return err
	}
	defer b.Close()

	if err := b.truncate(ctx); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	if b.redis != nil {
		if err := b.redis.Del(ctx, rediscache.QuestionsKey).Err(); err != nil {
			log.Printf("drop cached questions: %v", err)
		}
	}
	log.Printf("all tables emptied")
	return seed(ctx, cfg, b)
}

func seed(ctx context.Context, cfg config.Config, b *backend) error {
	quiz, auth, _ := newServices(cfg, b)

	created, err := auth.EnsureDefaultAdmin(ctx)
	if err != nil {
		return err
	}
	if created {
		log.Printf("default admin %s created", domain.DefaultAdminEmail)
	} else {
		log.Printf("admin already present, default admin not created")
	}

	questions, err := quiz.InitQuestions(ctx)
	if errors.Is(err, domain.ErrQuestionsInitialized) {
		log.Printf("questions already initialized")
		return nil
	}
	if err != nil {
		return err
	}
	log.Printf("imported %d questions from %s", len(questions), cfg.Quiz.QuestionsFile)
	return nil
}

// openPersistent refuses the memory driver: maintenance commands would act on a
// store that disappears when they exit.
func openPersistent(ctx context.Context, configPath string) (config.Config, *backend, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Storage.Driver == config.DriverMemory {
		return cfg, nil, fmt.Errorf("storage driver %q is not persistent; configure postgres or sqlite", cfg.Storage.Driver)
	}
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, b, nil
}
