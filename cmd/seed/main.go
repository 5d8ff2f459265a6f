package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oksasatya/spaceboard/config"
	"github.com/oksasatya/spaceboard/internal/application"
	"github.com/oksasatya/spaceboard/internal/domain/apperror"
	pginfra "github.com/oksasatya/spaceboard/internal/infrastructure/postgres"
	"github.com/oksasatya/spaceboard/pkg/helpers"
)

var opts struct {
	email    string
	password string
	name     string
	space    string
	project  string
	issueKey string
}

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a demo user with a space and project",
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		cfg := config.Load()
		logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
		return seed(cmd.Context(), cfg, logger)
	},
	SilenceUsage: true,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&opts.email, "email", "demo@spaceboard.local", "demo user email")
	f.StringVar(&opts.password, "password", "password123", "demo user password")
	f.StringVar(&opts.name, "name", "Demo User", "demo user name")
	f.StringVar(&opts.space, "space", "Demo Space", "space to create for the user (empty to skip)")
	f.StringVar(&opts.project, "project", "Website", "project to create inside the space (empty to skip)")
	f.StringVar(&opts.issueKey, "issue-key", "WEB", "issue key of the seeded project")
}

func seed(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 0, cfg.DBMaxConnLife)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	spaces := pginfra.NewSpaceRepository(pool)
	projects := pginfra.NewProjectRepository(pool)
	issues := pginfra.NewIssueRepository(pool)
	jwt := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	userSvc := application.NewUserService(users, jwt, nil, nil, logger, nil)
	spaceSvc := application.NewSpaceService(spaces, users, issues, nil, logger)
	projectSvc := application.NewProjectService(projects, spaces, users, nil, logger)

	u, _, err := userSvc.Register(ctx, application.RegisterInput{Name: opts.name, Email: opts.email, Password: opts.password})
	if apperror.Is(err, apperror.KindConflict) {
		u, _, err = userSvc.Login(ctx, opts.email, opts.password)
	}
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	fmt.Printf("user: id=%s email=%s password=%s\n", u.ID, u.Email, opts.password)

	if opts.space == "" {
		return nil
	}
	existing, err := spaceSvc.List(ctx, u.ID)
	if err != nil {
		return err
	}
	for _, sp := range existing {
		if sp.Name == opts.space {
			fmt.Printf("space exists: id=%s key=%s\n", sp.ID, sp.SpaceKey)
			return nil
		}
	}
	sp, err := spaceSvc.Create(ctx, u.ID, application.SpaceInput{Name: opts.space, Description: "Seeded demo space"})
	if err != nil {
		return fmt.Errorf("seed space: %w", err)
	}
	fmt.Printf("space: id=%s key=%s\n", sp.ID, sp.SpaceKey)

	if opts.project == "" {
		return nil
	}
	p, err := projectSvc.Create(ctx, u.ID, application.ProjectInput{Name: opts.project, IssueKey: opts.issueKey, SpaceID: sp.ID})
	if errors.Is(err, application.ErrProjectKeyTaken) {
		fmt.Printf("project key %s taken, skipping\n", opts.issueKey)
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed project: %w", err)
	}
	fmt.Printf("project: id=%s key=%s\n", p.ID, p.IssueKey)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
