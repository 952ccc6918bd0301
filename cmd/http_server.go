package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chamahub/chama-management/internal"
	"github.com/chamahub/chama-management/internal/audit"
	"github.com/chamahub/chama-management/internal/auth"
	authpg "github.com/chamahub/chama-management/internal/auth/postgres"
	"github.com/chamahub/chama-management/internal/contribution"
	contributionpg "github.com/chamahub/chama-management/internal/contribution/postgres"
	"github.com/chamahub/chama-management/internal/core/events"
	"github.com/chamahub/chama-management/internal/expenditure"
	expenditurepg "github.com/chamahub/chama-management/internal/expenditure/postgres"
	"github.com/chamahub/chama-management/internal/income"
	incomepg "github.com/chamahub/chama-management/internal/income/postgres"
	"github.com/chamahub/chama-management/internal/member"
	memberpg "github.com/chamahub/chama-management/internal/member/postgres"
	"github.com/chamahub/chama-management/internal/report"
	"github.com/chamahub/chama-management/internal/transport/rest"
	"github.com/chamahub/chama-management/internal/transport/swagger"
	"github.com/chamahub/chama-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	// Fail fast on a broken API document instead of serving it.
	if err := swagger.ValidateSpec("./api/openapi.yml"); err != nil {
		return fmt.Errorf("openapi spec invalid: %w", err)
	}

	cfg := deps.Config
	bus := events.NewEventBus(deps.Logger)
	audit.NewEventHandler(deps.Logger).RegisterEventHandlers(bus)

	tokenGen := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authRepo := authpg.NewRepository(deps.Gorm)
	authService := auth.NewService(authRepo, tokenGen, cfg.Security.BCryptCost)
	authHandler := auth.NewHandler(authService)
	rbac := auth.NewRBACAuthorization(deps.Logger)

	memberRepo := memberpg.NewMemberRepository(deps.Gorm)
	memberService := member.NewService(memberRepo, authService, bus, deps.Logger, cfg.Contribution.RegistrationFee)
	memberHandler := member.NewHandler(memberService)

	contributionRepo := contributionpg.NewContributionRepository(deps.Gorm)
	contributionService := contribution.NewService(contributionRepo, bus, deps.Logger)
	contributionHandler := contribution.NewHandler(contributionService)

	incomeRepo := incomepg.NewIncomeRepository(deps.Gorm)
	incomeService := income.NewService(incomeRepo, bus, deps.Logger)
	incomeHandler := income.NewHandler(incomeService)

	expenditureRepo := expenditurepg.NewExpenditureRepository(deps.Gorm)
	expenditureService := expenditure.NewService(expenditureRepo, bus, deps.Logger)
	expenditureHandler := expenditure.NewHandler(expenditureService)

	reportService := report.NewService(
		memberRepo,
		contributionRepo,
		incomeRepo,
		expenditureRepo,
		cfg.Contribution.MonthlyAmount,
		deps.Logger,
	)
	reportHandler := report.NewHandler(reportService)

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, rest.Handlers{
		Auth:         authHandler,
		Member:       memberHandler,
		Contribution: contributionHandler,
		Income:       incomeHandler,
		Expenditure:  expenditureHandler,
		Report:       reportHandler,
	}, rbac, deps.Logger)

	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: logger.LoggerWrapper(),
		DB:     db,
		Gorm:   gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB opens the connection pool through the pgx stdlib driver.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
