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

	"github.com/frahmantamala/account-management/internal"
	"github.com/frahmantamala/account-management/internal/audit"
	auditPostgres "github.com/frahmantamala/account-management/internal/audit/postgres"
	"github.com/frahmantamala/account-management/internal/auth"
	"github.com/frahmantamala/account-management/internal/role"
	rolePostgres "github.com/frahmantamala/account-management/internal/role/postgres"
	"github.com/frahmantamala/account-management/internal/transport/rest"
	"github.com/frahmantamala/account-management/internal/user"
	userPostgres "github.com/frahmantamala/account-management/internal/user/postgres"
	"github.com/frahmantamala/account-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
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
	Config       *internal.Config
	DB           *sqlx.DB
	Router       *chi.Mux
	Logger       *slog.Logger
	AuthHandler  *auth.Handler
	UserHandler  *user.Handler
	AuditHandler *audit.Handler
	RBAC         *auth.RBACAuthorization
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.AuthHandler, deps.UserHandler, deps.AuditHandler, deps.RBAC, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
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

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// gorm rides on the already-pooled pgx connection
	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over pgx connection: %w", err)
	}

	userDirectory := userPostgres.NewUserDirectory(gormDB)
	roleDirectory := rolePostgres.NewRoleDirectory(gormDB)
	assignmentDirectory := rolePostgres.NewAssignmentDirectory(gormDB)
	roleResolver := role.NewResolver(assignmentDirectory, roleDirectory)

	attemptStore := auditPostgres.NewAttemptStore(db)
	auditService := audit.NewService(attemptStore, config.Audit, lg)

	hasher := auth.NewBcryptHasher(config.Security.BCryptCost)
	tokenCodec := auth.NewJWTTokenCodec(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenExpiration,
		config.Security.RefreshTokenExpiration,
	)

	authService := auth.NewService(userDirectory, roleResolver, hasher, tokenCodec, auditService, lg)

	return &Dependencies{
		Config:       config,
		Logger:       lg,
		DB:           db,
		Router:       chi.NewRouter(),
		AuthHandler:  auth.NewHandler(authService),
		UserHandler:  user.NewHandler(userDirectory, roleResolver),
		AuditHandler: audit.NewHandler(auditService),
		RBAC:         auth.NewRBACAuthorization(lg),
	}, nil
}

// initDB initializes the database connection
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

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
