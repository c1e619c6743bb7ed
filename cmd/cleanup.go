package cmd

import (
	"fmt"

	"github.com/frahmantamala/account-management/internal/audit"
	auditPostgres "github.com/frahmantamala/account-management/internal/audit/postgres"
	"github.com/frahmantamala/account-management/pkg/logger"
	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete access attempts past the retention horizon",
	Long:  `Remove audit rows older than audit.retention_days. Run from cron; one sweep per invocation.`,
	RunE:  runCleanup,
}

func runCleanup(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	auditService := audit.NewService(auditPostgres.NewAttemptStore(db), cfg.Audit, lg)

	deleted, err := auditService.CleanOldAttempts()
	if err != nil {
		return fmt.Errorf("retention sweep failed: %w", err)
	}

	lg.Info("retention sweep complete", "deleted", deleted, "retention_days", cfg.Audit.RetentionDays)
	return nil
}
