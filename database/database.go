package database

import (
	"context"
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/senecapartners/seneca-cms-backend/config"
	"github.com/senecapartners/seneca-cms-backend/internal/application"
	"github.com/senecapartners/seneca-cms-backend/internal/auditlog"
	"github.com/senecapartners/seneca-cms-backend/internal/auth"
	"github.com/senecapartners/seneca-cms-backend/internal/inventory"
	"github.com/senecapartners/seneca-cms-backend/internal/media"
	"github.com/senecapartners/seneca-cms-backend/internal/notification"
	"github.com/senecapartners/seneca-cms-backend/internal/proposal"
	"github.com/senecapartners/seneca-cms-backend/internal/site"
)

// DB is the process-wide connection, set by Connect.
var DB *gorm.DB

// Connect opens the Postgres connection described by cfg. Credentials come from
// DB_USER/DB_PASSWORD, or from AWS Secrets Manager when only DB_SECRET_ID is set.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	username, password := cfg.DBUser, cfg.DBPassword
	if (username == "" || password == "") && cfg.DBSecretID != "" {
		creds, err := retrieveCredentials(context.Background(), cfg.DBSecretID)
		if err != nil {
			return nil, fmt.Errorf("failed to load database credentials: %w", err)
		}
		username, password = creds.Username, creds.Password
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, username, password, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)

	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	DB = db
	log.Printf("✅ Connected to database %s@%s:%s", cfg.DBName, cfg.DBHost, cfg.DBPort)
	return db, nil
}

// Open connects to dsn with the settings every caller relies on: translated
// driver errors (duplicate key, foreign key) and error-level gorm logging.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table, parents before children.
func Migrate(db *gorm.DB) error {
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&site.Site{},
		&auth.StaffUser{},
		&auditlog.AuditLog{},
		&media.Photo{},
		&media.Video{},
		&application.Application{},
		&inventory.Block{},
		&inventory.Floor{},
		&inventory.Plan{},
		&proposal.Template{},
		&proposal.Proposal{},
		&notification.NotificationLog{},
	); err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}
	log.Println("✅ Database migrations completed")
	return nil
}
