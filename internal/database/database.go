package database

import (
	"fmt"

	"github.com/Dacosmicgiant/fitness-mock/internal/config"
	logging "github.com/Dacosmicgiant/fitness-mock/internal/logging"
	"github.com/Dacosmicgiant/fitness-mock/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init opens the Postgres connection and runs migrations. The handle is
// returned rather than stored in a package global so repositories receive
// it explicitly and tests can substitute their own.
func Init(log *zap.Logger) (*gorm.DB, error) {
	dbConf := config.Conf.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)

	gormLogger := logging.NewGormZapLogger(log)
	gormLogger.LogLevel = logger.Warn

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Database connection established successfully.")

	if err := runMigrations(db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func runMigrations(db *gorm.DB, log *zap.Logger) error {
	// GORM's AutoMigrate will create tables, columns, and foreign keys.
	// It will NOT create custom indexes, so we handle that separately.
	err := db.AutoMigrate(
		&models.User{},
		&models.Certification{},
		&models.Module{},
		&models.Question{},
		&models.AnswerOption{},
		&models.Plan{},
		&models.TestAttempt{},
		&models.TestResponse{},
	)
	if err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	log.Info("Database migrations completed successfully.")

	// Attempt history is always read newest-first per user.
	attemptsIndex := `CREATE INDEX IF NOT EXISTS idx_attempts_history ON test_attempts (user_id, completed_at DESC);`
	if err := db.Exec(attemptsIndex).Error; err != nil {
		return fmt.Errorf("failed to create custom index on test_attempts: %w", err)
	}
	log.Info("Custom indexes ensured successfully.")
	return nil
}
