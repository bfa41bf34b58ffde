package database

import (
	"errors"
	"fmt"
	"os"

	"finance-tracker/constants"
	"finance-tracker/logger"
	financeModel "finance-tracker/models/finance"
	logModel "finance-tracker/models/log"
	otpModel "finance-tracker/models/otp"
	userModel "finance-tracker/models/user"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection with auto migration and indexing
func InitDB() (*gorm.DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	user := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE")
	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := Migrate(DB); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	if err := createIndexes(DB); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	if _, err := EnsureDefaultRole(DB); err != nil {
		logger.Error("Failed to seed default role", err)
		return nil, err
	}

	return DB, nil
}

// Migrate runs auto migration for all models in dependency order
func Migrate(db *gorm.DB) error {
	// Stage 1: foundation models without foreign keys
	stage1Models := []interface{}{
		&userModel.Role{},
	}

	// Stage 2: models referencing stage 1
	stage2Models := []interface{}{
		&userModel.User{},
	}

	// Stage 3: everything hanging off users
	stage3Models := []interface{}{
		&otpModel.EmailOTPToken{},
		&financeModel.Account{},
		&financeModel.Category{},
		&financeModel.Transaction{},
		&logModel.Log{},
	}

	for _, stage := range [][]interface{}{stage1Models, stage2Models, stage3Models} {
		for _, model := range stage {
			if err := db.AutoMigrate(model); err != nil {
				return fmt.Errorf("failed to migrate %T: %w", model, err)
			}
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name string
		sql  string
	}{
		{"idx_users_email", "CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)"},
		{"idx_users_status", "CREATE INDEX IF NOT EXISTS idx_users_status ON users(status)"},
		{"idx_email_otp_tokens_created_at", "CREATE INDEX IF NOT EXISTS idx_email_otp_tokens_created_at ON email_otp_tokens(created_at)"},
		{"idx_transactions_user_occurred", "CREATE INDEX IF NOT EXISTS idx_transactions_user_occurred ON transactions(user_id, occurred_at)"},
		{"idx_transactions_account_id", "CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON transactions(account_id)"},
		{"idx_logs_status_code", "CREATE INDEX IF NOT EXISTS idx_logs_status_code ON logs(status_code)"},
		{"idx_logs_created_at", "CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)"},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}

// EnsureDefaultRole returns the default "user" role, creating it if absent
func EnsureDefaultRole(db *gorm.DB) (*userModel.Role, error) {
	var role userModel.Role
	err := db.Where("code = ?", constants.DefaultRoleCode).First(&role).Error
	if err == nil {
		return &role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up default role: %w", err)
	}

	role = userModel.Role{Code: constants.DefaultRoleCode, Name: constants.DefaultRoleName}
	if err := db.Create(&role).Error; err != nil {
		return nil, fmt.Errorf("failed to create default role: %w", err)
	}
	return &role, nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
