package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mvc-is/portal/internal/inventory"
	"github.com/mvc-is/portal/internal/logger"
	"github.com/mvc-is/portal/internal/models"
)

// OpenDB opens the primary connection for the configured driver ("mysql" or "sqlite").
func OpenDB(driver, dsn string, log *zap.Logger) (*gorm.DB, error) {
	log = logger.OrNop(log)
	gcfg := &gorm.Config{Logger: newGormLogger(log)}

	switch strings.ToLower(driver) {
	case "mysql":
		sqlDB, err := OpenMySQL(dsn)
		if err != nil {
			return nil, err
		}
		db, err := gorm.Open(gormmysql.New(gormmysql.Config{Conn: sqlDB}), gcfg)
		if err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to wrap mysql pool: %w", err)
		}
		log.Info("database connection pool established", zap.String("driver", "mysql"))
		return db, nil
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(dsn), gcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite %q: %w", dsn, err)
		}
		log.Info("database opened", zap.String("driver", "sqlite"), zap.String("dsn", dsn))
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// OpenMySQL creates and configures a MySQL connection pool for the given DSN.
func OpenMySQL(dsn string) (*sql.DB, error) {
	// 1. Open a new connection pool.
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// 2. Configure the connection pool settings.
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 3. Ping the database to verify the connection.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach mysql: %w", err)
	}
	return db, nil
}

// OpenMemory opens a private in-memory SQLite database pinned to a single
// connection, so every query sees the same data.
func OpenMemory() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	return db, nil
}

// Migrate creates the account, directory and inventory tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.PasswordReset{}, &models.Employee{}); err != nil {
		return fmt.Errorf("failed to migrate core tables: %w", err)
	}
	if err := inventory.Migrate(db); err != nil {
		return err
	}
	return nil
}

// Seed loads the reference employee directory into an empty 'hr_employees' table.
func Seed(db *gorm.DB) (int, error) {
	var n int64
	if err := db.Model(&models.Employee{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	rows := make([]models.Employee, len(models.SeedEmployees))
	copy(rows, models.SeedEmployees)
	if err := db.Create(&rows).Error; err != nil {
		return 0, fmt.Errorf("failed to seed employees: %w", err)
	}
	return len(rows), nil
}

func newGormLogger(log *zap.Logger) gormlogger.Interface {
	return gormlogger.New(
		zap.NewStdLog(log.Named("gorm")),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
