package persistence

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/erp/sales/internal/domain/billing"
	"github.com/erp/sales/internal/domain/commission"
	"github.com/erp/sales/internal/domain/sales"
	"github.com/erp/sales/internal/infrastructure/config"
)

// Database holds the database connection
type Database struct {
	DB *gorm.DB
}

// NewDatabase creates a new database connection with the given configuration
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	return NewDatabaseWithLogger(cfg, logger.Default.LogMode(logger.Silent))
}

// NewDatabaseWithLogger creates a new database connection with a custom GORM
// logger
func NewDatabaseWithLogger(cfg *config.DatabaseConfig, gormLogger logger.Interface) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{DB: db}, nil
}

// Ping verifies the database connection is alive
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate creates or updates the schema for every persisted aggregate.
// Production deployments run the versioned SQL migrations instead; this is
// for development and tests.
func (d *Database) AutoMigrate() error {
	return AutoMigrate(d.DB)
}

// AutoMigrate runs GORM auto migration on the given connection
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&sales.Quotation{},
		&sales.QuotationItem{},
		&sales.SalesOrder{},
		&sales.SalesOrderItem{},
		&sales.SalesReturn{},
		&sales.SalesReturnItem{},
		&sales.BackOrder{},
		&sales.InventoryReservation{},
		&billing.Invoice{},
		&billing.InvoiceItem{},
		&billing.Payment{},
		&billing.AdvancePayment{},
		&billing.AdvancePaymentApplication{},
		&billing.CreditNote{},
		&billing.CreditNoteItem{},
		&billing.CreditNoteApplication{},
		&commission.CommissionPlan{},
		&commission.CommissionTier{},
		&commission.SalesCommission{},
		&commission.Discount{},
	)
}
