package mysql

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/fabric-inventory/internal/domain/shared"
	"github.com/xiebiao/fabric-inventory/internal/infrastructure/config"
)

// NewDB opens the MySQL connection pool.
// Design notes:
// 1. GORM v2 as ORM
// 2. Pool sizing comes from config (MaxOpenConns, MaxIdleConns, ConnMaxLifetime)
// 3. SQL is logged in debug mode only
// 4. Tables are created with AutoMigrate when database.auto_migrate is set
//
// The returned cleanup closes the pool.
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	// 1. DSN
	dsn := cfg.Database.DSN()

	// 2. GORM logger
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	// 3. Connect
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().Truncate(time.Second)
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	// 4. Pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. Ping
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	// 6. Schema
	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
	}

	cleanup := func() {
		if err := sqlDB.Close(); err != nil {
			log.Error("close database", zap.Error(err))
		}
	}

	return db, cleanup, nil
}

// AutoMigrate creates or extends the tables.
// AutoMigrate only adds tables, columns and indexes; it never drops or alters
// existing columns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&RollModel{},
		&SaleModel{},
	)
}

// RollModel is the GORM model for fabric_rolls.
// Design notes:
// 1. Infrastructure data model with GORM tags; domain/roll.Roll stays tag free
// 2. Lengths are DECIMAL(10,2) so 0.1 + 0.2 stays 0.30
// 3. Indexes back the inventory filters and sort keys
type RollModel struct {
	ID             uint            `gorm:"primaryKey"`
	FabricType     string          `gorm:"size:100;not null;index;comment:fabric type"`
	Color          string          `gorm:"size:50;not null;index;comment:color"`
	OriginalLength decimal.Decimal `gorm:"type:decimal(10,2);not null;comment:length at entry (m)"`
	CurrentLength  decimal.Decimal `gorm:"type:decimal(10,2);not null;index;comment:length left (m)"`
	EntryDate      shared.Date     `gorm:"type:date;not null;index;comment:entry date"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName sets the table name.
func (RollModel) TableName() string {
	return "fabric_rolls"
}

// SaleModel is the GORM model for sales.
// Roll is declared only so AutoMigrate creates the foreign key; writes omit it.
type SaleModel struct {
	ID         uint            `gorm:"primaryKey"`
	RollID     uint            `gorm:"not null;index;comment:sold roll"`
	Roll       RollModel       `gorm:"foreignKey:RollID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	MetersSold decimal.Decimal `gorm:"type:decimal(10,2);not null;comment:meters sold"`
	SaleDate   shared.Date     `gorm:"type:date;not null;index;comment:sale date"`
	CreatedAt  time.Time
}

// TableName sets the table name.
func (SaleModel) TableName() string {
	return "sales"
}
