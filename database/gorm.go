package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sri-maddineni/college-shortlister/config"
	"github.com/sri-maddineni/college-shortlister/model"
)

type GORMStore struct {
	db    *gorm.DB
	clock insertClock
}

// StartGORM initializes a GORM connection to PostgreSQL
func StartGORM(getEnv *config.EnviornmentVariable) (*GORMStore, error) {
	// Build DSN (Data Source Name)
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		getEnv.DB_HOST,
		getEnv.DB_USER_NAME,
		getEnv.DB_PASSWORD,
		getEnv.DB_NAME,
		getEnv.DB_PORT,
		getEnv.DB_SSL_MODE,
	)

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Warn)
	if getEnv.GO_ENV == "production" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
	})
	if err != nil {
		log.Println("Unable to connect to PostgreSQL with GORM:", err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Successfully connected to PostgreSQL Database with GORM.")

	return &GORMStore{db: db}, nil
}

// Init runs the AutoMigrate to create/update tables
func (s *GORMStore) Init() error {
	log.Println("Running GORM AutoMigrate for records...")

	if err := s.db.AutoMigrate(&model.Record{}); err != nil {
		log.Println("Error running AutoMigrate:", err)
		return err
	}

	log.Println("GORM AutoMigrate completed successfully!")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	log.Println("Closing GORM PostgreSQL connection...")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// ListRecords retrieves all records in insertion order
func (s *GORMStore) ListRecords(ctx context.Context) ([]model.Record, error) {
	var records []model.Record
	result := s.db.WithContext(ctx).Order("created_at, id").Find(&records)
	return records, result.Error
}

// GetRecord retrieves a record by ID
func (s *GORMStore) GetRecord(ctx context.Context, id string) (*model.Record, error) {
	var record model.Record
	err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// CreateRecord adds a new record to the database
func (s *GORMStore) CreateRecord(ctx context.Context, record *model.Record) error {
	record.CreatedAt = s.clock.next()
	record.UpdatedAt = record.CreatedAt
	return s.db.WithContext(ctx).Create(record).Error
}

// UpdateRecord replaces every field of an existing record
func (s *GORMStore) UpdateRecord(ctx context.Context, record *model.Record) error {
	result := s.db.WithContext(ctx).Model(&model.Record{}).
		Where("id = ?", record.ID).
		Select("*").Omit("id", "created_at").
		Updates(record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// DeleteRecord deletes a record by ID from the database
func (s *GORMStore) DeleteRecord(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&model.Record{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
