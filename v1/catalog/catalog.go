package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrNotFound is returned when no record matches the lookup.
var ErrNotFound = errors.New("catalog: record not found")

// Catalog is the relational index of stored images. It answers by-ID and
// by-label lookups that the vector database is the wrong tool for.
type Catalog struct {
	db *gorm.DB
}

// NewCatalog connects to PostgreSQL and migrates the schema.
func NewCatalog(cfg *Config) (*Catalog, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(cfg.dsn()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("catalog: get database handle: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = defaultMaxIdleConns
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(defaultConnMaxLifetime)

	if err := db.AutoMigrate(&ImageRecord{}); err != nil {
		return nil, fmt.Errorf("catalog: migrate schema: %w", err)
	}

	return &Catalog{db: db}, nil
}

// Create inserts a record.
func (c *Catalog) Create(ctx context.Context, record *ImageRecord) error {
	if record.ID == "" {
		return fmt.Errorf("catalog: record has no ID")
	}
	if err := c.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("catalog: create %s: %w", record.ID, err)
	}
	return nil
}

// Get fetches a record by ID.
func (c *Catalog) Get(ctx context.Context, id string) (*ImageRecord, error) {
	var record ImageRecord
	err := c.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get %s: %w", id, err)
	}
	return &record, nil
}

// GetByObjectKey fetches a record by its object store key.
func (c *Catalog) GetByObjectKey(ctx context.Context, key string) (*ImageRecord, error) {
	var record ImageRecord
	err := c.db.WithContext(ctx).First(&record, "object_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get by key %s: %w", key, err)
	}
	return &record, nil
}

// ListRecent returns up to limit records, newest first.
func (c *Catalog) ListRecent(ctx context.Context, limit int) ([]ImageRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("catalog: limit must be positive")
	}

	var records []ImageRecord
	err := c.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("catalog: list recent: %w", err)
	}
	return records, nil
}

// ListByLabel returns up to limit records carrying the label, newest first.
func (c *Catalog) ListByLabel(ctx context.Context, label string, limit int) ([]ImageRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("catalog: limit must be positive")
	}

	var records []ImageRecord
	err := c.db.WithContext(ctx).
		Where("label = ?", label).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("catalog: list by label %s: %w", label, err)
	}
	return records, nil
}

// Count returns the total number of records.
func (c *Catalog) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&ImageRecord{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("catalog: count: %w", err)
	}
	return count, nil
}

// Delete removes a record by ID. Deleting a missing record is not an error.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	if err := c.db.WithContext(ctx).Delete(&ImageRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("catalog: delete %s: %w", id, err)
	}
	return nil
}

// Transaction runs fn atomically: an error return rolls everything back.
func (c *Catalog) Transaction(ctx context.Context, fn func(tx *Catalog) error) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Catalog{db: tx})
	})
}

// Close shuts down the connection pool.
func (c *Catalog) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("catalog: get database handle: %w", err)
	}
	return sqlDB.Close()
}
