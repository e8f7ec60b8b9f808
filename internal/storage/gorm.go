package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/talkincode/toughstock/internal/domain"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// GormKV stores entries in the sys_kv table.
type GormKV struct {
	db *gorm.DB
}

// OpenPostgres connects to dsn and migrates the sys_kv table.
func OpenPostgres(dsn string) (*GormKV, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is empty")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	return NewGormKV(db)
}

// NewGormKV wraps an existing handle.
func NewGormKV(db *gorm.DB) (*GormKV, error) {
	if err := db.Migrator().AutoMigrate(domain.Tables...); err != nil {
		return nil, errors.Wrap(err, "migrate sys_kv")
	}
	zap.L().Info("sql storage ready", zap.String("namespace", "storage"), zap.String("dialect", db.Dialector.Name()))
	return &GormKV{db: db}, nil
}

func (g *GormKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry domain.SysKV
	err := g.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return entry.Value, true, nil
}

func (g *GormKV) Set(ctx context.Context, entries map[string][]byte) error {
	now := time.Now()
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for k, v := range entries {
			entry := domain.SysKV{Key: k, Value: v, CreatedAt: now, UpdatedAt: now}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&entry).Error
			if err != nil {
				return errors.Wrapf(err, "upsert %s", k)
			}
		}
		return nil
	})
}

func (g *GormKV) Delete(ctx context.Context, key string) error {
	return g.db.WithContext(ctx).Where("key = ?", key).Delete(&domain.SysKV{}).Error
}

func (g *GormKV) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
