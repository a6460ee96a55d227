package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is a database-backed session row.
type Record struct {
	ID        string    `gorm:"primaryKey;type:char(36)"`
	Data      string    `gorm:"type:text;not null"`
	ExpiresAt time.Time `gorm:"type:datetime(3);not null;index:ix_admin_sessions_expires_at"`
	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Record) TableName() string { return "admin_sessions" }

type GormBackend struct {
	db *gorm.DB
}

func NewGormBackend(db *gorm.DB) *GormBackend { return &GormBackend{db: db} }

// Migrate creates the sessions table when missing.
func (b *GormBackend) Migrate() error {
	return b.db.AutoMigrate(&Record{})
}

func (b *GormBackend) Load(ctx context.Context, id string) (map[string]string, error) {
	var rec Record
	err := b.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, time.Now()).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var values map[string]string
	if err := json.Unmarshal([]byte(rec.Data), &values); err != nil {
		return nil, nil
	}
	return values, nil
}

func (b *GormBackend) Store(ctx context.Context, id string, values map[string]string, ttl time.Duration) error {
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	now := time.Now()
	rec := Record{
		ID:        id,
		Data:      string(data),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at", "updated_at"}),
	}).Create(&rec).Error
}

func (b *GormBackend) Remove(ctx context.Context, id string) error {
	return b.db.WithContext(ctx).Delete(&Record{}, "id = ?", id).Error
}

// PurgeExpired deletes rows past their expiry.
func (b *GormBackend) PurgeExpired(ctx context.Context) (int64, error) {
	res := b.db.WithContext(ctx).Where("expires_at <= ?", time.Now()).Delete(&Record{})
	return res.RowsAffected, res.Error
}
