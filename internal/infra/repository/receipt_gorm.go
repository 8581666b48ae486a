package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type ReceiptGormRepository struct {
	db *gorm.DB
}

func NewReceiptGormRepository(db *gorm.DB) *ReceiptGormRepository {
	return &ReceiptGormRepository{db: db}
}

func (r *ReceiptGormRepository) Create(ctx context.Context, receipt model.Receipt) error {
	// Lines はアソシエーションで一緒に保存される
	return r.db.WithContext(ctx).Create(&receipt).Error
}

func (r *ReceiptGormRepository) ListBySession(ctx context.Context, sessionID string) ([]model.Receipt, error) {
	var items []model.Receipt
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("session_id = ?", sessionID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return []model.Receipt{}, err
	}
	return items, nil
}
