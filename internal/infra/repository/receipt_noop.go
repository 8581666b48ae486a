package repository

import (
	"context"

	"app/internal/domain/model"
)

// ReceiptNoopRepository はDSN未設定時のジャーナル。何も記録しない。
type ReceiptNoopRepository struct{}

func NewReceiptNoopRepository() *ReceiptNoopRepository {
	return &ReceiptNoopRepository{}
}

func (r *ReceiptNoopRepository) Create(ctx context.Context, receipt model.Receipt) error {
	return nil
}

func (r *ReceiptNoopRepository) ListBySession(ctx context.Context, sessionID string) ([]model.Receipt, error) {
	return []model.Receipt{}, nil
}
