package repository

import (
	"app/internal/domain/model"
	"context"
)

// レシートジャーナルの保存だけを約束。
type ReceiptRepository interface {
	Create(ctx context.Context, r model.Receipt) error
	ListBySession(ctx context.Context, sessionID string) ([]model.Receipt, error)
}
