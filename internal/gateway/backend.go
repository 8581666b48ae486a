package gateway

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

// バックエンド呼び出しの失敗（非2xx・ネットワーク断など）。
var ErrBackend = errors.New("backend request failed")

// HealthStatus は GET / の診断用レスポンス。
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// Backend は決済バックエンドとの約束。
// SearchProduct は該当商品が無いとき (nil, nil) を返す。
type Backend interface {
	SearchProduct(ctx context.Context, code string) (*model.Product, error)
	Purchase(ctx context.Context, req model.PurchaseRequest) (model.PurchaseResult, error)
	Health(ctx context.Context) (HealthStatus, error)
}
