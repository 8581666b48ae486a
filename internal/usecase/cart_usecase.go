package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	"app/internal/gateway"
	repo "app/internal/repository"
)

// CartUsecase はカートの業務ロジック。
// 合計金額は返却のたびにカートから計算し直す。
type CartUsecase struct {
	sessions repo.RegisterSessionRepository
	backend  gateway.Backend
}

func NewCartUsecase(
	sessions repo.RegisterSessionRepository,
	backend gateway.Backend,
) *CartUsecase {
	return &CartUsecase{
		sessions: sessions,
		backend:  backend,
	}
}

type CartLineResponse struct {
	ProductID int64  `json:"product_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

type CartResponse struct {
	Items            []CartLineResponse `json:"items"`
	TotalAmount      int64              `json:"total_amount"`
	TotalAmountExTax int64              `json:"total_amount_ex_tax"`
	TaxAmount        int64              `json:"tax_amount"`
}

// LookupAndAdd はコードで商品を検索してカートへ取り込む。
// 空/空白のみの入力はバックエンドを呼ばずに弾く。
// 検索失敗・該当なしのときカートは変更しない。
func (u *CartUsecase) LookupAndAdd(ctx context.Context, sessionID string, code string) (CartResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid code")
	}

	// セッション存在チェック
	if _, err := u.sessions.Find(ctx, sessionID); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "session not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	p, err := u.backend.SearchProduct(ctx, code)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusBadGateway, "product lookup failed")
	}
	if p == nil {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
	}

	var out CartResponse
	err = u.sessions.Update(ctx, sessionID, func(s *model.RegisterSession) error {
		// 同一商品は数量+1、新規は末尾へ追加（追加順維持）
		s.Cart.Merge(*p)
		out = buildCartResponse(s.Cart)
		return nil
	})
	if err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "session not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return out, nil
}

// Adjust は数量を±1する。-1で数量0になる明細は削除。
func (u *CartUsecase) Adjust(ctx context.Context, sessionID string, productID int64, delta int64) (CartResponse, error) {
	if productID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if delta != 1 && delta != -1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid delta")
	}

	var out CartResponse
	err := u.sessions.Update(ctx, sessionID, func(s *model.RegisterSession) error {
		s.Cart.Adjust(productID, delta)
		out = buildCartResponse(s.Cart)
		return nil
	})
	if err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "session not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return out, nil
}

// Remove は数量に関係なく明細を削除する。
func (u *CartUsecase) Remove(ctx context.Context, sessionID string, productID int64) (CartResponse, error) {
	if productID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	var out CartResponse
	err := u.sessions.Update(ctx, sessionID, func(s *model.RegisterSession) error {
		s.Cart.Remove(productID)
		out = buildCartResponse(s.Cart)
		return nil
	})
	if err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "session not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return out, nil
}

// Get はカートの現在状態を返す。
func (u *CartUsecase) Get(ctx context.Context, sessionID string) (CartResponse, error) {
	s, err := u.sessions.Find(ctx, sessionID)
	if err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "session not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return buildCartResponse(s.Cart), nil
}

// カートからレスポンスを組み立てる。
// 税額は必ず 税込合計-税抜合計（3つの数字が常に一致する）。
func buildCartResponse(c model.Cart) CartResponse {
	items := make([]CartLineResponse, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, CartLineResponse{
			ProductID: l.ProductID,
			Code:      l.Code,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
			Subtotal:  l.Price * l.Quantity,
		})
	}
	return CartResponse{
		Items:            items,
		TotalAmount:      c.TotalInclusive(),
		TotalAmountExTax: c.TotalExclusive(),
		TaxAmount:        c.Tax(),
	}
}
