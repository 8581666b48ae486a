package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	"app/internal/gateway"
	"app/internal/logger"
	repo "app/internal/repository"
)

// CheckoutUsecase は会計処理。
// 状態機械は Idle → Submitting → Idle。送信中の再実行は409で拒否し、
// バックエンドが成功を返すまでカートには一切手を付けない。
type CheckoutUsecase struct {
	sessions repo.RegisterSessionRepository
	backend  gateway.Backend
	receipts repo.ReceiptRepository

	storeCd string
	posNo   string

	idGen IDGenerator
	clock Clock
}

func NewCheckoutUsecase(
	sessions repo.RegisterSessionRepository,
	backend gateway.Backend,
	receipts repo.ReceiptRepository,
	storeCd string,
	posNo string,
	idGen IDGenerator,
	clock Clock,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		sessions: sessions,
		backend:  backend,
		receipts: receipts,
		storeCd:  storeCd,
		posNo:    posNo,
		idGen:    idGen,
		clock:    clock,
	}
}

type CheckoutOutput struct {
	ReceiptID        string `json:"receipt_id"`
	TotalAmount      int64  `json:"total_amount"`
	TotalAmountExTax int64  `json:"total_amount_ex_tax"`
}

// Checkout はカートをバックエンドへ送って会計する。
// 成功時だけカートをクリアし、確定金額を返す。
func (u *CheckoutUsecase) Checkout(ctx context.Context, sessionID string, empCd string) (CheckoutOutput, error) {
	// Submitting遷移とスナップショット取得をセッションロックの中で行う
	var req model.PurchaseRequest
	err := u.sessions.Update(ctx, sessionID, func(s *model.RegisterSession) error {
		if s.Submitting {
			return NewHTTPError(http.StatusConflict, "checkout already in progress")
		}
		if s.Cart.IsEmpty() {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}
		s.Submitting = true
		items := make([]model.CartLine, len(s.Cart.Lines))
		copy(items, s.Cart.Lines)
		req = model.PurchaseRequest{
			EmpCd:   empCd,
			StoreCd: u.storeCd,
			PosNo:   u.posNo,
			Items:   items,
		}
		return nil
	})
	if err != nil {
		if err == repo.ErrNotFound {
			return CheckoutOutput{}, NewHTTPError(http.StatusNotFound, "session not found")
		}
		if _, ok := AsHTTPError(err); ok {
			return CheckoutOutput{}, err
		}
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	// ネットワーク呼び出しはロックの外
	result, callErr := u.backend.Purchase(ctx, req)
	settled := callErr == nil && result.Success

	// 成功ならクリア、失敗ならカートを残す。どちらでもSubmittingは必ず戻す。
	finErr := u.sessions.Update(ctx, sessionID, func(s *model.RegisterSession) error {
		s.Submitting = false
		if settled {
			s.Cart = model.Cart{}
		}
		return nil
	})
	if finErr != nil {
		logger.Error().Str("session_id", sessionID).Err(finErr).Msg("failed to finalize checkout state")
	}

	if callErr != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadGateway, "checkout failed, please retry")
	}
	if !result.Success {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadGateway, "checkout failed, please retry")
	}

	// ジャーナルはベストエフォート：会計はバックエンドで確定済みなので
	// 書き込み失敗で会計自体を失敗扱いにはしない。
	receipt := buildReceipt(u.idGen.NewID(), sessionID, req, result, u.clock)
	if err := u.receipts.Create(ctx, receipt); err != nil {
		logger.Error().Str("receipt_id", receipt.ID).Err(err).Msg("failed to journal receipt")
	}

	return CheckoutOutput{
		ReceiptID:        receipt.ID,
		TotalAmount:      result.TotalAmount,
		TotalAmountExTax: result.TotalAmountExTax,
	}, nil
}

func buildReceipt(id string, sessionID string, req model.PurchaseRequest, result model.PurchaseResult, clock Clock) model.Receipt {
	lines := make([]model.ReceiptLine, 0, len(req.Items))
	for _, l := range req.Items {
		lines = append(lines, model.ReceiptLine{
			ReceiptID:           id,
			ProductID:           l.ProductID,
			ProductCodeSnapshot: l.Code,
			ProductNameSnapshot: l.Name,
			UnitPriceSnapshot:   l.Price,
			Quantity:            l.Quantity,
		})
	}
	return model.Receipt{
		ID:               id,
		SessionID:        sessionID,
		EmpCd:            req.EmpCd,
		StoreCd:          req.StoreCd,
		PosNo:            req.PosNo,
		TotalAmount:      result.TotalAmount,
		TotalAmountExTax: result.TotalAmountExTax,
		CreatedAt:        clock.Now(),
		Lines:            lines,
	}
}
