package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// IDを発行する約束
type IDGenerator interface {
	NewID() string
}

// 現在時刻を返す約束
type Clock interface {
	Now() time.Time
}

// SessionUsecase はレジセッションの開始・終了。
type SessionUsecase struct {
	sessions repo.RegisterSessionRepository
	scanners *ScannerUsecase
	idGen    IDGenerator
	clock    Clock
}

func NewSessionUsecase(
	sessions repo.RegisterSessionRepository,
	scanners *ScannerUsecase,
	idGen IDGenerator,
	clock Clock,
) *SessionUsecase {
	return &SessionUsecase{
		sessions: sessions,
		scanners: scanners,
		idGen:    idGen,
		clock:    clock,
	}
}

type SessionOutput struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Open はレジセッションを新規作成する。
func (u *SessionUsecase) Open(ctx context.Context) (SessionOutput, error) {
	s := model.RegisterSession{
		ID:        u.idGen.NewID(),
		CreatedAt: u.clock.Now(),
	}
	if err := u.sessions.Create(ctx, s); err != nil {
		return SessionOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return SessionOutput{ID: s.ID, CreatedAt: s.CreatedAt}, nil
}

// Close はセッションを破棄する。スキャナが生きていれば必ず止める。
func (u *SessionUsecase) Close(ctx context.Context, sessionID string) error {
	u.scanners.Stop(ctx, sessionID)

	if err := u.sessions.Delete(ctx, sessionID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return nil
}
