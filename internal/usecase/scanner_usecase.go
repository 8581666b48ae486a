package usecase

import (
	"context"
	"net/http"
	"sync"
	"time"

	"app/internal/logger"
	repo "app/internal/repository"
	"app/internal/scanner"
)

// ScannerUsecase はスキャナセッションの寿命管理。
// カメラはレジセッションごとに1つの排他資源：稼働中にもう一度
// 開始しようとしたら CameraBusy を返す。
type ScannerUsecase struct {
	sessions repo.RegisterSessionRepository
	cart     *CartUsecase

	cooldown   time.Duration
	closeDelay time.Duration

	mu     sync.Mutex
	active map[string]*scanner.Session
}

func NewScannerUsecase(
	sessions repo.RegisterSessionRepository,
	cart *CartUsecase,
	cooldown time.Duration,
	closeDelay time.Duration,
) *ScannerUsecase {
	return &ScannerUsecase{
		sessions:   sessions,
		cart:       cart,
		cooldown:   cooldown,
		closeDelay: closeDelay,
		active:     make(map[string]*scanner.Session),
	}
}

type ScannerStatusOutput struct {
	Active  bool   `json:"active"`
	Message string `json:"message,omitempty"`
}

// Start はスキャナセッションを開始する。
func (u *ScannerUsecase) Start(ctx context.Context, sessionID string) (ScannerStatusOutput, error) {
	if _, err := u.sessions.Find(ctx, sessionID); err != nil {
		if err == repo.ErrNotFound {
			return ScannerStatusOutput{}, NewHTTPError(http.StatusNotFound, "session not found")
		}
		return ScannerStatusOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if s, ok := u.active[sessionID]; ok && s.Active() {
		return ScannerStatusOutput{}, NewHTTPError(http.StatusConflict, scanner.ErrorBusy.Message())
	}

	var s *scanner.Session
	s = scanner.NewSession(nil,
		func(kind scanner.ErrorKind) {
			logger.Warn().Str("session_id", sessionID).Str("kind", string(kind)).Msg("scanner fatal error")
		},
		scanner.WithCooldown(u.cooldown),
		scanner.WithCloseDelay(u.closeDelay),
		// 自動クローズが遅れて発火しても、後続の新しいセッションを消さない
		scanner.OnClosed(func() { u.forget(sessionID, s) }),
	)
	if err := s.Start(nil); err != nil {
		return ScannerStatusOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	u.active[sessionID] = s

	return ScannerStatusOutput{Active: true}, nil
}

// Deliver は読み取り値1件を処理する。
// デバウンスで抑止された読み取りは検索せず delivered=false を返す。
func (u *ScannerUsecase) Deliver(ctx context.Context, sessionID string, code string) (CartResponse, bool, error) {
	u.mu.Lock()
	s, ok := u.active[sessionID]
	u.mu.Unlock()
	if !ok || !s.Active() {
		return CartResponse{}, false, NewHTTPError(http.StatusConflict, "scanner not running")
	}

	if !s.Deliver(code) {
		return CartResponse{}, false, nil
	}

	out, err := u.cart.LookupAndAdd(ctx, sessionID, code)
	if err != nil {
		return CartResponse{}, true, err
	}
	return out, true, nil
}

// ReportError はUI側のカメラ/デコーダエラー通知を分類する。
// 致命的エラーはセッションをfailedにし、一定時間後の自動クローズを予約する。
func (u *ScannerUsecase) ReportError(ctx context.Context, sessionID string, name string) (ScannerStatusOutput, error) {
	u.mu.Lock()
	s, ok := u.active[sessionID]
	u.mu.Unlock()
	if !ok {
		return ScannerStatusOutput{}, NewHTTPError(http.StatusConflict, "scanner not running")
	}

	kind, fatal := s.ReportError(name)
	if !fatal {
		// 枠内にコードが無いだけ。スキャナは生きている。
		return ScannerStatusOutput{Active: true}, nil
	}
	return ScannerStatusOutput{Active: false, Message: kind.Message()}, nil
}

// Stop はスキャナを止める。未稼働でも安全。
func (u *ScannerUsecase) Stop(ctx context.Context, sessionID string) {
	u.mu.Lock()
	s, ok := u.active[sessionID]
	u.mu.Unlock()
	if !ok {
		return
	}
	s.Stop()
}

func (u *ScannerUsecase) forget(sessionID string, s *scanner.Session) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.active[sessionID] == s {
		delete(u.active, sessionID)
	}
}
