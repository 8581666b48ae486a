package scanner

import (
	"errors"
	"sync"
	"time"
)

// カメラ取得失敗の分類。
type ErrorKind string

const (
	ErrorPermissionDenied ErrorKind = "CAMERA_PERMISSION_DENIED"
	ErrorNotFound         ErrorKind = "CAMERA_NOT_FOUND"
	ErrorBusy             ErrorKind = "CAMERA_BUSY"
	ErrorUnknown          ErrorKind = "CAMERA_UNKNOWN"
)

// 分類ごとのユーザー向けメッセージ。
var kindMessages = map[ErrorKind]string{
	ErrorPermissionDenied: "camera permission denied: allow camera access and retry",
	ErrorNotFound:         "no camera found on this device",
	ErrorBusy:             "camera is in use by another application",
	ErrorUnknown:          "failed to start the camera",
}

// Message はユーザー向けメッセージを返す。
func (k ErrorKind) Message() string {
	if m, ok := kindMessages[k]; ok {
		return m
	}
	return kindMessages[ErrorUnknown]
}

// ClassifyError はブラウザ（getUserMedia系）のDOMException名を分類へ落とす。
func ClassifyError(name string) ErrorKind {
	switch name {
	case "NotAllowedError", "PermissionDeniedError", "SecurityError":
		return ErrorPermissionDenied
	case "NotFoundError", "DevicesNotFoundError", "OverconstrainedError":
		return ErrorNotFound
	case "NotReadableError", "TrackStartError", "AbortError":
		return ErrorBusy
	default:
		return ErrorUnknown
	}
}

// Decoder はデコーダとの約束。
// 起動に失敗したらカメラ取得エラーを返す。onError にはDOMException名が届く。
type Decoder interface {
	Start(onDecode func(code string), onError func(name string)) error
	Stop()
}

var ErrClosed = errors.New("scanner session closed")

type gateState int

const (
	gateOpen gateState = iota
	gateLocked
)

const (
	// 同一スキャンの連続検出を抑止するクールダウン。
	DefaultCooldown = 1 * time.Second
	// 致命的エラー後にセッションを自動クローズするまでの猶予。
	DefaultCloseDelay = 3 * time.Second
)

// Session はスキャナ1回分のセッション。
// デコーダの連続検出をデバウンスし、1クールダウンにつき1回だけ
// OnDecoded を呼ぶ。値の重複排除ではないので、クールダウン後の
// 同一コードは再び通す。
type Session struct {
	cooldown   time.Duration
	closeDelay time.Duration

	onDecoded func(code string)
	onFatal   func(kind ErrorKind)
	onClosed  func()

	mu         sync.Mutex
	gate       gateState
	failed     bool
	closed     bool
	dec        Decoder
	gateTimer  *time.Timer
	closeTimer *time.Timer
}

// Option でテスト用に時間を差し替えられる。
type Option func(*Session)

func WithCooldown(d time.Duration) Option {
	return func(s *Session) { s.cooldown = d }
}

func WithCloseDelay(d time.Duration) Option {
	return func(s *Session) { s.closeDelay = d }
}

// OnClosed はセッションが閉じたとき（Stop・自動クローズ両方）に呼ばれる。
func OnClosed(fn func()) Option {
	return func(s *Session) { s.onClosed = fn }
}

// NewSession はセッションを作る。
// onDecoded はデバウンスを通過した読み取りごとに、onFatal は
// カメラ取得失敗・権限剥奪などの致命的エラーで呼ばれる。
func NewSession(onDecoded func(code string), onFatal func(kind ErrorKind), opts ...Option) *Session {
	s := &Session{
		cooldown:   DefaultCooldown,
		closeDelay: DefaultCloseDelay,
		onDecoded:  onDecoded,
		onFatal:    onFatal,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start はセッションを開始する。
// dec が nil の場合はリモートモード（Deliver / ReportError で外から供給）。
// デコーダの起動失敗は分類して致命的エラー扱いにし、エラーを返す。
func (s *Session) Start(dec Decoder) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.dec = dec
	s.mu.Unlock()

	if dec == nil {
		return nil
	}

	if err := dec.Start(func(code string) {
		s.Deliver(code)
	}, func(name string) {
		s.ReportError(name)
	}); err != nil {
		kind := ClassifyError(err.Error())
		s.fail(kind)
		return err
	}
	return nil
}

// Deliver は読み取り値を1件流し込む。
// ゲートが開いていればロックを取得してtrueを返し、クールダウン後に
// タイマーで再び開く。ロック中・クローズ後はfalse。
func (s *Session) Deliver(code string) bool {
	s.mu.Lock()
	if s.closed || s.failed || s.gate == gateLocked {
		s.mu.Unlock()
		return false
	}
	s.gate = gateLocked
	s.gateTimer = time.AfterFunc(s.cooldown, s.reopen)
	s.mu.Unlock()

	if s.onDecoded != nil {
		s.onDecoded(code)
	}
	return true
}

func (s *Session) reopen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.gate = gateOpen
}

// ReportError はデコーダ側のエラー通知。
// 枠内にコードが無い等の一過性ノイズは握り潰し、
// カメラ取得失敗や権限剥奪だけを致命的エラーとして扱う。
func (s *Session) ReportError(name string) (ErrorKind, bool) {
	switch name {
	case "NotFoundException", "ChecksumException", "FormatException":
		// ZXing系の「コード未検出」ノイズ。何もしない。
		return "", false
	}
	kind := ClassifyError(name)
	s.fail(kind)
	return kind, true
}

// 致命的エラー：failedにして一定時間後に自動クローズを予約する。
// UIが死んだスキャナを抱えたままにならないようにするため。
func (s *Session) fail(kind ErrorKind) {
	s.mu.Lock()
	if s.closed || s.failed {
		s.mu.Unlock()
		return
	}
	s.failed = true
	s.closeTimer = time.AfterFunc(s.closeDelay, s.Stop)
	s.mu.Unlock()

	if s.onFatal != nil {
		s.onFatal(kind)
	}
}

// Failed は致命的エラー発生済みかどうか。
func (s *Session) Failed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed
}

// Active は読み取りを受け付ける状態かどうか。
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && !s.failed
}

// Stop はセッションを閉じる。何度呼んでも安全。
// タイマーを必ず止め、デコーダ（カメラ資源）を解放する。
func (s *Session) Stop() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.gateTimer != nil {
		s.gateTimer.Stop()
	}
	if s.closeTimer != nil {
		s.closeTimer.Stop()
	}
	dec := s.dec
	s.dec = nil
	s.mu.Unlock()

	if dec != nil {
		dec.Stop()
	}
	if s.onClosed != nil {
		s.onClosed()
	}
}
