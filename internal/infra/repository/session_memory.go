package repository

import (
	"context"
	"sync"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// SessionMemoryRepository はレジセッションのインメモリ実装。
// レジ1台=1セッションで台数は少ないため、mapとエントリ単位のロックで足りる。
type SessionMemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu sync.Mutex
	s  model.RegisterSession
}

func NewSessionMemoryRepository() *SessionMemoryRepository {
	return &SessionMemoryRepository{
		sessions: make(map[string]*sessionEntry),
	}
}

func (r *SessionMemoryRepository) Create(ctx context.Context, s model.RegisterSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = &sessionEntry{s: s}
	return nil
}

func (r *SessionMemoryRepository) Find(ctx context.Context, id string) (model.RegisterSession, error) {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return model.RegisterSession{}, repo.ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneSession(e.s), nil
}

// Update はエントリのロックを握ったまま fn を実行する。
// fn がエラーを返したら変更は捨てる。
func (r *SessionMemoryRepository) Update(ctx context.Context, id string, fn func(s *model.RegisterSession) error) error {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return repo.ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	work := cloneSession(e.s)
	if err := fn(&work); err != nil {
		return err
	}
	e.s = work
	return nil
}

func (r *SessionMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

// 明細スライスを共有しないようコピーする
func cloneSession(s model.RegisterSession) model.RegisterSession {
	out := s
	out.Cart.Lines = make([]model.CartLine, len(s.Cart.Lines))
	copy(out.Cart.Lines, s.Cart.Lines)
	return out
}
