package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// レジセッションの保存だけを約束。
// Update はセッション単位の排他の下で fn を実行する。
// fn がエラーを返した場合は保存しない。
type RegisterSessionRepository interface {
	Create(ctx context.Context, s model.RegisterSession) error
	Find(ctx context.Context, id string) (model.RegisterSession, error)
	Update(ctx context.Context, id string, fn func(s *model.RegisterSession) error) error
	Delete(ctx context.Context, id string) error
}
