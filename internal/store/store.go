package store

import (
	"context"

	"github.com/nhle/noticeboard/internal/model"
)

// NoticeStore is the local, append-only notice history.
type NoticeStore interface {
	// EnsureSchema creates the notice table if it does not exist.
	// It is safe to call any number of times.
	EnsureSchema(ctx context.Context) error

	// AppendNotice inserts one notice. Duplicate IDs are accepted.
	AppendNotice(ctx context.Context, n model.Notice) error

	// ListNotices returns every stored notice in insertion order.
	ListNotices(ctx context.Context) ([]model.Notice, error)

	Close() error
}
