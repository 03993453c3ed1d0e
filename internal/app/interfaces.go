package app

import (
	"context"

	"github.com/totoromaum/h5p-cornell/internal/state"
)

// Store is the slice of the persistence layer the shell actually uses.
// It stays nil when the database cannot be opened; every caller treats
// that as "run without local persistence".
type Store interface {
	EnsureSchema(ctx context.Context) error

	GetCachedSnapshot(ctx context.Context, key string) (string, error)
	PutCachedSnapshot(ctx context.Context, key, payload string) error

	GetHostState(ctx context.Context, contentID string) (string, bool, error)
	PutHostState(ctx context.Context, contentID, payload string) error

	StartSession(ctx context.Context, session state.Session) error
	EndSession(ctx context.Context, sessionID string, end state.SessionEnd) error

	AppendStatement(ctx context.Context, rec state.StatementRecord) (int64, error)

	SaveSettings(ctx context.Context, values map[string]string) error
	LoadSettings(ctx context.Context) (map[string]string, error)

	Close() error
}

var _ Store = (*state.SQLiteStore)(nil)
