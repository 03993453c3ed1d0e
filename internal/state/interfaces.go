package state

import (
	"context"
	"time"
)

// Store persists everything the host shell keeps between runs: the
// reconciler's snapshot cache, the host-side state channel, session
// records, and the statement journal.
type Store interface {
	EnsureSchema(ctx context.Context) error

	GetCachedSnapshot(ctx context.Context, key string) (string, error)
	PutCachedSnapshot(ctx context.Context, key, payload string) error

	GetHostState(ctx context.Context, contentID string) (string, bool, error)
	PutHostState(ctx context.Context, contentID, payload string) error

	StartSession(ctx context.Context, session Session) error
	EndSession(ctx context.Context, sessionID string, end SessionEnd) error
	GetLastSession(ctx context.Context, contentID string) (*Session, error)

	AppendStatement(ctx context.Context, rec StatementRecord) (int64, error)
	RecentStatements(ctx context.Context, contentID string, limit int) ([]StatementRecord, error)

	SaveSettings(ctx context.Context, values map[string]string) error
	LoadSettings(ctx context.Context) (map[string]string, error)

	Close() error
}

type Session struct {
	SessionID  string
	ContentID  string
	StartTS    time.Time
	EndTS      time.Time
	LastView   string
	Fullscreen bool
	Saves      int
}

type SessionEnd struct {
	EndTS      time.Time
	LastView   string
	Fullscreen bool
	Saves      int
}

// Journal rows carry a kind and schema version so older databases stay
// readable after the statement payload shape changes.
const (
	StatementKind          = "xapi-statement"
	StatementSchemaVersion = 1
)

type StatementRecord struct {
	ID            int64
	Kind          string
	SchemaVersion int
	SessionID     string
	ContentID     string
	Verb          string
	Payload       string
	CreatedTS     time.Time
}
