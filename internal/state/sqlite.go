package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshot_cache (
			cache_key TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_ts TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS host_state (
			content_id TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_ts TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			content_id TEXT NOT NULL,
			start_ts TEXT NOT NULL,
			end_ts TEXT NOT NULL DEFAULT '',
			last_view TEXT NOT NULL DEFAULT '',
			fullscreen INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS statements (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			schema_version INTEGER NOT NULL,
			session_id TEXT NOT NULL,
			content_id TEXT NOT NULL,
			verb TEXT NOT NULL,
			payload TEXT NOT NULL,
			created_ts TEXT NOT NULL DEFAULT (datetime('now'))
		);`,
		`CREATE TABLE IF NOT EXISTS app_settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	// Backfill databases created before sessions tracked save counts.
	if _, err := s.db.ExecContext(ctx, `ALTER TABLE sessions ADD COLUMN saves INTEGER NOT NULL DEFAULT 0`); err != nil {
		msg := strings.ToLower(err.Error())
		if !strings.Contains(msg, "duplicate column name") {
			return fmt.Errorf("ensure schema alter sessions.saves: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) GetCachedSnapshot(ctx context.Context, key string) (string, error) {
	var payload string
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM snapshot_cache WHERE cache_key = ?`, key)
	if err := row.Scan(&payload); err != nil {
		return "", err
	}
	return payload, nil
}

func (s *SQLiteStore) PutCachedSnapshot(ctx context.Context, key, payload string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshot_cache(cache_key, payload, updated_ts)
		VALUES(?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			payload = excluded.payload,
			updated_ts = excluded.updated_ts
	`, key, payload, time.Now().UTC().Format(timeLayout))
	return err
}

func (s *SQLiteStore) GetHostState(ctx context.Context, contentID string) (string, bool, error) {
	var payload string
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM host_state WHERE content_id = ?`, contentID)
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return payload, true, nil
}

func (s *SQLiteStore) PutHostState(ctx context.Context, contentID, payload string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO host_state(content_id, payload, updated_ts)
		VALUES(?, ?, ?)
		ON CONFLICT(content_id) DO UPDATE SET
			payload = excluded.payload,
			updated_ts = excluded.updated_ts
	`, contentID, payload, time.Now().UTC().Format(timeLayout))
	return err
}

func (s *SQLiteStore) StartSession(ctx context.Context, session Session) error {
	start := session.StartTS
	if start.IsZero() {
		start = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions(session_id, content_id, start_ts) VALUES(?,?,?)`,
		session.SessionID,
		session.ContentID,
		start.UTC().Format(timeLayout),
	)
	return err
}

func (s *SQLiteStore) EndSession(ctx context.Context, sessionID string, end SessionEnd) error {
	endTS := end.EndTS
	if endTS.IsZero() {
		endTS = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE sessions
		SET end_ts = ?, last_view = ?, fullscreen = ?, saves = ?
		WHERE session_id = ?
	`,
		endTS.UTC().Format(timeLayout),
		strings.TrimSpace(end.LastView),
		boolToInt(end.Fullscreen),
		end.Saves,
		sessionID,
	)
	return err
}

func (s *SQLiteStore) GetLastSession(ctx context.Context, contentID string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT session_id, content_id, start_ts, end_ts, last_view, fullscreen, saves
		FROM sessions
		WHERE content_id = ?
		ORDER BY start_ts DESC, session_id DESC
		LIMIT 1
	`, contentID)
	var (
		out        Session
		startRaw   string
		endRaw     string
		fullscreen int
	)
	if err := row.Scan(&out.SessionID, &out.ContentID, &startRaw, &endRaw, &out.LastView, &fullscreen, &out.Saves); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if t, err := time.Parse(timeLayout, startRaw); err == nil {
		out.StartTS = t
	}
	if t, err := time.Parse(timeLayout, endRaw); err == nil {
		out.EndTS = t
	}
	out.Fullscreen = fullscreen == 1
	return &out, nil
}

func (s *SQLiteStore) AppendStatement(ctx context.Context, rec StatementRecord) (int64, error) {
	kind := rec.Kind
	if kind == "" {
		kind = StatementKind
	}
	version := rec.SchemaVersion
	if version == 0 {
		version = StatementSchemaVersion
	}
	created := rec.CreatedTS
	if created.IsZero() {
		created = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO statements(kind, schema_version, session_id, content_id, verb, payload, created_ts)
		VALUES(?,?,?,?,?,?,?)
	`,
		kind,
		version,
		rec.SessionID,
		rec.ContentID,
		rec.Verb,
		rec.Payload,
		created.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) RecentStatements(ctx context.Context, contentID string, limit int) ([]StatementRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, schema_version, session_id, content_id, verb, payload, created_ts
		FROM statements
		WHERE content_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, contentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]StatementRecord, 0, limit)
	for rows.Next() {
		var (
			rec        StatementRecord
			createdRaw string
		)
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.SchemaVersion, &rec.SessionID, &rec.ContentID, &rec.Verb, &rec.Payload, &createdRaw); err != nil {
			return nil, err
		}
		if t, err := time.Parse(timeLayout, createdRaw); err == nil {
			rec.CreatedTS = t
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) SaveSettings(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for key, value := range values {
		k := strings.TrimSpace(key)
		if k == "" {
			continue
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO app_settings(key, value) VALUES(?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, k, value); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteStore) LoadSettings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM app_settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

var _ Store = (*SQLiteStore)(nil)
