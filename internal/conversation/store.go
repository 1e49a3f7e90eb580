package conversation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/travel-assistant/internal/db"
)

// ErrSessionNotFound is returned when no session record exists for an ID.
var ErrSessionNotFound = errors.New("session not found")

// Store persists the conversation log and session records in SQLite.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a new conversation store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// AppendTurn writes all entries of one turn in a single transaction, so
// readers see either every entry or none of them.
func (s *Store) AppendTurn(ctx context.Context, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning append: %w", err)
	}
	defer tx.Rollback()

	now := s.now().UTC()
	for _, e := range entries {
		if e.SessionID == "" {
			return fmt.Errorf("appending entry: session_id is required")
		}
		if e.Role != RoleUser && e.Role != RoleAssistant {
			return fmt.Errorf("appending entry: invalid role %q", e.Role)
		}
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		if e.Timestamp.IsZero() {
			e.Timestamp = now
		}
		meta, err := encodeMetadata(e.Metadata)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO conversation_messages (id, session_id, user_id, role, content, metadata, timestamp)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.SessionID, nullable(e.UserID), string(e.Role), e.Content, meta, e.Timestamp.UTC(),
		); err != nil {
			return fmt.Errorf("appending %s entry: %w", e.Role, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing append: %w", err)
	}
	return nil
}

// RecentTurns returns up to limit entries for a session, most recent first.
func (s *Store) RecentTurns(ctx context.Context, sessionID string, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, user_id, role, content, metadata, timestamp
		 FROM conversation_messages WHERE session_id = ?
		 ORDER BY timestamp DESC, rowid DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying recent turns: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e      Entry
			userID sql.NullString
			role   string
			meta   string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &userID, &role, &e.Content, &meta, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.UserID = userID.String
		e.Role = Role(role)
		if err := json.Unmarshal([]byte(meta), &e.Metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata of %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// History returns up to limit of the most recent entries in chronological order.
func (s *Store) History(ctx context.Context, sessionID string, limit int) ([]Entry, error) {
	entries, err := s.RecentTurns(ctx, sessionID, limit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// UpsertSession creates the session record or refreshes last_activity.
// created_at is set once; a non-nil context replaces the stored one.
// The single statement makes concurrent turns last-write-wins.
func (s *Store) UpsertSession(ctx context.Context, sessionID, userID string, sessionContext map[string]any) error {
	if sessionID == "" {
		return fmt.Errorf("upserting session: session_id is required")
	}

	var ctxJSON any
	if sessionContext != nil {
		data, err := json.Marshal(sessionContext)
		if err != nil {
			return fmt.Errorf("encoding session context: %w", err)
		}
		ctxJSON = string(data)
	}

	now := s.now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversation_sessions (session_id, user_id, created_at, last_activity, context)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
		     last_activity = excluded.last_activity,
		     user_id = COALESCE(conversation_sessions.user_id, excluded.user_id),
		     context = COALESCE(excluded.context, conversation_sessions.context)`,
		sessionID, nullable(userID), now, now, ctxJSON,
	)
	if err != nil {
		return fmt.Errorf("upserting session: %w", err)
	}
	return nil
}

// CreateSession registers a fresh session with a generated ID.
func (s *Store) CreateSession(ctx context.Context, userID string) (*Session, error) {
	id := uuid.New().String()
	if err := s.UpsertSession(ctx, id, userID, nil); err != nil {
		return nil, err
	}
	return s.GetSession(ctx, id)
}

// GetSession loads one session record with its message count.
func (s *Store) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, sessionSelect+` WHERE s.session_id = ?`, sessionID)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	return sess, err
}

// ListSessions returns sessions ordered by most recent activity.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, sessionSelect+` ORDER BY s.last_activity DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

// ClearSession deletes a session record and its whole log. It returns the
// number of log entries removed.
func (s *Store) ClearSession(ctx context.Context, sessionID string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning clear: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM conversation_messages WHERE session_id = ?`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("deleting messages: %w", err)
	}
	deleted, _ := res.RowsAffected()

	if _, err := tx.ExecContext(ctx, `DELETE FROM conversation_sessions WHERE session_id = ?`, sessionID); err != nil {
		return 0, fmt.Errorf("deleting session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing clear: %w", err)
	}
	return deleted, nil
}

// CleanupOlderThan removes log entries written before now-age and sessions
// idle since before now-age.
func (s *Store) CleanupOlderThan(ctx context.Context, age time.Duration) (CleanupResult, error) {
	cutoff := s.now().UTC().Add(-age)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CleanupResult{}, fmt.Errorf("beginning cleanup: %w", err)
	}
	defer tx.Rollback()

	var result CleanupResult
	res, err := tx.ExecContext(ctx, `DELETE FROM conversation_messages WHERE timestamp < ?`, cutoff)
	if err != nil {
		return CleanupResult{}, fmt.Errorf("deleting old messages: %w", err)
	}
	result.MessagesDeleted, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx, `DELETE FROM conversation_sessions WHERE last_activity < ?`, cutoff)
	if err != nil {
		return CleanupResult{}, fmt.Errorf("deleting old sessions: %w", err)
	}
	result.SessionsDeleted, _ = res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return CleanupResult{}, fmt.Errorf("committing cleanup: %w", err)
	}
	return result, nil
}

const sessionSelect = `SELECT s.session_id, s.user_id, s.created_at, s.last_activity, s.context,
	(SELECT COUNT(*) FROM conversation_messages m WHERE m.session_id = s.session_id)
	FROM conversation_sessions s`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var (
		sess    Session
		userID  sql.NullString
		ctxJSON sql.NullString
	)
	if err := row.Scan(&sess.SessionID, &userID, &sess.CreatedAt, &sess.LastActivity, &ctxJSON, &sess.MessageCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	sess.UserID = userID.String
	if ctxJSON.Valid {
		sess.Context = json.RawMessage(ctxJSON.String)
	}
	return &sess, nil
}

func encodeMetadata(meta map[string]any) (string, error) {
	if len(meta) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("encoding metadata: %w", err)
	}
	return string(data), nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
