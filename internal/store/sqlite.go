package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ashureev/wattwise/internal/domain"
	"github.com/ashureev/wattwise/internal/identity"
	"github.com/ashureev/wattwise/internal/shared"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db         *sql.DB
	appVersion string
}

// NewSQLite creates a new SQLite-backed repository. appVersion is stamped
// onto every audit row.
func NewSQLite(dbPath, appVersion string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db, appVersion: appVersion}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		user_hash TEXT NOT NULL,
		chat_ref TEXT,
		city TEXT,
		home_type TEXT,
		heating TEXT,
		people TEXT,
		knows_tariff INTEGER NOT NULL DEFAULT 0,
		reminders INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bills (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		start_ts INTEGER NOT NULL,
		end_ts INTEGER NOT NULL,
		days INTEGER NOT NULL,
		kwh REAL,
		money REAL,
		tariff REAL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_bills_user_kind ON bills(user_id, kind, id);

	CREATE TABLE IF NOT EXISTS actions_done (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		action_id TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ts_utc INTEGER NOT NULL,
		user_hash TEXT NOT NULL,
		session_id TEXT NOT NULL,
		state TEXT NOT NULL,
		event_name TEXT NOT NULL,
		command TEXT,
		payload_json TEXT,
		is_demo INTEGER NOT NULL DEFAULT 0,
		app_version TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_events_user ON events(user_hash, id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// UpsertUser creates the user row on first contact or refreshes chat_ref.
func (s *SQLiteStore) UpsertUser(ctx context.Context, userID, chatRef string) error {
	now := time.Now().Unix()
	query := `
	INSERT INTO users (user_id, user_hash, chat_ref, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		chat_ref = excluded.chat_ref,
		updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query, userID, identity.UserHash(userID), chatRef, now, now)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// GetProfile retrieves the stored profile, or nil if the user is unknown.
func (s *SQLiteStore) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `
		SELECT user_id, chat_ref, city, home_type, heating, people,
		       knows_tariff, reminders, created_at, updated_at
		FROM users WHERE user_id = ?`

	row := s.db.QueryRowContext(ctx, query, userID)

	var p domain.Profile
	var chatRef, city, homeType, heating, people sql.NullString
	var knowsTariff, reminders int
	var createdAt, updatedAt int64

	err := row.Scan(
		&p.UserID, &chatRef, &city, &homeType, &heating, &people,
		&knowsTariff, &reminders, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile row: %w", err)
	}

	p.ChatRef = chatRef.String
	p.City = city.String
	p.HomeType = homeType.String
	p.Heating = heating.String
	p.People = people.String
	p.KnowsTariff = knowsTariff != 0
	p.Reminders = reminders != 0
	p.CreatedAt = time.Unix(createdAt, 0)
	p.UpdatedAt = time.Unix(updatedAt, 0)

	return &p, nil
}

// SetProfileFields applies a partial profile update.
func (s *SQLiteStore) SetProfileFields(ctx context.Context, userID string, patch ProfilePatch) error {
	if patch.IsEmpty() {
		return nil
	}

	var sets []string
	var args []any
	appendSet := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if patch.City != nil {
		appendSet("city", *patch.City)
	}
	if patch.HomeType != nil {
		appendSet("home_type", *patch.HomeType)
	}
	if patch.Heating != nil {
		appendSet("heating", *patch.Heating)
	}
	if patch.People != nil {
		appendSet("people", *patch.People)
	}
	if patch.KnowsTariff != nil {
		appendSet("knows_tariff", boolToInt(*patch.KnowsTariff))
	}
	if patch.Reminders != nil {
		appendSet("reminders", boolToInt(*patch.Reminders))
	}

	appendSet("updated_at", time.Now().Unix())
	args = append(args, userID)

	query := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE user_id = ?"
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update profile fields: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user not found: %s", identity.UserHash(userID))
	}
	return nil
}

// SaveBillRecord appends an immutable bill snapshot.
func (s *SQLiteStore) SaveBillRecord(ctx context.Context, userID string, kind domain.BillKind, obs *domain.Observation, tariff *float64) error {
	query := `
	INSERT INTO bills (user_id, kind, start_ts, end_ts, days, kwh, money, tariff, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		userID, string(kind),
		obs.Period.Start.Unix(), obs.Period.End.Unix(), obs.Period.Days,
		nullFloat(obs.KWh), nullFloat(obs.Money), nullFloat(tariff),
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert bill record: %w", err)
	}
	return nil
}

// GetLatestBillRecord returns the newest bill of the given kind, or nil.
func (s *SQLiteStore) GetLatestBillRecord(ctx context.Context, userID string, kind domain.BillKind) (*domain.BillRecord, error) {
	query := `
		SELECT id, user_id, kind, start_ts, end_ts, days, kwh, money, tariff, created_at
		FROM bills WHERE user_id = ? AND kind = ?
		ORDER BY id DESC LIMIT 1`

	row := s.db.QueryRowContext(ctx, query, userID, string(kind))

	var rec domain.BillRecord
	var kindStr string
	var startTS, endTS, createdAt int64
	var kwh, money, tariff sql.NullFloat64

	err := row.Scan(
		&rec.ID, &rec.UserID, &kindStr,
		&startTS, &endTS, &rec.Period.Days,
		&kwh, &money, &tariff, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan bill row: %w", err)
	}

	rec.Kind = domain.BillKind(kindStr)
	rec.Period.Start = time.Unix(startTS, 0)
	rec.Period.End = time.Unix(endTS, 0)
	rec.KWh = floatPtr(kwh)
	rec.Money = floatPtr(money)
	rec.Tariff = floatPtr(tariff)
	rec.CreatedAt = time.Unix(createdAt, 0)

	return &rec, nil
}

// RecordActionAcknowledged stores a "marked done" action reference.
func (s *SQLiteStore) RecordActionAcknowledged(ctx context.Context, userID, actionRef string) error {
	query := `INSERT INTO actions_done (user_id, action_id, created_at) VALUES (?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, userID, actionRef, time.Now().Unix()); err != nil {
		return fmt.Errorf("insert action done: %w", err)
	}
	return nil
}

// ResetUserData wipes bills, acknowledged actions, and profile fields in one
// transaction. Retries on SQLite conflict errors with exponential backoff.
func (s *SQLiteStore) ResetUserData(ctx context.Context, userID string) error {
	const maxRetries = 3
	baseDelay := 100 * time.Millisecond

	var err error
	for i := 0; i < maxRetries; i++ {
		err = s.resetUserDataOnce(ctx, userID)
		if err == nil {
			return nil
		}
		if !shared.IsSQLiteConflictError(err) {
			return err
		}
		delay := baseDelay * time.Duration(1<<i)
		slog.Debug("ResetUserData hit SQLite conflict, retrying",
			"user_hash", identity.UserHash(userID), "attempt", i+1, "delay", delay)
		time.Sleep(delay)
	}
	return fmt.Errorf("reset user data after %d attempts: %w", maxRetries, err)
}

func (s *SQLiteStore) resetUserDataOnce(ctx context.Context, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bills WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete bills: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM actions_done WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete actions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET city = NULL, home_type = NULL, heating = NULL,
			people = NULL, knows_tariff = 0, reminders = 0, updated_at = ?
		WHERE user_id = ?`, time.Now().Unix(), userID); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset tx: %w", err)
	}
	return nil
}

// AppendAuditEvent writes one redacted audit row. Only the derived user hash
// is persisted, never the raw identifier.
func (s *SQLiteStore) AppendAuditEvent(ctx context.Context, userID string, ev AuditEvent) error {
	var payloadJSON any
	if ev.Payload != nil {
		data, err := json.Marshal(ev.Payload)
		if err != nil {
			return fmt.Errorf("marshal audit payload: %w", err)
		}
		payloadJSON = string(data)
	}

	var command any
	if ev.Command != "" {
		command = ev.Command
	}

	query := `
	INSERT INTO events (ts_utc, user_hash, session_id, state, event_name, command, payload_json, is_demo, app_version)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		time.Now().UTC().Unix(), identity.UserHash(userID), ev.SessionID,
		ev.State, ev.Event, command, payloadJSON,
		boolToInt(ev.IsDemo), s.appVersion,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
