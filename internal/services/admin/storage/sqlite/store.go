// Package sqlite provides a SQLite-backed admin storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/wazaphq/wazap/internal/platform/storage/sqlitemigrate"
	"github.com/wazaphq/wazap/internal/services/admin/storage"
	"github.com/wazaphq/wazap/internal/services/admin/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists admin state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite admin store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetSettings returns one shop's widget settings.
func (s *Store) GetSettings(ctx context.Context, shop string) (storage.Settings, error) {
	if err := ctx.Err(); err != nil {
		return storage.Settings{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Settings{}, fmt.Errorf("storage is not configured")
	}
	shop = strings.TrimSpace(shop)
	if shop == "" {
		return storage.Settings{}, fmt.Errorf("shop is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT shop, whatsapp_number, widget_enabled, position, theme,
		        chat_text, share_text, agents_json, business_hours_json,
		        created_at, updated_at
		   FROM widget_settings
		  WHERE shop = ?`,
		shop,
	)

	var settings storage.Settings
	var enabled int
	var createdAt int64
	var updatedAt int64
	err := row.Scan(
		&settings.Shop,
		&settings.WhatsAppNumber,
		&enabled,
		&settings.Position,
		&settings.Theme,
		&settings.ChatText,
		&settings.ShareText,
		&settings.AgentsJSON,
		&settings.BusinessHoursJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Settings{}, storage.ErrNotFound
		}
		return storage.Settings{}, fmt.Errorf("get settings: %w", err)
	}

	settings.WidgetEnabled = enabled != 0
	settings.CreatedAt = fromMillis(createdAt)
	settings.UpdatedAt = fromMillis(updatedAt)
	return settings, nil
}

// PutSettings inserts or updates one shop's widget settings.
func (s *Store) PutSettings(ctx context.Context, settings storage.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	shop := strings.TrimSpace(settings.Shop)
	if shop == "" {
		return fmt.Errorf("shop is required")
	}

	now := time.Now().UTC()
	createdAt := settings.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := settings.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}

	enabled := 0
	if settings.WidgetEnabled {
		enabled = 1
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO widget_settings (
		   shop, whatsapp_number, widget_enabled, position, theme,
		   chat_text, share_text, agents_json, business_hours_json,
		   created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(shop) DO UPDATE SET
		   whatsapp_number = excluded.whatsapp_number,
		   widget_enabled = excluded.widget_enabled,
		   position = excluded.position,
		   theme = excluded.theme,
		   chat_text = excluded.chat_text,
		   share_text = excluded.share_text,
		   agents_json = excluded.agents_json,
		   business_hours_json = excluded.business_hours_json,
		   updated_at = excluded.updated_at`,
		shop,
		strings.TrimSpace(settings.WhatsAppNumber),
		enabled,
		settings.Position,
		settings.Theme,
		settings.ChatText,
		settings.ShareText,
		settings.AgentsJSON,
		settings.BusinessHoursJSON,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("put settings: %w", err)
	}
	return nil
}

// AppendEvent inserts one analytics event.
func (s *Store) AppendEvent(ctx context.Context, event storage.AnalyticsEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(event.ID)
	if id == "" {
		return fmt.Errorf("event id is required")
	}
	eventType := strings.TrimSpace(event.Type)
	if eventType == "" {
		return fmt.Errorf("event type is required")
	}
	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO analytics_events (
		   id, shop, event_type, product, url, attrs_json, occurred_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		strings.TrimSpace(event.Shop),
		eventType,
		event.Product,
		event.URL,
		event.AttrsJSON,
		toMillis(occurredAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// CountEvents returns the all-time event count for a shop and type set.
func (s *Store) CountEvents(ctx context.Context, shop string, types []string) (int, error) {
	return s.countEvents(ctx, shop, types, time.Time{})
}

// CountEventsSince returns the event count at or after since.
func (s *Store) CountEventsSince(ctx context.Context, shop string, types []string, since time.Time) (int, error) {
	return s.countEvents(ctx, shop, types, since)
}

func (s *Store) countEvents(ctx context.Context, shop string, types []string, since time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	shop = strings.TrimSpace(shop)
	if shop == "" {
		return 0, fmt.Errorf("shop is required")
	}
	if len(types) == 0 {
		return 0, fmt.Errorf("at least one event type is required")
	}

	query := `SELECT COUNT(*) FROM analytics_events
	           WHERE shop = ? AND event_type IN (` + placeholders(len(types)) + `)`
	args := make([]any, 0, len(types)+2)
	args = append(args, shop)
	for _, eventType := range types {
		args = append(args, eventType)
	}
	if !since.IsZero() {
		query += ` AND occurred_at >= ?`
		args = append(args, toMillis(since))
	}

	var count int
	if err := s.sqlDB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

// ListRecentEvents returns the newest events for a shop, newest first.
func (s *Store) ListRecentEvents(ctx context.Context, shop string, limit int) ([]storage.AnalyticsEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	shop = strings.TrimSpace(shop)
	if shop == "" {
		return nil, fmt.Errorf("shop is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, shop, event_type, product, url, attrs_json, occurred_at
		   FROM analytics_events
		  WHERE shop = ?
		  ORDER BY occurred_at DESC, id DESC
		  LIMIT ?`,
		shop,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent events: %w", err)
	}
	defer rows.Close()

	var events []storage.AnalyticsEvent
	for rows.Next() {
		var event storage.AnalyticsEvent
		var occurredAt int64
		if err := rows.Scan(
			&event.ID,
			&event.Shop,
			&event.Type,
			&event.Product,
			&event.URL,
			&event.AttrsJSON,
			&occurredAt,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		event.OccurredAt = fromMillis(occurredAt)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE
}
