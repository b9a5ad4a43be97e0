package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/stationhouse/backplate/pkg/errors"
)

// LogRecord is a single persisted application log line.
type LogRecord struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Component string    `json:"component"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
}

// LogQuery describes a paginated log listing with optional filters.
type LogQuery struct {
	Page      int
	PageSize  int
	Level     string
	Component string
	Search    string
}

// Normalize clamps pagination to sane bounds.
func (q LogQuery) Normalize() (LogQuery, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Page < 1 {
		return q, errors.NewValidationError("page", "must be >= 1")
	}
	if q.PageSize == 0 {
		q.PageSize = 50
	}
	if q.PageSize < 1 || q.PageSize > 200 {
		return q, errors.NewValidationError("page_size", "must be between 1 and 200")
	}
	return q, nil
}

// whereClause builds the SQL filter for the query. Returned args line up with
// the positional placeholders in the clause.
func (q LogQuery) whereClause() (string, []any) {
	var conditions []string
	var args []any

	if q.Level != "" {
		args = append(args, q.Level)
		conditions = append(conditions, fmt.Sprintf("level = $%d", len(args)))
	}
	if q.Component != "" {
		args = append(args, q.Component)
		conditions = append(conditions, fmt.Sprintf("component = $%d", len(args)))
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		conditions = append(conditions, fmt.Sprintf("message ILIKE $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// LogPage is one page of log records plus pagination metadata.
type LogPage struct {
	Records  []LogRecord `json:"logs"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Total    int64       `json:"total"`
	Pages    int64       `json:"pages"`
}

// LogStats summarizes the stored log records.
type LogStats struct {
	ByLevel map[string]int64 `json:"by_level"`
	Total   int64            `json:"total"`
	Latest  *time.Time       `json:"latest_timestamp"`
}

// InsertLogRecords writes a batch of records in a single round trip.
func (s *Store) InsertLogRecords(ctx context.Context, records []LogRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(
			`INSERT INTO log_records (ts, level, component, message, request_id) VALUES ($1, $2, $3, $4, $5)`,
			rec.Timestamp, rec.Level, rec.Component, rec.Message, rec.RequestID,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert log records: %w", err)
		}
	}
	return nil
}

// QueryLogs returns one page of records, newest first.
func (s *Store) QueryLogs(ctx context.Context, query LogQuery) (LogPage, error) {
	query, err := query.Normalize()
	if err != nil {
		return LogPage{}, err
	}

	where, args := query.whereClause()

	countSQL := "SELECT COUNT(*) FROM log_records " + where
	var total int64
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return LogPage{}, fmt.Errorf("count log records: %w", err)
	}

	offset := (query.Page - 1) * query.PageSize
	listSQL := fmt.Sprintf(
		"SELECT id, ts, level, component, message, request_id FROM log_records %s ORDER BY id DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2,
	)
	listArgs := append(args, query.PageSize, offset)

	rows, err := s.pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return LogPage{}, fmt.Errorf("query log records: %w", err)
	}
	defer rows.Close()

	records := make([]LogRecord, 0, query.PageSize)
	for rows.Next() {
		var rec LogRecord
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Level, &rec.Component, &rec.Message, &rec.RequestID); err != nil {
			return LogPage{}, fmt.Errorf("scan log record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return LogPage{}, fmt.Errorf("iterate log records: %w", err)
	}

	pages := (total + int64(query.PageSize) - 1) / int64(query.PageSize)
	return LogPage{
		Records:  records,
		Page:     query.Page,
		PageSize: query.PageSize,
		Total:    total,
		Pages:    pages,
	}, nil
}

// LogStatsSummary returns counts per level, the overall total, and the most
// recent record timestamp.
func (s *Store) LogStatsSummary(ctx context.Context) (LogStats, error) {
	stats := LogStats{ByLevel: make(map[string]int64)}

	rows, err := s.pool.Query(ctx, `SELECT level, COUNT(*) FROM log_records GROUP BY level ORDER BY COUNT(*) DESC`)
	if err != nil {
		return stats, fmt.Errorf("query log stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var level string
		var count int64
		if err := rows.Scan(&level, &count); err != nil {
			return stats, fmt.Errorf("scan log stats: %w", err)
		}
		stats.ByLevel[level] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("iterate log stats: %w", err)
	}

	var latest *time.Time
	if err := s.pool.QueryRow(ctx, `SELECT MAX(ts) FROM log_records`).Scan(&latest); err != nil {
		return stats, fmt.Errorf("query latest log timestamp: %w", err)
	}
	stats.Latest = latest

	return stats, nil
}

// LogComponents returns the distinct component tags present in the log store.
func (s *Store) LogComponents(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT component FROM log_records WHERE component <> '' ORDER BY component`)
	if err != nil {
		return nil, fmt.Errorf("query log components: %w", err)
	}
	defer rows.Close()

	var components []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan log component: %w", err)
		}
		components = append(components, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate log components: %w", err)
	}
	return components, nil
}
