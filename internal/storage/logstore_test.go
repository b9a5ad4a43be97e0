package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stationhouse/backplate/pkg/errors"
)

func TestLogQueryNormalizeDefaults(t *testing.T) {
	q, err := LogQuery{}.Normalize()
	require.NoError(t, err)

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 50, q.PageSize)
}

func TestLogQueryNormalizeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		query LogQuery
	}{
		{"negative page", LogQuery{Page: -1}},
		{"zero-but-negative page size", LogQuery{PageSize: -5}},
		{"oversized page size", LogQuery{PageSize: 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.query.Normalize()
			assert.True(t, errors.IsValidation(err))
		})
	}
}

func TestLogQueryWhereClause(t *testing.T) {
	tests := []struct {
		name     string
		query    LogQuery
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "no filters",
			query:    LogQuery{},
			wantSQL:  "",
			wantArgs: nil,
		},
		{
			name:     "level only",
			query:    LogQuery{Level: "error"},
			wantSQL:  "WHERE level = $1",
			wantArgs: []any{"error"},
		},
		{
			name:     "component only",
			query:    LogQuery{Component: "http"},
			wantSQL:  "WHERE component = $1",
			wantArgs: []any{"http"},
		},
		{
			name:     "search only",
			query:    LogQuery{Search: "timeout"},
			wantSQL:  "WHERE message ILIKE $1",
			wantArgs: []any{"%timeout%"},
		},
		{
			name:     "all filters keep placeholder order",
			query:    LogQuery{Level: "warn", Component: "cache", Search: "miss"},
			wantSQL:  "WHERE level = $1 AND component = $2 AND message ILIKE $3",
			wantArgs: []any{"warn", "cache", "%miss%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.query.whereClause()
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("postgres://localhost/app")

	assert.Equal(t, "postgres://localhost/app", cfg.DSN)
	assert.Equal(t, "backplate", cfg.ApplicationName)
	assert.Positive(t, cfg.MaxConnections)
}
