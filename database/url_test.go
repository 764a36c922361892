package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructDatabaseURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		dbName   string
		expected string
	}{
		{
			name:     "empty name returns base",
			baseURL:  "postgres://u:p@localhost:5432/app",
			dbName:   "",
			expected: "postgres://u:p@localhost:5432/app",
		},
		{
			name:     "appends name and sslmode",
			baseURL:  "postgres://u:p@localhost:5432/",
			dbName:   "rewards",
			expected: "postgres://u:p@localhost:5432/rewards?sslmode=disable",
		},
		{
			name:     "keeps existing query",
			baseURL:  "postgres://u:p@localhost:5432?connect_timeout=5",
			dbName:   "rewards",
			expected: "postgres://u:p@localhost:5432/rewards?connect_timeout=5&sslmode=disable",
		},
		{
			name:     "keeps explicit sslmode",
			baseURL:  "postgres://u:p@db:5432?sslmode=require",
			dbName:   "rewards",
			expected: "postgres://u:p@db:5432/rewards?sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ConstructDatabaseURL(tt.baseURL, tt.dbName))
		})
	}
}
