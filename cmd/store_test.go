package cmd

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passiton/backend/internal/config"
)

func TestStoreBackend(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.StoreConfig
		want    backend
		wantErr bool
	}{
		{name: "empty is memory", cfg: config.StoreConfig{}, want: backendMemory},
		{name: "explicit memory", cfg: config.StoreConfig{DatabaseURL: "memory://"}, want: backendMemory},
		{name: "mongodb", cfg: config.StoreConfig{DatabaseURL: "mongodb://localhost:27017"}, want: backendMongo},
		{name: "mongodb srv", cfg: config.StoreConfig{DatabaseURL: "mongodb+srv://cluster.example.net"}, want: backendMongo},
		{name: "postgres", cfg: config.StoreConfig{DatabaseURL: "postgres://u:p@db/app"}, want: backendPostgres},
		{name: "postgresql", cfg: config.StoreConfig{DatabaseURL: "PostgreSQL://u@db/app"}, want: backendPostgres},
		{
			name: "pg parts without url",
			cfg:  config.StoreConfig{Postgres: config.PostgresConfig{User: "app", Database: "passiton"}},
			want: backendPostgres,
		},
		{name: "unknown scheme", cfg: config.StoreConfig{DatabaseURL: "mysql://db/app"}, wantErr: true},
		{name: "no scheme", cfg: config.StoreConfig{DatabaseURL: "localhost:5432"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := storeBackend(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}
