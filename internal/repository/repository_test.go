package repository

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_UnreachableMongoFallsBack(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repos := Open(context.Background(), Options{
		URI:            "mongodb://127.0.0.1:1/?directConnection=true",
		Database:       "marathonhub",
		ConnectTimeout: 200 * time.Millisecond,
	}, logger)

	require.NotNil(t, repos)
	assert.Equal(t, Fallback, repos.Backend)
	assert.NotNil(t, repos.Users)
	assert.NotNil(t, repos.Marathons)
	assert.NotNil(t, repos.Registrations)
	assert.NoError(t, repos.Close(context.Background()))
}

func TestOpen_InvalidURIFallsBack(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repos := Open(context.Background(), Options{URI: "not-a-uri", Database: "x", ConnectTimeout: time.Second}, logger)
	assert.Equal(t, Fallback, repos.Backend)
}

func TestBackendString(t *testing.T) {
	tests := []struct {
		backend Backend
		want    string
	}{
		{Durable, "mongodb"},
		{Fallback, "memory"},
		{Backend(0), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.backend.String())
	}
}
