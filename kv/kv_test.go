package kv

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "content", []byte(`{"hero":{}}`)))
	got, err := s.Get(ctx, "content")
	require.NoError(t, err)
	assert.Equal(t, `{"hero":{}}`, string(got))

	require.NoError(t, s.Set(ctx, "content", []byte(`{}`)))
	got, err = s.Get(ctx, "content")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(got))

	require.NoError(t, s.Delete(ctx, "content"))
	_, err = s.Get(ctx, "content")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ctx, "never-set"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	buf := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", buf))
	buf[0] = 'x'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
	got[1] = 'x'

	again, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "landing.db")
	s, err := NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestSQLitePragmasApplyToEveryConnection(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "landing.db"))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	conns := make([]*sql.Conn, 3)
	for i := range conns {
		conns[i], err = s.db.Conn(ctx)
		require.NoError(t, err)
		defer conns[i].Close()
	}
	for _, conn := range conns {
		var timeout, sync int
		var mode string
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout))
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA synchronous").Scan(&sync))
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
		assert.Equal(t, 5000, timeout)
		assert.Equal(t, 1, sync, "NORMAL")
		assert.Equal(t, "wal", mode)
	}
}

func TestSQLiteStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "landing.db")
	ctx := context.Background()

	s, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "landing:admin", []byte(`{"previewMode":"mobile"}`)))
	require.NoError(t, s.Close())

	s, err = NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, "landing:admin")
	require.NoError(t, err)
	assert.JSONEq(t, `{"previewMode":"mobile"}`, string(got))
}

func TestOpen(t *testing.T) {
	s, err := Open("memory:")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	path := filepath.Join(t.TempDir(), "open.db")
	s, err = Open("sqlite:" + path)
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = Open("")
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("LANDING_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: LANDING_TEST_REDIS_URL not set")
	}
	s, err := NewRedis(RedisOptions{URL: url, Prefix: "landing-test:"})
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)

	plain, err := NewRedis(RedisOptions{URL: url})
	require.NoError(t, err)
	defer plain.Close()
	ctx := context.Background()
	require.NoError(t, plain.Set(ctx, "landing-test:raw", []byte("v")))
	defer plain.Delete(ctx, "landing-test:raw")
	n, err := plain.client.Exists(ctx, "landing-test:raw").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRedisKeysAreUnprefixedByDefault(t *testing.T) {
	assert.Equal(t, "landing:content", (&Redis{}).key("landing:content"))
	assert.Equal(t, "test:landing:admin", (&Redis{prefix: "test:"}).key("landing:admin"))
}

func TestNewRedisRequiresURL(t *testing.T) {
	_, err := NewRedis(RedisOptions{})
	assert.Error(t, err)
}
