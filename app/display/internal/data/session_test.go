package data

import (
	"context"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kedah-infodemic/firewatch/app/display/internal/conf"
	"github.com/kedah-infodemic/firewatch/app/display/internal/domain"
)

func newTestData(t *testing.T, ttl string) *Data {
	t.Helper()
	d, cleanup, err := NewData(&conf.Firewatch{Session: &conf.Session{Ttl: ttl}}, log.DefaultLogger)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return d
}

func TestSessionRepo(t *testing.T) {
	ctx := context.Background()
	r := NewSessionRepo(newTestData(t, "1h"), log.DefaultLogger)

	id, run, err := r.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := r.Get(ctx, id)
	require.NoError(t, err)
	assert.Same(t, run, got)

	other, _, err := r.Create(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, id, other)

	require.NoError(t, r.Delete(ctx, id))
	_, err = r.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, r.Delete(ctx, id), domain.ErrSessionNotFound)
}

func TestEvictIdle(t *testing.T) {
	ctx := context.Background()
	d := newTestData(t, "1h")
	now := time.Now()
	d.now = func() time.Time { return now }
	r := NewSessionRepo(d, log.DefaultLogger)

	idle, _, _ := r.Create(ctx)
	busy, busyRun, _ := r.Create(ctx)
	require.True(t, busyRun.Acquire())

	now = now.Add(2 * time.Hour)
	fresh, _, _ := r.Create(ctx)

	assert.Equal(t, 1, d.evictIdle())

	_, err := r.Get(ctx, idle)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = r.Get(ctx, busy)
	assert.NoError(t, err, "sessions with a run in progress are kept")
	_, err = r.Get(ctx, fresh)
	assert.NoError(t, err)
}

func TestNewDataBadTTL(t *testing.T) {
	_, _, err := NewData(&conf.Firewatch{Session: &conf.Session{Ttl: "soon"}}, log.DefaultLogger)
	assert.Error(t, err)
}
