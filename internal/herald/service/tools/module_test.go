package tools

import (
	"context"
	"testing"
	"time"

	"github.com/kiosk404/herald/internal/herald/service/tools/builtin"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCompleteDefaults(t *testing.T) {
	cfg := (&Config{}).Complete()
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, []string{builtin.GetCurrentTime}, cfg.Uncached)

	explicit := (&Config{Uncached: []string{}}).Complete()
	assert.Empty(t, explicit.Uncached)
}

func TestModule_CurrentTimeIsNeverStale(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	m, err := (&Config{Now: func() time.Time { return now }}).Complete().New(context.Background(), Dependencies{})
	require.NoError(t, err)
	defer m.Close()

	ctx := context.Background()
	first := m.Executor.Execute(ctx, builtin.GetCurrentTime, "alice", nil)
	require.True(t, first.Success)
	assert.Equal(t, "08:30", first.Data.(*entity.CurrentTime).Time)

	now = now.Add(4 * time.Minute)
	second := m.Executor.Execute(ctx, builtin.GetCurrentTime, "alice", nil)
	require.True(t, second.Success)
	assert.False(t, second.Cached)
	assert.Equal(t, "08:34", second.Data.(*entity.CurrentTime).Time)
	assert.Equal(t, 0, m.Cache.Len())
}
