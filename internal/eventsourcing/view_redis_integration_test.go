//go:build integration

package eventsourcing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impierce/ssi-agent-sub000/pkg/testutil/containers"
)

func Test_RedisViewRepository_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	repo := NewRedisViewRepository(rc.Client, "view:counter:", newCounterView)

	_, found, err := repo.Load(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Save(ctx, "c1", &counterView{Total: 4, LastSequence: 4}))

	view, found, err := repo.Load(ctx, "c1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 4, view.Total)
	assert.Equal(t, 4, view.LastSequence)
}

func Test_RedisViewRepository_PrefixesIsolateIndexes(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	primary := NewRedisViewRepository(rc.Client, "view:counter:", newCounterView)
	index := NewRedisViewRepository(rc.Client, "index:counter:code:", newCounterView)

	require.NoError(t, primary.Save(ctx, "same-id", &counterView{Total: 1, LastSequence: 1}))

	_, found, err := index.Load(ctx, "same-id")
	require.NoError(t, err)
	assert.False(t, found, "repositories with distinct prefixes must not alias")
}
