package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestMarkerStore_ExistsAndSetMarker(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer mr.Close()

	store := NewMarkerStore(rdb, time.Hour)
	ctx := context.Background()

	exists, err := store.Exists(ctx, "ev-1")
	assert.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, store.SetMarker(ctx, "ev-1"))

	exists, err = store.Exists(ctx, "ev-1")
	assert.NoError(t, err)
	assert.True(t, exists)
}
