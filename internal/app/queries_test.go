package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_backoffice/internal/app"
	"hotel_backoffice/internal/domain"
	"hotel_backoffice/internal/storage/memstore"
)

// ---- fakes ----

// fakeCache stores JSON like the Redis adapter does, so cached values go through a
// real encode/decode.
type fakeCache struct {
	store map[string][]byte
	gets  int
	hits  int
	fail  bool
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.fail {
		return false, errors.New("cache down")
	}
	c.gets++
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.fail {
		return errors.New("cache down")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

func (c *fakeCache) Incr(ctx context.Context, key string) (int64, error) {
	if c.fail {
		return 0, errors.New("cache down")
	}
	var n int64
	if b, ok := c.store[key]; ok {
		_ = json.Unmarshal(b, &n)
	}
	n++
	c.store[key], _ = json.Marshal(n)
	return n, nil
}

// countingStore records how often hotels are read from the store.
type countingStore struct {
	*memstore.Store
	hotelReads int
}

func (s *countingStore) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	s.hotelReads++
	return s.Store.GetHotel(ctx, id)
}

func seedHotel(t *testing.T, cmd *app.CommandService) domain.Hotel {
	t.Helper()
	h, err := cmd.CreateHotel(context.Background(), app.Body{
		"name": "A", "address": "X", "city": "Y", "rating": "4.5",
	})
	require.NoError(t, err)
	return h
}

// ---- tests ----

func TestGetHotel_CacheMissThenHit(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: memstore.New()}
	cache := newFakeCache()
	cmd := app.NewCommandService(store, cache)
	q := app.NewQueryService(store, cache, 10*time.Minute)

	h := seedHotel(t, cmd)
	store.hotelReads = 0

	got, err := q.GetHotel(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)
	assert.Equal(t, 1, store.hotelReads)

	got, err = q.GetHotel(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)
	assert.Equal(t, 1, store.hotelReads, "second read should be served from cache")
	assert.NotNil(t, got.Rooms, "relations survive the JSON round trip as empty arrays")
}

func TestWriteInvalidatesCachedReads(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: memstore.New()}
	cache := newFakeCache()
	cmd := app.NewCommandService(store, cache)
	q := app.NewQueryService(store, cache, time.Minute)

	h := seedHotel(t, cmd)
	_, err := q.GetHotel(ctx, h.ID)
	require.NoError(t, err)

	_, err = cmd.UpdateHotel(ctx, h.ID, app.Body{"name": "B"})
	require.NoError(t, err)

	got, err := q.GetHotel(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Name)
}

func TestCacheFailureDoesNotFailReads(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	cache := newFakeCache()
	cmd := app.NewCommandService(store, cache)
	q := app.NewQueryService(store, cache, time.Minute)
	h := seedHotel(t, cmd)

	cache.fail = true
	got, err := q.GetHotel(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, h.ID, got.ID)

	_, err = cmd.UpdateHotel(ctx, h.ID, app.Body{"city": "Z"})
	require.NoError(t, err)
}

func TestRoomsByType_CountsOnlyThatType(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	cmd := app.NewCommandService(store, nil)
	q := app.NewQueryService(store, nil, time.Minute)

	for i := 0; i < 3; i++ {
		_, err := cmd.CreateRoom(ctx, app.Body{"roomType": "Deluxe", "price": "120"})
		require.NoError(t, err)
	}
	_, err := cmd.CreateRoom(ctx, app.Body{"roomType": "Suite", "price": 300})
	require.NoError(t, err)

	page, err := q.RoomsByType(ctx, "Deluxe")
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Count)
	assert.Len(t, page.Rooms, 3)

	empty, err := q.RoomsByType(ctx, "Penthouse")
	require.NoError(t, err)
	assert.EqualValues(t, 0, empty.Count)
	assert.NotNil(t, empty.Rooms)
}

func TestHealth(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	cmd := app.NewCommandService(store, nil)
	seedHotel(t, cmd)

	hs := app.NewHealthService(store, "test")
	rep := hs.Health(ctx)
	assert.True(t, rep.Healthy())
	assert.Equal(t, "connected", rep.Database)
	assert.EqualValues(t, 1, rep.Stats.Hotels)

	stats, err := hs.CheckDB(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Hotels)
}
