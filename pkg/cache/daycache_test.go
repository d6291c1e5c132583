package cache

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/styllobarber/styllobarber-api/internal/model"
)

func TestDayCache_SetGetInvalidate(t *testing.T) {
	c := NewDayCache(time.Minute, time.Minute)
	barberID := uuid.New()
	date := "2026-03-02"

	_, ok := c.Get(barberID, date)
	assert.False(t, ok, "empty cache should miss")

	busy := []model.TimeSlot{
		{Start: time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC), End: time.Date(2026, 3, 2, 14, 45, 0, 0, time.UTC)},
	}
	c.Set(barberID, date, busy)

	got, ok := c.Get(barberID, date)
	require.True(t, ok)
	assert.Equal(t, busy, got)

	// Entries are keyed by barber and date; a different barber must miss.
	_, ok = c.Get(uuid.New(), date)
	assert.False(t, ok)
	_, ok = c.Get(barberID, "2026-03-03")
	assert.False(t, ok)

	c.Invalidate(barberID, date)
	_, ok = c.Get(barberID, date)
	assert.False(t, ok, "invalidated entry should miss")
}

func TestDayCache_Expiry(t *testing.T) {
	c := NewDayCache(10*time.Millisecond, time.Minute)
	barberID := uuid.New()

	c.Set(barberID, "2026-03-02", nil)
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get(barberID, "2026-03-02")
	assert.False(t, ok, "expired entry should miss")
}

func TestDayCache_InvalidateAll(t *testing.T) {
	c := NewDayCache(time.Minute, time.Minute)
	c.Set(uuid.New(), "2026-03-02", nil)
	c.Set(uuid.New(), "2026-03-03", nil)
	require.Equal(t, 2, c.Len())

	c.InvalidateAll()
	assert.Equal(t, 0, c.Len())
}
