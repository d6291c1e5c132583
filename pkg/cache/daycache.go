package cache

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/styllobarber/styllobarber-api/internal/model"
)

// DayCache holds the busy intervals fetched for a (barber, date) pair so a
// burst of availability queries for the same day hits the store once. It is
// an optimization only: entries are derived, re-computable data, and a miss
// recomputes identical results to a hit.
type DayCache struct {
	c *gocache.Cache
}

// NewDayCache creates a cache whose entries expire after ttl.
func NewDayCache(ttl, cleanupInterval time.Duration) *DayCache {
	return &DayCache{
		c: gocache.New(ttl, cleanupInterval),
	}
}

func dayKey(barberID uuid.UUID, date string) string {
	return barberID.String() + "|" + date
}

// Get returns the cached busy intervals for the barber and date, if present.
func (d *DayCache) Get(barberID uuid.UUID, date string) ([]model.TimeSlot, bool) {
	v, ok := d.c.Get(dayKey(barberID, date))
	if !ok {
		return nil, false
	}
	slots, ok := v.([]model.TimeSlot)
	return slots, ok
}

// Set stores the busy intervals for the barber and date. Last write wins;
// concurrent writers never assume exclusive access.
func (d *DayCache) Set(barberID uuid.UUID, date string, busy []model.TimeSlot) {
	d.c.SetDefault(dayKey(barberID, date), busy)
}

// Invalidate drops the entry for the barber and date. Called whenever the
// day's appointments change.
func (d *DayCache) Invalidate(barberID uuid.UUID, date string) {
	d.c.Delete(dayKey(barberID, date))
}

// InvalidateAll flushes every entry.
func (d *DayCache) InvalidateAll() {
	d.c.Flush()
}

// Len returns the number of live entries, expired ones included until the
// next cleanup run.
func (d *DayCache) Len() int {
	return d.c.ItemCount()
}
