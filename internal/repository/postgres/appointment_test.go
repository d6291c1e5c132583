package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingLockKey(t *testing.T) {
	t.Run("stable for the same barber", func(t *testing.T) {
		// Two instances must contend on the same lock for the same barber,
		// so the key has to be a pure function of the ID.
		barberID := uuid.MustParse("3f2a8c1e-5b74-4f0d-9e6a-1c2b3d4e5f60")
		assert.Equal(t, bookingLockKey(barberID), bookingLockKey(barberID))
		assert.NotEqual(t, bookingLockKey(barberID), bookingLockKey(uuid.New()))
	})

	t.Run("different barbers do not share a lock", func(t *testing.T) {
		seen := make(map[int64]uuid.UUID)
		for i := 0; i < 1000; i++ {
			barberID := uuid.New()
			key := bookingLockKey(barberID)
			if prev, ok := seen[key]; ok {
				require.Equal(t, prev, barberID, "lock key collision between distinct barbers")
			}
			seen[key] = barberID
		}
		assert.Len(t, seen, 1000)
	})
}
