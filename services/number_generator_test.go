package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hotel-reservations/models"
)

func TestCounterNumberGeneratorSequence(t *testing.T) {
	db := newTestDB(t)
	gen := CounterNumberGenerator{}

	numbers := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			n, err := gen.Next(tx)
			if err != nil {
				return err
			}
			numbers = append(numbers, n)
			return nil
		})
		require.NoError(t, err)
	}

	require.Equal(t, []string{"BK00000001", "BK00000002", "BK00000003"}, numbers)
}

func TestCounterNumberGeneratorMissingRow(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Where("1 = 1").Delete(&models.BookingCounter{}).Error)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := CounterNumberGenerator{}.Next(tx)
		return err
	})
	require.ErrorIs(t, err, ErrCounterMissing)
}

func TestEnsureBookingCounterIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, EnsureBookingCounter(db))
	require.NoError(t, EnsureBookingCounter(db))

	var count int64
	require.NoError(t, db.Model(&models.BookingCounter{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}
