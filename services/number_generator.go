package services

import (
	"fmt"

	"gorm.io/gorm"

	"hotel-reservations/models"
)

const bookingNumberCounter = "booking_number"

// NumberGenerator issues external booking identifiers. Implementations must
// be safe under arbitrary concurrency across service instances: numbers are
// unique and strictly increasing, gaps are acceptable, duplicates are not.
type NumberGenerator interface {
	Next(tx *gorm.DB) (string, error)
}

// CounterNumberGenerator backs the sequence with a database counter row.
// The UPDATE takes a row lock that is held until the surrounding transaction
// commits, so the increment-and-fetch pair is atomic; concurrent creators
// serialize on the row instead of racing an application-level read-then-write.
type CounterNumberGenerator struct{}

func (CounterNumberGenerator) Next(tx *gorm.DB) (string, error) {
	res := tx.Model(&models.BookingCounter{}).
		Where("name = ?", bookingNumberCounter).
		UpdateColumn("value", gorm.Expr("value + ?", 1))
	if res.Error != nil {
		return "", fmt.Errorf("failed to advance booking counter: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return "", ErrCounterMissing
	}

	var counter models.BookingCounter
	if err := tx.Where("name = ?", bookingNumberCounter).First(&counter).Error; err != nil {
		return "", fmt.Errorf("failed to read booking counter: %w", err)
	}

	return fmt.Sprintf("BK%08d", counter.Value), nil
}

// EnsureBookingCounter creates the counter row when it does not exist yet.
// Called from the seed path and from tests.
func EnsureBookingCounter(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.BookingCounter{}).
		Where("name = ?", bookingNumberCounter).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&models.BookingCounter{Name: bookingNumberCounter, Value: 0}).Error
}
