package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hotel-reservations/models"
)

// QueryService is a pure reader over the booking set: search, statistics and
// occupancy. It never mutates anything.
type QueryService struct {
	DB *gorm.DB
}

func NewQueryService(db *gorm.DB) *QueryService {
	return &QueryService{DB: db}
}

type SearchFilters struct {
	UserID        *uint
	HotelID       *uint
	Status        *models.BookingStatus
	DateFrom      *time.Time
	DateTo        *time.Time
	BookingNumber string
	Limit         int
	Offset        int
}

// SearchBookings filters by user, hotel, status, a check-in date window and a
// booking-number substring. Results are ordered by id so paging over a fixed
// snapshot is stable.
func (q *QueryService) SearchBookings(f SearchFilters) ([]models.Booking, error) {
	db := bookingPreloads(q.DB).Order("id ASC")

	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.HotelID != nil {
		db = db.Where("hotel_id = ?", *f.HotelID)
	}
	if f.Status != nil {
		if !f.Status.IsValid() {
			return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", *f.Status)}
		}
		db = db.Where("status = ?", *f.Status)
	}
	if f.DateFrom != nil {
		db = db.Where("check_in >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		db = db.Where("check_in <= ?", *f.DateTo)
	}
	if f.BookingNumber != "" {
		db = db.Where("booking_number LIKE ?", "%"+f.BookingNumber+"%")
	}
	if f.Limit > 0 {
		db = db.Limit(f.Limit)
	}
	if f.Offset > 0 {
		db = db.Offset(f.Offset)
	}

	var list []models.Booking
	if err := db.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to search bookings: %w", err)
	}
	return list, nil
}

// GetPendingValidation lists bookings awaiting staff validation.
func (q *QueryService) GetPendingValidation(hotelID uint) ([]models.Booking, error) {
	var list []models.Booking
	err := bookingPreloads(q.DB).
		Where("hotel_id = ? AND status = ? AND validation_is_validated = ?", hotelID, models.StatusPending, false).
		Order("created_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending validations: %w", err)
	}
	return list, nil
}

type BookingStats struct {
	HotelID         uint            `json:"hotelId"`
	TotalBookings   int64           `json:"totalBookings"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	AvgBookingValue decimal.Decimal `json:"avgBookingValue"`
	TotalNights     int             `json:"totalNights"`
}

// GetBookingStats aggregates per-hotel totals. Revenue counts the final total
// (pricing plus extras) of every booking that was not cancelled or rejected.
func (q *QueryService) GetBookingStats(hotelID uint) (*BookingStats, error) {
	var bookings []models.Booking
	if err := q.DB.Preload("Extras").Where("hotel_id = ?", hotelID).Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to load bookings for stats: %w", err)
	}

	stats := &BookingStats{
		HotelID:         hotelID,
		TotalBookings:   int64(len(bookings)),
		TotalRevenue:    decimal.Zero,
		AvgBookingValue: decimal.Zero,
	}

	revenueBookings := int64(0)
	for i := range bookings {
		b := &bookings[i]
		if b.Status == models.StatusCancelled || b.Status == models.StatusRejected {
			continue
		}
		stats.TotalRevenue = stats.TotalRevenue.Add(b.FinalTotalPrice())
		stats.TotalNights += b.NumberOfNights()
		revenueBookings++
	}
	if revenueBookings > 0 {
		stats.AvgBookingValue = stats.TotalRevenue.Div(decimal.NewFromInt(revenueBookings)).Round(2)
	}
	return stats, nil
}

type OccupancyReport struct {
	HotelID               uint      `json:"hotelId"`
	From                  time.Time `json:"from"`
	To                    time.Time `json:"to"`
	RoomCount             int64     `json:"roomCount"`
	TotalRoomNights       int       `json:"totalRoomNights"`
	MaxPossibleRoomNights int       `json:"maxPossibleRoomNights"`
	OccupancyRate         float64   `json:"occupancyRate"`
}

// occupancyStatuses are the statuses that actually hold inventory: confirmed
// or later, excluding every cancelled-flavoured terminal.
var occupancyStatuses = []models.BookingStatus{
	models.StatusConfirmed,
	models.StatusCheckedIn,
	models.StatusCheckedOut,
	models.StatusCompleted,
}

// GetOccupancyRate computes booked room-nights over the maximum possible
// room-nights for the window [from, to).
func (q *QueryService) GetOccupancyRate(hotelID uint, from, to time.Time) (*OccupancyReport, error) {
	if !to.After(from) {
		return nil, &ValidationError{Field: "dateRange", Message: "to must be after from"}
	}

	var roomCount int64
	if err := q.DB.Model(&models.Room{}).Where("hotel_id = ?", hotelID).Count(&roomCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count rooms: %w", err)
	}

	days := int(to.Sub(from).Hours() / 24)

	report := &OccupancyReport{
		HotelID:               hotelID,
		From:                  from,
		To:                    to,
		RoomCount:             roomCount,
		MaxPossibleRoomNights: int(roomCount) * days,
	}
	if report.MaxPossibleRoomNights == 0 {
		return report, nil
	}

	var bookings []models.Booking
	err := q.DB.Preload("Rooms").
		Where("hotel_id = ? AND status IN ?", hotelID, occupancyStatuses).
		Where("check_in < ? AND check_out > ?", to, from).
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for occupancy: %w", err)
	}

	for i := range bookings {
		b := &bookings[i]
		start := b.CheckIn
		if start.Before(from) {
			start = from
		}
		end := b.CheckOut
		if end.After(to) {
			end = to
		}
		nights := int(end.Sub(start).Hours() / 24)
		if nights <= 0 {
			continue
		}
		report.TotalRoomNights += nights * len(b.Rooms)
	}

	report.OccupancyRate = float64(report.TotalRoomNights) / float64(report.MaxPossibleRoomNights)
	return report, nil
}
