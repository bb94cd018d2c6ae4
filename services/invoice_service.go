package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hotel-reservations/models"
)

type InvoiceRoomLine struct {
	RoomNumber    string          `json:"roomNumber"`
	RoomType      string          `json:"roomType"`
	PricePerNight decimal.Decimal `json:"pricePerNight"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
}

type InvoiceDTO struct {
	BookingNumber  string            `json:"bookingNumber"`
	MainGuest      string            `json:"mainGuest"`
	HotelName      string            `json:"hotelName"`
	CheckIn        time.Time         `json:"checkIn"`
	CheckOut       time.Time         `json:"checkOut"`
	NumberOfNights int               `json:"numberOfNights"`
	Rooms          []InvoiceRoomLine `json:"rooms"`
	Extras         []models.Extra    `json:"extras"`
	Subtotal       decimal.Decimal   `json:"subtotal"`
	Taxes          decimal.Decimal   `json:"taxes"`
	Discount       decimal.Decimal   `json:"discount"`
	Fees           decimal.Decimal   `json:"fees"`
	ExtrasTotal    decimal.Decimal   `json:"extrasTotal"`
	FinalTotal     decimal.Decimal   `json:"finalTotal"`
	GeneratedAt    time.Time         `json:"generatedAt"`
}

// InvoiceService assembles read-only invoice snapshots. It never mutates the
// booking, so invoices can be regenerated at will.
type InvoiceService struct {
	DB *gorm.DB
}

func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{DB: db}
}

func (s *InvoiceService) GenerateInvoice(bookingID uint) (*InvoiceDTO, error) {
	var booking models.Booking
	if err := bookingPreloads(s.DB).First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{BookingID: bookingID}
		}
		return nil, fmt.Errorf("failed to retrieve booking: %w", err)
	}

	var hotel models.Hotel
	if err := s.DB.First(&hotel, booking.HotelID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to retrieve hotel: %w", err)
	}

	nights := booking.NumberOfNights()
	nightsDec := decimal.NewFromInt(int64(nights))

	lines := make([]InvoiceRoomLine, 0, len(booking.Rooms))
	for _, r := range booking.Rooms {
		lines = append(lines, InvoiceRoomLine{
			RoomNumber:    r.Room.RoomNumber,
			RoomType:      r.Room.Type,
			PricePerNight: r.PricePerNight,
			TotalPrice:    r.PricePerNight.Mul(nightsDec).Round(2),
		})
	}

	mainGuest := ""
	if g := booking.MainGuest(); g != nil {
		mainGuest = g.FullName()
	}

	return &InvoiceDTO{
		BookingNumber:  booking.BookingNumber,
		MainGuest:      mainGuest,
		HotelName:      hotel.Name,
		CheckIn:        booking.CheckIn,
		CheckOut:       booking.CheckOut,
		NumberOfNights: nights,
		Rooms:          lines,
		Extras:         booking.Extras,
		Subtotal:       booking.Pricing.Subtotal,
		Taxes:          booking.Pricing.Taxes,
		Discount:       booking.Pricing.Discount,
		Fees:           booking.Pricing.Fees,
		ExtrasTotal:    booking.ExtrasTotal(),
		FinalTotal:     booking.FinalTotalPrice(),
		GeneratedAt:    time.Now().UTC(),
	}, nil
}
