package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"hotel-reservations/models"
)

type GuestInput struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	IsMainGuest bool   `json:"isMainGuest"`
}

type RoomSelection struct {
	RoomID        uint            `json:"roomId"`
	PricePerNight decimal.Decimal `json:"pricePerNight"`
	Guests        []GuestInput    `json:"guests"`
}

type SpecialRequestInput struct {
	Type        models.SpecialRequestType `json:"type"`
	Description string                    `json:"description"`
}

type CreateBookingInput struct {
	UserID  uint `json:"userId"`
	HotelID uint `json:"hotelId"`

	CheckIn  time.Time `json:"checkIn"`
	CheckOut time.Time `json:"checkOut"`

	Adults   int `json:"adults"`
	Children int `json:"children"`

	Rooms []RoomSelection `json:"rooms"`

	Source models.BookingSource `json:"source"`

	ContactPhone     string         `json:"contactPhone"`
	ContactEmail     string         `json:"contactEmail"`
	EmergencyContact datatypes.JSON `json:"emergencyContact,omitempty"`

	Discount decimal.Decimal `json:"discount"`
	Fees     decimal.Decimal `json:"fees"`

	SpecialRequests []SpecialRequestInput `json:"specialRequests,omitempty"`
}

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9]{9,15}$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// ValidateCreateBooking runs the ordered validation pipeline before any
// computation or persistence. The first failing check aborts the whole
// operation; nothing is partially written.
func ValidateCreateBooking(in CreateBookingInput, now time.Time) error {
	if in.UserID == 0 {
		return &ValidationError{Field: "userId", Message: "user reference is required"}
	}
	if in.HotelID == 0 {
		return &ValidationError{Field: "hotelId", Message: "hotel reference is required"}
	}
	if in.CheckIn.IsZero() || in.CheckOut.IsZero() {
		return &ValidationError{Field: "dates", Message: "check-in and check-out dates are required"}
	}
	if err := validateStayDates(in.CheckIn, in.CheckOut, now); err != nil {
		return err
	}

	if in.Adults < 1 || in.Adults > 20 {
		return &ValidationError{Field: "adults", Message: "adults must be between 1 and 20"}
	}
	if in.Children < 0 || in.Children > 10 {
		return &ValidationError{Field: "children", Message: "children must be between 0 and 10"}
	}

	if len(in.Rooms) == 0 {
		return &ValidationError{Field: "rooms", Message: "at least one room is required"}
	}

	mainGuests := 0
	assigned := 0
	for _, room := range in.Rooms {
		if room.RoomID == 0 {
			return &ValidationError{Field: "rooms", Message: "room reference is required"}
		}
		if room.PricePerNight.IsNegative() {
			return &ValidationError{Field: "rooms", Message: "price per night must not be negative"}
		}
		for _, g := range room.Guests {
			assigned++
			if g.IsMainGuest {
				mainGuests++
			}
			if strings.TrimSpace(g.FirstName) == "" && strings.TrimSpace(g.LastName) == "" {
				return &ValidationError{Field: "guests", Message: "guest name is required"}
			}
		}
	}
	if mainGuests != 1 {
		return &ValidationError{Field: "guests", Message: "exactly one guest must be the main guest"}
	}
	if assigned != in.Adults+in.Children {
		return &ValidationError{Field: "guests", Message: "assigned guests must match the declared guest count"}
	}

	if !in.Source.IsValid() {
		return &ValidationError{Field: "source", Message: "source must be one of WEB, MOBILE, RECEPTION"}
	}

	if !phonePattern.MatchString(in.ContactPhone) {
		return &ValidationError{Field: "contactPhone", Message: "phone number format is invalid"}
	}
	if !emailPattern.MatchString(in.ContactEmail) {
		return &ValidationError{Field: "contactEmail", Message: "email format is invalid"}
	}

	if in.Discount.IsNegative() {
		return &ValidationError{Field: "discount", Message: "discount must not be negative"}
	}
	if in.Fees.IsNegative() {
		return &ValidationError{Field: "fees", Message: "fees must not be negative"}
	}

	for _, sr := range in.SpecialRequests {
		if !sr.Type.IsValid() {
			return &ValidationError{Field: "specialRequests", Message: "unknown special request type"}
		}
	}

	return nil
}

func validateStayDates(checkIn, checkOut, now time.Time) error {
	// Compare at day granularity so a same-day creation is not rejected for
	// being a few hours into the date.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if checkIn.Before(today) {
		return &ValidationError{Field: "checkIn", Message: "check-in date must not be in the past"}
	}
	if !checkOut.After(checkIn) {
		return &ValidationError{Field: "checkOut", Message: "check-out must be after check-in"}
	}
	return nil
}

type ExtraInput struct {
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	Quantity       int                  `json:"quantity"`
	UnitPrice      decimal.Decimal      `json:"unitPrice"`
	Category       models.ExtraCategory `json:"category"`
	AdjustsExtraID *uint                `json:"adjustsExtraId,omitempty"`
}

// ValidateExtra checks a ledger entry before it is appended. Negative unit
// prices are only allowed for adjustment entries that reference the extra
// they correct.
func ValidateExtra(in ExtraInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Message: "extra name is required"}
	}
	if in.Quantity < 1 {
		return &ValidationError{Field: "quantity", Message: "quantity must be at least 1"}
	}
	if !in.Category.IsValid() {
		return &ValidationError{Field: "category", Message: "unknown extra category"}
	}
	if in.UnitPrice.IsNegative() && in.AdjustsExtraID == nil {
		return &ValidationError{Field: "unitPrice", Message: "negative price requires an adjusted extra reference"}
	}
	return nil
}
