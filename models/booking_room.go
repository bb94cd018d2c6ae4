package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BookingRoom is one room line of a booking. PricePerNight is the rate the
// booking was priced at (dynamic pricing may have adjusted it upstream), so it
// is stored here rather than read from the room on the fly.
type BookingRoom struct {
	gorm.Model
	BookingID uint `gorm:"index;column:booking_id" json:"bookingId"`
	RoomID    uint `gorm:"index;column:room_id" json:"roomId"`

	PricePerNight decimal.Decimal `gorm:"column:price_per_night;type:decimal(10,2)" json:"pricePerNight"`

	Room   Room    `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
	Guests []Guest `gorm:"foreignKey:BookingRoomID" json:"guests"`
}
