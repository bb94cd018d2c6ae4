package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Room struct {
	gorm.Model

	HotelID    uint   `gorm:"index;column:hotel_id" json:"hotelId"`
	RoomNumber string `gorm:"column:room_number;type:varchar(50)" json:"roomNumber"`

	Type          string          `gorm:"size:64" json:"type"`
	Floor         string          `gorm:"type:varchar(10)" json:"floor"`
	PricePerNight decimal.Decimal `gorm:"column:price_per_night;type:decimal(10,2)" json:"pricePerNight"`
	MaxOccupancy  int             `gorm:"column:max_occupancy" json:"maxOccupancy"`
	Description   string          `gorm:"type:text" json:"description"`
}
