package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ExtraCategory string

const (
	CategoryMinibar    ExtraCategory = "MINIBAR"
	CategoryRestaurant ExtraCategory = "RESTAURANT"
	CategorySpa        ExtraCategory = "SPA"
	CategoryLaundry    ExtraCategory = "LAUNDRY"
	CategoryOther      ExtraCategory = "OTHER"
)

func (c ExtraCategory) IsValid() bool {
	switch c {
	case CategoryMinibar, CategoryRestaurant, CategorySpa, CategoryLaundry, CategoryOther:
		return true
	}
	return false
}

// Extra is one row of the append-only consumption ledger. Rows are never
// updated or deleted; a correction is a new row with a negative unit price
// pointing at the original via AdjustsExtraID.
type Extra struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`

	BookingID uint `gorm:"index;column:booking_id" json:"bookingId"`

	Name        string          `gorm:"size:128" json:"name"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2)" json:"unitPrice"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(10,2)" json:"totalPrice"`
	Category    ExtraCategory   `gorm:"size:32" json:"category"`

	AddedBy string    `gorm:"size:64" json:"addedBy"`
	AddedAt time.Time `json:"addedAt"`

	AdjustsExtraID *uint `gorm:"column:adjusts_extra_id" json:"adjustsExtraId,omitempty"`
}
