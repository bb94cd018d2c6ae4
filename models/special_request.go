package models

import (
	"time"

	"gorm.io/gorm"
)

type SpecialRequestType string

const (
	RequestEarlyCheckIn  SpecialRequestType = "EARLY_CHECK_IN"
	RequestLateCheckOut  SpecialRequestType = "LATE_CHECK_OUT"
	RequestExtraBed      SpecialRequestType = "EXTRA_BED"
	RequestAccessibility SpecialRequestType = "ACCESSIBILITY"
	RequestOther         SpecialRequestType = "OTHER"
)

func (t SpecialRequestType) IsValid() bool {
	switch t {
	case RequestEarlyCheckIn, RequestLateCheckOut, RequestExtraBed, RequestAccessibility, RequestOther:
		return true
	}
	return false
}

type SpecialRequestStatus string

const (
	RequestPending  SpecialRequestStatus = "PENDING"
	RequestHandled  SpecialRequestStatus = "HANDLED"
	RequestDeclined SpecialRequestStatus = "DECLINED"
)

type SpecialRequest struct {
	gorm.Model
	BookingID uint `gorm:"index;column:booking_id" json:"bookingId"`

	Type        SpecialRequestType   `gorm:"size:32" json:"type"`
	Description string               `gorm:"type:text" json:"description"`
	Status      SpecialRequestStatus `gorm:"size:32;default:PENDING" json:"status"`
	HandledBy   string               `gorm:"size:64" json:"handledBy,omitempty"`
	HandledAt   *time.Time           `json:"handledAt,omitempty"`
	Notes       string               `gorm:"type:text" json:"notes,omitempty"`
}
