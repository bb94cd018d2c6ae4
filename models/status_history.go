package models

import "time"

// StatusHistoryEntry is append-only: the service layer inserts one row per
// transition and nothing ever rewrites or removes rows.
type StatusHistoryEntry struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID uint `gorm:"index;column:booking_id" json:"bookingId"`

	Status    BookingStatus `gorm:"size:32" json:"status"`
	ChangedBy string        `gorm:"size:64" json:"changedBy"`
	ChangedAt time.Time     `json:"changedAt"`
	Reason    string        `gorm:"size:255" json:"reason,omitempty"`
	Notes     string        `gorm:"type:text" json:"notes,omitempty"`
}
