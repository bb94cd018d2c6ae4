package models

// BookingCounter is a named atomic counter row. The booking number sequence
// is advanced with UPDATE ... SET value = value + 1 inside the creation
// transaction, so concurrent creators serialize on the row lock and an
// in-process counter is never relied on.
type BookingCounter struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:64;uniqueIndex" json:"name"`
	Value uint64 `gorm:"not null;default:0" json:"value"`
}
