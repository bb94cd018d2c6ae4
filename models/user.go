package models

import "gorm.io/gorm"

// User covers both clients and staff; the engine only references users as
// opaque IDs and resolves them via repository lookups on read.
type User struct {
	gorm.Model

	FullName string `gorm:"size:128" json:"fullName"`
	Email    string `gorm:"size:128;uniqueIndex" json:"email"`
	Phone    string `gorm:"size:32" json:"phone"`
	Password string `gorm:"size:128" json:"-"`
	IsStaff  bool   `gorm:"default:false" json:"isStaff"`
}
