package models

import "gorm.io/gorm"

type Hotel struct {
	gorm.Model

	Name    string `gorm:"size:128" json:"name"`
	Address string `gorm:"size:255" json:"address"`
	Phone   string `gorm:"size:32" json:"phone"`
	Email   string `gorm:"size:128" json:"email"`

	Rooms []Room `gorm:"foreignKey:HotelID" json:"rooms,omitempty"`
}
