package models

import (
	"time"

	"gorm.io/datatypes"
)

// Offering is a bookable item: a room, an activity or a spa package.
type Offering struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	Name        string                      `gorm:"size:255;not null;index" json:"name"`
	CategoryID  uint                        `gorm:"column:category_id;not null;index" json:"categoryId"`
	Description string                      `gorm:"type:text" json:"description"`
	Amenities   datatypes.JSONSlice[string] `gorm:"column:amenities" json:"amenities"`
	Image       string                      `gorm:"size:512" json:"image"`
	Price       float64                     `gorm:"not null;default:0" json:"price"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`

	Category *Category `gorm:"foreignKey:CategoryID;references:ID" json:"category,omitempty"`
}
