package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// ActiveBookingStatuses hold their date range against the offering.
var ActiveBookingStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed}

func ParseBookingStatus(raw string) (BookingStatus, bool) {
	switch s := BookingStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return s, true
	default:
		return "", false
	}
}

// Booking reserves an offering for [CheckIn, CheckOut).
// Name, Phone and Email are a snapshot taken at booking time and are not kept
// in sync with the owning user.
type Booking struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	ReferenceCode string `gorm:"column:reference_code;size:64;uniqueIndex" json:"referenceCode"`

	UserID     *uint `gorm:"column:user_id;index" json:"userId,omitempty"`
	OfferingID uint  `gorm:"column:offering_id;not null;index:idx_bookings_offering_range,priority:1" json:"offeringId"`

	Name           string        `gorm:"size:255;not null" json:"name"`
	Phone          string        `gorm:"size:50;not null" json:"phone"`
	Email          string        `gorm:"size:191;not null" json:"email"`
	Guests         int           `gorm:"not null" json:"guests"`
	CheckIn        time.Time     `gorm:"column:check_in;not null;index:idx_bookings_offering_range,priority:2" json:"checkIn"`
	CheckOut       time.Time     `gorm:"column:check_out;not null;index:idx_bookings_offering_range,priority:3" json:"checkOut"`
	SpecialRequest string        `gorm:"type:text" json:"specialRequest"`
	Status         BookingStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Offering *Offering `gorm:"foreignKey:OfferingID;references:ID" json:"offering,omitempty"`
	User     *User     `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(b.ReferenceCode) == "" {
		b.ReferenceCode = "RB-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
	}
	if b.Status == "" {
		b.Status = BookingStatusPending
	}
	return nil
}

// Overlaps reports whether [checkIn, checkOut) intersects the booking's range.
func (b *Booking) Overlaps(checkIn, checkOut time.Time) bool {
	return b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn)
}
