package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resort-backend/models"
)

type BookingFilter struct {
	UserID *uint
	Status *models.BookingStatus
	// OfferingIDs restricts results when non-nil; an empty non-nil slice matches nothing.
	OfferingIDs []uint
}

type BookingRepository interface {
	// CreateIfAvailable inserts the booking unless an active booking of the same
	// offering overlaps its range. The check and the insert share one transaction
	// holding a row lock on the offering. Returns ErrNotFound if the offering is
	// missing and ErrOverlap on conflict.
	CreateIfAvailable(ctx context.Context, booking *models.Booking) error
	// GetByID loads the booking with its offering (and category) and owner projections.
	GetByID(ctx context.Context, id uint) (*models.Booking, error)
	// GetByIDForUser behaves like GetByID but only matches bookings owned by userID.
	GetByIDForUser(ctx context.Context, id, userID uint) (*models.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id uint, status models.BookingStatus) error
	CountByOffering(ctx context.Context, offeringID uint) (int64, error)
}

type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func withProjections(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Offering", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "name", "category_id", "description", "price", "image", "amenities")
		}).
		Preload("Offering.Category", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "name", "description")
		}).
		Preload("User", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "name", "email", "phone")
		})
}

func overlapping(q *gorm.DB, offeringID uint, checkIn, checkOut time.Time) *gorm.DB {
	return q.Model(&models.Booking{}).
		Where("offering_id = ?", offeringID).
		Where("status IN ?", models.ActiveBookingStatuses).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)
}

func (r *GormBookingRepository) CreateIfAvailable(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var offering models.Offering
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&offering, booking.OfferingID).Error; err != nil {
			return translate(err)
		}

		var count int64
		if err := overlapping(tx, booking.OfferingID, booking.CheckIn, booking.CheckOut).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrOverlap
		}

		return translate(tx.Omit(clause.Associations).Create(booking).Error)
	})
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	if err := withProjections(r.db.WithContext(ctx)).First(&b, id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *GormBookingRepository) GetByIDForUser(ctx context.Context, id, userID uint) (*models.Booking, error) {
	var b models.Booking
	if err := withProjections(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		First(&b, id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *GormBookingRepository) List(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	list := []models.Booking{}

	if filter.OfferingIDs != nil && len(filter.OfferingIDs) == 0 {
		return list, nil
	}

	q := withProjections(r.db.WithContext(ctx).Model(&models.Booking{}))
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.OfferingIDs != nil {
		q = q.Where("offering_id IN ?", filter.OfferingIDs)
	}

	if err := q.Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormBookingRepository) UpdateStatus(ctx context.Context, id uint, status models.BookingStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormBookingRepository) CountByOffering(ctx context.Context, offeringID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).Where("offering_id = ?", offeringID).Count(&n).Error
	return n, err
}
