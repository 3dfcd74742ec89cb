package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"resort-backend/models"
)

type OfferingFilter struct {
	Search     string // case-insensitive substring of the name
	CategoryID *uint
}

type OfferingRepository interface {
	Create(ctx context.Context, offering *models.Offering) error
	GetByID(ctx context.Context, id uint) (*models.Offering, error)
	// FindByNameInCategory matches the name case-insensitively within one category,
	// skipping excludeID when non-zero.
	FindByNameInCategory(ctx context.Context, name string, categoryID, excludeID uint) (*models.Offering, error)
	Update(ctx context.Context, offering *models.Offering) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter OfferingFilter) ([]models.Offering, error)
	IDsMatchingName(ctx context.Context, search string) ([]uint, error)
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
}

type GormOfferingRepository struct {
	db *gorm.DB
}

func NewGormOfferingRepository(db *gorm.DB) *GormOfferingRepository {
	return &GormOfferingRepository{db: db}
}

func (r *GormOfferingRepository) Create(ctx context.Context, offering *models.Offering) error {
	return translate(r.db.WithContext(ctx).Omit("Category").Create(offering).Error)
}

func (r *GormOfferingRepository) GetByID(ctx context.Context, id uint) (*models.Offering, error) {
	var o models.Offering
	if err := r.db.WithContext(ctx).Preload("Category").First(&o, id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *GormOfferingRepository) FindByNameInCategory(ctx context.Context, name string, categoryID, excludeID uint) (*models.Offering, error) {
	q := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Where("category_id = ?", categoryID)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var o models.Offering
	if err := q.First(&o).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *GormOfferingRepository) Update(ctx context.Context, offering *models.Offering) error {
	return translate(r.db.WithContext(ctx).
		Model(&models.Offering{}).
		Where("id = ?", offering.ID).
		Updates(map[string]any{
			"name":        offering.Name,
			"category_id": offering.CategoryID,
			"description": offering.Description,
			"amenities":   offering.Amenities,
			"image":       offering.Image,
			"price":       offering.Price,
		}).Error)
}

func (r *GormOfferingRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Offering{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormOfferingRepository) List(ctx context.Context, filter OfferingFilter) ([]models.Offering, error) {
	q := r.db.WithContext(ctx).Model(&models.Offering{}).
		Preload("Category", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "name")
		})
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '!'", containsPattern(s))
	}

	var list []models.Offering
	if err := q.Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormOfferingRepository) IDsMatchingName(ctx context.Context, search string) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).
		Model(&models.Offering{}).
		Where("LOWER(name) LIKE ? ESCAPE '!'", containsPattern(search)).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *GormOfferingRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Offering{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}
