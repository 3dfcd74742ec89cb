package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"resort-backend/models"
	"resort-backend/repository"
)

const offeringImageDir = "offerings"

type OfferingInput struct {
	Name        string
	CategoryID  uint
	Description string
	Amenities   []string
	Image       string
	Price       *float64
}

type OfferingService struct {
	offerings  repository.OfferingRepository
	categories repository.CategoryRepository
	bookings   repository.BookingRepository
	images     *ImageStore
}

func NewOfferingService(
	offerings repository.OfferingRepository,
	categories repository.CategoryRepository,
	bookings repository.BookingRepository,
	images *ImageStore,
) *OfferingService {
	return &OfferingService{
		offerings:  offerings,
		categories: categories,
		bookings:   bookings,
		images:     images,
	}
}

func cleanAmenities(in []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(in))
	for _, a := range in {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// prepare validates in and builds the offering it describes. excludeID is the
// offering being edited, or zero on create.
func (s *OfferingService) prepare(ctx context.Context, in OfferingInput, excludeID uint) (*models.Offering, error) {
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	image := strings.TrimSpace(in.Image)

	if name == "" || in.CategoryID == 0 || description == "" || image == "" || in.Price == nil {
		return nil, newError(ErrValidation, "Name, category, description, image and price are required")
	}
	if *in.Price < 0 {
		return nil, newError(ErrValidation, "Price cannot be negative")
	}

	if _, err := s.categories.GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrInvalidReference, "Invalid category selected")
		}
		return nil, fmt.Errorf("check category: %w", err)
	}

	if _, err := s.offerings.FindByNameInCategory(ctx, name, in.CategoryID, excludeID); err == nil {
		return nil, newError(ErrConflict, "An offering with this name already exists in the selected category")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check offering name: %w", err)
	}

	if s.images != nil {
		resolved, err := s.images.Resolve(image, offeringImageDir)
		if err != nil {
			return nil, err
		}
		image = resolved
	}

	return &models.Offering{
		Name:        name,
		CategoryID:  in.CategoryID,
		Description: description,
		Amenities:   cleanAmenities(in.Amenities),
		Image:       image,
		Price:       *in.Price,
	}, nil
}

func (s *OfferingService) Create(ctx context.Context, in OfferingInput) (*models.Offering, error) {
	offering, err := s.prepare(ctx, in, 0)
	if err != nil {
		return nil, err
	}
	if err := s.offerings.Create(ctx, offering); err != nil {
		return nil, fmt.Errorf("create offering: %w", err)
	}
	return s.Get(ctx, offering.ID)
}

func (s *OfferingService) Get(ctx context.Context, id uint) (*models.Offering, error) {
	offering, err := s.offerings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "Offering not found")
		}
		return nil, fmt.Errorf("get offering %d: %w", id, err)
	}
	if offering.Amenities == nil {
		offering.Amenities = datatypes.JSONSlice[string]{}
	}
	return offering, nil
}

func (s *OfferingService) Update(ctx context.Context, id uint, in OfferingInput) (*models.Offering, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	offering, err := s.prepare(ctx, in, id)
	if err != nil {
		return nil, err
	}
	offering.ID = id

	if err := s.offerings.Update(ctx, offering); err != nil {
		return nil, fmt.Errorf("update offering %d: %w", id, err)
	}
	return s.Get(ctx, id)
}

// Delete refuses to remove an offering that bookings still point at.
func (s *OfferingService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	n, err := s.bookings.CountByOffering(ctx, id)
	if err != nil {
		return fmt.Errorf("count bookings: %w", err)
	}
	if n > 0 {
		return newError(ErrConflict, "Offering has %d booking(s) and cannot be deleted", n)
	}

	if err := s.offerings.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "Offering not found")
		}
		return fmt.Errorf("delete offering %d: %w", id, err)
	}
	return nil
}

func (s *OfferingService) List(ctx context.Context, filter repository.OfferingFilter) ([]models.Offering, error) {
	list, err := s.offerings.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list offerings: %w", err)
	}
	for i := range list {
		if list[i].Amenities == nil {
			list[i].Amenities = datatypes.JSONSlice[string]{}
		}
	}
	return list, nil
}
