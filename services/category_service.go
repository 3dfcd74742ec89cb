package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resort-backend/models"
	"resort-backend/repository"
)

type CategoryInput struct {
	Name        string
	Description string
}

type CategoryService struct {
	categories repository.CategoryRepository
	offerings  repository.OfferingRepository
}

func NewCategoryService(categories repository.CategoryRepository, offerings repository.OfferingRepository) *CategoryService {
	return &CategoryService{categories: categories, offerings: offerings}
}

// ensureNameFree rejects names already used by another category, ignoring case.
func (s *CategoryService) ensureNameFree(ctx context.Context, name string, excludeID uint) error {
	_, err := s.categories.FindByName(ctx, name, excludeID)
	if err == nil {
		return newError(ErrConflict, "Category already exists")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("check category name: %w", err)
	}
	return nil
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, newError(ErrValidation, "Category name is required")
	}
	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}

	category := &models.Category{Name: name, Description: strings.TrimSpace(in.Description)}
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, "Category already exists")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "Category not found")
		}
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, newError(ErrValidation, "Category name is required")
	}

	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, name, id); err != nil {
		return nil, err
	}

	category.Name = name
	category.Description = strings.TrimSpace(in.Description)
	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, "Category already exists")
		}
		return nil, fmt.Errorf("update category %d: %w", id, err)
	}
	return s.Get(ctx, id)
}

// Delete refuses to remove a category that still groups offerings.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	n, err := s.offerings.CountByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("count offerings: %w", err)
	}
	if n > 0 {
		return newError(ErrConflict, "Category still has %d offering(s)", n)
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "Category not found")
		}
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}

func (s *CategoryService) List(ctx context.Context, search string) ([]models.Category, error) {
	list, err := s.categories.List(ctx, repository.CategoryFilter{Search: search})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return list, nil
}

// EnsureDefaults creates the given categories when none exist yet.
func (s *CategoryService) EnsureDefaults(ctx context.Context, defaults []CategoryInput) (int, error) {
	n, err := s.categories.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	created := 0
	for _, in := range defaults {
		if _, err := s.Create(ctx, in); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
