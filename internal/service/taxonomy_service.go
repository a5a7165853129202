package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/repository"
	apperrors "github.com/civic-kit/complaint-service/pkg/util/errorutil"
)

// TaxonomyService manages modules and their categories.
type TaxonomyService struct {
	modules    repository.ModuleRepository
	categories repository.CategoryRepository
}

// NewTaxonomyService constructs the service.
func NewTaxonomyService(modules repository.ModuleRepository, categories repository.CategoryRepository) *TaxonomyService {
	return &TaxonomyService{modules: modules, categories: categories}
}

// CreateModule adds a top-level classification.
func (s *TaxonomyService) CreateModule(ctx context.Context, name string) (*domain.Module, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("moduleName is required", nil)
	}
	module := &domain.Module{Name: name}
	if err := s.modules.Create(ctx, module); err != nil {
		return nil, apperrors.MapError(err)
	}
	return module, nil
}

// ListModules returns all modules.
func (s *TaxonomyService) ListModules(ctx context.Context) ([]domain.Module, error) {
	modules, err := s.modules.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return modules, nil
}

// CreateCategory adds a sub-classification under an existing module.
func (s *TaxonomyService) CreateCategory(ctx context.Context, title string, moduleID int64) (*domain.Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.NewValidationError("categoryTitle is required", nil)
	}
	if _, err := s.modules.GetByID(ctx, moduleID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("module", map[string]any{"module_id": moduleID})
		}
		return nil, apperrors.MapError(err)
	}
	category := &domain.Category{Title: title, ModuleID: moduleID}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// ListCategories returns all categories.
func (s *TaxonomyService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

// ListCategoriesByModule returns a module's categories by module id.
func (s *TaxonomyService) ListCategoriesByModule(ctx context.Context, moduleID int64) ([]domain.Category, error) {
	categories, err := s.categories.ListByModule(ctx, moduleID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

// ListCategoriesByModuleName returns a module's categories matched
// case-insensitively by module name.
func (s *TaxonomyService) ListCategoriesByModuleName(ctx context.Context, moduleName string) ([]domain.Category, error) {
	categories, err := s.categories.ListByModuleName(ctx, moduleName)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}
