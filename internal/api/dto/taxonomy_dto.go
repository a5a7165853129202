package dto

import (
	"time"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// CreateModuleRequest payload.
type CreateModuleRequest struct {
	ModuleName string `json:"moduleName"`
}

// ModuleResponse is the wire form of a module.
type ModuleResponse struct {
	ID        int64     `json:"module_id"`
	Name      string    `json:"module_name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewModuleResponse maps a module.
func NewModuleResponse(module *domain.Module) ModuleResponse {
	return ModuleResponse{ID: module.ID, Name: module.Name, CreatedAt: module.CreatedAt}
}

// NewModuleResponses maps a slice of modules.
func NewModuleResponses(modules []domain.Module) []ModuleResponse {
	items := make([]ModuleResponse, 0, len(modules))
	for i := range modules {
		items = append(items, NewModuleResponse(&modules[i]))
	}
	return items
}

// CreateCategoryRequest payload.
type CreateCategoryRequest struct {
	CategoryTitle string `json:"categoryTitle"`
	ModuleID      int64  `json:"moduleId"`
}

// CategoryResponse is the wire form of a category.
type CategoryResponse struct {
	ID        int64     `json:"category_id"`
	Title     string    `json:"category_title"`
	ModuleID  int64     `json:"module_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCategoryResponse maps a category.
func NewCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		Title:     category.Title,
		ModuleID:  category.ModuleID,
		CreatedAt: category.CreatedAt,
	}
}

// NewCategoryResponses maps a slice of categories.
func NewCategoryResponses(categories []domain.Category) []CategoryResponse {
	items := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, NewCategoryResponse(&categories[i]))
	}
	return items
}
