package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civic-kit/complaint-service/internal/domain"
)

// ModuleRepository manages top-level classifications.
type ModuleRepository interface {
	Create(ctx context.Context, module *domain.Module) error
	GetByID(ctx context.Context, id int64) (*domain.Module, error)
	List(ctx context.Context) ([]domain.Module, error)
}

// CategoryRepository manages sub-classifications.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	List(ctx context.Context) ([]domain.Category, error)
	ListByModule(ctx context.Context, moduleID int64) ([]domain.Category, error)
	ListByModuleName(ctx context.Context, moduleName string) ([]domain.Category, error)
}

type moduleRepository struct {
	pool *pgxpool.Pool
}

// NewModuleRepository instantiates repository.
func NewModuleRepository(pool *pgxpool.Pool) ModuleRepository {
	return &moduleRepository{pool: pool}
}

func (r *moduleRepository) Create(ctx context.Context, module *domain.Module) error {
	const query = `
        INSERT INTO modules (module_name) VALUES ($1)
        RETURNING module_id, created_at`
	return r.pool.QueryRow(ctx, query, module.Name).Scan(&module.ID, &module.CreatedAt)
}

func (r *moduleRepository) GetByID(ctx context.Context, id int64) (*domain.Module, error) {
	const query = `SELECT module_id, module_name, created_at FROM modules WHERE module_id=$1`
	var module domain.Module
	if err := r.pool.QueryRow(ctx, query, id).Scan(&module.ID, &module.Name, &module.CreatedAt); err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *moduleRepository) List(ctx context.Context) ([]domain.Module, error) {
	const query = `SELECT module_id, module_name, created_at FROM modules ORDER BY module_id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Module{}
	for rows.Next() {
		var module domain.Module
		if err := rows.Scan(&module.ID, &module.Name, &module.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, module)
	}
	return result, rows.Err()
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository instantiates repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	const query = `
        INSERT INTO categories (category_title, module_id) VALUES ($1,$2)
        RETURNING category_id, created_at`
	return r.pool.QueryRow(ctx, query, category.Title, category.ModuleID).
		Scan(&category.ID, &category.CreatedAt)
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	const query = `SELECT category_id, category_title, module_id, created_at FROM categories ORDER BY category_id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCategories(rows)
}

func (r *categoryRepository) ListByModule(ctx context.Context, moduleID int64) ([]domain.Category, error) {
	const query = `
        SELECT category_id, category_title, module_id, created_at
        FROM categories WHERE module_id=$1 ORDER BY category_id`
	rows, err := r.pool.Query(ctx, query, moduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCategories(rows)
}

func (r *categoryRepository) ListByModuleName(ctx context.Context, moduleName string) ([]domain.Category, error) {
	const query = `
        SELECT c.category_id, c.category_title, c.module_id, c.created_at
        FROM categories c
        JOIN modules m ON m.module_id = c.module_id
        WHERE LOWER(m.module_name)=LOWER($1)
        ORDER BY c.category_id`
	rows, err := r.pool.Query(ctx, query, moduleName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCategories(rows)
}

func scanCategories(rows pgx.Rows) ([]domain.Category, error) {
	result := []domain.Category{}
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Title, &category.ModuleID, &category.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}
