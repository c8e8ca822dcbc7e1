package repository

import (
	"context"

	"github.com/pazarmk/pazar-backend/internal/model"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	ListRoot(ctx context.Context) ([]model.Category, error)
	ListAll(ctx context.Context) ([]model.Category, error)
	ListChildren(ctx context.Context, parentID uint64) ([]model.Category, error)
	FindByID(ctx context.Context, id uint64) (*model.Category, error)
	SetDB(db *gorm.DB)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *categoryRepository) ListRoot(ctx context.Context) ([]model.Category, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Category
	if err := r.db.WithContext(ctx).
		Where("parent_id IS NULL").
		Order("name ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *categoryRepository) ListAll(ctx context.Context) ([]model.Category, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Category
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *categoryRepository) ListChildren(ctx context.Context, parentID uint64) ([]model.Category, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Category
	if err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("name ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint64) (*model.Category, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var cat model.Category
	if err := r.db.WithContext(ctx).First(&cat, id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}
