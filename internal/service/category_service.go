package service

import (
	"context"

	"github.com/pazarmk/pazar-backend/internal/model"
	"github.com/pazarmk/pazar-backend/internal/repository"
)

type CategoryService interface {
	ListRoot(ctx context.Context) ([]model.Category, error)
	ListAll(ctx context.Context) ([]model.Category, error)
	ListChildren(ctx context.Context, parentID uint64) ([]model.Category, error)
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) ListRoot(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListRoot(ctx)
}

func (s *categoryService) ListAll(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListAll(ctx)
}

func (s *categoryService) ListChildren(ctx context.Context, parentID uint64) ([]model.Category, error) {
	return s.repo.ListChildren(ctx, parentID)
}
