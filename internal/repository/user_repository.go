package repository

import (
	"context"
	"errors"

	"github.com/pazarmk/pazar-backend/internal/model"
	"gorm.io/gorm"
)

var ErrDBNotReady = errors.New("database not initialized")

type UserRepository interface {
	FindByUID(ctx context.Context, uid string) (*model.UserProfile, error)
	FindByUIDs(ctx context.Context, uids []string) ([]model.UserProfile, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, profile *model.UserProfile) error
	SetDB(db *gorm.DB)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *userRepository) FindByUID(ctx context.Context, uid string) (*model.UserProfile, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var p model.UserProfile
	if err := r.db.WithContext(ctx).First(&p, "uid = ?", uid).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *userRepository) FindByUIDs(ctx context.Context, uids []string) ([]model.UserProfile, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	if len(uids) == 0 {
		return nil, nil
	}
	var list []model.UserProfile
	if err := r.db.WithContext(ctx).
		Where("uid IN ?", uids).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	if r.db == nil {
		return false, ErrDBNotReady
	}
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.UserProfile{}).
		Where("username = ?", username).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *userRepository) Create(ctx context.Context, profile *model.UserProfile) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(profile).Error
}
