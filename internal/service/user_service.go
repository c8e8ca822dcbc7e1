package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pazarmk/pazar-backend/internal/model"
	"github.com/pazarmk/pazar-backend/internal/repository"
	"gorm.io/gorm"
)

type UserService interface {
	EnsureProfile(ctx context.Context, uid, email string) (*model.UserProfile, error)
	GetPublic(ctx context.Context, uid string) (*model.UserProfile, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

// EnsureProfile returns the profile for uid, creating it on first sign-in.
// Username and display name come from the email local-part; username
// collisions get a numeric suffix.
func (s *userService) EnsureProfile(ctx context.Context, uid, email string) (*model.UserProfile, error) {
	if uid == "" {
		return nil, errors.New("uid is required")
	}
	p, err := s.repo.FindByUID(ctx, uid)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	base := usernameFromEmail(email)
	username := base
	for i := 2; ; i++ {
		exists, err := s.repo.UsernameExists(ctx, username)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
		username = fmt.Sprintf("%s%d", base, i)
	}

	profile := &model.UserProfile{
		UID:         uid,
		Username:    username,
		DisplayName: base,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *userService) GetPublic(ctx context.Context, uid string) (*model.UserProfile, error) {
	p, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func usernameFromEmail(email string) string {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}
	local = strings.ToLower(strings.TrimSpace(local))
	var b strings.Builder
	for _, r := range local {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
