package service

import (
	"context"
	"fmt"

	"gurukul/internal/model"
	"gurukul/internal/repository"
)

// ProfileUpdate holds the fields a user may change; nil leaves a field as is
type ProfileUpdate struct {
	FirstName      *string
	LastName       *string
	AvatarURL      *string
	Grade          *string
	Specialization *string
	Bio            *string
}

type UserService interface {
	Get(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*model.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.AvatarURL != nil {
		u.AvatarURL = in.AvatarURL
	}
	if in.Grade != nil {
		u.Grade = in.Grade
	}
	if in.Specialization != nil {
		u.Specialization = in.Specialization
	}
	if in.Bio != nil {
		u.Bio = in.Bio
	}
	if err := s.userRepo.UpdateProfile(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return u, nil
}
