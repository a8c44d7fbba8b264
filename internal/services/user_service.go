package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"rentalsBack/internal/models"
	"rentalsBack/internal/repositories"
)

type UserService struct {
	UserRepo *repositories.UserRepository
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
}

func (s *UserService) cost() int {
	if s.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return s.Cost
}

// Register creates an active account with a hashed password.
func (s *UserService) Register(ctx context.Context, username, email, password, role string) (models.User, error) {
	exists, err := s.UserRepo.UsernameExists(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, models.ErrDuplicateUsername
	}
	if role == "" {
		role = models.RoleOwner
	}
	return s.CreateUser(ctx, models.User{
		Username: username,
		Email:    email,
		Role:     role,
		IsActive: true,
	}, password)
}

// CreateUser hashes password and stores user as given, flags included.
func (s *UserService) CreateUser(ctx context.Context, user models.User, password string) (models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost())
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	return s.UserRepo.CreateUser(ctx, user)
}

// Authenticate checks the credentials and records the login time. Every
// failure is reported as models.ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.UserRepo.GetUserByUsername(ctx, username)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return models.User{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if !user.IsActive {
		return models.User{}, models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, models.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.UserRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return models.User{}, err
	}
	user.LastLogin = &now
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (models.User, error) {
	return s.UserRepo.GetUserByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, user models.User, username, email string) (models.User, error) {
	if username != user.Username {
		exists, err := s.UserRepo.UsernameExists(ctx, username)
		if err != nil {
			return models.User{}, err
		}
		if exists {
			return models.User{}, models.ErrDuplicateUsername
		}
	}
	if err := s.UserRepo.UpdateProfile(ctx, user.ID, username, email); err != nil {
		return models.User{}, err
	}
	user.Username = username
	user.Email = email
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	return s.UserRepo.DeleteUser(ctx, id)
}
