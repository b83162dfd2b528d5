package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Eursukkul/staybook/internal/auth"
	"github.com/Eursukkul/staybook/internal/models"
	"github.com/Eursukkul/staybook/internal/repository"
	"github.com/Eursukkul/staybook/pkg/database"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo        repository.UserRepository
	propertyRepo    repository.PropertyRepository
	reservationRepo repository.ReservationRepository
}

func NewUserService(userRepo repository.UserRepository, propertyRepo repository.PropertyRepository, reservationRepo repository.ReservationRepository) *UserService {
	return &UserService{
		userRepo:        userRepo,
		propertyRepo:    propertyRepo,
		reservationRepo: reservationRepo,
	}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      models.Role
}

// Register creates a GUEST or HOST account. ADMIN accounts cannot self-register.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	role := in.Role
	if role == "" {
		role = models.RoleGuest
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	if role == models.RoleAdmin {
		return nil, ErrPermissionDenied
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, s.userRepo.GetDB(), user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user, nil
}

// BecomeHost upgrades a GUEST to HOST. Hosts and admins are returned unchanged.
func (s *UserService) BecomeHost(ctx context.Context, actor models.Actor) (*models.User, error) {
	user, err := s.GetUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleGuest {
		return user, nil
	}
	return s.setRole(ctx, user, models.RoleHost)
}

func (s *UserService) UpdateRole(ctx context.Context, id uint, role models.Role, actor models.Actor) (*models.User, error) {
	if !IsAdmin(actor) {
		return nil, ErrPermissionDenied
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}
	return s.setRole(ctx, user, role)
}

func (s *UserService) setRole(ctx context.Context, user *models.User, role models.Role) (*models.User, error) {
	if err := s.userRepo.UpdateRole(ctx, s.userRepo.GetDB(), user.ID, role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	user.Role = role
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, actor models.Actor) ([]models.User, error) {
	if !IsAdmin(actor) {
		return nil, ErrPermissionDenied
	}
	return s.userRepo.FindAll(ctx)
}

// DeleteUser removes an account that no longer owns properties or reservations.
func (s *UserService) DeleteUser(ctx context.Context, id uint, actor models.Actor) error {
	if !IsAdmin(actor) {
		return ErrPermissionDenied
	}

	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}

	return s.userRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		properties, err := s.propertyRepo.CountByHost(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("count properties: %w", err)
		}
		reservations, err := s.reservationRepo.CountByGuest(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("count reservations: %w", err)
		}
		if properties > 0 || reservations > 0 {
			return ErrUserHasDependents
		}

		if err := s.userRepo.Delete(ctx, tx, id); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
