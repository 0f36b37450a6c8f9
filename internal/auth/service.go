package auth

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/db/models"
)

// Service answers role questions about backoffice users.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// HasRole checks if a user currently holds the role alias.
func (s *Service) HasRole(ctx context.Context, userID uint64, alias string) (bool, error) {
	return s.HasAnyRole(ctx, userID, []string{alias})
}

// HasAnyRole checks if a user currently holds at least one of the role aliases.
func (s *Service) HasAnyRole(ctx context.Context, userID uint64, aliases []string) (bool, error) {
	if len(aliases) == 0 {
		return false, nil
	}

	var count int64

	err := s.db.WithContext(ctx).Model(&models.UserRole{}).
		Joins("JOIN users ON users.id = user_roles.user_id").
		Where("user_roles.user_id = ? AND users.is_approved = ? AND user_roles.role_alias IN ?", userID, true, aliases).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check user roles: %w", err)
	}

	return count > 0, nil
}

// GetUserRoles returns the role aliases of a user.
func (s *Service) GetUserRoles(ctx context.Context, userID uint64) ([]string, error) {
	var roles []string

	err := s.db.WithContext(ctx).Model(&models.UserRole{}).
		Where("user_id = ?", userID).
		Order("role_alias").
		Pluck("role_alias", &roles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}

	return roles, nil
}

// ListUsers returns all users with their roles, ordered by username.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User

	if err := s.db.WithContext(ctx).Preload("Roles").Order("username").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// Roles returns the role catalogue.
func (s *Service) Roles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role

	if err := s.db.WithContext(ctx).Order("id").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	return roles, nil
}
