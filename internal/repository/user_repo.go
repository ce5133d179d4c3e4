package repository

import (
	"github.com/technews/technews-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository resolves display names for audit views
type UserRepository interface {
	FindNamesByIDs(userIDs []string) (map[string]string, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindNamesByIDs returns a user id -> display name map. Deleted or unknown
// users are simply absent; callers substitute a placeholder.
func (r *userRepository) FindNamesByIDs(userIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(userIDs))
	if len(userIDs) == 0 {
		return names, nil
	}

	var users []domain.User
	if err := r.db.Where("id IN ? AND is_deleted = 0", userIDs).
		Find(&users).Error; err != nil {
		return nil, err
	}

	for i := range users {
		names[users[i].ID] = users[i].DisplayName()
	}
	return names, nil
}
