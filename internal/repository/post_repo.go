package repository

import (
	"time"

	"github.com/technews/technews-backend/internal/common"
	"github.com/technews/technews-backend/internal/domain"
	"gorm.io/gorm"
)

// StatusChange describes one workflow transition to persist. The write is
// conditioned on ExpectedVersion: if another actor changed the post since
// it was loaded, nothing is written and ErrVersionConflict is returned.
type StatusChange struct {
	PostID          uint
	ExpectedVersion uint
	To              domain.PostStatus
	ReviewNote      *string
	AssignedEditor  *string
	ScheduledAt     *time.Time
}

// PostRepository handles post reads and workflow status writes
type PostRepository interface {
	// Read operations
	FindByID(id uint) (*domain.Post, error)
	FindScheduledDue(now time.Time) ([]domain.Post, error)
	FindInReview() ([]domain.Post, error)

	// ApplyTransition atomically persists the status change and appends
	// the audit log entry. Exactly both happen, or neither.
	ApplyTransition(change StatusChange, entry *domain.WorkflowLog) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// FindByID retrieves a post with its category preloaded
func (r *postRepository) FindByID(id uint) (*domain.Post, error) {
	var post domain.Post
	if err := r.db.Preload("Category").
		Where("id = ? AND is_deleted = 0", id).
		First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// FindScheduledDue retrieves scheduled posts whose publish time has passed
func (r *postRepository) FindScheduledDue(now time.Time) ([]domain.Post, error) {
	var posts []domain.Post
	if err := r.db.
		Where("status = ? AND scheduled_publish_at IS NOT NULL AND scheduled_publish_at <= ? AND is_deleted = 0",
			domain.StatusScheduled, now).
		Order("scheduled_publish_at ASC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// FindInReview retrieves posts awaiting review, newest activity first
func (r *postRepository) FindInReview() ([]domain.Post, error) {
	var posts []domain.Post
	if err := r.db.Preload("Category").
		Where("status = ? AND is_deleted = 0", domain.StatusInReview).
		Order("modified_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ApplyTransition updates the post status with optimistic locking and
// appends the workflow log entry in one transaction. RowsAffected 0 on the
// conditional update means a concurrent writer won the race.
func (r *postRepository) ApplyTransition(change StatusChange, entry *domain.WorkflowLog) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":      change.To,
			"version":     gorm.Expr("version + 1"),
			"modified_at": time.Now(),
		}
		if change.ReviewNote != nil {
			updates["review_note"] = *change.ReviewNote
		}
		if change.AssignedEditor != nil {
			updates["assigned_editor_id"] = *change.AssignedEditor
		}
		if change.ScheduledAt != nil {
			updates["scheduled_publish_at"] = *change.ScheduledAt
		}

		result := tx.Model(&domain.Post{}).
			Where("id = ? AND version = ? AND is_deleted = 0", change.PostID, change.ExpectedVersion).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.ErrVersionConflict
		}

		return tx.Create(entry).Error
	})
}
