package repository

import (
	"github.com/technews/technews-backend/internal/domain"
	"gorm.io/gorm"
)

// WorkflowLogRepository reads the append-only transition log. Entries are
// written only through PostRepository.ApplyTransition; there is no update
// or delete path.
type WorkflowLogRepository interface {
	FindByPostID(postID uint) ([]domain.WorkflowLog, error)
}

type workflowLogRepository struct {
	db *gorm.DB
}

// NewWorkflowLogRepository creates a new WorkflowLogRepository
func NewWorkflowLogRepository(db *gorm.DB) WorkflowLogRepository {
	return &workflowLogRepository{db: db}
}

// FindByPostID returns all transition entries for a post, newest first
func (r *workflowLogRepository) FindByPostID(postID uint) ([]domain.WorkflowLog, error) {
	var entries []domain.WorkflowLog
	if err := r.db.Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
