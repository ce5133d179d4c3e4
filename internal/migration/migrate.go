package migration

import (
	"github.com/technews/technews-backend/internal/domain"
	"gorm.io/gorm"
)

// Run creates or updates the tables the workflow subsystem owns.
// workflow_logs is append-only; nothing in the codebase updates or
// deletes its rows.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Category{},
		&domain.User{},
		&domain.Post{},
		&domain.WorkflowLog{},
	)
}
