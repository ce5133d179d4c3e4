package domain

import "time"

// SystemActorID is the reserved actor recorded on automatic transitions
// (scheduled publication). It never matches a real user id.
const SystemActorID = "system"

// WorkflowLog is one immutable entry of a post's transition history -
// maps to workflow_logs table. Entries are append-only: the ordered
// sequence for a post is its full audit trail.
type WorkflowLog struct {
	ID         uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PostID     uint       `gorm:"column:post_id;index" json:"post_id"`
	FromStatus PostStatus `gorm:"column:from_status" json:"from_status"`
	ToStatus   PostStatus `gorm:"column:to_status" json:"to_status"`
	ActorID    string     `gorm:"column:actor_id" json:"actor_id"`
	Comment    *string    `gorm:"column:comment" json:"comment,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
}

// TableName returns the table name
func (WorkflowLog) TableName() string {
	return "workflow_logs"
}

// WorkflowLogView is one history entry with the actor resolved for display
type WorkflowLogView struct {
	ID         uint       `json:"id"`
	FromStatus PostStatus `json:"from_status"`
	ToStatus   PostStatus `json:"to_status"`
	Actor      string     `json:"actor"`
	Comment    *string    `json:"comment,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
