package domain

import "time"

// PostStatus is the editorial state of a post
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusInReview  PostStatus = "in_review"
	StatusPublished PostStatus = "published"
	StatusRejected  PostStatus = "rejected"
	StatusScheduled PostStatus = "scheduled"
	StatusArchived  PostStatus = "archived"
	StatusHidden    PostStatus = "hidden"
)

// Valid reports whether s is a known status value
func (s PostStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusInReview, StatusPublished, StatusRejected,
		StatusScheduled, StatusArchived, StatusHidden:
		return true
	}
	return false
}

// Post represents a content item - maps to posts table.
// The workflow subsystem only mutates status, scheduled_publish_at,
// assigned_editor_id, review_note, version and modified_at.
type Post struct {
	ID                 uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title              string     `gorm:"column:title" json:"title"`
	Slug               string     `gorm:"column:slug" json:"slug"`
	ShortDescription   string     `gorm:"column:short_description" json:"short_description,omitempty"`
	Status             PostStatus `gorm:"column:status;default:draft" json:"status"`
	IsDeleted          bool       `gorm:"column:is_deleted;default:0" json:"-"`
	CategoryID         uint       `gorm:"column:category_id" json:"category_id"`
	Category           *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	AuthorID           string     `gorm:"column:author_id" json:"author_id"`
	AssignedEditorID   *string    `gorm:"column:assigned_editor_id" json:"assigned_editor_id,omitempty"`
	ReviewNote         *string    `gorm:"column:review_note" json:"review_note,omitempty"`
	ScheduledPublishAt *time.Time `gorm:"column:scheduled_publish_at" json:"scheduled_publish_at,omitempty"`
	Version            uint       `gorm:"column:version;default:0" json:"-"`
	CreatedAt          time.Time  `gorm:"column:created_at" json:"created_at"`
	ModifiedAt         time.Time  `gorm:"column:modified_at" json:"modified_at"`
}

// TableName returns the table name
func (Post) TableName() string {
	return "posts"
}

// Category represents a post category - maps to categories table
type Category struct {
	ID   uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"column:name" json:"name"`
	Slug string `gorm:"column:slug" json:"slug"`
}

// TableName returns the table name
func (Category) TableName() string {
	return "categories"
}

// PendingReviewItem is the denormalized pending-review queue row
type PendingReviewItem struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Status      PostStatus `json:"status"`
	Category    string     `json:"category"`
	Author      string     `json:"author"`
	SubmittedAt time.Time  `json:"submitted_at"`
	ReviewNote  *string    `json:"review_note,omitempty"`
}
