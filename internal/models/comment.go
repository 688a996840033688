package models

import "time"

// Comment is an append-only child row of a writeup, ordered by
// (created_at, id). Comments are never merged, deduplicated or reordered.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"index"` // writeup hex id
	AuthorID  uint      `json:"author_id" gorm:"index"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentView is a comment with its author's public fields resolved.
type CommentView struct {
	Comment
	Author AccountSummary `json:"author"`
}

// CreateCommentRequest defines the request body for commenting on a writeup
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}
