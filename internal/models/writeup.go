package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Writeup categories. Unknown submissions fall back to Other.
const (
	CategoryCTF       = "CTF"
	CategoryAlgorithm = "Algorithm"
	CategorySystem    = "System"
	CategoryNetwork   = "Network"
	CategoryOther     = "Other"
)

// Categories lists every valid category.
var Categories = []string{CategoryCTF, CategoryAlgorithm, CategorySystem, CategoryNetwork, CategoryOther}

// ValidCategory reports whether category is a member of Categories.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// WriteUp is a published post (MongoDB). The slug is unique and immutable
// after creation; Views moves only on slug-based reads and Shares only
// through the share endpoint, both via atomic increments.
type WriteUp struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	Slug      string             `json:"slug" bson:"slug"`
	Content   string             `json:"content" bson:"content"`
	Category  string             `json:"category" bson:"category"`
	Tags      []string           `json:"tags" bson:"tags"`
	AuthorID  uint               `json:"author_id" bson:"author_id"`
	Views     int64              `json:"views" bson:"views"`
	Shares    int64              `json:"shares" bson:"shares"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// WriteUpSummary is a feed entry: the writeup plus its author and engagement
// counts.
type WriteUpSummary struct {
	WriteUp
	Author        AccountSummary `json:"author"`
	LikesCount    int64          `json:"likes_count"`
	CommentsCount int64          `json:"comments_count"`
}

// WriteUpDetail is the full single-post view: author, like set and comment
// sequence resolved.
type WriteUpDetail struct {
	WriteUp
	Author   AccountSummary `json:"author"`
	Likes    []uint         `json:"likes"`
	Comments []CommentView  `json:"comments"`
}

// CreateWriteUpRequest defines the request body for publishing a writeup
type CreateWriteUpRequest struct {
	Title    string   `json:"title" validate:"required,min=1,max=200"`
	Content  string   `json:"content" validate:"required"`
	Category string   `json:"category" validate:"omitempty,oneof=CTF Algorithm System Network Other"`
	Tags     []string `json:"tags"`
}

// UpdateWriteUpRequest defines the request body for editing a writeup. Empty
// fields keep their stored values.
type UpdateWriteUpRequest struct {
	Title    string   `json:"title" validate:"omitempty,max=200"`
	Content  string   `json:"content"`
	Category string   `json:"category" validate:"omitempty,oneof=CTF Algorithm System Network Other"`
	Tags     []string `json:"tags"`
}
