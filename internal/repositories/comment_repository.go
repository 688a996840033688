package repositories

import (
	"github.com/hieulm/writeuphub/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(comment *models.Comment) error
	ListByPostID(postID string) ([]models.Comment, error)
	CountByPostIDs(postIDs []string) (map[string]int64, error)
	DeleteByPostID(postID string) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

func (r *PostgresCommentRepository) Create(comment *models.Comment) error {
	return translate(r.db.Create(comment).Error)
}

// ListByPostID returns the comment sequence in append order.
func (r *PostgresCommentRepository) ListByPostID(postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("post_id = ?", postID).Order("created_at ASC, id ASC").Find(&comments).Error
	return comments, translate(err)
}

func (r *PostgresCommentRepository) CountByPostIDs(postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		PostID string
		Total  int64
	}
	err := r.db.Model(&models.Comment{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}

// DeleteByPostID removes the comment sequence of a deleted writeup.
func (r *PostgresCommentRepository) DeleteByPostID(postID string) error {
	return translate(r.db.Where("post_id = ?", postID).Delete(&models.Comment{}).Error)
}
