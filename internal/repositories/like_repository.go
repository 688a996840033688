package repositories

import (
	"github.com/hieulm/writeuphub/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	Create(like *models.Like) error
	Delete(postID string, accountID uint) error
	Has(postID string, accountID uint) (bool, error)
	CountByPostID(postID string) (int64, error)
	CountByPostIDs(postIDs []string) (map[string]int64, error)
	AccountIDsByPostID(postID string) ([]uint, error)
	PostIDsByAccountID(accountID uint) ([]string, error)
	DeleteByPostID(postID string) error
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// Create inserts a like row. The composite unique index turns a concurrent
// duplicate into ErrDuplicate rather than a second row.
func (r *PostgresLikeRepository) Create(like *models.Like) error {
	return translate(r.db.Create(like).Error)
}

func (r *PostgresLikeRepository) Delete(postID string, accountID uint) error {
	res := r.db.Where("post_id = ? AND account_id = ?", postID, accountID).Delete(&models.Like{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresLikeRepository) Has(postID string, accountID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ? AND account_id = ?", postID, accountID).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *PostgresLikeRepository) CountByPostID(postID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, translate(err)
}

func (r *PostgresLikeRepository) CountByPostIDs(postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		PostID string
		Total  int64
	}
	err := r.db.Model(&models.Like{}).
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

func (r *PostgresLikeRepository) AccountIDsByPostID(postID string) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Order("created_at ASC").Pluck("account_id", &ids).Error
	return ids, translate(err)
}

func (r *PostgresLikeRepository) PostIDsByAccountID(accountID uint) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.Like{}).Where("account_id = ?", accountID).Pluck("post_id", &ids).Error
	return ids, translate(err)
}

// DeleteByPostID removes every like of a deleted writeup.
func (r *PostgresLikeRepository) DeleteByPostID(postID string) error {
	return translate(r.db.Where("post_id = ?", postID).Delete(&models.Like{}).Error)
}
