package repositories

import (
	"github.com/hieulm/writeuphub/backend/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow-graph data operations.
// The graph is a single edge relation; followers and following are its two
// indexed views.
type FollowRepository interface {
	Create(follow *models.Follow) error
	Delete(followerID, followingID uint) error
	IsFollowing(followerID, followingID uint) (bool, error)
	FollowerIDs(accountID uint) ([]uint, error)
	FollowingIDs(accountID uint) ([]uint, error)
	FollowersCount(accountID uint) (int64, error)
	FollowingCount(accountID uint) (int64, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

func (r *PostgresFollowRepository) Create(follow *models.Follow) error {
	return translate(r.db.Create(follow).Error)
}

func (r *PostgresFollowRepository) Delete(followerID, followingID uint) error {
	res := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresFollowRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).Where("follower_id = ? AND following_id = ?", followerID, followingID).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *PostgresFollowRepository) FollowerIDs(accountID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).Where("following_id = ?", accountID).Pluck("follower_id", &ids).Error
	return ids, translate(err)
}

func (r *PostgresFollowRepository) FollowingIDs(accountID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", accountID).Pluck("following_id", &ids).Error
	return ids, translate(err)
}

func (r *PostgresFollowRepository) FollowersCount(accountID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("following_id = ?", accountID).Count(&count).Error
	return count, translate(err)
}

func (r *PostgresFollowRepository) FollowingCount(accountID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", accountID).Count(&count).Error
	return count, translate(err)
}
