package models

import "time"

// Follow is a directed edge in the follow graph. A single edge row backs both
// adjacency views: followers(U) selects on following_id, following(U) on
// follower_id, so the two sides can never disagree.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_following"`
	FollowingID uint      `json:"following_id" gorm:"index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`
}
