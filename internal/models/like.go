package models

import "time"

// Like is a (post, account) relation row. The composite unique index makes
// add-to-set atomic: a concurrent duplicate like surfaces as a constraint
// violation instead of a second row.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_post_account"` // writeup hex id
	AccountID uint      `json:"account_id" gorm:"index;uniqueIndex:idx_post_account"`
	CreatedAt time.Time `json:"created_at"`
}
