package models

import "time"

// NotificationKind enumerates the notification taxonomy.
type NotificationKind string

const (
	NotificationLike    NotificationKind = "LIKE"
	NotificationComment NotificationKind = "COMMENT"
	NotificationShare   NotificationKind = "SHARE"
	NotificationFollow  NotificationKind = "FOLLOW"
	NotificationNewPost NotificationKind = "NEW_POST"
)

// Deduplicated reports whether at most one active notification may exist per
// (recipient, sender, kind, subject) tuple. Only LIKE and FOLLOW are guarded;
// the other kinds insert on every qualifying event.
func (k NotificationKind) Deduplicated() bool {
	return k == NotificationLike || k == NotificationFollow
}

// Notification is a stored notification row (PostgreSQL). For LIKE and FOLLOW
// the dedup tuple is additionally enforced by a partial unique index created
// at migration time; the application-level existence check is an optimization
// on top of that constraint.
type Notification struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	RecipientID uint             `json:"recipient_id" gorm:"index"`
	SenderID    uint             `json:"sender_id" gorm:"index"`
	Kind        NotificationKind `json:"kind" gorm:"size:20;index"`
	SubjectID   string           `json:"subject_id"` // writeup hex id, empty for FOLLOW
	IsRead      bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index"`
}

// NotificationView is a notification with sender and subject resolved for
// display.
type NotificationView struct {
	Notification
	Sender       AccountSummary `json:"sender"`
	SubjectTitle string         `json:"subject_title,omitempty"`
	SubjectSlug  string         `json:"subject_slug,omitempty"`
}
