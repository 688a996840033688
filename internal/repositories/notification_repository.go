package repositories

import (
	"github.com/hieulm/writeuphub/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	Create(notification *models.Notification) error
	Exists(recipientID, senderID uint, kind models.NotificationKind, subjectID string) (bool, error)
	ListByRecipient(recipientID uint) ([]models.Notification, error)
	UnreadCount(recipientID uint) (int64, error)
	MarkRead(recipientID, notificationID uint) error
	MarkAllRead(recipientID uint) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a NotificationRepository backed
// by PostgreSQL. The partial unique index on the dedup tuple is created at
// migration time (see router.Migrate) and is the authoritative guard; Create
// surfaces a violation as ErrDuplicate.
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) Create(notification *models.Notification) error {
	return translate(r.db.Create(notification).Error)
}

func (r *postgresNotificationRepository) Exists(recipientID, senderID uint, kind models.NotificationKind, subjectID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND sender_id = ? AND kind = ? AND subject_id = ?", recipientID, senderID, kind, subjectID).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *postgresNotificationRepository) ListByRecipient(recipientID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	return notifications, translate(err)
}

func (r *postgresNotificationRepository) UnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = false", recipientID).Count(&count).Error
	return count, translate(err)
}

// MarkRead is recipient-scoped so one account cannot mark another's
// notifications.
func (r *postgresNotificationRepository) MarkRead(recipientID, notificationID uint) error {
	res := r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresNotificationRepository) MarkAllRead(recipientID uint) error {
	return translate(r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false", recipientID).
		Update("is_read", true).Error)
}
