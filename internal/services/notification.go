package services

import (
	"context"
	"errors"

	"github.com/hieulm/writeuphub/backend/internal/models"
	"github.com/hieulm/writeuphub/backend/internal/repositories"
)

// NotificationService derives notifications from graph and engagement events
// and serves the read side.
type NotificationService struct {
	notifications repositories.NotificationRepository
	accounts      repositories.AccountRepository
	writeups      repositories.WriteUpRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	accountRepo repositories.AccountRepository,
	writeupRepo repositories.WriteUpRepository,
) *NotificationService {
	return &NotificationService{
		notifications: notificationRepo,
		accounts:      accountRepo,
		writeups:      writeupRepo,
	}
}

// Notify records a notification for recipient caused by sender. Self-caused
// events are suppressed for every kind. LIKE and FOLLOW are deduplicated on
// the (recipient, sender, kind, subject) tuple: the lookup here is an
// optimization, the partial unique index is the authoritative guard, and a
// constraint violation means the notification already exists, which is
// success.
func (s *NotificationService) Notify(ctx context.Context, recipientID, senderID uint, kind models.NotificationKind, subjectID string) error {
	if recipientID == senderID {
		return nil
	}

	if kind.Deduplicated() {
		exists, err := s.notifications.Exists(recipientID, senderID, kind, subjectID)
		if err != nil {
			return StoreError(err)
		}
		if exists {
			return nil
		}
	}

	notification := &models.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Kind:        kind,
		SubjectID:   subjectID,
	}
	if err := s.notifications.Create(notification); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil
		}
		return StoreError(err)
	}
	return nil
}

// ListFor returns the recipient's notifications newest first, with the
// sender's public profile and, when present, the subject writeup resolved.
func (s *NotificationService) ListFor(ctx context.Context, recipientID uint) ([]models.NotificationView, error) {
	notifications, err := s.notifications.ListByRecipient(recipientID)
	if err != nil {
		return nil, StoreError(err)
	}

	senderIDs := make([]uint, 0, len(notifications))
	seen := make(map[uint]bool)
	for _, n := range notifications {
		if !seen[n.SenderID] {
			seen[n.SenderID] = true
			senderIDs = append(senderIDs, n.SenderID)
		}
	}
	senders, err := s.accounts.GetByIDs(senderIDs)
	if err != nil {
		return nil, StoreError(err)
	}
	senderMap := make(map[uint]models.AccountSummary, len(senders))
	for _, a := range senders {
		senderMap[a.ID] = a.ToSummary()
	}

	views := make([]models.NotificationView, 0, len(notifications))
	for _, n := range notifications {
		view := models.NotificationView{Notification: n, Sender: senderMap[n.SenderID]}
		if n.SubjectID != "" {
			// The subject may have been deleted since; the notification still lists.
			if writeup, err := s.writeups.GetByID(ctx, n.SubjectID); err == nil {
				view.SubjectTitle = writeup.Title
				view.SubjectSlug = writeup.Slug
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// UnreadCount returns the recipient's unread notification count.
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	count, err := s.notifications.UnreadCount(recipientID)
	if err != nil {
		return 0, StoreError(err)
	}
	return count, nil
}

// MarkRead flips a single notification to read. Recipient-scoped.
func (s *NotificationService) MarkRead(ctx context.Context, recipientID, notificationID uint) error {
	if err := s.notifications.MarkRead(recipientID, notificationID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return NewError(KindNotFound, "notification not found")
		}
		return StoreError(err)
	}
	return nil
}

// MarkAllRead flips every unread notification of the recipient.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uint) error {
	if err := s.notifications.MarkAllRead(recipientID); err != nil {
		return StoreError(err)
	}
	return nil
}
