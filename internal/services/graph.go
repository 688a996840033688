package services

import (
	"context"
	"errors"

	"github.com/hieulm/writeuphub/backend/internal/models"
	"github.com/hieulm/writeuphub/backend/internal/repositories"
)

// GraphService applies follow/unfollow mutations to the follow graph.
//
// The graph is stored as single edge rows, so each toggle is one insert or
// one delete; a reader can never observe the two adjacency views out of sync
// because both are derived from the same row.
type GraphService struct {
	accounts repositories.AccountRepository
	follows  repositories.FollowRepository
	notifier *NotificationService
}

// NewGraphService creates a new GraphService
func NewGraphService(
	accountRepo repositories.AccountRepository,
	followRepo repositories.FollowRepository,
	notifier *NotificationService,
) *GraphService {
	return &GraphService{
		accounts: accountRepo,
		follows:  followRepo,
		notifier: notifier,
	}
}

// ToggleFollow follows the target if the actor does not already follow it,
// otherwise unfollows. Returns whether the actor follows the target after the
// call. A fresh follow emits a FOLLOW notification; unfollow emits nothing.
func (s *GraphService) ToggleFollow(ctx context.Context, actorID, targetID uint) (bool, error) {
	if actorID == targetID {
		return false, NewError(KindInvalidInput, "cannot follow yourself")
	}

	if _, err := s.getAccount(actorID); err != nil {
		return false, err
	}
	if _, err := s.getAccount(targetID); err != nil {
		return false, err
	}

	following, err := s.follows.IsFollowing(actorID, targetID)
	if err != nil {
		return false, StoreError(err)
	}

	if following {
		if err := s.follows.Delete(actorID, targetID); err != nil {
			// A concurrent unfollow already removed the edge.
			if errors.Is(err, repositories.ErrNotFound) {
				return false, nil
			}
			return false, StoreError(err)
		}
		return false, nil
	}

	if err := s.follows.Create(&models.Follow{FollowerID: actorID, FollowingID: targetID}); err != nil {
		// A concurrent follow won the race; the edge exists, no second notification.
		if errors.Is(err, repositories.ErrDuplicate) {
			return true, nil
		}
		return false, StoreError(err)
	}

	if err := s.notifier.Notify(ctx, targetID, actorID, models.NotificationFollow, ""); err != nil {
		return true, err
	}
	return true, nil
}

// Followers returns the public summaries of everyone following the account.
func (s *GraphService) Followers(ctx context.Context, accountID uint) ([]models.AccountSummary, error) {
	if _, err := s.getAccount(accountID); err != nil {
		return nil, err
	}
	ids, err := s.follows.FollowerIDs(accountID)
	if err != nil {
		return nil, StoreError(err)
	}
	return s.summaries(ids)
}

// Following returns the public summaries of everyone the account follows.
func (s *GraphService) Following(ctx context.Context, accountID uint) ([]models.AccountSummary, error) {
	if _, err := s.getAccount(accountID); err != nil {
		return nil, err
	}
	ids, err := s.follows.FollowingIDs(accountID)
	if err != nil {
		return nil, StoreError(err)
	}
	return s.summaries(ids)
}

// IsFollowing reports whether actor currently follows target.
func (s *GraphService) IsFollowing(ctx context.Context, actorID, targetID uint) (bool, error) {
	following, err := s.follows.IsFollowing(actorID, targetID)
	if err != nil {
		return false, StoreError(err)
	}
	return following, nil
}

func (s *GraphService) getAccount(id uint) (*models.Account, error) {
	account, err := s.accounts.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewError(KindNotFound, "account not found")
		}
		return nil, StoreError(err)
	}
	return account, nil
}

func (s *GraphService) summaries(ids []uint) ([]models.AccountSummary, error) {
	accounts, err := s.accounts.GetByIDs(ids)
	if err != nil {
		return nil, StoreError(err)
	}
	summaries := make([]models.AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		summaries = append(summaries, a.ToSummary())
	}
	return summaries, nil
}
