package services

import (
	"context"
	"errors"

	"github.com/hieulm/writeuphub/backend/internal/models"
	"github.com/hieulm/writeuphub/backend/internal/repositories"
)

// ExplorePageSize bounds the explore feed.
const ExplorePageSize = 20

// FeedService composes read-only, newest-first views over the writeup set,
// parameterized by the requesting account's graph position. Feed reads never
// mutate state; the view counter moves only on the slug-based single-post
// read in the engagement service.
type FeedService struct {
	writeups repositories.WriteUpRepository
	accounts repositories.AccountRepository
	follows  repositories.FollowRepository
	likes    repositories.LikeRepository
	comments repositories.CommentRepository
}

// NewFeedService creates a new FeedService
func NewFeedService(
	writeupRepo repositories.WriteUpRepository,
	accountRepo repositories.AccountRepository,
	followRepo repositories.FollowRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
) *FeedService {
	return &FeedService{
		writeups: writeupRepo,
		accounts: accountRepo,
		follows:  followRepo,
		likes:    likeRepo,
		comments: commentRepo,
	}
}

// Subscribed returns posts authored by accounts the actor follows. Following
// nobody yields an empty feed, not an error.
func (s *FeedService) Subscribed(ctx context.Context, actorID uint) ([]models.WriteUpSummary, error) {
	if _, err := s.getAccount(actorID); err != nil {
		return nil, err
	}
	followingIDs, err := s.follows.FollowingIDs(actorID)
	if err != nil {
		return nil, StoreError(err)
	}
	if len(followingIDs) == 0 {
		return []models.WriteUpSummary{}, nil
	}
	writeups, err := s.writeups.FindByAuthors(ctx, followingIDs)
	if err != nil {
		return nil, StoreError(err)
	}
	return s.enrich(writeups)
}

// Explore surfaces undiscovered authors: posts by accounts the actor does not
// follow, excluding the actor's own, bounded to one page.
func (s *FeedService) Explore(ctx context.Context, actorID uint) ([]models.WriteUpSummary, error) {
	if _, err := s.getAccount(actorID); err != nil {
		return nil, err
	}
	followingIDs, err := s.follows.FollowingIDs(actorID)
	if err != nil {
		return nil, StoreError(err)
	}
	excluded := append(followingIDs, actorID)
	writeups, err := s.writeups.FindExcludingAuthors(ctx, excluded, ExplorePageSize)
	if err != nil {
		return nil, StoreError(err)
	}
	return s.enrich(writeups)
}

// Profile returns every post authored by the target account.
func (s *FeedService) Profile(ctx context.Context, targetID uint) ([]models.WriteUpSummary, error) {
	writeups, err := s.writeups.FindByAuthors(ctx, []uint{targetID})
	if err != nil {
		return nil, StoreError(err)
	}
	return s.enrich(writeups)
}

// Liked returns every post the target account has liked.
func (s *FeedService) Liked(ctx context.Context, targetID uint) ([]models.WriteUpSummary, error) {
	postIDs, err := s.likes.PostIDsByAccountID(targetID)
	if err != nil {
		return nil, StoreError(err)
	}
	if len(postIDs) == 0 {
		return []models.WriteUpSummary{}, nil
	}
	writeups, err := s.writeups.FindByIDs(ctx, postIDs)
	if err != nil {
		return nil, StoreError(err)
	}
	return s.enrich(writeups)
}

// Search returns posts matching term as a case-insensitive substring of
// title, content, tags or category. An empty term returns the full set.
func (s *FeedService) Search(ctx context.Context, term string) ([]models.WriteUpSummary, error) {
	writeups, err := s.writeups.Search(ctx, term)
	if err != nil {
		return nil, StoreError(err)
	}
	return s.enrich(writeups)
}

func (s *FeedService) getAccount(id uint) (*models.Account, error) {
	account, err := s.accounts.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewError(KindNotFound, "account not found")
		}
		return nil, StoreError(err)
	}
	return account, nil
}

// enrich attaches author summaries and engagement counts to a page of
// writeups with one batch query per concern.
func (s *FeedService) enrich(writeups []models.WriteUp) ([]models.WriteUpSummary, error) {
	postIDs := make([]string, len(writeups))
	authorIDs := make([]uint, 0, len(writeups))
	seen := make(map[uint]bool)
	for i, w := range writeups {
		postIDs[i] = w.ID.Hex()
		if !seen[w.AuthorID] {
			seen[w.AuthorID] = true
			authorIDs = append(authorIDs, w.AuthorID)
		}
	}

	accounts, err := s.accounts.GetByIDs(authorIDs)
	if err != nil {
		return nil, StoreError(err)
	}
	accountMap := make(map[uint]models.AccountSummary, len(accounts))
	for _, a := range accounts {
		accountMap[a.ID] = a.ToSummary()
	}

	likeCounts, err := s.likes.CountByPostIDs(postIDs)
	if err != nil {
		return nil, StoreError(err)
	}
	commentCounts, err := s.comments.CountByPostIDs(postIDs)
	if err != nil {
		return nil, StoreError(err)
	}

	summaries := make([]models.WriteUpSummary, 0, len(writeups))
	for _, w := range writeups {
		pid := w.ID.Hex()
		summaries = append(summaries, models.WriteUpSummary{
			WriteUp:       w,
			Author:        accountMap[w.AuthorID],
			LikesCount:    likeCounts[pid],
			CommentsCount: commentCounts[pid],
		})
	}
	return summaries, nil
}
