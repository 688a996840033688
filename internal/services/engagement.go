package services

import (
	"context"
	"errors"
	"strings"

	"github.com/hieulm/writeuphub/backend/internal/models"
	"github.com/hieulm/writeuphub/backend/internal/repositories"
)

// EngagementService applies writeup mutations: create/edit/delete, like
// toggling, comment appending and share counting.
type EngagementService struct {
	writeups repositories.WriteUpRepository
	accounts repositories.AccountRepository
	likes    repositories.LikeRepository
	comments repositories.CommentRepository
	notifier *NotificationService
}

// NewEngagementService creates a new EngagementService
func NewEngagementService(
	writeupRepo repositories.WriteUpRepository,
	accountRepo repositories.AccountRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
	notifier *NotificationService,
) *EngagementService {
	return &EngagementService{
		writeups: writeupRepo,
		accounts: accountRepo,
		likes:    likeRepo,
		comments: commentRepo,
		notifier: notifier,
	}
}

// CreateWriteUp publishes a new writeup. The slug is derived from the title
// plus a random suffix; if the unique index still reports a collision the
// slug is regenerated and the insert retried once before failing Conflict.
func (s *EngagementService) CreateWriteUp(ctx context.Context, authorID uint, req models.CreateWriteUpRequest) (*models.WriteUp, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, NewError(KindInvalidInput, "title and content are required")
	}

	category := req.Category
	if category == "" {
		category = models.CategoryOther
	}
	if !models.ValidCategory(category) {
		return nil, NewError(KindInvalidInput, "unknown category")
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	writeup := &models.WriteUp{
		Title:    title,
		Slug:     MakeSlug(title),
		Content:  content,
		Category: category,
		Tags:     tags,
		AuthorID: authorID,
	}

	err := s.writeups.Create(ctx, writeup)
	if errors.Is(err, repositories.ErrDuplicate) {
		writeup.Slug = MakeSlug(title)
		err = s.writeups.Create(ctx, writeup)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, NewError(KindConflict, "could not derive a unique slug")
		}
		return nil, StoreError(err)
	}
	return writeup, nil
}

// UpdateWriteUp edits a writeup. Only the author may edit; empty request
// fields keep their stored values.
func (s *EngagementService) UpdateWriteUp(ctx context.Context, postID string, actorID uint, req models.UpdateWriteUpRequest) (*models.WriteUp, error) {
	writeup, err := s.getWriteUp(ctx, postID)
	if err != nil {
		return nil, err
	}
	if writeup.AuthorID != actorID {
		return nil, NewError(KindForbidden, "only the author can edit this writeup")
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		writeup.Title = title
	}
	if content := strings.TrimSpace(req.Content); content != "" {
		writeup.Content = content
	}
	if req.Category != "" {
		if !models.ValidCategory(req.Category) {
			return nil, NewError(KindInvalidInput, "unknown category")
		}
		writeup.Category = req.Category
	}
	if req.Tags != nil {
		writeup.Tags = req.Tags
	}

	if err := s.writeups.Update(ctx, writeup); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewError(KindNotFound, "writeup not found")
		}
		return nil, StoreError(err)
	}
	return writeup, nil
}

// DeleteWriteUp removes a writeup and its engagement relations. Author only;
// the administrative override is AdminDeleteWriteUp.
func (s *EngagementService) DeleteWriteUp(ctx context.Context, postID string, actorID uint) error {
	writeup, err := s.getWriteUp(ctx, postID)
	if err != nil {
		return err
	}
	if writeup.AuthorID != actorID {
		return NewError(KindForbidden, "only the author can delete this writeup")
	}
	return s.deleteWriteUp(ctx, postID)
}

// AdminDeleteWriteUp removes any writeup. The caller's admin role is checked
// at the handler boundary against the stored account.
func (s *EngagementService) AdminDeleteWriteUp(ctx context.Context, postID string) error {
	if _, err := s.getWriteUp(ctx, postID); err != nil {
		return err
	}
	return s.deleteWriteUp(ctx, postID)
}

func (s *EngagementService) deleteWriteUp(ctx context.Context, postID string) error {
	if err := s.writeups.Delete(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return NewError(KindNotFound, "writeup not found")
		}
		return StoreError(err)
	}
	if err := s.likes.DeleteByPostID(postID); err != nil {
		return StoreError(err)
	}
	if err := s.comments.DeleteByPostID(postID); err != nil {
		return StoreError(err)
	}
	return nil
}

// ToggleLike adds the actor to the writeup's like set, or removes it when
// already present. Returns whether the actor likes the writeup after the call
// and the resulting like count. A fresh like by anyone but the author emits a
// LIKE notification; unlike emits nothing.
func (s *EngagementService) ToggleLike(ctx context.Context, postID string, actorID uint) (bool, int64, error) {
	writeup, err := s.getWriteUp(ctx, postID)
	if err != nil {
		return false, 0, err
	}

	liked, err := s.likes.Has(postID, actorID)
	if err != nil {
		return false, 0, StoreError(err)
	}

	if liked {
		if err := s.likes.Delete(postID, actorID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return false, 0, StoreError(err)
		}
		count, err := s.likeCount(postID)
		return false, count, err
	}

	fresh := true
	if err := s.likes.Create(&models.Like{PostID: postID, AccountID: actorID}); err != nil {
		// Unique (post, account) guard: a concurrent like already inserted.
		if !errors.Is(err, repositories.ErrDuplicate) {
			return false, 0, StoreError(err)
		}
		fresh = false
	}

	if fresh && actorID != writeup.AuthorID {
		if err := s.notifier.Notify(ctx, writeup.AuthorID, actorID, models.NotificationLike, postID); err != nil {
			return true, 0, err
		}
	}
	count, err := s.likeCount(postID)
	return true, count, err
}

// AddComment appends a comment to the writeup's sequence. Every call appends
// a new entry; comments are never merged or reordered.
func (s *EngagementService) AddComment(ctx context.Context, postID string, actorID uint, content string) (*models.CommentView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, NewError(KindInvalidInput, "comment text is required")
	}
	if _, err := s.getWriteUp(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: postID, AuthorID: actorID, Content: content}
	if err := s.comments.Create(comment); err != nil {
		return nil, StoreError(err)
	}

	view := models.CommentView{Comment: *comment}
	if author, err := s.accounts.GetByID(actorID); err == nil {
		view.Author = author.ToSummary()
	}
	return &view, nil
}

// IncrementShare counts one share and returns the new total. Shares are a
// monotonic counter: every call counts, including repeats by the same actor.
func (s *EngagementService) IncrementShare(ctx context.Context, postID string) (int64, error) {
	shares, err := s.writeups.IncrementShares(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return 0, NewError(KindNotFound, "writeup not found")
		}
		return 0, StoreError(err)
	}
	return shares, nil
}

// GetBySlug resolves a writeup for reading and increments its view counter as
// a side effect of the read.
func (s *EngagementService) GetBySlug(ctx context.Context, slug string) (*models.WriteUpDetail, error) {
	writeup, err := s.writeups.GetBySlugAndIncrementViews(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewError(KindNotFound, "writeup not found")
		}
		return nil, StoreError(err)
	}
	return s.detail(ctx, writeup)
}

// GetByID resolves a writeup by id without touching the view counter. Used by
// edit flows.
func (s *EngagementService) GetByID(ctx context.Context, postID string) (*models.WriteUpDetail, error) {
	writeup, err := s.getWriteUp(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, writeup)
}

func (s *EngagementService) getWriteUp(ctx context.Context, postID string) (*models.WriteUp, error) {
	writeup, err := s.writeups.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewError(KindNotFound, "writeup not found")
		}
		return nil, StoreError(err)
	}
	return writeup, nil
}

func (s *EngagementService) likeCount(postID string) (int64, error) {
	count, err := s.likes.CountByPostID(postID)
	if err != nil {
		return 0, StoreError(err)
	}
	return count, nil
}

// detail resolves the full engagement state of one writeup: author summary,
// like set and comment sequence with comment authors.
func (s *EngagementService) detail(ctx context.Context, writeup *models.WriteUp) (*models.WriteUpDetail, error) {
	likes, err := s.likes.AccountIDsByPostID(writeup.ID.Hex())
	if err != nil {
		return nil, StoreError(err)
	}
	comments, err := s.comments.ListByPostID(writeup.ID.Hex())
	if err != nil {
		return nil, StoreError(err)
	}

	authorIDs := []uint{writeup.AuthorID}
	seen := map[uint]bool{writeup.AuthorID: true}
	for _, c := range comments {
		if !seen[c.AuthorID] {
			seen[c.AuthorID] = true
			authorIDs = append(authorIDs, c.AuthorID)
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

	commentViews := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		commentViews = append(commentViews, models.CommentView{Comment: c, Author: accountMap[c.AuthorID]})
	}

	return &models.WriteUpDetail{
		WriteUp:  *writeup,
		Author:   accountMap[writeup.AuthorID],
		Likes:    likes,
		Comments: commentViews,
	}, nil
}
