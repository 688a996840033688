package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hieulm/writeuphub/backend/internal/models"
	"github.com/hieulm/writeuphub/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They enforce the same uniqueness constraints
// the real stores do (follow edge, like relation, notification dedup tuple,
// slug) and return the repositories sentinels, so the services exercise the
// exact conflict paths they hit in production.

type fakeAccountRepo struct {
	mu       sync.Mutex
	nextID   uint
	accounts map[uint]models.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{nextID: 1, accounts: make(map[uint]models.Account)}
}

func (f *fakeAccountRepo) add(username string) uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.accounts[id] = models.Account{ID: id, Username: username, Email: username + "@example.com", Role: models.RoleUser}
	return id
}

func (f *fakeAccountRepo) Create(account *models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.Username == account.Username || a.Email == account.Email {
			return repositories.ErrDuplicate
		}
	}
	account.ID = f.nextID
	f.nextID++
	f.accounts[account.ID] = *account
	return nil
}

func (f *fakeAccountRepo) GetByID(id uint) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &account, nil
}

func (f *fakeAccountRepo) GetByIDs(ids []uint) ([]models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Account
	for _, id := range ids {
		if account, ok := f.accounts[id]; ok {
			out = append(out, account)
		}
	}
	return out, nil
}

func (f *fakeAccountRepo) GetByEmail(email string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.Email == email {
			account := a
			return &account, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeAccountRepo) GetByUsername(username string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.Username == username {
			account := a
			return &account, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeAccountRepo) GetByFirebaseUID(uid string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.FirebaseUID != nil && *a.FirebaseUID == uid {
			account := a
			return &account, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeAccountRepo) UpdateProfile(id uint, avatar, bio *string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if avatar != nil {
		account.Avatar = *avatar
	}
	if bio != nil {
		account.Bio = *bio
	}
	f.accounts[id] = account
	return &account, nil
}

func (f *fakeAccountRepo) Delete(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.accounts, id)
	return nil
}

func (f *fakeAccountRepo) ListAll() ([]models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Account, 0, len(f.accounts))
	for _, a := range f.accounts {
		out = append(out, a)
	}
	return out, nil
}

type edge struct{ follower, following uint }

type fakeFollowRepo struct {
	mu    sync.Mutex
	edges map[edge]bool

	// hideEdgeOnce makes the next IsFollowing report false regardless of
	// state, simulating a concurrent follow landing between check and insert.
	hideEdgeOnce bool
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{edges: make(map[edge]bool)}
}

func (f *fakeFollowRepo) Create(follow *models.Follow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := edge{follow.FollowerID, follow.FollowingID}
	if f.edges[e] {
		return repositories.ErrDuplicate
	}
	f.edges[e] = true
	return nil
}

func (f *fakeFollowRepo) Delete(followerID, followingID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := edge{followerID, followingID}
	if !f.edges[e] {
		return repositories.ErrNotFound
	}
	delete(f.edges, e)
	return nil
}

func (f *fakeFollowRepo) IsFollowing(followerID, followingID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hideEdgeOnce {
		f.hideEdgeOnce = false
		return false, nil
	}
	return f.edges[edge{followerID, followingID}], nil
}

func (f *fakeFollowRepo) FollowerIDs(accountID uint) ([]uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uint
	for e := range f.edges {
		if e.following == accountID {
			ids = append(ids, e.follower)
		}
	}
	return ids, nil
}

func (f *fakeFollowRepo) FollowingIDs(accountID uint) ([]uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uint
	for e := range f.edges {
		if e.follower == accountID {
			ids = append(ids, e.following)
		}
	}
	return ids, nil
}

func (f *fakeFollowRepo) FollowersCount(accountID uint) (int64, error) {
	ids, _ := f.FollowerIDs(accountID)
	return int64(len(ids)), nil
}

func (f *fakeFollowRepo) FollowingCount(accountID uint) (int64, error) {
	ids, _ := f.FollowingIDs(accountID)
	return int64(len(ids)), nil
}

type likeKey struct {
	postID    string
	accountID uint
}

type fakeLikeRepo struct {
	mu    sync.Mutex
	seq   uint
	likes map[likeKey]uint // key -> insertion order

	// hideLikeOnce makes the next Has report false regardless of state,
	// simulating a concurrent like landing between check and insert.
	hideLikeOnce bool
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[likeKey]uint)}
}

func (f *fakeLikeRepo) Create(like *models.Like) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := likeKey{like.PostID, like.AccountID}
	if _, ok := f.likes[key]; ok {
		return repositories.ErrDuplicate
	}
	f.seq++
	f.likes[key] = f.seq
	return nil
}

func (f *fakeLikeRepo) Delete(postID string, accountID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := likeKey{postID, accountID}
	if _, ok := f.likes[key]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.likes, key)
	return nil
}

func (f *fakeLikeRepo) Has(postID string, accountID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hideLikeOnce {
		f.hideLikeOnce = false
		return false, nil
	}
	_, ok := f.likes[likeKey{postID, accountID}]
	return ok, nil
}

func (f *fakeLikeRepo) CountByPostID(postID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for key := range f.likes {
		if key.postID == postID {
			count++
		}
	}
	return count, nil
}

func (f *fakeLikeRepo) CountByPostIDs(postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIDs))
	for _, id := range postIDs {
		count, _ := f.CountByPostID(id)
		if count > 0 {
			counts[id] = count
		}
	}
	return counts, nil
}

func (f *fakeLikeRepo) AccountIDsByPostID(postID string) ([]uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	type entry struct {
		id  uint
		seq uint
	}
	var entries []entry
	for key, seq := range f.likes {
		if key.postID == postID {
			entries = append(entries, entry{key.accountID, seq})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	ids := make([]uint, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}
	return ids, nil
}

func (f *fakeLikeRepo) PostIDsByAccountID(accountID uint) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for key := range f.likes {
		if key.accountID == accountID {
			ids = append(ids, key.postID)
		}
	}
	return ids, nil
}

func (f *fakeLikeRepo) DeleteByPostID(postID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key := range f.likes {
		if key.postID == postID {
			delete(f.likes, key)
		}
	}
	return nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	nextID   uint
	comments []models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{nextID: 1}
}

func (f *fakeCommentRepo) Create(comment *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment.ID = f.nextID
	f.nextID++
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	f.comments = append(f.comments, *comment)
	return nil
}

func (f *fakeCommentRepo) ListByPostID(postID string) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Comment
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeCommentRepo) CountByPostIDs(postIDs []string) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int64, len(postIDs))
	for _, id := range postIDs {
		for _, c := range f.comments {
			if c.PostID == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (f *fakeCommentRepo) DeleteByPostID(postID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.comments[:0]
	for _, c := range f.comments {
		if c.PostID != postID {
			kept = append(kept, c)
		}
	}
	f.comments = kept
	return nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	nextID        uint
	notifications []models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{nextID: 1}
}

// Create mirrors the partial unique index: LIKE and FOLLOW conflict on the
// dedup tuple, other kinds always insert.
func (f *fakeNotificationRepo) Create(notification *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if notification.Kind.Deduplicated() {
		for _, n := range f.notifications {
			if n.RecipientID == notification.RecipientID &&
				n.SenderID == notification.SenderID &&
				n.Kind == notification.Kind &&
				n.SubjectID == notification.SubjectID {
				return repositories.ErrDuplicate
			}
		}
	}
	notification.ID = f.nextID
	f.nextID++
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	f.notifications = append(f.notifications, *notification)
	return nil
}

func (f *fakeNotificationRepo) Exists(recipientID, senderID uint, kind models.NotificationKind, subjectID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.RecipientID == recipientID && n.SenderID == senderID && n.Kind == kind && n.SubjectID == subjectID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotificationRepo) ListByRecipient(recipientID uint) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeNotificationRepo) UnreadCount(recipientID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkRead(recipientID, notificationID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.notifications {
		if n.ID == notificationID && n.RecipientID == recipientID {
			f.notifications[i].IsRead = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeNotificationRepo) MarkAllRead(recipientID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.notifications {
		if n.RecipientID == recipientID {
			f.notifications[i].IsRead = true
		}
	}
	return nil
}

type fakeWriteUpRepo struct {
	mu       sync.Mutex
	seq      int64
	writeups map[string]models.WriteUp // hex id -> document

	// failCreates forces the next N Creates to report a slug collision.
	failCreates int
}

func newFakeWriteUpRepo() *fakeWriteUpRepo {
	return &fakeWriteUpRepo{writeups: make(map[string]models.WriteUp)}
}

func (f *fakeWriteUpRepo) Create(ctx context.Context, writeup *models.WriteUp) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreates > 0 {
		f.failCreates--
		return repositories.ErrDuplicate
	}
	for _, w := range f.writeups {
		if w.Slug == writeup.Slug {
			return repositories.ErrDuplicate
		}
	}
	writeup.ID = primitive.NewObjectID()
	f.seq++
	// Strictly increasing timestamps keep newest-first ordering deterministic.
	writeup.CreatedAt = time.Unix(f.seq, 0)
	writeup.UpdatedAt = writeup.CreatedAt
	f.writeups[writeup.ID.Hex()] = *writeup
	return nil
}

func (f *fakeWriteUpRepo) GetByID(ctx context.Context, id string) (*models.WriteUp, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.writeups[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &w, nil
}

func (f *fakeWriteUpRepo) GetBySlugAndIncrementViews(ctx context.Context, slug string) (*models.WriteUp, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, w := range f.writeups {
		if w.Slug == slug {
			w.Views++
			f.writeups[id] = w
			return &w, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeWriteUpRepo) Update(ctx context.Context, writeup *models.WriteUp) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := writeup.ID.Hex()
	stored, ok := f.writeups[id]
	if !ok {
		return repositories.ErrNotFound
	}
	stored.Title = writeup.Title
	stored.Content = writeup.Content
	stored.Category = writeup.Category
	stored.Tags = writeup.Tags
	stored.UpdatedAt = time.Now()
	f.writeups[id] = stored
	return nil
}

func (f *fakeWriteUpRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.writeups[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.writeups, id)
	return nil
}

func (f *fakeWriteUpRepo) FindByAuthors(ctx context.Context, authorIDs []uint) ([]models.WriteUp, error) {
	if len(authorIDs) == 0 {
		return []models.WriteUp{}, nil
	}
	authors := make(map[uint]bool, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = true
	}
	return f.filter(func(w models.WriteUp) bool { return authors[w.AuthorID] }, 0), nil
}

func (f *fakeWriteUpRepo) FindExcludingAuthors(ctx context.Context, authorIDs []uint, limit int64) ([]models.WriteUp, error) {
	excluded := make(map[uint]bool, len(authorIDs))
	for _, id := range authorIDs {
		excluded[id] = true
	}
	return f.filter(func(w models.WriteUp) bool { return !excluded[w.AuthorID] }, limit), nil
}

func (f *fakeWriteUpRepo) FindByIDs(ctx context.Context, ids []string) ([]models.WriteUp, error) {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	return f.filter(func(w models.WriteUp) bool { return wanted[w.ID.Hex()] }, 0), nil
}

func (f *fakeWriteUpRepo) Search(ctx context.Context, term string) ([]models.WriteUp, error) {
	if term == "" {
		return f.filter(func(models.WriteUp) bool { return true }, 0), nil
	}
	lower := strings.ToLower(term)
	return f.filter(func(w models.WriteUp) bool {
		if strings.Contains(strings.ToLower(w.Title), lower) ||
			strings.Contains(strings.ToLower(w.Content), lower) ||
			strings.Contains(strings.ToLower(w.Category), lower) {
			return true
		}
		for _, tag := range w.Tags {
			if strings.Contains(strings.ToLower(tag), lower) {
				return true
			}
		}
		return false
	}, 0), nil
}

func (f *fakeWriteUpRepo) IncrementShares(ctx context.Context, id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.writeups[id]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	w.Shares++
	f.writeups[id] = w
	return w.Shares, nil
}

func (f *fakeWriteUpRepo) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, w := range f.writeups {
		if w.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func (f *fakeWriteUpRepo) filter(keep func(models.WriteUp) bool, limit int64) []models.WriteUp {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.WriteUp{}
	for _, w := range f.writeups {
		if keep(w) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out
}

// env bundles the services over a shared set of fakes.
type env struct {
	accounts      *fakeAccountRepo
	follows       *fakeFollowRepo
	likes         *fakeLikeRepo
	comments      *fakeCommentRepo
	notifications *fakeNotificationRepo
	writeups      *fakeWriteUpRepo

	notifier   *NotificationService
	graph      *GraphService
	engagement *EngagementService
	feed       *FeedService
}

func newEnv() *env {
	e := &env{
		accounts:      newFakeAccountRepo(),
		follows:       newFakeFollowRepo(),
		likes:         newFakeLikeRepo(),
		comments:      newFakeCommentRepo(),
		notifications: newFakeNotificationRepo(),
		writeups:      newFakeWriteUpRepo(),
	}
	e.notifier = NewNotificationService(e.notifications, e.accounts, e.writeups)
	e.graph = NewGraphService(e.accounts, e.follows, e.notifier)
	e.engagement = NewEngagementService(e.writeups, e.accounts, e.likes, e.comments, e.notifier)
	e.feed = NewFeedService(e.writeups, e.accounts, e.follows, e.likes, e.comments)
	return e
}

// notificationsFor filters stored notifications by recipient and kind.
func (e *env) notificationsFor(recipientID uint, kind models.NotificationKind) []models.Notification {
	all, _ := e.notifications.ListByRecipient(recipientID)
	var out []models.Notification
	for _, n := range all {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}
