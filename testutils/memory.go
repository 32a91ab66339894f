package testutils

import (
	"context"
	"slices"
	"sort"
	"sync"

	"snapgram/models"
	"snapgram/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryUsers is an in-memory repository.UserRepository.
type MemoryUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: map[string]*models.User{}}
}

func (m *MemoryUsers) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email || u.AccountName == user.AccountName {
			return repository.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Follower == nil {
		user.Follower = []string{}
	}
	if user.Following == nil {
		user.Following = []string{}
	}
	cp := *user
	m.users[user.ID.Hex()] = &cp
	return nil
}

func (m *MemoryUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, repository.ErrNotFound
}

func (m *MemoryUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Email == email })
}

func (m *MemoryUsers) FindByAccountName(ctx context.Context, accountName string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.AccountName == accountName })
}

func (m *MemoryUsers) find(match func(*models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MemoryUsers) AddFollower(ctx context.Context, targetID, followerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	target, ok := m.users[targetID]
	if !ok {
		return repository.ErrNotFound
	}
	if !slices.Contains(target.Follower, followerID) {
		target.Follower = append(target.Follower, followerID)
	}
	if f, ok := m.users[followerID]; ok && !slices.Contains(f.Following, targetID) {
		f.Following = append(f.Following, targetID)
	}
	return nil
}

func (m *MemoryUsers) RemoveFollower(ctx context.Context, targetID, followerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	target, ok := m.users[targetID]
	if !ok {
		return repository.ErrNotFound
	}
	target.Follower = slices.DeleteFunc(target.Follower, func(id string) bool { return id == followerID })
	if f, ok := m.users[followerID]; ok {
		f.Following = slices.DeleteFunc(f.Following, func(id string) bool { return id == targetID })
	}
	return nil
}

func copyUser(u *models.User) *models.User {
	cp := *u
	cp.Follower = slices.Clone(u.Follower)
	cp.Following = slices.Clone(u.Following)
	return &cp
}

// MemoryPosts is an in-memory repository.PostRepository.
type MemoryPosts struct {
	mu    sync.Mutex
	posts []models.Post
}

func NewMemoryPosts() *MemoryPosts {
	return &MemoryPosts{}
}

func (m *MemoryPosts) Create(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	m.posts = append(m.posts, *post)
	return nil
}

func (m *MemoryPosts) FindByID(ctx context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.ID.Hex() == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MemoryPosts) ListByAuthors(ctx context.Context, authorIDs []string, skip, limit int64) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []models.Post{}
	for i := len(m.posts) - 1; i >= 0; i-- {
		if slices.Contains(authorIDs, m.posts[i].AuthorID) {
			out = append(out, m.posts[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return page(out, skip, limit), nil
}

func (m *MemoryPosts) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.posts {
		if p.ID.Hex() == id {
			m.posts = slices.Delete(m.posts, i, i+1)
			return nil
		}
	}
	return repository.ErrNotFound
}

// MemoryComments is an in-memory repository.CommentRepository.
type MemoryComments struct {
	mu       sync.Mutex
	comments []models.Comment
}

func NewMemoryComments() *MemoryComments {
	return &MemoryComments{}
}

func (m *MemoryComments) Create(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	m.comments = append(m.comments, *comment)
	return nil
}

func (m *MemoryComments) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.comments {
		if c.ID.Hex() == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MemoryComments) ListByPost(ctx context.Context, postID string, skip, limit int64) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Comment{}
	for _, c := range m.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return page(out, skip, limit), nil
}

func (m *MemoryComments) CountByPost(ctx context.Context, postID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, c := range m.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (m *MemoryComments) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.comments {
		if c.ID.Hex() == id {
			m.comments = slices.Delete(m.comments, i, i+1)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *MemoryComments) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.comments)
	m.comments = slices.DeleteFunc(m.comments, func(c models.Comment) bool { return c.PostID == postID })
	return int64(before - len(m.comments)), nil
}

// MemoryImages is an in-memory repository.ImageRepository.
type MemoryImages struct {
	mu     sync.Mutex
	images map[string]models.Image
}

func NewMemoryImages() *MemoryImages {
	return &MemoryImages{images: map[string]models.Image{}}
}

func (m *MemoryImages) Create(ctx context.Context, image *models.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.images[image.Filename]; ok {
		return repository.ErrDuplicate
	}
	if image.ID.IsZero() {
		image.ID = primitive.NewObjectID()
	}
	m.images[image.Filename] = *image
	return nil
}

func (m *MemoryImages) DeleteByFilename(ctx context.Context, filename string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.images[filename]; !ok {
		return 0, nil
	}
	delete(m.images, filename)
	return 1, nil
}

// Has reports whether a record for filename exists.
func (m *MemoryImages) Has(filename string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.images[filename]
	return ok
}

func (m *MemoryImages) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.images)
}

// MemoryPushSubscriptions is an in-memory repository.PushSubscriptionRepository.
type MemoryPushSubscriptions struct {
	mu   sync.Mutex
	subs map[string]models.PushSubscription
}

func NewMemoryPushSubscriptions() *MemoryPushSubscriptions {
	return &MemoryPushSubscriptions{subs: map[string]models.PushSubscription{}}
}

func (m *MemoryPushSubscriptions) Upsert(ctx context.Context, sub *models.PushSubscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[sub.Endpoint] = *sub
	return nil
}

func (m *MemoryPushSubscriptions) ListByUser(ctx context.Context, userID string) ([]models.PushSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.PushSubscription{}
	for _, s := range m.subs {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MemoryPushSubscriptions) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs, endpoint)
	return nil
}

func page[T any](items []T, skip, limit int64) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= int64(len(items)) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && limit < int64(len(items)) {
		items = items[:limit]
	}
	return items
}

var (
	_ repository.UserRepository             = (*MemoryUsers)(nil)
	_ repository.PostRepository             = (*MemoryPosts)(nil)
	_ repository.CommentRepository          = (*MemoryComments)(nil)
	_ repository.ImageRepository            = (*MemoryImages)(nil)
	_ repository.PushSubscriptionRepository = (*MemoryPushSubscriptions)(nil)
)
