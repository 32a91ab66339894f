package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"snapgram/models"
	"snapgram/storage"
	"snapgram/testutils"
)

type postFixture struct {
	posts    *PostService
	comments *CommentService
	users    *UserService
	images   *ImageService
	imageDB  *testutils.MemoryImages
	root     string
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()
	users, _ := newUserService()
	commentRepo := testutils.NewMemoryComments()
	imageRepo := testutils.NewMemoryImages()
	root := t.TempDir()
	images := NewImageService(imageRepo, storage.NewLocalStore(root, testExts))
	return &postFixture{
		posts:    NewPostService(testutils.NewMemoryPosts(), commentRepo, users, images),
		comments: NewCommentService(commentRepo, users),
		users:    users,
		images:   images,
		imageDB:  imageRepo,
		root:     root,
	}
}

func TestPostService_CreateAndGet(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	aliceID := signup(t, f.users, "alice")

	_, err := f.posts.CreatePost(ctx, aliceID, PostRequest{})
	assertCode(t, err, ErrorCodeValidation)

	created, err := f.posts.CreatePost(ctx, aliceID, PostRequest{Content: "hello"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if created.Author.AccountName != "alice" || created.CommentCount != 0 {
		t.Fatalf("unexpected post: %+v", created)
	}

	if _, err := f.comments.CreateComment(ctx, created.ID, models.CommentRequest{Content: "nice"}, aliceID); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	got, err := f.posts.GetPost(ctx, created.ID, aliceID)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if got.CommentCount != 1 {
		t.Fatalf("expected one comment, got %d", got.CommentCount)
	}

	_, err = f.posts.GetPost(ctx, "000000000000000000000000", aliceID)
	assertCode(t, err, ErrorCodeNotFound)
}

func TestPostService_FeedAndUserPosts(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	aliceID := signup(t, f.users, "alice")
	bobID := signup(t, f.users, "bob")

	feed, err := f.posts.Feed(ctx, aliceID, 10, 0)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if feed == nil || len(feed) != 0 {
		t.Fatalf("expected empty feed, got %#v", feed)
	}

	for _, content := range []string{"one", "two"} {
		if _, err := f.posts.CreatePost(ctx, bobID, PostRequest{Content: content}); err != nil {
			t.Fatalf("CreatePost: %v", err)
		}
	}
	if _, err := f.users.Follow(ctx, "bob", aliceID); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	feed, err = f.posts.Feed(ctx, aliceID, 10, 0)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(feed) != 2 || !feed[0].Author.IsFollow {
		t.Fatalf("unexpected feed: %+v", feed)
	}

	mine, err := f.posts.ListUserPosts(ctx, "bob", aliceID, 1, 0)
	if err != nil {
		t.Fatalf("ListUserPosts: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(mine))
	}

	_, err = f.posts.ListUserPosts(ctx, "ghost", aliceID, 10, 0)
	assertCode(t, err, ErrorCodeNotFound)
}

func TestPostService_DeleteCascades(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	aliceID := signup(t, f.users, "alice")
	bobID := signup(t, f.users, "bob")

	dto, err := f.images.UploadFile(ctx, testutils.FileHeader(t, "pic.png", []byte("img")), "image")
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	post, err := f.posts.CreatePost(ctx, aliceID, PostRequest{Content: "with image", Image: dto.Filename})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if _, err := f.comments.CreateComment(ctx, post.ID, models.CommentRequest{Content: "wow"}, bobID); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	_, err = f.posts.DeletePost(ctx, post.ID, bobID)
	assertCode(t, err, ErrorCodeUnauthorized)

	if _, err := f.posts.DeletePost(ctx, post.ID, aliceID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}

	_, err = f.posts.GetPost(ctx, post.ID, aliceID)
	assertCode(t, err, ErrorCodeNotFound)

	list, err := f.comments.GetCommentList(ctx, post.ID, aliceID, 10, 0)
	if err != nil {
		t.Fatalf("GetCommentList: %v", err)
	}
	if len(list.Comment) != 0 {
		t.Fatalf("comments should be deleted with the post")
	}
	if f.imageDB.Has(dto.Filename) {
		t.Fatalf("image record should be deleted with the post")
	}
	if _, err := os.Stat(filepath.Join(f.root, dto.Filename)); !os.IsNotExist(err) {
		t.Fatalf("image file should be deleted with the post, stat err %v", err)
	}
}
