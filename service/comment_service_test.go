package service

import (
	"context"
	"sync"
	"testing"

	"snapgram/models"
	"snapgram/testutils"
)

type recordedEvents struct {
	mu      sync.Mutex
	created []string
	deleted []string
}

func (r *recordedEvents) CommentCreated(postID string, comment models.CommentResponse) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, postID+"/"+comment.ID)
}

func (r *recordedEvents) CommentDeleted(postID, commentID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, postID+"/"+commentID)
}

type recordedNotifier struct {
	calls []string
}

func (r *recordedNotifier) NotifyComment(postID, commenterID string, comment models.CommentResponse) {
	r.calls = append(r.calls, postID+"/"+commenterID)
}

func newCommentService(t *testing.T) (*CommentService, *UserService) {
	t.Helper()
	users, _ := newUserService()
	return NewCommentService(testutils.NewMemoryComments(), users), users
}

func TestCommentService_CreateComment(t *testing.T) {
	comments, users := newCommentService(t)
	events := &recordedEvents{}
	notifier := &recordedNotifier{}
	comments.SetEvents(events)
	comments.SetNotifier(notifier)
	ctx := context.Background()

	aliceID := signup(t, users, "alice")
	bobID := signup(t, users, "bob")
	if _, err := users.Follow(ctx, "alice", bobID); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	_, err := comments.CreateComment(ctx, "post1", models.CommentRequest{Content: "   "}, aliceID)
	assertCode(t, err, ErrorCodeValidation)

	resp, err := comments.CreateComment(ctx, "post1", models.CommentRequest{Content: "first!"}, aliceID)
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if resp.Comment.Content != "first!" || resp.Comment.ID == "" {
		t.Fatalf("unexpected comment: %+v", resp.Comment)
	}
	if resp.Comment.Author.AccountName != "alice" {
		t.Fatalf("expected alice as author, got %+v", resp.Comment.Author)
	}
	// alice does not follow herself; bob follows alice.
	if resp.Comment.Author.IsFollow {
		t.Fatalf("isfollow should be false for the author viewing their own comment")
	}

	list, err := comments.GetCommentList(ctx, "post1", bobID, 10, 0)
	if err != nil {
		t.Fatalf("GetCommentList: %v", err)
	}
	if len(list.Comment) != 1 || !list.Comment[0].Author.IsFollow {
		t.Fatalf("expected isfollow true for bob, got %+v", list.Comment)
	}

	if len(events.created) != 1 || events.created[0] != "post1/"+resp.Comment.ID {
		t.Fatalf("expected created event, got %v", events.created)
	}
	if len(notifier.calls) != 1 || notifier.calls[0] != "post1/"+aliceID {
		t.Fatalf("expected notification, got %v", notifier.calls)
	}
}

func TestCommentService_CreateCommentUnknownAuthor(t *testing.T) {
	comments, _ := newCommentService(t)

	_, err := comments.CreateComment(context.Background(), "post1", models.CommentRequest{Content: "hi"}, "000000000000000000000000")
	assertCode(t, err, ErrorCodeNotFound)
}

func TestCommentService_GetCommentList(t *testing.T) {
	comments, users := newCommentService(t)
	ctx := context.Background()
	aliceID := signup(t, users, "alice")

	empty, err := comments.GetCommentList(ctx, "post1", aliceID, 10, 0)
	if err != nil {
		t.Fatalf("GetCommentList: %v", err)
	}
	if empty.Comment == nil || len(empty.Comment) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", empty.Comment)
	}

	for _, content := range []string{"one", "two", "three"} {
		if _, err := comments.CreateComment(ctx, "post1", models.CommentRequest{Content: content}, aliceID); err != nil {
			t.Fatalf("CreateComment: %v", err)
		}
	}
	if _, err := comments.CreateComment(ctx, "post2", models.CommentRequest{Content: "elsewhere"}, aliceID); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	page, err := comments.GetCommentList(ctx, "post1", aliceID, 2, 1)
	if err != nil {
		t.Fatalf("GetCommentList: %v", err)
	}
	if len(page.Comment) != 2 || page.Comment[0].Content != "two" || page.Comment[1].Content != "three" {
		t.Fatalf("unexpected page: %+v", page.Comment)
	}
}

func TestCommentService_DeleteComment(t *testing.T) {
	comments, users := newCommentService(t)
	events := &recordedEvents{}
	comments.SetEvents(events)
	ctx := context.Background()
	aliceID := signup(t, users, "alice")
	bobID := signup(t, users, "bob")

	created, err := comments.CreateComment(ctx, "post1", models.CommentRequest{Content: "mine"}, aliceID)
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	id := created.Comment.ID

	_, err = comments.DeleteComment(ctx, id, bobID)
	assertCode(t, err, ErrorCodeUnauthorized)

	msg, err := comments.DeleteComment(ctx, id, aliceID)
	if err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
	if msg != "comment deleted" {
		t.Fatalf("unexpected message %q", msg)
	}
	if len(events.deleted) != 1 || events.deleted[0] != "post1/"+id {
		t.Fatalf("expected deleted event, got %v", events.deleted)
	}

	_, err = comments.DeleteComment(ctx, id, aliceID)
	assertCode(t, err, ErrorCodeNotFound)

	_, err = comments.DeleteComment(ctx, "malformed", aliceID)
	assertCode(t, err, ErrorCodeNotFound)
}

func TestCommentService_ReportComment(t *testing.T) {
	comments, users := newCommentService(t)
	ctx := context.Background()
	aliceID := signup(t, users, "alice")

	created, err := comments.CreateComment(ctx, "post1", models.CommentRequest{Content: "spam"}, aliceID)
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	report, err := comments.ReportComment(ctx, created.Comment.ID)
	if err != nil {
		t.Fatalf("ReportComment: %v", err)
	}
	if report.Report.Comment != created.Comment.ID {
		t.Fatalf("unexpected report: %+v", report)
	}

	_, err = comments.ReportComment(ctx, "000000000000000000000000")
	assertCode(t, err, ErrorCodeNotFound)
}
