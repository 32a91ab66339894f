package service

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"snapgram/config"
	"snapgram/models"
	"snapgram/repository"

	"github.com/SherClockHolmes/webpush-go"
)

const (
	pushTimeout    = 5 * time.Second
	pushTTLSeconds = 30
	pushBodyLimit  = 100
)

type pushSender func(ctx context.Context, message []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)

// NotificationService sends web push messages to post authors. With no VAPID
// key pair configured every call is a no-op.
type NotificationService struct {
	subs  repository.PushSubscriptionRepository
	posts repository.PostRepository
	cfg   config.PushConfig
	send  pushSender
}

func NewNotificationService(subs repository.PushSubscriptionRepository, posts repository.PostRepository, cfg config.PushConfig) *NotificationService {
	return &NotificationService{
		subs:  subs,
		posts: posts,
		cfg:   cfg,
		send:  webpush.SendNotificationWithContext,
	}
}

func (s *NotificationService) Enabled() bool {
	return s.cfg.Enabled()
}

func (s *NotificationService) PublicKey() string {
	return s.cfg.VAPIDPublicKey
}

type SubscribeRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

func (s *NotificationService) Subscribe(ctx context.Context, userID string, req SubscribeRequest) error {
	if !strings.HasPrefix(req.Endpoint, "https://") || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		return NewValidationError("endpoint and keys are required")
	}
	sub := &models.PushSubscription{
		UserID:   userID,
		Endpoint: req.Endpoint,
		Keys:     models.PushKeys{P256dh: req.Keys.P256dh, Auth: req.Keys.Auth},
	}
	if err := s.subs.Upsert(ctx, sub); err != nil {
		log.Printf("[Push] save subscription for %s failed: %v", userID, err)
		return NewInternalError("failed to save subscription")
	}
	log.Printf("[Push] subscription saved for user %s", userID)
	return nil
}

// NotifyComment pushes a message to the post author in the background.
func (s *NotificationService) NotifyComment(postID, commenterID string, comment models.CommentResponse) {
	if !s.Enabled() {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Push] panic in comment notification: %v", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		defer cancel()
		s.notifyComment(ctx, postID, commenterID, comment)
	}()
}

// notifyComment returns the number of messages delivered.
func (s *NotificationService) notifyComment(ctx context.Context, postID, commenterID string, comment models.CommentResponse) int {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		log.Printf("[Push] post %s lookup failed: %v", postID, err)
		return 0
	}
	if post.AuthorID == commenterID {
		return 0
	}

	subs, err := s.subs.ListByUser(ctx, post.AuthorID)
	if err != nil {
		log.Printf("[Push] subscriptions of %s failed: %v", post.AuthorID, err)
		return 0
	}
	if len(subs) == 0 {
		return 0
	}

	body := comment.Content
	if len(body) > pushBodyLimit {
		body = body[:pushBodyLimit] + "..."
	}
	name := comment.Author.Username
	if name == "" {
		name = "Someone"
	}
	payload, err := json.Marshal(map[string]interface{}{
		"title": name + " commented on your post 💬",
		"body":  body,
		"data": map[string]interface{}{
			"postId":    postID,
			"commentId": comment.ID,
			"timestamp": time.Now().Unix(),
		},
	})
	if err != nil {
		log.Printf("[Push] marshal payload failed: %v", err)
		return 0
	}

	delivered := 0
	for _, sub := range subs {
		if s.push(ctx, payload, sub) {
			delivered++
		}
	}
	return delivered
}

func (s *NotificationService) push(ctx context.Context, payload []byte, sub models.PushSubscription) bool {
	resp, err := s.send(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys:     webpush.Keys{P256dh: sub.Keys.P256dh, Auth: sub.Keys.Auth},
	}, &webpush.Options{
		Subscriber:      s.cfg.Subscriber,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		TTL:             pushTTLSeconds,
	})
	if err != nil {
		log.Printf("[Push] send to %s failed: %v", sub.UserID, err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
		log.Printf("[Push] subscription of %s expired, deleting", sub.UserID)
		if err := s.subs.DeleteByEndpoint(ctx, sub.Endpoint); err != nil {
			log.Printf("[Push] delete expired subscription failed: %v", err)
		}
		return false
	}
	if resp.StatusCode >= http.StatusBadRequest {
		log.Printf("[Push] push service answered %d for %s", resp.StatusCode, sub.UserID)
		return false
	}
	return true
}
