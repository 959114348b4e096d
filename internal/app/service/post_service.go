package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"minisocial/internal/common"
	"minisocial/internal/domain/model"
	"minisocial/internal/domain/repository"

	"github.com/google/uuid"
)

const (
	MsgPostIncomplete = "userId and content are required"
	MsgUnknownOwner   = "User does not exist"
	MsgPostAdded      = "Post added successfully"
)

// PostEventPublisher receives an event for every stored post.
type PostEventPublisher interface {
	PublishPostCreated(ctx context.Context, event model.PostEvent) error
}

type PostService struct {
	postRepo  repository.PostRepository
	publisher PostEventPublisher // nil disables events
	logger    *slog.Logger
}

func NewPostService(postRepo repository.PostRepository, publisher PostEventPublisher, logger *slog.Logger) *PostService {
	return &PostService{postRepo: postRepo, publisher: publisher, logger: logger}
}

type AddPostRequest struct {
	UserID  int64  `json:"userId"`
	Content string `json:"content"`
}

func (s *PostService) AddPost(ctx context.Context, req AddPostRequest) (string, error) {
	if req.UserID == 0 || req.Content == "" {
		return "", common.NewPublicError(common.ErrValidation, MsgPostIncomplete)
	}

	post := &model.Post{UserID: req.UserID, Content: req.Content}
	if err := s.postRepo.Create(ctx, post); err != nil {
		if errors.Is(err, common.ErrInvalidOwner) {
			return "", common.NewPublicError(common.ErrInvalidOwner, MsgUnknownOwner)
		}
		return "", fmt.Errorf("failed to create post: %w", err)
	}

	s.publishCreated(ctx, post)
	return MsgPostAdded, nil
}

// ListPosts returns the posts owned by userID; an empty slice when there are none.
func (s *PostService) ListPosts(ctx context.Context, userID int64) ([]model.Post, error) {
	posts, err := s.postRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return posts, nil
}

// publishCreated is best effort: the post is already committed.
func (s *PostService) publishCreated(ctx context.Context, post *model.Post) {
	if s.publisher == nil {
		return
	}
	event := model.PostEvent{
		ID:        uuid.NewString(),
		Type:      model.EventPostCreated,
		PostID:    post.ID,
		UserID:    post.UserID,
		Content:   post.Content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishPostCreated(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish post event",
			slog.Int64("post_id", post.ID),
			slog.Any("error", err))
	}
}
