package service

import (
	"strings"

	"leafhub/internal/microservices/http-api/dto"
	"leafhub/internal/microservices/http-api/models"
	"leafhub/internal/microservices/http-api/repository"
	"leafhub/internal/shared"
)

const maxCommentLen = 1000

type CommentService interface {
	CreateComment(userID, author, authorEmail string, postID int64, parentCommentID *int64, content string) (*dto.CommentResponse, error)
	GetPostComments(postID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error)
	Like(commentID int64, identity string) (*dto.LikeResponse, error)
	Unlike(commentID int64, identity string) (*dto.LikeResponse, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// CreateComment creates a new comment on a post, optionally as a reply to
// an existing top-level comment (one level of threading only).
func (s *commentService) CreateComment(userID, author, authorEmail string, postID int64, parentCommentID *int64, content string) (*dto.CommentResponse, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, shared.NewValidationError("content", "must not be empty")
	}
	if len(content) > maxCommentLen {
		return nil, shared.NewValidationError("content", "must be at most 1000 characters")
	}

	// Check if post exists
	if _, err := s.postRepo.GetByID(postID); err != nil {
		return nil, err
	}

	if parentCommentID != nil {
		parent, err := s.commentRepo.GetByID(*parentCommentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, shared.NewValidationError("parent_comment_id", "parent comment belongs to a different post")
		}
		if parent.ParentCommentID != nil {
			return nil, shared.NewValidationError("parent_comment_id", "replies can only nest one level")
		}
	}

	comment := &models.Comment{
		PostID:          postID,
		ParentCommentID: parentCommentID,
		UserID:          userID,
		Author:          author,
		AuthorEmail:     strings.ToLower(strings.TrimSpace(authorEmail)),
		Content:         content,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	return dto.FromModelToCommentResponse(comment), nil
}

// GetPostComments retrieves a post's comments chronologically with pagination
func (s *commentService) GetPostComments(postID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error) {
	// Check if post exists
	if _, err := s.postRepo.GetByID(postID); err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.GetByPost(postID, page, pageSize)
	if err != nil {
		return nil, err
	}

	commentResponses := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		commentResponses = append(commentResponses, *dto.FromModelToCommentResponse(&comment))
	}

	return dto.NewPaginatedCommentResponse(commentResponses, int(total), page, pageSize), nil
}

// Like adds identity to the comment's liked-by set. Idempotent: liking an
// already-liked comment is a no-op that reports the current count, so a
// duplicated request (network retry) cannot flip state back. The client
// states the desired end-state by choosing Like or Unlike; there is
// deliberately no stateful toggle.
func (s *commentService) Like(commentID int64, identity string) (*dto.LikeResponse, error) {
	identity, err := normalizeIdentity(identity)
	if err != nil {
		return nil, err
	}

	_, likes, err := s.commentRepo.AddLike(commentID, identity)
	if err != nil {
		return nil, err
	}

	return &dto.LikeResponse{Action: "liked", Likes: likes}, nil
}

// Unlike removes identity from the comment's liked-by set. Idempotent like Like.
func (s *commentService) Unlike(commentID int64, identity string) (*dto.LikeResponse, error) {
	identity, err := normalizeIdentity(identity)
	if err != nil {
		return nil, err
	}

	_, likes, err := s.commentRepo.RemoveLike(commentID, identity)
	if err != nil {
		return nil, err
	}

	return &dto.LikeResponse{Action: "unliked", Likes: likes}, nil
}

// normalizeIdentity lower-cases and trims the liker identity so the same
// email always maps to the same membership row
func normalizeIdentity(identity string) (string, error) {
	identity = strings.ToLower(strings.TrimSpace(identity))
	if identity == "" {
		return "", shared.NewValidationError("identity", "must not be empty")
	}
	return identity, nil
}
