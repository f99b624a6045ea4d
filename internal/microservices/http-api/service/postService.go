package service

import (
	"strings"

	"leafhub/internal/microservices/http-api/dto"
	"leafhub/internal/microservices/http-api/models"
	"leafhub/internal/microservices/http-api/repository"
	"leafhub/internal/shared"
)

type PostService interface {
	CreatePost(userID, title, content string) (*dto.PostResponse, error)
	GetPostByID(postID int64) (*dto.PostResponse, error)
	GetPosts(page, pageSize int) (*dto.PaginatedPostResponse, error)
}

type postService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) PostService {
	return &postService{postRepo: postRepo}
}

// CreatePost creates a new discussion post
func (s *postService) CreatePost(userID, title, content string) (*dto.PostResponse, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewValidationError("title", "must not be empty")
	}

	post := &models.Post{
		UserID:  userID,
		Title:   title,
		Content: content,
	}

	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}

	return dto.FromModelToPostResponse(post), nil
}

// GetPostByID retrieves a post by ID
func (s *postService) GetPostByID(postID int64) (*dto.PostResponse, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToPostResponse(post), nil
}

// GetPosts retrieves posts with pagination
func (s *postService) GetPosts(page, pageSize int) (*dto.PaginatedPostResponse, error) {
	posts, total, err := s.postRepo.GetAll(page, pageSize)
	if err != nil {
		return nil, err
	}

	postResponses := make([]dto.PostResponse, 0, len(posts))
	for _, post := range posts {
		postResponses = append(postResponses, *dto.FromModelToPostResponse(&post))
	}

	return dto.NewPaginatedPostResponse(postResponses, int(total), page, pageSize), nil
}
