package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"leafhub/internal/microservices/http-api/dto"
	"leafhub/internal/microservices/http-api/handler"
	"leafhub/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- MOCK SERVICE ---

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) CreateComment(userID, author, authorEmail string, postID int64, parentCommentID *int64, content string) (*dto.CommentResponse, error) {
	args := m.Called(userID, author, authorEmail, postID, parentCommentID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) GetPostComments(postID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error) {
	args := m.Called(postID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedCommentResponse), args.Error(1)
}

func (m *MockCommentService) Like(commentID int64, identity string) (*dto.LikeResponse, error) {
	args := m.Called(commentID, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LikeResponse), args.Error(1)
}

func (m *MockCommentService) Unlike(commentID int64, identity string) (*dto.LikeResponse, error) {
	args := m.Called(commentID, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LikeResponse), args.Error(1)
}

// --- SETUP ---

func fakeAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", "test-user-id")
		c.Set("username", "testuser")
		c.Set("email", "testuser@example.com")
		c.Next()
	}
}

func setupCommentRouter(mockService *MockCommentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewCommentHandler(mockService)

	api := r.Group("/api")
	api.Use(fakeAuthMiddleware())
	h.RegisterRoutes(api)
	return r
}

// --- TESTS ---

func TestCommentHandler_Like(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockCommentService)
		r := setupCommentRouter(mockService)

		mockService.On("Like", int64(42), "testuser@example.com").
			Return(&dto.LikeResponse{Action: "liked", Likes: 7}, nil).Once()

		req, _ := http.NewRequest(http.MethodPut, "/api/comments/42/like", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.LikeResponse
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, "liked", response.Action)
		assert.Equal(t, int64(7), response.Likes)
		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockCommentService)
		r := setupCommentRouter(mockService)

		mockService.On("Like", int64(404), "testuser@example.com").
			Return(nil, shared.ErrNotFound).Once()

		req, _ := http.NewRequest(http.MethodPut, "/api/comments/404/like", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("InvalidID", func(t *testing.T) {
		mockService := new(MockCommentService)
		r := setupCommentRouter(mockService)

		req, _ := http.NewRequest(http.MethodPut, "/api/comments/abc/like", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Like", mock.Anything, mock.Anything)
	})

	t.Run("ValidationError", func(t *testing.T) {
		mockService := new(MockCommentService)
		r := setupCommentRouter(mockService)

		mockService.On("Like", int64(1), "testuser@example.com").
			Return(nil, shared.NewValidationError("identity", "must not be empty")).Once()

		req, _ := http.NewRequest(http.MethodPut, "/api/comments/1/like", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ConcurrencyConflict", func(t *testing.T) {
		mockService := new(MockCommentService)
		r := setupCommentRouter(mockService)

		mockService.On("Like", int64(1), "testuser@example.com").
			Return(nil, shared.ErrConcurrency).Once()

		req, _ := http.NewRequest(http.MethodPut, "/api/comments/1/like", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestCommentHandler_Unlike(t *testing.T) {
	mockService := new(MockCommentService)
	r := setupCommentRouter(mockService)

	mockService.On("Unlike", int64(42), "testuser@example.com").
		Return(&dto.LikeResponse{Action: "unliked", Likes: 6}, nil).Once()

	req, _ := http.NewRequest(http.MethodDelete, "/api/comments/42/like", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response dto.LikeResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "unliked", response.Action)
	assert.Equal(t, int64(6), response.Likes)
	mockService.AssertExpectations(t)
}

func TestCommentHandler_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockCommentService)
		r := setupCommentRouter(mockService)

		mockService.On("CreateComment", "test-user-id", "testuser", "testuser@example.com", int64(1), (*int64)(nil), "Nice diagnosis").
			Return(&dto.CommentResponse{ID: 10, PostID: 1, Content: "Nice diagnosis"}, nil).Once()

		body, _ := json.Marshal(dto.CreateCommentDTO{Content: "Nice diagnosis"})
		req, _ := http.NewRequest(http.MethodPost, "/api/posts/1/comments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("PostNotFound", func(t *testing.T) {
		mockService := new(MockCommentService)
		r := setupCommentRouter(mockService)

		mockService.On("CreateComment", "test-user-id", "testuser", "testuser@example.com", int64(9), (*int64)(nil), "hello").
			Return(nil, shared.ErrNotFound).Once()

		body, _ := json.Marshal(dto.CreateCommentDTO{Content: "hello"})
		req, _ := http.NewRequest(http.MethodPost, "/api/posts/9/comments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("MissingContent", func(t *testing.T) {
		mockService := new(MockCommentService)
		r := setupCommentRouter(mockService)

		req, _ := http.NewRequest(http.MethodPost, "/api/posts/1/comments", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCommentHandler_ListByPost(t *testing.T) {
	mockService := new(MockCommentService)
	r := setupCommentRouter(mockService)

	mockService.On("GetPostComments", int64(1), 1, 20).Return(&dto.PaginatedCommentResponse{
		Data:     []dto.CommentResponse{{ID: 1, PostID: 1, Content: "first"}},
		Page:     1,
		PageSize: 20,
		Total:    1,
	}, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/posts/1/comments", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response dto.PaginatedCommentResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response.Data, 1)
	assert.Equal(t, "first", response.Data[0].Content)
	mockService.AssertExpectations(t)
}
