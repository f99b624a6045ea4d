package repository

import (
	"errors"

	"leafhub/internal/microservices/http-api/models"
	"leafhub/internal/shared"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(commentID int64) (*models.Comment, error)
	GetByPost(postID int64, page, pageSize int) ([]models.Comment, int64, error)
	AddLike(commentID int64, identity string) (changed bool, likes int64, err error)
	RemoveLike(commentID int64, identity string) (changed bool, likes int64, err error)
	HasLiked(commentID int64, identity string) (bool, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create a new comment
func (r *commentRepository) Create(comment *models.Comment) error {
	err := r.db.Create(comment).Error
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return shared.ErrNotFound
		}
		return err
	}
	return nil
}

// GetByID retrieves a comment by its ID
func (r *commentRepository) GetByID(commentID int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.Where("id = ?", commentID).First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// GetByPost retrieves all comments for a post with pagination, in
// chronological order (served by the composite (post_id, created_at) index)
func (r *commentRepository) GetByPost(postID int64, page, pageSize int) ([]models.Comment, int64, error) {
	var comments []models.Comment
	var total int64

	// Count total comments
	if err := r.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Get paginated comments
	offset := (page - 1) * pageSize
	err := r.db.Where("post_id = ?", postID).
		Order("created_at ASC").
		Limit(pageSize).
		Offset(offset).
		Find(&comments).Error

	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// AddLike adds identity to the comment's liked-by set and bumps the counter,
// as one atomic conditional operation: the membership insert is ON CONFLICT
// DO NOTHING against the unique (comment_id, identity) index, and the counter
// moves only when that insert actually took a row. Loading the comment,
// inspecting the set in memory and saving the whole row back would lose
// updates when two likes on the same comment race; this never does.
func (r *commentRepository) AddLike(commentID int64, identity string) (bool, int64, error) {
	var likes int64
	changed := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		insert := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.CommentLike{CommentID: commentID, Identity: identity})
		if insert.Error != nil {
			var pgErr *pgconn.PgError
			if errors.As(insert.Error, &pgErr) && pgErr.Code == foreignKeyViolation {
				return shared.ErrNotFound
			}
			return insert.Error
		}

		if insert.RowsAffected == 1 {
			update := tx.Model(&models.Comment{}).
				Where("id = ?", commentID).
				UpdateColumn("likes", gorm.Expr("likes + 1"))
			if update.Error != nil {
				return update.Error
			}
			if update.RowsAffected == 0 {
				return shared.ErrNotFound
			}
			changed = true
		}

		return tx.Model(&models.Comment{}).
			Select("likes").
			Where("id = ?", commentID).
			Take(&likes).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, shared.ErrNotFound
		}
		return false, 0, err
	}
	return changed, likes, nil
}

// RemoveLike is the symmetric conditional removal: the counter decrements
// only when the membership row was actually deleted, so unliking a comment
// you never liked is a no-op that reports the current count.
func (r *commentRepository) RemoveLike(commentID int64, identity string) (bool, int64, error) {
	var likes int64
	changed := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		del := tx.Where("comment_id = ? AND identity = ?", commentID, identity).
			Delete(&models.CommentLike{})
		if del.Error != nil {
			return del.Error
		}

		if del.RowsAffected == 1 {
			update := tx.Model(&models.Comment{}).
				Where("id = ?", commentID).
				UpdateColumn("likes", gorm.Expr("likes - 1"))
			if update.Error != nil {
				return update.Error
			}
			if update.RowsAffected == 0 {
				return shared.ErrNotFound
			}
			changed = true
		}

		return tx.Model(&models.Comment{}).
			Select("likes").
			Where("id = ?", commentID).
			Take(&likes).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, shared.ErrNotFound
		}
		return false, 0, err
	}
	return changed, likes, nil
}

// HasLiked reports whether identity is in the comment's liked-by set
func (r *commentRepository) HasLiked(commentID int64, identity string) (bool, error) {
	var count int64
	err := r.db.Model(&models.CommentLike{}).
		Where("comment_id = ? AND identity = ?", commentID, identity).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
