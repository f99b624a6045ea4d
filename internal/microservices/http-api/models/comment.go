package models

import "time"

// Comment belongs to a post, with one optional level of threading via
// ParentCommentID. Likes mirrors the number of comment_likes rows for this
// comment; both are mutated together inside a single transaction so the
// counter never drifts from the membership set.
type Comment struct {
	ID              int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	PostID          int64  `json:"post_id" gorm:"not null;index:idx_comments_post_created,priority:1"`
	ParentCommentID *int64 `json:"parent_comment_id,omitempty" gorm:"index"`
	UserID          string `json:"user_id" gorm:"type:uuid;not null;index"`
	Author          string `json:"author" gorm:"not null"`
	AuthorEmail     string `json:"author_email" gorm:"not null"` // normalized lower-case
	Content         string `json:"content" gorm:"not null;size:1000"`
	Likes           int64  `json:"likes" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index:idx_comments_post_created,priority:2"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Post          Post          `json:"post,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;"`
	User          User          `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	ParentComment *Comment      `json:"parent_comment,omitempty" gorm:"foreignKey:ParentCommentID"`
	LikedBy       []CommentLike `json:"liked_by,omitempty" gorm:"foreignKey:CommentID"`
}

func (Comment) TableName() string {
	return "comments"
}

// CommentLike is one identity's membership in a comment's liked-by set.
// The composite unique index is what makes like/unlike idempotent: a
// duplicate like is a conflicting insert that affects zero rows.
type CommentLike struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CommentID int64     `json:"comment_id" gorm:"not null;uniqueIndex:idx_comment_likes_member"`
	Identity  string    `json:"identity" gorm:"not null;uniqueIndex:idx_comment_likes_member"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Comment Comment `json:"comment,omitempty" gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE;"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}
