package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a piece of community content.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"size:200;not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	Image    string `json:"image,omitempty"`
	IsPublic bool   `gorm:"not null;index" json:"is_public"`
	Category string `gorm:"size:60;index" json:"category,omitempty"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"-"`
	// LikesCount is not persisted; computed at query time
	LikesCount int64 `gorm:"->;-:migration" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int64          `gorm:"->;-:migration" json:"comments_count"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// PostView is a post with its author summary.
type PostView struct {
	Post
	AuthorSummary UserSummary `json:"author"`
}

// View projects the post for API responses.
func (p *Post) View() PostView {
	return PostView{Post: *p, AuthorSummary: p.Author.Summary()}
}

// Comment is a reply on a post.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	AuthorID  uint           `gorm:"not null;index" json:"author_id"`
	Author    User           `gorm:"foreignKey:AuthorID" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CommentView is a comment with its author summary.
type CommentView struct {
	Comment
	AuthorSummary UserSummary `json:"author"`
}

// Like marks that an identity liked a post. Rows are hard-deleted on unlike.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
