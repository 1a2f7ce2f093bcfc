package service

import (
	"context"
	"strings"

	"alumnet/internal/models"
	"alumnet/internal/repository"
)

const (
	maxTitleLen   = 200
	maxCommentLen = 2000
)

// PostService provides post, like and comment business logic.
type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, commentRepo repository.CommentRepository) *PostService {
	return &PostService{postRepo: postRepo, commentRepo: commentRepo}
}

// PostInput is the writable part of a post. Nil fields are left unchanged on
// update; IsPublic defaults to true on create.
type PostInput struct {
	Title    *string
	Content  *string
	Image    *string
	IsPublic *bool
	Category *string
}

func (in PostInput) apply(p *models.Post) error {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		p.Content = strings.TrimSpace(*in.Content)
	}
	if in.Image != nil {
		p.Image = strings.TrimSpace(*in.Image)
	}
	if in.IsPublic != nil {
		p.IsPublic = *in.IsPublic
	}
	if in.Category != nil {
		p.Category = strings.ToLower(strings.TrimSpace(*in.Category))
	}

	if p.Title == "" || p.Content == "" {
		return models.NewValidationError("Title and content are required")
	}
	if len(p.Title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 200 characters)")
	}
	return nil
}

// CreatePost publishes a post by authorID.
func (s *PostService) CreatePost(ctx context.Context, authorID uint, in PostInput) (*models.Post, error) {
	post := &models.Post{AuthorID: authorID, IsPublic: true}
	if err := in.apply(post); err != nil {
		return nil, err
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// ListPosts returns public posts newest first.
func (s *PostService) ListPosts(ctx context.Context, category string, page Page) ([]models.Post, int64, error) {
	return s.postRepo.List(ctx, repository.PostFilter{
		PublicOnly: true,
		Category:   strings.ToLower(strings.TrimSpace(category)),
		Limit:      page.Size,
		Offset:     page.Offset(),
	})
}

// ListMine returns every post by authorID, private ones included.
func (s *PostService) ListMine(ctx context.Context, authorID uint, page Page) ([]models.Post, int64, error) {
	return s.postRepo.List(ctx, repository.PostFilter{
		AuthorID: authorID,
		Limit:    page.Size,
		Offset:   page.Offset(),
	})
}

// GetPost returns a post. Private posts are only visible to their author and
// admins; anyone else gets NotFound.
func (s *PostService) GetPost(ctx context.Context, actor Actor, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.IsPublic && !actor.CanModify(post.AuthorID) {
		return nil, models.NewNotFoundError("Post", id)
	}
	return post, nil
}

// UpdatePost edits a post. Only its author or an admin may do so.
func (s *PostService) UpdatePost(ctx context.Context, actor Actor, id uint, in PostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(post.AuthorID) {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}
	if err := in.apply(post); err != nil {
		return nil, err
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post with its likes and comments.
func (s *PostService) DeletePost(ctx context.Context, actor Actor, id uint) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanModify(post.AuthorID) {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, id)
}

// ToggleLike likes the post, or unlikes it when already liked.
func (s *PostService) ToggleLike(ctx context.Context, actor Actor, postID uint) (bool, error) {
	if _, err := s.GetPost(ctx, actor, postID); err != nil {
		return false, err
	}
	return s.postRepo.ToggleLike(ctx, actor.UserID, postID)
}

// AddComment replies to a visible post.
func (s *PostService) AddComment(ctx context.Context, actor Actor, postID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}
	if _, err := s.GetPost(ctx, actor, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{Content: content, PostID: postID, AuthorID: actor.UserID}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns a visible post's comments oldest first.
func (s *PostService) ListComments(ctx context.Context, actor Actor, postID uint, page Page) ([]models.Comment, int64, error) {
	if _, err := s.GetPost(ctx, actor, postID); err != nil {
		return nil, 0, err
	}
	return s.commentRepo.ListByPost(ctx, postID, page.Size, page.Offset())
}
