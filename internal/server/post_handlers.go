package server

import (
	"alumnet/internal/middleware"
	"alumnet/internal/models"
	"alumnet/internal/service"

	"github.com/gofiber/fiber/v2"
)

// PostRequest is the body of POST /posts and PUT /posts/:id.
type PostRequest struct {
	Title    *string `json:"title" validate:"omitempty,max=200"`
	Content  *string `json:"content"`
	Image    *string `json:"image" validate:"omitempty,url"`
	IsPublic *bool   `json:"is_public"`
	Category *string `json:"category" validate:"omitempty,max=60"`
}

func (r PostRequest) input() service.PostInput {
	return service.PostInput{
		Title:    r.Title,
		Content:  r.Content,
		Image:    r.Image,
		IsPublic: r.IsPublic,
		Category: r.Category,
	}
}

// CommentRequest is the body of POST /posts/:id/comments.
type CommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// LikeResponse reports the like state after a toggle.
type LikeResponse struct {
	Liked bool `json:"liked"`
}

func postViews(posts []models.Post) []models.PostView {
	views := make([]models.PostView, 0, len(posts))
	for i := range posts {
		views = append(views, posts[i].View())
	}
	return views
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PostRequest true "Post"
// @Success 201 {object} models.Envelope{data=models.PostView}
// @Failure 400 {object} models.Envelope
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req PostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), middleware.CurrentUserID(c), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, "Post created", post.View())
}

// GetPosts handles GET /api/posts
// @Summary List public posts
// @Description Newest first, with like and comment counts.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param category query string false "Category filter"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} models.Envelope
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePage(c, service.DefaultPageSize)
	posts, total, err := s.postService.ListPosts(c.UserContext(), c.Query("category"), page)
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Posts retrieved", newPage(postViews(posts), page, total))
}

// GetMyPosts handles GET /api/posts/mine
// @Summary List the caller's posts
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} models.Envelope
// @Router /posts/mine [get]
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	page := parsePage(c, service.DefaultPageSize)
	posts, total, err := s.postService.ListMine(c.UserContext(), middleware.CurrentUserID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Posts retrieved", newPage(postViews(posts), page, total))
}

// GetPost handles GET /api/posts/:id
// @Summary Get a post
// @Description Private posts are visible only to their author and administrators.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.Envelope{data=models.PostView}
// @Failure 404 {object} models.Envelope
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), actor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Post retrieved", post.View())
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Update a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body PostRequest true "Fields to change"
// @Success 200 {object} models.Envelope{data=models.PostView}
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req PostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.UpdatePost(c.UserContext(), actor(c), id, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Post updated", post.View())
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), actor(c), id); err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Post deleted", nil)
}

// ToggleLike handles POST /api/posts/:id/like
// @Summary Like or unlike a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.Envelope{data=LikeResponse}
// @Failure 404 {object} models.Envelope
// @Router /posts/{id}/like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	liked, err := s.postService.ToggleLike(c.UserContext(), actor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	msg := "Post unliked"
	if liked {
		msg = "Post liked"
	}
	return models.Respond(c, fiber.StatusOK, msg, LikeResponse{Liked: liked})
}

// GetComments handles GET /api/posts/:id/comments
// @Summary List comments on a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /posts/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePage(c, service.DefaultPageSize)

	comments, total, err := s.postService.ListComments(c.UserContext(), actor(c), id, page)
	if err != nil {
		return respondError(c, err)
	}

	views := make([]models.CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, models.CommentView{Comment: comments[i], AuthorSummary: comments[i].Author.Summary()})
	}
	return models.Respond(c, fiber.StatusOK, "Comments retrieved", newPage(views, page, total))
}

// CreateComment handles POST /api/posts/:id/comments
// @Summary Comment on a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body CommentRequest true "Comment"
// @Success 201 {object} models.Envelope{data=models.Comment}
// @Failure 400 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /posts/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req CommentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.postService.AddComment(c.UserContext(), actor(c), id, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, "Comment added", comment)
}
