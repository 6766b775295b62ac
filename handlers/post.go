// post.go - Handles post CRUD and thumbnail uploads

package handlers

import (
	"fmt"
	"net/http"

	"go-blog-backend/config"
	"go-blog-backend/middleware"
	"go-blog-backend/services"

	"github.com/gin-gonic/gin"
)

// PostInput is sent as multipart form fields (with an optional "thumbnail" file) or,
// for edits without a new thumbnail, as JSON
type PostInput struct {
	Title       string `form:"title" json:"title" binding:"required"`
	Category    string `form:"category" json:"category" binding:"required"`
	Description string `form:"description" json:"description" binding:"required"`
}

func (in PostInput) toService() services.PostInput {
	return services.PostInput{Title: in.Title, Category: in.Category, Description: in.Description}
}

type PostHandler struct {
	posts *services.PostService
}

func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	limitBody(c, config.MaxThumbnailSize)

	var input PostInput
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}
	thumb, closeFile, err := formUpload(c, "thumbnail")
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeFile()

	post, err := h.posts.CreatePost(c.Request.Context(), middleware.CurrentUserID(c), input.toService(), thumb)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) GetPosts(c *gin.Context) {
	posts, err := h.posts.ListPosts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.posts.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) GetCategoryPosts(c *gin.Context) {
	posts, err := h.posts.ListPostsByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) GetUserPosts(c *gin.Context) {
	posts, err := h.posts.ListPostsByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) EditPost(c *gin.Context) {
	limitBody(c, config.MaxThumbnailSize)

	var input PostInput
	if err := c.ShouldBind(&input); err != nil {
		bindError(c, err)
		return
	}
	thumb, closeFile, err := formUpload(c, "thumbnail")
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeFile()

	post, err := h.posts.EditPost(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), input.toService(), thumb)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	postID := c.Param("id")
	if err := h.posts.DeletePost(c.Request.Context(), middleware.CurrentUserID(c), postID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Post %s deleted successfully", postID)})
}
