// router.go - Assembles the Gin engine and its routes

package handlers

import (
	"net/http"

	"go-blog-backend/config"
	"go-blog-backend/middleware"
	"go-blog-backend/services"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the HTTP layer needs
type Deps struct {
	Auth       *services.AuthService
	Posts      *services.PostService
	Profile    *services.ProfileService
	UploadsDir string
	CORS       config.CORSConfig
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.Default() // Logger and Recovery, so one bad request never takes the process down

	r.Use(middleware.CORS(d.CORS))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/uploads/"}))) // Images are already compressed

	r.Static("/uploads", d.UploadsDir) // Avatars and thumbnails by file name

	users := NewUserHandler(d.Auth, d.Profile)
	posts := NewPostHandler(d.Posts)
	requireAuth := middleware.AuthMiddleware(d.Auth)

	api := r.Group("/api")
	{
		u := api.Group("/users")
		u.POST("/register", users.Register)
		u.POST("/login", users.Login)
		u.GET("/authors", users.GetAuthors)
		u.GET("/:id", users.GetUser)
		u.POST("/change-avatar", requireAuth, users.ChangeAvatar)
		u.POST("/edit-user", requireAuth, users.EditUser)
		u.PATCH("/edit-user", requireAuth, users.EditUser)

		p := api.Group("/posts")
		p.POST("", requireAuth, posts.CreatePost)
		p.GET("", posts.GetPosts)
		p.GET("/categories/:category", posts.GetCategoryPosts)
		p.GET("/users/:id", posts.GetUserPosts)
		p.GET("/:id", posts.GetPost)
		p.PATCH("/:id", requireAuth, posts.EditPost)
		p.DELETE("/:id", requireAuth, posts.DeletePost)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	return r
}
