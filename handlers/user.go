// user.go - Handles registration, login and author profiles

package handlers // Declares the package name

import ( // Import required packages
	"fmt"      // For response messages
	"net/http" // HTTP status codes

	"go-blog-backend/config"     // Upload size limits
	"go-blog-backend/middleware" // Acting user from the token
	"go-blog-backend/services"   // Auth and profile logic

	"github.com/gin-gonic/gin" // Gin web framework
)

type RegisterInput struct { // Struct for registration input
	Name      string `json:"name" binding:"required"`      // Display name (required)
	Email     string `json:"email" binding:"required"`     // Email (required)
	Password  string `json:"password" binding:"required"`  // Password (required)
	Password2 string `json:"password2" binding:"required"` // Password confirmation (required)
}

type LoginInput struct { // Struct for login input
	Email    string `json:"email" binding:"required"`    // Email (required)
	Password string `json:"password" binding:"required"` // Password (required)
}

type EditUserInput struct { // Struct for profile edits
	Name               string `json:"name" binding:"required"`
	Email              string `json:"email" binding:"required"`
	CurrentPassword    string `json:"currentPassword" binding:"required"`
	NewPassword        string `json:"newPassword" binding:"required"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

type UserHandler struct {
	auth    *services.AuthService
	profile *services.ProfileService
}

func NewUserHandler(auth *services.AuthService, profile *services.ProfileService) *UserHandler {
	return &UserHandler{auth: auth, profile: profile}
}

func (h *UserHandler) Register(c *gin.Context) { // Handler for user registration
	var input RegisterInput                          // Declare input variable
	if err := c.ShouldBindJSON(&input); err != nil { // Parse JSON input
		bindError(c, err) // Return 422 if invalid
		return
	}
	user, err := h.auth.Register(c.Request.Context(), services.RegisterInput{
		Name:            input.Name,
		Email:           input.Email,
		Password:        input.Password,
		ConfirmPassword: input.Password2,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": fmt.Sprintf("New user %s registered", user.Email)}) // Success response
}

func (h *UserHandler) Login(c *gin.Context) { // Handler for user login
	var input LoginInput                             // Declare input variable
	if err := c.ShouldBindJSON(&input); err != nil { // Parse JSON input
		bindError(c, err)
		return
	}
	session, err := h.auth.Login(c.Request.Context(), input.Email, input.Password) // Check credentials, sign token
	if err != nil {
		respondError(c, err) // Same 401 for unknown email and wrong password
		return
	}
	c.JSON(http.StatusOK, session) // Return token, id and name
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.profile.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetAuthors(c *gin.Context) {
	authors, err := h.profile.ListAuthors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, authors)
}

// ChangeAvatar expects a multipart form with an "avatar" file
func (h *UserHandler) ChangeAvatar(c *gin.Context) {
	limitBody(c, config.MaxAvatarSize)

	avatar, closeFile, err := formUpload(c, "avatar")
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeFile()

	user, err := h.profile.ChangeAvatar(c.Request.Context(), middleware.CurrentUserID(c), avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) EditUser(c *gin.Context) {
	var input EditUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	user, err := h.profile.EditUser(c.Request.Context(), middleware.CurrentUserID(c), services.EditUserInput{
		Name:               input.Name,
		Email:              input.Email,
		CurrentPassword:    input.CurrentPassword,
		NewPassword:        input.NewPassword,
		ConfirmNewPassword: input.ConfirmNewPassword,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
