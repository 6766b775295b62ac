// profile.go - Author profiles and avatars

package services

import (
	"context"
	"errors"
	"strings"

	"go-blog-backend/config"
	"go-blog-backend/database"
	"go-blog-backend/logger"
	"go-blog-backend/models"
	"go-blog-backend/storage"

	"gorm.io/gorm"
)

type EditUserInput struct {
	Name               string
	Email              string
	CurrentPassword    string
	NewPassword        string
	ConfirmNewPassword string
}

type ProfileService struct {
	db      *gorm.DB
	uploads *storage.Uploads
}

func NewProfileService(store *database.Store, uploads *storage.Uploads) *ProfileService {
	return &ProfileService{db: store.DB, uploads: uploads}
}

func (s *ProfileService) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("User not found")
	}
	if err != nil {
		return nil, InternalError("couldn't load user", err)
	}
	return &user, nil
}

// ListAuthors returns every registered user, oldest account first
func (s *ProfileService) ListAuthors(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, InternalError("couldn't load authors", err)
	}
	return users, nil
}

// ChangeAvatar stores a new avatar for userID and drops the previous file, if any.
func (s *ProfileService) ChangeAvatar(ctx context.Context, userID string, avatar *storage.Upload) (*models.User, error) {
	if avatar == nil {
		return nil, ValidationError("Please choose an image")
	}
	if avatar.Size > config.MaxAvatarSize {
		return nil, ValidationError("Profile picture is too big. Should be less than 500KB")
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	fileName, err := s.uploads.Save(*avatar)
	if err != nil {
		return nil, InternalError("couldn't save avatar", err)
	}

	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("avatar", fileName)
	if res.Error != nil || res.RowsAffected == 0 {
		if rmErr := s.uploads.Remove(fileName); rmErr != nil {
			logger.Warningf("cleanup of avatar %s failed: %v", fileName, rmErr)
		}
		if res.Error != nil {
			return nil, InternalError("Avatar couldn't be changed", res.Error)
		}
		return nil, UpdateFailedError("Avatar couldn't be changed")
	}

	if user.Avatar != nil {
		if err := s.uploads.Remove(*user.Avatar); err != nil {
			logger.Warningf("removing old avatar %s of user %s failed: %v", *user.Avatar, userID, err)
		}
	}

	return s.GetUser(ctx, userID)
}

// EditUser changes name, email and password after checking the current password.
func (s *ProfileService) EditUser(ctx context.Context, userID string, in EditUserInput) (*models.User, error) {
	if blank(in.Name) || blank(in.Email) || in.CurrentPassword == "" || in.NewPassword == "" {
		return nil, ValidationError("Fill in all fields")
	}
	email := normalizeEmail(in.Email)

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var taken int64
	if err := db.Model(&models.User{}).Where("email = ? AND id <> ?", email, userID).Count(&taken).Error; err != nil {
		return nil, InternalError("couldn't update user", err)
	}
	if taken > 0 {
		return nil, ConflictError("Email already exists")
	}

	if !checkPassword(user.Password, in.CurrentPassword) {
		return nil, AuthError("Invalid current password")
	}
	if in.NewPassword != in.ConfirmNewPassword {
		return nil, ValidationError("New passwords do not match")
	}

	hash, err := hashPassword(in.NewPassword)
	if err != nil {
		return nil, InternalError("couldn't update user", err)
	}

	res := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"name":     strings.TrimSpace(in.Name),
		"email":    email,
		"password": hash,
	})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, ConflictError("Email already exists")
		}
		return nil, InternalError("couldn't update user", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, UpdateFailedError("couldn't update user")
	}

	return s.GetUser(ctx, userID)
}
