// posts.go - Post CRUD, thumbnail files and the owner's post counter

package services

import (
	"context"
	"errors"
	"unicode/utf8"

	"go-blog-backend/config"
	"go-blog-backend/database"
	"go-blog-backend/logger"
	"go-blog-backend/models"
	"go-blog-backend/storage"

	"gorm.io/gorm"
)

const minDescriptionLength = 12

const (
	TopicPostCreated = "blog/posts/created"
	TopicPostUpdated = "blog/posts/updated"
	TopicPostDeleted = "blog/posts/deleted"
)

// EventPublisher receives a notification after every successful post mutation
type EventPublisher interface {
	Publish(topic string, payload interface{}) error
}

type PostInput struct {
	Title       string
	Category    string
	Description string
}

type PostService struct {
	db      *gorm.DB
	uploads *storage.Uploads
	events  EventPublisher // nil disables events
}

func NewPostService(store *database.Store, uploads *storage.Uploads, events EventPublisher) *PostService {
	return &PostService{db: store.DB, uploads: uploads, events: events}
}

func (s *PostService) publish(topic string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(topic, payload); err != nil {
		logger.Warningf("publish %s failed: %v", topic, err)
	}
}

func checkThumbnail(thumb *storage.Upload) error {
	if thumb.Size > config.MaxThumbnailSize {
		return ValidationError("Thumbnail too big. File should be less than 2MB")
	}
	return nil
}

// CreatePost saves the thumbnail, then inserts the post and bumps the creator's counter in
// one transaction. The thumbnail is removed again if the transaction fails.
func (s *PostService) CreatePost(ctx context.Context, creatorID string, in PostInput, thumb *storage.Upload) (*models.Post, error) {
	if blank(in.Title) || blank(in.Category) || blank(in.Description) || thumb == nil {
		return nil, ValidationError("Fill in all fields and choose a thumbnail")
	}
	category := models.Category(in.Category)
	if !category.Valid() {
		return nil, ValidationError("%s is not a valid category", in.Category)
	}
	if err := checkThumbnail(thumb); err != nil {
		return nil, err
	}

	fileName, err := s.uploads.Save(*thumb)
	if err != nil {
		return nil, InternalError("couldn't save thumbnail", err)
	}

	post := &models.Post{
		CreatorID:   creatorID,
		Title:       in.Title,
		Category:    category,
		Description: in.Description,
		Thumbnail:   fileName,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		res := tx.Model(&models.User{}).Where("id = ?", creatorID).
			UpdateColumn("posts", gorm.Expr("posts + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return NotFoundError("User not found")
		}
		return nil
	})
	if err != nil {
		if rmErr := s.uploads.Remove(fileName); rmErr != nil {
			logger.Warningf("cleanup of thumbnail %s failed: %v", fileName, rmErr)
		}
		var svcErr *Error
		if errors.As(err, &svcErr) {
			return nil, svcErr
		}
		return nil, InternalError("Post couldn't be created", err)
	}

	logger.Infof("post %s created by %s", post.ID, creatorID)
	s.publish(TopicPostCreated, post)
	return post, nil
}

// ListPosts returns every post, most recently updated first
func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	if err := s.db.WithContext(ctx).Order("updated_at DESC").Find(&posts).Error; err != nil {
		return nil, InternalError("couldn't load posts", err)
	}
	return posts, nil
}

func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("Post not found")
	}
	if err != nil {
		return nil, InternalError("couldn't load post", err)
	}
	return &post, nil
}

// ListPostsByCategory returns the posts filed under category, newest first
func (s *PostService) ListPostsByCategory(ctx context.Context, category string) ([]models.Post, error) {
	posts := []models.Post{}
	err := s.db.WithContext(ctx).
		Where("category = ?", category).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, InternalError("couldn't load posts", err)
	}
	return posts, nil
}

// ListPostsByUser returns the posts created by userID, newest first
func (s *PostService) ListPostsByUser(ctx context.Context, userID string) ([]models.Post, error) {
	posts := []models.Post{}
	err := s.db.WithContext(ctx).
		Where("creator = ?", userID).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, InternalError("couldn't load posts", err)
	}
	return posts, nil
}

// EditPost updates a post owned by actingUserID. A replacement thumbnail is written before
// the record changes and the old file is only removed once the update has landed.
func (s *PostService) EditPost(ctx context.Context, actingUserID, postID string, in PostInput, thumb *storage.Upload) (*models.Post, error) {
	if blank(in.Title) || blank(in.Category) || utf8.RuneCountInString(in.Description) < minDescriptionLength {
		return nil, ValidationError("Fill in all fields")
	}
	category := models.Category(in.Category)
	if !category.Valid() {
		return nil, ValidationError("%s is not a valid category", in.Category)
	}

	old, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if old.CreatorID != actingUserID {
		return nil, ForbiddenError("Only the creator can edit this post")
	}

	changes := map[string]interface{}{
		"title":       in.Title,
		"category":    category,
		"description": in.Description,
	}
	var newFile string
	if thumb != nil {
		if err := checkThumbnail(thumb); err != nil {
			return nil, err
		}
		if newFile, err = s.uploads.Save(*thumb); err != nil {
			return nil, InternalError("couldn't save thumbnail", err)
		}
		changes["thumbnail"] = newFile
	}

	res := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND creator = ?", postID, actingUserID).
		Updates(changes)
	if res.Error != nil || res.RowsAffected == 0 {
		if newFile != "" {
			if rmErr := s.uploads.Remove(newFile); rmErr != nil {
				logger.Warningf("cleanup of thumbnail %s failed: %v", newFile, rmErr)
			}
		}
		if res.Error != nil {
			return nil, InternalError("couldn't update post", res.Error)
		}
		return nil, UpdateFailedError("couldn't update post")
	}

	if newFile != "" {
		if err := s.uploads.Remove(old.Thumbnail); err != nil {
			logger.Warningf("removing old thumbnail %s of post %s failed: %v", old.Thumbnail, postID, err)
		}
	}

	updated, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	s.publish(TopicPostUpdated, updated)
	return updated, nil
}

// DeletePost removes a post owned by actingUserID together with its thumbnail and decrements
// the owner's counter. A thumbnail that is already gone does not block deletion.
func (s *PostService) DeletePost(ctx context.Context, actingUserID, postID string) error {
	if blank(postID) {
		return ValidationError("Post unavailable")
	}

	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.CreatorID != actingUserID {
		return ForbiddenError("Post couldn't be deleted")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND creator = ?", postID, actingUserID).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 { // Someone else deleted it first
			return NotFoundError("Post not found")
		}
		return tx.Model(&models.User{}).
			Where("id = ? AND posts > 0", post.CreatorID).
			UpdateColumn("posts", gorm.Expr("posts - ?", 1)).Error
	})
	if err != nil {
		var svcErr *Error
		if errors.As(err, &svcErr) {
			return svcErr
		}
		return InternalError("Post couldn't be deleted", err)
	}

	if err := s.uploads.Remove(post.Thumbnail); err != nil {
		logger.Warningf("removing thumbnail %s of deleted post %s failed: %v", post.Thumbnail, postID, err)
	}

	logger.Infof("post %s deleted by %s", postID, actingUserID)
	s.publish(TopicPostDeleted, map[string]string{"id": post.ID, "creator": post.CreatorID})
	return nil
}
