// post.go - Defines the Post model and its category enumeration

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryAgriculture   Category = "Agriculture"
	CategoryBusiness      Category = "Business"
	CategoryEducation     Category = "Education"
	CategoryArt           Category = "Art"
	CategoryInvestment    Category = "Investment"
	CategoryUncategorized Category = "Uncategorized"
	CategoryWeather       Category = "Weather"
)

// Categories lists every category a post may be filed under
var Categories = []Category{
	CategoryAgriculture,
	CategoryBusiness,
	CategoryEducation,
	CategoryArt,
	CategoryInvestment,
	CategoryUncategorized,
	CategoryWeather,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Post struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	CreatorID   string    `gorm:"column:creator;size:36;not null;index" json:"creator"` // Owning user, never changes
	Title       string    `gorm:"not null" json:"title"`
	Category    Category  `gorm:"not null;index" json:"category"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Thumbnail   string    `gorm:"not null" json:"thumbnail"` // File name inside the uploads directory
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"index" json:"updatedAt"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
