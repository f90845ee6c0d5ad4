package models

import (
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Category 消费类别
type Category struct {
	ID        string    `json:"id" bson:"_id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" bson:"name" gorm:"size:50;not null"`
	Slug      string    `json:"slug" bson:"slug" gorm:"size:60;not null;uniqueIndex"`
	Emoji     string    `json:"emoji,omitempty" bson:"emoji,omitempty" gorm:"size:16"`
	Color     string    `json:"color,omitempty" bson:"color,omitempty" gorm:"size:20"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}

var (
	slugStrip  = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpace  = regexp.MustCompile(`\s+`)
	slugDashes = regexp.MustCompile(`-+`)
)

// Slugify 名称转 slug："Food & Drinks" -> "food-drinks"
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpace.ReplaceAllString(s, "-")
	return slugDashes.ReplaceAllString(s, "-")
}
