package models

import (
	"time"

	"gorm.io/gorm"
)

// CategoryBudget 分类预算
type CategoryBudget struct {
	Category string  `json:"category" bson:"category"`
	Limit    float64 `json:"limit" bson:"limit"`
}

// User 用户模型
type User struct {
	ID              string           `json:"id" bson:"_id" gorm:"primaryKey;size:36"`
	Name            string           `json:"name" bson:"name" gorm:"size:100;not null"`
	Email           string           `json:"email" bson:"email" gorm:"uniqueIndex;size:255;not null"`
	MonthlyBudget   float64          `json:"monthlyBudget" bson:"monthlyBudget" gorm:"not null"`
	CategoryBudgets []CategoryBudget `json:"categoryBudgets" bson:"categoryBudgets" gorm:"serializer:json"`
	WebhookURL      string           `json:"webhookUrl,omitempty" bson:"webhookUrl,omitempty" gorm:"size:500"`
	CreatedAt       time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt" bson:"updatedAt"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(*gorm.DB) error {
	assignID(&u.ID)
	return nil
}

// CategoryLimit 查找分类预算，同名多条时后者生效
func (u *User) CategoryLimit(category string) (float64, bool) {
	var (
		limit float64
		found bool
	)
	for _, b := range u.CategoryBudgets {
		if b.Category == category {
			limit, found = b.Limit, true
		}
	}
	return limit, found
}
