package models

import (
	"time"

	"gorm.io/gorm"
)

// CadenceMonthly 目前只支持按月
const CadenceMonthly = "monthly"

// RecurringExpense 周期支出模板
type RecurringExpense struct {
	ID         string    `json:"id" bson:"_id" gorm:"primaryKey;size:36"`
	Title      string    `json:"title" bson:"title" gorm:"size:200;not null"`
	Amount     float64   `json:"amount" bson:"amount" gorm:"not null"`
	Category   string    `json:"category" bson:"category" gorm:"size:50;not null"`
	DayOfMonth int       `json:"dayOfMonth" bson:"dayOfMonth" gorm:"not null"`
	Cadence    string    `json:"cadence" bson:"cadence" gorm:"size:20;default:monthly"`
	Tags       []string  `json:"tags" bson:"tags" gorm:"serializer:json"`
	Note       string    `json:"note,omitempty" bson:"note,omitempty" gorm:"size:500"`
	UserID     string    `json:"userId" bson:"userId" gorm:"size:36;not null;index:idx_recurring_due,priority:1"`
	Active     bool      `json:"active" bson:"active" gorm:"not null;index:idx_recurring_due,priority:3"`
	NextRun    time.Time `json:"nextRun" bson:"nextRun" gorm:"not null;index:idx_recurring_due,priority:2"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

// TableName 设置表名
func (RecurringExpense) TableName() string {
	return "recurring_expenses"
}

func (r *RecurringExpense) BeforeCreate(*gorm.DB) error {
	assignID(&r.ID)
	return nil
}
