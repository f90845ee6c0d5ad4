package models

import (
	"time"

	"gorm.io/gorm"
)

// Expense 消费记录模型
type Expense struct {
	ID        string    `json:"id" bson:"_id" gorm:"primaryKey;size:36"`
	Title     string    `json:"title" bson:"title" gorm:"size:200;not null"`
	Amount    float64   `json:"amount" bson:"amount" gorm:"not null"`
	Category  string    `json:"category" bson:"category" gorm:"size:50;not null"`
	Date      time.Time `json:"date" bson:"date" gorm:"not null;index:idx_expenses_user_date,priority:2,sort:desc"`
	Tags      []string  `json:"tags" bson:"tags" gorm:"serializer:json"`
	Note      string    `json:"note,omitempty" bson:"note,omitempty" gorm:"size:500"`
	UserID    string    `json:"userId" bson:"userId" gorm:"size:36;not null;index:idx_expenses_user_date,priority:1"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}

func (e *Expense) BeforeCreate(*gorm.DB) error {
	assignID(&e.ID)
	return nil
}

// 审计动作
const (
	AuditCreated   = "created"
	AuditImported  = "imported"
	AuditRecurring = "recurring"
)

// SnapshotVersion 当前快照结构版本
const SnapshotVersion = 1

// ExpenseSnapshot 写入时的消费记录快照，结构变化时递增 Version
type ExpenseSnapshot struct {
	Version  int       `json:"version" bson:"version"`
	Title    string    `json:"title" bson:"title"`
	Amount   float64   `json:"amount" bson:"amount"`
	Category string    `json:"category" bson:"category"`
	Date     time.Time `json:"date" bson:"date"`
	Tags     []string  `json:"tags" bson:"tags"`
	Note     string    `json:"note,omitempty" bson:"note,omitempty"`
	UserID   string    `json:"userId" bson:"userId"`
}

// Snapshot 生成当前版本的快照
func (e *Expense) Snapshot() ExpenseSnapshot {
	return ExpenseSnapshot{
		Version:  SnapshotVersion,
		Title:    e.Title,
		Amount:   e.Amount,
		Category: e.Category,
		Date:     e.Date,
		Tags:     append([]string(nil), e.Tags...),
		Note:     e.Note,
		UserID:   e.UserID,
	}
}

// ExpenseAudit 消费记录审计，只追加
type ExpenseAudit struct {
	ID        string          `json:"id" bson:"_id" gorm:"primaryKey;size:36"`
	ExpenseID string          `json:"expenseId" bson:"expenseId" gorm:"size:36;not null;index:idx_audits_expense_action,priority:1"`
	UserID    string          `json:"userId" bson:"userId" gorm:"size:36;not null"`
	Action    string          `json:"action" bson:"action" gorm:"size:20;not null;index:idx_audits_expense_action,priority:2"`
	Snapshot  ExpenseSnapshot `json:"snapshot" bson:"snapshot" gorm:"serializer:json"`
	CreatedAt time.Time       `json:"createdAt" bson:"createdAt"`
}

// TableName 设置表名
func (ExpenseAudit) TableName() string {
	return "expense_audits"
}

func (a *ExpenseAudit) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	return nil
}
